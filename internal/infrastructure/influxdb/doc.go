// Package influxdb provides InfluxDB connectivity for captrack.
//
// It wraps the official influxdb-client-go v2 library for recording
// capture-agent status history: one channel_status point per observed
// channel, tagged by device serial, agent name and logical channel.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	poller.AddSink(influxdb.NewStatusSink(client))
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via
// SetOnError. Connection and health check errors are returned directly.
package influxdb
