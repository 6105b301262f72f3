// Package mqtt provides MQTT publishing for captrack.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// captrack publishes capture-agent status snapshots to
// captrack/agent/{serial}/status as retained messages, and its own
// liveness to captrack/system/status. It never subscribes; the bus is
// a one-way fan-out to dashboards and downstream automation.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	poller.AddSink(mqtt.NewStatusSink(client))
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
package mqtt
