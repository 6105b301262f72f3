package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteChannelStatus records one observed channel status for a capture
// agent.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Tags (low cardinality): serial number, agent name, logical channel.
// Fields: the raw status value and whether it matches the agent's
// actively-publishing sentinel.
func (c *Client) WriteChannelStatus(serial, agent, channel, status string, active bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"channel_status",
		map[string]string{
			"serial":  serial,
			"agent":   agent,
			"channel": channel,
		},
		map[string]interface{}{
			"status": status,
			"active": active,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
