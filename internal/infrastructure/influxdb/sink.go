package influxdb

import (
	"context"

	"github.com/avops/captrack/internal/redunlive"
)

// channelWriter is the slice of Client the sink needs; narrowed for
// testability.
type channelWriter interface {
	WriteChannelStatus(serial, agent, channel, status string, active bool)
}

// StatusSink records agent status snapshots as channel_status points,
// one per channel, so live-stream history can be graphed per device.
type StatusSink struct {
	writer channelWriter
}

// NewStatusSink creates a sink over a connected client.
func NewStatusSink(client *Client) *StatusSink {
	return &StatusSink{writer: client}
}

// PublishStatus implements redunlive.Sink. Writes are batched and
// non-blocking, so this never fails.
func (s *StatusSink) PublishStatus(_ context.Context, status redunlive.AgentStatus) error {
	for channel, state := range status.Channels {
		s.writer.WriteChannelStatus(
			status.Serial,
			status.Name,
			channel,
			state.Status,
			state.Status == status.Active,
		)
	}
	return nil
}
