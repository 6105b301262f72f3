package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avops/captrack/internal/redunlive"
)

// retainedPublisher is the slice of Client the sink needs; narrowed
// for testability.
type retainedPublisher interface {
	PublishRetained(topic string, payload []byte) error
}

// StatusSink publishes agent status snapshots as retained messages on
// captrack/agent/{serial}/status, so subscribers always see the last
// known state of every device.
type StatusSink struct {
	publisher retainedPublisher
}

// NewStatusSink creates a sink over a connected client.
func NewStatusSink(client *Client) *StatusSink {
	return &StatusSink{publisher: client}
}

// PublishStatus implements redunlive.Sink.
func (s *StatusSink) PublishStatus(_ context.Context, status redunlive.AgentStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("mqtt: encoding agent status: %w", err)
	}
	return s.publisher.PublishRetained(Topics{}.AgentStatus(status.Serial), payload)
}
