package redunlive

import (
	"context"
	"time"
)

// Sink receives an agent's status after each reconciliation pass.
// Sinks are best-effort: a failing sink is logged and never interrupts
// the pass.
type Sink interface {
	PublishStatus(ctx context.Context, status AgentStatus) error
}

// Poller runs periodic reconciliation over a set of capture agents,
// fanning each agent's snapshot out to the registered sinks.
type Poller struct {
	agents   map[string]*CaptureAgent
	interval time.Duration
	sinks    []Sink
	logger   Logger
}

// NewPoller creates a poller over the given agents (keyed by serial
// number). A nil logger disables logging.
func NewPoller(agents map[string]*CaptureAgent, interval time.Duration, logger Logger) *Poller {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Poller{
		agents:   agents,
		interval: interval,
		logger:   logger,
	}
}

// AddSink registers a status sink. Not safe to call once Run has
// started.
func (p *Poller) AddSink(sink Sink) {
	if sink != nil {
		p.sinks = append(p.sinks, sink)
	}
}

// Run polls until the context is cancelled. The first pass runs after
// one full interval; population already synced every agent once.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("poller started",
		"agents", len(p.agents), "interval", p.interval.String())

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single reconciliation pass over every agent.
func (p *Poller) RunOnce(ctx context.Context) {
	for _, agent := range p.agents {
		if ctx.Err() != nil {
			return
		}
		agent.SyncLiveStatus(ctx)

		status := agent.Snapshot()
		for _, sink := range p.sinks {
			if err := sink.PublishStatus(ctx, status); err != nil {
				p.logger.Warn("status sink failed",
					"agent", status.Name, "error", err)
			}
		}
	}
}
