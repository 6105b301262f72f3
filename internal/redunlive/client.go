package redunlive

import "context"

// NotAvailable is the degradation sentinel. Every failure path in the
// reconciliation engine resolves to this value instead of an error:
// the device fleet is unreliable hardware polled on a schedule, and
// callers must always get a well-formed status.
const NotAvailable = "not available"

// StatusClient performs remote get/set of named parameters on a device
// channel. Implementations own the wire format; the engine only sees
// parameter names and values. Calls may fail or time out; callers
// treat any error as unreachable hardware.
type StatusClient interface {
	// GetParams reads the named parameters from a device channel.
	// Parameters absent from the device response are omitted from the
	// returned map.
	GetParams(ctx context.Context, channel string, params []string) (map[string]string, error)

	// SetParams writes the given parameters on a device channel.
	SetParams(ctx context.Context, channel string, params map[string]string) error
}

// Logger is the minimal logging interface the engine needs.
// Satisfied by *logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
