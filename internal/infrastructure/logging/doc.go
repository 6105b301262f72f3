// Package logging provides structured logging built on log/slog.
//
// Every logger carries the service name and version as default fields.
// Output format and level are driven by config.LoggingConfig, so JSON
// output for production and text output for local development are a
// config change rather than a code change.
//
// Components obtain a scoped logger via With:
//
//	log := logger.With("component", "poller")
//	log.Info("sync complete", "agents", n)
package logging
