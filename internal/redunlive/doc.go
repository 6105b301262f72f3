// Package redunlive reconciles capture agents' live-streaming publish
// status against real device state.
//
// Each physical device exposes two redundant streaming channels, live
// and lowBR, read through a firmware-dependent status parameter. The
// engine polls both, treats live as authoritative on divergence, and
// attempts a self-healing write to lowBR. Hardware flakiness is
// expected: every device I/O failure degrades to the NotAvailable
// sentinel rather than an error, so a monitoring pass over many
// devices always completes.
//
// The mapper builds the room/agent graph from a topology feed;
// the poller then re-syncs every agent on a schedule and fans status
// snapshots out to registered sinks.
package redunlive
