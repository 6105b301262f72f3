package redunlive

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/avops/captrack/internal/inventory"
)

// Channel names of the two redundant streaming pipelines per device.
const (
	ChannelLive  = "live"
	ChannelLowBR = "lowBR"
)

// firmwareProfile selects which status parameter is authoritative and
// which value means "actively publishing". Chosen once at construction.
type firmwareProfile struct {
	param  string
	active string
}

// profileFor returns the firmware strategy: firmware "3" devices report
// through publish_type ("6" when live), everything else through
// publish_enabled ("on" when live).
func profileFor(firmware string) firmwareProfile {
	if firmware == "3" {
		return firmwareProfile{param: "publish_type", active: "6"}
	}
	return firmwareProfile{param: "publish_enabled", active: "on"}
}

// channelState tracks one device channel: its assigned device-channel
// identifier and the last observed status value.
type channelState struct {
	channel string
	status  string
}

// ChannelStatus is a read-only copy of one channel's state.
type ChannelStatus struct {
	Channel string `json:"channel"`
	Status  string `json:"status"`
}

// AgentStatus is a point-in-time snapshot of a capture agent.
type AgentStatus struct {
	Serial     string                   `json:"serial_number"`
	Name       string                   `json:"name"`
	Address    string                   `json:"address"`
	Firmware   string                   `json:"firmware_version"`
	Param      string                   `json:"param"`
	Active     string                   `json:"active_value"`
	Channels   map[string]ChannelStatus `json:"channels"`
	LastUpdate time.Time                `json:"last_update"`
}

// CaptureAgent is an in-memory proxy for one physical device's two
// streaming channels. The device is the source of truth; when it is
// unreachable the proxy status degrades to NotAvailable.
//
// All exported methods lock the agent, so a scheduler may poll many
// agents concurrently as long as each agent has one mutation owner at
// a time, which the mutex enforces.
type CaptureAgent struct {
	mu sync.Mutex

	serial   string
	address  string
	name     string
	firmware string
	profile  firmwareProfile

	client     StatusClient
	logger     Logger
	lastUpdate time.Time
	channels   map[string]*channelState
}

// NewCaptureAgent creates an agent proxy. The display name derives
// from the hostname segment of the address. Channels start unassigned;
// use AssignChannel once the device-channel identifiers are known.
func NewCaptureAgent(serial, address, firmware string, logger Logger) *CaptureAgent {
	if logger == nil {
		logger = noopLogger{}
	}
	host, _, _ := strings.Cut(address, ".")
	return &CaptureAgent{
		serial:   serial,
		address:  address,
		name:     inventory.CleanName(host),
		firmware: firmware,
		profile:  profileFor(firmware),
		logger:   logger,
		channels: map[string]*channelState{
			ChannelLive:  {channel: NotAvailable, status: NotAvailable},
			ChannelLowBR: {channel: NotAvailable, status: NotAvailable},
		},
	}
}

// SetClient attaches the device status client. Without a client every
// read and write degrades to NotAvailable.
func (a *CaptureAgent) SetClient(client StatusClient) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.client = client
}

// AssignChannel maps a logical channel (live or lowBR) to its
// device-channel identifier.
func (a *CaptureAgent) AssignChannel(name, deviceChannel string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ch, ok := a.channels[name]; ok && deviceChannel != "" {
		ch.channel = deviceChannel
	}
}

// Serial returns the device serial number.
func (a *CaptureAgent) Serial() string { return a.serial }

// Address returns the device address.
func (a *CaptureAgent) Address() string { return a.address }

// Name returns the display name derived from the address.
func (a *CaptureAgent) Name() string { return a.name }

// Firmware returns the firmware version string.
func (a *CaptureAgent) Firmware() string { return a.firmware }

// Param returns the firmware-selected status parameter name.
func (a *CaptureAgent) Param() string { return a.profile.param }

// ActiveValue returns the firmware-selected "actively publishing"
// sentinel value.
func (a *CaptureAgent) ActiveValue() string { return a.profile.active }

// ChannelStatus returns the last observed status of a channel.
func (a *CaptureAgent) ChannelStatus(name string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ch, ok := a.channels[name]; ok {
		return ch.status
	}
	return NotAvailable
}

// LastUpdate returns the timestamp of the most recent successful
// device contact. Zero before any contact.
func (a *CaptureAgent) LastUpdate() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastUpdate
}

// Snapshot returns a copy of the agent's state for reporting.
func (a *CaptureAgent) Snapshot() AgentStatus {
	a.mu.Lock()
	defer a.mu.Unlock()

	channels := make(map[string]ChannelStatus, len(a.channels))
	for name, ch := range a.channels {
		channels[name] = ChannelStatus{Channel: ch.channel, Status: ch.status}
	}
	return AgentStatus{
		Serial:     a.serial,
		Name:       a.name,
		Address:    a.address,
		Firmware:   a.firmware,
		Param:      a.profile.param,
		Active:     a.profile.active,
		Channels:   channels,
		LastUpdate: a.lastUpdate,
	}
}

// getStatus reads a channel's publish status from the device.
// Unassigned channel or missing client short-circuits to NotAvailable
// without contacting the device. Any communication failure logs a
// warning and degrades to NotAvailable.
func (a *CaptureAgent) getStatus(ctx context.Context, name string) string {
	ch := a.channels[name]
	if ch.channel == NotAvailable || a.client == nil {
		return NotAvailable
	}

	response, err := a.client.GetParams(ctx, ch.channel, []string{a.profile.param})
	if err != nil {
		a.logger.Warn("unable to get channel status",
			"agent", a.name, "channel", name, "param", a.profile.param, "error", err)
		return NotAvailable
	}
	a.lastUpdate = time.Now().UTC()

	if value, ok := response[a.profile.param]; ok {
		return value
	}
	return NotAvailable
}

// setStatus writes a channel's publish status on the device. Returns
// the requested value on success, NotAvailable otherwise.
func (a *CaptureAgent) setStatus(ctx context.Context, name, value string) string {
	ch := a.channels[name]
	if ch.channel == NotAvailable || a.client == nil {
		return NotAvailable
	}

	err := a.client.SetParams(ctx, ch.channel, map[string]string{a.profile.param: value})
	if err != nil {
		a.logger.Warn("unable to set channel status",
			"agent", a.name, "channel", name, "param", a.profile.param,
			"value", value, "error", err)
		return NotAvailable
	}
	a.lastUpdate = time.Now().UTC()

	a.logger.Info("channel status set",
		"agent", a.name, "channel", name, "param", a.profile.param, "value", value)
	return value
}

// SyncLiveStatus reconciles the two channels. It reads both statuses;
// if they agree, both are recorded. If they diverge, live is
// authoritative: the engine writes lowBR to match and records whatever
// the write actually returned. There is no retry and no error on a
// failed fix; divergence is only logged.
func (a *CaptureAgent) SyncLiveStatus(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	live := a.getStatus(ctx, ChannelLive)
	lowBR := a.getStatus(ctx, ChannelLowBR)

	if live == lowBR {
		a.channels[ChannelLive].status = live
		a.channels[ChannelLowBR].status = lowBR
		return
	}

	a.logger.Warn("channel status diverged, trying to fix",
		"agent", a.name, "param", a.profile.param, "live", live, "lowBR", lowBR)

	value := a.setStatus(ctx, ChannelLowBR, live)
	if value == live {
		a.logger.Info("channel status fixed",
			"agent", a.name, "param", a.profile.param, "value", value)
	} else {
		a.logger.Warn("unable to fix channel status",
			"agent", a.name, "param", a.profile.param, "wanted", live)
	}

	// record whatever was possible to set
	a.channels[ChannelLive].status = live
	a.channels[ChannelLowBR].status = value
}

// WriteLiveStatus sets both channels to the requested status,
// independent of current state, recording per-channel what the write
// actually returned.
func (a *CaptureAgent) WriteLiveStatus(ctx context.Context, status string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, name := range []string{ChannelLive, ChannelLowBR} {
		a.channels[name].status = a.setStatus(ctx, name, status)
	}
}
