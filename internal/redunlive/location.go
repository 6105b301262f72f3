package redunlive

import "github.com/avops/captrack/internal/inventory"

// Livestream slot names reported by ActiveLivestream.
const (
	SlotPrimary   = "primary"
	SlotSecondary = "secondary"
)

// CaLocation pairs a primary and secondary capture agent for one room,
// tracks which is actively streaming, and holds auxiliary experimental
// agents.
type CaLocation struct {
	id      string
	name    string
	profile firmwareProfile

	primary      *CaptureAgent
	secondary    *CaptureAgent
	experimental []*CaptureAgent
}

// NewCaLocation creates a room pairing. The firmware version selects
// the active-livestream sentinel used by ActiveLivestream.
func NewCaLocation(name, firmware string) *CaLocation {
	return &CaLocation{
		id:      inventory.CleanName(name),
		name:    name,
		profile: profileFor(firmware),
	}
}

// ID returns the identifier derived from the room name.
func (l *CaLocation) ID() string { return l.id }

// Name returns the room name.
func (l *CaLocation) Name() string { return l.name }

// Primary returns the primary agent, or nil.
func (l *CaLocation) Primary() *CaptureAgent { return l.primary }

// Secondary returns the secondary agent, or nil.
func (l *CaLocation) Secondary() *CaptureAgent { return l.secondary }

// Experimental returns the auxiliary agents.
func (l *CaLocation) Experimental() []*CaptureAgent { return l.experimental }

// SetPrimary assigns the primary agent. The identity check against the
// secondary slot runs before the assignment commits, so a rejected
// call leaves the pair unchanged.
func (l *CaLocation) SetPrimary(agent *CaptureAgent) error {
	if agent == nil {
		return ErrNilAgent
	}
	if l.secondary != nil && l.secondary.Serial() == agent.Serial() {
		return ErrSameDevice
	}
	l.primary = agent
	return nil
}

// SetSecondary assigns the secondary agent, validating against the
// primary slot before committing.
func (l *CaLocation) SetSecondary(agent *CaptureAgent) error {
	if agent == nil {
		return ErrNilAgent
	}
	if l.primary != nil && l.primary.Serial() == agent.Serial() {
		return ErrSameDevice
	}
	l.secondary = agent
	return nil
}

// AddExperimental appends an auxiliary agent.
func (l *CaLocation) AddExperimental(agent *CaptureAgent) {
	if agent != nil {
		l.experimental = append(l.experimental, agent)
	}
}

// ActiveLivestream reports which slot is actively streaming: primary
// is checked first, so if both appear active, primary wins. Returns
// the empty string when nobody is live.
func (l *CaLocation) ActiveLivestream() string {
	if l.primary != nil && l.primary.ChannelStatus(ChannelLive) == l.profile.active {
		return SlotPrimary
	}
	if l.secondary != nil && l.secondary.ChannelStatus(ChannelLive) == l.profile.active {
		return SlotSecondary
	}
	return ""
}
