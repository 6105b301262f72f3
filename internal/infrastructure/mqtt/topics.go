package mqtt

import "fmt"

// Topic prefixes for captrack's MQTT namespace.
//
// Scheme: captrack/{category}/{id}/{leaf}
const (
	// TopicPrefix is the base for all captrack topics.
	TopicPrefix = "captrack"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "captrack/system"
)

// Topics provides builders for captrack MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// AgentStatus returns the topic for one capture agent's status
// snapshot, keyed by serial number.
//
// Example: captrack/agent/SN033/status
func (Topics) AgentStatus(serial string) string {
	return fmt.Sprintf("%s/agent/%s/status", TopicPrefix, serial)
}

// LocationActive returns the topic for a room's active-livestream slot.
//
// Example: captrack/location/fake_room/active
func (Topics) LocationActive(locationID string) string {
	return fmt.Sprintf("%s/location/%s/active", TopicPrefix, locationID)
}

// SystemStatus returns the service status topic.
//
// Example: captrack/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllAgentStatuses returns a pattern matching every agent status topic.
//
// Pattern: captrack/agent/+/status
func (Topics) AllAgentStatuses() string {
	return fmt.Sprintf("%s/agent/+/status", TopicPrefix)
}
