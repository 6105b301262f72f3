package redunlive

import (
	"context"
	"sort"
)

// ClientFactory builds a device status client for an address.
type ClientFactory func(address string) StatusClient

// MapResult aggregates everything MapTopology constructed.
type MapResult struct {
	Locations map[string]*CaLocation
	Agents    map[string]*CaptureAgent
}

// MapTopology builds the CaLocation/CaptureAgent graph from a raw
// topology feed.
//
// Agents are deduplicated by serial number across the whole feed: the
// same physical device appearing in several rooms yields one shared
// CaptureAgent instance, whose per-agent mutex keeps the shared state
// safe. Each agent performs one synchronous reconciliation pass as it
// is built, so population leaves statuses populated (or degraded for
// unreachable hardware).
//
// The room's active-livestream sentinel follows its primary device's
// firmware, defaulting to firmware "3" when the room has no primary.
func MapTopology(ctx context.Context, topology *Topology, factory ClientFactory, logger Logger) (*MapResult, error) {
	if logger == nil {
		logger = noopLogger{}
	}

	result := &MapResult{
		Locations: make(map[string]*CaLocation),
		Agents:    make(map[string]*CaptureAgent),
	}

	// deterministic room order
	rooms := make([]string, 0, len(topology.Locations))
	for name := range topology.Locations {
		rooms = append(rooms, name)
	}
	sort.Strings(rooms)

	for _, roomName := range rooms {
		room := topology.Locations[roomName]

		firmware := "3"
		if room.Primary != nil && room.Primary.FirmwareVersion != "" {
			firmware = room.Primary.FirmwareVersion
		}
		location := NewCaLocation(roomName, firmware)

		if room.Primary != nil {
			agent := buildAgent(ctx, room.Primary, factory, logger, result.Agents)
			if err := location.SetPrimary(agent); err != nil {
				return nil, err
			}
		}
		if room.Secondary != nil {
			agent := buildAgent(ctx, room.Secondary, factory, logger, result.Agents)
			if err := location.SetSecondary(agent); err != nil {
				return nil, err
			}
		}
		for _, desc := range room.Experimental {
			location.AddExperimental(buildAgent(ctx, desc, factory, logger, result.Agents))
		}

		result.Locations[location.ID()] = location
		logger.Debug("room mapped",
			"room", location.ID(), "active", location.ActiveLivestream())
	}

	return result, nil
}

// buildAgent returns the shared agent for a descriptor's serial
// number, constructing and syncing it on first sight.
func buildAgent(ctx context.Context, desc *DeviceDescriptor, factory ClientFactory, logger Logger, agents map[string]*CaptureAgent) *CaptureAgent {
	if existing, ok := agents[desc.SerialNumber]; ok {
		return existing
	}

	agent := NewCaptureAgent(desc.SerialNumber, desc.Address, desc.FirmwareVersion, logger)
	if factory != nil {
		agent.SetClient(factory(desc.Address))
	}
	for name, assignment := range desc.Channels {
		agent.AssignChannel(name, assignment.Channel)
	}

	agent.SyncLiveStatus(ctx)

	agents[desc.SerialNumber] = agent
	return agent
}
