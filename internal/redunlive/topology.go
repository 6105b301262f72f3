package redunlive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Topology is the raw room-to-device feed the mapper consumes.
type Topology struct {
	Locations map[string]RoomTopology `json:"locations"`
}

// RoomTopology describes the device assignments of one room.
type RoomTopology struct {
	Primary      *DeviceDescriptor   `json:"primary,omitempty"`
	Secondary    *DeviceDescriptor   `json:"secondary,omitempty"`
	Experimental []*DeviceDescriptor `json:"experimental,omitempty"`
}

// DeviceDescriptor describes one physical device in the feed. An
// empty or absent Channels map means the device has no channel
// assignments; the agent built from it degrades cleanly.
type DeviceDescriptor struct {
	Address         string                       `json:"address"`
	SerialNumber    string                       `json:"serial_number"`
	FirmwareVersion string                       `json:"firmware_version"`
	Channels        map[string]ChannelAssignment `json:"channels,omitempty"`
}

// ChannelAssignment maps a logical channel to its id on the device.
type ChannelAssignment struct {
	Channel string `json:"channel"`
}

// topologyFetchTimeout bounds the HTTP fetch of a remote feed.
const topologyFetchTimeout = 30 * time.Second

// LoadTopology reads a topology feed from a file path or an HTTP(S)
// URL.
func LoadTopology(ctx context.Context, source string) (*Topology, error) {
	var data []byte
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetchTopology(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("loading topology from %s: %w", source, err)
	}

	var topology Topology
	if err := json.Unmarshal(data, &topology); err != nil {
		return nil, fmt.Errorf("parsing topology: %w", err)
	}
	return &topology, nil
}

func fetchTopology(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, topologyFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return data, nil
}
