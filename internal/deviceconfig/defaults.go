package deviceconfig

import "github.com/avops/captrack/internal/inventory"

// UnsetDeviceID is the sentinel for a channel or recorder that has not
// been mapped to a real id on the device. Building a configuration
// document fails while any id is at or above UnsetThreshold.
const (
	UnsetDeviceID  = 99999
	UnsetThreshold = 99998
)

// channelFlavor classifies how a channel's source layout is built.
type channelFlavor string

const (
	flavorLive channelFlavor = "live" // combined presenter+presentation
	flavorPr   channelFlavor = "pr"   // presenter only
	flavorPn   channelFlavor = "pn"   // presentation only
)

// channelDefault is the business-default encoding profile for one of
// the four standard channels.
type channelDefault struct {
	name         string
	flavor       channelFlavor
	audiobitrate int
	framesize    string
	vbitrate     int
}

// defaultChannels lists the four standard channels in creation order.
var defaultChannels = []channelDefault{
	{name: "dce_live", flavor: flavorLive, audiobitrate: 96, framesize: "1920x540", vbitrate: 4000},
	{name: "dce_live_lowbr", flavor: flavorLive, audiobitrate: 64, framesize: "960x270", vbitrate: 250},
	{name: "dce_pr", flavor: flavorPr, audiobitrate: 160, framesize: "1280x720", vbitrate: 9000},
	{name: "dce_pn", flavor: flavorPn, audiobitrate: 160, framesize: "1920x1080", vbitrate: 9000},
}

// isLive reports whether a flavor uses the combined layout and a
// streaming endpoint.
func (f channelFlavor) isLive() bool { return f == flavorLive }

// baseChannelConfig returns a channel config with the encoding
// defaults shared by every channel.
func baseChannelConfig(caID, name string) *inventory.ChannelConfig {
	return &inventory.ChannelConfig{
		CaID:              caID,
		Name:              name,
		ChannelIDInDevice: UnsetDeviceID,
		Audio:             true,
		Audiochannels:     "2",
		Audiopreset:       "libfaac;44100",
		Autoframesize:     false,
		Codec:             "h.264",
		Fpslimit:          30,
		Vencpreset:        "5",
		Vkeyframeinterval: 1,
		Vprofile:          "100",
	}
}

// defaultRecorderConfig returns the recorder defaults. The recorder is
// named after the room so device-side recordings sort by location.
func defaultRecorderConfig(caID, name string) *inventory.RecorderConfig {
	return &inventory.RecorderConfig{
		CaID:               caID,
		Name:               name,
		RecorderIDInDevice: UnsetDeviceID,
		OutputFormat:       "avi",
		SizeLimitKBytes:    64000000,
		TimeLimitMinutes:   360,
	}
}

// defaultMhpearlConfig returns the scheduling agent profile defaults.
func defaultMhpearlConfig(caID string) *inventory.MhpearlConfig {
	return &inventory.MhpearlConfig{
		CaID:               caID,
		FileSearchRangeSec: 60,
		UpdateFrequencySec: 120,
	}
}

// defaultVendorConfig returns vendor-wide device setting defaults.
func defaultVendorConfig(vendorID string) *inventory.VendorConfig {
	return &inventory.VendorConfig{
		VendorID:                 vendorID,
		SourceDeinterlacing:      true,
		MaintenancePermanentLogs: true,
		TouchscreenTimeoutSecs:   600,
	}
}

// defaultLocationConfig returns the standard room wiring: presenter on
// SDI input a, presentation on SDI input b, for both roles.
func defaultLocationConfig(locationID string) *inventory.LocationConfig {
	return &inventory.LocationConfig{
		LocationID:            locationID,
		PrimaryPrVconnector:   "sdi",
		PrimaryPrVinput:       "a",
		PrimaryPnVconnector:   "sdi",
		PrimaryPnVinput:       "b",
		SecondaryPrVconnector: "sdi",
		SecondaryPrVinput:     "a",
		SecondaryPnVconnector: "sdi",
		SecondaryPnVinput:     "b",
	}
}
