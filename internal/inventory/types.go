package inventory

import "time"

// Environment is the deployment environment of a scheduling cluster.
type Environment string

// Valid cluster environments.
const (
	EnvProd  Environment = "prod"
	EnvDev   Environment = "dev"
	EnvStage Environment = "stage"
)

// RoleName classifies a capture agent's duty in a room.
type RoleName string

// Valid role names. A location holds at most one primary and one
// secondary role but any number of experimental roles.
const (
	RolePrimary      RoleName = "primary"
	RoleSecondary    RoleName = "secondary"
	RoleExperimental RoleName = "experimental"
)

// UpdatableCaFields is the exact set of Ca fields that may change
// after creation. Everything else is immutable.
var UpdatableCaFields = map[string]bool{
	"name":          true,
	"address":       true,
	"serial_number": true,
}

// Location is a room where capture agents are installed.
// Its name is globally unique. Deleting a location cascades through
// its roles to the capture agents bound to it.
type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NameID returns the normalised identifier derived from the name.
func (l *Location) NameID() string { return CleanName(l.Name) }

// Vendor is a capture agent manufacturer+model. Vendors are append-only:
// once created they can never be deleted.
type Vendor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	NameID    string    `json:"name_id"`
	CreatedAt time.Time `json:"created_at"`
}

// MhCluster is a scheduling cluster that capture agents pull
// recording schedules from.
type MhCluster struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	AdminHost string      `json:"admin_host"`
	Env       Environment `json:"env"`
	CreatedAt time.Time   `json:"created_at"`
}

// NameID returns the normalised identifier derived from the name.
func (c *MhCluster) NameID() string { return CleanName(c.Name) }

// Ca is a capture agent device record. Name, address, and serial number
// are each unique; a missing serial number is allowed and exempt from
// the uniqueness check. Every Ca references exactly one vendor.
type Ca struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	SerialNumber string `json:"serial_number,omitempty"`
	VendorID     string `json:"vendor_id"`

	// CaptureCardID identifies the device's capture card for source
	// layout generation. Nil until provisioned.
	CaptureCardID *int `json:"capture_card_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NameID returns the normalised identifier derived from the name.
func (c *Ca) NameID() string { return CleanName(c.Name) }

// Role binds one Ca to one Location and one MhCluster. A Ca has at
// most one role ever, and the binding is immutable once created.
type Role struct {
	CaID       string    `json:"ca_id"`
	LocationID string    `json:"location_id"`
	ClusterID  string    `json:"cluster_id"`
	Name       RoleName  `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

// VendorConfig carries vendor-wide device settings applied to every
// capture agent of that vendor.
type VendorConfig struct {
	VendorID                 string `json:"vendor_id"`
	FirmwareVersion          string `json:"firmware_version"`
	SourceDeinterlacing      bool   `json:"source_deinterlacing"`
	MaintenancePermanentLogs bool   `json:"maintenance_permanent_logs"`
	TouchscreenTimeoutSecs   int    `json:"touchscreen_timeout_secs"`
}

// LocationConfig records the physical connector and input wiring of a
// room, per role (primary/secondary) and per source (presenter pr /
// presentation pn).
type LocationConfig struct {
	LocationID string `json:"location_id"`

	PrimaryPrVconnector string `json:"primary_pr_vconnector"`
	PrimaryPrVinput     string `json:"primary_pr_vinput"`
	PrimaryPnVconnector string `json:"primary_pn_vconnector"`
	PrimaryPnVinput     string `json:"primary_pn_vinput"`

	SecondaryPrVconnector string `json:"secondary_pr_vconnector"`
	SecondaryPrVinput     string `json:"secondary_pr_vinput"`
	SecondaryPnVconnector string `json:"secondary_pn_vconnector"`
	SecondaryPnVinput     string `json:"secondary_pn_vinput"`
}

// ChannelConfig is one named streaming channel configured on a capture
// agent. ChannelIDInDevice above the unset threshold means the channel
// has not been mapped to a real device channel yet.
type ChannelConfig struct {
	ID   string `json:"id"`
	CaID string `json:"ca_id"`
	Name string `json:"name"`

	ChannelIDInDevice int    `json:"channel_id_in_device"`
	StreamConfigID    string `json:"stream_config_id,omitempty"`

	Audio             bool   `json:"audio"`
	Audiobitrate      int    `json:"audiobitrate"`
	Audiochannels     string `json:"audiochannels"`
	Audiopreset       string `json:"audiopreset"`
	Autoframesize     bool   `json:"autoframesize"`
	Codec             string `json:"codec"`
	Fpslimit          int    `json:"fpslimit"`
	Framesize         string `json:"framesize"`
	Vbitrate          int    `json:"vbitrate"`
	Vencpreset        string `json:"vencpreset"`
	Vkeyframeinterval int    `json:"vkeyframeinterval"`
	Vprofile          string `json:"vprofile"`

	// SourceLayout is the device layout document as compact JSON.
	SourceLayout string `json:"source_layout"`
}

// RecorderConfig is one named recorder configured on a capture agent.
type RecorderConfig struct {
	ID   string `json:"id"`
	CaID string `json:"ca_id"`
	Name string `json:"name"`

	RecorderIDInDevice int    `json:"recorder_id_in_device"`
	OutputFormat       string `json:"output_format"`
	SizeLimitKBytes    int    `json:"size_limit_in_kbytes"`
	TimeLimitMinutes   int    `json:"time_limit_in_minutes"`
}

// MhpearlConfig is the scheduling agent profile installed on a capture
// agent.
type MhpearlConfig struct {
	CaID               string `json:"ca_id"`
	FileSearchRangeSec int    `json:"file_search_range_in_sec"`
	UpdateFrequencySec int    `json:"update_frequency_in_sec"`
	Version            string `json:"mhpearl_version"`
}

// StreamConfig holds the streaming endpoint templates for live
// channels. URL and stream-name strings are rendered from these
// templates at configuration build time.
type StreamConfig struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	StreamID string `json:"stream_id"`

	// Templates use text/template syntax with fields StreamID,
	// LocationName, Framesize.
	PrimaryURLTemplate   string `json:"primary_url_template"`
	SecondaryURLTemplate string `json:"secondary_url_template"`
	StreamNameTemplate   string `json:"stream_name_template"`
}
