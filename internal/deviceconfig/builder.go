package deviceconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/avops/captrack/internal/inventory"
)

// Logger is the minimal logging interface the builder needs.
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

// Builder derives device-ready configuration documents from inventory
// state.
//
// Usage is two-step: EnsureDefaults initialises the per-agent
// sub-configuration once, then Build produces the document as a pure
// function of persisted state, so repeated builds from unchanged
// inventory are byte-identical.
type Builder struct {
	store  *inventory.Store
	logger Logger
}

// NewBuilder creates a Builder over the inventory store.
// A nil logger disables logging.
func NewBuilder(store *inventory.Store, logger Logger) *Builder {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Builder{
		store:  store,
		logger: logger,
	}
}

// graph is the inventory neighbourhood of one capture agent.
type graph struct {
	ca          *inventory.Ca
	role        *inventory.Role
	location    *inventory.Location
	cluster     *inventory.MhCluster
	vendor      *inventory.Vendor
	vendorCfg   *inventory.VendorConfig
	locationCfg *inventory.LocationConfig
}

// loadGraph resolves the agent's role, location, cluster, and vendor.
// The agent must have a role: configuration only exists for agents
// assigned to a room.
func (b *Builder) loadGraph(ctx context.Context, caID string) (*graph, error) {
	ca, err := b.store.GetCa(ctx, caID)
	if err != nil {
		return nil, err
	}
	role, err := b.store.GetRoleByCa(ctx, caID)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			return nil, fmt.Errorf("%w: ca(%s) has no role", inventory.ErrMissingConfigSetting, ca.NameID())
		}
		return nil, err
	}
	location, err := b.store.GetLocation(ctx, role.LocationID)
	if err != nil {
		return nil, err
	}
	cluster, err := b.store.GetCluster(ctx, role.ClusterID)
	if err != nil {
		return nil, err
	}
	vendor, err := b.store.GetVendor(ctx, ca.VendorID)
	if err != nil {
		return nil, err
	}
	return &graph{
		ca:       ca,
		role:     role,
		location: location,
		cluster:  cluster,
		vendor:   vendor,
	}, nil
}

// EnsureDefaults initialises the agent's sub-configuration where it is
// absent: vendor settings, room wiring, the default recorder (named
// after the room), the four standard channels, and the scheduling
// agent profile. Existing configuration is left alone, so the call is
// idempotent.
//
// Live channels are bound to the first stream configuration whose name
// contains "prod", when one exists.
func (b *Builder) EnsureDefaults(ctx context.Context, caID string) error {
	g, err := b.loadGraph(ctx, caID)
	if err != nil {
		return err
	}

	if _, err := b.store.GetVendorConfig(ctx, g.vendor.ID); errors.Is(err, inventory.ErrNotFound) {
		if err := b.store.SetVendorConfig(ctx, defaultVendorConfig(g.vendor.ID)); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	locationCfg, err := b.store.GetLocationConfig(ctx, g.location.ID)
	if errors.Is(err, inventory.ErrNotFound) {
		locationCfg = defaultLocationConfig(g.location.ID)
		if err := b.store.SetLocationConfig(ctx, locationCfg); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	g.locationCfg = locationCfg

	recorders, err := b.store.ListRecorders(ctx, caID)
	if err != nil {
		return err
	}
	if len(recorders) == 0 {
		if _, err := b.store.CreateRecorder(ctx, defaultRecorderConfig(caID, g.location.NameID())); err != nil {
			return err
		}
	}

	channels, err := b.store.ListChannels(ctx, caID)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		if err := b.createDefaultChannels(ctx, g); err != nil {
			return err
		}
	}

	if _, err := b.store.GetMhpearlConfig(ctx, caID); errors.Is(err, inventory.ErrNotFound) {
		if err := b.store.SetMhpearlConfig(ctx, defaultMhpearlConfig(caID)); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	b.logger.Debug("defaults ensured", "ca_id", caID)
	return nil
}

// createDefaultChannels creates the four standard channels with
// business-default encodings and rendered source layouts.
func (b *Builder) createDefaultChannels(ctx context.Context, g *graph) error {
	streamCfgID, err := b.findLiveStreamConfig(ctx)
	if err != nil {
		return err
	}

	sourceID := 0
	if g.ca.CaptureCardID != nil {
		sourceID = *g.ca.CaptureCardID
	}

	pr, pn := g.connectors()

	for _, def := range defaultChannels {
		cfg := baseChannelConfig(g.ca.ID, def.name)
		cfg.Audiobitrate = def.audiobitrate
		cfg.Framesize = def.framesize
		cfg.Vbitrate = def.vbitrate

		var layout string
		if def.flavor.isLive() {
			cfg.StreamConfigID = streamCfgID
			layout, err = renderCombinedLayout(combinedLayoutData{
				SourceID:     sourceID,
				PrVconnector: pr.vconnector,
				PrVinput:     pr.vinput,
				PnVconnector: pn.vconnector,
				PnVinput:     pn.vinput,
				PrAconnector: pr.vconnector,
				PrAinput:     pr.vinput,
			})
		} else {
			source := pr
			if def.flavor == flavorPn {
				source = pn
			}
			// audio always comes from the presenter source
			layout, err = renderSingleLayout(singleLayoutData{
				SourceID:   sourceID,
				Vconnector: source.vconnector,
				Vinput:     source.vinput,
				Aconnector: pr.vconnector,
				Ainput:     pr.vinput,
			})
		}
		if err != nil {
			return err
		}
		cfg.SourceLayout = layout

		if _, err := b.store.CreateChannel(ctx, cfg); err != nil {
			return err
		}
	}
	return nil
}

// connector is one physical video source assignment.
type connector struct {
	vconnector string
	vinput     string
}

// connectors returns the presenter and presentation wiring for the
// agent's role. Experimental agents use the secondary wiring.
func (g *graph) connectors() (pr, pn connector) {
	if g.role.Name == inventory.RolePrimary {
		return connector{g.locationCfg.PrimaryPrVconnector, g.locationCfg.PrimaryPrVinput},
			connector{g.locationCfg.PrimaryPnVconnector, g.locationCfg.PrimaryPnVinput}
	}
	return connector{g.locationCfg.SecondaryPrVconnector, g.locationCfg.SecondaryPrVinput},
		connector{g.locationCfg.SecondaryPnVconnector, g.locationCfg.SecondaryPnVinput}
}

// findLiveStreamConfig picks the streaming endpoint for live channels:
// the first configuration (in name order) whose name contains "prod".
// Returns empty when none qualifies.
func (b *Builder) findLiveStreamConfig(ctx context.Context) (string, error) {
	configs, err := b.store.ListStreamConfigs(ctx)
	if err != nil {
		return "", err
	}
	for _, cfg := range configs {
		if strings.Contains(cfg.Name, "prod") {
			return cfg.ID, nil
		}
	}
	return "", nil
}

// Build produces the device configuration document for a capture
// agent. It is a pure function of persisted state: channels and
// recorders are iterated in name order so unchanged inventory always
// yields an identical document.
//
// Build fails with inventory.ErrMissingConfigSetting, naming the
// offender, when the capture card id is unset or any channel or
// recorder still carries an unmapped device id.
func (b *Builder) Build(ctx context.Context, caID string) (map[string]any, error) {
	g, err := b.loadGraph(ctx, caID)
	if err != nil {
		return nil, err
	}

	if g.ca.CaptureCardID == nil {
		return nil, fmt.Errorf("%w: ca(%s), missing capture_card_id",
			inventory.ErrMissingConfigSetting, g.ca.NameID())
	}

	vendorCfg, err := b.store.GetVendorConfig(ctx, g.vendor.ID)
	if err != nil {
		return nil, err
	}
	mhpearl, err := b.store.GetMhpearlConfig(ctx, caID)
	if err != nil {
		return nil, err
	}
	channels, err := b.store.ListChannels(ctx, caID)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: ca(%s), no channels configured",
			inventory.ErrMissingConfigSetting, g.ca.NameID())
	}
	recorders, err := b.store.ListRecorders(ctx, caID)
	if err != nil {
		return nil, err
	}

	config := map[string]any{
		"ca_capture_card_id": *g.ca.CaptureCardID,
		"ca_name_id":         g.ca.NameID(),
		"ca_serial_number":   g.ca.SerialNumber,
		"ca_url":             g.ca.Address,
	}

	// shared encoding defaults come from the first channel
	first := channels[0]
	config["channel_encodings"] = map[string]any{
		"audio":             onOff(first.Audio),
		"audiochannels":     first.Audiochannels,
		"audiopreset":       first.Audiopreset,
		"autoframesize":     onOff(first.Autoframesize),
		"codec":             first.Codec,
		"fpslimit":          first.Fpslimit,
		"vencpreset":        first.Vencpreset,
		"vkeyframeinterval": first.Vkeyframeinterval,
		"vprofile":          first.Vprofile,
	}

	channelDocs := map[string]any{}
	for _, ch := range channels {
		doc, err := b.buildChannelDoc(ctx, g, ch)
		if err != nil {
			return nil, err
		}
		channelDocs[ch.Name] = doc
	}
	config["channels"] = channelDocs

	config["cluster_env"] = string(g.cluster.Env)
	config["cluster_name_id"] = g.cluster.NameID()
	config["firmware_version"] = vendorCfg.FirmwareVersion
	config["location_name_id"] = g.location.NameID()
	config["mh_admin_url"] = g.cluster.AdminHost
	config["mh_ca_name"] = g.location.NameID()
	config["mhpearl_file_search_range"] = mhpearl.FileSearchRangeSec
	config["mhpearl_update_frequency"] = mhpearl.UpdateFrequencySec
	config["mhpearl_version"] = mhpearl.Version
	config["role"] = string(g.role.Name)
	config["source_deinterlacing"] = onOff(vendorCfg.SourceDeinterlacing)
	config["maintenance"] = map[string]any{
		"permanent_logs": onOff(vendorCfg.MaintenancePermanentLogs),
	}

	recorderDocs := map[string]any{}
	for _, rec := range recorders {
		if rec.RecorderIDInDevice >= UnsetThreshold {
			return nil, fmt.Errorf("%w: ca(%s), missing recorder_id(%s)",
				inventory.ErrMissingConfigSetting, g.ca.NameID(), rec.Name)
		}
		recorderDocs[rec.Name] = map[string]any{
			"recorder_id":   rec.RecorderIDInDevice,
			"output_format": rec.OutputFormat,
			"sizelimit":     rec.SizeLimitKBytes,
			"timelimit":     rec.TimeLimitMinutes,
		}
	}
	config["recorders"] = recorderDocs

	config["touchscreen"] = map[string]any{
		"episcreen_timeout": vendorCfg.TouchscreenTimeoutSecs,
	}

	return config, nil
}

// buildChannelDoc produces the document section for one channel.
func (b *Builder) buildChannelDoc(ctx context.Context, g *graph, ch *inventory.ChannelConfig) (map[string]any, error) {
	if ch.ChannelIDInDevice >= UnsetThreshold {
		return nil, fmt.Errorf("%w: ca(%s), missing channel_id(%s)",
			inventory.ErrMissingConfigSetting, g.ca.NameID(), ch.Name)
	}

	var layout any = map[string]any{}
	if ch.SourceLayout != "" {
		if err := json.Unmarshal([]byte(ch.SourceLayout), &layout); err != nil {
			return nil, fmt.Errorf("parsing source layout for channel %s: %w", ch.Name, err)
		}
	}

	doc := map[string]any{
		"channel_id": ch.ChannelIDInDevice,
		"encodings": map[string]any{
			"audio":             onOff(ch.Audio),
			"audiobitrate":      ch.Audiobitrate,
			"audiochannels":     ch.Audiochannels,
			"audiopreset":       ch.Audiopreset,
			"autoframesize":     ch.Autoframesize,
			"codec":             ch.Codec,
			"fpslimit":          ch.Fpslimit,
			"framesize":         ch.Framesize,
			"vbitrate":          ch.Vbitrate,
			"vencpreset":        ch.Vencpreset,
			"vkeyframeinterval": ch.Vkeyframeinterval,
			"vprofile":          ch.Vprofile,
			"source_layout":     layout,
		},
	}

	if ch.StreamConfigID != "" {
		streamCfg, err := b.store.GetStreamConfig(ctx, ch.StreamConfigID)
		if err != nil {
			return nil, err
		}

		urlTemplate := streamCfg.SecondaryURLTemplate
		if g.role.Name == inventory.RolePrimary {
			urlTemplate = streamCfg.PrimaryURLTemplate
		}
		data := streamTemplateData{
			StreamID:     streamCfg.StreamID,
			LocationName: g.location.NameID(),
			Framesize:    ch.Framesize,
		}
		rtmpURL, err := renderStreamTemplate(urlTemplate, data)
		if err != nil {
			return nil, err
		}
		streamName, err := renderStreamTemplate(streamCfg.StreamNameTemplate, data)
		if err != nil {
			return nil, err
		}
		doc["rtmp_url"] = rtmpURL
		doc["stream_name"] = streamName
	}

	return doc, nil
}

// onOff maps a bool to the device's "on"/"" flag convention.
func onOff(b bool) string {
	if b {
		return "on"
	}
	return ""
}
