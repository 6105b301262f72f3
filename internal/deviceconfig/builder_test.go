package deviceconfig_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avops/captrack/internal/deviceconfig"
	"github.com/avops/captrack/internal/infrastructure/database"
	"github.com/avops/captrack/internal/inventory"
	_ "github.com/avops/captrack/migrations"
)

// testEnv is a migrated store with one fully wired capture agent:
// primary in "Fake Room" on a prod cluster, with a prod stream config.
type testEnv struct {
	store   *inventory.Store
	builder *deviceconfig.Builder
	ca      *inventory.Ca
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	store := inventory.NewStore(db, nil)

	location, err := store.CreateLocation(ctx, "Fake Room")
	if err != nil {
		t.Fatalf("CreateLocation() error = %v", err)
	}
	vendor, err := store.CreateVendor(ctx, "epiphan", "pearl")
	if err != nil {
		t.Fatalf("CreateVendor() error = %v", err)
	}
	cluster, err := store.CreateCluster(ctx, "cluster1", "https://mh.example.edu", "prod")
	if err != nil {
		t.Fatalf("CreateCluster() error = %v", err)
	}
	ca, err := store.CreateCa(ctx, "fake-epiphan033", "fake-epiphan033.example.edu", vendor.ID, "SN033")
	if err != nil {
		t.Fatalf("CreateCa() error = %v", err)
	}
	if _, err := store.CreateRole(ctx, ca.ID, location.ID, cluster.ID, "primary"); err != nil {
		t.Fatalf("CreateRole() error = %v", err)
	}

	_, err = store.CreateStreamConfig(ctx, &inventory.StreamConfig{
		Name:                 "akamai-prod",
		StreamID:             "123456",
		PrimaryURLTemplate:   "rtmp://p.ep{{.StreamID}}.i.akamaientrypoint.net/EntryPoint",
		SecondaryURLTemplate: "rtmp://b.ep{{.StreamID}}.i.akamaientrypoint.net/EntryPoint",
		StreamNameTemplate:   "dce_{{.LocationName}}_presenter_delivery.stream-{{.Framesize}}_1_200@{{.StreamID}}",
	})
	if err != nil {
		t.Fatalf("CreateStreamConfig() error = %v", err)
	}

	return &testEnv{
		store:   store,
		builder: deviceconfig.NewBuilder(store, nil),
		ca:      ca,
	}
}

// provision ensures defaults and assigns sequential device ids, the
// way an operator would after configuring the physical device.
func (e *testEnv) provision(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if err := e.store.SetCaptureCardID(ctx, e.ca.ID, 4); err != nil {
		t.Fatalf("SetCaptureCardID() error = %v", err)
	}
	if err := e.builder.EnsureDefaults(ctx, e.ca.ID); err != nil {
		t.Fatalf("EnsureDefaults() error = %v", err)
	}

	id := 1
	recorders, err := e.store.ListRecorders(ctx, e.ca.ID)
	if err != nil {
		t.Fatalf("ListRecorders() error = %v", err)
	}
	for _, rec := range recorders {
		if err := e.store.SetRecorderDeviceID(ctx, rec.ID, id); err != nil {
			t.Fatalf("SetRecorderDeviceID() error = %v", err)
		}
		id++
	}
	channels, err := e.store.ListChannels(ctx, e.ca.ID)
	if err != nil {
		t.Fatalf("ListChannels() error = %v", err)
	}
	for _, ch := range channels {
		if err := e.store.SetChannelDeviceID(ctx, ch.ID, id); err != nil {
			t.Fatalf("SetChannelDeviceID() error = %v", err)
		}
		id++
	}
}

func TestEnsureDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("creates recorder, channels, and mhpearl profile", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.builder.EnsureDefaults(ctx, env.ca.ID); err != nil {
			t.Fatalf("EnsureDefaults() error = %v", err)
		}

		recorders, err := env.store.ListRecorders(ctx, env.ca.ID)
		if err != nil {
			t.Fatalf("ListRecorders() error = %v", err)
		}
		if len(recorders) != 1 {
			t.Fatalf("got %d recorders, want 1", len(recorders))
		}
		if recorders[0].Name != "fake_room" {
			t.Errorf("recorder name = %q, want fake_room", recorders[0].Name)
		}

		channels, err := env.store.ListChannels(ctx, env.ca.ID)
		if err != nil {
			t.Fatalf("ListChannels() error = %v", err)
		}
		if len(channels) != 4 {
			t.Fatalf("got %d channels, want 4", len(channels))
		}
		for _, ch := range channels {
			if strings.Contains(ch.Name, "live") && ch.StreamConfigID == "" {
				t.Errorf("live channel %s has no stream config", ch.Name)
			}
			if ch.SourceLayout == "" {
				t.Errorf("channel %s has no source layout", ch.Name)
			}
			if strings.ContainsAny(ch.SourceLayout, " \n") {
				t.Errorf("channel %s layout not whitespace-stripped", ch.Name)
			}
		}

		if _, err := env.store.GetMhpearlConfig(ctx, env.ca.ID); err != nil {
			t.Errorf("GetMhpearlConfig() error = %v", err)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.builder.EnsureDefaults(ctx, env.ca.ID); err != nil {
			t.Fatalf("EnsureDefaults() error = %v", err)
		}
		if err := env.builder.EnsureDefaults(ctx, env.ca.ID); err != nil {
			t.Fatalf("second EnsureDefaults() error = %v", err)
		}
		channels, err := env.store.ListChannels(ctx, env.ca.ID)
		if err != nil {
			t.Fatalf("ListChannels() error = %v", err)
		}
		if len(channels) != 4 {
			t.Errorf("got %d channels after double ensure, want 4", len(channels))
		}
	})
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("fails without capture card id", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.builder.EnsureDefaults(ctx, env.ca.ID); err != nil {
			t.Fatalf("EnsureDefaults() error = %v", err)
		}
		_, err := env.builder.Build(ctx, env.ca.ID)
		if !errors.Is(err, inventory.ErrMissingConfigSetting) {
			t.Fatalf("error = %v, want ErrMissingConfigSetting", err)
		}
		if !strings.Contains(err.Error(), "capture_card_id") {
			t.Errorf("error %q does not name capture_card_id", err)
		}
	})

	t.Run("fails naming channel with unset device id", func(t *testing.T) {
		env := newTestEnv(t)
		env.provision(t)

		// reset one channel back to the unset sentinel
		channels, err := env.store.ListChannels(ctx, env.ca.ID)
		if err != nil {
			t.Fatalf("ListChannels() error = %v", err)
		}
		if err := env.store.SetChannelDeviceID(ctx, channels[0].ID, 99999); err != nil {
			t.Fatalf("SetChannelDeviceID() error = %v", err)
		}

		_, err = env.builder.Build(ctx, env.ca.ID)
		if !errors.Is(err, inventory.ErrMissingConfigSetting) {
			t.Fatalf("error = %v, want ErrMissingConfigSetting", err)
		}
		if !strings.Contains(err.Error(), channels[0].Name) {
			t.Errorf("error %q does not name channel %s", err, channels[0].Name)
		}
	})

	t.Run("fails naming recorder with unset device id", func(t *testing.T) {
		env := newTestEnv(t)
		env.provision(t)

		recorders, err := env.store.ListRecorders(ctx, env.ca.ID)
		if err != nil {
			t.Fatalf("ListRecorders() error = %v", err)
		}
		if err := env.store.SetRecorderDeviceID(ctx, recorders[0].ID, 99998); err != nil {
			t.Fatalf("SetRecorderDeviceID() error = %v", err)
		}

		_, err = env.builder.Build(ctx, env.ca.ID)
		if !errors.Is(err, inventory.ErrMissingConfigSetting) {
			t.Fatalf("error = %v, want ErrMissingConfigSetting", err)
		}
		if !strings.Contains(err.Error(), "fake_room") {
			t.Errorf("error %q does not name recorder fake_room", err)
		}
	})

	t.Run("document contract", func(t *testing.T) {
		env := newTestEnv(t)
		env.provision(t)

		config, err := env.builder.Build(ctx, env.ca.ID)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		if config["ca_capture_card_id"] != 4 {
			t.Errorf("ca_capture_card_id = %v, want 4", config["ca_capture_card_id"])
		}
		if config["ca_name_id"] != "fake_epiphan033" {
			t.Errorf("ca_name_id = %v", config["ca_name_id"])
		}
		if config["location_name_id"] != "fake_room" {
			t.Errorf("location_name_id = %v", config["location_name_id"])
		}
		if config["mh_ca_name"] != "fake_room" {
			t.Errorf("mh_ca_name = %v", config["mh_ca_name"])
		}
		if config["cluster_env"] != "prod" {
			t.Errorf("cluster_env = %v", config["cluster_env"])
		}
		if config["mh_admin_url"] != "https://mh.example.edu" {
			t.Errorf("mh_admin_url = %v", config["mh_admin_url"])
		}
		if config["role"] != "primary" {
			t.Errorf("role = %v", config["role"])
		}

		channels, ok := config["channels"].(map[string]any)
		if !ok {
			t.Fatalf("channels has type %T", config["channels"])
		}
		for _, name := range []string{"dce_live", "dce_live_lowbr", "dce_pn", "dce_pr"} {
			if _, ok := channels[name]; !ok {
				t.Errorf("channels missing %s", name)
			}
		}

		live, ok := channels["dce_live"].(map[string]any)
		if !ok {
			t.Fatalf("dce_live has type %T", channels["dce_live"])
		}
		if live["rtmp_url"] != "rtmp://p.ep123456.i.akamaientrypoint.net/EntryPoint" {
			t.Errorf("rtmp_url = %v", live["rtmp_url"])
		}
		wantStream := "dce_fake_room_presenter_delivery.stream-1920x540_1_200@123456"
		if live["stream_name"] != wantStream {
			t.Errorf("stream_name = %v, want %v", live["stream_name"], wantStream)
		}

		encodings, ok := live["encodings"].(map[string]any)
		if !ok {
			t.Fatalf("encodings has type %T", live["encodings"])
		}
		if encodings["framesize"] != "1920x540" {
			t.Errorf("dce_live framesize = %v", encodings["framesize"])
		}
		if encodings["vbitrate"] != 4000 {
			t.Errorf("dce_live vbitrate = %v", encodings["vbitrate"])
		}

		recorders, ok := config["recorders"].(map[string]any)
		if !ok {
			t.Fatalf("recorders has type %T", config["recorders"])
		}
		if _, ok := recorders["fake_room"]; !ok {
			t.Errorf("recorders missing fake_room")
		}

		touchscreen, ok := config["touchscreen"].(map[string]any)
		if !ok {
			t.Fatalf("touchscreen has type %T", config["touchscreen"])
		}
		if touchscreen["episcreen_timeout"] != 600 {
			t.Errorf("episcreen_timeout = %v", touchscreen["episcreen_timeout"])
		}
	})

	t.Run("repeated builds are byte-identical", func(t *testing.T) {
		env := newTestEnv(t)
		env.provision(t)

		first, err := env.builder.Build(ctx, env.ca.ID)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		second, err := env.builder.Build(ctx, env.ca.ID)
		if err != nil {
			t.Fatalf("second Build() error = %v", err)
		}

		a, err := json.Marshal(first)
		if err != nil {
			t.Fatalf("marshal first: %v", err)
		}
		b, err := json.Marshal(second)
		if err != nil {
			t.Fatalf("marshal second: %v", err)
		}
		if !bytes.Equal(a, b) {
			t.Error("repeated builds differ")
		}
	})
}
