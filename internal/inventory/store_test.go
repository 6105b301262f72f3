package inventory_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/avops/captrack/internal/infrastructure/database"
	"github.com/avops/captrack/internal/inventory"
	_ "github.com/avops/captrack/migrations"
)

// newTestStore creates a store over a migrated temporary database.
func newTestStore(t *testing.T) *inventory.Store {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	return inventory.NewStore(db, nil)
}

// fixture creates one of each entity wired together:
// room101 <- primary role -> agent "room101-p" -> vendor epiphan pearl,
// on cluster "cluster-prod".
type fixture struct {
	store    *inventory.Store
	location *inventory.Location
	vendor   *inventory.Vendor
	cluster  *inventory.MhCluster
	ca       *inventory.Ca
	role     *inventory.Role
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := newTestStore(t)

	location, err := store.CreateLocation(ctx, "room101")
	if err != nil {
		t.Fatalf("CreateLocation() error = %v", err)
	}
	vendor, err := store.CreateVendor(ctx, "epiphan", "pearl")
	if err != nil {
		t.Fatalf("CreateVendor() error = %v", err)
	}
	cluster, err := store.CreateCluster(ctx, "cluster-prod", "https://mh.example.edu", "prod")
	if err != nil {
		t.Fatalf("CreateCluster() error = %v", err)
	}
	ca, err := store.CreateCa(ctx, "room101-p", "room101-p.example.edu", vendor.ID, "SN001")
	if err != nil {
		t.Fatalf("CreateCa() error = %v", err)
	}
	role, err := store.CreateRole(ctx, ca.ID, location.ID, cluster.ID, "primary")
	if err != nil {
		t.Fatalf("CreateRole() error = %v", err)
	}

	return &fixture{
		store:    store,
		location: location,
		vendor:   vendor,
		cluster:  cluster,
		ca:       ca,
		role:     role,
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Room 101", "room_101"},
		{"  Fake Room  ", "fake_room"},
		{"epiphan-pearl", "epiphan_pearl"},
		{"a   b---c", "a_b_c"},
		{"already_clean", "already_clean"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := inventory.CleanName(tt.in); got != tt.want {
				t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCreateLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate name rejected and first untouched", func(t *testing.T) {
		store := newTestStore(t)
		first, err := store.CreateLocation(ctx, "room101")
		if err != nil {
			t.Fatalf("CreateLocation() error = %v", err)
		}

		_, err = store.CreateLocation(ctx, "room101")
		if !errors.Is(err, inventory.ErrDuplicateLocationName) {
			t.Fatalf("error = %v, want ErrDuplicateLocationName", err)
		}

		got, err := store.GetLocation(ctx, first.ID)
		if err != nil {
			t.Fatalf("GetLocation() error = %v", err)
		}
		if got.Name != "room101" {
			t.Errorf("first location changed: name = %q", got.Name)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.CreateLocation(ctx, "")
		if !errors.Is(err, inventory.ErrEmptyValue) {
			t.Errorf("error = %v, want ErrEmptyValue", err)
		}
	})
}

func TestCreateVendor(t *testing.T) {
	ctx := context.Background()

	t.Run("composite id collapses case and whitespace", func(t *testing.T) {
		store := newTestStore(t)
		v, err := store.CreateVendor(ctx, "Epiphan", "Pearl 2")
		if err != nil {
			t.Fatalf("CreateVendor() error = %v", err)
		}
		if v.NameID != "epiphan_pearl_2" {
			t.Errorf("NameID = %q, want epiphan_pearl_2", v.NameID)
		}

		_, err = store.CreateVendor(ctx, "  EPIPHAN ", "pearl  2")
		if !errors.Is(err, inventory.ErrDuplicateVendorNameModel) {
			t.Errorf("error = %v, want ErrDuplicateVendorNameModel", err)
		}
	})

	t.Run("delete always fails", func(t *testing.T) {
		store := newTestStore(t)
		v, err := store.CreateVendor(ctx, "epiphan", "pearl")
		if err != nil {
			t.Fatalf("CreateVendor() error = %v", err)
		}
		if err := store.DeleteVendor(ctx, v.ID); !errors.Is(err, inventory.ErrInvalidOperation) {
			t.Errorf("DeleteVendor() error = %v, want ErrInvalidOperation", err)
		}
		if _, err := store.GetVendor(ctx, v.ID); err != nil {
			t.Errorf("vendor gone after failed delete: %v", err)
		}
	})
}

func TestCreateCluster(t *testing.T) {
	ctx := context.Background()

	t.Run("env normalised to lowercase", func(t *testing.T) {
		store := newTestStore(t)
		c, err := store.CreateCluster(ctx, "c1", "https://mh1.example.edu", "PROD")
		if err != nil {
			t.Fatalf("CreateCluster() error = %v", err)
		}
		if c.Env != inventory.EnvProd {
			t.Errorf("Env = %q, want prod", c.Env)
		}
	})

	t.Run("invalid env rejected before uniqueness checks", func(t *testing.T) {
		store := newTestStore(t)
		if _, err := store.CreateCluster(ctx, "c1", "https://mh1.example.edu", "prod"); err != nil {
			t.Fatalf("CreateCluster() error = %v", err)
		}
		// duplicate name AND bad env: env error wins
		_, err := store.CreateCluster(ctx, "c1", "https://mh2.example.edu", "qa")
		if !errors.Is(err, inventory.ErrInvalidClusterEnv) {
			t.Errorf("error = %v, want ErrInvalidClusterEnv", err)
		}
		_, err = store.CreateCluster(ctx, "c2", "https://mh1.example.edu", "")
		if !errors.Is(err, inventory.ErrInvalidClusterEnv) {
			t.Errorf("error = %v, want ErrInvalidClusterEnv", err)
		}
	})

	t.Run("name checked before admin host", func(t *testing.T) {
		store := newTestStore(t)
		if _, err := store.CreateCluster(ctx, "c1", "https://mh1.example.edu", "prod"); err != nil {
			t.Fatalf("CreateCluster() error = %v", err)
		}
		// both name and admin host collide: name error wins
		_, err := store.CreateCluster(ctx, "c1", "https://mh1.example.edu", "dev")
		if !errors.Is(err, inventory.ErrDuplicateClusterName) {
			t.Errorf("error = %v, want ErrDuplicateClusterName", err)
		}
		_, err = store.CreateCluster(ctx, "c2", "https://mh1.example.edu", "dev")
		if !errors.Is(err, inventory.ErrDuplicateClusterAdminHost) {
			t.Errorf("error = %v, want ErrDuplicateClusterAdminHost", err)
		}
	})
}

func TestCreateCa(t *testing.T) {
	ctx := context.Background()

	t.Run("validation order", func(t *testing.T) {
		store := newTestStore(t)
		vendor, err := store.CreateVendor(ctx, "epiphan", "pearl")
		if err != nil {
			t.Fatalf("CreateVendor() error = %v", err)
		}

		_, err = store.CreateCa(ctx, "ca1", "ca1.example.edu", "", "")
		if !errors.Is(err, inventory.ErrEmptyValue) {
			t.Errorf("empty vendor: error = %v, want ErrEmptyValue", err)
		}
		_, err = store.CreateCa(ctx, "ca1", "ca1.example.edu", "no-such-vendor", "")
		if !errors.Is(err, inventory.ErrMissingVendor) {
			t.Errorf("unknown vendor: error = %v, want ErrMissingVendor", err)
		}
		_, err = store.CreateCa(ctx, "", "ca1.example.edu", vendor.ID, "")
		if !errors.Is(err, inventory.ErrEmptyValue) {
			t.Errorf("empty name: error = %v, want ErrEmptyValue", err)
		}
		_, err = store.CreateCa(ctx, "ca1", "", vendor.ID, "")
		if !errors.Is(err, inventory.ErrEmptyValue) {
			t.Errorf("empty address: error = %v, want ErrEmptyValue", err)
		}
	})

	t.Run("uniqueness per field", func(t *testing.T) {
		store := newTestStore(t)
		vendor, err := store.CreateVendor(ctx, "epiphan", "pearl")
		if err != nil {
			t.Fatalf("CreateVendor() error = %v", err)
		}
		first, err := store.CreateCa(ctx, "ca1", "ca1.example.edu", vendor.ID, "SN001")
		if err != nil {
			t.Fatalf("CreateCa() error = %v", err)
		}

		_, err = store.CreateCa(ctx, "ca1", "other.example.edu", vendor.ID, "")
		if !errors.Is(err, inventory.ErrDuplicateCaName) {
			t.Errorf("error = %v, want ErrDuplicateCaName", err)
		}
		_, err = store.CreateCa(ctx, "ca2", "ca1.example.edu", vendor.ID, "")
		if !errors.Is(err, inventory.ErrDuplicateCaAddress) {
			t.Errorf("error = %v, want ErrDuplicateCaAddress", err)
		}
		_, err = store.CreateCa(ctx, "ca2", "ca2.example.edu", vendor.ID, "SN001")
		if !errors.Is(err, inventory.ErrDuplicateCaSerial) {
			t.Errorf("error = %v, want ErrDuplicateCaSerial", err)
		}

		got, err := store.GetCa(ctx, first.ID)
		if err != nil {
			t.Fatalf("GetCa() error = %v", err)
		}
		if got.Name != "ca1" || got.Address != "ca1.example.edu" || got.SerialNumber != "SN001" {
			t.Errorf("first ca changed: %+v", got)
		}
	})

	t.Run("multiple agents without serial numbers allowed", func(t *testing.T) {
		store := newTestStore(t)
		vendor, err := store.CreateVendor(ctx, "epiphan", "pearl")
		if err != nil {
			t.Fatalf("CreateVendor() error = %v", err)
		}
		if _, err := store.CreateCa(ctx, "ca1", "ca1.example.edu", vendor.ID, ""); err != nil {
			t.Fatalf("CreateCa() error = %v", err)
		}
		if _, err := store.CreateCa(ctx, "ca2", "ca2.example.edu", vendor.ID, ""); err != nil {
			t.Errorf("second ca without serial: error = %v", err)
		}
	})
}

func TestUpdateCa(t *testing.T) {
	ctx := context.Background()

	t.Run("non-updatable field rejected, fields unchanged", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.store.UpdateCa(ctx, f.ca.ID, map[string]string{
			"name":      "renamed",
			"vendor_id": "other-vendor",
		})
		if !errors.Is(err, inventory.ErrInvalidOperation) {
			t.Fatalf("error = %v, want ErrInvalidOperation", err)
		}

		got, err := f.store.GetCa(ctx, f.ca.ID)
		if err != nil {
			t.Fatalf("GetCa() error = %v", err)
		}
		if got.Name != f.ca.Name || got.VendorID != f.ca.VendorID {
			t.Errorf("fields changed after rejected update: %+v", got)
		}
	})

	t.Run("updatable fields re-validated", func(t *testing.T) {
		f := newFixture(t)
		other, err := f.store.CreateCa(ctx, "room102-p", "room102-p.example.edu", f.vendor.ID, "SN002")
		if err != nil {
			t.Fatalf("CreateCa() error = %v", err)
		}

		_, err = f.store.UpdateCa(ctx, other.ID, map[string]string{"name": f.ca.Name})
		if !errors.Is(err, inventory.ErrDuplicateCaName) {
			t.Errorf("error = %v, want ErrDuplicateCaName", err)
		}
		_, err = f.store.UpdateCa(ctx, other.ID, map[string]string{"serial_number": "SN001"})
		if !errors.Is(err, inventory.ErrDuplicateCaSerial) {
			t.Errorf("error = %v, want ErrDuplicateCaSerial", err)
		}

		updated, err := f.store.UpdateCa(ctx, other.ID, map[string]string{
			"name":    "room102-primary",
			"address": "room102-primary.example.edu",
		})
		if err != nil {
			t.Fatalf("UpdateCa() error = %v", err)
		}
		if updated.Name != "room102-primary" {
			t.Errorf("Name = %q after update", updated.Name)
		}

		// rewriting a field to its current value is not a duplicate
		if _, err := f.store.UpdateCa(ctx, other.ID, map[string]string{"serial_number": "SN002"}); err != nil {
			t.Errorf("self-value update: error = %v", err)
		}
	})
}

func TestCreateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid role name", func(t *testing.T) {
		f := newFixture(t)
		ca, err := f.store.CreateCa(ctx, "spare", "spare.example.edu", f.vendor.ID, "")
		if err != nil {
			t.Fatalf("CreateCa() error = %v", err)
		}
		_, err = f.store.CreateRole(ctx, ca.ID, f.location.ID, f.cluster.ID, "tertiary")
		if !errors.Is(err, inventory.ErrInvalidRole) {
			t.Errorf("error = %v, want ErrInvalidRole", err)
		}
	})

	t.Run("ca can hold at most one role ever", func(t *testing.T) {
		f := newFixture(t)
		other, err := f.store.CreateLocation(ctx, "room102")
		if err != nil {
			t.Fatalf("CreateLocation() error = %v", err)
		}
		// different location, cluster, and role name: still rejected
		_, err = f.store.CreateRole(ctx, f.ca.ID, other.ID, f.cluster.ID, "experimental")
		if !errors.Is(err, inventory.ErrAssociation) {
			t.Errorf("error = %v, want ErrAssociation", err)
		}
	})

	t.Run("one primary and one secondary per location", func(t *testing.T) {
		f := newFixture(t)
		second, err := f.store.CreateCa(ctx, "room101-s", "room101-s.example.edu", f.vendor.ID, "SN002")
		if err != nil {
			t.Fatalf("CreateCa() error = %v", err)
		}
		if _, err := f.store.CreateRole(ctx, second.ID, f.location.ID, f.cluster.ID, "secondary"); err != nil {
			t.Fatalf("CreateRole(secondary) error = %v", err)
		}

		third, err := f.store.CreateCa(ctx, "room101-x", "room101-x.example.edu", f.vendor.ID, "SN003")
		if err != nil {
			t.Fatalf("CreateCa() error = %v", err)
		}
		_, err = f.store.CreateRole(ctx, third.ID, f.location.ID, f.cluster.ID, "primary")
		if !errors.Is(err, inventory.ErrAssociation) {
			t.Errorf("second primary: error = %v, want ErrAssociation", err)
		}
		_, err = f.store.CreateRole(ctx, third.ID, f.location.ID, f.cluster.ID, "secondary")
		if !errors.Is(err, inventory.ErrAssociation) {
			t.Errorf("second secondary: error = %v, want ErrAssociation", err)
		}
	})

	t.Run("experimental roles unlimited per location", func(t *testing.T) {
		f := newFixture(t)
		for i, name := range []string{"exp-a", "exp-b", "exp-c"} {
			ca, err := f.store.CreateCa(ctx, name, name+".example.edu", f.vendor.ID, "")
			if err != nil {
				t.Fatalf("CreateCa(%d) error = %v", i, err)
			}
			if _, err := f.store.CreateRole(ctx, ca.ID, f.location.ID, f.cluster.ID, "experimental"); err != nil {
				t.Errorf("CreateRole(experimental %d) error = %v", i, err)
			}
		}
	})

	t.Run("role name normalised to lowercase", func(t *testing.T) {
		f := newFixture(t)
		ca, err := f.store.CreateCa(ctx, "spare", "spare.example.edu", f.vendor.ID, "")
		if err != nil {
			t.Fatalf("CreateCa() error = %v", err)
		}
		role, err := f.store.CreateRole(ctx, ca.ID, f.location.ID, f.cluster.ID, "SECONDARY")
		if err != nil {
			t.Fatalf("CreateRole() error = %v", err)
		}
		if role.Name != inventory.RoleSecondary {
			t.Errorf("Name = %q, want secondary", role.Name)
		}
	})

	t.Run("update always fails", func(t *testing.T) {
		f := newFixture(t)
		if err := f.store.UpdateRole(ctx, f.ca.ID); !errors.Is(err, inventory.ErrInvalidOperation) {
			t.Errorf("UpdateRole() error = %v, want ErrInvalidOperation", err)
		}
	})
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()

	t.Run("delete ca removes its role", func(t *testing.T) {
		f := newFixture(t)
		if err := f.store.DeleteCa(ctx, f.ca.ID); err != nil {
			t.Fatalf("DeleteCa() error = %v", err)
		}
		if _, err := f.store.GetCa(ctx, f.ca.ID); !errors.Is(err, inventory.ErrNotFound) {
			t.Errorf("GetCa() error = %v, want ErrNotFound", err)
		}
		if _, err := f.store.GetRoleByCa(ctx, f.ca.ID); !errors.Is(err, inventory.ErrNotFound) {
			t.Errorf("GetRoleByCa() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete location removes its capture agents", func(t *testing.T) {
		f := newFixture(t)
		if err := f.store.DeleteLocation(ctx, f.location.ID); err != nil {
			t.Fatalf("DeleteLocation() error = %v", err)
		}
		if _, err := f.store.GetLocation(ctx, f.location.ID); !errors.Is(err, inventory.ErrNotFound) {
			t.Errorf("GetLocation() error = %v, want ErrNotFound", err)
		}
		if _, err := f.store.GetCa(ctx, f.ca.ID); !errors.Is(err, inventory.ErrNotFound) {
			t.Errorf("GetCa() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete cluster removes its capture agents", func(t *testing.T) {
		f := newFixture(t)
		if err := f.store.DeleteCluster(ctx, f.cluster.ID); err != nil {
			t.Fatalf("DeleteCluster() error = %v", err)
		}
		if _, err := f.store.GetCa(ctx, f.ca.ID); !errors.Is(err, inventory.ErrNotFound) {
			t.Errorf("GetCa() error = %v, want ErrNotFound", err)
		}
		// location survives a cluster cascade
		if _, err := f.store.GetLocation(ctx, f.location.ID); err != nil {
			t.Errorf("GetLocation() error = %v", err)
		}
	})

	t.Run("delete ca without role is fine", func(t *testing.T) {
		f := newFixture(t)
		ca, err := f.store.CreateCa(ctx, "spare", "spare.example.edu", f.vendor.ID, "")
		if err != nil {
			t.Fatalf("CreateCa() error = %v", err)
		}
		if err := f.store.DeleteCa(ctx, ca.ID); err != nil {
			t.Errorf("DeleteCa() error = %v", err)
		}
	})
}

func TestSetCaptureCardID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if err := f.store.SetCaptureCardID(ctx, f.ca.ID, 4); err != nil {
		t.Fatalf("SetCaptureCardID() error = %v", err)
	}
	got, err := f.store.GetCa(ctx, f.ca.ID)
	if err != nil {
		t.Fatalf("GetCa() error = %v", err)
	}
	if got.CaptureCardID == nil || *got.CaptureCardID != 4 {
		t.Errorf("CaptureCardID = %v, want 4", got.CaptureCardID)
	}

	if err := f.store.SetCaptureCardID(ctx, "no-such-ca", 4); !errors.Is(err, inventory.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestConfigBags(t *testing.T) {
	ctx := context.Background()

	t.Run("vendor config upsert", func(t *testing.T) {
		f := newFixture(t)
		cfg := &inventory.VendorConfig{
			VendorID:                 f.vendor.ID,
			FirmwareVersion:          "3",
			SourceDeinterlacing:      true,
			MaintenancePermanentLogs: true,
			TouchscreenTimeoutSecs:   600,
		}
		if err := f.store.SetVendorConfig(ctx, cfg); err != nil {
			t.Fatalf("SetVendorConfig() error = %v", err)
		}

		cfg.FirmwareVersion = "4"
		if err := f.store.SetVendorConfig(ctx, cfg); err != nil {
			t.Fatalf("SetVendorConfig() second error = %v", err)
		}
		got, err := f.store.GetVendorConfig(ctx, f.vendor.ID)
		if err != nil {
			t.Fatalf("GetVendorConfig() error = %v", err)
		}
		if got.FirmwareVersion != "4" {
			t.Errorf("FirmwareVersion = %q, want 4", got.FirmwareVersion)
		}
	})

	t.Run("channels listed in name order", func(t *testing.T) {
		f := newFixture(t)
		for _, name := range []string{"dce_pr", "dce_live", "dce_pn"} {
			_, err := f.store.CreateChannel(ctx, &inventory.ChannelConfig{
				CaID:              f.ca.ID,
				Name:              name,
				ChannelIDInDevice: 99999,
			})
			if err != nil {
				t.Fatalf("CreateChannel(%s) error = %v", name, err)
			}
		}
		channels, err := f.store.ListChannels(ctx, f.ca.ID)
		if err != nil {
			t.Fatalf("ListChannels() error = %v", err)
		}
		want := []string{"dce_live", "dce_pn", "dce_pr"}
		for i, ch := range channels {
			if ch.Name != want[i] {
				t.Errorf("channels[%d] = %q, want %q", i, ch.Name, want[i])
			}
		}
	})

	t.Run("duplicate channel name per agent rejected", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.store.CreateChannel(ctx, &inventory.ChannelConfig{CaID: f.ca.ID, Name: "dce_live"}); err != nil {
			t.Fatalf("CreateChannel() error = %v", err)
		}
		_, err := f.store.CreateChannel(ctx, &inventory.ChannelConfig{CaID: f.ca.ID, Name: "dce_live"})
		if !errors.Is(err, inventory.ErrInvalidOperation) {
			t.Errorf("error = %v, want ErrInvalidOperation", err)
		}
	})
}
