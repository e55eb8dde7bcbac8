package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	ctx := context.Background()
	if err := database.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

func TestMigrate(t *testing.T) {
	database := openTestDB(t)

	version, err := database.SchemaVersion(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if version != currentSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, currentSchemaVersion)
	}

	// Migrating again is a no-op.
	if err := database.Migrate(context.Background()); err != nil {
		t.Errorf("second migrate: %v", err)
	}
}

func TestBootstrapDefaults(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	needs, err := database.NeedsBootstrap(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !needs {
		t.Fatal("fresh database should need bootstrap")
	}

	if _, err := database.ActiveProfile(ctx); !errors.Is(err, ErrNoActiveProfile) {
		t.Errorf("err = %v, want ErrNoActiveProfile", err)
	}

	if err := database.Bootstrap(ctx); err != nil {
		t.Fatal(err)
	}

	p, err := database.ActiveProfile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "default" || !p.IsActive {
		t.Errorf("active profile = %+v", p)
	}
	if p.APIAddress() != "0.0.0.0:8080" {
		t.Errorf("api address = %s", p.APIAddress())
	}

	cfg := p.BulbConfig()
	if cfg.Addr.Host != "192.168.1.45" || cfg.Addr.Port != 4000 {
		t.Errorf("bulb addr = %+v", cfg.Addr)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("bulb timeout = %v", cfg.Timeout)
	}

	ports := p.ScanPorts()
	if ports.Start != 4000 || ports.End != 4010 {
		t.Errorf("scan ports = %+v", ports)
	}

	// Bootstrapping twice does not duplicate the profile.
	if err := database.Bootstrap(ctx); err != nil {
		t.Fatal(err)
	}
	needs, err = database.NeedsBootstrap(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if needs {
		t.Error("bootstrapped database still reports needing bootstrap")
	}
}

func TestSaveProfile(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	if err := database.Bootstrap(ctx); err != nil {
		t.Fatal(err)
	}

	p, err := database.ActiveProfile(ctx)
	if err != nil {
		t.Fatal(err)
	}

	p.BulbHost = "10.0.0.20"
	p.BulbPort = 4500
	p.BulbTimeout = 2 * time.Second
	if err := database.SaveProfile(ctx, p); err != nil {
		t.Fatal(err)
	}

	reloaded, err := database.ProfileByName(ctx, "default")
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.BulbHost != "10.0.0.20" || reloaded.BulbPort != 4500 {
		t.Errorf("reloaded profile = %+v", reloaded)
	}
	if reloaded.BulbTimeout != 2*time.Second {
		t.Errorf("reloaded timeout = %v", reloaded.BulbTimeout)
	}
}

func TestSaveProfile_Missing(t *testing.T) {
	database := openTestDB(t)

	p := &Profile{ID: 999, BulbTimeout: time.Second}
	if err := database.SaveProfile(context.Background(), p); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}
