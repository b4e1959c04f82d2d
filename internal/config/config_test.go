package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Addr)
	}
	if cfg.DBPath != "data/agencydesk.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if cfg.SessionTTL != 30*24*time.Hour {
		t.Errorf("session ttl = %v, want 720h", cfg.SessionTTL)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
addr: ":9090"
db_path: /var/lib/agencydesk/portal.db
session_ttl: 12h
admin_email: boss@agency.test
admin_password: bootstrap-secret
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Addr)
	}
	if cfg.DBPath != "/var/lib/agencydesk/portal.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("session ttl = %v, want 12h", cfg.SessionTTL)
	}
	if cfg.AdminEmail != "boss@agency.test" {
		t.Errorf("admin email = %q", cfg.AdminEmail)
	}
	// Untouched fields keep their defaults.
	if cfg.StaticDir != "web/dist" {
		t.Errorf("static dir = %q, want default", cfg.StaticDir)
	}
	if cfg.AdminName != "Admin" {
		t.Errorf("admin name = %q, want default", cfg.AdminName)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
addr: ":9090"
session_ttl: 12h
`)
	t.Setenv("AGENCYDESK_ADDR", ":7070")
	t.Setenv("AGENCYDESK_SESSION_TTL", "1h30m")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("addr = %q, want env value :7070", cfg.Addr)
	}
	if cfg.SessionTTL != 90*time.Minute {
		t.Errorf("session ttl = %v, want 1h30m", cfg.SessionTTL)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("want error for missing file")
	}

	if _, err := Load(writeConfig(t, "addr: [not scalar")); err == nil {
		t.Error("want error for malformed yaml")
	}

	if _, err := Load(writeConfig(t, "session_ttl: soon")); err == nil {
		t.Error("want error for bad duration")
	}

	if _, err := Load(writeConfig(t, "session_ttl: -1h")); err == nil {
		t.Error("want error for non-positive ttl")
	}

	t.Setenv("AGENCYDESK_SESSION_TTL", "whenever")
	if _, err := Load(""); err == nil {
		t.Error("want error for bad env duration")
	}
}
