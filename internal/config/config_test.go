package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.APIBaseURL == "" {
		t.Fatal("default config needs an API endpoint")
	}
	if cfg.CacheTTLMinutes != 60 {
		t.Fatalf("default TTL = %d, want 60", cfg.CacheTTLMinutes)
	}
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()
	if cfg.APIBaseURL == "" {
		t.Fatal("normalize should fill the API endpoint")
	}
	if cfg.CacheTTLMinutes != 60 {
		t.Fatalf("normalize TTL = %d, want 60", cfg.CacheTTLMinutes)
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	cfg := &Config{APIBaseURL: "http://localhost:8080", CacheTTLMinutes: 5}
	cfg.Normalize()
	if cfg.APIBaseURL != "http://localhost:8080" || cfg.CacheTTLMinutes != 5 {
		t.Fatalf("normalize changed explicit values: %+v", cfg)
	}
}

func TestCacheTTL(t *testing.T) {
	cfg := &Config{CacheTTLMinutes: 90}
	if got := cfg.CacheTTL(); got != 90*time.Minute {
		t.Fatalf("CacheTTL() = %v", got)
	}
}

func TestLoadFirstRunWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL != Default().APIBaseURL {
		t.Fatalf("first run should return defaults, got %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("first run should write the file: %v", err)
	}

	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("config perms = %v, want 0600", info.Mode().Perm())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	want := &Config{
		APIBaseURL:      "http://localhost:9000",
		CacheTTLMinutes: 15,
		DatabasePath:    "/tmp/fitgrid.db",
		LogFile:         "/tmp/fitgrid.log",
		Debug:           true,
	}
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Fatalf("round trip: got %+v, want %+v", got, want)
	}
}

func TestSaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := Save(path, &Config{APIBaseURL: "http://one"}); err != nil {
		t.Fatal(err)
	}
	if err := Save(path, &Config{APIBaseURL: "http://two"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL != "http://two" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected only the config file, found %d entries", len(entries))
	}
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Fatal("explicit field should survive")
	}
	if cfg.APIBaseURL == "" || cfg.CacheTTLMinutes != 60 {
		t.Fatalf("missing fields should be normalized, got %+v", cfg)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config should fail loudly, not silently reset")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("empty path should error")
	}
}

func TestSaveNilConfig(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "c.yaml"), nil); err == nil {
		t.Fatal("nil config should error")
	}
}
