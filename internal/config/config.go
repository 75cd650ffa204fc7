package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the client configuration, stored as YAML next to the database.
type Config struct {
	// APIBaseURL is the fitness service endpoint.
	APIBaseURL string `yaml:"api_base_url"`

	// CacheTTLMinutes is the freshness window for cached server data.
	CacheTTLMinutes int `yaml:"cache_ttl_minutes"`

	// DatabasePath overrides the default sqlite location when set.
	DatabasePath string `yaml:"database_path,omitempty"`

	// LogFile is where diagnostic output goes; the TUI owns the terminal.
	LogFile string `yaml:"log_file,omitempty"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug,omitempty"`
}

func Default() *Config {
	return &Config{
		APIBaseURL:      "https://api.fitgrid.app",
		CacheTTLMinutes: 60,
	}
}

// Normalize fills missing/zero values so partially written configs from
// older versions still behave.
func (c *Config) Normalize() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = "https://api.fitgrid.app"
	}
	if c.CacheTTLMinutes <= 0 {
		c.CacheTTLMinutes = 60
	}
}

// CacheTTL returns the configured TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// DefaultPath returns ~/.config/fitgrid/config.yaml
func DefaultPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "fitgrid", "config.yaml"), nil
}

// Load reads the config at path. On first run the file does not exist yet;
// a default config is written there and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the config atomically (temp file + rename) with 0600 perms.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".fitgrid-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
