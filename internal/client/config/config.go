package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the VeriLens CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the detection backend.
//   - RequestTimeout: default timeout for non-analysis requests (analysis
//     calls use the per-user preference instead).
//   - CacheDir: directory for the local Badger cache.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	CacheDir           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:5000"
	c.RequestTimeout = 15 * time.Second
	c.CacheDir = defaultCacheDir()
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ".verilens"
	}
	return filepath.Join(base, "verilens")
}
