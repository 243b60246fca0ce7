// Package config handles configuration for the binderkeeper CLI: defaults,
// JSON overlay, and command-line flags, applied in that order.
package config

import "time"

// Config holds runtime settings for the client.
type Config struct {
	// ServerEndpointAddr is the base URL of the sync server.
	ServerEndpointAddr string
	// DatabaseDSN is the SQLite DSN for the local snapshot store.
	DatabaseDSN string
	// OnlineCheckInterval is how often the client probes server
	// reachability while the REPL is running.
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabaseDSN = "binderkeeper.db"
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
