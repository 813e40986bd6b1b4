// Package config loads the settings of the HTTP server process.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
)

// Config holds runtime parameters for `turnos serve`.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr         string   `json:"addr" yaml:"addr" toml:"addr"`
	Store        string   `json:"store" yaml:"store" toml:"store"`
	CORSOrigins  []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	TickMillis   int      `json:"tick_ms" yaml:"tick_ms" toml:"tick_ms"`
	MaxBodyBytes int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	LogRequests  *bool    `json:"log_requests" yaml:"log_requests" toml:"log_requests"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// ApplyDefaults fills unspecified fields
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = constants.DefaultAddr
	}
	if c.TickMillis <= 0 {
		c.TickMillis = int(constants.DefaultTickInterval / time.Millisecond)
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1 << 20
	}
	if c.LogRequests == nil {
		on := true
		c.LogRequests = &on
	}
}

// Tick returns the interval between projection pushes
func (c Config) Tick() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}
