// Package config holds runtime settings for the todokeeper CLI.
package config

import (
	"flag"
	"os"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP API.
type Config struct {
	ServerEndpointAddr string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
}

func parseEnv(c *Config) {
	if v := os.Getenv("TODOKEEPER_ADDRESS"); v != "" {
		c.ServerEndpointAddr = v
	}
}

func parseFlags(c *Config) {
	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	addr := fs.String("a", c.ServerEndpointAddr, "server base URL")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return
	}
	c.ServerEndpointAddr = *addr
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment and command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
