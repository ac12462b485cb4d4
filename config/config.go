// Package config handles node and CLI configuration.
//
// Config is stored at $XDG_CONFIG_HOME/hackhub/config.yaml (defaults to
// ~/.config/hackhub/config.yaml). The same file serves the daemon (node
// identity, listen address, snapshot directory, peers) and the CLI
// (which daemon to talk to).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Peer names another daemon in the cluster.
type Peer struct {
	Name string `yaml:"name"`
	Addr string `yaml:"addr"`
}

// Config is the on-disk configuration.
type Config struct {
	// Node is this daemon's name in the cluster. Defaults to the
	// hostname.
	Node string `yaml:"node,omitempty"`
	// Listen is the daemon's HTTP listen address.
	Listen string `yaml:"listen,omitempty"`
	// DataDir holds the snapshot files.
	DataDir string `yaml:"data-dir,omitempty"`
	// Server is the daemon address the CLI talks to. Defaults to
	// Listen.
	Server string `yaml:"server,omitempty"`
	// Peers are the other daemons probed for the chat singleton.
	Peers []Peer `yaml:"peers,omitempty"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log-level,omitempty"`
}

const defaultListen = "127.0.0.1:7077"

// Path returns the config file location. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/hackhub/config.yaml.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "hackhub", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "hackhub", "config.yaml")
}

// Load reads the config file. A missing file yields the defaults, not
// an error.
func Load() (*Config, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return (&Config{}).withDefaults(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg.withDefaults(), nil
}

func (c *Config) withDefaults() *Config {
	if c.Node == "" {
		if host, err := os.Hostname(); err == nil {
			c.Node = host
		} else {
			c.Node = "hackhub"
		}
	}
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Server == "" {
		c.Server = c.Listen
	}
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "hackhub")
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "hackhub")
}

// Save writes the config to disk, creating directories as needed.
func (c *Config) Save() error {
	p := Path()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
