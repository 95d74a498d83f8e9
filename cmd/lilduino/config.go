package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/phroun/lilduino"
)

// HostConfig is the lilduino.toml file read by the host.
type HostConfig struct {
	Bridge   *lilduino.Config  `toml:"bridge"`
	Storage  StorageConfig     `toml:"storage"`
	Networks map[string]string `toml:"networks"`
	Vars     map[string]string `toml:"vars"`
}

// StorageConfig picks the file store behind read, store and source.
type StorageConfig struct {
	// Backend is "dir" or "sqlite".
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

func defaultHostConfig() *HostConfig {
	return &HostConfig{
		Bridge: lilduino.DefaultConfig(),
		Storage: StorageConfig{
			Backend: "dir",
			Path:    "sd",
		},
	}
}

// loadHostConfig reads path over the defaults. An empty path means no file.
func loadHostConfig(path string) (*HostConfig, error) {
	c := defaultHostConfig()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown config key %s", path, undecoded[0])
	}
	if c.Bridge.Vars == nil {
		c.Bridge.Vars = make(map[string]string)
	}
	for k, v := range c.Vars {
		c.Bridge.Vars[k] = v
	}
	return c, nil
}
