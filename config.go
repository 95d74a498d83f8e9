package lilduino

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/phroun/lilduino/hal"
)

// IRConfig tunes the infrared receivers built on demand by "ir receive".
type IRConfig struct {
	BufferSize int `toml:"buffer-size"`
	TimeoutMs  int `toml:"timeout-ms"`
	Tolerance  int `toml:"tolerance"`
}

// Receiver converts the settings to the form the IR driver takes.
func (c IRConfig) Receiver() hal.ReceiverConfig {
	return hal.ReceiverConfig{
		BufferSize: c.BufferSize,
		Timeout:    time.Duration(c.TimeoutMs) * time.Millisecond,
		Tolerance:  c.Tolerance,
	}
}

// Config holds configuration options for the bridge
type Config struct {
	Debug         bool     `toml:"debug"`
	LogCategories []string `toml:"log-categories"`

	// InputChunk is the growth step of the input line buffer.
	InputChunk int `toml:"input-chunk"`
	// InputLimit is the largest line "input" will buffer, in bytes.
	InputLimit int `toml:"input-limit"`

	PinTableSize       int `toml:"pin-table-size"`
	WifiTimeoutSeconds int `toml:"wifi-timeout"`

	// ContinueOnError keeps a script running after a failed statement.
	ContinueOnError bool `toml:"continue-on-error"`
	// SourceDepth caps how deeply "source" may nest.
	SourceDepth int `toml:"source-depth"`

	IR IRConfig `toml:"ir"`

	// Vars are set as interpreter variables when the bridge starts.
	Vars map[string]string `toml:"vars"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:              false,
		InputChunk:         DefaultChunk,
		InputLimit:         4096,
		PinTableSize:       DefaultPinTableSize,
		WifiTimeoutSeconds: 10,
		ContinueOnError:    false,
		SourceDepth:        64,
		IR: IRConfig{
			BufferSize: 1024,
			TimeoutMs:  15,
			Tolerance:  25,
		},
	}
}

// DecodeConfig parses TOML over the defaults. Keys that are absent keep
// their default value.
func DecodeConfig(data []byte) (*Config, error) {
	c := DefaultConfig()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %s", undecoded[0])
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	c, err := DecodeConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Config) validate() error {
	switch {
	case c.InputChunk <= 0:
		return fmt.Errorf("input-chunk must be positive, got %d", c.InputChunk)
	case c.InputLimit < 0:
		return fmt.Errorf("input-limit must not be negative, got %d", c.InputLimit)
	case c.PinTableSize <= 0:
		return fmt.Errorf("pin-table-size must be positive, got %d", c.PinTableSize)
	case c.WifiTimeoutSeconds < 0:
		return fmt.Errorf("wifi-timeout must not be negative, got %d", c.WifiTimeoutSeconds)
	case c.SourceDepth <= 0:
		return fmt.Errorf("source-depth must be positive, got %d", c.SourceDepth)
	}
	return nil
}
