package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gorecord/host/serial"
	"gorecord/protocol"
)

// Config represents the host tooling configuration.
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Client ClientConfig `yaml:"client"`
	Sim    SimConfig    `yaml:"sim"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port        string        `yaml:"port"`
	Baud        int           `yaml:"baud"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// ClientConfig controls how replies are collected.
type ClientConfig struct {
	Timeout    time.Duration `yaml:"timeout"`    // wait per reply
	Terminator string        `yaml:"terminator"` // reply terminator
}

// SimConfig selects an in-process simulated arena instead of a port.
type SimConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Realtime bool   `yaml:"realtime"`
	Profile  string `yaml:"profile"` // arena profile JSON, empty for the development arena
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:        "/dev/ttyUSB0",
			Baud:        serial.DefaultBaud,
			ReadTimeout: 100 * time.Millisecond,
		},
		Client: ClientConfig{
			Timeout:    time.Second,
			Terminator: protocol.LineEnd,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SerialPortConfig converts the serial section for serial.Open
func (c *Config) SerialPortConfig() *serial.Config {
	return &serial.Config{
		Device:      c.Serial.Port,
		Baud:        c.Serial.Baud,
		ReadTimeout: c.Serial.ReadTimeout,
	}
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}
	if c.Serial.ReadTimeout == 0 {
		c.Serial.ReadTimeout = def.Serial.ReadTimeout
	}

	if c.Client.Timeout == 0 {
		c.Client.Timeout = def.Client.Timeout
	}
	if c.Client.Terminator == "" {
		c.Client.Terminator = def.Client.Terminator
	}
}
