// Package arena holds per-enclosure profiles: the brightness tiers measured
// for one arena, its default timing, and the identification strings shown by
// the '?' report.
package arena

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorecord/core"
	"gorecord/protocol"
)

var (
	ErrLevelCount  = errors.New("arena: expected 3 brightness levels")
	ErrFeederCount = errors.New("arena: expected 4 compare values per level")
	ErrTTLMode     = errors.New("arena: unknown TTL mode")
)

// DeviceConfig identifies the controller
type DeviceConfig struct {
	Device   string `json:"device"`
	ID       string `json:"id"`
	Firmware string `json:"firmware"`
	Library  string `json:"library"`
	Config   string `json:"config"`
	Updated  string `json:"updated"`
}

// Profile describes one arena
type Profile struct {
	Name   string       `json:"name"`
	Device DeviceConfig `json:"device"`

	// Levels holds the compare values of tiers 1..3, one per feeder.
	// Lower values are brighter; 8000 is off.
	Levels [][]uint16 `json:"levels"`

	RelayOnTimeMs uint32 `json:"relay_on_time_ms"`
	TTLLengthMs   uint32 `json:"ttl_length_ms"`
	TTLMode       string `json:"ttl_mode"`
	ExternalTTL   bool   `json:"external_ttl"`
}

// Development returns the profile of the development arena
func Development() *Profile {
	return &Profile{
		Name: "dev1",
		Device: DeviceConfig{
			Device:   "Raspberry Pi Pico (RP2040)",
			ID:       "RP2040_Dev",
			Firmware: protocol.Version,
			Library:  "v1.2",
			Config:   "v0.2",
			Updated:  "17-February-2023",
		},
		Levels: [][]uint16{
			{core.DefaultLevel1, core.DefaultLevel1, core.DefaultLevel1, core.DefaultLevel1},
			{core.DefaultLevel2, core.DefaultLevel2, core.DefaultLevel2, core.DefaultLevel2},
			{core.DefaultLevel3, core.DefaultLevel3, core.DefaultLevel3, core.DefaultLevel3},
		},
		RelayOnTimeMs: core.DefaultRelayOnTimeMs,
		TTLLengthMs:   core.DefaultTTLLengthMs,
		TTLMode:       "toggle",
	}
}

// Load parses a JSON profile. Fields left out are taken from Development.
func Load(data []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("arena: parse profile: %w", err)
	}

	applyDefaults(&p)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// applyDefaults fills in missing values from the development arena
func applyDefaults(p *Profile) {
	dev := Development()

	if p.Name == "" {
		p.Name = dev.Name
	}

	d := &p.Device
	if d.Device == "" {
		d.Device = dev.Device.Device
	}
	if d.ID == "" {
		d.ID = dev.Device.ID
	}
	if d.Firmware == "" {
		d.Firmware = dev.Device.Firmware
	}
	if d.Library == "" {
		d.Library = dev.Device.Library
	}
	if d.Config == "" {
		d.Config = dev.Device.Config
	}
	if d.Updated == "" {
		d.Updated = dev.Device.Updated
	}

	// A compare value of 0 is full brightness, so only a missing table is
	// replaced.
	if p.Levels == nil {
		p.Levels = dev.Levels
	}

	if p.RelayOnTimeMs == 0 {
		p.RelayOnTimeMs = dev.RelayOnTimeMs
	}
	if p.TTLLengthMs == 0 {
		p.TTLLengthMs = dev.TTLLengthMs
	}
	if p.TTLMode == "" {
		p.TTLMode = dev.TTLMode
	}
}

// Validate checks that the profile can be loaded onto a controller
func (p *Profile) Validate() error {
	if len(p.Levels) != int(core.TierLevel3) {
		return ErrLevelCount
	}
	for i, level := range p.Levels {
		if len(level) != core.NumFeeders {
			return fmt.Errorf("level %d: %w", i+1, ErrFeederCount)
		}
		for f, v := range level {
			if v > core.CompareMax {
				return fmt.Errorf("level %d feeder %d: %w", i+1, f+1, core.ErrValueRange)
			}
		}
	}
	if p.RelayOnTimeMs > core.MaxDurationMs {
		return fmt.Errorf("relay on time: %w", core.ErrValueRange)
	}
	if p.TTLLengthMs > core.MaxDurationMs {
		return fmt.Errorf("ttl length: %w", core.ErrValueRange)
	}
	if _, err := ParseTTLMode(p.TTLMode); err != nil {
		return err
	}
	return nil
}

// ParseTTLMode accepts the names printed by the '?' report, in any case
func ParseTTLMode(name string) (core.TTLMode, error) {
	for _, m := range []core.TTLMode{core.TTLToggle, core.TTLPulse, core.TTLOff} {
		if strings.EqualFold(name, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrTTLMode, name)
}

// Info returns the identification block of the '?' report
func (p *Profile) Info() core.DeviceInfo {
	return core.DeviceInfo{
		Device:   p.Device.Device,
		ID:       p.Device.ID,
		Firmware: p.Device.Firmware,
		Library:  p.Device.Library,
		Config:   p.Device.Config,
		Updated:  p.Device.Updated,
	}
}

// State returns the power-on controller state for this arena. The profile
// must have passed Validate.
func (p *Profile) State() core.State {
	s := core.DefaultState()
	for i, level := range p.Levels {
		copy(s.Tiers[core.TierLevel1+core.Tier(i)][:], level)
	}
	s.Config.RelayOnTimeMs = p.RelayOnTimeMs
	s.Config.TTLLengthMs = p.TTLLengthMs
	if m, err := ParseTTLMode(p.TTLMode); err == nil {
		s.Config.TTLMode = m
	}
	s.Config.ExternalTTLEnabled = p.ExternalTTL
	return s
}
