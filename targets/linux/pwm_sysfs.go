//go:build linux && !tinygo

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorecord/core"
)

// 1 kHz carrier, same as the reference board
const pwmPeriodNs = 1000000

var errPWMChannel = errors.New("linux: unknown PWM channel")

// SysfsPWM implements core.PWMDriver on /sys/class/pwm. Compare values are
// inverted into duty cycle: 0 is full on, CompareMax is dark.
type SysfsPWM struct {
	chip string
}

// NewSysfsPWM exports and enables every channel, dark
func NewSysfsPWM(chip string) (*SysfsPWM, error) {
	p := &SysfsPWM{chip: filepath.Join("/sys/class/pwm", chip)}
	for _, ch := range pwmChannels {
		if err := p.export(ch); err != nil {
			return nil, err
		}
		if err := p.write(ch, "period", pwmPeriodNs); err != nil {
			return nil, err
		}
		if err := p.write(ch, "duty_cycle", 0); err != nil {
			return nil, err
		}
		if err := p.write(ch, "enable", 1); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *SysfsPWM) channelDir(ch int) string {
	return filepath.Join(p.chip, "pwm"+strconv.Itoa(ch))
}

func (p *SysfsPWM) export(ch int) error {
	if _, err := os.Stat(p.channelDir(ch)); err == nil {
		return nil
	}
	if err := os.WriteFile(filepath.Join(p.chip, "export"), []byte(strconv.Itoa(ch)), 0); err != nil {
		return fmt.Errorf("export pwm%d: %w", ch, err)
	}
	// udev needs a moment to fix attribute permissions
	for i := 0; i < 50; i++ {
		if _, err := os.Stat(filepath.Join(p.channelDir(ch), "period")); err == nil {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("pwm%d did not appear", ch)
}

func (p *SysfsPWM) write(ch int, attr string, v int) error {
	path := filepath.Join(p.channelDir(ch), attr)
	if err := os.WriteFile(path, []byte(strconv.Itoa(v)), 0); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// SetCompare implements core.PWMDriver
func (p *SysfsPWM) SetCompare(ch core.PWMChannel, value uint16) error {
	if ch >= core.NumPWMChannels {
		return errPWMChannel
	}
	if value > core.CompareMax {
		return core.ErrValueRange
	}
	duty := int(core.CompareMax-value) * pwmPeriodNs / core.CompareMax
	return p.write(pwmChannels[ch], "duty_cycle", duty)
}

// Close turns every channel off
func (p *SysfsPWM) Close() error {
	var errs []error
	for _, ch := range pwmChannels {
		errs = append(errs, p.write(ch, "enable", 0))
	}
	return errors.Join(errs...)
}
