// Package serial opens the 9600 8N1 link to an arena controller and lists
// candidate devices.
package serial

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// DefaultBaud is the arena controller's fixed line rate
const DefaultBaud = 9600

var (
	ErrNoDevice = errors.New("serial: no device given")
	ErrBaud     = errors.New("serial: baud rate must be positive")
)

// Port is a bidirectional link to one controller. Native ports, the
// in-process simulator loopback and test fakes all satisfy it.
type Port interface {
	io.ReadWriteCloser

	// Flush discards unread input
	Flush() error
}

// Config describes how to open a port
type Config struct {
	Device string
	Baud   int

	// ReadTimeout bounds one Read; zero blocks
	ReadTimeout time.Duration
}

// DefaultConfig returns the arena link configuration for device
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: time.Second,
	}
}

// Validate checks that the config can be opened
func (c *Config) Validate() error {
	if c.Device == "" {
		return ErrNoDevice
	}
	if c.Baud <= 0 {
		return fmt.Errorf("%w: %d", ErrBaud, c.Baud)
	}
	return nil
}

// PortInfo describes a serial device found on this machine
type PortInfo struct {
	Name    string
	USB     bool
	VID     string
	PID     string
	Serial  string
	Product string
}

func (p PortInfo) String() string {
	if !p.USB {
		return p.Name
	}
	s := fmt.Sprintf("%s [%s:%s]", p.Name, p.VID, p.PID)
	if p.Product != "" {
		s += " " + p.Product
	}
	if p.Serial != "" {
		s += " sn=" + p.Serial
	}
	return s
}
