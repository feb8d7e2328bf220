//go:build !wasm

package serial

import (
	"fmt"
	"sort"

	"github.com/tarm/serial"
	"go.bug.st/serial/enumerator"
)

// NativePort is an OS serial device opened through tarm/serial
type NativePort struct {
	port   *serial.Port
	device string
}

var _ Port = (*NativePort)(nil)

// Open opens the device described by cfg
func Open(cfg *Config) (*NativePort, error) {
	if cfg == nil {
		return nil, ErrNoDevice
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	return &NativePort{port: port, device: cfg.Device}, nil
}

func (p *NativePort) Read(b []byte) (int, error)  { return p.port.Read(b) }
func (p *NativePort) Write(b []byte) (int, error) { return p.port.Write(b) }
func (p *NativePort) Flush() error                { return p.port.Flush() }

// Device returns the path the port was opened on
func (p *NativePort) Device() string { return p.device }

// Close closes the port
func (p *NativePort) Close() error {
	if p.port == nil {
		return nil
	}
	return p.port.Close()
}

// Ports lists serial devices present on this machine, USB adapters first
func Ports() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Name:    d.Name,
			USB:     d.IsUSB,
			VID:     d.VID,
			PID:     d.PID,
			Serial:  d.SerialNumber,
			Product: d.Product,
		})
	}
	sort.SliceStable(ports, func(i, j int) bool {
		if ports[i].USB != ports[j].USB {
			return ports[i].USB
		}
		return ports[i].Name < ports[j].Name
	})
	return ports, nil
}
