package core

import "errors"

// SerialPort is the transmit side of the host link
type SerialPort interface {
	Write(p []byte) (int, error)
}

// TriggerMask masks or unmasks the external trigger edge interrupt
type TriggerMask interface {
	SetTriggerEnabled(enabled bool)
}

// DeviceInfo identifies the controller in the '?' report
type DeviceInfo struct {
	Device   string
	ID       string
	Firmware string
	Library  string
	Config   string
	Updated  string
}

// Board bundles the hardware a target hands to the scheduler
type Board struct {
	GPIO    GPIODriver
	PWM     PWMDriver
	Serial  SerialPort
	Delay   DelayTimer
	Trigger TriggerMask
	Info    DeviceInfo
}

var errIncompleteBoard = errors.New("board is missing a driver")

func (b *Board) validate() error {
	if b.GPIO == nil || b.PWM == nil || b.Serial == nil || b.Delay == nil || b.Trigger == nil {
		return errIncompleteBoard
	}
	return nil
}
