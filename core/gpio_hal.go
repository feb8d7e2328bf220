package core

// GPIOPin names a logical digital line of the arena board
type GPIOPin uint8

const (
	PinAck GPIOPin = iota
	PinTTLOut
	PinRelay1
	PinRelay2
	PinRelay3
	PinRelay4
	PinLEDRed
	PinLEDGreen

	NumGPIOPins
)

var pinNames = [NumGPIOPins]string{
	"ACK", "TTL_OUT", "RELAY1", "RELAY2", "RELAY3", "RELAY4", "LED_RED", "LED_GREEN",
}

func (p GPIOPin) String() string {
	if p < NumGPIOPins {
		return pinNames[p]
	}
	return "PIN?"
}

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations map logical lines onto hardware pins
// and take care of polarity (relays on the reference board are active-low).
type GPIODriver interface {
	// SetPin asserts (true) or releases (false) a line
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads back the current line state
	GetPin(pin GPIOPin) (bool, error)
}
