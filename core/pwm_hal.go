package core

// PWMChannel identifies a PWM-driven output. Feeder rings and the cue
// indicator share this namespace; relays are GPIO lines and never appear here.
type PWMChannel uint8

const (
	PWMFeeder1 PWMChannel = iota
	PWMFeeder2
	PWMFeeder3
	PWMFeeder4
	PWMCue

	NumPWMChannels
)

// Compare register domain. Lower values are brighter, CompareOff is dark.
const (
	CompareMax = 8000
	CompareOff = CompareMax

	// CueOn is the compare value of the lit trial indicator
	CueOn = 6000
)

// PWMDriver is the abstract PWM interface that core code uses.
// Platform-specific implementations scale the compare value to their own
// counter top.
type PWMDriver interface {
	// SetCompare writes value (0..CompareMax) to the channel's compare register
	SetCompare(ch PWMChannel, value uint16) error
}
