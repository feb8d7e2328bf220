package core

// TTLMode selects what the 'T' command does to TTL_OUT
type TTLMode uint8

const (
	TTLToggle TTLMode = iota
	TTLPulse
	TTLOff
)

func (m TTLMode) String() string {
	switch m {
	case TTLToggle:
		return "TOGGLE"
	case TTLPulse:
		return "PULSE"
	case TTLOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// Reference arena timing
const (
	DefaultRelayOnTimeMs = 500
	DefaultTTLLengthMs   = 100

	// MaxDurationMs bounds the relay and TTL durations set through '$'
	MaxDurationMs = 9999
)

// RuntimeConfig holds the volatile settings changed over the serial link
type RuntimeConfig struct {
	RelayOnTimeMs      uint32
	TTLLengthMs        uint32
	TTLMode            TTLMode
	ExternalTTLEnabled bool
	TrialIndicatorOn   bool
}

// DefaultRuntimeConfig returns the power-on settings
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		RelayOnTimeMs: DefaultRelayOnTimeMs,
		TTLLengthMs:   DefaultTTLLengthMs,
		TTLMode:       TTLToggle,
	}
}

// State is everything the command dispatcher may change. It is owned by the
// scheduler and is lost on power cycle.
type State struct {
	Tiers  TierTable
	Config RuntimeConfig
}

// DefaultState returns the power-on state of the reference arena
func DefaultState() State {
	return State{
		Tiers:  DefaultTierTable(),
		Config: DefaultRuntimeConfig(),
	}
}
