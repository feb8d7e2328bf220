package core

// Tier selects one of the fixed brightness presets
type Tier uint8

const (
	TierOff Tier = iota
	TierLevel1
	TierLevel2
	TierLevel3

	NumTiers
)

// Feeder numbers a feeder LED ring, 1..NumFeeders
type Feeder uint8

const NumFeeders = 4

// Reference arena tier defaults
const (
	DefaultLevel1 = 7700
	DefaultLevel2 = 3500
	DefaultLevel3 = 250
)

// TierTable stores one compare value per tier and feeder
type TierTable [NumTiers][NumFeeders]uint16

// DefaultTierTable returns the power-on tiers
func DefaultTierTable() TierTable {
	var t TierTable
	defaults := [NumTiers]uint16{CompareOff, DefaultLevel1, DefaultLevel2, DefaultLevel3}
	for tier, v := range defaults {
		for f := range t[tier] {
			t[tier][f] = v
		}
	}
	return t
}

// ParseFeeder converts '1'..'4'
func ParseFeeder(c byte) (Feeder, error) {
	f, ok := selector[Feeder](c, 1, NumFeeders)
	if !ok {
		return 0, ErrInvalidFeeder
	}
	return f, nil
}

// ParseTier converts '0'..'3'
func ParseTier(c byte) (Tier, error) {
	t, ok := selector[Tier](c, TierOff, TierLevel3)
	if !ok {
		return 0, ErrInvalidTier
	}
	return t, nil
}

// ParseLevel converts '1'..'3'; the Off tier cannot be edited
func ParseLevel(c byte) (Tier, error) {
	t, ok := selector[Tier](c, TierLevel1, TierLevel3)
	if !ok {
		return 0, ErrInvalidTier
	}
	return t, nil
}

func (f Feeder) channel() PWMChannel {
	return PWMFeeder1 + PWMChannel(f-1)
}

func (f Feeder) valid() bool {
	return between(f, 1, NumFeeders)
}

func (t Tier) valid() bool {
	return t < NumTiers
}

// Brightness commits tier values to the feeder PWM channels
type Brightness struct {
	tiers *TierTable
	pwm   PWMDriver
}

// NewBrightness binds the engine to a tier table and a PWM driver
func NewBrightness(tiers *TierTable, pwm PWMDriver) *Brightness {
	return &Brightness{tiers: tiers, pwm: pwm}
}

// SetBrightness writes the tier's stored value for the feeder to its channel
func (b *Brightness) SetBrightness(f Feeder, t Tier) error {
	if !f.valid() {
		return ErrInvalidFeeder
	}
	if !t.valid() {
		return ErrInvalidTier
	}
	return b.pwm.SetCompare(f.channel(), b.tiers[t][f-1])
}

// ModifyCCR stores v in the tier's slot for the feeder. Nothing is written to
// hardware until the next SetBrightness.
func (b *Brightness) ModifyCCR(t Tier, f Feeder, v uint16) error {
	if !f.valid() {
		return ErrInvalidFeeder
	}
	if !t.valid() {
		return ErrInvalidTier
	}
	if v > CompareMax {
		return ErrValueRange
	}
	b.tiers[t][f-1] = v
	return nil
}

// Value returns the stored compare value
func (b *Brightness) Value(t Tier, f Feeder) (uint16, error) {
	if !f.valid() {
		return 0, ErrInvalidFeeder
	}
	if !t.valid() {
		return 0, ErrInvalidTier
	}
	return b.tiers[t][f-1], nil
}

// Preview writes v straight to the feeder channel without touching the tiers
func (b *Brightness) Preview(f Feeder, v uint16) error {
	if !f.valid() {
		return ErrInvalidFeeder
	}
	if v > CompareMax {
		return ErrValueRange
	}
	return b.pwm.SetCompare(f.channel(), v)
}

// ApplyTier sets every feeder to the tier
func (b *Brightness) ApplyTier(t Tier) error {
	for f := Feeder(1); f <= NumFeeders; f++ {
		if err := b.SetBrightness(f, t); err != nil {
			return err
		}
	}
	return nil
}
