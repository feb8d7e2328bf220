package core

// Relay numbers a reward valve, 1..NumRelays
type Relay uint8

const NumRelays = 4

func (r Relay) pin() GPIOPin {
	return PinRelay1 + GPIOPin(r-1)
}

// Actuator drives the relays, TTL and ACK lines and the indicator outputs.
// Pulse timing goes through the shared Delayer.
type Actuator struct {
	gpio  GPIODriver
	pwm   PWMDriver
	delay *Delayer
	cfg   *RuntimeConfig
}

// NewActuator binds the actuation layer to its drivers and settings
func NewActuator(gpio GPIODriver, pwm PWMDriver, delay *Delayer, cfg *RuntimeConfig) *Actuator {
	return &Actuator{gpio: gpio, pwm: pwm, delay: delay, cfg: cfg}
}

// PulseRelay energizes the valve for RelayOnTimeMs, then releases it.
// Nothing else is serviced meanwhile.
func (a *Actuator) PulseRelay(r Relay) error {
	if !between(r, 1, NumRelays) {
		return ErrInvalidRelay
	}
	if err := a.gpio.SetPin(r.pin(), true); err != nil {
		return err
	}
	a.delay.Delay(a.cfg.RelayOnTimeMs)
	return a.gpio.SetPin(r.pin(), false)
}

// SetAck drives the ACK line
func (a *Actuator) SetAck(on bool) {
	a.set(PinAck, on)
}

// SetTTL drives TTL_OUT
func (a *Actuator) SetTTL(on bool) {
	a.set(PinTTLOut, on)
}

// ToggleTTL flips TTL_OUT and holds it
func (a *Actuator) ToggleTTL() {
	level, _ := a.TTLLevel()
	a.SetTTL(!level)
}

// TTLLevel reads back TTL_OUT
func (a *Actuator) TTLLevel() (bool, error) {
	return a.gpio.GetPin(PinTTLOut)
}

// SetIndicator lights or darkens the trial cue
func (a *Actuator) SetIndicator(on bool) {
	v := uint16(CompareOff)
	if on {
		v = CueOn
	}
	if err := a.pwm.SetCompare(PWMCue, v); err != nil {
		DebugPrintln("[ACT] cue write failed: " + err.Error())
	}
}

// SetStatusLEDs drives both status LEDs together
func (a *Actuator) SetStatusLEDs(on bool) {
	a.set(PinLEDRed, on)
	a.set(PinLEDGreen, on)
}

// ReleaseAll returns relays, cue and status LEDs to idle. Feeder rings are
// handled by the brightness engine and TTL_OUT keeps its level.
func (a *Actuator) ReleaseAll() {
	for r := Relay(1); r <= NumRelays; r++ {
		a.set(r.pin(), false)
	}
	a.SetIndicator(false)
	a.SetStatusLEDs(false)
	a.SetAck(false)
}

func (a *Actuator) set(pin GPIOPin, on bool) {
	if err := a.gpio.SetPin(pin, on); err != nil {
		DebugPrintln("[ACT] " + pin.String() + " write failed: " + err.Error())
	}
}
