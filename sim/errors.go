package sim

import "errors"

var (
	errUnknownPin     = errors.New("sim: unknown pin")
	errUnknownChannel = errors.New("sim: unknown PWM channel")
)
