package core

import (
	"context"

	"gorecord/protocol"
)

// CalibrationStep is the compare change per '[' or ']'
const CalibrationStep = 50

// stepCompare applies one calibration keystroke. Stepping past CompareMax
// wraps to 0 and stepping below 0 wraps to CompareMax; wrapped reports which
// happened. Other keys leave v unchanged.
func stepCompare(v uint16, key byte) (next uint16, wrapped bool) {
	switch key {
	case '[':
		if uint32(v)+CalibrationStep > CompareMax {
			return 0, true
		}
		return v + CalibrationStep, false
	case ']':
		if v < CalibrationStep {
			return CompareMax, true
		}
		return v - CalibrationStep, false
	}
	return v, false
}

// cmdCalibrate runs the '%' dialog: live-adjust one feeder at one level, then
// commit or roll back.
func (d *Dispatcher) cmdCalibrate(ctx context.Context, c byte) error {
	d.sayByte(c)
	d.say(nl + "Calibration mode." + nl + "Select level [1-3]: ")

	b, err := d.nextEcho(ctx)
	if err != nil {
		return err
	}
	tier, err := ParseLevel(b)
	if err != nil {
		d.say(nl + "%: Invalid level, cannot continue." + protocol.LineEnd)
		return nil
	}

	d.say(nl + "Select feeder [1-4]: ")
	if b, err = d.nextEcho(ctx); err != nil {
		return err
	}
	feeder, err := ParseFeeder(b)
	if err != nil {
		d.say(nl + "%: Invalid feeder, cannot continue." + protocol.LineEnd)
		return nil
	}

	if err := d.bright.SetBrightness(feeder, tier); err != nil {
		return err
	}
	v, _ := d.bright.Value(tier, feeder)

	d.say(nl + "Press '[' to dim or ']' to brighten, ENTER to finish.")
	for {
		d.out.WriteString(nl + "> CCR value is currently: ")
		d.out.Uint(uint32(v))
		d.say(nl)

		key, err := d.nextEcho(ctx)
		if err != nil {
			return err
		}
		if key == protocol.CarriageReturn {
			break
		}
		if key != '[' && key != ']' {
			d.say(" Use '[' or ']' to adjust, ENTER to finish.")
			continue
		}

		next, wrapped := stepCompare(v, key)
		if wrapped && next == 0 {
			d.say(" CCR value upper limit reached, looped back to 0.")
		} else if wrapped {
			d.say(" CCR value lower limit reached, looped back to 8000.")
		}
		v = next
		if err := d.bright.Preview(feeder, v); err != nil {
			return err
		}
	}

	d.say(" Would you like to apply these changes? [y/n]: ")
	answer, err := d.nextEcho(ctx)
	if err != nil {
		return err
	}

	if answer == 'y' || answer == 'Y' {
		if err := d.bright.ModifyCCR(tier, feeder, v); err != nil {
			return err
		}
		d.say(nl + "%: New settings applied.")
	} else {
		d.say(nl + "%: Changes discarded, previous values restored.")
	}
	if err := d.bright.ApplyTier(tier); err != nil {
		return err
	}
	d.say(protocol.LineEnd)
	return nil
}
