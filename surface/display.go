package surface

import "github.com/atom-bomb/cs10-linux/protocol"

// hexToSSD maps a 0-9 decimal digit to its seven-segment bit pattern (§6).
var hexToSSD = [10]uint8{
	0x3F, 0x06, 0x5B, 0x4F, 0x66, 0x6D, 0x7D, 0x07, 0x7F, 0x6F,
}

// LEDWriter is the subset of the control port the display driver needs.
type LEDWriter interface {
	SetLED(addr, value uint8) error
}

// Display drives the two-digit seven-segment display and its two decimal
// point LEDs.
//
// Two update paths exist, mirroring the original implementation's split
// between a full repaint and an incremental one: ShowBank and ShowSmpteField
// always write both digits, the way a mode switch or field switch should;
// Tick only rewrites whichever digit actually changed since the last call,
// so a free-running SMPTE clock doesn't retransmit the unchanged digit every
// frame (§4.6).
type Display struct {
	w LEDWriter

	ones, tens uint8
	cacheValid bool
}

func NewDisplay(w LEDWriter) *Display {
	return &Display{w: w}
}

// ShowBank repaints the display for Bank mode: ones=bank, tens=blank, both
// decimal points off. Always writes both digits.
func (d *Display) ShowBank(bank uint8) error {
	if err := d.w.SetLED(protocol.OnesSSDAddr, hexToSSD[bank%10]); err != nil {
		return err
	}
	if err := d.w.SetLED(protocol.TensSSDAddr, 0); err != nil {
		return err
	}
	if err := d.w.SetLED(protocol.OnesDecLEDAddr, protocol.LEDOff); err != nil {
		return err
	}
	if err := d.w.SetLED(protocol.TensDecLEDAddr, protocol.LEDOff); err != nil {
		return err
	}
	d.cacheValid = false
	return nil
}

// ShowSmpteField repaints the display for one SMPTE sub-field: both decimal
// points per sub, and both digits of value, unconditionally. Call this on
// entry to SMPTE display mode and whenever the shown sub-field changes.
func (d *Display) ShowSmpteField(sub SmpteSub, value uint8) error {
	onesDP, tensDP := smpteFieldDecimalPoints(sub)
	if err := d.w.SetLED(protocol.TensDecLEDAddr, boolToLED(tensDP)); err != nil {
		return err
	}
	if err := d.w.SetLED(protocol.OnesDecLEDAddr, boolToLED(onesDP)); err != nil {
		return err
	}
	if err := d.w.SetLED(protocol.OnesSSDAddr, hexToSSD[value%10]); err != nil {
		return err
	}
	if err := d.w.SetLED(protocol.TensSSDAddr, hexToSSD[value/10%10]); err != nil {
		return err
	}
	d.ones, d.tens = value%10, value/10%10
	d.cacheValid = true
	return nil
}

// Tick updates the currently displayed SMPTE field's digits, writing only
// whichever of ones/tens actually changed since the last ShowSmpteField or
// Tick call. Only valid while in SMPTE display mode with a field already
// shown; the engine is responsible for calling ShowSmpteField first.
func (d *Display) Tick(value uint8) error {
	newOnes, newTens := value%10, value/10%10
	if !d.cacheValid || newOnes != d.ones {
		if err := d.w.SetLED(protocol.OnesSSDAddr, hexToSSD[newOnes]); err != nil {
			return err
		}
		d.ones = newOnes
	}
	if !d.cacheValid || newTens != d.tens {
		if err := d.w.SetLED(protocol.TensSSDAddr, hexToSSD[newTens]); err != nil {
			return err
		}
		d.tens = newTens
	}
	d.cacheValid = true
	return nil
}

func smpteFieldDecimalPoints(sub SmpteSub) (onesDP, tensDP bool) {
	switch sub {
	case SmpteHours:
		return true, true
	case SmpteMinutes:
		return false, true
	case SmpteSeconds:
		return true, false
	case SmpteFrames:
		return false, false
	default:
		return false, false
	}
}

func boolToLED(b bool) uint8 {
	if b {
		return protocol.LEDOn
	}
	return protocol.LEDOff
}
