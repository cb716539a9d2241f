package protocol

// JogThreshold and JogDivisor tune how much wheel motion it takes to emit
// one MMC step command (§4.3): the running total must exceed the threshold
// in either direction before a step is emitted, and the emitted step is the
// total divided down by the divisor.
const (
	JogThreshold = 4
	JogDivisor   = 2
)

// JogAccumulator implements the jog wheel's accumulate-then-threshold state
// machine. Each raw CC value is a signed 7-bit delta; once the running
// total's magnitude exceeds JogThreshold, Add emits an encoded MMC step
// value and resets to zero.
type JogAccumulator struct {
	total int32
}

// Add folds one raw wheel CC value into the running total. ok is true when
// the total just crossed the threshold and step holds the packet-ready,
// sign-magnitude encoded value for EncodeStep.
func (j *JogAccumulator) Add(raw uint8) (step uint8, ok bool) {
	j.total += decodeWheelDelta(raw)
	if j.total > JogThreshold || j.total < -JogThreshold {
		stepValue := j.total / JogDivisor
		j.total = 0
		return encodeStep(stepValue), true
	}
	return 0, false
}

// decodeWheelDelta reads a raw wheel CC value as signed: bit 6 set means
// negative, with the magnitude recovered by inverting and masking to 7
// bits. This is not the inverse of encodeStep's sign-magnitude form; the
// wheel's outbound encoding and the step command's encoding are genuinely
// different conventions.
func decodeWheelDelta(raw uint8) int32 {
	if raw&0x40 != 0 {
		magnitude := int32((^raw)&0x7F) + 1
		return -magnitude
	}
	return int32(raw)
}

// encodeStep packs a signed step value into the sign-magnitude form the MMC
// step packet carries: positive values pass through unchanged, negative
// values become their magnitude with bit 6 set.
func encodeStep(step int32) uint8 {
	if step > 0 {
		return uint8(step) & 0x7F
	}
	return uint8(-step|0x40) & 0x7F
}
