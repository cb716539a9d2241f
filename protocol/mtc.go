package protocol

// SmpteTime is an hours:minutes:seconds:frames position, plus the rate
// flags carried by the MTC quarter-frame's eighth field.
type SmpteTime struct {
	Flags   uint8
	Hours   uint8
	Minutes uint8
	Seconds uint8
	Frames  uint8
}

// Quarter-frame field numbers, in MTC wire order (§4.2).
const (
	qfFramesLow = iota
	qfFramesHigh
	qfSecondsLow
	qfSecondsHigh
	qfMinutesLow
	qfMinutesHigh
	qfHoursLow
	qfHoursHigh
)

// QFAssembler reassembles the eight MTC quarter-frame messages making up
// one full time code into a SmpteTime, arriving one nibble at a time. Fields
// may arrive in any order; a commit needs all eight.
type QFAssembler struct {
	time SmpteTime
	mask uint8
}

// Add folds one quarter-frame byte (field<<4 | nibble) into the
// in-progress time. Once all 8 fields have arrived it returns the
// completed time with committed set, and starts accumulating the next one;
// otherwise it returns the zero value with committed false.
func (a *QFAssembler) Add(qf uint8) (t SmpteTime, committed bool) {
	field := (qf >> 4) & 0x0F
	nibble := qf & 0x0F

	switch field {
	case qfFramesLow:
		a.time.Frames = (a.time.Frames & 0xF0) | nibble
	case qfFramesHigh:
		a.time.Frames = (a.time.Frames & 0x0F) | (nibble << 4)
	case qfSecondsLow:
		a.time.Seconds = (a.time.Seconds & 0xF0) | nibble
	case qfSecondsHigh:
		a.time.Seconds = (a.time.Seconds & 0x0F) | (nibble << 4)
	case qfMinutesLow:
		a.time.Minutes = (a.time.Minutes & 0xF0) | nibble
	case qfMinutesHigh:
		a.time.Minutes = (a.time.Minutes & 0x0F) | (nibble << 4)
	case qfHoursLow:
		a.time.Hours = (a.time.Hours & 0xF0) | nibble
	case qfHoursHigh:
		a.time.Hours = (a.time.Hours & 0x0F) | ((nibble & 0x01) << 4)
		a.time.Flags = (nibble >> 1) & 0x07
	}

	a.mask |= 1 << field
	if a.mask == 0xFF {
		a.mask = 0
		return a.time, true
	}
	return SmpteTime{}, false
}

// DecodeMTCFullFrame parses an inbound MTC full-frame sysex packet
// ("F0 7F dev 01 01 hh mm ss ff F7"); ok is false for anything else.
func DecodeMTCFullFrame(data []byte) (t SmpteTime, ok bool) {
	if len(data) != 10 {
		return SmpteTime{}, false
	}
	if data[0] != 0xF0 || data[1] != 0x7F || data[3] != 0x01 || data[4] != 0x01 || data[9] != 0xF7 {
		return SmpteTime{}, false
	}
	return SmpteTime{Hours: data[5], Minutes: data[6], Seconds: data[7], Frames: data[8]}, true
}

// DecodeMMCLocate parses an inbound MMC locate sysex packet
// ("F0 7F dev 06 44 06 01 hh mm ss ff ..."); ok is false for anything else.
func DecodeMMCLocate(data []byte) (t SmpteTime, ok bool) {
	if len(data) < 11 {
		return SmpteTime{}, false
	}
	if data[0] != 0xF0 || data[1] != 0x7F || data[3] != 0x06 || data[4] != 0x44 || data[5] != 0x06 || data[6] != 0x01 {
		return SmpteTime{}, false
	}
	return SmpteTime{Hours: data[7], Minutes: data[8], Seconds: data[9], Frames: data[10]}, true
}
