// Package protocol encodes and decodes the wire formats cs10-linux speaks:
// the control port's CC and LED sysex traffic, and the host port's MMC
// command/locate/goto/track-enable/shuttle/step sysex and MTC time code
// (§4, §6).
package protocol

// DeviceIDAll addresses every MMC-capable device on the host port; cs10
// never targets a specific device id.
const DeviceIDAll = 0x7F

// MMC command codes, sent as the single-byte payload of an MMC command
// packet.
const (
	MMCStop         = 0x01
	MMCPlay         = 0x02
	MMCDeferredPlay = 0x03
	MMCFastForward  = 0x04
	MMCRewind       = 0x05
	MMCPunchIn      = 0x06
	MMCPunchOut     = 0x07
	MMCRecordPause  = 0x08
	MMCPause        = 0x09
	MMCEject        = 0x0A
	MMCChase        = 0x0B
	MMCErrorReset   = 0x0C
	MMCReset        = 0x0D
)

// Control-port button, fader, knob and wheel addresses (§6, cs10.h).
const (
	FirstTrackButtonAddr = 0x00
	LastTrackButtonAddr  = 0x07

	ModeButtonAddr  = 0x08
	ShiftButtonAddr = 0x09

	FirstFButtonAddr = 0x0A
	LastFButtonAddr  = 0x12

	RewButtonAddr        = 0x13
	FFButtonAddr         = 0x14
	StopButtonAddr       = 0x15
	PlayButtonAddr       = 0x16
	RecordButtonAddr     = 0x17
	LeftWheelButtonAddr  = 0x18
	RightWheelButtonAddr = 0x19
	UpButtonAddr         = 0x1A
	DownButtonAddr       = 0x1B
	LeftButtonAddr       = 0x1C
	RightButtonAddr      = 0x1D
	FootswitchAddr       = 0x1E

	FirstFaderAddr = 0x40
	LastFaderAddr  = 0x47

	BoostKnobAddr = 0x48
	FreqKnobAddr  = 0x49
	BWKnobAddr    = 0x4A
	Send1KnobAddr = 0x4B
	Send2KnobAddr = 0x4C
	PanKnobAddr   = 0x4D
	FirstKnobAddr = 0x48
	LastKnobAddr  = 0x4D

	WheelAddr = 0x60

	SelectLEDAddr     = 0x08
	LocateLEDAddr     = 0x09
	MuteLEDAddr       = 0x0A
	SoloLEDAddr       = 0x0B
	DownNullLEDAddr   = 0x0C
	UpNullLEDAddr     = 0x0D
	LeftWheelLEDAddr  = 0x0E
	RightWheelLEDAddr = 0x0F
	OnesSSDAddr       = 0x10
	TensSSDAddr       = 0x11
	RecordLEDAddr     = 0x12
	TensDecLEDAddr    = 0x13
	OnesDecLEDAddr    = 0x14

	LEDOn  = 0x7F
	LEDOff = 0x00

	ButtonDown = 0x7F
	ButtonUp   = 0x00
)

// FaderAddrToTrack and KnobAddrToIndex turn a fader/knob's CC address into
// its physical track index / knob slot.
func FaderAddrToTrack(addr uint8) uint8 { return addr - FirstFaderAddr }
func KnobAddrToIndex(addr uint8) uint8  { return addr - FirstKnobAddr }

// TrackToLEDAddr is the identity mapping cs10.h's TRACK_TO_LED_ADDR uses:
// the eight track LEDs sit at addresses 0x00-0x07, same as the track
// buttons.
func TrackToLEDAddr(track uint8) uint8 { return track }

// EncodeLED builds the control port's 7-byte LED-set sysex packet.
func EncodeLED(addr, value uint8) []byte {
	return []byte{0xF0, 0x15, 0x15, 0x00, addr, value, 0xF7}
}

// EncodeMMCCommand builds a 6-byte MMC transport command packet.
func EncodeMMCCommand(cmd uint8) []byte {
	return []byte{0xF0, 0x7F, DeviceIDAll, 0x06, cmd, 0xF7}
}

// EncodeMMCGoto builds the 13-byte MMC goto packet; subframe is always 0.
func EncodeMMCGoto(hours, minutes, seconds, frames uint8) []byte {
	return []byte{0xF0, 0x7F, DeviceIDAll, 0x06, 0x44, 0x06, 0x01, hours, minutes, seconds, frames, 0x00, 0xF7}
}

// EncodeMMCLocatePreset builds the 9-byte MMC locate-preset packet for one
// of the nine saved-position slots (loc 0-8).
func EncodeMMCLocatePreset(loc uint8) []byte {
	return []byte{0xF0, 0x7F, DeviceIDAll, 0x06, 0x44, 0x02, 0x00, 0x08 + loc, 0xF7}
}

// EncodeTrackEnable builds the 11-byte MMC track-enable packet. Not
// currently triggered by any control-surface gesture, but kept so the
// codec covers every packet §6 documents.
func EncodeTrackEnable(mask1, mask2 uint8) []byte {
	return []byte{0xF0, 0x7F, DeviceIDAll, 0x06, 0x40, 0x04, 0x4F, 0x02, mask1, mask2, 0xF7}
}

// EncodeShuttle builds the 10-byte MMC shuttle packet. Not currently
// triggered by any control-surface gesture, but kept so the codec covers
// every packet §6 documents.
func EncodeShuttle(speed1, speed2, speed3 uint8) []byte {
	return []byte{0xF0, 0x7F, DeviceIDAll, 0x06, 0x47, 0x03, speed1, speed2, speed3, 0xF7}
}

// EncodeStep builds the 8-byte MMC step packet. steps must already be in
// the jog accumulator's encoded sign-magnitude form (see JogAccumulator).
func EncodeStep(steps uint8) []byte {
	return []byte{0xF0, 0x7F, DeviceIDAll, 0x06, 0x48, 0x01, steps, 0xF7}
}
