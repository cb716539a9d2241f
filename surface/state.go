// Package surface turns cs10's physical control gestures into mixer and
// transport state changes and drives the surface's own LEDs and two-digit
// display in response (§3, §4).
package surface

import "github.com/atom-bomb/cs10-linux/mixer"

// DisplayMode selects what the two-digit display currently shows.
type DisplayMode int

const (
	DisplaySmpte DisplayMode = iota
	DisplayBank
)

// SmpteSub selects which field of the current SMPTE time SMPTE display
// mode is showing.
type SmpteSub int

const (
	SmpteHours SmpteSub = iota
	SmpteMinutes
	SmpteSeconds
	SmpteFrames
)

// State is the surface-local state that isn't part of the mixer or
// transport: which bank and track are selected, what the display is
// currently showing, and the handful of latches the input dispatcher needs
// between events (§3).
type State struct {
	Bank          uint8 // 0-3
	SelectedTrack uint8 // 0-7, relative to Bank

	DisplayMode DisplayMode
	SmpteSub    SmpteSub

	ShiftHeld bool

	// RecordHeld turns an F-button press into a save (snapshot, or
	// position with shift) while Record is down; such a save sets
	// IgnoreRecordRelease so the matching Record release only clears the
	// flag instead of sending its usual MMC command (§4.8).
	RecordHeld          bool
	IgnoreRecordRelease bool
}

// AdvanceBank moves to the next bank (0->1->2->3->0).
func (s *State) AdvanceBank() {
	s.Bank = (s.Bank + 1) % mixer.NumBanks
}

// AdvanceSmpteSub moves the SMPTE display to the next field
// (Hours->Minutes->Seconds->Frames->Hours).
func (s *State) AdvanceSmpteSub() {
	s.SmpteSub = (s.SmpteSub + 1) % 4
}
