// Package transport tracks the host's SMPTE position and the nine saved
// locate/snapshot slots (one per F button, usable in every mode) (§3,
// §4.5).
package transport

import (
	"github.com/atom-bomb/cs10-linux/mixer"
	"github.com/atom-bomb/cs10-linux/protocol"
)

// NumSavedSlots is one per F1-F9 button.
const NumSavedSlots = 9

// State holds the transport-side state shared across modes: the current
// SMPTE position as reassembled from quarter frames or applied directly
// from a full frame, the two latched "from" times used by shift+Play and
// shift+Record, and the nine saved positions/snapshots.
type State struct {
	CurrentTime protocol.SmpteTime
	qf          protocol.QFAssembler

	PlayFromTime   protocol.SmpteTime
	RecordFromTime protocol.SmpteTime

	SavedPositions [NumSavedSlots]protocol.SmpteTime
	SavedSnapshots [NumSavedSlots]mixer.State
}

// ReceiveQuarterFrame folds one MTC quarter-frame byte into the
// in-progress time, committing CurrentTime once all 8 fields have arrived.
// Reports whether a commit happened.
func (s *State) ReceiveQuarterFrame(qf uint8) bool {
	t, ok := s.qf.Add(qf)
	if ok {
		s.CurrentTime = t
	}
	return ok
}

// ReceiveFullFrame applies a decoded MTC full-frame time directly. A full
// frame carries no rate flags of its own, so CurrentTime.Flags is left
// untouched.
func (s *State) ReceiveFullFrame(t protocol.SmpteTime) {
	s.CurrentTime.Hours = t.Hours
	s.CurrentTime.Minutes = t.Minutes
	s.CurrentTime.Seconds = t.Seconds
	s.CurrentTime.Frames = t.Frames
}

// SavePosition latches CurrentTime into slot (0-8).
func (s *State) SavePosition(slot uint8) {
	s.SavedPositions[slot] = s.CurrentTime
}

// SaveSnapshot copies mix into slot (0-8).
func (s *State) SaveSnapshot(slot uint8, mix *mixer.State) {
	s.SavedSnapshots[slot] = *mix
}
