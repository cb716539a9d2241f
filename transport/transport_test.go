package transport

import (
	"testing"

	"github.com/atom-bomb/cs10-linux/mixer"
	"github.com/atom-bomb/cs10-linux/protocol"
)

func qfFields(t protocol.SmpteTime) []uint8 {
	return []uint8{
		0<<4 | t.Frames&0x0F,
		1<<4 | (t.Frames>>4)&0x0F,
		2<<4 | t.Seconds&0x0F,
		3<<4 | (t.Seconds>>4)&0x0F,
		4<<4 | t.Minutes&0x0F,
		5<<4 | (t.Minutes>>4)&0x0F,
		6<<4 | t.Hours&0x0F,
		7<<4 | (t.Hours>>4)&0x01 | (t.Flags << 1),
	}
}

func TestReceiveQuarterFrameDoesNotCommitEarly(t *testing.T) {
	var s State
	want := protocol.SmpteTime{Flags: 0x01, Hours: 0x02, Minutes: 0x0A, Seconds: 0x1B, Frames: 0x06}
	fields := qfFields(want)
	for i, f := range fields[:7] {
		if s.ReceiveQuarterFrame(f) {
			t.Fatalf("unexpected commit at field %d", i)
		}
	}
}

func TestReceiveQuarterFrameFullSequence(t *testing.T) {
	var s State
	want := protocol.SmpteTime{Flags: 0x03, Hours: 0x0B, Minutes: 0x2D, Seconds: 0x3A, Frames: 0x17}
	fields := qfFields(want)
	var committed bool
	for _, f := range fields {
		committed = s.ReceiveQuarterFrame(f)
	}
	if !committed {
		t.Fatal("expected the 8th field to commit")
	}
	if s.CurrentTime != want {
		t.Fatalf("got %+v, want %+v", s.CurrentTime, want)
	}
}

func TestReceiveFullFramePreservesFlags(t *testing.T) {
	var s State
	s.CurrentTime.Flags = 0x02
	s.ReceiveFullFrame(protocol.SmpteTime{Hours: 1, Minutes: 2, Seconds: 3, Frames: 4})
	if s.CurrentTime.Flags != 0x02 {
		t.Fatalf("expected Flags to survive a full-frame update, got %#x", s.CurrentTime.Flags)
	}
	if s.CurrentTime.Hours != 1 || s.CurrentTime.Minutes != 2 || s.CurrentTime.Seconds != 3 || s.CurrentTime.Frames != 4 {
		t.Fatalf("full-frame time not applied: %+v", s.CurrentTime)
	}
}

func TestSavePositionAndSnapshot(t *testing.T) {
	var s State
	s.CurrentTime = protocol.SmpteTime{Hours: 9}
	s.SavePosition(4)
	if s.SavedPositions[4].Hours != 9 {
		t.Fatalf("expected slot 4 to hold the saved position")
	}

	var mix mixer.State
	mix.Track(0, 0).Fader = 77
	s.SaveSnapshot(4, &mix)
	if s.SavedSnapshots[4].Track(0, 0).Fader != 77 {
		t.Fatal("expected snapshot to copy the mixer state")
	}

	// Mutating the live mixer afterwards must not affect the saved copy.
	mix.Track(0, 0).Fader = 0
	if s.SavedSnapshots[4].Track(0, 0).Fader != 77 {
		t.Fatal("snapshot should be a deep copy, not aliased")
	}
}
