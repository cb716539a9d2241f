package mixer

import "testing"

func TestEncodeDecodeCCRoundTrips(t *testing.T) {
	for bank := uint8(0); bank < NumBanks; bank++ {
		for track := uint8(0); track < TracksPerBank; track++ {
			for c := Control(0); c < NumControls; c++ {
				channel, param := EncodeCC(bank, track, c)
				gotTrack, gotControl, ok := DecodeCC(channel, param)
				if !ok {
					t.Fatalf("DecodeCC(%d,%d) not ok", channel, param)
				}
				wantTrack := bank*TracksPerBank + track
				if gotTrack != wantTrack || gotControl != c {
					t.Fatalf("bank=%d track=%d control=%d: got track=%d control=%d",
						bank, track, c, gotTrack, gotControl)
				}
			}
		}
	}
}

func TestDecodeCCRejectsOutOfRangeParam(t *testing.T) {
	if _, _, ok := DecodeCC(0, uint8(NumControls)*TracksPerBank); ok {
		t.Fatal("expected param at the top of the range to be rejected")
	}
}

func TestVirtualTrackGetSetToggle(t *testing.T) {
	var vt VirtualTrack
	vt.Set(ControlMute, 0x7F)
	if !vt.Mute {
		t.Fatal("expected Mute to be set")
	}
	if got := vt.Get(ControlMute); got != 0x7F {
		t.Fatalf("Get(ControlMute) = %#x, want 0x7F", got)
	}
	vt.Set(ControlMute, 0x00)
	if vt.Mute {
		t.Fatal("expected Mute to be cleared")
	}
}

func TestVirtualTrackGetSetContinuous(t *testing.T) {
	var vt VirtualTrack
	vt.Set(ControlFader, 100)
	if got := vt.Get(ControlFader); got != 100 {
		t.Fatalf("Get(ControlFader) = %d, want 100", got)
	}
	vt.Set(ControlPan, 42)
	if got := vt.Get(ControlPan); got != 42 {
		t.Fatalf("Get(ControlPan) = %d, want 42", got)
	}
	// Setting Pan must not disturb the other five knobs.
	vt.Set(ControlSend1, 7)
	if got := vt.Get(ControlPan); got != 42 {
		t.Fatalf("ControlPan clobbered by ControlSend1 set: got %d", got)
	}
}

func TestStateTrackAddressing(t *testing.T) {
	var s State
	s.Track(2, 3).Fader = 55
	if got := s.Tracks[2*TracksPerBank+3].Fader; got != 55 {
		t.Fatalf("got %d, want 55", got)
	}
}

func TestControlIsToggle(t *testing.T) {
	for _, c := range []Control{ControlArmed, ControlMute, ControlSolo} {
		if !c.IsToggle() {
			t.Errorf("%v should be a toggle", c)
		}
	}
	for _, c := range []Control{ControlFader, ControlBoostCut, ControlPan} {
		if c.IsToggle() {
			t.Errorf("%v should not be a toggle", c)
		}
	}
}
