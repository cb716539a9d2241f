package surface

import (
	"github.com/atom-bomb/cs10-linux/mixer"
	"github.com/atom-bomb/cs10-linux/mode"
	"github.com/atom-bomb/cs10-linux/protocol"
)

const NumPhysicalTracks = 8

// TrackLEDSource supplies the per-track boolean this mode's track row
// reflects (armed for Locate, mute for Mute, solo for Solo).
type TrackLEDSource func(track uint8) bool

// LEDPanel repaints the mode indicator LEDs, the null/wheel LEDs and the
// eight track LEDs on every mode change, mirroring cs10_set_mode: each
// entry is a full, unconditional repaint rather than an incremental diff,
// since a mode switch is rare enough that write suppression isn't worth the
// bookkeeping (§4.7).
type LEDPanel struct {
	w LEDWriter
}

func NewLEDPanel(w LEDWriter) *LEDPanel {
	return &LEDPanel{w: w}
}

// Repaint sets every mode-dependent LED for the given mode. selectedTrack is
// used by Select and Nullify mode (the lone lit track LED); trackState
// supplies the per-track boolean used by Locate/Mute/Solo mode's track row.
func (p *LEDPanel) Repaint(m mode.Mode, selectedTrack uint8, trackState TrackLEDSource) error {
	if err := p.setModeLEDs(m); err != nil {
		return err
	}
	if err := p.setNullAndWheelLEDs(m == mode.NullifyMode); err != nil {
		return err
	}
	switch m {
	case mode.SelectMode, mode.NullifyMode:
		return p.repaintSingleTrack(selectedTrack)
	case mode.LocateMode, mode.MuteMode, mode.SoloMode:
		return p.repaintTrackRow(trackState)
	default:
		return nil
	}
}

func (p *LEDPanel) setModeLEDs(m mode.Mode) error {
	want := map[uint8]bool{
		protocol.SelectLEDAddr: m == mode.SelectMode || m == mode.NullifyMode,
		protocol.LocateLEDAddr: m == mode.LocateMode || m == mode.NullifyMode,
		protocol.MuteLEDAddr:   m == mode.MuteMode || m == mode.NullifyMode,
		protocol.SoloLEDAddr:   m == mode.SoloMode || m == mode.NullifyMode,
	}
	for addr, on := range want {
		if err := p.w.SetLED(addr, boolToLED(on)); err != nil {
			return err
		}
	}
	return nil
}

func (p *LEDPanel) setNullAndWheelLEDs(on bool) error {
	for _, addr := range []uint8{
		protocol.DownNullLEDAddr,
		protocol.UpNullLEDAddr,
		protocol.LeftWheelLEDAddr,
		protocol.RightWheelLEDAddr,
	} {
		if err := p.w.SetLED(addr, boolToLED(on)); err != nil {
			return err
		}
	}
	return nil
}

// SetTrackLED sets a single track LED, for incremental updates (e.g. a
// selection change in Select/Nullify mode) that don't warrant a full
// repaint.
func (p *LEDPanel) SetTrackLED(track uint8, on bool) error {
	return p.w.SetLED(protocol.TrackToLEDAddr(track), boolToLED(on))
}

func (p *LEDPanel) repaintSingleTrack(selectedTrack uint8) error {
	for t := uint8(0); t < NumPhysicalTracks; t++ {
		if err := p.w.SetLED(protocol.TrackToLEDAddr(t), boolToLED(t == selectedTrack)); err != nil {
			return err
		}
	}
	return nil
}

func (p *LEDPanel) repaintTrackRow(trackState TrackLEDSource) error {
	for t := uint8(0); t < NumPhysicalTracks; t++ {
		if err := p.w.SetLED(protocol.TrackToLEDAddr(t), boolToLED(trackState(t))); err != nil {
			return err
		}
	}
	return nil
}

// ArmedSource, MuteSource and SoloSource adapt a mixer.State and bank into
// the TrackLEDSource the panel needs.
func ArmedSource(st *mixer.State, bank uint8) TrackLEDSource {
	return func(track uint8) bool {
		return st.Tracks[bank*NumPhysicalTracks+track].Armed
	}
}

func MuteSource(st *mixer.State, bank uint8) TrackLEDSource {
	return func(track uint8) bool {
		return st.Tracks[bank*NumPhysicalTracks+track].Mute
	}
}

func SoloSource(st *mixer.State, bank uint8) TrackLEDSource {
	return func(track uint8) bool {
		return st.Tracks[bank*NumPhysicalTracks+track].Solo
	}
}
