package surface

import (
	"github.com/atom-bomb/cs10-linux/devices"
	"github.com/atom-bomb/cs10-linux/mixer"
	"github.com/atom-bomb/cs10-linux/mode"
	"github.com/atom-bomb/cs10-linux/protocol"
	"github.com/atom-bomb/cs10-linux/transport"
)

// ccEndpoint adapts one control-port CC address into the bindable[uint8]
// shape mode.Bind expects, enqueueing the actual handling onto the
// engine's single consumer so every callback (regardless of which port's
// driver goroutine delivered it) is processed one at a time (§5).
type ccEndpoint struct {
	e       *Engine
	port    MidiPort
	channel uint8
	addr    uint8
}

func (c ccEndpoint) Bind(cb func(value uint8) error) {
	c.port.BindCC(c.channel, c.addr, func(_, _, value uint8) error {
		c.e.enqueue(func() {
			if err := cb(value); err != nil {
				c.e.log.Error("handler failed", "addr", c.addr, "error", err)
			}
		})
		return nil
	})
}

func (e *Engine) controlCC(addr uint8) ccEndpoint {
	return ccEndpoint{e: e, port: e.control, channel: devices.MatchAny, addr: addr}
}

const (
	nonNullifyModes = mode.SelectMode | mode.LocateMode | mode.MuteMode | mode.SoloMode
)

// trackLEDSourceForMode returns the TrackLEDSource the LED panel should
// use to repaint the 8 track LEDs under the current mode; nil for the
// Select/Nullify modes, which light a single selected track instead.
func (e *Engine) trackLEDSourceForMode(m mode.Mode) TrackLEDSource {
	switch m {
	case mode.LocateMode:
		return ArmedSource(&e.Mixer, e.Surface.Bank)
	case mode.MuteMode:
		return MuteSource(&e.Mixer, e.Surface.Bank)
	case mode.SoloMode:
		return SoloSource(&e.Mixer, e.Surface.Bank)
	default:
		return nil
	}
}

func (e *Engine) repaintMode() {
	m := e.modes.Current()
	if err := e.leds.Repaint(m, e.Surface.SelectedTrack, e.trackLEDSourceForMode(m)); err != nil {
		e.log.Error("LED repaint failed", "error", err)
	}
}

// wireModeRepaint registers a full LED repaint on every mode transition,
// mirroring cs10_set_mode being called unconditionally whenever the active
// mode changes.
func (e *Engine) wireModeRepaint() {
	for _, m := range []mode.Mode{mode.SelectMode, mode.LocateMode, mode.MuteMode, mode.SoloMode, mode.NullifyMode} {
		e.modes.OnEnter(m, e.repaintMode)
	}
}

// refreshDisplay forces a full repaint of whatever the display is
// currently showing; used at startup and whenever display_mode/smpte_sub
// changes.
func (e *Engine) refreshDisplay() {
	if e.Surface.DisplayMode == DisplayBank {
		if err := e.display.ShowBank(e.Surface.Bank); err != nil {
			e.log.Error("display refresh failed", "error", err)
		}
		return
	}
	if err := e.display.ShowSmpteField(e.Surface.SmpteSub, e.smpteFieldValue()); err != nil {
		e.log.Error("display refresh failed", "error", err)
	}
}

func (e *Engine) smpteFieldValue() uint8 {
	switch e.Surface.SmpteSub {
	case SmpteHours:
		return e.Transport.CurrentTime.Hours
	case SmpteMinutes:
		return e.Transport.CurrentTime.Minutes
	case SmpteSeconds:
		return e.Transport.CurrentTime.Seconds
	default:
		return e.Transport.CurrentTime.Frames
	}
}

// tickDisplay updates (not repaints) whichever SMPTE field is currently
// shown, after current_time changes. A no-op in Bank display mode.
func (e *Engine) tickDisplay() {
	if e.Surface.DisplayMode != DisplaySmpte {
		return
	}
	if err := e.display.Tick(e.smpteFieldValue()); err != nil {
		e.log.Error("display tick failed", "error", err)
	}
}

// --- track buttons (§4.8) ---

func (e *Engine) bindTrackButtons() {
	for t := uint8(0); t < NumPhysicalTracks; t++ {
		track := t
		endpoint := e.controlCC(protocol.FirstTrackButtonAddr + track)

		mode.Bind(e.modes, mode.SelectMode|mode.NullifyMode, endpoint, func(value uint8) error {
			if value != protocol.ButtonUp {
				return nil
			}
			return e.selectTrack(track)
		})

		mode.Bind(e.modes, mode.LocateMode, endpoint, func(value uint8) error {
			if value != protocol.ButtonUp {
				return nil
			}
			return e.toggleTrack(track, mixer.ControlArmed)
		})
		mode.Bind(e.modes, mode.MuteMode, endpoint, func(value uint8) error {
			if value != protocol.ButtonUp {
				return nil
			}
			return e.toggleTrack(track, mixer.ControlMute)
		})
		mode.Bind(e.modes, mode.SoloMode, endpoint, func(value uint8) error {
			if value != protocol.ButtonUp {
				return nil
			}
			return e.toggleTrack(track, mixer.ControlSolo)
		})
	}
}

func (e *Engine) selectTrack(track uint8) error {
	prev := e.Surface.SelectedTrack
	e.Surface.SelectedTrack = track
	if err := e.leds.SetTrackLED(prev, false); err != nil {
		return err
	}
	return e.leds.SetTrackLED(track, true)
}

func (e *Engine) toggleTrack(physicalTrack uint8, c mixer.Control) error {
	vt := e.Mixer.Track(e.Surface.Bank, physicalTrack)
	on := vt.Get(c) == 0
	vt.Set(c, boolToU7Value(on))

	virtualTrack := e.Surface.Bank*mixer.TracksPerBank + physicalTrack
	if err := e.SendVirtualControl(virtualTrack, c, protocol.ButtonDown); err != nil {
		return err
	}
	if err := e.SendVirtualControl(virtualTrack, c, protocol.ButtonUp); err != nil {
		return err
	}
	return e.leds.SetTrackLED(physicalTrack, on)
}

func boolToU7Value(b bool) uint8 {
	if b {
		return 0x7F
	}
	return 0x00
}

// --- function buttons F1-F9 (§4.8) ---

func (e *Engine) bindFunctionButtons() {
	for i := uint8(0); i < transport.NumSavedSlots; i++ {
		slot := i
		endpoint := e.controlCC(protocol.FirstFButtonAddr + slot)
		mode.Bind(e.modes, mode.AllModes, endpoint, func(value uint8) error {
			if value != protocol.ButtonUp {
				return nil
			}
			return e.handleFunctionButton(slot)
		})
	}
}

func (e *Engine) handleFunctionButton(slot uint8) error {
	switch {
	case e.Surface.ShiftHeld && e.Surface.RecordHeld:
		e.Transport.SavePosition(slot)
		e.Surface.IgnoreRecordRelease = true
		e.persist()
		return nil
	case e.Surface.ShiftHeld:
		return e.host.SendSysEx(protocol.EncodeMMCGoto(
			e.Transport.SavedPositions[slot].Hours,
			e.Transport.SavedPositions[slot].Minutes,
			e.Transport.SavedPositions[slot].Seconds,
			e.Transport.SavedPositions[slot].Frames,
		))
	case e.Surface.RecordHeld:
		e.Transport.SaveSnapshot(slot, &e.Mixer)
		e.Surface.IgnoreRecordRelease = true
		e.persist()
		return nil
	default:
		if err := RestoreSnapshot(e, &e.Mixer, &e.Transport.SavedSnapshots[slot]); err != nil {
			return err
		}
		e.refreshDisplay()
		return nil
	}
}

// --- transport and display-control buttons (§4.8) ---

func (e *Engine) bindTransportButtons() {
	mode.Bind(e.modes, mode.AllModes, e.controlCC(protocol.ShiftButtonAddr), func(value uint8) error {
		e.Surface.ShiftHeld = value == protocol.ButtonDown
		return nil
	})

	mode.Bind(e.modes, mode.AllModes, e.controlCC(protocol.RewButtonAddr), func(value uint8) error {
		if value != protocol.ButtonUp {
			return nil
		}
		if e.Surface.ShiftHeld {
			return e.host.SendSysEx(protocol.EncodeMMCGoto(0, 0, 0, 0))
		}
		return e.host.SendSysEx(protocol.EncodeMMCCommand(protocol.MMCRewind))
	})

	mode.Bind(e.modes, mode.AllModes, e.controlCC(protocol.FFButtonAddr), func(value uint8) error {
		if value != protocol.ButtonUp {
			return nil
		}
		return e.host.SendSysEx(protocol.EncodeMMCCommand(protocol.MMCFastForward))
	})

	mode.Bind(e.modes, mode.AllModes, e.controlCC(protocol.StopButtonAddr), func(value uint8) error {
		if value != protocol.ButtonUp {
			return nil
		}
		return e.host.SendSysEx(protocol.EncodeMMCCommand(protocol.MMCStop))
	})

	mode.Bind(e.modes, mode.AllModes, e.controlCC(protocol.PlayButtonAddr), func(value uint8) error {
		if value != protocol.ButtonUp {
			return nil
		}
		if e.Surface.ShiftHeld {
			t := e.Transport.PlayFromTime
			return e.host.SendSysEx(protocol.EncodeMMCGoto(t.Hours, t.Minutes, t.Seconds, t.Frames))
		}
		e.Transport.PlayFromTime = e.Transport.CurrentTime
		return e.host.SendSysEx(protocol.EncodeMMCCommand(protocol.MMCPlay))
	})

	mode.Bind(e.modes, mode.AllModes, e.controlCC(protocol.RecordButtonAddr), func(value uint8) error {
		e.Surface.RecordHeld = value == protocol.ButtonDown
		if e.Surface.RecordHeld {
			return nil
		}
		if e.Surface.IgnoreRecordRelease {
			e.Surface.IgnoreRecordRelease = false
			return nil
		}
		if e.Surface.ShiftHeld {
			t := e.Transport.RecordFromTime
			return e.host.SendSysEx(protocol.EncodeMMCGoto(t.Hours, t.Minutes, t.Seconds, t.Frames))
		}
		e.Transport.RecordFromTime = e.Transport.CurrentTime
		return e.host.SendSysEx(protocol.EncodeMMCCommand(protocol.MMCRecordPause))
	})

	mode.Bind(e.modes, mode.AllModes, e.controlCC(protocol.ModeButtonAddr), func(value uint8) error {
		if value != protocol.ButtonUp {
			return nil
		}
		e.modes.Advance()
		return nil
	})

	mode.Bind(e.modes, mode.AllModes, e.controlCC(protocol.RightButtonAddr), func(value uint8) error {
		if value != protocol.ButtonUp {
			return nil
		}
		if e.Surface.DisplayMode == DisplayBank {
			e.Surface.AdvanceBank()
			e.refreshDisplay()
			e.repaintMode()
			return nil
		}
		e.Surface.AdvanceSmpteSub()
		e.refreshDisplay()
		return nil
	})

	mode.Bind(e.modes, mode.AllModes, e.controlCC(protocol.LeftButtonAddr), func(value uint8) error {
		if value != protocol.ButtonUp {
			return nil
		}
		if e.Surface.DisplayMode == DisplayBank {
			if e.Surface.Bank == 0 {
				e.Surface.Bank = mixer.NumBanks - 1
			} else {
				e.Surface.Bank--
			}
			e.refreshDisplay()
			e.repaintMode()
			return nil
		}
		if e.Surface.SmpteSub == 0 {
			e.Surface.SmpteSub = 3
		} else {
			e.Surface.SmpteSub--
		}
		e.refreshDisplay()
		return nil
	})

	mode.Bind(e.modes, mode.AllModes, e.controlCC(protocol.UpButtonAddr), func(value uint8) error {
		if value != protocol.ButtonUp {
			return nil
		}
		e.toggleDisplayMode()
		return nil
	})

	mode.Bind(e.modes, mode.AllModes, e.controlCC(protocol.DownButtonAddr), func(value uint8) error {
		if value != protocol.ButtonUp {
			return nil
		}
		e.toggleDisplayMode()
		return nil
	})
}

// toggleDisplayMode flips between the two display modes (only two exist,
// so Up and Down behave identically) and forces a full refresh.
func (e *Engine) toggleDisplayMode() {
	if e.Surface.DisplayMode == DisplaySmpte {
		e.Surface.DisplayMode = DisplayBank
	} else {
		e.Surface.DisplayMode = DisplaySmpte
	}
	e.refreshDisplay()
}

// --- faders and knobs (§4.8) ---

func (e *Engine) bindFaders() {
	for a := uint8(protocol.FirstFaderAddr); a <= protocol.LastFaderAddr; a++ {
		addr := a
		physicalTrack := protocol.FaderAddrToTrack(addr)
		endpoint := e.controlCC(addr)

		mode.Bind(e.modes, mode.NullifyMode, endpoint, func(value uint8) error {
			stored := e.Mixer.Track(e.Surface.Bank, physicalTrack).Get(mixer.ControlFader)
			return e.showNullLEDs(value, stored, protocol.UpNullLEDAddr, protocol.DownNullLEDAddr)
		})

		mode.Bind(e.modes, nonNullifyModes, endpoint, func(value uint8) error {
			return e.writeContinuous(physicalTrack, mixer.ControlFader, value)
		})
	}
}

func (e *Engine) bindKnobs() {
	for a := uint8(protocol.FirstKnobAddr); a <= protocol.LastKnobAddr; a++ {
		addr := a
		idx := protocol.KnobAddrToIndex(addr)
		control := mixer.ControlBoostCut + mixer.Control(idx)
		endpoint := e.controlCC(addr)

		mode.Bind(e.modes, mode.NullifyMode, endpoint, func(value uint8) error {
			stored := e.Mixer.Track(e.Surface.Bank, e.Surface.SelectedTrack).Get(control)
			return e.showNullLEDs(value, stored, protocol.RightWheelLEDAddr, protocol.LeftWheelLEDAddr)
		})

		mode.Bind(e.modes, nonNullifyModes, endpoint, func(value uint8) error {
			return e.writeContinuous(e.Surface.SelectedTrack, control, value)
		})
	}
}

// showNullLEDs lights needIncreaseLED when value is below stored (the
// control needs to move up to match) and needDecreaseLED when it's above,
// turning both off once they match. State is never mutated and nothing is
// emitted to the host port (§4.8 invariant 4).
func (e *Engine) showNullLEDs(value, stored uint8, needIncreaseLED, needDecreaseLED uint8) error {
	switch {
	case value < stored:
		if err := e.leds.w.SetLED(needDecreaseLED, protocol.LEDOff); err != nil {
			return err
		}
		return e.leds.w.SetLED(needIncreaseLED, protocol.LEDOn)
	case value > stored:
		if err := e.leds.w.SetLED(needIncreaseLED, protocol.LEDOff); err != nil {
			return err
		}
		return e.leds.w.SetLED(needDecreaseLED, protocol.LEDOn)
	default:
		if err := e.leds.w.SetLED(needIncreaseLED, protocol.LEDOff); err != nil {
			return err
		}
		return e.leds.w.SetLED(needDecreaseLED, protocol.LEDOff)
	}
}

func (e *Engine) writeContinuous(physicalTrack uint8, c mixer.Control, value uint8) error {
	e.Mixer.Track(e.Surface.Bank, physicalTrack).Set(c, value)
	virtualTrack := e.Surface.Bank*mixer.TracksPerBank + physicalTrack
	return e.SendVirtualControl(virtualTrack, c, value)
}

// --- jog wheel (§4.3, §4.8) ---

func (e *Engine) bindWheel() {
	endpoint := e.controlCC(protocol.WheelAddr)
	mode.Bind(e.modes, mode.AllModes, endpoint, func(value uint8) error {
		step, ok := e.jog.Add(value)
		if !ok {
			return nil
		}
		return e.host.SendSysEx(protocol.EncodeStep(step))
	})
}

// wirePassthrough re-emits any message the control port receives that isn't
// one of cs10's own button/fader/knob/wheel/sysex gestures out through the
// host port unchanged, mirroring the original event loop's unconditional
// forward of any non-controller event arriving on the control port.
func (e *Engine) wirePassthrough() {
	e.control.SetPassthrough(func(raw []byte) error {
		return e.host.SendRaw(raw)
	})
}

// --- host port: MTC/MMC-locate and inbound virtual control (§4.1, §4.4) ---

func (e *Engine) bindHostSysEx() {
	e.host.BindSysEx([]byte{0xF0, 0x7F}, func(data []byte) error {
		e.enqueue(func() { e.handleHostSysEx(data) })
		return nil
	})
	e.host.BindCC(devices.MatchAny, devices.MatchAny, func(channel, param, value uint8) error {
		e.enqueue(func() { e.handleVirtualControl(channel, param, value) })
		return nil
	})
	e.host.BindQuarterFrame(func(qf uint8) error {
		e.enqueue(func() {
			if e.Transport.ReceiveQuarterFrame(qf) {
				e.tickDisplay()
			}
		})
		return nil
	})
}

func (e *Engine) handleHostSysEx(data []byte) {
	if t, ok := protocol.DecodeMTCFullFrame(data); ok {
		e.Transport.ReceiveFullFrame(t)
		e.tickDisplay()
		return
	}
	if t, ok := protocol.DecodeMMCLocate(data); ok {
		e.Transport.ReceiveFullFrame(t)
		e.tickDisplay()
		return
	}
}

func (e *Engine) handleVirtualControl(channel, param, value uint8) {
	virtualTrack, c, ok := mixer.DecodeCC(channel, param)
	if !ok {
		return
	}
	bank := virtualTrack / mixer.TracksPerBank
	physicalTrack := virtualTrack % mixer.TracksPerBank
	e.Mixer.Track(bank, physicalTrack).Set(c, value)
	if c.IsToggle() {
		e.repaintMode()
	}
}
