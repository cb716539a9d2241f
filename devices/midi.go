// Package devices wraps a pair of MIDI ports (one inbound, one outbound) as
// a MidiDevice: register callbacks for the control-change and system-
// exclusive messages cs10 speaks, and send the same back out.
//
// cs10-linux talks to two such devices: the control port (the physical
// surface) and the host port (the downstream MMC/MTC/virtual-controller
// peer). Both are plain continuous-controller and sysex traffic; cs10 never
// originates notes, pitch bend or aftertouch itself, but if the control
// surface's own driver ever emits one, it's forwarded to the host port
// unchanged via SetPassthrough rather than silently dropped.
package devices

import (
	"log/slog"
	"sync"

	midi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/atom-bomb/cs10-linux/logging"
)

// ccBind matches an inbound control-change message. A channel or controller
// value of MatchAny accepts any value in that field, letting a single bind
// catch every CC on a port (the engine does its own address dispatch) or a
// narrower one target a single control.
type ccBind struct {
	channel    uint8
	controller uint8
	callback   func(channel, controller, value uint8) error
}

const MatchAny uint8 = 0xFF

func (b *ccBind) matches(channel, controller uint8) bool {
	return (b.channel == MatchAny || b.channel == channel) &&
		(b.controller == MatchAny || b.controller == controller)
}

type sysExMatch struct {
	pattern  []byte
	callback func([]byte) error
}

func (s *sysExMatch) matches(data []byte) bool {
	if len(data) < len(s.pattern) {
		return false
	}
	for i, b := range s.pattern {
		if data[i] != b {
			return false
		}
	}
	return true
}

// MidiDevice represents one logical MIDI device: a bound pair of an inbound
// and outbound port, plus the set of callbacks registered to react to what
// arrives on the inbound side.
type MidiDevice struct {
	name    string
	inPort  drivers.In
	outPort drivers.Out

	inLog, outLog *slog.Logger

	mu          sync.RWMutex
	cc          []*ccBind
	sysex       []*sysExMatch
	qf          []func(uint8) error
	passthrough func(raw []byte) error

	stop func()
}

// NewMidiDevice wraps an already-resolved port pair. name is used only for
// logging ("control" or "host").
func NewMidiDevice(name string, inPort drivers.In, outPort drivers.Out) *MidiDevice {
	return &MidiDevice{
		name:    name,
		inPort:  inPort,
		outPort: outPort,
		inLog:   logging.Get(logCategoryFor(name, true)),
		outLog:  logging.Get(logCategoryFor(name, false)),
	}
}

func logCategoryFor(name string, in bool) logging.LogCategory {
	if name == "host" {
		if in {
			return logging.HOST_IN
		}
		return logging.HOST_OUT
	}
	if in {
		return logging.CONTROL_IN
	}
	return logging.CONTROL_OUT
}

// BindCC registers callback to run on every inbound control-change message
// matching channel/controller (MatchAny accepts any value). Returns an
// unbind function.
func (d *MidiDevice) BindCC(channel, controller uint8, callback func(channel, controller, value uint8) error) func() {
	b := &ccBind{channel: channel, controller: controller, callback: callback}
	d.mu.Lock()
	d.cc = append(d.cc, b)
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, c := range d.cc {
			if c == b {
				d.cc = append(d.cc[:i], d.cc[i+1:]...)
				return
			}
		}
	}
}

// BindSysEx registers callback to run on every inbound sysex message whose
// leading bytes match pattern. Returns an unbind function.
func (d *MidiDevice) BindSysEx(pattern []byte, callback func([]byte) error) func() {
	b := &sysExMatch{pattern: pattern, callback: callback}
	d.mu.Lock()
	d.sysex = append(d.sysex, b)
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, s := range d.sysex {
			if s == b {
				d.sysex = append(d.sysex[:i], d.sysex[i+1:]...)
				return
			}
		}
	}
}

// BindQuarterFrame registers callback to run on every inbound MTC quarter
// frame byte (a system-common message, not a CC or sysex, so it needs its
// own bind path). Returns an unbind function.
func (d *MidiDevice) BindQuarterFrame(callback func(quarterFrame uint8) error) func() {
	d.mu.Lock()
	d.qf = append(d.qf, callback)
	idx := len(d.qf) - 1
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.qf[idx] = nil
	}
}

// SetPassthrough registers the sink for messages this device's inbound port
// receives but has no binding for: anything other than a control-change
// message, plus any sysex or quarter-frame message no bound callback
// claimed. Mirrors the original event loop's "pass on any non-controller
// event" branch, which re-emitted such events on the peer port unchanged
// rather than dropping them. Pass nil to stop forwarding.
func (d *MidiDevice) SetPassthrough(callback func(raw []byte) error) {
	d.mu.Lock()
	d.passthrough = callback
	d.mu.Unlock()
}

// SendRaw emits a raw, already-framed MIDI message on the outbound port
// unchanged, for passthrough forwarding from a peer device.
func (d *MidiDevice) SendRaw(raw []byte) error {
	d.outLog.Debug("forwarding raw message", "bytes", raw)
	err := d.outPort.Send(raw)
	if err != nil {
		d.outLog.Error("failed to forward raw message", "error", err)
	}
	return err
}

func (d *MidiDevice) forward(msg midi.Message) {
	d.mu.RLock()
	fwd := d.passthrough
	d.mu.RUnlock()
	if fwd == nil {
		return
	}
	if err := fwd([]byte(msg)); err != nil {
		d.inLog.Error("failed to forward message", "error", err)
	}
}

// SendCC emits a control-change message on the outbound port.
func (d *MidiDevice) SendCC(channel, controller, value uint8) error {
	d.outLog.Debug("sending control change", "channel", channel, "controller", controller, "value", value)
	err := d.outPort.Send(midi.ControlChange(channel, controller, value))
	if err != nil {
		d.outLog.Error("failed to send control change", "error", err)
	}
	return err
}

// SendSysEx emits a raw sysex packet, including its F0/F7 framing, on the
// outbound port.
func (d *MidiDevice) SendSysEx(packet []byte) error {
	d.outLog.Debug("sending sysex", "bytes", packet)
	inner := packet
	if len(packet) >= 2 && packet[0] == 0xF0 && packet[len(packet)-1] == 0xF7 {
		inner = packet[1 : len(packet)-1]
	}
	err := d.outPort.Send(midi.SysEx(inner))
	if err != nil {
		d.outLog.Error("failed to send sysex", "error", err)
	}
	return err
}

// Run opens both ports and starts dispatching inbound messages to bound
// callbacks. Listening happens on a goroutine owned by the underlying MIDI
// driver; Run returns once it's attached. Use Stop to tear it down.
func (d *MidiDevice) Run() error {
	if err := d.inPort.Open(); err != nil {
		return err
	}
	if err := d.outPort.Open(); err != nil {
		return err
	}
	stop, err := midi.ListenTo(d.inPort, d.handle, midi.UseSysEx())
	if err != nil {
		return err
	}
	d.stop = stop
	return nil
}

// Stop releases the listener and closes both ports.
func (d *MidiDevice) Stop() {
	if d.stop != nil {
		d.stop()
	}
	d.inPort.Close()
	d.outPort.Close()
}

func (d *MidiDevice) handle(msg midi.Message, timestampms int32) {
	switch msg.Type() {
	case midi.ControlChangeMsg:
		var channel, control, value uint8
		if ok := msg.GetControlChange(&channel, &control, &value); !ok {
			d.inLog.Error("failed to parse control change message")
			return
		}
		d.inLog.Debug("received control change", "channel", channel, "control", control, "value", value)
		d.mu.RLock()
		binds := make([]*ccBind, len(d.cc))
		copy(binds, d.cc)
		d.mu.RUnlock()
		for _, b := range binds {
			if b.matches(channel, control) {
				if err := b.callback(channel, control, value); err != nil {
					d.inLog.Error("control change handler failed", "error", err)
				}
			}
		}
	case midi.SysExMsg:
		var data []byte
		if ok := msg.GetSysEx(&data); !ok {
			d.inLog.Error("failed to parse sysex message")
			return
		}
		// midi.GetSysEx strips the F0/F7 framing; re-add it so patterns can
		// be written the way §6 documents the wire packets.
		framed := make([]byte, 0, len(data)+2)
		framed = append(framed, 0xF0)
		framed = append(framed, data...)
		framed = append(framed, 0xF7)
		d.inLog.Debug("received sysex", "bytes", framed)
		d.mu.RLock()
		matches := make([]*sysExMatch, 0, len(d.sysex))
		for _, s := range d.sysex {
			if s.matches(framed) {
				matches = append(matches, s)
			}
		}
		d.mu.RUnlock()
		if len(matches) == 0 {
			d.forward(msg)
			return
		}
		for _, s := range matches {
			if err := s.callback(framed); err != nil {
				d.inLog.Error("sysex handler failed", "error", err)
			}
		}
	case midi.MTCMsg:
		var qf uint8
		if ok := msg.GetMTC(&qf); !ok {
			d.inLog.Error("failed to parse quarter frame message")
			return
		}
		d.inLog.Debug("received quarter frame", "byte", qf)
		d.mu.RLock()
		callbacks := make([]func(uint8) error, 0, len(d.qf))
		for _, cb := range d.qf {
			if cb != nil {
				callbacks = append(callbacks, cb)
			}
		}
		d.mu.RUnlock()
		if len(callbacks) == 0 {
			d.forward(msg)
			return
		}
		for _, cb := range callbacks {
			if err := cb(qf); err != nil {
				d.inLog.Error("quarter frame handler failed", "error", err)
			}
		}
	default:
		// Any message type this device has no explicit case for (note,
		// pitch bend, aftertouch, program change, ...) is forwarded
		// unchanged rather than dropped, the same way the original event
		// loop re-emitted any non-controller event on the peer port.
		d.forward(msg)
	}
}
