package surface

import "github.com/atom-bomb/cs10-linux/devices"

// fakePort is a minimal in-process stand-in for devices.MidiDevice, letting
// engine tests drive bound callbacks directly instead of going through a
// real MIDI driver.
type fakePort struct {
	ccBinds     []fakeCCBind
	sysex       []fakeSysExBind
	qf          []func(uint8) error
	passthrough func(raw []byte) error

	sentCC    [][3]uint8
	sentSysEx [][]byte
	sentRaw   [][]byte
	ran       bool
	stopped   bool
}

type fakeCCBind struct {
	channel, controller uint8
	cb                  func(channel, controller, value uint8) error
}

type fakeSysExBind struct {
	pattern []byte
	cb      func([]byte) error
}

func (p *fakePort) BindCC(channel, controller uint8, cb func(channel, controller, value uint8) error) func() {
	p.ccBinds = append(p.ccBinds, fakeCCBind{channel, controller, cb})
	return func() {}
}

func (p *fakePort) BindSysEx(pattern []byte, cb func([]byte) error) func() {
	p.sysex = append(p.sysex, fakeSysExBind{pattern, cb})
	return func() {}
}

func (p *fakePort) BindQuarterFrame(cb func(uint8) error) func() {
	p.qf = append(p.qf, cb)
	return func() {}
}

func (p *fakePort) SetPassthrough(cb func(raw []byte) error) {
	p.passthrough = cb
}

func (p *fakePort) SendCC(channel, controller, value uint8) error {
	p.sentCC = append(p.sentCC, [3]uint8{channel, controller, value})
	return nil
}

func (p *fakePort) SendRaw(raw []byte) error {
	cp := make([]byte, len(raw))
	copy(cp, raw)
	p.sentRaw = append(p.sentRaw, cp)
	return nil
}

func (p *fakePort) SendSysEx(packet []byte) error {
	cp := make([]byte, len(packet))
	copy(cp, packet)
	p.sentSysEx = append(p.sentSysEx, cp)
	return nil
}

func (p *fakePort) Run() error { p.ran = true; return nil }
func (p *fakePort) Stop()      { p.stopped = true }

func (p *fakePort) simulateCC(channel, controller, value uint8) {
	for _, b := range p.ccBinds {
		if (b.channel == devices.MatchAny || b.channel == channel) &&
			(b.controller == devices.MatchAny || b.controller == controller) {
			b.cb(channel, controller, value)
		}
	}
}

// simulateUnhandled stands in for a message devices.MidiDevice.handle would
// forward via its default/unmatched-sysex/empty-quarter-frame-bind paths
// (e.g. a note-on from a surface driver quirk): it drives the passthrough
// sink directly, the way devices.MidiDevice.forward would.
func (p *fakePort) simulateUnhandled(raw []byte) {
	if p.passthrough != nil {
		p.passthrough(raw)
	}
}

func (p *fakePort) simulateSysEx(data []byte) {
	for _, b := range p.sysex {
		if len(data) < len(b.pattern) {
			continue
		}
		match := true
		for i, pb := range b.pattern {
			if data[i] != pb {
				match = false
				break
			}
		}
		if match {
			b.cb(data)
		}
	}
}

// lastLEDFor returns the most recent value sent to an LED address, via
// protocol.EncodeLED's wire layout (F0 15 15 00 addr value F7).
func lastLEDFor(sent [][]byte, addr uint8) (value uint8, found bool) {
	for i := len(sent) - 1; i >= 0; i-- {
		p := sent[i]
		if len(p) == 7 && p[4] == addr {
			return p[5], true
		}
	}
	return 0, false
}
