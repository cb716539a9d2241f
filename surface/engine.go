package surface

import (
	"log/slog"

	"github.com/atom-bomb/cs10-linux/logging"
	"github.com/atom-bomb/cs10-linux/mixer"
	"github.com/atom-bomb/cs10-linux/mode"
	"github.com/atom-bomb/cs10-linux/persistence"
	"github.com/atom-bomb/cs10-linux/protocol"
	"github.com/atom-bomb/cs10-linux/transport"
)

// MidiPort is the subset of devices.MidiDevice the engine needs from each
// of the two physical ports. Both the control port and the host port
// satisfy it.
type MidiPort interface {
	BindCC(channel, controller uint8, callback func(channel, controller, value uint8) error) func()
	BindSysEx(pattern []byte, callback func([]byte) error) func()
	BindQuarterFrame(callback func(quarterFrame uint8) error) func()
	SetPassthrough(callback func(raw []byte) error)
	SendCC(channel, controller, value uint8) error
	SendSysEx(packet []byte) error
	SendRaw(raw []byte) error
	Run() error
	Stop()
}

// Engine owns every piece of cs10-linux's process-wide state and wires the
// control and host ports to it. Unlike the original implementation's single
// global struct, state is held in an explicit value constructed once by the
// caller (§9 design note): the engine is what a rewrite's "handle" looks
// like, threaded through every handler instead of reached for as a global.
type Engine struct {
	Mixer     mixer.State
	Transport transport.State
	Surface   State

	modes *mode.Registry
	jog   protocol.JogAccumulator

	control MidiPort
	host    MidiPort

	display *Display
	leds    *LEDPanel

	settingsPath string
	log          *slog.Logger

	// events serializes every inbound MIDI callback (which may arrive from
	// either port's own driver goroutine) onto a single consumer, so the
	// single-threaded cooperative model in §5 holds regardless of how many
	// goroutines the two drivers happen to use.
	events chan func()
	done   chan struct{}
}

// NewEngine constructs an Engine around an already-open control port and
// host port. Call Run to wire bindings and start processing events.
func NewEngine(control, host MidiPort, settingsPath string) *Engine {
	e := &Engine{
		control:      control,
		host:         host,
		settingsPath: settingsPath,
		modes:        mode.NewRegistry(mode.SelectMode),
		log:          logging.Get(logging.APP),
		events:       make(chan func(), 256),
		done:         make(chan struct{}),
	}
	e.display = NewDisplay(controlLEDWriter{control})
	e.leds = NewLEDPanel(controlLEDWriter{control})
	return e
}

// controlLEDWriter adapts the control port's sysex send into the LEDWriter
// interface the display and LED panel need.
type controlLEDWriter struct{ port MidiPort }

func (w controlLEDWriter) SetLED(addr, value uint8) error {
	return w.port.SendSysEx(protocol.EncodeLED(addr, value))
}

// SendVirtualControl implements VirtualControlSender for snapshot restore:
// it emits a virtual-control CC on the host port for a given absolute
// virtual track.
func (e *Engine) SendVirtualControl(virtualTrack uint8, c mixer.Control, value uint8) error {
	bank := virtualTrack / mixer.TracksPerBank
	physicalTrack := virtualTrack % mixer.TracksPerBank
	channel, param := mixer.EncodeCC(bank, physicalTrack, c)
	return e.host.SendCC(channel, param, value)
}

// Load reads any previously persisted positions and snapshots from
// e.settingsPath into the transport state.
func (e *Engine) Load() error {
	var d persistence.Data
	if err := persistence.Load(e.settingsPath, &d); err != nil {
		return err
	}
	e.Transport.SavedPositions = d.SavedPositions
	e.Transport.SavedSnapshots = d.SavedSnapshots
	return nil
}

// persist writes the current saved positions/snapshots back out. Failures
// are logged, not propagated: the in-memory state is authoritative even if
// the write fails (§7).
func (e *Engine) persist() {
	d := persistence.Data{
		SavedPositions: e.Transport.SavedPositions,
		SavedSnapshots: e.Transport.SavedSnapshots,
	}
	if err := persistence.Save(e.settingsPath, &d); err != nil {
		e.log.Warn("failed to persist settings", "error", err)
	}
}

// enqueue serializes fn onto the single consumer goroutine. Safe to call
// from either port's driver goroutine.
func (e *Engine) enqueue(fn func()) {
	select {
	case e.events <- fn:
	case <-e.done:
	}
}

// Run wires every binding, starts both ports, and blocks draining the
// event queue until Stop is called.
func (e *Engine) Run() error {
	e.wireModeRepaint()
	e.bindTrackButtons()
	e.bindFunctionButtons()
	e.bindTransportButtons()
	e.bindFaders()
	e.bindKnobs()
	e.bindWheel()
	e.bindHostSysEx()
	e.wirePassthrough()

	if err := e.control.Run(); err != nil {
		return err
	}
	if err := e.host.Run(); err != nil {
		e.control.Stop()
		return err
	}

	e.repaintMode()
	e.refreshDisplay()

	for {
		select {
		case fn := <-e.events:
			fn()
		case <-e.done:
			return nil
		}
	}
}

// Stop releases both ports and unblocks Run.
func (e *Engine) Stop() {
	close(e.done)
	e.host.Stop()
	e.control.Stop()
}
