// Package devicestesting provides an in-memory drivers.In/drivers.Out
// implementation so devices.MidiDevice and everything built on it can be
// exercised without real MIDI hardware.
package devicestesting

import (
	"errors"
	"sync"

	"gitlab.com/gomidi/midi/v2/drivers"
)

// MockMIDIPort implements both drivers.In and drivers.Out.
type MockMIDIPort struct {
	mu sync.Mutex

	sent []byte // concatenation of every raw message handed to Send, for simple assertions
	raw  [][]byte

	onMsg func(msg []byte, timestampms int32)

	shouldError bool
	isOpen      bool
}

func NewMockMIDIPort() *MockMIDIPort {
	return &MockMIDIPort{}
}

func (m *MockMIDIPort) Open() error {
	m.mu.Lock()
	m.isOpen = true
	m.mu.Unlock()
	return nil
}

func (m *MockMIDIPort) Close() error {
	m.mu.Lock()
	m.isOpen = false
	m.mu.Unlock()
	return nil
}

func (m *MockMIDIPort) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isOpen
}

func (m *MockMIDIPort) Number() int { return 0 }

func (m *MockMIDIPort) String() string { return "MockMIDIPort" }

func (m *MockMIDIPort) Underlying() interface{} { return m }

// Send implements drivers.Out.
func (m *MockMIDIPort) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldError {
		return errors.New("mock send error")
	}
	cp := append([]byte(nil), data...)
	m.raw = append(m.raw, cp)
	m.sent = append(m.sent, cp...)
	return nil
}

// Listen implements drivers.In. It records onMsg so SimulateReceive can
// drive it directly, the same way the real driver would invoke it for every
// byte it reads off the wire.
func (m *MockMIDIPort) Listen(onMsg func(msg []byte, timestampms int32), config drivers.ListenConfig) (stopFn func(), err error) {
	m.mu.Lock()
	m.onMsg = onMsg
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.onMsg = nil
		m.mu.Unlock()
	}, nil
}

// SimulateReceive feeds a raw MIDI message (e.g. from midi.ControlChange or
// midi.SysEx) to whatever listener Run() installed via midi.ListenTo.
func (m *MockMIDIPort) SimulateReceive(raw []byte) {
	m.mu.Lock()
	onMsg := m.onMsg
	m.mu.Unlock()
	if onMsg != nil {
		onMsg(raw, 0)
	}
}

// SentMessages returns every raw packet handed to Send, in order.
func (m *MockMIDIPort) SentMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.raw))
	copy(out, m.raw)
	return out
}

// SetError configures Send to fail, for exercising best-effort send paths.
func (m *MockMIDIPort) SetError(shouldError bool) {
	m.mu.Lock()
	m.shouldError = shouldError
	m.mu.Unlock()
}
