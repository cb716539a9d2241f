package devices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	midi "gitlab.com/gomidi/midi/v2"

	"github.com/atom-bomb/cs10-linux/devices/devicestesting"
)

func TestMidiDevice(t *testing.T) {
	tests := []struct {
		name          string
		setupBindings func(*MidiDevice, *assert.Assertions) map[string]any
		inputMessage  midi.Message
		validateState func(*assert.Assertions, map[string]any)
	}{
		{
			name: "matching control change triggers its callback",
			setupBindings: func(d *MidiDevice, a *assert.Assertions) map[string]any {
				locals := map[string]any{"calls": 0}
				d.BindCC(0, 7, func(channel, controller, value uint8) error {
					locals["calls"] = locals["calls"].(int) + 1
					a.Equal(uint8(64), value)
					return nil
				})
				return locals
			},
			inputMessage: midi.ControlChange(0, 7, 64),
			validateState: func(a *assert.Assertions, locals map[string]any) {
				a.Equal(1, locals["calls"])
			},
		},
		{
			name: "matching sysex triggers its callback and is not forwarded",
			setupBindings: func(d *MidiDevice, a *assert.Assertions) map[string]any {
				locals := map[string]any{"calls": 0, "forwarded": 0}
				d.BindSysEx([]byte{0xF0, 0x15}, func(data []byte) error {
					locals["calls"] = locals["calls"].(int) + 1
					return nil
				})
				d.SetPassthrough(func(raw []byte) error {
					locals["forwarded"] = locals["forwarded"].(int) + 1
					return nil
				})
				return locals
			},
			inputMessage: midi.SysEx([]byte{0x15, 0x15, 0x00, 0x01, 0x7F}),
			validateState: func(a *assert.Assertions, locals map[string]any) {
				a.Equal(1, locals["calls"])
				a.Equal(0, locals["forwarded"])
			},
		},
		{
			name: "unmatched sysex is forwarded instead of dropped",
			setupBindings: func(d *MidiDevice, a *assert.Assertions) map[string]any {
				locals := map[string]any{"forwarded": 0}
				d.BindSysEx([]byte{0xF0, 0x15}, func(data []byte) error {
					locals["forwarded"] = -1000 // should never run
					return nil
				})
				d.SetPassthrough(func(raw []byte) error {
					locals["forwarded"] = locals["forwarded"].(int) + 1
					return nil
				})
				return locals
			},
			inputMessage: midi.SysEx([]byte{0x7D, 0x01, 0x02}),
			validateState: func(a *assert.Assertions, locals map[string]any) {
				a.Equal(1, locals["forwarded"])
			},
		},
		{
			name: "an event type cs10 never dispatches is forwarded, not dropped",
			setupBindings: func(d *MidiDevice, a *assert.Assertions) map[string]any {
				locals := map[string]any{"forwarded": 0}
				d.SetPassthrough(func(raw []byte) error {
					locals["forwarded"] = locals["forwarded"].(int) + 1
					return nil
				})
				return locals
			},
			inputMessage: midi.NoteOn(0, 60, 100),
			validateState: func(a *assert.Assertions, locals map[string]any) {
				a.Equal(1, locals["forwarded"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := assert.New(t)
			in := devicestesting.NewMockMIDIPort()
			out := devicestesting.NewMockMIDIPort()
			d := NewMidiDevice("control", in, out)
			if err := d.Run(); err != nil {
				t.Fatalf("Run: %v", err)
			}
			defer d.Stop()

			locals := tt.setupBindings(d, a)
			in.SimulateReceive(tt.inputMessage)
			tt.validateState(a, locals)
		})
	}
}

func TestUnmatchedCCIsNeverForwarded(t *testing.T) {
	in := devicestesting.NewMockMIDIPort()
	out := devicestesting.NewMockMIDIPort()
	d := NewMidiDevice("control", in, out)
	if err := d.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer d.Stop()

	forwarded := 0
	d.SetPassthrough(func(raw []byte) error {
		forwarded++
		return nil
	})
	d.BindCC(0, 5, func(channel, controller, value uint8) error { return nil })

	in.SimulateReceive(midi.ControlChange(0, 99, 1)) // no bind matches controller 99

	// Unlike sysex/quarter-frame, an unmatched control-change address is
	// never forwarded: the original event loop only forwards non-controller
	// event types, and silently drops a controller event its inner
	// if/else-if chain didn't recognize.
	assert.Equal(t, 0, forwarded)
}
