// Package mode provides mode-gated event binding: a callback registered
// against a set of modes only fires while the registry's current mode
// intersects that set.
//
// cs10 has five mutually exclusive modes (Select, Locate, Mute, Solo,
// Nullify) arranged in a ring, but several transport and function-button
// gestures are mode-independent. Modeling modes as a bitmask lets a single
// physical address bind a different handler per mode (the common case) or
// one handler shared across several modes (Bind(r, AllModes, ...)) without
// duplicating switch arms at every call site.
package mode

type Mode uint8

const (
	SelectMode Mode = 1 << iota
	LocateMode
	MuteMode
	SoloMode
	NullifyMode

	AllModes = SelectMode | LocateMode | MuteMode | SoloMode | NullifyMode
)

// ring lists the five modes in the order the Mode button advances them.
var ring = [...]Mode{SelectMode, LocateMode, MuteMode, SoloMode, NullifyMode}

// bindable is anything that can register a callback to run on every event it
// produces, regardless of the current mode. The registry is responsible for
// gating that callback by mode.
type bindable[A any] interface {
	Bind(func(A) error)
}

// Registry tracks the active mode and gates callbacks registered through
// Bind by it. Unlike a single package-level registry shared by every caller,
// a Registry is an explicit value: each Engine (and each test) owns its own
// mode state instead of mutating hidden global state.
type Registry struct {
	current Mode
	onEnter map[Mode][]func()
}

func NewRegistry(initial Mode) *Registry {
	return &Registry{current: initial, onEnter: make(map[Mode][]func())}
}

// Current returns the active mode.
func (r *Registry) Current() Mode {
	return r.current
}

// SetMode changes the active mode and runs any OnEnter callbacks registered
// for it.
func (r *Registry) SetMode(m Mode) {
	r.current = m
	for _, cb := range r.onEnter[m] {
		cb()
	}
}

// Advance moves to the next mode in the ring (Select -> Locate -> Mute ->
// Solo -> Nullify -> Select) and returns the new mode.
func (r *Registry) Advance() Mode {
	for i, m := range ring {
		if r.current == m {
			next := ring[(i+1)%len(ring)]
			r.SetMode(next)
			return next
		}
	}
	// Not currently on the ring (shouldn't happen outside of tests
	// constructing a Registry with an arbitrary initial mode).
	r.SetMode(ring[0])
	return ring[0]
}

// OnEnter registers a callback to run every time the registry transitions
// into mode m, including via Advance. The engine uses this to trigger a
// full LED repaint on mode change.
func (r *Registry) OnEnter(m Mode, callback func()) {
	r.onEnter[m] = append(r.onEnter[m], callback)
}

// Bind registers callback against binder, gated so it only runs while r's
// current mode intersects m.
func Bind[A any](r *Registry, m Mode, binder bindable[A], callback func(A) error) {
	binder.Bind(func(args A) error {
		if r.current&m != 0 {
			return callback(args)
		}
		return nil
	})
}
