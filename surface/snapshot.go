package surface

import (
	"time"

	"github.com/atom-bomb/cs10-linux/mixer"
)

// FaderRestoreDelay is the per-unit pause during continuous-control
// interpolation (§4.5); it gives a downstream host (and any motorized
// fader) time to track instead of snapping to the target value.
const FaderRestoreDelay = 5 * time.Millisecond

// VirtualControlSender emits a virtual-control CC for a given virtual
// track, control and value on the host port.
type VirtualControlSender interface {
	SendVirtualControl(virtualTrack uint8, c mixer.Control, value uint8) error
}

// RestoreSnapshot walks live from its current values to snapshot's,
// mutating live in place as it goes (§4.5). Toggle controls (armed, mute,
// solo) emit a down/up pulse only when they differ; continuous controls
// (fader, the six knobs) walk one unit at a time, sleeping
// FaderRestoreDelay between steps, emitting the new value at every step.
// This runs to completion before returning: the surface is intentionally
// unresponsive for its duration (§5).
func RestoreSnapshot(sender VirtualControlSender, live *mixer.State, snapshot *mixer.State) error {
	for track := uint8(0); track < mixer.NumVirtualTracks; track++ {
		for c := mixer.Control(0); c < mixer.NumControls; c++ {
			if c.IsToggle() {
				if err := restoreToggle(sender, live, track, c, snapshot); err != nil {
					return err
				}
				continue
			}
			if err := restoreContinuous(sender, live, track, c, snapshot); err != nil {
				return err
			}
		}
	}
	*live = *snapshot
	return nil
}

func restoreToggle(sender VirtualControlSender, live *mixer.State, track uint8, c mixer.Control, snapshot *mixer.State) error {
	target := snapshot.Tracks[track].Get(c)
	current := live.Tracks[track].Get(c)
	if target == current {
		return nil
	}
	if err := sender.SendVirtualControl(track, c, 0x7F); err != nil {
		return err
	}
	return sender.SendVirtualControl(track, c, 0x00)
}

func restoreContinuous(sender VirtualControlSender, live *mixer.State, track uint8, c mixer.Control, snapshot *mixer.State) error {
	target := snapshot.Tracks[track].Get(c)
	current := live.Tracks[track].Get(c)
	for current != target {
		if current < target {
			current++
		} else {
			current--
		}
		live.Tracks[track].Set(c, current)
		if err := sender.SendVirtualControl(track, c, current); err != nil {
			return err
		}
		time.Sleep(FaderRestoreDelay)
	}
	return nil
}
