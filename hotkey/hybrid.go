package hotkey

import (
	"sync/atomic"
	"time"
)

// Hybrid layers tap-to-toggle and hold-to-talk onto a single key
// combination. A press always starts a recording immediately; whether it
// was a tap or a hold is only decided once the long-press threshold passes.
// A tap leaves the recording running until the next press, a hold stops it
// on release.
type Hybrid struct {
	startCh chan struct{}
	stopCh  chan struct{}
	toggled atomic.Bool
}

// NewHybrid wraps hk. longPress is the hold duration past which a press is
// treated as push-to-talk instead of a toggle tap.
func NewHybrid(hk Hotkey, longPress time.Duration) *Hybrid {
	h := &Hybrid{
		startCh: make(chan struct{}, 1),
		stopCh:  make(chan struct{}, 1),
	}
	go h.run(hk, longPress)
	return h
}

// Start signals when to begin a recording.
func (h *Hybrid) Start() <-chan struct{} { return h.startCh }

// StopChan signals when to end the recording, for both tap and hold modes.
func (h *Hybrid) StopChan() <-chan struct{} { return h.stopCh }

// IsToggle reports whether the current recording was started by a tap.
// Safe to poll from other goroutines while the recording runs.
func (h *Hybrid) IsToggle() bool { return h.toggled.Load() }

func (h *Hybrid) run(hk Hotkey, longPress time.Duration) {
	for {
		// Idle: any press starts immediately. Assume a tap until the
		// threshold proves otherwise.
		<-hk.Keydown()
		h.toggled.Store(true)
		select {
		case h.startCh <- struct{}{}:
		default:
		}

		timer := time.NewTimer(longPress)
		select {
		case <-timer.C:
			// Held past the threshold: push-to-talk, stop on release.
			h.toggled.Store(false)
			<-hk.Keyup()
		case <-hk.Keyup():
			// Tap: recording stays on until the next full press.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			<-hk.Keydown()
			<-hk.Keyup()
		}

		select {
		case h.stopCh <- struct{}{}:
		default:
		}
	}
}
