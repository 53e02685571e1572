package session

import (
	"testing"
	"time"
)

func pttMonitor() *silenceMonitor {
	return newSilenceMonitor(100*time.Millisecond, func() bool { return false })
}

func toggleMonitor() *silenceMonitor {
	return newSilenceMonitor(100*time.Millisecond, func() bool { return true })
}

func feedN(m *silenceMonitor, speech bool, n int) SilenceEvent {
	var last SilenceEvent
	for i := 0; i < n; i++ {
		last = m.Tick(speech)
	}
	return last
}

func TestSilenceWarnAfter8s(t *testing.T) {
	m := pttMonitor()
	// 79 ticks of silence, no warning yet
	for i := 0; i < 79; i++ {
		if ev := m.Tick(false); ev != SilenceNone {
			t.Fatalf("unexpected event at tick %d: %d", i, ev)
		}
	}
	// 80th tick triggers warning (8s)
	if ev := m.Tick(false); ev != SilenceWarn {
		t.Fatalf("expected SilenceWarn at tick 80, got %d", ev)
	}
}

func TestSilenceWarnClearsOnSpeech(t *testing.T) {
	m := pttMonitor()
	feedN(m, false, 80) // triggers warn

	// Sustained speech clears warning (need 25% of 80-tick window)
	for i := 0; i < 80; i++ {
		ev := m.Tick(true)
		if ev == SilenceWarnClear {
			return
		}
	}
	t.Fatal("expected SilenceWarnClear after speech")
}

func TestNoWarnDuringSpeech(t *testing.T) {
	m := pttMonitor()
	for i := 0; i < 200; i++ {
		if ev := m.Tick(true); ev == SilenceWarn {
			t.Fatalf("unexpected warn during speech at tick %d", i)
		}
	}
}

func TestRepeatWarningOnlyWithAutoStop(t *testing.T) {
	m := toggleMonitor()
	feedN(m, false, 80) // warn at tick 80
	// Next repeat at tick 160
	var gotRepeat bool
	for i := 0; i < 100; i++ {
		if ev := m.Tick(false); ev == SilenceRepeat {
			gotRepeat = true
			break
		}
	}
	if !gotRepeat {
		t.Fatal("expected SilenceRepeat with auto-stop enabled")
	}
}

func TestNoRepeatWithoutAutoStop(t *testing.T) {
	m := pttMonitor()
	feedN(m, false, 80)
	for i := 0; i < 300; i++ {
		if ev := m.Tick(false); ev == SilenceRepeat || ev == SilenceAutoStop {
			t.Fatalf("unexpected event %d without auto-stop", ev)
		}
	}
}

func TestAutoStopAfter30sSilence(t *testing.T) {
	m := toggleMonitor()
	for i := 0; i < 400; i++ {
		if ev := m.Tick(false); ev == SilenceAutoStop {
			if i < 299 {
				t.Fatalf("auto-stop too early at tick %d", i+1)
			}
			return
		}
	}
	t.Fatal("expected SilenceAutoStop after sustained silence")
}

func TestNoAutoStopWithIntermittentSpeech(t *testing.T) {
	m := toggleMonitor()
	// Speak one tick in five, 20% ratio stays above the threshold.
	for i := 0; i < 600; i++ {
		if ev := m.Tick(i%5 == 0); ev == SilenceAutoStop {
			t.Fatalf("unexpected auto-stop at tick %d", i)
		}
	}
}
