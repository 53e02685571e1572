package session

import "testing"

func TestLevelMeterSilence(t *testing.T) {
	m := newLevelMeter()
	m.Observe(make([]byte, 2048))
	if m.SpeechTick() {
		t.Fatal("silence should not register as speech")
	}
}

func TestLevelMeterSpeech(t *testing.T) {
	m := newLevelMeter()
	m.Observe(speechPCM(1024))
	if !m.SpeechTick() {
		t.Fatal("loud audio should register as speech")
	}
	// Peak resets per tick.
	if m.SpeechTick() {
		t.Fatal("speech flag should reset after a tick")
	}
}

func TestLevelMeterPeakPersists(t *testing.T) {
	m := newLevelMeter()
	m.Observe(speechPCM(1024))
	m.SpeechTick()
	if m.Peak() == 0 {
		t.Fatal("session peak should survive tick resets")
	}
}
