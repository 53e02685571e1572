package main

import (
	"testing"
	"time"

	"vmemo/hotkey"
)

func TestAutoStopDecision(t *testing.T) {
	var tr recordTrigger

	if !tr.autoStop() {
		t.Fatal("TUI recording before hotkey setup should auto-stop")
	}

	fk := hotkey.NewFake()
	hy := hotkey.NewHybrid(fk, 50*time.Millisecond)
	tr.hy.Store(hy)

	if !tr.autoStop() {
		t.Fatal("TUI recording should auto-stop even with the hotkey installed")
	}

	// Tap: toggle mode, the recording runs until stopped and may auto-stop.
	tr.byHotkey.Store(true)
	fk.SimKeydown()
	<-hy.Start()
	fk.SimKeyup()
	time.Sleep(10 * time.Millisecond)
	if !tr.autoStop() {
		t.Fatal("tapped recording should auto-stop")
	}
	fk.SimKeydown()
	fk.SimKeyup()
	<-hy.StopChan()
	tr.byHotkey.Store(false)

	// Hold: push-to-talk, release stops it, auto-stop must stay out.
	tr.byHotkey.Store(true)
	fk.SimKeydown()
	<-hy.Start()
	time.Sleep(80 * time.Millisecond)
	if tr.autoStop() {
		t.Fatal("held recording should not auto-stop")
	}
	fk.SimKeyup()
	<-hy.StopChan()
}

func TestAutoStopConcurrentWithHybridInstall(t *testing.T) {
	var tr recordTrigger
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			tr.autoStop()
		}
	}()
	tr.hy.Store(hotkey.NewHybrid(hotkey.NewFake(), time.Millisecond))
	<-done
}
