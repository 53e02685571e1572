package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"vmemo/audio"
	"vmemo/beep"
	"vmemo/hotkey"
	"vmemo/log"
	"vmemo/session"
	"vmemo/store"
	"vmemo/transcriber"
)

// runTestMode replays a WAV fixture through the full recording pipeline,
// driven by commands on stdin. Used by integration scripts: KEYDOWN/KEYUP
// simulate the hotkey, WAIT blocks until the cycle settles, SLEEP <ms>
// pauses, QUIT exits.
func runTestMode(wavPath string, tr transcriber.Transcriber, language string) {
	beep.Disable()
	defer log.Close()

	fakeCtx, err := audio.NewFakeContextFromWAV(wavPath, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading WAV: %v\n", err)
		os.Exit(1)
	}

	notes = store.New()
	ctl := session.NewController(fakeCtx, nil, tr, notes, printSink{}, session.Config{
		Language: language,
	})
	defer ctl.Close()

	hk := hotkey.NewFake()
	hy := hotkey.NewHybrid(hk, 350*time.Millisecond)
	recordingDone := make(chan struct{}, 1)

	// Stdin driver in background
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			cmd := strings.TrimSpace(scanner.Text())
			switch cmd {
			case "KEYDOWN":
				hk.SimKeydown()
			case "KEYUP":
				hk.SimKeyup()
			case "WAIT":
				<-recordingDone
			case "QUIT":
				log.SessionEnd(len(notes.Notes()))
				os.Exit(0)
			default:
				if strings.HasPrefix(cmd, "SLEEP ") {
					if ms, err := strconv.Atoi(cmd[6:]); err == nil {
						time.Sleep(time.Duration(ms) * time.Millisecond)
					}
				}
			}
		}
		os.Exit(0)
	}()

	for {
		select {
		case <-hy.Start():
			if err := ctl.Start(); err != nil {
				log.Errorf("recording error: %v", err)
				fmt.Fprintf(os.Stderr, "ERROR %v\n", err)
			}
		case <-hy.StopChan():
			if done := ctl.Stop(); done != nil {
				<-done
			}
			select {
			case recordingDone <- struct{}{}:
			default:
			}
		}
	}
}

// printSink writes machine-readable events to stdout for test scripts.
type printSink struct {
	session.NopSink
}

func (printSink) NoteCreated(note store.VoiceNote, _ *transcriber.Result) {
	fmt.Printf("NOTE %.1fs %s\n", note.Duration.Seconds(), note.Transcript)
}

func (printSink) NoSpeech() {
	fmt.Println("NO_SPEECH")
}

func (printSink) SessionError(stage string, err error) {
	fmt.Printf("ERROR %s: %v\n", stage, err)
}
