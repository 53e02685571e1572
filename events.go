package main

import (
	"fmt"

	"vmemo/beep"
	"vmemo/store"
	"vmemo/transcriber"
)

// tuiSink forwards controller events to the Bubble Tea program and plays
// the audible cues. Safe to use before the program exists; events sent
// then are dropped.
type tuiSink struct{}

func newTUISink() *tuiSink { return &tuiSink{} }

func (s *tuiSink) RecordingStarted() {
	beep.PlayStart()
	tuiSend(RecordingStartMsg{})
}

func (s *tuiSink) RecordingStopped() {
	beep.PlayEnd()
	tuiSend(RecordingStopMsg{})
}

func (s *tuiSink) RecordingTick(seconds float64) {
	tuiSend(RecordingTickMsg{Seconds: seconds})
}

func (s *tuiSink) AudioLevel(level float64) {
	tuiSend(AudioLevelMsg{Level: level})
}

func (s *tuiSink) SilenceWarning() {
	beep.PlayError()
	tuiSend(SilenceWarnMsg{On: true})
}

func (s *tuiSink) SilenceCleared() {
	tuiSend(SilenceWarnMsg{On: false})
}

func (s *tuiSink) NoteCreated(note store.VoiceNote, result *transcriber.Result) {
	tuiSend(NoteCreatedMsg{
		Note:      note,
		RateLimit: result.RateLimit,
		Metrics:   formatMetrics(note, result),
	})
}

func (s *tuiSink) NoSpeech() {
	tuiSend(NoSpeechMsg{})
}

func (s *tuiSink) SessionError(stage string, err error) {
	beep.PlayError()
	tuiSend(ToastMsg{Text: fmt.Sprintf("%s error: %v", stage, err), IsError: true})
}

func formatMetrics(note store.VoiceNote, result *transcriber.Result) []string {
	lines := []string{
		fmt.Sprintf("audio %.1fs, payload %.1f KB", note.Duration.Seconds(), float64(note.AudioBytes)/1024),
	}
	if m := result.Metrics; m != nil {
		conn := "new conn"
		if m.ConnReused {
			conn = "reused conn"
		}
		lines = append(lines, fmt.Sprintf("%d ms total (%s, ttfb %d ms)",
			m.Sum().Milliseconds(), conn, m.TTFB.Milliseconds()))
	}
	return lines
}
