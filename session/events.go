package session

import (
	"vmemo/store"
	"vmemo/transcriber"
)

// EventSink receives controller lifecycle events. It abstracts the display
// layer so the controller can be exercised without any rendering attached.
// Implementations must be safe to call from multiple goroutines.
type EventSink interface {
	RecordingStarted()
	RecordingStopped()
	RecordingTick(seconds float64)
	AudioLevel(level float64)
	SilenceWarning()
	SilenceCleared()
	NoteCreated(note store.VoiceNote, result *transcriber.Result)
	NoSpeech()
	SessionError(stage string, err error)
}

// Error stages reported through SessionError.
const (
	StageAcquire    = "acquire"
	StageEncode     = "encode"
	StageTranscribe = "transcribe"
)

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordingStarted()                                       {}
func (NopSink) RecordingStopped()                                       {}
func (NopSink) RecordingTick(float64)                                   {}
func (NopSink) AudioLevel(float64)                                      {}
func (NopSink) SilenceWarning()                                         {}
func (NopSink) SilenceCleared()                                         {}
func (NopSink) NoteCreated(store.VoiceNote, *transcriber.Result)        {}
func (NopSink) NoSpeech()                                               {}
func (NopSink) SessionError(string, error)                              {}
