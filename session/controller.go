// Package session mediates the lifecycle of one recording attempt: acquire
// the microphone, buffer captured chunks, and on stop hand the audio to the
// transcription service. Each completed cycle produces exactly one voice
// note, or none on failure.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"vmemo/audio"
	"vmemo/encoder"
	"vmemo/log"
	"vmemo/store"
	"vmemo/transcriber"
)

// State is the controller's recording status. All device operations are
// guarded by it; transitions are Idle → Recording → Transcribing → Idle.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateTranscribing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateTranscribing:
		return "transcribing"
	default:
		return "unknown"
	}
}

// ErrBusy is returned by Start when a recording or transcription is still
// in flight. Duplicate start triggers resolve deterministically to this.
var ErrBusy = errors.New("a recording is already in progress")

const (
	DefaultTickInterval = 100 * time.Millisecond
	// DefaultMinDuration filters out accidental taps: shorter recordings
	// are discarded without calling the transcription API.
	DefaultMinDuration = 100 * time.Millisecond
)

type Config struct {
	Language     string
	TickInterval time.Duration // 0 means DefaultTickInterval
	MinDuration  time.Duration // 0 means DefaultMinDuration

	// AutoStop reports whether sustained silence should end the recording.
	// Checked per tick: a hybrid trigger only knows whether the press was a
	// tap or a hold once the long-press threshold has passed. Nil disables
	// auto-stop.
	AutoStop func() bool
}

// warmer is implemented by providers that can pre-open their HTTPS
// connection while the user is still speaking.
type warmer interface {
	Warm()
}

type Controller struct {
	cfg      Config
	audioCtx audio.Context
	device   *audio.DeviceInfo
	tr       transcriber.Transcriber
	notes    *store.Store
	sink     EventSink

	mu        sync.Mutex
	state     State
	capture   audio.CaptureDevice
	capturing bool
	chunks    [][]byte
	frames    uint64
	startedAt time.Time
	stopTick  chan struct{}
	meter     *levelMeter
	monitor   *silenceMonitor
}

func NewController(audioCtx audio.Context, device *audio.DeviceInfo, tr transcriber.Transcriber, notes *store.Store, sink EventSink, cfg Config) *Controller {
	if cfg.TickInterval == 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.MinDuration == 0 {
		cfg.MinDuration = DefaultMinDuration
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Controller{
		cfg:      cfg,
		audioCtx: audioCtx,
		device:   device,
		tr:       tr,
		notes:    notes,
		sink:     sink,
	}
}

// State returns the current recording status.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetDevice switches the microphone for subsequent recordings. No-op while
// a recording is in flight.
func (c *Controller) SetDevice(device *audio.DeviceInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return ErrBusy
	}
	if c.capture != nil {
		c.capture.Close()
		c.capture = nil
	}
	c.device = device
	return nil
}

// Start begins a recording. Only valid from Idle: a start trigger while
// recording or transcribing returns ErrBusy with no side effects. The
// capture device is acquired lazily on first use; acquisition failure
// leaves the controller Idle.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrBusy
	}

	if c.capture == nil {
		capture, err := c.audioCtx.NewCapture(c.device, audio.CaptureConfig{
			SampleRate: encoder.SampleRate,
			Channels:   encoder.Channels,
		})
		if err != nil {
			c.mu.Unlock()
			return fmt.Errorf("acquiring capture device: %w", err)
		}
		c.capture = capture
	}

	// Discard anything a previous attempt left behind.
	c.chunks = nil
	c.frames = 0
	c.meter = newLevelMeter()
	c.monitor = newSilenceMonitor(c.cfg.TickInterval, c.cfg.AutoStop)

	capture := c.capture
	capture.SetCallback(c.onChunk)
	c.capturing = true
	c.state = StateRecording
	c.startedAt = time.Now()
	c.stopTick = make(chan struct{})
	stopTick := c.stopTick

	// Release the lock before starting the device: backends may deliver
	// the first chunk synchronously from Start.
	c.mu.Unlock()

	if err := capture.Start(); err != nil {
		capture.ClearCallback()
		c.mu.Lock()
		c.capturing = false
		c.state = StateIdle
		c.chunks = nil
		c.frames = 0
		c.mu.Unlock()
		return fmt.Errorf("starting capture: %w", err)
	}

	// A stop trigger may have run to completion while the device was
	// spinning up. It already tore the session down, so the freshly
	// started device would otherwise keep running with no owner.
	c.mu.Lock()
	if !c.capturing {
		c.mu.Unlock()
		capture.Stop()
		capture.ClearCallback()
		return nil
	}
	c.mu.Unlock()

	if w, ok := c.tr.(warmer); ok {
		w.Warm()
	}

	go c.tickLoop(stopTick)
	log.Info("recording_start: " + capture.DeviceName())
	c.sink.RecordingStarted()
	return nil
}

// onChunk is the only mutation path for the in-progress buffer. Chunks are
// appended strictly in arrival order.
func (c *Controller) onChunk(data []byte, frameCount uint32) {
	c.mu.Lock()
	if !c.capturing {
		c.mu.Unlock()
		return
	}
	chunk := make([]byte, len(data))
	copy(chunk, data)
	c.chunks = append(c.chunks, chunk)
	c.frames += uint64(frameCount)
	meter := c.meter
	c.mu.Unlock()

	c.sink.AudioLevel(meter.Observe(data))
}

func (c *Controller) tickLoop(stopTick <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stopTick:
			return
		case <-ticker.C:
			c.mu.Lock()
			elapsed := time.Since(c.startedAt)
			meter, monitor := c.meter, c.monitor
			c.mu.Unlock()

			c.sink.RecordingTick(elapsed.Seconds())
			switch monitor.Tick(meter.SpeechTick()) {
			case SilenceWarn:
				log.Info("no_voice_warning")
				c.sink.SilenceWarning()
			case SilenceWarnClear:
				c.sink.SilenceCleared()
			case SilenceRepeat:
				c.sink.SilenceWarning()
			case SilenceAutoStop:
				log.Info("silence_auto_stop")
				c.Stop()
				return
			}
		}
	}
}

// Stop ends the recording and kicks off transcription. A stop trigger while
// not actively capturing is a no-op and returns nil, which makes duplicate
// stop events (hotkey release racing a TUI key) harmless. Otherwise it
// returns a channel that closes once the cycle settles and the controller
// is Idle again.
func (c *Controller) Stop() <-chan struct{} {
	c.mu.Lock()
	if !c.capturing {
		c.mu.Unlock()
		return nil
	}
	c.capturing = false
	c.state = StateTranscribing
	close(c.stopTick)
	chunks := c.chunks
	frames := c.frames
	c.chunks = nil
	c.frames = 0
	capture := c.capture
	c.mu.Unlock()

	capture.Stop()
	capture.ClearCallback()
	log.Info("recording_stop")
	c.sink.RecordingStopped()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.finish(chunks, frames)
	}()
	return done
}

// finish runs the transcription leg. The state returns to Idle
// unconditionally once the call settles, success or failure.
func (c *Controller) finish(chunks [][]byte, frames uint64) {
	defer func() {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
	}()

	duration := time.Duration(float64(frames) / float64(encoder.SampleRate) * float64(time.Second))
	if duration < c.cfg.MinDuration {
		log.Info("recording_discarded: below minimum duration")
		return
	}

	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	pcm := make([]byte, 0, total)
	for _, chunk := range chunks {
		pcm = append(pcm, chunk...)
	}

	payload, err := encoder.EncodePCM(pcm)
	if err != nil {
		log.Errorf("encode error: %v", err)
		c.sink.SessionError(StageEncode, err)
		return
	}

	result, err := c.tr.Transcribe(context.Background(), transcriber.Request{
		Audio:    payload,
		Format:   encoder.Format,
		Language: c.cfg.Language,
	})
	if err != nil {
		log.Errorf("transcription error: %v", err)
		c.sink.SessionError(StageTranscribe, err)
		return
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		log.Info("no_speech")
		c.sink.NoSpeech()
		return
	}

	note := c.notes.AddNote(text, len(payload), duration)
	log.NoteText(text)
	log.NoteCreated(note.ID, duration.Seconds(), float64(len(payload))/1024, c.tr.Name())
	if m := result.Metrics; m != nil {
		log.RequestStats(c.tr.Name(), m.ConnReused,
			float64(m.DNS.Milliseconds()),
			float64(m.TLS.Milliseconds()),
			float64(m.TTFB.Milliseconds()),
			float64(m.Sum().Milliseconds()))
	}
	c.sink.NoteCreated(note, result)
}

// Close releases the capture device. Safe to call from any state.
func (c *Controller) Close() {
	c.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.capture != nil {
		c.capture.Close()
		c.capture = nil
	}
}
