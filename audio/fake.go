package audio

import (
	"errors"
	"os"
	"sync"
	"time"
)

const (
	fakeFrameSize     = 1024
	fakeBytesPerFrame = 2 // 16-bit mono
)

// FakeContext is an in-memory Context for tests and headless runs. If PCM
// is set, every capture it opens replays that audio on Start; tests can
// also push chunks by hand with FakeCapture.Feed.
type FakeContext struct {
	PCM        []byte
	Realtime   bool  // pace replay at the real sample rate
	SampleRate int   // used for pacing; defaults to 16000
	CaptureErr error // returned by NewCapture, simulates acquisition denial

	mu   sync.Mutex
	last *FakeCapture
}

// NewFakeContextFromWAV loads a 16-bit mono WAV fixture, skipping the header.
func NewFakeContextFromWAV(path string, realtime bool) (*FakeContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) > WAVHeaderSize {
		data = data[WAVHeaderSize:]
	}
	return &FakeContext{PCM: data, Realtime: realtime}, nil
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake", Name: "fake capture"}}, nil
}

func (f *FakeContext) Close() {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	if f.CaptureErr != nil {
		return nil, f.CaptureErr
	}
	rate := f.SampleRate
	if rate == 0 {
		rate = 16000
	}
	c := &FakeCapture{pcm: f.PCM, realtime: f.Realtime, sampleRate: rate}
	f.mu.Lock()
	f.last = c
	f.mu.Unlock()
	return c, nil
}

// LastCapture returns the most recently opened capture so tests can drive it.
func (f *FakeContext) LastCapture() *FakeCapture {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// FakeCapture delivers PCM to the registered callback without touching any
// real hardware.
type FakeCapture struct {
	pcm        []byte
	realtime   bool
	sampleRate int

	StartErr error

	mu      sync.Mutex
	cb      DataCallback
	started bool
	stopCh  chan struct{}
	feedWG  sync.WaitGroup
}

func (c *FakeCapture) SetCallback(cb DataCallback) {
	c.mu.Lock()
	c.cb = cb
	c.mu.Unlock()
}

func (c *FakeCapture) ClearCallback() {
	c.mu.Lock()
	c.cb = nil
	c.mu.Unlock()
}

func (c *FakeCapture) DeviceName() string { return "fake capture" }

// Started reports whether the device is actively capturing.
func (c *FakeCapture) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// Feed hands a chunk to the callback as if the hardware produced it.
// Chunks are delivered in call order. No-op while not capturing.
func (c *FakeCapture) Feed(data []byte) {
	c.mu.Lock()
	cb := c.cb
	started := c.started
	c.mu.Unlock()
	if !started || cb == nil {
		return
	}
	chunk := make([]byte, len(data))
	copy(chunk, data)
	cb(chunk, uint32(len(chunk)/fakeBytesPerFrame))
}

func (c *FakeCapture) Start() error {
	if c.StartErr != nil {
		return c.StartErr
	}
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.New("fake capture already started")
	}
	c.started = true
	c.stopCh = make(chan struct{})
	stopCh := c.stopCh
	c.mu.Unlock()

	if len(c.pcm) == 0 {
		return nil
	}

	chunkBytes := fakeFrameSize * fakeBytesPerFrame
	if !c.realtime {
		for pos := 0; pos < len(c.pcm); pos += chunkBytes {
			end := min(pos+chunkBytes, len(c.pcm))
			c.Feed(c.pcm[pos:end])
		}
		return nil
	}

	interval := time.Duration(fakeFrameSize) * time.Second / time.Duration(c.sampleRate)
	c.feedWG.Add(1)
	go func() {
		defer c.feedWG.Done()
		for pos := 0; pos < len(c.pcm); pos += chunkBytes {
			select {
			case <-stopCh:
				return
			case <-time.After(interval):
			}
			end := min(pos+chunkBytes, len(c.pcm))
			c.Feed(c.pcm[pos:end])
		}
	}()
	return nil
}

func (c *FakeCapture) Stop() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.started = false
	close(c.stopCh)
	c.mu.Unlock()
	c.feedWG.Wait()
}

func (c *FakeCapture) Close() {
	c.Stop()
}
