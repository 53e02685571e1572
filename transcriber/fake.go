package transcriber

import (
	"context"
	"sync"
	"time"
)

// Fake is a Transcriber test double. It records every request it receives
// and answers with a fixed text or error after an optional delay.
type Fake struct {
	Text  string
	Err   error
	Delay time.Duration

	mu       sync.Mutex
	requests []Request
}

func NewFake(text string, err error) *Fake {
	return &Fake{Text: text, Err: err}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Transcribe(ctx context.Context, r Request) (*Result, error) {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.mu.Unlock()

	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return &Result{
		Text:    f.Text,
		Metrics: &NetworkMetrics{TTFB: 10 * time.Millisecond},
	}, nil
}

// Requests returns a copy of every request seen so far.
func (f *Fake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// CallCount reports how many times Transcribe was invoked.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
