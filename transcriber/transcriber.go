// Package transcriber sends encoded audio to a hosted speech-to-text API
// and returns the recognized text. The service is a black box: no retries,
// no cancellation, no accuracy guarantees.
package transcriber

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Request is one complete audio payload to transcribe.
type Request struct {
	Audio    []byte // encoded audio, see Format
	Format   string // payload container, e.g. "flac"
	Language string // ISO 639-1 code, empty = auto-detect
}

// NetworkMetrics breaks down where a request's wall time went.
type NetworkMetrics struct {
	DNS         time.Duration
	ConnWait    time.Duration
	TCP         time.Duration
	TLS         time.Duration
	ReqHeaders  time.Duration
	ReqBody     time.Duration
	TTFB        time.Duration
	Download    time.Duration
	Total       time.Duration
	ConnReused  bool
	TLSProtocol string
}

func (m *NetworkMetrics) Sum() time.Duration {
	return m.ConnWait + m.DNS + m.TCP + m.TLS + m.ReqHeaders + m.ReqBody + m.TTFB + m.Download
}

// Result is a successful transcription.
type Result struct {
	Text      string
	Duration  float64 // audio duration as reported by the API, seconds
	RateLimit string  // "remaining/limit" or empty
	Metrics   *NetworkMetrics
}

type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, req Request) (*Result, error)
}

func firstNonEmpty(h http.Header, keys ...string) string {
	for _, k := range keys {
		if v := h.Get(k); v != "" {
			return v
		}
	}
	return "?"
}

// New picks a provider from the environment: GROQ_API_KEY wins, then
// OPENAI_API_KEY.
func New() (Transcriber, error) {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		return NewGroq(key), nil
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return NewOpenAI(key), nil
	}
	return nil, fmt.Errorf("set GROQ_API_KEY or OPENAI_API_KEY environment variable")
}
