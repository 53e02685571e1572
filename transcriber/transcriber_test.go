package transcriber

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNetworkMetricsSum(t *testing.T) {
	m := &NetworkMetrics{
		ConnWait:   10 * time.Millisecond,
		DNS:        20 * time.Millisecond,
		TCP:        30 * time.Millisecond,
		TLS:        40 * time.Millisecond,
		ReqHeaders: 5 * time.Millisecond,
		ReqBody:    15 * time.Millisecond,
		TTFB:       50 * time.Millisecond,
		Download:   25 * time.Millisecond,
	}
	got := m.Sum()
	want := 195 * time.Millisecond
	if got != want {
		t.Errorf("Sum() = %v, want %v", got, want)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	h := http.Header{}
	h.Set("X-Rate-Limit", "100")

	if got := firstNonEmpty(h, "X-Missing", "X-Rate-Limit"); got != "100" {
		t.Errorf("got %q, want %q", got, "100")
	}
	if got := firstNonEmpty(h, "X-A", "X-B"); got != "?" {
		t.Errorf("got %q, want %q", got, "?")
	}
}

func TestGroqTranscribe(t *testing.T) {
	var gotModel, gotLang, gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLang = r.FormValue("language")
		if _, hdr, err := r.FormFile("file"); err == nil {
			gotFilename = hdr.Filename
		}
		w.Header().Set("x-ratelimit-remaining-requests", "41")
		w.Header().Set("x-ratelimit-limit-requests", "50")
		json.NewEncoder(w).Encode(map[string]any{
			"text":     "testing one two",
			"duration": 1.5,
		})
	}))
	defer srv.Close()

	g := NewGroq("test-key")
	g.apiURL = srv.URL
	g.client = NewTracedClient(srv.URL)

	res, err := g.Transcribe(context.Background(), Request{
		Audio:    []byte("fLaC-fake-payload"),
		Format:   "flac",
		Language: "en",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if res.Text != "testing one two" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Duration != 1.5 {
		t.Errorf("Duration = %v, want 1.5", res.Duration)
	}
	if res.RateLimit != "41/50" {
		t.Errorf("RateLimit = %q, want 41/50", res.RateLimit)
	}
	if gotModel != "whisper-large-v3-turbo" {
		t.Errorf("model = %q", gotModel)
	}
	if gotLang != "en" {
		t.Errorf("language = %q", gotLang)
	}
	if gotFilename != "audio.flac" {
		t.Errorf("filename = %q", gotFilename)
	}
	if res.Metrics == nil {
		t.Error("expected network metrics")
	}
}

func TestGroqTranscribeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGroq("test-key")
	g.apiURL = srv.URL
	g.client = NewTracedClient(srv.URL)

	_, err := g.Transcribe(context.Background(), Request{Audio: []byte("x"), Format: "flac"})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should mention status code, got: %v", err)
	}
}

func TestOpenAITranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"text":     "openai says hi",
			"duration": 2.0,
		})
	}))
	defer srv.Close()

	o := NewOpenAIWithBaseURL("test-key", srv.URL)
	res, err := o.Transcribe(context.Background(), Request{
		Audio:  []byte("fLaC-fake-payload"),
		Format: "flac",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if res.Text != "openai says hi" {
		t.Errorf("Text = %q", res.Text)
	}
}

func TestNewRequiresKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := New(); err == nil {
		t.Fatal("expected error when no API key is set")
	}

	t.Setenv("GROQ_API_KEY", "gk")
	tr, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if tr.Name() != "groq" {
		t.Errorf("Name = %q, want groq", tr.Name())
	}
}

func TestFakeRecordsRequests(t *testing.T) {
	f := NewFake("hello", nil)
	res, err := f.Transcribe(context.Background(), Request{Audio: []byte("a"), Format: "flac", Language: "en"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "hello" {
		t.Errorf("Text = %q", res.Text)
	}
	if f.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1", f.CallCount())
	}
	if got := f.Requests()[0].Language; got != "en" {
		t.Errorf("recorded language = %q", got)
	}
}
