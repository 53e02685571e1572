// Package log writes developer diagnostics to a structured log file and
// transcripts to a separate plain-text file. User-visible notifications are
// the TUI's job; nothing here is shown to the user.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	noteFile *os.File
	logMu    sync.Mutex
	logReady bool
	pid      int
	dir      string
)

// ResolveDir picks the log directory: flag > VMEMO_LOG_PATH > OS default.
func ResolveDir(flagPath string) (string, error) {
	if flagPath != "" {
		return absPath(flagPath)
	}
	if envPath := os.Getenv("VMEMO_LOG_PATH"); envPath != "" {
		return absPath(envPath)
	}
	return getDefaultDir()
}

func absPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	notePath := filepath.Join(dir, "notes_log.txt")
	noteFile, err = os.OpenFile(notePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if noteFile != nil {
		noteFile.Close()
		noteFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// NoteCreated records a successful recording-to-note cycle.
func NoteCreated(id string, durationS float64, payloadKB float64, provider string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("note_id", id).
		Float64("audio_s", durationS).
		Float64("payload_kb", payloadKB).
		Str("provider", provider).
		Msg("note_created")
}

// RequestStats records network timing for one transcription request.
func RequestStats(provider string, connReused bool, dnsMs, tlsMs, ttfbMs, totalMs float64) {
	if !logReady {
		return
	}
	connStatus := "new"
	if connReused {
		connStatus = "reused"
	}
	diagLog.Info().
		Str("provider", provider).
		Str("conn", connStatus).
		Float64("dns_ms", dnsMs).
		Float64("tls_ms", tlsMs).
		Float64("ttfb_ms", ttfbMs).
		Float64("total_ms", totalMs).
		Msg("transcription_request")
}

// NoteText appends a transcript line to the plain-text notes log.
func NoteText(text string) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	line := fmt.Sprintf("%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, text)
	noteFile.WriteString(line)
}

func SessionStart(provider, language string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("provider", provider).
		Str("language", language).
		Str("format", "flac").
		Msg("session_start")
}

func SessionEnd(noteCount int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("notes", noteCount).
		Msg("session_end")
}
