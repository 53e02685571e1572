// Package store owns all user-visible application state: the voice note
// list, the pronunciation dictionary, and the transient "recently copied"
// mark. Nothing outside this package mutates that state directly; every
// change goes through a method here so the UI and the recording controller
// stay decoupled.
package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyWord is returned when a dictionary word is empty after trimming.
var ErrEmptyWord = errors.New("dictionary word must not be empty")

// CopiedMarkTTL is how long a note stays marked "recently copied".
const CopiedMarkTTL = 2 * time.Second

// VoiceNote is one transcribed recording. Notes are created only when
// transcription succeeds and are immutable afterwards, except for deletion.
type VoiceNote struct {
	ID         string
	Transcript string
	AudioBytes int // size of the encoded payload sent to the API
	CreatedAt  time.Time
	Duration   time.Duration // measured capture duration
}

// DictionaryWord is a user-entered pronunciation hint.
type DictionaryWord struct {
	ID            string
	Word          string
	Pronunciation string
	Definition    string
	CreatedAt     time.Time
}

type Store struct {
	mu       sync.Mutex
	notes    []VoiceNote
	words    []DictionaryWord
	copiedID string
	copySeq  uint64

	copyTTL  time.Duration
	now      func() time.Time
	onChange func()
}

func New() *Store {
	return &Store{
		copyTTL: CopiedMarkTTL,
		now:     time.Now,
	}
}

// SetChangeListener registers a callback fired after every mutation.
// The callback runs outside the store lock.
func (s *Store) SetChangeListener(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// SetCopyTTL overrides the copied-mark lifetime. Used by tests.
func (s *Store) SetCopyTTL(d time.Duration) {
	s.mu.Lock()
	s.copyTTL = d
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// AddNote constructs a VoiceNote from a successful transcription and
// prepends it, keeping the list most-recent-first.
func (s *Store) AddNote(transcript string, audioBytes int, duration time.Duration) VoiceNote {
	note := VoiceNote{
		ID:         uuid.NewString(),
		Transcript: transcript,
		AudioBytes: audioBytes,
		CreatedAt:  s.now(),
		Duration:   duration,
	}
	s.mu.Lock()
	s.notes = append([]VoiceNote{note}, s.notes...)
	s.mu.Unlock()
	s.notify()
	return note
}

// DeleteNote removes the note with the given id. Unknown ids are a no-op.
func (s *Store) DeleteNote(id string) bool {
	s.mu.Lock()
	removed := false
	for i, n := range s.notes {
		if n.ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			if s.copiedID == id {
				s.copiedID = ""
				s.copySeq++
			}
			removed = true
			break
		}
	}
	s.mu.Unlock()
	if removed {
		s.notify()
	}
	return removed
}

// Notes returns a snapshot of the note list, most recent first.
func (s *Store) Notes() []VoiceNote {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]VoiceNote, len(s.notes))
	copy(out, s.notes)
	return out
}

// AddWord validates and appends a dictionary word. The word must be
// non-empty after trimming; pronunciation and definition are optional.
func (s *Store) AddWord(word, pronunciation, definition string) (DictionaryWord, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return DictionaryWord{}, ErrEmptyWord
	}
	entry := DictionaryWord{
		ID:            uuid.NewString(),
		Word:          word,
		Pronunciation: strings.TrimSpace(pronunciation),
		Definition:    strings.TrimSpace(definition),
		CreatedAt:     s.now(),
	}
	s.mu.Lock()
	s.words = append(s.words, entry)
	s.mu.Unlock()
	s.notify()
	return entry, nil
}

// DeleteWord removes the dictionary word with the given id.
func (s *Store) DeleteWord(id string) bool {
	s.mu.Lock()
	removed := false
	for i, w := range s.words {
		if w.ID == id {
			s.words = append(s.words[:i], s.words[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()
	if removed {
		s.notify()
	}
	return removed
}

// Words returns a snapshot of the dictionary in insertion order.
func (s *Store) Words() []DictionaryWord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DictionaryWord, len(s.words))
	copy(out, s.words)
	return out
}

// MarkCopied marks a note as recently copied. The mark clears itself after
// the TTL unless a newer mark replaced it in the meantime.
func (s *Store) MarkCopied(id string) {
	s.mu.Lock()
	s.copiedID = id
	s.copySeq++
	seq := s.copySeq
	ttl := s.copyTTL
	s.mu.Unlock()
	s.notify()

	time.AfterFunc(ttl, func() {
		s.mu.Lock()
		if s.copySeq != seq {
			s.mu.Unlock()
			return
		}
		s.copiedID = ""
		s.mu.Unlock()
		s.notify()
	})
}

// CopiedID returns the id of the most recently copied note, or "" once the
// mark has expired.
func (s *Store) CopiedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copiedID
}
