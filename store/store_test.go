package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNotePrepends(t *testing.T) {
	s := New()
	first := s.AddNote("first", 100, time.Second)
	second := s.AddNote("second", 200, 2*time.Second)

	notes := s.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID)
	assert.Equal(t, "second", notes[0].Transcript)
	assert.Equal(t, first.ID, notes[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestDeleteNote(t *testing.T) {
	s := New()
	a := s.AddNote("a", 0, 0)
	b := s.AddNote("b", 0, 0)
	c := s.AddNote("c", 0, 0)

	require.True(t, s.DeleteNote(b.ID))

	notes := s.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, c.ID, notes[0].ID)
	assert.Equal(t, a.ID, notes[1].ID)
}

func TestDeleteNoteUnknownIDIsNoop(t *testing.T) {
	s := New()
	s.AddNote("keep", 0, 0)

	assert.False(t, s.DeleteNote("nonexistent"))
	assert.Len(t, s.Notes(), 1)
}

func TestNotesSnapshotIsolated(t *testing.T) {
	s := New()
	s.AddNote("original", 0, 0)

	snap := s.Notes()
	snap[0].Transcript = "mutated"

	assert.Equal(t, "original", s.Notes()[0].Transcript)
}

func TestAddWord(t *testing.T) {
	s := New()
	w, err := s.AddWord("hello", "heh-LOH", "a greeting")
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, "hello", w.Word)
	assert.Equal(t, "heh-LOH", w.Pronunciation)
	assert.Equal(t, "a greeting", w.Definition)
	assert.False(t, w.CreatedAt.IsZero())

	words := s.Words()
	require.Len(t, words, 1)
	assert.Equal(t, w, words[0])
}

func TestAddWordRejectsEmpty(t *testing.T) {
	s := New()
	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := s.AddWord(input, "", "")
		assert.ErrorIs(t, err, ErrEmptyWord, "input %q", input)
	}
	assert.Empty(t, s.Words())
}

func TestAddWordTrims(t *testing.T) {
	s := New()
	w, err := s.AddWord("  kubectl  ", " koob-control ", "")
	require.NoError(t, err)
	assert.Equal(t, "kubectl", w.Word)
	assert.Equal(t, "koob-control", w.Pronunciation)
}

func TestDeleteWord(t *testing.T) {
	s := New()
	w1, _ := s.AddWord("one", "", "")
	w2, _ := s.AddWord("two", "", "")

	require.True(t, s.DeleteWord(w1.ID))
	assert.False(t, s.DeleteWord(w1.ID))

	words := s.Words()
	require.Len(t, words, 1)
	assert.Equal(t, w2.ID, words[0].ID)
}

func TestMarkCopiedExpires(t *testing.T) {
	s := New()
	s.SetCopyTTL(30 * time.Millisecond)
	n := s.AddNote("copy me", 0, 0)

	s.MarkCopied(n.ID)
	assert.Equal(t, n.ID, s.CopiedID())

	assert.Eventually(t, func() bool { return s.CopiedID() == "" },
		time.Second, 5*time.Millisecond)
}

func TestMarkCopiedNewerMarkSurvivesOlderExpiry(t *testing.T) {
	s := New()
	s.SetCopyTTL(40 * time.Millisecond)
	a := s.AddNote("a", 0, 0)
	b := s.AddNote("b", 0, 0)

	s.MarkCopied(a.ID)
	time.Sleep(20 * time.Millisecond)
	s.MarkCopied(b.ID)

	// a's timer fires around t=40ms; b's mark must survive it.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, b.ID, s.CopiedID())

	assert.Eventually(t, func() bool { return s.CopiedID() == "" },
		time.Second, 5*time.Millisecond)
}

func TestDeleteNoteClearsCopiedMark(t *testing.T) {
	s := New()
	n := s.AddNote("gone", 0, 0)
	s.MarkCopied(n.ID)
	s.DeleteNote(n.ID)
	assert.Empty(t, s.CopiedID())
}

func TestChangeListenerFires(t *testing.T) {
	s := New()
	calls := 0
	s.SetChangeListener(func() { calls++ })

	n := s.AddNote("x", 0, 0)
	s.DeleteNote(n.ID)
	s.DeleteNote("missing") // no-op, no notification

	assert.Equal(t, 2, calls)
}
