package main

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vmemo/store"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m tuiModel, msg tea.Msg) tuiModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(tuiModel)
}

func TestSplitWordEntry(t *testing.T) {
	cases := []struct {
		in               string
		word, pron, def string
	}{
		{"kubernetes / koo-ber-NET-eez / container orchestrator", "kubernetes", "koo-ber-NET-eez", "container orchestrator"},
		{"nginx / engine-x", "nginx", "engine-x", ""},
		{"redis", "redis", "", ""},
		{"  padded  /  also padded  ", "padded", "also padded", ""},
		{"a / b / c / d", "a", "b", "c / d"},
	}
	for _, c := range cases {
		word, pron, def := splitWordEntry(c.in)
		if word != c.word || pron != c.pron || def != c.def {
			t.Errorf("splitWordEntry(%q) = %q, %q, %q; want %q, %q, %q",
				c.in, word, pron, def, c.word, c.pron, c.def)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("the quick brown fox jumps over the lazy dog", 15)
	for _, line := range lines {
		if len(line) > 15 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if len(lines) < 3 {
		t.Errorf("expected at least 3 lines, got %d", len(lines))
	}

	if got := wrapText("", 10); len(got) != 1 || got[0] != "" {
		t.Errorf("empty text should wrap to one empty line, got %v", got)
	}
}

func TestModelRefreshOnStoreChange(t *testing.T) {
	notes := store.New()
	m := tuiModel{notes: notes, width: 80, height: 24}

	notes.AddNote("first", 100, time.Second)
	notes.AddNote("second", 100, time.Second)
	m = update(t, m, StoreChangedMsg{})

	if len(m.noteList) != 2 {
		t.Fatalf("expected 2 notes after refresh, got %d", len(m.noteList))
	}
	if m.noteList[0].Transcript != "second" {
		t.Errorf("newest note should be first, got %q", m.noteList[0].Transcript)
	}
}

func TestModelCursorClampsAfterDelete(t *testing.T) {
	notes := store.New()
	notes.AddNote("only", 100, time.Second)
	m := tuiModel{notes: notes, width: 80, height: 24}
	m = update(t, m, StoreChangedMsg{})
	m.noteCursor = 0

	m = update(t, m, keyRunes("d"))
	m = update(t, m, StoreChangedMsg{})

	if len(m.noteList) != 0 {
		t.Fatalf("note should be deleted, got %d", len(m.noteList))
	}
	if m.noteCursor != 0 {
		t.Errorf("cursor should clamp to 0, got %d", m.noteCursor)
	}
}

func TestModelDictionaryInput(t *testing.T) {
	notes := store.New()
	m := tuiModel{notes: notes, view: viewDictionary, width: 80, height: 24}

	m = update(t, m, keyRunes("a"))
	if !m.inputting {
		t.Fatal("'a' should enter input mode in dictionary view")
	}

	for _, r := range "etcd / et-see-dee" {
		m = update(t, m, keyRunes(string(r)))
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.inputting {
		t.Fatal("enter should leave input mode")
	}
	words := notes.Words()
	if len(words) != 1 || words[0].Word != "etcd" || words[0].Pronunciation != "et-see-dee" {
		t.Fatalf("unexpected dictionary contents: %+v", words)
	}
}

func TestModelEmptyWordRejected(t *testing.T) {
	notes := store.New()
	m := tuiModel{notes: notes, view: viewDictionary, width: 80, height: 24}

	m = update(t, m, keyRunes("a"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if len(notes.Words()) != 0 {
		t.Fatal("empty entry should not create a word")
	}
	if m.toast == "" {
		t.Error("expected an error toast for empty word")
	}
}

func TestModelInputEscCancels(t *testing.T) {
	notes := store.New()
	m := tuiModel{notes: notes, view: viewDictionary, width: 80, height: 24}

	m = update(t, m, keyRunes("a"))
	m = update(t, m, keyRunes("x"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.inputting || m.input != "" {
		t.Error("esc should cancel input mode and clear the buffer")
	}
	if len(notes.Words()) != 0 {
		t.Error("cancelled entry should not create a word")
	}
}

func TestToastExpiryIgnoresStaleSeq(t *testing.T) {
	m := tuiModel{width: 80, height: 24}
	next, _ := m.Update(ToastMsg{Text: "first"})
	m = next.(tuiModel)
	next, _ = m.Update(ToastMsg{Text: "second"})
	m = next.(tuiModel)

	// Expiry from the first toast must not clear the second.
	m = update(t, m, toastExpireMsg{seq: m.toastSeq - 1})
	if m.toast != "second" {
		t.Errorf("stale expiry cleared toast, got %q", m.toast)
	}

	m = update(t, m, toastExpireMsg{seq: m.toastSeq})
	if m.toast != "" {
		t.Errorf("current expiry should clear toast, got %q", m.toast)
	}
}

func TestRecordingLifecycleMessages(t *testing.T) {
	m := tuiModel{notes: store.New(), width: 80, height: 24}

	m = update(t, m, RecordingStartMsg{})
	if !m.recording {
		t.Fatal("expected recording state")
	}
	m = update(t, m, RecordingTickMsg{Seconds: 2.5})
	if m.seconds != 2.5 {
		t.Errorf("seconds = %f", m.seconds)
	}
	m = update(t, m, AudioLevelMsg{Level: 0.5})
	if m.level == 0 {
		t.Error("level should move with audio while recording")
	}

	m = update(t, m, RecordingStopMsg{})
	if m.recording || !m.transcribing {
		t.Fatal("stop should move to transcribing")
	}
	m = update(t, m, NoteCreatedMsg{Note: store.VoiceNote{Transcript: "done"}})
	if m.transcribing {
		t.Fatal("note creation should end transcribing state")
	}
}
