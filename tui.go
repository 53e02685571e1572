package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vmemo/audio"
	"vmemo/clipboard"
	"vmemo/hotkey"
	"vmemo/session"
	"vmemo/store"
)

// TUI message types
type RecordingStartMsg struct{}
type RecordingStopMsg struct{}
type RecordingTickMsg struct{ Seconds float64 }
type AudioLevelMsg struct{ Level float64 }
type SilenceWarnMsg struct{ On bool }
type NoteCreatedMsg struct {
	Note      store.VoiceNote
	Metrics   []string
	RateLimit string
}
type NoSpeechMsg struct{}
type ToastMsg struct {
	Text    string
	IsError bool
}
type StoreChangedMsg struct{}
type toastExpireMsg struct{ seq int }

type tuiView int

const (
	viewNotes tuiView = iota
	viewDictionary
)

var (
	styleRec       = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleBusy      = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleStandby   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleWarn      = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	styleDim       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleMeta      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleText      = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleCopied    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleErr       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleTabActive = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true).Underline(true)
	styleTab       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleHelp      = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	styleLevel     = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	styleCursor    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
)

type tuiModel struct {
	ctl   *session.Controller
	notes *store.Store

	view       tuiView
	noteCursor int
	wordCursor int
	noteList   []store.VoiceNote
	wordList   []store.DictionaryWord

	recording    bool
	transcribing bool
	seconds      float64
	level        float64
	silenceWarn  bool

	lastMetrics []string
	rateLimit   string

	inputting bool
	input     string

	toast    string
	toastErr bool
	toastSeq int

	provider   string
	language   string
	deviceLine string
	comboLabel string

	width, height int
}

func NewTUIProgram(ctl *session.Controller, notes *store.Store, provider, language string, device *audio.DeviceInfo, combo hotkey.Combo) *tea.Program {
	deviceName := "system default"
	if device != nil {
		deviceName = device.Name
		if audio.IsBluetooth(device.Name) {
			deviceName += " (BT!)"
		}
	}
	m := tuiModel{
		ctl:        ctl,
		notes:      notes,
		noteList:   notes.Notes(),
		wordList:   notes.Words(),
		provider:   provider,
		language:   language,
		deviceLine: "mic: " + deviceName,
		comboLabel: combo.String(),
	}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) toggleRecord() tea.Cmd {
	ctl := m.ctl
	return func() tea.Msg {
		switch ctl.State() {
		case session.StateIdle:
			if err := ctl.Start(); err != nil {
				return ToastMsg{Text: fmt.Sprintf("cannot record: %v", err), IsError: true}
			}
		case session.StateRecording:
			ctl.Stop()
		case session.StateTranscribing:
			return ToastMsg{Text: "still transcribing, hang on", IsError: false}
		}
		return nil
	}
}

func (m *tuiModel) showToast(text string, isErr bool) tea.Cmd {
	m.toast = text
	m.toastErr = isErr
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(store.CopiedMarkTTL, func(time.Time) tea.Msg {
		return toastExpireMsg{seq: seq}
	})
}

func (m *tuiModel) refreshLists() {
	m.noteList = m.notes.Notes()
	m.wordList = m.notes.Words()
	if m.noteCursor >= len(m.noteList) {
		m.noteCursor = max(0, len(m.noteList)-1)
	}
	if m.wordCursor >= len(m.wordList) {
		m.wordCursor = max(0, len(m.wordList)-1)
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case RecordingStartMsg:
		m.recording = true
		m.transcribing = false
		m.seconds = 0
		m.level = 0
		m.silenceWarn = false

	case RecordingStopMsg:
		m.recording = false
		m.transcribing = true
		m.level = 0
		m.silenceWarn = false

	case RecordingTickMsg:
		m.seconds = msg.Seconds

	case AudioLevelMsg:
		if m.recording {
			m.level = m.level*0.6 + msg.Level*0.4
		}

	case SilenceWarnMsg:
		m.silenceWarn = msg.On

	case NoteCreatedMsg:
		m.transcribing = false
		m.lastMetrics = msg.Metrics
		if msg.RateLimit != "" {
			m.rateLimit = msg.RateLimit + " remaining"
		}
		m.refreshLists()
		m.noteCursor = 0

	case NoSpeechMsg:
		m.transcribing = false
		return m, m.showToast("no speech detected", false)

	case ToastMsg:
		m.transcribing = false
		return m, m.showToast(msg.Text, msg.IsError)

	case StoreChangedMsg:
		m.refreshLists()

	case toastExpireMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputting {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case " ", "r":
		return m, m.toggleRecord()

	case "tab":
		if m.view == viewNotes {
			m.view = viewDictionary
		} else {
			m.view = viewNotes
		}

	case "up", "k":
		if m.view == viewNotes && m.noteCursor > 0 {
			m.noteCursor--
		} else if m.view == viewDictionary && m.wordCursor > 0 {
			m.wordCursor--
		}

	case "down", "j":
		if m.view == viewNotes && m.noteCursor < len(m.noteList)-1 {
			m.noteCursor++
		} else if m.view == viewDictionary && m.wordCursor < len(m.wordList)-1 {
			m.wordCursor++
		}

	case "c", "enter":
		if m.view == viewNotes && len(m.noteList) > 0 {
			note := m.noteList[m.noteCursor]
			if err := clipboard.Copy(note.Transcript); err != nil {
				return m, m.showToast(fmt.Sprintf("clipboard error: %v", err), true)
			}
			m.notes.MarkCopied(note.ID)
		}

	case "d", "x":
		if m.view == viewNotes && len(m.noteList) > 0 {
			m.notes.DeleteNote(m.noteList[m.noteCursor].ID)
		} else if m.view == viewDictionary && len(m.wordList) > 0 {
			m.notes.DeleteWord(m.wordList[m.wordCursor].ID)
		}

	case "a":
		if m.view == viewDictionary {
			m.inputting = true
			m.input = ""
		}
	}
	return m, nil
}

func (m tuiModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputting = false
		m.input = ""

	case tea.KeyEnter:
		m.inputting = false
		entry := m.input
		m.input = ""
		word, pron, def := splitWordEntry(entry)
		if _, err := m.notes.AddWord(word, pron, def); err != nil {
			return m, m.showToast(err.Error(), true)
		}
		m.wordCursor = 0

	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}

	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeySpace:
		m.input += " "

	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

// splitWordEntry parses "word / pronunciation / definition"; the last two
// parts are optional.
func splitWordEntry(entry string) (word, pron, def string) {
	parts := strings.SplitN(entry, "/", 3)
	word = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		pron = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		def = strings.TrimSpace(parts[2])
	}
	return word, pron, def
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	// Tabs
	notesTab := fmt.Sprintf("Notes (%d)", len(m.noteList))
	dictTab := fmt.Sprintf("Dictionary (%d)", len(m.wordList))
	if m.view == viewNotes {
		b.WriteString(styleTabActive.Render(notesTab) + "   " + styleTab.Render(dictTab))
	} else {
		b.WriteString(styleTab.Render(notesTab) + "   " + styleTabActive.Render(dictTab))
	}
	b.WriteString("\n\n")

	// Status
	switch {
	case m.recording:
		b.WriteString(styleRec.Render(fmt.Sprintf("● REC %.1fs", m.seconds)))
		b.WriteString("  " + styleLevel.Render(levelBar(m.level, 20)))
		if m.silenceWarn {
			b.WriteString("  " + styleWarn.Render("⚠ no voice detected"))
		}
	case m.transcribing:
		b.WriteString(styleBusy.Render("◌ TRANSCRIBING..."))
	default:
		b.WriteString(styleStandby.Render("○ STANDBY"))
	}
	b.WriteString("\n")

	// Mode and device
	b.WriteString(styleDim.Render(fmt.Sprintf("[flac | %s (%s)]", m.provider, m.language)) + "\n")
	b.WriteString(styleDim.Render(m.deviceLine))
	if m.rateLimit != "" {
		b.WriteString(styleDim.Render("  " + m.rateLimit))
	}
	b.WriteString("\n\n")

	if m.view == viewNotes {
		b.WriteString(m.renderNotes())
	} else {
		b.WriteString(m.renderDictionary())
	}

	// Toast
	b.WriteString("\n")
	if m.toast != "" {
		if m.toastErr {
			b.WriteString(styleErr.Render(m.toast))
		} else {
			b.WriteString(styleWarn.Render(m.toast))
		}
	}
	b.WriteString("\n")

	// Help
	help := "space record · tab switch · ↑/↓ select · c copy · d delete"
	if m.view == viewDictionary {
		help += " · a add word"
	}
	help += " · q quit"
	b.WriteString(styleHelp.Render(help) + "\n")
	b.WriteString(styleHelp.Render(m.comboLabel+" records from anywhere · vmemo "+version) + "\n")

	return b.String()
}

func (m tuiModel) renderNotes() string {
	if len(m.noteList) == 0 {
		return styleDim.Render("No notes yet. Press space to record one.") + "\n"
	}

	var b strings.Builder
	copiedID := m.notes.CopiedID()
	wrapWidth := max(20, m.width-14)

	for i, note := range m.noteList {
		prefix := "  "
		if i == m.noteCursor {
			prefix = styleCursor.Render("▸ ")
		}
		meta := styleMeta.Render(fmt.Sprintf("%s  %4.1fs",
			note.CreatedAt.Format("15:04:05"), note.Duration.Seconds()))

		text := note.Transcript
		if i != m.noteCursor {
			// Collapsed rows get a single truncated line.
			if len(text) > wrapWidth {
				text = text[:wrapWidth-1] + "…"
			}
			b.WriteString(prefix + meta + "  " + styleText.Render(text))
			if note.ID == copiedID {
				b.WriteString(" " + styleCopied.Render("[✓ copied]"))
			}
			b.WriteString("\n")
			continue
		}

		// Selected note shows its full transcript.
		b.WriteString(prefix + meta + "\n")
		for _, line := range wrapText(text, wrapWidth) {
			b.WriteString("    " + styleText.Render(line) + "\n")
		}
		if note.ID == copiedID {
			b.WriteString("    " + styleCopied.Render("[✓ copied]") + "\n")
		}
		if i == 0 && len(m.lastMetrics) > 0 {
			for _, metric := range m.lastMetrics {
				b.WriteString("    " + styleMeta.Render(metric) + "\n")
			}
		}
	}
	return b.String()
}

func (m tuiModel) renderDictionary() string {
	var b strings.Builder

	if m.inputting {
		b.WriteString(styleText.Render("new word: ") + m.input + styleCursor.Render("█") + "\n")
		b.WriteString(styleDim.Render("format: word / pronunciation / definition · enter to save · esc to cancel") + "\n\n")
	}

	if len(m.wordList) == 0 {
		if !m.inputting {
			b.WriteString(styleDim.Render("No words yet. Press a to add one.") + "\n")
		}
		return b.String()
	}

	for i, w := range m.wordList {
		prefix := "  "
		if i == m.wordCursor && !m.inputting {
			prefix = styleCursor.Render("▸ ")
		}
		line := styleText.Render(w.Word)
		if w.Pronunciation != "" {
			line += styleMeta.Render("  /" + w.Pronunciation + "/")
		}
		if w.Definition != "" {
			line += styleDim.Render("  " + w.Definition)
		}
		b.WriteString(prefix + line + "\n")
	}
	return b.String()
}

func levelBar(level float64, width int) string {
	filled := int(level * 8 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("▮", filled) + strings.Repeat("▯", width-filled)
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for len(text) > width {
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}
