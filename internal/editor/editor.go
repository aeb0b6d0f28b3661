// Package editor is the interactive LRC editor: a Bubble Tea program
// that merges keyboard input and player poll ticks into one ordered
// event stream feeding a single-writer state machine. The document is
// only ever mutated from Update, so no locking is needed around it.
package editor

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lecheel/lrc-maker/internal/document"
	"github.com/lecheel/lrc-maker/internal/logging"
	"github.com/lecheel/lrc-maker/internal/lrc"
	"github.com/lecheel/lrc-maker/internal/player"
)

// Mode selects which entity keystrokes act on: Sync captures
// timestamps, Edit mutates line text. Transitions are explicit
// keypresses, never side effects.
type Mode int

const (
	ModeSync Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "Edit"
	}
	return "Sync"
}

// tickMsg drives the snapshot refresh while the editor is visible.
type tickMsg time.Time

// Model is the editor state machine.
type Model struct {
	doc    *document.Document
	client player.Client
	log    *logging.Logger

	mode     Mode
	input    textinput.Model
	interval time.Duration

	// displayed snapshot, refreshed each tick; captures re-read the
	// client directly so they never use a queued value
	snap player.Snapshot

	status      string
	confirmQuit bool
	quitting    bool

	width  int
	height int
}

// New builds an editor over doc, reading playback state from client.
func New(doc *document.Document, client player.Client, interval time.Duration, log *logging.Logger) *Model {
	if interval <= 0 {
		interval = 150 * time.Millisecond
	}
	if log == nil {
		log = logging.Nop()
	}

	input := textinput.New()
	input.Prompt = ""

	return &Model{
		doc:      doc,
		client:   client,
		log:      log,
		mode:     ModeSync,
		input:    input,
		interval: interval,
	}
}

// Mode exposes the active mode.
func (m *Model) Mode() Mode { return m.mode }

// Status exposes the current status-line message.
func (m *Model) Status() string { return m.status }

func (m *Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case tickMsg:
		m.snap = m.client.Snapshot()
		return m, m.tickCmd()

	case tea.KeyMsg:
		if m.confirmQuit {
			return m.updateConfirmQuit(msg)
		}
		if m.mode == ModeEdit {
			return m.updateEdit(msg)
		}
		return m.updateSync(msg)
	}

	return m, nil
}

func (m *Model) updateSync(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.doc.MoveCursor(-1)
	case "down", "j":
		m.doc.MoveCursor(1)
	case " ":
		m.capture()
	case "x":
		m.removeTimestamp()
	case "enter":
		m.jumpToPlayback()
	case "e":
		m.enterEditMode()
	case "ctrl+n":
		m.insertLine()
	case "ctrl+d":
		m.deleteLine()
	case "y":
		m.yankLine()
	case "s", "ctrl+s":
		m.save()
	case "q", "ctrl+c":
		return m.requestQuit()
	}
	return m, nil
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.commitEdit()
		m.doc.MoveCursor(1)
		m.loadInput()
		return m, nil
	case "esc":
		// leave Edit mode, discarding uncommitted text; plain 'e'
		// has to stay typeable here
		m.input.Blur()
		m.mode = ModeSync
		m.status = ""
		return m, nil
	case "up":
		m.commitEdit()
		m.doc.MoveCursor(-1)
		m.loadInput()
		return m, nil
	case "down":
		m.commitEdit()
		m.doc.MoveCursor(1)
		m.loadInput()
		return m, nil
	case "ctrl+n":
		m.commitEdit()
		m.insertLine()
		m.loadInput()
		return m, nil
	case "ctrl+d":
		m.deleteLine()
		m.loadInput()
		return m, nil
	case "ctrl+y":
		m.yankLine()
		return m, nil
	case "ctrl+s":
		m.commitEdit()
		m.save()
		return m, nil
	case "ctrl+c":
		m.commitEdit()
		return m.requestQuit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirmQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		if !m.save() {
			// save failed: stay alive, dirty flag intact
			m.confirmQuit = false
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case "n":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.confirmQuit = false
		m.status = ""
	}
	return m, nil
}

// capture stamps the freshest snapshot onto the cursor line. With no
// reachable player this must be a complete no-op: no stale or zero
// timestamp may ever be written silently.
func (m *Model) capture() {
	snap := m.client.Snapshot()
	if !snap.Connected {
		m.status = "no player connected, timestamp not captured"
		return
	}

	cursor := m.doc.Cursor()
	if err := m.doc.SetTimestamp(cursor, snap.Position); err != nil {
		m.log.Errorw("timestamp capture failed", "cursor", cursor, "error", err)
		m.status = fmt.Sprintf("capture failed: %v", err)
		return
	}
	m.log.Debugw("captured timestamp",
		"line", cursor,
		"position", snap.Position,
	)

	m.status = ""
	if bad := m.doc.OutOfOrder(); len(bad) > 0 {
		m.status = fmt.Sprintf("out-of-order timestamp at line %d", bad[0]+1)
	}

	if cursor < m.doc.Len()-1 {
		m.doc.MoveCursor(1)
	}
}

// removeTimestamp clears the cursor line's tag, or removes the line
// entirely when it is blank.
func (m *Model) removeTimestamp() {
	cursor := m.doc.Cursor()
	line, err := m.doc.Line(cursor)
	if err != nil {
		return
	}
	if line.Text == "" && !line.HasTimestamp {
		if err := m.doc.DeleteAt(cursor); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
		}
		return
	}
	if err := m.doc.ClearTimestamp(cursor); err != nil {
		m.status = fmt.Sprintf("remove failed: %v", err)
	}
}

// jumpToPlayback moves the cursor to the timestamped line closest to
// the current playback position.
func (m *Model) jumpToPlayback() {
	snap := m.client.Snapshot()
	if !snap.Connected {
		m.status = "no player connected"
		return
	}
	i, ok := m.doc.ClosestTo(snap.Position)
	if !ok {
		m.status = "no timestamps to jump to"
		return
	}
	if err := m.doc.SetCursor(i); err == nil {
		m.status = ""
	}
}

func (m *Model) enterEditMode() {
	m.mode = ModeEdit
	m.loadInput()
	m.input.Focus()
}

func (m *Model) loadInput() {
	line, err := m.doc.Line(m.doc.Cursor())
	if err != nil {
		return
	}
	m.input.SetValue(line.Text)
	m.input.CursorEnd()
}

func (m *Model) commitEdit() {
	if err := m.doc.SetText(m.doc.Cursor(), m.input.Value()); err != nil {
		m.log.Errorw("text commit failed", "cursor", m.doc.Cursor(), "error", err)
		m.status = fmt.Sprintf("edit failed: %v", err)
	}
}

func (m *Model) insertLine() {
	if err := m.doc.InsertAfter(m.doc.Cursor()); err != nil {
		m.status = fmt.Sprintf("insert failed: %v", err)
		return
	}
	m.doc.MoveCursor(1)
}

func (m *Model) deleteLine() {
	if err := m.doc.DeleteAt(m.doc.Cursor()); err != nil {
		m.status = fmt.Sprintf("delete failed: %v", err)
	}
}

func (m *Model) yankLine() {
	line, err := m.doc.Line(m.doc.Cursor())
	if err != nil {
		return
	}
	text := line.Text
	if line.HasTimestamp {
		text = lrc.FormatTimestamp(line.Timestamp) + text
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.status = "clipboard unavailable"
		return
	}
	m.status = "line yanked"
}

// save serializes through the codec. A failed write keeps the dirty
// flag so nothing is silently lost; the next 's' retries.
func (m *Model) save() bool {
	if err := lrc.SaveFile(m.doc.Path(), m.doc.Lines()); err != nil {
		m.log.Errorw("save failed", "path", m.doc.Path(), "error", err)
		m.status = fmt.Sprintf("save failed: %v", err)
		return false
	}
	m.doc.ClearDirty()
	m.status = "saved " + m.doc.Path()
	if bad := m.doc.OutOfOrder(); len(bad) > 0 {
		m.status = fmt.Sprintf("saved %s (out-of-order timestamp at line %d)",
			m.doc.Path(), bad[0]+1)
	}
	return true
}

func (m *Model) requestQuit() (tea.Model, tea.Cmd) {
	if m.doc.Dirty() {
		m.confirmQuit = true
		return m, nil
	}
	m.quitting = true
	return m, tea.Quit
}

// Run starts the editor in the alternate screen and blocks until the
// user quits. notice seeds the status line (e.g. a load warning).
// The terminal is restored on every exit path, interrupt included.
func Run(doc *document.Document, client player.Client, interval time.Duration, log *logging.Logger, notice string) error {
	model := New(doc, client, interval, log)
	model.status = notice
	model.snap = client.Snapshot()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("editor terminated abnormally: %w", err)
	}
	return nil
}
