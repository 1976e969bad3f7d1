package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgpai22/cuetap/internal/cue"
	"github.com/mgpai22/cuetap/internal/editor"
	"github.com/mgpai22/cuetap/internal/export"
	"github.com/mgpai22/cuetap/internal/logging"
	"github.com/mgpai22/cuetap/internal/playback"
	"github.com/mgpai22/cuetap/internal/subtitle"
)

const (
	tickInterval     = 100 * time.Millisecond
	noticeFadeDelay  = 3 * time.Second
	seekStep         = 5.0 // seconds
	chromeLines      = 4 // status bar, column header, notice, help
	numberColumn     = 5
	timeColumn       = 14
	unsetTimeDisplay = "--:--:--,---"
	maxInputLines    = 4
)

type tickMsg struct{}

type noticeFadeMsg struct{ seq int }

// Options configures the terminal editor.
type Options struct {
	Controller *editor.Controller
	Gate       playback.Gate
	// Transport toggles pause; nil disables the pause key.
	Transport playback.Transport
	Writer    *subtitle.SRTWriter
	OutputDir string
	Filename  string
	// VideoPath and Duration are shown in the status bar when set.
	VideoPath string
	Duration  time.Duration
	KeyMap    KeyMap
	Theme     Theme
	Logger    *logging.Logger
}

// Model is the bubbletea model of the terminal editor. The cue table lives
// behind the controller; the model only renders it and keeps the text area
// of the current row in sync with it. A cue may span several lines.
type Model struct {
	opts   Options
	keys   KeyMap
	styles styles
	input  textarea.Model
	help   help.Model

	width  int
	height int
	ready  bool

	// refreshed on every tick for the status bar
	mode     editor.Mode
	position float64

	notice      string
	noticeError bool
	noticeSeq   int

	lastExport string
}

func NewModel(opts Options) Model {
	if opts.Writer == nil {
		opts.Writer = subtitle.NewSRTWriter()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Filename == "" {
		opts.Filename = export.DefaultFilename
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	keys := opts.KeyMap
	if len(keys.Enter.Keys()) == 0 {
		keys = DefaultKeyMap
	}
	theme := opts.Theme
	if theme == (Theme{}) {
		theme = DefaultTheme
	}

	input := textarea.New()
	input.Prompt = ""
	input.Placeholder = "type a line, or paste a script"
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.FocusedStyle.CursorLine = lipgloss.NewStyle()
	input.KeyMap.InsertNewline = keys.NewLine
	input.SetHeight(1)
	input.Focus()

	m := Model{
		opts:   opts,
		keys:   keys,
		styles: newStyles(theme),
		input:  input,
		help:   help.New(),
	}
	m.syncInput(true)
	m.refreshPlayback()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, scheduleTick())
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.input.SetWidth(max(msg.Width-numberColumn-timeColumn-2, 10))
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.refreshPlayback()
		return m, scheduleTick()

	case noticeFadeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.noticeError = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Paste {
		return m.handlePaste(string(msg.Runes))
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Export):
		return m.exportTable()
	case key.Matches(msg, m.keys.TogglePause):
		return m.togglePause()
	case key.Matches(msg, m.keys.SeekBack):
		return m.seek(-seekStep)
	case key.Matches(msg, m.keys.SeekForward):
		return m.seek(seekStep)
	}

	before := m.current()
	out := m.opts.Controller.Handle(m.keys.editorKey(msg))
	if out.Consumed {
		m.mode = out.Mode
		m.syncInput(out.CaretToEnd || out.Current != before)
		return m, nil
	}
	// row chords are inert while playing rather than falling through to
	// the text area's word deletion
	if key.Matches(msg, m.keys.ClearTime, m.keys.RemoveRow) {
		return m, nil
	}

	// everything the controller lets through is text editing
	return m.editText(msg)
}

func (m Model) editText(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	previous := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != previous {
		m.opts.Controller.EditText(m.input.Value())
		m.fitHeight()
	}
	return m, cmd
}

func (m Model) handlePaste(text string) (tea.Model, tea.Cmd) {
	if !strings.ContainsAny(text, "\r\n") {
		return m.editText(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true})
	}

	n := m.opts.Controller.Paste(text)
	m.syncInput(true)
	return m, m.setNotice(fmt.Sprintf("Imported %d lines", n), false)
}

func (m Model) exportTable() (tea.Model, tea.Cmd) {
	artifact := export.Build(m.opts.Writer, m.opts.Controller.Table(), m.opts.Filename)
	path, err := export.Save(m.opts.OutputDir, artifact)
	if err != nil {
		m.opts.Logger.Errorw("Export failed", "dir", m.opts.OutputDir, "error", err)
		return m, m.setNotice(err.Error(), true)
	}
	m.lastExport = path
	m.opts.Logger.Infow("Exported subtitles", "path", path, "cues", artifact.Cues)
	return m, m.setNotice(fmt.Sprintf("Saved %d cues to %s", artifact.Cues, path), false)
}

func (m Model) togglePause() (tea.Model, tea.Cmd) {
	if m.opts.Transport == nil {
		return m, nil
	}
	if err := m.opts.Transport.TogglePause(); err != nil {
		m.opts.Logger.Warnw("Failed to toggle pause", "error", err)
		return m, m.setNotice("toggle pause: "+err.Error(), true)
	}
	m.refreshPlayback()
	return m, nil
}

func (m Model) seek(seconds float64) (tea.Model, tea.Cmd) {
	if m.opts.Transport == nil {
		return m, nil
	}
	if err := m.opts.Transport.SeekBy(seconds); err != nil {
		m.opts.Logger.Warnw("Failed to seek", "offset", seconds, "error", err)
		return m, m.setNotice("seek: "+err.Error(), true)
	}
	m.refreshPlayback()
	return m, nil
}

func (m *Model) setNotice(text string, isError bool) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	m.noticeError = isError
	seq := m.noticeSeq
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{seq: seq}
	})
}

func (m *Model) refreshPlayback() {
	m.mode = editor.ModeOf(m.opts.Gate)
	m.position = m.opts.Gate.CurrentTime()
}

func (m Model) current() int {
	i, _ := m.opts.Controller.Table().CurrentIndex()
	return i
}

// syncInput loads the current row's text into the input. SetValue leaves
// the caret at the end, so an unchanged row is left alone unless asked.
func (m *Model) syncInput(caretToEnd bool) {
	c, err := m.opts.Controller.Table().ReadCurrent()
	if err != nil {
		return
	}
	if !caretToEnd && c.Text == m.input.Value() {
		return
	}
	m.input.SetValue(c.Text)
	m.fitHeight()
}

func (m *Model) fitHeight() {
	m.input.SetHeight(min(max(m.input.LineCount(), 1), maxInputLines))
}

// LastExport returns the path of the most recent successful export.
func (m Model) LastExport() string {
	return m.lastExport
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sb strings.Builder
	sb.WriteString(m.renderStatus())
	sb.WriteString("\n")
	sb.WriteString(m.styles.header.Render(
		fmt.Sprintf("%-*s%-*s%s", numberColumn, "#", timeColumn, "start", "text"),
	))
	sb.WriteString("\n")
	sb.WriteString(m.renderRows())

	if m.notice != "" {
		style := m.styles.faint
		if m.noticeError {
			style = m.styles.err
		}
		sb.WriteString(style.Render(m.notice))
	}
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) renderStatus() string {
	var modeLabel string
	if m.mode == editor.ModePlaying {
		modeLabel = m.styles.playing.Render("▶ PLAYING")
	} else {
		modeLabel = m.styles.paused.Render("⏸ PAUSED")
	}

	position := formatClock(m.position)
	if m.opts.Duration > 0 {
		position += " / " + formatClock(m.opts.Duration.Seconds())
	}

	parts := []string{modeLabel, position, fmt.Sprintf("%d rows", m.opts.Controller.Table().Len())}
	if m.opts.VideoPath != "" {
		parts = append(parts, filepath.Base(m.opts.VideoPath))
	}
	parts = append(parts, "→ "+filepath.Join(m.opts.OutputDir, export.NormalizeFilename(m.opts.Filename)))
	return strings.Join(parts, m.styles.faint.Render("  │  "))
}

// renderRows draws the window of rows around the current one.
func (m Model) renderRows() string {
	rows := m.opts.Controller.Table().Snapshot()
	current := m.current()

	visible := max(m.height-chromeLines-(m.input.Height()-1), 1)
	start := 0
	if len(rows) > visible {
		start = min(max(current-visible/2, 0), len(rows)-visible)
	}
	end := min(start+visible, len(rows))

	var sb strings.Builder
	for i := start; i < end; i++ {
		row := rows[i]
		prefix := fmt.Sprintf("%-*d%-*s", numberColumn, row.Number, timeColumn, displayTime(row.Time))
		if i == current {
			sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
				m.styles.selected.Render(prefix),
				m.input.View(),
			))
		} else {
			sb.WriteString(m.styles.row.Render(prefix + strings.ReplaceAll(row.Text, "\n", " ⏎ ")))
		}
		sb.WriteString("\n")
	}
	for i := end - start; i < visible; i++ {
		sb.WriteString("\n")
	}
	return sb.String()
}

func displayTime(seconds float64) string {
	ts, err := subtitle.FormatTimestamp(seconds)
	if err != nil {
		return unsetTimeDisplay
	}
	return ts
}

// formatClock renders a playback position as H:MM:SS.d.
func formatClock(seconds float64) string {
	if !cue.IsSet(seconds) {
		return "-:--:--.-"
	}
	tenths := int64(seconds * 10)
	return fmt.Sprintf("%d:%02d:%02d.%d",
		tenths/36000,
		tenths/600%60,
		tenths/10%60,
		tenths%10,
	)
}

// Run starts the terminal editor and blocks until the user quits.
func Run(opts Options) (Model, error) {
	program := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return Model{}, fmt.Errorf("run terminal editor: %w", err)
	}
	m, _ := final.(Model)
	return m, nil
}
