package editor

import (
	"strings"

	"github.com/mgpai22/cuetap/internal/cue"
	"github.com/mgpai22/cuetap/internal/logging"
	"github.com/mgpai22/cuetap/internal/playback"
)

// Mode is picked from the player on every event and never stored.
type Mode int

const (
	ModePaused Mode = iota
	ModePlaying
)

func (m Mode) String() string {
	if m == ModePlaying {
		return "playing"
	}
	return "paused"
}

func ModeOf(gate playback.Gate) Mode {
	if gate.IsPlaying() {
		return ModePlaying
	}
	return ModePaused
}

type KeyCode int

const (
	KeyOther KeyCode = iota
	KeyEnter
	KeyArrowUp
	KeyArrowDown
	KeyBackspace
	KeyDelete
)

// Key is a key press reduced to what the transition tables look at.
type Key struct {
	Code  KeyCode
	Shift bool
}

// Outcome tells the render collaborator what a key did.
type Outcome struct {
	// the key was handled and its default action must be suppressed
	Consumed bool
	Mode     Mode
	Current  int
	// navigation moved the focus; put the caret at the end of the new
	// current row's text
	CaretToEnd bool
}

type action struct {
	name     string
	navigate bool
	apply    func(c *Controller)
}

var (
	insertBelow = action{name: "insert_below", apply: func(c *Controller) {
		c.table.InsertBelowCurrent()
	}}
	moveUp = action{name: "move_up", navigate: true, apply: func(c *Controller) {
		c.table.MoveCurrent(-1)
	}}
	moveDown = action{name: "move_down", navigate: true, apply: func(c *Controller) {
		c.table.MoveCurrent(+1)
	}}
	clearTime = action{name: "clear_time", apply: func(c *Controller) {
		c.table.ClearTime()
	}}
	removeRow = action{name: "remove_row", apply: func(c *Controller) {
		c.table.RemoveCurrent()
	}}
	// stamp the current row with the playback position and advance
	captureTime = action{name: "capture_time", navigate: true, apply: func(c *Controller) {
		c.table.SetTime(c.gate.CurrentTime())
		c.table.MoveCurrent(+1)
	}}
)

var pausedTransitions = map[Key]action{
	{Code: KeyEnter}:                  insertBelow,
	{Code: KeyArrowUp}:                moveUp,
	{Code: KeyArrowDown}:              moveDown,
	{Code: KeyBackspace, Shift: true}: clearTime,
	{Code: KeyDelete, Shift: true}:    removeRow,
}

var playingTransitions = map[Key]action{
	{Code: KeyEnter}:     captureTime,
	{Code: KeyArrowUp}:   moveUp,
	{Code: KeyArrowDown}: moveDown,
}

func transitions(mode Mode) map[Key]action {
	if mode == ModePlaying {
		return playingTransitions
	}
	return pausedTransitions
}

// Controller turns key presses into table operations, choosing the
// transition table from the player state at the moment of each press.
type Controller struct {
	table  *cue.Table
	gate   playback.Gate
	logger *logging.Logger
}

func New(table *cue.Table, gate playback.Gate, logger *logging.Logger) *Controller {
	return &Controller{
		table:  table,
		gate:   gate,
		logger: logger,
	}
}

func (c *Controller) Table() *cue.Table {
	return c.table
}

// Handle applies key in the current mode. Keys outside the mode's table
// change nothing and are reported as not consumed, so the front-end lets
// them through to text editing.
func (c *Controller) Handle(key Key) Outcome {
	mode := ModeOf(c.gate)
	out := Outcome{Mode: mode}

	act, ok := transitions(mode)[key]
	if ok {
		before := c.current()
		act.apply(c)
		out.Consumed = true
		out.CaretToEnd = act.navigate
		c.logger.Debugw("Applied key",
			"action", act.name,
			"mode", mode.String(),
			"from", before,
			"to", c.current(),
			"rows", c.table.Len(),
		)
	}

	out.Current = c.current()
	return out
}

func (c *Controller) current() int {
	i, _ := c.table.CurrentIndex()
	return i
}

// Select focuses row i, e.g. after a click. Out-of-range rows are ignored.
func (c *Controller) Select(i int) int {
	c.table.SetCurrent(i)
	return c.current()
}

// EditText replaces the current row's text with what the user typed.
func (c *Controller) EditText(text string) {
	c.table.SetText(text)
}

// Paste writes pasted text into the table one line per row, starting at the
// current row. Existing rows keep their times.
func (c *Controller) Paste(text string) int {
	lines := SplitLines(text)
	c.table.ImportLines(lines, c.current())
	c.logger.Debugw("Imported pasted lines",
		"lines", len(lines),
		"start", c.current(),
	)
	return len(lines)
}

// SplitLines breaks text on newlines, dropping carriage returns and the
// empty line produced by a trailing newline.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
