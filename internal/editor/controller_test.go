package editor

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mgpai22/cuetap/internal/cue"
	"github.com/mgpai22/cuetap/internal/logging"
	"github.com/mgpai22/cuetap/internal/playback"
)

// switchableGate lets a test flip between paused and playing between keys.
type switchableGate struct {
	playing bool
	pos     float64
}

func (g *switchableGate) IsPlaying() bool      { return g.playing }
func (g *switchableGate) CurrentTime() float64 { return g.pos }

func newController(lines ...string) (*Controller, *switchableGate) {
	table := cue.NewTable()
	if len(lines) > 0 {
		table.ImportLines(lines, 0)
	}
	gate := &switchableGate{}
	return New(table, gate, logging.Nop()), gate
}

func currentOf(t *testing.T, c *Controller) int {
	t.Helper()
	i, ok := c.Table().CurrentIndex()
	if !ok {
		t.Fatal("table has no current row")
	}
	return i
}

var (
	enter          = Key{Code: KeyEnter}
	up             = Key{Code: KeyArrowUp}
	down           = Key{Code: KeyArrowDown}
	shiftBackspace = Key{Code: KeyBackspace, Shift: true}
	shiftDelete    = Key{Code: KeyDelete, Shift: true}
)

func TestPausedEnterInsertsBelow(t *testing.T) {
	c, _ := newController("a", "b")

	out := c.Handle(enter)
	if !out.Consumed {
		t.Error("enter should be consumed in paused mode")
	}
	if out.Mode != ModePaused {
		t.Errorf("mode = %v, want paused", out.Mode)
	}
	if c.Table().Len() != 3 {
		t.Errorf("expected 3 rows, got %d", c.Table().Len())
	}
	if out.Current != 1 || currentOf(t, c) != 1 {
		t.Errorf("current = %d, want 1", out.Current)
	}
	if out.CaretToEnd {
		t.Error("insert is not navigation")
	}
}

func TestPausedNavigation(t *testing.T) {
	c, _ := newController("a", "b")

	out := c.Handle(down)
	if !out.Consumed || out.Current != 1 || !out.CaretToEnd {
		t.Errorf("down: %+v", out)
	}
	out = c.Handle(down)
	if !out.Consumed || out.Current != 1 {
		t.Errorf("down at bottom should stay at 1: %+v", out)
	}
	out = c.Handle(up)
	if out.Current != 0 {
		t.Errorf("up: %+v", out)
	}
	out = c.Handle(up)
	if !out.Consumed || out.Current != 0 {
		t.Errorf("up at top should be a consumed no-op: %+v", out)
	}
}

func TestPausedShiftBackspaceClearsTime(t *testing.T) {
	c, _ := newController("a")
	c.Table().SetTime(3)

	out := c.Handle(shiftBackspace)
	if !out.Consumed {
		t.Error("shift+backspace should be consumed")
	}
	row, _ := c.Table().ReadCurrent()
	if cue.IsSet(row.Time) {
		t.Errorf("time should be cleared, got %v", row.Time)
	}
}

func TestPausedShiftDeleteRemovesRow(t *testing.T) {
	c, _ := newController("a", "b", "c")
	c.Select(2)

	out := c.Handle(shiftDelete)
	if !out.Consumed || out.Current != 1 {
		t.Errorf("shift+delete: %+v", out)
	}
	if c.Table().Len() != 2 {
		t.Errorf("expected 2 rows, got %d", c.Table().Len())
	}
}

func TestUnshiftedEditingKeysPassThrough(t *testing.T) {
	c, _ := newController("a")
	c.Table().SetTime(1)

	for _, key := range []Key{
		{Code: KeyBackspace},
		{Code: KeyDelete},
		{Code: KeyOther},
		{Code: KeyOther, Shift: true},
		{Code: KeyEnter, Shift: true},
	} {
		out := c.Handle(key)
		if out.Consumed {
			t.Errorf("%+v should not be consumed", key)
		}
	}
	row, _ := c.Table().ReadCurrent()
	if row.Time != 1 || row.Text != "a" || c.Table().Len() != 1 {
		t.Errorf("pass-through keys changed the table: %+v", row)
	}
}

func TestPlayingEnterCapturesTimeAndAdvances(t *testing.T) {
	c, gate := newController("one", "two", "three")
	gate.playing = true

	gate.pos = 1.5
	out := c.Handle(enter)
	if !out.Consumed || out.Mode != ModePlaying || !out.CaretToEnd {
		t.Errorf("enter while playing: %+v", out)
	}
	gate.pos = 4
	c.Handle(enter)

	rows := c.Table().Snapshot()
	if rows[0].Time != 1.5 || rows[1].Time != 4 {
		t.Errorf("captured times = %v, %v", rows[0].Time, rows[1].Time)
	}
	if currentOf(t, c) != 2 {
		t.Errorf("current = %d, want 2", currentOf(t, c))
	}
	if c.Table().Len() != 3 {
		t.Errorf("capture must not insert rows, got %d", c.Table().Len())
	}

	// capture on the last row stamps it and stays put
	gate.pos = 9
	out = c.Handle(enter)
	if out.Current != 2 {
		t.Errorf("current = %d, want 2", out.Current)
	}
	row, _ := c.Table().Read(2)
	if row.Time != 9 {
		t.Errorf("last row time = %v, want 9", row.Time)
	}
}

func TestPlayingIgnoresPausedOnlyKeys(t *testing.T) {
	c, gate := newController("a", "b")
	c.Table().SetTime(2)
	gate.playing = true

	for _, key := range []Key{shiftBackspace, shiftDelete} {
		if out := c.Handle(key); out.Consumed {
			t.Errorf("%+v should not be consumed while playing", key)
		}
	}
	if c.Table().Len() != 2 {
		t.Errorf("rows changed: %d", c.Table().Len())
	}
	row, _ := c.Table().ReadCurrent()
	if row.Time != 2 {
		t.Errorf("time changed: %v", row.Time)
	}
}

func TestModeIsReadPerKey(t *testing.T) {
	c, gate := newController("a", "b")

	gate.playing = true
	gate.pos = 0.5
	c.Handle(enter)

	gate.playing = false
	c.Handle(enter)

	rows := c.Table().Snapshot()
	if len(rows) != 3 {
		t.Fatalf("expected paused enter to insert, got %d rows", len(rows))
	}
	if rows[0].Time != 0.5 {
		t.Errorf("row 0 time = %v", rows[0].Time)
	}
	if currentOf(t, c) != 2 {
		t.Errorf("current = %d, want 2", currentOf(t, c))
	}
}

func TestSnapshotGate(t *testing.T) {
	table := cue.NewTable()
	table.ImportLines([]string{"x", "y"}, 0)
	c := New(table, playback.Snapshot{Playing: true, Position: 3}, logging.Nop())

	c.Handle(enter)
	row, _ := table.Read(0)
	if row.Time != 3 {
		t.Errorf("time = %v, want 3", row.Time)
	}
}

func TestSelectAndEditText(t *testing.T) {
	c, _ := newController("a", "b")

	if got := c.Select(1); got != 1 {
		t.Errorf("Select(1) = %d", got)
	}
	if got := c.Select(7); got != 1 {
		t.Errorf("Select(7) should be ignored, got %d", got)
	}
	c.EditText("bee")
	row, _ := c.Table().Read(1)
	if row.Text != "bee" {
		t.Errorf("text = %q, want bee", row.Text)
	}
}

func TestPaste(t *testing.T) {
	c, _ := newController("keep", "old")
	c.Table().SetTimeAt(1, 2)
	c.Select(1)

	n := c.Paste("first\r\nsecond\nthird\n")
	if n != 3 {
		t.Errorf("Paste returned %d, want 3", n)
	}

	var got []string
	for _, row := range c.Table().Snapshot() {
		got = append(got, row.Text)
	}
	want := []string{"keep", "first", "second", "third"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	row, _ := c.Table().Read(1)
	if row.Time != 2 {
		t.Errorf("pasted-over row lost its time: %v", row.Time)
	}
	if currentOf(t, c) != 1 {
		t.Errorf("current moved to %d", currentOf(t, c))
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a", []string{"a"}},
		{"a\nb", []string{"a", "b"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitLines(tt.in)); diff != "" {
			t.Errorf("SplitLines(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}
