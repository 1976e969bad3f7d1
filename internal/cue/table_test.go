package cue

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func texts(t *Table) []string {
	var out []string
	for _, row := range t.Snapshot() {
		out = append(out, row.Text)
	}
	return out
}

func mustCurrent(t *testing.T, table *Table) int {
	t.Helper()
	i, ok := table.CurrentIndex()
	if !ok {
		t.Fatal("CurrentIndex reported an empty table")
	}
	if i < 0 || i >= table.Len() {
		t.Fatalf("current index %d out of range (len %d)", i, table.Len())
	}
	return i
}

func TestNewTable(t *testing.T) {
	table := NewTable()
	if table.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", table.Len())
	}
	if got := mustCurrent(t, table); got != 0 {
		t.Errorf("expected current 0, got %d", got)
	}
	c, err := table.ReadCurrent()
	if err != nil {
		t.Fatalf("ReadCurrent: %v", err)
	}
	if IsSet(c.Time) || c.Text != "" {
		t.Errorf("expected fresh row, got %+v", c)
	}
}

func TestReadOutOfRange(t *testing.T) {
	table := NewTable()

	for _, index := range []int{-1, 1, 42} {
		_, err := table.Read(index)
		if err == nil {
			t.Fatalf("Read(%d): expected error", index)
		}
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("Read(%d): expected *NotFoundError, got %T", index, err)
		}
		if notFound.Index != index {
			t.Errorf("NotFoundError.Index = %d, want %d", notFound.Index, index)
		}
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Read(%d): error should match ErrNotFound", index)
		}
	}
}

func TestSetCurrentIgnoresOutOfRange(t *testing.T) {
	table := NewTable()
	table.InsertBelowCurrent()
	table.SetCurrent(0)

	table.SetCurrent(5)
	table.SetCurrent(-1)
	if got := mustCurrent(t, table); got != 0 {
		t.Errorf("expected current to stay 0, got %d", got)
	}

	table.SetCurrent(1)
	if got := mustCurrent(t, table); got != 1 {
		t.Errorf("expected current 1, got %d", got)
	}
}

func TestSetAndClearTime(t *testing.T) {
	table := NewTable()
	table.SetTime(1.25)
	c, _ := table.ReadCurrent()
	if c.Time != 1.25 {
		t.Errorf("expected time 1.25, got %v", c.Time)
	}

	table.ClearTime()
	c, _ = table.ReadCurrent()
	if IsSet(c.Time) {
		t.Errorf("expected unset time, got %v", c.Time)
	}

	table.SetTime(math.NaN())
	c, _ = table.ReadCurrent()
	if IsSet(c.Time) {
		t.Errorf("NaN should read back as unset, got %v", c.Time)
	}

	// out of range writes are no-ops
	table.SetTimeAt(3, 9)
	table.SetTextAt(-2, "nope")
	if table.Len() != 1 {
		t.Errorf("expected 1 row, got %d", table.Len())
	}
}

func TestInsertBelowCurrent(t *testing.T) {
	table := NewTable()
	table.SetText("first")

	for want := 1; want <= 3; want++ {
		before := table.Len()
		old := mustCurrent(t, table)
		got := table.InsertBelowCurrent()
		if table.Len() != before+1 {
			t.Fatalf("expected %d rows, got %d", before+1, table.Len())
		}
		if got != old+1 {
			t.Errorf("InsertBelowCurrent returned %d, want %d", got, old+1)
		}
		if cur := mustCurrent(t, table); cur != got {
			t.Errorf("current = %d, want %d", cur, got)
		}
	}

	// insert in the middle keeps rows below it
	table.SetCurrent(0)
	table.InsertBelowCurrent()
	table.SetText("second")
	want := []string{"first", "second", "", "", ""}
	if diff := cmp.Diff(want, texts(table)); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertAtShiftsCurrent(t *testing.T) {
	table := NewTable()
	table.ImportLines([]string{"a", "b", "c"}, 0)
	table.SetCurrent(1)

	if got := table.InsertAt(0); got != 0 {
		t.Errorf("InsertAt(0) = %d, want 0", got)
	}
	if cur := mustCurrent(t, table); cur != 2 {
		t.Errorf("current should follow row b to 2, got %d", cur)
	}
	c, _ := table.ReadCurrent()
	if c.Text != "b" {
		t.Errorf("current text = %q, want b", c.Text)
	}

	// clamped past the end
	if got := table.InsertAt(99); got != table.Len()-1 {
		t.Errorf("InsertAt(99) = %d, want %d", got, table.Len()-1)
	}
	if cur := mustCurrent(t, table); cur != 2 {
		t.Errorf("insert below current should not move it, got %d", cur)
	}
}

func TestRemoveCurrent(t *testing.T) {
	tests := []struct {
		name        string
		lines       []string
		current     int
		wantCurrent int
		wantTexts   []string
	}{
		{
			name:        "middle row selects row below",
			lines:       []string{"a", "b", "c"},
			current:     1,
			wantCurrent: 1,
			wantTexts:   []string{"a", "c"},
		},
		{
			name:        "first row selects row below",
			lines:       []string{"a", "b", "c"},
			current:     0,
			wantCurrent: 0,
			wantTexts:   []string{"b", "c"},
		},
		{
			name:        "last row selects row above",
			lines:       []string{"a", "b", "c"},
			current:     2,
			wantCurrent: 1,
			wantTexts:   []string{"a", "b"},
		},
		{
			name:        "only row is replaced by a fresh row",
			lines:       []string{"only"},
			current:     0,
			wantCurrent: 0,
			wantTexts:   []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable()
			table.ImportLines(tt.lines, 0)
			for i := range tt.lines {
				table.SetTimeAt(i, float64(i))
			}
			table.SetCurrent(tt.current)

			got := table.RemoveCurrent()
			if got != tt.wantCurrent {
				t.Errorf("RemoveCurrent() = %d, want %d", got, tt.wantCurrent)
			}
			if cur := mustCurrent(t, table); cur != tt.wantCurrent {
				t.Errorf("current = %d, want %d", cur, tt.wantCurrent)
			}
			if diff := cmp.Diff(tt.wantTexts, texts(table)); diff != "" {
				t.Errorf("texts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRemoveCurrentSingleRowClearsTime(t *testing.T) {
	table := NewTable()
	table.SetText("gone")
	table.SetTime(12)

	table.RemoveCurrent()

	if table.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", table.Len())
	}
	c, err := table.ReadCurrent()
	if err != nil {
		t.Fatalf("ReadCurrent: %v", err)
	}
	if c.Text != "" || IsSet(c.Time) {
		t.Errorf("expected fresh row, got %+v", c)
	}
}

func TestMoveCurrentBoundaries(t *testing.T) {
	table := NewTable()
	table.ImportLines([]string{"a", "b"}, 0)
	before := table.Snapshot()

	if got := table.MoveCurrent(-1); got != 0 {
		t.Errorf("MoveCurrent(-1) at top = %d, want 0", got)
	}
	if got := table.MoveCurrent(+1); got != 1 {
		t.Errorf("MoveCurrent(+1) = %d, want 1", got)
	}
	if got := table.MoveCurrent(+1); got != 1 {
		t.Errorf("MoveCurrent(+1) at bottom = %d, want 1", got)
	}
	if diff := cmp.Diff(before, table.Snapshot(), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("navigation changed rows (-before +after):\n%s", diff)
	}
}

func TestImportLines(t *testing.T) {
	table := NewTable()
	table.ImportLines([]string{"a", "b", "c"}, 0)

	if diff := cmp.Diff([]string{"a", "b", "c"}, texts(table)); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	for _, row := range table.Snapshot() {
		if IsSet(row.Time) {
			t.Errorf("row %d: expected unset time, got %v", row.Number, row.Time)
		}
	}
	if cur := mustCurrent(t, table); cur != 0 {
		t.Errorf("import should not move current, got %d", cur)
	}
}

func TestImportLinesOverwritesInPlace(t *testing.T) {
	table := NewTable()
	table.ImportLines([]string{"a", "b"}, 0)
	table.SetTimeAt(1, 3.5)
	table.SetCurrent(1)

	table.ImportLines([]string{"x", "y", "z"}, 1)

	if diff := cmp.Diff([]string{"a", "x", "y", "z"}, texts(table)); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	c, _ := table.Read(1)
	if c.Time != 3.5 {
		t.Errorf("overwritten row should keep its time, got %v", c.Time)
	}
	if cur := mustCurrent(t, table); cur != 1 {
		t.Errorf("current should stay at paste start, got %d", cur)
	}
}

func TestSnapshotIsStableAndDetached(t *testing.T) {
	table := NewTable()
	table.ImportLines([]string{"a", "b"}, 0)
	table.SetTimeAt(0, 1)

	first := table.Snapshot()
	second := table.Snapshot()
	if diff := cmp.Diff(first, second, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("snapshots differ (-first +second):\n%s", diff)
	}
	if first[0].Number != 1 || first[1].Number != 2 {
		t.Errorf("unexpected numbering: %+v", first)
	}

	first[0].Text = "mutated"
	c, _ := table.Read(0)
	if c.Text != "a" {
		t.Errorf("snapshot mutation leaked into table: %q", c.Text)
	}
}

func TestNumbersFollowPosition(t *testing.T) {
	table := NewTable()
	table.ImportLines([]string{"a", "b", "c"}, 0)
	table.SetCurrent(0)
	table.RemoveCurrent()

	rows := table.Snapshot()
	for i, row := range rows {
		if row.Number != i+1 {
			t.Errorf("row %d has number %d", i, row.Number)
		}
	}
}
