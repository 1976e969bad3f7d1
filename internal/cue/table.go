package cue

// Table is the ordered sequence of cues being timed, plus the row under
// keyboard focus. Row identity is position: there are no stable IDs, and
// numbering is derived at read time.
//
// A Table is not safe for concurrent use. Each editing session owns one and
// mutates it from a single goroutine.
type Table struct {
	rows    []Cue
	current int
}

// NewTable returns a table holding one empty row, which is current.
func NewTable() *Table {
	t := &Table{}
	t.rows = append(t.rows, emptyCue())
	return t
}

func emptyCue() Cue {
	return Cue{Time: Unset()}
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) inBounds(i int) bool {
	return i >= 0 && i < len(t.rows)
}

// CurrentIndex returns the current row, or false when the table is empty.
func (t *Table) CurrentIndex() (int, bool) {
	if len(t.rows) == 0 {
		return 0, false
	}
	return t.current, true
}

// SetCurrent moves the focus to row i. Out-of-range indexes are ignored.
func (t *Table) SetCurrent(i int) {
	if !t.inBounds(i) {
		return
	}
	t.current = i
}

// Read returns row i or a *NotFoundError.
func (t *Table) Read(i int) (Cue, error) {
	if !t.inBounds(i) {
		return Cue{}, &NotFoundError{Index: i, Len: len(t.rows)}
	}
	return t.rows[i], nil
}

// ReadCurrent returns the current row.
func (t *Table) ReadCurrent() (Cue, error) {
	i, ok := t.CurrentIndex()
	if !ok {
		return Cue{}, &NotFoundError{Index: -1, Len: 0}
	}
	return t.Read(i)
}

// SetTextAt overwrites the text of row i. No validation is done on text.
func (t *Table) SetTextAt(i int, text string) {
	if !t.inBounds(i) {
		return
	}
	t.rows[i].Text = text
}

func (t *Table) SetText(text string) {
	t.SetTextAt(t.current, text)
}

// SetTimeAt overwrites the time of row i. NaN (see Unset) clears it.
func (t *Table) SetTimeAt(i int, seconds float64) {
	if !t.inBounds(i) {
		return
	}
	t.rows[i].Time = seconds
}

func (t *Table) SetTime(seconds float64) {
	t.SetTimeAt(t.current, seconds)
}

func (t *Table) ClearTimeAt(i int) {
	t.SetTimeAt(i, Unset())
}

func (t *Table) ClearTime() {
	t.ClearTimeAt(t.current)
}

// InsertAt inserts an empty row at i, shifting the rows at and after i down
// by one, and returns the new row's index. i is clamped to [0, Len()].
// The current pointer follows the row it pointed at before the insert.
func (t *Table) InsertAt(i int) int {
	if i < 0 {
		i = 0
	}
	if i > len(t.rows) {
		i = len(t.rows)
	}

	t.rows = append(t.rows, Cue{})
	copy(t.rows[i+1:], t.rows[i:])
	t.rows[i] = emptyCue()

	if len(t.rows) > 1 && i <= t.current {
		t.current++
	}
	return i
}

// InsertBelowCurrent inserts an empty row below the current one and makes
// it current.
func (t *Table) InsertBelowCurrent() int {
	i := t.InsertAt(t.current + 1)
	t.current = i
	return i
}

// RemoveCurrent deletes the current row. The row that slides into its place
// becomes current, else the row above, else a fresh row is inserted so the
// table is never left empty. Returns the new current index.
func (t *Table) RemoveCurrent() int {
	if len(t.rows) == 0 {
		t.rows = append(t.rows, emptyCue())
		t.current = 0
		return 0
	}

	removed := t.current
	next := removed
	if removed+1 >= len(t.rows) {
		next = removed - 1
	}

	t.rows = append(t.rows[:removed], t.rows[removed+1:]...)

	if next < 0 {
		t.rows = append(t.rows, emptyCue())
		next = 0
	}
	t.current = next
	return next
}

// MoveCurrent moves the focus by delta rows. Moving past either end leaves
// the focus where it was.
func (t *Table) MoveCurrent(delta int) int {
	target := t.current + delta
	if t.inBounds(target) {
		t.current = target
	}
	return t.current
}

// ImportLines writes lines into consecutive rows starting at start. Existing
// rows keep their times and only have their text replaced; rows past the end
// are appended. The current row is left alone.
func (t *Table) ImportLines(lines []string, start int) {
	if start < 0 {
		start = 0
	}
	if start > len(t.rows) {
		start = len(t.rows)
	}
	for i, line := range lines {
		at := start + i
		if !t.inBounds(at) {
			t.InsertAt(at)
		}
		t.rows[at].Text = line
	}
}

// Snapshot copies every row in order with its 1-based number.
func (t *Table) Snapshot() []Row {
	rows := make([]Row, len(t.rows))
	for i, c := range t.rows {
		rows[i] = Row{
			Number: i + 1,
			Time:   c.Time,
			Text:   c.Text,
		}
	}
	return rows
}
