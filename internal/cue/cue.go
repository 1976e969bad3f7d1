package cue

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotFound is matched by every NotFoundError via errors.Is.
var ErrNotFound = errors.New("cue not found")

// one row of the table; Time is seconds from the start of the video
type Cue struct {
	Time float64
	Text string
}

// read-only view of a row, Number is index+1 at the time of the snapshot
type Row struct {
	Number int
	Time   float64
	Text   string
}

// Unset returns the sentinel stored in Cue.Time when no time has been set.
func Unset() float64 {
	return math.NaN()
}

// IsSet reports whether t is a usable seconds offset.
func IsSet(t float64) bool {
	return !math.IsNaN(t) && !math.IsInf(t, 0) && t >= 0
}

// NotFoundError is returned by reads against a row that does not exist.
type NotFoundError struct {
	Index int
	Len   int
}

func (e *NotFoundError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("cue %d not found: table is empty", e.Index)
	}
	return fmt.Sprintf(
		"cue %d not found: index out of range (0-%d)",
		e.Index,
		e.Len-1,
	)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
