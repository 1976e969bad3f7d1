package subtitle

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/mgpai22/cuetap/internal/cue"
)

const truncateEpsilon = 1e-6

var (
	// ErrInvalidTime marks a seconds value that cannot become a timestamp.
	ErrInvalidTime = errors.New("invalid time")

	blankLines = regexp.MustCompile(`\n[ \t]*\n+`)
)

// FormatError is returned when a cue time cannot be formatted. The
// serializer recovers from it by leaving the field blank.
type FormatError struct {
	Seconds float64
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format timestamp %v: %v", e.Seconds, ErrInvalidTime)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidTime
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm, truncated to the
// millisecond. The value is a duration from zero: hours keep counting past
// 24. Unset, infinite and negative values are a *FormatError.
func FormatTimestamp(seconds float64) (string, error) {
	if !cue.IsSet(seconds) {
		return "", &FormatError{Seconds: seconds}
	}
	// the epsilon absorbs float error such as 2.3*1000 = 2299.9999999999995
	millis := math.Floor(seconds*1000 + truncateEpsilon)
	if millis > math.MaxInt64/float64(time.Millisecond) {
		return "", &FormatError{Seconds: seconds}
	}
	return formatSRTTime(time.Duration(millis) * time.Millisecond), nil
}

func formatSRTTime(d time.Duration) string {
	hours := int64(d / time.Hour)
	minutes := int64(d/time.Minute) % 60
	seconds := int64(d/time.Second) % 60
	millis := int64(d/time.Millisecond) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// SubRip serializer for a cue table snapshot
type SRTWriter struct {
	// how long the last cue stays on screen
	FinalCueDuration time.Duration
}

func NewSRTWriter() *SRTWriter {
	return &SRTWriter{FinalCueDuration: DefaultFinalCueDuration}
}

// Serialize turns rows into SRT text. Each cue ends where the next one
// starts; the last one lasts FinalCueDuration. A time that cannot be
// formatted is written as an empty field instead of failing the export.
func (w *SRTWriter) Serialize(rows []cue.Row) string {
	final := w.FinalCueDuration
	if final <= 0 {
		final = DefaultFinalCueDuration
	}

	var sb strings.Builder
	for i, row := range rows {
		start := row.Time
		end := start + final.Seconds()
		if i+1 < len(rows) {
			end = rows[i+1].Time
		}

		// number (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", row.Number))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			timestampOrBlank(start),
			timestampOrBlank(end)))

		// text
		sb.WriteString(legalText(row.Text))
		sb.WriteString("\n\n")
	}

	return sb.String()
}

func timestampOrBlank(seconds float64) string {
	ts, err := FormatTimestamp(seconds)
	if err != nil {
		return ""
	}
	return ts
}

// a blank line ends an SRT block, so it may not appear inside a cue
func legalText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.Trim(text, "\n")
	return blankLines.ReplaceAllString(text, "\n")
}
