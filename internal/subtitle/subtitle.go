package subtitle

import (
	"time"
)

// represents single subtitle entry as read back from an SRT file
type Entry struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// represents complete subtitle track
type Subtitle struct {
	Entries []Entry
}

// SRT is the only format cuetap reads or writes.
type Format string

const FormatSRT Format = "srt"

// DefaultFinalCueDuration is how long the last cue stays up, since it has no
// successor to end it.
const DefaultFinalCueDuration = 5 * time.Second

// file extension for a format
func GetExtensionForFormat(format Format) string {
	return "." + string(format)
}
