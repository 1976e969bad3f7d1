package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timestampRegex = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2}),(\d{3})$`)

// SRTFile is a parsed SRT document. Entries whose timing line had a blank
// start (cuetap writes those for cues that were never timed) are listed in
// Untimed.
type SRTFile struct {
	entries []Entry
	untimed map[int]bool
}

// ReadSRTFile parses the SRT file at path.
func ReadSRTFile(path string) (*SRTFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SRT file: %w", err)
	}
	defer file.Close()

	return ParseSRT(file)
}

// ParseSRT reads numbered blocks of "start --> end" plus text lines.
func ParseSRT(r io.Reader) (*SRTFile, error) {
	f := &SRTFile{untimed: make(map[int]bool)}
	scanner := bufio.NewScanner(r)

	var currentEntry *Entry
	var textLines []string
	timed := false
	lineNum := 0

	flush := func() {
		if currentEntry == nil {
			return
		}
		currentEntry.Text = strings.Join(textLines, "\n")
		if !timed {
			f.untimed[len(f.entries)] = true
		}
		f.entries = append(f.entries, *currentEntry)
		currentEntry = nil
		textLines = nil
		timed = false
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if currentEntry == nil {
			index, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				return nil, fmt.Errorf(
					"expected cue number at line %d, got %q",
					lineNum,
					line,
				)
			}
			currentEntry = &Entry{Index: index}
			continue
		}

		if len(textLines) == 0 && !timed && strings.Contains(line, "-->") {
			start, end, hasStart, err := parseTimingLine(line)
			if err != nil {
				return nil, fmt.Errorf("invalid timing at line %d: %w", lineNum, err)
			}
			currentEntry.StartTime = start
			currentEntry.EndTime = end
			timed = hasStart
			continue
		}

		textLines = append(textLines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT file: %w", err)
	}

	return f, nil
}

func parseTimingLine(line string) (start, end time.Duration, hasStart bool, err error) {
	left, right, _ := strings.Cut(line, "-->")
	left = strings.TrimSpace(left)
	right = strings.TrimSpace(right)

	if left != "" {
		start, err = parseSRTTimestamp(left)
		if err != nil {
			return 0, 0, false, err
		}
		hasStart = true
	}
	if right != "" {
		end, err = parseSRTTimestamp(right)
		if err != nil {
			return 0, 0, false, err
		}
	}
	return start, end, hasStart, nil
}

func parseSRTTimestamp(ts string) (time.Duration, error) {
	matches := timestampRegex.FindStringSubmatch(ts)
	if len(matches) != 5 {
		return 0, fmt.Errorf("malformed timestamp %q", ts)
	}

	var parts [4]int
	for i := range parts {
		n, err := strconv.Atoi(matches[i+1])
		if err != nil {
			return 0, err
		}
		parts[i] = n
	}

	return time.Duration(parts[0])*time.Hour +
		time.Duration(parts[1])*time.Minute +
		time.Duration(parts[2])*time.Second +
		time.Duration(parts[3])*time.Millisecond, nil
}

func (f *SRTFile) Format() Format {
	return FormatSRT
}

func (f *SRTFile) Subtitle() *Subtitle {
	return &Subtitle{Entries: f.entries}
}

// Timed reports whether entry i carried a start time.
func (f *SRTFile) Timed(i int) bool {
	return i >= 0 && i < len(f.entries) && !f.untimed[i]
}
