package cli

import (
	"fmt"
	"os"

	"github.com/mgpai22/cuetap/internal/cue"
	"github.com/mgpai22/cuetap/internal/editor"
	"github.com/mgpai22/cuetap/internal/subtitle"
)

// loadSRT fills table from an SRT file. Cues whose start was written blank
// stay untimed.
func loadSRT(table *cue.Table, path string) (int, error) {
	file, err := subtitle.ReadSRTFile(path)
	if err != nil {
		return 0, err
	}

	entries := file.Subtitle().Entries
	if len(entries) == 0 {
		return 0, nil
	}

	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = entry.Text
	}
	table.ImportLines(texts, 0)

	for i, entry := range entries {
		if file.Timed(i) {
			table.SetTimeAt(i, entry.StartTime.Seconds())
		}
	}
	table.SetCurrent(0)
	return len(entries), nil
}

// loadLines writes a script file into the table, one line per row, keeping
// any times already there.
func loadLines(table *cue.Table, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read lines file: %w", err)
	}
	if len(data) == 0 {
		return 0, nil
	}

	lines := editor.SplitLines(string(data))
	table.ImportLines(lines, 0)
	return len(lines), nil
}
