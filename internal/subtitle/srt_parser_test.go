package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mgpai22/cuetap/internal/cue"
)

func TestReadSRTFile(t *testing.T) {
	content := "\ufeff1\r\n" +
		"00:00:01,000 --> 00:00:04,000\r\n" +
		"Hello, world!\r\n" +
		"\r\n" +
		"2\n" +
		"00:00:05,500 --> 00:00:08,200\n" +
		"This is a test.\n" +
		"With multiple lines.\n" +
		"\n" +
		"3\n" +
		"00:00:10,000 --> 00:00:12,500\n" +
		"Final subtitle.\n"

	tmpDir := t.TempDir()
	srtPath := filepath.Join(tmpDir, "test.srt")
	if err := os.WriteFile(srtPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	file, err := ReadSRTFile(srtPath)
	if err != nil {
		t.Fatalf("failed to open SRT file: %v", err)
	}

	if file.Format() != FormatSRT {
		t.Errorf("expected format SRT, got %s", file.Format())
	}

	sub := file.Subtitle()
	if len(sub.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(sub.Entries))
	}

	if sub.Entries[0].Index != 1 {
		t.Errorf("entry 0: expected index 1, got %d", sub.Entries[0].Index)
	}
	if sub.Entries[0].StartTime != 1*time.Second {
		t.Errorf("entry 0: expected start 1s, got %v", sub.Entries[0].StartTime)
	}
	if sub.Entries[0].EndTime != 4*time.Second {
		t.Errorf("entry 0: expected end 4s, got %v", sub.Entries[0].EndTime)
	}
	if sub.Entries[0].Text != "Hello, world!" {
		t.Errorf("entry 0: expected 'Hello, world!', got %q", sub.Entries[0].Text)
	}

	expectedText := "This is a test.\nWith multiple lines."
	if sub.Entries[1].Text != expectedText {
		t.Errorf("entry 1: expected %q, got %q", expectedText, sub.Entries[1].Text)
	}
	for i := range sub.Entries {
		if !file.Timed(i) {
			t.Errorf("entry %d should be timed", i)
		}
	}
}

func TestParseSRTReadsBackSerializedTable(t *testing.T) {
	table := cue.NewTable()
	table.ImportLines([]string{"one", "", "three"}, 0)
	table.SetTimeAt(0, 0.5)
	table.SetTimeAt(2, 4.25)

	out := NewSRTWriter().Serialize(table.Snapshot())
	file, err := ParseSRT(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}

	entries := file.Subtitle().Entries
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %q", len(entries), out)
	}
	if entries[0].StartTime != 500*time.Millisecond || !file.Timed(0) {
		t.Errorf("entry 0: start %v timed %v", entries[0].StartTime, file.Timed(0))
	}
	if file.Timed(1) {
		t.Error("entry 1 was never timed")
	}
	if entries[1].Text != "" {
		t.Errorf("entry 1 text = %q", entries[1].Text)
	}
	if entries[2].StartTime != 4250*time.Millisecond || entries[2].Text != "three" {
		t.Errorf("entry 2: %+v", entries[2])
	}
}

func TestParseSRTErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing number", "hello\n00:00:01,000 --> 00:00:02,000\n"},
		{"bad timestamp", "1\n00:00:1,000 --> 00:00:02,000\nx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSRT(strings.NewReader(tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
