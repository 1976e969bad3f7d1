package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/cuetap/internal/cue"
	"github.com/mgpai22/cuetap/internal/subtitle"
)

// DefaultFilename is used when the user leaves the name blank.
const DefaultFilename = "a.srt"

// Artifact is one serialized export, taken from a single table snapshot.
type Artifact struct {
	Filename string
	Data     []byte
	Cues     int
}

// Build snapshots table and serializes it.
func Build(writer *subtitle.SRTWriter, table *cue.Table, filename string) Artifact {
	rows := table.Snapshot()
	return Artifact{
		Filename: NormalizeFilename(filename),
		Data:     []byte(writer.Serialize(rows)),
		Cues:     len(rows),
	}
}

// NormalizeFilename strips directories from a user-supplied name and falls
// back to DefaultFilename.
func NormalizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return DefaultFilename
	}
	return name
}

// Save writes the artifact into dir through a temp file and rename, so a
// crash never leaves a half-written subtitle file behind.
func Save(dir string, artifact Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cuetap-*.srt")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(artifact.Data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write subtitles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close subtitles: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return "", fmt.Errorf("chmod subtitles: %w", err)
	}

	dest := filepath.Join(dir, NormalizeFilename(artifact.Filename))
	if err := os.Rename(tmpPath, dest); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}
