package video

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestParseProbe(t *testing.T) {
	raw := `{
		"streams": [
			{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "avg_frame_rate": "30000/1001"},
			{"codec_type": "audio", "codec_name": "aac"}
		],
		"format": {"duration": "12.500000"}
	}`

	info, err := parseProbe("clip.mp4", []byte(raw))
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if info.Duration != 12500*time.Millisecond {
		t.Errorf("duration = %v, want 12.5s", info.Duration)
	}
	if info.Codec != "h264" || info.Width != 1920 || info.Height != 1080 {
		t.Errorf("unexpected video stream: %+v", info)
	}
	if info.FrameRate < 29.97 || info.FrameRate > 29.98 {
		t.Errorf("frame rate = %v", info.FrameRate)
	}
	if !info.HasAudio {
		t.Error("expected HasAudio")
	}
}

func TestParseProbeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "ffprobe: error"},
		{"no streams", `{"streams": [], "format": {"duration": "1.0"}}`},
		{"bad duration", `{"streams": [{"codec_type": "audio"}], "format": {"duration": "abc"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseProbe("x.mp4", []byte(tt.raw)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"25/1", 25},
		{"24", 24},
		{"0/0", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseFrameRate(tt.in); got != tt.want {
			t.Errorf("parseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsMediaFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"movie.MP4", true},
		{"clip.webm", true},
		{"song.mp3", true},
		{"notes.txt", false},
		{"subs.srt", false},
	}
	for _, tt := range tests {
		if got := IsMediaFile(tt.path); got != tt.want {
			t.Errorf("IsMediaFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestGetInfoMissingFile(t *testing.T) {
	_, err := GetInfo(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

// Integration test: only runs if ffprobe is installed
func TestGetInfoRejectsNonMedia(t *testing.T) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not installed; skipping integration test")
	}
	path := filepath.Join(t.TempDir(), "fake.mp4")
	if err := os.WriteFile(path, []byte("not a video"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if _, err := GetInfo(context.Background(), path); err == nil {
		t.Error("expected ffprobe to reject a text file")
	}
}
