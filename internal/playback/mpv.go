package playback

import (
	"math"

	"github.com/mgpai22/cuetap/internal/logging"
)

// properties the gate needs from an mpv IPC connection
type mpvClient interface {
	GetPaused() (bool, error)
	GetTimePos() (float64, error)
	CyclePause() error
	SeekRelative(seconds float64) error
}

// MPV reads the transport state from a running mpv on every call. IPC
// failures are logged and read as paused with no position, so a lost
// player can never stamp a time onto a cue.
type MPV struct {
	client mpvClient
	logger *logging.Logger
}

func NewMPV(client mpvClient, logger *logging.Logger) *MPV {
	return &MPV{client: client, logger: logger}
}

func (m *MPV) IsPlaying() bool {
	paused, err := m.client.GetPaused()
	if err != nil {
		m.logger.Warnw("Failed to read mpv pause state", "error", err)
		return false
	}
	return !paused
}

func (m *MPV) CurrentTime() float64 {
	pos, err := m.client.GetTimePos()
	if err != nil {
		m.logger.Warnw("Failed to read mpv position", "error", err)
		return math.NaN()
	}
	return pos
}

func (m *MPV) TogglePause() error {
	return m.client.CyclePause()
}

func (m *MPV) SeekBy(seconds float64) error {
	return m.client.SeekRelative(seconds)
}
