package playback

import (
	"sync"
	"time"
)

// Gate reports the transport state of whatever is playing the video. It is
// read on every key event and holds no state of its own.
type Gate interface {
	IsPlaying() bool
	// seconds from the start of the media
	CurrentTime() float64
}

// optional control surface for front-ends that can drive the player
type Transport interface {
	TogglePause() error
	// SeekBy moves playback by a signed number of seconds.
	SeekBy(seconds float64) error
}

// Snapshot is a fixed reading of a player, e.g. the paused flag and
// position reported by a browser together with a key event.
type Snapshot struct {
	Playing  bool
	Position float64
}

func (s Snapshot) IsPlaying() bool {
	return s.Playing
}

func (s Snapshot) CurrentTime() float64 {
	return s.Position
}

// Clock is a stopwatch that stands in for a player when there is no video.
// It starts paused at zero.
type Clock struct {
	mu      sync.Mutex
	now     func() time.Time
	playing bool
	offset  time.Duration
	started time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (c *Clock) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

func (c *Clock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position().Seconds()
}

func (c *Clock) position() time.Duration {
	if !c.playing {
		return c.offset
	}
	return c.offset + c.now().Sub(c.started)
}

func (c *Clock) TogglePause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		c.offset = c.position()
		c.playing = false
		return nil
	}
	c.started = c.now()
	c.playing = true
	return nil
}

func (c *Clock) SeekBy(seconds float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seekLocked(c.position() + time.Duration(seconds*float64(time.Second)))
	return nil
}

// Seek moves the clock to an absolute position, clamped at zero.
func (c *Clock) Seek(position time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seekLocked(position)
}

func (c *Clock) seekLocked(position time.Duration) {
	if position < 0 {
		position = 0
	}
	c.offset = position
	c.started = c.now()
}
