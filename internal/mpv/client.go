package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

var (
	// ErrNotConnected is returned by calls on a closed client.
	ErrNotConnected = errors.New("mpv: not connected")

	// ErrPropertyUnavailable is mpv's answer for properties with no value
	// yet, such as time-pos before a file is loaded.
	ErrPropertyUnavailable = errors.New("mpv: property unavailable")
)

const defaultRequestTimeout = 2 * time.Second

type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

type response struct {
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID *int64          `json:"request_id"`
	Event     string          `json:"event"`
}

// Client speaks mpv's JSON IPC protocol over a unix socket. Calls are
// serialized; events mpv pushes between replies are skipped.
type Client struct {
	mu      sync.Mutex
	conn    net.Conn
	reader  *bufio.Reader
	nextID  int64
	timeout time.Duration
}

// Dial connects to the IPC socket at path.
func Dial(ctx context.Context, path string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("connect to mpv socket %s: %w", path, err)
	}
	return NewClient(conn), nil
}

func NewClient(conn net.Conn) *Client {
	return &Client{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: defaultRequestTimeout,
	}
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Command sends one IPC command and returns the reply's data field.
func (c *Client) Command(args ...any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	c.nextID++
	id := c.nextID

	payload, err := json.Marshal(request{Command: args, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("encode mpv command: %w", err)
	}
	payload = append(payload, '\n')

	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("set mpv deadline: %w", err)
	}
	if _, err := c.conn.Write(payload); err != nil {
		return nil, fmt.Errorf("write mpv command: %w", err)
	}

	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read mpv reply: %w", err)
		}

		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("decode mpv reply: %w", err)
		}
		if resp.Event != "" || resp.RequestID == nil || *resp.RequestID != id {
			continue
		}

		switch resp.Error {
		case "success":
			return resp.Data, nil
		case "property unavailable":
			return nil, ErrPropertyUnavailable
		default:
			return nil, fmt.Errorf("mpv command %v: %s", args[0], resp.Error)
		}
	}
}

func (c *Client) getProperty(name string, out any) error {
	data, err := c.Command("get_property", name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode mpv property %s: %w", name, err)
	}
	return nil
}

func (c *Client) GetPaused() (bool, error) {
	var paused bool
	err := c.getProperty("pause", &paused)
	return paused, err
}

// GetTimePos returns the playback position in seconds.
func (c *Client) GetTimePos() (float64, error) {
	var pos float64
	err := c.getProperty("time-pos", &pos)
	return pos, err
}

func (c *Client) GetDuration() (float64, error) {
	var duration float64
	err := c.getProperty("duration", &duration)
	return duration, err
}

func (c *Client) CyclePause() error {
	_, err := c.Command("cycle", "pause")
	return err
}

// SeekRelative moves playback by seconds; negative values rewind.
func (c *Client) SeekRelative(seconds float64) error {
	_, err := c.Command("seek", seconds, "relative")
	return err
}
