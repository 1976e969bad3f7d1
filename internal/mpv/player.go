package mpv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/mgpai22/cuetap/internal/logging"
)

const socketPollInterval = 50 * time.Millisecond

// holds options for spawning mpv
type PlayerOptions struct {
	BinaryPath  string // empty resolves via Locate
	SocketDir   string // where IPC sockets are created; empty uses os.TempDir
	StartPaused bool
	// how long to wait for the IPC socket to accept connections
	StartTimeout time.Duration
}

// Player owns one mpv process and its IPC connection. Load replaces both;
// the previous process and socket are released before the next is started.
type Player struct {
	opts   PlayerOptions
	logger *logging.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	client  *Client
	socket  string
	video   string
	exited  chan struct{}
	loadSeq int
}

func NewPlayer(opts PlayerOptions, logger *logging.Logger) *Player {
	if opts.StartTimeout <= 0 {
		opts.StartTimeout = 5 * time.Second
	}
	return &Player{opts: opts, logger: logger}
}

// Load starts mpv on videoPath and connects to it.
func (p *Player) Load(ctx context.Context, videoPath string) (*Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.releaseLocked()

	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	binary, err := Locate(p.opts.BinaryPath)
	if err != nil {
		return nil, err
	}

	socketDir := p.opts.SocketDir
	if socketDir == "" {
		socketDir = os.TempDir()
	}
	if err := os.MkdirAll(socketDir, 0o755); err != nil {
		return nil, fmt.Errorf("create mpv socket dir: %w", err)
	}
	p.loadSeq++
	socket := filepath.Join(
		socketDir,
		"cuetap-mpv-"+strconv.Itoa(os.Getpid())+"-"+strconv.Itoa(p.loadSeq)+".sock",
	)
	_ = os.Remove(socket)

	args := []string{
		"--input-ipc-server=" + socket,
		"--keep-open=yes",
		"--force-window=yes",
		"--osd-fractions",
	}
	if p.opts.StartPaused {
		args = append(args, "--pause")
	}
	args = append(args, "--", videoPath)

	cmd := exec.Command(binary, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	p.logger.Infow("Started mpv",
		"binary", binary,
		"video", videoPath,
		"socket", socket,
		"pid", cmd.Process.Pid,
	)

	client, err := waitForSocket(ctx, socket, exited, p.opts.StartTimeout)
	if err != nil {
		_ = cmd.Process.Kill()
		<-exited
		_ = os.Remove(socket)
		return nil, err
	}

	p.cmd = cmd
	p.client = client
	p.socket = socket
	p.video = videoPath
	p.exited = exited
	return client, nil
}

func waitForSocket(
	ctx context.Context,
	socket string,
	exited <-chan struct{},
	timeout time.Duration,
) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(socketPollInterval)
	defer ticker.Stop()

	for {
		client, err := Dial(ctx, socket)
		if err == nil {
			return client, nil
		}

		select {
		case <-exited:
			return nil, errors.New("mpv exited before its IPC socket was ready")
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for mpv IPC socket: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Client returns the connection to the running mpv, or nil.
func (p *Player) Client() *Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client
}

func (p *Player) Video() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.video
}

// Close stops mpv and removes its socket.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
	return nil
}

func (p *Player) releaseLocked() {
	if p.client != nil {
		// ask politely first so mpv can restore the terminal
		_, _ = p.client.Command("quit")
		_ = p.client.Close()
		p.client = nil
	}
	if p.cmd != nil {
		select {
		case <-p.exited:
		case <-time.After(time.Second):
			_ = p.cmd.Process.Kill()
			<-p.exited
		}
		p.logger.Debugw("Stopped mpv", "video", p.video)
		p.cmd = nil
	}
	if p.socket != "" {
		_ = os.Remove(p.socket)
		p.socket = ""
	}
	p.video = ""
}
