package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mgpai22/cuetap/internal/export"
	"github.com/mgpai22/cuetap/internal/logging"
	"github.com/mgpai22/cuetap/internal/subtitle"
)

//go:embed all:static
var staticFiles embed.FS

const (
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	maxMessageBytes = 4 << 20 // room for a pasted script
)

type ServerOptions struct {
	Addr             string
	FinalCueDuration time.Duration
	// prefilled in the page's filename box
	DefaultFilename  string
	Logger           *logging.Logger
}

// Server serves the browser editor: the page itself, one websocket session
// per open page, and the session exports.
type Server struct {
	opts      ServerOptions
	writer    *subtitle.SRTWriter
	downloads *Downloads
	upgrader  websocket.Upgrader
	logger    *logging.Logger
	mux       *http.ServeMux
}

func NewServer(opts ServerOptions) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	opts.DefaultFilename = export.NormalizeFilename(opts.DefaultFilename)
	writer := subtitle.NewSRTWriter()
	if opts.FinalCueDuration > 0 {
		writer.FinalCueDuration = opts.FinalCueDuration
	}

	s := &Server{
		opts:      opts,
		writer:    writer,
		downloads: NewDownloads(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger: opts.Logger,
		mux:    http.NewServeMux(),
	}

	staticFS, _ := fs.Sub(staticFiles, "static")
	s.mux.Handle("GET /", http.FileServer(http.FS(staticFS)))
	s.mux.HandleFunc("GET /ws", s.handleSession)
	s.mux.HandleFunc("GET /download/{token}", s.handleDownload)
	s.mux.HandleFunc("GET /settings", s.handleSettings)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Downloads() *Downloads {
	return s.downloads
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Serving editor", "url", "http://"+s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", s.opts.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		s.logger.Warnw("Websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageBytes)

	session := NewSession(s.downloads, s.writer, s.logger)
	defer session.Close()

	s.logger.Debugw("Session opened", "remote", r.RemoteAddr)
	if err := s.write(conn, session.State()); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debugw("Session closed", "remote", r.RemoteAddr)
			} else {
				s.logger.Warnw("Session read failed", "remote", r.RemoteAddr, "error", err)
			}
			return
		}

		reply := s.dispatch(session, data)
		if reply == nil {
			continue
		}
		if err := s.write(conn, reply); err != nil {
			s.logger.Warnw("Session write failed", "remote", r.RemoteAddr, "error", err)
			return
		}
	}
}

// dispatch decodes one message and applies it. Bad messages are answered
// with an error message and do not end the session.
func (s *Server) dispatch(session *Session, data []byte) any {
	var msg Inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return errorMessage(fmt.Errorf("decode message: %w", err))
	}
	reply, err := session.Handle(msg)
	if err != nil {
		s.logger.Warnw("Rejected message", "type", msg.Type, "error", err)
		return errorMessage(err)
	}
	return reply
}

func (s *Server) write(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"filename": s.opts.DefaultFilename,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	artifact, ok := s.downloads.Get(r.PathValue("token"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/x-subrip; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	if _, err := w.Write(artifact.Data); err != nil {
		s.logger.Warnw("Download write failed", "filename", artifact.Filename, "error", err)
	}
}
