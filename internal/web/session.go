package web

import (
	"github.com/mgpai22/cuetap/internal/cue"
	"github.com/mgpai22/cuetap/internal/editor"
	"github.com/mgpai22/cuetap/internal/export"
	"github.com/mgpai22/cuetap/internal/logging"
	"github.com/mgpai22/cuetap/internal/playback"
	"github.com/mgpai22/cuetap/internal/subtitle"
)

// Session is the state behind one page: its own cue table and controller.
// The browser owns the video, so every key message carries the player
// state the controller decides with.
type Session struct {
	gate       *playback.Snapshot
	controller *editor.Controller
	exporter   *Exporter
	writer     *subtitle.SRTWriter
	logger     *logging.Logger
}

func NewSession(downloads *Downloads, writer *subtitle.SRTWriter, logger *logging.Logger) *Session {
	gate := &playback.Snapshot{}
	return &Session{
		gate:       gate,
		controller: editor.New(cue.NewTable(), gate, logger),
		exporter:   NewExporter(downloads),
		writer:     writer,
		logger:     logger,
	}
}

func (s *Session) Table() *cue.Table {
	return s.controller.Table()
}

// State reports the whole table, for the first render.
func (s *Session) State() StateMessage {
	return s.state(editor.Outcome{Mode: editor.ModeOf(s.gate), Current: s.current()})
}

// Handle applies one client message. A nil reply means there is nothing to
// send back.
func (s *Session) Handle(msg Inbound) (any, error) {
	switch msg.Type {
	case msgKey:
		*s.gate = playback.Snapshot{Playing: !msg.Paused, Position: msg.CurrentTime}
		out := s.controller.Handle(toKey(msg.Code, msg.Shift))
		if !out.Consumed {
			return nil, nil
		}
		return s.state(out), nil

	case msgSelect:
		s.controller.Select(msg.Index)
		return s.State(), nil

	case msgText:
		// the index pins the edit to the row the page rendered it for, even
		// when a key reply moving the current row is still in flight
		if _, err := s.Table().Read(msg.Index); err != nil {
			return nil, err
		}
		s.Table().SetTextAt(msg.Index, msg.Text)
		return nil, nil

	case msgTime:
		if _, err := s.Table().Read(msg.Index); err != nil {
			return nil, err
		}
		if msg.Value == nil {
			s.Table().ClearTimeAt(msg.Index)
		} else {
			s.Table().SetTimeAt(msg.Index, *msg.Value)
		}
		return s.State(), nil

	case msgPaste:
		s.controller.Paste(msg.Text)
		out := s.State()
		out.Consumed = true
		out.CaretToEnd = true
		return out, nil

	case msgExport:
		artifact := export.Build(s.writer, s.Table(), msg.Filename)
		token := s.exporter.Publish(artifact)
		s.logger.Infow("Published export",
			"filename", artifact.Filename,
			"cues", artifact.Cues,
			"bytes", len(artifact.Data),
		)
		return ExportMessage{
			Type:     msgExport,
			URL:      "/download/" + token,
			Filename: artifact.Filename,
			Cues:     artifact.Cues,
		}, nil
	}

	return nil, unknownMessage(msg.Type)
}

// Close revokes the session's download.
func (s *Session) Close() {
	s.exporter.Close()
}

func (s *Session) current() int {
	i, _ := s.Table().CurrentIndex()
	return i
}

func (s *Session) state(out editor.Outcome) StateMessage {
	return StateMessage{
		Type:       msgState,
		Rows:       toRows(s.Table().Snapshot()),
		Current:    out.Current,
		Consumed:   out.Consumed,
		CaretToEnd: out.CaretToEnd,
		Mode:       out.Mode.String(),
	}
}
