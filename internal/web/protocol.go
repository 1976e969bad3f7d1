package web

import (
	"errors"
	"fmt"

	"github.com/mgpai22/cuetap/internal/cue"
	"github.com/mgpai22/cuetap/internal/editor"
)

// ErrUnknownMessage is returned for a client message with an unrecognised
// type.
var ErrUnknownMessage = errors.New("web: unknown message type")

// client -> server message types
const (
	msgKey    = "key"
	msgSelect = "select"
	msgText   = "text"
	msgTime   = "time"
	msgPaste  = "paste"
	msgExport = "export"
)

// server -> client message types
const (
	msgState = "state"
	msgError = "error"
)

// Inbound is any message the page sends. Which fields are meaningful
// depends on Type.
type Inbound struct {
	Type string `json:"type"`

	// key
	Code        string  `json:"code,omitempty"`
	Shift       bool    `json:"shift,omitempty"`
	Paused      bool    `json:"paused,omitempty"`
	CurrentTime float64 `json:"currentTime,omitempty"`

	// select, time
	Index int `json:"index,omitempty"`
	// time; null clears the row's time
	Value *float64 `json:"value,omitempty"`

	// text, paste
	Text string `json:"text,omitempty"`

	// export
	Filename string `json:"filename,omitempty"`
}

// RowJSON is one table row as the page renders it. Time is null while
// unset.
type RowJSON struct {
	Number int      `json:"number"`
	Time   *float64 `json:"time"`
	Text   string   `json:"text"`
}

type StateMessage struct {
	Type       string    `json:"type"`
	Rows       []RowJSON `json:"rows"`
	Current    int       `json:"current"`
	Consumed   bool      `json:"consumed"`
	CaretToEnd bool      `json:"caretToEnd"`
	Mode       string    `json:"mode"`
}

type ExportMessage struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Cues     int    `json:"cues"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func errorMessage(err error) ErrorMessage {
	return ErrorMessage{Type: msgError, Message: err.Error()}
}

// browser KeyboardEvent.code values the controller understands
var keyCodes = map[string]editor.KeyCode{
	"Enter":       editor.KeyEnter,
	"NumpadEnter": editor.KeyEnter,
	"ArrowUp":     editor.KeyArrowUp,
	"ArrowDown":   editor.KeyArrowDown,
	"Backspace":   editor.KeyBackspace,
	"Delete":      editor.KeyDelete,
}

func toKey(code string, shift bool) editor.Key {
	k, ok := keyCodes[code]
	if !ok {
		return editor.Key{Code: editor.KeyOther, Shift: shift}
	}
	return editor.Key{Code: k, Shift: shift}
}

func toRows(rows []cue.Row) []RowJSON {
	out := make([]RowJSON, len(rows))
	for i, row := range rows {
		out[i] = RowJSON{Number: row.Number, Text: row.Text}
		if cue.IsSet(row.Time) {
			t := row.Time
			out[i].Time = &t
		}
	}
	return out
}

func unknownMessage(kind string) error {
	return fmt.Errorf("%w: %q", ErrUnknownMessage, kind)
}
