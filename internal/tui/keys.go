package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgpai22/cuetap/internal/editor"
)

// KeyMap defines the key bindings of the terminal editor. Terminals cannot
// report Shift on Backspace and Delete, so the Alt variants stand in for
// the Shift chords.
type KeyMap struct {
	Enter     key.Binding // paused: insert row below; playing: stamp time
	Up        key.Binding
	Down      key.Binding
	ClearTime key.Binding
	RemoveRow key.Binding
	// breaks the current cue's text; Enter belongs to the controller
	NewLine key.Binding

	TogglePause key.Binding
	SeekBack    key.Binding
	SeekForward key.Binding
	Export      key.Binding
	Quit        key.Binding
}

var DefaultKeyMap = KeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "insert / stamp"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	ClearTime: key.NewBinding(
		key.WithKeys("alt+backspace", "shift+backspace"),
		key.WithHelp("alt+⌫", "clear time"),
	),
	RemoveRow: key.NewBinding(
		key.WithKeys("alt+delete", "shift+delete"),
		key.WithHelp("alt+del", "remove row"),
	),
	NewLine: key.NewBinding(
		key.WithKeys("ctrl+j"),
		key.WithHelp("C-j", "line break"),
	),
	TogglePause: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("C-p", "play/pause"),
	),
	SeekBack: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "-5s"),
	),
	SeekForward: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "+5s"),
	),
	Export: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "export"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Enter, k.Up, k.Down, k.ClearTime, k.RemoveRow,
		k.TogglePause, k.Export, k.Quit,
	}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Up, k.Down, k.ClearTime, k.RemoveRow, k.NewLine},
		{k.TogglePause, k.SeekBack, k.SeekForward, k.Export, k.Quit},
	}
}

// editorKey reduces a terminal key press to the controller's vocabulary.
func (k KeyMap) editorKey(msg tea.KeyMsg) editor.Key {
	switch {
	case key.Matches(msg, k.Enter):
		return editor.Key{Code: editor.KeyEnter}
	case key.Matches(msg, k.Up):
		return editor.Key{Code: editor.KeyArrowUp}
	case key.Matches(msg, k.Down):
		return editor.Key{Code: editor.KeyArrowDown}
	case key.Matches(msg, k.ClearTime):
		return editor.Key{Code: editor.KeyBackspace, Shift: true}
	case key.Matches(msg, k.RemoveRow):
		return editor.Key{Code: editor.KeyDelete, Shift: true}
	case msg.Type == tea.KeyBackspace:
		return editor.Key{Code: editor.KeyBackspace}
	case msg.Type == tea.KeyDelete:
		return editor.Key{Code: editor.KeyDelete}
	}
	return editor.Key{Code: editor.KeyOther}
}
