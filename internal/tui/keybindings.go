package tui

import "github.com/charmbracelet/bubbles/key"

// PickerKeyMap defines the keybindings of the template picker. Printable
// keys go to the filter, so navigation uses arrows and control keys.
type PickerKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Cancel    key.Binding
	ForceQuit key.Binding
}

// PickerKeys are the keybindings for the picker.
var PickerKeys = PickerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p", "ctrl+k"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n", "ctrl+j"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "build"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear/quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}
