package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the workbench bindings.
type KeyMap struct {
	NewEditor    key.Binding
	CloseEditor  key.Binding
	CloseOthers  key.Binding
	ReopenClosed key.Binding
	TogglePin    key.Binding
	ToggleDirty  key.Binding
	PrevTab      key.Binding
	NextTab      key.Binding
	MoveTabLeft  key.Binding
	MoveTabRight key.Binding
	NextEditor   key.Binding
	PrevEditor   key.Binding
	NewGroup     key.Binding
	CloseGroup   key.Binding
	CycleGroup   key.Binding
	RenameGroup  key.Binding
	Picker       key.Binding
	Quit         key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		NewEditor:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new editor")),
		CloseEditor:  key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close editor")),
		CloseOthers:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "close others")),
		ReopenClosed: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "reopen closed")),
		TogglePin:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin/preview")),
		ToggleDirty:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "toggle modified")),
		PrevTab:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "switch tab")),
		NextTab:      key.NewBinding(key.WithKeys("right")),
		MoveTabLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "move tab")),
		MoveTabRight: key.NewBinding(key.WithKeys("]")),
		NextEditor:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next editor (all groups)")),
		PrevEditor:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous editor")),
		NewGroup:     key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "new group")),
		CloseGroup:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "close group")),
		CycleGroup:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "next group")),
		RenameGroup:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename group")),
		Picker:       key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "quick open")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
