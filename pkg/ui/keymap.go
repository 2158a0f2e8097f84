package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	SelectParent      key.Binding
	SelectFirstChild  key.Binding
	SelectPrevSibling key.Binding
	SelectNextSibling key.Binding

	Reply          key.Binding
	GenerateOne    key.Binding
	GenerateThrice key.Binding
	GenerateCustom key.Binding

	EditMessage    key.Binding
	SubmitEdit     key.Binding
	CancelEdit     key.Binding
	DeleteMessage  key.Binding
	DeleteSubtree  key.Binding
	ToggleCollapse key.Binding

	NewThread    key.Binding
	NextThread   key.Binding
	PrevThread   key.Binding
	RenameThread key.Binding
	TogglePin    key.Binding
	DeleteThread key.Binding

	ScrollUp   key.Binding
	ScrollDown key.Binding

	Help key.Binding
	Quit key.Binding
}

var DefaultKeyMap = KeyMap{
	SelectParent:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "parent")),
	SelectFirstChild:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "first reply")),
	SelectPrevSibling: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev sibling")),
	SelectNextSibling: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next sibling")),

	Reply:          key.NewBinding(key.WithKeys("alt+r"), key.WithHelp("alt+r", "reply")),
	GenerateOne:    key.NewBinding(key.WithKeys("alt+g"), key.WithHelp("alt+g", "generate")),
	GenerateThrice: key.NewBinding(key.WithKeys("alt+3"), key.WithHelp("alt+3", "generate x3")),
	GenerateCustom: key.NewBinding(key.WithKeys("alt+n"), key.WithHelp("alt+n", "generate n")),

	EditMessage:    key.NewBinding(key.WithKeys("insert", "alt+e"), key.WithHelp("ins", "edit")),
	SubmitEdit:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "save")),
	CancelEdit:     key.NewBinding(key.WithKeys("esc", "ctrl+g"), key.WithHelp("esc", "cancel")),
	DeleteMessage:  key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete")),
	DeleteSubtree:  key.NewBinding(key.WithKeys("shift+delete"), key.WithHelp("shift+del", "delete subtree")),
	ToggleCollapse: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "collapse")),

	NewThread:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new thread")),
	NextThread:   key.NewBinding(key.WithKeys("alt+down"), key.WithHelp("alt+↓", "next thread")),
	PrevThread:   key.NewBinding(key.WithKeys("alt+up"), key.WithHelp("alt+↑", "prev thread")),
	RenameThread: key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "rename thread")),
	TogglePin:    key.NewBinding(key.WithKeys("alt+p"), key.WithHelp("alt+p", "pin")),
	DeleteThread: key.NewBinding(key.WithKeys("alt+x"), key.WithHelp("alt+x", "delete thread")),

	ScrollUp:   key.NewBinding(key.WithKeys("shift+pgup")),
	ScrollDown: key.NewBinding(key.WithKeys("shift+pgdown")),

	Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.SelectParent, k.SelectFirstChild, k.SelectPrevSibling, k.SelectNextSibling,
		k.Reply, k.GenerateOne, k.EditMessage, k.Help, k.Quit,
	}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SelectParent, k.SelectFirstChild, k.SelectPrevSibling, k.SelectNextSibling, k.ToggleCollapse},
		{k.Reply, k.GenerateOne, k.GenerateThrice, k.GenerateCustom, k.EditMessage, k.SubmitEdit, k.CancelEdit},
		{k.DeleteMessage, k.DeleteSubtree},
		{k.NewThread, k.NextThread, k.PrevThread, k.RenameThread, k.TogglePin, k.DeleteThread},
		{k.Help, k.Quit},
	}
}
