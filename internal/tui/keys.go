package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding

	// Actions
	AddItem    key.Binding
	RemoveItem key.Binding
	Generate   key.Binding
	Download   key.Binding
	Print      key.Binding
	Reset      key.Binding

	// Movement
	Next        key.Binding
	Prev        key.Binding
	Submit      key.Binding
	PreviewUp   key.Binding
	PreviewDown key.Binding

	// Modals
	Confirm key.Binding
	Cancel  key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:        key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "keluar")),
	AddItem:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "tambah item")),
	RemoveItem:  key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "hapus item")),
	Generate:    key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "perbarui")),
	Download:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "unduh PDF")),
	Print:       key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "cetak")),
	Reset:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
	Next:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "berikutnya")),
	Prev:        key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "sebelumnya")),
	Submit:      key.NewBinding(key.WithKeys("enter")),
	PreviewUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "gulir")),
	PreviewDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "gulir")),
	Confirm:     key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "ya")),
	Cancel:      key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "batal")),
}
