package ui

import "github.com/scribemenu/scribemenu/pkg/menu"

// MenuItem is a tray menu entry. It hides systray from operating systems
// that have no menu or GUI, and it satisfies menu.Item.
type MenuItem interface {
	menu.Item
	Hide()
	Show()
	SetTitle(title string)
	SetTooltip(tooltip string)
	String() string
	Clicked() chan struct{}
}
