//go:build windows || darwin

package ui

import "github.com/getlantern/systray"

type menuItem struct {
	*systray.MenuItem
}

// WrapMenu turns a systray item into a MenuItem.
func WrapMenu(m *systray.MenuItem) MenuItem {
	return &menuItem{MenuItem: m}
}

// Clicked returns the ClickedCh.
func (m *menuItem) Clicked() chan struct{} {
	return m.ClickedCh
}

var _ = MenuItem(&menuItem{MenuItem: nil})
