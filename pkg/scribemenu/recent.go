package scribemenu

import (
	"github.com/scribemenu/scribemenu/pkg/menu"
	"github.com/scribemenu/scribemenu/pkg/recent"
)

// nativeRecent is the tray's recent documents list. It satisfies recent.Native.
// On macOS it owns the list; on Windows it mirrors the store.
type nativeRecent struct {
	owns bool
	// items has a fixed length; empty strings are unused slots.
	items   []string
	refresh func(items []string)
}

func newNative(owns bool, refresh func([]string)) *nativeRecent {
	return &nativeRecent{
		owns:    owns,
		items:   make([]string, recent.MaxDocuments),
		refresh: refresh,
	}
}

// AddRecentDocument shifts every item down one slot and puts path on top.
// An existing copy of path is removed first.
func (n *nativeRecent) AddRecentDocument(path string) {
	end := len(n.items) - 1

	for idx, item := range n.items {
		if item == path {
			end = idx
			break
		}
	}

	for i := end; i > 0; i-- {
		n.items[i] = n.items[i-1]
	}

	n.items[0] = path
	n.update()
}

func (n *nativeRecent) ClearRecentDocuments() {
	for i := range n.items {
		n.items[i] = ""
	}

	n.update()
}

func (n *nativeRecent) OwnsList() bool {
	return n.owns
}

// List returns the used slots.
func (n *nativeRecent) List() []string {
	list := []string{}

	for _, item := range n.items {
		if item != "" {
			list = append(list, item)
		}
	}

	return list
}

// Set replaces the slots with list. Used to seed the tray from the store.
func (n *nativeRecent) Set(list []string) {
	for i := range n.items {
		n.items[i] = ""
		if i < len(list) {
			n.items[i] = list[i]
		}
	}

	n.update()
}

func (n *nativeRecent) update() {
	if n.refresh != nil {
		n.refresh(n.items)
	}
}

// documentList satisfies menu.RecentDocuments with whatever list the app shows.
type documentList func() []string

func (f documentList) List() []string {
	return f()
}

// The methods below run on the control loop.

// recentList is the list the outside world sees.
func (u *Scribemenu) recentList() []string {
	if u.native != nil && u.native.OwnsList() {
		return u.native.List()
	}

	return u.store.List()
}

func (u *Scribemenu) addRecentDocument(path string) error {
	if err := u.store.Add(path); err != nil {
		u.countError("add")
		u.Errorf("Adding recent document %s: %v", path, err)

		return err //nolint:wrapcheck
	}

	u.countDocument("add")
	u.Debugf("Added recent document: %s", path)

	// The store does not call OnChange for a list it does not keep.
	if u.native != nil && u.native.OwnsList() {
		u.recentChanged(nil)
	}

	return nil
}

func (u *Scribemenu) clearRecentDocuments() error {
	if err := u.store.Clear(); err != nil {
		u.countError("clear")
		u.Errorf("Clearing recent documents: %v", err)

		return err //nolint:wrapcheck
	}

	u.countDocument("clear")
	u.Printf("Cleared recent documents")

	return nil
}

// recentChanged is the store's OnChange hook. Every window menu gets the new list.
// When the native facility owns the list, list is ignored and its list is used.
func (u *Scribemenu) recentChanged(list []string) {
	switch {
	case u.native == nil:
	case u.native.OwnsList():
		list = u.native.List()
	default:
		u.native.Set(list)
	}

	if err := u.menus.RebuildAllMenusWith(list); err != nil {
		u.countError("rebuild")
		u.Errorf("Rebuilding window menus: %v", err)

		return
	}

	u.countRebuild()
}

func (u *Scribemenu) createWindow(windowID int, shortcuts bool) error {
	if err := u.menus.CreateWindowMenu(windowID, shortcuts); err != nil {
		u.countError("create")
		u.Errorf("Creating window %d: %v", windowID, err)

		return err //nolint:wrapcheck
	}

	return nil
}

func (u *Scribemenu) destroyWindow(windowID int) {
	u.menus.DestroyWindowMenu(windowID)
	delete(u.shortcuts, windowID)
}

// SetApplicationMenu satisfies menu.Installer. The editor front-end reads the
// visible menu back over the API, so this only records the change.
func (u *Scribemenu) SetApplicationMenu(windowID int, _ menu.Menu) {
	u.countInstall()
	u.Debugf("Window %d menu is now the application menu", windowID)
}

// Register satisfies menu.Registrar.
func (u *Scribemenu) Register(windowID int, shortcuts map[string]string) {
	u.shortcuts[windowID] = shortcuts
	u.Debugf("Registered %d shortcuts for window %d", len(shortcuts), windowID)
}
