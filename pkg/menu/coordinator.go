// Package menu builds per-window application menus and keeps their check marks
// consistent while windows are created, activated, rebuilt and closed.
//
// Menus are rebuilt and replaced whenever shared data (recent documents, preferences)
// changes. The indicator setters are the one exception: they flip check marks on the
// visible menu in place, because they reflect the focused window only.
//
// Toggling source code mode on a window that is already open does not re-apply the
// coupling rule to the typewriter and focus items. Only new windows get it.
package menu

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoWindowMenu is returned when a window is used before its menu was created.
var ErrNoWindowMenu = errors.New("no menu created for window")

// Item is a checkable menu entry. ui.MenuItem satisfies it too.
type Item interface {
	Check()
	Uncheck()
	Checked() bool
	Enable()
	Disable()
	Disabled() bool
}

// Menu is a built, queryable menu tree.
type Menu interface {
	GetItemByID(id string) Item
}

// Builder produces menu templates and builds them into menus.
type Builder interface {
	BuildTemplate(keys Keybindings, prefs *Preferences, recent []string) *Template
	Build(tmpl *Template) (Menu, error)
}

// Installer shows a menu as the process-wide application menu.
type Installer interface {
	SetApplicationMenu(windowID int, menu Menu)
}

// Registrar hooks a window's shortcut map into its keyboard handler.
type Registrar interface {
	Register(windowID int, shortcuts map[string]string)
}

// Settings supplies the current keybindings and preferences.
type Settings interface {
	Keybindings() Keybindings
	Preferences() *Preferences
}

// RecentDocuments supplies the recently used documents list.
type RecentDocuments interface {
	List() []string
}

// Logs is the logging interface this package uses.
type Logs interface {
	Printf(msg string, v ...any)
	Errorf(msg string, v ...any)
	Debugf(msg string, v ...any)
}

// Snapshot is one window's menu and, if requested, its shortcut map.
type Snapshot struct {
	Menu      Menu
	Shortcuts map[string]string
}

// Config is the input to NewCoordinator. Builder and Recent are required.
type Config struct {
	Builder   Builder
	Recent    RecentDocuments
	Settings  Settings
	Installer Installer
	Registrar Registrar
	Logger    Logs
}

// Coordinator owns every window's menu snapshot and tracks the active window.
// It is not safe for concurrent use; drive it from one goroutine.
type Coordinator struct {
	*Config
	menus    map[int]*Snapshot
	activeID int
	active   bool
}

//nolint:gochecknoglobals
var (
	// createCarry is copied from the visible menu into a new window's menu.
	createCarry = []string{SourceCodeMode, TypewriterMode, FocusMode}
	// rebuildCarry is copied from a window's old menu into its rebuilt menu.
	rebuildCarry = []string{SourceCodeMode, TypewriterMode, FocusMode, SideBar, TabBar}
)

// NewCoordinator returns a coordinator with no windows.
func NewCoordinator(config *Config) *Coordinator {
	if config.Logger == nil {
		config.Logger = &discard{}
	}

	return &Coordinator{
		Config: config,
		menus:  make(map[int]*Snapshot),
	}
}

// CreateWindowMenu builds and stores a menu for a new window. Source code, typewriter and
// focus mode are copied from the visible menu, or false without one. If source code mode
// ends up checked, typewriter and focus mode are disabled in the new menu.
// The menu is not shown until the window is activated.
func (c *Coordinator) CreateWindowMenu(windowID int, buildShortcutMap bool) error {
	tmpl := c.template(c.Recent.List())

	menu, err := c.Builder.Build(tmpl)
	if err != nil {
		return fmt.Errorf("building menu for window %d: %w", windowID, err)
	}

	snap := &Snapshot{Menu: menu}

	if buildShortcutMap {
		snap.Shortcuts = ParseShortcuts(tmpl)
		c.register(windowID, snap.Shortcuts)
	}

	visible := c.visible()
	for _, id := range createCarry {
		setChecked(menu, id, visible != nil && isChecked(visible, id))
	}

	if isChecked(menu, SourceCodeMode) {
		setEnabled(menu, TypewriterMode, false)
		setEnabled(menu, FocusMode, false)
	}

	if _, ok := c.menus[windowID]; ok {
		c.Logger.Debugf("Replacing existing menu for window %d", windowID)
	}

	c.menus[windowID] = snap
	c.Logger.Debugf("Created menu for window %d (shortcuts: %v)", windowID, buildShortcutMap)

	return nil
}

// DestroyWindowMenu drops a window's menu. If it was the active window,
// no menu is visible until another window is activated.
func (c *Coordinator) DestroyWindowMenu(windowID int) {
	if _, ok := c.menus[windowID]; !ok {
		c.Logger.Debugf("Destroying menu for window %d: no menu stored", windowID)
		return
	}

	delete(c.menus, windowID)

	if c.active && c.activeID == windowID {
		c.active = false
		c.activeID = 0
	}

	c.Logger.Debugf("Destroyed menu for window %d", windowID)
}

// ActivateWindow makes a window's menu the visible application menu.
// Activating the active window does nothing.
func (c *Coordinator) ActivateWindow(windowID int) error {
	if c.active && c.activeID == windowID {
		return nil
	}

	snap, ok := c.menus[windowID]
	if !ok {
		err := fmt.Errorf("%w: activating window %d", ErrNoWindowMenu, windowID)
		c.Logger.Errorf("%v", err)

		return err
	}

	c.activeID = windowID
	c.active = true
	c.install(windowID, snap.Menu)

	return nil
}

// RebuildAllMenus rebuilds every window's menu with the current recent documents.
func (c *Coordinator) RebuildAllMenus() error {
	return c.RebuildAllMenusWith(c.Recent.List())
}

// RebuildAllMenusWith rebuilds every window's menu with the provided recent documents.
// Each window keeps its own source code, typewriter, focus, sidebar and tab bar state.
// Every menu is built before any is replaced, so a failed build changes nothing.
func (c *Coordinator) RebuildAllMenusWith(recent []string) error {
	tmpl := c.template(recent)
	windows := c.Windows()
	rebuilt := make(map[int]*Snapshot, len(windows))

	for _, windowID := range windows {
		old := c.menus[windowID]

		menu, err := c.Builder.Build(tmpl)
		if err != nil {
			return fmt.Errorf("rebuilding menu for window %d: %w", windowID, err)
		}

		for _, id := range rebuildCarry {
			setChecked(menu, id, isChecked(old.Menu, id))
		}

		snap := &Snapshot{Menu: menu}
		if old.Shortcuts != nil {
			snap.Shortcuts = ParseShortcuts(tmpl)
		}

		rebuilt[windowID] = snap
	}

	for _, windowID := range windows {
		snap := rebuilt[windowID]
		c.menus[windowID] = snap

		if snap.Shortcuts != nil {
			c.register(windowID, snap.Shortcuts)
		}

		if c.active && c.activeID == windowID {
			c.install(windowID, snap.Menu)
		}
	}

	c.Logger.Debugf("Rebuilt %d window menus with %d recent documents", len(c.menus), len(recent))

	return nil
}

// WindowMenu returns the stored menu for a window.
func (c *Coordinator) WindowMenu(windowID int) (Menu, error) {
	snap, ok := c.menus[windowID]
	if !ok {
		err := fmt.Errorf("%w: window %d", ErrNoWindowMenu, windowID)
		c.Logger.Errorf("%v", err)

		return nil, err
	}

	return snap.Menu, nil
}

// Shortcuts returns the shortcut map stored for a window, nil if none was built.
func (c *Coordinator) Shortcuts(windowID int) (map[string]string, error) {
	snap, ok := c.menus[windowID]
	if !ok {
		return nil, fmt.Errorf("%w: window %d", ErrNoWindowMenu, windowID)
	}

	return snap.Shortcuts, nil
}

// ActiveWindow returns the active window id, and false if no window is active.
func (c *Coordinator) ActiveWindow() (int, bool) {
	return c.activeID, c.active
}

// Windows returns the ids of every window with a menu, sorted.
func (c *Coordinator) Windows() []int {
	ids := make([]int, 0, len(c.menus))
	for id := range c.menus {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	return ids
}

// VisibleMenu returns the active window's menu, or nil.
func (c *Coordinator) VisibleMenu() Menu {
	return c.visible()
}

// GetMenuItemByID looks up an item in the visible menu. Returns nil without one.
func (c *Coordinator) GetMenuItemByID(id string) Item {
	if menu := c.visible(); menu != nil {
		return menu.GetItemByID(id)
	}

	return nil
}

func (c *Coordinator) visible() Menu {
	if !c.active {
		return nil
	}

	if snap, ok := c.menus[c.activeID]; ok {
		return snap.Menu
	}

	return nil
}

func (c *Coordinator) template(recent []string) *Template {
	var (
		keys  Keybindings
		prefs *Preferences
	)

	if c.Settings != nil {
		keys = c.Settings.Keybindings()
		prefs = c.Settings.Preferences()
	}

	return c.Builder.BuildTemplate(keys, prefs, recent)
}

func (c *Coordinator) install(windowID int, menu Menu) {
	if c.Installer != nil {
		c.Installer.SetApplicationMenu(windowID, menu)
	}
}

func (c *Coordinator) register(windowID int, shortcuts map[string]string) {
	if c.Registrar != nil {
		c.Registrar.Register(windowID, shortcuts)
	}
}

func isChecked(menu Menu, id string) bool {
	item := menu.GetItemByID(id)
	return item != nil && item.Checked()
}

func setChecked(menu Menu, id string, checked bool) {
	item := menu.GetItemByID(id)

	switch {
	case item == nil:
	case checked:
		item.Check()
	default:
		item.Uncheck()
	}
}

func setEnabled(menu Menu, id string, enabled bool) {
	item := menu.GetItemByID(id)

	switch {
	case item == nil:
	case enabled:
		item.Enable()
	default:
		item.Disable()
	}
}

type discard struct{}

func (*discard) Printf(string, ...any) {}
func (*discard) Errorf(string, ...any) {}
func (*discard) Debugf(string, ...any) {}
