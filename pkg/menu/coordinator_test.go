package menu_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/scribemenu/scribemenu/pkg/menu"
)

type recentList []string

func (r *recentList) List() []string { return append([]string{}, *r...) }

type installs struct {
	windows []int
	last    menu.Menu
}

func (i *installs) SetApplicationMenu(windowID int, m menu.Menu) {
	i.windows = append(i.windows, windowID)
	i.last = m
}

type registrations map[int]map[string]string

func (r registrations) Register(windowID int, shortcuts map[string]string) {
	r[windowID] = shortcuts
}

type settings struct {
	keys  menu.Keybindings
	prefs *menu.Preferences
}

func (s *settings) Keybindings() menu.Keybindings  { return s.keys }
func (s *settings) Preferences() *menu.Preferences { return s.prefs }

type harness struct {
	*menu.Coordinator
	recent    *recentList
	installs  *installs
	registers registrations
	settings  *settings
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	builder, err := menu.NewBuilder(nil)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}

	test := &harness{
		recent:    &recentList{},
		installs:  &installs{},
		registers: registrations{},
		settings:  &settings{prefs: menu.DefaultPreferences()},
	}

	test.Coordinator = menu.NewCoordinator(&menu.Config{
		Builder:   builder,
		Recent:    test.recent,
		Settings:  test.settings,
		Installer: test.installs,
		Registrar: test.registers,
	})

	return test
}

func (h *harness) mustCreate(t *testing.T, windowID int, shortcuts bool) {
	t.Helper()

	if err := h.CreateWindowMenu(windowID, shortcuts); err != nil {
		t.Fatalf("CreateWindowMenu(%d): %v", windowID, err)
	}
}

func (h *harness) mustActivate(t *testing.T, windowID int) {
	t.Helper()

	if err := h.ActivateWindow(windowID); err != nil {
		t.Fatalf("ActivateWindow(%d): %v", windowID, err)
	}
}

func (h *harness) item(t *testing.T, windowID int, id string) menu.Item {
	t.Helper()

	m, err := h.WindowMenu(windowID)
	if err != nil {
		t.Fatalf("WindowMenu(%d): %v", windowID, err)
	}

	item := m.GetItemByID(id)
	if item == nil {
		t.Fatalf("window %d has no %s item", windowID, id)
	}

	return item
}

func TestCreateCarriesVisibleModes(t *testing.T) {
	t.Parallel()

	test := newHarness(t)
	test.mustCreate(t, 1, false)

	if test.item(t, 1, menu.SourceCodeMode).Checked() {
		t.Fatal("first window must start with source code mode off")
	}

	test.mustActivate(t, 1)
	test.GetMenuItemByID(menu.TypewriterMode).Check()
	test.mustCreate(t, 2, false)

	if !test.item(t, 2, menu.TypewriterMode).Checked() {
		t.Fatal("typewriter mode was not carried from the visible menu")
	}

	if test.item(t, 2, menu.SourceCodeMode).Checked() {
		t.Fatal("source code mode must stay off")
	}

	if test.item(t, 2, menu.TypewriterMode).Disabled() {
		t.Fatal("typewriter mode must stay enabled without source code mode")
	}
}

func TestCreateWithoutVisibleMenuDefaultsOff(t *testing.T) {
	t.Parallel()

	test := newHarness(t)
	test.mustCreate(t, 1, false)
	test.item(t, 1, menu.FocusMode).Check()
	// Window 1 was never activated so nothing is visible.
	test.mustCreate(t, 2, false)

	if test.item(t, 2, menu.FocusMode).Checked() {
		t.Fatal("focus mode must default to off without a visible menu")
	}
}

func TestCreateSourceModeCoupling(t *testing.T) {
	t.Parallel()

	test := newHarness(t)
	test.mustCreate(t, 1, false)
	test.mustActivate(t, 1)
	test.GetMenuItemByID(menu.SourceCodeMode).Check()
	test.mustCreate(t, 2, false)

	if !test.item(t, 2, menu.SourceCodeMode).Checked() {
		t.Fatal("source code mode was not carried from the visible menu")
	}

	if !test.item(t, 2, menu.TypewriterMode).Disabled() || !test.item(t, 2, menu.FocusMode).Disabled() {
		t.Fatal("typewriter and focus mode must be disabled while source code mode is on")
	}

	// Toggling source mode on a live window does not re-apply the coupling.
	if test.item(t, 1, menu.TypewriterMode).Disabled() {
		t.Fatal("the already open window must not be changed")
	}
}

func TestCreateRegistersShortcuts(t *testing.T) {
	t.Parallel()

	test := newHarness(t)
	test.settings.keys = menu.Keybindings{menu.SourceCodeMode: "F8"}
	test.mustCreate(t, 1, true)
	test.mustCreate(t, 2, false)

	if got := test.registers[1]["F8"]; got != menu.SourceCodeMode {
		t.Fatalf("expected F8 to trigger %s, got %q", menu.SourceCodeMode, got)
	}

	if _, ok := test.registers[2]; ok {
		t.Fatal("window 2 did not ask for a shortcut map")
	}

	if shortcuts, _ := test.Shortcuts(2); shortcuts != nil {
		t.Fatalf("window 2 must not store a shortcut map, got %v", shortcuts)
	}
}

func TestActivateWindow(t *testing.T) {
	t.Parallel()

	test := newHarness(t)
	test.mustCreate(t, 1, false)
	test.mustCreate(t, 2, false)

	if test.VisibleMenu() != nil {
		t.Fatal("no menu may be visible before a window is activated")
	}

	test.mustActivate(t, 1)
	test.mustActivate(t, 1)
	test.mustActivate(t, 2)

	if diff := cmp.Diff([]int{1, 2}, test.installs.windows); diff != "" {
		t.Fatalf("activating the active window must not reinstall (-want +got):\n%s", diff)
	}

	if id, ok := test.ActiveWindow(); !ok || id != 2 {
		t.Fatalf("expected window 2 active, got %d (%v)", id, ok)
	}

	want, _ := test.WindowMenu(2)
	if test.installs.last != want || test.VisibleMenu() != want {
		t.Fatal("window 2's menu must be the visible menu")
	}
}

func TestActivateUnknownWindow(t *testing.T) {
	t.Parallel()

	test := newHarness(t)

	if err := test.ActivateWindow(7); !errors.Is(err, menu.ErrNoWindowMenu) {
		t.Fatalf("expected ErrNoWindowMenu, got %v", err)
	}

	if _, err := test.WindowMenu(7); !errors.Is(err, menu.ErrNoWindowMenu) {
		t.Fatalf("expected ErrNoWindowMenu, got %v", err)
	}

	if _, ok := test.ActiveWindow(); ok {
		t.Fatal("a failed activation must not mark a window active")
	}
}

func TestDestroyActiveWindow(t *testing.T) {
	t.Parallel()

	test := newHarness(t)
	test.mustCreate(t, 1, false)
	test.mustActivate(t, 1)
	test.DestroyWindowMenu(1)

	if _, ok := test.ActiveWindow(); ok {
		t.Fatal("destroying the active window must clear the active marker")
	}

	if test.SetThemeIndicator("dark") {
		t.Fatal("the theme indicator has no visible menu to change")
	}

	if test.GetMenuItemByID(menu.AutoSave) != nil {
		t.Fatal("no visible menu means no items")
	}

	if err := test.ActivateWindow(1); !errors.Is(err, menu.ErrNoWindowMenu) {
		t.Fatalf("expected ErrNoWindowMenu for a destroyed window, got %v", err)
	}
}

func TestDestroyInactiveWindowKeepsActive(t *testing.T) {
	t.Parallel()

	test := newHarness(t)
	test.mustCreate(t, 1, false)
	test.mustCreate(t, 2, false)
	test.mustActivate(t, 1)
	test.DestroyWindowMenu(2)
	test.DestroyWindowMenu(3)

	if id, ok := test.ActiveWindow(); !ok || id != 1 {
		t.Fatalf("expected window 1 to stay active, got %d (%v)", id, ok)
	}

	if diff := cmp.Diff([]int{1}, test.Windows()); diff != "" {
		t.Fatalf("unexpected windows (-want +got):\n%s", diff)
	}
}

func TestRebuildKeepsEachWindowsToggles(t *testing.T) {
	t.Parallel()

	test := newHarness(t)
	test.mustCreate(t, 1, false)
	test.mustCreate(t, 2, true)
	test.mustActivate(t, 2)

	test.item(t, 1, menu.SideBar).Check()
	test.item(t, 1, menu.TabBar).Uncheck()
	test.item(t, 2, menu.SideBar).Uncheck()
	test.item(t, 2, menu.TabBar).Check()
	test.item(t, 2, menu.FocusMode).Check()

	*test.recent = recentList{"/docs/a.md"}

	if err := test.RebuildAllMenus(); err != nil {
		t.Fatalf("RebuildAllMenus: %v", err)
	}

	if !test.item(t, 1, menu.SideBar).Checked() || test.item(t, 1, menu.TabBar).Checked() {
		t.Fatal("window 1 lost its sidebar or tab bar state")
	}

	if test.item(t, 2, menu.SideBar).Checked() || !test.item(t, 2, menu.TabBar).Checked() {
		t.Fatal("window 2 lost its sidebar or tab bar state")
	}

	if test.item(t, 1, menu.FocusMode).Checked() || !test.item(t, 2, menu.FocusMode).Checked() {
		t.Fatal("focus mode must come from each window's own menu")
	}

	if test.item(t, 1, "recent-0") == nil {
		t.Fatal("rebuilt menu is missing the new recent document")
	}

	want, _ := test.WindowMenu(2)
	if test.installs.last != want {
		t.Fatal("the rebuilt menu of the active window must be installed")
	}

	if _, ok := test.registers[2]; !ok {
		t.Fatal("window 2 shortcuts must be registered again")
	}

	if _, ok := test.registers[1]; ok {
		t.Fatal("window 1 never asked for shortcuts")
	}
}

func TestRebuildWithOverride(t *testing.T) {
	t.Parallel()

	test := newHarness(t)
	*test.recent = recentList{"/docs/a.md", "/docs/b.md"}
	test.mustCreate(t, 1, false)

	if err := test.RebuildAllMenusWith([]string{}); err != nil {
		t.Fatalf("RebuildAllMenusWith: %v", err)
	}

	if test.item(t, 1, menu.RecentNone) == nil {
		t.Fatal("the override list must replace the store's list")
	}

	if !test.item(t, 1, menu.ClearRecent).Disabled() {
		t.Fatal("clear must be disabled without recent documents")
	}
}

func TestIndicators(t *testing.T) {
	t.Parallel()

	test := newHarness(t)
	test.mustCreate(t, 1, false)
	test.mustCreate(t, 2, false)
	test.mustActivate(t, 1)

	if !test.SetThemeIndicator("one-dark") {
		t.Fatal("expected the theme indicator to apply")
	}

	checked := []string{}

	for _, theme := range menu.Themes {
		if test.item(t, 1, menu.ThemeItemID(theme)).Checked() {
			checked = append(checked, theme)
		}
	}

	if diff := cmp.Diff([]string{"one-dark"}, checked); diff != "" {
		t.Fatalf("exactly one theme must be checked (-want +got):\n%s", diff)
	}

	test.SetLineEndingIndicator(menu.CRLF)
	test.SetAutoSaveIndicator(true)
	test.SetAlwaysOnTopIndicator(true)

	if !test.item(t, 1, menu.LineEndingCRLF).Checked() || test.item(t, 1, menu.LineEndingLF).Checked() {
		t.Fatal("line ending indicator did not switch to CRLF")
	}

	if !test.item(t, 1, menu.AutoSave).Checked() || !test.item(t, 1, menu.AlwaysOnTop).Checked() {
		t.Fatal("auto save and always on top must be checked")
	}

	// Only the visible menu changes.
	if test.item(t, 2, menu.AutoSave).Checked() || !test.item(t, 2, menu.ThemeItemID("light")).Checked() {
		t.Fatal("indicators must not touch inactive windows")
	}
}

func TestIndicatorsWithoutVisibleMenu(t *testing.T) {
	t.Parallel()

	test := newHarness(t)
	test.mustCreate(t, 1, false)

	if test.SetLineEndingIndicator(menu.CRLF) || test.SetAutoSaveIndicator(true) ||
		test.SetAlwaysOnTopIndicator(true) || test.SetThemeIndicator("dark") {
		t.Fatal("indicators must report false without a visible menu")
	}

	if test.item(t, 1, menu.AutoSave).Checked() {
		t.Fatal("an inactive window must not change")
	}
}

// flakyBuilder fails every Build after the first ok calls.
type flakyBuilder struct {
	*menu.TemplateBuilder
	ok    int
	calls int
}

var errBuild = errors.New("build failed")

func (f *flakyBuilder) Build(tmpl *menu.Template) (menu.Menu, error) {
	if f.calls++; f.calls > f.ok {
		return nil, errBuild
	}

	return f.TemplateBuilder.Build(tmpl)
}

func TestRebuildFailureKeepsEveryMenu(t *testing.T) {
	t.Parallel()

	base, err := menu.NewBuilder(nil)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}

	// Two creates and the first window of the rebuild succeed.
	builder := &flakyBuilder{TemplateBuilder: base, ok: 3}
	recent := &recentList{}
	installed := &installs{}
	coord := menu.NewCoordinator(&menu.Config{Builder: builder, Recent: recent, Installer: installed})

	for _, id := range []int{1, 2} {
		if err := coord.CreateWindowMenu(id, false); err != nil {
			t.Fatalf("CreateWindowMenu(%d): %v", id, err)
		}
	}

	if err := coord.ActivateWindow(1); err != nil {
		t.Fatalf("ActivateWindow: %v", err)
	}

	before1, _ := coord.WindowMenu(1)
	before2, _ := coord.WindowMenu(2)

	if err := coord.RebuildAllMenusWith([]string{"/docs/a.md"}); !errors.Is(err, errBuild) {
		t.Fatalf("expected the build error, got %v", err)
	}

	after1, _ := coord.WindowMenu(1)
	after2, _ := coord.WindowMenu(2)

	if after1 != before1 || after2 != before2 {
		t.Fatal("a failed rebuild must leave every window on its old menu")
	}

	if len(installed.windows) != 1 {
		t.Fatalf("nothing may be installed by a failed rebuild: %v", installed.windows)
	}
}

func TestRebuildGivesEachWindowItsOwnShortcuts(t *testing.T) {
	t.Parallel()

	test := newHarness(t)
	test.mustCreate(t, 1, true)
	test.mustCreate(t, 2, true)

	if err := test.RebuildAllMenus(); err != nil {
		t.Fatalf("RebuildAllMenus: %v", err)
	}

	test.registers[1]["F12"] = "changed-by-window-1"

	if _, ok := test.registers[2]["F12"]; ok {
		t.Fatal("windows must not share one shortcut map")
	}

	want, _ := test.Shortcuts(2)
	if diff := cmp.Diff(want, test.registers[2]); diff != "" {
		t.Fatalf("registered map differs from the stored one (-want +got):\n%s", diff)
	}
}
