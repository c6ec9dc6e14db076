package menu_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/scribemenu/scribemenu/pkg/menu"
)

func TestBuildTemplateRecentDocuments(t *testing.T) {
	t.Parallel()

	builder, err := menu.NewBuilder(nil)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}

	recent := []string{"/docs/b.md", "/docs/a.md"}
	tmpl := builder.BuildTemplate(nil, nil, recent)

	open := tmpl.Find(menu.OpenRecent)
	if open == nil {
		t.Fatal("template has no open-recent submenu")
	}

	labels := []string{}
	for _, item := range open.Submenu {
		labels = append(labels, item.Label)
	}

	want := []string{"/docs/b.md", "/docs/a.md", "", "Clear Recently Used"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Fatalf("unexpected open-recent items (-want +got):\n%s", diff)
	}

	if open.Submenu[0].Action != menu.ActionOpenRecent || open.Submenu[3].Disabled {
		t.Fatal("recent items must open documents and clear must be enabled")
	}

	// The base template must not pick up the recent documents.
	if again := builder.BuildTemplate(nil, nil, nil).Find(menu.OpenRecent); len(again.Submenu) != 3 {
		t.Fatalf("expected the empty placeholder submenu, got %d items", len(again.Submenu))
	}
}

func TestBuildTemplatePreferences(t *testing.T) {
	t.Parallel()

	builder, err := menu.NewBuilder(nil)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}

	tmpl := builder.BuildTemplate(nil, &menu.Preferences{
		Theme:          "graphite",
		EndOfLine:      menu.CRLF,
		AutoSave:       true,
		SideBarVisible: true,
	}, nil)

	tree, err := menu.NewTree(tmpl)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	for id, want := range map[string]bool{
		menu.ThemeItemID("graphite"): true,
		menu.ThemeItemID("light"):    false,
		menu.LineEndingCRLF:          true,
		menu.LineEndingLF:            false,
		menu.AutoSave:                true,
		menu.AlwaysOnTop:             false,
		menu.SideBar:                 true,
		menu.TabBar:                  false,
	} {
		if got := tree.GetItemByID(id).Checked(); got != want {
			t.Errorf("%s: expected checked=%v, got %v", id, want, got)
		}
	}
}

func TestKeybindingsAndShortcuts(t *testing.T) {
	t.Parallel()

	builder, err := menu.NewBuilder(nil)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}

	tmpl := builder.BuildTemplate(menu.Keybindings{
		"save":          "CmdOrCtrl+Alt+Shift+S",
		"find":          "",
		menu.FocusMode:  "F9",
		"no-such-items": "F10",
	}, nil, nil)

	shortcuts := menu.ParseShortcuts(tmpl)

	if shortcuts["CmdOrCtrl+Alt+Shift+S"] != "save" {
		t.Fatalf("save keybinding override missing: %v", shortcuts)
	}

	if _, ok := shortcuts["CmdOrCtrl+S"]; ok {
		t.Fatal("the overridden accelerator must be gone")
	}

	if _, ok := shortcuts["CmdOrCtrl+F"]; ok {
		t.Fatal("an empty keybinding removes the shortcut")
	}

	if shortcuts["F9"] != menu.FocusMode || shortcuts["CmdOrCtrl+Alt+S"] != menu.SourceCodeMode {
		t.Fatalf("unexpected view shortcuts: %v", shortcuts)
	}

	if _, ok := shortcuts["F10"]; ok {
		t.Fatal("keybindings for unknown items must be ignored")
	}
}

func TestParseShortcuts(t *testing.T) {
	t.Parallel()

	tmpl := &menu.Template{Items: []*menu.ItemTemplate{{
		ID:   "file",
		Type: menu.TypeSubmenu,
		Submenu: []*menu.ItemTemplate{
			{ID: "save", Accelerator: "CmdOrCtrl+S"},
			{ID: "save-copy", Accelerator: "CmdOrCtrl+S"},
			{ID: "crlf", Accelerator: "F2", Action: "line-ending-crlf"},
			{ID: "off", Accelerator: "F3", Disabled: true},
			{Type: menu.TypeSeparator, Accelerator: "F4"},
		},
	}}}

	want := map[string]string{
		"CmdOrCtrl+S": "save",
		"F2":          "line-ending-crlf",
	}

	if diff := cmp.Diff(want, menu.ParseShortcuts(tmpl)); diff != "" {
		t.Fatalf("unexpected shortcuts (-want +got):\n%s", diff)
	}
}

func TestNewTreeRejectsBadIDs(t *testing.T) {
	t.Parallel()

	_, err := menu.NewTree(&menu.Template{Items: []*menu.ItemTemplate{{Label: "Nameless"}}})
	if !errors.Is(err, menu.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}

	_, err = menu.NewTree(&menu.Template{Items: []*menu.ItemTemplate{
		{ID: "file", Submenu: []*menu.ItemTemplate{{ID: "save"}}},
		{ID: "save"},
	}})
	if !errors.Is(err, menu.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestTreeJSON(t *testing.T) {
	t.Parallel()

	tree, err := menu.NewTree(&menu.Template{Items: []*menu.ItemTemplate{{
		ID:      "view",
		Label:   "View",
		Submenu: []*menu.ItemTemplate{{ID: menu.FocusMode, Type: menu.TypeCheckbox, Checked: true, Disabled: true}},
	}}})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded []struct {
		ID      string `json:"id"`
		Type    string `json:"type"`
		Submenu []struct {
			ID      string `json:"id"`
			Checked bool   `json:"checked"`
			Enabled bool   `json:"enabled"`
		} `json:"submenu"`
	}

	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(decoded) != 1 || decoded[0].Type != menu.TypeSubmenu || len(decoded[0].Submenu) != 1 {
		t.Fatalf("unexpected tree JSON: %s", data)
	}

	if item := decoded[0].Submenu[0]; !item.Checked || item.Enabled {
		t.Fatalf("check and enabled state missing from JSON: %s", data)
	}
}

func TestLoadTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "menu.yml")
	yml := "items:\n  - id: file\n    label: File\n    submenu:\n      - id: open-recent\n        type: submenu\n"

	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("writing template: %v", err)
	}

	tmpl, err := menu.LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}

	builder, _ := menu.NewBuilder(tmpl)

	built, err := builder.Build(builder.BuildTemplate(nil, nil, []string{"/x.md"}))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if built.GetItemByID("recent-0") == nil {
		t.Fatal("custom template did not get the recent documents")
	}

	if _, err := menu.ParseTemplate([]byte("items: []\n")); !errors.Is(err, menu.ErrEmptyTemplate) {
		t.Fatalf("expected ErrEmptyTemplate, got %v", err)
	}
}
