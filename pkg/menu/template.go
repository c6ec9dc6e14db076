package menu

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed menus.yml
var baseTemplate []byte

// Item types.
const (
	TypeNormal    = "normal"
	TypeCheckbox  = "checkbox"
	TypeRadio     = "radio"
	TypeSeparator = "separator"
	TypeSubmenu   = "submenu"
)

// ErrEmptyTemplate is returned when a template file has no items.
var ErrEmptyTemplate = errors.New("menu template has no items")

// Template is the declarative description of an application menu.
type Template struct {
	Items []*ItemTemplate `yaml:"items"`
}

// ItemTemplate describes one menu item and its children.
type ItemTemplate struct {
	ID          string          `yaml:"id"`
	Label       string          `yaml:"label"`
	Type        string          `yaml:"type"`
	Accelerator string          `yaml:"accelerator,omitempty"`
	Action      string          `yaml:"action,omitempty"`
	Checked     bool            `yaml:"checked,omitempty"`
	Disabled    bool            `yaml:"disabled,omitempty"`
	Submenu     []*ItemTemplate `yaml:"submenu,omitempty"`
}

// Keybindings maps menu item ids to accelerators. An empty accelerator removes the shortcut.
type Keybindings map[string]string

// Preferences are the user settings that decide check marks in a fresh menu.
//
//nolint:lll
type Preferences struct {
	Theme          string `json:"theme" toml:"theme" xml:"theme" yaml:"theme"`
	EndOfLine      string `json:"endOfLine" toml:"end_of_line" xml:"end_of_line" yaml:"endOfLine"`
	AutoSave       bool   `json:"autoSave" toml:"auto_save" xml:"auto_save" yaml:"autoSave"`
	AlwaysOnTop    bool   `json:"alwaysOnTop" toml:"always_on_top" xml:"always_on_top" yaml:"alwaysOnTop"`
	SideBarVisible bool   `json:"sideBarVisible" toml:"sidebar_visible" xml:"sidebar_visible" yaml:"sideBarVisible"`
	TabBarVisible  bool   `json:"tabBarVisible" toml:"tabbar_visible" xml:"tabbar_visible" yaml:"tabBarVisible"`
}

// DefaultPreferences returns the preferences used when none are configured.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Theme:         "light",
		EndOfLine:     LF,
		TabBarVisible: true,
	}
}

// DefaultTemplate parses the embedded base menu.
func DefaultTemplate() (*Template, error) {
	return ParseTemplate(baseTemplate)
}

// LoadTemplate reads a base menu from a YAML file.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading menu template: %w", err)
	}

	return ParseTemplate(data)
}

// ParseTemplate decodes a YAML menu template.
func ParseTemplate(data []byte) (*Template, error) {
	tmpl := &Template{}
	if err := yaml.Unmarshal(data, tmpl); err != nil {
		return nil, fmt.Errorf("decoding menu template: %w", err)
	}

	if len(tmpl.Items) == 0 {
		return nil, ErrEmptyTemplate
	}

	return tmpl, nil
}

// Clone returns a deep copy of the template.
func (t *Template) Clone() *Template {
	return &Template{Items: cloneItems(t.Items)}
}

// Find returns the first item with the id, depth first, or nil.
func (t *Template) Find(id string) *ItemTemplate {
	return findItem(t.Items, id)
}

// Walk calls fn for every item, parents before children.
func (t *Template) Walk(fn func(item *ItemTemplate)) {
	walkItems(t.Items, fn)
}

func cloneItems(items []*ItemTemplate) []*ItemTemplate {
	if items == nil {
		return nil
	}

	out := make([]*ItemTemplate, len(items))

	for idx, item := range items {
		dup := *item
		dup.Submenu = cloneItems(item.Submenu)
		out[idx] = &dup
	}

	return out
}

func findItem(items []*ItemTemplate, id string) *ItemTemplate {
	for _, item := range items {
		if item.ID == id {
			return item
		}

		if found := findItem(item.Submenu, id); found != nil {
			return found
		}
	}

	return nil
}

func walkItems(items []*ItemTemplate, fn func(item *ItemTemplate)) {
	for _, item := range items {
		fn(item)
		walkItems(item.Submenu, fn)
	}
}

// TemplateBuilder turns the base template into window menus. It satisfies Builder.
type TemplateBuilder struct {
	base *Template
}

var _ = Builder(&TemplateBuilder{})

// NewBuilder returns a builder for base. A nil base uses the embedded template.
func NewBuilder(base *Template) (*TemplateBuilder, error) {
	if base == nil {
		var err error
		if base, err = DefaultTemplate(); err != nil {
			return nil, err
		}
	}

	return &TemplateBuilder{base: base}, nil
}

// BuildTemplate returns a copy of the base template with the keybindings,
// preference check marks and the recent documents submenu filled in.
func (b *TemplateBuilder) BuildTemplate(keys Keybindings, prefs *Preferences, recent []string) *Template {
	if prefs == nil {
		prefs = DefaultPreferences()
	}

	tmpl := b.base.Clone()

	tmpl.Walk(func(item *ItemTemplate) {
		if accel, ok := keys[item.ID]; ok && item.ID != "" {
			item.Accelerator = accel
		}
	})

	setTemplateChecked(tmpl, AutoSave, prefs.AutoSave)
	setTemplateChecked(tmpl, AlwaysOnTop, prefs.AlwaysOnTop)
	setTemplateChecked(tmpl, SideBar, prefs.SideBarVisible)
	setTemplateChecked(tmpl, TabBar, prefs.TabBarVisible)
	setTemplateChecked(tmpl, LineEndingCRLF, prefs.EndOfLine == CRLF)
	setTemplateChecked(tmpl, LineEndingLF, prefs.EndOfLine != CRLF)

	for _, theme := range Themes {
		setTemplateChecked(tmpl, ThemeItemID(theme), theme == prefs.Theme)
	}

	if item := tmpl.Find(OpenRecent); item != nil {
		item.Submenu = recentItems(recent)
	}

	return tmpl
}

// Build turns a template into a menu tree.
func (b *TemplateBuilder) Build(tmpl *Template) (Menu, error) {
	tree, err := NewTree(tmpl)
	if err != nil {
		return nil, err
	}

	return tree, nil
}

func setTemplateChecked(tmpl *Template, id string, checked bool) {
	if item := tmpl.Find(id); item != nil {
		item.Checked = checked
	}
}

func recentItems(recent []string) []*ItemTemplate {
	if len(recent) == 0 {
		return []*ItemTemplate{
			{ID: RecentNone, Label: "No Recent Documents", Type: TypeNormal, Disabled: true},
			{Type: TypeSeparator},
			{ID: ClearRecent, Label: "Clear Recently Used", Action: ActionClearRecent, Disabled: true},
		}
	}

	items := make([]*ItemTemplate, 0, len(recent)+2) //nolint:mnd // separator and clear.

	for idx, path := range recent {
		items = append(items, &ItemTemplate{
			ID:     recentPrefix + strconv.Itoa(idx),
			Label:  path,
			Type:   TypeNormal,
			Action: ActionOpenRecent,
		})
	}

	return append(items,
		&ItemTemplate{Type: TypeSeparator},
		&ItemTemplate{ID: ClearRecent, Label: "Clear Recently Used", Action: ActionClearRecent},
	)
}
