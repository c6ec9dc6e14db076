package menu

// Menu item ids the coordinator and the template builder look for.
const (
	SourceCodeMode = "source-code-mode"
	TypewriterMode = "typewriter-mode"
	FocusMode      = "focus-mode"
	SideBar        = "sidebar"
	TabBar         = "tab-bar"
	AutoSave       = "auto-save"
	AlwaysOnTop    = "always-on-top"
	LineEndingCRLF = "line-ending-crlf"
	LineEndingLF   = "line-ending-lf"
	OpenRecent     = "open-recent"
	ClearRecent    = "clear-recent"
	RecentNone     = "recent-none"
	themePrefix    = "theme-"
	recentPrefix   = "recent-"
)

// Actions emitted for recent document items.
const (
	ActionOpenRecent  = "open-recent-document"
	ActionClearRecent = "clear-recently-used-documents"
)

// Line endings.
const (
	CRLF = "crlf"
	LF   = "lf"
)

// Themes lists every theme in the theme radio group.
//
//nolint:gochecknoglobals
var Themes = []string{"light", "dark", "graphite", "material-dark", "one-dark", "ulysses"}

// ThemeItemID returns the menu item id for a theme name.
func ThemeItemID(theme string) string {
	return themePrefix + theme
}

// ValidTheme returns true if theme is in Themes.
func ValidTheme(theme string) bool {
	for _, name := range Themes {
		if name == theme {
			return true
		}
	}

	return false
}
