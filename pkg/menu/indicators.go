package menu

// The indicator setters change check marks on the visible menu only.
// Without a visible menu they do nothing and return false.

// SetLineEndingIndicator checks the CRLF or LF item.
func (c *Coordinator) SetLineEndingIndicator(lineEnding string) bool {
	menu := c.indicatorMenu("line ending")
	if menu == nil {
		return false
	}

	setChecked(menu, LineEndingCRLF, lineEnding == CRLF)
	setChecked(menu, LineEndingLF, lineEnding == LF)

	return true
}

// SetAutoSaveIndicator sets the auto save check mark.
func (c *Coordinator) SetAutoSaveIndicator(autoSave bool) bool {
	menu := c.indicatorMenu("auto save")
	if menu == nil {
		return false
	}

	setChecked(menu, AutoSave, autoSave)

	return true
}

// SetThemeIndicator clears every theme item then checks the one for theme.
func (c *Coordinator) SetThemeIndicator(theme string) bool {
	menu := c.indicatorMenu("theme")
	if menu == nil {
		return false
	}

	for _, name := range Themes {
		setChecked(menu, ThemeItemID(name), false)
	}

	setChecked(menu, ThemeItemID(theme), true)

	return true
}

// SetAlwaysOnTopIndicator sets the always on top check mark.
func (c *Coordinator) SetAlwaysOnTopIndicator(onTop bool) bool {
	menu := c.indicatorMenu("always on top")
	if menu == nil {
		return false
	}

	setChecked(menu, AlwaysOnTop, onTop)

	return true
}

func (c *Coordinator) indicatorMenu(name string) Menu {
	menu := c.visible()
	if menu == nil {
		c.Logger.Debugf("Not setting %s indicator: no visible menu", name)
	}

	return menu
}
