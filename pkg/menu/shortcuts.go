package menu

// ParseShortcuts maps each accelerator in the template to the action it triggers.
// The action is the item's Action, or its id when Action is empty.
// Disabled items, separators and submenu headers are skipped; the first item
// to claim an accelerator keeps it.
func ParseShortcuts(tmpl *Template) map[string]string {
	shortcuts := make(map[string]string)

	tmpl.Walk(func(item *ItemTemplate) {
		switch {
		case item.Accelerator == "", item.Disabled:
			return
		case item.Type == TypeSeparator, item.Type == TypeSubmenu, len(item.Submenu) > 0:
			return
		}

		if _, ok := shortcuts[item.Accelerator]; ok {
			return
		}

		if shortcuts[item.Accelerator] = item.Action; item.Action == "" {
			shortcuts[item.Accelerator] = item.ID
		}
	})

	return shortcuts
}
