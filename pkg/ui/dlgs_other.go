//go:build !windows && !darwin

package ui

// Error does nothing without a GUI.
func Error(_, _ string, _ ...any) (bool, error) {
	return true, nil
}

// Info does nothing without a GUI.
func Info(_, _ string, _ ...any) (bool, error) {
	return true, nil
}

// Question answers yes without a GUI.
func Question(_ string, _ bool, _ string, _ ...any) (bool, error) {
	return true, nil
}
