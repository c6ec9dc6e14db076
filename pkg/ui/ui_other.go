//go:build !windows && !darwin

package ui

import (
	"io"
	"os/exec"
)

// HasGUI returns false on Linux, true on Windows and optional on macOS.
func HasGUI() bool {
	return false
}

// StartCmd starts a command.
func StartCmd(c string, v ...string) error {
	cmd := exec.Command(c, v...) //nolint:noctx
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	return cmd.Start() //nolint:wrapcheck
}

// OpenCmd hands anything to xdg-open.
func OpenCmd(cmd ...string) error {
	return StartCmd("xdg-open", cmd...)
}

// OpenURL opens URL Links.
func OpenURL(url string) error {
	return OpenCmd(url)
}

// OpenLog opens Log Files.
func OpenLog(logFile string) error {
	return OpenCmd(logFile)
}

// OpenFile opens a document or config file in its default application.
func OpenFile(filePath string) error {
	return OpenCmd(filePath)
}
