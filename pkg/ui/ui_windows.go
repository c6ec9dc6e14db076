package ui

import (
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

var hasGUI = os.Getenv("USEGUI") != "false" //nolint:gochecknoglobals

// HasGUI returns false on Linux, true on Windows and optional on macOS.
func HasGUI() bool {
	return hasGUI
}

// StartCmd starts a command without a console window.
func StartCmd(c string, v ...string) error {
	cmd := exec.Command(c, v...) //nolint:noctx
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}

	return cmd.Start() //nolint:wrapcheck
}

// OpenCmd opens anything.
func OpenCmd(cmd ...string) error {
	return StartCmd("cmd", append([]string{"/c", "start", ""}, cmd...)...)
}

// OpenURL opens URL Links.
func OpenURL(url string) error {
	return OpenCmd(strings.ReplaceAll(url, "&", "^&"))
}

// OpenLog opens Log Files.
func OpenLog(logFile string) error {
	return OpenCmd("PowerShell", "Get-Content", "-Tail", "1000", "-Wait", "-Encoding", "utf8", "-Path", logFile)
}

// OpenFile opens a document or config file in its default application.
func OpenFile(filePath string) error {
	return OpenCmd(filePath)
}
