package scribemenu

/* Send stderr (application panics) to the log file. */

import (
	"os"
	"syscall"
)

//nolint:gochecknoglobals
var (
	kernel    = syscall.MustLoadDLL("kernel32.dll")
	setHandle = kernel.MustFindProc("SetStdHandle")
)

func redirectStderr(file *os.File) {
	os.Stderr = file
	stderr := syscall.STD_ERROR_HANDLE //nolint:nosnakecase
	_, _, _ = setHandle.Call(uintptr(stderr), file.Fd())
}
