//go:build !linux && !windows

package scribemenu

import (
	"os"
	"syscall"
)

func redirectStderr(file *os.File) {
	os.Stderr = file
	_ = syscall.Dup2(int(file.Fd()), syscall.Stderr)
}
