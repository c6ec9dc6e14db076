package scribemenu

import (
	"os"
	"syscall"
)

func redirectStderr(file *os.File) {
	os.Stderr = file
	_ = syscall.Dup3(int(file.Fd()), syscall.Stderr, 0)
}
