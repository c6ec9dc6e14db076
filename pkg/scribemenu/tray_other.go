//go:build !windows && !darwin

package scribemenu

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// startTray runs the control loop until a signal arrives. There is no tray here.
func (u *Scribemenu) startTray() {
	ctx, cancel := context.WithCancel(context.Background())
	go u.Run(ctx)

	signal.Notify(u.sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	u.Printf("[Scribemenu] Need help? %s\n=====> Exiting! Caught Signal: %v", helpLink, <-u.sigChan)
	cancel()
	<-u.stopped
}

// newNativeRecent returns nil; this platform has no recent documents facility.
func (u *Scribemenu) newNativeRecent() *nativeRecent {
	return nil
}
