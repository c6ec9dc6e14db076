//go:build windows || darwin

package scribemenu

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/getlantern/systray"
	"github.com/hako/durafmt"
	"github.com/scribemenu/scribemenu/pkg/recent"
	"github.com/scribemenu/scribemenu/pkg/ui"
	"github.com/scribemenu/scribemenu/pkg/update"
	"golift.io/version"
)

const githubRepo = "scribemenu/scribemenu"

// startTray runs the control loop, and the tray when we have a GUI.
func (u *Scribemenu) startTray() {
	ctx, cancel := context.WithCancel(context.Background())

	if !ui.HasGUI() {
		go u.Run(ctx)

		signal.Notify(u.sigChan, os.Interrupt, syscall.SIGTERM)
		u.Printf("[Scribemenu] Need help? %s\n=====> Exiting! Caught Signal: %v", helpLink, <-u.sigChan)
		cancel()
		<-u.stopped

		return
	}

	systray.Run(func() { u.readyTray(ctx) }, func() { u.exitTray(cancel) })
}

// newNativeRecent returns the tray's recent documents list. macOS owns it.
func (u *Scribemenu) newNativeRecent() *nativeRecent {
	if !ui.HasGUI() {
		return nil
	}

	return newNative(runtime.GOOS == "darwin", u.updateRecentTray)
}

func (u *Scribemenu) exitTray(cancel context.CancelFunc) {
	cancel()
	<-u.stopped
	os.Exit(0)
}

// readyTray creates the system tray/menu bar app items, and starts the control loop.
func (u *Scribemenu) readyTray(ctx context.Context) {
	systray.SetTitle("SM")
	systray.SetTooltip("Scribemenu v" + version.Version)
	u.makeChannels()

	u.menu["info"].Disable()

	signal.Notify(u.sigChan, os.Interrupt, syscall.SIGTERM)

	go u.watchKillerChannels()
	go u.Run(ctx)

	// Windows mirrors the store, so fill the tray from it.
	if !u.native.OwnsList() {
		_ = u.do(func() { u.native.Set(u.store.List()) })
	}

	for idx := range recent.MaxDocuments {
		go u.watchRecentClicks(idx)
	}

	u.watchGuiChannels()
}

func (u *Scribemenu) makeChannels() {
	u.makeRecentChannels()

	conf := systray.AddMenuItem("Config", "show configuration")
	u.menu["conf"] = ui.WrapMenu(conf)
	u.menu["edit"] = ui.WrapMenu(conf.AddSubMenuItem("Edit", "open configuration file"))

	link := systray.AddMenuItem("Links", "external resources")
	u.menu["link"] = ui.WrapMenu(link)
	u.menu["info"] = ui.WrapMenu(link.AddSubMenuItem("Scribemenu", version.Print(appName)))
	u.menu["gh"] = ui.WrapMenu(link.AddSubMenuItem("GitHub Project", "Scribemenu on GitHub"))

	logs := systray.AddMenuItem("Logs", "log file info")
	u.menu["logs"] = ui.WrapMenu(logs)
	u.menu["logs_view"] = ui.WrapMenu(logs.AddSubMenuItem("View", "view the application log"))
	u.menu["logs_rotate"] = ui.WrapMenu(logs.AddSubMenuItem("Rotate", "rotate log file"))

	if u.Config.LogFile == "" {
		u.menu["logs_view"].Disable()
		u.menu["logs_rotate"].Disable()
	}

	u.menu["update"] = ui.WrapMenu(systray.AddMenuItem("Update", "Check GitHub for Update"))
	u.menu["exit"] = ui.WrapMenu(systray.AddMenuItem("Quit", "Exit Scribemenu"))
}

func (u *Scribemenu) makeRecentChannels() {
	open := systray.AddMenuItem("Open Recent", "recently used documents")
	u.menu["recent"] = ui.WrapMenu(open)
	u.menu["recent_none"] = ui.WrapMenu(open.AddSubMenuItem("-- no recent documents --", "nothing opened yet"))
	u.menu["recent_none"].Disable()

	for i := range recent.MaxDocuments {
		u.menu["recent_"+strconv.Itoa(i)] = ui.WrapMenu(open.AddSubMenuItem("", ""))
		u.menu["recent_"+strconv.Itoa(i)].Hide()
	}

	u.menu["recent_clear"] = ui.WrapMenu(systray.AddMenuItem("Clear Recent", "forget recently used documents"))
}

// updateRecentTray is the native list's refresh hook. items has one entry per slot.
func (u *Scribemenu) updateRecentTray(items []string) {
	empty := true

	for idx, item := range items {
		slot := u.menu["recent_"+strconv.Itoa(idx)]
		if slot == nil {
			return // tray is not up yet.
		}

		if item == "" {
			slot.Hide()
			continue
		}

		empty = false

		slot.SetTitle(item)
		slot.SetTooltip("open " + item)
		slot.Show()
	}

	if empty {
		u.menu["recent_none"].Show()
		u.menu["recent_clear"].Disable()
	} else {
		u.menu["recent_none"].Hide()
		u.menu["recent_clear"].Enable()
	}
}

func (u *Scribemenu) watchRecentClicks(idx int) {
	for range u.menu["recent_"+strconv.Itoa(idx)].Clicked() {
		var path string
		if err := u.do(func() {
			if path = u.native.items[idx]; path != "" {
				_ = u.addRecentDocument(path)
			}
		}); err != nil || path == "" {
			continue
		}

		u.Printf("User Opening Recent Document: %s", path)

		if err := ui.OpenFile(path); err != nil {
			u.Errorf("Opening %s: %v", path, err)
		}
	}
}

func (u *Scribemenu) watchGuiChannels() {
	for {
		select {
		case <-u.menu["conf"].Clicked():
			// does nothing on purpose
		case <-u.menu["edit"].Clicked():
			u.Printf("User Editing Config File: %s", u.Flags.ConfigFile)
			_ = ui.OpenFile(u.Flags.ConfigFile)
		case <-u.menu["link"].Clicked():
			// does nothing on purpose
		case <-u.menu["info"].Clicked():
			// does nothing on purpose
		case <-u.menu["gh"].Clicked():
			_ = ui.OpenURL("https://github.com/" + githubRepo + "/")
		case <-u.menu["recent"].Clicked():
			// does nothing on purpose
		case <-u.menu["recent_clear"].Clicked():
			u.Printf("User Requested: Clear Recent Documents")
			_ = u.do(func() { _ = u.clearRecentDocuments() })
		case <-u.menu["logs"].Clicked():
			// does nothing on purpose
		case <-u.menu["logs_view"].Clicked():
			u.Printf("User Viewing Log File: %s", u.Config.LogFile)
			_ = ui.OpenLog(u.Config.LogFile)
		case <-u.menu["logs_rotate"].Clicked():
			u.rotateLogs()
		case <-u.menu["update"].Clicked():
			u.checkForUpdate()
		}
	}
}

func (u *Scribemenu) watchKillerChannels() {
	defer systray.Quit() // this kills the app

	select {
	case sigc := <-u.sigChan:
		u.Printf("Need help? %s\n=====> Exiting! Caught Signal: %v", helpLink, sigc)
	case <-u.menu["exit"].Clicked():
		u.Printf("Need help? %s\n=====> Exiting! User Requested", helpLink)
	}
}

func (u *Scribemenu) checkForUpdate() {
	u.Printf("User Requested: Update Check")

	switch update, err := update.Check(context.Background(), githubRepo, version.Version); {
	case err != nil:
		u.Errorf("Update Check: %v", err)
		_, _ = ui.Error("Scribemenu", "Failure checking version on GitHub: %v", err)
	case update.Outdate:
		yes, _ := ui.Question("Scribemenu", false, "An Update is available! Download?\n\n"+
			"Your Version: %s\nNew Version: %s\nDate: %s (%s ago)", update.Version, update.Current,
			update.RelDate.Format("Jan 2, 2006"), durafmt.Parse(time.Since(update.RelDate).Round(time.Hour)))
		if yes {
			_ = ui.OpenURL(update.CurrURL)
		}
	default:
		_, _ = ui.Info("Scribemenu", "You're up to date! Version: %s\nUpdated: %s (%s ago)", update.Version,
			update.RelDate.Format("Jan 2, 2006"), durafmt.Parse(time.Since(update.RelDate).Round(time.Hour)))
	}
}
