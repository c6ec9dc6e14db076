package scribemenu

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
	"github.com/radovskyb/watcher"
)

// configWatcher sends changes to the config file and the recent documents file
// to the control loop. fsnotify watches their directories because editors and
// our own saves replace files with a rename. The poller is for file systems
// where fsnotify gets no events.
type configWatcher struct {
	files    map[string]bool
	fsnotify *fsnotify.Watcher
	poller   *watcher.Watcher
	send     func(name string)
	Logs
}

// Logs is the logging interface the watcher uses.
type Logs interface {
	Printf(msg string, v ...any)
	Errorf(msg string, v ...any)
	Debugf(msg string, v ...any)
}

func (u *Scribemenu) watchConfigFile() {
	files := []string{u.store.Path()}
	if u.Flags.ConfigFile != "" {
		files = append(files, u.Flags.ConfigFile)
	}

	cw, err := newConfigWatcher(files, u.sendReload, u.Logger)
	if err != nil {
		u.Errorf("Watching files: %v", err)
		return
	}

	go cw.watch()
	u.Printf("[Watcher] Watching (fsnotify): %v", files)

	if u.Config.Watch.Duration < minimumWatch {
		return
	}

	go func() {
		if err := cw.poller.Start(u.Config.Watch.Duration); err != nil {
			u.Errorf("File poller stopped: %v", err)
		}
	}()
	u.Printf("[Watcher] Polling @ %v: %v", u.Config.Watch, files)
}

// sendReload never blocks the watcher. A full channel already has a reload pending.
func (u *Scribemenu) sendReload(name string) {
	select {
	case u.reload <- name:
	default:
	}
}

func newConfigWatcher(files []string, send func(string), log Logs) (*configWatcher, error) {
	cw := &configWatcher{
		files:  make(map[string]bool),
		poller: watcher.New(),
		send:   send,
		Logs:   log,
	}

	cw.poller.FilterOps(watcher.Rename, watcher.Move, watcher.Write, watcher.Create)

	fsn, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}

	cw.fsnotify = fsn
	dirs := make(map[string]bool)

	for _, file := range files {
		file = filepath.Clean(file)
		cw.files[file] = true

		if err := cw.poller.Add(file); err != nil {
			// The recent documents file may not exist yet.
			log.Debugf("File '%s' (cannot poll): %v", file, err)
		}

		if dir := filepath.Dir(file); !dirs[dir] {
			dirs[dir] = true

			if err := fsn.Add(dir); err != nil {
				log.Errorf("Folder '%s' (cannot watch): %v", dir, err)
			}
		}
	}

	return cw, nil
}

// watch runs in its own go routine until the fsnotify watcher is closed.
func (c *configWatcher) watch() {
	defer c.Printf("[Watcher] File watcher routine exited.")

	for {
		select {
		case err := <-c.poller.Error:
			c.Errorf("watcher: %v", err)
		case err := <-c.fsnotify.Errors:
			c.Errorf("fsnotify: %v", err)
		case event, ok := <-c.fsnotify.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				c.handle(event.Name, "f "+event.Op.String())
			}
		case event := <-c.poller.Event:
			c.handle(event.Path, "w "+event.Op.String())
		case <-c.poller.Closed:
			return
		}
	}
}

func (c *configWatcher) handle(name, operation string) {
	name = filepath.Clean(name)
	if !c.files[name] {
		return
	}

	c.Debugf("[Watcher] %s: %s", operation, name)
	c.send(name)
}

func (c *configWatcher) Close() {
	c.poller.Close()
	_ = c.fsnotify.Close()
}

// fileChanged runs on the control loop. Events caused by our own saves are
// ignored; reloading then would drop documents that are not on disk yet.
func (u *Scribemenu) fileChanged(name string) {
	if name == filepath.Clean(u.store.Path()) {
		if !u.store.ChangedOnDisk() {
			u.Debugf("[Watcher] Ignoring our own write: %s", name)
			return
		}

		before := u.store.List()
		if after := u.store.Reload(); !slices.Equal(before, after) {
			u.Printf("Recent documents file changed on disk, %d documents", len(after))
			u.recentChanged(after)
		}

		return
	}

	u.reloadSettings()
}
