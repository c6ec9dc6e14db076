package scribemenu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/scribemenu/scribemenu/pkg/menu"
	"github.com/scribemenu/scribemenu/pkg/recent"
	"github.com/scribemenu/scribemenu/pkg/ui"
	flag "github.com/spf13/pflag"
	"golift.io/cnfg"
	"golift.io/rotatorr"
	"golift.io/version"
)

const (
	defaultFileMode    = 0o644
	defaultLogFileMode = 0o600
	defaultDirMode     = 0o755
	defaultLogStatus   = 10 * time.Minute
	minimumLogStatus   = 15 * time.Second
	minimumWatch       = 100 * time.Millisecond
	defaultLogFileMb   = 10
	defaultLogFiles    = 10
	workChanBuf        = 100 // Closures waiting for the control loop.
	reloadChanBuf      = 10
	appName            = "scribemenu"
	helpLink           = "Issues: https://github.com/scribemenu/scribemenu/issues" // prints on start and on exit.
	windows            = "windows"
)

// ErrStopped is returned when work is submitted after the control loop exited.
var ErrStopped = errors.New("control loop is not running")

// Scribemenu stores all the running data.
type Scribemenu struct {
	*Flags
	*Config
	*Logger
	store     *recent.Store
	menus     *menu.Coordinator
	native    *nativeRecent
	metrics   *metrics
	shortcuts map[int]map[string]string
	work      chan func()
	reload    chan string
	stopped   chan struct{}
	sigChan   chan os.Signal
	rotatorr  *rotatorr.Logger
	menu      map[string]ui.MenuItem
}

// Logger provides a struct we can pass into other packages.
type Logger struct {
	HTTP  *log.Logger
	Info  *log.Logger
	Error *log.Logger
	Debug *log.Logger
}

// Flags are our CLI input flags.
type Flags struct {
	verReq     bool
	dumpConf   bool
	ConfigFile string
	EnvPrefix  string
}

// New returns a Scribemenu struct full of defaults.
// An empty struct will surely cause you pain, so use this!
func New() *Scribemenu {
	return &Scribemenu{
		Flags:     &Flags{EnvPrefix: "SM"},
		work:      make(chan func(), workChanBuf),
		reload:    make(chan string, reloadChanBuf),
		stopped:   make(chan struct{}),
		sigChan:   make(chan os.Signal, 1),
		shortcuts: make(map[int]map[string]string),
		menu:      make(map[string]ui.MenuItem),
		Config: &Config{
			LogFiles:  defaultLogFiles,
			LogFileMb: defaultLogFileMb,
			LogStatus: cnfg.Duration{Duration: defaultLogStatus},
			Editor:    menu.DefaultPreferences(),
			Shortcuts: menu.Keybindings{},
			Webserver: &WebServer{
				Metrics:    false,
				LogFiles:   defaultLogFiles,
				LogFileMb:  defaultLogFileMb,
				ListenAddr: "127.0.0.1:5757",
				URLBase:    "/",
			},
		},
		Logger: &Logger{
			HTTP:  log.New(io.Discard, "", 0),
			Info:  log.New(io.Discard, "[INFO] ", log.LstdFlags),
			Error: log.New(io.Discard, "[ERROR] ", log.LstdFlags),
			Debug: log.New(io.Discard, "[DEBUG] ", log.Lshortfile|log.Lmicroseconds|log.Ldate),
		},
	}
}

// Start runs the app.
func Start() error {
	log.SetFlags(log.LstdFlags) // in case we throw an error for main.go before logging is setup.

	app := New().ParseFlags() // Grab CLI args (like config file location).
	if app.Flags.verReq {
		fmt.Println(version.Print(appName)) //nolint:forbidigo
		return nil                          // don't run anything else.
	}

	fileMode, dirMode, msg, err := app.unmarshalConfig()
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}

	if app.Flags.dumpConf {
		return app.dumpConfig(os.Stdout)
	}
	// We cannot log anything until setupLogging() runs.
	app.setupLogging()
	app.Printf("Scribemenu v%s-%s Starting! PID: %v, UID: %d, GID: %d, Now: %v",
		version.Version, version.Revision, os.Getpid(), os.Getuid(), os.Getgid(), version.Started.Round(time.Second))
	app.Debugf("%s", strings.Join(strings.Fields(strings.ReplaceAll(version.Print(appName), "\n", ", ")), " "))

	if err := app.setupMenus(os.FileMode(fileMode), os.FileMode(dirMode)); err != nil {
		return err
	}

	app.logStartupInfo(msg)

	if app.Webserver.Metrics {
		app.setupMetrics()
	}

	go app.startWebServer()

	app.watchConfigFile()
	app.startTray() // runs tray or waits for exit depending on hasGUI.

	return nil
}

// setupMenus creates the recent documents store and the window menu coordinator.
func (u *Scribemenu) setupMenus(fileMode, dirMode os.FileMode) error {
	var base *menu.Template

	if u.MenuFile != "" {
		var err error
		if base, err = menu.LoadTemplate(expandHomedir(u.MenuFile)); err != nil {
			return fmt.Errorf("menu file: %w", err)
		}
	}

	builder, err := menu.NewBuilder(base)
	if err != nil {
		return fmt.Errorf("menu template: %w", err)
	}

	config := &recent.Config{
		DataDir:  u.DataDir,
		FileMode: fileMode,
		DirMode:  dirMode,
		Logger:   u.Logger,
	}

	if u.native == nil {
		u.native = u.newNativeRecent()
	}

	// Leave config.Native a nil interface when there is no native facility.
	if u.native != nil {
		config.Native = u.native
	}

	u.store = recent.New(config)
	u.store.OnChange = u.recentChanged
	u.menus = menu.NewCoordinator(&menu.Config{
		Builder:   builder,
		Recent:    documentList(u.recentList),
		Settings:  u.Config,
		Installer: u,
		Registrar: u,
		Logger:    u.Logger,
	})

	return nil
}

// ParseFlags turns CLI args into usable data.
func (u *Scribemenu) ParseFlags() *Scribemenu {
	flag.Usage = func() {
		fmt.Println("Usage: scribemenu [--config=filepath] [--dump] [--version]") //nolint:forbidigo
		flag.PrintDefaults()
	}

	flag.StringVarP(&u.Flags.ConfigFile, "config", "c", os.Getenv("SM_CONFIG_FILE"), "Config File (TOML Format)")
	flag.StringVarP(&u.Flags.EnvPrefix, "prefix", "p", "SM", "Environment Variable Prefix")
	flag.BoolVarP(&u.Flags.dumpConf, "dump", "d", false, "Print the effective config as TOML and exit.")
	flag.BoolVarP(&u.Flags.verReq, "version", "v", false, "Print the version and exit.")
	flag.Parse()

	return u // so you can chain into unmarshalConfig.
}

// Run is the control loop. Every recent document and window menu operation runs here.
func (u *Scribemenu) Run(ctx context.Context) {
	defer close(u.stopped)

	status := time.NewTicker(u.Config.LogStatus.Duration)
	defer status.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-u.work:
			// HTTP requests and tray clicks.
			fn()
		case name := <-u.reload:
			// The config file or the recent documents file changed.
			u.fileChanged(name)
		case <-status.C:
			u.logStatus()
		}
	}
}

// do runs fn on the control loop and waits for it to finish.
func (u *Scribemenu) do(fn func()) error {
	done := make(chan struct{})

	select {
	case u.work <- func() { defer close(done); fn() }:
	case <-u.stopped:
		return ErrStopped
	}

	select {
	case <-done:
		return nil
	case <-u.stopped:
		return ErrStopped
	}
}
