package scribemenu

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hako/durafmt"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/scribemenu/scribemenu/examples"
	"github.com/scribemenu/scribemenu/pkg/menu"
	"golift.io/cnfg"
	"golift.io/cnfgfile"
)

const (
	msgNoConfigFile = "Using env variables only. Config file not found."
	msgConfigFailed = "Using env variables only. Could not create config file: "
	msgConfigCreate = "Created new config file: "
	msgConfigFound  = "Using Config File: "
)

// Config validation errors.
var (
	ErrInvalidTheme      = errors.New("unknown theme")
	ErrInvalidLineEnding = errors.New("line ending must be lf or crlf")
)

//nolint:gochecknoglobals
var durafmtUnits, _ = durafmt.DefaultUnitsCoder.Decode("year,week,day,hour,min,sec,ms:ms,µs:µs")

// Config defines the configuration data used to start the application.
//
//nolint:lll
type Config struct {
	Debug       bool              `json:"debug" toml:"debug" xml:"debug" yaml:"debug"`
	Quiet       bool              `json:"quiet" toml:"quiet" xml:"quiet" yaml:"quiet"`
	ErrorStdErr bool              `json:"errorStderr" toml:"error_stderr" xml:"error_stderr" yaml:"errorStderr"`
	LogFile     string            `json:"logFile" toml:"log_file" xml:"log_file" yaml:"logFile"`
	LogFiles    int               `json:"logFiles" toml:"log_files" xml:"log_files" yaml:"logFiles"`
	LogFileMb   int               `json:"logFileMb" toml:"log_file_mb" xml:"log_file_mb" yaml:"logFileMb"`
	DataDir     string            `json:"dataDir" toml:"data_dir" xml:"data_dir" yaml:"dataDir"`
	MenuFile    string            `json:"menuFile" toml:"menu_file" xml:"menu_file" yaml:"menuFile"`
	FileMode    string            `json:"fileMode" toml:"file_mode" xml:"file_mode" yaml:"fileMode"`
	DirMode     string            `json:"dirMode" toml:"dir_mode" xml:"dir_mode" yaml:"dirMode"`
	LogStatus   cnfg.Duration     `json:"logStatus" toml:"log_status" xml:"log_status" yaml:"logStatus"`
	Watch       cnfg.Duration     `json:"watch" toml:"watch_interval" xml:"watch_interval" yaml:"watch"`
	Editor      *menu.Preferences `json:"editor" toml:"editor" xml:"editor" yaml:"editor"`
	Shortcuts   menu.Keybindings  `json:"keybindings" toml:"keybindings" xml:"-" yaml:"keybindings"`
	Webserver   *WebServer        `json:"webserver" toml:"webserver" xml:"webserver" yaml:"webserver"`
}

// Keybindings satisfies menu.Settings.
func (c *Config) Keybindings() menu.Keybindings {
	return c.Shortcuts
}

// Preferences satisfies menu.Settings.
func (c *Config) Preferences() *menu.Preferences {
	return c.Editor
}

func (u *Scribemenu) unmarshalConfig() (uint64, uint64, string, error) {
	var configFile, msg string

	// Load up the default file path and a list of alternate paths.
	def, cfl := configFileLocactions()
	// Search for one, starting with the default.
	for _, configFile = range append([]string{u.Flags.ConfigFile}, cfl...) {
		configFile = expandHomedir(configFile)
		if _, err := os.Stat(configFile); err == nil {
			break // found one, bail out.
		}

		configFile = ""
	}

	// it's possible to get here with or without a file found.
	msg = msgNoConfigFile

	if configFile != "" {
		u.Flags.ConfigFile, _ = filepath.Abs(configFile)
		msg = msgConfigFound + u.Flags.ConfigFileWithAge()

		if err := cnfgfile.Unmarshal(u.Config, u.Flags.ConfigFile); err != nil {
			return 0, 0, msg, fmt.Errorf("config file: %w", err)
		}
	} else if f, err := u.createConfigFile(def); err != nil {
		msg = msgConfigFailed + err.Error()
	} else if f != "" {
		u.Flags.ConfigFile = f
		msg = msgConfigCreate + u.Flags.ConfigFileWithAge()
	}

	if _, err := cnfg.UnmarshalENV(u.Config, u.Flags.EnvPrefix); err != nil {
		return 0, 0, msg, fmt.Errorf("environment variables: %w", err)
	}

	fileMode, dirMode, err := u.validateConfig()

	return fileMode, dirMode, msg, err
}

// ConfigFileWithAge returns the config file path and how long ago it was modified.
func (f *Flags) ConfigFileWithAge() string {
	stat, err := os.Stat(f.ConfigFile)
	if err != nil {
		return f.ConfigFile + ", unknown age"
	}

	age := durafmt.Parse(time.Since(stat.ModTime())).LimitFirstN(3) //nolint:mnd

	return f.ConfigFile + ", age: " + age.Format(durafmtUnits)
}

func configFileLocactions() (string, []string) {
	switch runtime.GOOS {
	case windows:
		return `~\.scribemenu\scribemenu.conf`, []string{
			`~\.scribemenu\scribemenu.conf`,
			`C:\ProgramData\scribemenu\scribemenu.conf`,
			`.\scribemenu.conf`,
		}
	case "darwin":
		return "~/.scribemenu/scribemenu.conf", []string{
			"~/.scribemenu/scribemenu.conf",
			"/usr/local/etc/scribemenu/scribemenu.conf",
			"./scribemenu.conf",
		}
	default:
		return "~/.config/scribemenu/scribemenu.conf", []string{
			"~/.config/scribemenu/scribemenu.conf",
			"/etc/scribemenu/scribemenu.conf",
			"./scribemenu.conf",
		}
	}
}

// defaultDataDir is the per-user application data directory.
func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, appName)
	}

	return expandHomedir(filepath.Join("~", "."+appName))
}

// validateConfig makes sure config file values are ok. Returns file and dir modes.
func (u *Scribemenu) validateConfig() (uint64, uint64, error) {
	const (
		base = 8
		bits = 32
	)

	fileMode, err := strconv.ParseUint(u.FileMode, base, bits)
	if err != nil || u.FileMode == "" {
		fileMode = defaultFileMode
		u.FileMode = strconv.FormatUint(fileMode, base)
	}

	dirMode, err := strconv.ParseUint(u.DirMode, base, bits)
	if err != nil || u.DirMode == "" {
		dirMode = defaultDirMode
		u.DirMode = strconv.FormatUint(dirMode, base)
	}

	if u.DataDir == "" {
		u.DataDir = defaultDataDir()
	} else {
		u.DataDir = expandHomedir(u.DataDir)
	}

	if u.LogStatus.Duration < minimumLogStatus {
		u.LogStatus.Duration = minimumLogStatus
	}

	if u.Watch.Duration != 0 && u.Watch.Duration < minimumWatch {
		u.Watch.Duration = minimumWatch
	}

	if u.ErrorStdErr && runtime.GOOS == windows {
		u.ErrorStdErr = false // no stderr on windows
	}

	if u.Webserver == nil {
		u.Webserver = &WebServer{}
	}

	if u.Webserver.URLBase == "" {
		u.Webserver.URLBase = "/"
	}

	if u.Shortcuts == nil {
		u.Shortcuts = menu.Keybindings{}
	}

	return fileMode, dirMode, validatePreferences(u.Config)
}

// validatePreferences fills in missing editor preferences and rejects bad ones.
func validatePreferences(config *Config) error {
	if config.Editor == nil {
		config.Editor = menu.DefaultPreferences()
	}

	if config.Editor.Theme == "" {
		config.Editor.Theme = menu.DefaultPreferences().Theme
	} else if !menu.ValidTheme(config.Editor.Theme) {
		return fmt.Errorf("%w: %s", ErrInvalidTheme, config.Editor.Theme)
	}

	switch config.Editor.EndOfLine {
	case "":
		config.Editor.EndOfLine = menu.DefaultPreferences().EndOfLine
	case menu.LF, menu.CRLF:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLineEnding, config.Editor.EndOfLine)
	}

	return nil
}

// createConfigFile writes the example config file to file, if file is not empty.
func (u *Scribemenu) createConfigFile(file string) (string, error) {
	if file == "" {
		return "", nil
	}

	file, err := filepath.Abs(expandHomedir(file))
	if err != nil {
		return "", fmt.Errorf("absolute file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(file), defaultDirMode); err != nil {
		return "", fmt.Errorf("making config dir: %w", err)
	}

	if err := os.WriteFile(file, examples.ConfigFile, defaultLogFileMode); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	if err := cnfgfile.Unmarshal(u.Config, file); err != nil {
		return file, fmt.Errorf("config file: %w", err)
	}

	return file, nil
}

// reloadSettings reads the editor preferences and keybindings from the config
// file again and rebuilds every window menu with them. Runs on the control loop.
func (u *Scribemenu) reloadSettings() {
	if u.Flags.ConfigFile == "" {
		return
	}

	// Preferences the file leaves out keep their defaults.
	config := &Config{Editor: menu.DefaultPreferences(), Shortcuts: menu.Keybindings{}}
	if err := cnfgfile.Unmarshal(config, u.Flags.ConfigFile); err != nil {
		u.Errorf("Reloading config file %s: %v", u.Flags.ConfigFile, err)
		return
	}

	if _, err := cnfg.UnmarshalENV(config, u.Flags.EnvPrefix); err != nil {
		u.Errorf("Reloading environment variables: %v", err)
		return
	}

	if err := validatePreferences(config); err != nil {
		u.Errorf("Reloading config file %s: %v", u.Flags.ConfigFile, err)
		return
	}

	u.Config.Editor = config.Editor
	u.Config.Shortcuts = config.Shortcuts

	if u.Config.Shortcuts == nil {
		u.Config.Shortcuts = menu.Keybindings{}
	}

	u.Printf("Config file changed, rebuilding window menus: %s", u.Flags.ConfigFile)

	if err := u.menus.RebuildAllMenus(); err != nil {
		u.Errorf("Rebuilding window menus: %v", err)
		return
	}

	u.countRebuild()
}

// dumpConfig writes the effective config as TOML.
func (u *Scribemenu) dumpConfig(output io.Writer) error {
	if err := toml.NewEncoder(output).Encode(u.Config); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}

// expandHomedir expands a ~ to a homedir, or returns the original path in case of any error.
func expandHomedir(filePath string) string {
	expanded, err := homedir.Expand(filePath)
	if err != nil {
		return filePath
	}

	return expanded
}
