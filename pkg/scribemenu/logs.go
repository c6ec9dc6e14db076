package scribemenu

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"code.cloudfoundry.org/bytefmt"
	"github.com/scribemenu/scribemenu/pkg/recent"
	"golift.io/rotatorr"
	"golift.io/rotatorr/timerotator"
)

// satisfy gomnd.
const (
	callDepth   = 2 // log the line that called us.
	megabyte    = 1024 * 1024
	logsDirMode = 0o755
)

// Debugf writes Debug log lines... to stdout and/or a file.
func (l *Logger) Debugf(msg string, v ...any) {
	err := l.Debug.Output(callDepth, fmt.Sprintf(msg, v...))
	if err != nil {
		fmt.Println("Logger Error:", err) //nolint:forbidigo
	}
}

// Printf writes log lines... to stdout and/or a file.
func (l *Logger) Printf(msg string, v ...any) {
	err := l.Info.Output(callDepth, fmt.Sprintf(msg, v...))
	if err != nil {
		fmt.Println("Logger Error:", err) //nolint:forbidigo
	}
}

// Errorf writes log errors... to stdout and/or a file.
func (l *Logger) Errorf(msg string, v ...any) {
	err := l.Error.Output(callDepth, fmt.Sprintf(msg, v...))
	if err != nil {
		fmt.Println("Logger Error:", err) //nolint:forbidigo
	}
}

// logStatus prints the number of windows and documents we track. Runs on the control loop.
func (u *Scribemenu) logStatus() {
	active, ok := u.menus.ActiveWindow()
	activeMsg := "none"

	if ok {
		activeMsg = fmt.Sprint(active)
	}

	u.Printf("[Scribemenu] Windows: %d, active: %s, recent documents: %d",
		len(u.menus.Windows()), activeMsg, len(u.store.List()))

	if u.rotatorr != nil && u.rotatorr.File != nil {
		if stat, err := u.rotatorr.File.Stat(); err == nil {
			u.Debugf("[Scribemenu] Log file %s: %s", u.Config.LogFile, bytefmt.ByteSize(uint64(stat.Size()))) //nolint:gosec
		}
	}
}

// setupLogging splits log write into a file and/or stdout.
func (u *Scribemenu) setupLogging() {
	if u.Config.Debug {
		u.Logger.Info.SetFlags(log.Lshortfile | log.Lmicroseconds | log.Ldate)
		u.Logger.Error.SetFlags(log.Lshortfile | log.Lmicroseconds | log.Ldate)
	}

	logFile := expandHomedir(u.Config.LogFile)

	if logFile != "" {
		u.rotatorr = rotatorr.NewMust(&rotatorr.Config{
			Filepath: logFile,                              // log file name.
			FileSize: int64(u.Config.LogFileMb) * megabyte, // megabytes
			Rotatorr: &timerotator.Layout{
				FileCount:  u.Config.LogFiles, // number of files to keep.
				PostRotate: u.postLogRotate,
			},
			DirMode: logsDirMode,
		})
	}

	stderr := os.Stdout
	if u.ErrorStdErr {
		stderr = os.Stderr
	}

	switch { // only use MultiWriter if we have > 1 writer.
	case !u.Config.Quiet && logFile != "":
		u.updateLogOutput(io.MultiWriter(u.rotatorr, os.Stdout), io.MultiWriter(u.rotatorr, stderr))
	case !u.Config.Quiet && logFile == "":
		u.updateLogOutput(os.Stdout, stderr)
	case logFile == "":
		u.updateLogOutput(io.Discard, io.Discard) // default is "nothing"
	default:
		u.updateLogOutput(u.rotatorr, u.rotatorr)
	}
}

func (u *Scribemenu) updateLogOutput(writer io.Writer, errors io.Writer) {
	if u.Webserver != nil && u.Webserver.LogFile != "" {
		u.setupHTTPLogging()
	} else {
		u.Logger.HTTP.SetOutput(writer)
	}

	if u.Config.Debug {
		u.Logger.Debug.SetOutput(writer)
	}

	log.SetOutput(errors) // catch out-of-scope garbage
	u.Logger.Info.SetOutput(writer)
	u.Logger.Error.SetOutput(errors)
	u.postLogRotate("", "")
}

func (u *Scribemenu) setupHTTPLogging() {
	logFile := expandHomedir(u.Webserver.LogFile)
	rotate := &rotatorr.Config{
		Filepath: logFile,
		FileSize: int64(u.Webserver.LogFileMb) * megabyte,
		Rotatorr: &timerotator.Layout{FileCount: u.Webserver.LogFiles},
		DirMode:  logsDirMode,
	}

	if u.Config.Quiet {
		u.Logger.HTTP.SetOutput(rotatorr.NewMust(rotate))
	} else {
		u.Logger.HTTP.SetOutput(io.MultiWriter(rotatorr.NewMust(rotate), os.Stdout))
	}
}

// rotateLogs is wired to the tray's Logs -> Rotate item.
func (u *Scribemenu) rotateLogs() {
	if u.rotatorr == nil {
		return
	}

	u.Printf("User Requested: Rotate Log File!")

	if _, err := u.rotatorr.Rotate(); err != nil {
		u.Errorf("Rotating Log Files: %v", err)
	}
}

func (u *Scribemenu) postLogRotate(_, newFile string) {
	if newFile != "" {
		go u.Printf("Rotated log file to: %s", newFile)
	}

	if u.rotatorr != nil && u.rotatorr.File != nil {
		redirectStderr(u.rotatorr.File) // Log panics.
	}
}

// logStartupInfo prints info about our startup config.
func (u *Scribemenu) logStartupInfo(msg string) {
	u.Printf("==> %s <==", helpLink)
	u.Printf("==> Startup Settings <==")
	u.Printf(" => %s", msg)
	u.Printf(" => Recent Documents: %s (max %d)", u.store.Path(), recent.MaxDocuments)
	u.Printf(" => Native Recent Documents: %v", u.native != nil)

	if u.MenuFile != "" {
		u.Printf(" => Menu Template: %s", u.MenuFile)
	}

	u.Printf(" => Theme / Line Ending: %s / %s", u.Editor.Theme, u.Editor.EndOfLine)
	u.Printf(" => Keybinding Overrides: %d", len(u.Shortcuts))
	u.Printf(" => Status Interval: %v", u.Config.LogStatus)
	u.Printf(" => Debug / Quiet: %v / %v", u.Config.Debug, u.Config.Quiet)

	if u.Config.Watch.Duration > 0 {
		u.Printf(" => Config Poll Interval: %v", u.Config.Watch)
	}

	if runtime.GOOS != windows {
		u.Printf(" => Directory & File Modes: %s & %s", u.Config.DirMode, u.Config.FileMode)
	}

	if u.Config.LogFile != "" {
		msg := "no rotation"
		if u.Config.LogFiles > 0 {
			msg = fmt.Sprintf("%d @ %s", u.Config.LogFiles,
				bytefmt.ByteSize(uint64(u.Config.LogFileMb)*megabyte)) //nolint:gosec
		}

		u.Printf(" => Log File: %s (%s)", u.Config.LogFile, msg)
	}

	u.logWebserver()
}
