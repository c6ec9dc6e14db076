package scribemenu

import (
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	apachelog "github.com/lestrrat-go/apache-logformat/v2"
)

const webserverTimeout = 10 * time.Second

// WebServer is the control API and metrics listener config.
type WebServer struct {
	Metrics    bool   `json:"metrics" toml:"metrics" xml:"metrics" yaml:"metrics"`
	ListenAddr string `json:"listenAddr" toml:"listen_addr" xml:"listen_addr" yaml:"listenAddr"`
	LogFile    string `json:"logFile" toml:"log_file" xml:"log_file" yaml:"logFile"`
	LogFiles   int    `json:"logFiles" toml:"log_files" xml:"log_files" yaml:"logFiles"`
	LogFileMb  int    `json:"logFileMb" toml:"log_file_mb" xml:"log_file_mb" yaml:"logFileMb"`
	URLBase    string `json:"urlbase" toml:"urlbase" xml:"urlbase" yaml:"urlbase"`
}

func (u *Scribemenu) logWebserver() {
	if u.Webserver == nil || u.Webserver.ListenAddr == "" {
		u.Printf(" => Control API: disabled")
		return
	}

	u.Printf(" => Control API: http://%s%s (metrics: %v)", u.Webserver.ListenAddr,
		u.Webserver.URLBase, u.Webserver.Metrics)

	if u.Webserver.LogFile != "" {
		u.Printf(" => Access Log: %s (%d @ %dMb)", u.Webserver.LogFile, u.Webserver.LogFiles, u.Webserver.LogFileMb)
	}
}

func (u *Scribemenu) startWebServer() {
	if u.Webserver == nil || u.Webserver.ListenAddr == "" {
		return
	}

	addr := u.Webserver.ListenAddr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	apache, _ := apachelog.New(`%{X-Forwarded-For}i %h %l %u %t "%r" %>s %b "%{Referer}i" "%{User-agent}i" %{ms}Tms`)

	srv := &http.Server{
		Addr:              addr,
		Handler:           apache.Wrap(u.newRouter(), u.Logger.HTTP.Writer()),
		ReadTimeout:       webserverTimeout,
		ReadHeaderTimeout: webserverTimeout,
		WriteTimeout:      webserverTimeout,
		IdleTimeout:       webserverTimeout,
		ErrorLog:          u.Logger.Error,
	}

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		u.Errorf("Web server failed: %v", err)
	}
}

// newRouter returns the control API routes below the configured URL base.
func (u *Scribemenu) newRouter() *httprouter.Router {
	base := "/"
	if u.Webserver != nil && u.Webserver.URLBase != "" {
		base = u.Webserver.URLBase
	}

	api := func(p string) string { return path.Join(base, "api", p) }
	router := httprouter.New()

	router.GET(path.Join(base, "/"), Index)
	router.GET(api("recent"), u.handleListRecent)
	router.POST(api("recent"), u.handleAddRecent)
	router.DELETE(api("recent"), u.handleClearRecent)
	router.GET(api("windows"), u.handleListWindows)
	router.PUT(api("windows/:id"), u.handleCreateWindow)
	router.DELETE(api("windows/:id"), u.handleDestroyWindow)
	router.POST(api("windows/:id/activate"), u.handleActivateWindow)
	router.GET(api("windows/:id/shortcuts"), u.handleShortcuts)
	router.GET(api("menu"), u.handleVisibleMenu)
	router.GET(api("menu/items/:item"), u.handleMenuItem)
	router.POST(api("menus/rebuild"), u.handleRebuild)
	router.PUT(api("indicators/:name"), u.handleIndicator)

	if u.metrics != nil {
		router.Handler(http.MethodGet, path.Join(base, "metrics"), u.metricsHandler())
	}

	return router
}

// Index answers on the URL base so the front-end can tell the service is up.
func Index(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"app": appName})
}
