package scribemenu

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/scribemenu/scribemenu/pkg/menu"
)

// Errors returned by the control API.
var (
	ErrBadWindowID  = errors.New("window id must be a number")
	ErrNoPath       = errors.New("path is required")
	ErrNoMenu       = errors.New("no menu is visible")
	ErrNoItem       = errors.New("menu item not found")
	ErrBadIndicator = errors.New("unknown indicator")
	ErrBadValue     = errors.New("invalid indicator value")
)

// Indicator names accepted by PUT /api/indicators/:name.
const (
	IndicatorLineEnding  = "line-ending"
	IndicatorAutoSave    = "auto-save"
	IndicatorTheme       = "theme"
	IndicatorAlwaysOnTop = "always-on-top"
)

const maxBody = 64 * 1024

type pathRequest struct {
	Path string `json:"path"`
}

type indicatorRequest struct {
	Value json.RawMessage `json:"value"`
}

type windowsReply struct {
	Windows []int `json:"windows"`
	Active  *int  `json:"active"`
}

type itemReply struct {
	ID      string `json:"id"`
	Checked bool   `json:"checked"`
	Enabled bool   `json:"enabled"`
}

func (u *Scribemenu) handleListRecent(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	var list []string

	u.reply(w, u.do(func() { list = u.recentList() }), list)
}

func (u *Scribemenu) handleAddRecent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req pathRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	} else if req.Path == "" {
		writeError(w, http.StatusBadRequest, ErrNoPath)
		return
	}

	var (
		list []string
		err  error
	)

	doErr := u.do(func() {
		if err = u.addRecentDocument(req.Path); err == nil {
			list = u.recentList()
		}
	})

	u.reply(w, errors.Join(doErr, err), list)
}

func (u *Scribemenu) handleClearRecent(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	var err error

	doErr := u.do(func() { err = u.clearRecentDocuments() })
	u.reply(w, errors.Join(doErr, err), []string{})
}

func (u *Scribemenu) handleListWindows(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	reply := &windowsReply{}

	err := u.do(func() {
		reply.Windows = u.menus.Windows()
		if id, ok := u.menus.ActiveWindow(); ok {
			reply.Active = &id
		}
	})

	u.reply(w, err, reply)
}

func (u *Scribemenu) handleCreateWindow(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	windowID, err := windowParam(p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	shortcuts, _ := strconv.ParseBool(r.URL.Query().Get("shortcuts"))

	var createErr error

	doErr := u.do(func() { createErr = u.createWindow(windowID, shortcuts) })
	u.reply(w, errors.Join(doErr, createErr), map[string]int{"window": windowID})
}

func (u *Scribemenu) handleDestroyWindow(w http.ResponseWriter, _ *http.Request, p httprouter.Params) {
	windowID, err := windowParam(p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	u.reply(w, u.do(func() { u.destroyWindow(windowID) }), map[string]int{"window": windowID})
}

func (u *Scribemenu) handleActivateWindow(w http.ResponseWriter, _ *http.Request, p httprouter.Params) {
	windowID, err := windowParam(p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var actErr error

	doErr := u.do(func() { actErr = u.menus.ActivateWindow(windowID) })
	u.reply(w, errors.Join(doErr, actErr), map[string]int{"window": windowID})
}

func (u *Scribemenu) handleShortcuts(w http.ResponseWriter, _ *http.Request, p httprouter.Params) {
	windowID, err := windowParam(p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var (
		shortcuts map[string]string
		scErr     error
	)

	doErr := u.do(func() { shortcuts, scErr = u.menus.Shortcuts(windowID) })
	if shortcuts == nil {
		shortcuts = map[string]string{}
	}

	u.reply(w, errors.Join(doErr, scErr), shortcuts)
}

func (u *Scribemenu) handleVisibleMenu(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	var data []byte

	err := u.do(func() {
		visible := u.menus.VisibleMenu()
		if visible == nil {
			return
		}

		var jsonErr error
		if data, jsonErr = json.Marshal(visible); jsonErr != nil {
			u.Errorf("Encoding visible menu: %v", jsonErr)
		}
	})

	switch {
	case err != nil:
		u.reply(w, err, nil)
	case data == nil:
		writeError(w, http.StatusNotFound, ErrNoMenu)
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func (u *Scribemenu) handleMenuItem(w http.ResponseWriter, _ *http.Request, p httprouter.Params) {
	var (
		reply  *itemReply
		itemID = p.ByName("item")
	)

	err := u.do(func() {
		if item := u.menus.GetMenuItemByID(itemID); item != nil {
			reply = &itemReply{ID: itemID, Checked: item.Checked(), Enabled: !item.Disabled()}
		}
	})

	switch {
	case err != nil:
		u.reply(w, err, nil)
	case reply == nil:
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", ErrNoItem, itemID))
	default:
		writeJSON(w, http.StatusOK, reply)
	}
}

func (u *Scribemenu) handleRebuild(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	var err error

	doErr := u.do(func() {
		if err = u.menus.RebuildAllMenus(); err == nil {
			u.countRebuild()
		}
	})

	u.reply(w, errors.Join(doErr, err), map[string]bool{"rebuilt": err == nil})
}

func (u *Scribemenu) handleIndicator(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var req indicatorRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	set, err := indicatorSetter(u.menus, p.ByName("name"), req.Value)
	if errors.Is(err, ErrBadIndicator) {
		writeError(w, http.StatusNotFound, err)
		return
	} else if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var applied bool

	u.reply(w, u.do(func() { applied = set() }), map[string]bool{"applied": applied})
}

// indicatorSetter decodes value for the named indicator and returns the call to make.
func indicatorSetter(menus *menu.Coordinator, name string, value json.RawMessage) (func() bool, error) {
	var (
		text string
		flag bool
	)

	switch name {
	case IndicatorLineEnding:
		if err := json.Unmarshal(value, &text); err != nil || (text != menu.LF && text != menu.CRLF) {
			return nil, fmt.Errorf("%w: %s wants lf or crlf", ErrBadValue, name)
		}

		return func() bool { return menus.SetLineEndingIndicator(text) }, nil
	case IndicatorTheme:
		if err := json.Unmarshal(value, &text); err != nil || !menu.ValidTheme(text) {
			return nil, fmt.Errorf("%w: %s wants one of %v", ErrBadValue, name, menu.Themes)
		}

		return func() bool { return menus.SetThemeIndicator(text) }, nil
	case IndicatorAutoSave, IndicatorAlwaysOnTop:
		if err := json.Unmarshal(value, &flag); err != nil {
			return nil, fmt.Errorf("%w: %s wants true or false", ErrBadValue, name)
		}

		if name == IndicatorAutoSave {
			return func() bool { return menus.SetAutoSaveIndicator(flag) }, nil
		}

		return func() bool { return menus.SetAlwaysOnTopIndicator(flag) }, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrBadIndicator, name)
	}
}

// reply maps err to a status code, or writes data.
func (u *Scribemenu) reply(w http.ResponseWriter, err error, data any) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, data)
	case errors.Is(err, ErrStopped):
		writeError(w, http.StatusServiceUnavailable, err)
	case errors.Is(err, menu.ErrNoWindowMenu):
		writeError(w, http.StatusNotFound, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func windowParam(p httprouter.Params) (int, error) {
	windowID, err := strconv.Atoi(p.ByName("id"))
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrBadWindowID, p.ByName("id"))
	}

	return windowID, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
