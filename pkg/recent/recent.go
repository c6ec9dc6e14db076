// Package recent keeps the list of recently used documents and its on-disk copy.
// The list is bounded, most-recent-first and never holds the same path twice.
// Loading drops paths that no longer exist, repeats of a path, and anything past
// MaxDocuments.
// Nothing in this package locks; callers run it from a single goroutine.
package recent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// MaxDocuments is how many documents the list holds.
	MaxDocuments = 12
	// FileName is the name of the persisted list inside the data directory.
	FileName = "recently-used-documents.json"

	defaultFileMode = 0o644
	defaultDirMode  = 0o755
)

// Logs is the logging interface this package uses.
type Logs interface {
	Printf(msg string, v ...any)
	Errorf(msg string, v ...any)
	Debugf(msg string, v ...any)
}

// Native is an operating system's own recent documents facility.
// When OwnsList returns true the store keeps no list of its own.
type Native interface {
	AddRecentDocument(path string)
	ClearRecentDocuments()
	OwnsList() bool
}

// Config is the input to New.
type Config struct {
	// DataDir is the per-user directory the list is stored in.
	DataDir  string
	FileMode os.FileMode
	DirMode  os.FileMode
	// Native may be nil.
	Native Native
	Logger Logs
}

// Store holds the recently used documents. Create one with New.
type Store struct {
	file     string
	fileMode os.FileMode
	dirMode  os.FileMode
	native   Native
	log      Logs
	list     []string
	loaded   bool
	// disk is the file content last read or written by this store.
	disk []byte
	// OnChange is called with the new list after every persisted change.
	// The menu coordinator hooks in here to rebuild every window menu.
	OnChange func(list []string)
}

// New returns a store for the list in config.DataDir. Nothing is read until List is called.
func New(config *Config) *Store {
	store := &Store{
		file:     filepath.Join(config.DataDir, FileName),
		fileMode: config.FileMode,
		dirMode:  config.DirMode,
		native:   config.Native,
		log:      config.Logger,
		list:     []string{},
	}

	if store.fileMode == 0 {
		store.fileMode = defaultFileMode
	}

	if store.dirMode == 0 {
		store.dirMode = defaultDirMode
	}

	if store.log == nil {
		store.log = &discard{}
	}

	return store
}

// Path returns the location of the persisted list.
func (s *Store) Path() string {
	return s.file
}

// List returns a copy of the current list, loading it from disk on first use.
func (s *Store) List() []string {
	if !s.loaded {
		s.load()
	}

	return append([]string{}, s.list...)
}

// Reload drops the in-memory list and reads it from disk again.
func (s *Store) Reload() []string {
	s.load()
	return s.List()
}

// Add moves path to the front of the list, or inserts it there.
// The list is only written when its order or membership changes.
func (s *Store) Add(path string) error {
	if s.native != nil {
		s.native.AddRecentDocument(path)

		if s.native.OwnsList() {
			return nil
		}
	}

	list := s.List()

	idx := indexOf(list, path)
	if idx == 0 {
		return nil
	}

	if idx > 0 {
		list = append(list[:idx], list[idx+1:]...)
	}

	list = append([]string{path}, list...)
	if len(list) > MaxDocuments {
		list = list[:MaxDocuments]
	}

	return s.replace(list)
}

// Clear empties the list, and the native facility if there is one.
func (s *Store) Clear() error {
	if s.native != nil {
		s.native.ClearRecentDocuments()
	}

	s.loaded = true

	return s.replace([]string{})
}

func (s *Store) replace(list []string) error {
	s.list = list

	if err := s.save(); err != nil {
		return err
	}

	if s.OnChange != nil {
		s.OnChange(s.List())
	}

	return nil
}

// load reads the persisted list. A missing or broken file becomes an empty list.
func (s *Store) load() {
	s.loaded = true
	s.list = []string{}

	data, err := os.ReadFile(s.file)
	if errors.Is(err, fs.ErrNotExist) {
		s.disk = nil
		return
	} else if err != nil {
		s.log.Errorf("Reading recent documents file %s: %v", s.file, err)
		return
	}

	s.disk = data

	var stored []string
	if err := json.Unmarshal(data, &stored); err != nil {
		s.log.Errorf("Parsing recent documents file %s: %v", s.file, err)
		return
	}

	var stale, repeats, excess int

	for _, path := range stored {
		switch {
		case !IsFile(path) && !IsDirectory(path):
			stale++
		case indexOf(s.list, path) >= 0:
			repeats++
		case len(s.list) == MaxDocuments:
			excess++
		default:
			s.list = append(s.list, path)
		}
	}

	if stale+repeats+excess > 0 {
		s.log.Debugf("Loaded %d recent documents from %s, dropped %d missing, %d repeated, %d over the limit",
			len(s.list), s.file, stale, repeats, excess)
	}
}

// ChangedOnDisk reports whether the file holds something other than what this
// store last read or wrote, meaning another process changed it.
func (s *Store) ChangedOnDisk() bool {
	if !s.loaded {
		return true
	}

	data, err := os.ReadFile(s.file)
	if errors.Is(err, fs.ErrNotExist) {
		return s.disk != nil
	} else if err != nil {
		return true
	}

	return !bytes.Equal(data, s.disk)
}

// save writes the list to a temp file and renames it over the real one.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.list, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding recent documents: %w", err)
	}

	dir := filepath.Dir(s.file)
	if err := EnsureDirectory(dir, s.dirMode); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+FileName+".*")
	if err != nil {
		return fmt.Errorf("writing recent documents: %w", err)
	}
	defer os.Remove(tmp.Name()) // fails harmlessly after the rename.

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing recent documents: %w", err)
	}

	if err := tmp.Chmod(s.fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("writing recent documents: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing recent documents: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.file); err != nil {
		return fmt.Errorf("replacing recent documents file: %w", err)
	}

	s.disk = data
	s.log.Debugf("Saved %d recent documents to %s", len(s.list), s.file)

	return nil
}

func indexOf(list []string, path string) int {
	for idx, item := range list {
		if item == path {
			return idx
		}
	}

	return -1
}

type discard struct{}

func (*discard) Printf(string, ...any) {}
func (*discard) Errorf(string, ...any) {}
func (*discard) Debugf(string, ...any) {}
