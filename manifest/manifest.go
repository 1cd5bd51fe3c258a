// Package manifest handles basic.toml project configuration.
package manifest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the manifest file.
const FileName = "basic.toml"

// DefaultStorePath is where the image store lives when the manifest does
// not say otherwise.
const DefaultStorePath = ".basic/images.db"

// Manifest represents a basic.toml project configuration.
type Manifest struct {
	Project Project `toml:"project"`
	Run     Run     `toml:"run"`
	Store   Store   `toml:"store"`
	Log     Log     `toml:"log"`

	// Dir is the directory containing the basic.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name  string `toml:"name"`
	Entry string `toml:"entry,omitempty"` // image file or store name run by default
}

// Run configures program execution.
type Run struct {
	Trace      bool              `toml:"trace"`
	MaxHistory int               `toml:"max-history"`
	Env        map[string]string `toml:"env,omitempty"` // set before the program starts
}

// Store configures the image store.
type Store struct {
	Path string `toml:"path"`
}

// Log configures logging.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file,omitempty"`
}

// Default returns the configuration used when no basic.toml exists. Paths
// are relative to the working directory.
func Default() *Manifest {
	m := &Manifest{Dir: "."}
	m.applyDefaults()
	return m
}

func (m *Manifest) applyDefaults() {
	if m.Run.MaxHistory == 0 {
		m.Run.MaxHistory = 100
	}
	if m.Store.Path == "" {
		m.Store.Path = DefaultStorePath
	}
}

// Load parses a basic.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if m.Run.MaxHistory < 0 {
		return nil, fmt.Errorf("%s: run.max-history must not be negative", path)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	m.applyDefaults()

	return &m, nil
}

// FindAndLoad walks up from startDir to find a basic.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// resolve makes a configured path absolute against the manifest directory.
func (m *Manifest) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.Dir, path)
}

// EntryPath returns the entry as a path, or "" when none is configured.
func (m *Manifest) EntryPath() string {
	return m.resolve(m.Project.Entry)
}

// StorePath returns the path of the image store database.
func (m *Manifest) StorePath() string {
	return m.resolve(m.Store.Path)
}

// LogPath returns the log file path, or "" for stderr.
func (m *Manifest) LogPath() string {
	return m.resolve(m.Log.File)
}

// Encode writes the manifest back out as TOML.
func (m *Manifest) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(m)
}
