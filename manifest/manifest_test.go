package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "hello"
entry = "build/hello.img"

[run]
trace = true
max-history = 20
env = { GREETING = "hi" }

[store]
path = "/var/lib/basic/images.db"

[log]
verbosity = 2
file = "basic.log"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Project.Name != "hello" {
		t.Errorf("project name = %q, want hello", m.Project.Name)
	}
	if !m.Run.Trace {
		t.Error("run trace = false, want true")
	}
	if m.Run.MaxHistory != 20 {
		t.Errorf("run max-history = %d, want 20", m.Run.MaxHistory)
	}
	if got := m.Run.Env["GREETING"]; got != "hi" {
		t.Errorf("run env GREETING = %q, want hi", got)
	}
	if m.Log.Verbosity != 2 {
		t.Errorf("log verbosity = %d, want 2", m.Log.Verbosity)
	}
	if got, want := m.EntryPath(), filepath.Join(dir, "build", "hello.img"); got != want {
		t.Errorf("EntryPath() = %q, want %q", got, want)
	}
	if got := m.StorePath(); got != "/var/lib/basic/images.db" {
		t.Errorf("StorePath() = %q, want the absolute path unchanged", got)
	}
	if got, want := m.LogPath(), filepath.Join(dir, "basic.log"); got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "minimal"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Run.MaxHistory != 100 {
		t.Errorf("default max-history = %d, want 100", m.Run.MaxHistory)
	}
	if got, want := m.StorePath(), filepath.Join(dir, ".basic", "images.db"); got != want {
		t.Errorf("StorePath() = %q, want %q", got, want)
	}
	if m.EntryPath() != "" || m.LogPath() != "" {
		t.Errorf("EntryPath/LogPath = %q/%q, want empty", m.EntryPath(), m.LogPath())
	}
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "cannot read") {
		t.Errorf("missing file: err = %v", err)
	}

	writeManifest(t, dir, "[project\nname = ")
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Errorf("bad syntax: err = %v", err)
	}

	writeManifest(t, dir, "[run]\nmax-history = -1\n")
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "max-history") {
		t.Errorf("negative history: err = %v", err)
	}
}

func TestFindAndLoad(t *testing.T) {
	dir := t.TempDir()
	subDir := filepath.Join(dir, "src", "games", "space")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeManifest(t, dir, `[project]
name = "lunar-lander"
`)

	m, err := FindAndLoad(subDir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if m.Project.Name != "lunar-lander" {
		t.Errorf("project name = %q, want lunar-lander", m.Project.Name)
	}
	if abs, _ := filepath.Abs(dir); m.Dir != abs {
		t.Errorf("Dir = %q, want %q", m.Dir, abs)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	m, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if m != nil {
		t.Error("expected nil manifest when no basic.toml exists")
	}
}

func TestDefault(t *testing.T) {
	m := Default()
	if m.Run.MaxHistory != 100 || m.Store.Path != DefaultStorePath {
		t.Errorf("Default() = %+v", m)
	}
	if got := m.StorePath(); got != filepath.Join(".", DefaultStorePath) {
		t.Errorf("StorePath() = %q", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	m := Default()
	m.Project.Name = "round"
	m.Run.Env = map[string]string{"A": "1"}

	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dir := t.TempDir()
	writeManifest(t, dir, buf.String())

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v\n%s", err, buf.String())
	}
	if loaded.Project.Name != "round" || loaded.Run.Env["A"] != "1" {
		t.Errorf("loaded = %+v", loaded)
	}
	if strings.Contains(buf.String(), "Dir") {
		t.Errorf("encoded manifest contains Dir:\n%s", buf.String())
	}
}
