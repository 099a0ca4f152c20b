// Package project handles walter.toml project configuration.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"
	"github.com/xyproto/env/v2"
)

// FileName is the manifest file name.
const FileName = "walter.toml"

// Defaults for unset [build] keys.
const (
	DefaultEntry    = "src/main.rl"
	DefaultBuildDir = "build"
	DefaultCC       = "clang"
)

// Environment variables that override the manifest.
const (
	EnvCC       = "WALTER_CC"
	EnvRuntime  = "WALTER_RUNTIME"
	EnvBuildDir = "WALTER_BUILD_DIR"
)

var log = commonlog.GetLogger("walter.project")

// ErrNotFound is returned by FindAndLoad when no manifest exists.
var ErrNotFound = errors.New("no " + FileName + " found")

// Manifest represents a walter.toml project configuration.
type Manifest struct {
	Project Project `toml:"project"`
	Build   Build   `toml:"build"`

	// Dir is the directory containing walter.toml (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Build configures compilation and linking.
type Build struct {
	Entry        string `toml:"entry"`
	Dir          string `toml:"dir"`
	CC           string `toml:"cc"`
	Runtime      string `toml:"runtime,omitempty"` // libstd C or object file; embedded copy if empty
	NoStd        bool   `toml:"no-std,omitempty"`
	EmitAssembly bool   `toml:"emit-assembly,omitempty"`
}

// New returns the manifest of a fresh project called name in dir.
func New(dir, name string) *Manifest {
	m := &Manifest{
		Project: Project{Name: name, Version: "0.0.1"},
		Dir:     dir,
	}
	m.setDefaults()
	return m
}

func (m *Manifest) setDefaults() {
	if m.Build.Entry == "" {
		m.Build.Entry = DefaultEntry
	}
	if m.Build.Dir == "" {
		m.Build.Dir = DefaultBuildDir
	}
	if m.Build.CC == "" {
		m.Build.CC = DefaultCC
	}
}

// Load parses the walter.toml file in dir and applies defaults and
// environment overrides.
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
	if m.Project.Name == "" {
		return nil, fmt.Errorf("%s: [project] name is required", path)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	m.setDefaults()
	m.ApplyEnv()

	log.Debugf("loaded %s: project %s %s", path, m.Project.Name, m.Project.Version)
	return &m, nil
}

// FindAndLoad walks up from startDir to the nearest walter.toml and loads
// it. It returns ErrNotFound if there is none.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("%w in %s or any parent directory", ErrNotFound, startDir)
		}
		dir = parent
	}
}

// ApplyEnv overrides build settings from WALTER_CC, WALTER_RUNTIME and
// WALTER_BUILD_DIR.
func (m *Manifest) ApplyEnv() {
	m.applyOverrides(func(name string) string { return env.Str(name) })
}

func (m *Manifest) applyOverrides(get func(string) string) {
	for _, o := range []struct {
		name string
		dst  *string
	}{
		{EnvCC, &m.Build.CC},
		{EnvRuntime, &m.Build.Runtime},
		{EnvBuildDir, &m.Build.Dir},
	} {
		if v := get(o.name); v != "" {
			log.Debugf("%s overrides build setting: %s", o.name, v)
			*o.dst = v
		}
	}
}

// Save writes m to walter.toml in m.Dir.
func (m *Manifest) Save() error {
	path := filepath.Join(m.Dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return f.Close()
}

// EntryPath returns the absolute path of the entry source file.
func (m *Manifest) EntryPath() string {
	return m.abs(m.Build.Entry)
}

// BuildDir returns the root build directory.
func (m *Manifest) BuildDir() string {
	return m.abs(m.Build.Dir)
}

// OutputDir returns the directory for artifacts of one build mode.
func (m *Manifest) OutputDir(release bool) string {
	if release {
		return filepath.Join(m.BuildDir(), "release")
	}
	return filepath.Join(m.BuildDir(), "debug")
}

// Artifact returns the path of an intermediate file with the given
// extension, such as "ll", "s" or "o".
func (m *Manifest) Artifact(release bool, ext string) string {
	return filepath.Join(m.OutputDir(release), m.Project.Name+".reddit."+ext)
}

// Executable returns the path of the linked program.
func (m *Manifest) Executable(release bool) string {
	return filepath.Join(m.OutputDir(release), m.Project.Name)
}

// RuntimePath returns the configured libstd path, or "" for the
// embedded copy.
func (m *Manifest) RuntimePath() string {
	if m.Build.Runtime == "" {
		return ""
	}
	return m.abs(m.Build.Runtime)
}

// Clean removes the build directory.
func (m *Manifest) Clean() error {
	dir := m.BuildDir()
	log.Infof("removing %s", dir)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("cannot remove %s: %w", dir, err)
	}
	return nil
}

func (m *Manifest) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}
