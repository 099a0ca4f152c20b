package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// MainTemplate is the entry file of a new project.
const MainTemplate = `// Start here.
print("Hello, world!")
`

// Scaffold creates a project called after dir's base name: dir itself
// (which must be missing or empty), walter.toml and the entry file.
func Scaffold(dir string) (*Manifest, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", dir, err)
	}
	if len(entries) > 0 {
		return nil, fmt.Errorf("%s exists and is not empty", dir)
	}

	m := New(dir, filepath.Base(dir))
	log.Infof("creating %s at %s", m.Project.Name, dir)

	entry := m.EntryPath()
	if err := os.MkdirAll(filepath.Dir(entry), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", filepath.Dir(entry), err)
	}
	if err := os.WriteFile(entry, []byte(MainTemplate), 0o644); err != nil {
		return nil, fmt.Errorf("cannot write %s: %w", entry, err)
	}
	if err := m.Save(); err != nil {
		return nil, err
	}
	return m, nil
}
