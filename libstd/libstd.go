// Package libstd embeds the C source of the runtime linked into every
// executable.
package libstd

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name the source is written under.
const FileName = "libstd.c"

// Source is the libstd C source.
//
//go:embed csrc/libstd.c
var Source []byte

// WriteTo writes the source into dir and returns its path.
func WriteTo(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, Source, 0o644); err != nil {
		return "", fmt.Errorf("libstd: %w", err)
	}
	return path, nil
}
