package driver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/you-not-fish/redditlang/internal/project"
	"github.com/you-not-fish/redditlang/libstd"
)

// BuildOptions configures Build.
type BuildOptions struct {
	Mode Mode

	// ShowIR, if set, receives a copy of the generated IR.
	ShowIR io.Writer

	// Assembly and NoStd override the manifest when set.
	Assembly bool
	NoStd    bool
}

// Artifacts lists the files a build produced.
type Artifacts struct {
	IR         string
	Object     string // .o, or .s when assembling
	Executable string
}

// Build compiles the manifest's entry file into an executable under its
// build directory.
func Build(ctx context.Context, m *project.Manifest, opts BuildOptions) (*Artifacts, error) {
	entry := m.EntryPath()
	src, err := os.ReadFile(entry)
	if err != nil {
		return nil, fmt.Errorf("cannot read entry file: %w", err)
	}

	u, err := Compile(entry, src, Options{Mode: opts.Mode})
	if err != nil {
		return nil, err
	}

	outDir := m.OutputDir(opts.Mode == Release)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", outDir, err)
	}

	var ir bytes.Buffer
	if err := EmitIR(&ir, u); err != nil {
		return nil, err
	}
	if opts.ShowIR != nil {
		if _, err := opts.ShowIR.Write(ir.Bytes()); err != nil {
			return nil, err
		}
	}

	art := &Artifacts{
		IR:         m.Artifact(opts.Mode == Release, "ll"),
		Executable: m.Executable(opts.Mode == Release),
	}
	if err := os.WriteFile(art.IR, ir.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("cannot write %s: %w", art.IR, err)
	}

	tc := &Toolchain{CC: m.Build.CC, Release: opts.Mode == Release}
	asm := opts.Assembly || m.Build.EmitAssembly
	if asm {
		art.Object = m.Artifact(opts.Mode == Release, "s")
	} else {
		art.Object = m.Artifact(opts.Mode == Release, "o")
	}
	if err := tc.Compile(ctx, art.IR, art.Object, asm); err != nil {
		return nil, err
	}

	inputs := []string{art.Object}
	if !(opts.NoStd || m.Build.NoStd) {
		rt := m.RuntimePath()
		if rt == "" {
			if rt, err = libstd.WriteTo(outDir); err != nil {
				return nil, err
			}
		}
		inputs = append(inputs, rt)
	}

	log.Info("linking", "executable", art.Executable)
	if err := tc.Link(ctx, inputs, art.Executable); err != nil {
		return nil, err
	}
	return art, nil
}

// Toolchain drives the C compiler.
type Toolchain struct {
	CC      string
	Release bool
}

func (tc *Toolchain) optFlag() string {
	if tc.Release {
		return "-O2"
	}
	return "-O0"
}

// Compile turns an IR file into an object file, or into assembly.
func (tc *Toolchain) Compile(ctx context.Context, ir, out string, asm bool) error {
	mode := "-c"
	if asm {
		mode = "-S"
	}
	return tc.run(ctx, tc.optFlag(), "-Wno-override-module", mode, ir, "-o", out)
}

// Link links inputs into the executable out.
func (tc *Toolchain) Link(ctx context.Context, inputs []string, out string) error {
	args := append([]string{tc.optFlag()}, inputs...)
	return tc.run(ctx, append(args, "-o", out)...)
}

func (tc *Toolchain) run(ctx context.Context, args ...string) error {
	cc := tc.CC
	if cc == "" {
		cc = project.DefaultCC
	}
	log.Debugf("running %s %v", cc, args)
	cmd := exec.CommandContext(ctx, cc, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w\n%s", filepath.Base(cc), err, bytes.TrimSpace(out))
	}
	return nil
}

// Run executes an executable with args, connected to the given streams,
// and returns its exit status.
func Run(ctx context.Context, exe string, args []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	log.Info("running", "executable", exe)
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = stdin, stdout, stderr
	err := cmd.Run()
	if exit, ok := err.(*exec.ExitError); ok {
		return exit.ExitCode(), nil
	}
	if err != nil {
		return -1, fmt.Errorf("cannot run %s: %w", exe, err)
	}
	return 0, nil
}
