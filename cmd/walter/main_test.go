package main

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/redditlang/internal/project"
	"github.com/you-not-fish/redditlang/internal/wire"
)

func TestRunUsage(t *testing.T) {
	tests := []struct {
		args []string
		code int
		want string
	}{
		{nil, 2, "Usage: walter"},
		{[]string{"help"}, 0, "Commands:"},
		{[]string{"bake"}, 2, `unknown command "bake"`},
	}
	for _, tt := range tests {
		code, _, errOut := captureOutput(t, func() int { return run(tt.args) })
		if code != tt.code {
			t.Errorf("run(%q) = %d, want %d", tt.args, code, tt.code)
		}
		if !strings.Contains(errOut, tt.want) {
			t.Errorf("run(%q) stderr missing %q:\n%s", tt.args, tt.want, errOut)
		}
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := captureOutput(t, func() int { return run([]string{"version"}) })
	if code != 0 || !strings.Contains(out, "walter version "+Version) {
		t.Errorf("version exit=%d output=%q", code, out)
	}
}

func TestRise(t *testing.T) {
	inDir(t, t.TempDir())

	code, out, errOut := captureOutput(t, func() int { return run([]string{"rise", "demo"}) })
	if code != 0 {
		t.Fatalf("rise exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "created project demo") {
		t.Errorf("rise output = %q", out)
	}
	m, err := project.Load(resolve("demo"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Project.Name != "demo" {
		t.Errorf("name = %q, want demo", m.Project.Name)
	}

	code, _, errOut = captureOutput(t, func() int { return run([]string{"rise", "demo"}) })
	if code != 1 || !strings.Contains(errOut, "not empty") {
		t.Errorf("second rise exit=%d stderr=%q", code, errOut)
	}
}

func TestCookOutsideProject(t *testing.T) {
	inDir(t, t.TempDir())
	for _, cmd := range []string{"cook", "serve", "clean"} {
		code, _, errOut := captureOutput(t, func() int { return run([]string{cmd}) })
		if code != 1 || !strings.Contains(errOut, "not inside a walter project") {
			t.Errorf("%s exit=%d stderr=%q", cmd, code, errOut)
		}
	}
}

func TestCookReportsCompileErrors(t *testing.T) {
	dir := newProject(t, "print(1)\nbreak\n")
	inDir(t, dir)

	code, _, errOut := captureOutput(t, func() int { return run([]string{"cook"}) })
	if code != 1 {
		t.Fatalf("cook exit=%d, want 1", code)
	}
	for _, want := range []string{"main.rl:2:1: compile error: break outside loop", "    break"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut)
		}
	}
}

func TestServeAndClean(t *testing.T) {
	if _, err := exec.LookPath(project.DefaultCC); err != nil {
		t.Skip("clang not found")
	}
	dir := newProject(t, "print(\"hi\")\nexit(5)\n")
	inDir(t, dir)

	code, out, errOut := captureOutput(t, func() int { return run([]string{"serve", "-release"}) })
	if code != 5 {
		t.Fatalf("serve exit=%d, want 5\nstderr:\n%s", code, errOut)
	}
	if out != "hi\n" {
		t.Errorf("serve output = %q, want %q", out, "hi\n")
	}
	if _, err := os.Stat(filepath.Join(dir, "build", "release", filepath.Base(dir))); err != nil {
		t.Errorf("executable missing: %v", err)
	}

	if code, _, errOut := captureOutput(t, func() int { return run([]string{"clean"}) }); code != 0 {
		t.Fatalf("clean exit=%d\n%s", code, errOut)
	}
	if _, err := os.Stat(filepath.Join(dir, "build")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("build dir survived clean: %v", err)
	}
}

func TestEmit(t *testing.T) {
	file := writeTempFile(t, "var x = 1 + 2\nprint(x)\n")
	tests := []struct {
		flags []string
		want  []string
	}{
		{[]string{"-tokens"}, []string{"POSITION", `"var"`, "EOF"}},
		{[]string{"-pairs"}, []string{"Program ", "Variable "}},
		{[]string{"-ast"}, []string{"Variable " + file + ":1:1", "Call " + file + ":2:1"}},
		{[]string{"-ast", "-json"}, []string{`"type": "Variable"`}},
		{[]string{"-cfg"}, []string{"func main() i32:", "Alloca <*number> {x}"}},
		{[]string{"-cfg", "-release"}, []string{"func main() i32:", "AddF64"}},
		{nil, []string{"define i32 @main()", "call void @rt_print_f64"}},
		{[]string{"-ll"}, []string{"; ModuleID = 'walter'"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.flags, " "), func(t *testing.T) {
			args := append(append([]string{"emit"}, tt.flags...), file)
			code, out, errOut := captureOutput(t, func() int { return run(args) })
			if code != 0 {
				t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestEmitReleaseHasNoSlots(t *testing.T) {
	file := writeTempFile(t, "var x = 1\nprint(x)\n")
	code, out, _ := captureOutput(t, func() int { return run([]string{"emit", "-cfg", "-release", file}) })
	if code != 0 || strings.Contains(out, "Alloca") {
		t.Errorf("exit=%d, release CFG:\n%s", code, out)
	}
}

func TestEmitWireToFile(t *testing.T) {
	file := writeTempFile(t, `print("hi")`)
	outFile := filepath.Join(t.TempDir(), "main.cbor")

	code, _, errOut := captureOutput(t, func() int { return run([]string{"emit", "-cfg-wire", "-o", outFile, file}) })
	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	m, err := wire.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m.Source != file || len(m.Funcs) != 1 || m.Funcs[0].Name != "main" {
		t.Errorf("module = %+v", m)
	}
}

func TestEmitErrors(t *testing.T) {
	tests := []struct {
		name string
		args func(file string) []string
		src  string
		code int
		want string
	}{
		{"no file", func(string) []string { return []string{"emit"} }, "", 2, "no input file"},
		{"missing file", func(string) []string { return []string{"emit", "/nonexistent/x.rl"} }, "", 1, "error:"},
		{"syntax", func(f string) []string { return []string{"emit", "-pairs", f} }, "print(\n", 1, "syntax error"},
		{"compile", func(f string) []string { return []string{"emit", f} }, "print(y)\n", 1, `undefined variable "y"`},
		{"bad flag", func(f string) []string { return []string{"emit", "-bogus", f} }, "", 2, "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := writeTempFile(t, tt.src)
			code, _, errOut := captureOutput(t, func() int { return run(tt.args(file)) })
			if code != tt.code {
				t.Errorf("exit=%d, want %d", code, tt.code)
			}
			if !strings.Contains(errOut, tt.want) {
				t.Errorf("stderr missing %q:\n%s", tt.want, errOut)
			}
		})
	}
}

func TestFormatLiteral(t *testing.T) {
	for lit, want := range map[string]string{
		"":       `""`,
		"x":      `"x"`,
		"a\nb":   `"a\nb"`,
		`"q"`:    `"\"q\""`,
		"t\\\tz": `"t\\\tz"`,
	} {
		if got := formatLiteral(lit); got != want {
			t.Errorf("formatLiteral(%q) = %s, want %s", lit, got, want)
		}
	}
}

func inDir(t *testing.T, dir string) {
	t.Helper()
	old := *workDir
	*workDir = dir
	t.Cleanup(func() { *workDir = old })
}

func newProject(t *testing.T, src string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "app")
	m, err := project.Scaffold(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(m.EntryPath(), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return m.Dir
}

func writeTempFile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "input.rl")
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	outc := make(chan []byte)
	errc := make(chan []byte)
	go func() { b, _ := io.ReadAll(rOut); outc <- b }()
	go func() { b, _ := io.ReadAll(rErr); errc <- b }()

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, errBytes := <-outc, <-errc
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
