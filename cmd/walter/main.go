// Command walter builds, runs and inspects RL programs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/you-not-fish/redditlang/internal/diag"
	"github.com/you-not-fish/redditlang/internal/lsp"
	"github.com/you-not-fish/redditlang/internal/project"

	_ "github.com/tliron/commonlog/simple"
)

// Version information
const Version = "0.1.0-dev"

// Global flags, given before the command.
var (
	quiet   = flag.Bool("q", false, "Log nothing")
	verbose = flag.Int("v", 0, "Log verbosity (1 info, 2 debug)")
	logFile = flag.String("log", "", "Write logs to file instead of stderr")
	workDir = flag.String("C", "", "Run as if walter was started in dir")
)

var log = commonlog.GetLogger("walter")

func main() {
	flag.Usage = usage
	flag.Parse()
	configureLogging()
	os.Exit(run(flag.Args()))
}

func usage() {
	fmt.Fprintf(os.Stderr, "walter %s\n\n", Version)
	fmt.Fprintf(os.Stderr, "Usage: walter [options] <command> [arguments]\n\n")
	fmt.Fprintf(os.Stderr, `Commands:
  cook     build the project's executable
  serve    build and run the project, passing arguments through
  clean    remove the build directory
  rise     create a new project
  emit     print an intermediate form of one file
  repl     evaluate statements interactively
  lsp      run the language server on stdio
  doctor   check the toolchain
  version  print version information

`)
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func configureLogging() {
	verbosity := *verbose
	if *quiet {
		verbosity = -1
	}
	var path *string
	if *logFile != "" {
		path = logFile
	}
	commonlog.Configure(verbosity, path)
}

// run dispatches a command line and returns the process exit code.
func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "cook":
		return runCook(rest)
	case "serve":
		return runServe(rest)
	case "clean":
		return runClean(rest)
	case "rise":
		return runRise(rest)
	case "emit":
		return runEmit(rest)
	case "repl":
		return runRepl(rest)
	case "lsp":
		return runLSP(rest)
	case "doctor":
		return runDoctor()
	case "version":
		fmt.Printf("walter version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		return 0
	case "help", "-h", "--help":
		usage()
		return 0
	}
	fmt.Fprintf(os.Stderr, "error: unknown command %q\n", cmd)
	fmt.Fprintln(os.Stderr, "run 'walter help' for usage")
	return 2
}

// resolve returns path relative to the -C directory.
func resolve(path string) string {
	if *workDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(*workDir, path)
}

// loadProject finds the manifest governing the working directory.
func loadProject() (*project.Manifest, bool) {
	m, err := project.FindAndLoad(resolve("."))
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "error: not inside a walter project (no %s found)\n", project.FileName)
			fmt.Fprintln(os.Stderr, "run 'walter rise <name>' to create one")
			return nil, false
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return nil, false
	}
	return m, true
}

// report prints err, with a source excerpt for compiler diagnostics.
// A nil src is read from the file the diagnostic points at.
func report(err error, src []byte) {
	reportTo(os.Stderr, err, src)
}

func reportTo(w io.Writer, err error, src []byte) {
	var derr *diag.Error
	if !errors.As(err, &derr) {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	if src == nil && derr.Span.IsValid() {
		src, _ = os.ReadFile(derr.Span.Start.Filename())
	}
	diag.Fprint(w, src, err)
}

// signalContext is cancelled on interrupt, stopping a running compiler
// or program.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runLSP(args []string) int {
	fs := flag.NewFlagSet("lsp", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := lsp.New(Version).RunStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runDoctor checks the toolchain and returns an exit code.
func runDoctor() int {
	fmt.Println("Walter Toolchain Doctor")
	fmt.Println("=======================")
	fmt.Println()

	allOk := true

	cc := project.DefaultCC
	if m, err := project.FindAndLoad(resolve(".")); err == nil {
		cc = m.Build.CC
	}
	ccVersion, ccOk := checkTool(cc, "--version")
	fmt.Printf("%-8s %s", cc+":", ccVersion)
	if ccOk {
		fmt.Println(" ✓")
	} else {
		fmt.Println(" ✗ (not found)")
		allOk = false
	}

	llvmAsVersion, llvmAsOk := checkTool("llvm-as", "--version")
	fmt.Printf("llvm-as: %s", llvmAsVersion)
	if llvmAsOk {
		fmt.Println(" ✓")
	} else {
		fmt.Println(" (optional, not found)")
	}

	fmt.Println()
	if allOk {
		fmt.Println("All required tools available!")
		return 0
	}
	fmt.Printf("Install clang or set %s to a C compiler that accepts LLVM IR.\n", project.EnvCC)
	return 1
}

// checkTool runs a tool with the given arguments and returns the first line of output.
func checkTool(name string, args ...string) (string, bool) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", false
	}
	line, _, _ := strings.Cut(string(out), "\n")
	line = strings.TrimSpace(line)
	if len(line) > 60 {
		line = line[:57] + "..."
	}
	return line, true
}
