package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/you-not-fish/redditlang/internal/driver"
	"github.com/you-not-fish/redditlang/internal/project"
)

type buildFlags struct {
	release  *bool
	assembly *bool
	noStd    *bool
	showIR   *bool
}

func addBuildFlags(fs *flag.FlagSet) buildFlags {
	return buildFlags{
		release:  fs.Bool("release", false, "Build with optimizations"),
		assembly: fs.Bool("assembly", false, "Emit assembly instead of an object file"),
		noStd:    fs.Bool("no-std", false, "Do not link libstd"),
		showIR:   fs.Bool("show-ir", false, "Print the generated LLVM IR"),
	}
}

func (bf buildFlags) options() driver.BuildOptions {
	opts := driver.BuildOptions{
		Assembly: *bf.assembly,
		NoStd:    *bf.noStd,
	}
	if *bf.release {
		opts.Mode = driver.Release
	}
	if *bf.showIR {
		opts.ShowIR = os.Stdout
	}
	return opts
}

func cook(name string, args []string) (*driver.Artifacts, []string, int) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	bf := addBuildFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, 2
	}
	m, ok := loadProject()
	if !ok {
		return nil, nil, 1
	}

	ctx, cancel := signalContext()
	defer cancel()
	art, err := driver.Build(ctx, m, bf.options())
	if err != nil {
		report(err, nil)
		return nil, nil, 1
	}
	return art, fs.Args(), 0
}

func runCook(args []string) int {
	art, _, code := cook("cook", args)
	if code != 0 {
		return code
	}
	fmt.Fprintf(os.Stderr, "cooked %s\n", art.Executable)
	return 0
}

func runServe(args []string) int {
	art, progArgs, code := cook("serve", args)
	if code != 0 {
		return code
	}

	ctx, cancel := signalContext()
	defer cancel()
	status, err := driver.Run(ctx, art.Executable, progArgs, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		report(err, nil)
		return 1
	}
	return status
}

func runClean(args []string) int {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	m, ok := loadProject()
	if !ok {
		return 1
	}
	if err := m.Clean(); err != nil {
		report(err, nil)
		return 1
	}
	return 0
}

func runRise(args []string) int {
	fs := flag.NewFlagSet("rise", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	dir := "."
	switch fs.NArg() {
	case 0:
	case 1:
		dir = fs.Arg(0)
	default:
		fmt.Fprintln(os.Stderr, "usage: walter rise [name]")
		return 2
	}

	m, err := project.Scaffold(resolve(dir))
	if err != nil {
		report(err, nil)
		return 1
	}
	fmt.Printf("created project %s in %s\n", m.Project.Name, m.Dir)
	return 0
}
