package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/you-not-fish/redditlang/internal/ast"
	"github.com/you-not-fish/redditlang/internal/driver"
	"github.com/you-not-fish/redditlang/internal/interp"
	"github.com/you-not-fish/redditlang/internal/ssa"
)

const (
	historyFile = ".walter_history"
	replFile    = "<repl>"
	promptMain  = "rl> "
	promptCont  = "... "
)

const replHelp = `REPL commands:
  :ast     Print the session's AST
  :cfg     Print the session's control flow graph
  :reset   Forget every entry
  :quit    Exit the REPL
`

// session is the program typed so far. Every entry recompiles and reruns
// the whole program; only output past what earlier entries printed is
// shown.
type session struct {
	entries []string
	output  string
	tree    ast.Tree
	fn      *ssa.Func
}

func (s *session) source(entry string) string {
	return strings.Join(append(append([]string(nil), s.entries...), entry), "\n") + "\n"
}

// eval adds entry to the session and returns the new output and the
// exit status. A failing entry is dropped and the session is unchanged.
func (s *session) eval(entry string) (string, int, error) {
	src := s.source(entry)
	u, err := driver.Compile(replFile, []byte(src), driver.Options{})
	if err != nil {
		return "", 0, err
	}

	var buf strings.Builder
	m := interp.Machine{Out: &buf}
	status, err := m.Run(u.Func)
	if err != nil {
		return "", 0, err
	}

	s.entries = append(s.entries, entry)
	s.tree, s.fn = u.Tree, u.Func
	all := buf.String()
	out := strings.TrimPrefix(all, s.output)
	s.output = all
	return out, status, nil
}

func (s *session) reset() {
	*s = session{}
}

// command runs a ':' command, reporting whether the REPL should exit.
func (s *session) command(w io.Writer, line string) (exit bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case ":quit", ":q":
		return true
	case ":ast":
		ast.Fprint(w, s.tree)
	case ":cfg":
		if s.fn == nil {
			fmt.Fprintln(w, "no statements yet")
			break
		}
		ssa.Fprint(w, s.fn)
	case ":reset":
		s.reset()
	case ":help":
		fmt.Fprint(w, replHelp)
	default:
		fmt.Fprintln(w, "unknown command. Type :help for a list.")
	}
	return false
}

type prompter interface {
	Prompt(prompt string) (string, error)
}

// readEntry reads lines until every brace opened in them is closed.
func readEntry(p prompter) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := p.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if depth(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// depth returns the number of unclosed braces in src, skipping strings
// and line comments.
func depth(src string) int {
	n := 0
	inStr := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if inStr {
			switch c {
			case '\\':
				i++
			case '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			n++
		case '}':
			n--
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
			}
		}
	}
	return n
}

// repl runs the read-eval-print loop until p is exhausted.
func repl(p prompter, out, errOut io.Writer, addHistory func(string)) {
	var s session
	for {
		entry, ok := readEntry(p)
		if !ok {
			fmt.Fprintln(out)
			return
		}
		if strings.TrimSpace(entry) == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(entry), ":") {
			if s.command(out, entry) {
				return
			}
			continue
		}

		src := s.source(entry)
		printed, status, err := s.eval(entry)
		if err != nil {
			reportTo(errOut, err, []byte(src))
			continue
		}
		fmt.Fprint(out, printed)
		if status != 0 {
			fmt.Fprintf(out, "exit status %d\n", status)
		}
		if addHistory != nil {
			addHistory(strings.ReplaceAll(entry, "\n", " "))
		}
	}
}

func runRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	fmt.Printf("walter %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.\n", Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	repl(ln, os.Stdout, os.Stderr, ln.AppendHistory)
	return 0
}
