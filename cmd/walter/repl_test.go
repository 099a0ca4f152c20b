package main

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/peterh/liner"
)

// script feeds fixed lines to the REPL.
type script struct {
	lines   []string
	prompts []string
}

func (s *script) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	if line == "^C" {
		return "", liner.ErrPromptAborted
	}
	return line, nil
}

func TestSessionEval(t *testing.T) {
	var s session
	steps := []struct {
		entry  string
		out    string
		status int
		err    string
	}{
		{entry: "var x = 2", out: ""},
		{entry: "var y = x * 3", out: ""},
		{entry: "print(y)", out: "6\n"},
		{entry: "print(z)", err: `undefined variable "z"`},
		{entry: `write("a", "b")`, out: "a b"},
		{entry: "exit(x)", status: 2},
	}
	for _, st := range steps {
		out, status, err := s.eval(st.entry)
		if st.err != "" {
			if err == nil || !strings.Contains(err.Error(), st.err) {
				t.Errorf("eval(%q) error = %v, want %q", st.entry, err, st.err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("eval(%q): %v", st.entry, err)
		}
		if out != st.out || status != st.status {
			t.Errorf("eval(%q) = %q, %d; want %q, %d", st.entry, out, status, st.out, st.status)
		}
	}
	if len(s.entries) != 5 {
		t.Errorf("session kept %d entries, want 5", len(s.entries))
	}
}

func TestRepl(t *testing.T) {
	in := &script{lines: []string{
		"var n = 0",
		"loop {",
		"  print(n)",
		"  break",
		"}",
		"",
		"^C",
		"print(nope)",
		":cfg",
		":ast",
		":bogus",
		":reset",
		":cfg",
		":quit",
		"print(1)",
	}}
	var out, errOut strings.Builder
	var history []string
	repl(in, &out, &errOut, func(s string) { history = append(history, s) })

	got := out.String()
	for _, want := range []string{
		"0\n",
		"func main() i32:",
		"loop.header",
		"Loop <repl>:2:1",
		"unknown command",
		"no statements yet",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if len(in.lines) != 1 {
		t.Errorf("REPL kept reading after :quit, %d lines left", len(in.lines))
	}
	if !strings.Contains(errOut.String(), `undefined variable "nope"`) {
		t.Errorf("stderr = %q", errOut.String())
	}
	if len(history) != 2 || history[1] != "loop {   print(n)   break }" {
		t.Errorf("history = %q", history)
	}

	wantPrompts := []string{promptMain, promptMain, promptCont, promptCont, promptCont}
	for i, p := range wantPrompts {
		if in.prompts[i] != p {
			t.Errorf("prompt %d = %q, want %q", i, in.prompts[i], p)
		}
	}
}

func TestReadEntryEOF(t *testing.T) {
	if _, ok := readEntry(&script{}); ok {
		t.Error("readEntry reported an entry at EOF")
	}
	_, err := (&script{}).Prompt("")
	if !errors.Is(err, io.EOF) {
		t.Errorf("Prompt = %v", err)
	}
}

func TestDepth(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"print(1)", 0},
		{"loop {", 1},
		{"if x == 1 { loop {", 2},
		{"loop { }", 0},
		{`print("{")`, 0},
		{`print("\"{")`, 0},
		{"loop { // }", 1},
		{"}", -1},
	}
	for _, tt := range tests {
		if got := depth(tt.src); got != tt.want {
			t.Errorf("depth(%q) = %d, want %d", tt.src, got, tt.want)
		}
	}
}
