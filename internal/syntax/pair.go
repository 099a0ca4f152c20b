package syntax

import (
	"fmt"
	"io"
	"strings"
)

// A Pair is one match of a grammar rule: the rule, the source span it
// covers, the matched text, and the pairs matched by its sub-rules in
// source order.
type Pair struct {
	Rule  Rule
	Span  Span
	Text  string
	Inner []*Pair
}

// Child returns the i'th inner pair, or nil if there is none.
func (p *Pair) Child(i int) *Pair {
	if i < 0 || i >= len(p.Inner) {
		return nil
	}
	return p.Inner[i]
}

// Pos returns the start of the pair's span.
func (p *Pair) Pos() Pos {
	return p.Span.Start
}

// String returns a compact one-line rendering, e.g. Ident("x").
func (p *Pair) String() string {
	if len(p.Inner) == 0 {
		return fmt.Sprintf("%s(%q)", p.Rule, p.Text)
	}
	parts := make([]string, len(p.Inner))
	for i, c := range p.Inner {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s[%s]", p.Rule, strings.Join(parts, " "))
}

// Fprint writes an indented tree rendering of p to w.
func Fprint(w io.Writer, p *Pair) {
	fprint(w, p, 0)
}

func fprint(w io.Writer, p *Pair, depth int) {
	indent := strings.Repeat("  ", depth)
	if len(p.Inner) == 0 {
		fmt.Fprintf(w, "%s%s %s %q\n", indent, p.Rule, p.Span.Start, p.Text)
		return
	}
	fmt.Fprintf(w, "%s%s %s\n", indent, p.Rule, p.Span.Start)
	for _, c := range p.Inner {
		fprint(w, c, depth+1)
	}
}

// Sprint returns the tree rendering of p as a string.
func Sprint(p *Pair) string {
	var b strings.Builder
	Fprint(&b, p)
	return b.String()
}
