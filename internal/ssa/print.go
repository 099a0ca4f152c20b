package ssa

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a readable listing of f to w:
//
//	func main() i32:
//	  b0: (entry)
//	    v0 = Alloca <*number> {x}
//	    Zero v0
//	    v2 = ConstFloat <number> [1]
//	    Store v0 v2
//	    Plain -> b1
//	  b1: loop.header <- b0 b3
//	    ...
func Fprint(w io.Writer, f *Func) {
	fmt.Fprintf(w, "func %s", f.Name)
	if f.Sig != nil {
		params := make([]string, len(f.Sig.Params()))
		for i, p := range f.Sig.Params() {
			params[i] = p.String()
		}
		fmt.Fprintf(w, "(%s)", strings.Join(params, ", "))
		if r := f.Sig.Result(); r != nil {
			fmt.Fprintf(w, " %s", r)
		}
	}
	fmt.Fprintf(w, ":\n")

	for _, b := range f.Blocks {
		fprintBlock(w, b, f)
	}
}

func fprintBlock(w io.Writer, b *Block, f *Func) {
	fmt.Fprintf(w, "  %s:", b)
	if b == f.Entry {
		fmt.Fprintf(w, " (entry)")
	}
	if b.Comment != "" {
		fmt.Fprintf(w, " %s", b.Comment)
	}
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.String()
		}
		fmt.Fprintf(w, " <- %s", strings.Join(preds, " "))
	}
	fmt.Fprintln(w)

	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", formatValue(v))
	}
	fmt.Fprintf(w, "    %s\n", formatTerminator(b))
}

func formatValue(v *Value) string {
	if !v.Op.IsVoid() {
		return v.LongString()
	}
	var sb strings.Builder
	sb.WriteString(v.Op.String())
	for _, arg := range v.Args {
		fmt.Fprintf(&sb, " %s", arg)
	}
	return sb.String()
}

func formatTerminator(b *Block) string {
	switch b.Kind {
	case BlockPlain:
		if len(b.Succs) > 0 {
			return fmt.Sprintf("Plain -> %s", b.Succs[0])
		}
		return "Plain"
	case BlockIf:
		if len(b.Controls) > 0 && b.Controls[0] != nil && len(b.Succs) >= 2 {
			return fmt.Sprintf("If %s -> %s %s", b.Controls[0], b.Succs[0], b.Succs[1])
		}
		return "If (malformed)"
	case BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			return fmt.Sprintf("Return %s", b.Controls[0])
		}
		return "Return"
	case BlockExit:
		return "Exit"
	default:
		return "???"
	}
}

// Sprint returns the Fprint listing of f as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}
