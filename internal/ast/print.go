package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes an indented textual representation of tree to w.
func Fprint(w io.Writer, tree Tree) {
	p := &printer{w: w}
	p.tree(tree)
}

// Sprint returns the textual representation of tree.
func Sprint(tree Tree) string {
	var b strings.Builder
	Fprint(&b, tree)
	return b.String()
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) tree(t Tree) {
	for _, n := range t {
		p.node(n)
	}
}

func (p *printer) body(label string, t Tree) {
	p.printf("%s:", label)
	p.indent++
	p.tree(t)
	p.indent--
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case *Loop:
		p.printf("Loop %s", n.Span())
		p.indent++
		p.tree(n.Body)
		p.indent--

	case *Break:
		p.printf("Break %s", n.Span())

	case *Function:
		p.printf("Function %s %s%s(%s)", n.Span(), modString(n.Modifiers), declString(n.Declaration), declList(n.Args))
		p.indent++
		p.tree(n.Body)
		p.indent--

	case *Call:
		p.printf("Call %s %s", n.Span(), callString(n))

	case *Throw:
		p.printf("Throw %s %s", n.Span(), ExprString(n.Value))

	case *Import:
		p.printf("Import %s %s", n.Span(), ExprString(n.Path))

	case *Module:
		p.printf("Module %s %s", n.Span(), n.Ident)

	case *TryCatch:
		p.printf("TryCatch %s", n.Span())
		p.indent++
		p.body("Try", n.Try)
		label := "Catch"
		if n.CatchIdent != nil {
			label += " " + n.CatchIdent.Name
		}
		p.body(label, n.Catch)
		p.indent--

	case *Variable:
		mods := ""
		for _, m := range n.Modifiers {
			mods += m.String() + " "
		}
		p.printf("Variable %s %s%s = %s", n.Span(), mods, declString(n.Declaration), ExprString(n.Value))

	case *Assignment:
		p.printf("Assignment %s %s = %s", n.Span(), n.Ident, ExprString(n.Value))

	case *If:
		p.printf("If %s", n.Span())
		p.indent++
		for _, arm := range n.Nodes {
			switch arm := arm.(type) {
			case *Case:
				p.body("Case "+ExprString(arm.Cond), arm.Body)
			case *Else:
				p.body("Else", arm.Body)
			}
		}
		p.indent--

	case *Class:
		p.printf("Class %s %s", n.Span(), n.Ident)
		p.indent++
		p.tree(n.Body)
		p.indent--

	case *Return:
		p.printf("Return %s %s", n.Span(), ExprString(n.Value))

	case *ExprStmt:
		p.printf("ExprStmt %s %s", n.Span(), ExprString(n.X))

	default:
		p.printf("%T", n)
	}
}

func modString(mods []FunctionMod) string {
	var b strings.Builder
	for _, m := range mods {
		b.WriteString(m.String())
		b.WriteByte(' ')
	}
	return b.String()
}

func declString(d Declaration) string {
	if d.Type == nil {
		return d.Ident.Name
	}
	return d.Ident.Name + ": " + d.Type.String()
}

func declList(ds []Declaration) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = declString(d)
	}
	return strings.Join(parts, ", ")
}

func callString(c *Call) string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = ExprString(a)
	}
	return c.Ident.Name + "(" + strings.Join(parts, ", ") + ")"
}

// ExprString formats an expression as flat source-like text. Chains are
// printed without grouping since they evaluate left to right.
func ExprString(x Expr) string {
	switch x := x.(type) {
	case *String:
		return strconv.Quote(x.Value)
	case *Number:
		return strconv.FormatFloat(x.Value, 'g', -1, 64)
	case *Name:
		return x.Ident.Name
	case *BinaryExpr:
		var b strings.Builder
		for _, t := range x.Terms {
			b.WriteString(ExprString(t.Operand))
			if t.Operator != nil {
				fmt.Fprintf(&b, " %s ", *t.Operator)
			}
		}
		return b.String()
	case *ConditionalExpr:
		var b strings.Builder
		for _, t := range x.Terms {
			b.WriteString(ExprString(t.Operand))
			if t.Operator != nil {
				fmt.Fprintf(&b, " %s ", *t.Operator)
			}
		}
		return b.String()
	case *IndexExpr:
		return ExprString(x.Term) + "[" + ExprString(x.Index) + "]"
	case nil:
		return "<nil>"
	}
	return fmt.Sprintf("%T", x)
}
