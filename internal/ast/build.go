package ast

import (
	"github.com/you-not-fish/redditlang/internal/diag"
	"github.com/you-not-fish/redditlang/internal/syntax"
)

// bailout carries the first diagnostic out of the recursive build.
type bailout struct{ err *diag.Error }

// Build converts a Program (or Block) pair into a Tree. It stops at the
// first error, which is a *diag.Error of kind diag.Syntax for bad input
// and diag.Bug for pair shapes the builder does not know.
func Build(prog *syntax.Pair) (tree Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			tree, err = nil, b.err
		}
	}()

	if prog == nil {
		return nil, diag.Errorf(diag.Bug, syntax.Span{}, "nil program pair")
	}
	if prog.Rule != syntax.Program && prog.Rule != syntax.Block {
		bug(prog, "expected Program pair, found %v", prog.Rule)
	}
	return buildTree(prog), nil
}

func syntaxError(p *syntax.Pair, format string, args ...any) {
	panic(bailout{diag.Errorf(diag.Syntax, p.Span, format, args...)})
}

func bug(p *syntax.Pair, format string, args ...any) {
	panic(bailout{diag.Errorf(diag.Bug, p.Span, format, args...)})
}

// child returns p's i'th inner pair, which the grammar guarantees.
func child(p *syntax.Pair, i int) *syntax.Pair {
	c := p.Child(i)
	if c == nil {
		bug(p, "%v pair has no child %d", p.Rule, i)
	}
	return c
}

func expect(p *syntax.Pair, rule syntax.Rule) *syntax.Pair {
	if p.Rule != rule {
		bug(p, "expected %v pair, found %v", rule, p.Rule)
	}
	return p
}

// ----------------------------------------------------------------------------
// Trees and statements

func buildTree(p *syntax.Pair) Tree {
	tree := make(Tree, 0, len(p.Inner))
	for _, c := range p.Inner {
		tree = append(tree, buildNode(c))
	}
	return tree
}

func buildBlock(p *syntax.Pair) Tree {
	return buildTree(expect(p, syntax.Block))
}

// buildNode dispatches on any statement-producing rule, including Expr.
func buildNode(p *syntax.Pair) Node {
	switch p.Rule {
	case syntax.Function:
		return buildFunction(p)
	case syntax.Variable:
		return buildVariable(p)
	case syntax.Loop:
		n := &Loop{Body: buildBlock(child(p, 0))}
		n.span = p.Span
		return n
	case syntax.Break:
		n := &Break{}
		n.span = p.Span
		return n
	case syntax.IfBlock:
		return buildIf(p)
	case syntax.TryCatch:
		return buildTryCatch(p)
	case syntax.Throw:
		n := &Throw{Value: buildExpr(child(p, 0))}
		n.span = p.Span
		return n
	case syntax.Import:
		n := &Import{Path: buildTerm(child(p, 0))}
		n.span = p.Span
		return n
	case syntax.Module:
		n := &Module{Ident: buildIdent(child(p, 0))}
		n.span = p.Span
		return n
	case syntax.Class:
		n := &Class{Ident: buildIdent(child(p, 0)), Body: buildBlock(child(p, 1))}
		n.span = p.Span
		return n
	case syntax.Return:
		n := &Return{Value: buildExpr(child(p, 0))}
		n.span = p.Span
		return n
	case syntax.Assignment:
		n := &Assignment{Ident: buildIdent(child(p, 0)), Value: buildExpr(child(p, 1))}
		n.span = p.Span
		return n
	case syntax.Call:
		return buildCall(p)
	case syntax.Expr:
		n := &ExprStmt{X: buildExprPair(p)}
		n.span = p.Span
		return n
	}
	bug(p, "no statement rule for %v", p.Rule)
	return nil
}

// buildExpr builds a value in expression position. Any statement there is
// a syntax error reported at the statement.
func buildExpr(p *syntax.Pair) Expr {
	n := buildNode(p)
	es, ok := n.(*ExprStmt)
	if !ok {
		syntaxError(p, "value is not an expression")
	}
	return es.X
}

func buildIdent(p *syntax.Pair) Ident {
	expect(p, syntax.Ident)
	if p.Text == "" {
		bug(p, "empty identifier")
	}
	return Ident{Name: p.Text, Span: p.Span}
}

func buildDeclaration(p *syntax.Pair) Declaration {
	expect(p, syntax.Declaration)
	d := Declaration{Ident: buildIdent(child(p, 0))}
	if t := p.Child(1); t != nil {
		expect(t, syntax.Type)
		typ := &Type{Ident: buildIdent(child(t, 0))}
		if marker := t.Child(1); marker != nil {
			expect(marker, syntax.ArrayMarker)
			typ.IsArray = true
		}
		d.Type = typ
	}
	return d
}

var functionMods = map[string]FunctionMod{
	"debug": Debug,
	"bar":   FuncPublic,
}

var variableMods = map[string]VariableMod{
	"bar": VarPublic,
}

func buildFunction(p *syntax.Pair) *Function {
	n := &Function{}
	n.span = p.Span

	for _, m := range expect(child(p, 0), syntax.Modifiers).Inner {
		mod, ok := functionMods[m.Text]
		if !ok {
			syntaxError(m, "invalid function modifier %q", m.Text)
		}
		n.Modifiers = append(n.Modifiers, mod)
	}

	n.Declaration = buildDeclaration(child(p, 1))

	args := expect(child(p, 2), syntax.Args)
	seen := make(map[string]bool, len(args.Inner))
	for _, a := range args.Inner {
		d := buildDeclaration(a)
		if seen[d.Ident.Name] {
			syntaxError(args, "duplicate argument %q", d.Ident.Name)
		}
		seen[d.Ident.Name] = true
		n.Args = append(n.Args, d)
	}

	n.Body = buildBlock(child(p, 3))
	return n
}

func buildVariable(p *syntax.Pair) *Variable {
	n := &Variable{}
	n.span = p.Span

	for _, m := range expect(child(p, 0), syntax.Modifiers).Inner {
		mod, ok := variableMods[m.Text]
		if !ok {
			syntaxError(m, "invalid variable modifier %q", m.Text)
		}
		n.Modifiers = append(n.Modifiers, mod)
	}

	n.Declaration = buildDeclaration(child(p, 1))
	n.Value = buildExpr(child(p, 2))
	return n
}

func buildCall(p *syntax.Pair) *Call {
	n := &Call{Ident: buildIdent(child(p, 0))}
	n.span = p.Span
	for _, a := range expect(child(p, 1), syntax.CallArgs).Inner {
		expect(a, syntax.CallArg)
		n.Args = append(n.Args, buildTerm(child(a, 0)))
	}
	return n
}

func buildIf(p *syntax.Pair) *If {
	n := &If{}
	n.span = p.Span

	for i, arm := range p.Inner {
		switch arm.Rule {
		case syntax.If, syntax.ElseIf:
			c := &Case{Cond: buildExpr(child(arm, 0)), Body: buildBlock(child(arm, 1))}
			c.span = arm.Span
			n.Nodes = append(n.Nodes, c)
		case syntax.Else:
			if i != len(p.Inner)-1 {
				bug(arm, "else arm is not the last arm of an if chain")
			}
			e := &Else{Body: buildBlock(child(arm, 0))}
			e.span = arm.Span
			n.Nodes = append(n.Nodes, e)
		default:
			bug(arm, "invalid if-chain arm %v", arm.Rule)
		}
	}
	if len(n.Nodes) == 0 {
		bug(p, "empty if chain")
	}
	return n
}

func buildTryCatch(p *syntax.Pair) *TryCatch {
	n := &TryCatch{Try: buildBlock(child(p, 0))}
	n.span = p.Span

	catch := expect(child(p, 1), syntax.Catch)
	first := child(catch, 0)
	switch first.Rule {
	case syntax.Block:
		n.Catch = buildBlock(first)
	case syntax.Ident:
		id := buildIdent(first)
		n.CatchIdent = &id
		n.Catch = buildBlock(child(catch, 1))
	default:
		bug(first, "catch clause starts with %v, want Block or Ident", first.Rule)
	}
	return n
}
