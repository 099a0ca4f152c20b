package ast

import (
	"strconv"

	"github.com/you-not-fish/redditlang/internal/syntax"
)

// buildExprPair builds the single expression wrapped by an Expr pair.
func buildExprPair(p *syntax.Pair) Expr {
	expect(p, syntax.Expr)
	if len(p.Inner) != 1 {
		bug(p, "Expr pair has %d children, want 1", len(p.Inner))
	}

	x := p.Inner[0]
	switch x.Rule {
	case syntax.BinaryExpr:
		return buildBinary(x)
	case syntax.ConditionalExpr:
		return buildConditional(x)
	case syntax.IndexExpr:
		return buildIndex(x)
	}
	return buildTerm(x)
}

func buildTerm(p *syntax.Pair) Term {
	switch p.Rule {
	case syntax.String:
		v, err := syntax.Unquote(p.Text)
		if err != nil {
			syntaxError(p, "malformed string literal: %v", err)
		}
		n := &String{Value: v}
		n.span = p.Span
		return n

	case syntax.Number:
		return buildNumber(p)

	case syntax.Ident:
		n := &Name{Ident: buildIdent(p)}
		n.span = p.Span
		return n

	case syntax.Paren:
		syntaxError(p, "parenthesized expressions are not supported")
	}
	bug(p, "no term rule for %v", p.Rule)
	return nil
}

// buildNumber applies an optional leading sign pair to the magnitude.
func buildNumber(p *syntax.Pair) *Number {
	negative := false
	mag := child(p, 0)
	if len(p.Inner) == 2 {
		switch mag.Rule {
		case syntax.Add:
		case syntax.Subtract:
			negative = true
		default:
			bug(mag, "invalid sign rule %v", mag.Rule)
		}
		mag = child(p, 1)
	}
	expect(mag, syntax.UNumber)

	v, err := strconv.ParseFloat(mag.Text, 64)
	if err != nil {
		syntaxError(mag, "malformed number literal %q", mag.Text)
	}
	if negative {
		v = -v
	}

	n := &Number{Value: v}
	n.span = p.Span
	return n
}

// chainTerms splits an operator chain [t0 op t1 op t2 ...] into operands
// and the operator pairs between them.
func chainTerms(p *syntax.Pair) (operands, ops []*syntax.Pair) {
	if len(p.Inner)%2 == 0 {
		bug(p, "%v has %d children; an operator chain ends in an operand", p.Rule, len(p.Inner))
	}
	for i, c := range p.Inner {
		if i%2 == 0 {
			operands = append(operands, c)
		} else {
			ops = append(ops, c)
		}
	}
	return operands, ops
}

// opRule unwraps an operator pair (MathOp or CondOp) to its inner rule.
func opRule(p *syntax.Pair, wrapper syntax.Rule) *syntax.Pair {
	return child(expect(p, wrapper), 0)
}

func buildBinary(p *syntax.Pair) *BinaryExpr {
	operands, ops := chainTerms(p)

	n := &BinaryExpr{Terms: make([]BinaryExprTerm, len(operands))}
	n.span = p.Span
	for i, o := range operands {
		n.Terms[i].Operand = buildTerm(o)
		if i == len(ops) {
			continue
		}
		var op MathOperator
		switch r := opRule(ops[i], syntax.MathOp); r.Rule {
		case syntax.Add:
			op = Add
		case syntax.Subtract:
			op = Subtract
		case syntax.Multiply:
			op = Multiply
		case syntax.Divide:
			op = Divide
		case syntax.XOR:
			op = XOR
		default:
			bug(r, "unknown arithmetic operator %v", r.Rule)
		}
		n.Terms[i].Operator = &op
	}
	return n
}

func buildConditional(p *syntax.Pair) *ConditionalExpr {
	operands, ops := chainTerms(p)

	n := &ConditionalExpr{Terms: make([]ConditionExprTerm, len(operands))}
	n.span = p.Span
	for i, o := range operands {
		n.Terms[i].Operand = buildTerm(o)
		if i == len(ops) {
			continue
		}
		var op ConditionalOperator
		switch r := opRule(ops[i], syntax.CondOp); r.Rule {
		case syntax.Equality:
			op = Equality
		case syntax.Inequality:
			op = AntiEquality
		default:
			bug(r, "unknown comparison operator %v", r.Rule)
		}
		n.Terms[i].Operator = &op
	}
	return n
}

func buildIndex(p *syntax.Pair) *IndexExpr {
	n := &IndexExpr{Term: buildTerm(child(p, 0))}
	n.span = p.Span

	switch idx := buildTerm(child(p, 1)).(type) {
	case *Number, *String:
		n.Index = idx
	default:
		bug(child(p, 1), "index must be a number or string, found %T", idx)
	}
	return n
}
