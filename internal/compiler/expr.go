package compiler

import (
	"github.com/you-not-fish/redditlang/internal/ast"
	"github.com/you-not-fish/redditlang/internal/diag"
	"github.com/you-not-fish/redditlang/internal/rtabi"
	"github.com/you-not-fish/redditlang/internal/ssa"
	"github.com/you-not-fish/redditlang/internal/syntax"
	"github.com/you-not-fish/redditlang/internal/types"
)

func (c *compiler) expr(x ast.Expr) *ssa.Value {
	switch x := x.(type) {
	case ast.Term:
		return c.term(x)
	case *ast.BinaryExpr:
		return c.binary(x)
	case *ast.ConditionalExpr:
		return c.conditional(x)
	case *ast.IndexExpr:
		c.errorf(diag.Unsupported, x.Span(), "index expressions cannot be compiled yet")
	default:
		c.errorf(diag.Bug, x.Span(), "no lowering for expression %T", x)
	}
	return nil
}

func (c *compiler) term(t ast.Term) *ssa.Value {
	switch t := t.(type) {
	case *ast.Number:
		v := c.cur.Value(ssa.OpConstFloat, tNumber, t.Span())
		v.AuxFloat = t.Value
		return v
	case *ast.String:
		v := c.cur.Value(ssa.OpConstString, tString, t.Span())
		v.Aux = t.Value
		return v
	case *ast.Name:
		slot := c.lookup(t.Ident)
		return c.cur.Value(ssa.OpLoad, slot.Type.(*types.Pointer).Elem(), t.Span(), slot)
	}
	c.errorf(diag.Bug, t.Span(), "no lowering for term %T", t)
	return nil
}

func (c *compiler) lookup(id ast.Ident) *ssa.Value {
	slot, ok := c.scope.Lookup(id.Name)
	if !ok {
		c.errorf(diag.Compile, id.Span, "undefined variable %q", id.Name)
	}
	return slot
}

var floatOps = map[ast.MathOperator]ssa.Op{
	ast.Add:      ssa.OpAddF64,
	ast.Subtract: ssa.OpSubF64,
	ast.Multiply: ssa.OpMulF64,
	ast.Divide:   ssa.OpDivF64,
}

// binary folds the chain from the left: a - b * c is (a - b) * c.
func (c *compiler) binary(x *ast.BinaryExpr) *ssa.Value {
	if len(x.Terms) == 0 || x.Terms[len(x.Terms)-1].Operator != nil {
		c.errorf(diag.Bug, x.Span(), "malformed arithmetic chain")
	}
	acc := c.term(x.Terms[0].Operand)
	for i := 0; i+1 < len(x.Terms); i++ {
		op := x.Terms[i].Operator
		if op == nil {
			c.errorf(diag.Bug, x.Span(), "arithmetic chain has no operator after term %d", i)
		}
		next := x.Terms[i+1].Operand
		rhs := c.term(next)
		acc = c.arith(*op, acc, rhs, syntax.Span{Start: x.Span().Start, End: next.Span().End})
	}
	return acc
}

func (c *compiler) arith(op ast.MathOperator, x, y *ssa.Value, pos syntax.Span) *ssa.Value {
	switch {
	case types.IsNumber(x.Type) && types.IsNumber(y.Type):
		if fop, ok := floatOps[op]; ok {
			return c.cur.Value(fop, tNumber, pos, x, y)
		}
		if op == ast.XOR {
			xi := c.cur.Value(ssa.OpFloatToInt, tInt, pos, x)
			yi := c.cur.Value(ssa.OpFloatToInt, tInt, pos, y)
			r := c.cur.Value(ssa.OpXor64, tInt, pos, xi, yi)
			return c.cur.Value(ssa.OpIntToFloat, tNumber, pos, r)
		}
	case types.IsString(x.Type) && types.IsString(y.Type) && op == ast.Add:
		return c.runtime(rtabi.FnStrConcat, tString, pos, x, y)
	}
	c.errorf(diag.Compile, pos, "invalid operation: %s %s %s", x.Type, op, y.Type)
	return nil
}

// conditional folds a comparison chain from the left like binary.
func (c *compiler) conditional(x *ast.ConditionalExpr) *ssa.Value {
	if len(x.Terms) == 0 || x.Terms[len(x.Terms)-1].Operator != nil {
		c.errorf(diag.Bug, x.Span(), "malformed comparison chain")
	}
	acc := c.term(x.Terms[0].Operand)
	for i := 0; i+1 < len(x.Terms); i++ {
		op := x.Terms[i].Operator
		if op == nil {
			c.errorf(diag.Bug, x.Span(), "comparison chain has no operator after term %d", i)
		}
		next := x.Terms[i+1].Operand
		rhs := c.term(next)
		acc = c.compare(*op, acc, rhs, syntax.Span{Start: x.Span().Start, End: next.Span().End})
	}
	return acc
}

func (c *compiler) compare(op ast.ConditionalOperator, x, y *ssa.Value, pos syntax.Span) *ssa.Value {
	switch {
	case types.IsNumber(x.Type) && types.IsNumber(y.Type):
		if op == ast.Equality {
			return c.cur.Value(ssa.OpEqF64, tBool, pos, x, y)
		}
		return c.cur.Value(ssa.OpNeqF64, tBool, pos, x, y)
	case types.IsString(x.Type) && types.IsString(y.Type):
		eq := c.runtime(rtabi.FnStrEq, tBool, pos, x, y)
		if op == ast.Equality {
			return eq
		}
		return c.cur.Value(ssa.OpNot, tBool, pos, eq)
	}
	c.errorf(diag.Compile, pos, "invalid operation: %s %s %s", x.Type, op, y.Type)
	return nil
}

// condition lowers a branch condition. Numbers are true when non-zero.
func (c *compiler) condition(x ast.Expr) *ssa.Value {
	v := c.expr(x)
	switch {
	case types.IsBool(v.Type):
		return v
	case types.IsNumber(v.Type):
		zero := c.cur.Value(ssa.OpConstFloat, tNumber, x.Span())
		return c.cur.Value(ssa.OpNeqF64, tBool, x.Span(), v, zero)
	}
	c.errorf(diag.Compile, x.Span(), "non-boolean condition of type %s", v.Type)
	return nil
}

// runtime emits a call to the libstd function name.
func (c *compiler) runtime(name string, result types.Type, pos syntax.Span, args ...*ssa.Value) *ssa.Value {
	v := c.cur.Value(ssa.OpStaticCall, result, pos, args...)
	v.Aux = name
	return v
}
