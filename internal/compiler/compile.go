// Package compiler lowers an ast.Tree into an ssa.Func. Lowering is a
// single recursive walk that appends values at a Cursor, binds variables
// in a Scope and wires blocks by hand for if chains and loops.
package compiler

import (
	"github.com/you-not-fish/redditlang/internal/ast"
	"github.com/you-not-fish/redditlang/internal/diag"
	"github.com/you-not-fish/redditlang/internal/rtabi"
	"github.com/you-not-fish/redditlang/internal/ssa"
	"github.com/you-not-fish/redditlang/internal/syntax"
	"github.com/you-not-fish/redditlang/internal/types"
)

var (
	tNumber = types.Typ[types.Number]
	tString = types.Typ[types.String]
	tBool   = types.Typ[types.Bool]
	tInt    = types.Typ[types.Int]
	tI32    = types.Typ[types.Int32]
)

// bailout carries the first diagnostic out of the recursive lowering.
type bailout struct{ err *diag.Error }

type compiler struct {
	env   *Env
	scope *Scope
	cur   *Cursor

	// loops holds the exit block of each enclosing loop, innermost last.
	loops []*ssa.Block
}

// Compile lowers a program into its entry function, main, which returns 0
// when control reaches the end of the tree. env may be nil, in which case
// only libstd is callable. Blocks left unreachable are removed.
//
// Errors are *diag.Error values of kind Compile, Unsupported or Bug.
// The result has not been verified; callers run ssa.Verify.
func Compile(tree ast.Tree, env *Env) (*ssa.Func, error) {
	fn := ssa.NewFunc(rtabi.EntryPoint, types.NewFunc(nil, tI32, false))
	cur := NewCursor(fn)
	if err := CompileTree(tree, NewScope(), cur, env); err != nil {
		return nil, err
	}
	if cur.Reachable() {
		cur.Return(cur.Value(ssa.OpConst64, tI32, syntax.Span{}))
	}
	ssa.RemoveUnreachable(fn)
	return fn, nil
}

// CompileTree lowers tree at cur, binding variables in scope. On success
// cur is positioned at the block that continues after tree. That block has
// no path from the entry when nothing falls off the end of tree, and
// ssa.RemoveUnreachable drops it.
func CompileTree(tree ast.Tree, scope *Scope, cur *Cursor, env *Env) (err error) {
	if env == nil {
		env = NewEnv()
	}
	c := &compiler{env: env, scope: scope, cur: cur}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			err = b.err
		}
	}()
	c.tree(tree)
	return nil
}

func (c *compiler) errorf(kind diag.Kind, span syntax.Span, format string, args ...any) {
	panic(bailout{diag.Errorf(kind, span, format, args...)})
}

// tree lowers statements in order. Statements after a terminator still
// get lowered, into a block with no predecessors, so their errors are
// reported; Compile removes such blocks.
func (c *compiler) tree(t ast.Tree) {
	for _, n := range t {
		if !c.cur.Reachable() {
			c.cur.MoveTo(c.cur.NewBlock("dead"))
		}
		c.node(n)
	}
}

func (c *compiler) node(n ast.Node) {
	switch n := n.(type) {
	case *ast.Variable:
		c.variable(n)
	case *ast.Call:
		c.call(n)
	case *ast.If:
		c.ifStmt(n)
	case *ast.Loop:
		c.loop(n)
	case *ast.Break:
		c.breakStmt(n)

	case *ast.Function:
		c.unsupported(n, "function definitions")
	case *ast.Throw:
		c.unsupported(n, "throw statements")
	case *ast.TryCatch:
		c.unsupported(n, "try/catch blocks")
	case *ast.Import:
		c.unsupported(n, "imports")
	case *ast.Module:
		c.unsupported(n, "module declarations")
	case *ast.Assignment:
		c.unsupported(n, "assignments")
	case *ast.Class:
		c.unsupported(n, "classes")
	case *ast.Return:
		c.unsupported(n, "return statements")

	case *ast.ExprStmt:
		c.errorf(diag.Bug, n.Span(), "expression statement reached the compiler")
	default:
		c.errorf(diag.Bug, n.Span(), "no lowering for statement %T", n)
	}
}

func (c *compiler) unsupported(n ast.Node, what string) {
	c.errorf(diag.Unsupported, n.Span(), "%s cannot be compiled yet", what)
}

// variable allocates a fresh slot, stores the value into it and binds the
// name. A redeclaration shadows the earlier slot.
func (c *compiler) variable(v *ast.Variable) {
	decl := v.Declaration
	var want types.Type
	if t := decl.Type; t != nil {
		var ok bool
		if want, ok = types.Lookup(t.Ident.Name, t.IsArray); !ok {
			c.errorf(diag.Compile, t.Ident.Span, "unknown type %q", t.Ident.Name)
		}
	}

	val := c.expr(v.Value)
	if want != nil && !types.Identical(want, val.Type) {
		c.errorf(diag.Compile, v.Value.Span(), "cannot use %s value as %s in declaration of %s",
			val.Type, want, decl.Ident.Name)
	}

	slot := c.cur.Slot(val.Type, decl.Ident.Name, decl.Ident.Span)
	c.cur.Value(ssa.OpStore, nil, v.Span(), slot, val)
	c.scope.Bind(decl.Ident.Name, slot)
}

// ifStmt lowers an if chain. The first condition is evaluated at the
// cursor; every later Case gets its own condition block. A true condition
// enters that arm's body; a false one moves to the next Case, the Else
// body or the merge block. Every body that falls off its end jumps to the
// merge block, which is where the cursor continues.
func (c *compiler) ifStmt(s *ast.If) {
	var merge *ssa.Block
	mergeBlock := func() *ssa.Block {
		if merge == nil {
			merge = c.cur.NewBlock("if.merge")
		}
		return merge
	}
	var ends []*ssa.Block

	for i, arm := range s.Nodes {
		switch arm := arm.(type) {
		case *ast.Case:
			cond := c.condition(arm.Cond)
			then := c.cur.NewBlock("if.then")
			var next *ssa.Block
			switch {
			case i+1 == len(s.Nodes):
				next = mergeBlock()
			case isElse(s.Nodes[i+1]):
				next = c.cur.NewBlock("if.else")
			default:
				next = c.cur.NewBlock("if.cond")
			}
			c.cur.Branch(cond, then, next)

			c.cur.MoveTo(then)
			c.tree(arm.Body)
			if c.cur.Reachable() {
				ends = append(ends, c.cur.block())
			}
			c.cur.MoveTo(next)

		case *ast.Else:
			if i+1 != len(s.Nodes) {
				c.errorf(diag.Bug, arm.Span(), "else arm is not the last arm of the if chain")
			}
			c.tree(arm.Body)
			if c.cur.Reachable() {
				ends = append(ends, c.cur.block())
			}

		default:
			c.errorf(diag.Bug, arm.Span(), "no lowering for if arm %T", arm)
		}
	}

	for _, b := range ends {
		c.cur.MoveTo(b)
		c.cur.Jump(mergeBlock())
	}
	if merge != nil {
		c.cur.MoveTo(merge)
	}
}

func isElse(n ast.IfNode) bool {
	_, ok := n.(*ast.Else)
	return ok
}

// loop lowers the body into a fresh header block that the body jumps back
// to. A break jumps to the exit block, where the cursor continues.
func (c *compiler) loop(l *ast.Loop) {
	header := c.cur.NewBlock("loop.header")
	exit := c.cur.NewBlock("loop.exit")
	c.cur.Jump(header)
	c.cur.MoveTo(header)

	c.loops = append(c.loops, exit)
	c.tree(l.Body)
	c.loops = c.loops[:len(c.loops)-1]

	if c.cur.Reachable() {
		c.cur.Jump(header)
	}
	if len(exit.Preds) > 0 {
		c.cur.MoveTo(exit)
	}
}

func (c *compiler) breakStmt(b *ast.Break) {
	if len(c.loops) == 0 {
		c.errorf(diag.Compile, b.Span(), "break outside loop")
	}
	c.cur.Jump(c.loops[len(c.loops)-1])
}
