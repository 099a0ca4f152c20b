package syntax

import (
	"fmt"
	"io"
)

// Error is a grammar or lexical error at a source position.
type Error struct {
	Pos Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

type token struct {
	tok Token
	lit string
	pos Pos
	end Pos
}

// bailout carries the first error out of the recursive descent.
type bailout struct{ err *Error }

type parser struct {
	src  []byte
	toks []token
	i    int
	prev Pos   // end of the last consumed token
	last Token // last consumed token
}

// Parse reads an RL program and returns its Program pair.
// Parsing stops at the first error.
func Parse(filename string, src io.Reader) (prog *Pair, err error) {
	var first *Error
	s := NewScanner(filename, src, func(pos Pos, msg string) {
		if first == nil {
			first = &Error{Pos: pos, Msg: msg}
		}
	})

	p := &parser{src: s.buf}
	for {
		s.Next()
		if first != nil {
			return nil, first
		}
		p.toks = append(p.toks, token{s.Token(), s.Literal(), s.Pos(), s.End()})
		if s.Token() == _EOF {
			break
		}
	}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			prog, err = nil, b.err
		}
	}()
	return p.program(), nil
}

// ----------------------------------------------------------------------------
// Token helpers

func (p *parser) cur() token {
	return p.toks[p.i]
}

func (p *parser) tok() Token {
	return p.toks[p.i].tok
}

// peek returns the token n positions ahead, stopping at EOF.
func (p *parser) peek(n int) Token {
	if p.i+n >= len(p.toks) {
		return _EOF
	}
	return p.toks[p.i+n].tok
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.tok != _EOF {
		p.i++
	}
	p.prev = t.end
	p.last = t.tok
	return t
}

func (p *parser) got(tok Token) bool {
	if p.tok() == tok {
		p.next()
		return true
	}
	return false
}

func (p *parser) want(tok Token) token {
	if p.tok() != tok {
		p.syntaxError("expected " + tok.String())
	}
	return p.next()
}

func (p *parser) errorAt(pos Pos, msg string) {
	panic(bailout{&Error{Pos: pos, Msg: msg}})
}

// syntaxError reports an unexpected current token.
func (p *parser) syntaxError(expected string) {
	p.errorAt(p.cur().pos, fmt.Sprintf("unexpected %s, %s", describe(p.cur()), expected))
}

func describe(t token) string {
	switch {
	case t.tok == _Semi && t.lit == "newline":
		return "newline"
	case t.tok == _EOF || t.tok == _Semi && t.lit == "EOF":
		return "EOF"
	case t.tok == _Name:
		return "name " + t.lit
	case t.tok == _Number || t.tok == _String:
		return "literal " + t.lit
	case t.tok.IsKeyword():
		return "keyword " + t.lit
	}
	return t.tok.String()
}

// ----------------------------------------------------------------------------
// Pair construction

// node builds a pair spanning from start to the end of the last consumed
// token.
func (p *parser) node(rule Rule, start Pos, inner ...*Pair) *Pair {
	end := p.prev
	if end.Offset() < start.Offset() {
		end = start
	}
	return &Pair{
		Rule:  rule,
		Span:  Span{Start: start, End: end},
		Text:  string(p.src[start.Offset():end.Offset()]),
		Inner: inner,
	}
}

// leaf consumes the current token as a pair with no inner pairs.
func (p *parser) leaf(rule Rule) *Pair {
	t := p.next()
	return &Pair{Rule: rule, Span: Span{Start: t.pos, End: t.end}, Text: t.lit}
}

// ----------------------------------------------------------------------------
// Statements

// program spans the whole source, including leading and trailing
// comments.
func (p *parser) program() *Pair {
	start := NewPos(p.cur().pos.Filename(), 0, 1, 1)
	list := p.stmtList(_EOF)
	p.want(_EOF)
	return p.node(Program, start, list...)
}

// stmtList parses statements up to (not including) close. A statement
// ending in a closing brace needs no separator.
func (p *parser) stmtList(close Token) []*Pair {
	var list []*Pair
	for {
		for p.got(_Semi) {
		}
		if p.tok() == close || p.tok() == _EOF {
			return list
		}
		list = append(list, p.stmt())
		if p.tok() != close && p.last != _Rbrace && !p.got(_Semi) {
			p.syntaxError("expected newline or ; after statement")
		}
	}
}

func (p *parser) block() *Pair {
	start := p.want(_Lbrace).pos
	list := p.stmtList(_Rbrace)
	p.want(_Rbrace)
	return p.node(Block, start, list...)
}

func (p *parser) stmt() *Pair {
	start := p.cur().pos

	switch p.tok() {
	case _Func, _Var:
		return p.declStmt(start, p.node(Modifiers, start))

	case _Name:
		n := 0
		for p.peek(n) == _Name {
			n++
		}
		if k := p.peek(n); k == _Func || k == _Var {
			return p.declStmt(start, p.modifiers(n))
		}
		switch p.peek(1) {
		case _Assign:
			return p.assignment()
		case _Lparen:
			return p.call()
		}
		p.errorAt(start, "expression evaluated but not used")

	case _Number, _String, _Add, _Sub, _Lparen:
		p.errorAt(start, "expression evaluated but not used")

	case _Loop:
		p.next()
		return p.node(Loop, start, p.block())

	case _Break:
		p.next()
		return p.node(Break, start)

	case _If:
		return p.ifBlock()

	case _Try:
		p.next()
		body := p.block()
		return p.node(TryCatch, start, body, p.catch())

	case _Throw:
		p.next()
		return p.node(Throw, start, p.value())

	case _Import:
		p.next()
		if p.tok() != _String {
			p.syntaxError("expected import path string")
		}
		return p.node(Import, start, p.leaf(String))

	case _Module:
		p.next()
		return p.node(Module, start, p.ident())

	case _Class:
		p.next()
		name := p.ident()
		return p.node(Class, start, name, p.block())

	case _Return:
		p.next()
		return p.node(Return, start, p.value())
	}

	p.syntaxError("expected statement")
	return nil
}

// modifiers consumes n names as Modifier pairs.
func (p *parser) modifiers(n int) *Pair {
	start := p.cur().pos
	mods := make([]*Pair, n)
	for i := range mods {
		mods[i] = p.leaf(Modifier)
	}
	return p.node(Modifiers, start, mods...)
}

func (p *parser) declStmt(start Pos, mods *Pair) *Pair {
	if p.got(_Func) {
		decl := p.declaration()
		args := p.args()
		return p.node(Function, start, mods, decl, args, p.block())
	}
	p.want(_Var)
	decl := p.declaration()
	p.want(_Assign)
	return p.node(Variable, start, mods, decl, p.value())
}

func (p *parser) declaration() *Pair {
	start := p.cur().pos
	name := p.ident()
	if !p.got(_Colon) {
		return p.node(Declaration, start, name)
	}

	tstart := p.cur().pos
	tname := p.ident()
	typ := p.node(Type, tstart, tname)
	if p.tok() == _Lbrack {
		astart := p.next().pos
		p.want(_Rbrack)
		typ = p.node(Type, tstart, tname, p.node(ArrayMarker, astart))
	}
	return p.node(Declaration, start, name, typ)
}

func (p *parser) args() *Pair {
	start := p.want(_Lparen).pos
	var list []*Pair
	for p.tok() != _Rparen {
		list = append(list, p.declaration())
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rparen)
	return p.node(Args, start, list...)
}

func (p *parser) ifBlock() *Pair {
	start := p.cur().pos
	p.want(_If)
	cond := p.value()
	cases := []*Pair{p.node(If, start, cond, p.block())}

	for {
		// "else" may start the line after the closing brace.
		if p.tok() == _Semi && p.cur().lit == "newline" && p.peek(1) == _Else {
			p.next()
		}
		if p.tok() != _Else {
			break
		}
		estart := p.next().pos
		if p.got(_If) {
			cond := p.value()
			cases = append(cases, p.node(ElseIf, estart, cond, p.block()))
			continue
		}
		cases = append(cases, p.node(Else, estart, p.block()))
		break
	}
	return p.node(IfBlock, start, cases...)
}

func (p *parser) catch() *Pair {
	start := p.want(_Catch).pos
	if p.tok() == _Name {
		name := p.ident()
		return p.node(Catch, start, name, p.block())
	}
	return p.node(Catch, start, p.block())
}

func (p *parser) assignment() *Pair {
	start := p.cur().pos
	name := p.ident()
	p.want(_Assign)
	return p.node(Assignment, start, name, p.value())
}

func (p *parser) call() *Pair {
	start := p.cur().pos
	name := p.ident()

	astart := p.want(_Lparen).pos
	var list []*Pair
	for p.tok() != _Rparen {
		tstart := p.cur().pos
		list = append(list, p.node(CallArg, tstart, p.term()))
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rparen)
	args := p.node(CallArgs, astart, list...)
	return p.node(Call, start, name, args)
}

func (p *parser) ident() *Pair {
	if p.tok() != _Name {
		p.syntaxError("expected name")
	}
	return p.leaf(Ident)
}

// ----------------------------------------------------------------------------
// Expressions

// value parses the right-hand side of a binding, a condition, or a
// return/throw payload. A call is accepted here so the AST builder can
// reject it with a precise message.
func (p *parser) value() *Pair {
	if p.tok() == _Name && p.peek(1) == _Lparen {
		return p.call()
	}
	return p.expr()
}

func (p *parser) expr() *Pair {
	start := p.cur().pos
	first := p.term()

	switch {
	case p.tok().isMathOp():
		return p.node(Expr, start, p.chain(start, first, BinaryExpr))
	case p.tok().isCondOp():
		return p.node(Expr, start, p.chain(start, first, ConditionalExpr))
	case p.tok() == _Lbrack:
		p.next()
		idx := p.term()
		if idx.Rule != Number && idx.Rule != String {
			p.errorAt(idx.Pos(), "index must be a number or string literal")
		}
		p.want(_Rbrack)
		return p.node(Expr, start, p.node(IndexExpr, start, first, idx))
	}
	return p.node(Expr, start, first)
}

// chain parses the operator/operand tail of an operator chain. All
// operators in one chain belong to the same class.
func (p *parser) chain(start Pos, first *Pair, rule Rule) *Pair {
	list := []*Pair{first}
	for p.tok().isMathOp() || p.tok().isCondOp() {
		if p.tok().isMathOp() != (rule == BinaryExpr) {
			p.errorAt(p.cur().pos, "cannot mix arithmetic and comparison operators in one expression")
		}
		opStart := p.cur().pos
		var op *Pair
		switch p.tok() {
		case _Add:
			op = p.leaf(Add)
		case _Sub:
			op = p.leaf(Subtract)
		case _Mul:
			op = p.leaf(Multiply)
		case _Div:
			op = p.leaf(Divide)
		case _Xor:
			op = p.leaf(XOR)
		case _Eql:
			op = p.leaf(Equality)
		case _Neq:
			op = p.leaf(Inequality)
		}
		wrap := MathOp
		if rule == ConditionalExpr {
			wrap = CondOp
		}
		list = append(list, p.node(wrap, opStart, op), p.term())
	}
	return p.node(rule, start, list...)
}

func (p *parser) term() *Pair {
	start := p.cur().pos

	switch p.tok() {
	case _Number:
		return p.node(Number, start, p.leaf(UNumber))

	case _Add, _Sub:
		sign := p.leaf(Add)
		if sign.Text == "-" {
			sign.Rule = Subtract
		}
		if p.tok() != _Number {
			p.syntaxError("expected number after sign")
		}
		return p.node(Number, start, sign, p.leaf(UNumber))

	case _String:
		return p.leaf(String)

	case _Name:
		return p.leaf(Ident)

	case _Lparen:
		p.next()
		x := p.expr()
		p.want(_Rparen)
		return p.node(Paren, start, x)
	}

	p.syntaxError("expected expression")
	return nil
}
