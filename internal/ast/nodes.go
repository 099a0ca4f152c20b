// Package ast defines the RL abstract syntax tree and builds it from
// syntax pairs.
package ast

import "github.com/you-not-fish/redditlang/internal/syntax"

// Node is a statement. The set of implementations is closed.
type Node interface {
	Span() syntax.Span
	aNode()
}

// Expr is an expression.
type Expr interface {
	Span() syntax.Span
	aExpr()
}

// Term is a leaf expression: a string, a number or a variable reference.
type Term interface {
	Expr
	aTerm()
}

// Tree is an ordered statement sequence in execution order.
type Tree []Node

type node struct {
	span syntax.Span
}

func (n *node) Span() syntax.Span { return n.span }

type stmt struct{ node }

func (*stmt) aNode() {}

type expr struct{ node }

func (*expr) aExpr() {}

type term struct{ expr }

func (*term) aTerm() {}

// ----------------------------------------------------------------------------
// Names and declarations

// Ident is a non-empty identifier. Names compare by exact string equality.
type Ident struct {
	Name string
	Span syntax.Span
}

func (id Ident) String() string { return id.Name }

// Type is a declared type name, optionally an array of it.
type Type struct {
	Ident   Ident
	IsArray bool
}

func (t Type) String() string {
	if t.IsArray {
		return t.Ident.Name + "[]"
	}
	return t.Ident.Name
}

// Declaration names a binding with an optional type. A nil Type means the
// type is inferred.
type Declaration struct {
	Ident Ident
	Type  *Type
}

// FunctionMod is a function modifier.
type FunctionMod uint8

const (
	Debug FunctionMod = iota + 1 // debug
	FuncPublic                   // bar
)

func (m FunctionMod) String() string {
	switch m {
	case Debug:
		return "Debug"
	case FuncPublic:
		return "Public"
	}
	return "FunctionMod(?)"
}

// VariableMod is a variable modifier.
type VariableMod uint8

const (
	VarPublic VariableMod = iota + 1 // bar
)

func (m VariableMod) String() string {
	if m == VarPublic {
		return "Public"
	}
	return "VariableMod(?)"
}

// ----------------------------------------------------------------------------
// Terms and expressions

type (
	// String is a decoded string literal.
	String struct {
		term
		Value string
	}

	// Number is a numeric literal with its sign applied.
	Number struct {
		term
		Value float64
	}

	// Name is a variable reference.
	Name struct {
		term
		Ident Ident
	}
)

// MathOperator is an arithmetic operator.
type MathOperator uint8

const (
	Add MathOperator = iota + 1
	Subtract
	Multiply
	Divide
	XOR
)

var mathOpNames = [...]string{Add: "+", Subtract: "-", Multiply: "*", Divide: "/", XOR: "^"}

func (op MathOperator) String() string {
	if op > 0 && int(op) < len(mathOpNames) {
		return mathOpNames[op]
	}
	return "?"
}

// ConditionalOperator is a comparison operator.
type ConditionalOperator uint8

const (
	Equality ConditionalOperator = iota + 1
	AntiEquality
)

func (op ConditionalOperator) String() string {
	switch op {
	case Equality:
		return "=="
	case AntiEquality:
		return "!="
	}
	return "?"
}

// BinaryExprTerm is one element of an arithmetic chain. Operator, when
// set, combines the running value with the next term's operand; only the
// last term has no operator.
type BinaryExprTerm struct {
	Operand  Term
	Operator *MathOperator
}

// ConditionExprTerm is one element of a comparison chain, shaped like
// BinaryExprTerm.
type ConditionExprTerm struct {
	Operand  Term
	Operator *ConditionalOperator
}

type (
	// BinaryExpr is a left-to-right arithmetic chain.
	BinaryExpr struct {
		expr
		Terms []BinaryExprTerm
	}

	// ConditionalExpr is a left-to-right comparison chain.
	ConditionalExpr struct {
		expr
		Terms []ConditionExprTerm
	}

	// IndexExpr indexes Term by a number or string literal.
	IndexExpr struct {
		expr
		Term  Term
		Index Term // *Number or *String
	}
)

// ----------------------------------------------------------------------------
// Statements

type (
	// Loop repeats Body until a Break.
	Loop struct {
		stmt
		Body Tree
	}

	// Break leaves the innermost enclosing Loop.
	Break struct {
		stmt
	}

	// Function declares a named function.
	Function struct {
		stmt
		Modifiers   []FunctionMod
		Declaration Declaration
		Args        []Declaration
		Body        Tree
	}

	// Call invokes a function with term arguments.
	Call struct {
		stmt
		Ident Ident
		Args  []Term
	}

	// Throw raises Value.
	Throw struct {
		stmt
		Value Expr
	}

	// Import names another source file.
	Import struct {
		stmt
		Path Term
	}

	// Module declares the file's module name.
	Module struct {
		stmt
		Ident Ident
	}

	// TryCatch runs Try and transfers to Catch on a throw. CatchIdent, if
	// set, binds the thrown value inside Catch.
	TryCatch struct {
		stmt
		Try        Tree
		CatchIdent *Ident
		Catch      Tree
	}

	// Variable introduces a new binding.
	Variable struct {
		stmt
		Modifiers   []VariableMod
		Declaration Declaration
		Value       Expr
	}

	// Assignment rebinds an existing identifier.
	Assignment struct {
		stmt
		Ident Ident
		Value Expr
	}

	// If is an if/else-if/else chain. Else, if present, is last.
	If struct {
		stmt
		Nodes []IfNode
	}

	// Class declares a class with a body.
	Class struct {
		stmt
		Ident Ident
		Body  Tree
	}

	// Return returns Value from the enclosing function.
	Return struct {
		stmt
		Value Expr
	}

	// ExprStmt is an expression in statement position. The grammar does
	// not produce one in a statement list; the compiler rejects it.
	ExprStmt struct {
		stmt
		X Expr
	}
)

// IfNode is one arm of an If: a *Case or an *Else.
type IfNode interface {
	Span() syntax.Span
	aIfNode()
}

type (
	// Case is a conditional arm.
	Case struct {
		node
		Cond Expr
		Body Tree
	}

	// Else is the fallback arm.
	Else struct {
		node
		Body Tree
	}
)

func (*Case) aIfNode() {}
func (*Else) aIfNode() {}
