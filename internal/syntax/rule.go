package syntax

import "fmt"

// Rule identifies the grammar production a Pair was matched by.
type Rule uint8

const (
	RuleInvalid Rule = iota

	Program
	Block

	// Statements
	Function
	Variable
	Loop
	Break
	IfBlock
	If
	ElseIf
	Else
	TryCatch
	Catch
	Throw
	Import
	Module
	Class
	Return
	Assignment
	Call

	// Declarations
	Modifiers
	Modifier
	Declaration
	Type
	ArrayMarker
	Args
	CallArgs
	CallArg

	// Expressions
	Expr
	BinaryExpr
	ConditionalExpr
	IndexExpr
	MathOp
	CondOp
	Add
	Subtract
	Multiply
	Divide
	XOR
	Equality
	Inequality

	// Terms
	Number
	UNumber
	String
	Ident
	Paren

	ruleCount
)

var ruleNames = [...]string{
	RuleInvalid: "Invalid",

	Program: "Program",
	Block:   "Block",

	Function:   "Function",
	Variable:   "Variable",
	Loop:       "Loop",
	Break:      "Break",
	IfBlock:    "IfBlock",
	If:         "If",
	ElseIf:     "ElseIf",
	Else:       "Else",
	TryCatch:   "TryCatch",
	Catch:      "Catch",
	Throw:      "Throw",
	Import:     "Import",
	Module:     "Module",
	Class:      "Class",
	Return:     "Return",
	Assignment: "Assignment",
	Call:       "Call",

	Modifiers:   "Modifiers",
	Modifier:    "Modifier",
	Declaration: "Declaration",
	Type:        "Type",
	ArrayMarker: "ArrayMarker",
	Args:        "Args",
	CallArgs:    "CallArgs",
	CallArg:     "CallArg",

	Expr:            "Expr",
	BinaryExpr:      "BinaryExpr",
	ConditionalExpr: "ConditionalExpr",
	IndexExpr:       "IndexExpr",
	MathOp:          "MathOp",
	CondOp:          "CondOp",
	Add:             "Add",
	Subtract:        "Subtract",
	Multiply:        "Multiply",
	Divide:          "Divide",
	XOR:             "XOR",
	Equality:        "Equality",
	Inequality:      "Inequality",

	Number:  "Number",
	UNumber: "UNumber",
	String:  "String",
	Ident:   "Ident",
	Paren:   "Paren",
}

func (r Rule) String() string {
	if r < ruleCount {
		return ruleNames[r]
	}
	return fmt.Sprintf("Rule(%d)", r)
}
