package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/you-not-fish/redditlang/internal/diag"
	"github.com/you-not-fish/redditlang/internal/syntax"
)

func parse(t *testing.T, src string) (Tree, error) {
	t.Helper()
	prog, err := syntax.Parse("test.rl", strings.NewReader(src))
	if err != nil {
		t.Fatalf("grammar rejected %q: %v", src, err)
	}
	return Build(prog)
}

func mustBuild(t *testing.T, src string) Tree {
	t.Helper()
	tree, err := parse(t, src)
	if err != nil {
		t.Fatalf("Build(%q) failed: %v", src, err)
	}
	return tree
}

func wantError(t *testing.T, src string, kind diag.Kind, pos, msg string) {
	t.Helper()
	_, err := parse(t, src)
	if err == nil {
		t.Fatalf("Build(%q) succeeded, want %v", src, kind)
	}
	d, ok := err.(*diag.Error)
	if !ok {
		t.Fatalf("error type %T, want *diag.Error", err)
	}
	if d.Kind != kind {
		t.Errorf("kind = %v, want %v (%v)", d.Kind, kind, err)
	}
	if pos != "" && d.Span.String() != pos {
		t.Errorf("error at %s, want %s", d.Span, pos)
	}
	if !strings.Contains(d.Msg, msg) {
		t.Errorf("message %q, want it to contain %q", d.Msg, msg)
	}
}

func varValue(t *testing.T, src string) Expr {
	t.Helper()
	tree := mustBuild(t, src)
	v, ok := tree[0].(*Variable)
	if !ok {
		t.Fatalf("first statement is %T, want *Variable", tree[0])
	}
	return v.Value
}

func TestNumberSign(t *testing.T) {
	for _, mag := range []string{"0", "5", "3.5", "1e3"} {
		for _, tt := range []struct {
			sign   string
			negate bool
		}{{"", false}, {"+", false}, {"-", true}} {
			src := "var n = " + tt.sign + mag
			num, ok := varValue(t, src).(*Number)
			if !ok {
				t.Fatalf("%q: value is not a *Number", src)
			}
			want := map[string]float64{"0": 0, "5": 5, "3.5": 3.5, "1e3": 1000}[mag]
			if tt.negate {
				want = -want
			}
			if num.Value != want {
				t.Errorf("%q = %v, want %v", src, num.Value, want)
			}
		}
	}
}

func TestStringUnquoted(t *testing.T) {
	s, ok := varValue(t, `var s = "a\tb\"c"`).(*String)
	if !ok {
		t.Fatal("value is not a *String")
	}
	if s.Value != "a\tb\"c" {
		t.Errorf("Value = %q", s.Value)
	}
	wantError(t, `var s = "\q"`, diag.Syntax, "test.rl:1:9", "malformed string literal")
}

func TestDuplicateArguments(t *testing.T) {
	for _, args := range []string{"a, a", "a, b, a", "a, b, c, b", "x: number, y, x: string"} {
		t.Run(args, func(t *testing.T) {
			wantError(t, "func f("+args+") { }", diag.Syntax, "test.rl:1:7", "duplicate argument")
		})
	}

	fn := mustBuild(t, "func f(a, b: string[], c) { }")[0].(*Function)
	if len(fn.Args) != 3 || fn.Args[1].Ident.Name != "b" || !fn.Args[1].Type.IsArray {
		t.Errorf("Args = %+v", fn.Args)
	}
}

func TestDuplicateCheckedBeforeBody(t *testing.T) {
	// The body error would be reported first if the body were built first.
	wantError(t, "func f(a, a) { var x = (1) }", diag.Syntax, "", "duplicate argument")
}

func TestFunctionModifiers(t *testing.T) {
	fn := mustBuild(t, "debug bar func f() { }")[0].(*Function)
	if len(fn.Modifiers) != 2 || fn.Modifiers[0] != Debug || fn.Modifiers[1] != FuncPublic {
		t.Errorf("Modifiers = %v, want [Debug Public]", fn.Modifiers)
	}

	v := mustBuild(t, "bar var x = 1")[0].(*Variable)
	if len(v.Modifiers) != 1 || v.Modifiers[0] != VarPublic {
		t.Errorf("Modifiers = %v, want [Public]", v.Modifiers)
	}

	// The error points at the modifier itself.
	wantError(t, "bar pub func f() { }", diag.Syntax, "test.rl:1:5", `invalid function modifier "pub"`)
	wantError(t, "debug var x = 1", diag.Syntax, "test.rl:1:1", `invalid variable modifier "debug"`)
	wantError(t, "static var x = 1", diag.Syntax, "test.rl:1:1", "invalid variable modifier")
}

func TestBinaryChainShape(t *testing.T) {
	bin, ok := varValue(t, "var r = a - b * c").(*BinaryExpr)
	if !ok {
		t.Fatal("value is not a *BinaryExpr")
	}
	if len(bin.Terms) != 3 {
		t.Fatalf("len(Terms) = %d, want 3", len(bin.Terms))
	}
	wantOps := []MathOperator{Subtract, Multiply}
	for i, term := range bin.Terms {
		if i < 2 {
			if term.Operator == nil || *term.Operator != wantOps[i] {
				t.Errorf("term %d operator = %v, want %v", i, term.Operator, wantOps[i])
			}
		} else if term.Operator != nil {
			t.Errorf("last term has operator %v", *term.Operator)
		}
	}
	if got := ExprString(bin); got != "a - b * c" {
		t.Errorf("ExprString = %q", got)
	}
}

func TestAllOperators(t *testing.T) {
	bin := varValue(t, "var r = 1 + 2 - 3 * 4 / 5 ^ 6").(*BinaryExpr)
	want := []MathOperator{Add, Subtract, Multiply, Divide, XOR}
	for i, op := range want {
		if *bin.Terms[i].Operator != op {
			t.Errorf("operator %d = %v, want %v", i, *bin.Terms[i].Operator, op)
		}
	}

	cond := varValue(t, "var c = a == b != c").(*ConditionalExpr)
	if *cond.Terms[0].Operator != Equality || *cond.Terms[1].Operator != AntiEquality || cond.Terms[2].Operator != nil {
		t.Errorf("conditional operators = %s", ExprString(cond))
	}
}

func TestValueMustBeExpression(t *testing.T) {
	wantError(t, "var x = f(1)", diag.Syntax, "test.rl:1:9", "value is not an expression")
	wantError(t, "return g()", diag.Syntax, "test.rl:1:8", "value is not an expression")
	wantError(t, "throw h()", diag.Syntax, "test.rl:1:7", "value is not an expression")
	wantError(t, "if c() { }", diag.Syntax, "test.rl:1:4", "value is not an expression")
	wantError(t, "x = f()", diag.Syntax, "test.rl:1:5", "value is not an expression")
}

func TestParenUnsupported(t *testing.T) {
	wantError(t, "var p = (1)", diag.Syntax, "test.rl:1:9", "parenthesized expressions are not supported")
	wantError(t, "var p = 1 + (2)", diag.Syntax, "test.rl:1:13", "parenthesized expressions are not supported")
}

func TestIfChain(t *testing.T) {
	tree := mustBuild(t, "if a { } else if b { print(1) } else if c { } else { break }")
	n := tree[0].(*If)
	if len(n.Nodes) != 4 {
		t.Fatalf("len(Nodes) = %d, want 4", len(n.Nodes))
	}
	for i := 0; i < 3; i++ {
		if _, ok := n.Nodes[i].(*Case); !ok {
			t.Errorf("node %d is %T, want *Case", i, n.Nodes[i])
		}
	}
	els, ok := n.Nodes[3].(*Else)
	if !ok {
		t.Fatalf("last node is %T, want *Else", n.Nodes[3])
	}
	if _, ok := els.Body[0].(*Break); !ok {
		t.Errorf("else body = %T, want *Break", els.Body[0])
	}
	if got := ExprString(n.Nodes[1].(*Case).Cond); got != "b" {
		t.Errorf("second condition = %q", got)
	}
}

func TestStatementKinds(t *testing.T) {
	src := `import "std/io"
module app
class Point { var x = 0 }
try { throw "boom" } catch err { print(err) }
try { } catch { }
x = 3
return x
var i = xs[0]
var k = m["key"]
`
	tree := mustBuild(t, src)
	want := []string{"*ast.Import", "*ast.Module", "*ast.Class", "*ast.TryCatch", "*ast.TryCatch",
		"*ast.Assignment", "*ast.Return", "*ast.Variable", "*ast.Variable"}
	if len(tree) != len(want) {
		t.Fatalf("len(tree) = %d, want %d", len(tree), len(want))
	}
	for i, w := range want {
		if got := fmt.Sprintf("%T", tree[i]); got != w {
			t.Errorf("statement %d = %s, want %s", i, got, w)
		}
	}

	if p := tree[0].(*Import).Path.(*String); p.Value != "std/io" {
		t.Errorf("import path = %q", p.Value)
	}
	tc := tree[3].(*TryCatch)
	if tc.CatchIdent == nil || tc.CatchIdent.Name != "err" || len(tc.Catch) != 1 {
		t.Errorf("catch = %+v", tc)
	}
	if tree[4].(*TryCatch).CatchIdent != nil {
		t.Error("bare catch has an identifier")
	}
	idx := tree[7].(*Variable).Value.(*IndexExpr)
	if idx.Index.(*Number).Value != 0 {
		t.Errorf("index = %s", ExprString(idx))
	}
	if key := tree[8].(*Variable).Value.(*IndexExpr).Index.(*String); key.Value != "key" {
		t.Errorf("key = %q", key.Value)
	}
}

func TestSpans(t *testing.T) {
	tree := mustBuild(t, "var a = 1\nloop {\n  break\n}")
	lp := tree[1].(*Loop)
	if lp.Span().String() != "test.rl:2:1" {
		t.Errorf("loop at %s", lp.Span())
	}
	if br := lp.Body[0].(*Break); br.Span().String() != "test.rl:3:3" {
		t.Errorf("break at %s", br.Span())
	}
	if id := tree[0].(*Variable).Declaration.Ident; id.Span.String() != "test.rl:1:5" {
		t.Errorf("ident at %s", id.Span)
	}
}

// Pairs that the grammar never produces are internal errors, not syntax
// errors.
func TestBugErrors(t *testing.T) {
	leaf := func(r syntax.Rule, text string) *syntax.Pair {
		return &syntax.Pair{Rule: r, Text: text}
	}
	pair := func(r syntax.Rule, inner ...*syntax.Pair) *syntax.Pair {
		return &syntax.Pair{Rule: r, Inner: inner}
	}
	program := func(stmt *syntax.Pair) *syntax.Pair { return pair(syntax.Program, stmt) }
	variable := func(value *syntax.Pair) *syntax.Pair {
		return pair(syntax.Variable, pair(syntax.Modifiers), pair(syntax.Declaration, leaf(syntax.Ident, "x")), value)
	}

	tests := []struct {
		name string
		prog *syntax.Pair
		msg  string
	}{
		{
			"unknown_operator",
			program(variable(pair(syntax.Expr, pair(syntax.BinaryExpr,
				leaf(syntax.Ident, "a"), pair(syntax.MathOp, leaf(syntax.Equality, "==")), leaf(syntax.Ident, "b"))))),
			"unknown arithmetic operator Equality",
		},
		{
			"unknown_cond_operator",
			program(variable(pair(syntax.Expr, pair(syntax.ConditionalExpr,
				leaf(syntax.Ident, "a"), pair(syntax.CondOp, leaf(syntax.Add, "+")), leaf(syntax.Ident, "b"))))),
			"unknown comparison operator Add",
		},
		{
			"invalid_if_arm",
			program(pair(syntax.IfBlock, pair(syntax.Block))),
			"invalid if-chain arm Block",
		},
		{
			"else_not_last",
			program(pair(syntax.IfBlock, pair(syntax.Else, pair(syntax.Block)), pair(syntax.Else, pair(syntax.Block)))),
			"else arm is not the last",
		},
		{
			"invalid_sign",
			program(variable(pair(syntax.Expr, pair(syntax.Number, leaf(syntax.Multiply, "*"), leaf(syntax.UNumber, "1"))))),
			"invalid sign rule Multiply",
		},
		{
			"unknown_statement",
			program(pair(syntax.Declaration)),
			"no statement rule for Declaration",
		},
		{
			"invalid_index",
			program(variable(pair(syntax.Expr, pair(syntax.IndexExpr, leaf(syntax.Ident, "a"), leaf(syntax.Ident, "b"))))),
			"index must be a number or string",
		},
		{
			"bad_catch",
			program(pair(syntax.TryCatch, pair(syntax.Block), pair(syntax.Catch, leaf(syntax.String, `"x"`)))),
			"catch clause starts with String",
		},
		{
			"missing_child",
			program(pair(syntax.Loop)),
			"Loop pair has no child 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.prog)
			if !diag.Is(err, diag.Bug) {
				t.Fatalf("error = %v, want a Bug diagnostic", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q, want it to contain %q", err, tt.msg)
			}
		})
	}
}

func TestExprStatementBuilds(t *testing.T) {
	prog := &syntax.Pair{Rule: syntax.Program, Inner: []*syntax.Pair{
		{Rule: syntax.Expr, Inner: []*syntax.Pair{{Rule: syntax.Ident, Text: "x"}}},
	}}
	tree, err := Build(prog)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tree[0].(*ExprStmt); !ok {
		t.Errorf("statement is %T, want *ExprStmt", tree[0])
	}
}

func TestWalk(t *testing.T) {
	tree := mustBuild(t, `func f() { loop { if a { break } else { var y = 1 } } }
class C { var z = 2 }
try { print(1) } catch { }`)

	var kinds []string
	Walk(tree, func(n Node) bool {
		switch n.(type) {
		case *Function:
			kinds = append(kinds, "func")
		case *Loop:
			kinds = append(kinds, "loop")
		case *If:
			kinds = append(kinds, "if")
		case *Break:
			kinds = append(kinds, "break")
		case *Variable:
			kinds = append(kinds, "var")
		case *Class:
			kinds = append(kinds, "class")
			return false
		case *TryCatch:
			kinds = append(kinds, "try")
		case *Call:
			kinds = append(kinds, "call")
		}
		return true
	})

	got := strings.Join(kinds, " ")
	if want := "func loop if break var class try call"; got != want {
		t.Errorf("visit order = %q, want %q", got, want)
	}
}

func TestPrint(t *testing.T) {
	out := Sprint(mustBuild(t, "debug func f(a, b: number) {\n  if a == b { print(a, \"eq\") }\n}"))
	for _, want := range []string{
		"Function test.rl:1:1 Debug f(a, b: number)\n",
		"  If test.rl:2:3\n",
		"    Case a == b:\n",
		"      Call test.rl:2:15 print(a, \"eq\")\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFprintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FprintJSON(&buf, mustBuild(t, "bar var x: number = -2")); err != nil {
		t.Fatal(err)
	}
	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	v := got[0]
	if v["type"] != "Variable" {
		t.Errorf("type = %v", v["type"])
	}
	if decl := v["declaration"].(map[string]any); decl["type"] != "number" {
		t.Errorf("declaration = %v", decl)
	}
	if val := v["value"].(map[string]any); val["value"] != -2.0 {
		t.Errorf("value = %v", val)
	}
}
