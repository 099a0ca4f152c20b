package syntax

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Pair {
	t.Helper()
	prog, err := Parse("test.rl", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return prog
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"variable_signed",
			"var x = -5",
			`Program[Variable[Modifiers("") Declaration[Ident("x")] Expr[Number[Subtract("-") UNumber("5")]]]]`,
		},
		{
			"variable_typed_string",
			`bar var s: string = "hi"`,
			`Program[Variable[Modifiers[Modifier("bar")] Declaration[Ident("s") Type[Ident("string")]] Expr[String("\"hi\"")]]]`,
		},
		{
			"function",
			"debug bar func add(a: number[], b) { }",
			`Program[Function[Modifiers[Modifier("debug") Modifier("bar")] Declaration[Ident("add")] ` +
				`Args[Declaration[Ident("a") Type[Ident("number") ArrayMarker("[]")]] Declaration[Ident("b")]] Block("{ }")]]`,
		},
		{
			"binary_chain",
			"var y = a - b * 2",
			`Program[Variable[Modifiers("") Declaration[Ident("y")] Expr[BinaryExpr[Ident("a") MathOp[Subtract("-")] Ident("b") MathOp[Multiply("*")] Number[UNumber("2")]]]]]`,
		},
		{
			"conditional_chain",
			"var c = a != b",
			`Program[Variable[Modifiers("") Declaration[Ident("c")] Expr[ConditionalExpr[Ident("a") CondOp[Inequality("!=")] Ident("b")]]]]`,
		},
		{
			"index",
			`var e = xs["k"]`,
			`Program[Variable[Modifiers("") Declaration[Ident("e")] Expr[IndexExpr[Ident("xs") String("\"k\"")]]]]`,
		},
		{
			"loop_if_break_call",
			"loop { if x == 1 { break } call(x) }",
			`Program[Loop[Block[IfBlock[If[Expr[ConditionalExpr[Ident("x") CondOp[Equality("==")] Number[UNumber("1")]]] Block[Break("break")]]] ` +
				`Call[Ident("call") CallArgs[CallArg[Ident("x")]]]]]]`,
		},
		{
			"if_chain",
			"if a { } else if b { } else { }",
			`Program[IfBlock[If[Expr[Ident("a")] Block("{ }")] ElseIf[Expr[Ident("b")] Block("{ }")] Else[Block("{ }")]]]`,
		},
		{
			"else_next_line",
			"if a {\n}\nelse {\n}",
			`Program[IfBlock[If[Expr[Ident("a")] Block("{\n}")] Else[Block("{\n}")]]]`,
		},
		{
			"try_catch",
			"try { } catch e { }",
			`Program[TryCatch[Block("{ }") Catch[Ident("e") Block("{ }")]]]`,
		},
		{
			"misc",
			"import \"lib\"\nmodule m\nclass C { }\nthrow x\nreturn 1\nx = 2",
			`Program[Import[String("\"lib\"")] Module[Ident("m")] Class[Ident("C") Block("{ }")] Throw[Expr[Ident("x")]] ` +
				`Return[Expr[Number[UNumber("1")]]] Assignment[Ident("x") Expr[Number[UNumber("2")]]]]`,
		},
		{
			"call_value",
			"var v = f(1)",
			`Program[Variable[Modifiers("") Declaration[Ident("v")] Call[Ident("f") CallArgs[CallArg[Number[UNumber("1")]]]]]]`,
		},
		{
			"paren",
			"var p = (a)",
			`Program[Variable[Modifiers("") Declaration[Ident("p")] Expr[Paren[Expr[Ident("a")]]]]]`,
		},
		{
			"empty",
			"// nothing\n",
			`Program("// nothing\n")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.src).String()
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestParseSpans(t *testing.T) {
	prog := mustParse(t, "print(1)\nfunc f(a, b) { }")

	fn := prog.Child(1)
	if fn.Rule != Function {
		t.Fatalf("second statement is %v, want Function", fn.Rule)
	}
	if fn.Pos().Line() != 2 || fn.Pos().Col() != 1 {
		t.Errorf("Function at %s, want 2:1", fn.Pos())
	}
	if fn.Text != "func f(a, b) { }" {
		t.Errorf("Function text = %q", fn.Text)
	}

	args := fn.Child(2)
	if args.Rule != Args || args.Pos().Col() != 7 || args.Text != "(a, b)" {
		t.Errorf("Args = %v at %s %q, want Args at 2:7 \"(a, b)\"", args.Rule, args.Pos(), args.Text)
	}
	if fn.Child(0).Span.Len() != 0 {
		t.Errorf("empty Modifiers span has length %d", fn.Child(0).Span.Len())
	}
}

func TestProgramSpansSource(t *testing.T) {
	for _, src := range []string{
		"",
		"// lead\nprint(1)\n// tail\n",
		"\n\n  var x = 1  ",
	} {
		prog := mustParse(t, src)
		if prog.Text != src {
			t.Errorf("Program text = %q, want %q", prog.Text, src)
		}
		if start := prog.Span.Start; start.Offset() != 0 || start.Line() != 1 || start.Col() != 1 {
			t.Errorf("%q: Program starts at %s offset %d, want 1:1 offset 0", src, start, start.Offset())
		}
		if end := prog.Span.End.Offset(); end != len(src) {
			t.Errorf("%q: Program ends at offset %d, want %d", src, end, len(src))
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  string
		msg  string
	}{
		{"missing_name", "var = 1", "test.rl:1:5", "unexpected =, expected name"},
		{"bare_expr", "x\n", "test.rl:1:1", "expression evaluated but not used"},
		{"bare_literal", "1 + 2", "test.rl:1:1", "expression evaluated but not used"},
		{"mixed_ops", "var x = a + b == c", "test.rl:1:15", "cannot mix arithmetic and comparison"},
		{"bad_index", "var x = a[b]", "test.rl:1:11", "index must be a number or string literal"},
		{"sign_ident", "var x = -y", "test.rl:1:10", "expected number after sign"},
		{"double_else", "if a { } else { } else { }", "test.rl:1:19", "unexpected keyword else, expected statement"},
		{"missing_sep", "var a = 1 var b = 2", "test.rl:1:11", "expected newline or ; after statement"},
		{"unclosed_block", "loop {", "test.rl:1:7", "unexpected EOF, expected }"},
		{"import_path", "import x", "test.rl:1:8", "expected import path string"},
		{"lexical", `var s = "open`, "test.rl:1:14", "string not terminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.rl", strings.NewReader(tt.src))
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.src)
			}
			serr, ok := err.(*Error)
			if !ok {
				t.Fatalf("error type %T, want *Error", err)
			}
			if serr.Pos.String() != tt.pos {
				t.Errorf("error at %s, want %s", serr.Pos, tt.pos)
			}
			if !strings.Contains(serr.Msg, tt.msg) {
				t.Errorf("error %q, want it to contain %q", serr.Msg, tt.msg)
			}
		})
	}
}

func TestFprint(t *testing.T) {
	out := Sprint(mustParse(t, "var x = 1"))
	for _, want := range []string{
		"Program test.rl:1:1\n",
		"  Variable test.rl:1:1\n",
		"    Declaration test.rl:1:5\n",
		"      Ident test.rl:1:5 \"x\"\n",
		"        UNumber test.rl:1:9 \"1\"\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
