package syntax

import (
	"strings"
	"testing"
)

func scanAll(t *testing.T, src string) ([]Token, []string) {
	t.Helper()
	s := NewScanner("test", strings.NewReader(src), func(pos Pos, msg string) {
		t.Fatalf("unexpected error at %s: %s", pos, msg)
	})
	var toks []Token
	var lits []string
	for {
		s.Next()
		if s.Token() == _EOF {
			return toks, lits
		}
		toks = append(toks, s.Token())
		lits = append(lits, s.Literal())
	}
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		tokens []Token
		lits   []string
	}{
		{"ident", "foo", []Token{_Name, _Semi}, []string{"foo", "EOF"}},
		{"ident_digits", "x_1", []Token{_Name, _Semi}, []string{"x_1", "EOF"}},
		{"modifier_is_name", "debug", []Token{_Name, _Semi}, []string{"debug", "EOF"}},

		{"int", "123", []Token{_Number, _Semi}, []string{"123", "EOF"}},
		{"float", "3.25", []Token{_Number, _Semi}, []string{"3.25", "EOF"}},
		{"exp", "2.5e-3", []Token{_Number, _Semi}, []string{"2.5e-3", "EOF"}},
		{"negative_is_two_tokens", "-5", []Token{_Sub, _Number, _Semi}, []string{"-", "5", "EOF"}},

		{"string_raw", `"a\nb"`, []Token{_String, _Semi}, []string{`"a\nb"`, "EOF"}},
		{"string_quote", `"say \"hi\""`, []Token{_String, _Semi}, []string{`"say \"hi\""`, "EOF"}},
		{"string_empty", `""`, []Token{_String, _Semi}, []string{`""`, "EOF"}},

		{"ops", "+ - * / ^", []Token{_Add, _Sub, _Mul, _Div, _Xor}, []string{"+", "-", "*", "/", "^"}},
		{"compare", "a == b != c", []Token{_Name, _Eql, _Name, _Neq, _Name, _Semi}, nil},
		{"assign", "x = 1", []Token{_Name, _Assign, _Number, _Semi}, nil},
		{"decl_type", "x: number[]", []Token{_Name, _Colon, _Name, _Lbrack, _Rbrack, _Semi}, nil},

		{"kw_loop", "loop {", []Token{_Loop, _Lbrace}, nil},
		{"kw_break", "break", []Token{_Break, _Semi}, []string{"break", "EOF"}},
		{"kw_return_no_asi", "return", []Token{_Return}, nil},
		{"kw_misc", "try catch throw import module class", []Token{_Try, _Catch, _Throw, _Import, _Module, _Class}, nil},

		{"comment", "a // note\nb", []Token{_Name, _Semi, _Name, _Semi}, []string{"a", "newline", "b", "EOF"}},
		{"comment_eof", "a // note", []Token{_Name, _Semi}, []string{"a", "EOF"}},
		{"blank_lines", "\n\n a \n\n", []Token{_Name, _Semi}, []string{"a", "newline"}},
		{"brace_asi", "}\n", []Token{_Rbrace, _Semi}, []string{"}", "newline"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, lits := scanAll(t, tt.src)
			if len(toks) != len(tt.tokens) {
				t.Fatalf("tokens = %v, want %v", toks, tt.tokens)
			}
			for i := range toks {
				if toks[i] != tt.tokens[i] {
					t.Errorf("token %d: got %v, want %v", i, toks[i], tt.tokens[i])
				}
				if tt.lits != nil && lits[i] != tt.lits[i] {
					t.Errorf("literal %d: got %q, want %q", i, lits[i], tt.lits[i])
				}
			}
		})
	}
}

func TestScanPositions(t *testing.T) {
	src := "var x = 1\nprint(x)"
	s := NewScanner("p.rl", strings.NewReader(src), nil)

	want := []struct {
		tok       Token
		line, col uint32
		off, end  int
	}{
		{_Var, 1, 1, 0, 3},
		{_Name, 1, 5, 4, 5},
		{_Assign, 1, 7, 6, 7},
		{_Number, 1, 9, 8, 9},
		{_Semi, 1, 10, 9, 9},
		{_Name, 2, 1, 10, 15},
		{_Lparen, 2, 6, 15, 16},
	}
	for i, w := range want {
		s.Next()
		if s.Token() != w.tok {
			t.Fatalf("token %d = %v, want %v", i, s.Token(), w.tok)
		}
		if s.Pos().Line() != w.line || s.Pos().Col() != w.col {
			t.Errorf("token %d at %s, want %d:%d", i, s.Pos(), w.line, w.col)
		}
		if s.Pos().Offset() != w.off || s.End().Offset() != w.end {
			t.Errorf("token %d span [%d,%d), want [%d,%d)", i, s.Pos().Offset(), s.End().Offset(), w.off, w.end)
		}
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{`"open`, "string not terminated"},
		{"1.", "fraction has no digits"},
		{"1e", "exponent has no digits"},
		{"a ! b", "did you mean !="},
		{"a % b", "unexpected character"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			var got string
			s := NewScanner("test", strings.NewReader(tt.src), func(pos Pos, msg string) {
				if got == "" {
					got = msg
				}
			})
			for s.Next(); s.Token() != _EOF; s.Next() {
			}
			if !strings.Contains(got, tt.msg) {
				t.Errorf("error = %q, want it to contain %q", got, tt.msg)
			}
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		lit  string
		want string
		ok   bool
	}{
		{`"hello"`, "hello", true},
		{`""`, "", true},
		{`"a\nb\tc"`, "a\nb\tc", true},
		{`"q\"q"`, `q"q`, true},
		{`"\\"`, `\`, true},
		{`"\x41\x42"`, "AB", true},
		{`"\0"`, "\x00", true},
		{`"\q"`, "", false},
		{`"\x4"`, "", false},
		{`hello`, "", false},
	}
	for _, tt := range tests {
		got, err := Unquote(tt.lit)
		if (err == nil) != tt.ok {
			t.Errorf("Unquote(%s) error = %v, want ok=%v", tt.lit, err, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("Unquote(%s) = %q, want %q", tt.lit, got, tt.want)
		}
	}
}

func FuzzScanner(f *testing.F) {
	f.Add("var x = 1 + 2")
	f.Add(`print("hi", -3)`)
	f.Add("loop { if x == 1 { break } }")
	f.Fuzz(func(t *testing.T, src string) {
		s := NewScanner("fuzz", strings.NewReader(src), nil)
		for i := 0; i < 2*len(src)+2; i++ {
			s.Next()
			if s.Token() == _EOF {
				return
			}
		}
		t.Fatalf("scanner did not reach EOF for %q", src)
	})
}
