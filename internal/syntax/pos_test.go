package syntax

import "testing"

func TestPosString(t *testing.T) {
	tests := []struct {
		name    string
		pos     Pos
		wantStr string
	}{
		{"with filename", NewPos("main.rl", 40, 10, 5), "main.rl:10:5"},
		{"without filename", NewPos("", 40, 10, 5), "10:5"},
		{"line 1 col 1", NewPos("main.rl", 0, 1, 1), "main.rl:1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.wantStr {
				t.Errorf("Pos.String() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestPosIsValid(t *testing.T) {
	if !NewPos("a.rl", 0, 1, 1).IsValid() {
		t.Error("line 1 should be valid")
	}
	if NewPos("a.rl", 0, 0, 1).IsValid() {
		t.Error("line 0 should be invalid")
	}
	if (Pos{}).IsValid() {
		t.Error("zero Pos should be invalid")
	}
}

func TestPosGetters(t *testing.T) {
	pos := NewPos("test.rl", 99, 42, 13)

	if got := pos.Offset(); got != 99 {
		t.Errorf("Pos.Offset() = %d, want 99", got)
	}
	if got := pos.Line(); got != 42 {
		t.Errorf("Pos.Line() = %d, want 42", got)
	}
	if got := pos.Col(); got != 13 {
		t.Errorf("Pos.Col() = %d, want 13", got)
	}
	if got := pos.Filename(); got != "test.rl" {
		t.Errorf("Pos.Filename() = %q, want %q", got, "test.rl")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{NewPos("", 2, 1, 3), NewPos("", 5, 1, 6)}
	b := Span{NewPos("", 8, 1, 9), NewPos("", 12, 1, 13)}

	got := a.Cover(b)
	if got.Start.Offset() != 2 || got.End.Offset() != 12 {
		t.Errorf("Cover = [%d,%d), want [2,12)", got.Start.Offset(), got.End.Offset())
	}
	if got.Len() != 10 {
		t.Errorf("Len = %d, want 10", got.Len())
	}
	if (Span{}).Cover(a) != a {
		t.Error("invalid span should cover to the other span")
	}
}
