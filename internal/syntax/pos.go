package syntax

import "fmt"

// Pos represents a position in a source file.
// The zero value is an invalid position.
type Pos struct {
	filename string // source file name
	offset   int    // 0-based byte offset in the file
	line     uint32 // 1-based line number
	col      uint32 // 1-based column number (byte offset in line)
}

// NewPos creates a new Pos with the given filename, byte offset, line, and column.
// Line and column numbers are 1-based.
func NewPos(filename string, offset int, line, col uint32) Pos {
	return Pos{filename: filename, offset: offset, line: line, col: col}
}

// String returns a string representation of the position in the format
// "filename:line:col" or "line:col" if filename is empty.
func (p Pos) String() string {
	if p.filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.filename, p.line, p.col)
	}
	return fmt.Sprintf("%d:%d", p.line, p.col)
}

// IsValid reports whether the position is valid.
// A position is valid if line > 0.
func (p Pos) IsValid() bool {
	return p.line > 0
}

// Offset returns the 0-based byte offset.
func (p Pos) Offset() int {
	return p.offset
}

// Line returns the 1-based line number.
func (p Pos) Line() uint32 {
	return p.line
}

// Col returns the 1-based column number (byte offset in line).
func (p Pos) Col() uint32 {
	return p.col
}

// Filename returns the source file name.
func (p Pos) Filename() string {
	return p.filename
}

// Span is a half-open source range [Start, End).
type Span struct {
	Start Pos
	End   Pos
}

// String formats the span by its start position.
func (s Span) String() string {
	return s.Start.String()
}

// IsValid reports whether the span has a valid start.
func (s Span) IsValid() bool {
	return s.Start.IsValid()
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End.offset - s.Start.offset
}

// Cover returns the smallest span containing both s and t.
func (s Span) Cover(t Span) Span {
	if !s.IsValid() {
		return t
	}
	if !t.IsValid() {
		return s
	}
	out := s
	if t.Start.offset < out.Start.offset {
		out.Start = t.Start
	}
	if t.End.offset > out.End.offset {
		out.End = t.End
	}
	return out
}
