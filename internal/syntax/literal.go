package syntax

import (
	"errors"
	"fmt"
	"strings"
)

var errNotQuoted = errors.New("string literal is not quoted")

// Unquote decodes a raw string literal as produced by the scanner.
// Supported escapes are \n \t \r \\ \" \0 and \xNN.
func Unquote(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", errNotQuoted
	}
	body := lit[1 : len(lit)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", errors.New("string literal ends in a backslash")
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '0':
			b.WriteByte(0)
		case 'x':
			if i+2 >= len(body) {
				return "", errors.New("invalid hex escape")
			}
			hi, ok1 := hexValue(body[i+1])
			lo, ok2 := hexValue(body[i+2])
			if !ok1 || !ok2 {
				return "", errors.New("invalid hex escape")
			}
			b.WriteByte(hi<<4 | lo)
			i += 2
		default:
			return "", fmt.Errorf("unknown escape sequence: \\%c", body[i])
		}
	}
	return b.String(), nil
}

func hexValue(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
