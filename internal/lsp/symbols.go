package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/you-not-fish/redditlang/internal/ast"
	"github.com/you-not-fish/redditlang/internal/driver"
)

// Symbols returns the functions, variables, classes and modules declared
// in text. Function and class members nest under their declaration;
// declarations inside loops, ifs and try blocks belong to the enclosing
// level. A document that does not parse has no symbols.
func Symbols(uri protocol.DocumentUri, text string) []protocol.DocumentSymbol {
	u, err := driver.Parse(filename(uri), []byte(text))
	if err != nil {
		return []protocol.DocumentSymbol{}
	}
	return symbols(u.Tree)
}

func symbols(tree ast.Tree) []protocol.DocumentSymbol {
	out := []protocol.DocumentSymbol{}
	ast.Walk(tree, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Function:
			out = append(out, symbol(n, n.Declaration.Ident, protocol.SymbolKindFunction, symbols(n.Body)))
			return false
		case *ast.Class:
			out = append(out, symbol(n, n.Ident, protocol.SymbolKindClass, symbols(n.Body)))
			return false
		case *ast.Variable:
			out = append(out, symbol(n, n.Declaration.Ident, protocol.SymbolKindVariable, nil))
		case *ast.Module:
			out = append(out, symbol(n, n.Ident, protocol.SymbolKindModule, nil))
		}
		return true
	})
	return out
}

func symbol(n ast.Node, id ast.Ident, kind protocol.SymbolKind, children []protocol.DocumentSymbol) protocol.DocumentSymbol {
	return protocol.DocumentSymbol{
		Name:           id.Name,
		Kind:           kind,
		Range:          toRange(n.Span()),
		SelectionRange: toRange(id.Span),
		Children:       children,
	}
}
