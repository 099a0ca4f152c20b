package ast

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of tree to w.
func FprintJSON(w io.Writer, tree Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(treeJSON(tree))
}

func treeJSON(t Tree) []any {
	return mapSlice(t, nodeJSON)
}

func nodeJSON(n Node) any {
	m := map[string]any{"pos": n.Span().String()}

	switch n := n.(type) {
	case *Loop:
		m["type"] = "Loop"
		m["body"] = treeJSON(n.Body)
	case *Break:
		m["type"] = "Break"
	case *Function:
		m["type"] = "Function"
		m["modifiers"] = mapSlice(n.Modifiers, func(f FunctionMod) any { return f.String() })
		m["declaration"] = declJSON(n.Declaration)
		m["args"] = mapSlice(n.Args, declJSON)
		m["body"] = treeJSON(n.Body)
	case *Call:
		m["type"] = "Call"
		m["ident"] = n.Ident.Name
		m["args"] = mapSlice(n.Args, func(t Term) any { return exprJSON(t) })
	case *Throw:
		m["type"] = "Throw"
		m["value"] = exprJSON(n.Value)
	case *Import:
		m["type"] = "Import"
		m["path"] = exprJSON(n.Path)
	case *Module:
		m["type"] = "Module"
		m["ident"] = n.Ident.Name
	case *TryCatch:
		m["type"] = "TryCatch"
		m["try"] = treeJSON(n.Try)
		if n.CatchIdent != nil {
			m["catchIdent"] = n.CatchIdent.Name
		}
		m["catch"] = treeJSON(n.Catch)
	case *Variable:
		m["type"] = "Variable"
		m["modifiers"] = mapSlice(n.Modifiers, func(v VariableMod) any { return v.String() })
		m["declaration"] = declJSON(n.Declaration)
		m["value"] = exprJSON(n.Value)
	case *Assignment:
		m["type"] = "Assignment"
		m["ident"] = n.Ident.Name
		m["value"] = exprJSON(n.Value)
	case *If:
		m["type"] = "If"
		m["nodes"] = mapSlice(n.Nodes, func(arm IfNode) any {
			switch arm := arm.(type) {
			case *Case:
				return map[string]any{"type": "Case", "cond": exprJSON(arm.Cond), "body": treeJSON(arm.Body)}
			case *Else:
				return map[string]any{"type": "Else", "body": treeJSON(arm.Body)}
			}
			return nil
		})
	case *Class:
		m["type"] = "Class"
		m["ident"] = n.Ident.Name
		m["body"] = treeJSON(n.Body)
	case *Return:
		m["type"] = "Return"
		m["value"] = exprJSON(n.Value)
	case *ExprStmt:
		m["type"] = "ExprStmt"
		m["value"] = exprJSON(n.X)
	default:
		m["type"] = "Unknown"
	}
	return m
}

func declJSON(d Declaration) any {
	m := map[string]any{"ident": d.Ident.Name}
	if d.Type != nil {
		m["type"] = d.Type.Ident.Name
		m["isArray"] = d.Type.IsArray
	}
	return m
}

func exprJSON(x Expr) any {
	switch x := x.(type) {
	case *String:
		return map[string]any{"type": "String", "value": x.Value}
	case *Number:
		return map[string]any{"type": "Number", "value": x.Value}
	case *Name:
		return map[string]any{"type": "Ident", "name": x.Ident.Name}
	case *BinaryExpr:
		return map[string]any{"type": "BinaryExpr", "terms": mapSlice(x.Terms, func(t BinaryExprTerm) any {
			m := map[string]any{"operand": exprJSON(t.Operand)}
			if t.Operator != nil {
				m["operator"] = t.Operator.String()
			}
			return m
		})}
	case *ConditionalExpr:
		return map[string]any{"type": "ConditionalExpr", "terms": mapSlice(x.Terms, func(t ConditionExprTerm) any {
			m := map[string]any{"operand": exprJSON(t.Operand)}
			if t.Operator != nil {
				m["operator"] = t.Operator.String()
			}
			return m
		})}
	case *IndexExpr:
		return map[string]any{"type": "IndexExpr", "term": exprJSON(x.Term), "index": exprJSON(x.Index)}
	}
	return nil
}

func mapSlice[T any](s []T, f func(T) any) []any {
	result := make([]any, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
