package ast

// Visitor is called for each statement during Walk.
// If it returns false, the statement's nested trees are not visited.
type Visitor func(n Node) bool

// Walk traverses tree in depth-first source order, descending into every
// nested statement tree (function, loop, if, try/catch and class bodies).
func Walk(tree Tree, v Visitor) {
	for _, n := range tree {
		walkNode(n, v)
	}
}

func walkNode(n Node, v Visitor) {
	if n == nil || !v(n) {
		return
	}

	switch n := n.(type) {
	case *Loop:
		Walk(n.Body, v)
	case *Function:
		Walk(n.Body, v)
	case *TryCatch:
		Walk(n.Try, v)
		Walk(n.Catch, v)
	case *If:
		for _, arm := range n.Nodes {
			switch arm := arm.(type) {
			case *Case:
				Walk(arm.Body, v)
			case *Else:
				Walk(arm.Body, v)
			}
		}
	case *Class:
		Walk(n.Body, v)

	// Leaf statements: Break, Call, Throw, Import, Module, Variable,
	// Assignment, Return, ExprStmt
	}
}
