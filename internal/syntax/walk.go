package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Module:
		for _, d := range n.Decls {
			Walk(d, v)
		}

	case *VarDecl:
		Walk(n.Name, v)
		for _, e := range n.DimExprs {
			Walk(e, v)
		}
		if n.TypeName != nil {
			Walk(n.TypeName, v)
		}

	case *ConstDecl:
		Walk(n.Name, v)
		if n.TypeName != nil {
			Walk(n.TypeName, v)
		}
		if n.Value != nil {
			Walk(n.Value, v)
		}

	case *RecordDecl:
		Walk(n.Name, v)
		for _, f := range n.Fields {
			Walk(f, v)
		}

	case *Field:
		Walk(n.Name, v)
		for _, e := range n.DimExprs {
			Walk(e, v)
		}
		if n.TypeName != nil {
			Walk(n.TypeName, v)
		}

	case *EnumDecl:
		Walk(n.Name, v)
		for _, m := range n.Members {
			Walk(m, v)
		}

	case *EnumMember:
		Walk(n.Name, v)
		if n.Value != nil {
			Walk(n.Value, v)
		}

	case *ExternalDecl:
		Walk(n.Name, v)
		for _, prm := range n.Params {
			Walk(prm, v)
		}
		if n.Result != nil {
			Walk(n.Result, v)
		}

	case *EventDecl:
		Walk(n.Name, v)
		for _, prm := range n.Params {
			Walk(prm, v)
		}

	case *Procedure:
		Walk(n.Name, v)
		for _, prm := range n.Params {
			Walk(prm, v)
		}
		if n.Result != nil {
			Walk(n.Result, v)
		}
		for _, s := range n.Body {
			Walk(s, v)
		}

	case *Param:
		Walk(n.Name, v)
		if n.TypeName != nil {
			Walk(n.TypeName, v)
		}
		if n.Default != nil {
			Walk(n.Default, v)
		}

	case *DeclStmt:
		for _, d := range n.Decls {
			Walk(d, v)
		}

	case *AssignStmt:
		Walk(n.LHS, v)
		Walk(n.RHS, v)

	case *IfStmt:
		Walk(n.Cond, v)
		for _, s := range n.Then {
			Walk(s, v)
		}
		for _, c := range n.ElseIfs {
			Walk(c, v)
		}
		for _, s := range n.Else {
			Walk(s, v)
		}

	case *ElseIfClause:
		Walk(n.Cond, v)
		for _, s := range n.Body {
			Walk(s, v)
		}

	case *ForStmt:
		Walk(n.Var, v)
		Walk(n.From, v)
		Walk(n.To, v)
		if n.Step != nil {
			Walk(n.Step, v)
		}
		for _, s := range n.Body {
			Walk(s, v)
		}

	case *ForEachStmt:
		Walk(n.Var, v)
		Walk(n.Collection, v)
		for _, s := range n.Body {
			Walk(s, v)
		}

	case *DoStmt:
		if n.Cond != nil {
			Walk(n.Cond, v)
		}
		for _, s := range n.Body {
			Walk(s, v)
		}

	case *SelectStmt:
		Walk(n.Subject, v)
		for _, c := range n.Cases {
			Walk(c, v)
		}
		for _, s := range n.Else {
			Walk(s, v)
		}

	case *CaseClause:
		for _, g := range n.Guards {
			Walk(g, v)
		}
		for _, s := range n.Body {
			Walk(s, v)
		}

	case *CaseGuard:
		Walk(n.X, v)
		if n.Y != nil {
			Walk(n.Y, v)
		}

	case *WithStmt:
		Walk(n.Subject, v)
		for _, s := range n.Body {
			Walk(s, v)
		}

	case *RedimStmt:
		for _, t := range n.Targets {
			Walk(t, v)
		}

	case *RedimTarget:
		Walk(n.Name, v)
		for _, e := range n.DimExprs {
			Walk(e, v)
		}

	case *CallStmt:
		Walk(n.Call, v)

	case *Operation:
		Walk(n.X, v)
		if n.Y != nil {
			Walk(n.Y, v)
		}

	case *CallExpr:
		Walk(n.Fun, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *IndexExpr:
		Walk(n.X, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *SelectorExpr:
		Walk(n.X, v)
		Walk(n.Sel, v)

	case *WithSelectorExpr:
		Walk(n.Sel, v)

	case *ParenExpr:
		Walk(n.X, v)

		// Leaf nodes: Name, BasicLit, OnErrorStmt, ExitStmt, GotoStmt,
		// ReturnStmt, ResumeStmt, LabelStmt
		// No children to visit
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
