package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Module:
		m := map[string]interface{}{
			"type":  "Module",
			"pos":   n.pos.String(),
			"decls": mapSliceDecl(n.Decls, toJSON),
		}
		if n.Name != "" {
			m["name"] = n.Name
		}
		if len(n.Options) > 0 {
			m["options"] = n.Options
		}
		return m

	case *VarDecl:
		m := map[string]interface{}{
			"type": "VarDecl",
			"pos":  n.pos.String(),
			"name": nameString(n.Name),
		}
		if n.Vis != VisNone {
			m["vis"] = n.Vis.String()
		}
		if n.Static {
			m["static"] = true
		}
		if n.WithEvents {
			m["withevents"] = true
		}
		if len(n.DimExprs) > 0 {
			m["dims"] = mapSliceExpr(n.DimExprs, toJSON)
		}
		if n.TypeName != nil {
			m["vartype"] = typeString(n.TypeName)
		}
		return m

	case *ConstDecl:
		m := map[string]interface{}{
			"type":  "ConstDecl",
			"pos":   n.pos.String(),
			"name":  nameString(n.Name),
			"value": toJSON(n.Value),
		}
		if n.TypeName != nil {
			m["consttype"] = typeString(n.TypeName)
		}
		return m

	case *RecordDecl:
		return map[string]interface{}{
			"type":   "RecordDecl",
			"pos":    n.pos.String(),
			"name":   nameString(n.Name),
			"fields": mapSlice(n.Fields, func(f *Field) interface{} { return toJSON(f) }),
		}

	case *Field:
		m := map[string]interface{}{
			"type": "Field",
			"pos":  n.pos.String(),
			"name": nameString(n.Name),
		}
		if n.TypeName != nil {
			m["fieldtype"] = typeString(n.TypeName)
		}
		if len(n.DimExprs) > 0 {
			m["dims"] = mapSliceExpr(n.DimExprs, toJSON)
		}
		return m

	case *EnumDecl:
		return map[string]interface{}{
			"type":    "EnumDecl",
			"pos":     n.pos.String(),
			"name":    nameString(n.Name),
			"members": mapSlice(n.Members, func(m *EnumMember) interface{} { return toJSON(m) }),
		}

	case *EnumMember:
		m := map[string]interface{}{
			"type": "EnumMember",
			"pos":  n.pos.String(),
			"name": nameString(n.Name),
		}
		if n.Value != nil {
			m["value"] = toJSON(n.Value)
		}
		return m

	case *ExternalDecl:
		m := map[string]interface{}{
			"type":   "ExternalDecl",
			"pos":    n.pos.String(),
			"kind":   n.Kind.String(),
			"name":   nameString(n.Name),
			"lib":    n.Lib,
			"params": mapSlice(n.Params, func(p *Param) interface{} { return toJSON(p) }),
		}
		if n.Alias != "" {
			m["alias"] = n.Alias
		}
		if n.Result != nil {
			m["result"] = typeString(n.Result)
		}
		return m

	case *EventDecl:
		return map[string]interface{}{
			"type":   "EventDecl",
			"pos":    n.pos.String(),
			"name":   nameString(n.Name),
			"params": mapSlice(n.Params, func(p *Param) interface{} { return toJSON(p) }),
		}

	case *Procedure:
		m := map[string]interface{}{
			"type":   "Procedure",
			"pos":    n.pos.String(),
			"kind":   n.Kind.String(),
			"name":   nameString(n.Name),
			"params": mapSlice(n.Params, func(p *Param) interface{} { return toJSON(p) }),
			"body":   mapSliceStmt(n.Body, toJSON),
		}
		if n.Vis != VisNone {
			m["vis"] = n.Vis.String()
		}
		if n.Result != nil {
			m["result"] = typeString(n.Result)
		}
		return m

	case *Param:
		m := map[string]interface{}{
			"type": "Param",
			"pos":  n.pos.String(),
			"name": nameString(n.Name),
		}
		if n.TypeName != nil {
			m["paramtype"] = typeString(n.TypeName)
		}
		if n.ByVal {
			m["byval"] = true
		}
		if n.Optional {
			m["optional"] = true
		}
		if n.ParamArray {
			m["paramarray"] = true
		}
		if n.Default != nil {
			m["default"] = toJSON(n.Default)
		}
		return m

	case *DeclStmt:
		return map[string]interface{}{
			"type":  "DeclStmt",
			"pos":   n.pos.String(),
			"decls": mapSliceDecl(n.Decls, toJSON),
		}

	case *AssignStmt:
		m := map[string]interface{}{
			"type": "AssignStmt",
			"pos":  n.pos.String(),
			"lhs":  toJSON(n.LHS),
			"rhs":  toJSON(n.RHS),
		}
		if n.SetAssign {
			m["set"] = true
		}
		return m

	case *IfStmt:
		m := map[string]interface{}{
			"type": "IfStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": mapSliceStmt(n.Then, toJSON),
		}
		if len(n.ElseIfs) > 0 {
			m["elseifs"] = mapSlice(n.ElseIfs, func(c *ElseIfClause) interface{} { return toJSON(c) })
		}
		if n.Else != nil {
			m["else"] = mapSliceStmt(n.Else, toJSON)
		}
		return m

	case *ElseIfClause:
		return map[string]interface{}{
			"type": "ElseIf",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"body": mapSliceStmt(n.Body, toJSON),
		}

	case *ForStmt:
		m := map[string]interface{}{
			"type": "ForStmt",
			"pos":  n.pos.String(),
			"var":  toJSON(n.Var),
			"from": toJSON(n.From),
			"to":   toJSON(n.To),
			"body": mapSliceStmt(n.Body, toJSON),
		}
		if n.Step != nil {
			m["step"] = toJSON(n.Step)
		}
		return m

	case *ForEachStmt:
		return map[string]interface{}{
			"type": "ForEachStmt",
			"pos":  n.pos.String(),
			"var":  toJSON(n.Var),
			"in":   toJSON(n.Collection),
			"body": mapSliceStmt(n.Body, toJSON),
		}

	case *DoStmt:
		m := map[string]interface{}{
			"type": "DoStmt",
			"pos":  n.pos.String(),
			"body": mapSliceStmt(n.Body, toJSON),
		}
		if n.Cond != nil {
			m["cond"] = toJSON(n.Cond)
			m["until"] = n.Until
			m["post"] = n.Post
		}
		return m

	case *SelectStmt:
		m := map[string]interface{}{
			"type":    "SelectStmt",
			"pos":     n.pos.String(),
			"subject": toJSON(n.Subject),
			"cases":   mapSlice(n.Cases, func(c *CaseClause) interface{} { return toJSON(c) }),
		}
		if n.Else != nil {
			m["else"] = mapSliceStmt(n.Else, toJSON)
		}
		return m

	case *CaseClause:
		return map[string]interface{}{
			"type":   "Case",
			"pos":    n.pos.String(),
			"guards": mapSlice(n.Guards, func(g *CaseGuard) interface{} { return toJSON(g) }),
			"body":   mapSliceStmt(n.Body, toJSON),
		}

	case *CaseGuard:
		m := map[string]interface{}{
			"pos": n.pos.String(),
			"x":   toJSON(n.X),
		}
		switch n.Kind {
		case GuardValue:
			m["type"] = "GuardValue"
		case GuardRange:
			m["type"] = "GuardRange"
			m["y"] = toJSON(n.Y)
		case GuardCompare:
			m["type"] = "GuardCompare"
			m["op"] = n.Op
		}
		return m

	case *WithStmt:
		return map[string]interface{}{
			"type":    "WithStmt",
			"pos":     n.pos.String(),
			"subject": toJSON(n.Subject),
			"body":    mapSliceStmt(n.Body, toJSON),
		}

	case *OnErrorStmt:
		m := map[string]interface{}{
			"type": "OnErrorStmt",
			"pos":  n.pos.String(),
		}
		if n.ResumeNext {
			m["resumenext"] = true
		} else {
			m["label"] = n.Label
		}
		return m

	case *ExitStmt:
		return map[string]interface{}{
			"type": "ExitStmt",
			"pos":  n.pos.String(),
			"what": n.What.String(),
		}

	case *GotoStmt:
		kind := "GotoStmt"
		if n.GoSub {
			kind = "GoSubStmt"
		}
		return map[string]interface{}{
			"type":  kind,
			"pos":   n.pos.String(),
			"label": n.Label,
		}

	case *ReturnStmt:
		return map[string]interface{}{
			"type": "ReturnStmt",
			"pos":  n.pos.String(),
		}

	case *ResumeStmt:
		m := map[string]interface{}{
			"type": "ResumeStmt",
			"pos":  n.pos.String(),
		}
		if n.Next {
			m["next"] = true
		}
		if n.Label != "" {
			m["label"] = n.Label
		}
		return m

	case *LabelStmt:
		return map[string]interface{}{
			"type": "LabelStmt",
			"pos":  n.pos.String(),
			"name": n.Name,
		}

	case *RedimStmt:
		return map[string]interface{}{
			"type":     "RedimStmt",
			"pos":      n.pos.String(),
			"preserve": n.Preserve,
			"targets":  mapSlice(n.Targets, func(t *RedimTarget) interface{} { return toJSON(t) }),
		}

	case *RedimTarget:
		return map[string]interface{}{
			"type": "RedimTarget",
			"pos":  n.pos.String(),
			"name": nameString(n.Name),
			"dims": mapSliceExpr(n.DimExprs, toJSON),
		}

	case *CallStmt:
		return map[string]interface{}{
			"type": "CallStmt",
			"pos":  n.pos.String(),
			"call": toJSON(n.Call),
		}

	case *Name:
		m := map[string]interface{}{
			"type":  "Name",
			"pos":   n.pos.String(),
			"value": n.Value,
		}
		if n.Suffix != "" {
			m["suffix"] = n.Suffix
		}
		return m

	case *BasicLit:
		m := map[string]interface{}{
			"type":  "BasicLit",
			"pos":   n.pos.String(),
			"kind":  n.Kind.String(),
			"value": n.Value,
		}
		if n.Suffix != "" {
			m["suffix"] = n.Suffix
		}
		return m

	case *Operation:
		m := map[string]interface{}{
			"type": "Operation",
			"pos":  n.pos.String(),
			"op":   n.Op,
			"x":    toJSON(n.X),
		}
		if n.Y != nil {
			m["y"] = toJSON(n.Y)
		}
		return m

	case *CallExpr:
		return map[string]interface{}{
			"type": "CallExpr",
			"pos":  n.pos.String(),
			"fun":  toJSON(n.Fun),
			"args": mapSliceExpr(n.Args, toJSON),
		}

	case *IndexExpr:
		return map[string]interface{}{
			"type": "IndexExpr",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
			"args": mapSliceExpr(n.Args, toJSON),
		}

	case *SelectorExpr:
		return map[string]interface{}{
			"type": "SelectorExpr",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
			"sel":  nameString(n.Sel),
		}

	case *WithSelectorExpr:
		return map[string]interface{}{
			"type": "WithSelectorExpr",
			"pos":  n.pos.String(),
			"sel":  nameString(n.Sel),
		}

	case *ParenExpr:
		return map[string]interface{}{
			"type": "ParenExpr",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
		}

	default:
		return map[string]interface{}{
			"type": "Unknown",
		}
	}
}

// Helper functions to map slices

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}

func mapSliceDecl(s []Decl, f func(Node) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}

func mapSliceStmt(s []Stmt, f func(Node) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}

func mapSliceExpr(s []Expr, f func(Node) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
