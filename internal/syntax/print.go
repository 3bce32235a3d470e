package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) stmts(label string, list []Stmt) {
	if list == nil {
		return
	}
	p.printf("%s:\n", label)
	p.indent++
	for _, s := range list {
		p.print(s)
	}
	p.indent--
}

func (p *printer) child(label string, n Node) {
	if n == nil {
		return
	}
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Module:
		p.printf("Module %s\n", n.pos)
		p.indent++
		if n.Name != "" {
			p.printf("Name: %s\n", n.Name)
		}
		for _, o := range n.Options {
			p.printf("Option: %s\n", o)
		}
		for _, d := range n.Decls {
			p.print(d)
		}
		p.indent--

	case *VarDecl:
		p.printf("VarDecl %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", nameString(n.Name))
		if n.Vis != VisNone {
			p.printf("Vis: %s\n", n.Vis)
		}
		if n.Static {
			p.printf("Static: true\n")
		}
		if n.WithEvents {
			p.printf("WithEvents: true\n")
		}
		if len(n.DimExprs) > 0 {
			p.printf("Dims:\n")
			p.indent++
			for _, e := range n.DimExprs {
				p.print(e)
			}
			p.indent--
		}
		if n.TypeName != nil {
			p.printf("Type: %s\n", typeString(n.TypeName))
		}
		p.indent--

	case *ConstDecl:
		p.printf("ConstDecl %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", nameString(n.Name))
		if n.TypeName != nil {
			p.printf("Type: %s\n", typeString(n.TypeName))
		}
		p.child("Value", n.Value)
		p.indent--

	case *RecordDecl:
		p.printf("RecordDecl %s %s\n", n.pos, nameString(n.Name))
		p.indent++
		for _, f := range n.Fields {
			p.print(f)
		}
		p.indent--

	case *Field:
		p.printf("Field %s %s %s\n", n.pos, nameString(n.Name), typeString(n.TypeName))

	case *EnumDecl:
		p.printf("EnumDecl %s %s\n", n.pos, nameString(n.Name))
		p.indent++
		for _, m := range n.Members {
			p.print(m)
		}
		p.indent--

	case *EnumMember:
		p.printf("EnumMember %s %s\n", n.pos, nameString(n.Name))
		if n.Value != nil {
			p.indent++
			p.print(n.Value)
			p.indent--
		}

	case *ExternalDecl:
		p.printf("ExternalDecl %s %s %s\n", n.pos, n.Kind, nameString(n.Name))
		p.indent++
		p.printf("Lib: %q\n", n.Lib)
		if n.Alias != "" {
			p.printf("Alias: %q\n", n.Alias)
		}
		p.params(n.Params)
		if n.Result != nil {
			p.printf("Result: %s\n", typeString(n.Result))
		}
		p.indent--

	case *EventDecl:
		p.printf("EventDecl %s %s\n", n.pos, nameString(n.Name))
		p.indent++
		p.params(n.Params)
		p.indent--

	case *Procedure:
		p.printf("Procedure %s %s %s\n", n.pos, n.Kind, nameString(n.Name))
		p.indent++
		if n.Vis != VisNone {
			p.printf("Vis: %s\n", n.Vis)
		}
		p.params(n.Params)
		if n.Result != nil {
			p.printf("Result: %s\n", typeString(n.Result))
		}
		p.stmts("Body", n.Body)
		p.indent--

	case *DeclStmt:
		p.printf("DeclStmt %s\n", n.pos)
		p.indent++
		for _, d := range n.Decls {
			p.print(d)
		}
		p.indent--

	case *AssignStmt:
		if n.SetAssign {
			p.printf("AssignStmt %s Set\n", n.pos)
		} else {
			p.printf("AssignStmt %s\n", n.pos)
		}
		p.indent++
		p.child("LHS", n.LHS)
		p.child("RHS", n.RHS)
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.stmts("Then", n.Then)
		for _, c := range n.ElseIfs {
			p.printf("ElseIf %s\n", c.pos)
			p.indent++
			p.child("Cond", c.Cond)
			p.stmts("Body", c.Body)
			p.indent--
		}
		p.stmts("Else", n.Else)
		p.indent--

	case *ForStmt:
		p.printf("ForStmt %s\n", n.pos)
		p.indent++
		p.child("Var", n.Var)
		p.child("From", n.From)
		p.child("To", n.To)
		p.child("Step", n.Step)
		p.stmts("Body", n.Body)
		p.indent--

	case *ForEachStmt:
		p.printf("ForEachStmt %s\n", n.pos)
		p.indent++
		p.child("Var", n.Var)
		p.child("In", n.Collection)
		p.stmts("Body", n.Body)
		p.indent--

	case *DoStmt:
		guard := "While"
		if n.Until {
			guard = "Until"
		}
		when := "pre"
		if n.Post {
			when = "post"
		}
		if n.Cond == nil {
			p.printf("DoStmt %s\n", n.pos)
		} else {
			p.printf("DoStmt %s %s %s\n", n.pos, guard, when)
		}
		p.indent++
		p.child("Cond", n.Cond)
		p.stmts("Body", n.Body)
		p.indent--

	case *SelectStmt:
		p.printf("SelectStmt %s\n", n.pos)
		p.indent++
		p.child("Subject", n.Subject)
		for _, c := range n.Cases {
			p.printf("Case %s\n", c.pos)
			p.indent++
			for _, g := range c.Guards {
				p.print(g)
			}
			p.stmts("Body", c.Body)
			p.indent--
		}
		p.stmts("CaseElse", n.Else)
		p.indent--

	case *CaseGuard:
		switch n.Kind {
		case GuardValue:
			p.printf("Guard %s\n", n.pos)
			p.indent++
			p.print(n.X)
			p.indent--
		case GuardRange:
			p.printf("GuardRange %s\n", n.pos)
			p.indent++
			p.child("Lo", n.X)
			p.child("Hi", n.Y)
			p.indent--
		case GuardCompare:
			p.printf("GuardCompare %s Is %s\n", n.pos, n.Op)
			p.indent++
			p.print(n.X)
			p.indent--
		}

	case *WithStmt:
		p.printf("WithStmt %s\n", n.pos)
		p.indent++
		p.child("Subject", n.Subject)
		p.stmts("Body", n.Body)
		p.indent--

	case *OnErrorStmt:
		switch {
		case n.ResumeNext:
			p.printf("OnErrorStmt %s ResumeNext\n", n.pos)
		case n.Label != "":
			p.printf("OnErrorStmt %s GoTo %s\n", n.pos, n.Label)
		default:
			p.printf("OnErrorStmt %s GoTo 0\n", n.pos)
		}

	case *ExitStmt:
		p.printf("ExitStmt %s %s\n", n.pos, n.What)

	case *GotoStmt:
		if n.GoSub {
			p.printf("GoSubStmt %s %s\n", n.pos, n.Label)
		} else {
			p.printf("GotoStmt %s %s\n", n.pos, n.Label)
		}

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.pos)

	case *ResumeStmt:
		switch {
		case n.Next:
			p.printf("ResumeStmt %s Next\n", n.pos)
		case n.Label != "":
			p.printf("ResumeStmt %s %s\n", n.pos, n.Label)
		default:
			p.printf("ResumeStmt %s\n", n.pos)
		}

	case *LabelStmt:
		p.printf("LabelStmt %s %s\n", n.pos, n.Name)

	case *RedimStmt:
		p.printf("RedimStmt %s preserve=%v\n", n.pos, n.Preserve)
		p.indent++
		for _, t := range n.Targets {
			p.printf("Target %s %s\n", t.pos, nameString(t.Name))
			p.indent++
			for _, e := range t.DimExprs {
				p.print(e)
			}
			p.indent--
		}
		p.indent--

	case *CallStmt:
		p.printf("CallStmt %s\n", n.pos)
		p.indent++
		p.print(n.Call)
		p.indent--

	case *Name:
		p.printf("Name %s %q\n", n.pos, n.Value+n.Suffix)

	case *BasicLit:
		p.printf("BasicLit %s %s %q\n", n.pos, n.Kind, n.Value+n.Suffix)

	case *Operation:
		if n.Y == nil {
			p.printf("UnaryOp %s %s\n", n.pos, n.Op)
			p.indent++
			p.print(n.X)
			p.indent--
		} else {
			p.printf("BinaryOp %s %s\n", n.pos, n.Op)
			p.indent++
			p.child("X", n.X)
			p.child("Y", n.Y)
			p.indent--
		}

	case *CallExpr:
		p.printf("CallExpr %s\n", n.pos)
		p.indent++
		p.child("Fun", n.Fun)
		if len(n.Args) > 0 {
			p.printf("Args:\n")
			p.indent++
			for _, a := range n.Args {
				p.print(a)
			}
			p.indent--
		}
		p.indent--

	case *IndexExpr:
		p.printf("IndexExpr %s\n", n.pos)
		p.indent++
		p.child("X", n.X)
		p.printf("Args:\n")
		p.indent++
		for _, a := range n.Args {
			p.print(a)
		}
		p.indent--
		p.indent--

	case *SelectorExpr:
		p.printf("SelectorExpr %s\n", n.pos)
		p.indent++
		p.child("X", n.X)
		p.printf("Sel: %s\n", nameString(n.Sel))
		p.indent--

	case *WithSelectorExpr:
		p.printf("WithSelectorExpr %s .%s\n", n.pos, nameString(n.Sel))

	case *ParenExpr:
		p.printf("ParenExpr %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	default:
		p.printf("<%T>\n", node)
	}
}

func (p *printer) params(params []*Param) {
	if len(params) == 0 {
		return
	}
	p.printf("Params:\n")
	p.indent++
	for _, prm := range params {
		mods := ""
		if prm.Optional {
			mods += " Optional"
		}
		if prm.ByVal {
			mods += " ByVal"
		}
		if prm.ParamArray {
			mods += " ParamArray"
		}
		p.printf("%s %s%s\n", nameString(prm.Name), typeString(prm.TypeName), mods)
	}
	p.indent--
}

// nameString returns the identifier text of a name, suffix included.
func nameString(n *Name) string {
	if n == nil {
		return "<nil>"
	}
	return n.Value + n.Suffix
}

// typeString returns a string representation of a type expression.
func typeString(e Expr) string {
	if e == nil {
		return "Variant"
	}
	switch t := e.(type) {
	case *Name:
		return t.Value
	case *SelectorExpr:
		return typeString(t.X) + "." + nameString(t.Sel)
	case *Operation:
		if t.Op == "new" {
			return "New " + typeString(t.X)
		}
	}
	return fmt.Sprintf("<%T>", e)
}
