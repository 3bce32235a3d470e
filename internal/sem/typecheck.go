package sem

import (
	"strings"

	"github.com/vbfront/vbfront/internal/syntax"
	"github.com/vbfront/vbfront/internal/types"
)

// builtinNames is the allow-list of library procedures a module may call
// without declaring them. They take Variant arguments and yield Variant.
var builtinNames = []string{
	// Conversion
	"CBool", "CByte", "CCur", "CDate", "CDbl", "CInt", "CLng", "CSng",
	"CStr", "CVar", "CVErr", "Val", "Str", "Hex", "Oct",
	// Strings
	"Len", "LenB", "UCase", "LCase", "Left", "Right", "Mid", "Trim",
	"LTrim", "RTrim", "InStr", "InStrRev", "Replace", "Split", "Join",
	"Space", "StrComp", "StrReverse", "Chr", "Asc", "Format",
	// Math
	"Abs", "Int", "Fix", "Sgn", "Sqr", "Rnd", "Randomize", "Round",
	"Exp", "Log", "Sin", "Cos", "Tan", "Atn",
	// Date and time
	"Now", "Date", "Time", "Timer", "DateAdd", "DateDiff", "DatePart",
	"DateSerial", "DateValue", "TimeSerial", "TimeValue",
	"Year", "Month", "Day", "Hour", "Minute", "Second", "Weekday",
	// Inspection
	"IsNumeric", "IsDate", "IsEmpty", "IsNull", "IsArray", "IsObject",
	"IsMissing", "IsError", "TypeName", "VarType",
	// Arrays
	"Array", "UBound", "LBound", "Erase", "Filter",
	// Interaction and environment
	"MsgBox", "InputBox", "DoEvents", "Beep", "Shell", "Environ",
	"CreateObject", "GetObject", "RaiseEvent", "Err",
}

// newUniverse builds the scope holding the builtin procedures. It sits
// above the module scope so name resolution finds builtins last.
func newUniverse() *types.Scope {
	u := types.NewScope(nil, syntax.Pos{}, "universe")
	for _, name := range builtinNames {
		u.Declare(types.NewBuiltin(name, types.Typ[types.Variant]))
	}
	return u
}

// ----------------------------------------------------------------------------
// Phase 2: type resolution

// resolveTypes attaches a type to every symbol collected in phase 1.
// A declared type name that does not resolve defaults to Variant with an
// UNKNOWN_TYPE warning.
func (a *Analyzer) resolveTypes() {
	for _, p := range a.pending {
		t := a.resolveType(p)
		p.sym.SetType(t)
		if p.sym.Kind() == types.ProcSym {
			p.sym.Result = t
		}
	}
}

func (a *Analyzer) resolveType(p *pendingType) types.Type {
	var t types.Type
	switch {
	case p.typeName != nil:
		t = a.lookupType(p.typeName)
	case p.suffix != "":
		t = types.SuffixType(p.suffix)
	case p.value != nil:
		t = litType(p.value)
	}
	if t == nil {
		t = types.Typ[types.Variant]
	}
	if p.array {
		t = types.NewArray(t, p.dims)
	}
	return t
}

// lookupType resolves a declared type name: module-local records and
// enums first, then the type system. Library-qualified names (Excel.Range)
// become opaque object types since their structure is externally defined.
func (a *Analyzer) lookupType(e syntax.Expr) types.Type {
	switch e := e.(type) {
	case *syntax.Name:
		if t, ok := a.local[strings.ToLower(e.Value)]; ok {
			return t
		}
		if t := a.sys.GetType(e.Value); t != nil {
			return t
		}
		a.warnf(e.Pos(), UnknownType,
			"unknown type %s, defaulting to Variant", e.Value)
		return nil

	case *syntax.SelectorExpr:
		return types.NewNamed(qualifiedName(e))

	case *syntax.Operation:
		if e.Op == "new" {
			return a.lookupType(e.X)
		}
	}
	a.warnf(e.Pos(), UnknownType, "unresolvable type, defaulting to Variant")
	return nil
}

func qualifiedName(e syntax.Expr) string {
	switch e := e.(type) {
	case *syntax.Name:
		return e.Value
	case *syntax.SelectorExpr:
		return qualifiedName(e.X) + "." + e.Sel.Value
	}
	return "?"
}

// litType maps a literal to its natural type.
func litType(e syntax.Expr) types.Type {
	lit, ok := e.(*syntax.BasicLit)
	if !ok {
		return nil
	}
	if lit.Suffix != "" {
		if t := types.SuffixType(lit.Suffix); t != nil {
			return t
		}
	}
	switch lit.Kind {
	case syntax.StringLit:
		return types.Typ[types.String]
	case syntax.NumberLit, syntax.HexLit, syntax.OctalLit:
		return types.Typ[types.Long]
	case syntax.FloatLit:
		return types.Typ[types.Double]
	case syntax.DateLit:
		return types.Typ[types.Date]
	case syntax.BoolLit:
		return types.Typ[types.Boolean]
	case syntax.NothingLit:
		return types.Typ[types.Object]
	}
	return types.Typ[types.Variant]
}

// ----------------------------------------------------------------------------
// Phase 3: type checking

// checkBodies walks every procedure body, checking assignments and calls
// against the type system and counting symbol references as it goes.
func (a *Analyzer) checkBodies() {
	for _, pi := range a.procs {
		a.cur = pi.scope
		for _, s := range pi.decl.Body {
			a.checkStmt(s)
		}
	}
	a.cur = a.scope
}

func (a *Analyzer) checkStmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.AssignStmt:
		a.checkAssign(s)

	case *syntax.CallStmt:
		a.checkCall(s.Call)

	case *syntax.IfStmt:
		a.exprType(s.Cond)
		a.checkStmts(s.Then)
		for _, c := range s.ElseIfs {
			a.exprType(c.Cond)
			a.checkStmts(c.Body)
		}
		a.checkStmts(s.Else)

	case *syntax.ForStmt:
		a.markAssigned(s.Var)
		a.exprType(s.Var)
		a.exprType(s.From)
		a.exprType(s.To)
		if s.Step != nil {
			a.exprType(s.Step)
		}
		a.checkStmts(s.Body)

	case *syntax.ForEachStmt:
		a.markAssigned(s.Var)
		a.exprType(s.Var)
		a.exprType(s.Collection)
		a.checkStmts(s.Body)

	case *syntax.DoStmt:
		if s.Cond != nil {
			a.exprType(s.Cond)
		}
		a.checkStmts(s.Body)

	case *syntax.SelectStmt:
		a.exprType(s.Subject)
		for _, c := range s.Cases {
			for _, g := range c.Guards {
				a.exprType(g.X)
				if g.Y != nil {
					a.exprType(g.Y)
				}
			}
			a.checkStmts(c.Body)
		}
		a.checkStmts(s.Else)

	case *syntax.WithStmt:
		a.exprType(s.Subject)
		a.checkStmts(s.Body)

	case *syntax.RedimStmt:
		for _, t := range s.Targets {
			a.markAssigned(t.Name)
			a.exprType(t.Name)
			for _, e := range t.DimExprs {
				a.exprType(e)
			}
		}
	}
	// DeclStmt was consumed by symbol collection; jumps and labels carry
	// no expressions.
}

func (a *Analyzer) checkStmts(list []syntax.Stmt) {
	for _, s := range list {
		a.checkStmt(s)
	}
}

func (a *Analyzer) checkAssign(s *syntax.AssignStmt) {
	lt := a.exprType(s.LHS)
	rt := a.exprType(s.RHS)
	a.markAssigned(s.LHS)

	if lt == nil || rt == nil {
		return
	}
	c := a.sys.CheckCompatibility(rt, lt)
	switch {
	case !c.Valid:
		a.errorf(s.Pos(), TypeMismatch,
			"cannot assign %s to %s: %s", rt, lt, c.Note)
	case !c.Lossless:
		a.warnf(s.Pos(), TypeWarning,
			"assigning %s to %s: %s", rt, lt, c.Note)
	}
}

// checkCall validates a call statement's target. Selector-headed calls
// (obj.Method arg) cannot be resolved without object member tables and
// are typed, not validated.
func (a *Analyzer) checkCall(e syntax.Expr) {
	target := e
	var args []syntax.Expr
	switch e := e.(type) {
	case *syntax.CallExpr:
		target = e.Fun
		args = e.Args
	case *syntax.IndexExpr:
		target = e.X
		args = e.Args
	}
	for _, arg := range args {
		a.exprType(arg)
	}

	if n, ok := target.(*syntax.Name); ok {
		sym, _ := a.cur.Resolve(n.Value)
		if sym == nil {
			a.errorf(n.Pos(), UndefinedFunction,
				"call to undefined procedure %s", n.Value)
			return
		}
		sym.Refs++
		return
	}
	a.exprType(target)
}

// markAssigned records that the base symbol behind an assignment target
// has been written at least once.
func (a *Analyzer) markAssigned(lhs syntax.Expr) {
	switch lhs := lhs.(type) {
	case *syntax.Name:
		if sym, _ := a.cur.Resolve(lhs.Value); sym != nil {
			sym.Initialized = true
		}
	case *syntax.IndexExpr:
		a.markAssigned(lhs.X)
	case *syntax.SelectorExpr:
		a.markAssigned(lhs.X)
	case *syntax.ParenExpr:
		a.markAssigned(lhs.X)
	}
}

// exprType computes the type of an expression, counting a reference for
// every name it resolves. Unknown constructs type as Variant so a single
// problem never cascades.
func (a *Analyzer) exprType(e syntax.Expr) types.Type {
	switch e := e.(type) {
	case *syntax.BasicLit:
		if t := litType(e); t != nil {
			return t
		}
		return types.Typ[types.Variant]

	case *syntax.Name:
		if sym, _ := a.cur.Resolve(e.Value); sym != nil {
			sym.Refs++
			if sym.IsProc() {
				return resultOf(sym)
			}
			return sym.Type()
		}
		if e.Suffix != "" {
			if t := types.SuffixType(e.Suffix); t != nil {
				return t
			}
		}
		return types.Typ[types.Variant]

	case *syntax.Operation:
		return a.operationType(e)

	case *syntax.CallExpr:
		return a.suffixType(e.Fun, e.Args)

	case *syntax.IndexExpr:
		return a.suffixType(e.X, e.Args)

	case *syntax.SelectorExpr:
		xt := a.exprType(e.X)
		if rec, ok := xt.(*types.Record); ok {
			if f := rec.Field(e.Sel.Value); f != nil {
				return f.Type()
			}
			a.errorf(e.Sel.Pos(), TypeMismatch,
				"record %s has no field %s", rec, e.Sel.Value)
		}
		return types.Typ[types.Variant]

	case *syntax.WithSelectorExpr:
		return types.Typ[types.Variant]

	case *syntax.ParenExpr:
		return a.exprType(e.X)
	}
	return types.Typ[types.Variant]
}

// suffixType types a parenthesized suffix: array indexing yields the
// element type, a procedure call yields the result type. An unresolved
// head name is an undefined procedure since nothing declares it.
func (a *Analyzer) suffixType(head syntax.Expr, args []syntax.Expr) types.Type {
	for _, arg := range args {
		a.exprType(arg)
	}

	if n, ok := head.(*syntax.Name); ok {
		sym, _ := a.cur.Resolve(n.Value)
		if sym == nil {
			a.errorf(n.Pos(), UndefinedFunction,
				"call to undefined procedure %s", n.Value)
			return types.Typ[types.Variant]
		}
		sym.Refs++
		if arr, ok := sym.Type().(*types.Array); ok {
			return arr.Elem()
		}
		if sym.IsProc() {
			return resultOf(sym)
		}
		return types.Typ[types.Variant]
	}

	ht := a.exprType(head)
	if arr, ok := ht.(*types.Array); ok {
		return arr.Elem()
	}
	return types.Typ[types.Variant]
}

func (a *Analyzer) operationType(e *syntax.Operation) types.Type {
	xt := a.exprType(e.X)
	if e.Y == nil {
		switch e.Op {
		case "not":
			// Not is bitwise on numeric operands, logical otherwise.
			if a.sys.IsNumeric(xt) {
				return xt
			}
			return types.Typ[types.Boolean]
		case "new":
			return xt
		}
		return xt // unary - and +
	}
	yt := a.exprType(e.Y)

	switch e.Op {
	case "=", "<>", "<", ">", "<=", ">=", "is", "like":
		return types.Typ[types.Boolean]

	case "&":
		return types.Typ[types.String]

	case "/":
		if isVariantType(xt) || isVariantType(yt) {
			return types.Typ[types.Variant]
		}
		return types.Typ[types.Double]

	case "\\", "mod":
		if isVariantType(xt) || isVariantType(yt) {
			return types.Typ[types.Variant]
		}
		return types.Typ[types.Long]

	case "and", "or", "xor":
		// Boolean operands keep Boolean; numeric operands are bitwise.
		if isBoolean(xt) || isBoolean(yt) {
			return types.Typ[types.Boolean]
		}
		return a.arithType(xt, yt)
	}

	// +, -, *, ^
	return a.arithType(xt, yt)
}

// arithType is the result type of binary arithmetic: the wider operand
// under the numeric widening order, Variant when either side is dynamic.
func (a *Analyzer) arithType(x, y types.Type) types.Type {
	if x == nil || y == nil || isVariantType(x) || isVariantType(y) {
		return types.Typ[types.Variant]
	}
	if !a.sys.IsNumeric(x) || !a.sys.IsNumeric(y) {
		return types.Typ[types.Variant]
	}
	if a.sys.CheckCompatibility(x, y).Lossless {
		return y
	}
	return x
}

func resultOf(sym *types.Symbol) types.Type {
	if sym.Result != nil {
		return sym.Result
	}
	return types.Typ[types.Variant]
}

func isVariantType(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Kind() == types.Variant
}

func isBoolean(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Kind() == types.Boolean
}
