package sem

import (
	"fmt"
	"strings"

	"github.com/vbfront/vbfront/internal/cfg"
	"github.com/vbfront/vbfront/internal/syntax"
	"github.com/vbfront/vbfront/internal/types"
)

// Metrics summarizes one analysis run.
type Metrics struct {
	Procedures int // procedures with bodies
	Symbols    int // declared symbols, duplicates excluded
	Errors     int
	Warnings   int
}

// Result is the complete output of Analyze. It is always fully populated,
// even when the input module carried parse errors: analysis degrades to
// whatever partial AST is available.
type Result struct {
	ModuleScope *types.Scope // root of the scope tree
	Index       *types.Table // flat qualified-name symbol index
	CFGs        []*cfg.Graph // one control flow graph per procedure
	Errors      []*Diagnostic
	Warnings    []*Diagnostic
	Metrics     Metrics
}

// Analyzer runs semantic analysis over parsed modules. One Analyzer must
// not be used concurrently; use one instance per concurrent compilation.
type Analyzer struct {
	sys types.System

	// Per-run state, rebuilt by every Analyze call.
	module   *syntax.Module
	universe *types.Scope // builtin procedures, parent of the module scope
	scope    *types.Scope // module scope
	cur      *types.Scope // scope of the procedure being checked
	index    *types.Table
	local    map[string]types.Type // module-declared record/enum types
	pending  []*pendingType
	procs    []*procInfo
	props    []*propGroup
	propIdx  map[string]*propGroup
	nsyms    int
	result   *Result
}

// procInfo ties a procedure declaration to its symbol and scope.
type procInfo struct {
	decl  *syntax.Procedure
	sym   *types.Symbol
	scope *types.Scope
}

// pendingType records a symbol whose declared type is resolved in the
// type-resolution phase, after every module-level type is known.
type pendingType struct {
	sym      *types.Symbol
	typeName syntax.Expr // declared type, nil if absent
	suffix   string      // declaration character on the name, "" if none
	value    syntax.Expr // constant initializer, for type inference
	array    bool
	dims     int
}

// propGroup collects the accessors declared under one property name.
type propGroup struct {
	name  string
	kinds map[syntax.ProcKind]bool
	last  syntax.Pos // position of the most recent accessor
}

// NewAnalyzer creates an analyzer that resolves type names through sys.
func NewAnalyzer(sys types.System) *Analyzer {
	return &Analyzer{sys: sys}
}

// Analyze runs the six analysis phases over a module, strictly in order:
// symbol collection, type resolution, type checking, control flow
// construction, dead code detection, and property consistency. Nothing
// here is fatal; every problem becomes a diagnostic in the Result.
func (a *Analyzer) Analyze(m *syntax.Module) *Result {
	a.reset(m)

	a.collectSymbols()
	a.resolveTypes()
	a.checkBodies()
	a.buildFlow()
	a.checkDeadCode()
	a.checkProperties()

	a.result.Metrics = Metrics{
		Procedures: len(a.procs),
		Symbols:    a.nsyms,
		Errors:     len(a.result.Errors),
		Warnings:   len(a.result.Warnings),
	}
	return a.result
}

// reset clears all per-run state. Analyze may be called repeatedly on the
// same instance; state never leaks between runs.
func (a *Analyzer) reset(m *syntax.Module) {
	name := m.Name
	if name == "" {
		name = "Module"
	}
	a.module = m
	a.universe = newUniverse()
	a.scope = types.NewScope(a.universe, m.Pos(), name)
	a.cur = a.scope
	a.index = types.NewTable()
	a.local = make(map[string]types.Type)
	a.pending = nil
	a.procs = nil
	a.props = nil
	a.propIdx = make(map[string]*propGroup)
	a.nsyms = 0
	a.result = &Result{ModuleScope: a.scope, Index: a.index}
}

func (a *Analyzer) errorf(pos syntax.Pos, code, format string, args ...interface{}) {
	a.result.Errors = append(a.result.Errors, &Diagnostic{
		Pos:      pos,
		Severity: Error,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (a *Analyzer) warnf(pos syntax.Pos, code, format string, args ...interface{}) {
	a.result.Warnings = append(a.result.Warnings, &Diagnostic{
		Pos:      pos,
		Severity: Warning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

// ----------------------------------------------------------------------------
// Phase 1: symbol collection

// declare inserts sym into scope and indexes it under scopeName.
// A duplicate name in the same scope keeps the original binding.
func (a *Analyzer) declare(scope *types.Scope, scopeName string, sym *types.Symbol) {
	if existing := scope.Declare(sym); existing != nil {
		a.errorf(sym.Pos(), DuplicateSymbol,
			"%s is already declared as a %s", sym.Name(), existing.Kind())
		return
	}
	a.index.Add(scopeName, sym)
	a.nsyms++
}

func (a *Analyzer) pend(sym *types.Symbol, typeName syntax.Expr, suffix string, dimExprs []syntax.Expr, isArray bool) {
	a.pending = append(a.pending, &pendingType{
		sym:      sym,
		typeName: typeName,
		suffix:   suffix,
		array:    isArray,
		dims:     len(dimExprs),
	})
}

// collectSymbols walks the module top-down, registering module-level
// declarations in the root scope and opening one child scope per
// procedure for its parameters and locals.
func (a *Analyzer) collectSymbols() {
	for _, d := range a.module.Decls {
		switch d := d.(type) {
		case *syntax.VarDecl:
			a.collectVar(a.scope, "", d)

		case *syntax.ConstDecl:
			a.collectConst(a.scope, "", d)

		case *syntax.RecordDecl:
			a.collectRecord(d)

		case *syntax.EnumDecl:
			a.collectEnum(d)

		case *syntax.ExternalDecl:
			a.collectExternal(d)

		case *syntax.EventDecl:
			sym := types.NewProc(d.Name.Pos(), d.Name.Value, syntax.SubProc, nil)
			a.declare(a.scope, "", sym)

		case *syntax.Procedure:
			a.collectProc(d)
		}
	}
}

func (a *Analyzer) collectVar(scope *types.Scope, scopeName string, d *syntax.VarDecl) {
	if d.Name == nil {
		return
	}
	sym := types.NewVar(d.Name.Pos(), d.Name.Value, nil)
	sym.Static = d.Static
	sym.WithEvents = d.WithEvents
	a.declare(scope, scopeName, sym)
	a.pend(sym, d.TypeName, d.Name.Suffix, d.DimExprs, d.DimExprs != nil)
}

func (a *Analyzer) collectConst(scope *types.Scope, scopeName string, d *syntax.ConstDecl) {
	if d.Name == nil {
		return
	}
	sym := types.NewConst(d.Name.Pos(), d.Name.Value, nil)
	sym.Initialized = true
	a.declare(scope, scopeName, sym)
	p := &pendingType{sym: sym, typeName: d.TypeName, suffix: d.Name.Suffix, value: d.Value}
	a.pending = append(a.pending, p)
}

func (a *Analyzer) collectRecord(d *syntax.RecordDecl) {
	if d.Name == nil {
		return
	}
	var fields []*types.Symbol
	for _, f := range d.Fields {
		if f.Name == nil {
			continue
		}
		fs := types.NewField(f.Name.Pos(), f.Name.Value, nil)
		fields = append(fields, fs)
		a.pend(fs, f.TypeName, f.Name.Suffix, f.DimExprs, f.DimExprs != nil)
	}
	rec := types.NewRecord(d.Name.Value, fields)
	a.local[strings.ToLower(d.Name.Value)] = rec
	a.declare(a.scope, "", types.NewTypeSymbol(d.Name.Pos(), d.Name.Value, rec))
}

func (a *Analyzer) collectEnum(d *syntax.EnumDecl) {
	if d.Name == nil {
		return
	}
	e := types.NewEnum(d.Name.Value)
	a.local[strings.ToLower(d.Name.Value)] = e
	a.declare(a.scope, "", types.NewTypeSymbol(d.Name.Pos(), d.Name.Value, e))

	// Enum members are module-visible constants of the enum type.
	for _, m := range d.Members {
		if m.Name == nil {
			continue
		}
		sym := types.NewConst(m.Name.Pos(), m.Name.Value, e)
		sym.Initialized = true
		a.declare(a.scope, "", sym)
	}
}

func (a *Analyzer) collectExternal(d *syntax.ExternalDecl) {
	if d.Name == nil {
		return
	}
	sym := types.NewProc(d.Name.Pos(), d.Name.Value, d.Kind, nil)
	for _, prm := range d.Params {
		if prm.Name == nil {
			continue
		}
		ps := types.NewParam(prm.Name.Pos(), prm.Name.Value, nil)
		ps.ByVal = prm.ByVal
		ps.Optional = prm.Optional
		sym.Params = append(sym.Params, ps)
		a.pend(ps, prm.TypeName, prm.Name.Suffix, nil, false)
	}
	a.declare(a.scope, "", sym)
	if d.Kind == syntax.FunctionProc {
		a.pend(sym, d.Result, d.Name.Suffix, nil, false)
	}
}

func (a *Analyzer) collectProc(d *syntax.Procedure) {
	if d.Name == nil {
		return
	}
	name := d.Name.Value
	sym := types.NewProc(d.Name.Pos(), name, d.Kind, nil)
	sym.Static = d.Static

	if d.Kind.IsProperty() {
		a.recordProperty(d)
		// Property accessors share one name; Get/Let/Set trios are legal,
		// so only the first accessor claims the scope slot.
		existing := a.scope.Lookup(name)
		shared := existing != nil && existing.Kind() == types.ProcSym &&
			existing.ProcKind.IsProperty()
		if !shared {
			a.declare(a.scope, "", sym)
		}
	} else {
		a.declare(a.scope, "", sym)
	}

	if d.Kind == syntax.FunctionProc || d.Kind == syntax.PropertyGetProc {
		a.pend(sym, d.Result, d.Name.Suffix, nil, false)
	}

	pscope := types.NewScope(a.scope, d.Pos(), name)
	for _, prm := range d.Params {
		if prm.Name == nil {
			continue
		}
		ps := types.NewParam(prm.Name.Pos(), prm.Name.Value, nil)
		ps.ByVal = prm.ByVal
		ps.Optional = prm.Optional
		sym.Params = append(sym.Params, ps)
		a.declare(pscope, name, ps)
		a.pend(ps, prm.TypeName, prm.Name.Suffix, nil, false)
	}

	// Local declarations are procedure-scoped no matter how deeply the
	// Dim is nested inside blocks.
	for _, s := range d.Body {
		syntax.Inspect(s, func(n syntax.Node) bool {
			switch n := n.(type) {
			case *syntax.VarDecl:
				a.collectVar(pscope, name, n)
				return false
			case *syntax.ConstDecl:
				a.collectConst(pscope, name, n)
				return false
			}
			return true
		})
	}

	a.procs = append(a.procs, &procInfo{decl: d, sym: sym, scope: pscope})
}

func (a *Analyzer) recordProperty(d *syntax.Procedure) {
	key := strings.ToLower(d.Name.Value)
	g := a.propIdx[key]
	if g == nil {
		g = &propGroup{name: d.Name.Value, kinds: make(map[syntax.ProcKind]bool)}
		a.propIdx[key] = g
		a.props = append(a.props, g)
	}
	g.kinds[d.Kind] = true
	g.last = d.Pos()
}
