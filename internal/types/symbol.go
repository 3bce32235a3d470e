package types

import "github.com/vbfront/vbfront/internal/syntax"

// SymbolKind classifies a declared entity.
type SymbolKind int

const (
	VarSym SymbolKind = iota
	ConstSym
	ParamSym
	ProcSym
	TypeSym
	EnumMemberSym
	FieldSym
	BuiltinSym
	LabelSym
)

var symbolKindNames = [...]string{
	VarSym:        "variable",
	ConstSym:      "constant",
	ParamSym:      "parameter",
	ProcSym:       "procedure",
	TypeSym:       "type",
	EnumMemberSym: "enum member",
	FieldSym:      "field",
	BuiltinSym:    "builtin",
	LabelSym:      "label",
}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "symbol"
}

// Symbol represents a declared entity: variable, constant, parameter,
// procedure, type, enum member, or builtin.
type Symbol struct {
	name   string
	typ    Type
	pos    syntax.Pos
	kind   SymbolKind
	parent *Scope

	// Procedure metadata, meaningful for ProcSym only.
	ProcKind syntax.ProcKind
	Params   []*Symbol
	Result   Type

	// Declaration modifiers.
	Static     bool
	WithEvents bool
	ByVal      bool
	Optional   bool

	// Usage tracking, filled in by semantic analysis.
	Refs        int  // reference count, declaration excluded
	Initialized bool // assigned at least once
}

// NewSymbol creates a symbol of the given kind.
func NewSymbol(kind SymbolKind, pos syntax.Pos, name string, typ Type) *Symbol {
	return &Symbol{name: name, typ: typ, pos: pos, kind: kind}
}

// NewVar creates a variable symbol.
func NewVar(pos syntax.Pos, name string, typ Type) *Symbol {
	return NewSymbol(VarSym, pos, name, typ)
}

// NewConst creates a constant symbol.
func NewConst(pos syntax.Pos, name string, typ Type) *Symbol {
	return NewSymbol(ConstSym, pos, name, typ)
}

// NewParam creates a parameter symbol. Parameters count as initialized.
func NewParam(pos syntax.Pos, name string, typ Type) *Symbol {
	s := NewSymbol(ParamSym, pos, name, typ)
	s.Initialized = true
	return s
}

// NewProc creates a procedure symbol.
func NewProc(pos syntax.Pos, name string, kind syntax.ProcKind, result Type) *Symbol {
	s := NewSymbol(ProcSym, pos, name, result)
	s.ProcKind = kind
	s.Result = result
	return s
}

// NewTypeSymbol creates a symbol naming a user-defined type.
func NewTypeSymbol(pos syntax.Pos, name string, typ Type) *Symbol {
	return NewSymbol(TypeSym, pos, name, typ)
}

// NewField creates a record field symbol.
func NewField(pos syntax.Pos, name string, typ Type) *Symbol {
	return NewSymbol(FieldSym, pos, name, typ)
}

// NewBuiltin creates a builtin procedure symbol. Builtins take Variant
// arguments and produce Variant results.
func NewBuiltin(name string, result Type) *Symbol {
	s := NewSymbol(BuiltinSym, syntax.Pos{}, name, result)
	s.Result = result
	s.Initialized = true
	return s
}

// Name returns the symbol's declared name, original casing preserved.
func (s *Symbol) Name() string {
	return s.name
}

// Type returns the symbol's type.
func (s *Symbol) Type() Type {
	return s.typ
}

// SetType sets the symbol's type once resolution completes.
func (s *Symbol) SetType(typ Type) {
	s.typ = typ
}

// Pos returns the declaration position.
func (s *Symbol) Pos() syntax.Pos {
	return s.pos
}

// Kind returns the symbol kind.
func (s *Symbol) Kind() SymbolKind {
	return s.kind
}

// Parent returns the scope the symbol is declared in.
func (s *Symbol) Parent() *Scope {
	return s.parent
}

// IsProc reports whether the symbol names a callable procedure.
func (s *Symbol) IsProc() bool {
	return s.kind == ProcSym || s.kind == BuiltinSym
}
