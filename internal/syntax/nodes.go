package syntax

import "fmt"

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 3 main classes of nodes: Expressions, Statements, and
// Declarations (procedures are declarations). All nodes implement the Node
// interface and carry a source position.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of the first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// Decl is the interface for all declaration nodes.
type Decl interface {
	Node
	aDecl()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

type expr struct{ node }

func (*expr) aExpr() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

type decl struct{ node }

func (*decl) aDecl() {}

// ----------------------------------------------------------------------------
// Module

// Module represents one parsed source module.
type Module struct {
	node
	Name       string   // module name (from Attribute VB_Name, may be empty)
	Attributes []string // raw Attribute header lines
	Options    []string // Option statements (Explicit, Base 1, ...)
	Decls      []Decl   // module-level declarations and procedures, in order
}

// Procs returns the procedures declared in the module, in order.
func (m *Module) Procs() []*Procedure {
	var procs []*Procedure
	for _, d := range m.Decls {
		if p, ok := d.(*Procedure); ok {
			procs = append(procs, p)
		}
	}
	return procs
}

// ----------------------------------------------------------------------------
// Visibility

// Visibility is the declared visibility of a module-level entity.
type Visibility int

const (
	VisNone Visibility = iota
	VisPublic
	VisPrivate
	VisFriend
	VisGlobal
)

var visNames = [...]string{
	VisNone:    "",
	VisPublic:  "Public",
	VisPrivate: "Private",
	VisFriend:  "Friend",
	VisGlobal:  "Global",
}

func (v Visibility) String() string {
	if int(v) < len(visNames) {
		return visNames[v]
	}
	return fmt.Sprintf("Visibility(%d)", int(v))
}

// ----------------------------------------------------------------------------
// Declarations

// VarDecl represents a single declared variable. A Dim statement with a
// comma list expands to one VarDecl per name.
type VarDecl struct {
	decl
	Name       *Name
	TypeName   Expr   // declared type (nil means the dynamic Variant type)
	DimExprs   []Expr // array dimensions, nil for scalars
	Vis        Visibility
	Static     bool
	WithEvents bool
}

// ConstDecl represents a constant declaration.
type ConstDecl struct {
	decl
	Name     *Name
	TypeName Expr // nil means Variant
	Value    Expr
	Vis      Visibility
}

// RecordDecl represents a Type ... End Type record declaration.
type RecordDecl struct {
	decl
	Name   *Name
	Fields []*Field
	Vis    Visibility
}

// Field represents one field of a record.
type Field struct {
	node
	Name     *Name
	TypeName Expr
	DimExprs []Expr // fixed-size array field dimensions
}

// EnumDecl represents an Enum ... End Enum declaration.
type EnumDecl struct {
	decl
	Name    *Name
	Members []*EnumMember
	Vis     Visibility
}

// EnumMember is a single enum constant, with an optional explicit value.
type EnumMember struct {
	node
	Name  *Name
	Value Expr // nil for implicit (previous + 1)
}

// ExternalDecl represents a Declare statement binding an external
// library procedure.
type ExternalDecl struct {
	decl
	Kind   ProcKind // SubProc or FunctionProc
	Name   *Name
	Lib    string
	Alias  string // empty if none
	Params []*Param
	Result Expr // return type for Declare Function, nil otherwise
	Vis    Visibility
}

// EventDecl represents an Event declaration.
type EventDecl struct {
	decl
	Name   *Name
	Params []*Param
	Vis    Visibility
}

// ProcKind discriminates the procedure flavors.
type ProcKind int

const (
	SubProc ProcKind = iota
	FunctionProc
	PropertyGetProc
	PropertyLetProc
	PropertySetProc
)

var procKindNames = [...]string{
	SubProc:         "Sub",
	FunctionProc:    "Function",
	PropertyGetProc: "Property Get",
	PropertyLetProc: "Property Let",
	PropertySetProc: "Property Set",
}

func (k ProcKind) String() string {
	if int(k) < len(procKindNames) {
		return procKindNames[k]
	}
	return fmt.Sprintf("ProcKind(%d)", int(k))
}

// IsProperty reports whether k is one of the property accessor kinds.
func (k ProcKind) IsProperty() bool {
	return k == PropertyGetProc || k == PropertyLetProc || k == PropertySetProc
}

// Procedure represents a Sub, Function, or Property accessor with its body.
type Procedure struct {
	decl
	Kind   ProcKind
	Name   *Name
	Params []*Param
	Result Expr // declared return type (Function / Property Get), nil otherwise
	Body   []Stmt
	Vis    Visibility
	Static bool
}

// Param represents one procedure parameter.
type Param struct {
	node
	Name       *Name
	TypeName   Expr // nil means Variant
	ByVal      bool // parameters are ByRef unless declared ByVal
	Optional   bool
	ParamArray bool
	Default    Expr // default value for Optional parameters
}

// ----------------------------------------------------------------------------
// Statements

// DeclStmt wraps local declarations (Dim/Const/Static inside a body).
type DeclStmt struct {
	stmt
	Decls []Decl
}

// AssignStmt represents LHS = RHS, with the Set form marked.
type AssignStmt struct {
	stmt
	SetAssign bool // Set obj = expr (object reference assignment)
	LHS       Expr
	RHS       Expr
}

// IfStmt represents both block and single-line If statements,
// with ordered ElseIf clauses and an optional Else.
type IfStmt struct {
	stmt
	Cond    Expr
	Then    []Stmt
	ElseIfs []*ElseIfClause
	Else    []Stmt // nil when absent
}

// ElseIfClause is one ElseIf arm of an If statement.
type ElseIfClause struct {
	node
	Cond Expr
	Body []Stmt
}

// ForStmt represents For var = from To to [Step step] ... Next.
type ForStmt struct {
	stmt
	Var  Expr
	From Expr
	To   Expr
	Step Expr // nil for the implicit step of 1
	Body []Stmt
}

// ForEachStmt represents For Each var In collection ... Next.
type ForEachStmt struct {
	stmt
	Var        Expr
	Collection Expr
	Body       []Stmt
}

// DoStmt represents Do/Loop in all its forms, plus While ... Wend
// (a pre-condition While guard).
type DoStmt struct {
	stmt
	Post  bool // condition tested after the body (Loop While/Until ...)
	Until bool // Until guard rather than While
	Cond  Expr // nil for an unguarded Do ... Loop
	Body  []Stmt
}

// SelectStmt represents Select Case with its ordered case list.
type SelectStmt struct {
	stmt
	Subject Expr
	Cases   []*CaseClause
	Else    []Stmt // Case Else body, nil when absent
}

// CaseClause is one Case arm with its guard list.
type CaseClause struct {
	node
	Guards []*CaseGuard
	Body   []Stmt
}

// GuardKind discriminates the Case guard forms.
type GuardKind int

const (
	GuardValue   GuardKind = iota // Case 1
	GuardRange                   // Case 1 To 5
	GuardCompare                 // Case Is > 5
)

// CaseGuard is a single guard inside a Case arm.
type CaseGuard struct {
	node
	Kind GuardKind
	X    Expr   // value, range low bound, or comparison operand
	Y    Expr   // range high bound (GuardRange only)
	Op   string // comparison operator (GuardCompare only)
}

// WithStmt represents With subject ... End With.
type WithStmt struct {
	stmt
	Subject Expr
	Body    []Stmt
}

// OnErrorStmt represents On Error Resume Next / GoTo label / GoTo 0.
type OnErrorStmt struct {
	stmt
	ResumeNext bool
	Label      string // target label; empty with !ResumeNext means GoTo 0
}

// ExitKind names the construct an Exit statement leaves.
type ExitKind int

const (
	ExitSub ExitKind = iota
	ExitFunction
	ExitProperty
	ExitFor
	ExitDo
)

var exitKindNames = [...]string{
	ExitSub:      "Sub",
	ExitFunction: "Function",
	ExitProperty: "Property",
	ExitFor:      "For",
	ExitDo:       "Do",
}

func (k ExitKind) String() string {
	if int(k) < len(exitKindNames) {
		return exitKindNames[k]
	}
	return fmt.Sprintf("ExitKind(%d)", int(k))
}

// ExitStmt represents Exit Sub/Function/Property/For/Do.
type ExitStmt struct {
	stmt
	What ExitKind
}

// GotoStmt represents GoTo label and GoSub label.
type GotoStmt struct {
	stmt
	GoSub bool
	Label string
}

// ReturnStmt represents the Return from a GoSub.
type ReturnStmt struct {
	stmt
}

// ResumeStmt represents Resume / Resume Next / Resume label.
type ResumeStmt struct {
	stmt
	Next  bool
	Label string
}

// LabelStmt represents a line label at statement position.
type LabelStmt struct {
	stmt
	Name string
}

// RedimStmt represents ReDim [Preserve] name(dims)[, name(dims)...].
type RedimStmt struct {
	stmt
	Preserve bool
	Targets  []*RedimTarget
}

// RedimTarget is one re-dimensioned array in a ReDim statement.
type RedimTarget struct {
	node
	Name     *Name
	DimExprs []Expr
}

// CallStmt represents a procedure invocation statement, both the explicit
// Call form and a bare invocation.
type CallStmt struct {
	stmt
	Call Expr // CallExpr, IndexExpr, SelectorExpr chain, or bare Name
}

// ----------------------------------------------------------------------------
// Expressions

// LitKind discriminates literal values.
type LitKind int

const (
	StringLit LitKind = iota
	NumberLit
	FloatLit
	HexLit
	OctalLit
	DateLit
	BoolLit
	NothingLit
	NullLit
	EmptyLit
)

var litKindNames = [...]string{
	StringLit:  "string",
	NumberLit:  "number",
	FloatLit:   "float",
	HexLit:     "hex",
	OctalLit:   "octal",
	DateLit:    "date",
	BoolLit:    "bool",
	NothingLit: "nothing",
	NullLit:    "null",
	EmptyLit:   "empty",
}

func (k LitKind) String() string {
	if int(k) < len(litKindNames) {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", int(k))
}

// BasicLit represents a literal value.
type BasicLit struct {
	expr
	Kind   LitKind
	Value  string // literal text (decoded for strings)
	Suffix string // trailing type suffix character, "" if none
}

// Name represents an identifier reference (including the special Me).
type Name struct {
	expr
	Value  string
	Suffix string // trailing type suffix character, "" if none
}

// Operation represents a unary or binary operation.
// Y is nil for unary operations. Op is the operator spelling,
// lowercased for keyword operators ("and", "mod", "is", "like").
type Operation struct {
	expr
	Op string
	X  Expr
	Y  Expr
}

// CallExpr represents an invocation with a known-empty or resolved
// argument list: Fun().
type CallExpr struct {
	expr
	Fun  Expr
	Args []Expr
}

// IndexExpr represents the neutral parenthesized-suffix form name(args...).
// Whether it is an array access or a call cannot be decided syntactically;
// downstream passes reinterpret it once symbol kinds are known.
type IndexExpr struct {
	expr
	X    Expr
	Args []Expr
}

// SelectorExpr represents member access X.Sel.
type SelectorExpr struct {
	expr
	X   Expr
	Sel *Name
}

// WithSelectorExpr represents implicit member access on the enclosing
// With subject: a leading .Sel at expression start.
type WithSelectorExpr struct {
	expr
	Sel *Name
}

// ParenExpr represents a parenthesized sub-expression.
type ParenExpr struct {
	expr
	X Expr
}
