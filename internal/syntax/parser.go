package syntax

import (
	"strings"
)

// ParseError is a non-fatal syntax diagnostic. A syntax problem never
// aborts the parse; it degrades the output to a partial AST.
type ParseError struct {
	Pos Pos
	Msg string
}

func (e *ParseError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Parser performs syntax analysis over a token sequence.
// It consumes the tokens single-pass with a cursor; the only backtracking
// site is the parenthesized-suffix ambiguity in postfixExpr.
type Parser struct {
	filename string
	toks     []Token
	cur      int // cursor into toks

	errors []*ParseError

	withDepth int // nesting depth of With blocks
}

// NewParser creates a Parser over a token sequence produced by Tokenize.
func NewParser(filename string, toks []Token) *Parser {
	if len(toks) == 0 {
		// Defensive: Tokenize always ends with EOF, but an empty slice
		// must not panic the cursor.
		toks = []Token{{Kind: EOF}}
	}
	p := &Parser{filename: filename, toks: toks}
	p.skipTrivia()
	return p
}

// ParseModule tokenizes nothing itself: it parses an already-lexed token
// sequence and returns the module AST together with the ordered list of
// syntax errors. The AST is always non-nil, possibly partial.
func ParseModule(filename string, toks []Token) (*Module, []*ParseError) {
	p := NewParser(filename, toks)
	m := p.Parse()
	return m, p.Errors()
}

// Errors returns the syntax errors recorded so far, in source order.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

// ----------------------------------------------------------------------------
// Token navigation

// tok returns the current token. Once the cursor reaches the EOF sentinel
// it stays there.
func (p *Parser) tok() Token {
	if p.cur >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.cur]
}

// pos returns the position of the current token.
func (p *Parser) pos() Pos {
	t := p.tok()
	return NewPos(p.filename, t.Line, t.Col)
}

// next advances the cursor past the current token and any trivia.
func (p *Parser) next() {
	if p.cur < len(p.toks)-1 {
		p.cur++
	}
	p.skipTrivia()
}

// skipTrivia skips comments and trivia tokens the grammar never sees.
func (p *Parser) skipTrivia() {
	for p.cur < len(p.toks)-1 && skippable(p.toks[p.cur]) {
		p.cur++
	}
}

// gotKw consumes the given keyword if it is the current token.
func (p *Parser) gotKw(kw string) bool {
	if p.tok().IsKeyword(kw) {
		p.next()
		return true
	}
	return false
}

// wantKw consumes the given keyword or reports a syntax error.
func (p *Parser) wantKw(kw string) {
	if !p.gotKw(kw) {
		p.syntaxError("expected " + kw)
	}
}

// gotOp consumes the given operator if it is the current token.
func (p *Parser) gotOp(op string) bool {
	if p.tok().IsOperator(op) {
		p.next()
		return true
	}
	return false
}

// gotPunct consumes the given punctuation if it is the current token.
func (p *Parser) gotPunct(pt string) bool {
	if p.tok().IsPunct(pt) {
		p.next()
		return true
	}
	return false
}

// wantPunct consumes the given punctuation or reports a syntax error.
func (p *Parser) wantPunct(pt string) {
	if !p.gotPunct(pt) {
		p.syntaxError("expected " + pt)
	}
}

// name parses an identifier and returns a Name node, attaching any
// trailing type suffix token.
func (p *Parser) name() *Name {
	n := &Name{}
	n.pos = p.pos()
	if p.tok().Kind != Ident {
		p.syntaxError("expected identifier")
		n.Value = "_"
		return n
	}
	n.Value = p.tok().Text
	p.next()
	if p.tok().Kind == TypeSuffix {
		n.Suffix = p.tok().Text
		p.next()
	}
	return n
}

// ----------------------------------------------------------------------------
// Error handling

// syntaxError records a syntax error at the current position.
func (p *Parser) syntaxError(msg string) {
	p.syntaxErrorAt(p.pos(), msg)
}

// syntaxErrorAt records a syntax error at a specific position.
func (p *Parser) syntaxErrorAt(pos Pos, msg string) {
	p.errors = append(p.errors, &ParseError{Pos: pos, Msg: msg})
}

// advanceToStmt skips to the next statement separator for error recovery.
func (p *Parser) advanceToStmt() {
	for !p.atStmtEnd() {
		p.next()
	}
}

// atStmtEnd reports whether the current token ends a statement:
// a newline, a ':' separator, or end of file.
func (p *Parser) atStmtEnd() bool {
	t := p.tok()
	return t.Kind == EOF || t.Kind == Newline || t.IsPunct(":")
}

// endOfStmt consumes statement separators, reporting leftover tokens.
func (p *Parser) endOfStmt() {
	if !p.atStmtEnd() && !p.atBlockKeyword() {
		p.syntaxError("unexpected " + p.tok().Kind.String() + " " + p.tok().Text)
		p.advanceToStmt()
	}
	p.skipSeparators()
}

// skipSeparators consumes any run of newlines and ':' separators.
func (p *Parser) skipSeparators() {
	for {
		t := p.tok()
		if t.Kind == Newline || t.IsPunct(":") || t.Kind == Directive {
			p.next()
			continue
		}
		return
	}
}

// atBlockKeyword reports whether the current token is one of the keywords
// that terminate or continue an enclosing block.
func (p *Parser) atBlockKeyword() bool {
	t := p.tok()
	if t.Kind != Keyword {
		return false
	}
	switch strings.ToLower(t.Text) {
	case "end", "next", "loop", "wend", "else", "elseif", "case":
		return true
	}
	return false
}

// atEnd reports whether the cursor sits on "End <kw>" without consuming.
func (p *Parser) atEnd(kw string) bool {
	if !p.tok().IsKeyword("end") {
		return false
	}
	return p.peekTok(1).IsKeyword(kw)
}

// peekTok returns the n-th non-trivia token after the current one.
func (p *Parser) peekTok(n int) Token {
	i := p.cur
	for ; n > 0 && i < len(p.toks)-1; n-- {
		i++
		for i < len(p.toks)-1 && skippable(p.toks[i]) {
			i++
		}
	}
	return p.toks[i]
}

// skippable reports whether the parser never sees t. Comments join the
// lexical trivia here: they separate nothing the grammar cares about.
func skippable(t Token) bool {
	return t.IsTrivia() || t.Kind == Comment
}

// ----------------------------------------------------------------------------
// Module

// Parse parses the whole token sequence into one Module.
// It never panics; syntax errors are recorded and parsing continues on a
// best-effort basis.
func (p *Parser) Parse() *Module {
	m := &Module{}
	m.pos = p.pos()

	p.skipSeparators()
	for p.tok().Kind != EOF {
		before := p.cur

		switch {
		case p.tok().Kind == Attribute:
			p.attribute(m)

		case p.tok().IsKeyword("option"):
			p.option(m)

		default:
			if d := p.decl(); d != nil {
				m.Decls = append(m.Decls, flattenDecl(d)...)
			}
		}

		// Forward progress is non-negotiable: a declaration that parses
		// to nothing must still cost at least one token.
		if p.cur == before {
			p.syntaxError("unexpected " + p.tok().Kind.String() + " " + p.tok().Text)
			p.next()
		}
		p.skipSeparators()
	}
	return m
}

// attribute records an Attribute header line, extracting the module name
// from Attribute VB_Name = "...".
func (p *Parser) attribute(m *Module) {
	line := p.tok().Text
	m.Attributes = append(m.Attributes, line)
	if m.Name == "" {
		if i := strings.Index(strings.ToLower(line), "vb_name"); i >= 0 {
			if j := strings.Index(line[i:], "\""); j >= 0 {
				rest := line[i+j+1:]
				if k := strings.Index(rest, "\""); k >= 0 {
					m.Name = rest[:k]
				}
			}
		}
	}
	p.next()
	p.endOfStmt()
}

// option records an Option statement (Explicit, Base 0/1, Compare ...).
func (p *Parser) option(m *Module) {
	p.next() // option
	var parts []string
	for !p.atStmtEnd() {
		parts = append(parts, p.tok().Text)
		p.next()
	}
	m.Options = append(m.Options, strings.Join(parts, " "))
	p.endOfStmt()
}

// ----------------------------------------------------------------------------
// Declarations

// visibility consumes an optional visibility keyword.
func (p *Parser) visibility() Visibility {
	switch {
	case p.gotKw("public"):
		return VisPublic
	case p.gotKw("private"):
		return VisPrivate
	case p.gotKw("friend"):
		return VisFriend
	case p.gotKw("global"):
		return VisGlobal
	}
	return VisNone
}

// decl parses one module-level declaration.
func (p *Parser) decl() Decl {
	vis := p.visibility()
	static := p.gotKw("static")

	t := p.tok()
	switch {
	case t.IsKeyword("dim"):
		p.next()
		return p.varDeclGroup(vis, static)

	case t.IsKeyword("withevents") || t.Kind == Ident && vis != VisNone:
		// Visibility directly on a variable: Private x As Long
		return p.varDeclGroup(vis, static)

	case t.IsKeyword("const"):
		p.next()
		return p.constDeclGroup(vis)

	case t.IsKeyword("type"):
		return p.recordDecl(vis)

	case t.IsKeyword("enum"):
		return p.enumDecl(vis)

	case t.IsKeyword("declare"):
		return p.externalDecl(vis)

	case t.IsKeyword("event"):
		return p.eventDecl(vis)

	case t.IsKeyword("sub"), t.IsKeyword("function"), t.IsKeyword("property"):
		return p.procedure(vis, static)
	}

	p.syntaxError("expected declaration")
	p.advanceToStmt()
	return nil
}

// varDeclGroup parses a comma list of variable declarations and wraps them
// in a DeclStmt-compatible group. Each name carries its own optional
// "As type"; in "Dim a, b, c As Long" only c receives Long — a and b
// default to the dynamic Variant type.
func (p *Parser) varDeclGroup(vis Visibility, static bool) Decl {
	group := &declGroup{}
	group.pos = p.pos()
	for {
		d := &VarDecl{Vis: vis, Static: static}
		d.pos = p.pos()
		d.WithEvents = p.gotKw("withevents")
		d.Name = p.name()
		if p.gotPunct("(") {
			for !p.tok().IsPunct(")") && p.tok().Kind != EOF && !p.atStmtEnd() {
				d.DimExprs = append(d.DimExprs, p.dimBound())
				if !p.gotPunct(",") {
					break
				}
			}
			p.wantPunct(")")
		}
		if p.gotKw("as") {
			d.TypeName = p.typeRef()
		}
		group.decls = append(group.decls, d)
		if !p.gotPunct(",") {
			break
		}
	}
	if len(group.decls) == 1 {
		return group.decls[0]
	}
	return group
}

// dimBound parses one array dimension, including the "lo To hi" form.
func (p *Parser) dimBound() Expr {
	x := p.expr()
	if p.gotKw("to") {
		op := &Operation{Op: "to", X: x, Y: p.expr()}
		op.pos = x.Pos()
		return op
	}
	return x
}

// declGroup is an internal container for comma-list declarations.
// It never survives into the module: callers flatten it.
type declGroup struct {
	decl
	decls []Decl
}

// flattenDecl expands declaration groups into their individual entries.
func flattenDecl(d Decl) []Decl {
	if g, ok := d.(*declGroup); ok {
		return g.decls
	}
	return []Decl{d}
}

// constDeclGroup parses Const name [As type] = value, comma separated.
func (p *Parser) constDeclGroup(vis Visibility) Decl {
	group := &declGroup{}
	group.pos = p.pos()
	for {
		d := &ConstDecl{Vis: vis}
		d.pos = p.pos()
		d.Name = p.name()
		if p.gotKw("as") {
			d.TypeName = p.typeRef()
		}
		if p.gotOp("=") {
			d.Value = p.expr()
		} else {
			p.syntaxError("constant declaration requires a value")
		}
		group.decls = append(group.decls, d)
		if !p.gotPunct(",") {
			break
		}
	}
	if len(group.decls) == 1 {
		return group.decls[0]
	}
	return group
}

// recordDecl parses Type name ... End Type.
func (p *Parser) recordDecl(vis Visibility) Decl {
	d := &RecordDecl{Vis: vis}
	d.pos = p.pos()
	p.wantKw("type")
	d.Name = p.name()
	p.endOfStmt()

	for !p.atEnd("type") && p.tok().Kind != EOF {
		before := p.cur
		f := &Field{}
		f.pos = p.pos()
		f.Name = p.name()
		if p.gotPunct("(") {
			for !p.tok().IsPunct(")") && !p.atStmtEnd() {
				f.DimExprs = append(f.DimExprs, p.dimBound())
				if !p.gotPunct(",") {
					break
				}
			}
			p.wantPunct(")")
		}
		if p.gotKw("as") {
			f.TypeName = p.typeRef()
		}
		d.Fields = append(d.Fields, f)
		p.endOfStmt()
		if p.cur == before {
			p.next()
		}
	}
	p.wantKw("end")
	p.wantKw("type")
	return d
}

// enumDecl parses Enum name ... End Enum.
func (p *Parser) enumDecl(vis Visibility) Decl {
	d := &EnumDecl{Vis: vis}
	d.pos = p.pos()
	p.wantKw("enum")
	d.Name = p.name()
	p.endOfStmt()

	for !p.atEnd("enum") && p.tok().Kind != EOF {
		before := p.cur
		m := &EnumMember{}
		m.pos = p.pos()
		m.Name = p.name()
		if p.gotOp("=") {
			m.Value = p.expr()
		}
		d.Members = append(d.Members, m)
		p.endOfStmt()
		if p.cur == before {
			p.next()
		}
	}
	p.wantKw("end")
	p.wantKw("enum")
	return d
}

// externalDecl parses Declare Sub|Function name Lib "..." [Alias "..."]
// [(params)] [As type].
func (p *Parser) externalDecl(vis Visibility) Decl {
	d := &ExternalDecl{Vis: vis}
	d.pos = p.pos()
	p.wantKw("declare")

	switch {
	case p.gotKw("sub"):
		d.Kind = SubProc
	case p.gotKw("function"):
		d.Kind = FunctionProc
	default:
		p.syntaxError("expected Sub or Function after Declare")
	}

	d.Name = p.name()
	p.wantKw("lib")
	if p.tok().Kind == String {
		d.Lib = p.tok().Text
		p.next()
	} else {
		p.syntaxError("expected library name string")
	}
	if p.gotKw("alias") {
		if p.tok().Kind == String {
			d.Alias = p.tok().Text
			p.next()
		} else {
			p.syntaxError("expected alias string")
		}
	}
	if p.tok().IsPunct("(") {
		d.Params = p.paramList()
	}
	if p.gotKw("as") {
		d.Result = p.typeRef()
	}
	return d
}

// eventDecl parses Event name [(params)].
func (p *Parser) eventDecl(vis Visibility) Decl {
	d := &EventDecl{Vis: vis}
	d.pos = p.pos()
	p.wantKw("event")
	d.Name = p.name()
	if p.tok().IsPunct("(") {
		d.Params = p.paramList()
	}
	return d
}

// ----------------------------------------------------------------------------
// Procedures

// procedure parses a Sub, Function, or Property accessor with its body.
func (p *Parser) procedure(vis Visibility, static bool) Decl {
	d := &Procedure{Vis: vis, Static: static}
	d.pos = p.pos()

	endKw := ""
	switch {
	case p.gotKw("sub"):
		d.Kind = SubProc
		endKw = "sub"
	case p.gotKw("function"):
		d.Kind = FunctionProc
		endKw = "function"
	case p.gotKw("property"):
		endKw = "property"
		switch {
		case p.gotKw("get"):
			d.Kind = PropertyGetProc
		case p.gotKw("let"):
			d.Kind = PropertyLetProc
		case p.gotKw("set"):
			d.Kind = PropertySetProc
		default:
			p.syntaxError("expected Get, Let, or Set after Property")
			d.Kind = PropertyGetProc
		}
	}

	d.Name = p.name()
	if p.tok().IsPunct("(") {
		d.Params = p.paramList()
	}
	if p.gotKw("as") {
		d.Result = p.typeRef()
	}
	p.endOfStmt()

	d.Body = p.stmtList(func() bool { return p.atEnd(endKw) })

	p.wantKw("end")
	p.wantKw(endKw)
	return d
}

// paramList parses (param, param, ...).
func (p *Parser) paramList() []*Param {
	p.wantPunct("(")
	var params []*Param
	for !p.tok().IsPunct(")") && p.tok().Kind != EOF && !p.atStmtEnd() {
		prm := &Param{}
		prm.pos = p.pos()
		prm.Optional = p.gotKw("optional")
		switch {
		case p.gotKw("byval"):
			prm.ByVal = true
		case p.gotKw("byref"):
			// ByRef is the default; consuming it is enough.
		case p.gotKw("paramarray"):
			prm.ParamArray = true
		}
		prm.Name = p.name()
		if p.gotPunct("(") {
			p.wantPunct(")") // array parameter marker
		}
		if p.gotKw("as") {
			prm.TypeName = p.typeRef()
		}
		if p.gotOp("=") {
			prm.Default = p.expr()
		}
		params = append(params, prm)
		if !p.gotPunct(",") {
			break
		}
	}
	p.wantPunct(")")
	return params
}

// typeRef parses a type reference: [New] name[.name...].
func (p *Parser) typeRef() Expr {
	if p.gotKw("new") {
		op := &Operation{Op: "new"}
		op.pos = p.pos()
		op.X = p.typeRef()
		return op
	}
	var x Expr = p.name()
	for p.tok().IsOperator(".") {
		pos := x.Pos()
		p.next()
		sel := &SelectorExpr{X: x, Sel: p.name()}
		sel.pos = pos
		x = sel
	}
	return x
}

// ----------------------------------------------------------------------------
// Statements

// stmtList parses statements until the done predicate holds or the tokens
// run out. If a statement parses to nothing and the current token is not a
// recognized terminator, the parser still advances by at least one token:
// failing to advance would be a parser bug, not a language feature.
func (p *Parser) stmtList(done func() bool) []Stmt {
	var list []Stmt
	p.skipSeparators()
	for p.tok().Kind != EOF && !done() {
		if p.atBlockKeyword() {
			// Terminator of an enclosing block reached without this
			// block's own terminator: stop and let the caller report it.
			break
		}
		before := p.cur
		if s := p.stmt(); s != nil {
			list = append(list, s)
		}
		if p.cur == before {
			p.syntaxError("unexpected " + p.tok().Kind.String() + " " + p.tok().Text)
			p.next()
		}
		p.endOfStmt()
	}
	return list
}

// stmt parses a single statement. Returns nil (without consuming) for
// tokens that cannot start a statement.
func (p *Parser) stmt() Stmt {
	t := p.tok()

	if t.Kind == Label {
		s := &LabelStmt{Name: t.Text}
		s.pos = p.pos()
		p.next()
		// The ':' after a label is part of the label form.
		p.gotPunct(":")
		return s
	}

	if t.Kind == Keyword {
		switch strings.ToLower(t.Text) {
		case "dim", "static":
			static := strings.EqualFold(t.Text, "static")
			pos := p.pos()
			p.next()
			s := &DeclStmt{Decls: flattenDecl(p.varDeclGroup(VisNone, static))}
			s.pos = pos
			return s
		case "const":
			pos := p.pos()
			p.next()
			s := &DeclStmt{Decls: flattenDecl(p.constDeclGroup(VisNone))}
			s.pos = pos
			return s
		case "redim":
			return p.redimStmt()
		case "if":
			return p.ifStmt()
		case "for":
			return p.forStmt()
		case "do":
			return p.doStmt()
		case "while":
			return p.whileStmt()
		case "select":
			return p.selectStmt()
		case "with":
			return p.withStmt()
		case "on":
			return p.onErrorStmt()
		case "exit":
			return p.exitStmt()
		case "goto", "gosub":
			return p.gotoStmt()
		case "return":
			s := &ReturnStmt{}
			s.pos = p.pos()
			p.next()
			return s
		case "resume":
			return p.resumeStmt()
		case "call":
			pos := p.pos()
			p.next()
			s := &CallStmt{Call: p.postfixExpr()}
			s.pos = pos
			return s
		case "set", "let":
			set := strings.EqualFold(t.Text, "set")
			pos := p.pos()
			p.next()
			s := p.assignOrCall()
			if a, ok := s.(*AssignStmt); ok {
				a.SetAssign = set
				a.pos = pos
			}
			return s
		}
		return nil
	}

	if t.Kind == Ident || t.IsOperator(".") || t.IsKeyword("me") {
		return p.assignOrCall()
	}

	return nil
}

// assignOrCall parses an assignment or a call statement. The left side is
// a postfix chain; "=" makes it an assignment, anything else a call
// (including the bare argument form "Foo a, b").
func (p *Parser) assignOrCall() Stmt {
	pos := p.pos()
	x := p.postfixExpr()

	if p.gotOp("=") {
		s := &AssignStmt{LHS: x, RHS: p.expr()}
		s.pos = pos
		return s
	}

	if !p.atStmtEnd() && !p.atBlockKeyword() {
		// Bare call arguments without parentheses.
		call := &CallExpr{Fun: x}
		call.pos = pos
		call.Args = append(call.Args, p.expr())
		for p.gotPunct(",") {
			call.Args = append(call.Args, p.expr())
		}
		s := &CallStmt{Call: call}
		s.pos = pos
		return s
	}

	s := &CallStmt{Call: x}
	s.pos = pos
	return s
}

// redimStmt parses ReDim [Preserve] name(dims)[, ...].
func (p *Parser) redimStmt() Stmt {
	s := &RedimStmt{}
	s.pos = p.pos()
	p.wantKw("redim")
	s.Preserve = p.gotKw("preserve")
	for {
		t := &RedimTarget{}
		t.pos = p.pos()
		t.Name = p.name()
		if p.gotPunct("(") {
			for !p.tok().IsPunct(")") && !p.atStmtEnd() {
				t.DimExprs = append(t.DimExprs, p.dimBound())
				if !p.gotPunct(",") {
					break
				}
			}
			p.wantPunct(")")
		}
		s.Targets = append(s.Targets, t)
		if !p.gotPunct(",") {
			break
		}
	}
	return s
}

// ifStmt parses both block and single-line If statements.
func (p *Parser) ifStmt() Stmt {
	s := &IfStmt{}
	s.pos = p.pos()
	p.wantKw("if")
	s.Cond = p.expr()
	p.wantKw("then")

	if p.atStmtEnd() {
		// Block form.
		p.skipSeparators()
		s.Then = p.stmtList(func() bool {
			return p.atEnd("if") || p.tok().IsKeyword("else") || p.tok().IsKeyword("elseif")
		})
		for p.tok().IsKeyword("elseif") {
			c := &ElseIfClause{}
			c.pos = p.pos()
			p.next()
			c.Cond = p.expr()
			p.wantKw("then")
			p.skipSeparators()
			c.Body = p.stmtList(func() bool {
				return p.atEnd("if") || p.tok().IsKeyword("else") || p.tok().IsKeyword("elseif")
			})
			s.ElseIfs = append(s.ElseIfs, c)
		}
		if p.gotKw("else") {
			p.skipSeparators()
			s.Else = p.stmtList(func() bool { return p.atEnd("if") })
			if s.Else == nil {
				s.Else = []Stmt{}
			}
		}
		p.wantKw("end")
		p.wantKw("if")
		return s
	}

	// Single-line form: If cond Then stmt [: stmt...] [Else stmt [: stmt...]]
	s.Then = p.inlineStmts(true)
	if p.gotKw("else") {
		s.Else = p.inlineStmts(false)
		if s.Else == nil {
			s.Else = []Stmt{}
		}
	}
	return s
}

// inlineStmts parses ':'-separated statements on the current line,
// optionally stopping at an Else keyword.
func (p *Parser) inlineStmts(stopAtElse bool) []Stmt {
	var list []Stmt
	for {
		if p.tok().Kind == EOF || p.tok().Kind == Newline {
			return list
		}
		if stopAtElse && p.tok().IsKeyword("else") {
			return list
		}
		before := p.cur
		if s := p.stmt(); s != nil {
			list = append(list, s)
		}
		if p.cur == before {
			p.syntaxError("unexpected " + p.tok().Kind.String() + " " + p.tok().Text)
			p.next()
		}
		if !p.gotPunct(":") {
			return list
		}
	}
}

// forStmt parses For var = from To to [Step step] ... Next and
// For Each var In collection ... Next.
func (p *Parser) forStmt() Stmt {
	pos := p.pos()
	p.wantKw("for")

	if p.gotKw("each") {
		s := &ForEachStmt{}
		s.pos = pos
		s.Var = p.postfixExpr()
		p.wantKw("in")
		s.Collection = p.expr()
		p.endOfStmt()
		s.Body = p.stmtList(func() bool { return p.tok().IsKeyword("next") })
		p.wantKw("next")
		p.skipLoopVar()
		return s
	}

	s := &ForStmt{}
	s.pos = pos
	s.Var = p.postfixExpr()
	if !p.gotOp("=") {
		p.syntaxError("expected = in For statement")
	}
	s.From = p.expr()
	p.wantKw("to")
	s.To = p.expr()
	if p.gotKw("step") {
		s.Step = p.expr()
	}
	p.endOfStmt()
	s.Body = p.stmtList(func() bool { return p.tok().IsKeyword("next") })
	p.wantKw("next")
	p.skipLoopVar()
	return s
}

// skipLoopVar consumes an optional loop variable after Next.
func (p *Parser) skipLoopVar() {
	if p.tok().Kind == Ident {
		p.next()
	}
}

// doStmt parses all Do/Loop forms: pre-condition, post-condition, or none.
func (p *Parser) doStmt() Stmt {
	s := &DoStmt{}
	s.pos = p.pos()
	p.wantKw("do")

	switch {
	case p.gotKw("while"):
		s.Cond = p.expr()
	case p.gotKw("until"):
		s.Until = true
		s.Cond = p.expr()
	}
	p.endOfStmt()

	s.Body = p.stmtList(func() bool { return p.tok().IsKeyword("loop") })
	p.wantKw("loop")

	if s.Cond == nil {
		switch {
		case p.gotKw("while"):
			s.Post = true
			s.Cond = p.expr()
		case p.gotKw("until"):
			s.Post = true
			s.Until = true
			s.Cond = p.expr()
		}
	}
	return s
}

// whileStmt parses While cond ... Wend as a pre-condition loop.
func (p *Parser) whileStmt() Stmt {
	s := &DoStmt{}
	s.pos = p.pos()
	p.wantKw("while")
	s.Cond = p.expr()
	p.endOfStmt()
	s.Body = p.stmtList(func() bool { return p.tok().IsKeyword("wend") })
	p.wantKw("wend")
	return s
}

// selectStmt parses Select Case subject ... End Select.
func (p *Parser) selectStmt() Stmt {
	s := &SelectStmt{}
	s.pos = p.pos()
	p.wantKw("select")
	p.wantKw("case")
	s.Subject = p.expr()
	p.endOfStmt()

	for p.tok().IsKeyword("case") && !p.atEnd("select") {
		p.next() // case
		if p.gotKw("else") {
			p.skipSeparators()
			s.Else = p.stmtList(func() bool {
				return p.atEnd("select") || p.tok().IsKeyword("case")
			})
			if s.Else == nil {
				s.Else = []Stmt{}
			}
			continue
		}
		c := &CaseClause{}
		c.pos = p.pos()
		for {
			c.Guards = append(c.Guards, p.caseGuard())
			if !p.gotPunct(",") {
				break
			}
		}
		p.skipSeparators()
		c.Body = p.stmtList(func() bool {
			return p.atEnd("select") || p.tok().IsKeyword("case")
		})
		s.Cases = append(s.Cases, c)
	}
	p.wantKw("end")
	p.wantKw("select")
	return s
}

// caseGuard parses one Case guard: value, "lo To hi" range, or
// "Is <op> value" comparison.
func (p *Parser) caseGuard() *CaseGuard {
	g := &CaseGuard{}
	g.pos = p.pos()

	if p.gotKw("is") {
		g.Kind = GuardCompare
		t := p.tok()
		switch {
		case t.IsOperator("="), t.IsOperator("<>"), t.IsOperator("<"),
			t.IsOperator(">"), t.IsOperator("<="), t.IsOperator(">="):
			g.Op = t.Text
			p.next()
		default:
			p.syntaxError("expected comparison operator after Is")
			g.Op = "="
		}
		g.X = p.expr()
		return g
	}

	g.X = p.expr()
	if p.gotKw("to") {
		g.Kind = GuardRange
		g.Y = p.expr()
		return g
	}
	g.Kind = GuardValue
	return g
}

// withStmt parses With subject ... End With.
func (p *Parser) withStmt() Stmt {
	s := &WithStmt{}
	s.pos = p.pos()
	p.wantKw("with")
	s.Subject = p.expr()
	p.endOfStmt()

	p.withDepth++
	s.Body = p.stmtList(func() bool { return p.atEnd("with") })
	p.withDepth--

	p.wantKw("end")
	p.wantKw("with")
	return s
}

// onErrorStmt parses On Error Resume Next / GoTo label / GoTo 0.
func (p *Parser) onErrorStmt() Stmt {
	s := &OnErrorStmt{}
	s.pos = p.pos()
	p.wantKw("on")
	p.wantKw("error")

	switch {
	case p.gotKw("resume"):
		p.wantKw("next")
		s.ResumeNext = true
	case p.gotKw("goto"):
		t := p.tok()
		switch {
		case t.Kind == Ident:
			s.Label = t.Text
			p.next()
		case t.Kind == Number && t.Text == "0":
			p.next() // On Error GoTo 0: disable the handler
		default:
			p.syntaxError("expected label or 0 after On Error GoTo")
		}
	default:
		p.syntaxError("expected Resume Next or GoTo after On Error")
	}
	return s
}

// exitStmt parses Exit Sub/Function/Property/For/Do.
func (p *Parser) exitStmt() Stmt {
	s := &ExitStmt{}
	s.pos = p.pos()
	p.wantKw("exit")

	switch {
	case p.gotKw("sub"):
		s.What = ExitSub
	case p.gotKw("function"):
		s.What = ExitFunction
	case p.gotKw("property"):
		s.What = ExitProperty
	case p.gotKw("for"):
		s.What = ExitFor
	case p.gotKw("do"):
		s.What = ExitDo
	default:
		p.syntaxError("expected Sub, Function, Property, For, or Do after Exit")
	}
	return s
}

// gotoStmt parses GoTo label and GoSub label.
func (p *Parser) gotoStmt() Stmt {
	s := &GotoStmt{GoSub: p.tok().IsKeyword("gosub")}
	s.pos = p.pos()
	p.next()

	if p.tok().Kind == Ident {
		s.Label = p.tok().Text
		p.next()
	} else {
		p.syntaxError("expected label")
	}
	return s
}

// resumeStmt parses Resume / Resume Next / Resume label.
func (p *Parser) resumeStmt() Stmt {
	s := &ResumeStmt{}
	s.pos = p.pos()
	p.wantKw("resume")

	switch {
	case p.gotKw("next"):
		s.Next = true
	case p.tok().Kind == Ident:
		s.Label = p.tok().Text
		p.next()
	case p.tok().Kind == Number && p.tok().Text == "0":
		p.next()
	}
	return s
}

// ----------------------------------------------------------------------------
// Expressions
//
// Precedence climbing, lowest binding first:
//   Or/Xor > And > (= <> Is Like) > (< > <= >=) > (+ - &) >
//   (* / \ Mod) > ^ (right-associative) > unary (- + Not) > postfix.

// expr parses an expression.
func (p *Parser) expr() Expr {
	return p.logicalOr()
}

func (p *Parser) binaryLoop(operand func() Expr, match func(Token) (string, bool)) Expr {
	x := operand()
	for {
		op, ok := match(p.tok())
		if !ok {
			return x
		}
		p.next()
		o := &Operation{Op: op, X: x, Y: operand()}
		o.pos = x.Pos()
		x = o
	}
}

func (p *Parser) logicalOr() Expr {
	return p.binaryLoop(p.logicalAnd, func(t Token) (string, bool) {
		if t.IsKeyword("or") || t.IsKeyword("xor") {
			return strings.ToLower(t.Text), true
		}
		return "", false
	})
}

func (p *Parser) logicalAnd() Expr {
	return p.binaryLoop(p.equality, func(t Token) (string, bool) {
		if t.IsKeyword("and") {
			return "and", true
		}
		return "", false
	})
}

func (p *Parser) equality() Expr {
	return p.binaryLoop(p.comparison, func(t Token) (string, bool) {
		switch {
		case t.IsOperator("="), t.IsOperator("<>"):
			return t.Text, true
		case t.IsKeyword("is"), t.IsKeyword("like"):
			return strings.ToLower(t.Text), true
		}
		return "", false
	})
}

func (p *Parser) comparison() Expr {
	return p.binaryLoop(p.additive, func(t Token) (string, bool) {
		switch {
		case t.IsOperator("<"), t.IsOperator(">"), t.IsOperator("<="), t.IsOperator(">="):
			return t.Text, true
		}
		return "", false
	})
}

func (p *Parser) additive() Expr {
	return p.binaryLoop(p.multiplicative, func(t Token) (string, bool) {
		switch {
		case t.IsOperator("+"), t.IsOperator("-"), t.IsOperator("&"):
			return t.Text, true
		}
		return "", false
	})
}

func (p *Parser) multiplicative() Expr {
	return p.binaryLoop(p.exponent, func(t Token) (string, bool) {
		switch {
		case t.IsOperator("*"), t.IsOperator("/"), t.IsOperator("\\"):
			return t.Text, true
		case t.IsKeyword("mod"):
			return "mod", true
		}
		return "", false
	})
}

// exponent parses the ^ operator, which is right-associative.
func (p *Parser) exponent() Expr {
	x := p.unary()
	if p.tok().IsOperator("^") {
		p.next()
		o := &Operation{Op: "^", X: x, Y: p.exponent()}
		o.pos = x.Pos()
		return o
	}
	return x
}

func (p *Parser) unary() Expr {
	t := p.tok()
	switch {
	case t.IsOperator("-"), t.IsOperator("+"):
		pos := p.pos()
		p.next()
		o := &Operation{Op: t.Text, X: p.unary()}
		o.pos = pos
		return o
	case t.IsKeyword("not"):
		pos := p.pos()
		p.next()
		o := &Operation{Op: "not", X: p.unary()}
		o.pos = pos
		return o
	case t.IsKeyword("new"):
		pos := p.pos()
		p.next()
		o := &Operation{Op: "new", X: p.typeRef()}
		o.pos = pos
		return o
	}
	return p.postfixExpr()
}

// postfixExpr parses a primary followed by member-access and
// parenthesized suffixes.
//
// A parenthesized suffix after an identifier is syntactically identical
// whether it denotes a call or an array index. The parser emits a neutral
// IndexExpr when at least one argument is present, a CallExpr for an empty
// list, and backtracks to the bare reference when the list does not parse.
// This is the single backtracking site in the grammar.
func (p *Parser) postfixExpr() Expr {
	x := p.operand()
	for {
		t := p.tok()
		switch {
		case t.IsOperator("."):
			pos := x.Pos()
			p.next()
			sel := &SelectorExpr{X: x, Sel: p.name()}
			sel.pos = pos
			x = sel

		case t.IsPunct("("):
			// Checkpoint: integer cursor plus recorded-error high water
			// mark, restored if the suffix fails to parse.
			mark := p.cur
			errMark := len(p.errors)
			p.next()

			if p.gotPunct(")") {
				call := &CallExpr{Fun: x}
				call.pos = x.Pos()
				x = call
				continue
			}

			args, ok := p.argList()
			if !ok {
				p.cur = mark
				p.skipTrivia()
				p.errors = p.errors[:errMark]
				return x
			}
			idx := &IndexExpr{X: x, Args: args}
			idx.pos = x.Pos()
			x = idx

		default:
			return x
		}
	}
}

// argList parses "expr [, expr...] )" and reports whether the closing
// parenthesis was reached.
func (p *Parser) argList() ([]Expr, bool) {
	var args []Expr
	for {
		if p.atStmtEnd() {
			return args, false
		}
		args = append(args, p.expr())
		if p.gotPunct(",") {
			continue
		}
		break
	}
	if !p.gotPunct(")") {
		return args, false
	}
	return args, true
}

// operand parses the base of a postfix chain.
func (p *Parser) operand() Expr {
	t := p.tok()
	pos := p.pos()

	if t.IsLiteral() {
		return p.basicLit(t, pos)
	}

	switch t.Kind {
	case Ident:
		return p.name()

	case Keyword:
		switch strings.ToLower(t.Text) {
		case "true", "false":
			lit := &BasicLit{Kind: BoolLit, Value: strings.ToLower(t.Text)}
			lit.pos = pos
			p.next()
			return lit
		case "nothing":
			lit := &BasicLit{Kind: NothingLit, Value: "Nothing"}
			lit.pos = pos
			p.next()
			return lit
		case "null":
			lit := &BasicLit{Kind: NullLit, Value: "Null"}
			lit.pos = pos
			p.next()
			return lit
		case "empty":
			lit := &BasicLit{Kind: EmptyLit, Value: "Empty"}
			lit.pos = pos
			p.next()
			return lit
		case "me":
			n := &Name{Value: "Me"}
			n.pos = pos
			p.next()
			return n
		}

	case Punct:
		if t.Text == "(" {
			p.next()
			x := p.expr()
			p.wantPunct(")")
			paren := &ParenExpr{X: x}
			paren.pos = pos
			return paren
		}

	case Operator:
		// Implicit With member access: a leading '.' at expression start.
		if t.Text == "." {
			p.next()
			sel := &WithSelectorExpr{Sel: p.name()}
			sel.pos = pos
			if p.withDepth == 0 {
				p.syntaxErrorAt(pos, "member access without enclosing With block")
			}
			return sel
		}
	}

	p.syntaxError("expected expression")
	n := &Name{Value: "_"} // error recovery placeholder
	n.pos = pos
	return n
}

// basicLit consumes a literal token and its optional type suffix.
func (p *Parser) basicLit(t Token, pos Pos) *BasicLit {
	lit := &BasicLit{Value: t.Text}
	lit.pos = pos
	switch t.Kind {
	case Number:
		lit.Kind = NumberLit
	case Float:
		lit.Kind = FloatLit
	case Hex:
		lit.Kind = HexLit
	case Octal:
		lit.Kind = OctalLit
	case String:
		lit.Kind = StringLit
	case Date:
		lit.Kind = DateLit
	}
	p.next()
	if p.tok().Kind == TypeSuffix {
		lit.Suffix = p.tok().Text
		p.next()
	}
	return lit
}
