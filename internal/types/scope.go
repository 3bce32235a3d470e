package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vbfront/vbfront/internal/syntax"
)

// Scope represents a lexical scope. Scopes form a tree rooted at the
// module scope. Name lookup is case-insensitive; the declared casing of a
// symbol is preserved on the symbol itself.
type Scope struct {
	parent   *Scope
	children []*Scope
	elems    map[string]*Symbol // keyed by lowercased name
	pos      syntax.Pos
	name     string // scope name ("Module", procedure name, "block")
}

// NewScope creates a new scope with the given parent.
func NewScope(parent *Scope, pos syntax.Pos, name string) *Scope {
	s := &Scope{
		parent: parent,
		elems:  make(map[string]*Symbol),
		pos:    pos,
		name:   name,
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// Parent returns the parent scope, or nil for the root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Children returns the list of child scopes.
func (s *Scope) Children() []*Scope {
	return s.children
}

// Pos returns the start position of the scope in source.
func (s *Scope) Pos() syntax.Pos {
	return s.pos
}

// Name returns the scope's name.
func (s *Scope) Name() string {
	return s.name
}

// Lookup returns the symbol with the given name in this scope only.
// Lookup is case-insensitive. Returns nil if not found.
func (s *Scope) Lookup(name string) *Symbol {
	return s.elems[strings.ToLower(name)]
}

// Resolve returns the symbol with the given name by searching from this
// scope up through all parent scopes. Returns the symbol and the scope in
// which it was found, or (nil, nil).
func (s *Scope) Resolve(name string) (*Symbol, *Scope) {
	key := strings.ToLower(name)
	for scope := s; scope != nil; scope = scope.parent {
		if sym := scope.elems[key]; sym != nil {
			return sym, scope
		}
	}
	return nil, nil
}

// Declare inserts a symbol into the scope. If a symbol with the same name
// (case-insensitive) already exists, the existing symbol is returned and
// the scope is unchanged: the first declaration wins. Otherwise Declare
// returns nil.
func (s *Scope) Declare(sym *Symbol) *Symbol {
	key := strings.ToLower(sym.Name())
	if existing := s.elems[key]; existing != nil {
		return existing
	}
	s.elems[key] = sym
	sym.parent = s
	return nil
}

// Names returns the declared names in the scope, sorted for deterministic
// output, in their original casing.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.elems))
	for _, sym := range s.elems {
		names = append(names, sym.Name())
	}
	sort.Strings(names)
	return names
}

// Symbols returns the scope's symbols sorted by name.
func (s *Scope) Symbols() []*Symbol {
	syms := make([]*Symbol, 0, len(s.elems))
	for _, sym := range s.elems {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return strings.ToLower(syms[i].Name()) < strings.ToLower(syms[j].Name())
	})
	return syms
}

// NumSymbols returns the number of symbols declared in the scope.
func (s *Scope) NumSymbols() int {
	return len(s.elems)
}

// String returns a string representation of the scope tree for debugging.
func (s *Scope) String() string {
	var buf strings.Builder
	s.writeTo(&buf, 0)
	return buf.String()
}

func (s *Scope) writeTo(buf *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Fprintf(buf, "%sscope %s {\n", prefix, s.name)
	for _, sym := range s.Symbols() {
		typeName := "<nil>"
		if sym.Type() != nil {
			typeName = sym.Type().String()
		}
		fmt.Fprintf(buf, "%s  %s: %s %s\n", prefix, sym.Name(), sym.Kind(), typeName)
	}
	for _, child := range s.children {
		child.writeTo(buf, indent+1)
	}
	fmt.Fprintf(buf, "%s}\n", prefix)
}

// ----------------------------------------------------------------------------
// Flat symbol index

// Table is a flat index over every declared symbol, keyed by qualified
// name: "scope.name" for procedure-local symbols, the bare name for
// module-level ones. Keys are lowercased.
type Table struct {
	index map[string]*Symbol
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{index: make(map[string]*Symbol)}
}

// Add indexes a symbol under the given scope name. Module-level symbols
// use an empty scope name and are indexed bare. The first entry for a
// qualified name wins, mirroring scope-level duplicate handling.
func (t *Table) Add(scopeName string, sym *Symbol) {
	key := strings.ToLower(sym.Name())
	if scopeName != "" {
		key = strings.ToLower(scopeName) + "." + key
	}
	if _, ok := t.index[key]; !ok {
		t.index[key] = sym
	}
}

// Get returns the symbol with the given qualified name
// (case-insensitive), or nil.
func (t *Table) Get(qualified string) *Symbol {
	return t.index[strings.ToLower(qualified)]
}

// Len returns the number of indexed symbols.
func (t *Table) Len() int {
	return len(t.index)
}

// Keys returns all index keys, sorted.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.index))
	for k := range t.index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
