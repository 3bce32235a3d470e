package types

import (
	"testing"

	"github.com/vbfront/vbfront/internal/syntax"
)

func syntaxPos(line, col uint32) syntax.Pos {
	return syntax.NewPos("test.bas", line, col)
}

func TestScopeDeclareAndLookup(t *testing.T) {
	module := NewScope(nil, syntaxPos(1, 1), "Module")

	x := NewVar(syntaxPos(2, 1), "Counter", Typ[Long])
	if existing := module.Declare(x); existing != nil {
		t.Fatalf("first Declare returned %v, want nil", existing)
	}

	if got := module.Lookup("Counter"); got != x {
		t.Error("Lookup failed for exact casing")
	}
	if got := module.Lookup("COUNTER"); got != x {
		t.Error("Lookup should be case-insensitive")
	}
	if module.Lookup("Missing") != nil {
		t.Error("Lookup of unknown name should be nil")
	}
	if x.Parent() != module {
		t.Error("Declare should set the symbol's parent scope")
	}
	if x.Name() != "Counter" {
		t.Error("declared casing must be preserved")
	}
}

func TestScopeDuplicateFirstWins(t *testing.T) {
	s := NewScope(nil, syntaxPos(1, 1), "Module")

	first := NewVar(syntaxPos(1, 1), "x", Typ[Long])
	second := NewVar(syntaxPos(2, 1), "X", Typ[String])

	if existing := s.Declare(first); existing != nil {
		t.Fatal("first declaration should succeed")
	}
	existing := s.Declare(second)
	if existing != first {
		t.Fatalf("duplicate Declare returned %v, want the first symbol", existing)
	}
	if s.Lookup("x") != first {
		t.Error("scope should retain the first declaration")
	}
	if s.NumSymbols() != 1 {
		t.Errorf("scope has %d symbols, want 1", s.NumSymbols())
	}
}

func TestScopeResolveShadowing(t *testing.T) {
	module := NewScope(nil, syntaxPos(1, 1), "Module")
	proc := NewScope(module, syntaxPos(5, 1), "Work")

	outer := NewVar(syntaxPos(2, 1), "v", Typ[Long])
	inner := NewVar(syntaxPos(6, 1), "v", Typ[String])
	module.Declare(outer)
	proc.Declare(inner)

	sym, scope := proc.Resolve("v")
	if sym != inner || scope != proc {
		t.Error("inner declaration should shadow the outer one")
	}

	sym, scope = module.Resolve("v")
	if sym != outer || scope != module {
		t.Error("module scope should still see the outer declaration")
	}

	other := NewVar(syntaxPos(3, 1), "total", Typ[Double])
	module.Declare(other)
	sym, scope = proc.Resolve("Total")
	if sym != other || scope != module {
		t.Error("Resolve should walk to the parent scope")
	}

	if sym, _ := proc.Resolve("nothinghere"); sym != nil {
		t.Error("Resolve of unknown name should be nil")
	}
}

func TestScopeChildren(t *testing.T) {
	module := NewScope(nil, syntaxPos(1, 1), "Module")
	a := NewScope(module, syntaxPos(2, 1), "A")
	b := NewScope(module, syntaxPos(9, 1), "B")

	kids := module.Children()
	if len(kids) != 2 || kids[0] != a || kids[1] != b {
		t.Errorf("children = %v, want [A B] in declaration order", kids)
	}
	if a.Parent() != module {
		t.Error("child scope parent mismatch")
	}
}

func TestScopeNamesSorted(t *testing.T) {
	s := NewScope(nil, syntaxPos(1, 1), "Module")
	s.Declare(NewVar(syntaxPos(1, 1), "zeta", Typ[Long]))
	s.Declare(NewVar(syntaxPos(2, 1), "Alpha", Typ[Long]))
	s.Declare(NewVar(syntaxPos(3, 1), "mid", Typ[Long]))

	names := s.Names()
	want := []string{"Alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestTableQualifiedLookup(t *testing.T) {
	tbl := NewTable()

	global := NewVar(syntaxPos(1, 1), "total", Typ[Long])
	local := NewVar(syntaxPos(5, 1), "i", Typ[Integer])
	tbl.Add("", global)
	tbl.Add("Accumulate", local)

	if tbl.Get("total") != global {
		t.Error("module-level symbol should be indexed bare")
	}
	if tbl.Get("Accumulate.i") != local {
		t.Error("local symbol should be indexed as scope.name")
	}
	if tbl.Get("ACCUMULATE.I") != local {
		t.Error("index lookup should be case-insensitive")
	}
	if tbl.Get("i") != nil {
		t.Error("local symbol should not be visible bare")
	}
	if tbl.Len() != 2 {
		t.Errorf("len = %d, want 2", tbl.Len())
	}

	// First entry wins on key collision.
	dup := NewVar(syntaxPos(9, 1), "Total", Typ[String])
	tbl.Add("", dup)
	if tbl.Get("total") != global {
		t.Error("first indexed symbol should win")
	}
}
