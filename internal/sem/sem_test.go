package sem

import (
	"testing"

	"github.com/vbfront/vbfront/internal/syntax"
	"github.com/vbfront/vbfront/internal/types"
)

// analyzeSrc parses and analyzes a module, failing the test on lexer
// faults. Parse errors are tolerated: analysis runs on partial ASTs.
func analyzeSrc(t *testing.T, src string) *Result {
	t.Helper()
	toks, err := syntax.Tokenize("test.bas", src)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	m, _ := syntax.ParseModule("test.bas", toks)
	return NewAnalyzer(types.NewSystem()).Analyze(m)
}

func countCode(diags []*Diagnostic, code string) int {
	n := 0
	for _, d := range diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

func findCode(diags []*Diagnostic, code string) *Diagnostic {
	for _, d := range diags {
		if d.Code == code {
			return d
		}
	}
	return nil
}

func TestAnalyzeClean(t *testing.T) {
	r := analyzeSrc(t, `Dim total As Long

Sub AddOne()
total = total + 1
End Sub`)

	if len(r.Errors) != 0 {
		t.Errorf("errors = %v, want none", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", r.Warnings)
	}
	if r.Metrics.Procedures != 1 {
		t.Errorf("procedures = %d, want 1", r.Metrics.Procedures)
	}
	if r.Metrics.Symbols != 2 {
		t.Errorf("symbols = %d, want 2", r.Metrics.Symbols)
	}
}

func TestDuplicateSymbol(t *testing.T) {
	r := analyzeSrc(t, `Sub T()
Dim y As Long
Dim y As String
y = 1
End Sub`)

	if got := countCode(r.Errors, DuplicateSymbol); got != 1 {
		t.Fatalf("DUPLICATE_SYMBOL count = %d, want 1 (%v)", got, r.Errors)
	}

	// The first declaration wins.
	sym := r.Index.Get("T.y")
	if sym == nil {
		t.Fatal("y missing from the symbol index")
	}
	if sym.Type() != types.Typ[types.Long] {
		t.Errorf("retained type = %v, want Long", sym.Type())
	}
}

func TestUnknownTypeDefaultsToVariant(t *testing.T) {
	r := analyzeSrc(t, `Sub T()
Dim w As Widget
w = 1
End Sub`)

	if got := countCode(r.Warnings, UnknownType); got != 1 {
		t.Fatalf("UNKNOWN_TYPE count = %d, want 1 (%v)", got, r.Warnings)
	}
	if len(r.Errors) != 0 {
		t.Errorf("errors = %v, want none", r.Errors)
	}
	sym := r.Index.Get("T.w")
	if sym == nil || sym.Type() != types.Typ[types.Variant] {
		t.Error("unknown type should default to Variant")
	}
}

func TestTypeMismatch(t *testing.T) {
	r := analyzeSrc(t, `Sub T()
Dim s As String
Dim n As Long
s = n
End Sub`)

	if got := countCode(r.Errors, TypeMismatch); got != 1 {
		t.Fatalf("TYPE_MISMATCH count = %d, want 1 (%v)", got, r.Errors)
	}
	d := findCode(r.Errors, TypeMismatch)
	if d.Line() != 4 {
		t.Errorf("diagnostic line = %d, want 4", d.Line())
	}
}

func TestTypeWarningOnNarrowing(t *testing.T) {
	r := analyzeSrc(t, `Sub T()
Dim i As Integer
Dim l As Long
i = l
End Sub`)

	if got := countCode(r.Warnings, TypeWarning); got != 1 {
		t.Fatalf("TYPE_WARNING count = %d, want 1 (%v)", got, r.Warnings)
	}
	if len(r.Errors) != 0 {
		t.Errorf("errors = %v, want none", r.Errors)
	}
}

func TestCallResolution(t *testing.T) {
	tests := []struct {
		name     string
		stmt     string
		wantErrs int
	}{
		{"builtin_bare", `MsgBox "hi"`, 0},
		{"builtin_expr", `x = Len("abc")`, 0},
		{"undefined_bare", `Frobnicate 1`, 1},
		{"undefined_expr", `y = Missing(1)`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyzeSrc(t, "Sub T()\n"+tt.stmt+"\nEnd Sub")
			if got := countCode(r.Errors, UndefinedFunction); got != tt.wantErrs {
				t.Errorf("UNDEFINED_FUNCTION count = %d, want %d (%v)",
					got, tt.wantErrs, r.Errors)
			}
		})
	}
}

func TestUnreachableCode(t *testing.T) {
	r := analyzeSrc(t, `Sub T()
Dim a As Long
a = 1
Exit Sub
a = 2
End Sub`)

	if got := countCode(r.Warnings, UnreachableCode); got != 1 {
		t.Fatalf("UNREACHABLE_CODE count = %d, want 1 (%v)", got, r.Warnings)
	}
	d := findCode(r.Warnings, UnreachableCode)
	if d.Line() != 5 || d.Col() != 1 {
		t.Errorf("diagnostic at %d:%d, want 5:1", d.Line(), d.Col())
	}
}

func TestUnusedVariable(t *testing.T) {
	r := analyzeSrc(t, `Sub T()
Dim z As Integer
Dim used As Long
used = 1
End Sub`)

	if got := countCode(r.Warnings, UnusedVariable); got != 1 {
		t.Fatalf("UNUSED_VARIABLE count = %d, want 1 (%v)", got, r.Warnings)
	}
	d := findCode(r.Warnings, UnusedVariable)
	if d.Line() != 2 {
		t.Errorf("diagnostic line = %d, want 2", d.Line())
	}
}

func TestModuleVariablesNotFlaggedUnused(t *testing.T) {
	// Module-level variables may be used from other modules.
	r := analyzeSrc(t, `Dim shared As Long

Sub T()
Dim a As Long
a = 1
End Sub`)

	if got := countCode(r.Warnings, UnusedVariable); got != 0 {
		t.Errorf("UNUSED_VARIABLE count = %d, want 0 (%v)", got, r.Warnings)
	}
}

func TestInfiniteLoop(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"unguarded_no_exit", "Do\nx = 1\nLoop", 1},
		{"while_true_no_exit", "Do While True\nx = 1\nLoop", 1},
		{"until_false_no_exit", "Do Until False\nx = 1\nLoop", 1},
		{"while_true_with_exit", "Do While True\nIf x Then\nExit Do\nEnd If\nLoop", 0},
		{"guarded", "Do While x < 10\nx = x + 1\nLoop", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyzeSrc(t, "Sub T()\n"+tt.body+"\nEnd Sub")
			if got := countCode(r.Warnings, InfiniteLoop); got != tt.want {
				t.Errorf("INFINITE_LOOP count = %d, want %d (%v)",
					got, tt.want, r.Warnings)
			}
		})
	}
}

func TestMissingReturn(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{
			"one_branch",
			"Function F() As Long\nIf a Then\nF = 1\nEnd If\nEnd Function",
			1,
		},
		{
			"all_branches",
			"Function F() As Long\nIf a Then\nF = 1\nElse\nF = 2\nEnd If\nEnd Function",
			0,
		},
		{
			"sub_exempt",
			"Sub S()\nEnd Sub",
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyzeSrc(t, tt.src)
			if got := countCode(r.Warnings, MissingReturn); got != tt.want {
				t.Errorf("MISSING_RETURN count = %d, want %d (%v)",
					got, tt.want, r.Warnings)
			}
		})
	}
}

func TestPropertyAmbiguous(t *testing.T) {
	r := analyzeSrc(t, `Property Let Foo(v)
End Property

Property Set Foo(v)
End Property`)

	if got := countCode(r.Warnings, PropertyAmbiguous); got != 1 {
		t.Fatalf("PROPERTY_AMBIGUOUS count = %d, want 1 (%v)", got, r.Warnings)
	}
	if got := countCode(r.Errors, DuplicateSymbol); got != 0 {
		t.Errorf("property accessors should not be duplicates (%v)", r.Errors)
	}
}

func TestPropertyGetLetPairIsFine(t *testing.T) {
	r := analyzeSrc(t, `Property Get Value() As Long
Value = 1
End Property

Property Let Value(v As Long)
End Property`)

	if len(r.Errors) != 0 {
		t.Errorf("errors = %v, want none", r.Errors)
	}
	if got := countCode(r.Warnings, PropertyAmbiguous); got != 0 {
		t.Errorf("PROPERTY_AMBIGUOUS count = %d, want 0", got)
	}
}

func TestScopeShadowing(t *testing.T) {
	r := analyzeSrc(t, `Dim x As Long

Sub T()
Dim x As String
x = "hi"
End Sub`)

	if len(r.Errors) != 0 {
		t.Fatalf("errors = %v, want none", r.Errors)
	}

	if sym := r.Index.Get("x"); sym == nil || sym.Type() != types.Typ[types.Long] {
		t.Error("module-level x should be Long")
	}
	if sym := r.Index.Get("T.x"); sym == nil || sym.Type() != types.Typ[types.String] {
		t.Error("procedure-local x should be String")
	}

	// From inside the procedure the local wins; from the module scope the
	// global is still visible.
	kids := r.ModuleScope.Children()
	if len(kids) != 1 {
		t.Fatalf("module scope has %d children, want 1", len(kids))
	}
	sym, scope := kids[0].Resolve("x")
	if sym == nil || scope != kids[0] {
		t.Error("local x should shadow the global")
	}
	sym, scope = r.ModuleScope.Resolve("x")
	if sym == nil || scope != r.ModuleScope {
		t.Error("module scope should resolve the global x")
	}
}

func TestRecordsAndEnums(t *testing.T) {
	r := analyzeSrc(t, `Type TPoint
X As Long
Y As Long
End Type

Enum Color
Red
Green = 5
End Enum

Dim p As TPoint

Sub T()
p.X = Red
End Sub`)

	if len(r.Errors) != 0 {
		t.Errorf("errors = %v, want none", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", r.Warnings)
	}

	sym := r.Index.Get("p")
	rec, ok := sym.Type().(*types.Record)
	if !ok {
		t.Fatalf("p has type %v, want a record", sym.Type())
	}
	if f := rec.Field("Y"); f == nil || f.Type() != types.Typ[types.Long] {
		t.Error("field Y should resolve to Long")
	}
	if red := r.Index.Get("Red"); red == nil {
		t.Error("enum member Red should be indexed at module level")
	}
}

func TestUnknownRecordField(t *testing.T) {
	r := analyzeSrc(t, `Type TPoint
X As Long
End Type

Dim p As TPoint

Sub T()
p.Z = 1
End Sub`)

	if got := countCode(r.Errors, TypeMismatch); got != 1 {
		t.Errorf("TYPE_MISMATCH count = %d, want 1 (%v)", got, r.Errors)
	}
}

func TestAnalyzeSurvivesParseErrors(t *testing.T) {
	// A module with syntax errors still yields a complete result.
	r := analyzeSrc(t, `Sub T()
If x Then
End Sub`)

	if r == nil || r.ModuleScope == nil || r.Index == nil {
		t.Fatal("analysis of a broken module must still return a full result")
	}
}

func TestAnalyzerReuse(t *testing.T) {
	a := NewAnalyzer(types.NewSystem())

	dirty := parseFor(t, "Sub T()\nDim y\nDim y\nEnd Sub")
	clean := parseFor(t, "Sub T()\nDim y\ny = 1\nEnd Sub")

	first := a.Analyze(dirty)
	if len(first.Errors) == 0 {
		t.Fatal("first run should report the duplicate")
	}
	second := a.Analyze(clean)
	if len(second.Errors) != 0 {
		t.Errorf("state leaked between runs: %v", second.Errors)
	}
	if first.ModuleScope == second.ModuleScope {
		t.Error("each run must build a fresh scope tree")
	}
}

func parseFor(t *testing.T, src string) *syntax.Module {
	t.Helper()
	toks, err := syntax.Tokenize("test.bas", src)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	m, _ := syntax.ParseModule("test.bas", toks)
	return m
}

func TestResultCFGs(t *testing.T) {
	r := analyzeSrc(t, `Sub A()
End Sub

Function B() As Long
B = 1
End Function`)

	if len(r.CFGs) != 2 {
		t.Fatalf("CFGs = %d, want 2", len(r.CFGs))
	}
	if r.CFGs[0].Proc.Name.Value != "A" || r.CFGs[1].Proc.Name.Value != "B" {
		t.Error("CFGs should follow declaration order")
	}
}

func TestNestedDimIsProcedureScoped(t *testing.T) {
	r := analyzeSrc(t, `Sub T()
If a Then
Dim q As Long
End If
q = 2
End Sub`)

	if len(r.Errors) != 0 {
		t.Errorf("errors = %v, want none", r.Errors)
	}
	if r.Index.Get("T.q") == nil {
		t.Error("q should be declared in T's scope regardless of block nesting")
	}
}
