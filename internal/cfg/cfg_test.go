package cfg

import (
	"testing"

	"github.com/vbfront/vbfront/internal/syntax"
)

// buildFirst parses a module and builds the graph of its first procedure.
func buildFirst(t *testing.T, src string) *Graph {
	t.Helper()
	toks, err := syntax.Tokenize("test.bas", src)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	m, errs := syntax.ParseModule("test.bas", toks)
	if len(errs) > 0 {
		t.Fatalf("unexpected syntax errors: %v", errs)
	}
	procs := m.Procs()
	if len(procs) == 0 {
		t.Fatal("no procedures")
	}
	return Build(procs[0])
}

func stmtNodes(g *Graph) []*Node {
	var nodes []*Node
	for _, n := range g.Nodes {
		if n.Kind == NodeStmt {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func TestBuildStraightLine(t *testing.T) {
	g := buildFirst(t, `Sub T()
a = 1
b = 2
c = 3
End Sub`)

	nodes := stmtNodes(g)
	if len(nodes) != 3 {
		t.Fatalf("got %d statement nodes, want 3", len(nodes))
	}
	for _, n := range nodes {
		if !n.Reachable {
			t.Errorf("%s should be reachable", n)
		}
	}
	if len(g.Unreachable()) != 0 {
		t.Errorf("unreachable = %v, want none", g.Unreachable())
	}

	// entry -> a -> b -> c -> exit
	if len(g.Entry.Succs) != 1 || g.Entry.Succs[0] != nodes[0] {
		t.Error("entry should flow to the first statement")
	}
	if len(nodes[2].Succs) != 1 || nodes[2].Succs[0] != g.Exit {
		t.Error("last statement should flow to exit")
	}
	if len(nodes[1].Preds) != 1 || nodes[1].Preds[0] != nodes[0] {
		t.Error("middle statement should have one predecessor")
	}
}

func TestBuildEmptyBody(t *testing.T) {
	g := buildFirst(t, "Sub T()\nEnd Sub")
	if len(stmtNodes(g)) != 0 {
		t.Fatal("empty body should produce no statement nodes")
	}
	if len(g.Entry.Succs) != 1 || g.Entry.Succs[0] != g.Exit {
		t.Error("entry should flow directly to exit")
	}
}

func TestUnreachableAfterExit(t *testing.T) {
	g := buildFirst(t, `Sub T()
a = 1
Exit Sub
b = 2
End Sub`)

	dead := g.Unreachable()
	if len(dead) != 1 {
		t.Fatalf("unreachable = %d nodes, want 1", len(dead))
	}
	if got := dead[0].Stmt.Pos().Line(); got != 4 {
		t.Errorf("dead statement line = %d, want 4", got)
	}
}

func TestGotoSkipsCode(t *testing.T) {
	g := buildFirst(t, `Sub T()
GoTo Done
x = 1
Done:
y = 2
End Sub`)

	dead := g.Unreachable()
	if len(dead) != 1 {
		t.Fatalf("unreachable = %d nodes, want 1", len(dead))
	}
	if _, ok := dead[0].Stmt.(*syntax.AssignStmt); !ok {
		t.Errorf("dead node is %T, want assignment", dead[0].Stmt)
	}
	if got := dead[0].Stmt.Pos().Line(); got != 3 {
		t.Errorf("dead statement line = %d, want 3", got)
	}
}

func TestGotoUnknownLabel(t *testing.T) {
	// An unresolved jump must not panic; it degrades to a path end.
	g := buildFirst(t, `Sub T()
GoTo Nowhere
End Sub`)
	if !g.Exit.Reachable {
		t.Error("exit should stay reachable")
	}
}

func TestIfBranches(t *testing.T) {
	g := buildFirst(t, `Sub T()
If a Then
x = 1
Else
x = 2
End If
y = 3
End Sub`)

	if len(g.Unreachable()) != 0 {
		t.Errorf("unreachable = %v, want none", g.Unreachable())
	}

	// The If node fans out to both branches.
	var ifNode *Node
	for _, n := range stmtNodes(g) {
		if _, ok := n.Stmt.(*syntax.IfStmt); ok {
			ifNode = n
		}
	}
	if ifNode == nil {
		t.Fatal("no If node")
	}
	if len(ifNode.Succs) != 2 {
		t.Errorf("If node has %d successors, want 2", len(ifNode.Succs))
	}
}

func TestLoopBackEdge(t *testing.T) {
	g := buildFirst(t, `Sub T()
For i = 1 To 10
x = x + 1
Next
done = True
End Sub`)

	var forNode *Node
	for _, n := range stmtNodes(g) {
		if _, ok := n.Stmt.(*syntax.ForStmt); ok {
			forNode = n
		}
	}
	if forNode == nil {
		t.Fatal("no For node")
	}

	// The body's last statement loops back to the header.
	backEdge := false
	for _, p := range forNode.Preds {
		if p.Kind == NodeStmt {
			if _, ok := p.Stmt.(*syntax.AssignStmt); ok {
				backEdge = true
			}
		}
	}
	if !backEdge {
		t.Error("loop body should flow back to the header")
	}
	if len(g.Unreachable()) != 0 {
		t.Error("everything in a guarded loop should be reachable")
	}
}

func TestExitDoLeavesLoop(t *testing.T) {
	g := buildFirst(t, `Sub T()
Do
If a Then
Exit Do
End If
Loop
after = 1
End Sub`)

	if len(g.Unreachable()) != 0 {
		t.Errorf("unreachable = %v, want none", g.Unreachable())
	}
}

func TestUnguardedLoopWithoutExit(t *testing.T) {
	g := buildFirst(t, `Sub T()
Do
x = 1
Loop
after = 2
End Sub`)

	dead := g.Unreachable()
	if len(dead) != 1 {
		t.Fatalf("unreachable = %d nodes, want 1", len(dead))
	}
	if got := dead[0].Stmt.Pos().Line(); got != 5 {
		t.Errorf("dead statement line = %d, want 5", got)
	}
}

func TestAllPathsReturn(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{
			"direct_assign",
			"Function F() As Long\nF = 1\nEnd Function",
			true,
		},
		{
			"empty",
			"Function F() As Long\nEnd Function",
			false,
		},
		{
			"one_branch_only",
			"Function F() As Long\nIf a Then\nF = 1\nEnd If\nEnd Function",
			false,
		},
		{
			"both_branches",
			"Function F() As Long\nIf a Then\nF = 1\nElse\nF = 2\nEnd If\nEnd Function",
			true,
		},
		{
			"elseif_without_else",
			"Function F() As Long\nIf a Then\nF = 1\nElseIf b Then\nF = 2\nEnd If\nEnd Function",
			false,
		},
		{
			"select_with_else",
			"Function F() As Long\nSelect Case a\nCase 1\nF = 1\nCase Else\nF = 0\nEnd Select\nEnd Function",
			true,
		},
		{
			"select_without_else",
			"Function F() As Long\nSelect Case a\nCase 1\nF = 1\nEnd Select\nEnd Function",
			false,
		},
		{
			"exit_function_counts",
			"Function F() As Long\nIf a Then\nExit Function\nEnd If\nF = 1\nEnd Function",
			true,
		},
		{
			"assign_then_loop",
			"Function F() As Long\nF = 0\nFor i = 1 To 3\nF = F + i\nNext\nEnd Function",
			true,
		},
		{
			"loop_may_not_run",
			"Function F() As Long\nFor i = 1 To 3\nF = F + i\nNext\nEnd Function",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildFirst(t, tt.src)
			if got := g.AllPathsReturn(); got != tt.want {
				t.Errorf("AllPathsReturn = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddSuccNoDuplicates(t *testing.T) {
	g := NewGraph(nil)
	a := g.NewStmtNode(nil)
	b := g.NewStmtNode(nil)
	a.AddSucc(b)
	a.AddSucc(b)
	if len(a.Succs) != 1 || len(b.Preds) != 1 {
		t.Errorf("duplicate edge: succs=%d preds=%d, want 1/1", len(a.Succs), len(b.Preds))
	}
}
