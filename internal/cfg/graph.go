// Package cfg builds per-procedure control flow graphs and answers
// reachability questions over them.
package cfg

import (
	"fmt"
	"strings"

	"github.com/vbfront/vbfront/internal/syntax"
)

// NodeKind discriminates graph nodes.
type NodeKind int

const (
	NodeEntry NodeKind = iota // procedure entry, no statement
	NodeExit                  // procedure exit, no statement
	NodeStmt                  // one executable statement
)

var nodeKindNames = [...]string{
	NodeEntry: "entry",
	NodeExit:  "exit",
	NodeStmt:  "stmt",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

// Node is one node of a control flow graph. Statement nodes carry the
// statement they execute; entry and exit nodes carry none.
type Node struct {
	// ID is a unique identifier within the containing Graph.
	ID int

	// Kind describes the node.
	Kind NodeKind

	// Stmt is the statement executed at this node, nil for entry/exit.
	Stmt syntax.Stmt

	// Succs lists the successor nodes in execution order.
	Succs []*Node

	// Preds lists the predecessor nodes.
	Preds []*Node

	// Reachable is set by MarkReachable.
	Reachable bool

	// Returns marks a node that produces the procedure's result:
	// an assignment to the function's own name, or an Exit Function.
	Returns bool
}

// String returns a short representation (e.g. "n3").
func (n *Node) String() string {
	return fmt.Sprintf("n%d", n.ID)
}

// AddSucc adds a successor, updating both Succs and the successor's Preds.
// Duplicate edges are collapsed.
func (n *Node) AddSucc(succ *Node) {
	for _, s := range n.Succs {
		if s == succ {
			return
		}
	}
	n.Succs = append(n.Succs, succ)
	succ.Preds = append(succ.Preds, n)
}

// Graph is the control flow graph of a single procedure.
type Graph struct {
	// Proc is the procedure the graph was built from.
	Proc *syntax.Procedure

	// Entry and Exit are the synthetic boundary nodes.
	Entry *Node
	Exit  *Node

	// Nodes lists every node including Entry and Exit, in creation order.
	Nodes []*Node
}

// NewGraph creates an empty graph with entry and exit nodes.
func NewGraph(proc *syntax.Procedure) *Graph {
	g := &Graph{Proc: proc}
	g.Entry = g.newNode(NodeEntry, nil)
	g.Exit = g.newNode(NodeExit, nil)
	return g
}

func (g *Graph) newNode(kind NodeKind, stmt syntax.Stmt) *Node {
	n := &Node{ID: len(g.Nodes), Kind: kind, Stmt: stmt}
	g.Nodes = append(g.Nodes, n)
	return n
}

// NewStmtNode creates a statement node.
func (g *Graph) NewStmtNode(stmt syntax.Stmt) *Node {
	return g.newNode(NodeStmt, stmt)
}

// MarkReachable walks the graph breadth-first from the entry node and
// sets the Reachable flag on every node it visits.
func (g *Graph) MarkReachable() {
	for _, n := range g.Nodes {
		n.Reachable = false
	}

	work := []*Node{g.Entry}
	g.Entry.Reachable = true
	for len(work) > 0 {
		n := work[0]
		work = work[1:]
		for _, s := range n.Succs {
			if !s.Reachable {
				s.Reachable = true
				work = append(work, s)
			}
		}
	}
}

// Unreachable returns the statement nodes not reachable from entry,
// in creation order. MarkReachable must have run.
func (g *Graph) Unreachable() []*Node {
	var dead []*Node
	for _, n := range g.Nodes {
		if n.Kind == NodeStmt && !n.Reachable {
			dead = append(dead, n)
		}
	}
	return dead
}

// AllPathsReturn reports whether every execution path from entry to exit
// passes through a returning node. Cycles do not falsify the property:
// a loop that never terminates never reaches the exit.
func (g *Graph) AllPathsReturn() bool {
	onPath := make(map[*Node]bool)

	var visit func(n *Node) bool
	visit = func(n *Node) bool {
		if n.Returns {
			return true
		}
		if n == g.Exit {
			return false
		}
		if onPath[n] {
			return true
		}
		onPath[n] = true
		defer delete(onPath, n)

		if len(n.Succs) == 0 {
			// Dangling node: the path cannot reach the exit.
			return true
		}
		for _, s := range n.Succs {
			if !visit(s) {
				return false
			}
		}
		return true
	}
	return visit(g.Entry)
}

// String renders the graph edges for debugging.
func (g *Graph) String() string {
	var b strings.Builder
	name := "?"
	if g.Proc != nil && g.Proc.Name != nil {
		name = g.Proc.Name.Value
	}
	fmt.Fprintf(&b, "cfg %s {\n", name)
	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "  %s [%s]", n, n.Kind)
		if len(n.Succs) > 0 {
			b.WriteString(" ->")
			for _, s := range n.Succs {
				fmt.Fprintf(&b, " %s", s)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}
