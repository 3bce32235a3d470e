package cfg

import (
	"strings"

	"github.com/vbfront/vbfront/internal/syntax"
)

// Build constructs the control flow graph of a procedure. Every statement
// becomes one node; branch statements fan out to their bodies and join
// behind them; GoTo resolves against the procedure's labels. Reachability
// is computed before the graph is returned.
func Build(proc *syntax.Procedure) *Graph {
	g := NewGraph(proc)
	b := &builder{g: g, labels: make(map[string]*Node)}

	if proc.Kind == syntax.FunctionProc || proc.Kind == syntax.PropertyGetProc {
		if proc.Name != nil {
			b.resultName = proc.Name.Value
		}
	}

	frontier := b.stmts(proc.Body, []*Node{g.Entry})
	for _, n := range frontier {
		n.AddSucc(g.Exit)
	}

	// Labels may appear after the jumps that target them, so edges for
	// GoTo/GoSub/On Error/Resume resolve in a second pass. A jump to an
	// unknown label falls through to the exit.
	for _, j := range b.jumps {
		if target := b.labels[strings.ToLower(j.label)]; target != nil {
			j.from.AddSucc(target)
		} else {
			j.from.AddSucc(g.Exit)
		}
	}

	g.MarkReachable()
	return g
}

type jump struct {
	from  *Node
	label string
}

type builder struct {
	g      *Graph
	labels map[string]*Node
	jumps  []jump

	// loopExits collects Exit For / Exit Do nodes per enclosing loop.
	loopExits [][]*Node

	// resultName is the procedure name for Function and Property Get,
	// whose assignment marks a returning node. Empty otherwise.
	resultName string
}

// stmts threads the frontier through a statement list. The frontier is
// the set of nodes whose control falls through to the next statement.
func (b *builder) stmts(list []syntax.Stmt, frontier []*Node) []*Node {
	for _, s := range list {
		frontier = b.stmt(s, frontier)
	}
	return frontier
}

func (b *builder) stmt(s syntax.Stmt, frontier []*Node) []*Node {
	n := b.g.NewStmtNode(s)
	for _, p := range frontier {
		p.AddSucc(n)
	}

	switch s := s.(type) {
	case *syntax.LabelStmt:
		b.labels[strings.ToLower(s.Name)] = n
		return []*Node{n}

	case *syntax.GotoStmt:
		b.jumps = append(b.jumps, jump{n, s.Label})
		if s.GoSub {
			// Control comes back after the subroutine returns.
			return []*Node{n}
		}
		return nil

	case *syntax.ReturnStmt:
		// Return transfers back to the pending GoSub site; the graph
		// approximates it as a path end.
		n.AddSucc(b.g.Exit)
		return nil

	case *syntax.ExitStmt:
		switch s.What {
		case syntax.ExitFor, syntax.ExitDo:
			if len(b.loopExits) > 0 {
				top := len(b.loopExits) - 1
				b.loopExits[top] = append(b.loopExits[top], n)
				return nil
			}
			// Exit outside a loop: malformed input, end the path.
			n.AddSucc(b.g.Exit)
			return nil
		default:
			if b.resultName != "" {
				n.Returns = true
			}
			n.AddSucc(b.g.Exit)
			return nil
		}

	case *syntax.AssignStmt:
		if b.resultName != "" && isResultTarget(s.LHS, b.resultName) {
			n.Returns = true
		}
		return []*Node{n}

	case *syntax.OnErrorStmt:
		if s.Label != "" {
			b.jumps = append(b.jumps, jump{n, s.Label})
		}
		return []*Node{n}

	case *syntax.ResumeStmt:
		if s.Label != "" {
			b.jumps = append(b.jumps, jump{n, s.Label})
			return nil
		}
		return []*Node{n}

	case *syntax.IfStmt:
		var outs []*Node
		outs = append(outs, b.stmts(s.Then, []*Node{n})...)
		for _, c := range s.ElseIfs {
			outs = append(outs, b.stmts(c.Body, []*Node{n})...)
		}
		if s.Else != nil {
			outs = append(outs, b.stmts(s.Else, []*Node{n})...)
		} else {
			outs = append(outs, n)
		}
		return outs

	case *syntax.ForStmt:
		return b.loop(n, s.Body, true)

	case *syntax.ForEachStmt:
		return b.loop(n, s.Body, true)

	case *syntax.DoStmt:
		return b.loop(n, s.Body, s.Cond != nil)

	case *syntax.SelectStmt:
		var outs []*Node
		for _, c := range s.Cases {
			outs = append(outs, b.stmts(c.Body, []*Node{n})...)
		}
		if s.Else != nil {
			outs = append(outs, b.stmts(s.Else, []*Node{n})...)
		} else {
			// Without a Case Else the subject may match nothing.
			outs = append(outs, n)
		}
		return outs

	case *syntax.WithStmt:
		return b.stmts(s.Body, []*Node{n})

	default:
		// DeclStmt, CallStmt, RedimStmt: straight-line flow.
		return []*Node{n}
	}
}

// loop wires a loop with header node n. The loop body flows back to the
// header; the frontier after the loop is the header (when the guard can
// fail) plus any Exit statements collected inside the body.
func (b *builder) loop(n *Node, body []syntax.Stmt, canFallOut bool) []*Node {
	b.loopExits = append(b.loopExits, nil)

	outs := b.stmts(body, []*Node{n})
	for _, o := range outs {
		o.AddSucc(n)
	}

	exits := b.loopExits[len(b.loopExits)-1]
	b.loopExits = b.loopExits[:len(b.loopExits)-1]

	if canFallOut {
		return append([]*Node{n}, exits...)
	}
	return exits
}

// isResultTarget reports whether lhs assigns the procedure's own name,
// directly or through an array/call suffix.
func isResultTarget(lhs syntax.Expr, name string) bool {
	switch x := lhs.(type) {
	case *syntax.Name:
		return strings.EqualFold(x.Value, name)
	case *syntax.IndexExpr:
		return isResultTarget(x.X, name)
	}
	return false
}
