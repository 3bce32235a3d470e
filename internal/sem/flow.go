package sem

import (
	"strings"

	"github.com/vbfront/vbfront/internal/cfg"
	"github.com/vbfront/vbfront/internal/syntax"
	"github.com/vbfront/vbfront/internal/types"
)

// ----------------------------------------------------------------------------
// Phase 4: control flow construction

// buildFlow builds one control flow graph per procedure. Reachability is
// marked during construction; diagnostics over the graphs are phase 5's
// job.
func (a *Analyzer) buildFlow() {
	for _, pi := range a.procs {
		a.result.CFGs = append(a.result.CFGs, cfg.Build(pi.decl))
	}
}

// ----------------------------------------------------------------------------
// Phase 5: dead code detection

func (a *Analyzer) checkDeadCode() {
	for i, pi := range a.procs {
		g := a.result.CFGs[i]

		for _, n := range g.Unreachable() {
			a.warnf(n.Stmt.Pos(), UnreachableCode, "unreachable code")
		}

		if pi.decl.Kind == syntax.FunctionProc || pi.decl.Kind == syntax.PropertyGetProc {
			if !g.AllPathsReturn() {
				a.warnf(pi.decl.Pos(), MissingReturn,
					"not all paths through %s assign a return value", pi.sym.Name())
			}
		}

		a.checkUnused(pi)
		a.checkInfiniteLoops(pi)
	}
}

// checkUnused flags procedure-local variables that are never read or
// assigned. Names with a leading underscore opt out by convention.
// Module-level variables are exempt: other modules may use them.
func (a *Analyzer) checkUnused(pi *procInfo) {
	for _, sym := range pi.scope.Symbols() {
		if sym.Kind() != types.VarSym {
			continue
		}
		if strings.HasPrefix(sym.Name(), "_") {
			continue
		}
		if sym.Refs == 0 {
			a.warnf(sym.Pos(), UnusedVariable,
				"variable %s is declared but never used", sym.Name())
		}
	}
}

// checkInfiniteLoops flags Do/While loops whose guard is literally
// constant-true (or absent) and whose body contains no Exit statement.
func (a *Analyzer) checkInfiniteLoops(pi *procInfo) {
	for _, s := range pi.decl.Body {
		syntax.Inspect(s, func(n syntax.Node) bool {
			if d, ok := n.(*syntax.DoStmt); ok {
				if constTrueGuard(d) && !containsExit(d.Body) {
					a.warnf(d.Pos(), InfiniteLoop,
						"loop condition is always true and the body has no Exit")
				}
			}
			return true
		})
	}
}

// constTrueGuard reports whether the loop can never terminate through its
// guard: no condition at all, While True, or Until False.
func constTrueGuard(d *syntax.DoStmt) bool {
	if d.Cond == nil {
		return true
	}
	lit, ok := d.Cond.(*syntax.BasicLit)
	if !ok || lit.Kind != syntax.BoolLit {
		return false
	}
	isTrue := strings.EqualFold(lit.Value, "True")
	if d.Until {
		return !isTrue
	}
	return isTrue
}

func containsExit(body []syntax.Stmt) bool {
	found := false
	for _, s := range body {
		syntax.Inspect(s, func(n syntax.Node) bool {
			if _, ok := n.(*syntax.ExitStmt); ok {
				found = true
			}
			return !found
		})
		if found {
			return true
		}
	}
	return false
}
