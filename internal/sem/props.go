package sem

import "github.com/vbfront/vbfront/internal/syntax"

// ----------------------------------------------------------------------------
// Phase 6: property consistency

// checkProperties groups Property Get/Let/Set accessors by name and flags
// a property declaring both a Let and a Set accessor: the two express
// mutually exclusive assignment intents (value vs. object reference).
func (a *Analyzer) checkProperties() {
	for _, g := range a.props {
		if g.kinds[syntax.PropertyLetProc] && g.kinds[syntax.PropertySetProc] {
			a.warnf(g.last, PropertyAmbiguous,
				"property %s defines both Let and Set accessors", g.name)
		}
	}
}
