package tuning

// Decision is the gate verdict for one new suggestion.
type Decision string

// Decision values. Uncertain resolves to "keep" at the boundary — the
// engine only actively removes a suggestion on high-confidence negative
// precedent.
const (
	DecisionKeep      Decision = "keep"
	DecisionDiscard   Decision = "discard"
	DecisionUncertain Decision = "uncertain"
)

// Kept reports whether the decision lets the suggestion through.
func (d Decision) Kept() bool { return d != DecisionDiscard }

// Scope is the granularity at which historical data is pooled.
type Scope string

// Scope values.
const (
	ScopeNone       Scope = "none"
	ScopeRepository Scope = "repository"
	ScopeGlobal     Scope = "global"
)

// Enabled reports whether fine-tuning applies at this scope.
func (s Scope) Enabled() bool { return s != ScopeNone }
