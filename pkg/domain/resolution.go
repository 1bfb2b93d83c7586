package domain

// Resolution condition names. Lookup order is fixed and first-match-wins:
// "types" is always consulted before the module-kind condition, and
// "default" is the final fallback inside a condition map.
const (
	ConditionTypes   = "types"
	ConditionRequire = "require"
	ConditionImport  = "import"
	ConditionDefault = "default"
)

// Strategy names reported in resolution results and trace output.
const (
	StrategyExports  = "exports"
	StrategyTypeRoot = "typeroot"
)

// ResolutionRequest describes one module specifier lookup: the specifier
// itself, the file the lookup originates from, and the active condition
// set in priority order.
type ResolutionRequest struct {
	Specifier      string   `json:"specifier"`
	ContainingFile string   `json:"containingFile"`
	Conditions     []string `json:"conditions"`
}

// ResolutionResult is a successful lookup. Strategy names which strategy
// produced the path; Condition is the condition that matched when the
// exports strategy won, empty otherwise.
type ResolutionResult struct {
	Path      string `json:"path"`
	Strategy  string `json:"strategy"`
	Condition string `json:"condition,omitempty"`
}
