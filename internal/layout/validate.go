package layout

import "strings"

// Rule identifies which publishability rule a layout broke.
type Rule string

const (
	RuleName Rule = "name"
	RulePlot Rule = "plot"
	RuleRoad Rule = "road"
)

const (
	ReasonMissingName = "missing template/project name"
	ReasonNoPlot      = "layout must contain at least one plot"
	ReasonNoRoad      = "layout must contain at least one road for access"
)

// Result is the outcome of a validation run. Rule and Reason are empty when
// OK is true.
type Result struct {
	OK     bool   `json:"ok"`
	Rule   Rule   `json:"rule,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Err returns nil for a passing result and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return &ValidationError{Rule: r.Rule, Reason: r.Reason}
}

type ValidationError struct {
	Rule   Rule
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

type rule struct {
	id     Rule
	reason string
	ok     func(name string, g *Grid) bool
}

var rules = []rule{
	{RuleName, ReasonMissingName, func(name string, _ *Grid) bool {
		return strings.TrimSpace(name) != ""
	}},
	{RulePlot, ReasonNoPlot, func(_ string, g *Grid) bool {
		return g != nil && g.CountCellsOfType(TypePlot) >= 1
	}},
	{RuleRoad, ReasonNoRoad, func(_ string, g *Grid) bool {
		return g != nil && g.CountCellsOfType(TypeRoad) >= 1
	}},
}

// Validate reports the first rule the named layout breaks, checking name,
// then plots, then roads. It does no I/O and never panics.
func Validate(name string, g *Grid) Result {
	for _, r := range rules {
		if !r.ok(name, g) {
			return Result{Rule: r.id, Reason: r.reason}
		}
	}
	return Result{OK: true}
}

// ValidateAll reports every broken rule, in rule order. An empty slice means
// the layout is publishable.
func ValidateAll(name string, g *Grid) []Result {
	out := make([]Result, 0, len(rules))
	for _, r := range rules {
		if !r.ok(name, g) {
			out = append(out, Result{Rule: r.id, Reason: r.reason})
		}
	}
	return out
}
