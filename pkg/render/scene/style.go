package scene

import "github.com/matzehuels/flowtower/pkg/workflow"

// Style is the color set for one node status.
type Style struct {
	Fill   string
	Border string
	Glow   string // empty for no glow
	Text   string
}

var statusStyles = map[workflow.Status]Style{
	workflow.StatusPending:   {Fill: "#f8fafc", Border: "#94a3b8", Text: "#334155"},
	workflow.StatusActive:    {Fill: "#eff6ff", Border: "#3b82f6", Glow: "#3b82f6", Text: "#1e3a8a"},
	workflow.StatusCompleted: {Fill: "#f0fdf4", Border: "#22c55e", Text: "#14532d"},
	workflow.StatusError:     {Fill: "#fef2f2", Border: "#ef4444", Glow: "#ef4444", Text: "#7f1d1d"},
	workflow.StatusSkipped:   {Fill: "#f1f5f9", Border: "#cbd5e1", Text: "#64748b"},
}

// StyleFor returns the style of a status; unknown statuses render as pending.
func StyleFor(s workflow.Status) Style {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return statusStyles[workflow.StatusPending]
}

func arrowID(s workflow.Status) string { return "arrow-" + string(s) }
func glowID(s workflow.Status) string  { return "glow-" + string(s) }
