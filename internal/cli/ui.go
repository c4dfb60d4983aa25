package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flowtower/pkg/render/scene"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal: levels, coordinates, spinner
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorFail   = lipgloss.Color("167") // soft red
	colorLink   = lipgloss.Color("75")  // light blue
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	// StyleHighlight marks identifiers such as diagram ids.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleLink marks URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorLink).Underline(true)

	// StyleDim marks secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)

	// StyleValue marks plain values.
	StyleValue = lipgloss.NewStyle().Foreground(colorText)

	// StyleWarning marks warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleMarkOK   = lipgloss.NewStyle().Foreground(colorOK)
	styleMarkFail = lipgloss.NewStyle().Foreground(colorFail)
	styleMarkInfo = lipgloss.NewStyle().Foreground(colorMuted)
	styleSpinner  = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey      = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleCommand  = lipgloss.NewStyle().Foreground(colorLink)
)

// =============================================================================
// Node Status
// =============================================================================

// statusMarks are the one-rune status markers used in tables and the viewer.
var statusMarks = map[workflow.Status]string{
	workflow.StatusPending:   "○",
	workflow.StatusActive:    "◐",
	workflow.StatusCompleted: "●",
	workflow.StatusError:     "✗",
	workflow.StatusSkipped:   "–",
}

// iconInfo separates a node's title from its description in the viewer.
const iconInfo = "›"

// statusMark returns the marker for s; unknown statuses mark as pending.
func statusMark(s workflow.Status) string {
	if m, ok := statusMarks[s]; ok {
		return m
	}
	return statusMarks[workflow.StatusPending]
}

// statusStyle colors s with the border color the rendered diagram uses.
func statusStyle(s workflow.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(scene.StyleFor(s).Border))
}

// =============================================================================
// Messages
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleMarkOK.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleMarkFail.Render("✗") + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(StyleWarning.Render("! " + fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleMarkInfo.Render("›") + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under the previous message.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Document Summary
// =============================================================================

// printStats prints the one-line summary of d followed by any tags.
func printStats(d *workflow.Data, tags ...string) {
	fmt.Println(statsLine(d, tags...))
}

// statsLine summarizes node and edge counts and the nodes per status, in
// status declaration order. Statuses no node has are left out.
func statsLine(d *workflow.Data, tags ...string) string {
	counts := make(map[workflow.Status]int, len(workflow.Statuses))
	for i := range d.Nodes {
		counts[d.Nodes[i].EffectiveStatus()]++
	}

	parts := []string{
		StyleDim.Render(plural(len(d.Nodes), "node")),
		StyleDim.Render(plural(len(d.ValidEdges()), "edge")),
	}
	for _, s := range workflow.Statuses {
		if n := counts[s]; n > 0 {
			parts = append(parts, statusStyle(s).Render(fmt.Sprintf("%s %d %s", statusMark(s), n, s)))
		}
	}
	for _, tag := range tags {
		parts = append(parts, StyleDim.Render(tag))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
