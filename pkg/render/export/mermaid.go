package export

import (
	"fmt"
	"strings"

	"github.com/matzehuels/flowtower/pkg/render/scene"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// ToMermaid renders a workflow as a Mermaid flowchart.
func ToMermaid(d *workflow.Data, opts workflow.Options) string {
	var b strings.Builder

	dir := "LR"
	if opts.Direction == workflow.Vertical {
		dir = "TD"
	}
	fmt.Fprintf(&b, "graph %s\n", dir)

	idx := d.Index()
	for i := range d.Nodes {
		if idx[d.Nodes[i].ID] == i {
			fmt.Fprintf(&b, "    %s\n", mermaidNode(&d.Nodes[i]))
		}
	}
	for _, e := range d.ValidEdges() {
		arrow := "-->"
		if e.Animated {
			arrow = "-.->"
		}
		label := ""
		if text := e.Text(); text != "" {
			label = fmt.Sprintf("|%s|", mermaidEscape(text))
		}
		fmt.Fprintf(&b, "    %s %s%s %s\n", mermaidID(e.From), arrow, label, mermaidID(e.To))
	}

	b.WriteString("\n")
	for _, s := range workflow.Statuses {
		st := scene.StyleFor(s)
		extra := ""
		if s == workflow.StatusSkipped {
			extra = ",stroke-dasharray:5 5"
		}
		fmt.Fprintf(&b, "    classDef %s fill:%s,stroke:%s,color:%s%s\n", s, st.Fill, st.Border, st.Text, extra)
	}
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if idx[n.ID] == i {
			fmt.Fprintf(&b, "    class %s %s\n", mermaidID(n.ID), n.EffectiveStatus())
		}
	}
	return b.String()
}

func mermaidNode(n *workflow.Node) string {
	id := mermaidID(n.ID)
	label := n.Label
	if label == "" {
		label = n.ID
	}
	label = `"` + mermaidEscape(label) + `"`
	switch n.Type {
	case workflow.NodeStart, workflow.NodeEnd:
		return fmt.Sprintf("%s((%s))", id, label)
	case workflow.NodeDecision:
		return fmt.Sprintf("%s{%s}", id, label)
	case workflow.NodeSubprocess:
		return fmt.Sprintf("%s[[%s]]", id, label)
	case workflow.NodeParallel:
		return fmt.Sprintf("%s[/%s/]", id, label)
	default:
		return fmt.Sprintf("%s[%s]", id, label)
	}
}

// mermaidID replaces characters Mermaid does not accept in node IDs.
func mermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}

func mermaidEscape(s string) string {
	return strings.NewReplacer(`"`, "#quot;", "|", "#124;").Replace(s)
}
