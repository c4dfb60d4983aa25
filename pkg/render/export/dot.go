package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowtower/pkg/geometry"
	"github.com/matzehuels/flowtower/pkg/render/scene"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// pointsPerInch converts world units (pixels) to Graphviz inches.
const pointsPerInch = 72.0

// ErrNoData is returned when a snapshot carries no workflow.
var ErrNoData = errors.New("snapshot has no workflow data")

// ToDOT converts a workflow to Graphviz DOT. Placed nodes get pinned
// positions (neato "pos" with "!") so Graphviz reproduces the diagram's
// geometry; world y grows downward, so it is negated.
func ToDOT(d *workflow.Data, opts workflow.Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=curved;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=12, style=\"filled\", fixedsize=true];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("\n")

	size := opts.NodeSize()
	idx := d.Index()
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if idx[n.ID] != i {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, nodeAttrs(n, size))
	}

	buf.WriteString("\n")
	for _, e := range d.ValidEdges() {
		st := scene.StyleFor(d.Node(e.From).EffectiveStatus())
		attrs := fmt.Sprintf("color=%q", st.Border)
		if text := e.Text(); text != "" {
			attrs += fmt.Sprintf(", label=%q", text)
		}
		if e.Animated {
			attrs += ", style=dashed"
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *workflow.Node, size geometry.Size) string {
	st := scene.StyleFor(n.EffectiveStatus())
	w, h := size.W/pointsPerInch, size.H/pointsPerInch
	shape := "box"
	style := "rounded,filled"
	switch n.Type.Shape() {
	case geometry.Circle:
		shape, style = "circle", "filled"
		w = min(size.W, size.H) / pointsPerInch
		h = w
	case geometry.Diamond:
		shape, style = "diamond", "filled"
	}
	if n.EffectiveStatus() == workflow.StatusSkipped {
		style += ",dashed"
	}
	label := n.Label
	if label == "" {
		label = n.ID
	}
	attrs := fmt.Sprintf("label=%q, shape=%s, style=%q, width=%.3f, height=%.3f, fillcolor=%q, color=%q, fontcolor=%q",
		label, shape, style, w, h, st.Fill, st.Border, st.Text)
	if n.Position != nil {
		c := n.Box(size).Center()
		attrs += fmt.Sprintf(", pos=\"%.2f,%.2f!\"", c.X, -c.Y)
	}
	return attrs
}

// RenderDOT renders DOT source with Graphviz neato in the given format.
func RenderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// Graphviz redraws the workflow with Graphviz instead of rasterizing the scene.
type Graphviz struct{}

func (Graphviz) Name() string   { return "graphviz" }
func (Graphviz) Format() Format { return FormatPNG }

// Export renders snap.Data as PNG. Graphviz has its own DPI, so scale only
// raises it.
func (Graphviz) Export(ctx context.Context, snap Snapshot, scale float64) ([]byte, error) {
	if snap.Data == nil || len(snap.Data.Nodes) == 0 {
		return nil, ErrNoData
	}
	dot := ToDOT(snap.Data, snap.Options)
	if scale > 0 {
		dot = withDPI(dot, pointsPerInch*scale)
	}
	return RenderDOT(ctx, dot, graphviz.PNG)
}

func withDPI(dot string, dpi float64) string {
	return string(bytes.Replace([]byte(dot), []byte("digraph G {\n"),
		[]byte(fmt.Sprintf("digraph G {\n  dpi=%.0f;\n", dpi)), 1))
}
