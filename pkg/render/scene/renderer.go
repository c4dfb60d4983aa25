package scene

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowtower/pkg/camera"
	"github.com/matzehuels/flowtower/pkg/geometry"
	"github.com/matzehuels/flowtower/pkg/route"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

const (
	edgeWidth   = 2.0
	borderWidth = 2.0
	cornerRound = 8.0
)

// Renderer draws one workflow onto one surface.
type Renderer struct {
	surface Surface
	logger  *log.Logger

	data  *workflow.Data
	opts  workflow.Options
	edges []workflow.Edge
	byID  map[string]workflow.Edge
	index route.Index
	nodes map[string]int
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithLogger sets the logger used for missing-target warnings.
func WithLogger(l *log.Logger) RendererOption {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRenderer returns a renderer bound to s.
func NewRenderer(s Surface, opts ...RendererOption) *Renderer {
	r := &Renderer{surface: s, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Surface returns the bound surface.
func (r *Renderer) Surface() Surface { return r.surface }

// Edges returns the edges drawn by the last full render.
func (r *Renderer) Edges() []workflow.Edge { return r.edges }

// Index returns node-to-edge incidence for the last full render.
func (r *Renderer) Index() route.Index { return r.index }

// RenderFull clears the surface and draws data under transform t. data is
// retained (not copied) so later targeted repaints read current positions.
func (r *Renderer) RenderFull(data *workflow.Data, opts workflow.Options, t camera.Transform) {
	r.data, r.opts = data, opts
	r.edges = data.ValidEdges()
	r.index = route.NewIndex(r.edges)
	r.byID = make(map[string]workflow.Edge, len(r.edges))
	for _, e := range r.edges {
		r.byID[e.ID] = e
	}
	r.nodes = data.Index()

	r.surface.Reset()
	for _, s := range workflow.Statuses {
		st := StyleFor(s)
		r.surface.Define(Def{ID: arrowID(s), Kind: DefArrow, Color: st.Border})
		if st.Glow != "" {
			r.surface.Define(Def{ID: glowID(s), Kind: DefGlow, Color: st.Glow})
		}
	}

	for _, e := range r.edges {
		r.drawEdge(e, nil)
	}
	for i := range data.Nodes {
		n := &data.Nodes[i]
		if r.nodes[n.ID] != i {
			continue // later duplicate of an ID
		}
		r.drawNode(n)
	}
	r.surface.SetTransform(t)
}

// SetTransform applies a new view transform without redrawing elements.
func (r *Renderer) SetTransform(t camera.Transform) { r.surface.SetTransform(t) }

// Reposition draws node id at world position pos and redraws its incident
// edges. The data is not modified. It reports false when id is unknown.
func (r *Renderer) Reposition(id string, pos geometry.Point) bool {
	n := r.node(id)
	if n == nil {
		r.logger.Warn("reposition: node not found", "node", id)
		return false
	}
	moved := *n
	moved.Position = &pos
	r.drawNode(&moved)
	for _, eid := range r.index.Incident(id) {
		r.drawEdge(r.byID[eid], &moved)
	}
	return true
}

// Restyle redraws node id and its incident edges with current status colors.
func (r *Renderer) Restyle(id string) bool {
	n := r.node(id)
	if n == nil {
		r.logger.Warn("restyle: node not found", "node", id)
		return false
	}
	r.drawNode(n)
	for _, eid := range r.index.Incident(id) {
		r.drawEdge(r.byID[eid], nil)
	}
	return true
}

func (r *Renderer) node(id string) *workflow.Node {
	if r.data == nil {
		return nil
	}
	i, ok := r.nodes[id]
	if !ok || i >= len(r.data.Nodes) || r.data.Nodes[i].ID != id {
		return nil
	}
	return &r.data.Nodes[i]
}

// drawEdge draws e, substituting override for whichever endpoint it names.
func (r *Renderer) drawEdge(e workflow.Edge, override *workflow.Node) {
	from, to := r.node(e.From), r.node(e.To)
	if from == nil || to == nil {
		return
	}
	if override != nil {
		if override.ID == e.From {
			from = override
		}
		if override.ID == e.To {
			to = override
		}
	}

	status := from.EffectiveStatus()
	st := StyleFor(status)
	path := route.Between(from, to, r.opts)
	class := "edge"
	animated := e.Animated && r.opts.Animated
	if animated {
		class += " animated"
	}
	r.surface.Draw(LayerEdges, Primitive{
		ID:          "edge-" + e.ID,
		Kind:        KindPath,
		D:           path.D(),
		Fill:        "none",
		Stroke:      st.Border,
		StrokeWidth: edgeWidth,
		Dashed:      animated,
		MarkerEnd:   arrowID(status),
		Class:       class,
		Data:        map[string]string{"from": e.From, "to": e.To},
	})

	if text := e.Text(); text != "" {
		r.surface.Draw(LayerEdges, Primitive{
			ID:     "edge-label-" + e.ID,
			Kind:   KindText,
			Center: path.Midpoint(),
			Text:   text,
			Fill:   st.Text,
			Class:  "edge-label",
		})
	}
}

func (r *Renderer) drawNode(n *workflow.Node) {
	status := n.EffectiveStatus()
	st := StyleFor(status)
	box := n.Box(r.opts.NodeSize())

	p := Primitive{
		ID:          "node-" + n.ID,
		Fill:        st.Fill,
		Stroke:      st.Border,
		StrokeWidth: borderWidth,
		Class:       "node node-" + string(n.Type) + " status-" + string(status),
		Data:        map[string]string{"id": n.ID},
	}
	if st.Glow != "" {
		p.Filter = glowID(status)
	}
	if status == workflow.StatusSkipped {
		p.Dashed = true
	}

	switch n.Type.Shape() {
	case geometry.Circle:
		p.Kind = KindCircle
		p.Center = box.Center()
		p.Radius = geometry.Radius(box)
	case geometry.Diamond:
		p.Kind = KindPolygon
		p.Points = geometry.DiamondVertices(box)
	default:
		p.Kind = KindRect
		p.Rect = box
		p.Radius = cornerRound
		if n.Type == workflow.NodeParallel {
			p.StrokeWidth = 2 * borderWidth
		}
	}
	r.surface.Draw(LayerNodes, p)

	r.surface.Label(Label{
		ID:       "label-" + n.ID,
		Anchor:   box,
		Title:    n.Label,
		Subtitle: n.Description,
		Icon:     n.Icon,
		Color:    st.Text,
	})
}
