package workflow

import (
	"fmt"

	"github.com/matzehuels/flowtower/pkg/geometry"
)

// Data is an ordered workflow document.
type Data struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Validate checks node identity and enum fields. Dangling edges are not
// reported; see [Data.ValidEdges].
func (d *Data) Validate() error {
	seen := make(map[string]struct{}, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.ID == "" {
			return fmt.Errorf("node %d: %w", i, ErrEmptyNodeID)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateNode)
		}
		seen[n.ID] = struct{}{}
		if n.Type != "" && !n.Type.Valid() {
			return fmt.Errorf("node %s: %w: %q", n.ID, ErrUnknownNodeType, n.Type)
		}
		if n.Status != "" && !n.Status.Valid() {
			return fmt.Errorf("node %s: %w: %q", n.ID, ErrUnknownStatus, n.Status)
		}
	}
	return nil
}

// Normalize fills defaulted fields in place: empty node types become task,
// empty statuses become pending, and empty edge IDs become "from->to".
func (d *Data) Normalize() {
	for i := range d.Nodes {
		if d.Nodes[i].Type == "" {
			d.Nodes[i].Type = NodeTask
		}
		if d.Nodes[i].Status == "" {
			d.Nodes[i].Status = StatusPending
		}
	}
	for i := range d.Edges {
		if d.Edges[i].ID == "" {
			d.Edges[i].ID = d.Edges[i].From + "->" + d.Edges[i].To
		}
	}
}

// Index returns a map from node ID to its position in d.Nodes.
func (d *Data) Index() map[string]int {
	idx := make(map[string]int, len(d.Nodes))
	for i := range d.Nodes {
		if _, ok := idx[d.Nodes[i].ID]; !ok {
			idx[d.Nodes[i].ID] = i
		}
	}
	return idx
}

// Node returns the node with the given ID, or nil.
func (d *Data) Node(id string) *Node {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}

// ValidEdges returns the edges whose endpoints both exist, in input order.
func (d *Data) ValidEdges() []Edge {
	idx := d.Index()
	out := make([]Edge, 0, len(d.Edges))
	for _, e := range d.Edges {
		_, okFrom := idx[e.From]
		_, okTo := idx[e.To]
		if okFrom && okTo {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a deep copy of d. Positions are copied, not shared.
func (d *Data) Clone() *Data {
	out := &Data{
		Nodes: make([]Node, len(d.Nodes)),
		Edges: make([]Edge, len(d.Edges)),
	}
	copy(out.Nodes, d.Nodes)
	copy(out.Edges, d.Edges)
	for i := range out.Nodes {
		if p := out.Nodes[i].Position; p != nil {
			cp := *p
			out.Nodes[i].Position = &cp
		}
	}
	return out
}

// Bounds returns the union of all placed node boxes.
func (d *Data) Bounds(size geometry.Size) (geometry.Rect, bool) {
	rects := make([]geometry.Rect, 0, len(d.Nodes))
	for i := range d.Nodes {
		if d.Nodes[i].Placed() {
			rects = append(rects, d.Nodes[i].Box(size))
		}
	}
	return geometry.Bounds(rects)
}

// Dedup removes nodes whose ID repeats an earlier node, keeping the first
// occurrence. It returns the IDs of the removed duplicates.
func (d *Data) Dedup() []string {
	seen := make(map[string]struct{}, len(d.Nodes))
	var dropped []string
	kept := d.Nodes[:0]
	for _, n := range d.Nodes {
		if _, dup := seen[n.ID]; dup {
			dropped = append(dropped, n.ID)
			continue
		}
		seen[n.ID] = struct{}{}
		kept = append(kept, n)
	}
	d.Nodes = kept
	return dropped
}
