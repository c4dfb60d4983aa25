package route

import "github.com/matzehuels/flowtower/pkg/workflow"

// Index maps a node ID to the IDs of the edges touching it, in edge order.
type Index map[string][]string

// NewIndex builds an index over edges. Self-loops are listed once.
func NewIndex(edges []workflow.Edge) Index {
	idx := make(Index)
	for _, e := range edges {
		idx[e.From] = append(idx[e.From], e.ID)
		if e.To != e.From {
			idx[e.To] = append(idx[e.To], e.ID)
		}
	}
	return idx
}

// Incident returns the edges touching node id.
func (idx Index) Incident(id string) []string { return idx[id] }
