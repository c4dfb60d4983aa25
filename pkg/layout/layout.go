// Package layout places workflow nodes into levels and converts the level
// structure into world coordinates.
//
// # Algorithm
//
// [Levels] runs a layered variant of Kahn's topological sort:
//  1. Count in-degrees and successors over the valid edges only
//  2. Seed the first level with every in-degree-0 node, or with the first
//     node when the graph is a pure cycle
//  3. Pop the whole frontier as one level; each visited node decrements its
//     successors, and successors reaching zero join the next level
//  4. When the frontier empties while nodes remain unvisited (disconnected
//     components or residual cycles), the first unvisited node in input order
//     opens a new level
//
// Step 4 guarantees termination on any finite graph, cyclic or not. Within a
// level, nodes keep their input order, so the result depends only on the
// input.
//
// [Apply] maps level i, slot j to world coordinates, centring shorter levels
// against the widest one, and writes only positions that are unset.
package layout

import (
	"slices"

	"github.com/matzehuels/flowtower/pkg/geometry"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// Levels returns node IDs grouped by level. Every node appears exactly once.
func Levels(d *workflow.Data) [][]string {
	n := len(d.Nodes)
	if n == 0 {
		return nil
	}

	order := d.Index()
	inDegree := make(map[string]int, n)
	adjacency := make(map[string][]string, n)
	for _, e := range d.ValidEdges() {
		inDegree[e.To]++
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}

	visited := make(map[string]bool, n)
	var frontier []string
	for _, node := range d.Nodes {
		if visited[node.ID] {
			continue
		}
		if inDegree[node.ID] == 0 {
			frontier = append(frontier, node.ID)
			visited[node.ID] = true
		}
	}
	if len(frontier) == 0 {
		frontier = append(frontier, d.Nodes[0].ID)
		visited[d.Nodes[0].ID] = true
	}

	var levels [][]string
	remaining := len(order) - len(frontier)
	next := 0 // scan cursor for unvisited nodes in input order
	for len(frontier) > 0 {
		slices.SortFunc(frontier, func(a, b string) int { return order[a] - order[b] })
		levels = append(levels, frontier)

		var following []string
		for _, id := range frontier {
			for _, succ := range adjacency[id] {
				inDegree[succ]--
				if inDegree[succ] <= 0 && !visited[succ] {
					visited[succ] = true
					following = append(following, succ)
					remaining--
				}
			}
		}

		if len(following) == 0 && remaining > 0 {
			for ; next < len(d.Nodes); next++ {
				id := d.Nodes[next].ID
				if !visited[id] {
					visited[id] = true
					following = append(following, id)
					remaining--
					break
				}
			}
		}
		frontier = following
	}
	return levels
}

// Apply computes levels for d and assigns world positions to every node whose
// Position is nil. Explicit positions, including the origin, are kept. It
// returns the levels used.
func Apply(d *workflow.Data, opts workflow.Options) [][]string {
	levels := Levels(d)
	assign(d, Positions(levels, opts))
	return levels
}

// Positions converts levels into top-left world coordinates.
func Positions(levels [][]string, opts workflow.Options) map[string]geometry.Point {
	maxLevel := 0
	for _, l := range levels {
		maxLevel = max(maxLevel, len(l))
	}

	stepMain := opts.NodeWidth + opts.HorizontalSpacing
	stepCross := opts.NodeHeight + opts.VerticalSpacing
	if opts.Direction == workflow.Vertical {
		stepMain = opts.NodeHeight + opts.VerticalSpacing
		stepCross = opts.NodeWidth + opts.HorizontalSpacing
	}

	out := make(map[string]geometry.Point)
	for i, level := range levels {
		offset := float64(maxLevel-len(level)) / 2
		for j, id := range level {
			main := float64(i) * stepMain
			cross := (float64(j) + offset) * stepCross
			if opts.Direction == workflow.Vertical {
				out[id] = geometry.Point{X: cross, Y: main}
			} else {
				out[id] = geometry.Point{X: main, Y: cross}
			}
		}
	}
	return out
}
