// Package workflow defines the data model rendered by the diagram engine:
// nodes, edges, the ordered [Data] document, and the per-instance [Options].
//
// # Nodes
//
// A [Node] has a unique ID, a [NodeType] that selects its outline shape, a
// display label, and a [Status] that selects its colors. Its Position is a
// pointer: nil means "not placed yet" and is filled in by layout, while a
// non-nil value (including the origin) is an explicit world coordinate that
// layout never overwrites.
//
// # Edges
//
// Edges reference nodes by ID. An edge whose From or To names an unknown node
// is not an error; it is dropped by [Data.ValidEdges] before layout and
// rendering.
//
// # Ordering
//
// Node order in [Data.Nodes] is significant. It breaks ties during layout and
// defines the painting order: later nodes are drawn over earlier ones and win
// hit-tests.
package workflow
