// Package scene materializes a workflow onto a drawing [Surface].
//
// # Overview
//
// The [Renderer] turns nodes and edges into surface primitives. It has three
// entry points with different costs:
//
//   - [Renderer.RenderFull]: resets the surface and redraws every node and
//     edge. Used on init, data updates and option changes.
//   - [Renderer.Reposition]: moves one node and redraws only the edges that
//     touch it. Used on every pointer move while dragging.
//   - [Renderer.Restyle]: recolors one node and its edges after a status
//     change.
//
// None of these run layout. Positions are read from the data as they are.
//
// # Layers
//
// Edges are drawn on [LayerEdges] and nodes on [LayerNodes], so nodes always
// sit on top of their connectors. Within a layer, primitives keep their first
// insertion order; redrawing an element by ID replaces it in place.
//
// # Surfaces
//
// [Surface] abstracts the 2D backend. [SVGSurface] is the retained SVG
// implementation used by the host server, the CLI and exports. The camera
// transform is applied to the whole scene group at once via
// [Surface.SetTransform], never per element.
//
// # Styles
//
// Node colors come from the status table in [StyleFor]. Arrowhead markers and
// glow filters are defined once per status on every full render.
package scene
