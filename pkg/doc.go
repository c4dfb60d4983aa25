// Package pkg provides the core libraries for Flowtower workflow diagrams.
//
// # Overview
//
// Flowtower turns workflow documents (nodes with types and statuses, edges
// between them) into interactive diagrams: nodes are laid out in levels,
// drawn onto a retained scene, and respond to pan, zoom, pinch and drag
// gestures. The pkg directory is organized into four areas:
//
//  1. Model: [workflow], [geometry], [io]
//  2. Engine: [layout], [route], [camera], [drag], [diagram]
//  3. Output: [render], [render/scene], [render/export]
//  4. Infrastructure: [cache], [config], [errors], [observability], [host]
//
// # Architecture
//
// The data flow through one diagram instance:
//
//	workflow document (JSON/YAML)
//	         ↓
//	    [io] package (decode + schema validation)
//	         ↓
//	    [layout] package (levels + positions for unplaced nodes)
//	         ↓
//	    [render/scene] package (nodes, edge paths, labels on a surface)
//	         ↓
//	    SVG scene ──→ [render/export] (PNG via rsvg-convert or Graphviz)
//
// Gestures flow the other way: [diagram] hit-tests pointer and touch input,
// drives [camera] for pan and zoom and [drag] for node moves, repositions
// the affected scene elements, and reports clicks, committed moves and
// transform changes to its notifier.
//
// # Quick Start
//
// Render a workflow headlessly:
//
//	import (
//	    "github.com/matzehuels/flowtower/pkg/diagram"
//	    "github.com/matzehuels/flowtower/pkg/geometry"
//	    "github.com/matzehuels/flowtower/pkg/io"
//	    "github.com/matzehuels/flowtower/pkg/render/scene"
//	)
//
//	doc, _ := io.Import("deploy.yaml")
//	surface := scene.NewSVGSurface(geometry.Size{W: 1280, H: 800})
//	inst, _ := diagram.New(surface, doc.Data, *doc.Options)
//	defer inst.Dispose()
//	svg, _ := inst.SceneSVG()
//
// Host diagrams over HTTP with live websocket sessions:
//
//	srv := host.New(host.WithLogger(logger))
//	id, _ := srv.Create(doc, geometry.Size{})
//	_ = srv.ListenAndServe(ctx, ":8420", 5*time.Second)
//
// [workflow]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/workflow
// [geometry]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/geometry
// [io]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/io
// [layout]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/layout
// [route]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/route
// [camera]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/camera
// [drag]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/drag
// [diagram]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/diagram
// [render]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/render
// [render/scene]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/render/scene
// [render/export]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/render/export
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/observability
// [host]: https://pkg.go.dev/github.com/matzehuels/flowtower/pkg/host
package pkg
