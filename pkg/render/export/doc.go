// Package export turns a rendered scene into a downloadable image.
//
// # Fallback Chain
//
// [Exporter.Export] tries its backends in order and returns the first
// success:
//
//  1. [RSVG]: rasterizes the scene SVG to PNG with rsvg-convert
//  2. [Graphviz]: redraws the workflow as PNG with Graphviz neato, node
//     positions pinned to their world coordinates
//  3. the scene SVG itself, which cannot fail
//
// Every failed attempt is logged and reported to the observability hooks;
// it never reaches the caller as an error. Only context cancellation does.
//
// # Caching
//
// Raster results are cached under the hash of the scene SVG plus format and
// scale, so exporting an unchanged diagram twice rasterizes once.
//
// # Text Formats
//
// [ToDOT] and [ToMermaid] describe a workflow as Graphviz DOT or a Mermaid
// flowchart for use outside the engine.
package export
