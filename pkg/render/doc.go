// Package render holds the diagram rendering pipeline.
//
// # Overview
//
//   - [scene]: draws workflows onto a retained drawing surface (SVG)
//   - [export]: turns a scene into a downloadable image with fallbacks
//
// # Format Conversion
//
// [ToPNG] and [ToPDF] convert any SVG using the external rsvg-convert tool
// (from librsvg). They are the first stage of the export chain:
//
//	svg, _ := surface.Snapshot()
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// When rsvg-convert is missing, [ErrConverterMissing] is returned and the
// export chain falls back to Graphviz.
//
// [scene]: github.com/matzehuels/flowtower/pkg/render/scene
// [export]: github.com/matzehuels/flowtower/pkg/render/export
package render
