package scene

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/flowtower/pkg/camera"
	"github.com/matzehuels/flowtower/pkg/geometry"
)

const (
	titleFontSize    = 14.0
	subtitleFontSize = 11.0
	edgeFontSize     = 11.0
	fontCharWidth    = 0.55
	fontWidthRatio   = 0.85
)

const sceneCSS = `
    .edge.animated { stroke-dasharray: 6 4; animation: flow 1s linear infinite; }
    @keyframes flow { to { stroke-dashoffset: -10; } }
    .node { cursor: pointer; }
    .node-label { font-family: system-ui, sans-serif; pointer-events: none; }`

// SVGOption configures an SVGSurface.
type SVGOption func(*SVGSurface)

// WithControls draws zoom controls as fixed chrome outside the scene group.
func WithControls() SVGOption { return func(s *SVGSurface) { s.controls = true } }

// SVGSurface is a retained-mode SVG drawing surface. Elements are kept by ID
// in insertion order per layer, so redrawing never duplicates them and the
// serialized output is deterministic.
type SVGSurface struct {
	size       geometry.Size
	controls   bool
	fullscreen bool
	transform  camera.Transform

	defs     []string
	defByID  map[string]Def
	order    map[Layer][]string
	prims    map[string]Primitive
	labels   []string
	labelsBy map[string]Label
}

// NewSVGSurface creates a surface for a container of the given size.
func NewSVGSurface(size geometry.Size, opts ...SVGOption) *SVGSurface {
	s := &SVGSurface{size: size, transform: camera.Identity}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Size returns the container size.
func (s *SVGSurface) Size() geometry.Size { return s.size }

// Resize changes the container size.
func (s *SVGSurface) Resize(size geometry.Size) { s.size = size }

// Reset drops every scene element and definition. Controls are kept.
func (s *SVGSurface) Reset() {
	s.defs = nil
	s.defByID = make(map[string]Def)
	s.order = make(map[Layer][]string)
	s.prims = make(map[string]Primitive)
	s.labels = nil
	s.labelsBy = make(map[string]Label)
}

// Define adds or replaces a definition.
func (s *SVGSurface) Define(d Def) {
	if _, ok := s.defByID[d.ID]; !ok {
		s.defs = append(s.defs, d.ID)
	}
	s.defByID[d.ID] = d
}

// Draw adds or replaces a primitive.
func (s *SVGSurface) Draw(layer Layer, p Primitive) {
	if _, ok := s.prims[p.ID]; !ok {
		s.order[layer] = append(s.order[layer], p.ID)
	}
	s.prims[p.ID] = p
}

// Label adds or replaces a label.
func (s *SVGSurface) Label(l Label) {
	if _, ok := s.labelsBy[l.ID]; !ok {
		s.labels = append(s.labels, l.ID)
	}
	s.labelsBy[l.ID] = l
}

// SetTransform sets the scene group transform.
func (s *SVGSurface) SetTransform(t camera.Transform) { s.transform = t }

// Transform returns the scene group transform.
func (s *SVGSurface) Transform() camera.Transform { return s.transform }

// SetFullscreen toggles the fullscreen presentation class.
func (s *SVGSurface) SetFullscreen(on bool) { s.fullscreen = on }

// Fullscreen reports the presentation mode.
func (s *SVGSurface) Fullscreen() bool { return s.fullscreen }

// Primitive returns the primitive with the given ID.
func (s *SVGSurface) Primitive(id string) (Primitive, bool) {
	p, ok := s.prims[id]
	return p, ok
}

// Len returns the number of primitives on a layer.
func (s *SVGSurface) Len(layer Layer) int { return len(s.order[layer]) }

// LabelCount returns the number of labels.
func (s *SVGSurface) LabelCount() int { return len(s.labels) }

// Snapshot serializes the scene without controls.
func (s *SVGSurface) Snapshot() ([]byte, error) {
	return s.encode(false), nil
}

// Bytes serializes the scene including controls.
func (s *SVGSurface) Bytes() []byte { return s.encode(s.controls) }

func (s *SVGSurface) encode(withControls bool) []byte {
	var buf bytes.Buffer
	class := "flowtower"
	if s.fullscreen {
		class += " fullscreen"
	}
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" class="%s">`+"\n",
		s.size.W, s.size.H, s.size.W, s.size.H, class)

	buf.WriteString("  <defs>\n")
	for _, id := range s.defs {
		writeDef(&buf, s.defByID[id])
	}
	buf.WriteString("  </defs>\n")
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", sceneCSS)

	fmt.Fprintf(&buf, `  <g class="scene" transform="%s">`+"\n", s.transform.SVG())
	for _, layer := range []Layer{LayerEdges, LayerNodes} {
		fmt.Fprintf(&buf, `    <g class="%s">`+"\n", layerName(layer))
		for _, id := range s.order[layer] {
			writePrimitive(&buf, s.prims[id])
		}
		buf.WriteString("    </g>\n")
	}
	buf.WriteString(`    <g class="labels">` + "\n")
	for _, id := range s.labels {
		writeLabel(&buf, s.labelsBy[id])
	}
	buf.WriteString("    </g>\n")
	buf.WriteString("  </g>\n")

	if withControls {
		writeControls(&buf, s.size)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func layerName(l Layer) string {
	if l == LayerEdges {
		return "edges"
	}
	return "nodes"
}

func writeDef(buf *bytes.Buffer, d Def) {
	switch d.Kind {
	case DefArrow:
		fmt.Fprintf(buf, `    <marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse">`+
			`<path d="M0,0 L10,5 L0,10 z" fill="%s"/></marker>`+"\n", escape(d.ID), escape(d.Color))
	case DefGlow:
		fmt.Fprintf(buf, `    <filter id="%s" x="-50%%" y="-50%%" width="200%%" height="200%%">`+
			`<feDropShadow dx="0" dy="0" stdDeviation="6" flood-color="%s" flood-opacity="0.6"/></filter>`+"\n", escape(d.ID), escape(d.Color))
	}
}

func writePrimitive(buf *bytes.Buffer, p Primitive) {
	attrs := commonAttrs(p)
	switch p.Kind {
	case KindRect:
		fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f"%s/>`+"\n",
			p.Rect.X, p.Rect.Y, p.Rect.W, p.Rect.H, p.Radius, attrs)
	case KindCircle:
		fmt.Fprintf(buf, `      <circle cx="%.2f" cy="%.2f" r="%.2f"%s/>`+"\n", p.Center.X, p.Center.Y, p.Radius, attrs)
	case KindPolygon:
		pts := make([]string, len(p.Points))
		for i, pt := range p.Points {
			pts[i] = fmt.Sprintf("%.2f,%.2f", pt.X, pt.Y)
		}
		fmt.Fprintf(buf, `      <polygon points="%s"%s/>`+"\n", strings.Join(pts, " "), attrs)
	case KindPath:
		fmt.Fprintf(buf, `      <path d="%s"%s/>`+"\n", escape(p.D), attrs)
	case KindText:
		fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-size="%.0f"%s>%s</text>`+"\n",
			p.Center.X, p.Center.Y, edgeFontSize, attrs, escape(p.Text))
	}
}

func commonAttrs(p Primitive) string {
	var b strings.Builder
	fmt.Fprintf(&b, ` id="%s"`, escape(p.ID))
	if p.Class != "" {
		fmt.Fprintf(&b, ` class="%s"`, escape(p.Class))
	}
	if p.Fill != "" {
		fmt.Fprintf(&b, ` fill="%s"`, escape(p.Fill))
	}
	if p.Stroke != "" {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%.1f"`, escape(p.Stroke), p.StrokeWidth)
	}
	if p.Dashed {
		b.WriteString(` stroke-dasharray="6 4"`)
	}
	if p.Filter != "" {
		fmt.Fprintf(&b, ` filter="url(#%s)"`, escape(p.Filter))
	}
	if p.MarkerEnd != "" {
		fmt.Fprintf(&b, ` marker-end="url(#%s)"`, escape(p.MarkerEnd))
	}
	for _, k := range slices.Sorted(maps.Keys(p.Data)) {
		fmt.Fprintf(&b, ` data-%s="%s"`, k, escape(p.Data[k]))
	}
	return b.String()
}

func writeLabel(buf *bytes.Buffer, l Label) {
	c := l.Anchor.Center()
	title := l.Title
	if l.Icon != "" {
		title = l.Icon + " " + title
	}
	title = truncate(title, l.Anchor.W, titleFontSize)
	fmt.Fprintf(buf, `      <g id="%s" class="node-label" fill="%s">`, escape(l.ID), escape(l.Color))
	if l.Subtitle == "" {
		fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-size="%.0f" font-weight="600">%s</text>`,
			c.X, c.Y, titleFontSize, escape(title))
	} else {
		sub := truncate(l.Subtitle, l.Anchor.W, subtitleFontSize)
		fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-size="%.0f" font-weight="600">%s</text>`,
			c.X, c.Y-7, titleFontSize, escape(title))
		fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-size="%.0f" opacity="0.75">%s</text>`,
			c.X, c.Y+9, subtitleFontSize, escape(sub))
	}
	buf.WriteString("</g>\n")
}

func writeControls(buf *bytes.Buffer, size geometry.Size) {
	x := size.W - 44
	buf.WriteString(`  <g class="controls">` + "\n")
	for i, c := range []struct{ action, glyph string }{{"zoom-in", "+"}, {"zoom-out", "−"}, {"fit", "⤢"}, {"reset", "⟲"}} {
		y := 12 + float64(i)*36
		fmt.Fprintf(buf, `    <g class="control" data-action="%s"><rect x="%.0f" y="%.0f" width="32" height="32" rx="6" fill="#ffffff" stroke="#cbd5e1"/>`+
			`<text x="%.0f" y="%.0f" text-anchor="middle" dominant-baseline="middle" font-size="16">%s</text></g>`+"\n",
			c.action, x, y, x+16, y+16, c.glyph)
	}
	buf.WriteString("  </g>\n")
}

// truncate shortens s to fit width at the given font size.
func truncate(s string, width, fontSize float64) string {
	maxChars := max(3, int(width*fontWidthRatio/(fontSize*fontCharWidth)))
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-2]) + ".."
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

var (
	_ Surface      = (*SVGSurface)(nil)
	_ Fullscreener = (*SVGSurface)(nil)
)
