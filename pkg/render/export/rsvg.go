package export

import (
	"context"

	"github.com/matzehuels/flowtower/pkg/render"
)

// RSVG rasterizes the scene SVG with rsvg-convert.
type RSVG struct{}

func (RSVG) Name() string   { return "rsvg" }
func (RSVG) Format() Format { return FormatPNG }

// Export converts snap.SVG to PNG.
func (RSVG) Export(ctx context.Context, snap Snapshot, scale float64) ([]byte, error) {
	return render.ToPNG(ctx, snap.SVG, scale)
}
