package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// ErrConverterMissing is returned when rsvg-convert is not on PATH.
var ErrConverterMissing = errors.New("rsvg-convert not found (install librsvg)")

// converter is the external SVG rasterizer; tests point it elsewhere.
var converter = "rsvg-convert"

// ToPNG converts SVG bytes to PNG at the given scale using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(ctx, svg, "-f", "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "-f", "pdf")
}

func rsvgConvert(ctx context.Context, svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(converter)
	if err != nil {
		return nil, ErrConverterMissing
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("rsvg-convert: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("rsvg-convert: %w", err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("rsvg-convert: empty output")
	}
	return stdout.Bytes(), nil
}
