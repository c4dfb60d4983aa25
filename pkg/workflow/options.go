package workflow

import (
	"fmt"

	"github.com/matzehuels/flowtower/pkg/geometry"
)

// Direction is the main axis along which layout levels advance.
type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
)

// Default option values.
const (
	DefaultNodeWidth         = 180.0
	DefaultNodeHeight        = 60.0
	DefaultHorizontalSpacing = 80.0
	DefaultVerticalSpacing   = 40.0
	DefaultMinZoom           = 0.1
	DefaultMaxZoom           = 3.0
)

// Options configure a diagram instance. Zero numeric fields are replaced by
// defaults in [Options.WithDefaults].
type Options struct {
	NodeWidth         float64   `json:"nodeWidth,omitempty" yaml:"nodeWidth,omitempty" toml:"node_width"`
	NodeHeight        float64   `json:"nodeHeight,omitempty" yaml:"nodeHeight,omitempty" toml:"node_height"`
	HorizontalSpacing float64   `json:"horizontalSpacing,omitempty" yaml:"horizontalSpacing,omitempty" toml:"horizontal_spacing"`
	VerticalSpacing   float64   `json:"verticalSpacing,omitempty" yaml:"verticalSpacing,omitempty" toml:"vertical_spacing"`
	Direction         Direction `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction"`
	MinZoom           float64   `json:"minZoom,omitempty" yaml:"minZoom,omitempty" toml:"min_zoom"`
	MaxZoom           float64   `json:"maxZoom,omitempty" yaml:"maxZoom,omitempty" toml:"max_zoom"`
	Draggable         bool      `json:"draggable" yaml:"draggable" toml:"draggable"`
	Interactive       bool      `json:"interactive" yaml:"interactive" toml:"interactive"`
	Animated          bool      `json:"animated" yaml:"animated" toml:"animated"`
	FitToScreen       bool      `json:"fitToScreen" yaml:"fitToScreen" toml:"fit_to_screen"`
}

// DefaultOptions returns the options used when the host supplies none.
func DefaultOptions() Options {
	return Options{
		NodeWidth:         DefaultNodeWidth,
		NodeHeight:        DefaultNodeHeight,
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
		Direction:         Horizontal,
		MinZoom:           DefaultMinZoom,
		MaxZoom:           DefaultMaxZoom,
		Draggable:         true,
		Interactive:       true,
		Animated:          true,
		FitToScreen:       true,
	}
}

// WithDefaults returns a copy with zero node sizes, zero zoom limits and an
// empty direction replaced by defaults. Spacing of 0 is a valid layout
// (nodes touch) and is kept, as are boolean fields.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.NodeWidth == 0 {
		o.NodeWidth = d.NodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = d.NodeHeight
	}
	if o.Direction == "" {
		o.Direction = d.Direction
	}
	if o.MinZoom == 0 {
		o.MinZoom = d.MinZoom
	}
	if o.MaxZoom == 0 {
		o.MaxZoom = d.MaxZoom
	}
	return o
}

// Validate reports option values that cannot produce a diagram.
func (o Options) Validate() error {
	switch {
	case o.NodeWidth <= 0 || o.NodeHeight <= 0:
		return fmt.Errorf("%w: node size must be positive", ErrInvalidOptions)
	case o.HorizontalSpacing < 0 || o.VerticalSpacing < 0:
		return fmt.Errorf("%w: spacing must not be negative", ErrInvalidOptions)
	case o.Direction != Horizontal && o.Direction != Vertical:
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidOptions, o.Direction)
	case o.MinZoom <= 0:
		return fmt.Errorf("%w: minZoom must be positive", ErrInvalidOptions)
	case o.MinZoom > o.MaxZoom:
		return fmt.Errorf("%w: minZoom %.2f exceeds maxZoom %.2f", ErrInvalidOptions, o.MinZoom, o.MaxZoom)
	}
	return nil
}

// NodeSize returns the node box size.
func (o Options) NodeSize() geometry.Size {
	return geometry.Size{W: o.NodeWidth, H: o.NodeHeight}
}

// ClampZoom restricts k to [MinZoom, MaxZoom].
func (o Options) ClampZoom(k float64) float64 {
	return min(max(k, o.MinZoom), o.MaxZoom)
}
