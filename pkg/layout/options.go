package layout

import (
	"math"

	flowerrors "github.com/matzehuels/flowlayout/pkg/errors"
)

// Default layout constants.
const (
	DefaultHorizontalMargin = 8.0
	DefaultMinVerticalGap   = 40.0
	DefaultDegreeRatio      = 1.0 / 8
	DefaultCornerGap        = 10.0
	DefaultNodeHeight       = 1.0
	DefaultCharWidth        = 11.5
	DefaultLabelPadding     = 4.0
	DefaultDummySize        = 10.0
)

// minLayerHeight floors the tallest-node height of every layer during
// vertical spacing.
const minLayerHeight = 1.0

// Options configures Compute. Zero-valued fields take their defaults, so a
// partially filled Options is always usable.
type Options struct {
	// HorizontalMargin is added to every real node's width before spacing.
	HorizontalMargin float64 `json:"horizontal_margin,omitempty" toml:"horizontal_margin" yaml:"horizontal_margin"`

	// MinVerticalGap is the smallest gap between the boxes of two layers.
	MinVerticalGap float64 `json:"min_vertical_gap,omitempty" toml:"min_vertical_gap" yaml:"min_vertical_gap"`

	// DegreeRatio scales the widest horizontal edge run of a layer into the
	// vertical distance that layer needs.
	DegreeRatio float64 `json:"degree_ratio,omitempty" toml:"degree_ratio" yaml:"degree_ratio"`

	// CornerGap is the vertical offset of the elbow point inserted where a
	// long edge changes direction.
	CornerGap float64 `json:"corner_gap,omitempty" toml:"corner_gap" yaml:"corner_gap"`

	// DefaultHeight is used for nodes without an explicit height.
	DefaultHeight float64 `json:"default_height,omitempty" toml:"default_height" yaml:"default_height"`

	// CharWidth and LabelPadding estimate a node's width from its label:
	// len(label)*CharWidth + LabelPadding.
	CharWidth    float64 `json:"char_width,omitempty" toml:"char_width" yaml:"char_width"`
	LabelPadding float64 `json:"label_padding,omitempty" toml:"label_padding" yaml:"label_padding"`

	// DummySize is the width and height of the vertices that carry long
	// edges through intermediate layers.
	DummySize float64 `json:"dummy_size,omitempty" toml:"dummy_size" yaml:"dummy_size"`

	// ExtraSweeps adds that many upward+downward ordering sweeps after the
	// standard pass. Zero keeps the standard single pass.
	ExtraSweeps int `json:"extra_sweeps,omitempty" toml:"extra_sweeps" yaml:"extra_sweeps"`

	// SortByID seeds each layer in node ID order instead of input order.
	SortByID bool `json:"sort_by_id,omitempty" toml:"sort_by_id" yaml:"sort_by_id"`
}

// DefaultOptions returns Options with every constant set to its default.
func DefaultOptions() Options {
	return Options{
		HorizontalMargin: DefaultHorizontalMargin,
		MinVerticalGap:   DefaultMinVerticalGap,
		DegreeRatio:      DefaultDegreeRatio,
		CornerGap:        DefaultCornerGap,
		DefaultHeight:    DefaultNodeHeight,
		CharWidth:        DefaultCharWidth,
		LabelPadding:     DefaultLabelPadding,
		DummySize:        DefaultDummySize,
	}
}

// WithDefaults returns a copy of o with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.HorizontalMargin == 0 {
		o.HorizontalMargin = d.HorizontalMargin
	}
	if o.MinVerticalGap == 0 {
		o.MinVerticalGap = d.MinVerticalGap
	}
	if o.DegreeRatio == 0 {
		o.DegreeRatio = d.DegreeRatio
	}
	if o.CornerGap == 0 {
		o.CornerGap = d.CornerGap
	}
	if o.DefaultHeight == 0 {
		o.DefaultHeight = d.DefaultHeight
	}
	if o.CharWidth == 0 {
		o.CharWidth = d.CharWidth
	}
	if o.LabelPadding == 0 {
		o.LabelPadding = d.LabelPadding
	}
	if o.DummySize == 0 {
		o.DummySize = d.DummySize
	}
	return o
}

// Validate reports negative or non-finite constants.
func (o Options) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"horizontal_margin", o.HorizontalMargin},
		{"min_vertical_gap", o.MinVerticalGap},
		{"degree_ratio", o.DegreeRatio},
		{"corner_gap", o.CornerGap},
		{"default_height", o.DefaultHeight},
		{"char_width", o.CharWidth},
		{"label_padding", o.LabelPadding},
		{"dummy_size", o.DummySize},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return flowerrors.New(flowerrors.ErrCodeInvalidConfig, "layout option %s must be a non-negative number, got %v", f.name, f.value)
		}
	}
	if o.ExtraSweeps < 0 {
		return flowerrors.New(flowerrors.ErrCodeInvalidConfig, "layout option extra_sweeps must not be negative, got %d", o.ExtraSweeps)
	}
	return nil
}
