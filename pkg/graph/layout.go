package graph

import (
	"encoding/json"
	"os"

	flowerrors "github.com/matzehuels/flowlayout/pkg/errors"
)

// =============================================================================
// Layout - Computed Drawing
// =============================================================================

// Layout is the serialization format for computed drawings.
//
// This is a discriminated union - check VizType to determine which fields
// are populated:
//
//	Layered ("layered"):
//	  - Nodes: centre coordinates and box sizes
//	  - Edges: guides and full polylines
//	  - Bounds: bounding box of all nodes
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string for rendering
//	  - Engine: Graphviz layout engine (e.g., "dot")
type Layout struct {
	VizType string `json:"viz_type" bson:"viz_type"`

	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Bounds Bounds  `json:"bounds" bson:"bounds"`

	Nodes []PlacedNode `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges []PlacedEdge `json:"edges,omitempty" bson:"edges,omitempty"`
	Stats *Stats       `json:"stats,omitempty" bson:"stats,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

// IsLayered returns true if this is a layered layout.
func (l *Layout) IsLayered() bool { return l.VizType == VizTypeLayered }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// Point is a coordinate in layout space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Bounds is the bounding box of a layout.
type Bounds struct {
	MinX float64 `json:"min_x" bson:"min_x"`
	MinY float64 `json:"min_y" bson:"min_y"`
	MaxX float64 `json:"max_x" bson:"max_x"`
	MaxY float64 `json:"max_y" bson:"max_y"`
}

// PlacedNode is a node with its computed centre and box size.
type PlacedNode struct {
	ID     string  `json:"id" bson:"id"`
	Label  string  `json:"label" bson:"label"`
	Type   string  `json:"type,omitempty" bson:"type,omitempty"`
	Status string  `json:"status,omitempty" bson:"status,omitempty"`
	Level  int     `json:"level" bson:"level"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Flow holds the drawing of an expanded embedded flow. Offset shifts
	// it into the node's box, relative to the box's top-left corner.
	Flow   *Layout `json:"flow,omitempty" bson:"flow,omitempty"`
	Offset *Point  `json:"offset,omitempty" bson:"offset,omitempty"`
}

// PlacedEdge is an edge with its routing. Guides is null for edges between
// adjacent levels; Points is always the full polyline.
type PlacedEdge struct {
	From   string  `json:"from" bson:"from"`
	To     string  `json:"target" bson:"target"`
	Guides []Point `json:"guides" bson:"guides"`
	Points []Point `json:"points" bson:"points"`
}

// Stats summarises a layered layout. Subflows and RemovedEdges are filled
// by the pipeline: the number of expanded embedded flows at any depth and
// the number of edges dropped to break cycles.
type Stats struct {
	Layers       int `json:"layers" bson:"layers"`
	Dummies      int `json:"dummies" bson:"dummies"`
	Crossings    int `json:"crossings" bson:"crossings"`
	Subflows     int `json:"subflows,omitempty" bson:"subflows,omitempty"`
	RemovedEdges int `json:"removed_edges,omitempty" bson:"removed_edges,omitempty"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, flowerrors.Wrap(flowerrors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}

	if l.VizType == "" {
		l.VizType = VizTypeLayered
	}

	switch {
	case l.IsLayered():
	case l.IsNodelink():
		if l.DOT == "" {
			return Layout{}, flowerrors.New(flowerrors.ErrCodeInvalidFormat, "nodelink layout must contain DOT string")
		}
	default:
		return Layout{}, flowerrors.New(flowerrors.ErrCodeInvalidFormat, "unknown viz_type %q", l.VizType)
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, openError(path, err)
	}
	return UnmarshalLayout(data)
}
