package layout

// Node is a job to place. Level is its layer index (0 = top). Width and
// Height are optional; zero means "derive from the label" and "use the
// default height" respectively. An empty Label falls back to ID.
type Node struct {
	ID     string
	Level  int
	Label  string
	Width  float64
	Height float64
}

// Edge runs From a node To another node on a strictly deeper level.
type Edge struct {
	From string
	To   string
}

// Point is a coordinate in layout space. Y grows downward.
type Point struct {
	X float64
	Y float64
}

// Position is a node's computed centre and box size. Width is the box
// width without the horizontal margin.
type Position struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Top returns the midpoint of the box's upper side.
func (p Position) Top() Point { return Point{X: p.X, Y: p.Y - p.Height/2} }

// Bottom returns the midpoint of the box's lower side.
func (p Position) Bottom() Point { return Point{X: p.X, Y: p.Y + p.Height/2} }

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent of the box.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Stats summarises a computed layout.
type Stats struct {
	Layers    int // Number of layers, including empty ones
	Dummies   int // Dummy vertices inserted for long edges
	Crossings int // Segment crossings in the final ordering
}
