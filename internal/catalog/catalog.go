// Package catalog defines the supported shape kinds and how each kind
// interprets a shape's coordinates. It is read by the prompt composer, the
// renderer and the containment checks, so the wording here is what the model
// is told.
package catalog

import (
	"github.com/rcliao/prompt-canvas/internal/model"
)

// Logical canvas size.
const (
	CanvasWidth  = 600.0
	CanvasHeight = 400.0
)

// Kind names. They are matched case-sensitively against model output.
const (
	Rectangle = "Rectangle"
	Square    = "Square"
	Circle    = "Circle"
	Ellipse   = "Ellipse"
	Line      = "Line"
	Triangle  = "Triangle"
)

// Spec describes one shape kind.
type Spec struct {
	Name string
	// Anchor says what (x, y) denotes.
	Anchor string
	// Size says what width and height denote.
	Size string
	// Constraints are the containment rules, one per line, as shown to the model.
	Constraints []string
	// Contains reports whether s lies fully inside the canvas.
	Contains func(s model.Shape) bool
}

// Catalog is an ordered set of kinds.
type Catalog struct {
	specs []Spec
	index map[string]int
}

// New builds a catalog. Later specs with a duplicate name are ignored.
func New(specs ...Spec) *Catalog {
	c := &Catalog{index: make(map[string]int, len(specs))}
	for _, s := range specs {
		if _, dup := c.index[s.Name]; dup {
			continue
		}
		c.index[s.Name] = len(c.specs)
		c.specs = append(c.specs, s)
	}
	return c
}

// Default returns the six built-in kinds.
func Default() *Catalog {
	return New(
		Spec{
			Name:        Rectangle,
			Anchor:      "x, y are the top-left corner",
			Size:        "width, height are the box size",
			Constraints: []string{"x >= 0", "y >= 0", "x + width <= 600", "y + height <= 400"},
			Contains:    boxInside,
		},
		Spec{
			Name:        Square,
			Anchor:      "x, y are the top-left corner",
			Size:        "width = height (width is used for both sides)",
			Constraints: []string{"x >= 0", "y >= 0", "x + width <= 600", "y + width <= 400"},
			Contains: func(s model.Shape) bool {
				s.Height = s.Width
				return boxInside(s)
			},
		},
		Spec{
			Name:        Circle,
			Anchor:      "x, y are the center",
			Size:        "width = diameter (height must equal width; radius = width/2)",
			Constraints: []string{"x - width/2 >= 0", "x + width/2 <= 600", "y - width/2 >= 0", "y + width/2 <= 400"},
			Contains: func(s model.Shape) bool {
				return centeredInside(s.X, s.Y, s.Width/2, s.Width/2)
			},
		},
		Spec{
			Name:        Ellipse,
			Anchor:      "x, y are the center",
			Size:        "width = horizontal diameter, height = vertical diameter",
			Constraints: []string{"x - width/2 >= 0", "x + width/2 <= 600", "y - height/2 >= 0", "y + height/2 <= 400"},
			Contains: func(s model.Shape) bool {
				return centeredInside(s.X, s.Y, s.Width/2, s.Height/2)
			},
		},
		Spec{
			Name:        Line,
			Anchor:      "x, y are the start point",
			Size:        "width, height are the offset to the end point (end at x + width, y + height)",
			Constraints: []string{"0 <= x <= 600", "0 <= y <= 400", "0 <= x + width <= 600", "0 <= y + height <= 400"},
			Contains: func(s model.Shape) bool {
				return pointInside(s.X, s.Y) && pointInside(s.X+s.Width, s.Y+s.Height)
			},
		},
		Spec{
			Name:        Triangle,
			Anchor:      "x, y are the top-left corner of the bounding box",
			Size:        "width, height are the bounding box; vertices are (x + width/2, y), (x, y + height), (x + width, y + height)",
			Constraints: []string{"x + width <= 600", "y + height <= 400"},
			Contains: func(s model.Shape) bool {
				return s.X+s.Width <= CanvasWidth && s.Y+s.Height <= CanvasHeight
			},
		},
	)
}

// Names returns the kind names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.specs))
	for i, s := range c.specs {
		names[i] = s.Name
	}
	return names
}

// Specs returns the kind specs in catalog order.
func (c *Catalog) Specs() []Spec {
	return append([]Spec(nil), c.specs...)
}

// Has reports whether name is a kind in the catalog. Matching is exact.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Lookup returns the spec for name.
func (c *Catalog) Lookup(name string) (Spec, bool) {
	i, ok := c.index[name]
	if !ok {
		return Spec{}, false
	}
	return c.specs[i], true
}

// Restrict returns a catalog holding only the kinds also present in names,
// keeping catalog order.
func (c *Catalog) Restrict(names []string) *Catalog {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	var specs []Spec
	for _, s := range c.specs {
		if keep[s.Name] {
			specs = append(specs, s)
		}
	}
	return New(specs...)
}

// InCanvas reports whether s is a known kind lying fully inside the canvas.
func (c *Catalog) InCanvas(s model.Shape) bool {
	spec, ok := c.Lookup(s.Type)
	if !ok || spec.Contains == nil {
		return false
	}
	return spec.Contains(s)
}

// TriangleVertices returns the apex, bottom-left and bottom-right vertices.
func TriangleVertices(s model.Shape) [3][2]float64 {
	return [3][2]float64{
		{s.X + s.Width/2, s.Y},
		{s.X, s.Y + s.Height},
		{s.X + s.Width, s.Y + s.Height},
	}
}

func boxInside(s model.Shape) bool {
	return s.X >= 0 && s.Y >= 0 && s.X+s.Width <= CanvasWidth && s.Y+s.Height <= CanvasHeight
}

func centeredInside(cx, cy, rx, ry float64) bool {
	return cx-rx >= 0 && cx+rx <= CanvasWidth && cy-ry >= 0 && cy+ry <= CanvasHeight
}

func pointInside(x, y float64) bool {
	return x >= 0 && x <= CanvasWidth && y >= 0 && y <= CanvasHeight
}
