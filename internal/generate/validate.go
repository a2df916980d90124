package generate

import (
	"github.com/rcliao/prompt-canvas/internal/catalog"
	"github.com/rcliao/prompt-canvas/internal/model"
)

// Filter keeps the candidates whose type names a catalog kind exactly,
// preserving order, and reports how many were dropped. Coordinates are not
// checked against the canvas.
func Filter(cands []Candidate, cat *catalog.Catalog) ([]model.Shape, int) {
	shapes := make([]model.Shape, 0, len(cands))
	for _, c := range cands {
		if !cat.Has(c.Type) {
			continue
		}
		shapes = append(shapes, model.Shape{
			Type:   c.Type,
			X:      c.X,
			Y:      c.Y,
			Width:  c.Width,
			Height: c.Height,
			Color:  c.Color,
		})
	}
	return shapes, len(cands) - len(shapes)
}
