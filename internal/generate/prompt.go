package generate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcliao/prompt-canvas/internal/catalog"
	"github.com/rcliao/prompt-canvas/internal/model"
)

// noDrawings stands in for the drawing list when the canvas is empty.
const noDrawings = "None"

// Compose builds the instruction sent to the model for one prompt. The output
// depends only on its arguments.
func Compose(prompt string, existing []model.Drawing, cat *catalog.Catalog) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an assistant that helps build a drawing for a user using only the following shapes: %s.\n",
		strings.Join(cat.Names(), ", "))
	fmt.Fprintf(&b, "The user asked: '%s'.\n", prompt)
	fmt.Fprintf(&b, "Currently, the following drawings already exist on the canvas: %s.\n", SerializeDrawings(existing))
	b.WriteString(`Each drawing is composed of multiple shapes that together form a complete object.

Your task is to decompose the requested drawing into supported shapes,
using them in the most logical, efficient, visually balanced way possible.

Always represent each requested object as a complete composition made up of multiple shapes,
with values and placements that make them come together as one coherent whole.
Never depict an object with a single shape.

The new drawing must be positioned and sized relative to the existing drawings on the canvas.
Place new shapes so that they do not obscure existing drawings unless the request calls for it,
and keep them balanced in scale and position relative to existing objects.

Each shape must be an object with the following fields:
- type (string): one of the supported shapes, spelled exactly as listed
- x (number, can be decimal)
- y (number, can be decimal)
- width (number)
- height (number)
- color (string): a hex color code such as "#aa5500"

---

### Coordinate system:
- Canvas origin is top-left (0,0)
- X increases rightward, Y increases downward
`)
	fmt.Fprintf(&b, "- Canvas size: %s x %s\n", formatNumber(catalog.CanvasWidth), formatNumber(catalog.CanvasHeight))

	b.WriteString("\n### Shape placement rules by type:\n")
	for _, spec := range cat.Specs() {
		fmt.Fprintf(&b, "- %s:\n  - %s\n  - %s\n", spec.Name, spec.Anchor, spec.Size)
	}

	b.WriteString("\n### Canvas constraints (every shape must be fully visible):\n")
	for _, spec := range cat.Specs() {
		fmt.Fprintf(&b, "- %s:\n", spec.Name)
		for _, c := range spec.Constraints {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}

	b.WriteString(`
---

### Visual guidelines:
- Related shapes belong near each other and follow a correct vertical order
  (a head above a body, a roof above walls).
- All ground-based objects (people, trees, houses) stand on the same ground line,
  at a uniform height above the bottom of the canvas (about y = 300 to 350).
- Keep proportional sizes:
  - a house is about 4x the size of a person
  - a person is about 2-3x the size of a bush or flower
- Symmetric parts (arms, legs, eyes) are balanced on both sides.
- Use natural, consistent colors.

---

### Output requirements:
- Return only a raw JSON array of shape objects with the fields type, x, y, width, height, color
- No explanations, no markdown, no additional text
- All numbers can be floats
`)
	return b.String()
}

// SerializeDrawings renders drawings one per line as description plus a flat
// shape list, or "None" when there are none.
func SerializeDrawings(drawings []model.Drawing) string {
	if len(drawings) == 0 {
		return noDrawings
	}
	lines := make([]string, len(drawings))
	for i, d := range drawings {
		shapes := make([]string, len(d.Shapes))
		for j, s := range d.Shapes {
			shapes[j] = fmt.Sprintf("{type: %q, x: %s, y: %s, width: %s, height: %s, color: %q}",
				s.Type, formatNumber(s.X), formatNumber(s.Y), formatNumber(s.Width), formatNumber(s.Height), s.Color)
		}
		lines[i] = fmt.Sprintf("Drawing: %q, Shapes: [%s]", d.Description, strings.Join(shapes, ", "))
	}
	return strings.Join(lines, "\n")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
