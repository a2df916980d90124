// Package render draws shapes as SVG using the catalog's geometry.
package render

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/rcliao/prompt-canvas/internal/catalog"
	"github.com/rcliao/prompt-canvas/internal/model"
)

const lineWidth = 3

// SVG writes a canvas-sized SVG document with every shape of every drawing
// in order. Shapes of unknown kind are skipped.
func SVG(w io.Writer, drawings []model.Drawing) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(catalog.CanvasWidth), num(catalog.CanvasHeight), num(catalog.CanvasWidth), num(catalog.CanvasHeight))
	for _, d := range drawings {
		fmt.Fprintf(&b, "  <g><title>%s</title>\n", html.EscapeString(d.Description))
		for _, s := range d.Shapes {
			if el := Element(s); el != "" {
				b.WriteString("    ")
				b.WriteString(el)
				b.WriteString("\n")
			}
		}
		b.WriteString("  </g>\n")
	}
	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Element returns the SVG element for one shape, or "" for an unknown kind.
func Element(s model.Shape) string {
	color := html.EscapeString(s.Color)
	switch s.Type {
	case catalog.Rectangle:
		return fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s"/>`,
			num(s.X), num(s.Y), num(s.Width), num(s.Height), color, color)
	case catalog.Square:
		return fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s"/>`,
			num(s.X), num(s.Y), num(s.Width), num(s.Width), color, color)
	case catalog.Circle:
		return fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s"/>`,
			num(s.X), num(s.Y), num(s.Width/2), color, color)
	case catalog.Ellipse:
		return fmt.Sprintf(`<ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="%s" stroke="%s"/>`,
			num(s.X), num(s.Y), num(s.Width/2), num(s.Height/2), color, color)
	case catalog.Line:
		return fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%d"/>`,
			num(s.X), num(s.Y), num(s.X+s.Width), num(s.Y+s.Height), color, lineWidth)
	case catalog.Triangle:
		v := catalog.TriangleVertices(s)
		pts := make([]string, len(v))
		for i, p := range v {
			pts[i] = num(p[0]) + "," + num(p[1])
		}
		return fmt.Sprintf(`<polygon points="%s" fill="%s" stroke="%s"/>`,
			strings.Join(pts, " "), color, color)
	}
	return ""
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
