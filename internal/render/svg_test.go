package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/prompt-canvas/internal/model"
)

func TestElement(t *testing.T) {
	tests := []struct {
		shape model.Shape
		want  string
	}{
		{
			model.Shape{Type: "Rectangle", X: 10, Y: 20, Width: 30, Height: 40, Color: "#111"},
			`<rect x="10" y="20" width="30" height="40" fill="#111" stroke="#111"/>`,
		},
		{
			model.Shape{Type: "Square", X: 10, Y: 20, Width: 30, Height: 99, Color: "#222"},
			`<rect x="10" y="20" width="30" height="30" fill="#222" stroke="#222"/>`,
		},
		{
			model.Shape{Type: "Circle", X: 300, Y: 200, Width: 100, Height: 7, Color: "#ff0000"},
			`<circle cx="300" cy="200" r="50" fill="#ff0000" stroke="#ff0000"/>`,
		},
		{
			model.Shape{Type: "Ellipse", X: 100, Y: 100, Width: 80, Height: 40, Color: "#333"},
			`<ellipse cx="100" cy="100" rx="40" ry="20" fill="#333" stroke="#333"/>`,
		},
		{
			model.Shape{Type: "Line", X: 10, Y: 10, Width: 50, Height: -5, Color: "#444"},
			`<line x1="10" y1="10" x2="60" y2="5" stroke="#444" stroke-width="3"/>`,
		},
		{
			model.Shape{Type: "Triangle", X: 100, Y: 50, Width: 60, Height: 40.5, Color: "#555"},
			`<polygon points="130,50 100,90.5 160,90.5" fill="#555" stroke="#555"/>`,
		},
		{
			model.Shape{Type: "Star", X: 1, Y: 1, Width: 1, Height: 1},
			``,
		},
	}
	for _, tt := range tests {
		t.Run(tt.shape.Type, func(t *testing.T) {
			assert.Equal(t, tt.want, Element(tt.shape))
		})
	}
}

func TestSVGDocument(t *testing.T) {
	var b strings.Builder
	err := SVG(&b, []model.Drawing{
		{Description: `a "sun" <hot>`, Shapes: []model.Shape{
			{Type: "Circle", X: 500, Y: 60, Width: 40, Color: "#ffcc00"},
			{Type: "Star"},
		}},
	})
	require.NoError(t, err)

	out := b.String()
	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="600" height="400" viewBox="0 0 600 400">`))
	assert.Contains(t, out, "<title>a &#34;sun&#34; &lt;hot&gt;</title>")
	assert.Equal(t, 1, strings.Count(out, "<circle"))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestSVGEmpty(t *testing.T) {
	var b strings.Builder
	require.NoError(t, SVG(&b, nil))
	assert.NotContains(t, b.String(), "<g>")
}
