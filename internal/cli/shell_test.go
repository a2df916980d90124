package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/prompt-canvas/internal/catalog"
	"github.com/rcliao/prompt-canvas/internal/generate"
	"github.com/rcliao/prompt-canvas/internal/model"
	"github.com/rcliao/prompt-canvas/internal/session"
	"github.com/rcliao/prompt-canvas/internal/store"
)

type cannedModel string

func (m cannedModel) Complete(context.Context, string) (string, error) {
	return string(m), nil
}

func newTestShell(t *testing.T) (*shell, *strings.Builder) {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), catalog.Default().Names()...)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	p := generate.NewPipeline(cannedModel(`[{"type":"Square","x":10,"y":10,"width":20,"height":20,"color":"#000"}]`), catalog.Default(), nil)
	sess := session.New(p, st, nil)
	require.NoError(t, sess.Bootstrap(context.Background()))

	var out strings.Builder
	return newShell(sess, &out), &out
}

func TestShellSession(t *testing.T) {
	sh, out := newTestShell(t)
	svgPath := filepath.Join(t.TempDir(), "c.svg")

	script := strings.Join([]string{
		"draw a box",
		"draw another box",
		"undo",
		"redo",
		"svg " + svgPath,
		"save boxes",
		"list",
		"open 0",
		"draw more",
		"quit",
		"draw never runs",
	}, "\n")
	require.NoError(t, sh.run(context.Background(), strings.NewReader(script)))

	got := out.String()
	assert.Contains(t, got, `added "a box" with 1 shapes`)
	assert.Contains(t, got, "1 drawings (undo 1, redo 1)")
	assert.Contains(t, got, "2 drawings (undo 2, redo 0)")
	assert.Contains(t, got, `saved canvas 1 "boxes"`)
	assert.Contains(t, got, "  0\tboxes\tloaded\t2 drawings")
	assert.Contains(t, got, "* 1\tnew canvas\tunsaved\t0 drawings")
	assert.Contains(t, got, `opened "boxes" (loaded, 2 drawings)`)
	assert.Contains(t, got, "error: "+session.ErrReadOnly.Error())
	assert.NotContains(t, got, "never runs")

	svg, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(svg), "<rect"))
}

func TestShellUnknownAndBadArgs(t *testing.T) {
	sh, out := newTestShell(t)

	require.NoError(t, sh.run(context.Background(), strings.NewReader("bogus\nopen x\nopen 9\nsave\nlog\n")))

	got := out.String()
	assert.Contains(t, got, `unknown command "bogus"`)
	assert.Contains(t, got, "open needs a canvas index")
	assert.Contains(t, got, session.ErrNoSuchCanvas.Error())
	assert.Contains(t, got, session.ErrEmptyName.Error())
}

func TestShellLog(t *testing.T) {
	sh, out := newTestShell(t)

	require.NoError(t, sh.run(context.Background(), strings.NewReader("draw a box\nlog\n")))
	assert.Contains(t, out.String(), "user: a box\nbot: "+session.MsgDrawingAdded+"\n")
}

func TestCheckShapes(t *testing.T) {
	got := checkShapes(catalog.Default(), []model.Shape{
		{Type: "Circle", X: 50, Y: 50, Width: 200},
		{Type: "Circle", X: 300, Y: 200, Width: 100},
		{Type: "Star"},
	})
	require.Len(t, got, 3)
	assert.True(t, got[0].Known)
	assert.False(t, got[0].InCanvas)
	assert.True(t, got[1].InCanvas)
	assert.False(t, got[2].Known)
	assert.False(t, got[2].InCanvas)
}
