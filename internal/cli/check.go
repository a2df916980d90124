package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/prompt-canvas/internal/catalog"
	"github.com/rcliao/prompt-canvas/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report which shapes fit inside the canvas",
		Long:  "Read a JSON array of shapes from --file (or stdin) and report, per shape, whether its kind is known and whether it lies fully inside the canvas.",
		Run:   runCheck,
	}

	cmd.Flags().String("file", "", "JSON file with an array of shapes (default: stdin)")

	RootCmd.AddCommand(cmd)
}

type shapeCheck struct {
	Index    int         `json:"index"`
	Shape    model.Shape `json:"shape"`
	Known    bool        `json:"known"`
	InCanvas bool        `json:"in_canvas"`
}

func runCheck(cmd *cobra.Command, args []string) {
	file, _ := cmd.Flags().GetString("file")

	var data []byte
	var err error
	if file != "" {
		data, err = os.ReadFile(file)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read shapes", err)
	}

	var shapes []model.Shape
	if err := json.Unmarshal(data, &shapes); err != nil {
		exitErr("parse json", err)
	}

	printJSON(checkShapes(catalog.Default(), shapes))
}

func checkShapes(cat *catalog.Catalog, shapes []model.Shape) []shapeCheck {
	out := make([]shapeCheck, len(shapes))
	for i, s := range shapes {
		out[i] = shapeCheck{Index: i, Shape: s, Known: cat.Has(s.Type), InCanvas: cat.InCanvas(s)}
	}
	return out
}
