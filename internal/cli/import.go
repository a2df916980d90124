package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/prompt-canvas/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import canvases from JSON",
		Long: "Import canvases in the format produced by export, from --file or stdin. Each becomes a new " +
			"canvas. Import stops at the first canvas holding a shape kind storage does not know.",
		Run: runImport,
	}

	cmd.Flags().String("file", "", "JSON file produced by export (default: stdin)")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	file, _ := cmd.Flags().GetString("file")

	var in io.Reader = os.Stdin
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			exitErr("open file", err)
		}
		defer f.Close()
		in = f
	}

	var canvases []model.Canvas
	if err := json.NewDecoder(in).Decode(&canvases); err != nil {
		exitErr("parse json", err)
	}

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.Import(cmd.Context(), canvases)
	if err != nil {
		exitErr(fmt.Sprintf("import (%d of %d imported)", imported, len(canvases)), err)
	}

	printJSON(map[string]int{"imported": imported})
}
