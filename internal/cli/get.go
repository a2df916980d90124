package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/prompt-canvas/internal/render"
)

func init() {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print a saved canvas as JSON",
		Run:   runShow,
	}
	showCmd.Flags().Int64("id", 0, "Canvas id (required)")
	showCmd.MarkFlagRequired("id")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render a saved canvas as SVG",
		Run:   runRender,
	}
	renderCmd.Flags().Int64("id", 0, "Canvas id (required)")
	renderCmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")
	renderCmd.MarkFlagRequired("id")

	RootCmd.AddCommand(showCmd, renderCmd)
}

func runShow(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetInt64("id")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c, err := s.LoadCanvas(cmd.Context(), id)
	if err != nil {
		exitErr("show", err)
	}
	printJSON(c)
}

func runRender(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetInt64("id")
	out, _ := cmd.Flags().GetString("out")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c, err := s.LoadCanvas(cmd.Context(), id)
	if err != nil {
		exitErr("render", err)
	}

	w := cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			exitErr("create output", err)
		}
		defer f.Close()
		w = f
	}
	if err := render.SVG(w, c.Drawings); err != nil {
		exitErr("render", err)
	}
}
