package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all canvases as JSON",
		Long:  "Write every saved canvas, drawings and shapes included, as a JSON array to stdout or --output.",
		Run:   runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	output, _ := cmd.Flags().GetString("output")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	canvases, err := s.ExportAll(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}

	if output == "" {
		printJSON(canvases)
		return
	}
	b, err := json.MarshalIndent(canvases, "", "  ")
	if err != nil {
		exitErr("encode", err)
	}
	if err := os.WriteFile(output, append(b, '\n'), 0o644); err != nil {
		exitErr("write export", err)
	}
}
