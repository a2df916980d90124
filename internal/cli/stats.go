package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count canvases, drawings and shapes",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	st, err := s.Stats(cmd.Context(), cfg.Storage.Path)
	if err != nil {
		exitErr("stats", err)
	}

	if formatFlag == "text" {
		fmt.Printf("db:       %s (%d bytes)\n", st.DBPath, st.DBSizeBytes)
		fmt.Printf("canvases: %d\ndrawings: %d\nshapes:   %d\n", st.Canvases, st.Drawings, st.Shapes)
		for _, k := range st.Kinds {
			fmt.Printf("  %-10s %d\n", k.Kind, k.Count)
		}
		return
	}
	printJSON(st)
}
