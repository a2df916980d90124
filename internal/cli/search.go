package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/prompt-canvas/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find canvases by title or drawing",
		Long:  "Match the query against canvas titles and drawing descriptions. Newest canvases first, one result per canvas.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Query: strings.Join(args, " "),
		Limit: limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if formatFlag == "text" {
		for _, r := range results {
			if r.MatchDrawing != "" {
				fmt.Printf("%d\t%s\t(drawing: %s)\n", r.ID, r.Title, r.MatchDrawing)
			} else {
				fmt.Printf("%d\t%s\n", r.ID, r.Title)
			}
		}
		return
	}
	printJSON(results)
}
