package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "canvases",
		Short: "List saved canvases",
		Run:   runCanvases,
	}

	RootCmd.AddCommand(cmd)
}

func runCanvases(cmd *cobra.Command, args []string) {
	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	canvases, err := s.ListCanvases(cmd.Context())
	if err != nil {
		exitErr("list canvases", err)
	}

	if formatFlag == "text" {
		for _, c := range canvases {
			fmt.Printf("%d\t%s\n", c.ID, c.Title)
		}
		return
	}
	printJSON(canvases)
}
