package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/prompt-canvas/internal/catalog"
)

func init() {
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List supported shape kinds and how their fields are read",
		Run:   runKinds,
	}

	RootCmd.AddCommand(cmd)
}

type kindInfo struct {
	Name        string   `json:"name"`
	Anchor      string   `json:"anchor"`
	Size        string   `json:"size"`
	Constraints []string `json:"constraints"`
}

func runKinds(cmd *cobra.Command, args []string) {
	specs := catalog.Default().Specs()

	if formatFlag == "text" {
		for _, s := range specs {
			fmt.Printf("%s\n  %s\n  %s\n  %s\n", s.Name, s.Anchor, s.Size, strings.Join(s.Constraints, "; "))
		}
		return
	}

	kinds := make([]kindInfo, len(specs))
	for i, s := range specs {
		kinds[i] = kindInfo{Name: s.Name, Anchor: s.Anchor, Size: s.Size, Constraints: s.Constraints}
	}
	printJSON(kinds)
}
