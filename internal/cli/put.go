package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/prompt-canvas/internal/model"
	"github.com/rcliao/prompt-canvas/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "draw [prompt]",
		Short: "Generate one drawing from a prompt",
		Long: "Generate one drawing from a prompt, on top of a saved canvas or an empty one. " +
			"The prompt can be a positional arg or piped via stdin.",
		Run: runDraw,
	}

	cmd.Flags().Int64("canvas", 0, "Draw on top of this saved canvas")
	cmd.Flags().String("save", "", "Save existing plus new drawings as a new canvas with this title")

	RootCmd.AddCommand(cmd)
}

type drawResult struct {
	Drawing model.Drawing      `json:"drawing"`
	Saved   *model.SavedCanvas `json:"saved,omitempty"`
}

func runDraw(cmd *cobra.Command, args []string) {
	canvasID, _ := cmd.Flags().GetInt64("canvas")
	saveTitle, _ := cmd.Flags().GetString("save")

	var prompt string
	if len(args) > 0 {
		prompt = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			prompt = string(b)
		}
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		exitErr("draw", session.ErrEmptyPrompt)
	}

	ctx := cmd.Context()
	cfg := loadConfig()
	logger := newLogger(cfg)
	defer logger.Sync()
	defer setupTracing(ctx, cfg)()

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	existing := []model.Drawing{}
	if canvasID > 0 {
		c, err := s.LoadCanvas(ctx, canvasID)
		if err != nil {
			exitErr("load canvas", err)
		}
		existing = c.Drawings
	}

	p := newPipeline(ctx, cfg, s, logger, nil)
	shapes, err := p.Generate(ctx, prompt, existing)
	if err != nil {
		exitErr("draw", err)
	}

	res := drawResult{Drawing: model.Drawing{Description: prompt, Shapes: shapes}}
	if saveTitle != "" {
		all := append(model.CloneDrawings(existing), res.Drawing)
		res.Saved, err = s.SaveCanvas(ctx, saveTitle, all)
		if err != nil {
			exitErr("save", err)
		}
	}
	printJSON(res)
}
