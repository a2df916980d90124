// Package cli implements the prompt-canvas CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/prompt-canvas/internal/catalog"
	"github.com/rcliao/prompt-canvas/internal/config"
	"github.com/rcliao/prompt-canvas/internal/generate"
	"github.com/rcliao/prompt-canvas/internal/llm"
	"github.com/rcliao/prompt-canvas/internal/logging"
	"github.com/rcliao/prompt-canvas/internal/metrics"
	"github.com/rcliao/prompt-canvas/internal/store"
	"github.com/rcliao/prompt-canvas/internal/tracing"
)

var (
	dbPath     string
	configPath string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "prompt-canvas",
	Short: "Build 2D drawings from natural-language prompts",
	Long:  "Describe an object, get shapes. Drawings stack up on a 600x400 canvas, with undo/redo and SQLite-backed saved canvases.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $PROMPT_CANVAS_DB or ~/.prompt-canvas/canvas.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $PROMPT_CANVAS_CONFIG or ~/.prompt-canvas/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

func loadConfig() *config.Config {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	return cfg
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.Storage.Path, catalog.Default().Names()...)
}

func newLogger(cfg *config.Config) *zap.Logger {
	logger, err := logging.New(cfg.Logger)
	if err != nil {
		exitErr("logger", err)
	}
	return logger
}

// setupTracing installs the configured tracer and returns its shutdown hook.
func setupTracing(ctx context.Context, cfg *config.Config) func() {
	shutdown, err := tracing.Setup(ctx, cfg.Tracer)
	if err != nil {
		exitErr("tracer", err)
	}
	return func() { shutdown(context.Background()) }
}

// newPipeline builds the generation pipeline over the model client. The
// accepted kinds are the catalog kinds that storage also knows.
func newPipeline(ctx context.Context, cfg *config.Config, st store.Store, logger *zap.Logger, m *metrics.Collector) *generate.Pipeline {
	if cfg.LLM.APIKey == "" {
		exitErr("llm", errors.New("no API key: set llm.api_key, PROMPT_CANVAS_API_KEY or GEMINI_API_KEY"))
	}
	kinds, err := st.ShapeKinds(ctx)
	if err != nil {
		exitErr("shape kinds", err)
	}
	cat := catalog.Default().Restrict(kinds)
	return generate.NewPipeline(llm.New(cfg.LLM, logger), cat, logger, generate.WithMetrics(m))
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
