package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/prompt-canvas/internal/api"
	"github.com/rcliao/prompt-canvas/internal/metrics"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the drawings HTTP API",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: server.addr from config)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")

	cfg := loadConfig()
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg)
	defer logger.Sync()
	defer setupTracing(context.Background(), cfg)()

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	m := metrics.NewCollector("prompt_canvas")
	p := newPipeline(ctx, cfg, s, logger, m)

	srv := api.NewServer(p, s, logger,
		api.WithMetrics(m),
		api.WithAllowedOrigins(cfg.Server.AllowedOrigins),
	)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		logger.Error("serve", zap.Error(err))
		exitErr("serve", err)
	}
}
