package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/psantana5/cpxanno/internal/report"
	"github.com/psantana5/cpxanno/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve annotation rendering over HTTP",
	Long: `Starts an HTTP server that renders model documents into .ann files.

Endpoints:
  POST /v1/annotations   model document (YAML or JSON) in, .ann file out
  GET  /health           liveness
  GET  /metrics          prometheus metrics

Example:
  cpxanno serve --addr :8080
  curl --data-binary @facility.yaml localhost:8080/v1/annotations`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Float64("rate-limit", 10, "requests per second allowed per client")
	serveCmd.Flags().Int("burst", 20, "request burst allowed per client")
	serveCmd.Flags().StringSlice("trusted-proxy", nil, "proxy host whose X-Forwarded-For is honoured (repeatable)")

	bindFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	bindFlag("server.rate_limit", serveCmd.Flags().Lookup("rate-limit"))
	bindFlag("server.burst", serveCmd.Flags().Lookup("burst"))
	bindFlag("server.trusted_proxies", serveCmd.Flags().Lookup("trusted-proxy"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rec := report.NewRecorder()
	handler := server.NewHandler(newPrinter(), rec, logger, cfg.Server.MaxBodyBytes)
	limiter := server.NewLimiter(cfg.Server.RateLimit, cfg.Server.Burst)
	limiter.TrustProxies(cfg.Server.TrustedProxies...)

	srv := server.New(cfg.Server.Addr, handler, limiter, logger)
	return srv.Run(ctx)
}
