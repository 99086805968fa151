package commands

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/pdie/internal/api"
	"github.com/wonny/pdie/internal/api/handlers"
	"github.com/wonny/pdie/internal/metrics"
	"github.com/wonny/pdie/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API",
	Long: `Starts the read-only HTTP API, the websocket stream and the weekly
scoring scheduler.

Endpoints:
  GET  /health                    - Health check
  GET  /api/customers/{id}?week=N - Customer risk view
  GET  /api/portfolio/snapshot    - Latest-week snapshot
  GET  /api/portfolio/kpis        - Portfolio KPIs
  GET  /api/portfolio/queue       - RM case queue
  POST /api/impact/simulate       - Impact simulation
  GET  /api/stream                - Websocket event stream
  GET  /metrics                   - Prometheus metrics

Example:
  go run ./cmd/pdie api
  go run ./cmd/pdie api --port 8080 --no-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort        string
	apiNoScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (default: PORT)")
	apiCmd.Flags().BoolVar(&apiNoScheduler, "no-scheduler", false, "serve only, skip the weekly scoring job")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()
	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.log

	client, err := redis.New(ctx, a.cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()
	cache := redis.NewCache(client, "pdie")

	// Warm the report before accepting traffic
	if _, _, err := a.service.Refresh(ctx); err != nil {
		return fmt.Errorf("initial scoring: %w", err)
	}

	hub := api.NewHub(log)
	health := handlers.NewHealthHandler(a.service, nil)
	if a.db != nil {
		health = handlers.NewHealthHandler(a.service, a.db)
	}
	router := api.NewRouter(a.cfg, api.Deps{
		Portfolio: handlers.NewPortfolioHandler(a.service, cache, redis.NewRateLimiter(client, "pdie"), log),
		Health:    health,
		Hub:       hub,
		Logger:    log,
	})
	server := api.New(a.cfg, log, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if a.db != nil && a.cfg.MetricsEnabled {
		g.Go(func() error {
			metrics.StartPoolStatsCollector(gctx, a.db.Pool, 15*time.Second)
			return nil
		})
	}

	if !apiNoScheduler {
		sched, err := newScheduler(a, hub, cache)
		if err != nil {
			return err
		}
		sched.Start()
		g.Go(func() error {
			<-gctx.Done()
			sched.Stop()
			return nil
		})
	}

	g.Go(server.Start)

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := shutdownContext()
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	fmt.Fprintf(cmd.ErrOrStderr(), "✅ Server running on http://localhost:%s (Ctrl+C to stop)\n", a.cfg.Port)

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("API server stopped")
	return nil
}
