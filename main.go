package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vehicledash/internal/config"
	"vehicledash/internal/controllers"
	"vehicledash/internal/middleware"
	"vehicledash/internal/models"
	"vehicledash/internal/routes"
	"vehicledash/internal/services"
	"vehicledash/internal/ui"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	watch := flag.Bool("watch", false, "Run the terminal dashboard instead of the HTTP server")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *watch, logger); err != nil {
		logger.Fatal("vehicledash exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, watch bool, logger *zap.Logger) error {
	seed := cfg.Telemetry.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ranges := models.DefaultChannelRanges()
	gen, err := services.NewGenerator(rand.New(rand.NewSource(seed)), ranges)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewTelemetryMetrics(reg)

	opts := services.DefaultSessionOptions()
	opts.TickInterval = cfg.Telemetry.TickInterval
	opts.HistoryCapacity = cfg.Telemetry.HistoryCapacity
	opts.Observer = metrics

	session, err := services.NewSession(gen, opts, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Start(ctx); err != nil {
		return err
	}

	if watch {
		return ui.Run(session, session.Interval())
	}
	return serve(ctx, cfg, session, reg, metrics, logger)
}

func serve(ctx context.Context, cfg *config.Config, session *services.Session, reg *prometheus.Registry, metrics *services.TelemetryMetrics, logger *zap.Logger) error {
	hub := services.NewWebSocketHub(logger, metrics.SetClients)
	go hub.Run(ctx)
	unsubscribe := session.Subscribe(hub.PublishSnapshot)
	defer unsubscribe()

	sampler, err := services.NewHostSampler(logger)
	if err != nil {
		return err
	}
	hostCache := services.NewHostStatsCache(sampler, time.Second)
	assistant := services.NewAssistant(session.ChannelRanges(), logger)

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(
		middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		logger.Named("http"),
	))

	routes.RegisterTelemetryRoutes(r, controllers.NewTelemetryController(session))
	routes.RegisterAssistantRoutes(r, controllers.NewAssistantController(session, assistant, nil))
	routes.RegisterSystemRoutes(r, controllers.NewSystemController(hostCache, session.Running))
	routes.RegisterWebSocketRoutes(r, controllers.NewWebSocketController(hub, session, assistant, logger))
	if cfg.Metrics.Enabled {
		routes.RegisterMetricsRoute(r, cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
