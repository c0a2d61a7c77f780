// @title        BileMo API
// @version      1.0
// @description  Phone catalogue and customer accounts for BileMo partners.
// @host         localhost:8080
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by the token returned by /api/login_check.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bilemo-api/internal/api"
	"bilemo-api/internal/cache"
	"bilemo-api/internal/config"
	"bilemo-api/internal/database"
	"bilemo-api/internal/fixtures"
	"bilemo-api/internal/handler"
	"bilemo-api/internal/logger"
	"bilemo-api/internal/metrics"
	"bilemo-api/internal/router"
	"bilemo-api/internal/serializer"
	"bilemo-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	_ "bilemo-api/docs"
)

const shutdownTimeout = 10 * time.Second

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	loadFixtures    = fixtures.Load
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc        = os.Exit
	cliArgs         = func() []string { return os.Args[1:] }

	metricsRegisterer prometheus.Registerer = prometheus.DefaultRegisterer
	metricsGatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
)

// cacheBackend builds the configured response cache backend and its cleanup.
func cacheBackend(cfg *config.Config) (cache.Backend, func(), error) {
	if cfg.Cache.Driver == config.CacheDriverMemory {
		mem := cache.NewMemoryBackend(cfg.Cache.Capacity, cfg.Cache.TTL)
		metrics.NewCacheEntriesGauge(metricsRegisterer, mem.Len)
		return mem, func() {}, nil
	}
	client, err := newRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisBackend(client, cfg.Cache.TTL), func() { _ = client.Close() }, nil
}

// parseFlags reads the command line. -rollback reverts every migration
// instead of serving.
func parseFlags(args []string) (rollback bool, err error) {
	fs := flag.NewFlagSet("service", flag.ContinueOnError)
	fs.BoolVar(&rollback, "rollback", false, "revert every database migration and exit")
	err = fs.Parse(args)
	return rollback, err
}

func rollbackMigrations(ctx context.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	log.Info().Msg("migrations rolled back")
	return nil
}

func run(ctx context.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	backend, closeBackend, err := cacheBackend(cfg)
	if err != nil {
		return fmt.Errorf("connect cache: %w", err)
	}
	defer closeBackend()
	responses := cache.NewResponseCache(backend, log)

	if cfg.SeedFixtures {
		if _, err := loadFixtures(ctx, db, cfg.WorkerCount, log); err != nil {
			return err
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(log)

	router.Setup(e, router.Options{
		Deps: handler.Deps{
			DB:       db,
			Cache:    responses,
			Versions: serializer.AcceptHeaderVersion{Default: cfg.APIVersion},
			MaxLimit: cfg.MaxPageLimit,
			Log:      log,
		},
		Tokens:     service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL),
		Cache:      responses,
		Log:        log,
		Registerer: metricsRegisterer,
		Gatherer:   metricsGatherer,
	})

	log.Info().
		Str("addr", cfg.Addr()).
		Str("env", cfg.Env).
		Str("cache_driver", cfg.Cache.Driver).
		Msg("starting server")
	errCh := make(chan error, 1)
	go func() { errCh <- startServer(e, cfg.Addr()) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rollback, err := parseFlags(cliArgs())
	switch {
	case err != nil:
	case rollback:
		err = rollbackMigrations(ctx)
	default:
		err = run(ctx)
	}
	stop()
	if err != nil {
		l := logger.Get()
		if l.GetLevel() == zerolog.Disabled {
			fmt.Fprintln(os.Stderr, err)
		}
		l.Error().Err(err).Msg("service stopped")
		exitFunc(1)
	}
}
