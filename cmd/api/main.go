package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bryanwahyu/geo-gap-compass/internal/application"
	appai "github.com/bryanwahyu/geo-gap-compass/internal/application/ai"
	appvis "github.com/bryanwahyu/geo-gap-compass/internal/application/visibility"
	"github.com/bryanwahyu/geo-gap-compass/internal/config"
	domai "github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
	"github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
	anthropicai "github.com/bryanwahyu/geo-gap-compass/internal/infra/ai/anthropic"
	"github.com/bryanwahyu/geo-gap-compass/internal/infra/ai/mock"
	openaiai "github.com/bryanwahyu/geo-gap-compass/internal/infra/ai/openai"
	rediscache "github.com/bryanwahyu/geo-gap-compass/internal/infra/cache/redis"
	mysqlp "github.com/bryanwahyu/geo-gap-compass/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/geo-gap-compass/internal/infra/db/postgres"
	"github.com/bryanwahyu/geo-gap-compass/internal/infra/fixtures"
	"github.com/bryanwahyu/geo-gap-compass/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/geo-gap-compass/internal/infra/storage"
	"github.com/bryanwahyu/geo-gap-compass/internal/infra/websearch/duckduckgo"
	"github.com/bryanwahyu/geo-gap-compass/internal/logger"
	"github.com/bryanwahyu/geo-gap-compass/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()
	checks := map[string]middleware.HealthChecker{}

	// run history (optional)
	runs, db, err := openRuns(ctx, cfg)
	if err != nil {
		zl.Fatal("database connect error", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	if db != nil {
		defer db.Close()
		checks["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// minio: fixtures source + report archive (optional)
	var store *minioStore.Store
	if cfg.Minio.Enabled {
		store, err = minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			zl.Fatal("minio init error", zap.Error(err))
		}
		checks["minio"] = middleware.CheckFunc(store.Ping)
	}

	src := fixtures.Source{
		CitationsPath:  cfg.Fixtures.CitationsPath,
		TimeSeriesPath: cfg.Fixtures.TimeSeriesPath,
	}
	if store != nil {
		src.Objects = store
		src.Prefix = cfg.Minio.FixturesPrefix
	}
	fx := fixtures.Load(ctx, src, zl)

	// web lookup, cached in redis when configured
	var lookup visibility.WebLookup = duckduckgo.NewClient(cfg.WebSearch.BaseURL, time.Duration(cfg.WebSearch.TimeoutSeconds)*time.Second)
	if cfg.Redis.Address != "" {
		rc, err := rediscache.NewClient(rediscache.Config{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			zl.Warn("redis unavailable, web lookups are not cached", zap.Error(err))
		} else {
			defer rc.Close()
			lookup = rediscache.NewLookupCache(rc, lookup, cfg.RedisTTL(), zl)
			checks["redis"] = &rediscache.HealthChecker{Client: rc}
		}
	}

	metrics := middleware.NewMetrics(prometheus.NewRegistry())

	client, model := newCompletionClient(cfg)
	pipeline := appai.NewPipeline(client, mock.NewGenerator(fx, cfg.MockDelay()), appai.Options{
		Provider:       cfg.AI.Provider,
		Model:          model,
		Temperature:    cfg.AI.Temperature,
		Timeout:        cfg.AITimeout(),
		Concurrency:    cfg.AI.Concurrency,
		FallbackToMock: cfg.AI.MockOnTotalFailure,
	}, zl, metrics)
	if !pipeline.Live() {
		zl.Warn("no live provider configured, serving mock completions", zap.String("provider", cfg.AI.Provider))
	}

	// init service
	svc := &appvis.Service{
		Pipeline:          pipeline,
		Runs:              runs,
		Lookup:            lookup,
		Trends:            fx,
		Clock:             application.SystemClock{},
		Log:               zl,
		ReportsPrefix:     cfg.Minio.ReportsPrefix,
		LookupConcurrency: cfg.AI.Concurrency,
	}
	if store != nil {
		svc.Archive = store
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		CORSOrigins:        cfg.Server.CORSOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		APIKeys:            cfg.Server.APIKeys,
		MaxPrompts:         cfg.AI.MaxPrompts,
		Metrics:            metrics,
		Health:             checks,
		Log:                zl,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		zl.Info("server listening",
			zap.String("addr", addr),
			zap.String("provider", cfg.AI.Provider),
			zap.String("model", model),
			zap.Bool("live", pipeline.Live()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	zl.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		zl.Error("shutdown error", zap.Error(err))
	}
}

// openRuns connects the run history store; both results are nil when no
// driver is configured.
func openRuns(ctx context.Context, cfg *config.Config) (visibility.RunRepository, *sql.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		return mysqlp.NewRunRepository(db), db, nil
	case config.DriverPostgres:
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		return postgresp.NewRunRepository(db), db, nil
	default:
		return nil, nil, nil
	}
}

// newCompletionClient returns nil for the mock provider.
func newCompletionClient(cfg *config.Config) (domai.Client, string) {
	model := cfg.AI.Model
	switch cfg.AI.Provider {
	case config.ProviderAnthropic:
		if model == "" || strings.HasPrefix(model, "gpt") {
			model = anthropicai.DefaultModel
		}
		return anthropicai.NewClient(cfg.AI.APIKey, model, cfg.AI.BaseURL), model
	case config.ProviderMock:
		return nil, mock.Model
	default:
		return openaiai.NewClient(cfg.AI.APIKey, model, cfg.AI.BaseURL), model
	}
}

// writeTimeout leaves room for every prompt wave of a maximal request.
func writeTimeout(cfg *config.Config) time.Duration {
	waves := (cfg.AI.MaxPrompts + cfg.AI.Concurrency - 1) / cfg.AI.Concurrency
	return time.Duration(waves)*cfg.AITimeout() + 15*time.Second
}
