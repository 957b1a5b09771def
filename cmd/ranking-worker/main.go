// cmd/ranking-worker/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"product-ranking/internal/catalog"
	"product-ranking/internal/common/aws"
	"product-ranking/internal/common/camunda"
	"product-ranking/internal/common/config"
	"product-ranking/internal/common/database"
	"product-ranking/internal/common/logger"
	"product-ranking/internal/common/observability"
	"product-ranking/internal/profile"
	"product-ranking/internal/ranking"

	abv "product-ranking/internal/workers/ranking/assign-ab-variant"
	cps "product-ranking/internal/workers/ranking/calculate-product-score"
	gcr "product-ranking/internal/workers/ranking/get-category-recommendations"
	gpr "product-ranking/internal/workers/ranking/get-personalized-recommendations"
	gtp "product-ranking/internal/workers/ranking/get-trending-products"
	uup "product-ranking/internal/workers/ranking/update-user-profile"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting ranking worker...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
		zap.String("algorithmVersion", ranking.AlgorithmVersion),
	)

	obs, err := observability.New(cfg.App.Name, prometheus.DefaultRegisterer)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: cfg.Camunda.Plaintext,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch (optional) ---
	var searcher catalog.CandidateSearcher
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.Enabled() {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		searcher = catalog.NewSearcher(esClient.Client, esClient.Index, log)
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", esClient.Index))
	}

	// --- Profile store ---
	var store ranking.ProfileStore
	var redisClient *database.RedisClient
	switch cfg.Profiles.Backend {
	case config.ProfileBackendMemory:
		store = profile.NewMemoryStore()
		zapLog.Warn("Using in-memory profile store; profiles are lost on restart")
	default:
		redisClient = database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		store = profile.NewRedisStore(redisClient.Client, cfg.Profiles.Redis, log)
		zapLog.Info("Redis connected successfully")
	}

	// --- Trending publisher (optional) ---
	var publisher gtp.Publisher
	if cfg.Notifications.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.SNS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		publisher = aws.NewTrendingPublisher(snsClient, cfg.Notifications.SNS.TrendingTopicARN, log)
	}

	engine, err := ranking.NewEngine(cfg.Ranking, store, log)
	if err != nil {
		zapLog.Fatal("ranking engine init failed", zap.Error(err))
	}
	products := catalog.NewService(catalog.NewRepository(pg.DB, log), searcher, log)

	// --- Workers ---
	zc := zeebe.GetClient()
	var workers []worker.JobWorker
	register := func(taskType string, handler camunda.HandlerFunc) {
		if w := camunda.StartWorker(zc, taskType, config.GetWorkerConfig(cfg, taskType), handler, log); w != nil {
			workers = append(workers, w)
		}
	}

	register(cps.TaskType, cps.NewHandler(
		cps.LoadConfig(config.GetWorkerConfig(cfg, cps.TaskType)), engine, products, obs, log,
	).Handle)
	register(gtp.TaskType, gtp.NewHandler(
		gtp.LoadConfig(config.GetWorkerConfig(cfg, gtp.TaskType)), engine, products, publisher, obs, log,
	).Handle)
	register(gpr.TaskType, gpr.NewHandler(
		gpr.LoadConfig(config.GetWorkerConfig(cfg, gpr.TaskType)), engine, products, obs, log,
	).Handle)
	register(gcr.TaskType, gcr.NewHandler(
		gcr.LoadConfig(config.GetWorkerConfig(cfg, gcr.TaskType)), engine, products, obs, log,
	).Handle)
	register(uup.TaskType, uup.NewHandler(
		uup.LoadConfig(config.GetWorkerConfig(cfg, uup.TaskType)), engine, obs, log,
	).Handle)
	register(abv.TaskType, abv.NewHandler(
		abv.LoadConfig(config.GetWorkerConfig(cfg, abv.TaskType)), obs, log,
	).Handle)

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	checks := map[string]func(context.Context) error{
		"zeebe":    zeebe.HealthCheck,
		"postgres": pg.Ping,
	}
	if redisClient != nil {
		checks["redis"] = redisClient.Ping
	}
	if esClient != nil {
		checks["elasticsearch"] = esClient.Ping
	}

	srv := &http.Server{
		Addr:              cfg.Server.MetricsAddr,
		Handler:           newHealthMux(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Ranking worker stopped gracefully")
}

// newHealthMux serves liveness, readiness (every check must pass) and metrics.
func newHealthMux(checks map[string]func(context.Context) error) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not_ready"
		}
		writeJSON(w, status, map[string]interface{}{
			"status": state,
			"checks": results,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
