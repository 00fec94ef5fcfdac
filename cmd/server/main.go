package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"contentguard/internal/audit"
	"contentguard/internal/auth"
	"contentguard/internal/business"
	businesshandler "contentguard/internal/business/handler"
	businessmetrics "contentguard/internal/business/metrics"
	"contentguard/internal/classifier"
	"contentguard/internal/decision"
	decisionhandler "contentguard/internal/decision/handler"
	decisionmetrics "contentguard/internal/decision/metrics"
	"contentguard/internal/fusion"
	"contentguard/internal/platform/config"
	"contentguard/internal/platform/httpserver"
	"contentguard/internal/platform/logger"
	"contentguard/internal/platform/metrics"
	platformredis "contentguard/internal/platform/redis"
	"contentguard/internal/policy"
	policyhandler "contentguard/internal/policy/handler"
	httptransport "contentguard/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx := context.Background()

	// Policy is load-bearing: refuse to start on a broken policy file rather
	// than degrade silently.
	policyCfg, err := policy.Load(cfg.PolicyPath)
	if err != nil {
		return err
	}
	policyStore := policy.NewStore(policyCfg, cfg.PolicyPath)

	var (
		db        *sql.DB
		ready     func(ctx context.Context) error
		profiles  decision.ProfileStore
		bizLookup businesshandler.Store
	)
	bizMetrics := businessmetrics.New()

	if cfg.PostgresDSN != "" {
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		pgStore := business.NewPostgresStore(db, bizMetrics)
		profiles, bizLookup = pgStore, pgStore
		ready = func(ctx context.Context) error { return db.PingContext(ctx) }
		log.Info("using postgres business store")
	} else {
		memStore := business.NewMemoryStore()
		if err := memStore.Seed(ctx); err != nil {
			return err
		}
		profiles, bizLookup = memStore, memStore
		log.Info("using in-memory business store with seeded profiles")
	}

	rdb, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		if pgStore, ok := profiles.(*business.PostgresStore); ok {
			cached := business.NewCachedStore(pgStore, rdb.Client, cfg.Redis.CacheTTL, bizMetrics)
			profiles, bizLookup = cached, cached
		}
		log.Info("redis profile cache enabled")
	}

	var auditStore audit.Store
	if db != nil {
		auditStore = audit.NewPostgresStore(db)
	} else {
		auditStore = audit.NewMemoryStore()
	}

	var sink audit.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, audit.DecisionsTopic, log)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("kafka audit sink enabled", "brokers", cfg.KafkaBrokers)
	}

	var predictor classifier.Predictor
	if cfg.ClassifierBaseURL != "" {
		predictor = classifier.NewClient(cfg.ClassifierBaseURL, cfg.ClassifierTimeout)
		log.Info("using HTTP classifier", "base_url", cfg.ClassifierBaseURL)
	} else {
		predictor = classifier.KeywordPredictor{}
		log.Info("using keyword predictor")
	}

	svc := decision.NewService(decision.ServiceConfig{
		Engine:            decision.NewEngine(decision.Options{FallbackConfidenceFirst: cfg.FallbackConfidenceFirst}),
		Policies:          policyStore,
		Profiles:          profiles,
		Predictor:         predictor,
		Audit:             audit.NewPublisher(auditStore, sink, log),
		Metrics:           decisionmetrics.New(),
		Logger:            log,
		FusionWeights:     fusion.Weights{Text: cfg.FusionTextWeight, Image: cfg.FusionImageWeight},
		ClassifierTimeout: cfg.ClassifierTimeout,
	})

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:   log,
		Metrics:  metrics.New(),
		Decision: decisionhandler.New(svc, log),
		Policy:   policyhandler.New(policyStore, log),
		Business: businesshandler.New(bizLookup, log),
		Admin:    auth.NewService(cfg.JWTSigningKey, "contentguard"),
		Ready:    ready,
	})

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting contentguard", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
