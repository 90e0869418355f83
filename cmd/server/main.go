package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminhandler "caseline/internal/admin"
	appealhandler "caseline/internal/appeal/handler"
	casereview "caseline/internal/casereview"
	casereviewhandler "caseline/internal/casereview/handler"
	casereviewmetrics "caseline/internal/casereview/metrics"
	compliancehandler "caseline/internal/compliance/handler"
	goldcardhandler "caseline/internal/goldcard/handler"
	"caseline/internal/platform/config"
	"caseline/internal/platform/httpserver"
	"caseline/internal/platform/logger"
	platformredis "caseline/internal/platform/redis"
	"caseline/internal/scoring"
	"caseline/internal/session"
	sessionhandler "caseline/internal/session/handler"
	httptransport "caseline/internal/transport/http"
	"caseline/pkg/platform/audit"
	auditpublisher "caseline/pkg/platform/audit/publisher"
	auditmemory "caseline/pkg/platform/audit/store/memory"
	auditpostgres "caseline/pkg/platform/audit/store/postgres"
	auditworker "caseline/pkg/platform/audit/worker"
	"caseline/pkg/platform/middleware/auth"
	"caseline/pkg/platform/middleware/ratelimit"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Audit archive: postgres when a DSN is configured, memory otherwise.
	var store audit.Store
	if cfg.Archive.PostgresDSN != "" {
		pg, err := auditpostgres.Open(ctx, cfg.Archive.PostgresDSN)
		if err != nil {
			log.Error("audit archive connection failed", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
		log.Info("audit archive backed by postgres")
	} else {
		store = auditmemory.NewInMemoryStore()
		log.Info("audit archive held in memory")
	}

	var publisher audit.Publisher
	if len(cfg.Archive.KafkaBrokers) > 0 {
		kafka, err := auditpublisher.NewKafka(cfg.Archive.KafkaBrokers, cfg.Archive.KafkaTopic)
		if err != nil {
			log.Error("kafka publisher setup failed", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		publisher = kafka
		log.Info("audit events mirrored to kafka", "topic", cfg.Archive.KafkaTopic)
	}

	worker := auditworker.New(store, publisher, log, 0)
	go func() {
		if err := worker.Run(ctx); err != nil && err != context.Canceled {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	// Rate limiting: shared Redis counters when configured, else in-process.
	var limiter ratelimit.Limiter
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		limiter = ratelimit.NewRedisLimiter(redisClient, 300, time.Minute)
	} else {
		limiter = ratelimit.NewMemoryLimiter(300, time.Minute)
	}

	validator, err := auth.NewValidator(cfg.JWTSigningKey)
	if err != nil {
		log.Error("jwt validator setup failed", "error", err)
		os.Exit(1)
	}

	registry := session.NewRegistry()
	sessions := session.NewService(registry, worker, log)
	reviews := casereview.New(sessions, scoring.NewScorer(), log, casereviewmetrics.New())

	router := httptransport.NewRouter(httptransport.Handlers{
		Cases:      sessionhandler.New(sessions, log),
		Reviews:    casereviewhandler.New(reviews, log),
		Appeals:    appealhandler.New(log),
		GoldCard:   goldcardhandler.New(log),
		Compliance: compliancehandler.New(log),
		Admin:      adminhandler.New(store, log),
	}, httptransport.Options{
		Logger:     log,
		Validator:  validator,
		Limiter:    limiter,
		AdminToken: cfg.AdminToken,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("caseline listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
