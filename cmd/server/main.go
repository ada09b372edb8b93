package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"kyckaro/internal/audit"
	"kyckaro/internal/auth"
	"kyckaro/internal/auth/revocation"
	"kyckaro/internal/auth/rolestore"
	"kyckaro/internal/jwttoken"
	"kyckaro/internal/platform/config"
	"kyckaro/internal/platform/httpserver"
	"kyckaro/internal/platform/logger"
	platformmetrics "kyckaro/internal/platform/metrics"
	"kyckaro/internal/platform/postgres"
	platformredis "kyckaro/internal/platform/redis"
	submissionhandler "kyckaro/internal/submission/handler"
	submissionmetrics "kyckaro/internal/submission/metrics"
	"kyckaro/internal/submission/service"
	submissionstore "kyckaro/internal/submission/store"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := platformmetrics.New()
	reviewMetrics := submissionmetrics.New()

	// Persistence: Postgres when configured, in-memory otherwise.
	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("postgres unavailable", "error", err)
		os.Exit(1)
	}

	var submissions submissionstore.Store
	var roles rolestore.Store
	if db != nil {
		pgSubmissions := submissionstore.NewPostgres(db, reviewMetrics)
		pgRoles := rolestore.NewPostgres(db)
		if err := pgSubmissions.Migrate(ctx); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		if err := pgRoles.Migrate(ctx); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		submissions = pgSubmissions
		roles = pgRoles
		log.Info("using postgres stores")
	} else {
		submissions = submissionstore.NewInMemory()
		roles = rolestore.NewInMemory()
		log.Info("using in-memory stores")
	}

	// Sign-out revocation: Redis when configured, in-memory otherwise.
	var revocations revocation.Store = revocation.NewInMemory()
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		revocations = revocation.NewRedis(redisClient.Client)
		defer redisClient.Close()
		log.Info("using redis revocation store")
	}

	// Audit trail: Kafka sink when brokers are configured, in-process
	// otherwise.
	var auditSink audit.Store = audit.NewInMemory()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafka(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		auditSink = kafkaSink
		log.Info("publishing audit events to kafka", "topic", cfg.AuditTopic)
	}
	auditInbox := make(chan audit.Event, 256)
	auditWorker := audit.NewWorker(auditSink, auditInbox, log)
	auditor := audit.NewChannelPublisher(auditInbox, log)

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	resolver := auth.NewResolver(tokens, roles, revocations, auth.WithAuditor(auditor))

	review := service.NewReviewService(submissions,
		service.WithLogger(log),
		service.WithMetrics(reviewMetrics),
		service.WithAuditor(auditor),
	)

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	// Scope the API middleware chain away from the operational endpoints.
	router.Group(func(r chi.Router) {
		submissionhandler.New(review, resolver, resolver, log, httpMetrics).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting kyckaro review gateway", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := auditWorker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
