package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	forumadapters "askboard/internal/forum/adapters"
	forumhandler "askboard/internal/forum/handler"
	forumservice "askboard/internal/forum/service"
	answerstore "askboard/internal/forum/store/answer"
	questionstore "askboard/internal/forum/store/question"
	identityhandler "askboard/internal/identity/handler"
	identityservice "askboard/internal/identity/service"
	sessionstore "askboard/internal/identity/store/session"
	userstore "askboard/internal/identity/store/user"
	"askboard/internal/platform/config"
	"askboard/internal/platform/httpserver"
	"askboard/internal/platform/logger"
	"askboard/internal/platform/metrics"
	"askboard/internal/platform/middleware"
	"askboard/internal/platform/postgres"
	platformredis "askboard/internal/platform/redis"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages. Without DATABASE_URL
// or REDIS_URL the process falls back to in-memory stores, which is enough
// for local development.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFile)
	m := metrics.New()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var (
		users    identityservice.UserStore
		sessions identityservice.SessionStore
	)
	if db != nil {
		users = userstore.NewPostgres(db)
	} else {
		users = userstore.New()
	}
	if redisClient != nil {
		sessions = sessionstore.NewRedis(redisClient)
	} else {
		sessions = sessionstore.New()
	}

	var (
		questions forumservice.QuestionStore
		answers   forumservice.AnswerStore
		forumTx   forumservice.ForumTx
	)
	if db != nil {
		questions = questionstore.NewPostgres(db)
		answers = answerstore.NewPostgres(db)
		forumTx = newForumPostgresTx(db, questions, answers)
	} else {
		questions = questionstore.New()
		answers = answerstore.New()
		forumTx = forumservice.NewMemoryTx(questions, answers)
	}

	identity := identityservice.New(users, sessions, m, cfg.SessionTTL, cfg.BcryptCost)
	forum := forumservice.New(questions, answers, forumadapters.NewUserDirectory(users), forumTx, m)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(m))

	identityhandler.New(identity, identity, log, cfg.SessionTTL).Register(r)
	forumhandler.New(forum, identity, log).Register(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, r)
	log.Info("starting askboard", "addr", cfg.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
