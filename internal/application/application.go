// Package application собирает приложение: конфиг, коннекторы, движок
// переговоров, HTTP-сервер и фоновые модули под одним errgroup.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"verhandlungsbot/internal/config"
	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/domain/policy"
	"verhandlungsbot/internal/domain/service/guard"
	"verhandlungsbot/internal/domain/service/negotiate"
	"verhandlungsbot/internal/domain/value"
	"verhandlungsbot/internal/infrastructure/generation"
	"verhandlungsbot/internal/infrastructure/notifier"
	"verhandlungsbot/internal/infrastructure/persistence"
	"verhandlungsbot/internal/infrastructure/recorder"
	"verhandlungsbot/internal/infrastructure/session"
	"verhandlungsbot/internal/server"
	"verhandlungsbot/internal/worker"
	"verhandlungsbot/pkg/application/connectors"
	"verhandlungsbot/pkg/application/modules"
	"verhandlungsbot/pkg/httpx"
	"verhandlungsbot/pkg/logx"
	"verhandlungsbot/pkg/middlewarex"
)

const (
	appName        = "verhandlungsbot"
	appVersion     = "1.0.0"
	logFieldMaxLen = 4096

	sessionBackendRedis = "redis"
)

func Run(ctx context.Context, log *slog.Logger) error { //nolint:funlen
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	pol := policy.Policy{
		ListPrice:         value.Price(cfg.Policy.ListPrice),
		FloorPrice:        value.Price(cfg.Policy.FloorPrice),
		MaxReplySentences: cfg.Policy.MaxReplySentences,
		Tone:              cfg.Policy.Tone,
	}
	if err := pol.Validate(); err != nil {
		return fmt.Errorf("policy.Validate: %w", err)
	}

	// Postgres: стоки результатов и транскриптов.
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db.Ping: %w", err)
	}

	resultRepo := persistence.NewResultRepository(db)
	transcriptRepo := persistence.NewTranscriptRepository(db)

	// Redis нужен хранилищу сессий и/или очереди стоков.
	var rd *connectors.Redis
	if cfg.Session.Backend == sessionBackendRedis || cfg.Queue.Enabled {
		rd = &connectors.Redis{
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			Address:            cfg.Redis.Address,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
		}
		rd.Client(ctx)
		defer rd.Close(ctx)
	}

	var store session.Store
	if cfg.Session.Backend == sessionBackendRedis {
		store = session.NewRedisStore(rd.Client(ctx), cfg.Session.TTL)
	} else {
		store = session.NewMemoryStore(cfg.Session.TTL)
	}

	var enqueuer recorder.Enqueuer
	if cfg.Queue.Enabled {
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DatabaseNumber,
		})
		defer asynqClient.Close() //nolint:errcheck

		enqueuer = asynqClient
	}

	rec := recorder.New(resultRepo, transcriptRepo, enqueuer)

	engine := negotiate.NewEngine(pol, guard.NewGuard(newGenerator(cfg.OpenAI, log))).
		WithVariantTag(cfg.Policy.VariantTag)

	g, ctx := errgroup.WithContext(ctx)

	// Уведомления исследователям, опционально.
	var concluded chan *entity.Result
	if cfg.Bot.Enabled {
		bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		concluded = make(chan *entity.Result, 64)

		g.Go(func() error {
			if err := bot.Run(ctx, concluded); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("bot.Run: %w", err)
			}
			return nil
		})
	}

	srv := server.NewServer(
		server.NewNegotiationServer(engine, store, session.NewLocker(), rec, pol, concluded),
		server.NewDashboardServer(resultRepo, transcriptRepo, cfg.Dashboard.Key),
	)

	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)
	srv.RegisterRoutes(router)

	modules.HTTPServer{ShutdownTimeout: cfg.Server.ShutdownTimeout}.Run(ctx, g, &http.Server{
		Addr:         cfg.Server.ListenAddress,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	modules.ProbeServer{
		Name:          appName,
		Version:       appVersion,
		ListenAddress: cfg.Server.ProbeAddress,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.Server.MetricAddress}.Run(ctx, g)

	if cfg.Queue.Enabled {
		retry := worker.NewSinkRetry(resultRepo, transcriptRepo)

		modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DatabaseNumber,
		}.Run(ctx, g, modules.AsynqQueues{recorder.QueueSinks: cfg.Queue.Concurrency}, retry.Handlers()...)
	}

	log.Info("application started",
		slog.String("http", cfg.Server.ListenAddress),
		slog.String("session-backend", cfg.Session.Backend),
		slog.String("variant", cfg.Policy.VariantTag),
	)

	return g.Wait()
}

// newGenerator выбирает реализацию генератора: без ключа работаем
// на заглушке, чтобы стенд поднимался без внешнего сервиса.
func newGenerator(cfg config.OpenAI, log *slog.Logger) guard.Generator {
	if cfg.APIKey == "" {
		log.Warn("OPENAI_API_KEY is empty, using stub generator")
		return generation.NewStubGenerator()
	}

	return generation.NewOpenAIClient(generation.OpenAIParams{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
		HTTPClient: &http.Client{
			Transport: httpx.NewLoggingRoundTripper(
				http.DefaultTransport,
				httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
				httpx.WithLogFieldMaxLen(logFieldMaxLen),
			),
		},
	})
}
