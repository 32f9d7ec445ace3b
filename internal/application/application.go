package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"gig_market/internal/config"
	servicedeal "gig_market/internal/domain/service/deal"
	"gig_market/internal/infrastructure/notifier"
	"gig_market/internal/infrastructure/persistence"
	"gig_market/internal/server"
	"gig_market/internal/worker"
	"gig_market/pkg/application/connectors"
	"gig_market/pkg/application/modules"
	"gig_market/pkg/logx"
	"gig_market/pkg/middlewarex"
)

// Run собирает приложение из конфига и крутит все модули до отмены
// контекста: HTTP API, пробы, метрики, asynq-воркер и планировщик.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	rd := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := rd.Client(ctx)
	defer rd.Close(ctx)

	dealRepo := persistence.NewDealRepository(db)
	messageRepo := persistence.NewMessageRepository(db, redisClient)
	profileRepo := persistence.NewProfileRepository(db)

	dealService := servicedeal.NewService(dealRepo, messageRepo, profileRepo)

	if cfg.Bot.Token != "" {
		alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		dealService = dealService.WithNotifier(alertBot)
	}

	httpServer := newHTTPServer(cfg, server.NewServer(
		server.NewDealServer(dealService),
		server.NewProfileServer(profileRepo),
	))

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, httpServer)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricListenAddress,
	}.Run(ctx, g)

	modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
		Concurrency:   cfg.Worker.Concurrency,
	}.Run(ctx, g,
		modules.AsynqQueues{cfg.Worker.Queue: 1},
		worker.NewCompletionSweep(dealService).Handler(),
	)

	modules.AsynqScheduler{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
	}.Run(ctx, g, modules.AsynqScheduleEntry{
		Spec: cfg.Worker.CompleteSweepSchedule,
		Task: asynq.NewTask(worker.TaskDealCompleteSweep, nil),
		Opts: []asynq.Option{asynq.Queue(cfg.Worker.Queue)},
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

func newHTTPServer(cfg config.Config, srv server.Server) *http.Server {
	router := chi.NewRouter()

	masker := logx.NewSensitiveDataMasker()

	router.Use(
		middlewarex.TraceID,
		middlewarex.ProfileID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.HTTP.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.HTTP.LogFieldMaxLen),
	)

	srv.RegisterRoutes(router)

	return &http.Server{ //nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
