package main

import (
	"context"
	"log/slog"
	"os"

	"chatter/config"
	"chatter/internal/delivery"
	"chatter/internal/delivery/http"
	"chatter/internal/delivery/http/middleware"
	"chatter/internal/delivery/http/router/handler"
	"chatter/internal/domain/service"
	"chatter/internal/infra/auth"
	"chatter/internal/infra/imagegen"
	logs "chatter/internal/infra/log"
	"chatter/internal/infra/mail"
	"chatter/internal/infra/persistence/postgres"
	"chatter/internal/infra/tasks"
	"chatter/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewPostRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			imagegen.NewClient,
			mail.NewMailgunSender,
			newTaskQueue,
		),
	)
}

// newTaskQueue creates the in-process task queue and drains it on shutdown,
// after the HTTP server has stopped accepting requests.
func newTaskQueue(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) service.TaskQueue {
	queue := tasks.NewQueue(cfg, logger)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return queue.Close()
		},
	})

	return queue
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewPostService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewPostHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
