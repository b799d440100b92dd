package main

import (
	"context"
	"log/slog"
	"os"

	"bistro/config"
	"bistro/internal/delivery"
	"bistro/internal/delivery/api"
	"bistro/internal/delivery/api/router/handler"
	"bistro/internal/domain/lifecycle"
	"bistro/internal/infra/auth"
	"bistro/internal/infra/localstore"
	logs "bistro/internal/infra/log"
	"bistro/internal/infra/persistence/postgres"
	"bistro/internal/infra/qrcode"
	"bistro/internal/usecase"
	"bistro/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

type startStoresParams struct {
	fx.In
	fx.Lifecycle

	SessionUC   usecase.SessionUsecase
	FavoritesUC usecase.FavoritesUsecase
	Logger      *slog.Logger
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectHandler(),
		fx.Invoke(
			startStores,
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
		localstore.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
			postgres.NewFavoriteRepository,
			postgres.NewCatalogRepository,
			postgres.NewReviewRepository,
			postgres.NewOrderRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewHTTPAuthProvider,
			auth.NewJWTService,
			qrcode.NewQRCodeService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSessionService,
			newAuthContext,
			impl.NewCartService,
			impl.NewFavoritesService,
			impl.NewProfileDraftService,
			impl.NewCatalogService,
			impl.NewCheckoutService,
			impl.NewOrderService,
			impl.NewReviewService,
		),
	)
}

// newAuthContext narrows the session store to the identity view the other stores follow.
func newAuthContext(sessionUC usecase.SessionUsecase) usecase.AuthContext {
	return sessionUC
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewCartHandler,
			handler.NewFavoritesHandler,
			handler.NewProfileDraftHandler,
			handler.NewSessionHandler,
			handler.NewCatalogHandler,
			handler.NewCheckoutHandler,
			handler.NewOrderHandler,
			handler.NewReviewHandler,
			handler.NewEventsHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// startStores restores the session before favorites load so the first load sees the right identity.
func startStores(params startStoresParams) {
	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			startCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := params.SessionUC.Restore(startCtx); err != nil {
				params.Logger.Warn("Session restore failed", slog.Any("error", err))
			}
			if err := params.FavoritesUC.Start(startCtx); err != nil {
				return errors.Wrap(err, "failed to start favorites")
			}

			return nil
		},
		OnStop: func(context.Context) error {
			params.FavoritesUC.Stop()

			return nil
		},
	})
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
