//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"minedash/internal"
	"minedash/internal/controllers"
	"minedash/internal/esi"
	"minedash/internal/notify"
	"minedash/internal/persistence"
	"minedash/internal/providers"
	"minedash/internal/repository"
	"minedash/internal/services"
	"minedash/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewKeyValueStoreProvider,
		providers.NewDatabaseProvider,

		repository.NewLedgerRepository,
		persistence.NewZstdCompressor,
		persistence.NewScheduler,

		esi.NewClient,
		wire.Bind(new(esi.ClientInterface), new(*esi.Client)),
		notify.NewHub,
		wire.Bind(new(notify.HubInterface), new(*notify.Hub)),
		wire.Bind(new(services.UpdateNotifier), new(*notify.Hub)),

		services.NewLedgerService,
		wire.Bind(new(services.LedgerServiceInterface), new(*services.LedgerService)),
		services.NewAuthService,
		wire.Bind(new(services.AuthServiceInterface), new(*services.AuthService)),
		services.NewChartService,
		wire.Bind(new(services.ChartServiceInterface), new(*services.ChartService)),

		controllers.NewApiController,
		controllers.NewUpdateController,
		controllers.NewChartController,
		controllers.NewAuthController,
		controllers.NewDashboardController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil, nil
}
