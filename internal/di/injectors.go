//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"fld/internal"
	"fld/internal/accounts"
	"fld/internal/controllers"
	"fld/internal/profile"
	"fld/internal/providers"
	"fld/internal/services"
	"fld/internal/storage"
	"fld/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		accounts.NewRegistry,
		storage.NewStore,
		profile.NewZstdCompressor,
		profile.NewSnapshotStore,
		profile.NewScraperClient,
		profile.NewResolver,
		profile.NewScheduler,
		services.NewLeaderboardService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
