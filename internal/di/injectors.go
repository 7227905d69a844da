//go:build wireinject
// +build wireinject

package di

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	wire "github.com/google/wire"
	"igmond/internal"
	"igmond/internal/bot"
	"igmond/internal/controllers"
	"igmond/internal/monitor"
	"igmond/internal/providers"
	"igmond/internal/services"
	"igmond/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		services.NewStoreService,

		monitor.NewSystemClock,
		monitor.NewZstdCompressor,
		monitor.NewFetcher,
		monitor.NewConfirmer,
		monitor.NewMigrator,
		monitor.NewChecker,
		monitor.NewFileManager,
		monitor.NewScheduler,

		bot.NewBotAPI,
		wire.Bind(new(bot.Sender), new(*tgbotapi.BotAPI)),
		bot.NewNotifier,
		bot.NewHandlers,
		bot.NewService,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
