package internal

import (
	"igmond/internal/controllers"
	"igmond/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/watchlist", http.HandlerFunc(apiController.GetWatchlist))
	routers.Get("/counters", http.HandlerFunc(apiController.GetCounters))
	routers.Get("/stats", http.HandlerFunc(apiController.GetStats))
	return routers
}
