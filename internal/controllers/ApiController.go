package controllers

import (
	json "github.com/goccy/go-json"
	"igmond/internal/providers"
	"igmond/internal/services"
	"net/http"
)

// ApiController exposes the read-only watch state. The scheduler cycle is
// the only writer; these endpoints serve dashboards and keep-alive probes.
type ApiController struct {
	logger providers.Logger
	store  services.StoreServiceInterface
	cache  providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, store services.StoreServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger: logger,
		store:  store,
		cache:  cache,
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// GetWatchlist returns the deduplicated union of all watch lists — the
// exact set the next cycle will sweep.
func (ac *ApiController) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "watchlist", func() (any, error) {
		return ac.store.WatchedUsernames(), nil
	})
}

func (ac *ApiController) GetCounters(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "counters", func() (any, error) {
		return ac.store.CountersSnapshot(), nil
	})
}

func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "stats", func() (any, error) {
		checks, alerts := ac.store.StatsSnapshot()
		return map[string]int64{
			"total_checks": checks,
			"alerts_sent":  alerts,
		}, nil
	})
}
