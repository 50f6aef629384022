package controllers

import (
	"minedash/internal/providers"
	"minedash/internal/services"
	"net/http"

	json "github.com/goccy/go-json"
)

// ApiController serves chart data as JSON for other frontends.
type ApiController struct {
	logger  providers.Logger
	service services.ChartServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.ChartServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
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
		ac.logger.Errorf(providers.TypeGet, "%s: %s", cacheKey, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) GetMiningChart(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, services.CacheKeyMiningChart, func() (any, error) {
		return ac.service.TimeSeries(r.Context())
	})
}

func (ac *ApiController) GetCharacterChart(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, services.CacheKeyCharacterChart, func() (any, error) {
		return ac.service.CharacterChart(r.Context())
	})
}
