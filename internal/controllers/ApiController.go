package controllers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"fld/internal/accounts"
	"fld/internal/providers"
	"fld/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger   providers.Logger
	service  services.LeaderboardServiceInterface
	registry accounts.RegistryInterface
	cache    providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.LeaderboardServiceInterface, registry accounts.RegistryInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:   logger,
		service:  service,
		registry: registry,
		cache:    cache,
	}
}

type accountMutation struct {
	Username  string `json:"username"`
	Submitter string `json:"submitter"`
}

type mutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	ac.computeAndServe(w, cacheKey, compute)
}

func (ac *ApiController) computeAndServe(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
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

// GetLeaderboard serves the ranked board. ?refresh=true bypasses both the
// response cache and the resolver's fresh-cache tier.
func (ac *ApiController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	refresh := cast.ToBool(r.URL.Query().Get("refresh"))
	compute := func() (any, error) {
		entries, tier := ac.service.Leaderboard(r.Context(), refresh)
		ac.logger.Debugf(providers.TypeGet, "Leaderboard served from %s tier", tier)
		return entries, nil
	}
	if refresh {
		ac.computeAndServe(w, "leaderboard", compute)
		return
	}
	ac.serveFromCacheOrCompute(w, "leaderboard", compute)
}

func (ac *ApiController) GetGrowth(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "growth", func() (any, error) {
		return ac.service.Growth(r.Context()), nil
	})
}

func (ac *ApiController) GetTrends(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "trends", func() (any, error) {
		return ac.service.Trends(r.Context()), nil
	})
}

func (ac *ApiController) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("u")
	if username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing username parameter"})
		return
	}
	p, ok := ac.service.Profile(r.Context(), username)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (ac *ApiController) GetAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"accounts": ac.registry.ListTracked()})
}

func (ac *ApiController) GetPendingAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"pending_accounts": ac.registry.ListPending()})
}

func (ac *ApiController) SubmitAccount(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeMutation(w, r)
	if !ok {
		return
	}
	ok, msg := ac.registry.Submit(payload.Username, payload.Submitter)
	ac.logger.Infof(providers.GetLogTypeByRequestType(r.Method), "Submit %q: %s", payload.Username, msg)
	writeMutation(w, ok, msg)
}

func (ac *ApiController) ApproveAccount(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeMutation(w, r)
	if !ok {
		return
	}
	ok, msg := ac.registry.Approve(payload.Username)
	ac.logger.Infof(providers.GetLogTypeByRequestType(r.Method), "Approve %q: %s", payload.Username, msg)
	writeMutation(w, ok, msg)
}

func (ac *ApiController) RejectAccount(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeMutation(w, r)
	if !ok {
		return
	}
	ok, msg := ac.registry.Reject(payload.Username)
	ac.logger.Infof(providers.GetLogTypeByRequestType(r.Method), "Reject %q: %s", payload.Username, msg)
	writeMutation(w, ok, msg)
}

func (ac *ApiController) RemoveAccount(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeMutation(w, r)
	if !ok {
		return
	}
	ok, msg := ac.registry.Remove(payload.Username)
	ac.logger.Infof(providers.GetLogTypeByRequestType(r.Method), "Remove %q: %s", payload.Username, msg)
	writeMutation(w, ok, msg)
}

// GetScrapeStats serves scraper run statistics; ?limit=N trims the run list.
func (ac *ApiController) GetScrapeStats(w http.ResponseWriter, r *http.Request) {
	limit := cast.ToInt(r.URL.Query().Get("limit"))
	ac.serveFromCacheOrCompute(w, "scrape_stats:"+cast.ToString(limit), func() (any, error) {
		stats := ac.service.ScrapeStats(r.Context())
		if limit > 0 && limit < len(stats.Scrapes) {
			stats.Scrapes = stats.Scrapes[:limit]
		}
		return stats, nil
	})
}

// GetStatus probes the upstream scraper. Never cached, a status endpoint
// serving stale data defeats its purpose.
func (ac *ApiController) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"web_server":      "online",
		"scraper_service": ac.service.UpstreamHealth(r.Context()),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

func decodeMutation(w http.ResponseWriter, r *http.Request) (accountMutation, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload accountMutation
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return payload, false
	}
	return payload, true
}

func writeMutation(w http.ResponseWriter, ok bool, msg string) {
	status := http.StatusOK
	if !ok {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, mutationResponse{Success: ok, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}
