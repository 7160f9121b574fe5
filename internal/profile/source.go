package profile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"fld/internal/models"
	"fld/internal/providers"
	"fld/internal/structures"
)

const maxResponseBodySize = 16 << 20 // 16 MB

// UpstreamStatus is the result of probing the scraper service.
type UpstreamStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// SourceInterface is the remote scraper service contract.
type SourceInterface interface {
	FetchProfiles(ctx context.Context) ([]models.Profile, error)
	FetchScrapeRuns(ctx context.Context) ([]models.ScrapeRun, error)
	Health(ctx context.Context) UpstreamStatus
}

// ScraperClient talks to the scraper microservice over HTTP with bounded
// timeouts. Fetch failures are returned to the caller; the resolver decides
// which fallback tier to try next.
type ScraperClient struct {
	baseURL       string
	client        *http.Client
	healthTimeout time.Duration
	logger        providers.Logger
	now           func() time.Time
}

func NewScraperClient(conf *structures.Config, logger providers.Logger) SourceInterface {
	return &ScraperClient{
		baseURL: conf.Scraper.BaseURL,
		client: &http.Client{
			Timeout: conf.Scraper.ProfileTimeout,
		},
		healthTimeout: conf.Scraper.HealthTimeout,
		logger:        logger,
		now:           time.Now,
	}
}

func (c *ScraperClient) FetchProfiles(ctx context.Context) ([]models.Profile, error) {
	// Cache buster avoids stale CDN responses in front of the scraper
	url := fmt.Sprintf("%s/profiles?_=%d", c.baseURL, c.now().Unix())
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	profiles, err := models.ParseProfiles(body)
	if err != nil {
		return nil, fmt.Errorf("malformed profile listing: %w", err)
	}
	c.logger.Infof(providers.TypeApp, "Retrieved %d profiles from scraper service", len(profiles))
	return profiles, nil
}

func (c *ScraperClient) FetchScrapeRuns(ctx context.Context) ([]models.ScrapeRun, error) {
	body, err := c.get(ctx, c.baseURL+"/stats")
	if err != nil {
		return nil, err
	}

	// The stats payload has appeared both as a bare array and wrapped
	var runs []models.ScrapeRun
	if err := json.Unmarshal(body, &runs); err == nil {
		return runs, nil
	}
	var wrapped struct {
		Scrapes []models.ScrapeRun `json:"scrapes"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("malformed scrape stats payload: %w", err)
	}
	return wrapped.Scrapes, nil
}

func (c *ScraperClient) Health(ctx context.Context) UpstreamStatus {
	status := UpstreamStatus{Status: "offline", URL: c.baseURL}

	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		status.Message = err.Error()
		return status
	}

	resp, err := c.client.Do(req)
	if err != nil {
		status.Message = err.Error()
		return status
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		status.Status = "error"
		status.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return status
	}

	var payload struct {
		Message string `json:"message"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		status.Message = payload.Message
	} else {
		status.Message = "Service responding"
	}
	status.Status = "online"
	return status
}

func (c *ScraperClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read scraper response: %w", err)
	}
	return body, nil
}
