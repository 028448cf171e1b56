package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"investor-radar/internal/radar/config"
	"investor-radar/internal/radar/dto"
	"investor-radar/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	endpointStats    = "/stats"
	endpointTrending = "/trending"
	endpointSearch   = "/search"
)

// RadarAPIRepository reads from the upstream radar API.
type RadarAPIRepository interface {
	GetStats(ctx context.Context) (*dto.PlatformStats, error)
	GetTrending(ctx context.Context) ([]dto.TrendingEntry, error)
	Search(ctx context.Context, query string) ([]dto.Company, error)
}

type radarAPIRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewRadarAPIRepository creates a rate limited HTTP client for the radar API.
func NewRadarAPIRepository(cfg *config.Config, log *logger.Logger) RadarAPIRepository {
	limit := rate.Inf
	if cfg.RadarAPI.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RadarAPI.MaxRequestPerMinute))
	}
	timeout := cfg.RadarAPI.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &radarAPIRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(limit, 1),
	}
}

// GetStats fetches the platform counters.
func (r *radarAPIRepository) GetStats(ctx context.Context) (*dto.PlatformStats, error) {
	var stats dto.PlatformStats
	if err := r.get(ctx, endpointStats, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetTrending fetches the trending companies, in the order the API ranks them.
func (r *radarAPIRepository) GetTrending(ctx context.Context) ([]dto.TrendingEntry, error) {
	var entries []dto.TrendingEntry
	if err := r.get(ctx, endpointTrending, nil, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []dto.TrendingEntry{}
	}
	return entries, nil
}

// Search looks up companies by name or ticker.
func (r *radarAPIRepository) Search(ctx context.Context, query string) ([]dto.Company, error) {
	var companies []dto.Company
	if err := r.get(ctx, endpointSearch, url.Values{"q": []string{query}}, &companies); err != nil {
		return nil, err
	}
	if companies == nil {
		companies = []dto.Company{}
	}
	return companies, nil
}

func (r *radarAPIRepository) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	target := strings.TrimRight(r.cfg.RadarAPI.BaseURL, "/") + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	fields := []zap.Field{
		zap.String("url", target),
		zap.Int("max_request_per_minute", r.cfg.RadarAPI.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.cfg.App.Name != "" {
		req.Header.Set("User-Agent", r.cfg.App.Name)
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to radar API", fields...)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	fields = append(fields, zap.Int("status_code", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read response body from radar API", fields...)
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// The envelope is honoured whatever the status code; only a body that is
	// not an envelope turns a non-OK status into an error of its own.
	var envelope dto.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		if resp.StatusCode != http.StatusOK {
			r.log.ErrorContext(ctx, "Received non-OK response from radar API", fields...)
			return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		}
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to decode radar API envelope", fields...)
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !envelope.Success {
		fields = append(fields, zap.String("api_error", envelope.Error))
		r.log.WarnContext(ctx, "Radar API reported an unsuccessful request", fields...)
		return &EnvelopeError{Endpoint: endpoint, Message: envelope.Error}
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		r.log.DebugContext(ctx, "Radar API returned no data", fields...)
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to decode radar API data", fields...)
		return fmt.Errorf("failed to decode %s data: %w", endpoint, err)
	}

	r.log.DebugContext(ctx, "Radar API request completed", fields...)
	return nil
}
