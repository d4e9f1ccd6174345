package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"roundrobin-tracker/internal/config"
	"roundrobin-tracker/internal/constants"
	"roundrobin-tracker/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// WebhookClient posts completed series results to an external endpoint
// (a Discord-compatible webhook or anything accepting JSON).
type WebhookClient struct {
	url         string
	client      *fasthttp.Client
	limiter     *rate.Limiter
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	Bucket    string `json:"bucket"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`

	// seconds until reset
	ResetAfter float64 `json:"reset_after"`

	UpdatedAt time.Time `json:"updated_at"`
}

// ResetAt is when an exhausted bucket refills. It is the zero time while
// requests remain or when the endpoint sent no rate limit headers.
func (r RateLimitInfo) ResetAt() time.Time {
	if r.Limit == 0 || r.Remaining > 0 {
		return time.Time{}
	}
	return r.UpdatedAt.Add(time.Duration(r.ResetAfter * float64(time.Second)))
}

type SeriesResult struct {
	Content     string        `json:"content"`
	SeriesID    string        `json:"series_id"`
	RoundNumber int           `json:"round_number"`
	Player1     string        `json:"player1"`
	Player2     string        `json:"player2"`
	Winner      string        `json:"winner"`
	IsWalkover  bool          `json:"is_walkover"`
	Games       []GameSummary `json:"games,omitempty"`
	CompletedAt time.Time     `json:"completed_at"`
}

type GameSummary struct {
	Number       int    `json:"number"`
	Winner       string `json:"winner"`
	Duration     string `json:"duration"`
	WinCondition string `json:"win_condition"`
}

func NewWebhookClient(cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *WebhookClient {
	return &WebhookClient{
		url: cfg.WebhookURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			ReadTimeout:         constants.WebhookTimeout,
			WriteTimeout:        constants.WebhookTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter: rate.NewLimiter(rate.Limit(constants.WebhookRateLimit), constants.WebhookRateLimit),
		metrics: m,
		logger:  logger,
	}
}

func (c *WebhookClient) Enabled() bool {
	return c.url != ""
}

func (c *WebhookClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

// NotifySeriesCompleted delivers result. It is a no-op when no webhook URL is
// configured.
func (c *WebhookClient) NotifySeriesCompleted(ctx context.Context, result SeriesResult) error {
	if !c.Enabled() {
		return nil
	}

	if err := c.waitForReset(ctx); err != nil {
		c.metrics.WebhookDeliveries.WithLabelValues("throttled").Inc()
		return fmt.Errorf("webhook bucket exhausted: %w", err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.WebhookDeliveries.WithLabelValues("throttled").Inc()
		return fmt.Errorf("webhook rate limiter: %w", err)
	}

	if err := doRequest(ctx, c, result); err != nil {
		c.metrics.WebhookDeliveries.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Str("series_id", result.SeriesID).Msg("failed to deliver series result")
		return err
	}

	c.metrics.WebhookDeliveries.WithLabelValues("ok").Inc()
	c.logger.Debug().Str("series_id", result.SeriesID).Msg("series result delivered")
	return nil
}

// waitForReset holds the next delivery until the bucket reported by the
// last response refills.
func (c *WebhookClient) waitForReset(ctx context.Context) error {
	wait := time.Until(c.GetRateLimitInfo().ResetAt())
	if wait <= 0 {
		return nil
	}

	c.logger.Debug().Dur("wait", wait).Msg("webhook bucket exhausted, waiting for reset")
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// updateRateLimit replaces the stored info with what resp reports, so a
// response without headers clears an earlier exhausted bucket.
func (c *WebhookClient) updateRateLimit(resp *fasthttp.Response) {
	info := RateLimitInfo{
		Bucket:    string(resp.Header.Peek("X-Ratelimit-Bucket")),
		UpdatedAt: time.Now(),
	}
	if limit := string(resp.Header.Peek("X-Ratelimit-Limit")); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			info.Limit = val
		}
	}
	if remaining := string(resp.Header.Peek("X-Ratelimit-Remaining")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			info.Remaining = val
		}
	}
	if reset := string(resp.Header.Peek("X-Ratelimit-Reset-After")); reset != "" {
		if val, err := strconv.ParseFloat(reset, 64); err == nil {
			info.ResetAfter = val
		}
	}

	c.rateLimitMu.Lock()
	c.rateLimit = info
	c.rateLimitMu.Unlock()
}

func doRequest[T any](ctx context.Context, client *WebhookClient, payload T) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(client.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return err
		}
	} else {
		if err := client.client.DoTimeout(req, resp, constants.WebhookTimeout); err != nil {
			return err
		}
	}

	client.updateRateLimit(resp)

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return fmt.Errorf("webhook error: %d", code)
	}
	return nil
}
