package ratesapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	gocache "github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"account_hydrator/internal/domain/entity"
	"account_hydrator/internal/pkg/utils"
	"account_hydrator/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client fetches spot and historical exchange rates from the rates API,
// caching responses for a configurable TTL. It implements both
// port.SpotRateSource and port.HistoricalRateSource.
type Client struct {
	client              *fasthttp.Client
	baseURL             string
	timeout             time.Duration
	maxAssetsPerRequest int
	cache               *gocache.Cache
	logger              *zap.Logger
}

// NewClient creates a new rates API client.
func NewClient(baseURL string, timeout time.Duration, maxAssetsPerRequest int, cacheTTL, cacheCleanup time.Duration, logger *zap.Logger) *Client {
	if maxAssetsPerRequest <= 0 {
		maxAssetsPerRequest = 30
	}
	return &Client{
		client:              &fasthttp.Client{},
		baseURL:             strings.TrimRight(baseURL, "/"),
		timeout:             timeout,
		maxAssetsPerRequest: maxAssetsPerRequest,
		cache:               gocache.New(cacheTTL, cacheCleanup),
		logger:              logger.Named("RatesAPIClient"),
	}
}

type spotRatePayload struct {
	AssetID string  `json:"assetId"`
	Rate    float64 `json:"rate"`
}

// GetSpotRates returns current rates for the given asset identifiers,
// index-aligned with the request. Batches larger than the upstream limit are
// split and reassembled in order.
func (c *Client) GetSpotRates(ctx context.Context, assetIDs []string, targetCurrency string) ([]entity.SpotRate, error) {
	if len(assetIDs) == 0 {
		return nil, fmt.Errorf("assetIDs cannot be empty")
	}

	cacheKey := "spot:" + strings.ToLower(targetCurrency) + ":" + strings.Join(assetIDs, ",")
	if cached, found := c.cache.Get(cacheKey); found {
		metrics.SpotRateCacheTotal.WithLabelValues("hit").Inc()
		rates := cached.([]entity.SpotRate)
		out := make([]entity.SpotRate, len(rates))
		copy(out, rates)
		return out, nil
	}
	metrics.SpotRateCacheTotal.WithLabelValues("miss").Inc()

	rates := make([]entity.SpotRate, 0, len(assetIDs))
	for _, batch := range utils.BatchStrings(assetIDs, c.maxAssetsPerRequest) {
		batchRates, err := c.fetchSpotBatch(ctx, batch, targetCurrency)
		if err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceSpotRates, metrics.OutcomeFailure).Inc()
			return nil, err
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceSpotRates, metrics.OutcomeSuccess).Inc()
		rates = append(rates, batchRates...)
	}

	c.cache.Set(cacheKey, rates, gocache.DefaultExpiration)
	return rates, nil
}

func (c *Client) fetchSpotBatch(ctx context.Context, assetIDs []string, targetCurrency string) ([]entity.SpotRate, error) {
	requestURL := fmt.Sprintf("%s/v3/spot/%s?assets=%s",
		c.baseURL, url.PathEscape(strings.ToLower(targetCurrency)), url.QueryEscape(strings.Join(assetIDs, ",")))

	c.logger.Debug("Requesting spot rates", zap.String("url", requestURL), zap.Int("asset_count", len(assetIDs)))

	body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var payload []spotRatePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode spot rate response: %w", err)
	}
	if len(payload) != len(assetIDs) {
		return nil, fmt.Errorf("spot rate response size mismatch: requested %d assets, got %d rates", len(assetIDs), len(payload))
	}

	rates := make([]entity.SpotRate, len(payload))
	for i, p := range payload {
		rates[i] = entity.SpotRate{AssetID: p.AssetID, Rate: p.Rate}
	}
	return rates, nil
}

// GetHistoricalRates returns daily rates for one asset over the inclusive
// [startDate, endDate] span, keyed by YYYY-MM-DD date.
func (c *Client) GetHistoricalRates(ctx context.Context, assetID, targetCurrency, startDate, endDate string) (map[string]float64, error) {
	cacheKey := strings.Join([]string{"historical", assetID, strings.ToLower(targetCurrency), startDate, endDate}, ":")
	if cached, found := c.cache.Get(cacheKey); found {
		source := cached.(map[string]float64)
		out := make(map[string]float64, len(source))
		for k, v := range source {
			out[k] = v
		}
		return out, nil
	}

	requestURL := fmt.Sprintf("%s/v3/historical/%s/%s?from=%s&to=%s",
		c.baseURL, url.PathEscape(assetID), url.PathEscape(strings.ToLower(targetCurrency)),
		url.QueryEscape(startDate), url.QueryEscape(endDate))

	c.logger.Debug("Requesting historical rates",
		zap.String("url", requestURL), zap.String("from", startDate), zap.String("to", endDate))

	body, err := c.get(ctx, requestURL)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceHistoricalRates, metrics.OutcomeFailure).Inc()
		return nil, err
	}

	var rates map[string]float64
	if err := json.Unmarshal(body, &rates); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceHistoricalRates, metrics.OutcomeFailure).Inc()
		return nil, fmt.Errorf("failed to decode historical rate response: %w", err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceHistoricalRates, metrics.OutcomeSuccess).Inc()
	c.cache.Set(cacheKey, rates, gocache.DefaultExpiration)
	return rates, nil
}

func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Failed to execute request to rates API", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Warn("Rates API returned non-OK status",
			zap.String("url", requestURL), zap.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode(), requestURL)
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
