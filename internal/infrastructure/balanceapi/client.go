package balanceapi

import (
	"context"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"account_hydrator/internal/domain/entity"
	"account_hydrator/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client fetches account balances from the wallet balance API. It implements
// port.BalanceService.
type Client struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a new balance API client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("BalanceAPIClient"),
	}
}

type tokenBalancePayload struct {
	ID      string `json:"id"`
	Ticker  string `json:"ticker"`
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

type balancePayload struct {
	Balance string                `json:"balance"`
	Tokens  []tokenBalancePayload `json:"tokens"`
}

// GetBalance fetches the native balance (raw integer) and, when requested,
// the token balances of an address.
func (c *Client) GetBalance(ctx context.Context, address, currencyID string, includeTokens bool) (*entity.AccountBalance, error) {
	requestURL := fmt.Sprintf("%s/v1/addresses/%s/balance?currency=%s&tokens=%t",
		c.baseURL, url.PathEscape(address), url.QueryEscape(currencyID), includeTokens)

	c.logger.Debug("Requesting balance from balance API", zap.String("url", requestURL))

	body, err := c.get(ctx, requestURL)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceBalanceAPI, metrics.OutcomeFailure).Inc()
		return nil, err
	}

	var payload balancePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceBalanceAPI, metrics.OutcomeFailure).Inc()
		c.logger.Error("Failed to decode balance API response", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to decode balance response: %w", err)
	}

	native, ok := new(big.Int).SetString(payload.Balance, 10)
	if !ok {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceBalanceAPI, metrics.OutcomeFailure).Inc()
		return nil, fmt.Errorf("unexpected native balance %q in balance response", payload.Balance)
	}

	tokens := make([]entity.TokenBalance, 0, len(payload.Tokens))
	if includeTokens {
		for _, tb := range payload.Tokens {
			tokens = append(tokens, entity.TokenBalance{
				LedgerID: tb.ID,
				Ticker:   tb.Ticker,
				Name:     tb.Name,
				Balance:  tb.Balance,
			})
		}
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceBalanceAPI, metrics.OutcomeSuccess).Inc()
	return &entity.AccountBalance{Native: native, Tokens: tokens}, nil
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
		c.logger.Error("Failed to execute request to balance API", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Warn("Balance API returned non-OK status",
			zap.String("url", requestURL), zap.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode(), requestURL)
	}

	// The response buffer is pooled, copy before release.
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
