package chainrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"account_hydrator/internal/infrastructure/configloader"
	"account_hydrator/pkg/metrics"
)

// Client executes JSON-RPC calls against per-currency chain endpoints. It
// implements port.ChainRPCClient. Connections are dialed lazily and cached;
// all calls share one rate limiter.
type Client struct {
	endpoints         map[string]string
	clients           map[string]*rpc.Client
	mu                sync.Mutex
	limiter           *rate.Limiter
	connectionTimeout time.Duration
	callTimeout       time.Duration
	logger            *zap.Logger
}

// NewClient creates a chain RPC client from the configured network nodes.
func NewClient(networks []configloader.NetworkNodeConfig, rpcCfg configloader.RPCClientConfig, logger *zap.Logger) *Client {
	endpoints := make(map[string]string, len(networks))
	for _, network := range networks {
		if network.CurrencyID == "" || network.RPCURL == "" {
			continue
		}
		endpoints[network.CurrencyID] = network.RPCURL
	}
	return &Client{
		endpoints:         endpoints,
		clients:           make(map[string]*rpc.Client),
		limiter:           rate.NewLimiter(rate.Limit(rpcCfg.RateLimit), rpcCfg.BurstLimit),
		connectionTimeout: time.Duration(rpcCfg.ConnectionTimeoutSeconds) * time.Second,
		callTimeout:       time.Duration(rpcCfg.CallTimeoutSeconds) * time.Second,
		logger:            logger.Named("ChainRPCClient"),
	}
}

// Call executes a raw JSON-RPC call for the given currency and returns the
// undecoded result.
func (c *Client) Call(ctx context.Context, method string, params []any, currencyID string) (json.RawMessage, error) {
	client, err := c.clientFor(ctx, currencyID)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceChainRPC, metrics.OutcomeFailure).Inc()
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceChainRPC, metrics.OutcomeFailure).Inc()
		return nil, fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var result json.RawMessage
	if err := client.CallContext(callCtx, &result, method, params...); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceChainRPC, metrics.OutcomeFailure).Inc()
		c.logger.Warn("Chain RPC call failed",
			zap.String("method", method), zap.String("currency_id", currencyID), zap.Error(err))
		return nil, fmt.Errorf("%s call failed for %s: %w", method, currencyID, err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceChainRPC, metrics.OutcomeSuccess).Inc()
	return result, nil
}

// clientFor returns the cached RPC client for a currency, dialing it on first
// use.
func (c *Client) clientFor(ctx context.Context, currencyID string) (*rpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, exists := c.clients[currencyID]; exists {
		return client, nil
	}

	endpoint, ok := c.endpoints[currencyID]
	if !ok {
		return nil, fmt.Errorf("no RPC endpoint configured for currency %s", currencyID)
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.connectionTimeout)
	defer cancel()

	client, err := rpc.DialContext(dialCtx, endpoint)
	if err != nil {
		c.logger.Error("Failed to connect to chain RPC endpoint",
			zap.String("currency_id", currencyID), zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", endpoint, err)
	}

	c.clients[currencyID] = client
	c.logger.Info("Connected to chain RPC endpoint",
		zap.String("currency_id", currencyID), zap.String("endpoint", endpoint))
	return client, nil
}

// Close releases all cached RPC connections.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for currencyID, client := range c.clients {
		client.Close()
		delete(c.clients, currencyID)
	}
}
