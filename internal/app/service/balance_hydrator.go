package service

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"account_hydrator/internal/app/port"
	"account_hydrator/internal/domain/entity"
	"account_hydrator/internal/pkg/utils"
	"account_hydrator/pkg/metrics"
)

// nativeDecimals is the fixed decimal count of the native unit.
const nativeDecimals = 18

// BalanceHydrator resolves native and token balances for a single account,
// preferring the balance service and degrading to a direct chain RPC lookup.
type BalanceHydrator struct {
	balances port.BalanceService
	rpc      port.ChainRPCClient
	logger   port.Logger
}

// NewBalanceHydrator creates a new BalanceHydrator.
func NewBalanceHydrator(balances port.BalanceService, rpc port.ChainRPCClient, logger port.Logger) *BalanceHydrator {
	return &BalanceHydrator{
		balances: balances,
		rpc:      rpc,
		logger:   logger,
	}
}

// Hydrate always returns a displayable account and never an error. When the
// balance service fails, the native balance comes from an eth_getBalance
// fallback and the token list is emptied; when the fallback fails too, the
// balance resolves to the formatted zero value.
func (h *BalanceHydrator) Hydrate(ctx context.Context, account entity.Account, includeTokens bool) entity.Account {
	result, err := h.balances.GetBalance(ctx, account.FreshAddress, account.CurrencyID, includeTokens)
	if err == nil && result != nil {
		account.Balance = utils.FormatUnits(result.Native, nativeDecimals)
		tokens := make([]entity.Token, 0, len(result.Tokens))
		for _, tb := range result.Tokens {
			tokens = append(tokens, entity.Token{
				LedgerID: tb.LedgerID,
				Ticker:   tb.Ticker,
				Name:     tb.Name,
				Balance:  tb.Balance,
			})
		}
		account.Tokens = tokens
		return account
	}

	h.logger.Warn("Balance service lookup failed, falling back to chain RPC",
		"account_id", account.ID, "currency_id", account.CurrencyID, "error", err)
	metrics.BalanceFallbacksTotal.Inc()
	account.Balance = utils.FormatUnits(h.nativeBalanceFromRPC(ctx, account), nativeDecimals)
	account.Tokens = []entity.Token{}
	return account
}

// nativeBalanceFromRPC queries the chain directly for the native balance.
// Any failure or unrecognized response shape resolves to zero.
func (h *BalanceHydrator) nativeBalanceFromRPC(ctx context.Context, account entity.Account) *big.Int {
	raw, err := h.rpc.Call(ctx, "eth_getBalance", []any{account.FreshAddress, "latest"}, account.CurrencyID)
	if err != nil {
		h.logger.Warn("Chain RPC balance fallback failed",
			"account_id", account.ID, "address", account.FreshAddress, "error", err)
		return big.NewInt(0)
	}

	var hexBalance string
	if err := json.Unmarshal(raw, &hexBalance); err != nil {
		h.logger.Warn("Unexpected shape in chain RPC balance response",
			"account_id", account.ID, "error", err)
		return big.NewInt(0)
	}
	value, err := hexutil.DecodeBig(hexBalance)
	if err != nil {
		h.logger.Warn("Failed to decode chain RPC balance quantity",
			"account_id", account.ID, "raw", hexBalance, "error", err)
		return big.NewInt(0)
	}
	return value
}
