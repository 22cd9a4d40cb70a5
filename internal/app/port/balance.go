package port

import (
	"context"
	"encoding/json"

	"account_hydrator/internal/domain/entity"
)

// BalanceService is the primary source for an account's native and token
// balances.
type BalanceService interface {
	GetBalance(ctx context.Context, address, currencyID string, includeTokens bool) (*entity.AccountBalance, error)
}

// ChainRPCClient executes raw JSON-RPC calls against a chain node for the
// given currency. It is the degraded path when the balance service is
// unavailable.
type ChainRPCClient interface {
	Call(ctx context.Context, method string, params []any, currencyID string) (json.RawMessage, error)
}
