package service

import "account_hydrator/internal/domain/entity"

// Annotate derives the per-field loading states from what has been fetched so
// far. The balance state only depends on the balance being present; the fiat
// state reports an error whenever the error flag is set, even if a stale fiat
// value is still attached. Pure and idempotent.
func Annotate(account entity.AccountWithFiat) entity.AccountWithFiat {
	if account.Balance != "" {
		account.BalanceLoadingState = entity.LoadingStateLoaded
	} else {
		account.BalanceLoadingState = entity.LoadingStateLoading
	}

	switch {
	case account.FiatError:
		account.FiatLoadingState = entity.LoadingStateError
	case account.FiatBalance != nil:
		account.FiatLoadingState = entity.LoadingStateLoaded
	default:
		account.FiatLoadingState = entity.LoadingStateLoading
	}
	return account
}
