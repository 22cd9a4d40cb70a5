package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"account_hydrator/internal/app/port"
	"account_hydrator/internal/domain/entity"
)

// FiatHydrator resolves spot fiat values for an account's native currency and
// all of its tokens with a single batched rate request.
type FiatHydrator struct {
	rates  port.SpotRateSource
	logger port.Logger
}

// NewFiatHydrator creates a new FiatHydrator.
func NewFiatHydrator(rates port.SpotRateSource, logger port.Logger) *FiatHydrator {
	return &FiatHydrator{rates: rates, logger: logger}
}

// Hydrate never returns an error: a failed rate request is encoded as
// FiatError on the result. An absent, zero or unparsable native balance
// short-circuits to a zero fiat value without any network call.
func (h *FiatHydrator) Hydrate(ctx context.Context, account entity.Account, targetCurrency string) entity.AccountWithFiat {
	result := entity.AccountWithFiat{Account: account}

	if !hasSpendableBalance(account.Balance) {
		result.FiatBalance = &entity.FiatBalance{Value: "0.00", Currency: strings.ToUpper(targetCurrency)}
		return Annotate(result)
	}

	assetIDs := make([]string, 0, len(account.Tokens)+1)
	assetIDs = append(assetIDs, account.CurrencyID)
	for _, token := range account.Tokens {
		assetIDs = append(assetIDs, token.LedgerID)
	}

	rates, err := h.rates.GetSpotRates(ctx, assetIDs, targetCurrency)
	if err != nil || len(rates) == 0 {
		h.logger.Warn("Spot rate request failed, marking account fiat as errored",
			"account_id", account.ID, "asset_count", len(assetIDs), "error", err)
		result.FiatBalance = nil
		result.FiatError = true
		return Annotate(result)
	}

	// The native rate sits at index 0 and is applied even when it is zero.
	nativeRate := rates[0].Rate
	result.FiatBalance = Value(account.Balance, &nativeRate, targetCurrency)

	tokens := make([]entity.Token, len(account.Tokens))
	copy(tokens, account.Tokens)
	for i := range tokens {
		if i+1 >= len(rates) {
			break
		}
		rate := rates[i+1].Rate
		if rate <= 0 {
			// No usable quote: the token keeps whatever fiat value it already carried.
			continue
		}
		if fiat := Value(tokens[i].Balance, &rate, targetCurrency); fiat != nil {
			tokens[i].FiatBalance = fiat
		}
	}
	result.Tokens = tokens

	return Annotate(result)
}

// hasSpendableBalance reports whether the balance is present, parsable and
// non-zero.
func hasSpendableBalance(balance string) bool {
	if balance == "" {
		return false
	}
	value, err := decimal.NewFromString(balance)
	if err != nil {
		return false
	}
	return !value.IsZero()
}
