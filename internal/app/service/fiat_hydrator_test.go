package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account_hydrator/internal/domain/entity"
)

func accountWithTokens(balance string) entity.Account {
	account := testAccount()
	account.Balance = balance
	account.Tokens = []entity.Token{
		{LedgerID: "ethereum/erc20/usdc", Ticker: "USDC", Balance: "100"},
		{LedgerID: "ethereum/erc20/dai", Ticker: "DAI", Balance: "50"},
	}
	return account
}

func TestFiatHydrator_ShortCircuitsWithoutBalance(t *testing.T) {
	tests := []struct {
		name    string
		balance string
	}{
		{"absent balance", ""},
		{"zero balance", "0"},
		{"unparsable balance", "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &stubSpotRateSource{fn: func([]string, string) ([]entity.SpotRate, error) {
				t.Fatal("no rate request expected")
				return nil, nil
			}}
			hydrator := NewFiatHydrator(source, nopLogger{})

			account := testAccount()
			account.Balance = tt.balance
			got := hydrator.Hydrate(context.Background(), account, "usd")

			require.NotNil(t, got.FiatBalance)
			assert.Equal(t, "0.00", got.FiatBalance.Value)
			assert.Equal(t, "USD", got.FiatBalance.Currency)
			assert.False(t, got.FiatError)
			assert.Equal(t, entity.LoadingStateLoaded, got.FiatLoadingState)
			assert.Equal(t, 0, source.callCount())
		})
	}
}

func TestFiatHydrator_BatchesAllAssetIDs(t *testing.T) {
	source := &stubSpotRateSource{fn: func(assetIDs []string, _ string) ([]entity.SpotRate, error) {
		rates := make([]entity.SpotRate, len(assetIDs))
		for i, id := range assetIDs {
			rates[i] = entity.SpotRate{AssetID: id, Rate: 1}
		}
		return rates, nil
	}}
	hydrator := NewFiatHydrator(source, nopLogger{})

	hydrator.Hydrate(context.Background(), accountWithTokens("2"), "usd")

	require.Equal(t, 1, source.callCount(), "exactly one batched request")
	assert.Equal(t, []string{"ethereum", "ethereum/erc20/usdc", "ethereum/erc20/dai"}, source.requests[0])
}

func TestFiatHydrator_AppliesRatesInOrder(t *testing.T) {
	source := &stubSpotRateSource{fn: func(assetIDs []string, _ string) ([]entity.SpotRate, error) {
		return []entity.SpotRate{
			{AssetID: assetIDs[0], Rate: 2500},
			{AssetID: assetIDs[1], Rate: 1},
			{AssetID: assetIDs[2], Rate: 0},
		}, nil
	}}
	hydrator := NewFiatHydrator(source, nopLogger{})

	account := accountWithTokens("2")
	prior := &entity.FiatBalance{Value: "49.90", Currency: "USD"}
	account.Tokens[1].FiatBalance = prior

	got := hydrator.Hydrate(context.Background(), account, "usd")

	require.NotNil(t, got.FiatBalance)
	assert.Equal(t, "5000.00", got.FiatBalance.Value)
	assert.False(t, got.FiatError)

	require.Len(t, got.Tokens, 2)
	require.NotNil(t, got.Tokens[0].FiatBalance)
	assert.Equal(t, "100.00", got.Tokens[0].FiatBalance.Value)
	// A zero rate never overwrites a previously computed token fiat value.
	assert.Equal(t, prior, got.Tokens[1].FiatBalance)

	assert.Equal(t, entity.LoadingStateLoaded, got.FiatLoadingState)
}

func TestFiatHydrator_ZeroNativeRateStillApplies(t *testing.T) {
	source := &stubSpotRateSource{fn: func(assetIDs []string, _ string) ([]entity.SpotRate, error) {
		rates := make([]entity.SpotRate, len(assetIDs))
		for i, id := range assetIDs {
			rates[i] = entity.SpotRate{AssetID: id, Rate: 0}
		}
		return rates, nil
	}}
	hydrator := NewFiatHydrator(source, nopLogger{})

	got := hydrator.Hydrate(context.Background(), accountWithTokens("2"), "usd")

	require.NotNil(t, got.FiatBalance)
	assert.Equal(t, "0.00", got.FiatBalance.Value)
	assert.Nil(t, got.Tokens[0].FiatBalance)
}

func TestFiatHydrator_RequestFailureDiscardsFiat(t *testing.T) {
	source := &stubSpotRateSource{fn: func([]string, string) ([]entity.SpotRate, error) {
		return nil, errors.New("rates unavailable")
	}}
	hydrator := NewFiatHydrator(source, nopLogger{})

	got := hydrator.Hydrate(context.Background(), accountWithTokens("2"), "usd")

	assert.Nil(t, got.FiatBalance)
	assert.True(t, got.FiatError)
	assert.Equal(t, entity.LoadingStateError, got.FiatLoadingState)
	assert.Equal(t, entity.LoadingStateLoaded, got.BalanceLoadingState)
}

func TestFiatHydrator_EmptyRateResponseIsMalformed(t *testing.T) {
	source := &stubSpotRateSource{fn: func([]string, string) ([]entity.SpotRate, error) {
		return []entity.SpotRate{}, nil
	}}
	hydrator := NewFiatHydrator(source, nopLogger{})

	got := hydrator.Hydrate(context.Background(), accountWithTokens("2"), "usd")

	assert.Nil(t, got.FiatBalance)
	assert.True(t, got.FiatError)
}
