package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"account_hydrator/internal/domain/entity"
)

func TestAnnotate(t *testing.T) {
	usd := &entity.FiatBalance{Value: "1.00", Currency: "USD"}

	tests := []struct {
		name        string
		account     entity.AccountWithFiat
		wantBalance entity.LoadingState
		wantFiat    entity.LoadingState
	}{
		{
			"balance set, fiat pending",
			entity.AccountWithFiat{Account: entity.Account{Balance: "1.5"}},
			entity.LoadingStateLoaded, entity.LoadingStateLoading,
		},
		{
			"balance missing regardless of fiat",
			entity.AccountWithFiat{FiatBalance: usd},
			entity.LoadingStateLoading, entity.LoadingStateLoaded,
		},
		{
			"fiat error wins over a set fiat value",
			entity.AccountWithFiat{Account: entity.Account{Balance: "1"}, FiatBalance: usd, FiatError: true},
			entity.LoadingStateLoaded, entity.LoadingStateError,
		},
		{
			"everything loaded",
			entity.AccountWithFiat{Account: entity.Account{Balance: "1"}, FiatBalance: usd},
			entity.LoadingStateLoaded, entity.LoadingStateLoaded,
		},
		{
			"nothing fetched yet",
			entity.AccountWithFiat{},
			entity.LoadingStateLoading, entity.LoadingStateLoading,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Annotate(tt.account)
			assert.Equal(t, tt.wantBalance, got.BalanceLoadingState)
			assert.Equal(t, tt.wantFiat, got.FiatLoadingState)

			// Annotating again yields the same states.
			again := Annotate(got)
			assert.Equal(t, got, again)
		})
	}
}
