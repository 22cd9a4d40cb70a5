package service

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"account_hydrator/internal/domain/entity"
)

// Value converts a balance amount into a fiat value at the given rate.
// It returns nil when the amount does not parse as a finite number or when no
// rate is available. A defined rate of zero is a valid conversion and yields
// "0.00"; callers that want to skip zero rates (the per-token rule) check the
// rate before calling. The result carries exactly two fractional digits,
// rounded, and an upper-cased currency code.
func Value(amount string, rate *float64, currency string) *entity.FiatBalance {
	if rate == nil || math.IsNaN(*rate) || math.IsInf(*rate, 0) {
		return nil
	}
	amt, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil
	}

	value := amt.Mul(decimal.NewFromFloat(*rate))
	return &entity.FiatBalance{
		Value:    value.StringFixed(2),
		Currency: strings.ToUpper(currency),
	}
}
