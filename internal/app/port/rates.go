package port

import (
	"context"

	"account_hydrator/internal/domain/entity"
)

// SpotRateSource returns current exchange rates for a batch of asset
// identifiers. Rates come back in the same order as the requested ids; ids
// unknown upstream map to a zero rate.
type SpotRateSource interface {
	GetSpotRates(ctx context.Context, assetIDs []string, targetCurrency string) ([]entity.SpotRate, error)
}

// HistoricalRateSource returns daily exchange rates keyed by calendar date
// (YYYY-MM-DD) for the inclusive span [startDate, endDate].
type HistoricalRateSource interface {
	GetHistoricalRates(ctx context.Context, assetID, targetCurrency, startDate, endDate string) (map[string]float64, error)
}
