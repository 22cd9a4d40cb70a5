package entity

import "math/big"

// TokenBalance is one token row returned by the balance service. Balance is
// already a decimal display string.
type TokenBalance struct {
	LedgerID string
	Ticker   string
	Name     string
	Balance  string
}

// AccountBalance is the result of a balance service lookup. Native is the raw
// integer amount in the currency's smallest unit.
type AccountBalance struct {
	Native *big.Int
	Tokens []TokenBalance
}

// SpotRate pairs an asset identifier with its current exchange rate against
// the requested fiat currency. A zero rate means the upstream had no quote for
// the asset.
type SpotRate struct {
	AssetID string  `json:"assetId"`
	Rate    float64 `json:"rate"`
}
