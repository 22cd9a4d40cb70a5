package entity

import "github.com/shopspring/decimal"

// DefaultFiatCurrency is used when a total has to be reported but no native
// fiat value carries a currency of its own.
const DefaultFiatCurrency = "USD"

// LoadingState is a three-valued readiness indicator derived from the presence
// of a value and an error flag.
type LoadingState string

const (
	LoadingStateLoading LoadingState = "loading"
	LoadingStateLoaded  LoadingState = "loaded"
	LoadingStateError   LoadingState = "error"
)

// FiatBalance is a monetary value expressed in a fiat currency. Value always
// carries exactly two fractional digits once computed; a nil *FiatBalance
// means "not computed", which is distinct from a computed zero.
type FiatBalance struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Token is an asset held by an account besides its native currency.
// LedgerID is the asset identifier used for rate lookups, e.g.
// "ethereum/erc20/usdc".
type Token struct {
	LedgerID    string       `json:"ledgerId"`
	Ticker      string       `json:"ticker"`
	Name        string       `json:"name"`
	Balance     string       `json:"balance"`
	FiatBalance *FiatBalance `json:"fiatBalance,omitempty"`
}

// Account is the minimal on-chain account record that hydration enriches.
// Balance is a decimal display string; empty means not yet fetched. Hydration
// replaces the Tokens slice wholesale, never individual entries.
type Account struct {
	ID             string  `json:"id"`
	CurrencyID     string  `json:"currencyId"`
	DerivationPath string  `json:"derivationPath,omitempty"`
	FreshAddress   string  `json:"freshAddress"`
	Name           string  `json:"name"`
	Ticker         string  `json:"ticker"`
	Balance        string  `json:"balance,omitempty"`
	Tokens         []Token `json:"tokens"`
}

// AccountWithFiat is an Account plus its fiat valuation for one refresh
// cycle. Instances are created at the start of a cycle and replaced at the
// next one; there is no cross-cycle identity.
type AccountWithFiat struct {
	Account
	FiatBalance         *FiatBalance `json:"fiatBalance,omitempty"`
	FiatError           bool         `json:"fiatError"`
	BalanceLoadingState LoadingState `json:"balanceLoadingState,omitempty"`
	FiatLoadingState    LoadingState `json:"fiatLoadingState,omitempty"`
}

// TotalFiat sums the native fiat value and every token fiat value. It returns
// nil when nothing has been valued yet. The currency is taken from the native
// fiat value; when only token fiat is present it falls back to
// DefaultFiatCurrency instead of inheriting the token's currency. Existing
// consumers rely on that fallback, so it is kept even though inheriting would
// arguably be more correct.
func (a AccountWithFiat) TotalFiat() *FiatBalance {
	total := decimal.Zero
	currency := DefaultFiatCurrency
	valued := false

	if a.FiatBalance != nil {
		if v, err := decimal.NewFromString(a.FiatBalance.Value); err == nil {
			total = total.Add(v)
			currency = a.FiatBalance.Currency
			valued = true
		}
	}
	for _, token := range a.Tokens {
		if token.FiatBalance == nil {
			continue
		}
		v, err := decimal.NewFromString(token.FiatBalance.Value)
		if err != nil {
			continue
		}
		total = total.Add(v)
		valued = true
	}

	if !valued {
		return nil
	}
	return &FiatBalance{Value: total.StringFixed(2), Currency: currency}
}
