package entity

// TransactionDirection indicates whether value left or entered the account.
type TransactionDirection string

const (
	DirectionSent     TransactionDirection = "sent"
	DirectionReceived TransactionDirection = "received"
)

// TransactionHistoryItem is one row of an account's transaction history.
// Timestamp is an ISO-8601 string. LedgerID may be empty when the asset of the
// transaction could not be identified. FiatValue and FiatCurrency are only set
// once the item has been hydrated against a historical rate.
type TransactionHistoryItem struct {
	Hash           string               `json:"hash"`
	Direction      TransactionDirection `json:"direction"`
	Value          string               `json:"value"`
	FormattedValue string               `json:"formattedValue"`
	Timestamp      string               `json:"timestamp"`
	LedgerID       string               `json:"ledgerId,omitempty"`
	FiatValue      string               `json:"fiatValue,omitempty"`
	FiatCurrency   string               `json:"fiatCurrency,omitempty"`
}
