package accountdir

import (
	"sync"

	"account_hydrator/internal/app/port"
	"account_hydrator/internal/domain/entity"
	"account_hydrator/internal/infrastructure/configloader"
)

// directory implements port.AccountDirectory backed by the accounts section
// of the config file. The first configured account starts out selected.
type directory struct {
	mu       sync.RWMutex
	accounts []entity.Account
	selected string
	logger   port.Logger
}

// NewDirectory builds an account directory from configuration.
func NewDirectory(configured []configloader.AccountConfig, logger port.Logger) port.AccountDirectory {
	accounts := make([]entity.Account, 0, len(configured))
	for _, ac := range configured {
		if ac.ID == "" || ac.Address == "" {
			logger.Warn("Skipping account entry without id or address", "id", ac.ID)
			continue
		}
		tokens := make([]entity.Token, 0, len(ac.Tokens))
		for _, tc := range ac.Tokens {
			tokens = append(tokens, entity.Token{
				LedgerID: tc.LedgerID,
				Ticker:   tc.Ticker,
				Name:     tc.Name,
			})
		}
		accounts = append(accounts, entity.Account{
			ID:             ac.ID,
			CurrencyID:     ac.CurrencyID,
			DerivationPath: ac.DerivationPath,
			FreshAddress:   ac.Address,
			Name:           ac.Name,
			Ticker:         ac.Ticker,
			Tokens:         tokens,
		})
	}

	selected := ""
	if len(accounts) > 0 {
		selected = accounts[0].ID
	}
	logger.Info("Account directory initialized", "count", len(accounts))

	return &directory{accounts: accounts, selected: selected, logger: logger}
}

// List returns a copy of the known accounts.
func (d *directory) List() []entity.Account {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]entity.Account, len(d.accounts))
	copy(out, d.accounts)
	return out
}

// CurrentSelection returns the selected account, if any.
func (d *directory) CurrentSelection() (entity.Account, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, account := range d.accounts {
		if account.ID == d.selected {
			return account, true
		}
	}
	return entity.Account{}, false
}
