package port

import "account_hydrator/internal/domain/entity"

// AccountDirectory is a read-only view over the known accounts. Hydration
// never mutates account identity through it, only the financial fields of the
// copies it hands out.
type AccountDirectory interface {
	List() []entity.Account
	CurrentSelection() (entity.Account, bool)
}
