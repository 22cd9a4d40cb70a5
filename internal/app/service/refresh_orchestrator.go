package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"account_hydrator/internal/app/port"
	"account_hydrator/internal/domain/entity"
)

// RefreshOrchestrator fans fiat hydration out across accounts and merges the
// per-account results into an incrementally updating snapshot stream.
type RefreshOrchestrator struct {
	fiat          *FiatHydrator
	logger        port.Logger
	maxConcurrent int
}

// NewRefreshOrchestrator creates a new RefreshOrchestrator. maxConcurrent
// bounds the number of in-flight per-account hydrations.
func NewRefreshOrchestrator(fiat *FiatHydrator, logger port.Logger, maxConcurrent int) *RefreshOrchestrator {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &RefreshOrchestrator{
		fiat:          fiat,
		logger:        logger,
		maxConcurrent: maxConcurrent,
	}
}

type accountUpdate struct {
	id      string
	account entity.AccountWithFiat
}

// Refresh emits the annotated loading snapshot first, then one full snapshot
// per completed account, and closes the channel once every account is done.
// The stream itself never fails: per-account failures surface through the
// FiatError flag of the affected account. With zero accounts the stream emits
// a single empty snapshot and closes. After ctx is cancelled no further
// emissions happen; in-flight results are discarded.
func (o *RefreshOrchestrator) Refresh(ctx context.Context, accounts []entity.Account, targetCurrency string) <-chan []entity.AccountWithFiat {
	// Buffered for the full emission count so a slow consumer never blocks
	// the merge loop.
	out := make(chan []entity.AccountWithFiat, len(accounts)+1)

	snapshot := make([]entity.AccountWithFiat, len(accounts))
	for i, account := range accounts {
		snapshot[i] = Annotate(entity.AccountWithFiat{Account: account})
	}

	updates := make(chan accountUpdate)

	go func() {
		var g errgroup.Group
		g.SetLimit(o.maxConcurrent)
		for _, account := range accounts {
			g.Go(func() error {
				hydrated := o.fiat.Hydrate(ctx, account, targetCurrency)
				select {
				case updates <- accountUpdate{id: account.ID, account: hydrated}:
				case <-ctx.Done():
				}
				return nil
			})
		}
		g.Wait()
		close(updates)
	}()

	// Single coordinating loop: it alone owns the snapshot, so every merge is
	// serialized without locking.
	go func() {
		defer close(out)
		cancelled := !o.emit(ctx, out, snapshot)
		for update := range updates {
			idx := indexByID(snapshot, update.id)
			if idx < 0 {
				o.logger.Debug("Dropping update for account no longer in snapshot", "account_id", update.id)
				continue
			}
			snapshot[idx] = update.account
			if !cancelled {
				cancelled = !o.emit(ctx, out, snapshot)
			}
		}
	}()

	return out
}

// emit sends a copy of the snapshot; it reports false once the consumer's
// context is done.
func (o *RefreshOrchestrator) emit(ctx context.Context, out chan<- []entity.AccountWithFiat, snapshot []entity.AccountWithFiat) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}
	view := make([]entity.AccountWithFiat, len(snapshot))
	copy(view, snapshot)
	select {
	case out <- view:
		return true
	case <-ctx.Done():
		return false
	}
}

func indexByID(snapshot []entity.AccountWithFiat, id string) int {
	for i := range snapshot {
		if snapshot[i].ID == id {
			return i
		}
	}
	return -1
}
