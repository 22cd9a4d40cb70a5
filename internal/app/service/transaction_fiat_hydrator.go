package service

import (
	"context"
	"sync"

	"account_hydrator/internal/app/port"
	"account_hydrator/internal/domain/entity"
)

const calendarDateLen = len("2006-01-02")

// TransactionFiatHydrator values historical transactions by fetching one
// daily-rate span per asset group.
type TransactionFiatHydrator struct {
	rates  port.HistoricalRateSource
	logger port.Logger
}

// NewTransactionFiatHydrator creates a new TransactionFiatHydrator.
func NewTransactionFiatHydrator(rates port.HistoricalRateSource, logger port.Logger) *TransactionFiatHydrator {
	return &TransactionFiatHydrator{rates: rates, logger: logger}
}

// Hydrate groups transactions by ledger identifier, fetches the historical
// rates covering each group's date span, and applies the rate matching each
// transaction's calendar date. It never returns an error: a failed group is
// returned unvalued and does not affect the other groups. Relative order is
// preserved within a group; order across groups is not significant.
func (h *TransactionFiatHydrator) Hydrate(ctx context.Context, items []entity.TransactionHistoryItem, targetCurrency string) []entity.TransactionHistoryItem {
	if len(items) == 0 {
		return []entity.TransactionHistoryItem{}
	}

	groups := make(map[string][]entity.TransactionHistoryItem)
	order := make([]string, 0)
	for _, item := range items {
		if _, seen := groups[item.LedgerID]; !seen {
			order = append(order, item.LedgerID)
		}
		groups[item.LedgerID] = append(groups[item.LedgerID], item)
	}

	// One goroutine per asset group, each owning its own result slot.
	results := make([][]entity.TransactionHistoryItem, len(order))
	var wg sync.WaitGroup
	for i, ledgerID := range order {
		group := groups[ledgerID]
		if ledgerID == "" {
			h.logger.Warn("Transactions without a ledger identifier are skipped during fiat valuation",
				"count", len(group))
			results[i] = group
			continue
		}
		wg.Add(1)
		go func(slot int, ledgerID string, group []entity.TransactionHistoryItem) {
			defer wg.Done()
			results[slot] = h.hydrateGroup(ctx, ledgerID, group, targetCurrency)
		}(i, ledgerID, group)
	}
	wg.Wait()

	out := make([]entity.TransactionHistoryItem, 0, len(items))
	for _, group := range results {
		out = append(out, group...)
	}
	return out
}

func (h *TransactionFiatHydrator) hydrateGroup(ctx context.Context, ledgerID string, group []entity.TransactionHistoryItem, targetCurrency string) []entity.TransactionHistoryItem {
	minDate, maxDate := dateSpan(group)
	rates, err := h.rates.GetHistoricalRates(ctx, ledgerID, targetCurrency, minDate, maxDate)
	if err != nil {
		h.logger.Warn("Historical rate request failed, leaving group unvalued",
			"ledger_id", ledgerID, "from", minDate, "to", maxDate, "error", err)
		return group
	}

	out := make([]entity.TransactionHistoryItem, len(group))
	copy(out, group)
	for i := range out {
		rate, ok := rates[calendarDate(out[i].Timestamp)]
		if !ok {
			continue
		}
		fiat := Value(out[i].FormattedValue, &rate, targetCurrency)
		if fiat == nil {
			continue
		}
		out[i].FiatValue = fiat.Value
		out[i].FiatCurrency = fiat.Currency
	}
	return out
}

// calendarDate returns the YYYY-MM-DD prefix of an ISO-8601 timestamp.
func calendarDate(timestamp string) string {
	if len(timestamp) < calendarDateLen {
		return timestamp
	}
	return timestamp[:calendarDateLen]
}

// dateSpan returns the inclusive calendar-date span of a group. Lexicographic
// comparison is correct for ISO-8601 date prefixes.
func dateSpan(group []entity.TransactionHistoryItem) (minDate, maxDate string) {
	for _, item := range group {
		d := calendarDate(item.Timestamp)
		if minDate == "" || d < minDate {
			minDate = d
		}
		if d > maxDate {
			maxDate = d
		}
	}
	return minDate, maxDate
}
