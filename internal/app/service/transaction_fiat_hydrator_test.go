package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account_hydrator/internal/domain/entity"
)

func TestTransactionFiatHydrator_ValuesByCalendarDate(t *testing.T) {
	source := &stubHistoricalRateSource{fn: func(_, _, _, _ string) (map[string]float64, error) {
		return map[string]float64{
			"2024-03-01": 2500,
			"2024-03-03": 2600,
		}, nil
	}}
	hydrator := NewTransactionFiatHydrator(source, nopLogger{})

	items := []entity.TransactionHistoryItem{
		{Hash: "0xaa", LedgerID: "ethereum", FormattedValue: "1.0", Timestamp: "2024-03-01T10:15:00Z"},
		{Hash: "0xbb", LedgerID: "ethereum", FormattedValue: "2.0", Timestamp: "2024-03-03T08:00:00Z"},
	}

	got := hydrator.Hydrate(context.Background(), items, "usd")

	require.Len(t, got, 2)
	assert.Equal(t, "2500.00", got[0].FiatValue)
	assert.Equal(t, "USD", got[0].FiatCurrency)
	assert.Equal(t, "5200.00", got[1].FiatValue)
	assert.Equal(t, "USD", got[1].FiatCurrency)

	requests := source.recorded()
	require.Len(t, requests, 1, "one request covers the whole group")
	assert.Equal(t, historicalRequest{"ethereum", "usd", "2024-03-01", "2024-03-03"}, requests[0])
}

func TestTransactionFiatHydrator_MissingDateLeavesItemUnvalued(t *testing.T) {
	source := &stubHistoricalRateSource{fn: func(_, _, _, _ string) (map[string]float64, error) {
		return map[string]float64{"2024-03-01": 2500}, nil
	}}
	hydrator := NewTransactionFiatHydrator(source, nopLogger{})

	items := []entity.TransactionHistoryItem{
		{Hash: "0xaa", LedgerID: "ethereum", FormattedValue: "1.0", Timestamp: "2024-03-01T10:15:00Z"},
		{Hash: "0xbb", LedgerID: "ethereum", FormattedValue: "2.0", Timestamp: "2024-03-02T08:00:00Z"},
	}

	got := hydrator.Hydrate(context.Background(), items, "usd")

	require.Len(t, got, 2)
	assert.Equal(t, "2500.00", got[0].FiatValue)
	assert.Empty(t, got[1].FiatValue)
	assert.Empty(t, got[1].FiatCurrency)
}

func TestTransactionFiatHydrator_OneRequestPerAssetGroup(t *testing.T) {
	source := &stubHistoricalRateSource{fn: func(_, _, _, _ string) (map[string]float64, error) {
		return map[string]float64{}, nil
	}}
	hydrator := NewTransactionFiatHydrator(source, nopLogger{})

	items := []entity.TransactionHistoryItem{
		{Hash: "0x01", LedgerID: "ethereum", FormattedValue: "1", Timestamp: "2024-03-01T00:00:00Z"},
		{Hash: "0x02", LedgerID: "bitcoin", FormattedValue: "1", Timestamp: "2024-02-10T00:00:00Z"},
		{Hash: "0x03", LedgerID: "ethereum", FormattedValue: "1", Timestamp: "2024-03-05T00:00:00Z"},
	}

	hydrator.Hydrate(context.Background(), items, "usd")

	requests := source.recorded()
	require.Len(t, requests, 2)

	spans := map[string]historicalRequest{}
	for _, r := range requests {
		spans[r.assetID] = r
	}
	assert.Equal(t, historicalRequest{"ethereum", "usd", "2024-03-01", "2024-03-05"}, spans["ethereum"])
	assert.Equal(t, historicalRequest{"bitcoin", "usd", "2024-02-10", "2024-02-10"}, spans["bitcoin"])
}

func TestTransactionFiatHydrator_GroupFailureIsIsolated(t *testing.T) {
	source := &stubHistoricalRateSource{fn: func(assetID, _, _, _ string) (map[string]float64, error) {
		if assetID == "bitcoin" {
			return nil, errors.New("rates unavailable")
		}
		return map[string]float64{"2024-03-01": 10}, nil
	}}
	hydrator := NewTransactionFiatHydrator(source, nopLogger{})

	items := []entity.TransactionHistoryItem{
		{Hash: "0x01", LedgerID: "ethereum", FormattedValue: "2", Timestamp: "2024-03-01T00:00:00Z"},
		{Hash: "0x02", LedgerID: "bitcoin", FormattedValue: "1", Timestamp: "2024-03-01T00:00:00Z"},
	}

	got := hydrator.Hydrate(context.Background(), items, "usd")

	require.Len(t, got, 2)
	byHash := map[string]entity.TransactionHistoryItem{}
	for _, item := range got {
		byHash[item.Hash] = item
	}
	assert.Equal(t, "20.00", byHash["0x01"].FiatValue)
	assert.Empty(t, byHash["0x02"].FiatValue)
}

func TestTransactionFiatHydrator_SkipsItemsWithoutLedgerID(t *testing.T) {
	source := &stubHistoricalRateSource{fn: func(_, _, _, _ string) (map[string]float64, error) {
		return map[string]float64{"2024-03-01": 10}, nil
	}}
	hydrator := NewTransactionFiatHydrator(source, nopLogger{})

	items := []entity.TransactionHistoryItem{
		{Hash: "0x01", LedgerID: "", FormattedValue: "2", Timestamp: "2024-03-01T00:00:00Z"},
	}

	got := hydrator.Hydrate(context.Background(), items, "usd")

	require.Len(t, got, 1)
	assert.Empty(t, got[0].FiatValue)
	assert.Empty(t, source.recorded())
}

func TestTransactionFiatHydrator_EmptyInput(t *testing.T) {
	source := &stubHistoricalRateSource{fn: func(_, _, _, _ string) (map[string]float64, error) {
		t.Fatal("no request expected")
		return nil, nil
	}}
	hydrator := NewTransactionFiatHydrator(source, nopLogger{})

	got := hydrator.Hydrate(context.Background(), nil, "usd")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
