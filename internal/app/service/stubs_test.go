package service

import (
	"context"
	"encoding/json"
	"sync"

	"account_hydrator/internal/domain/entity"
)

// nopLogger satisfies port.Logger for tests.
type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type stubBalanceService struct {
	result *entity.AccountBalance
	err    error
	calls  int
}

func (s *stubBalanceService) GetBalance(_ context.Context, _, _ string, _ bool) (*entity.AccountBalance, error) {
	s.calls++
	return s.result, s.err
}

type stubRPCClient struct {
	result json.RawMessage
	err    error
	calls  int
}

func (s *stubRPCClient) Call(_ context.Context, _ string, _ []any, _ string) (json.RawMessage, error) {
	s.calls++
	return s.result, s.err
}

// stubSpotRateSource delegates to fn and records every request.
type stubSpotRateSource struct {
	mu       sync.Mutex
	requests [][]string
	fn       func(assetIDs []string, targetCurrency string) ([]entity.SpotRate, error)
}

func (s *stubSpotRateSource) GetSpotRates(_ context.Context, assetIDs []string, targetCurrency string) ([]entity.SpotRate, error) {
	s.mu.Lock()
	ids := make([]string, len(assetIDs))
	copy(ids, assetIDs)
	s.requests = append(s.requests, ids)
	s.mu.Unlock()
	return s.fn(assetIDs, targetCurrency)
}

func (s *stubSpotRateSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type historicalRequest struct {
	assetID   string
	currency  string
	startDate string
	endDate   string
}

// stubHistoricalRateSource delegates to fn and records every request.
type stubHistoricalRateSource struct {
	mu       sync.Mutex
	requests []historicalRequest
	fn       func(assetID, targetCurrency, startDate, endDate string) (map[string]float64, error)
}

func (s *stubHistoricalRateSource) GetHistoricalRates(_ context.Context, assetID, targetCurrency, startDate, endDate string) (map[string]float64, error) {
	s.mu.Lock()
	s.requests = append(s.requests, historicalRequest{assetID, targetCurrency, startDate, endDate})
	s.mu.Unlock()
	return s.fn(assetID, targetCurrency, startDate, endDate)
}

func (s *stubHistoricalRateSource) recorded() []historicalRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]historicalRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func float64Ptr(v float64) *float64 {
	return &v
}
