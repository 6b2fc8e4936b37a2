// Package feed fetches intraday and daily bars and assembles the per-symbol
// context the rule engine consumes.
package feed

import (
	"time"

	"TradeSentry/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchIntraday returns today's 5-minute bars for the symbol.
	FetchIntraday(symbol string) ([]model.Bar, error)
	// FetchDailyBars returns the most recent `days` daily bars, oldest
	// first. The last bar may be today's partial session.
	FetchDailyBars(symbol string, days int) ([]model.Bar, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price        float64
	IntradayData map[string][]model.Bar
	DailyData    map[string][]model.Bar
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchIntraday(symbol string) ([]model.Bar, error) {
	if bars, ok := m.IntradayData[symbol]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, 12, 5*time.Minute), nil
}

func (m *MockFetcher) FetchDailyBars(symbol string, days int) ([]model.Bar, error) {
	if bars, ok := m.DailyData[symbol]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, days, 24*time.Hour), nil
}

func generateMockBars(basePrice float64, count int, step time.Duration) []model.Bar {
	bars := make([]model.Bar, count)
	now := time.Now()
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Time:   now.Add(-time.Duration(count-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
