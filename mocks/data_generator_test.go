package mocks

import (
	"testing"
	"time"
)

func TestTradingDaysSkipsWeekends(t *testing.T) {
	// 2024-01-05 is a Friday
	days := TradingDays(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 3)

	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}

	if days[1].Weekday() != time.Monday || days[2].Weekday() != time.Tuesday {
		t.Errorf("expected Monday and Tuesday after Friday, got %s and %s", days[1].Weekday(), days[2].Weekday())
	}
}

func TestDataGenerator_GeneratePrices(t *testing.T) {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Days = 100

	prices := gen.GeneratePrices(config)

	if prices.Len() != 100 {
		t.Fatalf("expected 100 data points, got %d", prices.Len())
	}

	for i := range prices.Len() {
		bar := prices.At(i).Value
		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			t.Errorf("invalid OHLC values at index %d: %+v", i, bar)
		}

		if bar.High < bar.Low {
			t.Errorf("High < Low at index %d: H=%f L=%f", i, bar.High, bar.Low)
		}
	}
}

func TestDataGenerator_Reproducible(t *testing.T) {
	config := DefaultConfig()
	config.Days = 50

	first := NewDataGenerator(7).GenerateVolatility(config)
	second := NewDataGenerator(7).GenerateVolatility(config)

	for i := range first.Len() {
		if first.At(i) != second.At(i) {
			t.Fatalf("series differ at index %d", i)
		}
	}
}

func TestDataGenerator_GenerateBreadth(t *testing.T) {
	config := DefaultConfig()
	config.Days = 20
	config.InitialValue = 3000
	config.Volatility = 0
	config.Drift = 0.002

	breadth := NewDataGenerator(1).GenerateBreadth(config)

	last, ok := breadth.Last()
	if !ok {
		t.Fatal("expected breadth data")
	}

	if last.Value.NetAdvances() <= 0 || last.Value.NetNewHighs() <= 0 {
		t.Errorf("expected positive net breadth, got %+v", last.Value)
	}

	if last.Value.Advances+last.Value.Declines != 3000 {
		t.Errorf("expected 3000 issues, got %f", last.Value.Advances+last.Value.Declines)
	}
}

func TestGenerateScenarios(t *testing.T) {
	bullish := GenerateBullish(200)
	bearish := GenerateBearish(200)

	bullLast, _ := bullish.Broad.Last()
	bearLast, _ := bearish.Broad.Last()

	if bullLast.Value.Close <= 400 {
		t.Errorf("expected rising broad market, got %f", bullLast.Value.Close)
	}

	if bearLast.Value.Close >= 400 {
		t.Errorf("expected falling broad market, got %f", bearLast.Value.Close)
	}
}

func TestDailySeriesConsecutiveDays(t *testing.T) {
	s := DailySeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), []float64{3, 4, 5})

	last, ok := s.Last()
	if !ok || !last.Date.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)) || last.Value != 5 {
		t.Errorf("unexpected last point %+v", last)
	}
}
