package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/internal/types"
)

// DataGenerator generates deterministic daily market data for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how daily data is generated.
type GeneratorConfig struct {
	// Start is the first calendar day; weekends are skipped
	Start time.Time
	// Days is the number of trading days to generate
	Days int
	// InitialValue is the starting close, index level or breadth baseline
	InitialValue float64
	// Volatility is the standard deviation of the daily return (0.01 = 1%)
	Volatility float64
	// Drift is the deterministic daily return (0.001 = +0.1% per day)
	Drift float64
	// Linear adds Drift*InitialValue per day instead of compounding
	Linear bool
}

// DefaultConfig returns a sensible default configuration: one year of a gently rising market.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Start:        time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		Days:         260,
		InitialValue: 400.0,
		Volatility:   0.01,
		Drift:        0.0005,
		Linear:       false,
	}
}

// TradingDays returns count weekdays starting at start.
func TradingDays(start time.Time, count int) []time.Time {
	days := make([]time.Time, 0, count)

	for day := series.Day(start); len(days) < count; day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		days = append(days, day)
	}

	return days
}

// normal draws a standard normal value using the Box-Muller transform.
func (g *DataGenerator) normal() float64 {
	u1 := g.rng.Float64()
	u2 := g.rng.Float64()

	if u1 == 0 {
		u1 = math.SmallestNonzeroFloat64
	}

	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// path produces one value per trading day following geometric Brownian motion,
// or an arithmetic walk when Linear is set.
func (g *DataGenerator) path(config GeneratorConfig) []float64 {
	values := make([]float64, config.Days)
	current := config.InitialValue

	for i := range values {
		if config.Linear {
			current += config.InitialValue * (config.Drift + config.Volatility*g.normal())
		} else {
			current *= 1 + config.Drift + config.Volatility*g.normal()
		}

		if current <= 0 {
			current = config.InitialValue * 0.01
		}

		values[i] = roundToDecimals(current, 4)
	}

	return values
}

// GeneratePrices creates a daily OHLCV series.
func (g *DataGenerator) GeneratePrices(config GeneratorConfig) series.Series[types.PriceBar] {
	days := TradingDays(config.Start, config.Days)
	closes := g.path(config)
	builder := series.NewBuilder[types.PriceBar](config.Days)

	previous := config.InitialValue

	for i, day := range days {
		open := previous
		closePrice := closes[i]
		extension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		builder.Add(day, types.PriceBar{
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(math.Max(open, closePrice)+extension, 4),
			Low:    roundToDecimals(math.Max(math.Min(open, closePrice)-extension, 0.01), 4),
			Close:  closePrice,
			Volume: roundToDecimals(1_000_000*(0.7+g.rng.Float64()*0.6), 2),
		})

		previous = closePrice
	}

	prices, _ := builder.Build()

	return prices
}

// GenerateVolatility creates a daily volatility index series.
func (g *DataGenerator) GenerateVolatility(config GeneratorConfig) series.Numeric {
	days := TradingDays(config.Start, config.Days)
	values := g.path(config)
	builder := series.NewBuilder[float64](config.Days)

	for i, day := range days {
		builder.Add(day, values[i])
	}

	vix, _ := builder.Build()

	return vix
}

// GenerateBreadth creates a daily breadth series. Drift > 0 tilts advances and new highs
// progressively above declines and new lows; Drift < 0 does the opposite.
func (g *DataGenerator) GenerateBreadth(config GeneratorConfig) series.Series[types.BreadthBar] {
	days := TradingDays(config.Start, config.Days)
	builder := series.NewBuilder[types.BreadthBar](config.Days)

	issues := config.InitialValue
	if issues <= 0 {
		issues = 3000
	}

	tilt := math.Max(-0.4, math.Min(0.4, config.Drift*100))

	for i, day := range days {
		progress := float64(i+1) / float64(len(days))
		share := 0.5 + tilt*progress + config.Volatility*g.normal()
		share = math.Max(0.05, math.Min(0.95, share))

		advances := math.Round(issues * share)
		highs := math.Round(issues * 0.05 * share)

		builder.Add(day, types.BreadthBar{
			Advances: advances,
			Declines: issues - advances,
			NewHighs: highs,
			NewLows:  math.Round(issues*0.05) - highs,
		})
	}

	breadth, _ := builder.Build()

	return breadth
}

// Bundle is a matched set of generated series for one scenario.
type Bundle struct {
	Broad       series.Series[types.PriceBar]
	EqualWeight series.Series[types.PriceBar]
	Volatility  series.Numeric
	Breadth     series.Series[types.BreadthBar]
}

// GenerateBullish returns a noise-free, linearly rising market with low volatility and strong breadth.
func GenerateBullish(days int) Bundle {
	return generateScenario(days, 0.002, 0.003, 14, 0.002)
}

// GenerateBearish returns a noise-free, linearly falling market with high volatility and weak breadth.
func GenerateBearish(days int) Bundle {
	return generateScenario(days, -0.002, -0.003, 32, -0.002)
}

func generateScenario(days int, broadDrift, equalDrift, vixLevel, breadthDrift float64) Bundle {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Days = days
	config.Volatility = 0
	config.Linear = true

	broad := config
	broad.Drift = broadDrift

	equal := config
	equal.InitialValue = 150
	equal.Drift = equalDrift

	vix := config
	vix.InitialValue = vixLevel
	vix.Drift = 0

	breadth := config
	breadth.InitialValue = 3000
	breadth.Drift = breadthDrift

	return Bundle{
		Broad:       gen.GeneratePrices(broad),
		EqualWeight: gen.GeneratePrices(equal),
		Volatility:  gen.GenerateVolatility(vix),
		Breadth:     gen.GenerateBreadth(breadth),
	}
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
