package types

// PriceBar is one normalized daily OHLCV row. The date lives on the enclosing series point.
type PriceBar struct {
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// BreadthBar is one normalized daily market-internals row.
type BreadthBar struct {
	Advances float64 `json:"advances"`
	Declines float64 `json:"declines"`
	NewHighs float64 `json:"new_highs"`
	NewLows  float64 `json:"new_lows"`
}

// NetAdvances returns advances minus declines.
func (b BreadthBar) NetAdvances() float64 {
	return b.Advances - b.Declines
}

// NetNewHighs returns new highs minus new lows.
func (b BreadthBar) NetNewHighs() float64 {
	return b.NewHighs - b.NewLows
}

// DataKind identifies which canonical shape a record set normalizes into.
type DataKind string

const (
	DataKindPrice      DataKind = "price"
	DataKindVolatility DataKind = "volatility"
	DataKindBreadth    DataKind = "breadth"
)
