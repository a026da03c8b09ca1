package engine

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/market-pulse/internal/config"
	"github.com/rxtech-lab/market-pulse/internal/indicator"
	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
)

// Signal names, in evaluation order.
const (
	SignalWeeklyMACD     = "Weekly MACD"
	SignalWeeklyMACross  = "8/21 Weekly MA"
	SignalWeeklyEMASlope = "8W EMA Slope"
	SignalCumAD          = "Cum A/D vs 89-EMA"
	SignalCumNHNL        = "NHNL Cum vs 10-MA"
	SignalNYSISlope      = "NYSI Slope"
	SignalVIXRegime      = "VIX Regime"
	SignalRatioBreadth   = "RSP/SPY Breadth"
)

// BreadthUnavailable is the detail of breadth signals computed without breadth data.
const BreadthUnavailable = "Breadth unavailable"

// BreadthSymbol is the symbol requested from the breadth chain.
const BreadthSymbol = "breadth"

const (
	fastWeeklyMA       = 8
	slowWeeklyMA       = 21
	weeklyEMASpan      = 8
	cumADEMASpan       = 89
	cumNHNLWindow      = 10
	oscillatorFastSpan = 19
	oscillatorSlowSpan = 39
	ratioSMAWindow     = 50

	// the oscillator slope uses a fixed lookback once this many points exist
	oscillatorSlopeMinHistory = 7
	oscillatorSlopeOffset     = 6
)

// BuildSignals evaluates the default rules against the bundle.
func BuildSignals(bundle Bundle, cfg config.Config) ([]types.Signal, error) {
	return DefaultRegistry().Evaluate(bundle, cfg)
}

type ruleFunc func(bundle Bundle, cfg config.Config) (types.Signal, error)

type rule struct {
	name  string
	group Group
	eval  ruleFunc
}

func (r rule) Name() string { return r.name }

func (r rule) Group() Group { return r.group }

func (r rule) Evaluate(bundle Bundle, cfg config.Config) (types.Signal, error) {
	return r.eval(bundle, cfg)
}

func defaultRules() []Rule {
	return []Rule{
		rule{name: SignalWeeklyMACD, group: GroupTrend, eval: weeklyMACD},
		rule{name: SignalWeeklyMACross, group: GroupTrend, eval: weeklyMACross},
		rule{name: SignalWeeklyEMASlope, group: GroupTrend, eval: weeklyEMASlope},
		rule{name: SignalCumAD, group: GroupBreadth, eval: withBreadth(SignalCumAD, cumulativeAdvanceDecline)},
		rule{name: SignalCumNHNL, group: GroupBreadth, eval: withBreadth(SignalCumNHNL, cumulativeNewHighsLows)},
		rule{name: SignalNYSISlope, group: GroupBreadth, eval: withBreadth(SignalNYSISlope, summationSlope)},
		rule{name: SignalVIXRegime, group: GroupContext, eval: volatilityRegime},
		rule{name: SignalRatioBreadth, group: GroupContext, eval: ratioBreadth},
	}
}

func vote(name string, condition bool, value float64, detail string) types.Signal {
	return types.Signal{
		Name:   name,
		Vote:   types.VoteFromBool(condition),
		Value:  optional.Some(value),
		Detail: detail,
	}
}

func closes(s series.Series[types.PriceBar]) series.Numeric {
	return series.Map(s, func(bar types.PriceBar) float64 { return bar.Close })
}

func weeklyCloses(bundle Bundle) (series.Numeric, error) {
	weekly, err := indicator.Weekly(bundle.Broad)
	if err != nil {
		return series.Numeric{}, err
	}

	return closes(weekly), nil
}

// last returns the latest value of s. Callers guarantee s is non-empty.
func last(s series.Numeric) float64 {
	point, _ := s.Last()

	return point.Value
}

func weeklyMACD(bundle Bundle, _ config.Config) (types.Signal, error) {
	weekly, err := weeklyCloses(bundle)
	if err != nil {
		return types.Signal{}, err
	}

	macd, err := indicator.DefaultMACD(weekly)
	if err != nil {
		return types.Signal{}, err
	}

	line, signal := last(macd.Line), last(macd.Signal)

	return vote(SignalWeeklyMACD, line > signal, line, fmt.Sprintf("MACD %.2f vs signal %.2f", line, signal)), nil
}

func weeklyMACross(bundle Bundle, _ config.Config) (types.Signal, error) {
	weekly, err := weeklyCloses(bundle)
	if err != nil {
		return types.Signal{}, err
	}

	fast, err := indicator.SMA(weekly, fastWeeklyMA)
	if err != nil {
		return types.Signal{}, err
	}

	slow, err := indicator.SMA(weekly, slowWeeklyMA)
	if err != nil {
		return types.Signal{}, err
	}

	f, s := last(fast), last(slow)

	return vote(SignalWeeklyMACross, f > s, f-s, fmt.Sprintf("8W %.2f vs 21W %.2f", f, s)), nil
}

func weeklyEMASlope(bundle Bundle, _ config.Config) (types.Signal, error) {
	weekly, err := weeklyCloses(bundle)
	if err != nil {
		return types.Signal{}, err
	}

	ema, err := indicator.EMA(weekly, weeklyEMASpan)
	if err != nil {
		return types.Signal{}, err
	}

	slope, err := indicator.LastSlope(ema, 1)
	if err != nil {
		return types.Signal{}, err
	}

	return vote(SignalWeeklyEMASlope, slope > 0, slope, fmt.Sprintf("Slope %.2f", slope)), nil
}

type breadthFunc func(breadth series.Series[types.BreadthBar]) (types.Signal, error)

// withBreadth emits an unavailable signal when the bundle carries no breadth series.
func withBreadth(name string, fn breadthFunc) ruleFunc {
	return func(bundle Bundle, _ config.Config) (types.Signal, error) {
		breadth, err := bundle.Breadth.Take()
		if err != nil || breadth.IsEmpty() {
			return types.Signal{
				Name:   name,
				Vote:   types.VoteNotAvailable,
				Value:  optional.None[float64](),
				Detail: BreadthUnavailable,
			}, nil
		}

		return fn(breadth)
	}
}

func cumulativeAdvanceDecline(breadth series.Series[types.BreadthBar]) (types.Signal, error) {
	cum, err := indicator.Cumulative(series.Map(breadth, types.BreadthBar.NetAdvances))
	if err != nil {
		return types.Signal{}, err
	}

	ema, err := indicator.EMA(cum, cumADEMASpan)
	if err != nil {
		return types.Signal{}, err
	}

	c, e := last(cum), last(ema)

	return vote(SignalCumAD, c > e, c-e, fmt.Sprintf("Cum %.0f vs EMA %.0f", c, e)), nil
}

func cumulativeNewHighsLows(breadth series.Series[types.BreadthBar]) (types.Signal, error) {
	cum, err := indicator.Cumulative(series.Map(breadth, types.BreadthBar.NetNewHighs))
	if err != nil {
		return types.Signal{}, err
	}

	ma, err := indicator.SMA(cum, cumNHNLWindow)
	if err != nil {
		return types.Signal{}, err
	}

	c, m := last(cum), last(ma)

	return vote(SignalCumNHNL, c > m, c-m, fmt.Sprintf("Cum %.0f vs MA %.0f", c, m)), nil
}

// SummationIndex returns the cumulative sum of the 19/39 EMA oscillator of net advances.
func SummationIndex(breadth series.Series[types.BreadthBar]) (series.Numeric, error) {
	ad := series.Map(breadth, types.BreadthBar.NetAdvances)

	fast, err := indicator.EMA(ad, oscillatorFastSpan)
	if err != nil {
		return series.Numeric{}, err
	}

	slow, err := indicator.EMA(ad, oscillatorSlowSpan)
	if err != nil {
		return series.Numeric{}, err
	}

	oscillator, err := indicator.Sub(fast, slow)
	if err != nil {
		return series.Numeric{}, err
	}

	return indicator.Cumulative(oscillator)
}

// SummationSlope returns nysi[last] - nysi[len-6] once enough history exists,
// otherwise the 1-period difference.
func SummationSlope(nysi series.Numeric) (float64, error) {
	if nysi.Len() >= oscillatorSlopeMinHistory {
		return last(nysi) - nysi.At(nysi.Len()-oscillatorSlopeOffset).Value, nil
	}

	return indicator.LastSlope(nysi, 1)
}

func summationSlope(breadth series.Series[types.BreadthBar]) (types.Signal, error) {
	nysi, err := SummationIndex(breadth)
	if err != nil {
		return types.Signal{}, err
	}

	slope, err := SummationSlope(nysi)
	if err != nil {
		return types.Signal{}, err
	}

	return vote(SignalNYSISlope, slope > 0, slope, fmt.Sprintf("Slope %.2f", slope)), nil
}

// VolatilityVote classifies a volatility reading: strict below bull, inclusive at neutral.
func VolatilityVote(value float64, cfg config.Config) types.Vote {
	switch {
	case value < cfg.VIXBull:
		return types.VoteBull
	case value <= cfg.VIXNeutral:
		return types.VoteNeutral
	default:
		return types.VoteBear
	}
}

func volatilityRegime(bundle Bundle, cfg config.Config) (types.Signal, error) {
	value := last(bundle.Volatility)

	return types.Signal{
		Name:   SignalVIXRegime,
		Vote:   VolatilityVote(value, cfg),
		Value:  optional.Some(value),
		Detail: fmt.Sprintf("VIX %.2f", value),
	}, nil
}

func ratioBreadth(bundle Bundle, _ config.Config) (types.Signal, error) {
	ratio, err := indicator.Ratio(closes(bundle.EqualWeight), closes(bundle.Broad))
	if err != nil {
		return types.Signal{}, err
	}

	if ratio.IsEmpty() {
		return types.Signal{}, errors.NewInsufficientDataErrorf(1, 0, "", "equal-weight and broad market prices share no dates")
	}

	sma, err := indicator.SMA(ratio, ratioSMAWindow)
	if err != nil {
		return types.Signal{}, err
	}

	slope, err := indicator.LastSlope(ratio, 1)
	if err != nil {
		return types.Signal{}, err
	}

	r, m := last(ratio), last(sma)

	return vote(SignalRatioBreadth, r > m && slope > 0, r, fmt.Sprintf("Ratio %.4f vs SMA %.4f", r, m)), nil
}
