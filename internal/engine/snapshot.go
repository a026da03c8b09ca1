package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rxtech-lab/market-pulse/internal/config"
	"github.com/rxtech-lab/market-pulse/internal/logger"
	"github.com/rxtech-lab/market-pulse/internal/metrics"
	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/rxtech-lab/market-pulse/pkg/marketdata"
	"go.uber.org/zap"
)

// Extras keys attached to every snapshot.
const (
	ExtraVIX    = "vix"
	ExtraRSPSPY = "rsp_spy"
)

// BuildSnapshot computes signals, score, label and conflicts from a loaded bundle.
// It never returns a partial snapshot.
func BuildSnapshot(bundle Bundle, cfg config.Config) (types.Snapshot, error) {
	if err := bundle.Validate(); err != nil {
		return types.Snapshot{}, err
	}

	signals, err := BuildSignals(bundle, cfg)
	if err != nil {
		return types.Snapshot{}, err
	}

	score, label := ScoreSignals(signals, cfg)
	conflicts := DetectConflicts(signals)

	broadLast, _ := bundle.Broad.Last()
	equalLast, _ := bundle.EqualWeight.Last()
	volatilityLast, _ := bundle.Volatility.Last()

	asOf := broadLast.Date
	if volatilityLast.Date.After(asOf) {
		asOf = volatilityLast.Date
	}

	extras := map[string]string{
		ExtraVIX:    fmt.Sprintf("%.2f", volatilityLast.Value),
		ExtraRSPSPY: fmt.Sprintf("%.4f", equalLast.Value.Close/broadLast.Value.Close),
	}

	return types.NewSnapshot(asOf.Format(series.DateLayout), score, label, signals, conflicts, extras), nil
}

// Engine loads fresh data through the provider chains and builds a snapshot per call.
// Calls are serialized; nothing is cached between them.
type Engine struct {
	chains  *marketdata.Chains
	cfg     config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
	mu      sync.Mutex
}

// NewEngine creates an engine. log and m may be nil.
func NewEngine(chains *marketdata.Chains, cfg config.Config, log *logger.Logger, m *metrics.Metrics) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Engine{
		chains:  chains,
		cfg:     cfg,
		log:     log,
		metrics: m,
		mu:      sync.Mutex{},
	}
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// Snapshot runs one load-and-compute pass.
func (e *Engine) Snapshot(ctx context.Context) (types.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()

	snapshot, err := e.snapshot(ctx)
	e.metrics.ObserveSnapshot(snapshot.Score(), err)

	if err != nil {
		e.log.Error("Snapshot failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))

		return types.Snapshot{}, err
	}

	e.log.Debug("Snapshot built",
		zap.String("as_of", snapshot.AsOf()),
		zap.Int("score", snapshot.Score()),
		zap.String("label", string(snapshot.Label())),
		zap.Int("conflicts", len(snapshot.Conflicts())),
		zap.Duration("elapsed", time.Since(start)),
	)

	return snapshot, nil
}

func (e *Engine) snapshot(ctx context.Context) (types.Snapshot, error) {
	bundle, err := LoadData(ctx, e.chains, e.cfg, e.log)
	if err != nil {
		return types.Snapshot{}, err
	}

	return BuildSnapshot(bundle, e.cfg)
}
