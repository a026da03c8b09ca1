package main

import (
	"github.com/rxtech-lab/market-pulse/internal/config"
	"github.com/rxtech-lab/market-pulse/internal/engine"
	"github.com/rxtech-lab/market-pulse/internal/logger"
	"github.com/rxtech-lab/market-pulse/internal/metrics"
	"github.com/rxtech-lab/market-pulse/pkg/marketdata"
	"github.com/rxtech-lab/market-pulse/pkg/marketdata/provider"
	"github.com/urfave/cli/v3"
)

// appState is populated by the root Before hook and shared by every command.
type appState struct {
	cfg     config.Config
	logFile string
}

// load reads the configuration file and applies the global flag overrides.
func (s *appState) load(cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	if dataDir := cmd.String("data-dir"); dataDir != "" {
		cfg.DataDir = config.ExpandHome(dataDir)
	}

	if level := cmd.String("log-level"); level != "" {
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	s.cfg = cfg
	s.logFile = cmd.String("log-file")

	return nil
}

// logger writes to --log-file when set. Otherwise commands log to stderr and the
// dashboard, which owns the terminal, does not log at all.
func (s *appState) logger(dashboard bool) (*logger.Logger, error) {
	switch {
	case s.logFile != "":
		return logger.NewLoggerWithOptions(logger.Options{Level: s.cfg.LogLevel, OutputPaths: []string{s.logFile}})
	case dashboard:
		return logger.NewNopLogger(), nil
	default:
		return logger.NewLoggerWithOptions(logger.Options{Level: s.cfg.LogLevel, OutputPaths: []string{"stderr"}})
	}
}

func (s *appState) providerOptions() provider.Options {
	return provider.Options{
		DataDir:       s.cfg.DataDir,
		Timeout:       s.cfg.RequestTimeout,
		PolygonAPIKey: s.cfg.PolygonAPIKey,
		BaseURL:       "",
	}
}

// engine wires the production chains into a snapshot engine. m may be nil.
func (s *appState) engine(log *logger.Logger, m *metrics.Metrics) (*engine.Engine, error) {
	var opts []marketdata.ChainOption
	if m != nil {
		opts = append(opts, marketdata.WithMetrics(m))
	}

	chains, err := marketdata.DefaultChains(s.providerOptions(), log, opts...)
	if err != nil {
		return nil, err
	}

	return engine.NewEngine(chains, s.cfg, log, m), nil
}
