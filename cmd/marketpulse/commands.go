package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rxtech-lab/market-pulse/internal/config"
	"github.com/rxtech-lab/market-pulse/internal/logger"
	"github.com/rxtech-lab/market-pulse/internal/metrics"
	"github.com/rxtech-lab/market-pulse/internal/summary"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/rxtech-lab/market-pulse/pkg/marketdata"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func computeSnapshot(ctx context.Context, state *appState) (types.Snapshot, error) {
	log, err := state.logger(false)
	if err != nil {
		return types.Snapshot{}, err
	}

	defer func() { _ = log.Sync() }()

	eng, err := state.engine(log, nil)
	if err != nil {
		return types.Snapshot{}, err
	}

	return eng.Snapshot(ctx)
}

func snapshotCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Print a shareable daily summary",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			snapshot, err := computeSnapshot(ctx, state)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.Root().Writer, summary.Text(snapshot))

			return err
		},
	}
}

func exportCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the computed signals",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Write JSON; --json=false writes the text summary",
				Value: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			snapshot, err := computeSnapshot(ctx, state)
			if err != nil {
				return err
			}

			if !cmd.Bool("json") {
				_, err = fmt.Fprintln(cmd.Root().Writer, summary.Text(snapshot))

				return err
			}

			data, err := summary.JSON(snapshot)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.Root().Writer, string(data))

			return err
		},
	}
}

func runCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Start the terminal dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this `ADDR` while the dashboard runs",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := state.logger(true)
			if err != nil {
				return err
			}

			defer func() { _ = log.Sync() }()

			m, stop, err := startMetrics(cmd.String("metrics-addr"), state.cfg.MetricsAddr, log)
			if err != nil {
				return err
			}

			defer stop()

			eng, err := state.engine(log, m)
			if err != nil {
				return err
			}

			model := NewModel(ctx, eng.Snapshot, state.cfg.RefreshInterval())

			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

			return err
		},
	}
}

// startMetrics serves the collectors when an address is configured. The flag wins over the file.
func startMetrics(flagAddr, configAddr string, log *logger.Logger) (*metrics.Metrics, func(), error) {
	addr := flagAddr
	if addr == "" {
		addr = configAddr
	}

	if addr == "" {
		return nil, func() {}, nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := metrics.New(reg)
	srv, err := metrics.Serve(addr, reg)
	if err != nil {
		return nil, nil, err
	}

	log.Info("Serving metrics", zap.String("addr", srv.Addr))

	return m, func() { _ = srv.Shutdown(context.Background()) }, nil
}

func cacheCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Download price and volatility history from the remote providers into the local cache",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := state.logger(false)
			if err != nil {
				return err
			}

			defer func() { _ = log.Sync() }()

			chains, err := marketdata.RemoteChains(state.providerOptions(), log)
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			clientConfig := marketdata.ClientConfig{
				WriterType:       marketdata.WriterDuckDB,
				DataPath:         state.cfg.DataDir,
				PriceSymbols:     []string{state.cfg.BroadSymbol, state.cfg.EqualWeightSymbol},
				VolatilitySymbol: state.cfg.VolatilitySymbol,
			}

			var bar *progressbar.ProgressBar

			client, err := marketdata.NewClient(clientConfig, chains, log, func(current, _ int, message string) {
				bar.Describe(message)
				_ = bar.Set(current)
			})
			if err != nil {
				return err
			}

			bar = progressbar.NewOptions(client.Total(),
				progressbar.OptionSetWriter(out),
				progressbar.OptionSetDescription("Caching"),
				progressbar.OptionShowCount(),
				progressbar.OptionOnCompletion(func() { fmt.Fprintln(out) }),
			)

			results, err := client.Download(ctx)
			for _, result := range results {
				fmt.Fprintf(out, "%s %s: %d rows from %s -> %s\n", result.Kind, result.Symbol, result.Rows, result.Provider, result.Path)
			}

			return err
		},
	}
}

func providersCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "List the data providers in fallback order",
		Action: func(_ context.Context, cmd *cli.Command) error {
			polygonEnabled := state.cfg.PolygonAPIKey != ""

			t := ltable.New().
				Border(lipgloss.NormalBorder()).
				Headers("KIND", "ORDER", "PROVIDER", "REMOTE", "AUTH", "DESCRIPTION")

			for _, kind := range []types.DataKind{types.DataKindPrice, types.DataKindVolatility, types.DataKindBreadth} {
				for i, info := range marketdata.GetProvidersForKind(kind, polygonEnabled) {
					t.Row(string(kind), fmt.Sprint(i+1), info.DisplayName, yesNo(info.Remote), yesNo(info.RequiresAuth), info.Description)
				}
			}

			_, err := fmt.Fprintln(cmd.Root().Writer, t.Render())

			return err
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}

	return "no"
}

func configCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration as YAML",
				Action: func(_ context.Context, cmd *cli.Command) error {
					out, err := state.cfg.YAML()
					if err != nil {
						return err
					}

					_, err = fmt.Fprint(cmd.Root().Writer, out)

					return err
				},
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the configuration file",
				Action: func(_ context.Context, cmd *cli.Command) error {
					schema, err := config.Schema()
					if err != nil {
						return err
					}

					_, err = fmt.Fprintln(cmd.Root().Writer, strings.TrimSpace(schema))

					return err
				},
			},
		},
	}
}
