package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"pair_dashboard/internal/app/config"
	"pair_dashboard/internal/app/di"
	"pair_dashboard/internal/feature/candles/domain/entity"
	"pair_dashboard/internal/platform/externalapi/binance"
	"pair_dashboard/internal/platform/logging"
)

const dateLayout = "2006-01-02"

// snapshot is the terminal rendition of the dashboard page.
type snapshot struct {
	out io.Writer
}

func newApp(out io.Writer) *cli.Command {
	s := &snapshot{out: out}
	return &cli.Command{
		Name:  "snapshot",
		Usage: "list USDT pairs and print the last 30 daily candles of one of them",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pair", Aliases: []string{"p"}, Usage: "pair to show (default: first listed pair)", Sources: cli.EnvVars("SNAPSHOT_PAIR")},
			&cli.StringFlag{Name: "backend", Usage: "market backend: sdk or rest", Sources: cli.EnvVars("MARKET_BACKEND")},
			&cli.StringFlag{Name: "base-url", Usage: "exchange host, or data-api", Sources: cli.EnvVars("MARKET_BASE_URL")},
			&cli.StringFlag{Name: "user-agent", Usage: "User-Agent header, or browser", Sources: cli.EnvVars("MARKET_USER_AGENT")},
			&cli.StringFlag{Name: "cache", Usage: "cache backend: memory, redis or none", Sources: cli.EnvVars("CACHE_BACKEND")},
		},
		Action: s.dashboard,
		Commands: []*cli.Command{
			{
				Name:   "pairs",
				Usage:  "list USDT-quoted pairs",
				Action: s.pairs,
			},
			{
				Name:      "history",
				Usage:     "print the last 30 daily candles of a pair",
				ArgsUsage: "<symbol>",
				Action:    s.history,
			},
		},
	}
}

// services loads configuration, applies flag overrides and wires the fetchers.
func (s *snapshot) services(ctx context.Context, cmd *cli.Command) (*di.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := cmd.String("backend"); v != "" {
		cfg.Market.Backend = binance.ParseBackend(v)
	}
	if v := cmd.String("base-url"); v != "" {
		cfg.Market.BaseURL = binance.ResolveBaseURL(v)
	}
	if v := cmd.String("user-agent"); v != "" {
		cfg.Market.UserAgent = binance.ResolveUserAgent(v)
	}
	if v := cmd.String("cache"); v != "" {
		cfg.Cache.Backend = config.CacheBackend(strings.ToLower(v))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log)
	return di.NewServices(ctx, cfg, nil), nil
}

// dashboard mirrors the page flow: list pairs, pick one, show its history.
func (s *snapshot) dashboard(ctx context.Context, cmd *cli.Command) error {
	svc, err := s.services(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	pairs, _ := svc.Pairs.FetchPairs(ctx)
	if len(pairs) == 0 {
		fmt.Fprintln(s.out, "Warning: no USDT pairs available.")
		return nil
	}

	pair := pairs[0]
	if want := strings.ToUpper(strings.TrimSpace(cmd.String("pair"))); want != "" {
		if !slices.Contains(pairs, want) {
			return fmt.Errorf("pair %q is not a listed USDT pair", want)
		}
		pair = want
	}
	fmt.Fprintf(s.out, "Selected pair: %s (%d USDT pairs listed)\n\n", pair, len(pairs))

	series, _ := svc.History.FetchHistory(ctx, pair)
	s.render(series)
	return nil
}

func (s *snapshot) pairs(ctx context.Context, cmd *cli.Command) error {
	svc, err := s.services(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	pairs, _ := svc.Pairs.FetchPairs(ctx)
	if len(pairs) == 0 {
		fmt.Fprintln(s.out, "Warning: no USDT pairs available.")
		return nil
	}
	for _, p := range pairs {
		fmt.Fprintln(s.out, p)
	}
	return nil
}

func (s *snapshot) history(ctx context.Context, cmd *cli.Command) error {
	symbol := cmd.Args().First()
	if symbol == "" {
		return fmt.Errorf("history: missing <symbol> argument")
	}
	svc, err := s.services(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	series, _ := svc.History.FetchHistory(ctx, symbol)
	s.render(series)
	return nil
}

// render prints the series as a table, or a warning when it has no rows.
func (s *snapshot) render(series entity.CandleSeries) {
	if series.Empty() {
		fmt.Fprintf(s.out, "Warning: no historical data for %s.\n", series.Symbol)
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tOpen\tHigh\tLow\tClose\tVolume\t")
	for _, r := range series.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Timestamp.Format(dateLayout),
			r.Open.String(), r.High.String(), r.Low.String(), r.Close.String(), r.Volume.String())
	}
	_ = tw.Flush()
}
