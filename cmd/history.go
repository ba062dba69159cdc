package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/coinfolio/coinfolio"
	"github.com/coinfolio/coinfolio/renderer"
)

type historyCmd struct {
	days   int
	date   string
	cached bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show daily portfolio valuations" }
func (*historyCmd) Usage() string {
	return `cfo history [-days <n>] [-d <date>] [-cached]

  Replays the ledger day by day and prints one valuation per day, using the
  stored price history. With -d, prints the full breakdown of a single day.
  With -cached, serves the snapshots rebuilt by 'cfo rebuild' instead of
  replaying; events recorded since the last rebuild are not reflected.
`
}

func (p *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.days, "days", 0, "Limit the report to the last N days.")
	f.StringVar(&p.date, "d", "", "Show the detailed snapshot of one day.")
	f.BoolVar(&p.cached, "cached", false, "Serve cached snapshots without replaying.")
}

func (p *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	settings, err := AppSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	s, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	var snapshots []coinfolio.PortfolioSnapshot
	if p.cached {
		last, ok, err := s.LastSnapshotDate(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Error: no cached snapshots, run 'cfo rebuild' first")
			return subcommands.ExitFailure
		}
		from := coinfolio.NewDate(1, time.January, 1)
		if p.days > 0 {
			from = last.Add(-p.days)
		}
		snapshots, err = s.LoadSnapshots(ctx, from, last)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
	} else {
		active, err := LoadActiveEvents(ctx, s)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		points, err := s.LoadPrices(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		snapshots, err = coinfolio.DailySnapshots(active, settings, coinfolio.NewPriceSet(points),
			coinfolio.SnapshotOptions{DaysBack: p.days})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
	}
	if len(snapshots) == 0 {
		fmt.Println("The ledger is empty.")
		return subcommands.ExitSuccess
	}

	if p.date != "" {
		day, err := coinfolio.ParseDate(p.date)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitUsageError
		}
		for i := range snapshots {
			if snapshots[i].Date == day {
				printMarkdown(renderer.DailyMarkdown(&snapshots[i]))
				return subcommands.ExitSuccess
			}
		}
		fmt.Fprintf(os.Stderr, "Error: no snapshot for %s\n", day)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.HistoryMarkdown(snapshots))
	return subcommands.ExitSuccess
}
