package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/coinfolio/coinfolio"
)

type rebuildCmd struct {
	from string
	full bool
}

func (*rebuildCmd) Name() string     { return "rebuild" }
func (*rebuildCmd) Synopsis() string { return "refresh the cached daily snapshots" }
func (*rebuildCmd) Usage() string {
	return `cfo rebuild [-from <date>] [-full]

  Rebuilds the snapshot cache. By default only the suffix from the last
  cached day onward is recomputed; -from moves that boundary earlier (after
  backdated corrections), -full discards the whole cache. The incremental
  suffix is identical to what a full rebuild would produce for those days.
`
}

func (p *rebuildCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.from, "from", "", "Rebuild from this day onward.")
	f.BoolVar(&p.full, "full", false, "Rebuild the whole cache from scratch.")
}

func (p *rebuildCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	active, err := LoadActiveEvents(ctx, s)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if len(active) == 0 {
		fmt.Println("The ledger is empty, nothing to rebuild.")
		return subcommands.ExitSuccess
	}
	points, err := s.LoadPrices(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	var opts coinfolio.SnapshotOptions
	switch {
	case p.full:
		// full rebuild, no range restriction
	case p.from != "":
		day, err := coinfolio.ParseDate(p.from)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitUsageError
		}
		opts.RangeStart = day
	default:
		if last, ok, err := s.LastSnapshotDate(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		} else if ok {
			opts.RangeStart = last
		}
	}

	snapshots, err := coinfolio.DailySnapshots(active, settings, coinfolio.NewPriceSet(points), opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if len(snapshots) == 0 {
		fmt.Println("Nothing to rebuild.")
		return subcommands.ExitSuccess
	}

	if err := s.ReplaceSnapshots(ctx, snapshots[0].Date, snapshots); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Rebuilt %d snapshots from %s to %s\n",
		len(snapshots), snapshots[0].Date, snapshots[len(snapshots)-1].Date)
	if d, err := s.Digest(ctx); err == nil {
		fmt.Printf("Ledger digest: %d events, last revision %s\n",
			d.Events, d.LastRevision.Format(time.RFC3339))
	}
	return subcommands.ExitSuccess
}
