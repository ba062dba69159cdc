package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/coinfolio/coinfolio"
	"github.com/coinfolio/coinfolio/renderer"
)

type positionsCmd struct {
	method string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "show current holdings and their cost basis" }
func (*positionsCmd) Usage() string {
	return `cfo positions [-method <m>]

  Replays the full ledger and prints the open positions with their remaining
  cost basis and average cost per unit.
`
}

func (p *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.method, "method", "", "Lot method for this report, overrides the global default.")
}

func (p *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	settings, err := AppSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	method := settings.LotMethodDefault
	if p.method != "" {
		if method, err = coinfolio.ParseLotMethod(p.method); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitUsageError
		}
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

	eng, err := coinfolio.Replay(active, settings, method)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.PositionsMarkdown(eng.Positions(), coinfolio.Today()))

	for _, w := range eng.Warnings() {
		fmt.Fprintln(os.Stderr, "Warning:", w)
	}
	return subcommands.ExitSuccess
}
