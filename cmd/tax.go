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

type taxCmd struct {
	year   int
	method string
}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "generate a yearly tax report" }
func (*taxCmd) Usage() string {
	return `cfo tax [-year <y>] [-method <m>] [-profile <p>]

  Reports one calendar year: disposals with realized gains, reward income,
  and the open positions at year end. The jurisdiction profile may force the
  lot method (de and ie force FIFO).
`
}

func (p *taxCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.year, "year", time.Now().UTC().Year(), "Calendar year to report.")
	f.StringVar(&p.method, "method", "", "Lot method for this report, overrides the global default.")
}

func (p *taxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	settings, err := AppSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	var override *coinfolio.LotMethod
	if p.method != "" {
		m, err := coinfolio.ParseLotMethod(p.method)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitUsageError
		}
		override = &m
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

	report, err := coinfolio.NewTaxReport(active, settings, p.year, override)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.TaxMarkdown(report))
	return subcommands.ExitSuccess
}
