package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/google/subcommands"

	"github.com/coinfolio/coinfolio"
)

type fetchPricesCmd struct {
	days int
}

func (*fetchPricesCmd) Name() string     { return "fetch-prices" }
func (*fetchPricesCmd) Synopsis() string { return "fetch daily close prices for assets" }
func (*fetchPricesCmd) Usage() string {
	return `cfo fetch-prices [-days <n>] <asset>...

  Downloads daily close prices in base currency for the given assets and
  stores them in the price history. Without arguments, fetches prices for
  every asset the ledger has ever held.
`
}

func (p *fetchPricesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.days, "days", 30, "Number of past days to fetch.")
}

func (p *fetchPricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	assets := f.Args()
	if len(assets) == 0 {
		active, err := LoadActiveEvents(ctx, s)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		assets = coinfolio.AssetIDs(active)
	}
	if len(assets) == 0 {
		fmt.Println("Nothing to fetch: the ledger holds no assets.")
		return subcommands.ExitSuccess
	}

	for _, asset := range assets {
		points, err := coinfolio.FetchDailyPrices(http.DefaultClient, asset, *baseCurrency, p.days)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", asset, err)
			return subcommands.ExitFailure
		}
		if err := s.UpsertPrices(ctx, points); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Fetched %d prices for %s\n", len(points), asset)
	}
	return subcommands.ExitSuccess
}
