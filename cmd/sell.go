package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/coinfolio/coinfolio"
)

type sellCmd struct {
	asset    string
	quantity string
	price    string
	when     string
	note     string
	replaces string
	fee      feeFlags
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record an asset sale" }
func (*sellCmd) Usage() string {
	return `cfo sell -asset <id> -quantity <q> -price <unit price> [-fee <f>] [-time <t>]

  Records the sale of a quantity of an asset at a per-unit price in base
  currency. The quantity is given positive; the ledger stores the disposal.
`
}

func (p *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.asset, "asset", "", "Asset identifier (e.g. BTC).")
	f.StringVar(&p.quantity, "quantity", "", "Quantity sold.")
	f.StringVar(&p.price, "price", "", "Per-unit price in base currency.")
	f.StringVar(&p.when, "time", "", "Event time (RFC 3339 or YYYY-MM-DD, default now).")
	f.StringVar(&p.note, "note", "", "Free-form note.")
	f.StringVar(&p.replaces, "replaces", "", "Id of the event this one supersedes.")
	p.fee.register(f)
}

func (p *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	quantity, err := coinfolio.ParseQuantity(p.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	price, err := coinfolio.ParseMoney(p.price, *baseCurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
		return subcommands.ExitUsageError
	}
	fee, err := p.fee.fee(*baseCurrency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	ts, err := parseWhen(p.when)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	// The user types a positive quantity; the ledger stores disposals negative.
	ev := coinfolio.NewSell(uuid.NewString(), ts, p.asset, quantity.Abs().Neg(), price, fee)
	ev.Note = p.note
	ev.Replaces = p.replaces
	return AppendEvent(ctx, ev)
}
