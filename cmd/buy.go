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

type buyCmd struct {
	asset    string
	quantity string
	price    string
	when     string
	note     string
	replaces string
	fee      feeFlags
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record an asset purchase" }
func (*buyCmd) Usage() string {
	return `cfo buy -asset <id> -quantity <q> -price <unit price> [-fee <f>] [-time <t>]

  Records the purchase of a quantity of an asset at a per-unit price in base
  currency. Use -replaces to supersede an earlier event.
`
}

func (p *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.asset, "asset", "", "Asset identifier (e.g. BTC).")
	f.StringVar(&p.quantity, "quantity", "", "Quantity acquired.")
	f.StringVar(&p.price, "price", "", "Per-unit price in base currency.")
	f.StringVar(&p.when, "time", "", "Event time (RFC 3339 or YYYY-MM-DD, default now).")
	f.StringVar(&p.note, "note", "", "Free-form note.")
	f.StringVar(&p.replaces, "replaces", "", "Id of the event this one supersedes.")
	p.fee.register(f)
}

func (p *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	ev := coinfolio.NewBuy(uuid.NewString(), ts, p.asset, quantity, price, fee)
	ev.Note = p.note
	ev.Replaces = p.replaces
	return AppendEvent(ctx, ev)
}
