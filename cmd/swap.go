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

type swapCmd struct {
	inAsset     string
	inQuantity  string
	outAsset    string
	outQuantity string
	value       string
	when        string
	note        string
	replaces    string
	fee         feeFlags
}

func (*swapCmd) Name() string     { return "swap" }
func (*swapCmd) Synopsis() string { return "record a crypto-to-crypto swap" }
func (*swapCmd) Usage() string {
	return `cfo swap -in <id> -in-quantity <q> -out <id> -out-quantity <q> -value <v>

  Records an atomic exchange of one asset for another: a disposal of the
  input leg and an acquisition of the output leg. -value is the total
  base-currency valuation of the exchange; without it the disposal has zero
  proceeds and is flagged with a warning in reports.
`
}

func (p *swapCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.inAsset, "in", "", "Asset given away.")
	f.StringVar(&p.inQuantity, "in-quantity", "", "Quantity given away.")
	f.StringVar(&p.outAsset, "out", "", "Asset received.")
	f.StringVar(&p.outQuantity, "out-quantity", "", "Quantity received.")
	f.StringVar(&p.value, "value", "", "Total base-currency value of the swap.")
	f.StringVar(&p.when, "time", "", "Event time (RFC 3339 or YYYY-MM-DD, default now).")
	f.StringVar(&p.note, "note", "", "Free-form note.")
	f.StringVar(&p.replaces, "replaces", "", "Id of the event this one supersedes.")
	p.fee.register(f)
}

func (p *swapCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	inQty, err := coinfolio.ParseQuantity(p.inQuantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -in-quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	outQty, err := coinfolio.ParseQuantity(p.outQuantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -out-quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	var value coinfolio.Money
	if p.value != "" {
		if value, err = coinfolio.ParseMoney(p.value, *baseCurrency); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -value: %v\n", err)
			return subcommands.ExitUsageError
		}
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

	ev := coinfolio.NewSwap(uuid.NewString(), ts, p.inAsset, inQty, p.outAsset, outQty, value, fee)
	ev.Note = p.note
	ev.Replaces = p.replaces
	return AppendEvent(ctx, ev)
}
