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

type transferCmd struct {
	asset    string
	quantity string
	when     string
	note     string
	replaces string
	fee      feeFlags
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "record a deposit or withdrawal" }
func (*transferCmd) Usage() string {
	return `cfo transfer -asset <id> -quantity <signed q>

  Records an inventory movement without proceeds. A positive quantity is a
  deposit from outside (unknown, zero cost basis); a negative quantity is a
  withdrawal, disposed at zero proceeds.
`
}

func (p *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.asset, "asset", "", "Asset transferred.")
	f.StringVar(&p.quantity, "quantity", "", "Signed quantity: positive in, negative out.")
	f.StringVar(&p.when, "time", "", "Event time (RFC 3339 or YYYY-MM-DD, default now).")
	f.StringVar(&p.note, "note", "", "Free-form note.")
	f.StringVar(&p.replaces, "replaces", "", "Id of the event this one supersedes.")
	p.fee.register(f)
}

func (p *transferCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	quantity, err := coinfolio.ParseQuantity(p.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
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

	ev := coinfolio.NewTransfer(uuid.NewString(), ts, p.asset, quantity, fee)
	ev.Note = p.note
	ev.Replaces = p.replaces
	return AppendEvent(ctx, ev)
}
