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

type rewardCmd struct {
	kind     string
	asset    string
	quantity string
	value    string
	when     string
	note     string
	replaces string
}

func (*rewardCmd) Name() string     { return "reward" }
func (*rewardCmd) Synopsis() string { return "record reward, staking or airdrop income" }
func (*rewardCmd) Usage() string {
	return `cfo reward -asset <id> -quantity <q> [-kind staking-reward|airdrop] [-value <v>]

  Records income of an asset. Under zero-cost accounting the value is
  optional; under fair-value accounting (-rewards-basis fmv) it is required.
`
}

func (p *rewardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.kind, "kind", "reward", "Income kind: reward, staking-reward or airdrop.")
	f.StringVar(&p.asset, "asset", "", "Asset received.")
	f.StringVar(&p.quantity, "quantity", "", "Quantity received.")
	f.StringVar(&p.value, "value", "", "Total base-currency fair value at receipt.")
	f.StringVar(&p.when, "time", "", "Event time (RFC 3339 or YYYY-MM-DD, default now).")
	f.StringVar(&p.note, "note", "", "Free-form note.")
	f.StringVar(&p.replaces, "replaces", "", "Id of the event this one supersedes.")
}

func (p *rewardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind := coinfolio.EventKind(p.kind)
	switch kind {
	case coinfolio.KindReward, coinfolio.KindStakingReward, coinfolio.KindAirdrop:
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown income kind %q\n", p.kind)
		return subcommands.ExitUsageError
	}

	quantity, err := coinfolio.ParseQuantity(p.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	var value coinfolio.Money
	if p.value != "" {
		if value, err = coinfolio.ParseMoney(p.value, *baseCurrency); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -value: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	ts, err := parseWhen(p.when)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	ev := coinfolio.NewReward(kind, uuid.NewString(), ts, p.asset, quantity, value)
	ev.Note = p.note
	ev.Replaces = p.replaces
	return AppendEvent(ctx, ev)
}
