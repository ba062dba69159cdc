package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/coinfolio/coinfolio"
)

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "mark an event as deleted" }
func (*deleteCmd) Usage() string {
	return `cfo delete <event-id>

  Appends a tombstone for the given event. The log keeps the original entry,
  but every replay from now on excludes it.
`
}

func (*deleteCmd) SetFlags(f *flag.FlagSet) {}

func (p *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one event id")
		return subcommands.ExitUsageError
	}
	target := f.Arg(0)

	s, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	ev := coinfolio.NewTombstone(uuid.NewString(), time.Now().UTC(), target)
	if err := s.AppendEvent(ctx, ev); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Deleted event %s (tombstone %s)\n", target, ev.ID())
	return subcommands.ExitSuccess
}
