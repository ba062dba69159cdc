package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/coinfolio/coinfolio"
	"github.com/coinfolio/coinfolio/agent"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with an assistant that knows your ledger" }
func (*assistCmd) Usage() string {
	return `cfo assist [question ...]

  Starts an interactive assistant backed by Gemini. The assistant can read
  the ledger to answer questions about positions, cost basis and taxes, and
  search the web for market context. Questions passed as arguments are asked
  first. Requires a configured Gemini API key.
`
}

func (*assistCmd) SetFlags(f *flag.FlagSet) {}

func (p *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	src := func() ([]coinfolio.Event, error) {
		return LoadActiveEvents(ctx, s)
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	a := agent.New(os.Stdout, os.Stdin, agent.NewAnalyst(), agent.NewAccountant(src, settings))
	if err := a.Run(ctx, client, f.Args()...); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
