package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/coinfolio/coinfolio"
	"github.com/coinfolio/coinfolio/renderer"
)

type explainCmd struct {
	year  int
	model string
}

func (*explainCmd) Name() string     { return "explain" }
func (*explainCmd) Synopsis() string { return "explain a tax report in plain language" }
func (*explainCmd) Usage() string {
	return `cfo explain [-year <y>] [-model <m>]

  Generates the tax report for the year and asks Gemini to explain the
  figures in plain language. Requires a configured Gemini API key.
`
}

func (p *explainCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.year, "year", time.Now().UTC().Year(), "Calendar year to explain.")
	f.StringVar(&p.model, "model", "gemini-2.5-flash", "Gemini model to use.")
}

func (p *explainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	active, err := LoadActiveEvents(ctx, s)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	report, err := coinfolio.NewTaxReport(active, settings, p.year, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	prompt := fmt.Sprintf(`You are a crypto tax accountant. Explain the
following yearly tax report to its owner in plain language: where the gains
come from, what the income rows mean, and what every warning implies. Do not
give legal advice.

%s`, renderer.TaxMarkdown(report))

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	printMarkdown(resp.Text())
	return subcommands.ExitSuccess
}
