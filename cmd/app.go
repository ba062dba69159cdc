// Package cmd implements the CLI application to manage a crypto ledger.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/coinfolio/coinfolio"
	"github.com/coinfolio/coinfolio/store"
)

// Commands is the list of subcommands a main package registers.
var Commands = []subcommands.Command{
	&buyCmd{},
	&sellCmd{},
	&swapCmd{},
	&rewardCmd{},
	&transferCmd{},
	&deleteCmd{},
	&positionsCmd{},
	&historyCmd{},
	&taxCmd{},
	&fetchPricesCmd{},
	&rebuildCmd{},
	&explainCmd{},
	&assistCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dbFile = flag.String("db", "coinfolio.db", "Path to the ledger database file")
var baseCurrency = flag.String("currency", "USD", "Base currency all ledger amounts are recorded in")
var lotMethod = flag.String("method", "fifo", "Default lot method (fifo, lifo, hifo, average)")
var rewardsBasis = flag.String("rewards-basis", "zero", "Cost basis for rewards (zero, fmv)")
var taxProfile = flag.String("profile", "generic", "Jurisdiction profile (generic, de, ie, us)")
var verbose = flag.Bool("v", false, "Enable debug logging")

// Logger returns the application logger, honoring the -v flag.
func Logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// AppSettings builds the replay settings from the global flags.
func AppSettings() (coinfolio.Settings, error) {
	method, err := coinfolio.ParseLotMethod(*lotMethod)
	if err != nil {
		return coinfolio.Settings{}, err
	}
	basis, err := coinfolio.ParseBasisMode(*rewardsBasis)
	if err != nil {
		return coinfolio.Settings{}, err
	}
	profile, err := coinfolio.ParseTaxProfile(*taxProfile)
	if err != nil {
		return coinfolio.Settings{}, err
	}
	return coinfolio.Settings{
		BaseCurrency:     *baseCurrency,
		LotMethodDefault: method,
		RewardsBasisMode: basis,
		TaxProfile:       profile,
	}, nil
}

// OpenStore opens the default database.
func OpenStore() (*store.Store, error) {
	return store.Open(*dbFile, Logger())
}

// parseWhen parses a -time flag value: a full RFC 3339 timestamp, a bare day,
// or empty for now.
func parseWhen(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	day, err := coinfolio.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return day.Start(), nil
}

// AppendEvent validates an event against the app settings and appends it to
// the default database.
func AppendEvent(ctx context.Context, ev coinfolio.Event) subcommands.ExitStatus {
	settings, err := AppSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if err := coinfolio.Validate(ev, settings); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	s, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := s.AppendEvent(ctx, ev); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded %s event %s\n", ev.What(), ev.ID())
	return subcommands.ExitSuccess
}

// LoadActiveEvents loads the stored log and collapses it to the resolved view.
func LoadActiveEvents(ctx context.Context, s *store.Store) ([]coinfolio.Event, error) {
	events, err := s.LoadEvents(ctx)
	if err != nil {
		return nil, err
	}
	active, _ := coinfolio.ActiveEvents(events)
	return active, nil
}
