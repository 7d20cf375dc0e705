package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlot"
	"github.com/etnz/taxlot/renderer"
	"github.com/google/subcommands"
)

type eventsCmd struct {
	year     int
	security string
	account  string
}

func (*eventsCmd) Name() string     { return "events" }
func (*eventsCmd) Synopsis() string { return "display the event ledger in chronological order" }
func (*eventsCmd) Usage() string {
	return `tlr events [-year <year>] [-security <ticker>] [-account <name>]

  Lists the acquisition and disposition events of the ledger, optionally
  filtered by year, security or account.
`
}

func (c *eventsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "Only show events of this tax year (0 shows all)")
	f.StringVar(&c.security, "security", "", "Only show events for this ticker")
	f.StringVar(&c.account, "account", "", "Only show events in this account")
}

func (c *eventsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading ledger:", err)
		return subcommands.ExitFailure
	}

	var events []taxlot.Event
	for e := range ledger.Events() {
		if c.year != 0 && e.When().Year() != c.year {
			continue
		}
		if c.security != "" && e.Security() != c.security {
			continue
		}
		if c.account != "" && e.Account() != c.account {
			continue
		}
		events = append(events, e)
	}

	printMarkdown(renderer.EventsMarkdown(events))
	return subcommands.ExitSuccess
}
