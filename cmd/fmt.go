package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlot"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `tlr fmt

  Validates and formats the ledger file. This command reads all events,
  validates them, sorts them chronologically, and writes them back in a
  canonical JSONL format so that subsequent runs are a no-op.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filename := *ledgerFile

	in, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	events, err := taxlot.DecodeEvents(in)
	in.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	// Sorting here is the one sanctioned way to fix a DateOrderingError.
	ledger, err := taxlot.NewLedgerSorted(events)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error validating ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	out, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := taxlot.EncodeLedger(out, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatted %d event(s) in %s\n", ledger.Len(), filename)
	return subcommands.ExitSuccess
}
