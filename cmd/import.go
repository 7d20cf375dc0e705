package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlot"
	"github.com/google/subcommands"
)

type importCmd struct {
	account string
	dryRun  bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a broker JSON export into the ledger" }
func (*importCmd) Usage() string {
	return `tlr import -account <name> <export.json>

  Reads a benefit-portal JSON export, normalizes its transactions into
  acquisition and disposition events, and appends them to the ledger.
  Unknown transaction types are skipped with a warning.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account the export belongs to (required)")
	f.BoolVar(&c.dryRun, "n", false, "Print the imported events without appending them to the ledger")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -account is required")
		return subcommands.ExitUsageError
	}
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one export file")
		return subcommands.ExitUsageError
	}

	in, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening export file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	events, err := taxlot.ImportBroker(in, c.account, taxlot.DefaultBrokerProfile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing export file: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no events found in export file.")
		return subcommands.ExitSuccess
	}

	if c.dryRun {
		for _, ev := range events {
			if err := taxlot.EncodeEvent(os.Stdout, ev); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				return subcommands.ExitFailure
			}
		}
		return subcommands.ExitSuccess
	}

	return EncodeEvents(events...)
}
