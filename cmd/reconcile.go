package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlot/renderer"
	"github.com/google/subcommands"
)

// reconcileCmd holds the flags for the 'reconcile' subcommand.
type reconcileCmd struct {
	reportFlags
}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "per-sale reconciliation of broker proceeds and basis against the lot register"
}
func (*reconcileCmd) Usage() string {
	return `tlr reconcile [-year <year> | -s <date> -d <date>] [-method <method>] [-wages <amount>]

  Replays the event ledger, matches every sale against the lot register,
  and reports the corrected basis, gain character, wash-sale adjustments
  and basis discrepancies against the broker figures, sale by sale.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := c.reconcileReport()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ReconciliationMarkdown(report))
	return subcommands.ExitSuccess
}
