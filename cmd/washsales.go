package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlot/renderer"
	"github.com/google/subcommands"
)

type washSalesCmd struct {
	reportFlags
}

func (*washSalesCmd) Name() string     { return "washsales" }
func (*washSalesCmd) Synopsis() string { return "wash-sale disallowances applied during the period" }
func (*washSalesCmd) Usage() string {
	return `tlr washsales [-year <year> | -s <date> -d <date>] [-identical <groups>]

  Lists every wash-sale disallowance of the period: the sale that took
  the loss, the replacement lot that absorbed it, the shares involved
  and the disallowed amount moved into the replacement lot's basis.
`
}

func (c *washSalesCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *washSalesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := c.reconcileReport()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.WashSalesMarkdown(report))
	return subcommands.ExitSuccess
}
