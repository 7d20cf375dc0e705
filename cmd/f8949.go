package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlot/renderer"
	"github.com/google/subcommands"
)

type f8949Cmd struct {
	reportFlags
}

func (*f8949Cmd) Name() string     { return "f8949" }
func (*f8949Cmd) Synopsis() string { return "per-lot disposition rows in Form 8949 layout" }
func (*f8949Cmd) Usage() string {
	return `tlr f8949 [-year <year> | -s <date> -d <date>] [-method <method>]

  Lists every consumed lot of the period as a Form 8949 row: acquisition
  and sale dates, proceeds, corrected basis, adjustment code and amount,
  split into short-term and long-term sections.
`
}

func (c *f8949Cmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *f8949Cmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := c.reconcileReport()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Form8949Markdown(report))
	return subcommands.ExitSuccess
}
