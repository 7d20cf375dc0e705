package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlot/renderer"
	"github.com/google/subcommands"
)

type lotsCmd struct {
	reportFlags
	all bool
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "display the lot register" }
func (*lotsCmd) Usage() string {
	return `tlr lots [-year <year> | -s <date> -d <date>] [-all]

  Displays the lot register as of the end of the period: acquisition
  date, source, remaining shares, regular and AMT basis per share, and
  wash-sale adjustments. By default only open lots are shown; -all
  includes fully consumed lots.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.BoolVar(&c.all, "all", false, "Include fully consumed lots")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := c.reconcileReport()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	lots := report.OpenLots()
	if c.all {
		lots = report.Lots()
	}
	printMarkdown(renderer.LotsMarkdown(lots))
	return subcommands.ExitSuccess
}
