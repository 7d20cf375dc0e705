package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlot/renderer"
	"github.com/google/subcommands"
)

type amtCmd struct {
	reportFlags
}

func (*amtCmd) Name() string { return "amt" }
func (*amtCmd) Synopsis() string {
	return "AMT preference from incentive exercises and credit reversals from dispositions"
}
func (*amtCmd) Usage() string {
	return `tlr amt [-year <year> | -s <date> -d <date>]

  Summarizes the AMT side of the period: the preference generated by
  in-period incentive stock option exercises and the credit reversal
  amounts produced by dispositions of dual-basis lots.
`
}

func (c *amtCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *amtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := c.reconcileReport()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AMTMarkdown(report))
	return subcommands.ExitSuccess
}
