package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/taxlot/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion, a no-op outside of a completion context.
	completion().Complete("tlr")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	report := map[string]complete.Predictor{
		"year":      predict.Something,
		"s":         predict.Something,
		"d":         predict.Something,
		"method":    predict.Set{"fifo", "specific-id"},
		"wages":     predict.Something,
		"identical": predict.Something,
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"ledger-file": predict.Files("*.jsonl"),
			"raw":         predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"reconcile": {Flags: report},
			"f8949":     {Flags: report},
			"washsales": {Flags: report},
			"amt":       {Flags: report},
			"lots":      {Flags: report},
			"events":    {Flags: map[string]complete.Predictor{"year": predict.Something, "security": predict.Something, "account": predict.Something}},
			"fmt":       {},
			"import":    {Flags: map[string]complete.Predictor{"account": predict.Something, "n": predict.Nothing}, Args: predict.Files("*.json")},
			"topic":     {},
			"assist":    {},
		},
	}
}
