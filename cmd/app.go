// Package cmd implements the CLI application to reconcile equity
// compensation tax lots.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/etnz/taxlot"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reconcileCmd{}, "reports")
	c.Register(&f8949Cmd{}, "reports")
	c.Register(&washSalesCmd{}, "reports")
	c.Register(&amtCmd{}, "reports")
	c.Register(&lotsCmd{}, "register")
	c.Register(&eventsCmd{}, "register")
	c.Register(&fmtCmd{}, "ledger")
	c.Register(&importCmd{}, "ledger")
	c.Register(&topicCmd{}, "help")
	c.Register(&assistCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "events.jsonl", "Path to the ledger file containing equity events (JSONL format)")

// DecodeLedger loads the app ledger file.
func DecodeLedger() (*taxlot.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, ledger file does not exist, using an empty ledger instead")
		return taxlot.NewLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return taxlot.DecodeLedger(f)
}

// EncodeEvents appends events to the app default ledger file.
func EncodeEvents(events ...taxlot.Event) subcommands.ExitStatus {
	filename := *ledgerFile
	// Open the file in append mode, creating it if it doesn't exist.
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	for _, ev := range events {
		if err := taxlot.EncodeEvent(f, ev); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", filename, err)
			return subcommands.ExitFailure
		}
	}

	fmt.Printf("Successfully appended %d event(s) to %s\n", len(events), filename)
	return subcommands.ExitSuccess
}
