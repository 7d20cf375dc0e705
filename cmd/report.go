package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/taxlot"
)

// reportFlags holds the flags shared by every reporting subcommand
// (reconcile, f8949, washsales, amt).
type reportFlags struct {
	year      int
	start     string
	end       string
	method    string
	wages     float64
	identical string
}

func (r *reportFlags) setFlags(f *flag.FlagSet) {
	f.IntVar(&r.year, "year", taxlot.Today().Year(), "Tax year to report on")
	f.StringVar(&r.start, "s", "", "Start date of a custom reporting period. Overrides -year.")
	f.StringVar(&r.end, "d", "", "End date of a custom reporting period. Requires -s.")
	f.StringVar(&r.method, "method", taxlot.FIFO.String(), "Lot matching method (fifo, specific-id)")
	f.Float64Var(&r.wages, "wages", 0, "Equity wage income reported on the W-2, used as a cross-check")
	f.StringVar(&r.identical, "identical", "", "Groups of substantially identical tickers, e.g. \"GOOG,GOOGL;BRK.A,BRK.B\"")
}

// options turns the parsed flags into reconciliation options.
func (r *reportFlags) options() (taxlot.Options, error) {
	var opts taxlot.Options

	if (r.start == "") != (r.end == "") {
		return opts, fmt.Errorf("-s and -d must be used together")
	}
	if r.start != "" {
		from, err := taxlot.ParseDate(r.start)
		if err != nil {
			return opts, fmt.Errorf("invalid start date: %w", err)
		}
		to, err := taxlot.ParseDate(r.end)
		if err != nil {
			return opts, fmt.Errorf("invalid end date: %w", err)
		}
		opts.Period = taxlot.NewRange(from, to)
	} else {
		opts.Period = taxlot.TaxYear(r.year)
	}

	method, err := taxlot.ParseMatchMethod(r.method)
	if err != nil {
		return opts, err
	}
	opts.Method = method

	if r.wages != 0 {
		opts.WageIncome = taxlot.USD(r.wages)
	}

	for _, group := range strings.Split(r.identical, ";") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		var tickers []string
		for _, t := range strings.Split(group, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tickers = append(tickers, t)
			}
		}
		if len(tickers) > 1 {
			opts.Identical = append(opts.Identical, tickers)
		}
	}

	return opts, nil
}

// reconcileReport loads the app ledger and runs the reconciliation.
func (r *reportFlags) reconcileReport() (*taxlot.Report, error) {
	opts, err := r.options()
	if err != nil {
		return nil, err
	}
	ledger, err := DecodeLedger()
	if err != nil {
		return nil, fmt.Errorf("could not load ledger: %w", err)
	}
	return taxlot.Reconcile(ledger, opts)
}
