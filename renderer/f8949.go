package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/taxlot"
)

// Form8949Markdown renders the per-lot sale rows, split into the
// short-term and long-term sections the form requires.
func Form8949Markdown(report *taxlot.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Form 8949 Records from %s to %s\n\n", report.Period.From, report.Period.To)

	for _, term := range []taxlot.Term{taxlot.ShortTerm, taxlot.LongTerm} {
		section(&b, report, term)
	}
	return b.String()
}

func section(b *strings.Builder, report *taxlot.Report, term taxlot.Term) {
	var rows []taxlot.Form8949Record
	for _, rec := range report.Form8949 {
		if rec.Term == term {
			rows = append(rows, rec)
		}
	}
	if len(rows) == 0 {
		return
	}

	title := "Short-Term Dispositions"
	if term == taxlot.LongTerm {
		title = "Long-Term Dispositions"
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	fmt.Fprintln(b, "| Security | Acquired | Sold | Shares | Proceeds | Broker Basis | Corrected Basis | Code | Adjustment | Gain/Loss |")
	fmt.Fprintln(b, "|:---|:---|:---|---:|---:|---:|---:|:---|---:|---:|")
	total := taxlot.USD(0)
	for _, rec := range rows {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			rec.Security,
			rec.Acquired,
			rec.Sold,
			rec.Shares,
			rec.Proceeds,
			rec.BrokerBasis,
			rec.CorrectedBasis,
			code(rec.Code),
			rec.Adjustment.SignedString(),
			rec.GainOrLoss.SignedString(),
		)
		total = total.Add(rec.GainOrLoss)
	}
	fmt.Fprintf(b, "| **Total** | | | | | | | | | **%s** |\n\n", total.SignedString())
}
