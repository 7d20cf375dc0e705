package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/taxlot"
)

// WashSalesMarkdown renders the disallowances applied by the wash-sale
// pass, one row per (loss, replacement lot) pair.
func WashSalesMarkdown(report *taxlot.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Wash Sales from %s to %s\n\n", report.Period.From, report.Period.To)

	if len(report.WashSales) == 0 {
		fmt.Fprintln(&b, "No wash sales detected.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Security | Sale Date | Shares Absorbed | Disallowed Loss | Replacement Lot |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|:---|")
	total := taxlot.USD(0)
	for _, adj := range report.WashSales {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			adj.Security,
			adj.SaleDate,
			adj.SharesAbsorbed,
			adj.Disallowed,
			adj.ReplacementID,
		)
		total = total.Add(adj.Disallowed)
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** | |\n", total)
	return b.String()
}

// AMTMarkdown renders the AMT summary: the preference from in-period
// exercises and the credit reversals from dispositions, the two numbers
// the external estimator needs.
func AMTMarkdown(report *taxlot.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# AMT Summary from %s to %s\n\n", report.Period.From, report.Period.To)
	fmt.Fprintf(&b, "- Preference from incentive exercises: %s\n", report.AMTPreference)
	for _, c := range report.Credits {
		fmt.Fprintf(&b, "- Credit reversal handed to the estimator (%d): %s\n", c.TaxYear, c.Credit)
	}
	if report.AMTPreference.IsZero() && len(report.Credits) == 0 {
		fmt.Fprintln(&b, "\nNo AMT activity in this period.")
	}
	return b.String()
}
