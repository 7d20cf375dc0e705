package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/taxlot"
)

// ReconciliationMarkdown renders the per-sale diff against the
// broker-reported figures, with the aggregate cross-checks at the end.
func ReconciliationMarkdown(report *taxlot.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Reconciliation Report from %s to %s\n\n", report.Period.From, report.Period.To)
	fmt.Fprintf(&b, "Matching method: %s\n\n", report.Method)

	fmt.Fprint(&b, "## Per-Sale Reconciliation\n\n")
	fmt.Fprintln(&b, "| Security | Sold | Shares | Proceeds | Broker Basis | Corrected Basis | Adjustment | Code |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|:---|")
	for _, row := range report.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			row.Security,
			row.Sold,
			row.Shares,
			row.Proceeds,
			row.BrokerBasis,
			row.Corrected,
			row.Adjustment.SignedString(),
			code(row.Code),
		)
	}
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Totals\n\n")
	fmt.Fprintf(&b, "- Ordinary income recognized: %s\n", report.OrdinaryIncome)
	if !report.AMTPreference.IsZero() {
		fmt.Fprintf(&b, "- AMT preference from exercises: %s\n", report.AMTPreference)
	}
	for _, c := range report.Credits {
		fmt.Fprintf(&b, "- AMT credit reversal (%d): %s\n", c.TaxYear, c.Credit)
	}
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Share Conservation\n\n")
	fmt.Fprintln(&b, "| Security | Acquired | Disposed | Open | Shortfall | OK |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|:---:|")
	for _, check := range report.ShareChecks {
		ok := "yes"
		if !check.OK {
			ok = "NO"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			check.Security, check.Acquired, check.Disposed, check.Remaining, check.Shortfall, ok)
	}
	fmt.Fprintln(&b)

	warnings(&b, report)
	return b.String()
}

// warnings prints the anomaly and discrepancy sections only when there
// is something to say.
func warnings(b *strings.Builder, report *taxlot.Report) {
	if len(report.Anomalies) > 0 {
		fmt.Fprint(b, "## Anomalies\n\n")
		for _, a := range report.Anomalies {
			fmt.Fprintf(b, "- %v\n", a)
		}
		fmt.Fprintln(b)
	}
	if len(report.Discrepancies) > 0 {
		fmt.Fprint(b, "## Discrepancies\n\n")
		for _, d := range report.Discrepancies {
			fmt.Fprintf(b, "- %v\n", d)
		}
		fmt.Fprintln(b)
	}
}

func code(c taxlot.AdjustmentCode) string {
	if c == taxlot.AdjustmentNone {
		return "-"
	}
	return string(c)
}
