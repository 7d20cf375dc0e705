package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/taxlot"
)

// LotsMarkdown renders the lot register with remaining shares and both
// bases. Closed lots are kept so the audit trail stays visible.
func LotsMarkdown(lots []*taxlot.Lot) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Tax Lots\n\n")
	if len(lots) == 0 {
		fmt.Fprintln(&b, "No lots in the register.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Security | Acquired | Source | Account | Original | Remaining | Basis/Share | AMT Basis/Share | Status |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|---:|:---|")
	for _, lot := range lots {
		amt := "-"
		if lot.Source == taxlot.IncentiveExercise {
			amt = lot.AMTBasisPerShare().String()
		}
		status := lot.Status().String()
		if lot.MissingBasis {
			status += " (basis defaulted)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			lot.Security,
			lot.Acquired,
			lot.Source,
			lot.Account,
			lot.Original,
			lot.Remaining(),
			lot.BasisPerShare(),
			amt,
			status,
		)
	}
	return b.String()
}
