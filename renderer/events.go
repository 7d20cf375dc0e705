package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/taxlot"
)

// EventsMarkdown renders a chronological table of ledger events.
func EventsMarkdown(events []taxlot.Event) string {
	var b strings.Builder
	fmt.Fprintln(&b, "# Events")
	fmt.Fprintln(&b)

	if len(events) == 0 {
		fmt.Fprintln(&b, "No events.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Event | Security | Account | Shares | Detail |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|:---|")
	for _, e := range events {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			e.When(), e.What(), e.Security(), e.Account(), eventShares(e), eventDetail(e))
	}
	return b.String()
}

func eventShares(e taxlot.Event) taxlot.Quantity {
	switch ev := e.(type) {
	case taxlot.Acquisition:
		return ev.Shares
	case taxlot.Disposition:
		return ev.Shares
	}
	return taxlot.Q(0)
}

func eventDetail(e taxlot.Event) string {
	switch ev := e.(type) {
	case taxlot.Acquisition:
		d := fmt.Sprintf("%s, price %s, fmv %s", ev.Source, ev.Price, ev.FMV)
		if ev.Ref != "" {
			d += ", ref " + code(taxlot.AdjustmentCode(ev.Ref))
		}
		return d
	case taxlot.Disposition:
		d := fmt.Sprintf("proceeds %s/share, broker basis %s", ev.Proceeds, ev.BrokerBasis)
		if ev.LotRef != "" {
			d += ", lot " + code(taxlot.AdjustmentCode(ev.LotRef))
		}
		return d
	}
	return ""
}
