package taxlot

import (
	"sort"

	"github.com/google/uuid"
)

// The wash-sale rule disallows a loss when a substantially identical
// security is acquired within 30 calendar days before or after the loss
// sale, in any account. The disallowed amount migrates into the
// replacement lot's basis, and the replacement lot inherits the holding
// start of the lot whose loss was disallowed.

// WashSaleAdjustment records one disallowance: it links the
// loss-generating consumption to a replacement lot, with the disallowed
// amount (never more than the realized loss, never more than the unsold
// replacement shares can absorb) and the basis increase applied.
type WashSaleAdjustment struct {
	Security       string
	SaleDate       Date
	LossLotID      uuid.UUID
	ReplacementID  uuid.UUID
	SharesAbsorbed Quantity
	Disallowed     Money // equals the basis increase on the replacement lot
}

// washDetector carries the cross-account, cross-time state of the
// wash-sale scan: which replacement shares are already spoken for, and
// how far the chronological sweep has consumed each lot. It is created
// per run, never shared, so the computation stays reproducible.
type washDetector struct {
	reg      *Register
	group    map[string]string // security -> substantially-identical group key
	used     map[uuid.UUID]Quantity
	consumed map[uuid.UUID]Quantity // shares sold before the sweep's current point
	applied  []WashSaleAdjustment
}

func newWashDetector(reg *Register, aliases [][]string) *washDetector {
	group := make(map[string]string)
	for _, g := range aliases {
		if len(g) == 0 {
			continue
		}
		for _, sec := range g {
			group[sec] = g[0]
		}
	}
	return &washDetector{
		reg:      reg,
		group:    group,
		used:     make(map[uuid.UUID]Quantity),
		consumed: make(map[uuid.UUID]Quantity),
	}
}

// observe records a disposition's consumptions as the chronological
// sweep reaches them. Shares already sold at a later loss sale cannot
// serve as replacement shares, and a disallowed loss must be spread only
// over shares whose basis is still unread.
func (w *washDetector) observe(cons []Consumption) {
	for _, c := range cons {
		w.consumed[c.LotID] = w.consumed[c.LotID].Add(c.Shares)
	}
}

// identical reports whether two securities are the same or declared
// substantially identical.
func (w *washDetector) identical(a, b string) bool {
	if a == b {
		return true
	}
	ga, oka := w.group[a]
	gb, okb := w.group[b]
	return oka && okb && ga == gb
}

// replacements returns the qualifying replacement lots for a loss on
// `security` sold on `sale`, excluding the lot whose shares were sold,
// ordered oldest acquisition first with creation-order tie-break.
//
// The same-day tie-break (lot-creation order) is an explicit choice, not
// statute; it keeps re-runs byte-identical.
func (w *washDetector) replacements(security string, sale Date, lossLot uuid.UUID) []*Lot {
	window := NewRange(sale, sale).WithMargin(30)
	var out []*Lot
	for lot := range w.reg.AllLots() {
		if lot.ID == lossLot {
			continue
		}
		if !w.identical(lot.Security, security) {
			continue
		}
		if !window.Contains(lot.Acquired) {
			continue
		}
		if !lot.Original.Sub(w.consumed[lot.ID]).Sub(w.used[lot.ID]).IsPositive() {
			continue // every unsold share already absorbed an earlier loss
		}
		out = append(out, lot)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Acquired.Compare(out[j].Acquired); c != 0 {
			return c < 0
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// disallow applies the wash-sale rule to one loss consumption. It
// returns the total disallowed amount (zero when no replacement
// qualifies) after mutating the replacement lots: basis increased by
// their share of the disallowed loss, holding start inherited from the
// loss lot.
func (w *washDetector) disallow(c *ConsumptionResult, security string, sale Date) Money {
	loss := c.Capital.Neg() // positive loss amount
	if !loss.IsPositive() {
		return Money{}
	}
	perShare := loss.Div(c.Shares)

	disallowed := Money{}
	remaining := c.Shares
	for _, repl := range w.replacements(security, sale, c.LotID) {
		if !remaining.IsPositive() {
			break
		}
		unsold := repl.Original.Sub(w.consumed[repl.ID])
		capacity := unsold.Sub(w.used[repl.ID])
		absorb := remaining.Min(capacity)
		amount := perShare.Mul(absorb)

		repl.washAdded = repl.washAdded.Add(amount)
		repl.washPerShare = repl.washPerShare.Add(amount.Div(unsold))
		if c.HoldingStart.Before(repl.HoldingStart) {
			repl.HoldingStart = c.HoldingStart
		}
		w.used[repl.ID] = w.used[repl.ID].Add(absorb)
		w.applied = append(w.applied, WashSaleAdjustment{
			Security:       security,
			SaleDate:       sale,
			LossLotID:      c.LotID,
			ReplacementID:  repl.ID,
			SharesAbsorbed: absorb,
			Disallowed:     amount,
		})

		disallowed = disallowed.Add(amount)
		remaining = remaining.Sub(absorb)
	}
	return disallowed
}
