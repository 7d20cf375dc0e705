package taxlot

import "sort"

// Match assigns a disposition to one or more lots and consumes their
// shares, returning the ordered consumptions fully covering the
// disposition.
//
// Mutation of lot state happens only on success: a failed match performs
// no mutation at all. Both failure modes (*LotInsufficientError,
// *UnmatchedSharesError) are non-fatal by contract; the caller records
// the shortfall for human reconciliation and moves on.
func (r *Register) Match(d Disposition, method MatchMethod) ([]Consumption, error) {
	if method == SpecificID || d.LotRef != "" {
		if d.LotRef == "" {
			// Specific identification without a lot reference cannot be
			// honored; fall back to the deterministic FIFO order.
			return r.matchFIFO(d)
		}
		return r.matchSpecific(d)
	}
	return r.matchFIFO(d)
}

// matchFIFO consumes open and partially-consumed lots for the
// disposition's security, oldest acquisition first, ties broken by lot
// creation order. The last lot touched is split if its remaining shares
// exceed the residual need.
func (r *Register) matchFIFO(d Disposition) ([]Consumption, error) {
	candidates := r.fifoCandidates(d.Ticker, d.Date)

	available := Q(0)
	for _, lot := range candidates {
		available = available.Add(lot.remaining)
	}
	if available.LessThan(d.Shares) {
		return nil, &UnmatchedSharesError{
			Security:  d.Ticker,
			Date:      d.Date,
			Requested: d.Shares,
			Available: available,
		}
	}

	var consumptions []Consumption
	need := d.Shares
	for _, lot := range candidates {
		if need.IsZero() {
			break
		}
		take := lot.remaining.Min(need)
		consumptions = append(consumptions, Consumption{LotID: lot.ID, Lot: lot, Shares: take})
		need = need.Sub(take)
	}
	r.commit(consumptions)
	return consumptions, nil
}

// matchSpecific consumes the lot explicitly referenced by the
// disposition. A reference to an unknown lot or to a lot with fewer
// remaining shares than requested fails without mutation.
func (r *Register) matchSpecific(d Disposition) ([]Consumption, error) {
	lot := r.byRef[d.LotRef]
	if lot == nil || lot.Security != d.Ticker {
		return nil, &LotInsufficientError{
			LotRef:    d.LotRef,
			Remaining: Q(0),
			Requested: d.Shares,
		}
	}
	if lot.Acquired.After(d.Date) {
		// The referenced lot is not acquired yet on the sale date, so it
		// has no shares available to this disposition.
		return nil, &LotInsufficientError{
			LotRef:    d.LotRef,
			LotID:     lot.ID,
			Remaining: Q(0),
			Requested: d.Shares,
		}
	}
	if lot.remaining.LessThan(d.Shares) {
		return nil, &LotInsufficientError{
			LotRef:    d.LotRef,
			LotID:     lot.ID,
			Remaining: lot.remaining,
			Requested: d.Shares,
		}
	}
	consumptions := []Consumption{{LotID: lot.ID, Lot: lot, Shares: d.Shares}}
	r.commit(consumptions)
	return consumptions, nil
}

// fifoCandidates returns the consumable lots of a security held on the
// given date, ordered by acquisition date ascending, then creation
// order. A lot acquired after asOf does not exist yet from the
// disposition's point of view and is never drawn on.
func (r *Register) fifoCandidates(security string, asOf Date) []*Lot {
	var candidates []*Lot
	for _, lot := range r.bySec[security] {
		if !lot.remaining.IsZero() && !lot.Acquired.After(asOf) {
			candidates = append(candidates, lot)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if c := candidates[i].Acquired.Compare(candidates[j].Acquired); c != 0 {
			return c < 0
		}
		return candidates[i].seq < candidates[j].seq
	})
	return candidates
}

// commit applies planned consumptions to lot state. It is only reached
// once the whole disposition is known to be covered.
func (r *Register) commit(consumptions []Consumption) {
	for _, c := range consumptions {
		c.Lot.remaining = c.Lot.remaining.Sub(c.Shares)
	}
}
