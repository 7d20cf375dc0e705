package taxlot

// HoldingTerm classifies the holding period: long-term when the holding
// start date is more than one year strictly before the disposition date
// (acquisition date inclusive, disposition date exclusive).
func HoldingTerm(start, sale Date) Term {
	if sale.After(start.AddYears(1)) {
		return LongTerm
	}
	return ShortTerm
}

// PlanResult is the ordinary-income/capital split of a purchase-plan
// disposition.
type PlanResult struct {
	Qualifying bool
	Ordinary   Money
	Capital    Money
	Term       Term
	// CorrectedBasis is the total corrected regular basis for the shares
	// sold: purchase price plus the recognized ordinary income.
	CorrectedBasis Money
}

// ClassifyPlanDisposition applies the purchase-plan rules to selling
// `shares` of an ESPP lot at `proceeds` per share on `sale`.
//
// Qualifying path (held at least two years from the offering date and
// one year from purchase): ordinary income is the offering-date discount
// capped at the actual gain, zero on a loss; any remainder is long-term
// capital gain.
//
// Disqualifying path: ordinary income is the purchase-date bargain
// element (FMV at purchase minus purchase price, floored at zero) per
// share regardless of the sale price; the rest is capital, termed from
// the purchase date.
func ClassifyPlanDisposition(l *Lot, sale Date, proceeds Money, shares Quantity) PlanResult {
	totalProceeds := proceeds.Mul(shares)
	purchaseBasis := l.BasisPerShare().Mul(shares)

	if isQualifyingPlan(l, sale) {
		gain := totalProceeds.Sub(purchaseBasis)
		if !gain.IsPositive() {
			// Sale at a loss: no ordinary income, the entire amount is
			// capital loss.
			return PlanResult{
				Qualifying:     true,
				Capital:        gain,
				Term:           LongTerm,
				CorrectedBasis: purchaseBasis,
			}
		}
		discount := l.OfferingFMV.Sub(l.Price).FloorZero().Mul(shares)
		ordinary := discount.Min(gain)
		return PlanResult{
			Qualifying:     true,
			Ordinary:       ordinary,
			Capital:        gain.Sub(ordinary),
			Term:           LongTerm,
			CorrectedBasis: purchaseBasis.Add(ordinary),
		}
	}

	ordinary := l.FMV.Sub(l.Price).FloorZero().Mul(shares)
	basis := purchaseBasis.Add(ordinary)
	return PlanResult{
		Ordinary:       ordinary,
		Capital:        totalProceeds.Sub(basis),
		Term:           HoldingTerm(l.HoldingStart, sale),
		CorrectedBasis: basis,
	}
}

// isQualifyingPlan reports whether a sale satisfies both purchase-plan
// holding requirements, boundary dates included.
func isQualifyingPlan(l *Lot, sale Date) bool {
	if l.GrantDate.IsZero() {
		return false
	}
	return !sale.Before(l.GrantDate.AddYears(2)) && !sale.Before(l.Acquired.AddYears(1))
}
