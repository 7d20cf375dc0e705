package taxlot

// The alternative minimum tax treats the spread at an incentive-option
// exercise as income in the exercise year (a preference item) and, in
// exchange, grants the AMT basis of strike + spread. At disposition the
// two systems reconverge: the preference reverses, either through the
// smaller AMT gain of a qualifying sale or through the ordinary income
// of a disqualifying one, and the reversal funds an AMT credit computed
// by the external estimator. This file only emits the amounts.

// PreferenceItem returns the AMT preference recognized at exercise of an
// incentive-option lot: (FMV at exercise - strike) x shares. It is zero
// for every other source kind.
func PreferenceItem(l *Lot) Money {
	if l.Source != IncentiveExercise {
		return Money{}
	}
	return l.Spread().Mul(l.Original)
}

// AMTResult is the outcome of disposing of incentive-option shares.
type AMTResult struct {
	Qualifying bool
	// Ordinary is the compensation income recognized by a disqualifying
	// disposition. Zero for qualifying dispositions.
	Ordinary Money
	// CapitalGain is the regular-tax capital gain or loss after basis
	// re-characterization.
	CapitalGain Money
	// Adjustment is the AMT-side adjustment at disposition (AMT gain
	// minus regular gain); negative, reversing the exercise-year spread.
	Adjustment Money
	// CreditReversal is the portion of the exercise preference item,
	// attributable to the shares sold, that now reverses and generates
	// an AMT credit. The credit's dollar value is the estimator's job.
	CreditReversal Money
	// RegularBasis is the re-characterized total regular basis for the
	// shares sold.
	RegularBasis Money
}

// DispositionAdjustment computes the regular/AMT split for selling
// `shares` of an incentive-option lot at `proceeds` per share on `sale`.
//
// Qualifying (held at least two years from grant and one year from
// exercise, acquisition date inclusive, disposition date exclusive):
// no ordinary income; the whole regular gain is long-term; the AMT gain
// is measured against the higher AMT basis; the exercise preference for
// these shares converts into a credit reversal.
//
// Disqualifying: ordinary income is the exercise spread capped at the
// actual gain, floored at zero; the regular basis is re-characterized to
// strike plus that income; the exercise preference reverses as a credit
// since the income is now taxed as ordinary income instead.
func DispositionAdjustment(l *Lot, sale Date, proceeds Money, shares Quantity) AMTResult {
	totalProceeds := proceeds.Mul(shares)
	// The regular basis of an incentive lot is the strike, plus any
	// wash-sale increase this lot absorbed as a replacement.
	strikeBasis := l.BasisPerShare().Mul(shares)
	preference := l.Spread().Mul(shares)

	if isQualifyingISO(l, sale) {
		regularBasis := l.BasisPerShare().Mul(shares)
		amtBasis := l.AMTBasisPerShare().Mul(shares)
		regularGain := totalProceeds.Sub(regularBasis)
		amtGain := totalProceeds.Sub(amtBasis)
		return AMTResult{
			Qualifying:     true,
			CapitalGain:    regularGain,
			Adjustment:     amtGain.Sub(regularGain),
			CreditReversal: preference,
			RegularBasis:   regularBasis,
		}
	}

	actualGain := totalProceeds.Sub(strikeBasis)
	ordinary := preference.Min(actualGain).FloorZero()
	// Basis becomes strike + recognized ordinary income, so the spread is
	// never taxed twice.
	regularBasis := strikeBasis.Add(ordinary)
	capital := totalProceeds.Sub(regularBasis)
	return AMTResult{
		Qualifying:     false,
		Ordinary:       ordinary,
		CapitalGain:    capital,
		Adjustment:     preference.Neg(),
		CreditReversal: preference,
		RegularBasis:   regularBasis,
	}
}

// isQualifyingISO reports whether a sale date satisfies both
// incentive-option holding requirements. Dates exactly on the boundary
// qualify: the statutory periods are measured with the acquisition date
// inclusive and the disposition date exclusive.
func isQualifyingISO(l *Lot, sale Date) bool {
	if l.GrantDate.IsZero() {
		// Without a grant date the qualifying path cannot be proven;
		// conservative treatment is disqualifying.
		return false
	}
	return !sale.Before(l.GrantDate.AddYears(2)) && !sale.Before(l.Acquired.AddYears(1))
}
