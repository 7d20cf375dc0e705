package taxlot

// Basis is the corrected per-share cost basis of a lot, computed from
// the acquisition event alone, independent of any broker-reported value.
type Basis struct {
	Regular Money // per share
	AMT     Money // per share; equals Regular except for incentive-option lots
}

// CorrectedBasis computes the legally correct basis for an acquisition,
// branching exhaustively on the source kind:
//
//   - Vesting: fair value at the vest date (never zero, regardless of
//     what the broker reports).
//   - Non-qualified exercise: strike plus the spread recognized as
//     ordinary income at exercise, i.e. the FMV at exercise.
//   - Incentive exercise: strike only for the regular basis; FMV at
//     exercise for the AMT basis.
//   - Purchase-plan: the purchase-price component immediately; the
//     ordinary-income component is added at disposition once the
//     qualifying/disqualifying classification is known.
//   - Cash purchase: the price paid.
//
// When required FMV/strike data is absent the returned basis is zero and
// a non-nil *MissingBasisDataError accompanies it: the policy is
// conservative, reporting more income rather than less, and the caller
// surfaces the warning instead of aborting.
func CorrectedBasis(a Acquisition) (Basis, error) {
	switch a.Source {
	case Vesting:
		if a.FMV.IsZero() {
			return Basis{}, missing(a, "vest-date FMV")
		}
		return Basis{Regular: a.FMV, AMT: a.FMV}, nil

	case NonQualifiedExercise:
		if a.FMV.IsZero() {
			return Basis{}, missing(a, "exercise-date FMV")
		}
		// strike + (FMV - strike) collapses to the FMV at exercise.
		return Basis{Regular: a.FMV, AMT: a.FMV}, nil

	case IncentiveExercise:
		if a.Price.IsZero() {
			return Basis{}, missing(a, "strike price")
		}
		if a.FMV.IsZero() {
			// Regular basis is still computable; the AMT side is the
			// conservative zero.
			return Basis{Regular: a.Price}, missing(a, "exercise-date FMV")
		}
		return Basis{Regular: a.Price, AMT: a.FMV}, nil

	case PlanPurchase:
		if a.Price.IsZero() {
			return Basis{}, missing(a, "purchase price")
		}
		return Basis{Regular: a.Price, AMT: a.Price}, nil

	case CashPurchase:
		if a.Price.IsZero() {
			return Basis{}, missing(a, "purchase price")
		}
		return Basis{Regular: a.Price, AMT: a.Price}, nil

	default:
		return Basis{}, missing(a, "source kind")
	}
}

func missing(a Acquisition, field string) *MissingBasisDataError {
	return &MissingBasisDataError{Security: a.Ticker, Date: a.Date, Field: field}
}
