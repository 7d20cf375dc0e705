package taxlot

import "fmt"

// SourceKind identifies how a lot's shares were acquired. The tax
// treatment of a disposition branches on this kind, so every consumer
// switches exhaustively over it: adding a new compensation type must
// force every switch to handle it rather than silently defaulting.
type SourceKind int

const (
	// Vesting covers restricted stock and RSU vest events. Basis is the
	// fair value at the vest date, never the zero a broker may report.
	Vesting SourceKind = iota
	// NonQualifiedExercise covers NQSO exercises. The spread is ordinary
	// income at exercise and is part of the basis.
	NonQualifiedExercise
	// IncentiveExercise covers ISO exercises, which carry a dual
	// regular/AMT basis.
	IncentiveExercise
	// PlanPurchase covers ESPP purchases, classified as qualifying or
	// disqualifying at disposition time.
	PlanPurchase
	// CashPurchase covers ordinary open-market buys.
	CashPurchase
)

func (k SourceKind) String() string {
	switch k {
	case Vesting:
		return "vesting"
	case NonQualifiedExercise:
		return "nq-exercise"
	case IncentiveExercise:
		return "iso-exercise"
	case PlanPurchase:
		return "espp"
	case CashPurchase:
		return "purchase"
	default:
		return "unknown"
	}
}

// ParseSourceKind parses a string into a SourceKind.
func ParseSourceKind(s string) (SourceKind, error) {
	switch s {
	case "vesting":
		return Vesting, nil
	case "nq-exercise":
		return NonQualifiedExercise, nil
	case "iso-exercise":
		return IncentiveExercise, nil
	case "espp":
		return PlanPurchase, nil
	case "purchase":
		return CashPurchase, nil
	default:
		return 0, fmt.Errorf("unknown source kind: %q", s)
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (k SourceKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (k *SourceKind) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseSourceKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MatchMethod defines how a disposition is assigned to lots.
type MatchMethod int

const (
	// FIFO (First-In, First-Out) consumes the oldest open lot first.
	FIFO MatchMethod = iota
	// SpecificID consumes the lot explicitly referenced by the disposition.
	SpecificID
)

func (m MatchMethod) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case SpecificID:
		return "specific-id"
	default:
		return "unknown"
	}
}

// ParseMatchMethod parses a string into a MatchMethod.
func ParseMatchMethod(s string) (MatchMethod, error) {
	switch s {
	case "fifo":
		return FIFO, nil
	case "specific-id", "specific":
		return SpecificID, nil
	default:
		return 0, fmt.Errorf("unknown match method: %q", s)
	}
}

// Term is the holding-period classification of a disposition.
type Term int

const (
	ShortTerm Term = iota
	LongTerm
)

func (t Term) String() string {
	if t == LongTerm {
		return "long-term"
	}
	return "short-term"
}

// AdjustmentCode describes why a reconciliation row differs from the
// broker-reported figures.
type AdjustmentCode string

const (
	// AdjustmentNone marks rows where the broker figures already agree.
	AdjustmentNone AdjustmentCode = ""
	// AdjustmentBasisCorrected marks rows whose broker-reported basis was
	// replaced with the legally correct one.
	AdjustmentBasisCorrected AdjustmentCode = "basis-corrected"
	// AdjustmentLossDisallowed marks rows whose loss was wholly or
	// partially disallowed as a wash sale.
	AdjustmentLossDisallowed AdjustmentCode = "loss-disallowed"
	// AdjustmentOther marks anomalies flagged for manual review.
	AdjustmentOther AdjustmentCode = "other"
)
