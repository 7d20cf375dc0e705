package taxlot

import (
	"fmt"
	"iter"
	"sort"

	"github.com/google/uuid"
)

// LotStatus is derived solely from remaining vs. original shares; it is
// never set directly by callers.
type LotStatus int

const (
	Open LotStatus = iota
	PartiallyConsumed
	Closed
)

func (s LotStatus) String() string {
	switch s {
	case Open:
		return "open"
	case PartiallyConsumed:
		return "partial"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Lot is a specific batch of shares acquired on one date at one basis.
// Exactly one lot is created per acquisition event. Lots are never
// deleted; closed lots persist for the audit trail.
type Lot struct {
	ID       uuid.UUID
	Ref      string // broker lot label from the acquisition, if any
	Security string
	Account  string
	Acquired Date
	// HoldingStart is the date the holding period is measured from. It
	// equals Acquired unless a wash-sale adjustment made this lot a
	// replacement lot, in which case it inherits the disallowed lot's
	// holding start.
	HoldingStart Date
	Original     Quantity
	Source       SourceKind
	Price        Money // per share paid (strike, purchase price; zero for vesting)
	FMV          Money // per share fair value at acquisition
	GrantDate    Date
	OfferingFMV  Money
	// MissingBasis is true when required FMV/strike data was absent and
	// the basis conservatively defaulted to zero.
	MissingBasis bool

	basis        Money    // per share, regular, as corrected at creation
	amtBasis     Money    // per share, AMT
	washAdded    Money    // total basis increase from disallowed wash-sale losses
	washPerShare Money    // washAdded spread over the shares unsold at each disallowance
	remaining    Quantity // mutated only by the matching engine
	seq          int      // creation order, the final deterministic tie-break
}

// Remaining returns the unconsumed share count.
func (l *Lot) Remaining() Quantity { return l.remaining }

// Status derives the lot status from remaining vs. original shares.
func (l *Lot) Status() LotStatus {
	switch {
	case l.remaining.IsZero():
		return Closed
	case l.remaining.Equal(l.Original):
		return Open
	default:
		return PartiallyConsumed
	}
}

// BasisPerShare returns the corrected regular basis per share, including
// any wash-sale basis increase. The increase is spread over the shares
// still unsold when the loss was disallowed, so the full disallowed
// amount returns as basis when those shares are sold.
func (l *Lot) BasisPerShare() Money {
	if l.washPerShare.IsZero() {
		return l.basis
	}
	return l.basis.Add(l.washPerShare)
}

// AMTBasisPerShare returns the AMT basis per share. It differs from the
// regular basis only for incentive-option lots.
func (l *Lot) AMTBasisPerShare() Money {
	if l.washPerShare.IsZero() {
		return l.amtBasis
	}
	return l.amtBasis.Add(l.washPerShare)
}

// WashAdjustment returns the total basis increase applied to this lot as
// a wash-sale replacement.
func (l *Lot) WashAdjustment() Money { return l.washAdded }

// Spread returns the per-share spread at acquisition (FMV minus price
// paid), floored at zero. For incentive-option lots this is the AMT
// preference per share.
func (l *Lot) Spread() Money { return l.FMV.Sub(l.Price).FloorZero() }

// Consumption links one disposition to one lot with a consumed share
// count. For any lot, the consumed shares across its consumptions always
// equal original minus remaining; for any disposition they sum to the
// disposition's share count (minus a recorded shortfall).
type Consumption struct {
	LotID  uuid.UUID
	Lot    *Lot
	Shares Quantity
}

// Register derives and owns all Lot records. It is the only component
// that mutates a lot's remaining shares, and it does so only through the
// matching operation.
type Register struct {
	lots  map[uuid.UUID]*Lot
	bySec map[string][]*Lot // creation order per security
	byRef map[string]*Lot
	seq   int
}

// NewRegister creates an empty lot register.
func NewRegister() *Register {
	return &Register{
		lots:  make(map[uuid.UUID]*Lot),
		bySec: make(map[string][]*Lot),
		byRef: make(map[string]*Lot),
	}
}

// Add creates the lot for an acquisition event, computing its corrected
// basis. If required FMV/strike data is absent, the lot is still created
// with a conservative zero basis and a non-nil *MissingBasisDataError is
// returned alongside it for the caller to surface.
func (r *Register) Add(a Acquisition) (*Lot, error) {
	basis, err := CorrectedBasis(a)
	lot := &Lot{
		ID:           uuid.New(),
		Ref:          a.Ref,
		Security:     a.Ticker,
		Account:      a.Acct,
		Acquired:     a.Date,
		HoldingStart: a.Date,
		Original:     a.Shares,
		Source:       a.Source,
		Price:        a.Price,
		FMV:          a.FMV,
		GrantDate:    a.GrantDate,
		OfferingFMV:  a.OfferingFMV,
		MissingBasis: err != nil,
		basis:        basis.Regular,
		amtBasis:     basis.AMT,
		remaining:    a.Shares,
		seq:          r.seq,
	}
	r.seq++
	r.lots[lot.ID] = lot
	r.bySec[lot.Security] = append(r.bySec[lot.Security], lot)
	if a.Ref != "" {
		if _, dup := r.byRef[a.Ref]; dup {
			return lot, fmt.Errorf("duplicate lot ref %q on %s", a.Ref, a.Date)
		}
		r.byRef[a.Ref] = lot
	}
	return lot, err
}

// Lot returns the lot with the given id, or nil.
func (r *Register) Lot(id uuid.UUID) *Lot { return r.lots[id] }

// ByRef returns the lot labeled with the given broker ref, or nil.
func (r *Register) ByRef(ref string) *Lot { return r.byRef[ref] }

// Lots returns the lots of a security in creation order.
func (r *Register) Lots(security string) []*Lot { return r.bySec[security] }

// Securities returns the sorted security identifiers with at least one lot.
func (r *Register) Securities() []string {
	keys := make([]string, 0, len(r.bySec))
	for k := range r.bySec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AllLots returns an iterator over every lot in creation order.
func (r *Register) AllLots() iter.Seq[*Lot] {
	return func(yield func(*Lot) bool) {
		for _, sec := range r.Securities() {
			for _, lot := range r.bySec[sec] {
				if !yield(lot) {
					return
				}
			}
		}
	}
}

// OpenShares returns the total remaining shares across all lots of a security.
func (r *Register) OpenShares(security string) Quantity {
	total := Q(0)
	for _, lot := range r.bySec[security] {
		total = total.Add(lot.remaining)
	}
	return total
}
