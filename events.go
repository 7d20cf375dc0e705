package taxlot

import (
	"errors"
	"fmt"
)

// EventType is a typed string identifying ledger events.
type EventType string

// Event types used for identifying ledger lines.
const (
	EvtAcquire EventType = "acquire"
	EvtDispose EventType = "dispose"
)

// Event defines the common interface for the two kinds of ledger events.
// Events are immutable once ingested; the ordering key within the ledger
// is (date, account, sequence-within-day).
type Event interface {
	What() EventType  // What returns the event type ("acquire" or "dispose").
	When() Date       // When returns the date on which the event occurred.
	Security() string // Security returns the security identifier.
	Account() string  // Account returns the account identifier.
	Validate() error
}

type baseEvent struct {
	Type    EventType `json:"event"`
	Date    Date      `json:"date"`
	Ticker  string    `json:"security"`
	Acct    string    `json:"account"`
	Shares  Quantity  `json:"shares"`
	Memo    string    `json:"memo,omitempty"`
}

func (e baseEvent) What() EventType  { return e.Type }
func (e baseEvent) When() Date       { return e.Date }
func (e baseEvent) Security() string { return e.Ticker }
func (e baseEvent) Account() string  { return e.Acct }

func (e baseEvent) validate() error {
	if e.Date.IsZero() {
		return errors.New("event has no date")
	}
	if e.Ticker == "" {
		return errors.New("event has no security identifier")
	}
	if !e.Shares.IsPositive() {
		return fmt.Errorf("event has non-positive share count %s", e.Shares)
	}
	return nil
}

// Acquisition records shares entering an account: a vest, an option
// exercise, a purchase-plan purchase, or a cash purchase.
//
// Price is the per-share amount paid (the strike for exercises, the
// discounted price for plan purchases, zero for vesting). FMV is the
// per-share fair market value on the acquisition date. GrantDate and
// OfferingFMV carry the grant/offering metadata required by the option
// and purchase-plan rules.
type Acquisition struct {
	baseEvent
	Source      SourceKind `json:"source"`
	Price       Money      `json:"price"`                 // per share paid
	FMV         Money      `json:"fmv"`                   // per share at acquisition
	GrantDate   Date       `json:"grantDate,omitempty"`   // option grant / plan offering date
	OfferingFMV Money      `json:"offeringFmv,omitempty"` // per share at offering date
	Ref         string     `json:"ref,omitempty"`         // broker lot label, for specific identification
}

// NewAcquisition creates an acquisition event.
func NewAcquisition(on Date, account, security string, source SourceKind, shares Quantity, price, fmv Money) Acquisition {
	return Acquisition{
		baseEvent: baseEvent{Type: EvtAcquire, Date: on, Ticker: security, Acct: account, Shares: shares},
		Source:    source,
		Price:     price,
		FMV:       fmv,
	}
}

// WithGrant attaches the grant/offering metadata required for option and
// purchase-plan lots.
func (a Acquisition) WithGrant(grant Date, offeringFMV Money) Acquisition {
	a.GrantDate = grant
	a.OfferingFMV = offeringFMV
	return a
}

// WithRef attaches a broker lot label so dispositions can reference this
// lot with specific identification.
func (a Acquisition) WithRef(ref string) Acquisition {
	a.Ref = ref
	return a
}

// Validate checks the acquisition for structural correctness. Missing
// FMV/strike is not a structural defect (see MissingBasisDataError); only
// fields required to even create a lot are checked here.
func (a Acquisition) Validate() error {
	if err := a.baseEvent.validate(); err != nil {
		return err
	}
	if a.Type != EvtAcquire {
		return fmt.Errorf("acquisition has event type %q", a.Type)
	}
	switch a.Source {
	case Vesting, NonQualifiedExercise, IncentiveExercise, PlanPurchase, CashPurchase:
	default:
		return fmt.Errorf("acquisition has unknown source kind %d", a.Source)
	}
	if a.Price.IsNegative() || a.FMV.IsNegative() {
		return errors.New("acquisition has negative price or FMV")
	}
	if !a.GrantDate.IsZero() && a.GrantDate.After(a.Date) {
		return fmt.Errorf("grant date %s is after acquisition date %s", a.GrantDate, a.Date)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface with a stable field order.
func (a Acquisition) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("event", a.Type)
	w.Append("date", a.Date)
	w.Append("security", a.Ticker)
	w.Append("account", a.Acct)
	w.Append("shares", a.Shares)
	w.Append("source", a.Source)
	w.Append("price", a.Price)
	w.Append("fmv", a.FMV)
	w.Optional("grantDate", a.GrantDate)
	w.Optional("offeringFmv", a.OfferingFMV)
	w.Optional("ref", a.Ref)
	w.Optional("memo", a.Memo)
	return w.MarshalJSON()
}

// Disposition records shares leaving an account: a sale.
//
// Proceeds is per share; BrokerBasis is the total basis the broker
// reported for the sale (often wrong for equity compensation, which is
// the whole point of this package). LotRef optionally designates a
// specific lot by its acquisition ref.
type Disposition struct {
	baseEvent
	Proceeds    Money  `json:"proceeds"`    // per share
	BrokerBasis Money  `json:"brokerBasis"` // total, as reported on the 1099-B
	LotRef      string `json:"lot,omitempty"`
}

// NewDisposition creates a disposition event.
func NewDisposition(on Date, account, security string, shares Quantity, proceeds, brokerBasis Money) Disposition {
	return Disposition{
		baseEvent:   baseEvent{Type: EvtDispose, Date: on, Ticker: security, Acct: account, Shares: shares},
		Proceeds:    proceeds,
		BrokerBasis: brokerBasis,
	}
}

// WithLot designates the specific lot this sale draws from.
func (d Disposition) WithLot(ref string) Disposition {
	d.LotRef = ref
	return d
}

// Validate checks the disposition for structural correctness.
func (d Disposition) Validate() error {
	if err := d.baseEvent.validate(); err != nil {
		return err
	}
	if d.Type != EvtDispose {
		return fmt.Errorf("disposition has event type %q", d.Type)
	}
	if d.Proceeds.IsNegative() {
		return errors.New("disposition has negative proceeds")
	}
	return nil
}

// TotalProceeds returns the proceeds for the whole sale.
func (d Disposition) TotalProceeds() Money { return d.Proceeds.Mul(d.Shares) }

// MarshalJSON implements the json.Marshaler interface with a stable field order.
func (d Disposition) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("event", d.Type)
	w.Append("date", d.Date)
	w.Append("security", d.Ticker)
	w.Append("account", d.Acct)
	w.Append("shares", d.Shares)
	w.Append("proceeds", d.Proceeds)
	w.Append("brokerBasis", d.BrokerBasis)
	w.Optional("lot", d.LotRef)
	w.Optional("memo", d.Memo)
	return w.MarshalJSON()
}
