package taxlot

import (
	"errors"
	"fmt"
	"log"
	"sort"
)

// ConsumptionResult carries the fully computed tax treatment of one
// consumption: the shares one disposition drew from one lot.
type ConsumptionResult struct {
	Consumption
	Acquired       Date
	HoldingStart   Date
	Term           Term
	Proceeds       Money // total for these shares
	BrokerBasis    Money // the broker-reported basis, prorated to these shares
	CorrectedBasis Money // total, legally correct
	Ordinary       Money // ordinary income recognized at this disposition
	Capital        Money // recognized capital gain/loss, after wash disallowance
	AMT            *AMTResult
	WashDisallowed Money
}

// DispositionRecord is the final computed result for one disposition.
type DispositionRecord struct {
	Event        Disposition
	Consumptions []*ConsumptionResult
	// Shortfall is the unmatched share count when matching failed; the
	// record then carries the anomaly instead of consumptions.
	Shortfall Quantity
	Anomaly   error

	CorrectedBasis Money
	Ordinary       Money
	Capital        Money
	AMTAdjustment  Money
	CreditReversal Money
	Disallowed     Money
	WashSale       bool
	Code           AdjustmentCode
}

// Form8949Record is one reportable row of the sale, one per consumed
// lot, in the shape the reporting layer needs.
type Form8949Record struct {
	Security       string
	Acquired       Date
	Sold           Date
	Shares         Quantity
	Proceeds       Money
	BrokerBasis    Money
	CorrectedBasis Money
	Code           AdjustmentCode
	Adjustment     Money
	GainOrLoss     Money
	Term           Term
}

// ReconciliationRow is the per-sale diff against the broker-reported
// figures.
type ReconciliationRow struct {
	Security    string
	Sold        Date
	Shares      Quantity
	Proceeds    Money
	BrokerBasis Money
	Corrected   Money
	Adjustment  Money // corrected minus broker
	Code        AdjustmentCode
	Discrepancy string // non-empty when the row needs human attention
}

// AmtCreditEvent hands a reversal amount off to the external estimator.
type AmtCreditEvent struct {
	TaxYear int
	Credit  Money
}

// ShareCheck is the per-security conservation cross-check:
// acquired == disposed + still open (+ any recorded shortfall).
type ShareCheck struct {
	Security  string
	Acquired  Quantity
	Disposed  Quantity
	Remaining Quantity
	Shortfall Quantity
	OK        bool
}

// Options configures a reconciliation run.
type Options struct {
	// Period is the tax period to report on. The zero range means the
	// whole ledger. Events outside the period still drive lot state;
	// they are simply not reported.
	Period Range
	// Method selects the default lot matching method. Dispositions
	// carrying an explicit lot reference always use specific
	// identification.
	Method MatchMethod
	// WageIncome, when set, is the externally supplied equity wage
	// income total (W-2 box 1 equity component) to cross-check the
	// computed ordinary income against.
	WageIncome Money
	// Identical declares groups of substantially identical securities
	// for the wash-sale scan (e.g. two share classes of one issuer).
	Identical [][]string
}

// Report is the complete output of a reconciliation run.
type Report struct {
	Period Range
	Method MatchMethod

	Records   []*DispositionRecord // in-period dispositions, ledger order
	Form8949  []Form8949Record
	Rows      []ReconciliationRow
	WashSales []WashSaleAdjustment
	Credits   []AmtCreditEvent

	// OrdinaryIncome is the total compensation income recognized in the
	// period across all equity events: vest FMV, exercise spreads,
	// disqualifying dispositions.
	OrdinaryIncome Money
	// AMTPreference is the total preference from in-period incentive
	// exercises, for the external estimator.
	AMTPreference Money

	ShareChecks []ShareCheck
	// Anomalies are the non-fatal matching and basis warnings
	// accumulated during the run.
	Anomalies []error
	// Discrepancies are failed aggregate cross-checks. They are
	// surfaced, never silently dropped, and never block the report.
	Discrepancies []error

	register *Register
}

// OpenLots returns the lots still holding shares, in creation order.
func (r *Report) OpenLots() []*Lot {
	var out []*Lot
	for lot := range r.register.AllLots() {
		if !lot.Remaining().IsZero() {
			out = append(out, lot)
		}
	}
	return out
}

// Lots returns every lot of the run, consumed or not, in creation order.
func (r *Report) Lots() []*Lot {
	var out []*Lot
	for lot := range r.register.AllLots() {
		out = append(out, lot)
	}
	return out
}

// reconciliationTolerance is the penny threshold under which a broker
// figure counts as agreeing with the corrected one.
var reconciliationTolerance = USD(0.005)

// wageTolerance is the cross-check tolerance against wage totals.
var wageTolerance = USD(1)

// Reconcile runs the full pipeline over a ledger: lot derivation, lot
// matching, basis correction, classification, the global wash-sale pass,
// and report assembly. The computation is deterministic: identical
// ledgers produce identical reports.
func Reconcile(l *Ledger, opts Options) (*Report, error) {
	if l.Len() == 0 {
		return nil, errors.New("ledger is empty")
	}
	period := opts.Period
	if period == (Range{}) {
		var first, last Date
		for e := range l.Events() {
			if first.IsZero() {
				first = e.When()
			}
			last = e.When()
		}
		period = NewRange(first, last)
	}

	report := &Report{
		Period:   period,
		Method:   opts.Method,
		register: NewRegister(),
	}
	reg := report.register

	// Phase 1: derive all lots. Every acquisition must be visible before
	// any disposition of the same security is matched; ledger order
	// guarantees chronology, and matching below never looks ahead.
	for a := range l.Acquisitions() {
		lot, err := reg.Add(a)
		if err != nil {
			var mb *MissingBasisDataError
			if errors.As(err, &mb) {
				log.Printf("warning: %v", mb)
				report.Anomalies = append(report.Anomalies, mb)
			} else {
				return nil, fmt.Errorf("could not register lot for %s on %s: %w", a.Ticker, a.Date, err)
			}
		}
		if !period.Contains(a.Date) {
			continue
		}
		switch a.Source {
		case Vesting:
			report.OrdinaryIncome = report.OrdinaryIncome.Add(a.FMV.Mul(a.Shares))
		case NonQualifiedExercise:
			report.OrdinaryIncome = report.OrdinaryIncome.Add(a.FMV.Sub(a.Price).FloorZero().Mul(a.Shares))
		case IncentiveExercise:
			report.AMTPreference = report.AMTPreference.Add(PreferenceItem(lot))
		case PlanPurchase, CashPurchase:
			// No income at acquisition.
		}
	}

	// Phase 2: match every disposition chronologically. Out-of-period
	// dispositions still consume lot state.
	type matched struct {
		event Disposition
		cons  []Consumption
		err   error
	}
	var all []matched
	for d := range l.Dispositions() {
		cons, err := reg.Match(d, opts.Method)
		all = append(all, matched{event: d, cons: cons, err: err})
	}

	// Phase 3: classify and run the wash-sale pass in one chronological
	// sweep. Basis is read lazily from lot state so that a replacement
	// lot sold after absorbing a disallowed loss carries its increased
	// basis. The sweep needs the full disposition set (plus the 30-day
	// margin); it cannot run incrementally.
	detector := newWashDetector(reg, opts.Identical)
	var records []*DispositionRecord
	for _, m := range all {
		rec := &DispositionRecord{Event: m.event}
		if m.err != nil {
			rec.Anomaly = m.err
			rec.Shortfall = m.event.Shares
			rec.Code = AdjustmentOther
			log.Printf("warning: %v", m.err)
			records = append(records, rec)
			continue
		}
		detector.observe(m.cons)
		for _, c := range m.cons {
			cr := classifyConsumption(c, m.event)
			if cr.Capital.IsNegative() {
				if disallowed := detector.disallow(cr, m.event.Ticker, m.event.Date); disallowed.IsPositive() {
					cr.WashDisallowed = disallowed
					cr.Capital = cr.Capital.Add(disallowed)
				}
			}
			rec.Consumptions = append(rec.Consumptions, cr)
		}
		aggregate(rec)
		records = append(records, rec)
	}

	// Phase 4: assemble the in-period report.
	for _, rec := range records {
		if !period.Contains(rec.Event.Date) {
			continue
		}
		report.Records = append(report.Records, rec)
		report.OrdinaryIncome = report.OrdinaryIncome.Add(rec.Ordinary)
		report.Rows = append(report.Rows, buildRow(rec))
		for _, cr := range rec.Consumptions {
			report.Form8949 = append(report.Form8949, buildForm8949(rec.Event, cr))
		}
		if rec.Anomaly != nil {
			report.Anomalies = append(report.Anomalies, rec.Anomaly)
		}
	}
	for _, adj := range detector.applied {
		if period.Contains(adj.SaleDate) {
			report.WashSales = append(report.WashSales, adj)
		}
	}
	report.Credits = creditEvents(records, period)
	report.ShareChecks = shareChecks(l, reg, records)
	report.crossCheck(opts)

	return report, nil
}

// classifyConsumption computes the tax treatment of one consumption from
// the current lot state, branching exhaustively on the source kind.
func classifyConsumption(c Consumption, d Disposition) *ConsumptionResult {
	lot := c.Lot
	cr := &ConsumptionResult{
		Consumption:  c,
		Acquired:     lot.Acquired,
		HoldingStart: lot.HoldingStart,
		Proceeds:     d.Proceeds.Mul(c.Shares),
		BrokerBasis:  d.BrokerBasis.Mul(c.Shares).Div(d.Shares),
	}

	switch lot.Source {
	case Vesting, NonQualifiedExercise, CashPurchase:
		// Income (if any) was recognized at acquisition and is already
		// inside the corrected basis.
		cr.CorrectedBasis = lot.BasisPerShare().Mul(c.Shares)
		cr.Capital = cr.Proceeds.Sub(cr.CorrectedBasis)
		cr.Term = HoldingTerm(lot.HoldingStart, d.Date)

	case IncentiveExercise:
		res := DispositionAdjustment(lot, d.Date, d.Proceeds, c.Shares)
		cr.AMT = &res
		cr.CorrectedBasis = res.RegularBasis
		cr.Ordinary = res.Ordinary
		cr.Capital = res.CapitalGain
		if res.Qualifying {
			cr.Term = LongTerm
		} else {
			cr.Term = HoldingTerm(lot.HoldingStart, d.Date)
		}

	case PlanPurchase:
		res := ClassifyPlanDisposition(lot, d.Date, d.Proceeds, c.Shares)
		cr.CorrectedBasis = res.CorrectedBasis
		cr.Ordinary = res.Ordinary
		cr.Capital = res.Capital
		cr.Term = res.Term
	}
	return cr
}

// aggregate folds consumption results up into their disposition record
// and assigns the adjustment code.
func aggregate(rec *DispositionRecord) {
	for _, cr := range rec.Consumptions {
		rec.CorrectedBasis = rec.CorrectedBasis.Add(cr.CorrectedBasis)
		rec.Ordinary = rec.Ordinary.Add(cr.Ordinary)
		rec.Capital = rec.Capital.Add(cr.Capital)
		rec.Disallowed = rec.Disallowed.Add(cr.WashDisallowed)
		if cr.AMT != nil {
			rec.AMTAdjustment = rec.AMTAdjustment.Add(cr.AMT.Adjustment)
			rec.CreditReversal = rec.CreditReversal.Add(cr.AMT.CreditReversal)
		}
	}
	rec.WashSale = rec.Disallowed.IsPositive()
	switch {
	case rec.WashSale:
		rec.Code = AdjustmentLossDisallowed
	case rec.CorrectedBasis.Sub(rec.Event.BrokerBasis).Abs().GreaterThan(reconciliationTolerance):
		rec.Code = AdjustmentBasisCorrected
	default:
		rec.Code = AdjustmentNone
	}
}

func buildRow(rec *DispositionRecord) ReconciliationRow {
	row := ReconciliationRow{
		Security:    rec.Event.Ticker,
		Sold:        rec.Event.Date,
		Shares:      rec.Event.Shares,
		Proceeds:    rec.Event.TotalProceeds(),
		BrokerBasis: rec.Event.BrokerBasis,
		Corrected:   rec.CorrectedBasis,
		Adjustment:  rec.CorrectedBasis.Sub(rec.Event.BrokerBasis),
		Code:        rec.Code,
	}
	if rec.Anomaly != nil {
		row.Discrepancy = rec.Anomaly.Error()
	}
	return row
}

func buildForm8949(d Disposition, cr *ConsumptionResult) Form8949Record {
	return Form8949Record{
		Security:       d.Ticker,
		Acquired:       cr.Acquired,
		Sold:           d.Date,
		Shares:         cr.Shares,
		Proceeds:       cr.Proceeds,
		BrokerBasis:    cr.BrokerBasis,
		CorrectedBasis: cr.CorrectedBasis,
		Code:           consumptionCode(cr),
		Adjustment:     cr.CorrectedBasis.Sub(cr.BrokerBasis).Add(cr.WashDisallowed),
		GainOrLoss:     cr.Capital,
		Term:           cr.Term,
	}
}

func consumptionCode(cr *ConsumptionResult) AdjustmentCode {
	switch {
	case cr.WashDisallowed.IsPositive():
		return AdjustmentLossDisallowed
	case cr.CorrectedBasis.Sub(cr.BrokerBasis).Abs().GreaterThan(reconciliationTolerance):
		return AdjustmentBasisCorrected
	default:
		return AdjustmentNone
	}
}

// creditEvents aggregates credit reversals by sale year for in-period
// dispositions.
func creditEvents(records []*DispositionRecord, period Range) []AmtCreditEvent {
	byYear := make(map[int]Money)
	for _, rec := range records {
		if !period.Contains(rec.Event.Date) || !rec.CreditReversal.IsPositive() {
			continue
		}
		year := rec.Event.Date.Year()
		byYear[year] = byYear[year].Add(rec.CreditReversal)
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	out := make([]AmtCreditEvent, 0, len(years))
	for _, y := range years {
		out = append(out, AmtCreditEvent{TaxYear: y, Credit: byYear[y]})
	}
	return out
}

// shareChecks verifies, per security, that every acquired share is
// either disposed of or still open, accounting for recorded shortfalls.
func shareChecks(l *Ledger, reg *Register, records []*DispositionRecord) []ShareCheck {
	type tally struct{ disposed, shortfall Quantity }
	tallies := make(map[string]*tally)
	for _, rec := range records {
		t := tallies[rec.Event.Ticker]
		if t == nil {
			t = &tally{}
			tallies[rec.Event.Ticker] = t
		}
		for _, cr := range rec.Consumptions {
			t.disposed = t.disposed.Add(cr.Shares)
		}
		t.shortfall = t.shortfall.Add(rec.Shortfall)
	}

	var out []ShareCheck
	for _, sec := range reg.Securities() {
		acquired := Q(0)
		remaining := Q(0)
		for _, lot := range reg.Lots(sec) {
			acquired = acquired.Add(lot.Original)
			remaining = remaining.Add(lot.Remaining())
		}
		check := ShareCheck{Security: sec, Acquired: acquired, Remaining: remaining}
		if t := tallies[sec]; t != nil {
			check.Disposed = t.disposed
			check.Shortfall = t.shortfall
		}
		check.OK = acquired.Equal(check.Disposed.Add(remaining))
		out = append(out, check)
	}
	return out
}

// crossCheck runs the aggregate reconciliation checks and records any
// mismatch as a surfaced discrepancy.
func (r *Report) crossCheck(opts Options) {
	for _, check := range r.ShareChecks {
		if !check.OK {
			err := &ReconciliationMismatchError{
				Check:    "share conservation",
				Security: check.Security,
				Want:     check.Acquired.String(),
				Got:      check.Disposed.Add(check.Remaining).String(),
			}
			log.Printf("warning: %v", err)
			r.Discrepancies = append(r.Discrepancies, err)
		}
	}
	if !opts.WageIncome.IsZero() {
		diff := r.OrdinaryIncome.Sub(opts.WageIncome).Abs()
		if diff.GreaterThan(wageTolerance) {
			err := &ReconciliationMismatchError{
				Check: "ordinary income vs wage total",
				Want:  opts.WageIncome.String(),
				Got:   r.OrdinaryIncome.String(),
			}
			log.Printf("warning: %v", err)
			r.Discrepancies = append(r.Discrepancies, err)
		}
	}
}
