package taxlot

import "time"

// day is a helper for tests to build dates tersely.
func day(y int, m time.Month, d int) Date { return NewDate(y, m, d) }

// vest is a helper to build a vesting acquisition.
func vest(on Date, account, security string, shares, fmv float64) Acquisition {
	return NewAcquisition(on, account, security, Vesting, Q(shares), USD(0), USD(fmv))
}

// buy is a helper to build a cash purchase.
func buy(on Date, account, security string, shares, price float64) Acquisition {
	return NewAcquisition(on, account, security, CashPurchase, Q(shares), USD(price), USD(price))
}

// exerciseISO is a helper to build an incentive exercise with its grant date.
func exerciseISO(on, grant Date, account, security string, shares, strike, fmv float64) Acquisition {
	return NewAcquisition(on, account, security, IncentiveExercise, Q(shares), USD(strike), USD(fmv)).
		WithGrant(grant, Money{})
}

// purchaseESPP is a helper to build a plan purchase with its offering metadata.
func purchaseESPP(on, offering Date, account, security string, shares, price, fmv, offeringFMV float64) Acquisition {
	return NewAcquisition(on, account, security, PlanPurchase, Q(shares), USD(price), USD(fmv)).
		WithGrant(offering, USD(offeringFMV))
}

// sell is a helper to build a disposition.
func sell(on Date, account, security string, shares, proceeds, brokerBasis float64) Disposition {
	return NewDisposition(on, account, security, Q(shares), USD(proceeds), USD(brokerBasis))
}

// mustLedger builds a ledger from events or fails loudly.
func mustLedger(events ...Event) *Ledger {
	l := NewLedger()
	if err := l.Append(events...); err != nil {
		panic(err)
	}
	return l
}
