package taxlot

import (
	"testing"
	"time"
)

// isoLot registers a 100-share incentive lot: granted 2023-05-01,
// exercised 2025-06-01 at a $10 strike when the stock was worth $25.
func isoLot(t *testing.T) *Lot {
	t.Helper()
	reg := NewRegister()
	lot, err := reg.Add(exerciseISO(day(2025, time.June, 1), day(2023, time.May, 1), "broker-1", "ACME", 100, 10, 25))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return lot
}

func TestPreferenceItem(t *testing.T) {
	lot := isoLot(t)
	if got := PreferenceItem(lot); !got.Equal(USD(1500)) {
		t.Errorf("PreferenceItem() = %s, want $1,500.00 (spread x shares)", got)
	}

	reg := NewRegister()
	other, _ := reg.Add(vest(day(2025, time.June, 1), "broker-1", "ACME", 100, 25))
	if got := PreferenceItem(other); !got.IsZero() {
		t.Errorf("PreferenceItem() on a vesting lot = %s, want 0", got)
	}
}

func TestDispositionAdjustment_Qualifying(t *testing.T) {
	lot := isoLot(t)
	// Past both holding requirements, the whole regular gain is
	// long-term and the AMT gain is smaller by exactly the preference.
	res := DispositionAdjustment(lot, day(2026, time.July, 1), USD(40), Q(100))

	if !res.Qualifying {
		t.Fatal("sale past both holding periods must be qualifying")
	}
	if !res.Ordinary.IsZero() {
		t.Errorf("Ordinary = %s, want 0 for a qualifying disposition", res.Ordinary)
	}
	if !res.CapitalGain.Equal(USD(3000)) {
		t.Errorf("CapitalGain = %s, want $3,000.00 (4000 proceeds - 1000 strike basis)", res.CapitalGain)
	}
	if !res.Adjustment.Equal(USD(-1500)) {
		t.Errorf("Adjustment = %s, want -$1,500.00 (AMT gain 1500 - regular gain 3000)", res.Adjustment)
	}
	if !res.CreditReversal.Equal(USD(1500)) {
		t.Errorf("CreditReversal = %s, want the full exercise preference", res.CreditReversal)
	}
}

func TestDispositionAdjustment_QualifyingBoundary(t *testing.T) {
	lot := isoLot(t)
	// Exactly one year from exercise (and past two from grant): the
	// boundary date itself satisfies the statutory holding period.
	res := DispositionAdjustment(lot, day(2026, time.June, 1), USD(40), Q(100))
	if !res.Qualifying {
		t.Error("sale exactly on the one-year boundary must be qualifying")
	}

	res = DispositionAdjustment(lot, day(2026, time.May, 31), USD(40), Q(100))
	if res.Qualifying {
		t.Error("sale one day before the boundary must be disqualifying")
	}
}

func TestDispositionAdjustment_Disqualifying(t *testing.T) {
	lot := isoLot(t)
	res := DispositionAdjustment(lot, day(2025, time.November, 2), USD(45), Q(100))

	if res.Qualifying {
		t.Fatal("sale five months after exercise must be disqualifying")
	}
	if !res.Ordinary.Equal(USD(1500)) {
		t.Errorf("Ordinary = %s, want $1,500.00 (the exercise spread)", res.Ordinary)
	}
	if !res.RegularBasis.Equal(USD(2500)) {
		t.Errorf("RegularBasis = %s, want $2,500.00 (strike + ordinary)", res.RegularBasis)
	}
	if !res.CapitalGain.Equal(USD(2000)) {
		t.Errorf("CapitalGain = %s, want $2,000.00 (4500 proceeds - 2500 basis)", res.CapitalGain)
	}
	if !res.Adjustment.Equal(USD(-1500)) {
		t.Errorf("Adjustment = %s, want the reversed preference", res.Adjustment)
	}
}

func TestDispositionAdjustment_DisqualifyingCappedByGain(t *testing.T) {
	lot := isoLot(t)
	// Sale at $12: the gain (200) is below the spread (1500), so the
	// ordinary income is capped at the actual gain.
	res := DispositionAdjustment(lot, day(2025, time.November, 2), USD(12), Q(100))
	if !res.Ordinary.Equal(USD(200)) {
		t.Errorf("Ordinary = %s, want $200.00 (capped at the actual gain)", res.Ordinary)
	}
	if !res.CapitalGain.IsZero() {
		t.Errorf("CapitalGain = %s, want 0 after re-characterization", res.CapitalGain)
	}
}

func TestDispositionAdjustment_DisqualifyingUnderwater(t *testing.T) {
	lot := isoLot(t)
	// Sale below the strike: no phantom income, just a capital loss.
	res := DispositionAdjustment(lot, day(2025, time.November, 2), USD(8), Q(100))
	if !res.Ordinary.IsZero() {
		t.Errorf("Ordinary = %s, want 0 on an underwater sale", res.Ordinary)
	}
	if !res.CapitalGain.Equal(USD(-200)) {
		t.Errorf("CapitalGain = %s, want -$200.00", res.CapitalGain)
	}
}

func TestDispositionAdjustment_PartialShares(t *testing.T) {
	lot := isoLot(t)
	// Selling 40 of the 100 shares scales every amount proportionally.
	res := DispositionAdjustment(lot, day(2026, time.July, 1), USD(40), Q(40))
	if !res.CapitalGain.Equal(USD(1200)) {
		t.Errorf("CapitalGain = %s, want $1,200.00", res.CapitalGain)
	}
	if !res.CreditReversal.Equal(USD(600)) {
		t.Errorf("CreditReversal = %s, want $600.00 (40 shares' worth)", res.CreditReversal)
	}
}

func TestDispositionAdjustment_NoGrantDateIsDisqualifying(t *testing.T) {
	reg := NewRegister()
	lot, err := reg.Add(NewAcquisition(day(2025, time.June, 1), "broker-1", "ACME", IncentiveExercise, Q(100), USD(10), USD(25)))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	res := DispositionAdjustment(lot, day(2028, time.June, 1), USD(40), Q(100))
	if res.Qualifying {
		t.Error("without a grant date the qualifying path cannot be proven")
	}
}
