package taxlot

import (
	"errors"
	"testing"
	"time"
)

func TestCorrectedBasis(t *testing.T) {
	on := day(2025, time.March, 15)
	grant := day(2023, time.May, 1)

	tests := []struct {
		name        string
		acq         Acquisition
		wantRegular Money
		wantAMT     Money
		wantMissing bool
	}{
		{
			name:        "vesting uses vest-date FMV",
			acq:         vest(on, "broker-1", "ACME", 25, 31.20),
			wantRegular: USD(31.20),
			wantAMT:     USD(31.20),
		},
		{
			name:        "nq exercise collapses to FMV",
			acq:         NewAcquisition(on, "broker-1", "ACME", NonQualifiedExercise, Q(100), USD(10), USD(25)),
			wantRegular: USD(25),
			wantAMT:     USD(25),
		},
		{
			name:        "iso exercise diverges regular and AMT",
			acq:         exerciseISO(on, grant, "broker-1", "ACME", 100, 10, 25),
			wantRegular: USD(10),
			wantAMT:     USD(25),
		},
		{
			name:        "espp uses the purchase price only",
			acq:         purchaseESPP(on, grant, "broker-1", "ACME", 50, 40, 45, 50),
			wantRegular: USD(40),
			wantAMT:     USD(40),
		},
		{
			name:        "cash purchase uses the price paid",
			acq:         buy(on, "broker-1", "ACME", 10, 42.50),
			wantRegular: USD(42.50),
			wantAMT:     USD(42.50),
		},
		{
			name:        "vesting with no FMV defaults to zero",
			acq:         vest(on, "broker-1", "ACME", 25, 0),
			wantRegular: USD(0),
			wantAMT:     USD(0),
			wantMissing: true,
		},
		{
			name:        "iso with no FMV keeps the strike on the regular side",
			acq:         exerciseISO(on, grant, "broker-1", "ACME", 100, 10, 0),
			wantRegular: USD(10),
			wantAMT:     USD(0),
			wantMissing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			basis, err := CorrectedBasis(tt.acq)
			var mb *MissingBasisDataError
			if got := errors.As(err, &mb); got != tt.wantMissing {
				t.Fatalf("CorrectedBasis() error = %v, want missing-data %v", err, tt.wantMissing)
			}
			if !basis.Regular.Equal(tt.wantRegular) {
				t.Errorf("Regular = %s, want %s", basis.Regular, tt.wantRegular)
			}
			if !basis.AMT.Equal(tt.wantAMT) {
				t.Errorf("AMT = %s, want %s", basis.AMT, tt.wantAMT)
			}
		})
	}
}

func TestRegister_AddMissingBasisStillCreatesLot(t *testing.T) {
	reg := NewRegister()
	lot, err := reg.Add(vest(day(2025, time.March, 15), "broker-1", "ACME", 25, 0))
	var mb *MissingBasisDataError
	if !errors.As(err, &mb) {
		t.Fatalf("Add() error = %v, want *MissingBasisDataError", err)
	}
	if lot == nil {
		t.Fatal("the lot must exist despite the missing basis data")
	}
	if !lot.MissingBasis {
		t.Error("the lot must be flagged as basis-defaulted")
	}
	if !lot.BasisPerShare().IsZero() {
		t.Errorf("conservative default basis = %s, want 0", lot.BasisPerShare())
	}
}
