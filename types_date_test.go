package taxlot

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2025-01-15", day(2025, time.January, 15), false},
		{"2025-7-1", day(2025, time.July, 1), false},
		{"invalid-date", Date{}, true},
		{"2025-13-01", Date{}, true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.input)
		if (err != nil) != tt.err {
			t.Errorf("ParseDate(%q) error = %v, want error %v", tt.input, err, tt.err)
			continue
		}
		if !tt.err && got != tt.expected {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestDateAddYears(t *testing.T) {
	// Leap day plus one year normalizes to March 1st, which keeps the
	// holding-period comparison conservative.
	d := day(2024, time.February, 29).AddYears(1)
	if want := day(2025, time.March, 1); d != want {
		t.Errorf("AddYears(1) = %s, want %s", d, want)
	}
}

func TestTaxYear(t *testing.T) {
	r := TaxYear(2025)
	if r.From != day(2025, time.January, 1) || r.To != day(2025, time.December, 31) {
		t.Errorf("TaxYear(2025) = %s, want full calendar year", r)
	}
	if !r.Contains(day(2025, time.January, 1)) || !r.Contains(day(2025, time.December, 31)) {
		t.Error("TaxYear boundaries must be inclusive")
	}
	if r.Contains(day(2024, time.December, 31)) || r.Contains(day(2026, time.January, 1)) {
		t.Error("TaxYear must exclude neighboring years")
	}
}

func TestRangeWithMargin(t *testing.T) {
	r := TaxYear(2025).WithMargin(30)
	if !r.Contains(day(2024, time.December, 2)) {
		t.Error("margin must extend the range backward by 30 days")
	}
	if !r.Contains(day(2026, time.January, 30)) {
		t.Error("margin must extend the range forward by 30 days")
	}
	if r.Contains(day(2024, time.December, 1)) {
		t.Error("margin must not extend beyond 30 days")
	}
}

func TestDaysBetween(t *testing.T) {
	a := day(2025, time.June, 1)
	if got := a.DaysBetween(a.Add(30)); got != 30 {
		t.Errorf("DaysBetween = %d, want 30", got)
	}
	if got := a.Add(30).DaysBetween(a); got != -30 {
		t.Errorf("DaysBetween reversed = %d, want -30", got)
	}
}
