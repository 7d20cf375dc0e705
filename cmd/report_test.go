package cmd

import (
	"testing"
	"time"

	"github.com/etnz/taxlot"
)

func TestReportFlags_Options(t *testing.T) {
	r := reportFlags{year: 2025, method: "fifo"}
	opts, err := r.options()
	if err != nil {
		t.Fatalf("options() error = %v", err)
	}
	if opts.Period != taxlot.TaxYear(2025) {
		t.Errorf("Period = %s, want tax year 2025", opts.Period)
	}
	if opts.Method != taxlot.FIFO {
		t.Errorf("Method = %s, want fifo", opts.Method)
	}
}

func TestReportFlags_CustomRange(t *testing.T) {
	r := reportFlags{start: "2025-04-01", end: "2025-06-30", method: "specific-id"}
	opts, err := r.options()
	if err != nil {
		t.Fatalf("options() error = %v", err)
	}
	want := taxlot.NewRange(taxlot.NewDate(2025, time.April, 1), taxlot.NewDate(2025, time.June, 30))
	if opts.Period != want {
		t.Errorf("Period = %s, want %s", opts.Period, want)
	}
	if opts.Method != taxlot.SpecificID {
		t.Errorf("Method = %s, want specific-id", opts.Method)
	}
}

func TestReportFlags_StartWithoutEnd(t *testing.T) {
	r := reportFlags{start: "2025-04-01", method: "fifo"}
	if _, err := r.options(); err == nil {
		t.Error("options() must reject -s without -d")
	}
}

func TestReportFlags_IdenticalGroups(t *testing.T) {
	r := reportFlags{year: 2025, method: "fifo", identical: "GOOG,GOOGL; BRK.A , BRK.B ;SOLO"}
	opts, err := r.options()
	if err != nil {
		t.Fatalf("options() error = %v", err)
	}
	if len(opts.Identical) != 2 {
		t.Fatalf("Identical = %v, want 2 groups (a single ticker is not a group)", opts.Identical)
	}
	if opts.Identical[1][0] != "BRK.A" || opts.Identical[1][1] != "BRK.B" {
		t.Errorf("Identical[1] = %v, want trimmed [BRK.A BRK.B]", opts.Identical[1])
	}
}

func TestReportFlags_BadMethod(t *testing.T) {
	r := reportFlags{year: 2025, method: "average"}
	if _, err := r.options(); err == nil {
		t.Error("options() must reject an unknown matching method")
	}
}
