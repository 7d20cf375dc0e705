package taxlot

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLedger_Append_RejectsOutOfOrder(t *testing.T) {
	l := NewLedger()
	if err := l.Append(vest(day(2025, time.March, 15), "broker-1", "ACME", 25, 31.20)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	err := l.Append(vest(day(2025, time.February, 1), "broker-1", "ACME", 10, 30))
	var ordering *DateOrderingError
	if !errors.As(err, &ordering) {
		t.Fatalf("Append() out of order error = %v, want *DateOrderingError", err)
	}
	if l.Len() != 1 {
		t.Errorf("a rejected append must not grow the ledger, got %d events", l.Len())
	}
}

func TestLedger_Append_AllOrNothing(t *testing.T) {
	l := NewLedger()
	err := l.Append(
		vest(day(2025, time.March, 15), "broker-1", "ACME", 25, 31.20),
		vest(day(2025, time.February, 1), "broker-1", "ACME", 10, 30),
	)
	if err == nil {
		t.Fatal("Append() with an out-of-order batch must fail")
	}
	if l.Len() != 0 {
		t.Errorf("a failed batch must leave the ledger untouched, got %d events", l.Len())
	}
}

func TestLedger_Append_SameDayAllowed(t *testing.T) {
	l := NewLedger()
	d := day(2025, time.March, 15)
	err := l.Append(
		vest(d, "broker-1", "ACME", 25, 31.20),
		sell(d, "broker-1", "ACME", 25, 31.20, 0),
	)
	if err != nil {
		t.Fatalf("same-day events must be accepted in ledger order: %v", err)
	}
}

func TestNewLedgerSorted(t *testing.T) {
	// Deliberately unsorted, with two same-day events whose relative
	// order must be preserved by the stable sort.
	e1 := vest(day(2025, time.August, 3), "broker-1", "ACME", 5, 30)
	e2 := vest(day(2025, time.August, 1), "broker-1", "ACME", 10, 29)
	e3 := sell(day(2025, time.August, 1), "broker-1", "ACME", 4, 31, 0)

	l, err := NewLedgerSorted([]Event{e1, e2, e3})
	if err != nil {
		t.Fatalf("NewLedgerSorted() error = %v", err)
	}

	var got []Date
	for e := range l.Events() {
		got = append(got, e.When())
	}
	want := []Date{e2.Date, e3.Date, e1.Date}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NewLedgerSorted() order = %v, want %v", got, want)
	}
}

func TestDecodeLedger(t *testing.T) {
	jsonlStream := `
{"event":"acquire","date":"2025-03-15","security":"ACME","account":"broker-1","shares":25,"source":"vesting","price":0,"fmv":31.20}
{"event":"acquire","date":"2025-06-01","security":"ACME","account":"broker-1","shares":100,"source":"iso-exercise","price":10,"fmv":25,"grantDate":"2023-05-01"}
{"event":"dispose","date":"2025-11-02","security":"ACME","account":"broker-1","shares":10,"proceeds":45.00,"brokerBasis":0}
`
	ledger, err := DecodeLedger(strings.NewReader(jsonlStream))
	if err != nil {
		t.Fatalf("DecodeLedger() returned an unexpected error: %v", err)
	}
	if ledger.Len() != 3 {
		t.Fatalf("DecodeLedger() decoded wrong number of events. Got: %d, want: 3", ledger.Len())
	}

	expectedTypes := []reflect.Type{
		reflect.TypeOf(Acquisition{}),
		reflect.TypeOf(Acquisition{}),
		reflect.TypeOf(Disposition{}),
	}
	i := 0
	for e := range ledger.Events() {
		if reflect.TypeOf(e) != expectedTypes[i] {
			t.Errorf("Event %d has wrong type. Got: %T, want: %v", i+1, e, expectedTypes[i])
		}
		i++
	}
}

func TestDecodeLedger_RejectsUnknownEvent(t *testing.T) {
	_, err := DecodeLedger(strings.NewReader(`{"event":"transmogrify","date":"2025-01-01"}`))
	if err == nil {
		t.Fatal("DecodeLedger() must reject unknown event types")
	}
}

func TestEncodeLedger_RoundTrip(t *testing.T) {
	jsonl := `{"event":"acquire","date":"2025-03-15","security":"ACME","account":"broker-1","shares":25,"source":"vesting","price":0,"fmv":31.2,"ref":"rsu-2025-03"}
{"event":"acquire","date":"2025-06-02","security":"ACME","account":"broker-1","shares":50,"source":"espp","price":40,"fmv":45,"grantDate":"2025-01-01","offeringFmv":50}
{"event":"dispose","date":"2025-11-02","security":"ACME","account":"broker-1","shares":10,"proceeds":45,"brokerBasis":0,"lot":"rsu-2025-03"}
`
	ledger, err := DecodeLedger(strings.NewReader(jsonl))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}
	if got := buf.String(); got != jsonl {
		t.Errorf("round trip is not canonical:\ngot:\n%s\nwant:\n%s", got, jsonl)
	}
}

func TestLedger_SecuritiesAndAccounts(t *testing.T) {
	l := mustLedger(
		vest(day(2025, time.January, 2), "broker-2", "ZETA", 5, 10),
		vest(day(2025, time.January, 3), "broker-1", "ACME", 5, 10),
	)
	if got := l.Securities(); !reflect.DeepEqual(got, []string{"ACME", "ZETA"}) {
		t.Errorf("Securities() = %v, want sorted [ACME ZETA]", got)
	}
	if got := l.Accounts(); !reflect.DeepEqual(got, []string{"broker-1", "broker-2"}) {
		t.Errorf("Accounts() = %v, want sorted [broker-1 broker-2]", got)
	}
}
