package taxlot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const benefitPortalExport = `{
  "account": "XX-1234",
  "transactions": [
    {"date": "2025-03-15", "type": "RS", "symbol": "ACME", "quantity": 25, "fairMarketValue": 31.20},
    {"date": "2025-06-01", "type": "ISO", "symbol": "ACME", "quantity": 100, "price": 10, "fairMarketValue": 25, "grantDate": "2023-05-01"},
    {"date": "2025-06-02", "type": "ESPP", "symbol": "ACME", "quantity": 50, "price": 40, "fairMarketValue": 45, "grantDate": "2025-01-01", "offeringFairMarketValue": 50},
    {"date": "2025-07-01", "type": "JOURNAL", "symbol": "ACME", "quantity": 10},
    {"date": "2025-11-02", "type": "SELL", "symbol": "ACME", "quantity": 10, "proceeds": 45.00, "costBasis": 0}
  ]
}`

func TestImportBroker(t *testing.T) {
	events, err := ImportBroker(strings.NewReader(benefitPortalExport), "broker-1", DefaultBrokerProfile)
	require.NoError(t, err)
	// The unknown JOURNAL row is skipped, not invented.
	require.Len(t, events, 4)

	rs, ok := events[0].(Acquisition)
	require.True(t, ok, "first event should be an acquisition")
	assert.Equal(t, Vesting, rs.Source)
	assert.Equal(t, "ACME", rs.Security())
	assert.Equal(t, "broker-1", rs.Account())
	assert.True(t, rs.Shares.Equal(Q(25)))
	assert.True(t, rs.FMV.Equal(USD(31.20)))

	iso, ok := events[1].(Acquisition)
	require.True(t, ok)
	assert.Equal(t, IncentiveExercise, iso.Source)
	assert.True(t, iso.Price.Equal(USD(10)))
	assert.Equal(t, NewDate(2023, time.May, 1), iso.GrantDate)

	espp, ok := events[2].(Acquisition)
	require.True(t, ok)
	assert.Equal(t, PlanPurchase, espp.Source)
	assert.True(t, espp.OfferingFMV.Equal(USD(50)))

	sale, ok := events[3].(Disposition)
	require.True(t, ok, "last event should be a disposition")
	assert.True(t, sale.Proceeds.Equal(USD(45)))
	assert.True(t, sale.BrokerBasis.IsZero())
}

func TestImportBroker_ImportedEventsReconcile(t *testing.T) {
	events, err := ImportBroker(strings.NewReader(benefitPortalExport), "broker-1", DefaultBrokerProfile)
	require.NoError(t, err)

	ledger, err := NewLedgerSorted(events)
	require.NoError(t, err)

	report, err := Reconcile(ledger, Options{Period: TaxYear(2025)})
	require.NoError(t, err)
	assert.Len(t, report.Rows, 1)
	// 10 vested shares sold FIFO against the zero broker basis.
	assert.True(t, report.Rows[0].Corrected.Equal(USD(312)), "corrected basis %s", report.Rows[0].Corrected)
}

func TestImportBroker_Malformed(t *testing.T) {
	_, err := ImportBroker(strings.NewReader(`{"transactions": "not-a-list"}`), "broker-1", DefaultBrokerProfile)
	assert.Error(t, err)

	_, err = ImportBroker(strings.NewReader(`not json`), "broker-1", DefaultBrokerProfile)
	assert.Error(t, err)
}
