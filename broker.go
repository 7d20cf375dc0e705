package taxlot

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/PaesslerAG/jsonpath"
)

// Broker benefit portals export activity as JSON with a shape that
// changes per vendor but always boils down to a transaction list. The
// importer is configured with jsonpath expressions so a new vendor is a
// config change, not a code change.

/*
	A typical export looks like:

	{
	    "account": "XX-1234",
	    "transactions": [
	        {
	            "date": "2025-03-15",
	            "type": "RS",
	            "symbol": "ACME",
	            "quantity": 25,
	            "fairMarketValue": 31.20
	        }
	    ]
	}
*/

// BrokerProfile maps one vendor's export shape onto ledger events.
type BrokerProfile struct {
	Name string
	// Transactions selects the transaction list from the document root.
	Transactions string
	// Per-transaction field paths, relative to each transaction object.
	Date     string
	Type     string
	Security string
	Shares   string
	Price    string
	FMV      string
	Proceeds string
	Basis    string
	// Optional grant metadata, present on option and plan transactions.
	GrantDate   string
	OfferingFMV string
	// Kinds maps the vendor's transaction type codes to source kinds;
	// the special value "sell" marks dispositions.
	Kinds map[string]string
}

// DefaultBrokerProfile covers the benefit-portal export shape documented
// above.
var DefaultBrokerProfile = BrokerProfile{
	Name:         "benefit-portal",
	Transactions: "$.transactions",
	Date:         "$.date",
	Type:         "$.type",
	Security:     "$.symbol",
	Shares:       "$.quantity",
	Price:        "$.price",
	FMV:          "$.fairMarketValue",
	Proceeds:     "$.proceeds",
	Basis:        "$.costBasis",
	GrantDate:    "$.grantDate",
	OfferingFMV:  "$.offeringFairMarketValue",
	Kinds: map[string]string{
		"RS":   "vesting",
		"NQ":   "nq-exercise",
		"ISO":  "iso-exercise",
		"ESPP": "espp",
		"BUY":  "purchase",
		"SELL": "sell",
	},
}

// ImportBroker reads a broker JSON export and returns normalized ledger
// events in file order. Unknown transaction types are skipped with a
// warning rather than invented.
func ImportBroker(r io.Reader, account string, profile BrokerProfile) ([]Event, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("invalid %s export: %w", profile.Name, err)
	}

	jval, err := jsonpath.Get(profile.Transactions, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s export: %q %w", profile.Name, profile.Transactions, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %s export: %q is not a list", profile.Name, profile.Transactions)
	}

	var events []Event
	for i, jtx := range jlist {
		kind, err := jstring(jtx, profile.Type)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		mapped, known := profile.Kinds[kind]
		if !known {
			log.Printf("warning: skipping transaction %d with unknown type %q", i, kind)
			continue
		}

		dateStr, err := jstring(jtx, profile.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		date, err := ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		security, err := jstring(jtx, profile.Security)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		shares, err := jnumber(jtx, profile.Shares)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}

		if mapped == "sell" {
			proceeds, _ := jnumber(jtx, profile.Proceeds)
			basis, _ := jnumber(jtx, profile.Basis)
			events = append(events, NewDisposition(date, account, security, Q(shares), USD(proceeds), USD(basis)))
			continue
		}

		source, err := ParseSourceKind(mapped)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: profile maps %q to %w", i, kind, err)
		}
		// Price and FMV are both optional per vendor; missing values
		// surface later as MissingBasisDataError warnings, never as
		// silently invented bases.
		price, _ := jnumber(jtx, profile.Price)
		fmv, _ := jnumber(jtx, profile.FMV)
		a := NewAcquisition(date, account, security, source, Q(shares), USD(price), USD(fmv))
		if grantStr, err := jstring(jtx, profile.GrantDate); err == nil {
			grant, err := ParseDate(grantStr)
			if err != nil {
				return nil, fmt.Errorf("transaction %d: %w", i, err)
			}
			offering, _ := jnumber(jtx, profile.OfferingFMV)
			a = a.WithGrant(grant, USD(offering))
		}
		events = append(events, a)
	}
	return events, nil
}

// jstring extracts a string value at path from a JSON object.
func jstring(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error parsing %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of
	// 1 answer, or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("error parsing %q: not a string: %v", path, jval)
	}
	return s, nil
}

// jnumber extracts a numeric value at path from a JSON object.
func jnumber(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error parsing %q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("error parsing %q: not a number: %v", path, jval)
	}
	return val, nil
}
