package taxlot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeEvents decodes events from a stream of JSONL data, one event per
// line, preserving file order. The caller decides whether to require
// chronological order (DecodeLedger) or to canonicalize (NewLedgerSorted).
func DecodeEvents(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Event EventType `json:"event"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify event in %q: %w", line, string(lineBytes), err)
		}

		switch identifier.Event {
		case EvtAcquire:
			var a Acquisition
			if err := json.Unmarshal(lineBytes, &a); err != nil {
				return nil, fmt.Errorf("line %d: invalid acquisition: %w", line, err)
			}
			events = append(events, a)
		case EvtDispose:
			var d Disposition
			if err := json.Unmarshal(lineBytes, &d); err != nil {
				return nil, fmt.Errorf("line %d: invalid disposition: %w", line, err)
			}
			events = append(events, d)
		default:
			return nil, fmt.Errorf("line %d: unknown event type %q", line, identifier.Event)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ledger: %w", err)
	}
	return events, nil
}

// DecodeLedger decodes a JSONL event stream into a Ledger. The stream must
// already be in chronological order; an out-of-sequence event is rejected
// with a *DateOrderingError (run `tlr fmt` to canonicalize a file).
func DecodeLedger(r io.Reader) (*Ledger, error) {
	events, err := DecodeEvents(r)
	if err != nil {
		return nil, err
	}
	l := NewLedger()
	if err := l.Append(events...); err != nil {
		return nil, err
	}
	return l, nil
}

// EncodeEvent appends a single event to w as one JSONL line.
func EncodeEvent(w io.Writer, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("could not encode event on %s: %w", e.When(), err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// EncodeLedger writes the ledger to w in canonical JSONL form, one event
// per line, with a stable field order so that re-encoding is a no-op.
func EncodeLedger(w io.Writer, l *Ledger) error {
	bw := bufio.NewWriter(w)
	for e := range l.Events() {
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("could not encode event on %s: %w", e.When(), err)
		}
		if _, err := bw.Write(b); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
