package taxlot

import (
	"iter"
	"sort"
)

// Ledger is the immutable, chronologically ordered store of normalized
// acquisition and disposition events.
//
// Events are ordered by (date, account, sequence-within-day); the
// sequence is the insertion order, which makes every downstream
// tie-break deterministic. Append rejects events that would break the
// chronological order rather than silently reordering them.
type Ledger struct {
	events     []Event
	securities map[string]bool
	accounts   map[string]bool
	last       Date
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		securities: make(map[string]bool),
		accounts:   make(map[string]bool),
	}
}

// Append validates and adds events to the ledger in chronological order.
// An invalid or out-of-sequence event is rejected with a *DateOrderingError
// and nothing is appended (all-or-nothing for the call).
func (l *Ledger) Append(events ...Event) error {
	last := l.last
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return &DateOrderingError{Event: e, Last: last, Msg: err.Error()}
		}
		if e.When().Before(last) {
			return &DateOrderingError{Event: e, Last: last}
		}
		last = e.When()
	}
	for _, e := range events {
		l.events = append(l.events, e)
		l.securities[e.Security()] = true
		l.accounts[e.Account()] = true
	}
	l.last = last
	return nil
}

// NewLedgerSorted builds a ledger from events in any order, explicitly
// canonicalizing them by (date, account, original sequence). This is the
// `tlr fmt` entry point; everything else goes through Append.
func NewLedgerSorted(events []Event) (*Ledger, error) {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].When().Compare(sorted[j].When()); c != 0 {
			return c < 0
		}
		return sorted[i].Account() < sorted[j].Account()
	})
	l := NewLedger()
	if err := l.Append(sorted...); err != nil {
		return nil, err
	}
	return l, nil
}

// Len returns the number of events in the ledger.
func (l *Ledger) Len() int { return len(l.events) }

// Events returns an iterator over all events in ledger order.
func (l *Ledger) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, e := range l.events {
			if !yield(e) {
				return
			}
		}
	}
}

// Acquisitions returns an iterator over acquisition events in ledger order.
func (l *Ledger) Acquisitions() iter.Seq[Acquisition] {
	return func(yield func(Acquisition) bool) {
		for _, e := range l.events {
			if a, ok := e.(Acquisition); ok {
				if !yield(a) {
					return
				}
			}
		}
	}
}

// Dispositions returns an iterator over disposition events in ledger order.
func (l *Ledger) Dispositions() iter.Seq[Disposition] {
	return func(yield func(Disposition) bool) {
		for _, e := range l.events {
			if d, ok := e.(Disposition); ok {
				if !yield(d) {
					return
				}
			}
		}
	}
}

// Securities returns the sorted list of security identifiers seen in the ledger.
func (l *Ledger) Securities() []string {
	return sortedKeys(l.securities)
}

// Accounts returns the sorted list of account identifiers seen in the ledger.
func (l *Ledger) Accounts() []string {
	return sortedKeys(l.accounts)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
