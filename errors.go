package taxlot

import (
	"fmt"

	"github.com/google/uuid"
)

// The error taxonomy below separates fatal ledger defects from recoverable
// anomalies. Recoverable anomalies (insufficient lot shares, unmatched
// shares, missing basis data, aggregate mismatches) are annotated on the
// affected record and surfaced in the reconciliation output; they never
// abort the run, and they are never defaulted to a value that understates
// income or overstates basis.

// DateOrderingError reports a malformed or out-of-sequence event. The event
// is rejected, not silently reordered.
type DateOrderingError struct {
	Event Event
	Last  Date
	Msg   string
}

func (e *DateOrderingError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("rejected event on %s: %s", e.Event.When(), e.Msg)
	}
	return fmt.Sprintf("rejected event on %s: before last ledger date %s", e.Event.When(), e.Last)
}

// LotInsufficientError reports a specific-identification request for more
// shares than the referenced lot has remaining. Non-fatal: the disposition
// is flagged for manual resolution and processing continues.
type LotInsufficientError struct {
	LotRef    string
	LotID     uuid.UUID
	Remaining Quantity
	Requested Quantity
}

func (e *LotInsufficientError) Error() string {
	return fmt.Sprintf("lot %q has %s shares remaining, %s requested", e.LotRef, e.Remaining, e.Requested)
}

// UnmatchedSharesError reports a disposition exceeding the total open
// shares for its security. The shortfall is recorded for human
// reconciliation rather than invented.
type UnmatchedSharesError struct {
	Security  string
	Date      Date
	Requested Quantity
	Available Quantity
}

func (e *UnmatchedSharesError) Error() string {
	return fmt.Sprintf("disposition of %s %s on %s exceeds %s open shares", e.Requested, e.Security, e.Date, e.Available)
}

// MissingBasisDataError reports an acquisition lacking the FMV or strike
// needed to compute its basis. The basis defaults to zero with a warning,
// consistent with a conservative, income-maximizing default.
type MissingBasisDataError struct {
	Security string
	Date     Date
	Field    string
}

func (e *MissingBasisDataError) Error() string {
	return fmt.Sprintf("acquisition of %s on %s is missing %s; basis defaults to zero", e.Security, e.Date, e.Field)
}

// ReconciliationMismatchError reports a failed aggregate cross-check
// (share conservation, or ordinary income vs. wage totals). It is a
// warning and does not block report generation.
type ReconciliationMismatchError struct {
	Check    string
	Security string
	Want     string
	Got      string
}

func (e *ReconciliationMismatchError) Error() string {
	if e.Security != "" {
		return fmt.Sprintf("%s mismatch for %s: computed %s, expected %s", e.Check, e.Security, e.Got, e.Want)
	}
	return fmt.Sprintf("%s mismatch: computed %s, expected %s", e.Check, e.Got, e.Want)
}
