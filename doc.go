// Package taxlot reconstructs the tax treatment of equity-compensation
// share sales from a ledger of acquisition and disposition events. It is
// designed to be local-first, auditable to the penny, and deterministic:
// re-running on an unchanged ledger always reproduces the same lot states,
// consumption assignments, and adjustment amounts.
//
// The core functionalities include:
//   - Event Ledger: an immutable, chronologically ordered record of
//     normalized acquisitions (vesting, option exercises, purchase-plan
//     purchases, cash purchases) and dispositions, persisted as JSONL.
//   - Lot Register: derives tax lots from acquisition events and tracks
//     their remaining shares; closed lots are kept for the audit trail.
//   - Matching: assigns each sale to specific lots (FIFO or specific
//     identification), splitting lots under partial consumption.
//   - Basis Correction: computes the legally correct cost basis for each
//     lot source kind, independent of whatever the broker reported.
//   - AMT Tracking: maintains the parallel regular/AMT basis and
//     preference items for incentive-option lots.
//   - Wash Sales: a global second pass that disallows losses with
//     substantially identical replacement purchases within 30 days,
//     across every account.
//   - Reconciliation: a per-sale diff against broker-reported figures
//     with adjustment codes, plus aggregate cross-checks.
//
// This package serves as the foundational logic for the `tlr` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package taxlot
