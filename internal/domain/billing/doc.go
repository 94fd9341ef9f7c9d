// Package billing contains the domain model for recurring waste
// collection fee billing: customers and their tariff assignments,
// per-month tariff overrides and preserved history, activation status
// timelines, immutable payment records with per-month price snapshots,
// and the installment ledger for partially covered months.
package billing
