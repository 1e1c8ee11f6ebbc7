// Package billing provides domain models for invoicing in a multi-tenant SaaS application.
//
// This package implements the billing bounded context, which is responsible for:
//   - Issuing sequential, tenant-scoped document numbers for invoices and proposals
//   - Computing financial totals (subtotal, tax, discount, paid, due) from line items
//   - Enforcing document lifecycle transitions (draft, sent, viewed, paid, overdue, cancelled)
//   - Scheduling payment reminders relative to invoice due dates
//
// Key Aggregates:
//   - Invoice: A billable document with line items, lifecycle state, and reminder schedule
//   - Proposal: A quote that can be accepted, rejected, or converted into an invoice
//   - SequenceCounter: A monotonic per-tenant counter bucketed by document type and month
//
// Value Objects:
//   - Financials: Derived monetary totals, recomputed on every mutation
//   - LineItem: A quantity and rate pair with a description
//   - ReminderSchedule: Ordered offset rules selecting the next reminder date
package billing
