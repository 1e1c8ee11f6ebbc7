// Package models holds the GORM table mappings for the billing schema:
// invoices, proposals, sequence counters, and reminder rules. Domain
// entities stay free of ORM tags; the repositories translate between the
// two through the mapper functions next to each model.
package models
