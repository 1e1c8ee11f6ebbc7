package persistence

import "strings"

// sortColumns is a whitelist of column names a caller may sort by. Sort
// input comes straight from query parameters, so anything outside the
// whitelist is replaced rather than interpolated into SQL.
type sortColumns map[string]bool

// OrderClause builds a safe "column DIRECTION" ORDER BY fragment. Unknown
// columns fall back to the given default and any direction other than an
// explicit ascending one becomes DESC.
func (s sortColumns) OrderClause(field, direction, defaultField string) string {
	column := defaultField
	if trimmed := strings.TrimSpace(field); s[trimmed] {
		column = trimmed
	}

	dir := "DESC"
	if strings.EqualFold(strings.TrimSpace(direction), "ASC") {
		dir = "ASC"
	}
	return column + " " + dir
}

// invoiceSortColumns lists the invoice columns exposed for sorting.
var invoiceSortColumns = sortColumns{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"client_name":    true,
	"status":         true,
	"issue_date":     true,
	"due_date":       true,
	"subtotal":       true,
	"total":          true,
	"amount_due":     true,
	"paid_date":      true,
}

// proposalSortColumns lists the proposal columns exposed for sorting.
var proposalSortColumns = sortColumns{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"proposal_number": true,
	"client_name":     true,
	"status":          true,
	"issue_date":      true,
	"valid_until":     true,
	"subtotal":        true,
	"total":           true,
	"decided_at":      true,
}
