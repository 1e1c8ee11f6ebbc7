package shared

// Filter carries the pagination, ordering and search options common to
// every list query. Domain-specific filters embed it and add their own
// fields.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}
