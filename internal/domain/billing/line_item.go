package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineItem represents one billable row on an invoice or proposal.
// Amount is always derived as quantity * rate by CalculateTotals and is
// never trusted as caller input.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewLineItem creates a line item with its amount derived from quantity and rate
func NewLineItem(description string, quantity, rate decimal.Decimal) (LineItem, error) {
	item := LineItem{
		Description: description,
		Quantity:    quantity,
		Rate:        rate,
		Amount:      quantity.Mul(rate),
	}
	if err := item.Validate(); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

// Validate checks the line item fields are well formed
func (li LineItem) Validate() *shared.DomainError {
	if li.Description == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Line item description cannot be empty")
	}
	if len(li.Description) > 500 {
		return shared.NewDomainError("VALIDATION_ERROR", "Line item description cannot exceed 500 characters")
	}
	if li.Quantity.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Line item quantity cannot be negative: %s", li.Quantity))
	}
	if li.Rate.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Line item rate cannot be negative: %s", li.Rate))
	}
	return nil
}

// LineItems is a slice of LineItem that implements GORM Scanner/Valuer for JSONB storage
type LineItems []LineItem

// Validate checks every line item in the slice
func (items LineItems) Validate() *shared.DomainError {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return shared.NewDomainError(err.Code, fmt.Sprintf("Line item %d: %s", i+1, err.Message))
		}
	}
	return nil
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (items LineItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	return json.Marshal(items)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (items *LineItems) Scan(value interface{}) error {
	if value == nil {
		*items = LineItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan LineItems: unsupported type")
	}

	if len(bytes) == 0 {
		*items = LineItems{}
		return nil
	}

	return json.Unmarshal(bytes, items)
}
