package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is the client billing address attached to invoices and
// proposals. It is immutable once constructed and stores as a jsonb
// column through Value and Scan.
type Address struct {
	street  string
	city    string
	state   string
	zipCode string
	country string
}

// NewAddress validates and constructs an address. Street and city are
// required; the remaining fields may be blank.
func NewAddress(street, city, state, zipCode, country string) (Address, error) {
	addr := Address{
		street:  strings.TrimSpace(street),
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
		zipCode: strings.TrimSpace(zipCode),
		country: strings.TrimSpace(country),
	}

	if addr.street == "" {
		return Address{}, fmt.Errorf("street cannot be empty")
	}
	if len(addr.street) > 500 {
		return Address{}, fmt.Errorf("street cannot exceed 500 characters")
	}
	if addr.city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(addr.city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if len(addr.state) > 100 {
		return Address{}, fmt.Errorf("state cannot exceed 100 characters")
	}
	if len(addr.zipCode) > 20 {
		return Address{}, fmt.Errorf("zip code cannot exceed 20 characters")
	}
	if len(addr.country) > 100 {
		return Address{}, fmt.Errorf("country cannot exceed 100 characters")
	}

	return addr, nil
}

// MustNewAddress is NewAddress for fixtures and tests; it panics on error.
func MustNewAddress(street, city, state, zipCode, country string) Address {
	addr, err := NewAddress(street, city, state, zipCode, country)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress is the zero value used for optional address columns.
func EmptyAddress() Address {
	return Address{}
}

func (a Address) Street() string  { return a.street }
func (a Address) City() string    { return a.city }
func (a Address) State() string   { return a.state }
func (a Address) ZipCode() string { return a.zipCode }
func (a Address) Country() string { return a.country }

// IsEmpty reports whether every field is blank.
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// FullAddress renders the address on one line as
// "Street, City, State ZipCode, Country", skipping blank parts.
func (a Address) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, 4)
	if a.street != "" {
		parts = append(parts, a.street)
	}
	if a.city != "" {
		parts = append(parts, a.city)
	}
	if region := strings.TrimSpace(a.state + " " + a.zipCode); region != "" {
		parts = append(parts, region)
	}
	if a.country != "" {
		parts = append(parts, a.country)
	}
	return strings.Join(parts, ", ")
}

func (a Address) String() string {
	return a.FullAddress()
}

// Equals reports field-by-field equality.
func (a Address) Equals(other Address) bool {
	return a == other
}

type addressJSON struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:  a.street,
		City:    a.city,
		State:   a.state,
		ZipCode: a.zipCode,
		Country: a.country,
	})
}

// UnmarshalJSON validates through NewAddress. An all-blank object decodes
// to the empty address so optional columns round-trip cleanly.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	if v == (addressJSON{}) {
		*a = EmptyAddress()
		return nil
	}

	addr, err := NewAddress(v.Street, v.City, v.State, v.ZipCode, v.Country)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value stores the address as JSON; empty addresses store as NULL.
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan reads the address back from a jsonb column.
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}

	return json.Unmarshal(data, a)
}
