package valueobject

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	tests := []struct {
		name    string
		street  string
		city    string
		state   string
		zipCode string
		country string
		errMsg  string
	}{
		{
			name:   "street and city only",
			street: "1 Main St",
			city:   "Springfield",
		},
		{
			name:    "all fields",
			street:  "350 Fifth Ave",
			city:    "New York",
			state:   "NY",
			zipCode: "10118",
			country: "USA",
		},
		{
			name:    "international",
			street:  "10 Downing Street",
			city:    "London",
			zipCode: "SW1A 2AA",
			country: "United Kingdom",
		},
		{
			name:   "missing street",
			city:   "Springfield",
			errMsg: "street cannot be empty",
		},
		{
			name:   "missing city",
			street: "1 Main St",
			errMsg: "city cannot be empty",
		},
		{
			name:   "street too long",
			street: strings.Repeat("a", 501),
			city:   "Springfield",
			errMsg: "street cannot exceed 500 characters",
		},
		{
			name:   "city too long",
			street: "1 Main St",
			city:   strings.Repeat("a", 101),
			errMsg: "city cannot exceed 100 characters",
		},
		{
			name:   "state too long",
			street: "1 Main St",
			city:   "Springfield",
			state:  strings.Repeat("a", 101),
			errMsg: "state cannot exceed 100 characters",
		},
		{
			name:    "zip code too long",
			street:  "1 Main St",
			city:    "Springfield",
			zipCode: strings.Repeat("1", 21),
			errMsg:  "zip code cannot exceed 20 characters",
		},
		{
			name:    "country too long",
			street:  "1 Main St",
			city:    "Springfield",
			country: strings.Repeat("a", 101),
			errMsg:  "country cannot exceed 100 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := NewAddress(tt.street, tt.city, tt.state, tt.zipCode, tt.country)
			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.street, addr.Street())
			assert.Equal(t, tt.city, addr.City())
			assert.Equal(t, tt.state, addr.State())
			assert.Equal(t, tt.zipCode, addr.ZipCode())
			assert.Equal(t, tt.country, addr.Country())
		})
	}
}

func TestNewAddress_TrimsWhitespace(t *testing.T) {
	addr, err := NewAddress("  1 Main St  ", " Springfield ", " IL ", " 62701 ", "")
	require.NoError(t, err)

	assert.Equal(t, "1 Main St", addr.Street())
	assert.Equal(t, "Springfield", addr.City())
	assert.Equal(t, "IL", addr.State())
	assert.Equal(t, "62701", addr.ZipCode())
}

func TestMustNewAddress_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		MustNewAddress("", "Springfield", "", "", "")
	})
}

func TestAddressIsEmpty(t *testing.T) {
	assert.True(t, EmptyAddress().IsEmpty())
	assert.False(t, MustNewAddress("1 Main St", "Springfield", "", "", "").IsEmpty())
}

func TestFullAddress(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want string
	}{
		{
			name: "all fields",
			addr: MustNewAddress("1 Main St", "Springfield", "IL", "62701", "USA"),
			want: "1 Main St, Springfield, IL 62701, USA",
		},
		{
			name: "no state",
			addr: MustNewAddress("10 Downing Street", "London", "", "SW1A 2AA", "United Kingdom"),
			want: "10 Downing Street, London, SW1A 2AA, United Kingdom",
		},
		{
			name: "minimal",
			addr: MustNewAddress("1 Main St", "Springfield", "", "", ""),
			want: "1 Main St, Springfield",
		},
		{
			name: "empty",
			addr: EmptyAddress(),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.FullAddress())
			assert.Equal(t, tt.want, tt.addr.String())
		})
	}
}

func TestAddressEquals(t *testing.T) {
	a1 := MustNewAddress("1 Main St", "Springfield", "IL", "62701", "")
	a2 := MustNewAddress("1 Main St", "Springfield", "IL", "62701", "")
	a3 := MustNewAddress("2 Main St", "Springfield", "IL", "62701", "")

	assert.True(t, a1.Equals(a2))
	assert.False(t, a1.Equals(a3))
	assert.False(t, a1.Equals(EmptyAddress()))
}

func TestAddressJSONRoundTrip(t *testing.T) {
	original := MustNewAddress("1 Main St", "Springfield", "IL", "62701", "USA")

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, `{"street":"1 Main St","city":"Springfield","state":"IL","zipCode":"62701","country":"USA"}`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equals(decoded))
}

func TestAddressUnmarshalJSON(t *testing.T) {
	t.Run("empty object yields empty address", func(t *testing.T) {
		var addr Address
		require.NoError(t, json.Unmarshal([]byte(`{}`), &addr))
		assert.True(t, addr.IsEmpty())
	})

	t.Run("invalid payload is rejected", func(t *testing.T) {
		var addr Address
		assert.Error(t, json.Unmarshal([]byte(`{"city":"Springfield"}`), &addr))
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		var addr Address
		assert.Error(t, json.Unmarshal([]byte(`not json`), &addr))
	})
}

func TestAddressScanValue(t *testing.T) {
	t.Run("value and scan round trip", func(t *testing.T) {
		original := MustNewAddress("1 Main St", "Springfield", "IL", "", "")
		v, err := original.Value()
		require.NoError(t, err)

		var scanned Address
		require.NoError(t, scanned.Scan(v))
		assert.True(t, original.Equals(scanned))
	})

	t.Run("scan string payload", func(t *testing.T) {
		var scanned Address
		require.NoError(t, scanned.Scan(`{"street":"1 Main St","city":"Springfield"}`))
		assert.Equal(t, "Springfield", scanned.City())
	})

	t.Run("empty address stores NULL", func(t *testing.T) {
		v, err := EmptyAddress().Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("scan nil yields empty address", func(t *testing.T) {
		var scanned Address
		require.NoError(t, scanned.Scan(nil))
		assert.True(t, scanned.IsEmpty())
	})

	t.Run("scan SQL null literal yields empty address", func(t *testing.T) {
		var scanned Address
		require.NoError(t, scanned.Scan([]byte("null")))
		assert.True(t, scanned.IsEmpty())
	})

	t.Run("scan unsupported type fails", func(t *testing.T) {
		var scanned Address
		assert.Error(t, scanned.Scan(42))
	})
}
