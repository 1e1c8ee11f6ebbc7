package billing

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSequenceBucket(t *testing.T) {
	tests := []struct {
		name      string
		docType   DocumentType
		issueDate time.Time
		want      string
	}{
		{"invoice august 2025", DocumentTypeInvoice, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), "invoice-2508"},
		{"proposal january", DocumentTypeProposal, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), "proposal-2501"},
		{"single digit month zero padded", DocumentTypeInvoice, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "invoice-2603"},
		{"december", DocumentTypeInvoice, time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), "invoice-2512"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SequenceBucket(tt.docType, tt.issueDate))
		})
	}
}

func TestFormatDocumentNumber(t *testing.T) {
	august := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		docType DocumentType
		seq     int64
		want    string
	}{
		{"first invoice", DocumentTypeInvoice, 1, "INV-2508-001"},
		{"zero padding", DocumentTypeInvoice, 42, "INV-2508-042"},
		{"proposal prefix", DocumentTypeProposal, 7, "PROP-2508-007"},
		{"no rollover past 999", DocumentTypeInvoice, 1234, "INV-2508-1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDocumentNumber(tt.docType, august, tt.seq))
		})
	}
}

var emergencyNumberPattern = regexp.MustCompile(`^(INV|PROP)-EMERGENCY-\d{13}-\d{6}-[0-9A-Z]{8}$`)

func TestEmergencyDocumentNumber(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 30, 45, 123456789, time.UTC)

	t.Run("matches the fallback pattern", func(t *testing.T) {
		number := EmergencyDocumentNumber(DocumentTypeInvoice, now)
		assert.Regexp(t, emergencyNumberPattern, number)
		assert.True(t, IsEmergencyNumber(number))
	})

	t.Run("proposal prefix", func(t *testing.T) {
		number := EmergencyDocumentNumber(DocumentTypeProposal, now)
		assert.Regexp(t, emergencyNumberPattern, number)
	})

	t.Run("successive calls differ", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 100; i++ {
			seen[EmergencyDocumentNumber(DocumentTypeInvoice, now)] = struct{}{}
		}
		assert.Len(t, seen, 100)
	})
}

func TestIsEmergencyNumber(t *testing.T) {
	assert.False(t, IsEmergencyNumber("INV-2508-001"))
	assert.False(t, IsEmergencyNumber(""))
	assert.True(t, IsEmergencyNumber("INV-EMERGENCY-1755261045123-123456-A1B2C3D4"))
}

func TestDocumentType(t *testing.T) {
	assert.True(t, DocumentTypeInvoice.IsValid())
	assert.True(t, DocumentTypeProposal.IsValid())
	assert.False(t, DocumentType("receipt").IsValid())

	assert.Equal(t, "INV", DocumentTypeInvoice.Prefix())
	assert.Equal(t, "PROP", DocumentTypeProposal.Prefix())
}
