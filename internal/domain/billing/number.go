package billing

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// DocumentType identifies the kind of numbered billing document
type DocumentType string

const (
	DocumentTypeInvoice  DocumentType = "invoice"
	DocumentTypeProposal DocumentType = "proposal"
)

// IsValid checks if the document type is valid
func (t DocumentType) IsValid() bool {
	return t == DocumentTypeInvoice || t == DocumentTypeProposal
}

// Prefix returns the human-readable number prefix for the document type
func (t DocumentType) Prefix() string {
	switch t {
	case DocumentTypeProposal:
		return "PROP"
	default:
		return "INV"
	}
}

// SequenceBucket builds the numbering namespace for a document type and
// issue period, e.g. "invoice-2508" for an invoice issued August 2025.
// Sequences restart at 1 in each new period because each period is a
// distinct bucket.
func SequenceBucket(docType DocumentType, issueDate time.Time) string {
	return fmt.Sprintf("%s-%02d%02d", docType, issueDate.Year()%100, int(issueDate.Month()))
}

// FormatDocumentNumber renders the human-readable number for a sequence
// value, e.g. "INV-2508-001". The sequence is zero-padded to 3 digits
// and grows unbounded past 999 with no rollover.
func FormatDocumentNumber(docType DocumentType, issueDate time.Time, seq int64) string {
	return fmt.Sprintf("%s-%02d%02d-%03d", docType.Prefix(), issueDate.Year()%100, int(issueDate.Month()), seq)
}

const base36Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randomBase36(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(base36Chars[rand.Intn(len(base36Chars))])
	}
	return sb.String()
}

// EmergencyDocumentNumber builds a fallback number used when the
// sequence store is unreachable. It is intentionally ugly and
// non-sequential so downstream readers can tell degraded numbering
// from normal operation: millisecond timestamp, microsecond tail, and
// an 8-char uppercase base36 suffix make collisions vanishingly
// unlikely without any store coordination.
func EmergencyDocumentNumber(docType DocumentType, now time.Time) string {
	return fmt.Sprintf("%s-EMERGENCY-%d-%06d-%s",
		docType.Prefix(),
		now.UnixMilli(),
		now.UnixMicro()%1_000_000,
		randomBase36(8),
	)
}

// IsEmergencyNumber reports whether a document number came from the
// fallback path
func IsEmergencyNumber(number string) bool {
	return strings.Contains(number, "-EMERGENCY-")
}
