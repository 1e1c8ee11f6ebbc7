package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReminderChannel represents the delivery channel for a payment reminder
type ReminderChannel string

const (
	ReminderChannelEmail ReminderChannel = "email"
	ReminderChannelSMS   ReminderChannel = "sms"
)

// IsValid checks if the channel is a valid ReminderChannel
func (c ReminderChannel) IsValid() bool {
	return c == ReminderChannelEmail || c == ReminderChannelSMS
}

// ReminderDeliveryStatus represents the delivery outcome of a dispatched reminder
type ReminderDeliveryStatus string

const (
	ReminderDeliverySent   ReminderDeliveryStatus = "sent"
	ReminderDeliveryFailed ReminderDeliveryStatus = "failed"
)

// ReminderRule is one entry in a reminder schedule. Exactly one of
// DaysBeforeDue or DaysAfterDue is set.
type ReminderRule struct {
	DaysBeforeDue *int            `json:"days_before_due,omitempty"`
	DaysAfterDue  *int            `json:"days_after_due,omitempty"`
	Channel       ReminderChannel `json:"channel"`
}

// Validate checks the rule has exactly one positive offset and a valid channel
func (r ReminderRule) Validate() *shared.DomainError {
	if r.DaysBeforeDue == nil && r.DaysAfterDue == nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Reminder rule must set days before or after due")
	}
	if r.DaysBeforeDue != nil && r.DaysAfterDue != nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Reminder rule cannot set both days before and after due")
	}
	if r.DaysBeforeDue != nil && *r.DaysBeforeDue <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Days before due must be positive")
	}
	if r.DaysAfterDue != nil && *r.DaysAfterDue <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Days after due must be positive")
	}
	if !r.Channel.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Reminder channel must be email or sms")
	}
	return nil
}

// MatchesAt reports whether the rule's window covers the offset
// between now and the due date. Bounds are inclusive: a days-before
// rule matches while 0 < daysUntilDue <= N, a days-after rule while
// 0 < daysPastDue <= N.
func (r ReminderRule) MatchesAt(dueDate, now time.Time) bool {
	if r.DaysBeforeDue != nil {
		daysUntil := DaysUntilDue(dueDate, now)
		return daysUntil > 0 && daysUntil <= *r.DaysBeforeDue
	}
	if r.DaysAfterDue != nil {
		daysPast := DaysPastDue(dueDate, now)
		return daysPast > 0 && daysPast <= *r.DaysAfterDue
	}
	return false
}

// ReminderSchedule is an ordered list of reminder rules. Order matters:
// the first rule whose window covers the current offset from the due
// date wins, even when a later rule is a closer match.
type ReminderSchedule []ReminderRule

// Validate checks every rule in the schedule
func (s ReminderSchedule) Validate() *shared.DomainError {
	for _, rule := range s {
		if err := rule.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (s ReminderSchedule) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (s *ReminderSchedule) Scan(value interface{}) error {
	if value == nil {
		*s = ReminderSchedule{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ReminderSchedule: unsupported type")
	}

	if len(bytes) == 0 {
		*s = ReminderSchedule{}
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// ReminderRecord is one entry in the append-only reminder dispatch history
type ReminderRecord struct {
	ID             uuid.UUID              `json:"id"`
	SentDate       time.Time              `json:"sent_date"`
	Channel        ReminderChannel        `json:"channel"`
	Recipients     []string               `json:"recipients"`
	Message        string                 `json:"message,omitempty"`
	DeliveryStatus ReminderDeliveryStatus `json:"delivery_status"`
}

// ReminderRecords is a slice of ReminderRecord that implements GORM Scanner/Valuer for JSONB storage
type ReminderRecords []ReminderRecord

// Value implements driver.Valuer interface for GORM to store as JSONB
func (r ReminderRecords) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (r *ReminderRecords) Scan(value interface{}) error {
	if value == nil {
		*r = ReminderRecords{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ReminderRecords: unsupported type")
	}

	if len(bytes) == 0 {
		*r = ReminderRecords{}
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// ReminderSettings holds the reminder configuration and derived state
// embedded in an invoice. NextReminderDate is always derived from the
// schedule and the current due date; it is recomputed whenever either
// changes and after each dispatch.
type ReminderSettings struct {
	Enabled          bool             `json:"enabled"`
	Schedule         ReminderSchedule `json:"schedule"`
	LastReminderDate *time.Time       `json:"last_reminder_date,omitempty"`
	NextReminderDate *time.Time       `json:"next_reminder_date,omitempty"`
}

const dayDuration = 24 * time.Hour

// DaysUntilDue returns the number of whole days remaining before the
// due date, rounded up. A due date later today returns 1; a due date
// in the past returns zero or a negative value.
func DaysUntilDue(dueDate, now time.Time) int {
	diff := dueDate.Sub(now)
	days := diff / dayDuration
	if diff%dayDuration > 0 {
		days++
	}
	return int(days)
}

// DaysPastDue returns the number of whole days elapsed since the due
// date, rounded down. Zero until a full day has passed.
func DaysPastDue(dueDate, now time.Time) int {
	diff := now.Sub(dueDate)
	if diff < 0 {
		return 0
	}
	return int(diff / dayDuration)
}

// ComputeNextReminder resolves the next reminder trigger time for the
// given schedule and due date, or nil when no rule's window covers the
// current offset. Matching is first-match-wins over the ordered
// schedule with inclusive bounds: a days-before rule matches while
// 0 < daysUntilDue <= N, a days-after rule while 0 < daysPastDue <= N.
func ComputeNextReminder(schedule ReminderSchedule, dueDate time.Time, now time.Time) *time.Time {
	if len(schedule) == 0 {
		return nil
	}

	for _, rule := range schedule {
		if !rule.MatchesAt(dueDate, now) {
			continue
		}
		var next time.Time
		if rule.DaysBeforeDue != nil {
			next = dueDate.Add(-time.Duration(*rule.DaysBeforeDue) * dayDuration)
		} else {
			next = dueDate.Add(time.Duration(*rule.DaysAfterDue) * dayDuration)
		}
		return &next
	}

	return nil
}
