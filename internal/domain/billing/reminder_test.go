package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int {
	return &n
}

func beforeRule(days int) ReminderRule {
	return ReminderRule{DaysBeforeDue: intPtr(days), Channel: ReminderChannelEmail}
}

func afterRule(days int) ReminderRule {
	return ReminderRule{DaysAfterDue: intPtr(days), Channel: ReminderChannelEmail}
}

func TestReminderRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rule    ReminderRule
		wantErr bool
	}{
		{"valid before rule", beforeRule(7), false},
		{"valid after rule", afterRule(3), false},
		{"valid sms channel", ReminderRule{DaysAfterDue: intPtr(3), Channel: ReminderChannelSMS}, false},
		{"no offset", ReminderRule{Channel: ReminderChannelEmail}, true},
		{"both offsets", ReminderRule{DaysBeforeDue: intPtr(7), DaysAfterDue: intPtr(3), Channel: ReminderChannelEmail}, true},
		{"zero before offset", ReminderRule{DaysBeforeDue: intPtr(0), Channel: ReminderChannelEmail}, true},
		{"negative after offset", ReminderRule{DaysAfterDue: intPtr(-1), Channel: ReminderChannelEmail}, true},
		{"invalid channel", ReminderRule{DaysBeforeDue: intPtr(7), Channel: "carrier-pigeon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				assert.NotNil(t, err)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestDaysUntilDue(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dueDate time.Time
		want    int
	}{
		{"exactly 7 days out", now.Add(7 * 24 * time.Hour), 7},
		{"partial day rounds up", now.Add(6*24*time.Hour + time.Hour), 7},
		{"later today", now.Add(time.Hour), 1},
		{"due right now", now, 0},
		{"an hour past due", now.Add(-time.Hour), 0},
		{"a full day past due", now.Add(-24 * time.Hour), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilDue(tt.dueDate, now))
		})
	}
}

func TestDaysPastDue(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dueDate time.Time
		want    int
	}{
		{"not yet due", now.Add(24 * time.Hour), 0},
		{"an hour past due", now.Add(-time.Hour), 0},
		{"one day past due", now.Add(-24 * time.Hour), 1},
		{"three and a half days past due", now.Add(-84 * time.Hour), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysPastDue(tt.dueDate, now))
		})
	}
}

func TestComputeNextReminder(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

	t.Run("boundary: due in exactly N days resolves to now", func(t *testing.T) {
		dueDate := now.Add(7 * 24 * time.Hour)
		next := ComputeNextReminder(ReminderSchedule{beforeRule(7)}, dueDate, now)
		require.NotNil(t, next)
		assert.True(t, next.Equal(now), "next = %s", next)
	})

	t.Run("inside the window resolves to dueDate minus N days", func(t *testing.T) {
		dueDate := now.Add(3 * 24 * time.Hour)
		next := ComputeNextReminder(ReminderSchedule{beforeRule(7)}, dueDate, now)
		require.NotNil(t, next)
		assert.True(t, next.Equal(dueDate.Add(-7*24*time.Hour)))
	})

	t.Run("outside the window yields nothing", func(t *testing.T) {
		dueDate := now.Add(30 * 24 * time.Hour)
		next := ComputeNextReminder(ReminderSchedule{beforeRule(7)}, dueDate, now)
		assert.Nil(t, next)
	})

	t.Run("first match wins over a closer later rule", func(t *testing.T) {
		dueDate := now.Add(2 * 24 * time.Hour)
		schedule := ReminderSchedule{beforeRule(7), beforeRule(2)}
		next := ComputeNextReminder(schedule, dueDate, now)
		require.NotNil(t, next)
		// The 7-day rule is listed first and matches, even though the
		// 2-day rule is the closer fit.
		assert.True(t, next.Equal(dueDate.Add(-7*24*time.Hour)))
	})

	t.Run("after-due rule matches past due date", func(t *testing.T) {
		dueDate := now.Add(-2 * 24 * time.Hour)
		next := ComputeNextReminder(ReminderSchedule{beforeRule(7), afterRule(3)}, dueDate, now)
		require.NotNil(t, next)
		assert.True(t, next.Equal(dueDate.Add(3*24*time.Hour)))
	})

	t.Run("after-due rule does not fire before due", func(t *testing.T) {
		dueDate := now.Add(24 * time.Hour)
		next := ComputeNextReminder(ReminderSchedule{afterRule(3)}, dueDate, now)
		assert.Nil(t, next)
	})

	t.Run("after-due window closes once N days passed", func(t *testing.T) {
		dueDate := now.Add(-10 * 24 * time.Hour)
		next := ComputeNextReminder(ReminderSchedule{afterRule(3)}, dueDate, now)
		assert.Nil(t, next)
	})

	t.Run("empty schedule yields nothing", func(t *testing.T) {
		next := ComputeNextReminder(ReminderSchedule{}, now.Add(24*time.Hour), now)
		assert.Nil(t, next)
	})
}

func TestReminderScheduleScanValue(t *testing.T) {
	schedule := ReminderSchedule{beforeRule(7), afterRule(3)}
	v, err := schedule.Value()
	require.NoError(t, err)

	var scanned ReminderSchedule
	require.NoError(t, scanned.Scan(v))
	require.Len(t, scanned, 2)
	require.NotNil(t, scanned[0].DaysBeforeDue)
	assert.Equal(t, 7, *scanned[0].DaysBeforeDue)
	require.NotNil(t, scanned[1].DaysAfterDue)
	assert.Equal(t, 3, *scanned[1].DaysAfterDue)
}

func TestReminderRecordsScanValue(t *testing.T) {
	t.Run("nil slice stores empty array", func(t *testing.T) {
		var records ReminderRecords
		v, err := records.Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", v)
	})

	t.Run("scan nil yields empty slice", func(t *testing.T) {
		var scanned ReminderRecords
		require.NoError(t, scanned.Scan(nil))
		assert.Empty(t, scanned)
	})
}
