package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestTransition(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)
	twoPM := 14 * time.Hour
	yesterday := now.Add(-24 * time.Hour)
	afterSchedule := time.Date(2026, 3, 10, 14, 30, 0, 0, loc)

	due := ScheduledCheck{Now: now, ScheduledTime: twoPM, LastChange: &yesterday}

	tests := []struct {
		name     string
		current  RoomStatus
		event    RoomEvent
		expected RoomStatus
		rejected bool
	}{
		{name: "Scheduled check moves in-use room to pending", current: RoomStatusInUse, event: due, expected: RoomStatusPendingCleaning},
		{name: "Scheduled check moves clean room to pending", current: RoomStatusClean, event: due, expected: RoomStatusPendingCleaning},
		{name: "Scheduled check with no previous change", current: RoomStatusClean, event: ScheduledCheck{Now: now, ScheduledTime: twoPM}, expected: RoomStatusPendingCleaning},
		{name: "Scheduled check ignores pending room", current: RoomStatusPendingCleaning, event: due, expected: RoomStatusPendingCleaning, rejected: true},
		{name: "Scheduled check ignores cleaning room", current: RoomStatusCleaning, event: due, expected: RoomStatusCleaning, rejected: true},
		{name: "Scheduled check ignores blocked room", current: RoomStatusBlockedIncident, event: due, expected: RoomStatusBlockedIncident, rejected: true},
		{
			name:     "Scheduled check before cleaning time",
			current:  RoomStatusClean,
			event:    ScheduledCheck{Now: now, ScheduledTime: 16 * time.Hour, LastChange: &yesterday},
			expected: RoomStatusClean,
			rejected: true,
		},
		{
			name:     "Scheduled check after a change past cleaning time",
			current:  RoomStatusClean,
			event:    ScheduledCheck{Now: now, ScheduledTime: twoPM, LastChange: &afterSchedule},
			expected: RoomStatusClean,
			rejected: true,
		},
		{name: "Cleaning from pending", current: RoomStatusPendingCleaning, event: CleaningRegistered{}, expected: RoomStatusClean},
		{name: "Cleaning from cleaning", current: RoomStatusCleaning, event: CleaningRegistered{}, expected: RoomStatusClean},
		{name: "Cleaning from in use", current: RoomStatusInUse, event: CleaningRegistered{}, expected: RoomStatusClean},
		{name: "Cleaning on clean room", current: RoomStatusClean, event: CleaningRegistered{}, expected: RoomStatusClean},
		{name: "Cleaning on blocked room", current: RoomStatusBlockedIncident, event: CleaningRegistered{}, expected: RoomStatusClean},
		{name: "Incident blocks clean room", current: RoomStatusClean, event: IncidentOpened{}, expected: RoomStatusBlockedIncident},
		{name: "Incident blocks in use room", current: RoomStatusInUse, event: IncidentOpened{}, expected: RoomStatusBlockedIncident},
		{name: "Incident on blocked room is rejected", current: RoomStatusBlockedIncident, event: IncidentOpened{}, expected: RoomStatusBlockedIncident, rejected: true},
		{name: "Resolution unblocks room", current: RoomStatusBlockedIncident, event: IncidentResolved{}, expected: RoomStatusPendingCleaning},
		{name: "Resolution on unblocked room is rejected", current: RoomStatusClean, event: IncidentResolved{}, expected: RoomStatusClean, rejected: true},
		{name: "Override to any status", current: RoomStatusBlockedIncident, event: ManualOverride{Target: RoomStatusInUse}, expected: RoomStatusInUse},
		{name: "Override to same status", current: RoomStatusClean, event: ManualOverride{Target: RoomStatusClean}, expected: RoomStatusClean},
		{name: "Override to unknown status", current: RoomStatusClean, event: ManualOverride{Target: "DIRTY"}, expected: RoomStatusClean, rejected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Transition(tt.current, tt.event)

			assert.Equal(t, tt.expected, next)
			if tt.rejected {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrTransitionRejected)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIsCleaningDue(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	t.Run("Due exactly at the scheduled time", func(t *testing.T) {
		now := time.Date(2026, 3, 10, 14, 0, 0, 0, madrid)
		assert.True(t, IsCleaningDue(now, 14*time.Hour, nil))
	})

	t.Run("Not due one minute early", func(t *testing.T) {
		now := time.Date(2026, 3, 10, 13, 59, 0, 0, madrid)
		assert.False(t, IsCleaningDue(now, 14*time.Hour, nil))
	})

	t.Run("Uses the location of now", func(t *testing.T) {
		// 13:30 UTC is 14:30 in Madrid during winter time.
		utc := time.Date(2026, 3, 10, 13, 30, 0, 0, time.UTC)
		assert.False(t, IsCleaningDue(utc, 14*time.Hour, nil))
		assert.True(t, IsCleaningDue(utc.In(madrid), 14*time.Hour, nil))
	})

	t.Run("Change earlier today is before the schedule", func(t *testing.T) {
		now := time.Date(2026, 3, 10, 15, 0, 0, 0, madrid)
		morning := time.Date(2026, 3, 10, 9, 0, 0, 0, madrid)
		assert.True(t, IsCleaningDue(now, 14*time.Hour, &morning))
	})
}

func TestRoomStatus_Parse(t *testing.T) {
	status, ok := ParseRoomStatus("pending_cleaning")
	assert.True(t, ok)
	assert.Equal(t, RoomStatusPendingCleaning, status)

	_, ok = ParseRoomStatus("DIRTY")
	assert.False(t, ok)
}

func TestRoom_PhotoFolder(t *testing.T) {
	room := &Room{Floor: "3", RoomNumber: "305"}
	assert.Equal(t, "HTL-3-305", room.PhotoFolder())
}

func TestRoom_CleaningOffset(t *testing.T) {
	_, ok := (&Room{}).CleaningOffset()
	assert.False(t, ok)

	scheduled := datatypes.NewTime(9, 45, 0, 0)
	offset, ok := (&Room{ScheduledCleaningTime: &scheduled}).CleaningOffset()
	assert.True(t, ok)
	assert.Equal(t, 9*time.Hour+45*time.Minute, offset)
}
