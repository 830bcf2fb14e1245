package scheduler

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/smilesync/booking-api/internal/model"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 9, 14, hour, minute, 0, 0, time.UTC)
}

func appointmentAt(start, end time.Time, status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		expected bool
	}{
		{"identical intervals", at(10, 0), at(10, 30), at(10, 0), at(10, 30), true},
		{"partial overlap", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"contained interval", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"back to back, a first", at(10, 0), at(10, 30), at(10, 30), at(11, 0), false},
		{"back to back, b first", at(10, 30), at(11, 0), at(10, 0), at(10, 30), false},
		{"disjoint", at(8, 0), at(9, 0), at(14, 0), at(15, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestFindConflictSkipsInactiveStatuses(t *testing.T) {
	existing := []*model.Appointment{
		appointmentAt(at(10, 0), at(10, 30), model.AppointmentStatusCancelled),
		appointmentAt(at(10, 0), at(10, 30), model.AppointmentStatusCompleted),
		appointmentAt(at(10, 0), at(10, 30), model.AppointmentStatusNoShow),
	}

	assert.Nil(t, FindConflict(existing, at(10, 0), at(10, 30), uuid.Nil))
}

func TestFindConflictBlocksActiveStatuses(t *testing.T) {
	scheduled := appointmentAt(at(10, 0), at(10, 30), model.AppointmentStatusScheduled)
	confirmed := appointmentAt(at(11, 0), at(11, 30), model.AppointmentStatusConfirmed)

	existing := []*model.Appointment{scheduled, confirmed}

	assert.Equal(t, scheduled, FindConflict(existing, at(10, 15), at(10, 45), uuid.Nil))
	assert.Equal(t, confirmed, FindConflict(existing, at(11, 0), at(11, 30), uuid.Nil))
}

func TestFindConflictExcludesMovedAppointment(t *testing.T) {
	moved := appointmentAt(at(10, 0), at(10, 30), model.AppointmentStatusScheduled)

	// Moving within its own interval must not conflict with itself.
	assert.Nil(t, FindConflict([]*model.Appointment{moved}, at(10, 0), at(10, 30), moved.ID))

	other := appointmentAt(at(10, 0), at(10, 30), model.AppointmentStatusScheduled)
	assert.Equal(t, other, FindConflict([]*model.Appointment{moved, other}, at(10, 0), at(10, 30), moved.ID))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    model.AppointmentStatus
		to      model.AppointmentStatus
		allowed bool
	}{
		{model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed, true},
		{model.AppointmentStatusScheduled, model.AppointmentStatusCancelled, true},
		{model.AppointmentStatusScheduled, model.AppointmentStatusCompleted, true},
		{model.AppointmentStatusScheduled, model.AppointmentStatusNoShow, true},
		{model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled, true},
		{model.AppointmentStatusConfirmed, model.AppointmentStatusCompleted, true},
		{model.AppointmentStatusConfirmed, model.AppointmentStatusScheduled, false},
		{model.AppointmentStatusCancelled, model.AppointmentStatusScheduled, false},
		{model.AppointmentStatusCompleted, model.AppointmentStatusConfirmed, false},
		{model.AppointmentStatusNoShow, model.AppointmentStatusScheduled, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	// Idempotent same-status updates are always allowed.
	assert.True(t, CanTransition(model.AppointmentStatusCancelled, model.AppointmentStatusCancelled))
}
