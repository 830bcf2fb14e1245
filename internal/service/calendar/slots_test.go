package calendar

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilesync/booking-api/internal/model"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 9, 14, hour, minute, 0, 0, time.UTC)
}

func TestSlots(t *testing.T) {
	slots := Slots()

	require.Len(t, slots, 24)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "08:30", slots[1])
	assert.Equal(t, "19:30", slots[len(slots)-1])

	// Labels are strictly ascending with no duplicates.
	for i := 1; i < len(slots); i++ {
		assert.Less(t, slots[i-1], slots[i])
	}
}

func TestSlotStartKeepsLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	date := time.Date(2026, 9, 14, 0, 0, 0, 0, loc)
	start := SlotStart(date, 9, 30)

	assert.Equal(t, 9, start.Hour())
	assert.Equal(t, 30, start.Minute())
	assert.Equal(t, loc, start.Location())
}

func TestIsSlotAvailable(t *testing.T) {
	dentistID := uuid.New()
	otherDentist := uuid.New()

	appointment := func(start, end time.Time, dentist uuid.UUID, status model.AppointmentStatus) *model.Appointment {
		return &model.Appointment{
			Base:      model.Base{ID: uuid.New()},
			DentistID: dentist,
			StartTime: start,
			EndTime:   end,
			Status:    status,
		}
	}

	t.Run("empty schedule", func(t *testing.T) {
		assert.True(t, IsSlotAvailable(nil, dentistID, at(10, 0)))
	})

	t.Run("occupied slot", func(t *testing.T) {
		active := []*model.Appointment{
			appointment(at(10, 0), at(10, 30), dentistID, model.AppointmentStatusScheduled),
		}
		assert.False(t, IsSlotAvailable(active, dentistID, at(10, 0)))
		assert.True(t, IsSlotAvailable(active, dentistID, at(10, 30)))
	})

	t.Run("long appointment blocks every slot it covers", func(t *testing.T) {
		// 10:00-10:45 spills into the 10:30 slot without starting there.
		active := []*model.Appointment{
			appointment(at(10, 0), at(10, 45), dentistID, model.AppointmentStatusConfirmed),
		}
		assert.False(t, IsSlotAvailable(active, dentistID, at(10, 0)))
		assert.False(t, IsSlotAvailable(active, dentistID, at(10, 30)))
		assert.True(t, IsSlotAvailable(active, dentistID, at(11, 0)))
	})

	t.Run("other dentist does not block", func(t *testing.T) {
		active := []*model.Appointment{
			appointment(at(10, 0), at(10, 30), otherDentist, model.AppointmentStatusScheduled),
		}
		assert.True(t, IsSlotAvailable(active, dentistID, at(10, 0)))
	})

	t.Run("cancelled appointment does not block", func(t *testing.T) {
		active := []*model.Appointment{
			appointment(at(10, 0), at(10, 30), dentistID, model.AppointmentStatusCancelled),
		}
		assert.True(t, IsSlotAvailable(active, dentistID, at(10, 0)))
	})
}
