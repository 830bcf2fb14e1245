package calendar

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smilesync/booking-api/internal/model"
	"github.com/smilesync/booking-api/internal/service/scheduler"
)

// The slot grid is fixed: half-hour steps from 08:00 inclusive to 20:00
// exclusive, 24 entries, identical for every date.
const (
	GridStartHour = 8
	GridEndHour   = 20
	SlotDuration  = 30 * time.Minute
)

// Slots returns the ordered half-hour labels "08:00" … "19:30".
func Slots() []string {
	slots := make([]string, 0, (GridEndHour-GridStartHour)*2)
	for hour := GridStartHour; hour < GridEndHour; hour++ {
		for minute := 0; minute < 60; minute += 30 {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}

// SlotStart anchors a slot label onto a date in the date's location.
func SlotStart(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

// IsSlotAvailable reports whether the half-hour slot beginning at
// slotStart is free for the dentist. The check covers the whole slot
// interval, not just slot-start containment: a 45-minute appointment
// blocks the following half slot even though nothing starts there.
func IsSlotAvailable(active []*model.Appointment, dentistID uuid.UUID, slotStart time.Time) bool {
	slotEnd := slotStart.Add(SlotDuration)
	for _, apt := range active {
		if apt.DentistID != dentistID {
			continue
		}
		if !apt.Status.IsActive() {
			continue
		}
		if scheduler.Overlaps(apt.StartTime, apt.EndTime, slotStart, slotEnd) {
			return false
		}
	}
	return true
}
