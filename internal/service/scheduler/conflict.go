package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/smilesync/booking-api/internal/model"
)

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. An interval ending exactly where the other
// starts does not overlap, so back-to-back appointments are allowed.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FindConflict returns the first existing appointment that blocks the
// candidate interval, or nil. Only SCHEDULED and CONFIRMED appointments
// count; excludeID skips the appointment being moved so it cannot
// conflict with itself. The caller supplies appointments already scoped
// to one (organization, dentist) pair.
func FindConflict(existing []*model.Appointment, start, end time.Time, excludeID uuid.UUID) *model.Appointment {
	for _, apt := range existing {
		if apt.ID == excludeID {
			continue
		}
		if !apt.Status.IsActive() {
			continue
		}
		if Overlaps(apt.StartTime, apt.EndTime, start, end) {
			return apt
		}
	}
	return nil
}

// HasConflict is the boolean form of FindConflict.
func HasConflict(existing []*model.Appointment, start, end time.Time, excludeID uuid.UUID) bool {
	return FindConflict(existing, start, end, excludeID) != nil
}
