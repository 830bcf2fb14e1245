package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smilesync/booking-api/internal/model"
	"github.com/smilesync/booking-api/internal/repository"
	apperrors "github.com/smilesync/booking-api/pkg/errors"
)

// monthDisplayCap limits entries rendered per day in the month view.
// Display-only: the overflow count carries the hidden remainder.
const monthDisplayCap = 3

type Service struct {
	appointments repository.AppointmentRepository
}

func NewService(appointments repository.AppointmentRepository) *Service {
	return &Service{appointments: appointments}
}

// ViewRange computes the half-open [start, end) window for a view
// anchored at date: the anchor's day, its ISO week (Monday through the
// following Monday) or its calendar month.
func ViewRange(view model.CalendarView, anchor time.Time) (time.Time, time.Time, error) {
	loc := anchor.Location()
	dayStart := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)

	switch view {
	case model.CalendarViewDay:
		return dayStart, dayStart.AddDate(0, 0, 1), nil
	case model.CalendarViewWeek:
		// time.Weekday has Sunday == 0; shift so Monday opens the week.
		offset := (int(dayStart.Weekday()) + 6) % 7
		weekStart := dayStart.AddDate(0, 0, -offset)
		return weekStart, weekStart.AddDate(0, 0, 7), nil
	case model.CalendarViewMonth:
		monthStart := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
		return monthStart, monthStart.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, time.Time{}, apperrors.Validation("view must be one of: day, week, month", nil)
	}
}

// GetCalendar projects the tenant's appointments intersecting the view
// range, sorted ascending by start, with the fixed slot grid and
// view-specific buckets attached.
func (s *Service) GetCalendar(ctx context.Context, orgID uuid.UUID, view model.CalendarView, anchor time.Time, dentistID *uuid.UUID) (*model.Calendar, error) {
	start, end, err := ViewRange(view, anchor)
	if err != nil {
		return nil, err
	}

	entries, err := s.appointments.ListCalendarEntries(ctx, orgID, dentistID, start, end)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	cal := &model.Calendar{
		View:      view,
		Range:     model.DateRange{Start: start, End: end},
		TimeSlots: Slots(),
		Entries:   entries,
	}

	switch view {
	case model.CalendarViewMonth:
		cal.DayBuckets = bucketByDay(entries)
	default:
		cal.SlotBuckets = bucketBySlot(entries)
	}

	return cal, nil
}

// bucketBySlot groups day/week entries by (HH:mm, dentist, date). An
// appointment spanning several slots appears only under its start slot.
func bucketBySlot(entries []model.CalendarEntry) []model.SlotBucket {
	var buckets []model.SlotBucket
	index := make(map[string]int)

	for _, entry := range entries {
		slot := entry.Start.Format("15:04")
		date := entry.Start.Format("2006-01-02")
		key := slot + "|" + entry.DentistID.String() + "|" + date

		i, ok := index[key]
		if !ok {
			buckets = append(buckets, model.SlotBucket{
				Slot:      slot,
				DentistID: entry.DentistID,
				Date:      date,
			})
			i = len(buckets) - 1
			index[key] = i
		}
		buckets[i].Entries = append(buckets[i].Entries, entry)
	}

	return buckets
}

// bucketByDay groups month entries by calendar day, capping displayed
// entries and counting the overflow.
func bucketByDay(entries []model.CalendarEntry) []model.DayBucket {
	var buckets []model.DayBucket
	index := make(map[string]int)

	for _, entry := range entries {
		date := entry.Start.Format("2006-01-02")

		i, ok := index[date]
		if !ok {
			buckets = append(buckets, model.DayBucket{Date: date})
			i = len(buckets) - 1
			index[date] = i
		}

		if len(buckets[i].Entries) < monthDisplayCap {
			buckets[i].Entries = append(buckets[i].Entries, entry)
		} else {
			buckets[i].Overflow++
		}
	}

	return buckets
}
