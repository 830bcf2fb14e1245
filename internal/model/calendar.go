package model

import (
	"time"

	"github.com/google/uuid"
)

type CalendarView string

const (
	CalendarViewDay   CalendarView = "day"
	CalendarViewWeek  CalendarView = "week"
	CalendarViewMonth CalendarView = "month"
)

// CalendarEntry is an appointment projected for rendering, joined with its
// patient, dentist and service.
type CalendarEntry struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	Status    AppointmentStatus `json:"status"`
	Patient   *Patient          `json:"patient,omitempty"`
	Dentist   *Dentist          `json:"dentist,omitempty"`
	Service   *Service          `json:"service,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	DentistID uuid.UUID         `json:"dentist_id"`
}

// SlotBucket groups day/week entries under their rendering key: the
// half-hour label, the dentist and the calendar date of the start slot.
// An appointment spanning several slots appears only under its start slot.
type SlotBucket struct {
	Slot      string          `json:"slot"`
	DentistID uuid.UUID       `json:"dentist_id"`
	Date      string          `json:"date"`
	Entries   []CalendarEntry `json:"entries"`
}

// DayBucket groups month-view entries by calendar day. Display is capped;
// Overflow counts the hidden remainder.
type DayBucket struct {
	Date     string          `json:"date"`
	Entries  []CalendarEntry `json:"entries"`
	Overflow int             `json:"overflow"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Calendar struct {
	View        CalendarView    `json:"view"`
	Range       DateRange       `json:"range"`
	TimeSlots   []string        `json:"time_slots"`
	Entries     []CalendarEntry `json:"entries"`
	SlotBuckets []SlotBucket    `json:"slot_buckets,omitempty"`
	DayBuckets  []DayBucket     `json:"day_buckets,omitempty"`
}
