package scheduler

import (
	"github.com/smilesync/booking-api/internal/model"
)

// transitions is the closed status transition table. Anything not listed
// here is rejected. CANCELLED, COMPLETED and NO_SHOW are terminal.
var transitions = map[model.AppointmentStatus]map[model.AppointmentStatus]bool{
	model.AppointmentStatusScheduled: {
		model.AppointmentStatusConfirmed: true,
		model.AppointmentStatusCancelled: true,
		model.AppointmentStatusCompleted: true,
		model.AppointmentStatusNoShow:    true,
	},
	model.AppointmentStatusConfirmed: {
		model.AppointmentStatusCancelled: true,
		model.AppointmentStatusCompleted: true,
		model.AppointmentStatusNoShow:    true,
	},
}

// CanTransition reports whether the status change is allowed.
func CanTransition(from, to model.AppointmentStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := transitions[from]
	return ok && allowed[to]
}
