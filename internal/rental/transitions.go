package rental

import (
	"github.com/priyank071/scooty-rental/internal/models"
)

// transitions is the complete booking status machine. Statuses missing from
// the map (rejected, completed, cancelled) are terminal. There are no
// self-loops: retrying a move to the current status fails like any other
// illegal pair.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingStatusPending:   {models.BookingStatusConfirmed, models.BookingStatusRejected},
	models.BookingStatusConfirmed: {models.BookingStatusOngoing},
	models.BookingStatusOngoing:   {models.BookingStatusCompleted, models.BookingStatusCancelled},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a status change, returning an InvalidTransitionError
// for any pair outside the table.
func Transition(from, to models.BookingStatus) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// ValidStatus reports whether s names a known booking status.
func ValidStatus(s string) bool {
	switch models.BookingStatus(s) {
	case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusRejected,
		models.BookingStatusOngoing, models.BookingStatusCompleted, models.BookingStatusCancelled:
		return true
	}
	return false
}
