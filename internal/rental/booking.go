// Package rental holds the coordination rules of the marketplace: booking
// quotes, the booking status machine, chat message and attachment validation,
// and fleet search matching. Everything here is pure; handlers own the I/O.
package rental

import (
	"time"
)

const (
	// MinRentalHours and MaxRentalHours bound a single booking window.
	MinRentalHours = 1.0
	MaxRentalHours = 24.0
)

// Quote is a priced booking window.
type Quote struct {
	Hours  float64
	Amount float64
}

// PrepareQuote validates a requested window against a scooty's hourly rate and
// prices it. Amount is always hours x rate; rounding is the caller's concern.
func PrepareQuote(start, end time.Time, hourlyRate float64) (*Quote, error) {
	if start.IsZero() || end.IsZero() {
		return nil, &ValidationError{Field: "time window", Reason: "start and end are required"}
	}
	if !end.After(start) {
		return nil, &ValidationError{Field: "time window", Reason: "end must be after start"}
	}

	hours := end.Sub(start).Hours()
	if hours < MinRentalHours || hours > MaxRentalHours {
		return nil, &ValidationError{Field: "duration", Reason: "must be between 1 and 24 hours"}
	}
	if hourlyRate <= 0 {
		return nil, &ValidationError{Field: "hourlyRate", Reason: "must be greater than zero"}
	}

	return &Quote{Hours: hours, Amount: hours * hourlyRate}, nil
}

// ValidateScootyInput checks the fields of a fleet registration. Every field
// is required and the hourly rate must be positive.
func ValidateScootyInput(model, plateNumber, location, fuelType string, hourlyRate float64) error {
	if model == "" {
		return &ValidationError{Field: "model", Reason: "is required"}
	}
	if plateNumber == "" {
		return &ValidationError{Field: "plateNumber", Reason: "is required"}
	}
	if location == "" {
		return &ValidationError{Field: "location", Reason: "is required"}
	}
	if fuelType == "" {
		return &ValidationError{Field: "fuelType", Reason: "is required"}
	}
	if hourlyRate <= 0 {
		return &ValidationError{Field: "hourlyRate", Reason: "must be greater than zero"}
	}
	return nil
}
