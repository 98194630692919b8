package attendance

import "errors"

// Attendance domain errors
var (
	// Mark / clock-out errors
	ErrAlreadyMarked     = errors.New("attendance already marked for this date")
	ErrNotClockedIn      = errors.New("no clock-in time recorded for this date")
	ErrAlreadyClockedOut = errors.New("already clocked out for this date")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
)
