package attendance

import (
	"time"
)

// Attendance statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusHalfDay = "half-day"
	StatusLeave   = "leave"
)

// Work modes
const (
	WorkModeOffice      = "office"
	WorkModeRemoteHome  = "remote-home"
	WorkModeRemoteOther = "remote-other"
)

// Default clock times written by reconciliation jobs when a record has no
// real times to preserve.
const (
	DefaultClockIn  = "09:00"
	DefaultClockOut = "17:00"
)

// Record is one attendance row. There is at most one per
// (tenant, username, date); the storage layer enforces that on the
// natural key, not on a surrogate id.
type Record struct {
	TenantID string
	Username string
	Date     string // YYYY-MM-DD, tenant-local calendar day

	Status   string
	WorkMode *string

	ClockIn  *string // HH:MM, tenant-local
	ClockOut *string // HH:MM, nil until clock-out

	Location *string
	Notes    *string

	IsHoliday   bool
	HolidayName *string

	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key derives the deterministic storage key from the natural composite key.
func (r Record) Key() string {
	return r.Username + "|" + r.Date
}

// ValidStatuses lists the accepted record statuses.
var ValidStatuses = []string{StatusPresent, StatusAbsent, StatusHalfDay, StatusLeave}

// ValidWorkModes lists the accepted work modes.
var ValidWorkModes = []string{WorkModeOffice, WorkModeRemoteHome, WorkModeRemoteOther}
