package settings

// AttendanceSettings is per-tenant attendance configuration. The deadline
// and half-day fields are stored and exposed but not consulted by the
// marking logic; they are policy hooks for an admin flow outside this core.
type AttendanceSettings struct {
	TenantID string

	DeadlineHour   int
	DeadlineMinute int

	AutoMarkAbsentEnabled bool
	AutoMarkAbsentTime    string // HH:MM, tenant-local

	HalfDayEnabled bool

	// TimezoneOffsetMinutes is the tenant's fixed UTC offset, used to
	// compute "today" and the current clock time server-side.
	TimezoneOffsetMinutes int
}

// Defaults returns the documented settings for a tenant with no stored row.
func Defaults(tenantID string) AttendanceSettings {
	return AttendanceSettings{
		TenantID:              tenantID,
		DeadlineHour:          12,
		DeadlineMinute:        0,
		AutoMarkAbsentEnabled: true,
		AutoMarkAbsentTime:    "23:59",
		HalfDayEnabled:        false,
		TimezoneOffsetMinutes: 330, // UTC+05:30
	}
}
