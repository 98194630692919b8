package attendance

import (
	"context"
)

// Service defines business logic for attendance operations
type Service interface {
	// Mark records a clock-in, creating the day's record. Fails with
	// ErrAlreadyMarked when a record already exists for the day.
	Mark(ctx context.Context, req MarkRequest) (RecordResponse, error)

	// ClockOut completes the day's record with the tenant-local current time.
	ClockOut(ctx context.Context, req ClockOutRequest) (RecordResponse, error)

	// MarkAutoAbsent fills absent records for every active user missing a
	// record on the date. Idempotent; returns only the newly created rows.
	MarkAutoAbsent(ctx context.Context, req AutoAbsentRequest) ([]RecordResponse, error)

	// MarkHoliday registers the holiday and, when requested, upserts a
	// present record for every active user on that date.
	MarkHoliday(ctx context.Context, req MarkHolidayRequest) (MarkHolidayResult, error)

	// FixPastHolidayAttendance repairs Sundays and known public holidays in
	// the trailing six months, converging absent/missing records to present.
	FixPastHolidayAttendance(ctx context.Context, tenantID string) (RepairResult, error)

	// BulkDateUpdate applies one status across a date span for one user,
	// collecting per-date failures instead of aborting.
	BulkDateUpdate(ctx context.Context, req BulkDateUpdateRequest) (BulkDateUpdateResult, error)

	// GetMonthlyAttendance summarizes one calendar month.
	GetMonthlyAttendance(ctx context.Context, tenantID, username string, year, month int) (RangeSummary, error)

	// GetAttendanceSummary summarizes an arbitrary inclusive date range.
	GetAttendanceSummary(ctx context.Context, req SummaryRequest) (RangeSummary, error)
}
