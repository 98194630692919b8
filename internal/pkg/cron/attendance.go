package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/roster"
	"github.com/attendly/attendance-backend-go/internal/domain/settings"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// repairHour is the tenant-local hour the retroactive holiday repair runs.
const repairHour = 2

type AttendanceJobs struct {
	attendanceSvc  attendance.Service
	rosterProvider roster.Provider
	settingsStore  settings.Store
}

func NewAttendanceJobs(
	attendanceSvc attendance.Service,
	rosterProvider roster.Provider,
	settingsStore settings.Store,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc:  attendanceSvc,
		rosterProvider: rosterProvider,
		settingsStore:  settingsStore,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_users", 1*time.Hour, j.MarkAbsentUsers)
	scheduler.AddJob("fix_past_holiday_attendance", 1*time.Hour, j.FixPastHolidayAttendance)
}

// tenantLocalNow shifts the wall clock into the tenant's fixed offset.
func tenantLocalNow(st settings.AttendanceSettings) time.Time {
	return time.Now().UTC().Add(time.Duration(st.TimezoneOffsetMinutes) * time.Minute)
}

// MarkAbsentUsers sweeps every tenant and fills absent records for users
// with no attendance for today, once the tenant-local clock passes the
// configured auto-mark time. Idempotent: later runs in the same day only
// fill gaps that are still open.
func (j *AttendanceJobs) MarkAbsentUsers(ctx context.Context) error {
	tenantIDs, err := j.rosterProvider.Tenants(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	totalCreated := 0
	for _, tenantID := range tenantIDs {
		st, err := j.settingsStore.GetSettings(ctx, tenantID)
		if err != nil {
			slog.Error("Cron: failed to get settings", "tenant_id", tenantID, "error", err)
			continue
		}
		if !st.AutoMarkAbsentEnabled {
			continue
		}

		nowLocal := tenantLocalNow(st)
		runAt := validator.ClockMinutes(st.AutoMarkAbsentTime)
		if runAt < 0 {
			slog.Error("Cron: invalid auto_mark_absent_time", "tenant_id", tenantID, "value", st.AutoMarkAbsentTime)
			continue
		}
		// Only fire in the hour containing the configured cutoff
		if nowLocal.Hour() != runAt/60 {
			continue
		}

		created, err := j.attendanceSvc.MarkAutoAbsent(ctx, attendance.AutoAbsentRequest{
			TenantID: tenantID,
			Date:     nowLocal.Format("2006-01-02"),
		})
		if err != nil {
			slog.Error("Cron: auto-absent failed", "tenant_id", tenantID, "error", err)
			continue
		}
		totalCreated += len(created)
	}

	slog.Info("Cron: marked absent users", "count", totalCreated)
	return nil
}

// FixPastHolidayAttendance runs the retroactive Sunday/holiday repair for
// every tenant during the quiet early-morning hour.
func (j *AttendanceJobs) FixPastHolidayAttendance(ctx context.Context) error {
	tenantIDs, err := j.rosterProvider.Tenants(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	for _, tenantID := range tenantIDs {
		st, err := j.settingsStore.GetSettings(ctx, tenantID)
		if err != nil {
			slog.Error("Cron: failed to get settings", "tenant_id", tenantID, "error", err)
			continue
		}
		if tenantLocalNow(st).Hour() != repairHour {
			continue
		}

		result, err := j.attendanceSvc.FixPastHolidayAttendance(ctx, tenantID)
		if err != nil {
			slog.Error("Cron: holiday repair failed", "tenant_id", tenantID, "error", err)
			continue
		}
		slog.Info("Cron: holiday repair finished",
			"tenant_id", tenantID,
			"dates_checked", result.DatesChecked,
			"issues_fixed", result.IssuesFixed)
	}

	return nil
}
