package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// GetMonthlyAttendance implements attendance.Service.
func (a *AttendanceServiceImpl) GetMonthlyAttendance(ctx context.Context, tenantID, username string, year, month int) (attendance.RangeSummary, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if year < 1970 || year > 9999 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}
	if len(errs) > 0 {
		return attendance.RangeSummary{}, errs
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	return a.GetAttendanceSummary(ctx, attendance.SummaryRequest{
		TenantID:  tenantID,
		Username:  username,
		StartDate: first.Format("2006-01-02"),
		EndDate:   last.Format("2006-01-02"),
	})
}

// GetAttendanceSummary implements attendance.Service. Pure read-side
// reducer; nothing it computes is persisted.
func (a *AttendanceServiceImpl) GetAttendanceSummary(ctx context.Context, req attendance.SummaryRequest) (attendance.RangeSummary, error) {
	if err := req.Validate(); err != nil {
		return attendance.RangeSummary{}, err
	}

	records, err := a.Repository.QueryByDateRange(ctx, req.TenantID, &req.Username, req.StartDate, req.EndDate)
	if err != nil {
		return attendance.RangeSummary{}, fmt.Errorf("failed to query attendance range: %w", err)
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	summary := attendance.RangeSummary{
		Username:        req.Username,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TotalDays:       int(end.Sub(start).Hours()/24) + 1,
		DaysWithRecords: len(records),
		ByWorkMode:      make(map[string]int),
	}

	var totalMinutes int
	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusPresent:
			summary.Present++
		case attendance.StatusAbsent:
			summary.Absent++
		case attendance.StatusHalfDay:
			summary.HalfDay++
		case attendance.StatusLeave:
			summary.Leave++
		}

		if rec.WorkMode != nil && *rec.WorkMode != "" {
			summary.ByWorkMode[*rec.WorkMode]++
		}

		totalMinutes += recordMinutes(rec)
	}

	summary.TotalHours = roundHours(float64(totalMinutes) / 60.0)
	if summary.DaysWithRecords > 0 {
		summary.AverageHours = roundHours(summary.TotalHours / float64(summary.DaysWithRecords))
	}

	return summary, nil
}

// recordMinutes derives one record's worked duration from its HH:MM clock
// times. Records missing either time contribute zero.
func recordMinutes(rec attendance.Record) int {
	if rec.ClockIn == nil || rec.ClockOut == nil {
		return 0
	}
	in := validator.ClockMinutes(*rec.ClockIn)
	out := validator.ClockMinutes(*rec.ClockOut)
	if in < 0 || out < 0 || out < in {
		return 0
	}
	return out - in
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
