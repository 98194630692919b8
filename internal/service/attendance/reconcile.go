package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/holiday"
	"github.com/attendly/attendance-backend-go/internal/fixtures"
	"golang.org/x/sync/errgroup"
)

// repairWindowMonths is the trailing window scanned by the retroactive
// holiday repair job.
const repairWindowMonths = 6

// MarkHoliday implements attendance.Service.
func (a *AttendanceServiceImpl) MarkHoliday(ctx context.Context, req attendance.MarkHolidayRequest) (attendance.MarkHolidayResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.MarkHolidayResult{}, err
	}

	hol, err := a.holidayRepo.UpsertByDate(ctx, holiday.Holiday{
		TenantID:  req.TenantID,
		Date:      req.Date,
		Name:      req.HolidayName,
		CreatedBy: req.MarkedBy,
	})
	if err != nil {
		return attendance.MarkHolidayResult{}, fmt.Errorf("failed to register holiday: %w", err)
	}

	result := attendance.MarkHolidayResult{
		Date:        hol.Date,
		HolidayName: hol.Name,
	}

	if !req.MarkAllPresent {
		return result, nil
	}

	usernames, err := a.rosterProvider.ActiveUsernames(ctx, req.TenantID)
	if err != nil {
		return attendance.MarkHolidayResult{}, fmt.Errorf("failed to get active roster: %w", err)
	}

	var (
		mu        sync.Mutex
		succeeded int
		failed    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)

	for _, username := range usernames {
		g.Go(func() error {
			if err := a.markUserHolidayPresent(gctx, req, username, hol.Name); err != nil {
				slog.Error("Holiday: failed to upsert present record",
					"tenant_id", req.TenantID,
					"username", username,
					"date", req.Date,
					"error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	result.UsersMarkedPresent = succeeded
	result.UsersFailed = failed

	slog.Info("Holiday marked",
		"tenant_id", req.TenantID,
		"date", req.Date,
		"holiday", hol.Name,
		"marked_present", succeeded,
		"failed", failed)

	return result, nil
}

// markUserHolidayPresent brings one user's record for the holiday to the
// converged state: missing and absent records become present with default
// hours, any other record keeps its data and only gains holiday metadata.
func (a *AttendanceServiceImpl) markUserHolidayPresent(ctx context.Context, req attendance.MarkHolidayRequest, username, holidayName string) error {
	existing, err := a.Repository.GetByKey(ctx, req.TenantID, username, req.Date)
	if err != nil {
		return err
	}

	note := "Holiday: " + holidayName
	var rec attendance.Record
	if existing == nil {
		clockIn := attendance.DefaultClockIn
		clockOut := attendance.DefaultClockOut
		rec = attendance.Record{
			TenantID:  req.TenantID,
			Username:  username,
			Date:      req.Date,
			Status:    attendance.StatusPresent,
			ClockIn:   &clockIn,
			ClockOut:  &clockOut,
			Notes:     &note,
			UpdatedBy: req.MarkedBy,
		}
	} else {
		// Already-present records only gain holiday metadata below;
		// their data and attribution stay whose they were
		rec = *existing
		if rec.Status == attendance.StatusAbsent {
			rec.Status = attendance.StatusPresent
			if rec.ClockIn == nil {
				clockIn := attendance.DefaultClockIn
				rec.ClockIn = &clockIn
			}
			if rec.ClockOut == nil {
				clockOut := attendance.DefaultClockOut
				rec.ClockOut = &clockOut
			}
			if rec.Notes == nil {
				rec.Notes = &note
			}
			rec.UpdatedBy = req.MarkedBy
		}
	}
	rec.IsHoliday = true
	rec.HolidayName = &holidayName

	_, err = a.Repository.Upsert(ctx, rec)
	return err
}

// FixPastHolidayAttendance implements attendance.Service. It is a
// convergent repair: a second run over an unchanged record set finds and
// fixes nothing.
func (a *AttendanceServiceImpl) FixPastHolidayAttendance(ctx context.Context, tenantID string) (attendance.RepairResult, error) {
	now, err := a.tenantNow(ctx, tenantID)
	if err != nil {
		return attendance.RepairResult{}, err
	}
	end := now
	start := now.AddDate(0, -repairWindowMonths, 0)

	type candidate struct {
		date        string
		holidayName string // empty for plain Sundays
	}

	// Candidates are the fixed national calendar, Sundays, and any holiday
	// the tenant registered itself.
	byDate := make(map[string]string)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		if name, ok := fixtures.PublicHolidays[d.Format("01-02")]; ok {
			byDate[dateStr] = name
			continue
		}
		if d.Weekday() == time.Sunday {
			byDate[dateStr] = ""
		}
	}

	tenantHolidays, err := a.holidayRepo.ListByDateRange(ctx, tenantID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return attendance.RepairResult{}, fmt.Errorf("failed to list tenant holidays: %w", err)
	}
	for _, hol := range tenantHolidays {
		if existing, ok := byDate[hol.Date]; !ok || existing == "" {
			byDate[hol.Date] = hol.Name
		}
	}

	var (
		candidates   []candidate
		holidayDates []string
	)
	for date, name := range byDate {
		candidates = append(candidates, candidate{date: date, holidayName: name})
		if name != "" {
			holidayDates = append(holidayDates, date)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].date < candidates[j].date })
	sort.Strings(holidayDates)

	usernames, err := a.rosterProvider.ActiveUsernames(ctx, tenantID)
	if err != nil {
		return attendance.RepairResult{}, fmt.Errorf("failed to get active roster: %w", err)
	}

	records, err := a.Repository.QueryByDateRange(ctx, tenantID, nil, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return attendance.RepairResult{}, fmt.Errorf("failed to query attendance window: %w", err)
	}
	byKey := make(map[string]attendance.Record, len(records))
	for _, rec := range records {
		byKey[rec.Key()] = rec
	}

	result := attendance.RepairResult{
		DatesChecked: len(candidates),
		HolidayDates: holidayDates,
	}

	for _, c := range candidates {
		for _, username := range usernames {
			rec, exists := byKey[username+"|"+c.date]

			switch {
			case !exists:
				result.IssuesFound++
				if a.repairCreate(ctx, tenantID, username, c.date, c.holidayName) {
					result.IssuesFixed++
				}
			case rec.Status == attendance.StatusAbsent:
				result.IssuesFound++
				if a.repairFlip(ctx, rec, c.holidayName) {
					result.IssuesFixed++
				}
			default:
				// Present, leave or half-day: already converged, leave it alone
			}
		}
	}

	result.Summary = fmt.Sprintf("checked %d holiday/Sunday dates for %d users: %d issues found, %d fixed",
		result.DatesChecked, len(usernames), result.IssuesFound, result.IssuesFixed)

	slog.Info("Past holiday repair completed",
		"tenant_id", tenantID,
		"dates_checked", result.DatesChecked,
		"issues_found", result.IssuesFound,
		"issues_fixed", result.IssuesFixed)

	return result, nil
}

func repairNote(holidayName string) string {
	if holidayName != "" {
		return "Auto-corrected: " + holidayName + " attendance"
	}
	return "Auto-corrected: Sunday attendance"
}

// repairCreate fills a missing record with a default present day.
func (a *AttendanceServiceImpl) repairCreate(ctx context.Context, tenantID, username, date, holidayName string) bool {
	clockIn := attendance.DefaultClockIn
	clockOut := attendance.DefaultClockOut
	note := repairNote(holidayName)
	rec := attendance.Record{
		TenantID:  tenantID,
		Username:  username,
		Date:      date,
		Status:    attendance.StatusPresent,
		ClockIn:   &clockIn,
		ClockOut:  &clockOut,
		Notes:     &note,
		UpdatedBy: "system",
	}
	if holidayName != "" {
		rec.IsHoliday = true
		rec.HolidayName = &holidayName
	}

	if _, err := a.Repository.CreateIfAbsent(ctx, rec); err != nil {
		if errors.Is(err, attendance.ErrAlreadyMarked) {
			// A record appeared since the scan; the day is no longer missing
			return true
		}
		slog.Error("Repair: failed to create record",
			"tenant_id", tenantID, "username", username, "date", date, "error", err)
		return false
	}
	return true
}

// repairFlip converges an absent record to present, preserving any data an
// operator already set and defaulting only the missing fields.
func (a *AttendanceServiceImpl) repairFlip(ctx context.Context, rec attendance.Record, holidayName string) bool {
	rec.Status = attendance.StatusPresent
	if rec.ClockIn == nil {
		clockIn := attendance.DefaultClockIn
		rec.ClockIn = &clockIn
	}
	if rec.ClockOut == nil {
		clockOut := attendance.DefaultClockOut
		rec.ClockOut = &clockOut
	}
	if rec.Notes == nil {
		note := repairNote(holidayName)
		rec.Notes = &note
	}
	if holidayName != "" {
		rec.IsHoliday = true
		rec.HolidayName = &holidayName
	}
	rec.UpdatedBy = "system"

	if _, err := a.Repository.Upsert(ctx, rec); err != nil {
		slog.Error("Repair: failed to flip absent record",
			"tenant_id", rec.TenantID, "username", rec.Username, "date", rec.Date, "error", err)
		return false
	}
	return true
}

// BulkDateUpdate implements attendance.Service.
func (a *AttendanceServiceImpl) BulkDateUpdate(ctx context.Context, req attendance.BulkDateUpdateRequest) (attendance.BulkDateUpdateResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.BulkDateUpdateResult{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	result := attendance.BulkDateUpdateResult{
		SkippedDays: []attendance.SkippedDay{},
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		result.DaysProcessed++

		// One date's failure never aborts the remaining dates
		created, err := a.applyBulkDate(ctx, req, dateStr)
		if err != nil {
			slog.Error("Bulk update: date skipped",
				"tenant_id", req.TenantID,
				"username", req.Username,
				"date", dateStr,
				"error", err)
			result.SkippedDays = append(result.SkippedDays, attendance.SkippedDay{
				Date:  dateStr,
				Error: err.Error(),
			})
			continue
		}
		if created {
			result.RecordsCreated++
		} else {
			result.RecordsUpdated++
		}
	}

	return result, nil
}

// applyBulkDate creates or updates the record for one date. Reports
// whether a new record was created.
func (a *AttendanceServiceImpl) applyBulkDate(ctx context.Context, req attendance.BulkDateUpdateRequest, date string) (bool, error) {
	existing, err := a.Repository.GetByKey(ctx, req.TenantID, req.Username, date)
	if err != nil {
		return false, err
	}

	if existing == nil {
		rec := attendance.Record{
			TenantID:  req.TenantID,
			Username:  req.Username,
			Date:      date,
			Status:    req.Status,
			Location:  req.Location,
			UpdatedBy: req.UpdatedBy,
		}
		if req.Status == attendance.StatusPresent {
			clockIn := attendance.DefaultClockIn
			rec.ClockIn = &clockIn
		}
		if _, err := a.Repository.CreateIfAbsent(ctx, rec); err != nil {
			return false, err
		}
		return true, nil
	}

	rec := *existing
	rec.Status = req.Status
	if req.Location != nil {
		rec.Location = req.Location
	}
	rec.UpdatedBy = req.UpdatedBy
	if _, err := a.Repository.Upsert(ctx, rec); err != nil {
		return false, err
	}
	return false, nil
}
