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
	"github.com/attendly/attendance-backend-go/internal/domain/notification"
	"github.com/attendly/attendance-backend-go/internal/domain/roster"
	"github.com/attendly/attendance-backend-go/internal/domain/settings"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

// batchWorkers bounds concurrency inside the batch jobs. Items are
// independent writes; failures stay isolated per item.
const batchWorkers = 8

type AttendanceServiceImpl struct {
	attendance.Repository
	holidayRepo    holiday.Repository
	rosterProvider roster.Provider
	settingsStore  settings.Store
	dispatcher     notification.Dispatcher
}

func NewAttendanceService(
	attendanceRepo attendance.Repository,
	holidayRepo holiday.Repository,
	rosterProvider roster.Provider,
	settingsStore settings.Store,
	dispatcher notification.Dispatcher,
) attendance.Service {
	return &AttendanceServiceImpl{
		Repository:     attendanceRepo,
		holidayRepo:    holidayRepo,
		rosterProvider: rosterProvider,
		settingsStore:  settingsStore,
		dispatcher:     dispatcher,
	}
}

// tenantNow returns the current wall-clock time shifted into the tenant's
// configured fixed offset. The caller's local clock is never trusted.
func (a *AttendanceServiceImpl) tenantNow(ctx context.Context, tenantID string) (time.Time, error) {
	st, err := a.settingsStore.GetSettings(ctx, tenantID)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get attendance settings: %w", err)
	}
	return time.Now().UTC().Add(time.Duration(st.TimezoneOffsetMinutes) * time.Minute), nil
}

// notifyRemote queues a remote-work alert when the record's work mode is
// remote-home. Best-effort: a full queue or dispatch failure is logged and
// never fails the enclosing attendance write.
func (a *AttendanceServiceImpl) notifyRemote(rec attendance.Record, event notification.Event) {
	if rec.WorkMode == nil || *rec.WorkMode != attendance.WorkModeRemoteHome {
		return
	}
	err := a.dispatcher.NotifyRemoteWork(notification.RemoteWorkAlert{
		TenantID:  rec.TenantID,
		Username:  rec.Username,
		Event:     event,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("Failed to queue remote work alert",
			"tenant_id", rec.TenantID,
			"username", rec.Username,
			"event", event,
			"error", err)
	}
}

func mapRecordToResponse(rec attendance.Record) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		Username:    rec.Username,
		Date:        rec.Date,
		Status:      rec.Status,
		WorkMode:    rec.WorkMode,
		ClockIn:     rec.ClockIn,
		ClockOut:    rec.ClockOut,
		Location:    rec.Location,
		Notes:       rec.Notes,
		IsHoliday:   rec.IsHoliday,
		HolidayName: rec.HolidayName,
		UpdatedBy:   rec.UpdatedBy,
	}
	if !rec.CreatedAt.IsZero() {
		resp.CreatedAt = rec.CreatedAt.Format("2006-01-02 15:04:05")
	}
	if !rec.UpdatedAt.IsZero() {
		resp.UpdatedAt = rec.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

// Mark implements attendance.Service.
func (a *AttendanceServiceImpl) Mark(ctx context.Context, req attendance.MarkRequest) (attendance.RecordResponse, error) {
	if req.Date == "" {
		now, err := a.tenantNow(ctx, req.TenantID)
		if err != nil {
			return attendance.RecordResponse{}, err
		}
		req.Date = now.Format("2006-01-02")
	}
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	existing, err := a.Repository.GetByKey(ctx, req.TenantID, req.Username, req.Date)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil {
		return attendance.RecordResponse{}, attendance.ErrAlreadyMarked
	}

	updatedBy := req.UpdatedBy
	if updatedBy == "" {
		updatedBy = req.Username
	}

	workMode := req.WorkMode
	clockIn := req.ClockIn
	rec := attendance.Record{
		TenantID:  req.TenantID,
		Username:  req.Username,
		Date:      req.Date,
		Status:    attendance.StatusPresent,
		WorkMode:  &workMode,
		ClockIn:   &clockIn,
		Location:  req.Location,
		Notes:     req.Notes,
		UpdatedBy: updatedBy,
	}

	created, err := a.Repository.CreateIfAbsent(ctx, rec)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyMarked) {
			// Lost the race to a concurrent mark; no partial write happened
			return attendance.RecordResponse{}, attendance.ErrAlreadyMarked
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	a.notifyRemote(created, notification.EventClockIn)

	return mapRecordToResponse(created), nil
}

// ClockOut implements attendance.Service.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	now, err := a.tenantNow(ctx, req.TenantID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if req.Date == "" {
		req.Date = now.Format("2006-01-02")
	}

	rec, err := a.Repository.GetByKey(ctx, req.TenantID, req.Username, req.Date)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if rec == nil {
		return attendance.RecordResponse{}, attendance.ErrRecordNotFound
	}
	if rec.ClockOut != nil {
		return attendance.RecordResponse{}, attendance.ErrAlreadyClockedOut
	}
	if rec.ClockIn == nil {
		return attendance.RecordResponse{}, attendance.ErrNotClockedIn
	}

	clockOut := now.Format("15:04")
	// clock_out may not precede clock_in
	if validator.ClockMinutes(clockOut) < validator.ClockMinutes(*rec.ClockIn) {
		clockOut = *rec.ClockIn
	}
	rec.ClockOut = &clockOut
	if req.UpdatedBy != "" {
		rec.UpdatedBy = req.UpdatedBy
	}

	updated, err := a.Repository.Upsert(ctx, *rec)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	a.notifyRemote(updated, notification.EventClockOut)

	return mapRecordToResponse(updated), nil
}

// MarkAutoAbsent implements attendance.Service.
func (a *AttendanceServiceImpl) MarkAutoAbsent(ctx context.Context, req attendance.AutoAbsentRequest) ([]attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	usernames := req.ActiveUsernames
	if len(usernames) == 0 {
		var err error
		usernames, err = a.rosterProvider.ActiveUsernames(ctx, req.TenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to get active roster: %w", err)
		}
	}

	existing, err := a.Repository.QueryByDateRange(ctx, req.TenantID, nil, req.Date, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance for date: %w", err)
	}
	marked := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		marked[rec.Username] = struct{}{}
	}

	var (
		mu      sync.Mutex
		created []attendance.RecordResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)

	for _, username := range usernames {
		if _, ok := marked[username]; ok {
			continue
		}
		g.Go(func() error {
			rec := attendance.Record{
				TenantID:  req.TenantID,
				Username:  username,
				Date:      req.Date,
				Status:    attendance.StatusAbsent,
				UpdatedBy: "system",
			}
			out, err := a.Repository.CreateIfAbsent(gctx, rec)
			if err != nil {
				if errors.Is(err, attendance.ErrAlreadyMarked) {
					// A record appeared between the scan and this write; the
					// gap is already filled, so skip without failing.
					return nil
				}
				slog.Error("Auto-absent: failed to create record",
					"tenant_id", req.TenantID,
					"username", username,
					"date", req.Date,
					"error", err)
				return nil
			}
			mu.Lock()
			created = append(created, mapRecordToResponse(out))
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	sort.Slice(created, func(i, j int) bool { return created[i].Username < created[j].Username })

	slog.Info("Auto-absent completed",
		"tenant_id", req.TenantID,
		"date", req.Date,
		"roster_size", len(usernames),
		"created", len(created))

	return created, nil
}
