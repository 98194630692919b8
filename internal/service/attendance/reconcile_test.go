package attendance_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	domain "github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/fixtures"
	"github.com/attendly/attendance-backend-go/internal/repository/memory"
	attendanceService "github.com/attendly/attendance-backend-go/internal/service/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pastSunday returns a Sunday between one and two weeks back, safely
// inside the repair window whatever day the tests run on.
func pastSunday() string {
	now := time.Now().UTC().Add(330 * time.Minute)
	sunday := now.AddDate(0, 0, -(int(now.Weekday()) + 7))
	return sunday.Format("2006-01-02")
}

func TestMarkHoliday_RegistersWithoutTouchingRecords(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("alice")

	result, err := env.svc.MarkHoliday(ctx, domain.MarkHolidayRequest{
		TenantID:    testTenant,
		Date:        "2026-08-15",
		HolidayName: "Independence Day",
		MarkedBy:    "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-08-15", result.Date)
	assert.Equal(t, "Independence Day", result.HolidayName)
	assert.Zero(t, result.UsersMarkedPresent)

	hol, err := env.holidays.GetByDate(ctx, testTenant, "2026-08-15")
	require.NoError(t, err)
	require.NotNil(t, hol)
	assert.Equal(t, "Independence Day", hol.Name)

	rec, err := env.repo.GetByKey(ctx, testTenant, "alice", "2026-08-15")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMarkHoliday_MarkAllPresent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("alice", "bob", "carol")

	// alice is absent, bob already marked present, carol has no record
	_, err := env.repo.CreateIfAbsent(ctx, domain.Record{
		TenantID:  testTenant,
		Username:  "alice",
		Date:      "2026-08-15",
		Status:    domain.StatusAbsent,
		UpdatedBy: "system",
	})
	require.NoError(t, err)
	_, err = env.svc.Mark(ctx, markRequest("bob", "2026-08-15"))
	require.NoError(t, err)

	result, err := env.svc.MarkHoliday(ctx, domain.MarkHolidayRequest{
		TenantID:       testTenant,
		Date:           "2026-08-15",
		HolidayName:    "Independence Day",
		MarkAllPresent: true,
		MarkedBy:       "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.UsersMarkedPresent)
	assert.Zero(t, result.UsersFailed)

	alice, err := env.repo.GetByKey(ctx, testTenant, "alice", "2026-08-15")
	require.NoError(t, err)
	require.NotNil(t, alice)
	assert.Equal(t, domain.StatusPresent, alice.Status)
	require.NotNil(t, alice.ClockIn)
	assert.Equal(t, domain.DefaultClockIn, *alice.ClockIn)
	require.NotNil(t, alice.ClockOut)
	assert.Equal(t, domain.DefaultClockOut, *alice.ClockOut)
	assert.True(t, alice.IsHoliday)
	require.NotNil(t, alice.HolidayName)
	assert.Equal(t, "Independence Day", *alice.HolidayName)

	// bob keeps his own clock_in and attribution, only gains holiday
	// metadata
	bob, err := env.repo.GetByKey(ctx, testTenant, "bob", "2026-08-15")
	require.NoError(t, err)
	require.NotNil(t, bob)
	assert.Equal(t, domain.StatusPresent, bob.Status)
	require.NotNil(t, bob.ClockIn)
	assert.Equal(t, "09:15", *bob.ClockIn)
	assert.True(t, bob.IsHoliday)
	assert.Equal(t, "bob", bob.UpdatedBy)
	assert.Nil(t, bob.Notes)

	// the flipped and created records are attributed to the admin
	assert.Equal(t, "admin", alice.UpdatedBy)

	carol, err := env.repo.GetByKey(ctx, testTenant, "carol", "2026-08-15")
	require.NoError(t, err)
	require.NotNil(t, carol)
	assert.Equal(t, domain.StatusPresent, carol.Status)
	assert.True(t, carol.IsHoliday)
}

func TestMarkHoliday_Idempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("alice")

	req := domain.MarkHolidayRequest{
		TenantID:       testTenant,
		Date:           "2026-08-15",
		HolidayName:    "Independence Day",
		MarkAllPresent: true,
		MarkedBy:       "admin",
	}
	_, err := env.svc.MarkHoliday(ctx, req)
	require.NoError(t, err)

	before, err := env.repo.GetByKey(ctx, testTenant, "alice", "2026-08-15")
	require.NoError(t, err)
	require.NotNil(t, before)

	result, err := env.svc.MarkHoliday(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, result.UsersMarkedPresent)

	after, err := env.repo.GetByKey(ctx, testTenant, "alice", "2026-08-15")
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, *before.ClockIn, *after.ClockIn)
	assert.Equal(t, *before.ClockOut, *after.ClockOut)
}

func TestFixPastHolidayAttendance_FlipsAbsentSunday(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("alice")
	sunday := pastSunday()

	location := "home office"
	clockIn := "10:00"
	_, err := env.repo.CreateIfAbsent(ctx, domain.Record{
		TenantID:  testTenant,
		Username:  "alice",
		Date:      sunday,
		Status:    domain.StatusAbsent,
		ClockIn:   &clockIn,
		Location:  &location,
		UpdatedBy: "system",
	})
	require.NoError(t, err)

	result, err := env.svc.FixPastHolidayAttendance(ctx, testTenant)
	require.NoError(t, err)

	assert.Greater(t, result.DatesChecked, 0)
	assert.Greater(t, result.IssuesFound, 0)
	assert.Equal(t, result.IssuesFound, result.IssuesFixed)

	rec, err := env.repo.GetByKey(ctx, testTenant, "alice", sunday)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.StatusPresent, rec.Status)
	// Data the record already carried survives the flip
	require.NotNil(t, rec.ClockIn)
	assert.Equal(t, "10:00", *rec.ClockIn)
	require.NotNil(t, rec.Location)
	assert.Equal(t, "home office", *rec.Location)
	// Sundays are not public holidays
	assert.False(t, rec.IsHoliday)
	require.NotNil(t, rec.ClockOut)
	assert.Equal(t, domain.DefaultClockOut, *rec.ClockOut)
}

func TestFixPastHolidayAttendance_SecondRunFindsNothing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("alice", "bob")

	first, err := env.svc.FixPastHolidayAttendance(ctx, testTenant)
	require.NoError(t, err)
	assert.Greater(t, first.IssuesFound, 0)
	assert.Equal(t, first.IssuesFound, first.IssuesFixed)

	second, err := env.svc.FixPastHolidayAttendance(ctx, testTenant)
	require.NoError(t, err)
	assert.Equal(t, first.DatesChecked, second.DatesChecked)
	assert.Zero(t, second.IssuesFound)
	assert.Zero(t, second.IssuesFixed)
}

func TestFixPastHolidayAttendance_LeavesPresentAlone(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("alice")
	sunday := pastSunday()

	_, err := env.svc.Mark(ctx, markRequest("alice", sunday))
	require.NoError(t, err)

	_, err = env.svc.FixPastHolidayAttendance(ctx, testTenant)
	require.NoError(t, err)

	rec, err := env.repo.GetByKey(ctx, testTenant, "alice", sunday)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.StatusPresent, rec.Status)
	require.NotNil(t, rec.ClockIn)
	assert.Equal(t, "09:15", *rec.ClockIn)
	assert.Nil(t, rec.ClockOut)
	assert.Nil(t, rec.Notes)
}

func TestFixPastHolidayAttendance_IncludesTenantHolidays(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("alice")

	// A Wednesday inside the window, registered as a tenant holiday
	sunday, err := time.Parse("2006-01-02", pastSunday())
	require.NoError(t, err)
	wednesday := sunday.AddDate(0, 0, 3).Format("2006-01-02")

	_, err = env.svc.MarkHoliday(ctx, domain.MarkHolidayRequest{
		TenantID:    testTenant,
		Date:        wednesday,
		HolidayName: "Founders Day",
		MarkedBy:    "admin",
	})
	require.NoError(t, err)

	result, err := env.svc.FixPastHolidayAttendance(ctx, testTenant)
	require.NoError(t, err)
	assert.Contains(t, result.HolidayDates, wednesday)

	rec, err := env.repo.GetByKey(ctx, testTenant, "alice", wednesday)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.StatusPresent, rec.Status)
	assert.True(t, rec.IsHoliday)
	require.NotNil(t, rec.HolidayName)
	assert.Equal(t, "Founders Day", *rec.HolidayName)
}

func TestFixPastHolidayAttendance_HolidayDatesAreKnownHolidays(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("alice")

	result, err := env.svc.FixPastHolidayAttendance(ctx, testTenant)
	require.NoError(t, err)

	for _, date := range result.HolidayDates {
		d, err := time.Parse("2006-01-02", date)
		require.NoError(t, err)
		_, known := fixtures.PublicHolidays[d.Format("01-02")]
		assert.True(t, known, "unexpected holiday date %s", date)
	}
}

func TestBulkDateUpdate_CreatesFullRange(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("alice")

	location := "head office"
	result, err := env.svc.BulkDateUpdate(ctx, domain.BulkDateUpdateRequest{
		TenantID:  testTenant,
		Username:  "alice",
		StartDate: "2026-08-03",
		EndDate:   "2026-08-07",
		Status:    domain.StatusPresent,
		Location:  &location,
		UpdatedBy: "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, result.DaysProcessed)
	assert.Equal(t, 5, result.RecordsCreated)
	assert.Zero(t, result.RecordsUpdated)
	assert.Empty(t, result.SkippedDays)

	for day := 3; day <= 7; day++ {
		date := fmt.Sprintf("2026-08-%02d", day)
		rec, err := env.repo.GetByKey(ctx, testTenant, "alice", date)
		require.NoError(t, err)
		require.NotNil(t, rec, "missing record for %s", date)
		assert.Equal(t, domain.StatusPresent, rec.Status)
		require.NotNil(t, rec.ClockIn)
		assert.Equal(t, domain.DefaultClockIn, *rec.ClockIn)
		assert.Equal(t, "admin", rec.UpdatedBy)
	}
}

func TestBulkDateUpdate_UpdatesExistingWithoutClobbering(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("alice")

	_, err := env.svc.Mark(ctx, markRequest("alice", "2026-08-04"))
	require.NoError(t, err)

	result, err := env.svc.BulkDateUpdate(ctx, domain.BulkDateUpdateRequest{
		TenantID:  testTenant,
		Username:  "alice",
		StartDate: "2026-08-03",
		EndDate:   "2026-08-05",
		Status:    domain.StatusLeave,
		UpdatedBy: "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.DaysProcessed)
	assert.Equal(t, 2, result.RecordsCreated)
	assert.Equal(t, 1, result.RecordsUpdated)

	rec, err := env.repo.GetByKey(ctx, testTenant, "alice", "2026-08-04")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.StatusLeave, rec.Status)
	// Existing clock data survives a status-only update
	require.NotNil(t, rec.ClockIn)
	assert.Equal(t, "09:15", *rec.ClockIn)

	// Non-present statuses get no default clock_in
	created, err := env.repo.GetByKey(ctx, testTenant, "alice", "2026-08-03")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Nil(t, created.ClockIn)
}

func TestBulkDateUpdate_NormalizesStatusCasing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("alice")

	result, err := env.svc.BulkDateUpdate(ctx, domain.BulkDateUpdateRequest{
		TenantID:  testTenant,
		Username:  "alice",
		StartDate: "2026-08-03",
		EndDate:   "2026-08-03",
		Status:    "Present",
		UpdatedBy: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsCreated)

	// Mixed-case input must land as the canonical status, with the
	// default clock_in present records get
	rec, err := env.repo.GetByKey(ctx, testTenant, "alice", "2026-08-03")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.StatusPresent, rec.Status)
	require.NotNil(t, rec.ClockIn)
	assert.Equal(t, domain.DefaultClockIn, *rec.ClockIn)

	summary, err := env.svc.GetAttendanceSummary(ctx, domain.SummaryRequest{
		TenantID:  testTenant,
		Username:  "alice",
		StartDate: "2026-08-03",
		EndDate:   "2026-08-03",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Present)
}

func TestBulkDateUpdate_RejectsInvertedRange(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv("alice")

	_, err := env.svc.BulkDateUpdate(ctx, domain.BulkDateUpdateRequest{
		TenantID:  testTenant,
		Username:  "alice",
		StartDate: "2026-08-07",
		EndDate:   "2026-08-03",
		Status:    domain.StatusPresent,
		UpdatedBy: "admin",
	})
	require.Error(t, err)
}

// faultyDateRepo fails every write touching one poisoned date.
type faultyDateRepo struct {
	*memory.AttendanceRepository
	failDate string
}

func (f *faultyDateRepo) CreateIfAbsent(ctx context.Context, rec domain.Record) (domain.Record, error) {
	if rec.Date == f.failDate {
		return domain.Record{}, fmt.Errorf("simulated write failure")
	}
	return f.AttendanceRepository.CreateIfAbsent(ctx, rec)
}

func TestBulkDateUpdate_SkipsFailedDayAndContinues(t *testing.T) {
	ctx := context.Background()

	repo := &faultyDateRepo{
		AttendanceRepository: memory.NewAttendanceRepository(),
		failDate:             "2026-08-04",
	}
	roster := memory.NewRosterProvider()
	roster.SetRoster(testTenant, []string{"alice"})
	svc := attendanceService.NewAttendanceService(
		repo, memory.NewHolidayRepository(), roster,
		memory.NewSettingsStore(), &recordingDispatcher{})

	result, err := svc.BulkDateUpdate(ctx, domain.BulkDateUpdateRequest{
		TenantID:  testTenant,
		Username:  "alice",
		StartDate: "2026-08-03",
		EndDate:   "2026-08-05",
		Status:    domain.StatusPresent,
		UpdatedBy: "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.DaysProcessed)
	assert.Equal(t, 2, result.RecordsCreated)
	require.Len(t, result.SkippedDays, 1)
	assert.Equal(t, "2026-08-04", result.SkippedDays[0].Date)
	assert.Contains(t, result.SkippedDays[0].Error, "simulated write failure")

	// The days around the failure still landed
	rec, err := repo.GetByKey(ctx, testTenant, "alice", "2026-08-05")
	require.NoError(t, err)
	assert.NotNil(t, rec)
}
