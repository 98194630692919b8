package attendance_test

import (
	"context"
	"testing"

	domain "github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRecord(t *testing.T, env *testEnv, date, status string, workMode, clockIn, clockOut *string) {
	t.Helper()
	_, err := env.repo.CreateIfAbsent(context.Background(), domain.Record{
		TenantID:  testTenant,
		Username:  "alice",
		Date:      date,
		Status:    status,
		WorkMode:  workMode,
		ClockIn:   clockIn,
		ClockOut:  clockOut,
		UpdatedBy: "admin",
	})
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }

func TestGetAttendanceSummary(t *testing.T) {
	env := newTestEnv("alice")

	office := strPtr(domain.WorkModeOffice)
	remote := strPtr(domain.WorkModeRemoteHome)

	// 8h, 4h, and a half day of 3.5h
	seedRecord(t, env, "2026-08-03", domain.StatusPresent, office, strPtr("09:00"), strPtr("17:00"))
	seedRecord(t, env, "2026-08-04", domain.StatusPresent, remote, strPtr("10:00"), strPtr("14:00"))
	seedRecord(t, env, "2026-08-05", domain.StatusHalfDay, office, strPtr("09:00"), strPtr("12:30"))
	seedRecord(t, env, "2026-08-06", domain.StatusAbsent, nil, nil, nil)
	seedRecord(t, env, "2026-08-07", domain.StatusLeave, nil, nil, nil)

	summary, err := env.svc.GetAttendanceSummary(context.Background(), domain.SummaryRequest{
		TenantID:  testTenant,
		Username:  "alice",
		StartDate: "2026-08-01",
		EndDate:   "2026-08-10",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", summary.Username)
	assert.Equal(t, 10, summary.TotalDays)
	assert.Equal(t, 5, summary.DaysWithRecords)
	assert.Equal(t, 2, summary.Present)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 1, summary.HalfDay)
	assert.Equal(t, 1, summary.Leave)
	assert.Equal(t, 2, summary.ByWorkMode[domain.WorkModeOffice])
	assert.Equal(t, 1, summary.ByWorkMode[domain.WorkModeRemoteHome])
	assert.InDelta(t, 15.5, summary.TotalHours, 0.001)
	assert.InDelta(t, 3.1, summary.AverageHours, 0.001)
}

func TestGetAttendanceSummary_EmptyRange(t *testing.T) {
	env := newTestEnv("alice")

	summary, err := env.svc.GetAttendanceSummary(context.Background(), domain.SummaryRequest{
		TenantID:  testTenant,
		Username:  "alice",
		StartDate: "2026-08-01",
		EndDate:   "2026-08-07",
	})
	require.NoError(t, err)

	assert.Equal(t, 7, summary.TotalDays)
	assert.Zero(t, summary.DaysWithRecords)
	assert.Zero(t, summary.TotalHours)
	assert.Zero(t, summary.AverageHours)
}

func TestGetAttendanceSummary_OpenRecordsContributeNoHours(t *testing.T) {
	env := newTestEnv("alice")

	// Clocked in but never out
	seedRecord(t, env, "2026-08-03", domain.StatusPresent, nil, strPtr("09:00"), nil)

	summary, err := env.svc.GetAttendanceSummary(context.Background(), domain.SummaryRequest{
		TenantID:  testTenant,
		Username:  "alice",
		StartDate: "2026-08-03",
		EndDate:   "2026-08-03",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Present)
	assert.Zero(t, summary.TotalHours)
	assert.Zero(t, summary.AverageHours)
}

func TestGetAttendanceSummary_ScopedToUser(t *testing.T) {
	env := newTestEnv("alice", "bob")
	ctx := context.Background()

	_, err := env.svc.Mark(ctx, markRequest("alice", "2026-08-03"))
	require.NoError(t, err)
	_, err = env.svc.Mark(ctx, markRequest("bob", "2026-08-03"))
	require.NoError(t, err)

	summary, err := env.svc.GetAttendanceSummary(ctx, domain.SummaryRequest{
		TenantID:  testTenant,
		Username:  "alice",
		StartDate: "2026-08-01",
		EndDate:   "2026-08-31",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DaysWithRecords)
}

func TestGetAttendanceSummary_Validation(t *testing.T) {
	env := newTestEnv("alice")

	_, err := env.svc.GetAttendanceSummary(context.Background(), domain.SummaryRequest{
		TenantID:  testTenant,
		Username:  "",
		StartDate: "2026-08-10",
		EndDate:   "2026-08-01",
	})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "end_date")
}

func TestGetMonthlyAttendance(t *testing.T) {
	env := newTestEnv("alice")

	seedRecord(t, env, "2026-02-10", domain.StatusPresent, nil, strPtr("09:00"), strPtr("17:00"))
	// Outside the requested month
	seedRecord(t, env, "2026-03-01", domain.StatusPresent, nil, strPtr("09:00"), strPtr("17:00"))

	summary, err := env.svc.GetMonthlyAttendance(context.Background(), testTenant, "alice", 2026, 2)
	require.NoError(t, err)

	assert.Equal(t, "2026-02-01", summary.StartDate)
	assert.Equal(t, "2026-02-28", summary.EndDate)
	assert.Equal(t, 28, summary.TotalDays)
	assert.Equal(t, 1, summary.DaysWithRecords)
}

func TestGetMonthlyAttendance_Validation(t *testing.T) {
	env := newTestEnv("alice")
	ctx := context.Background()

	_, err := env.svc.GetMonthlyAttendance(ctx, testTenant, "alice", 2026, 13)
	require.Error(t, err)

	_, err = env.svc.GetMonthlyAttendance(ctx, testTenant, "", 2026, 2)
	require.Error(t, err)
}
