package postgresql

import (
	"context"
	"fmt"

	"github.com/attendly/attendance-backend-go/internal/domain/settings"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsStore struct {
	db *database.DB
}

// GetSettings implements settings.Store. A tenant with no stored row gets
// the documented defaults.
func (s *settingsStore) GetSettings(ctx context.Context, tenantID string) (settings.AttendanceSettings, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT tenant_id, deadline_hour, deadline_minute,
			   auto_mark_absent_enabled, auto_mark_absent_time,
			   half_day_enabled, timezone_offset_minutes
		FROM attendance_settings
		WHERE tenant_id = $1
		LIMIT 1
	`

	var st settings.AttendanceSettings
	err := q.QueryRow(ctx, query, tenantID).Scan(
		&st.TenantID, &st.DeadlineHour, &st.DeadlineMinute,
		&st.AutoMarkAbsentEnabled, &st.AutoMarkAbsentTime,
		&st.HalfDayEnabled, &st.TimezoneOffsetMinutes,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settings.Defaults(tenantID), nil
		}
		return settings.AttendanceSettings{}, fmt.Errorf("failed to get attendance settings: %w", err)
	}

	return st, nil
}

func NewSettingsStore(db *database.DB) settings.Store {
	return &settingsStore{db: db}
}
