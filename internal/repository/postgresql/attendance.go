package postgresql

import (
	"context"
	"fmt"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	tenant_id, username, to_char(date, 'YYYY-MM-DD'),
	status, work_mode, clock_in, clock_out,
	location, notes, is_holiday, holiday_name,
	updated_by, created_at, updated_at`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.TenantID, &rec.Username, &rec.Date,
		&rec.Status, &rec.WorkMode, &rec.ClockIn, &rec.ClockOut,
		&rec.Location, &rec.Notes, &rec.IsHoliday, &rec.HolidayName,
		&rec.UpdatedBy, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// GetByKey implements attendance.Repository.
func (a *attendanceRepository) GetByKey(ctx context.Context, tenantID, username, date string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE tenant_id = $1
		  AND username = $2
		  AND date = $3
		LIMIT 1
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, tenantID, username, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No record for the day
		}
		return nil, fmt.Errorf("failed to get attendance by key: %w", err)
	}

	return &rec, nil
}

// CreateIfAbsent implements attendance.Repository. The unique index on
// (tenant_id, username, date) is what turns concurrent duplicate marks
// into exactly one success.
func (a *attendanceRepository) CreateIfAbsent(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			tenant_id, username, date, status, work_mode,
			clock_in, clock_out, location, notes,
			is_holiday, holiday_name, updated_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (tenant_id, username, date) DO NOTHING
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.TenantID,
		rec.Username,
		rec.Date,
		rec.Status,
		rec.WorkMode,
		rec.ClockIn,
		rec.ClockOut,
		rec.Location,
		rec.Notes,
		rec.IsHoliday,
		rec.HolidayName,
		rec.UpdatedBy,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			// DO NOTHING returned no row: another writer got there first
			return attendance.Record{}, attendance.ErrAlreadyMarked
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return rec, nil
}

// Upsert implements attendance.Repository.
func (a *attendanceRepository) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			tenant_id, username, date, status, work_mode,
			clock_in, clock_out, location, notes,
			is_holiday, holiday_name, updated_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (tenant_id, username, date) DO UPDATE SET
			status = EXCLUDED.status,
			work_mode = EXCLUDED.work_mode,
			clock_in = EXCLUDED.clock_in,
			clock_out = EXCLUDED.clock_out,
			location = EXCLUDED.location,
			notes = EXCLUDED.notes,
			is_holiday = EXCLUDED.is_holiday,
			holiday_name = EXCLUDED.holiday_name,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.TenantID,
		rec.Username,
		rec.Date,
		rec.Status,
		rec.WorkMode,
		rec.ClockIn,
		rec.ClockOut,
		rec.Location,
		rec.Notes,
		rec.IsHoliday,
		rec.HolidayName,
		rec.UpdatedBy,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return rec, nil
}

// QueryByDateRange implements attendance.Repository.
func (a *attendanceRepository) QueryByDateRange(ctx context.Context, tenantID string, username *string, start, end string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "tenant_id = $1 AND date >= $2 AND date <= $3"
	args := []interface{}{tenantID, start, end}

	if username != nil && *username != "" {
		baseWhere += " AND username = $4"
		args = append(args, *username)
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE ` + baseWhere + `
		ORDER BY date ASC, username ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}
