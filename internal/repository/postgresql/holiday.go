package postgresql

import (
	"context"
	"fmt"

	"github.com/attendly/attendance-backend-go/internal/domain/holiday"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type holidayRepository struct {
	db *database.DB
}

// UpsertByDate implements holiday.Repository. The no-op DO UPDATE keeps
// RETURNING working on conflict, so re-registering a holiday hands back
// the existing row instead of failing.
func (h *holidayRepository) UpsertByDate(ctx context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	if hol.ID == "" {
		hol.ID = uuid.New().String()
	}

	query := `
		INSERT INTO holidays (id, tenant_id, date, name, created_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, date) DO UPDATE SET name = holidays.name
		RETURNING id, name, created_by, created_at
	`

	err := q.QueryRow(ctx, query,
		hol.ID, hol.TenantID, hol.Date, hol.Name, hol.CreatedBy,
	).Scan(&hol.ID, &hol.Name, &hol.CreatedBy, &hol.CreatedAt)

	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to upsert holiday: %w", err)
	}

	return hol, nil
}

// GetByDate implements holiday.Repository.
func (h *holidayRepository) GetByDate(ctx context.Context, tenantID, date string) (*holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, tenant_id, to_char(date, 'YYYY-MM-DD'), name, created_by, created_at
		FROM holidays
		WHERE tenant_id = $1 AND date = $2
		LIMIT 1
	`

	var hol holiday.Holiday
	err := q.QueryRow(ctx, query, tenantID, date).Scan(
		&hol.ID, &hol.TenantID, &hol.Date, &hol.Name, &hol.CreatedBy, &hol.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holiday by date: %w", err)
	}

	return &hol, nil
}

// ListByDateRange implements holiday.Repository.
func (h *holidayRepository) ListByDateRange(ctx context.Context, tenantID, start, end string) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, tenant_id, to_char(date, 'YYYY-MM-DD'), name, created_by, created_at
		FROM holidays
		WHERE tenant_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, tenantID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var hol holiday.Holiday
		if err := rows.Scan(&hol.ID, &hol.TenantID, &hol.Date, &hol.Name, &hol.CreatedBy, &hol.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, hol)
	}

	return holidays, nil
}

func NewHolidayRepository(db *database.DB) holiday.Repository {
	return &holidayRepository{db: db}
}
