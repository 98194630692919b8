package holiday

import (
	"context"
)

type Repository interface {
	// UpsertByDate inserts the holiday or returns the existing row for
	// (tenantID, date); registering the same holiday twice is not an error.
	UpsertByDate(ctx context.Context, h Holiday) (Holiday, error)

	// GetByDate returns the holiday for the date, or (nil, nil) when none.
	GetByDate(ctx context.Context, tenantID, date string) (*Holiday, error)

	// ListByDateRange returns holidays with start <= date <= end.
	ListByDateRange(ctx context.Context, tenantID, start, end string) ([]Holiday, error)
}
