package attendance

import (
	"context"
)

// Repository is the keyed record store. Implementations must enforce the
// one-record-per-(tenant, username, date) invariant at the storage layer:
// CreateIfAbsent has to be atomic so that concurrent duplicate marks
// resolve to exactly one success.
type Repository interface {
	// GetByKey returns the record for (tenantID, username, date), or
	// (nil, nil) when none exists.
	GetByKey(ctx context.Context, tenantID, username, date string) (*Record, error)

	// CreateIfAbsent inserts the record unless one already exists for its
	// natural key, returning ErrAlreadyMarked on the duplicate.
	CreateIfAbsent(ctx context.Context, rec Record) (Record, error)

	// Upsert inserts or replaces the record for its natural key.
	Upsert(ctx context.Context, rec Record) (Record, error)

	// QueryByDateRange returns all records for the tenant with
	// start <= date <= end; username narrows to one user when non-nil.
	QueryByDateRange(ctx context.Context, tenantID string, username *string, start, end string) ([]Record, error)
}
