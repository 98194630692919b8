package memory

import (
	"context"
	"sync"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
)

// AttendanceRepository is a mutex-guarded map keyed by the deterministic
// natural key. CreateIfAbsent is atomic under the lock, matching the
// guarantee the PostgreSQL adapter gets from its unique index.
type AttendanceRepository struct {
	mu      sync.Mutex
	records map[string]attendance.Record // tenantID + "|" + Record.Key()
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{
		records: make(map[string]attendance.Record),
	}
}

func recordKey(tenantID, username, date string) string {
	return tenantID + "|" + username + "|" + date
}

// GetByKey implements attendance.Repository.
func (m *AttendanceRepository) GetByKey(ctx context.Context, tenantID, username, date string) (*attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[recordKey(tenantID, username, date)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// CreateIfAbsent implements attendance.Repository.
func (m *AttendanceRepository) CreateIfAbsent(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := recordKey(rec.TenantID, rec.Username, rec.Date)
	if _, exists := m.records[key]; exists {
		return attendance.Record{}, attendance.ErrAlreadyMarked
	}

	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m.records[key] = rec

	return rec, nil
}

// Upsert implements attendance.Repository.
func (m *AttendanceRepository) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := recordKey(rec.TenantID, rec.Username, rec.Date)
	now := time.Now().UTC()
	if existing, ok := m.records[key]; ok {
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	m.records[key] = rec

	return rec, nil
}

// QueryByDateRange implements attendance.Repository.
func (m *AttendanceRepository) QueryByDateRange(ctx context.Context, tenantID string, username *string, start, end string) ([]attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []attendance.Record
	for _, rec := range m.records {
		if rec.TenantID != tenantID {
			continue
		}
		if username != nil && *username != "" && rec.Username != *username {
			continue
		}
		// ISO dates compare lexicographically
		if rec.Date < start || rec.Date > end {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}
