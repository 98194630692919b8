package memory

import (
	"context"
	"sync"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/holiday"
	"github.com/google/uuid"
)

type HolidayRepository struct {
	mu       sync.Mutex
	holidays map[string]holiday.Holiday // tenantID + "|" + date
}

func NewHolidayRepository() *HolidayRepository {
	return &HolidayRepository{
		holidays: make(map[string]holiday.Holiday),
	}
}

// UpsertByDate implements holiday.Repository.
func (m *HolidayRepository) UpsertByDate(ctx context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := hol.TenantID + "|" + hol.Date
	if existing, ok := m.holidays[key]; ok {
		return existing, nil
	}

	if hol.ID == "" {
		hol.ID = uuid.New().String()
	}
	hol.CreatedAt = time.Now().UTC()
	m.holidays[key] = hol

	return hol, nil
}

// GetByDate implements holiday.Repository.
func (m *HolidayRepository) GetByDate(ctx context.Context, tenantID, date string) (*holiday.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hol, ok := m.holidays[tenantID+"|"+date]
	if !ok {
		return nil, nil
	}
	return &hol, nil
}

// ListByDateRange implements holiday.Repository.
func (m *HolidayRepository) ListByDateRange(ctx context.Context, tenantID, start, end string) ([]holiday.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var holidays []holiday.Holiday
	for _, hol := range m.holidays {
		if hol.TenantID != tenantID {
			continue
		}
		if hol.Date < start || hol.Date > end {
			continue
		}
		holidays = append(holidays, hol)
	}

	return holidays, nil
}
