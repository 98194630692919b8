package memory

import (
	"context"
	"sync"

	"github.com/attendly/attendance-backend-go/internal/domain/settings"
)

type SettingsStore struct {
	mu       sync.RWMutex
	settings map[string]settings.AttendanceSettings
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{
		settings: make(map[string]settings.AttendanceSettings),
	}
}

// Put stores tenant settings, for wiring up tests and local runs.
func (m *SettingsStore) Put(st settings.AttendanceSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[st.TenantID] = st
}

// GetSettings implements settings.Store.
func (m *SettingsStore) GetSettings(ctx context.Context, tenantID string) (settings.AttendanceSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if st, ok := m.settings[tenantID]; ok {
		return st, nil
	}
	return settings.Defaults(tenantID), nil
}
