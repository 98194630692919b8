package memory

import (
	"context"
	"sort"
	"sync"
)

type RosterProvider struct {
	mu      sync.RWMutex
	rosters map[string][]string // tenantID -> active usernames
}

func NewRosterProvider() *RosterProvider {
	return &RosterProvider{
		rosters: make(map[string][]string),
	}
}

// SetRoster replaces the tenant's active roster.
func (m *RosterProvider) SetRoster(tenantID string, usernames []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rosters[tenantID] = append([]string(nil), usernames...)
}

// ActiveUsernames implements roster.Provider.
func (m *RosterProvider) ActiveUsernames(ctx context.Context, tenantID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	usernames := append([]string(nil), m.rosters[tenantID]...)
	sort.Strings(usernames)
	return usernames, nil
}

// Tenants implements roster.Provider.
func (m *RosterProvider) Tenants(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var tenantIDs []string
	for tenantID, usernames := range m.rosters {
		if len(usernames) > 0 {
			tenantIDs = append(tenantIDs, tenantID)
		}
	}
	sort.Strings(tenantIDs)
	return tenantIDs, nil
}
