package roster

import (
	"context"
)

// Provider exposes the active roster per tenant. Batch jobs iterate it;
// nothing in this core mutates it.
type Provider interface {
	// ActiveUsernames returns the usernames of all active users in the tenant.
	ActiveUsernames(ctx context.Context, tenantID string) ([]string, error)

	// Tenants returns every tenant id with at least one active user.
	// The cron jobs use it to sweep all organizations.
	Tenants(ctx context.Context) ([]string, error)
}
