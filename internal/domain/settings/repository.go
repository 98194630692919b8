package settings

import (
	"context"
)

// Store reads per-tenant attendance settings. Mutation happens in an
// external admin-configuration flow, so only the read side is modeled here.
type Store interface {
	// GetSettings returns the tenant's settings, falling back to
	// Defaults(tenantID) when no row exists.
	GetSettings(ctx context.Context, tenantID string) (AttendanceSettings, error)
}
