package holiday

import (
	"time"
)

// Holiday is an org-wide holiday, keyed by (tenant, date). Created once by
// the reconciler; read-only afterward.
type Holiday struct {
	ID        string
	TenantID  string
	Date      string // YYYY-MM-DD
	Name      string
	CreatedBy string
	CreatedAt time.Time
}
