package notification

import (
	"time"
)

// Event is the attendance action that triggered a remote-work alert.
type Event string

const (
	EventClockIn  Event = "clock_in"
	EventClockOut Event = "clock_out"
)

// RemoteWorkAlert is the payload delivered to the external gateway.
type RemoteWorkAlert struct {
	TenantID  string    `json:"tenant_id"`
	Username  string    `json:"username"`
	Event     Event     `json:"event"`
	Timestamp time.Time `json:"timestamp"`
}

// Dispatcher delivers remote-work alerts. Delivery is best-effort and
// fire-and-forget: a returned error means the alert could not even be
// queued, and callers must never fail the attendance write because of it.
type Dispatcher interface {
	NotifyRemoteWork(alert RemoteWorkAlert) error
}
