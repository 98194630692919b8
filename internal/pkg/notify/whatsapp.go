package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/notification"
)

// Config holds dispatcher configuration
type Config struct {
	WebhookURL     string
	WorkerCount    int           // default: 2
	QueueSize      int           // default: 256
	RequestTimeout time.Duration // default: 5 seconds
}

// dispatcher queues remote-work alerts and delivers them to a
// WhatsApp-gateway-style webhook from background workers. Delivery
// failures are logged and dropped; nothing propagates to the caller.
type dispatcher struct {
	config Config
	client *http.Client

	queue  chan notification.RemoteWorkAlert
	wg     sync.WaitGroup
	once   sync.Once
	stopCh chan struct{}
}

var errQueueFull = errors.New("notification queue is full")

// NewWhatsAppDispatcher creates a dispatcher with background workers.
func NewWhatsAppDispatcher(cfg Config) notification.Dispatcher {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 256
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 5 * time.Second
	}

	d := &dispatcher{
		config: cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		queue:  make(chan notification.RemoteWorkAlert, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	slog.Info("Notify dispatcher started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)

	return d
}

// NotifyRemoteWork implements notification.Dispatcher. Non-blocking: when
// the queue is full the alert is dropped and reported to the caller, who
// logs and moves on.
func (d *dispatcher) NotifyRemoteWork(alert notification.RemoteWorkAlert) error {
	select {
	case d.queue <- alert:
		return nil
	default:
		return errQueueFull
	}
}

func (d *dispatcher) worker() {
	defer d.wg.Done()

	for {
		select {
		case <-d.stopCh:
			// Drain whatever is left before exiting
			for {
				select {
				case alert := <-d.queue:
					d.send(alert)
				default:
					return
				}
			}
		case alert := <-d.queue:
			d.send(alert)
		}
	}
}

func (d *dispatcher) send(alert notification.RemoteWorkAlert) {
	body, err := json.Marshal(alert)
	if err != nil {
		slog.Error("Notify: failed to encode alert", "username", alert.Username, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.config.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		slog.Error("Notify: failed to build request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		slog.Error("Notify: webhook delivery failed",
			"username", alert.Username,
			"event", alert.Event,
			"error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("Notify: webhook returned non-2xx",
			"username", alert.Username,
			"event", alert.Event,
			"status", resp.StatusCode)
		return
	}

	slog.Debug("Notify: remote work alert delivered", "username", alert.Username, "event", alert.Event)
}

// Stop shuts the workers down after draining the queue.
func (d *dispatcher) Stop() {
	d.once.Do(func() {
		close(d.stopCh)
	})
	d.wg.Wait()
}

// NoopDispatcher drops every alert. Used when no webhook is configured.
type NoopDispatcher struct{}

func (NoopDispatcher) NotifyRemoteWork(notification.RemoteWorkAlert) error { return nil }
