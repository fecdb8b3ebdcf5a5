package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/platform/metrics"
)

// ErrDispatcherClosed is returned by Shutdown when called twice.
var ErrDispatcherClosed = errors.New("notification dispatcher already closed")

// Publisher delivers an event to one downstream system.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, event domain.Event) error
}

// Dispatcher queues events in memory and delivers them from background workers.
// Publish never blocks: when the queue is full the event is dropped and logged.
type Dispatcher struct {
	publishers     []Publisher
	queue          chan domain.Event
	workers        int
	publishTimeout time.Duration
	logger         *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithPublishTimeout bounds each delivery attempt.
func WithPublishTimeout(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) {
		disp.publishTimeout = d
	}
}

// NewDispatcher creates a dispatcher fanning every event out to publishers.
func NewDispatcher(logger *slog.Logger, bufferSize, workers int, publishers []Publisher, opts ...DispatcherOption) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	d := &Dispatcher{
		publishers:     publishers,
		queue:          make(chan domain.Event, bufferSize),
		workers:        workers,
		publishTimeout: 5 * time.Second,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
}

// Publish enqueues event for delivery.
func (d *Dispatcher) Publish(ctx context.Context, event domain.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher closed")
		return
	}

	select {
	case d.queue <- event:
	default:
		d.drop(event, "queue full")
	}
}

// Shutdown stops accepting events and waits for queued ones to be delivered or ctx to end.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for event := range d.queue {
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event domain.Event) {
	for _, p := range d.publishers {
		ctx, cancel := context.WithTimeout(context.Background(), d.publishTimeout)
		err := p.Publish(ctx, event)
		cancel()

		if err != nil {
			metrics.NotificationsTotal.WithLabelValues(p.Name(), metrics.OutcomeFailed).Inc()
			d.logger.Error("Failed to publish notification",
				slog.String("publisher", p.Name()),
				slog.String("topic", event.Topic),
				slog.String("key", event.Key),
				slog.String("error", err.Error()))
			continue
		}
		metrics.NotificationsTotal.WithLabelValues(p.Name(), metrics.OutcomeOK).Inc()
	}
}

func (d *Dispatcher) drop(event domain.Event, reason string) {
	metrics.NotificationsTotal.WithLabelValues("dispatcher", metrics.OutcomeDropped).Inc()
	d.logger.Warn("Dropping notification",
		slog.String("reason", reason),
		slog.String("topic", event.Topic),
		slog.String("key", event.Key))
}
