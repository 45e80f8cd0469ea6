package notify

import (
	"context"
	"sync"
	"time"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/logger"
)

type DispatcherConfig struct {
	Workers         int
	QueueSize       int
	DeliveryTimeout time.Duration
}

// Dispatcher queues events and fans each one out to every sink from a fixed
// pool of workers. Notify never blocks: when the queue is full the event is
// dropped and logged.
type Dispatcher struct {
	jobs    chan domain.Event
	sinks   []Sink
	workers int
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(cfg DispatcherConfig, sinks ...Sink) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 10 * time.Second
	}
	return &Dispatcher{
		jobs:    make(chan domain.Event, cfg.QueueSize),
		sinks:   sinks,
		workers: cfg.Workers,
		timeout: cfg.DeliveryTimeout,
	}
}

// Start launches the workers. They run until Close has drained the queue, so
// events queued by requests still in flight during shutdown are delivered;
// cancelling ctx does not stop them.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
	logger.Info("Notification dispatcher started", "workers", d.workers, "sinks", len(d.sinks))
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	ctx = context.WithoutCancel(ctx)
	for ev := range d.jobs {
		d.deliver(ctx, ev)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev domain.Event) {
	for _, sink := range d.sinks {
		sctx, cancel := context.WithTimeout(ctx, d.timeout)
		err := sink.Deliver(sctx, ev)
		cancel()
		if err != nil {
			logger.Error("Notification delivery failed", "sink", sink.Name(), "eventID", ev.ID, "type", ev.Type, "recipientID", ev.RecipientID, "error", err)
			continue
		}
		logger.Debug("Notification delivered", "sink", sink.Name(), "eventID", ev.ID, "type", ev.Type)
	}
}

func (d *Dispatcher) Notify(_ context.Context, events ...domain.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, ev := range events {
		if d.closed {
			logger.Warn("Notification dropped, dispatcher closed", "eventID", ev.ID, "type", ev.Type)
			continue
		}
		select {
		case d.jobs <- ev:
		default:
			logger.Warn("Notification dropped, queue full", "eventID", ev.ID, "type", ev.Type, "recipientID", ev.RecipientID)
		}
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()
	d.wg.Wait()
}
