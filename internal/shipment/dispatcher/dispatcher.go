// Package dispatcher runs shipment dispatches off the request path.
package dispatcher

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/shipment"
	"go.uber.org/zap"
)

type Config struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

type Dispatcher struct {
	uc     shipment.UseCase
	cfg    Config
	jobs   chan string
	logger logger.ZapLogger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

func New(uc shipment.UseCase, cfg Config, log logger.ZapLogger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Second
	}
	return &Dispatcher{
		uc:     uc,
		cfg:    cfg,
		jobs:   make(chan string, cfg.QueueSize),
		logger: log,
	}
}

// Start launches the workers. They drain the queue until Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.work(ctx, i)
	}
	d.logger.Info("Shipment dispatcher started", zap.Int("workers", d.cfg.Workers))
}

// Schedule enqueues orderID without blocking. It reports false when the
// queue is full or the dispatcher is stopped.
func (d *Dispatcher) Schedule(orderID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return false
	}

	select {
	case d.jobs <- orderID:
		return true
	default:
		d.logger.Warn("Shipment queue full, dropping dispatch", zap.String("order_id", orderID))
		return false
	}
}

// Stop closes the queue and waits for queued jobs, bounded by ctx.
func (d *Dispatcher) Stop(ctx context.Context) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.jobs)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.logger.Warn("Shipment dispatcher stop timed out, abandoning queued jobs")
		if d.cancel != nil {
			d.cancel()
		}
		<-done
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.logger.Info("Shipment dispatcher stopped")
}

func (d *Dispatcher) work(ctx context.Context, id int) {
	defer d.wg.Done()
	for orderID := range d.jobs {
		if ctx.Err() != nil {
			continue
		}
		d.run(ctx, orderID, id)
	}
}

func (d *Dispatcher) run(ctx context.Context, orderID string, worker int) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.JobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Shipment dispatch panicked", zap.String("order_id", orderID), zap.Any("panic", r))
		}
	}()

	if err := d.uc.DispatchOrder(ctx, orderID); err != nil {
		d.logger.Error("Shipment dispatch failed",
			zap.String("order_id", orderID),
			zap.Int("worker", worker),
			zap.Error(err),
		)
	}
}
