package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/moneytrail/wallet-api/internal/api/metrics"
	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Dispatcher routes session events to a fixed set of workers using consistent
// hashing on the username, guaranteeing per-user event ordering.
type Dispatcher struct {
	workers []chan domain.SessionEvent
	service ports.SessionEventService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

var _ ports.SessionRecorder = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.SessionEventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.SessionEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.SessionEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record hands an event to the worker responsible for its username. It never
// blocks: when that worker's buffer is full the event is dropped and counted.
func (d *Dispatcher) Record(event domain.SessionEvent) {
	idx := d.shardIndex(event.Username)
	select {
	case d.workers[idx] <- event:
		metrics.SessionEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.SessionEventsErrorsTotal.WithLabelValues("queue_full").Inc()
		d.log.Warn().
			Str("username", event.Username).
			Str("kind", string(event.Kind)).
			Int("worker_id", idx).
			Msg("session event dropped, queue full")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.SessionEvent) {
	defer d.wg.Done()
	workerID := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx), id, workerID, ch)
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.process(ctx, id, workerID, event)
		}
	}
}

// drain persists whatever is still buffered once ctx is cancelled. Events
// still queued after drainTimeout are counted as shutdown drops.
func (d *Dispatcher) drain(ctx context.Context, id int, workerID string, ch <-chan domain.SessionEvent) {
	drainCtx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			if drainCtx.Err() != nil {
				metrics.SessionEventsQueueDepth.WithLabelValues(workerID).Dec()
				metrics.SessionEventsErrorsTotal.WithLabelValues("shutdown").Inc()
				continue
			}
			d.process(drainCtx, id, workerID, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, workerID string, event domain.SessionEvent) {
	metrics.SessionEventsQueueDepth.WithLabelValues(workerID).Dec()

	start := time.Now()
	if err := d.service.Process(ctx, event); err != nil {
		metrics.SessionEventsErrorsTotal.WithLabelValues("store_failed").Inc()
		d.log.Error().Err(err).
			Str("username", event.Username).
			Int("worker_id", id).
			Msg("session event processing failed")
		return
	}
	metrics.SessionEventsProcessedTotal.WithLabelValues(string(event.Kind)).Inc()
	metrics.SessionEventDuration.WithLabelValues(string(event.Kind)).Observe(time.Since(start).Seconds())
}
