package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dbmshealthcare/clinic-portal/internal/api/metrics"
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher persists audit events off the request path. Events are sharded
// on the session id, so one visitor's events are stored in the order they
// happened.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and stop
// once ctx is cancelled; Wait blocks until they have.
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

// Record hands an event to the worker owning its session. It never blocks:
// when that worker is saturated the event is dropped and counted.
func (d *Dispatcher) Record(e domain.AuditEvent) {
	idx := d.shardIndex(e.SessionID)
	select {
	case d.workers[idx] <- e:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsTotal.WithLabelValues(string(e.Action), "dropped").Inc()
		d.log.Warn().
			Str("action", string(e.Action)).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a session id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case e := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.store(context.Background(), id, e)
		}
	}
}

// drain persists what is already queued at shutdown.
func (d *Dispatcher) drain(id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case e := <-ch:
			d.store(context.Background(), id, e)
		default:
			return
		}
	}
}

func (d *Dispatcher) store(ctx context.Context, id int, e domain.AuditEvent) {
	if err := d.repo.Insert(ctx, &e); err != nil {
		metrics.AuditEventsTotal.WithLabelValues(string(e.Action), "failed").Inc()
		d.log.Error().Err(err).
			Str("action", string(e.Action)).
			Str("session_id", e.SessionID).
			Int("worker_id", id).
			Msg("audit event not stored")
		return
	}
	metrics.AuditEventsTotal.WithLabelValues(string(e.Action), "stored").Inc()
}
