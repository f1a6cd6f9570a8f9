package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher hands session changes to a fixed set of audit workers. Changes
// of one session always land on the same worker, so they are stored in the
// order they happened.
type Dispatcher struct {
	workers []chan domain.SessionChange
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
		workers: make([]chan domain.SessionChange, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.SessionChange, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their queue and stop
// when ctx is cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Publish enqueues change without blocking. When the worker queue is full
// the change is dropped and logged, since auditing must never stall a login.
func (d *Dispatcher) Publish(change domain.SessionChange) {
	select {
	case d.workers[d.shardIndex(change.SessionID)] <- change:
	default:
		d.log.Warn().
			Str("session_id", change.SessionID).
			Str("kind", string(change.Kind)).
			Msg("audit queue full, change dropped")
	}
}

// shardIndex maps a session id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.SessionChange) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case change := <-ch:
			d.store(ctx, id, change)
		}
	}
}

// drain flushes what is already queued using a fresh context.
func (d *Dispatcher) drain(id int, ch <-chan domain.SessionChange) {
	for {
		select {
		case change := <-ch:
			d.store(context.Background(), id, change)
		default:
			return
		}
	}
}

func (d *Dispatcher) store(ctx context.Context, id int, change domain.SessionChange) {
	if err := d.repo.InsertChange(ctx, change); err != nil {
		d.log.Error().Err(err).
			Str("session_id", change.SessionID).
			Int("worker_id", id).
			Msg("audit insert failed")
	}
}
