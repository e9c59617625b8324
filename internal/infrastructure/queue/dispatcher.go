package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/miapp/portal/internal/api/metrics"
	"github.com/miapp/portal/internal/core/domain"
	"github.com/miapp/portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Dispatcher routes activity events to a fixed set of workers using
// consistent hashing on the session id, so one session's events are stored
// in the order they happened.
type Dispatcher struct {
	workers []chan domain.ActivityEvent
	service ports.ActivityService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ActivityEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ActivityEvent, channelBuffer)
	}
	return d
}

var _ ports.ActivityRecorder = (*Dispatcher)(nil)

// Start launches all worker goroutines. When ctx is cancelled each worker
// processes what is still buffered, bounded by drainTimeout, and returns;
// Wait blocks until they have.
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

// Record hands ev to the worker responsible for its session. It never
// blocks: when that worker's buffer is full the event is dropped.
func (d *Dispatcher) Record(ev domain.ActivityEvent) {
	idx := d.shardIndex(ev.SessionID)
	select {
	case d.workers[idx] <- ev:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().
			Str("session", ev.SessionID).
			Str("kind", string(ev.Kind)).
			Int("worker_id", idx).
			Msg("activity queue full, event dropped")
	}
}

// shardIndex maps a session id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ActivityEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case ev := <-ch:
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.process(ctx, id, ev)
		}
	}
}

// drain processes the events left in ch after shutdown began. Events still
// buffered when drainTimeout expires are counted as dropped.
func (d *Dispatcher) drain(id int, ch <-chan domain.ActivityEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	processed := 0
	for {
		select {
		case ev := <-ch:
			if ctx.Err() != nil {
				dropped := 1 + len(ch)
				for len(ch) > 0 {
					<-ch
				}
				metrics.ActivityDroppedTotal.Add(float64(dropped))
				d.log.Warn().Int("worker_id", id).Int("processed", processed).Int("dropped", dropped).
					Msg("activity drain timed out")
				return
			}
			d.process(ctx, id, ev)
			processed++
		default:
			metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			if processed > 0 {
				d.log.Info().Int("worker_id", id).Int("processed", processed).Msg("activity queue drained")
			}
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, ev domain.ActivityEvent) {
	start := time.Now()
	err := d.service.Process(ctx, ev)
	result := string(ev.Kind)
	if err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("session", ev.SessionID).
			Int("worker_id", id).
			Msg("activity processing failed")
	}
	metrics.ActivityProcessingDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
