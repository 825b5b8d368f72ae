package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mentorhub/mentoring-api/internal/api/metrics"
	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes activity events to a fixed set of workers using consistent
// hashing on the service id, preserving per-service event ordering.
type Dispatcher struct {
	workers  []chan domain.ActivityEvent
	recorder ports.ActivityRecorder
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder ports.ActivityRecorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.ActivityEvent, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ActivityEvent, channelBuffer)
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

// Publish hands an event to the worker responsible for its service. It never
// blocks: when the shard is full the event is dropped.
func (d *Dispatcher) Publish(event domain.ActivityEvent) {
	idx := d.shardIndex(event.OfferingID)
	select {
	case d.workers[idx] <- event:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().
			Str("reservation_id", event.ReservationID).
			Str("kind", string(event.Kind)).
			Int("worker_id", idx).
			Msg("activity queue full, event dropped")
	}
}

// shardIndex maps a service id deterministically to a worker index.
func (d *Dispatcher) shardIndex(offeringID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(offeringID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ActivityEvent) {
	defer d.wg.Done()
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-ch:
			metrics.ActivityQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))

			start := time.Now()
			label := string(event.Kind)
			if err := d.recorder.Record(ctx, event); err != nil {
				label = "error"
				d.log.Error().Err(err).
					Str("reservation_id", event.ReservationID).
					Int("worker_id", id).
					Msg("activity recording failed")
			}
			metrics.ActivityProcessingDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		}
	}
}
