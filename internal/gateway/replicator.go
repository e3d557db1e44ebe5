package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/notify"
	"github.com/smallbiznis/helpdesk/internal/observability/metrics"
	"go.uber.org/zap"
)

const defaultReplicationQueue = 256

// Replicator forwards store events to the backend on one worker, in commit
// order. Observe never blocks the store; a full queue drops the event and
// reports it like a failed write.
type Replicator struct {
	client   *Client
	notifier notify.Sink
	metrics  *metrics.Metrics
	clock    clock.Clock
	log      *zap.Logger

	mu      sync.RWMutex
	closed  bool
	queue   chan domain.Event
	done    chan struct{}
	started sync.Once
}

type ReplicatorOptions struct {
	Notifier  notify.Sink
	Metrics   *metrics.Metrics
	Clock     clock.Clock
	QueueSize int
}

func NewReplicator(client *Client, log *zap.Logger, opts ReplicatorOptions) *Replicator {
	size := opts.QueueSize
	if size <= 0 {
		size = defaultReplicationQueue
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Multi{}
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Replicator{
		client:   client,
		notifier: notifier,
		metrics:  opts.Metrics,
		clock:    clk,
		log:      log.Named("gateway.replicator"),
		queue:    make(chan domain.Event, size),
		done:     make(chan struct{}),
	}
}

// Observe is a domain.Observer.
func (r *Replicator) Observe(ev domain.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.log.Warn("event after stop dropped", zap.String("kind", string(ev.Kind)), zap.String("id", ev.ID))
		return
	}
	select {
	case r.queue <- ev:
	default:
		r.fail(context.Background(), ev, fmt.Errorf("replication queue full"))
	}
}

func (r *Replicator) Start() {
	r.started.Do(func() {
		go r.run()
	})
}

// Stop closes the queue and waits for queued events to drain or ctx to end.
// A replicator that never started drains on its own worker.
func (r *Replicator) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	r.Start()
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Replicator) run() {
	defer close(r.done)
	for ev := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := r.forward(ctx, ev); err != nil {
			r.fail(ctx, ev, err)
		}
		cancel()
	}
}

func (r *Replicator) forward(ctx context.Context, ev domain.Event) error {
	switch ev.Op {
	case domain.OpCreated:
		return r.client.Request(ctx, http.MethodPost, ResourcePath(ev.Kind, ""), ev.Entity, nil)
	case domain.OpUpdated:
		return r.client.Request(ctx, http.MethodPut, ResourcePath(ev.Kind, ev.ID), ev.Entity, nil)
	case domain.OpDeleted:
		return r.client.Request(ctx, http.MethodDelete, ResourcePath(ev.Kind, ev.ID), nil, nil)
	}
	return fmt.Errorf("unknown op %q", ev.Op)
}

func (r *Replicator) fail(ctx context.Context, ev domain.Event, err error) {
	r.metrics.RecordReplicationFailure(string(ev.Kind), string(ev.Op))
	r.log.Error("replication failed",
		zap.String("kind", string(ev.Kind)),
		zap.String("op", string(ev.Op)),
		zap.String("id", ev.ID),
		zap.Error(err),
	)
	r.notifier.Notify(ctx, notify.Toast{
		Title:       "Sync failed",
		Description: fmt.Sprintf("%s %s was not saved to the server: %v", ev.Kind, ev.ID, err),
		Severity:    notify.SeverityDestructive,
		At:          r.clock.Now(),
	})
}
