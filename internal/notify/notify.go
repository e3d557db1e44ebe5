package notify

import (
	"context"
	"sync"
	"time"
)

type Severity string

const (
	SeveritySuccess     Severity = "success"
	SeverityDestructive Severity = "destructive"
)

// Toast is a short user-facing message about the outcome of an operation.
type Toast struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Severity    Severity  `json:"severity"`
	At          time.Time `json:"at"`
}

// Sink receives toasts. Notify must not block the caller for long; the store
// invokes it while holding its writer lock.
type Sink interface {
	Notify(ctx context.Context, toast Toast)
}

// Multi fans a toast out to every sink in order.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, toast Toast) {
	for _, s := range m {
		if s != nil {
			s.Notify(ctx, toast)
		}
	}
}

// Recorder keeps toasts in memory. The console API drains it to show recent
// toasts, and tests use it to assert on outcomes.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
	limit  int
}

func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 100
	}
	return &Recorder{limit: limit}
}

func (r *Recorder) Notify(_ context.Context, toast Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast)
	if over := len(r.toasts) - r.limit; over > 0 {
		r.toasts = append([]Toast(nil), r.toasts[over:]...)
	}
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Drain returns and forgets every recorded toast.
func (r *Recorder) Drain() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.toasts
	r.toasts = nil
	return out
}

func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}
