package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/smallbiznis/helpdesk/internal/authorization"
	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/idgen"
	"github.com/smallbiznis/helpdesk/internal/notify"
	"github.com/smallbiznis/helpdesk/internal/observability/logger"
	"github.com/smallbiznis/helpdesk/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	IDs      *idgen.Generator
	Loader   domain.Loader
	Auth     domain.Authenticator
	Authz    authorization.Service       `optional:"true"`
	Notifier notify.Sink                 `optional:"true"`
	Metrics  *metrics.Metrics            `optional:"true"`
	Console  *config.ConsoleConfigHolder `optional:"true"`
}

// Store owns every entity collection and the current principal.
//
// writeMu serialises mutations together with their toast and observer
// dispatch, so observers see events in commit order. mu guards the data and
// is held only while reading or applying a change.
type Store struct {
	log      *zap.Logger
	clock    clock.Clock
	ids      *idgen.Generator
	loader   domain.Loader
	auth     domain.Authenticator
	authz    authorization.Service
	notifier notify.Sink
	metrics  *metrics.Metrics
	console  *config.ConsoleConfigHolder
	richText *bluemonday.Policy

	writeMu sync.Mutex

	mu            sync.RWMutex
	data          domain.Dataset
	loaded        bool
	principal     *domain.User
	authenticated bool
	summaries     map[domain.SummaryKey]domain.TimesheetSummary
	summaryOrder  []domain.SummaryKey

	observersMu  sync.Mutex
	observers    []subscription
	nextObserver int
}

type subscription struct {
	id int
	fn domain.Observer
}

var _ domain.Service = (*Store)(nil)

func New(p Params) *Store {
	notifier := p.Notifier
	if notifier == nil {
		notifier = notify.Multi{}
	}
	return &Store{
		log:       p.Log.Named("helpdesk.store"),
		clock:     p.Clock,
		ids:       p.IDs,
		loader:    p.Loader,
		auth:      p.Auth,
		authz:     p.Authz,
		notifier:  notifier,
		metrics:   p.Metrics,
		console:   p.Console,
		richText:  bluemonday.UGCPolicy(),
		summaries: make(map[domain.SummaryKey]domain.TimesheetSummary),
	}
}

// Subscribe registers fn for every applied mutation. Observers run on the
// writer's goroutine and must not call back into the store's mutating
// operations.
func (s *Store) Subscribe(fn domain.Observer) func() {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()
	s.nextObserver++
	id := s.nextObserver
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	return func() {
		s.observersMu.Lock()
		defer s.observersMu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool { return sub.id == id })
	}
}

func (s *Store) Snapshot() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]domain.TimesheetSummary, 0, len(s.summaryOrder))
	for _, key := range s.summaryOrder {
		summaries = append(summaries, s.summaries[key])
	}
	state := domain.State{
		Dataset:            s.data.Clone(),
		TimesheetSummaries: summaries,
		IsAuthenticated:    s.authenticated,
	}
	if s.principal != nil {
		p := *s.principal
		state.CurrentPrincipal = &p
	}
	return state
}

// change is the result of one applied operation.
type change struct {
	title  string
	events []domain.Event
}

func (s *Store) changed(kind domain.Kind, op domain.Op, id string, entity any) *change {
	return &change{
		title: fmt.Sprintf("%s %s", kindLabel(kind), op),
		events: []domain.Event{{
			Kind:   kind,
			Op:     op,
			ID:     id,
			Entity: entity,
			At:     s.clock.Now(),
		}},
	}
}

// mutate runs fn with the data locked. fn returns nil for a silent no-op or
// a reason error to reject the operation.
func (s *Store) mutate(ctx context.Context, kind domain.Kind, op string, fn func() (*change, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	ch, reason := fn()
	s.mu.Unlock()

	log := logger.WithContext(ctx, s.log).With(zap.String("kind", string(kind)), zap.String("op", op))
	if reason != nil {
		err := domain.Reject(fmt.Sprintf("%s.%s", kind, op), reason)
		s.metrics.RecordMutation(string(kind), op, metrics.OutcomeRejected)
		log.Info("operation rejected", zap.Error(reason))
		s.notifier.Notify(ctx, notify.Toast{
			Title:       fmt.Sprintf("Could not %s %s", op, kindLabel(kind)),
			Description: reason.Error(),
			Severity:    notify.SeverityDestructive,
			At:          s.clock.Now(),
		})
		return err
	}
	if ch == nil {
		s.metrics.RecordMutation(string(kind), op, metrics.OutcomeNoop)
		log.Debug("operation skipped")
		return nil
	}

	s.metrics.RecordMutation(string(kind), op, metrics.OutcomeApplied)
	s.notifier.Notify(ctx, notify.Toast{
		Title:    ch.title,
		Severity: notify.SeveritySuccess,
		At:       s.clock.Now(),
	})
	s.dispatch(ch.events)
	return nil
}

func (s *Store) dispatch(events []domain.Event) {
	s.observersMu.Lock()
	observers := append([]subscription(nil), s.observers...)
	s.observersMu.Unlock()

	for _, ev := range events {
		for _, sub := range observers {
			sub.fn(ev)
		}
	}
}

// currentPrincipal must be called with mu held.
func (s *Store) currentPrincipal() (domain.User, bool) {
	if s.principal == nil {
		return domain.User{}, false
	}
	return *s.principal, true
}

// authorize checks an approval-type action for the principal. mu must be held.
func (s *Store) authorize(ctx context.Context, object, action string) error {
	principal, ok := s.currentPrincipal()
	if !ok {
		return domain.ErrForbidden
	}
	if s.authz == nil {
		return nil
	}
	if err := s.authz.Authorize(ctx, principal.Role, object, action); err != nil {
		return fmt.Errorf("%w: %s may not %s %s", domain.ErrForbidden, principal.Role, action, object)
	}
	return nil
}

func (s *Store) sanitize(text string) string {
	return s.richText.Sanitize(text)
}

func prepend[T any](xs []T, v T) []T {
	return append([]T{v}, xs...)
}

// removeAt copies so earlier snapshots never observe the shift.
func removeAt[T any](xs []T, i int) []T {
	return append(xs[:i:i], xs[i+1:]...)
}

func cloneAll[T any](xs []T, clone func(T) T) []T {
	out := make([]T, len(xs))
	for i, v := range xs {
		out[i] = clone(v)
	}
	return out
}

func findByID[T any](xs []T, id string, idOf func(T) string) int {
	return slices.IndexFunc(xs, func(v T) bool { return idOf(v) == id })
}

func fmtTransition(from, to string) error {
	return fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, from, to)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
}

var kindLabels = map[domain.Kind]string{
	domain.KindUser:             "User",
	domain.KindTicket:           "Ticket",
	domain.KindOvertimeRequest:  "Overtime request",
	domain.KindWorkLog:          "Work log",
	domain.KindLeaveRequest:     "Leave request",
	domain.KindReview:           "Review",
	domain.KindEnvironmentSetup: "Environment setup",
	domain.KindContract:         "Contract",
	domain.KindSquad:            "Squad",
	domain.KindProject:          "Project",
	domain.KindAssignment:       "Assignment",
	domain.KindNotification:     "Notification",
}

func kindLabel(kind domain.Kind) string {
	if label, ok := kindLabels[kind]; ok {
		return label
	}
	return string(kind)
}
