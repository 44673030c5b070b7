// Package engine runs the scheduler passes: work-shift digests, individual
// task alerts and admin reminder broadcasts. Every pass is stateless; all
// persistent knowledge lives in the store and the execution ledger.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/igor325/AGROTASKv2/internal/domain"
	"github.com/igor325/AGROTASKv2/internal/observability/metrics"
	"github.com/igor325/AGROTASKv2/internal/observability/tracing"
	"github.com/igor325/AGROTASKv2/internal/service/ledger"
	"github.com/igor325/AGROTASKv2/internal/service/recurrence"
	"github.com/igor325/AGROTASKv2/internal/service/timewindow"
)

const (
	defaultLookaheadMinutes = 15
	defaultWindowMinutes    = 5
)

// MessageDispatcher delivers one message to a phone number, resolving chat
// id candidates internally. Satisfied by dispatch.Dispatcher.
type MessageDispatcher interface {
	Send(ctx context.Context, phone, text string) (string, error)
}

// Engine wires the store, ledger, recurrence evaluator and dispatcher into
// the two scheduler entry points.
type Engine struct {
	store      domain.Store
	ledger     *ledger.Ledger
	evaluator  *recurrence.Evaluator
	dispatcher MessageDispatcher
	recorder   domain.DispatchRecorder
	clock      *timewindow.Clock
	metrics    *metrics.SchedulerMetrics

	lookaheadMinutes int
	windowMinutes    int
}

type Option func(*Engine)

// WithLookaheadMinutes sets how far ahead of a task's scheduled time its
// individual alert fires.
func WithLookaheadMinutes(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.lookaheadMinutes = n
		}
	}
}

// WithWindowMinutes sets the reminder matching window, normally the
// invocation period.
func WithWindowMinutes(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.windowMinutes = n
		}
	}
}

func New(
	store domain.Store,
	lgr *ledger.Ledger,
	evaluator *recurrence.Evaluator,
	dispatcher MessageDispatcher,
	recorder domain.DispatchRecorder,
	clock *timewindow.Clock,
	m *metrics.SchedulerMetrics,
	opts ...Option,
) *Engine {
	e := &Engine{
		store:            store,
		ledger:           lgr,
		evaluator:        evaluator,
		dispatcher:       dispatcher,
		recorder:         recorder,
		clock:            clock,
		metrics:          m,
		lookaheadMinutes: defaultLookaheadMinutes,
		windowMinutes:    defaultWindowMinutes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// dispatchTo sends text to a recipient, records the attempt in the ledger
// and reports the outcome. The returned error is the delivery failure, if
// any; ledger write failures are logged but never override the delivery
// outcome.
func (e *Engine) dispatchTo(
	ctx context.Context,
	key domain.LedgerKey,
	entityUpdatedAt time.Time,
	recipient domain.Recipient,
	text string,
	metadata map[string]any,
) (string, error) {
	ctx, span := tracing.StartDispatchSpan(ctx, key.Kind.String(), key.EntityID, key.RecipientID)
	defer span.End()

	messageID, sendErr := e.dispatcher.Send(ctx, recipient.Phone, text)
	tracing.RecordDispatchResult(span, messageID, sendErr)

	errMessage := ""
	outcome := "success"
	if sendErr != nil {
		errMessage = sendErr.Error()
		outcome = "failure"
	}
	if e.metrics != nil {
		e.metrics.RecordDispatchAttempt(ctx, key.Kind.String(), outcome)
	}

	if err := e.ledger.RecordAttempt(ctx, key, entityUpdatedAt, sendErr == nil, errMessage, metadata); err != nil {
		slog.WarnContext(ctx, "ledger record failed",
			slog.String("recipient_id", key.RecipientID),
			slog.String("kind", key.Kind.String()),
			slog.String("error", err.Error()),
		)
	}

	return messageID, sendErr
}

// record hands the run's dispatch outcomes to the analytics recorder.
type runRecorder struct {
	mu      sync.Mutex
	records []domain.DispatchRecord
}

func (r *runRecorder) add(rec domain.DispatchRecord) {
	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()
}

func (e *Engine) flushRecords(ctx context.Context, rr *runRecorder) {
	if e.recorder == nil || len(rr.records) == 0 {
		return
	}
	if err := e.recorder.RecordBatch(ctx, rr.records); err != nil {
		slog.WarnContext(ctx, "failed to record dispatch batch",
			slog.Int("records", len(rr.records)),
			slog.String("error", err.Error()),
		)
	}
}
