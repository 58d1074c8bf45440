package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/barbershop-booking-site/internal/backend"
	"github.com/wolfman30/barbershop-booking-site/internal/bookingapi"
	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
	"github.com/wolfman30/barbershop-booking-site/internal/observability/metrics"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

var tracer = otel.Tracer("barbershop.internal.wizard")

const defaultLockTTL = 30 * time.Second

// Creator submits bookings; *bookingapi.Client satisfies it.
type Creator interface {
	CreateBooking(ctx context.Context, req bookings.Request) (*bookings.Booking, error)
}

// Locker serialises submissions per visitor.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// Notifier is told about accepted bookings. Failures are its own concern.
type Notifier interface {
	BookingSubmitted(ctx context.Context, b bookings.Booking)
}

// Storage reads and writes the visitor's persisted wizard. Persist runs
// before the backend is called so a concurrent request sees the submitting
// phase, and again with the outcome before the submission lock is released.
// Load reports ok=false when nothing is stored. Either function may be nil.
type Storage struct {
	Load    func(ctx context.Context) (s State, ok bool, err error)
	Persist func(ctx context.Context, s State) error
}

// Runner drives wizard transitions that need I/O.
type Runner struct {
	creator  Creator
	catalog  *bookings.Catalog
	locker   Locker
	notifier Notifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	lockTTL  time.Duration
	now      func() time.Time
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Creator  Creator
	Catalog  *bookings.Catalog
	Locker   Locker
	Notifier Notifier
	Metrics  *metrics.BookingMetrics
	Logger   *logging.Logger
	LockTTL  time.Duration
}

// NewRunner builds a Runner; a nil Catalog means the default catalog.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = bookings.DefaultCatalog()
	}
	ttl := opts.LockTTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Runner{
		creator:  opts.Creator,
		catalog:  catalog,
		locker:   opts.Locker,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		logger:   logger,
		lockTTL:  ttl,
		now:      time.Now,
	}
}

// Catalog returns the services and slots the runner validates against.
func (r *Runner) Catalog() *bookings.Catalog {
	return r.catalog
}

// Now is the clock used for date validation.
func (r *Runner) Now() time.Time {
	return r.now()
}

func lockKey(visitor string) string {
	return "submit:" + visitor
}

// Advance moves the wizard forward. On the confirm step it performs exactly
// one create-booking call; a second attempt while it runs gets ErrSubmitting.
// The returned booking is non-nil only after a successful submission.
func (r *Runner) Advance(ctx context.Context, visitor string, s State, store Storage) (State, *bookings.Booking, error) {
	next, err := s.Advance(r.catalog)
	if err != nil {
		r.metrics.ObserveTransition("advance", transitionResult(err))
		return s, nil, err
	}
	r.metrics.ObserveTransition("advance", "ok")
	if next.Phase != PhaseSubmitting {
		return next, nil, nil
	}
	return r.submit(ctx, visitor, next, store)
}

func (r *Runner) submit(ctx context.Context, visitor string, s State, store Storage) (State, *bookings.Booking, error) {
	if r.locker != nil {
		ok, err := r.locker.TryLock(ctx, lockKey(visitor), r.lockTTL)
		if err != nil {
			return s.Failed(bookingapi.MessageSubmitFailed), nil, fmt.Errorf("acquire submission lock: %w", err)
		}
		if !ok {
			r.metrics.ObserveSubmission("duplicate")
			return s, nil, ErrSubmitting
		}
		defer func() {
			if err := r.locker.Unlock(context.WithoutCancel(ctx), lockKey(visitor)); err != nil {
				r.logger.Warn("failed to release submission lock", "error", err)
			}
		}()
	}

	if store.Load != nil {
		stored, ok, err := store.Load(ctx)
		if err != nil {
			return s.Failed(bookingapi.MessageSubmitFailed), nil, fmt.Errorf("load wizard state: %w", err)
		}
		if ok && !stillConfirming(stored, s) {
			r.metrics.ObserveSubmission("duplicate")
			r.logger.Info("stale booking submission refused", "visitor", visitor, "stored_phase", stored.Phase)
			return s, nil, ErrStale
		}
	}

	if store.Persist != nil {
		if err := store.Persist(ctx, s); err != nil {
			return s.Failed(bookingapi.MessageSubmitFailed), nil, fmt.Errorf("persist submitting state: %w", err)
		}
	}

	ctx, span := tracer.Start(ctx, "wizard.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("barbershop.service", s.Draft.ServiceID),
		attribute.String("barbershop.date", s.Draft.Date),
		attribute.String("barbershop.time", s.Draft.Time),
	)

	booking, err := r.creator.CreateBooking(ctx, s.Request(r.catalog))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.metrics.ObserveSubmission("failed")
		r.logger.Warn("booking submission failed", "service", s.Draft.ServiceID, "date", s.Draft.Date, "time", s.Draft.Time, "error", err)
		failed := s.Failed(backend.Message(err, bookingapi.MessageSubmitFailed))
		r.record(ctx, store, failed)
		return failed, nil, err
	}

	r.metrics.ObserveSubmission("succeeded")
	r.logger.Info("booking submitted", "booking_id", booking.ID, "date", booking.Date, "time", booking.Time)
	done := s.Succeeded()
	r.record(ctx, store, done)
	if r.notifier != nil {
		r.notifier.BookingSubmitted(ctx, *booking)
	}
	return done, booking, nil
}

// record persists the outcome while the lock is still held. A failure only
// leaves the submitting phase behind, which Reconcile repairs.
func (r *Runner) record(ctx context.Context, store Storage, s State) {
	if store.Persist == nil {
		return
	}
	if err := store.Persist(context.WithoutCancel(ctx), s); err != nil {
		r.logger.Warn("failed to persist submission outcome", "phase", s.Phase, "error", err)
	}
}

// stillConfirming reports whether stored is the open confirm step that
// submitting was derived from.
func stillConfirming(stored, submitting State) bool {
	return stored.Phase == PhaseOpen && stored.Step == StepConfirm && stored.Draft == submitting.Draft
}

// Reconcile repairs a wizard left in the submitting phase by a request that
// never finished. If nobody holds the submission lock the attempt is treated
// as failed so the visitor can retry from the confirm step.
func (r *Runner) Reconcile(ctx context.Context, visitor string, s State) State {
	if s.Phase != PhaseSubmitting || r.locker == nil {
		return s
	}
	ok, err := r.locker.TryLock(ctx, lockKey(visitor), r.lockTTL)
	if err != nil || !ok {
		return s
	}
	if err := r.locker.Unlock(ctx, lockKey(visitor)); err != nil {
		r.logger.Warn("failed to release submission lock", "error", err)
	}
	r.logger.Warn("recovered abandoned booking submission", "visitor", visitor)
	return s.Failed(bookingapi.MessageSubmitFailed)
}

func transitionResult(err error) string {
	switch {
	case IsValidation(err):
		return "invalid"
	case errors.Is(err, ErrSubmitting), errors.Is(err, ErrStale):
		return "submitting"
	case errors.Is(err, ErrClosed):
		return "closed"
	}
	return "error"
}
