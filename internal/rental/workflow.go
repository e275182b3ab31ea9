package rental

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nathanaelowenk/bookrental/internal/api"
	"github.com/nathanaelowenk/bookrental/internal/domain"
)

// State identifies where a rent attempt is in its lifecycle.
type State string

const (
	StateIdle            State = "idle"
	StateRequesting      State = "requesting"
	StateAwaitingPayment State = "awaiting_payment"
	StatePolling         State = "polling"
	StateSettled         State = "settled"
	StateCanceled        State = "canceled"
	StateFailed          State = "failed"
)

// Terminal reports whether the state ends an attempt.
func (s State) Terminal() bool {
	return s == StateSettled || s == StateCanceled || s == StateFailed
}

// inFlight reports whether the state belongs to an active attempt.
func (s State) inFlight() bool {
	return s == StateRequesting || s == StateAwaitingPayment || s == StatePolling
}

// API is the slice of the client the workflow drives.
type API interface {
	RentBook(ctx context.Context, bookID, rentLength int) (*api.RentOrder, error)
	TransactionStatus(ctx context.Context, orderID string) (*domain.Transaction, error)
}

// Refresher re-fetches catalog state once a payment settles, so the rented
// book's availability reflects the new rental.
type Refresher interface {
	RefreshCatalog(ctx context.Context) error
	RefreshMyRentals(ctx context.Context) error
}

// Attempt is the observable record of one rent intent.
type Attempt struct {
	ID         string // client-generated, for log correlation
	BookID     int
	Days       int
	OrderID    string
	PaymentURL string
	State      State
	Err        error
}

// DefaultPollInterval is the pause between transaction status checks while
// the user completes the hosted checkout.
const DefaultPollInterval = 3 * time.Second

// Config holds settings for constructing a Workflow.
type Config struct {
	API          API
	Refresher    Refresher
	PollInterval time.Duration // defaults to DefaultPollInterval
}

// Workflow drives a single rent attempt through request, payment hand-off
// and status polling:
//
//	Idle -> Requesting -> AwaitingPayment -> Polling -> Settled | Canceled | Failed
//
// At most one attempt is in flight per Workflow; a rent intent issued while
// one is active is rejected with domain.ErrWorkflowBusy rather than queued.
// API errors are surfaced as the attempt's outcome and never retried.
type Workflow struct {
	api      API
	refresh  Refresher
	interval time.Duration

	mu      sync.Mutex
	state   State
	current *Attempt
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates an idle workflow.
func New(cfg Config) *Workflow {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Workflow{
		api:      cfg.API,
		refresh:  cfg.Refresher,
		interval: interval,
		state:    StateIdle,
	}
}

// Rent issues a rent intent for the book. The minimum rent length is checked
// locally first: a duration below it is rejected with
// domain.ErrInvalidDuration before any network call. On success the attempt
// is in AwaitingPayment with the hosted checkout URL set, and the status
// poll loop is already running; observe it through State, Current and Wait.
//
// Polling is scoped to ctx: canceling it (or Cancel) stops the loop
// immediately, with no further status requests issued.
func (w *Workflow) Rent(ctx context.Context, book domain.Book, days int) (*Attempt, error) {
	if days < book.MinRentDays() {
		return nil, fmt.Errorf("%w: requested %d days, minimum is %d",
			domain.ErrInvalidDuration, days, book.MinRentDays())
	}

	attempt := &Attempt{
		ID:     uuid.New().String(),
		BookID: book.ID,
		Days:   days,
		State:  StateRequesting,
	}

	w.mu.Lock()
	if w.state.inFlight() {
		w.mu.Unlock()
		return nil, domain.ErrWorkflowBusy
	}
	w.state = StateRequesting
	w.current = attempt
	w.mu.Unlock()

	slog.Info("requesting rental", "attempt", attempt.ID, "book", book.ID, "days", days)

	order, err := w.api.RentBook(ctx, book.ID, days)
	if err != nil {
		// Surfaced to the caller; the workflow returns to Idle so a new
		// intent can be issued.
		w.mu.Lock()
		w.state = StateIdle
		w.current = nil
		w.mu.Unlock()
		return nil, err
	}

	pollCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	w.mu.Lock()
	attempt.OrderID = order.OrderID
	attempt.PaymentURL = order.PaymentURL
	attempt.State = StateAwaitingPayment
	w.state = StateAwaitingPayment
	w.cancel = cancel
	w.done = done
	w.mu.Unlock()

	slog.Info("rental order created",
		"attempt", attempt.ID, "order", order.OrderID, "payment_url", order.PaymentURL)

	go w.poll(pollCtx, attempt, done)

	out := w.snapshot(attempt)
	return &out, nil
}

// poll checks the transaction status at the configured interval until it is
// terminal, the context is canceled, or a check fails. Polling errors
// terminate the attempt rather than being retried: an indefinite retry
// against a possibly-canceled transaction risks stale state.
func (w *Workflow) poll(ctx context.Context, attempt *Attempt, done chan struct{}) {
	defer close(done)

	w.setState(attempt, StatePolling, nil)

	for {
		tx, err := w.api.TransactionStatus(ctx, attempt.OrderID)
		if err != nil {
			w.setState(attempt, StateFailed, err)
			slog.Warn("transaction status check failed",
				"attempt", attempt.ID, "order", attempt.OrderID, "error", err)
			return
		}

		switch tx.Status {
		case domain.StatusSettlement:
			w.setState(attempt, StateSettled, nil)
			slog.Info("payment settled", "attempt", attempt.ID, "order", attempt.OrderID)
			// The refresh belongs to app state, not the attempt's lifetime.
			w.refreshCaches(context.WithoutCancel(ctx))
			return
		case domain.StatusCanceled:
			w.setState(attempt, StateCanceled, nil)
			slog.Info("payment canceled", "attempt", attempt.ID, "order", attempt.OrderID)
			return
		case domain.StatusPending:
			// keep polling
		default:
			w.setState(attempt, StateFailed,
				fmt.Errorf("unknown transaction status %q", tx.Status))
			return
		}

		select {
		case <-ctx.Done():
			w.setState(attempt, StateFailed, ctx.Err())
			return
		case <-time.After(w.interval):
		}
	}
}

func (w *Workflow) refreshCaches(ctx context.Context) {
	if w.refresh == nil {
		return
	}
	if err := w.refresh.RefreshCatalog(ctx); err != nil {
		slog.Warn("refresh catalog after settlement", "error", err)
	}
	if err := w.refresh.RefreshMyRentals(ctx); err != nil {
		slog.Warn("refresh rentals after settlement", "error", err)
	}
}

func (w *Workflow) setState(attempt *Attempt, st State, err error) {
	w.mu.Lock()
	attempt.State = st
	attempt.Err = err
	w.state = st
	if st.Terminal() {
		w.cancel = nil
	}
	w.mu.Unlock()
}

// Cancel abandons the in-flight attempt. It blocks until the poll loop has
// stopped; no further status requests are issued once Cancel returns.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait blocks until the current attempt reaches a terminal state, or ctx is
// canceled.
func (w *Workflow) Wait(ctx context.Context) (*Attempt, error) {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()

	if done != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
		}
	}
	return w.Current(), nil
}

// State returns the workflow's observable state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Current returns a copy of the active or most recent attempt, or nil.
func (w *Workflow) Current() *Attempt {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return nil
	}
	out := *w.current
	return &out
}

func (w *Workflow) snapshot(attempt *Attempt) Attempt {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *attempt
}
