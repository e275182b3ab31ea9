// Package app wires the core services into a single facade. All mutating
// intents go through one App instance with one mutex, so observers of the
// session, catalog and workflow never see interleaved writes.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nathanaelowenk/bookrental/internal/api"
	"github.com/nathanaelowenk/bookrental/internal/catalog"
	"github.com/nathanaelowenk/bookrental/internal/domain"
	"github.com/nathanaelowenk/bookrental/internal/history"
	"github.com/nathanaelowenk/bookrental/internal/rental"
	"github.com/nathanaelowenk/bookrental/internal/session"
)

// Config holds the dependencies of an App. Client is the raw API client that
// carries the bearer token; Service defaults to Client and may instead be the
// resilient wrapper around it.
type Config struct {
	Client       *api.Client
	Service      api.Service
	SessionStore session.RecordStore
	PollInterval time.Duration
}

// App is the single explicitly constructed entry point to the core. No
// package-level singletons: construct one, inject it where needed.
type App struct {
	svc api.Service

	sessions *session.Service
	catalog  *catalog.Cache
	workflow *rental.Workflow
	history  *history.Projection

	// mu serializes mutating intents (login, rent, refresh, sign-out).
	mu sync.Mutex
}

// New assembles the core services around the given API client.
func New(cfg Config) *App {
	svc := cfg.Service
	if svc == nil {
		svc = cfg.Client
	}

	a := &App{
		svc:     svc,
		catalog: catalog.NewCache(svc),
		history: history.NewProjection(svc),
	}
	a.sessions = session.NewService(svc, cfg.Client, cfg.SessionStore)
	a.workflow = rental.New(rental.Config{
		API:          svc,
		Refresher:    a,
		PollInterval: cfg.PollInterval,
	})

	// Sign-out is a full reset: dependent caches empty out with the session.
	a.sessions.OnSignOut(a.catalog.Reset)
	a.sessions.OnSignOut(a.history.Reset)

	return a
}

// Restore loads a persisted session, if any. Called once at startup.
func (a *App) Restore() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions.Restore()
}

// Login authenticates and then fetches the catalog so the signed-in view has
// data to show. A catalog fetch failure does not undo the login.
func (a *App) Login(ctx context.Context, username, password string) (*domain.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	user, err := a.sessions.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := a.catalog.RefreshCatalog(ctx); err != nil {
		slog.Warn("catalog fetch after login", "error", err)
	}
	return user, nil
}

// Register creates an account and signs in, like Login.
func (a *App) Register(ctx context.Context, username, password string) (*domain.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	user, err := a.sessions.Register(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := a.catalog.RefreshCatalog(ctx); err != nil {
		slog.Warn("catalog fetch after registration", "error", err)
	}
	return user, nil
}

// SignOut clears the session and empties every dependent cache.
func (a *App) SignOut() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions.SignOut()
}

// RefreshCatalog re-fetches the listable books.
func (a *App) RefreshCatalog(ctx context.Context) error {
	return a.catalog.RefreshCatalog(ctx)
}

// RefreshMyRentals re-fetches the active user's rented books. A no-op when
// logged out: there is no rental set to fetch.
func (a *App) RefreshMyRentals(ctx context.Context) error {
	userID := a.sessions.UserID()
	if userID == 0 {
		return nil
	}
	return a.catalog.RefreshMyRentals(ctx, userID)
}

// RefreshHistory re-fetches the transaction history.
func (a *App) RefreshHistory(ctx context.Context) error {
	if !a.sessions.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	return a.history.Refresh(ctx)
}

// Rent starts a rental attempt for the cached book with the given id. The
// book must be in the cached catalog; durations below the book's minimum are
// rejected before any network call.
func (a *App) Rent(ctx context.Context, bookID, days int) (*rental.Attempt, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.sessions.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	book, ok := a.catalog.Book(bookID)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrUnknownBook, bookID)
	}
	return a.workflow.Rent(ctx, book, days)
}

// BookAccess returns the hosted content URL for a rented book. The URL is
// handed to an external viewer; the core only fetches it.
func (a *App) BookAccess(ctx context.Context, bookID int) (string, error) {
	if !a.sessions.Authenticated() {
		return "", domain.ErrNotAuthenticated
	}
	return a.svc.BookAccess(ctx, bookID)
}

// WaitForOutcome blocks until the in-flight rental attempt is terminal.
func (a *App) WaitForOutcome(ctx context.Context) (*rental.Attempt, error) {
	return a.workflow.Wait(ctx)
}

// CancelRent abandons the in-flight rental attempt, stopping its polling.
func (a *App) CancelRent() {
	a.workflow.Cancel()
}

// Read-only accessors for the presentation layer.

func (a *App) Authenticated() bool                { return a.sessions.Authenticated() }
func (a *App) User() *domain.User                 { return a.sessions.User() }
func (a *App) Books() []domain.Book               { return a.catalog.Books() }
func (a *App) SearchBooks(q string) []domain.Book { return a.catalog.Search(q) }
func (a *App) Rentals() []domain.Rental           { return a.catalog.Rentals() }
func (a *App) History() []domain.HistoryEntry     { return a.history.Entries() }
func (a *App) WorkflowState() rental.State        { return a.workflow.State() }
func (a *App) CurrentAttempt() *rental.Attempt    { return a.workflow.Current() }

var _ rental.Refresher = (*App)(nil)
