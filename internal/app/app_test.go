package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/nathanaelowenk/bookrental/internal/api"
	"github.com/nathanaelowenk/bookrental/internal/domain"
	"github.com/nathanaelowenk/bookrental/internal/rental"
	"github.com/nathanaelowenk/bookrental/internal/session"
)

// fakeServer scripts the remote service for whole-facade tests.
type fakeServer struct {
	mu          sync.Mutex
	statusQueue []string
	listCalls   int
	rentedCalls int
	statusCalls int
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user":  map[string]any{"id": 42, "username": "a@b.com"},
		})
	})

	mux.HandleFunc("GET /items", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.listCalls++
		f.mu.Unlock()
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 7, "name": "Dune", "category": "scifi", "price": "15000", "minimumRent": 3, "status": "available"},
			{"id": 9, "name": "Emma", "category": "classic", "price": "12000", "status": "available"},
		})
	})

	mux.HandleFunc("GET /items/rented", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.rentedCalls++
		f.mu.Unlock()
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 7, "name": "Dune", "minimumRent": 3, "rentedAt": "2026-08-29T10:00:00.000Z"},
		})
	})

	mux.HandleFunc("POST /rent/item/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"message":    "order created",
			"orderId":    "order-1",
			"snapToken":  "snap-1",
			"paymentUrl": "https://pay.example/order-1",
		})
	})

	mux.HandleFunc("GET /rent/transaction-status/{orderId}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.statusCalls++
		status := "pending"
		if len(f.statusQueue) > 0 {
			status = f.statusQueue[0]
			if len(f.statusQueue) > 1 {
				f.statusQueue = f.statusQueue[1:]
			}
		}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"message": "ok",
			"orderId": r.PathValue("orderId"),
			"status":  status,
		})
	})

	mux.HandleFunc("GET /items/{id}/access", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": "ok",
			"content": "https://read.example/items/" + r.PathValue("id"),
		})
	})

	mux.HandleFunc("GET /rent/history", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"message": "ok",
			"transactionHistory": []map[string]any{
				{"transactionId": 2, "itemName": "Dune"},
				{"transactionId": 1, "itemName": "Emma"},
			},
		})
	})

	return mux
}

func newTestApp(t *testing.T, srv *fakeServer) (*App, *fakeServer) {
	t.Helper()
	if srv == nil {
		srv = &fakeServer{}
	}
	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)

	client := api.NewClient(api.Config{BaseURL: ts.URL, HTTPClient: ts.Client()})
	a := New(Config{
		Client:       client,
		SessionStore: newMemStore(),
		PollInterval: 5 * time.Millisecond,
	})
	return a, srv
}

// memStore keeps the session record in memory.
type memStore struct {
	mu  sync.Mutex
	rec *session.Session
}

func newMemStore() *memStore { return &memStore{} }

func (m *memStore) Save(sess *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := *sess
	m.rec = &rec
	return nil
}

func (m *memStore) Load() (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return nil, session.ErrNotFound
	}
	rec := *m.rec
	return &rec, nil
}

func (m *memStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}

func TestLoginPopulatesCatalog(t *testing.T) {
	a, _ := newTestApp(t, nil)

	user, err := a.Login(context.Background(), "a@b.com", "x")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != 42 {
		t.Errorf("user.ID = %d; want 42", user.ID)
	}
	if !a.Authenticated() {
		t.Error("Authenticated() = false after login")
	}

	books := a.Books()
	if len(books) != 2 {
		t.Fatalf("len(Books()) = %d; want 2 (catalog fetched on login)", len(books))
	}
	if books[0].Title != "Dune" {
		t.Errorf("Books()[0].Title = %q; want %q", books[0].Title, "Dune")
	}
}

func TestRentRequiresAuthentication(t *testing.T) {
	a, _ := newTestApp(t, nil)

	_, err := a.Rent(context.Background(), 7, 3)
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("Rent() err = %v; want ErrNotAuthenticated", err)
	}
}

func TestRentUnknownBook(t *testing.T) {
	a, _ := newTestApp(t, nil)
	if _, err := a.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	_, err := a.Rent(context.Background(), 999, 3)
	if !errors.Is(err, domain.ErrUnknownBook) {
		t.Fatalf("Rent() err = %v; want ErrUnknownBook", err)
	}
}

func TestRentBelowMinimum(t *testing.T) {
	a, _ := newTestApp(t, nil)
	if _, err := a.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Book 7 has minimumRent 3.
	_, err := a.Rent(context.Background(), 7, 2)
	if !errors.Is(err, domain.ErrInvalidDuration) {
		t.Fatalf("Rent() err = %v; want ErrInvalidDuration", err)
	}
	if got := a.WorkflowState(); got != rental.StateIdle {
		t.Errorf("WorkflowState() = %v; want idle after rejected intent", got)
	}
}

func TestRentToSettlementRefreshesCaches(t *testing.T) {
	srv := &fakeServer{statusQueue: []string{"pending", "settlement"}}
	a, srv := newTestApp(t, srv)
	if _, err := a.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	attempt, err := a.Rent(context.Background(), 7, 3)
	if err != nil {
		t.Fatalf("Rent() error = %v", err)
	}
	if attempt.PaymentURL != "https://pay.example/order-1" {
		t.Errorf("PaymentURL = %q; want the hosted checkout URL", attempt.PaymentURL)
	}

	final, err := a.WaitForOutcome(context.Background())
	if err != nil {
		t.Fatalf("WaitForOutcome() error = %v", err)
	}
	if final.State != rental.StateSettled {
		t.Fatalf("final state = %v; want settled", final.State)
	}

	// Settlement refreshed both the catalog and the rental set.
	srv.mu.Lock()
	listCalls, rentedCalls := srv.listCalls, srv.rentedCalls
	srv.mu.Unlock()
	if listCalls != 2 { // login + settlement
		t.Errorf("catalog fetches = %d; want 2", listCalls)
	}
	if rentedCalls != 1 {
		t.Errorf("rented fetches = %d; want 1", rentedCalls)
	}

	rentals := a.Rentals()
	if len(rentals) != 1 || rentals[0].BookID != 7 {
		t.Errorf("Rentals() = %v; want the settled rental for book 7", rentals)
	}
}

func TestSignOutResetsEverything(t *testing.T) {
	a, _ := newTestApp(t, nil)
	if _, err := a.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := a.RefreshHistory(context.Background()); err != nil {
		t.Fatalf("RefreshHistory() error = %v", err)
	}
	if len(a.History()) == 0 {
		t.Fatal("history empty before sign-out; test needs populated caches")
	}

	a.SignOut()

	if a.Authenticated() {
		t.Error("Authenticated() = true after sign-out")
	}
	if got := a.Books(); len(got) != 0 {
		t.Errorf("Books() = %v; want empty after sign-out", got)
	}
	if got := a.Rentals(); len(got) != 0 {
		t.Errorf("Rentals() = %v; want empty after sign-out", got)
	}
	if got := a.History(); len(got) != 0 {
		t.Errorf("History() = %v; want empty after sign-out", got)
	}
}

func TestHistoryServerOrder(t *testing.T) {
	a, _ := newTestApp(t, nil)
	if _, err := a.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := a.RefreshHistory(context.Background()); err != nil {
		t.Fatalf("RefreshHistory() error = %v", err)
	}

	entries := a.History()
	if len(entries) != 2 || entries[0].TransactionID != 2 || entries[1].TransactionID != 1 {
		t.Errorf("History() order = %v; want server order [2 1]", entries)
	}
}

func TestHistoryRequiresAuthentication(t *testing.T) {
	a, _ := newTestApp(t, nil)
	if err := a.RefreshHistory(context.Background()); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("RefreshHistory() err = %v; want ErrNotAuthenticated", err)
	}
}

func TestBookAccess(t *testing.T) {
	a, _ := newTestApp(t, nil)
	if _, err := a.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	url, err := a.BookAccess(context.Background(), 7)
	if err != nil {
		t.Fatalf("BookAccess() error = %v", err)
	}
	if url != "https://read.example/items/7" {
		t.Errorf("BookAccess() = %q; want the hosted content URL", url)
	}
}

func TestRestoreAfterRestart(t *testing.T) {
	srv := &fakeServer{}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	store := newMemStore()
	client := api.NewClient(api.Config{BaseURL: ts.URL, HTTPClient: ts.Client()})
	a := New(Config{Client: client, SessionStore: store, PollInterval: time.Millisecond})
	if _, err := a.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Fresh facade over the same store, as after a process restart.
	client2 := api.NewClient(api.Config{BaseURL: ts.URL, HTTPClient: ts.Client()})
	a2 := New(Config{Client: client2, SessionStore: store, PollInterval: time.Millisecond})
	if !a2.Restore() {
		t.Fatal("Restore() = false; want persisted session restored")
	}
	if !a2.Authenticated() {
		t.Error("Authenticated() = false after restore")
	}
	// The restored token must be live on the new client.
	if _, err := a2.BookAccess(context.Background(), 9); err != nil {
		t.Errorf("BookAccess() after restore error = %v", err)
	}
}
