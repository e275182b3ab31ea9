package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// The wrapper must be transparent for a healthy service.
func TestResilient_Passthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/items":
			w.Write([]byte(`[{"id":1,"name":"Dune","status":"available"}]`))
		case "/items/1/access":
			json.NewEncoder(w).Encode(map[string]string{"message": "ok", "content": "https://cdn.example/1"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	r := NewResilient(client, DefaultResilientConfig())
	defer r.Close()

	books, err := r.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("ListBooks() error = %v", err)
	}
	if len(books) != 1 || books[0].Title != "Dune" {
		t.Errorf("books = %+v; want one entry titled Dune", books)
	}

	content, err := r.BookAccess(context.Background(), 1)
	if err != nil {
		t.Fatalf("BookAccess() error = %v", err)
	}
	if content != "https://cdn.example/1" {
		t.Errorf("content = %q; want %q", content, "https://cdn.example/1")
	}
}

func TestResilient_AllDisabledIsDirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	r := NewResilient(NewClient(Config{BaseURL: srv.URL}), ResilientConfig{})
	defer r.Close()

	if _, err := r.ListBooks(context.Background()); err != nil {
		t.Fatalf("ListBooks() error = %v", err)
	}
}
