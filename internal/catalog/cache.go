package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nathanaelowenk/bookrental/internal/domain"
)

// Fetcher is the slice of the API client the cache refreshes from.
type Fetcher interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	RentedBooks(ctx context.Context) ([]domain.RentedBook, error)
}

// Cache holds the last-fetched catalog and the active user's rentals. Each
// refresh replaces the corresponding set wholesale under the lock, so
// observers never see a partial list; when two refreshes race, the later
// response simply overwrites the earlier one.
type Cache struct {
	api Fetcher

	mu      sync.RWMutex
	books   []domain.Book
	rented  []domain.RentedBook
	rentals []domain.Rental
}

// NewCache creates an empty cache refreshed through the given fetcher.
func NewCache(api Fetcher) *Cache {
	return &Cache{api: api}
}

// RefreshCatalog fetches all listable books and replaces the cached set.
func (c *Cache) RefreshCatalog(ctx context.Context) error {
	books, err := c.api.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}

	c.mu.Lock()
	c.books = books
	c.mu.Unlock()
	return nil
}

// RefreshMyRentals fetches the books rented by the given user and replaces
// the cached rental set, deriving the display-only expiry for each.
func (c *Cache) RefreshMyRentals(ctx context.Context, userID int) error {
	rented, err := c.api.RentedBooks(ctx)
	if err != nil {
		return fmt.Errorf("refresh rentals: %w", err)
	}

	rentals := make([]domain.Rental, 0, len(rented))
	for _, rb := range rented {
		rentals = append(rentals, domain.NewRental(rb, userID))
	}

	c.mu.Lock()
	c.rented = rented
	c.rentals = rentals
	c.mu.Unlock()
	return nil
}

// Books returns a copy of the cached catalog.
func (c *Cache) Books() []domain.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Book, len(c.books))
	copy(out, c.books)
	return out
}

// Book looks up a cached catalog entry by id.
func (c *Cache) Book(id int) (domain.Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.books {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Book{}, false
}

// Search returns catalog entries whose title or category contains the query,
// case-insensitively. An empty query returns the whole catalog.
func (c *Cache) Search(query string) []domain.Book {
	if query == "" {
		return c.Books()
	}
	q := strings.ToLower(query)

	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []domain.Book
	for _, b := range c.books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Category), q) {
			out = append(out, b)
		}
	}
	return out
}

// Rentals returns a copy of the derived rental views.
func (c *Cache) Rentals() []domain.Rental {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Rental, len(c.rentals))
	copy(out, c.rentals)
	return out
}

// RentedBooks returns a copy of the raw rented-book records.
func (c *Cache) RentedBooks() []domain.RentedBook {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.RentedBook, len(c.rented))
	copy(out, c.rented)
	return out
}

// IsActivelyRented reports whether some cached rental for the book is
// active. The presentation layer gates full-content access on this; it keys
// off the server-reported records, never the client-derived expiry.
func (c *Cache) IsActivelyRented(bookID int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.rentals {
		if r.BookID == bookID && r.IsActive {
			return true
		}
	}
	return false
}

// Reset empties the cache. Run on sign-out.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.books = nil
	c.rented = nil
	c.rentals = nil
	c.mu.Unlock()
}
