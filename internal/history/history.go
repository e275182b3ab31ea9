// Package history holds the read-only view over past rental transactions.
package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/nathanaelowenk/bookrental/internal/domain"
)

// Fetcher is the slice of the API client the projection reads from.
type Fetcher interface {
	TransactionHistory(ctx context.Context) ([]domain.HistoryEntry, error)
}

// Projection caches the last-fetched transaction history. Entries are kept
// in server order and never mutated locally; display formatting lives on
// domain.HistoryEntry, which falls back to the raw strings when a price or
// date does not parse.
type Projection struct {
	api Fetcher

	mu      sync.RWMutex
	entries []domain.HistoryEntry
}

func NewProjection(api Fetcher) *Projection {
	return &Projection{api: api}
}

// Refresh fetches the history list and replaces the cached one wholesale.
// On error the previously cached entries are kept.
func (p *Projection) Refresh(ctx context.Context) error {
	entries, err := p.api.TransactionHistory(ctx)
	if err != nil {
		return fmt.Errorf("refresh history: %w", err)
	}

	p.mu.Lock()
	p.entries = entries
	p.mu.Unlock()
	return nil
}

// Entries returns a copy of the cached history, in the order the server
// supplied it.
func (p *Projection) Entries() []domain.HistoryEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.HistoryEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Reset drops the cached entries. Called on sign-out.
func (p *Projection) Reset() {
	p.mu.Lock()
	p.entries = nil
	p.mu.Unlock()
}
