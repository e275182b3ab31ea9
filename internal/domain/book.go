package domain

import "fmt"

// StatusAvailable is the listing status of a book that can be rented.
const StatusAvailable = "available"

// Book is a rentable catalog entry. The service serializes the title under
// the "name" key and reports the owner as "lenderId".
type Book struct {
	ID          int    `json:"id"`
	Title       string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       string `json:"price"`
	MinimumRent *int   `json:"minimumRent"`
	Status      string `json:"status"`
	LenderID    int    `json:"lenderId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	IsRented    bool   `json:"isRented"`
}

// IsAvailable reports whether the book can currently be rented: listed as
// available and not held by anyone.
func (b *Book) IsAvailable() bool {
	return b.Status == StatusAvailable && !b.IsRented
}

// MinRentDays returns the minimum rent length in days. The service may omit
// the field; it defaults to 1.
func (b *Book) MinRentDays() int {
	if b.MinimumRent == nil || *b.MinimumRent < 1 {
		return 1
	}
	return *b.MinimumRent
}

// DisplayPrice renders the price for presentation, falling back to the raw
// string when it does not parse as a decimal amount.
func (b *Book) DisplayPrice() string {
	return FormatRupiah(b.Price)
}

// CoverImageURL returns a deterministic placeholder cover seeded by book id.
// The service does not serve cover art.
func (b *Book) CoverImageURL() string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/400/600", b.ID)
}

// RentedBook is the server-reported record of a book currently held by the
// active user, including the moment the rental began.
type RentedBook struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       string `json:"price"`
	MinimumRent int    `json:"minimumRent"`
	Status      string `json:"status"`
	LenderID    int    `json:"lenderId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	RentedAt    string `json:"rentedAt"`
}

// Book converts the rented record back into a catalog entry with the rented
// flag set, for detail views that only know how to render books.
func (rb *RentedBook) Book() Book {
	minRent := rb.MinimumRent
	return Book{
		ID:          rb.ID,
		Title:       rb.Name,
		Category:    rb.Category,
		Description: rb.Description,
		Price:       rb.Price,
		MinimumRent: &minRent,
		Status:      rb.Status,
		LenderID:    rb.LenderID,
		CreatedAt:   rb.CreatedAt,
		UpdatedAt:   rb.UpdatedAt,
		IsRented:    true,
	}
}
