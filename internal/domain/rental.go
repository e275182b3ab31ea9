package domain

import "time"

// Rental is the client-side view of an active borrowing of a book.
//
// ExpiresAt is a presentational approximation derived from the rental start
// and the book's minimum rent length. The server is authoritative for actual
// expiry; never gate content access on this value.
type Rental struct {
	ID        int       `json:"id"`
	BookID    int       `json:"bookId"`
	UserID    int       `json:"userId"`
	RentedAt  time.Time `json:"rentedDate"`
	ExpiresAt time.Time `json:"expiryDate"`
	IsActive  bool      `json:"isActive"`
}

// NewRental derives a rental view from a server-reported rented book. A
// rented-book record always describes an active hold. When the rental start
// time does not parse it falls back to the current time, matching the
// display-only nature of the derived fields.
func NewRental(rb RentedBook, userID int) Rental {
	rentedAt, ok := ParseServerTime(rb.RentedAt)
	if !ok {
		rentedAt = time.Now()
	}
	days := rb.MinimumRent
	if days < 1 {
		days = 1
	}
	return Rental{
		ID:        rb.ID,
		BookID:    rb.ID,
		UserID:    userID,
		RentedAt:  rentedAt,
		ExpiresAt: rentedAt.Add(time.Duration(days) * 24 * time.Hour),
		IsActive:  true,
	}
}
