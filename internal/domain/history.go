package domain

import (
	"strconv"
	"time"
)

// HistoryEntry is an immutable historical transaction record, fetched as a
// read-only list and never mutated locally. The raw strings are the source of
// truth; the parsed accessors below are for display only and report ok=false
// instead of failing when a field does not parse.
type HistoryEntry struct {
	TransactionID     int    `json:"transactionId"`
	ItemID            int    `json:"itemId"`
	ItemName          string `json:"itemName"`
	ItemPrice         string `json:"itemPrice"`
	RentalStatus      string `json:"rentalStatus"`
	TransactionStatus string `json:"transactionStatus"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
}

// Price parses the item price as a decimal amount.
func (e *HistoryEntry) Price() (float64, bool) {
	v, err := strconv.ParseFloat(e.ItemPrice, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Start parses the rental start timestamp.
func (e *HistoryEntry) Start() (time.Time, bool) {
	return ParseServerTime(e.StartDate)
}

// End parses the rental end timestamp.
func (e *HistoryEntry) End() (time.Time, bool) {
	return ParseServerTime(e.EndDate)
}

// DisplayPrice renders the price for presentation, falling back to the raw
// string when it does not parse.
func (e *HistoryEntry) DisplayPrice() string {
	return FormatRupiah(e.ItemPrice)
}

// DisplayStart renders the start date for presentation, falling back to the
// raw string when it does not parse.
func (e *HistoryEntry) DisplayStart() string {
	return displayTime(e.StartDate)
}

// DisplayEnd renders the end date for presentation, falling back to the raw
// string when it does not parse.
func (e *HistoryEntry) DisplayEnd() string {
	return displayTime(e.EndDate)
}
