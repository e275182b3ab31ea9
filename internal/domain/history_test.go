package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHistoryEntry_WireShape(t *testing.T) {
	// The service reports transactionId and itemId as numbers.
	raw := `{"transactionId": 9, "itemId": 4, "itemName": "Dune", "itemPrice": "15000", "transactionStatus": "settlement"}`

	var e HistoryEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if e.TransactionID != 9 {
		t.Errorf("TransactionID = %d; want 9", e.TransactionID)
	}
	if e.ItemID != 4 {
		t.Errorf("ItemID = %d; want 4", e.ItemID)
	}
	if e.ItemName != "Dune" {
		t.Errorf("ItemName = %q; want %q", e.ItemName, "Dune")
	}
}

func TestHistoryEntry_Price(t *testing.T) {
	e := HistoryEntry{ItemPrice: "125000"}
	v, ok := e.Price()
	if !ok {
		t.Fatal("Price() ok = false; want true")
	}
	if v != 125000 {
		t.Errorf("Price() = %v; want 125000", v)
	}

	e = HistoryEntry{ItemPrice: "free"}
	if _, ok := e.Price(); ok {
		t.Error("Price() ok = true for unparsable price; want false")
	}
}

func TestHistoryEntry_DatesFallBackToRawString(t *testing.T) {
	e := HistoryEntry{
		StartDate: "2024-03-01T10:00:00.000Z",
		EndDate:   "whenever",
	}

	start, ok := e.Start()
	if !ok {
		t.Fatal("Start() ok = false; want true")
	}
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("Start() = %v; want %v", start, want)
	}

	if _, ok := e.End(); ok {
		t.Error("End() ok = true for unparsable date; want false")
	}
	if got := e.DisplayEnd(); got != "whenever" {
		t.Errorf("DisplayEnd() = %q; want raw string %q", got, "whenever")
	}
}

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"125000", "Rp 125.000"},
		{"1250000", "Rp 1.250.000"},
		{"999", "Rp 999"},
		{"0", "Rp 0"},
		{"not-a-price", "not-a-price"},
	}

	for _, tt := range tests {
		if got := FormatRupiah(tt.in); got != tt.want {
			t.Errorf("FormatRupiah(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseServerTime(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"millisecond precision", "2024-03-01T10:00:00.000Z", true},
		{"rfc3339", "2024-03-01T10:00:00Z", true},
		{"offset zone", "2024-03-01T10:00:00.000+0700", true},
		{"garbage", "yesterday", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ParseServerTime(tt.in); ok != tt.ok {
				t.Errorf("ParseServerTime(%q) ok = %v; want %v", tt.in, ok, tt.ok)
			}
		})
	}
}
