package ingest

import "time"

// Transaction is one normalized line-item sale: the canonical schema every
// register layout is reconciled onto, plus the derived calendar attributes.
type Transaction struct {
	Timestamp time.Time `json:"timestamp"`
	Item      string    `json:"item_name"`
	Quantity  float64   `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Revenue   float64   `json:"revenue"`
	Customers *int      `json:"customers,omitempty"`

	// Derived calendar attributes, zero-padded where fixed width
	Year      string `json:"year"`
	Month     string `json:"month"`
	Day       string `json:"day"`
	Hour      string `json:"hour"`
	Minute    string `json:"minute"`
	Weekday   string `json:"weekday"`
	TimeOfDay string `json:"time_of_day"`
	Season    string `json:"season"`
	Holiday   string `json:"holiday"`
}
