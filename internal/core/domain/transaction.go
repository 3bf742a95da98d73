package domain

import "time"

// Transaction is a single income or expense entry owned by Username.
// Type references Category.Type.
type Transaction struct {
	ID       string    `json:"_id"`
	Username string    `json:"username"`
	Type     string    `json:"type"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
	// Color is joined from the category at read time and never stored.
	Color string `json:"color,omitempty"`
}
