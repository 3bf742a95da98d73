package domain

import "time"

// Category classifies transactions. Type is unique across the store.
type Category struct {
	ID        string    `json:"-"`
	Type      string    `json:"type"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"-"`
}
