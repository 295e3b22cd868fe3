package model

import "time"

// ShipProfile is a registered ship identifier with its category.
type ShipProfile struct {
	ID           int64     `json:"id"`
	CategoryID   int       `json:"category_id"`
	CategoryName string    `json:"category_name"`
	ShipID       string    `json:"ship_id"`
	CreatedAt    time.Time `json:"created_at"`
}
