package dto

import (
	"encoding/json"
	"time"

	"shipwatch/internal/model"
)

// ShipProfileCreate is the body of POST /api/ship_id/ship_profiles.
type ShipProfileCreate struct {
	CategoryID int    `json:"category_id"`
	ShipID     string `json:"ship_id"`
}

// ShipProfileUpdate is the body of PUT /api/ship_id/ship_profiles/{id}.
// Nil fields keep their stored value.
type ShipProfileUpdate struct {
	CategoryID *int    `json:"category_id"`
	ShipID     *string `json:"ship_id"`
}

type ShipProfileResponse struct {
	ID           int64     `json:"id"`
	CategoryID   int       `json:"category_id"`
	CategoryName string    `json:"category_name"`
	ShipID       string    `json:"ship_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewShipProfileResponse(p model.ShipProfile) ShipProfileResponse {
	return ShipProfileResponse{
		ID:           p.ID,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		ShipID:       p.ShipID,
		CreatedAt:    p.CreatedAt,
	}
}

// MarshalJSON formats created_at as "YYYY-MM-DD HH:MM:SS".
func (p ShipProfileResponse) MarshalJSON() ([]byte, error) {
	type Alias ShipProfileResponse
	return json.Marshal(&struct {
		Alias
		CreatedAt string `json:"created_at"`
	}{
		Alias:     (Alias)(p),
		CreatedAt: formatTime(p.CreatedAt),
	})
}
