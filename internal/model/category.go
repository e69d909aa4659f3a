package model

import "github.com/google/uuid"

// Category is read-only from the promotion engine's perspective.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
