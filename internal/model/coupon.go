package model

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is valid within [StartDate, EndDate] while IsActive is set.
// ApplicableProducts mirrors the coupon_products join table; at most one
// coupon should reference a given product at a time.
type Coupon struct {
	ID                 uuid.UUID   `json:"id"`
	Code               string      `json:"code"`
	IsActive           bool        `json:"is_active"`
	StartDate          time.Time   `json:"start_date"`
	EndDate            time.Time   `json:"end_date"`
	ApplicableProducts []uuid.UUID `json:"applicable_products,omitempty"`
}
