package model

import (
	"time"

	"github.com/google/uuid"
)

// SizeVariant is one entry of a product's ordered size list.
type SizeVariant struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Product is a catalog record owned by a single site.
//
// Deal state invariant: DealExpiresAt is non-nil iff DealOfTheDay is true,
// and DealActivatedAt is never after DealExpiresAt.
type Product struct {
	ID          uuid.UUID `json:"id"`
	SiteID      uuid.UUID `json:"site_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`

	// ActualPrice is the discounted price; when set it must be within [0, Price].
	Price       float64 `json:"price"`
	ActualPrice float64 `json:"actual_price"`

	Stock    int           `json:"stock"`
	Material string        `json:"material"`
	Sizes    []SizeVariant `json:"sizes"`
	Tags     []string      `json:"tags"`

	IsPopular    bool `json:"is_popular"`
	IsTrending   bool `json:"is_trending"`
	IsFeatured   bool `json:"is_featured"`
	IsNewArrival bool `json:"is_new_arrival"`

	CategoryID uuid.UUID `json:"category_id"`
	Category   *Category `json:"category,omitempty"`

	CouponID *uuid.UUID `json:"coupon_id,omitempty"`
	Coupon   *Coupon    `json:"coupon,omitempty"`

	DealOfTheDay    bool       `json:"deal_of_the_day"`
	DealActivatedAt *time.Time `json:"deal_activated_at,omitempty"`
	DealExpiresAt   *time.Time `json:"deal_expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
