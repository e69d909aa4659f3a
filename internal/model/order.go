package model

import (
	"time"

	"github.com/google/uuid"
)

// Order is an external collaborator, read only for top-selling aggregates.
type Order struct {
	ID            uuid.UUID `json:"id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// TopSellingProduct is one row of the top-selling products aggregate.
type TopSellingProduct struct {
	Product       Product `json:"product"`
	TotalOrders   int     `json:"total_orders"`
	TotalQuantity int     `json:"total_quantity"`
}

// TopSellingCategory is one row of the top-selling categories aggregate.
type TopSellingCategory struct {
	CategoryName string `json:"category_name"`
	TotalOrders  int    `json:"total_orders"`
}
