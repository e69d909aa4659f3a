package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/craftline/storefront/internal/model"
	"github.com/craftline/storefront/internal/storage/db"
)

type CouponRepository interface {
	WithDB(db db.DB) CouponRepository

	GetCoupon(ctx context.Context, id uuid.UUID) (model.Coupon, error)

	// AddApplicableProduct adds the product to the coupon's applicable set.
	// Set semantics: re-adding an already present product is a no-op.
	AddApplicableProduct(ctx context.Context, couponID, productID uuid.UUID) error

	// RemoveProductFromAll removes the product from the applicable set of
	// every coupon that currently lists it.
	RemoveProductFromAll(ctx context.Context, productID uuid.UUID) error

	ListApplicableProducts(ctx context.Context, couponID uuid.UUID) ([]uuid.UUID, error)
}

type couponRepository struct {
	db db.DB
}

func NewCouponRepository(db db.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r couponRepository) WithDB(db db.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r couponRepository) GetCoupon(ctx context.Context, id uuid.UUID) (model.Coupon, error) {
	var c model.Coupon
	if err := r.db.QueryRow(ctx, `
		SELECT id, code, is_active, start_date, end_date
		FROM coupons
		WHERE id = @id`,
		pgx.NamedArgs{"id": id}).Scan(
		&c.ID, &c.Code, &c.IsActive, &c.StartDate, &c.EndDate,
	); err != nil {
		return model.Coupon{}, fmt.Errorf("get coupon: %w", err)
	}

	return c, nil
}

func (r couponRepository) AddApplicableProduct(ctx context.Context, couponID, productID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO coupon_products (coupon_id, product_id)
		VALUES (@coupon_id, @product_id)
		ON CONFLICT DO NOTHING`,
		pgx.NamedArgs{"coupon_id": couponID, "product_id": productID}); err != nil {
		return fmt.Errorf("add applicable product: %w", err)
	}

	return nil
}

func (r couponRepository) RemoveProductFromAll(ctx context.Context, productID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `
		DELETE FROM coupon_products
		WHERE product_id = @product_id`,
		pgx.NamedArgs{"product_id": productID}); err != nil {
		return fmt.Errorf("remove product from coupons: %w", err)
	}

	return nil
}

func (r couponRepository) ListApplicableProducts(ctx context.Context, couponID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT product_id
		FROM coupon_products
		WHERE coupon_id = @coupon_id`,
		pgx.NamedArgs{"coupon_id": couponID})
	if err != nil {
		return nil, fmt.Errorf("list applicable products: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan applicable product id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
