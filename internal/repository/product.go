package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/craftline/storefront/internal/catalog"
	"github.com/craftline/storefront/internal/model"
	"github.com/craftline/storefront/internal/storage/db"
)

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository

	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context, pl *catalog.Pipeline) ([]model.Product, error)
	CountProducts(ctx context.Context, pl *catalog.Pipeline) (int64, error)
	SearchProducts(ctx context.Context, params SearchProductsParams) ([]model.Product, int64, error)

	SetCoupon(ctx context.Context, productID uuid.UUID, couponID *uuid.UUID) error

	UpdateDealState(ctx context.Context, productID uuid.UUID, active bool, activatedAt, expiresAt *time.Time) error
	ListDealFlagged(ctx context.Context) ([]model.Product, error)
	ClearExpiredDeals(ctx context.Context, ids []uuid.UUID, now time.Time) ([]uuid.UUID, error)
	ListActiveDeals(ctx context.Context, now time.Time) ([]model.Product, error)
}

type SearchProductsParams struct {
	SiteID   uuid.UUID
	Query    string
	MaxPrice *float64
	MinPrice *float64
	Page     int
	PageSize int
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `p.id, p.site_id, p.name, p.description, p.price, p.actual_price,
	p.stock, p.material, p.sizes, p.tags,
	p.is_popular, p.is_trending, p.is_featured, p.is_new_arrival,
	p.category_id, c.name AS category_name,
	p.coupon_id,
	p.deal_of_the_day, p.deal_activated_at, p.deal_expires_at,
	p.created_at, p.updated_at`

func (r productRepository) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s,
			cp.code, cp.is_active, cp.start_date, cp.end_date
		FROM products p
		JOIN product_categories c ON c.id = p.category_id
		LEFT JOIN coupons cp ON cp.id = p.coupon_id
		WHERE p.id = @id`, productColumns),
		pgx.NamedArgs{"id": id})

	var (
		p          model.Product
		sizesRaw   []byte
		category   model.Category
		couponID   uuid.NullUUID
		couponCode *string
		couponOn   *bool
		couponFrom *time.Time
		couponTo   *time.Time
	)
	if err := row.Scan(
		&p.ID, &p.SiteID, &p.Name, &p.Description, &p.Price, &p.ActualPrice,
		&p.Stock, &p.Material, &sizesRaw, &p.Tags,
		&p.IsPopular, &p.IsTrending, &p.IsFeatured, &p.IsNewArrival,
		&p.CategoryID, &category.Name,
		&couponID,
		&p.DealOfTheDay, &p.DealActivatedAt, &p.DealExpiresAt,
		&p.CreatedAt, &p.UpdatedAt,
		&couponCode, &couponOn, &couponFrom, &couponTo,
	); err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}

	if err := finishProduct(&p, sizesRaw, category, couponID); err != nil {
		return model.Product{}, err
	}
	if couponID.Valid && couponCode != nil {
		p.Coupon = &model.Coupon{
			ID:        couponID.UUID,
			Code:      *couponCode,
			IsActive:  *couponOn,
			StartDate: *couponFrom,
			EndDate:   *couponTo,
		}
	}

	return p, nil
}

func (r productRepository) ListProducts(ctx context.Context, pl *catalog.Pipeline) ([]model.Product, error) {
	sql, args := pl.PageSQL()

	rows, err := r.db.Query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r productRepository) CountProducts(ctx context.Context, pl *catalog.Pipeline) (int64, error) {
	sql, args := pl.CountSQL()

	var total int64
	if err := r.db.QueryRow(ctx, sql, args).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return total, nil
}

func (r productRepository) SearchProducts(ctx context.Context, params SearchProductsParams) ([]model.Product, int64, error) {
	where := `p.site_id = @site_id`
	args := pgx.NamedArgs{
		"site_id": params.SiteID,
		"limit":   params.PageSize,
		"offset":  (params.Page - 1) * params.PageSize,
	}

	if params.Query != "" {
		where += `
		  AND (p.name ILIKE '%' || @query || '%' OR p.description ILIKE '%' || @query || '%')`
		args["query"] = params.Query
	}
	if params.MinPrice != nil {
		where += `
		  AND p.price >= @min_price`
		args["min_price"] = *params.MinPrice
	}
	if params.MaxPrice != nil {
		where += `
		  AND p.price <= @max_price`
		args["max_price"] = *params.MaxPrice
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN product_categories c ON c.id = p.category_id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT @limit OFFSET @offset`, productColumns, where), args)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT COUNT(*)
		FROM products p
		JOIN product_categories c ON c.id = p.category_id
		WHERE %s`, where), args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count search products: %w", err)
	}

	return products, total, nil
}

func (r productRepository) SetCoupon(ctx context.Context, productID uuid.UUID, couponID *uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET coupon_id = @coupon_id, updated_at = NOW()
		WHERE id = @id`,
		pgx.NamedArgs{"id": productID, "coupon_id": couponID})
	if err != nil {
		return fmt.Errorf("set coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r productRepository) UpdateDealState(ctx context.Context, productID uuid.UUID, active bool, activatedAt, expiresAt *time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET deal_of_the_day   = @active,
			deal_activated_at = @activated_at,
			deal_expires_at   = @expires_at,
			updated_at        = NOW()
		WHERE id = @id`,
		pgx.NamedArgs{
			"id":           productID,
			"active":       active,
			"activated_at": activatedAt,
			"expires_at":   expiresAt,
		})
	if err != nil {
		return fmt.Errorf("update deal state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r productRepository) ListDealFlagged(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN product_categories c ON c.id = p.category_id
		WHERE p.deal_of_the_day`, productColumns))
	if err != nil {
		return nil, fmt.Errorf("list deal flagged: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ClearExpiredDeals flips the given products back to inactive. The expiry
// predicate is re-checked inside the statement so a deal re-activated between
// read and write is left alone. Returns the ids actually cleared.
func (r productRepository) ClearExpiredDeals(ctx context.Context, ids []uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE products
		SET deal_of_the_day   = FALSE,
			deal_activated_at = NULL,
			deal_expires_at   = NULL,
			updated_at        = NOW()
		WHERE id = ANY(@ids)
		  AND deal_of_the_day
		  AND deal_expires_at <= @now
		RETURNING id`,
		pgx.NamedArgs{"ids": ids, "now": now})
	if err != nil {
		return nil, fmt.Errorf("clear expired deals: %w", err)
	}
	defer rows.Close()

	var cleared []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan cleared deal id: %w", err)
		}
		cleared = append(cleared, id)
	}

	return cleared, rows.Err()
}

func (r productRepository) ListActiveDeals(ctx context.Context, now time.Time) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN product_categories c ON c.id = p.category_id
		WHERE p.deal_of_the_day
		  AND p.deal_expires_at > @now
		ORDER BY p.deal_expires_at`, productColumns),
		pgx.NamedArgs{"now": now})
	if err != nil {
		return nil, fmt.Errorf("list active deals: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		var (
			p        model.Product
			sizesRaw []byte
			category model.Category
			couponID uuid.NullUUID
		)
		if err := rows.Scan(
			&p.ID, &p.SiteID, &p.Name, &p.Description, &p.Price, &p.ActualPrice,
			&p.Stock, &p.Material, &sizesRaw, &p.Tags,
			&p.IsPopular, &p.IsTrending, &p.IsFeatured, &p.IsNewArrival,
			&p.CategoryID, &category.Name,
			&couponID,
			&p.DealOfTheDay, &p.DealActivatedAt, &p.DealExpiresAt,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		if err := finishProduct(&p, sizesRaw, category, couponID); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func finishProduct(p *model.Product, sizesRaw []byte, category model.Category, couponID uuid.NullUUID) error {
	if len(sizesRaw) > 0 {
		if err := json.Unmarshal(sizesRaw, &p.Sizes); err != nil {
			return fmt.Errorf("unmarshal sizes: %w", err)
		}
	}

	category.ID = p.CategoryID
	p.Category = &category

	if couponID.Valid {
		id := couponID.UUID
		p.CouponID = &id
	}

	return nil
}
