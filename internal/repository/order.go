package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/craftline/storefront/internal/model"
	"github.com/craftline/storefront/internal/storage/db"
)

// minCompletedOrders is the floor for a product to count as top selling.
const minCompletedOrders = 3

type OrderRepository interface {
	WithDB(db db.DB) OrderRepository

	TopSellingProducts(ctx context.Context, page, pageSize int) ([]model.TopSellingProduct, int64, error)
	TopSellingCategories(ctx context.Context, page, pageSize int) ([]model.TopSellingCategory, int64, error)
}

type orderRepository struct {
	db db.DB
}

func NewOrderRepository(db db.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r orderRepository) WithDB(db db.DB) OrderRepository {
	return &orderRepository{db: db}
}

const topProductsBase = `
	SELECT oi.product_id,
		COUNT(*)         AS total_orders,
		SUM(oi.quantity) AS total_quantity
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	WHERE o.status = 'delivered'
	  AND o.payment_status = 'completed'
	GROUP BY oi.product_id
	HAVING COUNT(*) >= @min_orders`

func (r orderRepository) TopSellingProducts(ctx context.Context, page, pageSize int) ([]model.TopSellingProduct, int64, error) {
	args := pgx.NamedArgs{
		"min_orders": minCompletedOrders,
		"limit":      pageSize,
		"offset":     (page - 1) * pageSize,
	}

	var total int64
	if err := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS top", topProductsBase),
		args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count top selling products: %w", err)
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		WITH top AS (%s)
		SELECT %s, top.total_orders, top.total_quantity
		FROM top
		JOIN products p ON p.id = top.product_id
		JOIN product_categories c ON c.id = p.category_id
		ORDER BY top.total_orders DESC
		LIMIT @limit OFFSET @offset`, topProductsBase, productColumns), args)
	if err != nil {
		return nil, 0, fmt.Errorf("top selling products: %w", err)
	}
	defer rows.Close()

	var results []model.TopSellingProduct
	for rows.Next() {
		var (
			row      model.TopSellingProduct
			sizesRaw []byte
			category model.Category
			couponID uuid.NullUUID
		)
		p := &row.Product
		if err := rows.Scan(
			&p.ID, &p.SiteID, &p.Name, &p.Description, &p.Price, &p.ActualPrice,
			&p.Stock, &p.Material, &sizesRaw, &p.Tags,
			&p.IsPopular, &p.IsTrending, &p.IsFeatured, &p.IsNewArrival,
			&p.CategoryID, &category.Name,
			&couponID,
			&p.DealOfTheDay, &p.DealActivatedAt, &p.DealExpiresAt,
			&p.CreatedAt, &p.UpdatedAt,
			&row.TotalOrders, &row.TotalQuantity,
		); err != nil {
			return nil, 0, fmt.Errorf("scan top selling product: %w", err)
		}

		if err := finishProduct(p, sizesRaw, category, couponID); err != nil {
			return nil, 0, err
		}
		results = append(results, row)
	}

	return results, total, rows.Err()
}

const topCategoriesBase = `
	SELECT p.category_id,
		COUNT(*) AS total_orders
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	JOIN products p ON p.id = oi.product_id
	WHERE o.status = 'delivered'
	  AND o.payment_status = 'completed'
	GROUP BY p.category_id`

func (r orderRepository) TopSellingCategories(ctx context.Context, page, pageSize int) ([]model.TopSellingCategory, int64, error) {
	args := pgx.NamedArgs{
		"limit":  pageSize,
		"offset": (page - 1) * pageSize,
	}

	var total int64
	if err := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS top", topCategoriesBase),
		args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count top selling categories: %w", err)
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		WITH top AS (%s)
		SELECT c.name, top.total_orders
		FROM top
		JOIN product_categories c ON c.id = top.category_id
		ORDER BY top.total_orders DESC
		LIMIT @limit OFFSET @offset`, topCategoriesBase), args)
	if err != nil {
		return nil, 0, fmt.Errorf("top selling categories: %w", err)
	}
	defer rows.Close()

	var results []model.TopSellingCategory
	for rows.Next() {
		var row model.TopSellingCategory
		if err := rows.Scan(&row.CategoryName, &row.TotalOrders); err != nil {
			return nil, 0, fmt.Errorf("scan top selling category: %w", err)
		}
		results = append(results, row)
	}

	return results, total, rows.Err()
}
