package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/craftline/storefront/internal/apperr"
	"github.com/craftline/storefront/internal/catalog"
	"github.com/craftline/storefront/internal/model"
	"github.com/craftline/storefront/internal/repository"
	"github.com/craftline/storefront/internal/storage/cache"
)

type BrowseProductsParams struct {
	SiteID uuid.UUID

	Search string

	// Category carries either a category id or a name fragment; which one it
	// is gets decided here, not by the caller.
	Category string

	Material string
	Stock    string

	MinPrice *float64
	MaxPrice *float64

	Popular    bool
	Trending   bool
	Featured   bool
	NewArrival bool

	RecentArrivals bool

	SortBy   string
	SortDesc bool

	Page     int
	PageSize int
}

type SearchProductsParams struct {
	SiteID   uuid.UUID
	Phrase   string
	Page     int
	PageSize int
}

type ProductPage struct {
	Products   []model.Product
	Pagination Pagination
}

type TopSellingProductsPage struct {
	Products   []model.TopSellingProduct
	Pagination Pagination
}

type TopSellingCategoriesPage struct {
	Categories []model.TopSellingCategory
	Pagination Pagination
}

type CatalogService interface {
	BrowseProducts(ctx context.Context, params BrowseProductsParams) (ProductPage, error)
	SearchProducts(ctx context.Context, params SearchProductsParams) (ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	TopSellingProducts(ctx context.Context, page, pageSize int) (TopSellingProductsPage, error)
	TopSellingCategories(ctx context.Context, page, pageSize int) (TopSellingCategoriesPage, error)
}

type catalogService struct {
	productRepo     repository.ProductRepository
	categoryRepo    repository.CategoryRepository
	orderRepo       repository.OrderRepository
	categoryIDCache cache.CategoryIDCache
	logger          *slog.Logger
	now             func() time.Time
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	orderRepo repository.OrderRepository,
	categoryIDCache cache.CategoryIDCache,
	logger *slog.Logger,
) CatalogService {
	return &catalogService{
		productRepo:     productRepo,
		categoryRepo:    categoryRepo,
		orderRepo:       orderRepo,
		categoryIDCache: categoryIDCache,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *catalogService) BrowseProducts(ctx context.Context, params BrowseProductsParams) (ProductPage, error) {
	p := catalog.Params{
		SiteID:         params.SiteID,
		Search:         params.Search,
		Material:       params.Material,
		Stock:          params.Stock,
		MinPrice:       catalog.DefaultMinPrice,
		MaxPrice:       catalog.DefaultMaxPrice,
		Popular:        params.Popular,
		Trending:       params.Trending,
		Featured:       params.Featured,
		NewArrival:     params.NewArrival,
		RecentArrivals: params.RecentArrivals,
		Now:            s.now(),
		SortBy:         params.SortBy,
		SortDesc:       params.SortDesc,
		Page:           params.Page,
		PageSize:       params.PageSize,
	}
	if params.MinPrice != nil {
		p.MinPrice = *params.MinPrice
	}
	if params.MaxPrice != nil {
		p.MaxPrice = *params.MaxPrice
	}

	if params.Category != "" {
		if id, err := uuid.Parse(params.Category); err == nil {
			p.CategoryID = &id
		} else {
			ids, err := s.resolveCategoryIDs(ctx, params.Category)
			if err != nil {
				return ProductPage{}, err
			}
			// A name fragment matching no category yields an empty page,
			// never an unfiltered one.
			p.CategoryIDs = ids
		}
	}

	pl, err := catalog.Build(p)
	if err != nil {
		return ProductPage{}, apperr.ValidationErr.WrapParent(err)
	}

	products, err := s.productRepo.ListProducts(ctx, pl)
	if err != nil {
		return ProductPage{}, fmt.Errorf("product repository list products: %w", err)
	}

	total, err := s.productRepo.CountProducts(ctx, pl)
	if err != nil {
		return ProductPage{}, fmt.Errorf("product repository count products: %w", err)
	}

	return ProductPage{
		Products:   products,
		Pagination: NewPagination(total, params.Page, params.PageSize),
	}, nil
}

// resolveCategoryIDs maps a category name fragment to ids, reading through
// the cache. Cache failures are logged and fall back to the database; a
// degraded cache must not take browsing down with it.
func (s *catalogService) resolveCategoryIDs(ctx context.Context, name string) ([]uuid.UUID, error) {
	key := "category:name:" + strings.ToLower(name)

	if s.categoryIDCache != nil {
		ids, found, err := s.categoryIDCache.Get(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "category id cache get failed", slog.Any("error", err))
		} else if found {
			return ids, nil
		}
	}

	ids, err := s.categoryRepo.FindIDsByNameMatch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("category repository find ids by name: %w", err)
	}

	if s.categoryIDCache != nil {
		if err := s.categoryIDCache.Set(ctx, key, ids); err != nil {
			s.logger.WarnContext(ctx, "category id cache set failed", slog.Any("error", err))
		}
	}

	return ids, nil
}

func (s *catalogService) SearchProducts(ctx context.Context, params SearchProductsParams) (ProductPage, error) {
	query, minPrice, maxPrice := parseSearchPhrase(params.Phrase)

	products, total, err := s.productRepo.SearchProducts(ctx, repository.SearchProductsParams{
		SiteID:   params.SiteID,
		Query:    query,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		return ProductPage{}, fmt.Errorf("product repository search products: %w", err)
	}

	return ProductPage{
		Products:   products,
		Pagination: NewPagination(total, params.Page, params.PageSize),
	}, nil
}

// parseSearchPhrase splits a free-text phrase on the first "under" or "above"
// keyword into a name query and a price bound, e.g. "oak table under 500".
// When the trailing part is not a number, the whole phrase is the query.
func parseSearchPhrase(phrase string) (query string, minPrice, maxPrice *float64) {
	lower := strings.ToLower(phrase)

	for _, kw := range []string{"under", "above"} {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(phrase[idx+len(kw):]), 64)
		if err != nil {
			continue
		}

		query = strings.TrimSpace(phrase[:idx])
		if kw == "under" {
			maxPrice = &v
		} else {
			minPrice = &v
		}
		return query, minPrice, maxPrice
	}

	return strings.TrimSpace(phrase), nil, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	return product, nil
}

func (s *catalogService) TopSellingProducts(ctx context.Context, page, pageSize int) (TopSellingProductsPage, error) {
	products, total, err := s.orderRepo.TopSellingProducts(ctx, page, pageSize)
	if err != nil {
		return TopSellingProductsPage{}, fmt.Errorf("order repository top selling products: %w", err)
	}

	return TopSellingProductsPage{
		Products:   products,
		Pagination: NewPagination(total, page, pageSize),
	}, nil
}

func (s *catalogService) TopSellingCategories(ctx context.Context, page, pageSize int) (TopSellingCategoriesPage, error) {
	categories, total, err := s.orderRepo.TopSellingCategories(ctx, page, pageSize)
	if err != nil {
		return TopSellingCategoriesPage{}, fmt.Errorf("order repository top selling categories: %w", err)
	}

	return TopSellingCategoriesPage{
		Categories: categories,
		Pagination: NewPagination(total, page, pageSize),
	}, nil
}
