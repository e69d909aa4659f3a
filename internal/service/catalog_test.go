package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/storefront/internal/catalog"
	"github.com/craftline/storefront/internal/model"
	"github.com/craftline/storefront/internal/repository"
	"github.com/craftline/storefront/pkg/zerror"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCatalogService(productRepo *fakeProductRepo, categoryRepo *fakeCategoryRepo, orderRepo *fakeOrderRepo, cache *fakeCategoryIDCache) *catalogService {
	return &catalogService{
		productRepo:     productRepo,
		categoryRepo:    categoryRepo,
		orderRepo:       orderRepo,
		categoryIDCache: cache,
		logger:          discardLogger(),
		now:             func() time.Time { return testNow },
	}
}

func browseParams() BrowseProductsParams {
	return BrowseProductsParams{
		SiteID:   uuid.MustParse("0198a000-0000-7000-8000-000000000001"),
		Page:     1,
		PageSize: 20,
	}
}

func TestBrowseProductsEnvelope(t *testing.T) {
	productRepo := &fakeProductRepo{
		listProductsFn: func(context.Context, *catalog.Pipeline) ([]model.Product, error) {
			return []model.Product{{Name: "Oak Table"}}, nil
		},
		countProductsFn: func(context.Context, *catalog.Pipeline) (int64, error) {
			return 101, nil
		},
	}
	svc := newTestCatalogService(productRepo, &fakeCategoryRepo{}, &fakeOrderRepo{}, &fakeCategoryIDCache{})

	result, err := svc.BrowseProducts(context.Background(), browseParams())
	require.NoError(t, err)

	assert.Len(t, result.Products, 1)
	assert.Equal(t, Pagination{
		TotalDocuments: 101,
		CurrentPage:    1,
		PageSize:       20,
		TotalPages:     6,
	}, result.Pagination)
}

func TestBrowseProductsInvalidParams(t *testing.T) {
	svc := newTestCatalogService(&fakeProductRepo{}, &fakeCategoryRepo{}, &fakeOrderRepo{}, &fakeCategoryIDCache{})

	params := browseParams()
	params.Page = 0

	_, err := svc.BrowseProducts(context.Background(), params)

	var zErr zerror.ZError
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, zerror.StatusValidationFailed, zErr.Status())
}

func TestBrowseProductsCategoryResolution(t *testing.T) {
	captureParams := func(captured **catalog.Pipeline) *fakeProductRepo {
		return &fakeProductRepo{
			listProductsFn: func(_ context.Context, pl *catalog.Pipeline) ([]model.Product, error) {
				*captured = pl
				return nil, nil
			},
			countProductsFn: func(context.Context, *catalog.Pipeline) (int64, error) { return 0, nil },
		}
	}

	t.Run("Should use id filter when token parses as uuid", func(t *testing.T) {
		var pl *catalog.Pipeline
		categoryRepo := &fakeCategoryRepo{}
		svc := newTestCatalogService(captureParams(&pl), categoryRepo, &fakeOrderRepo{}, &fakeCategoryIDCache{})

		params := browseParams()
		params.Category = uuid.NewString()

		_, err := svc.BrowseProducts(context.Background(), params)
		require.NoError(t, err)

		assert.Zero(t, categoryRepo.findCalls)
		assert.Contains(t, pl.WhereClause(), "p.category_id = @category_id")
	})

	t.Run("Should resolve name fragment through repository on cache miss", func(t *testing.T) {
		var pl *catalog.Pipeline
		ids := []uuid.UUID{uuid.New()}
		categoryRepo := &fakeCategoryRepo{
			findFn: func(_ context.Context, name string) ([]uuid.UUID, error) {
				assert.Equal(t, "Rugs", name)
				return ids, nil
			},
		}
		cache := &fakeCategoryIDCache{}
		svc := newTestCatalogService(captureParams(&pl), categoryRepo, &fakeOrderRepo{}, cache)

		params := browseParams()
		params.Category = "Rugs"

		_, err := svc.BrowseProducts(context.Background(), params)
		require.NoError(t, err)

		assert.Equal(t, 1, categoryRepo.findCalls)
		assert.Equal(t, []string{"category:name:rugs"}, cache.setKeys)
		assert.Contains(t, pl.WhereClause(), "p.category_id = ANY(@category_ids)")
	})

	t.Run("Should skip repository on cache hit", func(t *testing.T) {
		var pl *catalog.Pipeline
		categoryRepo := &fakeCategoryRepo{}
		cache := &fakeCategoryIDCache{
			data: map[string][]uuid.UUID{
				"category:name:rugs": {uuid.New()},
			},
		}
		svc := newTestCatalogService(captureParams(&pl), categoryRepo, &fakeOrderRepo{}, cache)

		params := browseParams()
		params.Category = "Rugs"

		_, err := svc.BrowseProducts(context.Background(), params)
		require.NoError(t, err)

		assert.Zero(t, categoryRepo.findCalls)
	})

	t.Run("Should fall back to repository when cache errors", func(t *testing.T) {
		var pl *catalog.Pipeline
		categoryRepo := &fakeCategoryRepo{
			findFn: func(context.Context, string) ([]uuid.UUID, error) {
				return []uuid.UUID{uuid.New()}, nil
			},
		}
		cache := &fakeCategoryIDCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
		svc := newTestCatalogService(captureParams(&pl), categoryRepo, &fakeOrderRepo{}, cache)

		params := browseParams()
		params.Category = "Rugs"

		_, err := svc.BrowseProducts(context.Background(), params)
		require.NoError(t, err)

		assert.Equal(t, 1, categoryRepo.findCalls)
	})
}

func TestParseSearchPhrase(t *testing.T) {
	tests := []struct {
		name     string
		phrase   string
		query    string
		minPrice *float64
		maxPrice *float64
	}{
		{
			name:     "plain phrase",
			phrase:   "oak table",
			query:    "oak table",
		},
		{
			name:     "under bound",
			phrase:   "oak table under 500",
			query:    "oak table",
			maxPrice: floatPtr(500),
		},
		{
			name:     "above bound",
			phrase:   "sofa above 1200.50",
			query:    "sofa",
			minPrice: floatPtr(1200.50),
		},
		{
			name:     "mixed case keyword",
			phrase:   "lamp UNDER 80",
			query:    "lamp",
			maxPrice: floatPtr(80),
		},
		{
			name:   "keyword without number keeps whole phrase",
			phrase: "chair under the window",
			query:  "chair under the window",
		},
		{
			name:   "empty phrase",
			phrase: "",
			query:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, minPrice, maxPrice := parseSearchPhrase(tt.phrase)
			assert.Equal(t, tt.query, query)
			assert.Equal(t, tt.minPrice, minPrice)
			assert.Equal(t, tt.maxPrice, maxPrice)
		})
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestSearchProductsPassesParsedBounds(t *testing.T) {
	productRepo := &fakeProductRepo{}
	productRepo.searchProductsFn = func(_ context.Context, params repository.SearchProductsParams) ([]model.Product, int64, error) {
		assert.Equal(t, "oak table", params.Query)
		require.NotNil(t, params.MaxPrice)
		assert.Equal(t, 500.0, *params.MaxPrice)
		assert.Nil(t, params.MinPrice)
		return []model.Product{{Name: "Oak Table"}}, 1, nil
	}
	svc := newTestCatalogService(productRepo, &fakeCategoryRepo{}, &fakeOrderRepo{}, &fakeCategoryIDCache{})

	result, err := svc.SearchProducts(context.Background(), SearchProductsParams{
		SiteID:   uuid.New(),
		Phrase:   "oak table under 500",
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)

	assert.Len(t, result.Products, 1)
	assert.Equal(t, int64(1), result.Pagination.TotalDocuments)
	assert.Equal(t, int64(1), result.Pagination.TotalPages)
}

func TestGetProductNotFound(t *testing.T) {
	productRepo := &fakeProductRepo{
		getProductFn: func(context.Context, uuid.UUID) (model.Product, error) {
			return model.Product{}, pgx.ErrNoRows
		},
	}
	svc := newTestCatalogService(productRepo, &fakeCategoryRepo{}, &fakeOrderRepo{}, &fakeCategoryIDCache{})

	_, err := svc.GetProduct(context.Background(), uuid.New())

	var zErr zerror.ZError
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "PRODUCT_NOT_FOUND", zErr.Code())
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, int64(0), NewPagination(0, 1, 20).TotalPages)
	assert.Equal(t, int64(1), NewPagination(20, 1, 20).TotalPages)
	assert.Equal(t, int64(2), NewPagination(21, 1, 20).TotalPages)
	assert.Equal(t, int64(6), NewPagination(101, 3, 20).TotalPages)
}
