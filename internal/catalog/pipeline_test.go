package catalog_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/storefront/internal/catalog"
)

func baseParams() catalog.Params {
	return catalog.Params{
		SiteID:   uuid.MustParse("0198a000-0000-7000-8000-000000000001"),
		MinPrice: catalog.DefaultMinPrice,
		MaxPrice: catalog.DefaultMaxPrice,
		Now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Page:     1,
		PageSize: 20,
	}
}

func TestBuildValidation(t *testing.T) {
	t.Run("Should reject missing site id", func(t *testing.T) {
		p := baseParams()
		p.SiteID = uuid.Nil

		_, err := catalog.Build(p)
		assert.Error(t, err)
	})

	t.Run("Should reject page below 1", func(t *testing.T) {
		p := baseParams()
		p.Page = 0

		_, err := catalog.Build(p)
		assert.Error(t, err)
	})

	t.Run("Should reject page size below 1", func(t *testing.T) {
		p := baseParams()
		p.PageSize = 0

		_, err := catalog.Build(p)
		assert.Error(t, err)
	})

	t.Run("Should reject sort field outside whitelist", func(t *testing.T) {
		p := baseParams()
		p.SortBy = "couponId"

		_, err := catalog.Build(p)
		assert.Error(t, err)
	})
}

func TestBuildDefaults(t *testing.T) {
	pl, err := catalog.Build(baseParams())
	require.NoError(t, err)

	where := pl.WhereClause()
	assert.Contains(t, where, "p.site_id = @site_id")
	assert.Contains(t, where, "p.price >= @min_price AND p.price <= @max_price")
	assert.NotContains(t, where, "p.stock")
	assert.NotContains(t, where, "p.category_id")
	assert.NotContains(t, where, "ILIKE")

	sql, args := pl.PageSQL()
	assert.Contains(t, sql, "ORDER BY p.created_at ASC")
	assert.Equal(t, 20, args["page_limit"])
	assert.Equal(t, 0, args["page_offset"])
	assert.Equal(t, float64(catalog.DefaultMinPrice), args["min_price"])
	assert.Equal(t, float64(catalog.DefaultMaxPrice), args["max_price"])
}

func TestPageAndCountShareFilters(t *testing.T) {
	p := baseParams()
	p.Search = "oak"
	p.Material = "teak"
	p.Stock = catalog.StockBucketIn
	p.Popular = true
	p.RecentArrivals = true
	p.Page = 3

	pl, err := catalog.Build(p)
	require.NoError(t, err)

	where := pl.WhereClause()
	pageSQL, pageArgs := pl.PageSQL()
	countSQL, countArgs := pl.CountSQL()

	assert.Contains(t, pageSQL, where)
	assert.Contains(t, countSQL, where)

	assert.NotContains(t, countSQL, "LIMIT")
	assert.NotContains(t, countSQL, "ORDER BY")

	// Same filter args on both statements; only pagination differs.
	for k, v := range countArgs {
		assert.Equal(t, v, pageArgs[k])
	}
	assert.Equal(t, 40, pageArgs["page_offset"])
}

func TestStockStage(t *testing.T) {
	t.Run("Should filter in bucket at threshold", func(t *testing.T) {
		p := baseParams()
		p.Stock = catalog.StockBucketIn

		pl, err := catalog.Build(p)
		require.NoError(t, err)
		assert.Contains(t, pl.WhereClause(), "p.stock >= 5")
	})

	t.Run("Should filter out bucket below threshold", func(t *testing.T) {
		p := baseParams()
		p.Stock = catalog.StockBucketOut

		pl, err := catalog.Build(p)
		require.NoError(t, err)
		assert.Contains(t, pl.WhereClause(), "p.stock < 5")
	})

	t.Run("Should filter exact stock on numeric token", func(t *testing.T) {
		p := baseParams()
		p.Stock = "7"

		pl, err := catalog.Build(p)
		require.NoError(t, err)
		assert.Contains(t, pl.WhereClause(), "p.stock = @stock")

		_, args := pl.PageSQL()
		assert.Equal(t, 7, args["stock"])
	})

	t.Run("Should skip unrecognized token", func(t *testing.T) {
		p := baseParams()
		p.Stock = "plenty"

		pl, err := catalog.Build(p)
		require.NoError(t, err)
		assert.NotContains(t, pl.WhereClause(), "p.stock")
	})
}

func TestCategoryStage(t *testing.T) {
	t.Run("Should filter by single id", func(t *testing.T) {
		id := uuid.MustParse("0198a000-0000-7000-8000-0000000000aa")
		p := baseParams()
		p.CategoryID = &id

		pl, err := catalog.Build(p)
		require.NoError(t, err)
		assert.Contains(t, pl.WhereClause(), "p.category_id = @category_id")
	})

	t.Run("Should filter by resolved id set", func(t *testing.T) {
		p := baseParams()
		p.CategoryIDs = []uuid.UUID{uuid.New(), uuid.New()}

		pl, err := catalog.Build(p)
		require.NoError(t, err)
		assert.Contains(t, pl.WhereClause(), "p.category_id = ANY(@category_ids)")
	})

	t.Run("Should keep empty resolved set so nothing matches", func(t *testing.T) {
		p := baseParams()
		p.CategoryIDs = []uuid.UUID{}

		pl, err := catalog.Build(p)
		require.NoError(t, err)
		assert.Contains(t, pl.WhereClause(), "p.category_id = ANY(@category_ids)")
	})
}

func TestFlagAndRecentStages(t *testing.T) {
	p := baseParams()
	p.Trending = true
	p.Featured = true
	p.RecentArrivals = true

	pl, err := catalog.Build(p)
	require.NoError(t, err)

	where := pl.WhereClause()
	assert.Contains(t, where, "p.is_trending = TRUE")
	assert.Contains(t, where, "p.is_featured = TRUE")
	assert.NotContains(t, where, "p.is_popular")
	assert.NotContains(t, where, "p.is_new_arrival")

	_, args := pl.PageSQL()
	assert.Equal(t, p.Now.Add(-15*24*time.Hour), args["recent_since"])
}

func TestSortRendering(t *testing.T) {
	p := baseParams()
	p.SortBy = "price"
	p.SortDesc = true

	pl, err := catalog.Build(p)
	require.NoError(t, err)

	sql, _ := pl.PageSQL()
	assert.Contains(t, sql, "ORDER BY p.price DESC")
}
