package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// DefaultMinPrice and DefaultMaxPrice bound the price band when the
	// caller sends no explicit range.
	DefaultMinPrice = 0
	DefaultMaxPrice = 1_000_000

	// inStockThreshold separates the "in" and "out" stock buckets.
	// Fixed domain threshold, not configurable per tenant.
	inStockThreshold = 5

	// recentArrivalWindow is the trailing window for the recent-arrivals
	// toggle, measured at request time.
	recentArrivalWindow = 15 * 24 * time.Hour
)

// StockBucketIn and StockBucketOut are the recognized stock bucket tokens.
// Any other numeric token filters on exact stock equality.
const (
	StockBucketIn  = "in"
	StockBucketOut = "out"
)

// Params describes one browse request. The zero value of an optional field
// means "no filtering stage for it".
type Params struct {
	SiteID uuid.UUID

	Search   string
	Material string

	// CategoryID is set when the category parameter parsed as an identity;
	// CategoryIDs when it was resolved from a name substring. Never both.
	CategoryID  *uuid.UUID
	CategoryIDs []uuid.UUID

	// Stock is a bucket token: "in", "out", or a number for exact equality.
	Stock string

	MinPrice float64
	MaxPrice float64

	Popular    bool
	Trending   bool
	Featured   bool
	NewArrival bool

	RecentArrivals bool
	Now            time.Time

	SortBy   string
	SortDesc bool

	Page     int
	PageSize int
}

// sortColumns whitelists the sortable fields and maps them to columns.
var sortColumns = map[string]string{
	"createdAt": "p.created_at",
	"price":     "p.price",
	"name":      "p.name",
	"stock":     "p.stock",
}

// DefaultSortBy orders by newest first when the caller sends no sort field.
const DefaultSortBy = "createdAt"

type stage struct {
	where string
	args  map[string]any
}

// stageTable is the ordered {parameter -> stage factory} table. It is folded
// exactly once per request; the page and count statements render from the
// same folded list so their predicates cannot diverge.
var stageTable = []struct {
	name  string
	build func(p Params) (stage, bool)
}{
	{"site", func(p Params) (stage, bool) {
		return stage{
			where: "p.site_id = @site_id",
			args:  map[string]any{"site_id": p.SiteID},
		}, true
	}},
	{"search", func(p Params) (stage, bool) {
		if p.Search == "" {
			return stage{}, false
		}
		return stage{
			where: "p.name ILIKE '%' || @search || '%'",
			args:  map[string]any{"search": p.Search},
		}, true
	}},
	{"material", func(p Params) (stage, bool) {
		if p.Material == "" {
			return stage{}, false
		}
		return stage{
			where: "p.material ILIKE '%' || @material || '%'",
			args:  map[string]any{"material": p.Material},
		}, true
	}},
	{"stock", buildStockStage},
	{"category", func(p Params) (stage, bool) {
		if p.CategoryID != nil {
			return stage{
				where: "p.category_id = @category_id",
				args:  map[string]any{"category_id": *p.CategoryID},
			}, true
		}
		if p.CategoryIDs != nil {
			return stage{
				where: "p.category_id = ANY(@category_ids)",
				args:  map[string]any{"category_ids": p.CategoryIDs},
			}, true
		}
		return stage{}, false
	}},
	{"price", func(p Params) (stage, bool) {
		return stage{
			where: "p.price >= @min_price AND p.price <= @max_price",
			args:  map[string]any{"min_price": p.MinPrice, "max_price": p.MaxPrice},
		}, true
	}},
	{"popular", flagStage("p.is_popular", func(p Params) bool { return p.Popular })},
	{"trending", flagStage("p.is_trending", func(p Params) bool { return p.Trending })},
	{"featured", flagStage("p.is_featured", func(p Params) bool { return p.Featured })},
	{"new_arrival", flagStage("p.is_new_arrival", func(p Params) bool { return p.NewArrival })},
	{"recent", func(p Params) (stage, bool) {
		if !p.RecentArrivals {
			return stage{}, false
		}
		return stage{
			where: "p.created_at >= @recent_since",
			args:  map[string]any{"recent_since": p.Now.Add(-recentArrivalWindow)},
		}, true
	}},
}

func flagStage(column string, enabled func(Params) bool) func(Params) (stage, bool) {
	return func(p Params) (stage, bool) {
		if !enabled(p) {
			return stage{}, false
		}
		return stage{where: column + " = TRUE"}, true
	}
}

func buildStockStage(p Params) (stage, bool) {
	switch p.Stock {
	case "":
		return stage{}, false
	case StockBucketIn:
		return stage{where: fmt.Sprintf("p.stock >= %d", inStockThreshold)}, true
	case StockBucketOut:
		return stage{where: fmt.Sprintf("p.stock < %d", inStockThreshold)}, true
	}

	var exact int
	if _, err := fmt.Sscanf(p.Stock, "%d", &exact); err != nil {
		// Unrecognized token contributes no stage.
		return stage{}, false
	}
	return stage{
		where: "p.stock = @stock",
		args:  map[string]any{"stock": exact},
	}, true
}

// Pipeline is the folded stage list for one browse request, ready to render
// as a paged fetch and an unpaged count.
type Pipeline struct {
	stages   []stage
	sortCol  string
	sortDesc bool
	limit    int
	offset   int
}

// Build folds the stage table once for the given params.
func Build(p Params) (*Pipeline, error) {
	if p.SiteID == uuid.Nil {
		return nil, fmt.Errorf("site id is required")
	}
	if p.Page < 1 {
		return nil, fmt.Errorf("page must be >= 1, got %d", p.Page)
	}
	if p.PageSize < 1 {
		return nil, fmt.Errorf("page size must be >= 1, got %d", p.PageSize)
	}

	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	sortCol, ok := sortColumns[sortBy]
	if !ok {
		return nil, fmt.Errorf("unknown sort field %q", sortBy)
	}

	pl := &Pipeline{
		sortCol:  sortCol,
		sortDesc: p.SortDesc,
		limit:    p.PageSize,
		offset:   (p.Page - 1) * p.PageSize,
	}
	for _, entry := range stageTable {
		if s, ok := entry.build(p); ok {
			pl.stages = append(pl.stages, s)
		}
	}

	return pl, nil
}

const selectColumns = `p.id, p.site_id, p.name, p.description, p.price, p.actual_price,
	p.stock, p.material, p.sizes, p.tags,
	p.is_popular, p.is_trending, p.is_featured, p.is_new_arrival,
	p.category_id, c.name AS category_name,
	p.coupon_id,
	p.deal_of_the_day, p.deal_activated_at, p.deal_expires_at,
	p.created_at, p.updated_at`

const fromClause = `FROM products p
JOIN product_categories c ON c.id = p.category_id`

// WhereClause renders the conjunction of every filter stage. Both statements
// embed this exact string.
func (pl *Pipeline) WhereClause() string {
	conds := make([]string, 0, len(pl.stages))
	for _, s := range pl.stages {
		conds = append(conds, s.where)
	}
	return strings.Join(conds, "\n  AND ")
}

// PageSQL renders the paged fetch: filters, sort, limit and offset.
func (pl *Pipeline) PageSQL() (string, pgx.NamedArgs) {
	dir := "ASC"
	if pl.sortDesc {
		dir = "DESC"
	}

	sql := fmt.Sprintf("SELECT %s\n%s\nWHERE %s\nORDER BY %s %s\nLIMIT @page_limit OFFSET @page_offset",
		selectColumns, fromClause, pl.WhereClause(), pl.sortCol, dir)

	args := pl.args()
	args["page_limit"] = pl.limit
	args["page_offset"] = pl.offset

	return sql, args
}

// CountSQL renders the unpaged count: same filters, sort and pagination stripped.
func (pl *Pipeline) CountSQL() (string, pgx.NamedArgs) {
	sql := fmt.Sprintf("SELECT COUNT(*)\n%s\nWHERE %s", fromClause, pl.WhereClause())
	return sql, pl.args()
}

func (pl *Pipeline) args() pgx.NamedArgs {
	args := pgx.NamedArgs{}
	for _, s := range pl.stages {
		for k, v := range s.args {
			args[k] = v
		}
	}
	return args
}
