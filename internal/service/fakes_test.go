package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/craftline/storefront/internal/catalog"
	"github.com/craftline/storefront/internal/model"
	"github.com/craftline/storefront/internal/repository"
	"github.com/craftline/storefront/internal/storage/db"
)

// fakeDB satisfies db.DB for services that only need WithTx; the transaction
// closure runs against the fake itself.
type fakeDB struct{}

func (f fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (f fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (f fakeDB) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (f fakeDB) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (f fakeDB) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (f fakeDB) WithTx(ctx context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}

type setCouponCall struct {
	productID uuid.UUID
	couponID  *uuid.UUID
}

type updateDealCall struct {
	productID   uuid.UUID
	active      bool
	activatedAt *time.Time
	expiresAt   *time.Time
}

type fakeProductRepo struct {
	getProductFn      func(ctx context.Context, id uuid.UUID) (model.Product, error)
	listProductsFn    func(ctx context.Context, pl *catalog.Pipeline) ([]model.Product, error)
	countProductsFn   func(ctx context.Context, pl *catalog.Pipeline) (int64, error)
	searchProductsFn  func(ctx context.Context, params repository.SearchProductsParams) ([]model.Product, int64, error)
	listDealFlaggedFn func(ctx context.Context) ([]model.Product, error)
	clearExpiredFn    func(ctx context.Context, ids []uuid.UUID, now time.Time) ([]uuid.UUID, error)
	listActiveDealsFn func(ctx context.Context, now time.Time) ([]model.Product, error)

	setCouponCalls  []setCouponCall
	updateDealCalls []updateDealCall
}

func (f *fakeProductRepo) WithDB(db.DB) repository.ProductRepository { return f }

func (f *fakeProductRepo) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return f.getProductFn(ctx, id)
}

func (f *fakeProductRepo) ListProducts(ctx context.Context, pl *catalog.Pipeline) ([]model.Product, error) {
	return f.listProductsFn(ctx, pl)
}

func (f *fakeProductRepo) CountProducts(ctx context.Context, pl *catalog.Pipeline) (int64, error) {
	return f.countProductsFn(ctx, pl)
}

func (f *fakeProductRepo) SearchProducts(ctx context.Context, params repository.SearchProductsParams) ([]model.Product, int64, error) {
	return f.searchProductsFn(ctx, params)
}

func (f *fakeProductRepo) SetCoupon(_ context.Context, productID uuid.UUID, couponID *uuid.UUID) error {
	f.setCouponCalls = append(f.setCouponCalls, setCouponCall{productID: productID, couponID: couponID})
	return nil
}

func (f *fakeProductRepo) UpdateDealState(_ context.Context, productID uuid.UUID, active bool, activatedAt, expiresAt *time.Time) error {
	f.updateDealCalls = append(f.updateDealCalls, updateDealCall{
		productID:   productID,
		active:      active,
		activatedAt: activatedAt,
		expiresAt:   expiresAt,
	})
	return nil
}

func (f *fakeProductRepo) ListDealFlagged(ctx context.Context) ([]model.Product, error) {
	return f.listDealFlaggedFn(ctx)
}

func (f *fakeProductRepo) ClearExpiredDeals(ctx context.Context, ids []uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	return f.clearExpiredFn(ctx, ids, now)
}

func (f *fakeProductRepo) ListActiveDeals(ctx context.Context, now time.Time) ([]model.Product, error) {
	return f.listActiveDealsFn(ctx, now)
}

type addApplicableCall struct {
	couponID  uuid.UUID
	productID uuid.UUID
}

type fakeCouponRepo struct {
	getCouponFn func(ctx context.Context, id uuid.UUID) (model.Coupon, error)

	addCalls    []addApplicableCall
	removeCalls []uuid.UUID
}

func (f *fakeCouponRepo) WithDB(db.DB) repository.CouponRepository { return f }

func (f *fakeCouponRepo) GetCoupon(ctx context.Context, id uuid.UUID) (model.Coupon, error) {
	return f.getCouponFn(ctx, id)
}

func (f *fakeCouponRepo) AddApplicableProduct(_ context.Context, couponID, productID uuid.UUID) error {
	f.addCalls = append(f.addCalls, addApplicableCall{couponID: couponID, productID: productID})
	return nil
}

func (f *fakeCouponRepo) RemoveProductFromAll(_ context.Context, productID uuid.UUID) error {
	f.removeCalls = append(f.removeCalls, productID)
	return nil
}

func (f *fakeCouponRepo) ListApplicableProducts(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

type fakeCategoryRepo struct {
	findFn    func(ctx context.Context, name string) ([]uuid.UUID, error)
	findCalls int
}

func (f *fakeCategoryRepo) WithDB(db.DB) repository.CategoryRepository { return f }

func (f *fakeCategoryRepo) FindIDsByNameMatch(ctx context.Context, name string) ([]uuid.UUID, error) {
	f.findCalls++
	return f.findFn(ctx, name)
}

type fakeOrderRepo struct {
	topProductsFn   func(ctx context.Context, page, pageSize int) ([]model.TopSellingProduct, int64, error)
	topCategoriesFn func(ctx context.Context, page, pageSize int) ([]model.TopSellingCategory, int64, error)
}

func (f *fakeOrderRepo) WithDB(db.DB) repository.OrderRepository { return f }

func (f *fakeOrderRepo) TopSellingProducts(ctx context.Context, page, pageSize int) ([]model.TopSellingProduct, int64, error) {
	return f.topProductsFn(ctx, page, pageSize)
}

func (f *fakeOrderRepo) TopSellingCategories(ctx context.Context, page, pageSize int) ([]model.TopSellingCategory, int64, error) {
	return f.topCategoriesFn(ctx, page, pageSize)
}

type fakeOutboxRepo struct {
	created []repository.CreateOutboxMsgParams
}

func (f *fakeOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return f }

func (f *fakeOutboxRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	f.created = append(f.created, params)
	return nil
}

func (f *fakeOutboxRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}

func (f *fakeOutboxRepo) topics() []string {
	topics := make([]string, 0, len(f.created))
	for _, msg := range f.created {
		topics = append(topics, msg.Topic)
	}
	return topics
}

type fakeCategoryIDCache struct {
	data map[string][]uuid.UUID

	getErr error
	setErr error

	setKeys []string
}

func (f *fakeCategoryIDCache) Get(_ context.Context, key string) ([]uuid.UUID, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	ids, ok := f.data[key]
	return ids, ok, nil
}

func (f *fakeCategoryIDCache) Set(_ context.Context, key string, ids []uuid.UUID) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setKeys = append(f.setKeys, key)
	if f.data == nil {
		f.data = map[string][]uuid.UUID{}
	}
	f.data[key] = ids
	return nil
}
