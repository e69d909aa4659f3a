package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/storefront/internal/apperr"
	"github.com/craftline/storefront/internal/model"
	"github.com/craftline/storefront/internal/service"
	"github.com/craftline/storefront/pkg/validator"
)

type fakeCatalogSvc struct {
	browseFn     func(ctx context.Context, params service.BrowseProductsParams) (service.ProductPage, error)
	searchFn     func(ctx context.Context, params service.SearchProductsParams) (service.ProductPage, error)
	getProductFn func(ctx context.Context, id uuid.UUID) (model.Product, error)
}

func (f *fakeCatalogSvc) BrowseProducts(ctx context.Context, params service.BrowseProductsParams) (service.ProductPage, error) {
	return f.browseFn(ctx, params)
}

func (f *fakeCatalogSvc) SearchProducts(ctx context.Context, params service.SearchProductsParams) (service.ProductPage, error) {
	return f.searchFn(ctx, params)
}

func (f *fakeCatalogSvc) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return f.getProductFn(ctx, id)
}

func (f *fakeCatalogSvc) TopSellingProducts(context.Context, int, int) (service.TopSellingProductsPage, error) {
	return service.TopSellingProductsPage{}, nil
}

func (f *fakeCatalogSvc) TopSellingCategories(context.Context, int, int) (service.TopSellingCategoriesPage, error) {
	return service.TopSellingCategoriesPage{}, nil
}

type fakePromoSvc struct {
	applyCouponFn     func(ctx context.Context, productID uuid.UUID, couponToken string) (model.Product, error)
	listActiveDealsFn func(ctx context.Context) ([]model.Product, error)
}

func (f *fakePromoSvc) ActivateDeal(context.Context, service.ActivateDealParams) (service.DealActivation, error) {
	return service.DealActivation{}, nil
}

func (f *fakePromoSvc) ListActiveDeals(ctx context.Context) ([]model.Product, error) {
	if f.listActiveDealsFn != nil {
		return f.listActiveDealsFn(ctx)
	}
	return nil, nil
}

func (f *fakePromoSvc) ApplyCoupon(ctx context.Context, productID uuid.UUID, couponToken string) (model.Product, error) {
	return f.applyCouponFn(ctx, productID, couponToken)
}

type fakePaymentSvc struct {
	callbackFn func(ctx context.Context, params map[string]string) (service.PaymentCallbackResult, error)
}

func (f *fakePaymentSvc) InitiatePayment(context.Context, service.InitiatePaymentParams) (service.InitiatePaymentResult, error) {
	return service.InitiatePaymentResult{}, nil
}

func (f *fakePaymentSvc) HandleCallback(ctx context.Context, params map[string]string) (service.PaymentCallbackResult, error) {
	return f.callbackFn(ctx, params)
}

func testResponder(t *testing.T) *responder {
	t.Helper()
	return &responder{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func testValidator(t *testing.T) validator.Validator {
	t.Helper()
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)
	return v
}

func TestBrowseHandlerParsesQuery(t *testing.T) {
	siteID := uuid.New()
	var captured service.BrowseProductsParams

	h := newCatalogHandler(&fakeCatalogSvc{
		browseFn: func(_ context.Context, params service.BrowseProductsParams) (service.ProductPage, error) {
			captured = params
			return service.ProductPage{}, nil
		},
	}, testValidator(t), testResponder(t))

	r := chi.NewRouter()
	r.Get("/api/products", h.browse)

	req := httptest.NewRequest(http.MethodGet,
		"/api/products?siteId="+siteID.String()+
			"&search=oak&category=Rugs&material=teak&stock=in&minPrice=10.5&popular=true&trending=1"+
			"&sortBy=price&sortOrder=asc&page=2", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, siteID, captured.SiteID)
	assert.Equal(t, "oak", captured.Search)
	assert.Equal(t, "Rugs", captured.Category)
	assert.Equal(t, "teak", captured.Material)
	assert.Equal(t, "in", captured.Stock)
	require.NotNil(t, captured.MinPrice)
	assert.Equal(t, 10.5, *captured.MinPrice)
	assert.Nil(t, captured.MaxPrice)
	assert.True(t, captured.Popular)
	assert.True(t, captured.Trending)
	assert.False(t, captured.Featured)
	assert.Equal(t, "price", captured.SortBy)
	assert.False(t, captured.SortDesc)
	assert.Equal(t, 2, captured.Page)
	assert.Equal(t, defaultBrowsePageSize, captured.PageSize)

	var body productPageResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.NotNil(t, body.Products)
}

func TestBrowseHandlerDefaultsSortDesc(t *testing.T) {
	var captured service.BrowseProductsParams

	h := newCatalogHandler(&fakeCatalogSvc{
		browseFn: func(_ context.Context, params service.BrowseProductsParams) (service.ProductPage, error) {
			captured = params
			return service.ProductPage{}, nil
		},
	}, testValidator(t), testResponder(t))

	r := chi.NewRouter()
	r.Get("/api/products", h.browse)

	req := httptest.NewRequest(http.MethodGet, "/api/products?siteId="+uuid.NewString(), nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, captured.SortDesc)
	assert.Equal(t, 1, captured.Page)
}

func TestBrowseHandlerRejectsBadSiteID(t *testing.T) {
	h := newCatalogHandler(&fakeCatalogSvc{}, testValidator(t), testResponder(t))

	r := chi.NewRouter()
	r.Get("/api/products", h.browse)

	req := httptest.NewRequest(http.MethodGet, "/api/products?siteId=not-a-uuid", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), apperr.ValidationErrorCode)
}

func TestGetProductHandlerNotFound(t *testing.T) {
	h := newCatalogHandler(&fakeCatalogSvc{
		getProductFn: func(context.Context, uuid.UUID) (model.Product, error) {
			return model.Product{}, apperr.ProductNotFoundErr
		},
	}, testValidator(t), testResponder(t))

	r := chi.NewRouter()
	r.Get("/api/products/{productID}", h.getProduct)

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "PRODUCT_NOT_FOUND")
}

func TestListActiveDealsHandlerIncludesCount(t *testing.T) {
	h := newPromoHandler(&fakePromoSvc{
		listActiveDealsFn: func(context.Context) ([]model.Product, error) {
			return []model.Product{{ID: uuid.New()}, {ID: uuid.New()}}, nil
		},
	}, testValidator(t), testResponder(t))

	r := chi.NewRouter()
	r.Get("/api/products/deals", h.listActiveDeals)

	req := httptest.NewRequest(http.MethodGet, "/api/products/deals", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Count    int             `json:"count"`
		Products []model.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Products, 2)
}

func TestApplyCouponHandlerRequiresCouponID(t *testing.T) {
	h := newPromoHandler(&fakePromoSvc{}, testValidator(t), testResponder(t))

	r := chi.NewRouter()
	r.Post("/api/products/{productID}/coupon", h.applyCoupon)

	req := httptest.NewRequest(http.MethodPost, "/api/products/"+uuid.NewString()+"/coupon",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "validationError")
	assert.Contains(t, resp.Body.String(), "CouponID")
}

func TestPaymentCallbackHandlerFlattensForm(t *testing.T) {
	var captured map[string]string

	h := newPaymentHandler(&fakePaymentSvc{
		callbackFn: func(_ context.Context, params map[string]string) (service.PaymentCallbackResult, error) {
			captured = params
			return service.PaymentCallbackResult{OrderID: params["orderId"], ResponseCode: params["responseCode"], Success: true}, nil
		},
	}, testValidator(t), testResponder(t))

	r := chi.NewRouter()
	r.Post("/api/payment/callback", h.callback)

	form := url.Values{}
	form.Set("orderId", "ORD123")
	form.Set("responseCode", "100")
	form.Set("checksum", "deadbeef")

	req := httptest.NewRequest(http.MethodPost, "/api/payment/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, map[string]string{
		"orderId":      "ORD123",
		"responseCode": "100",
		"checksum":     "deadbeef",
	}, captured)

	assert.Equal(t, "text/html; charset=utf-8", resp.Header().Get("Content-Type"))
	assert.Equal(t, "<h3>Payment status updated successfully.</h3>", resp.Body.String())
}
