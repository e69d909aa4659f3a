package http

import (
	"net/http"

	"github.com/craftline/storefront/internal/model"
	"github.com/craftline/storefront/internal/service"
	"github.com/craftline/storefront/pkg/validator"
)

const (
	defaultBrowsePageSize     = 100
	defaultSearchPageSize     = 20
	defaultTopSellingPageSize = 10
)

type catalogHandler struct {
	catalogSvc service.CatalogService
	validator  validator.Validator
	*responder
}

func newCatalogHandler(catalogSvc service.CatalogService, validator validator.Validator, res *responder) *catalogHandler {
	return &catalogHandler{
		catalogSvc: catalogSvc,
		validator:  validator,
		responder:  res,
	}
}

type productPageResponse struct {
	Products   []model.Product    `json:"products"`
	Pagination service.Pagination `json:"pagination"`
}

func newProductPageResponse(page service.ProductPage) productPageResponse {
	products := page.Products
	if products == nil {
		products = []model.Product{}
	}

	return productPageResponse{
		Products:   products,
		Pagination: page.Pagination,
	}
}

func (h *catalogHandler) browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	siteID, err := queryUUID(q, "siteId")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	page, err := queryInt(q, "page", 1)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	pageSize, err := queryInt(q, "limit", defaultBrowsePageSize)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	minPrice, err := queryFloatPtr(q, "minPrice")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	maxPrice, err := queryFloatPtr(q, "maxPrice")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.catalogSvc.BrowseProducts(r.Context(), service.BrowseProductsParams{
		SiteID:         siteID,
		Search:         q.Get("search"),
		Category:       q.Get("category"),
		Material:       q.Get("material"),
		Stock:          q.Get("stock"),
		MinPrice:       minPrice,
		MaxPrice:       maxPrice,
		Popular:        queryBool(q, "popular"),
		Trending:       queryBool(q, "trending"),
		Featured:       queryBool(q, "featured"),
		NewArrival:     queryBool(q, "newArrival"),
		RecentArrivals: queryBool(q, "recentArrivals"),
		SortBy:         q.Get("sortBy"),
		SortDesc:       q.Get("sortOrder") != "asc",
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, newProductPageResponse(result))
}

func (h *catalogHandler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	siteID, err := queryUUID(q, "siteId")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	page, err := queryInt(q, "page", 1)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	pageSize, err := queryInt(q, "limit", defaultSearchPageSize)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.catalogSvc.SearchProducts(r.Context(), service.SearchProductsParams{
		SiteID:   siteID,
		Phrase:   q.Get("query"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, newProductPageResponse(result))
}

func (h *catalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "productID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	product, err := h.catalogSvc.GetProduct(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, product)
}

func (h *catalogHandler) topSellingProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := queryInt(q, "page", 1)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	pageSize, err := queryInt(q, "limit", defaultTopSellingPageSize)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.catalogSvc.TopSellingProducts(r.Context(), page, pageSize)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	products := result.Products
	if products == nil {
		products = []model.TopSellingProduct{}
	}

	h.respondJSON(w, r, http.StatusOK, struct {
		Products   []model.TopSellingProduct `json:"products"`
		Pagination service.Pagination        `json:"pagination"`
	}{products, result.Pagination})
}

func (h *catalogHandler) topSellingCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := queryInt(q, "page", 1)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	pageSize, err := queryInt(q, "limit", defaultTopSellingPageSize)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.catalogSvc.TopSellingCategories(r.Context(), page, pageSize)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	categories := result.Categories
	if categories == nil {
		categories = []model.TopSellingCategory{}
	}

	h.respondJSON(w, r, http.StatusOK, struct {
		Categories []model.TopSellingCategory `json:"categories"`
		Pagination service.Pagination         `json:"pagination"`
	}{categories, result.Pagination})
}
