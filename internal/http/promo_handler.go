package http

import (
	"net/http"
	"time"

	"github.com/craftline/storefront/internal/model"
	"github.com/craftline/storefront/internal/service"
	"github.com/craftline/storefront/pkg/validator"
)

type promoHandler struct {
	promoSvc  service.PromotionService
	validator validator.Validator
	*responder
}

func newPromoHandler(promoSvc service.PromotionService, validator validator.Validator, res *responder) *promoHandler {
	return &promoHandler{
		promoSvc:  promoSvc,
		validator: validator,
		responder: res,
	}
}

type activateDealRequest struct {
	DurationHours *int `json:"durationHours" validate:"omitempty,gt=0"`
}

type activateDealResponse struct {
	Product   model.Product `json:"product"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Activated bool          `json:"activated"`
}

func (h *promoHandler) activateDeal(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req activateDealRequest
	if err := decodeJSONBody(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.respondError(w, r, err)
		return
	}

	params := service.ActivateDealParams{ProductID: productID}
	if req.DurationHours != nil {
		d := time.Duration(*req.DurationHours) * time.Hour
		params.Duration = &d
	}

	result, err := h.promoSvc.ActivateDeal(r.Context(), params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, activateDealResponse{
		Product:   result.Product,
		ExpiresAt: result.ExpiresAt,
		Activated: result.Activated,
	})
}

func (h *promoHandler) listActiveDeals(w http.ResponseWriter, r *http.Request) {
	products, err := h.promoSvc.ListActiveDeals(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	h.respondJSON(w, r, http.StatusOK, struct {
		Count    int             `json:"count"`
		Products []model.Product `json:"products"`
	}{len(products), products})
}

type applyCouponRequest struct {
	CouponID string `json:"couponId" validate:"required"`
}

func (h *promoHandler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req applyCouponRequest
	if err := decodeJSONBody(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.respondError(w, r, err)
		return
	}

	product, err := h.promoSvc.ApplyCoupon(r.Context(), productID, req.CouponID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, struct {
		Product model.Product `json:"product"`
	}{product})
}
