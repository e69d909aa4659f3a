package http

import (
	"fmt"
	"net/http"

	"github.com/craftline/storefront/internal/apperr"
	"github.com/craftline/storefront/internal/service"
	"github.com/craftline/storefront/pkg/validator"
)

type paymentHandler struct {
	paymentSvc service.PaymentService
	validator  validator.Validator
	*responder
}

func newPaymentHandler(paymentSvc service.PaymentService, validator validator.Validator, res *responder) *paymentHandler {
	return &paymentHandler{
		paymentSvc: paymentSvc,
		validator:  validator,
		responder:  res,
	}
}

type initiatePaymentRequest struct {
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	BuyerEmail string  `json:"buyerEmail" validate:"required,email"`
}

type initiatePaymentResponse struct {
	OrderID     string `json:"orderId"`
	RedirectURL string `json:"redirectUrl"`
}

func (h *paymentHandler) initiate(w http.ResponseWriter, r *http.Request) {
	var req initiatePaymentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.paymentSvc.InitiatePayment(r.Context(), service.InitiatePaymentParams{
		Amount:     req.Amount,
		BuyerEmail: req.BuyerEmail,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, initiatePaymentResponse{
		OrderID:     result.OrderID,
		RedirectURL: result.RedirectURL,
	})
}

const paymentCallbackFragment = "<h3>Payment status updated successfully.</h3>"

// callback receives the gateway's form-encoded redirect. The checksum covers
// every posted field, so verification happens before anything else is read.
// The gateway renders the response in the buyer's browser, so the success
// body is a small HTML fragment rather than JSON.
func (h *paymentHandler) callback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.respondError(w, r, apperr.ValidationErr.WrapParent(fmt.Errorf("parse form: %w", err)))
		return
	}

	params := make(map[string]string, len(r.PostForm))
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}

	if _, err := h.paymentSvc.HandleCallback(r.Context(), params); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondHTML(w, r, http.StatusOK, paymentCallbackFragment)
}
