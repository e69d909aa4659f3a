package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/craftline/storefront/internal/apperr"
	"github.com/craftline/storefront/internal/config"
	"github.com/craftline/storefront/internal/event"
	"github.com/craftline/storefront/internal/payment"
	"github.com/craftline/storefront/internal/repository"
	"github.com/craftline/storefront/internal/storage/db"
)

// successResponseCode is the gateway's code for a completed payment. Any
// other code on a checksum-valid callback is a declined payment, which is
// still a successfully processed callback.
const successResponseCode = "100"

type InitiatePaymentParams struct {
	Amount     float64
	BuyerEmail string
}

type InitiatePaymentResult struct {
	OrderID     string
	RedirectURL string
}

type PaymentCallbackResult struct {
	OrderID      string
	ResponseCode string
	Success      bool
}

type PaymentService interface {
	InitiatePayment(ctx context.Context, params InitiatePaymentParams) (InitiatePaymentResult, error)
	HandleCallback(ctx context.Context, params map[string]string) (PaymentCallbackResult, error)
}

type paymentService struct {
	cfg           config.Payment
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
	signer        payment.Signer
	now           func() time.Time
}

func NewPaymentService(
	cfg config.Payment,
	db db.DB,
	outboxMsgRepo repository.OutboxMsgRepository,
) PaymentService {
	return &paymentService{
		cfg:           cfg,
		db:            db,
		outboxMsgRepo: outboxMsgRepo,
		signer:        payment.NewSigner(cfg.Secret),
		now:           time.Now,
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, params InitiatePaymentParams) (InitiatePaymentResult, error) {
	if params.Amount <= 0 {
		return InitiatePaymentResult{}, apperr.ValidationErr.WrapParent(fmt.Errorf("amount must be positive, got %v", params.Amount))
	}

	// The gateway takes the amount in paise, rounded, never truncated.
	paise := strconv.FormatInt(int64(math.Round(params.Amount*100)), 10)
	orderID := s.cfg.OrderIDPrefix + strconv.FormatInt(s.now().UnixMilli(), 10)

	fields := []payment.Field{
		{Name: "amount", Value: paise},
		{Name: "buyerFirstName", Value: s.cfg.BuyerFirstName},
		{Name: payment.BuyerEmailField, Value: params.BuyerEmail},
		{Name: "currency", Value: s.cfg.Currency},
		{Name: "merchantIdentifier", Value: s.cfg.MerchantID},
		{Name: "orderId", Value: orderID},
		{Name: "productDescription", Value: s.cfg.Description},
		{Name: "returnUrl", Value: s.cfg.ReturnURL},
	}

	checksum := s.signer.Sign(payment.ParamMap(fields))
	redirectURL := payment.BuildRedirectURL(s.cfg.Endpoint, fields, checksum)

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		return createOutboxEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicPaymentInitiated, event.PaymentInitiatedEvent{
			OrderID:     orderID,
			AmountPaise: paise,
			BuyerEmail:  params.BuyerEmail,
		}, orderID)
	}); err != nil {
		return InitiatePaymentResult{}, fmt.Errorf("db with tx: %w", err)
	}

	return InitiatePaymentResult{
		OrderID:     orderID,
		RedirectURL: redirectURL,
	}, nil
}

func (s *paymentService) HandleCallback(ctx context.Context, params map[string]string) (PaymentCallbackResult, error) {
	received, ok := params[payment.ChecksumField]
	if !ok {
		return PaymentCallbackResult{}, apperr.InvalidChecksumErr
	}

	// Verification runs over every field except the checksum itself.
	signed := make(map[string]string, len(params))
	for k, v := range params {
		if k == payment.ChecksumField {
			continue
		}
		signed[k] = v
	}

	if !s.signer.Verify(signed, received) {
		return PaymentCallbackResult{}, apperr.InvalidChecksumErr
	}

	result := PaymentCallbackResult{
		OrderID:      signed["orderId"],
		ResponseCode: signed["responseCode"],
		Success:      signed["responseCode"] == successResponseCode,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		return createOutboxEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicPaymentCallback, event.PaymentCallbackEvent{
			OrderID:      result.OrderID,
			ResponseCode: result.ResponseCode,
			Success:      result.Success,
		}, result.OrderID)
	}); err != nil {
		return PaymentCallbackResult{}, fmt.Errorf("db with tx: %w", err)
	}

	return result, nil
}
