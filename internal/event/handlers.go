package event

import (
	"context"
	"log/slog"
)

func (s *Service) handleDealActivated(ctx context.Context, ev DealActivatedEvent) error {
	s.logger.InfoContext(ctx, "deal activated",
		slog.String("product_id", ev.ProductID),
		slog.Time("expires_at", ev.ExpiresAt))
	return nil
}

func (s *Service) handleDealExpired(ctx context.Context, ev DealExpiredEvent) error {
	s.logger.InfoContext(ctx, "deal expired",
		slog.String("product_id", ev.ProductID))
	return nil
}

func (s *Service) handleCouponApplied(ctx context.Context, ev CouponAppliedEvent) error {
	s.logger.InfoContext(ctx, "coupon applied",
		slog.String("product_id", ev.ProductID),
		slog.String("coupon_id", ev.CouponID))
	return nil
}

func (s *Service) handleCouponRemoved(ctx context.Context, ev CouponRemovedEvent) error {
	s.logger.InfoContext(ctx, "coupon removed",
		slog.String("product_id", ev.ProductID))
	return nil
}

func (s *Service) handlePaymentInitiated(ctx context.Context, ev PaymentInitiatedEvent) error {
	s.logger.InfoContext(ctx, "payment initiated",
		slog.String("order_id", ev.OrderID),
		slog.String("amount_paise", ev.AmountPaise))
	return nil
}

func (s *Service) handlePaymentCallback(ctx context.Context, ev PaymentCallbackEvent) error {
	s.logger.InfoContext(ctx, "payment callback received",
		slog.String("order_id", ev.OrderID),
		slog.String("response_code", ev.ResponseCode),
		slog.Bool("success", ev.Success))
	return nil
}
