package event

import "time"

const (
	TopicDealActivated    = "promotion.deal.activated"
	TopicDealExpired      = "promotion.deal.expired"
	TopicCouponApplied    = "promotion.coupon.applied"
	TopicCouponRemoved    = "promotion.coupon.removed"
	TopicPaymentInitiated = "payment.initiated"
	TopicPaymentCallback  = "payment.callback.received"
)

type DealActivatedEvent struct {
	ProductID   string    `json:"product_id"`
	ActivatedAt time.Time `json:"activated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type DealExpiredEvent struct {
	ProductID string    `json:"product_id"`
	ClearedAt time.Time `json:"cleared_at"`
}

type CouponAppliedEvent struct {
	ProductID string `json:"product_id"`
	CouponID  string `json:"coupon_id"`
}

type CouponRemovedEvent struct {
	ProductID string `json:"product_id"`
}

type PaymentInitiatedEvent struct {
	OrderID     string `json:"order_id"`
	AmountPaise string `json:"amount_paise"`
	BuyerEmail  string `json:"buyer_email"`
}

type PaymentCallbackEvent struct {
	OrderID      string `json:"order_id"`
	ResponseCode string `json:"response_code"`
	Success      bool   `json:"success"`
}
