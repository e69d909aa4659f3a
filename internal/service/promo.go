package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/craftline/storefront/internal/apperr"
	"github.com/craftline/storefront/internal/event"
	"github.com/craftline/storefront/internal/model"
	"github.com/craftline/storefront/internal/promo"
	"github.com/craftline/storefront/internal/repository"
	"github.com/craftline/storefront/internal/storage/db"
)

// CouponNone is the sentinel coupon token that detaches the product's coupon
// instead of attaching one.
const CouponNone = "none"

type ActivateDealParams struct {
	ProductID uuid.UUID

	// Duration of the deal; nil means promo.DefaultDealDuration.
	Duration *time.Duration
}

// DealActivation reports the deal state after an activation request.
// Activated is false when an unexpired deal was already running, in which
// case ExpiresAt carries the existing deadline untouched.
type DealActivation struct {
	Product   model.Product
	ExpiresAt time.Time
	Activated bool
}

type PromotionService interface {
	ActivateDeal(ctx context.Context, params ActivateDealParams) (DealActivation, error)
	ListActiveDeals(ctx context.Context) ([]model.Product, error)
	ApplyCoupon(ctx context.Context, productID uuid.UUID, couponToken string) (model.Product, error)
}

type promotionService struct {
	db            db.DB
	productRepo   repository.ProductRepository
	couponRepo    repository.CouponRepository
	outboxMsgRepo repository.OutboxMsgRepository
	now           func() time.Time
}

func NewPromotionService(
	db db.DB,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) PromotionService {
	return &promotionService{
		db:            db,
		productRepo:   productRepo,
		couponRepo:    couponRepo,
		outboxMsgRepo: outboxMsgRepo,
		now:           time.Now,
	}
}

func (s *promotionService) ActivateDeal(ctx context.Context, params ActivateDealParams) (DealActivation, error) {
	product, err := s.productRepo.GetProduct(ctx, params.ProductID)
	if errors.Is(err, pgx.ErrNoRows) {
		return DealActivation{}, apperr.ProductNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return DealActivation{}, fmt.Errorf("product repository get product: %w", err)
	}

	now := s.now()

	// A live deal is never extended or restarted; the request is a no-op
	// reporting the existing deadline.
	if expiresAt, ok := promo.ActiveUntil(&product, now); ok {
		return DealActivation{
			Product:   product,
			ExpiresAt: expiresAt,
			Activated: false,
		}, nil
	}

	// The record may still carry a stale flag from a deal that lapsed.
	// Persist the clear before activating so the expiry event is emitted
	// even when a new deal starts in the same request.
	if promo.Reconcile(&product, now) {
		if err := s.clearDeal(ctx, product.ID, now); err != nil {
			return DealActivation{}, err
		}
	}

	duration := promo.DefaultDealDuration
	if params.Duration != nil {
		duration = *params.Duration
	}
	activatedAt := now
	expiresAt := now.Add(duration)

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			UpdateDealState(ctx, product.ID, true, &activatedAt, &expiresAt); err != nil {
			return fmt.Errorf("product repository update deal state: %w", err)
		}

		return createOutboxEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicDealActivated, event.DealActivatedEvent{
			ProductID:   product.ID.String(),
			ActivatedAt: activatedAt,
			ExpiresAt:   expiresAt,
		}, product.ID.String())
	}); err != nil {
		return DealActivation{}, fmt.Errorf("db with tx: %w", err)
	}

	product.DealOfTheDay = true
	product.DealActivatedAt = &activatedAt
	product.DealExpiresAt = &expiresAt

	return DealActivation{
		Product:   product,
		ExpiresAt: expiresAt,
		Activated: true,
	}, nil
}

func (s *promotionService) clearDeal(ctx context.Context, productID uuid.UUID, now time.Time) error {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			UpdateDealState(ctx, productID, false, nil, nil); err != nil {
			return fmt.Errorf("product repository update deal state: %w", err)
		}

		return createOutboxEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicDealExpired, event.DealExpiredEvent{
			ProductID: productID.String(),
			ClearedAt: now,
		}, productID.String())
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}

func (s *promotionService) ListActiveDeals(ctx context.Context) ([]model.Product, error) {
	flagged, err := s.productRepo.ListDealFlagged(ctx)
	if err != nil {
		return nil, fmt.Errorf("product repository list deal flagged: %w", err)
	}

	now := s.now()

	var expiredIDs []uuid.UUID
	for i := range flagged {
		if promo.Reconcile(&flagged[i], now) {
			expiredIDs = append(expiredIDs, flagged[i].ID)
		}
	}

	if len(expiredIDs) > 0 {
		if err := s.db.WithTx(ctx, func(db db.DB) error {
			// The statement re-checks the expiry predicate, so only ids
			// actually cleared get an expiry event.
			cleared, err := s.productRepo.
				WithDB(db).
				ClearExpiredDeals(ctx, expiredIDs, now)
			if err != nil {
				return fmt.Errorf("product repository clear expired deals: %w", err)
			}

			for _, id := range cleared {
				if err := createOutboxEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicDealExpired, event.DealExpiredEvent{
					ProductID: id.String(),
					ClearedAt: now,
				}, id.String()); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return nil, fmt.Errorf("db with tx: %w", err)
		}
	}

	products, err := s.productRepo.ListActiveDeals(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("product repository list active deals: %w", err)
	}

	return products, nil
}

func (s *promotionService) ApplyCoupon(ctx context.Context, productID uuid.UUID, couponToken string) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	if couponToken == CouponNone {
		return s.removeCoupon(ctx, product)
	}

	couponID, err := uuid.Parse(couponToken)
	if err != nil {
		return model.Product{}, apperr.ValidationErr.WrapParent(fmt.Errorf("parse coupon id: %w", err))
	}

	coupon, err := s.couponRepo.GetCoupon(ctx, couponID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, apperr.CouponNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("coupon repository get coupon: %w", err)
	}

	now := s.now()
	switch {
	case !coupon.IsActive:
		return model.Product{}, apperr.CouponInactiveErr
	case now.Before(coupon.StartDate):
		return model.Product{}, apperr.CouponNotYetValidErr
	case now.After(coupon.EndDate):
		return model.Product{}, apperr.CouponExpiredErr
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			SetCoupon(ctx, product.ID, &coupon.ID); err != nil {
			return fmt.Errorf("product repository set coupon: %w", err)
		}

		if err := s.couponRepo.
			WithDB(db).
			AddApplicableProduct(ctx, coupon.ID, product.ID); err != nil {
			return fmt.Errorf("coupon repository add applicable product: %w", err)
		}

		return createOutboxEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicCouponApplied, event.CouponAppliedEvent{
			ProductID: product.ID.String(),
			CouponID:  coupon.ID.String(),
		}, product.ID.String())
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	product.CouponID = &coupon.ID
	product.Coupon = &coupon

	return product, nil
}

// removeCoupon detaches the product's coupon and deletes the product from
// every coupon's applicable set, keeping both sides of the link consistent
// in one transaction.
func (s *promotionService) removeCoupon(ctx context.Context, product model.Product) (model.Product, error) {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			SetCoupon(ctx, product.ID, nil); err != nil {
			return fmt.Errorf("product repository set coupon: %w", err)
		}

		if err := s.couponRepo.
			WithDB(db).
			RemoveProductFromAll(ctx, product.ID); err != nil {
			return fmt.Errorf("coupon repository remove product from all: %w", err)
		}

		return createOutboxEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicCouponRemoved, event.CouponRemovedEvent{
			ProductID: product.ID.String(),
		}, product.ID.String())
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	product.CouponID = nil
	product.Coupon = nil

	return product, nil
}
