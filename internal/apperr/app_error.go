package apperr

import "github.com/craftline/storefront/pkg/zerror"

const (
	ValidationErrorCode = "VALIDATION_FAILED"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	ProductNotFoundErr = zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")
	CouponNotFoundErr  = zerror.NewNotFound("COUPON_NOT_FOUND", "coupon not found")

	// Coupon applicability rejections, checked in this order after lookup.
	CouponInactiveErr    = zerror.NewBadRequest("COUPON_INACTIVE", "coupon is inactive")
	CouponNotYetValidErr = zerror.NewBadRequest("COUPON_NOT_YET_VALID", "coupon is not yet valid")
	CouponExpiredErr     = zerror.NewBadRequest("COUPON_EXPIRED", "coupon has expired")

	InvalidChecksumErr = zerror.NewBadRequest("INVALID_CHECKSUM", "invalid checksum received")
)
