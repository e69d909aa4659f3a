package promo

import (
	"time"

	"github.com/craftline/storefront/internal/model"
)

// DefaultDealDuration applies when a deal is activated without an explicit duration.
const DefaultDealDuration = time.Hour

// Reconcile applies the lazy deal-expiry rule to the record in memory and
// reports whether it held an expired deal that was cleared. Every reader of
// the deal flag goes through this one rule, whether it reads a single product
// or sweeps the whole collection; expiry is never driven by a timer.
func Reconcile(p *model.Product, now time.Time) bool {
	if !p.DealOfTheDay {
		return false
	}
	if p.DealExpiresAt != nil && now.Before(*p.DealExpiresAt) {
		return false
	}

	// Expired, or flagged without an expiry (which violates the deal-state
	// invariant and is treated as expired).
	p.DealOfTheDay = false
	p.DealActivatedAt = nil
	p.DealExpiresAt = nil
	return true
}

// ActiveUntil reports whether the record carries a live deal at the given
// instant, without mutating it.
func ActiveUntil(p *model.Product, now time.Time) (time.Time, bool) {
	if !p.DealOfTheDay || p.DealExpiresAt == nil || !now.Before(*p.DealExpiresAt) {
		return time.Time{}, false
	}
	return *p.DealExpiresAt, true
}
