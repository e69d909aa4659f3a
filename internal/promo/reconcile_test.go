package promo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/craftline/storefront/internal/model"
	"github.com/craftline/storefront/internal/promo"
	"github.com/craftline/storefront/pkg/ptr"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestReconcile(t *testing.T) {
	t.Run("Should leave unflagged product alone", func(t *testing.T) {
		p := model.Product{}

		assert.False(t, promo.Reconcile(&p, now))
		assert.False(t, p.DealOfTheDay)
	})

	t.Run("Should leave live deal alone", func(t *testing.T) {
		p := model.Product{
			DealOfTheDay:    true,
			DealActivatedAt: ptr.New(now.Add(-30 * time.Minute)),
			DealExpiresAt:   ptr.New(now.Add(30 * time.Minute)),
		}

		assert.False(t, promo.Reconcile(&p, now))
		assert.True(t, p.DealOfTheDay)
		assert.NotNil(t, p.DealExpiresAt)
	})

	t.Run("Should clear deal expired exactly at deadline", func(t *testing.T) {
		p := model.Product{
			DealOfTheDay:  true,
			DealExpiresAt: ptr.New(now),
		}

		assert.True(t, promo.Reconcile(&p, now))
		assert.False(t, p.DealOfTheDay)
		assert.Nil(t, p.DealActivatedAt)
		assert.Nil(t, p.DealExpiresAt)
	})

	t.Run("Should clear flagged product without deadline", func(t *testing.T) {
		p := model.Product{DealOfTheDay: true}

		assert.True(t, promo.Reconcile(&p, now))
		assert.False(t, p.DealOfTheDay)
	})
}

func TestActiveUntil(t *testing.T) {
	deadline := now.Add(time.Hour)

	p := model.Product{
		DealOfTheDay:  true,
		DealExpiresAt: &deadline,
	}

	got, ok := promo.ActiveUntil(&p, now)
	assert.True(t, ok)
	assert.Equal(t, deadline, got)

	_, ok = promo.ActiveUntil(&p, deadline)
	assert.False(t, ok)

	_, ok = promo.ActiveUntil(&model.Product{}, now)
	assert.False(t, ok)
}
