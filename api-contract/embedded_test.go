package apicontract_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/craftline/storefront/api-contract"
)

func TestSpecIsValidOpenAPI(t *testing.T) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(apicontract.GetSpecBytes())
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	for _, path := range []string{
		"/api/products",
		"/api/products/search",
		"/api/products/top-selling",
		"/api/products/top-selling-categories",
		"/api/products/deals",
		"/api/products/{productId}",
		"/api/products/{productId}/deal",
		"/api/products/{productId}/coupon",
		"/api/payment/initiate",
		"/api/payment/callback",
	} {
		assert.NotNil(t, doc.Paths.Find(path), "missing path %s", path)
	}
}
