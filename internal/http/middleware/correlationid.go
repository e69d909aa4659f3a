package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/craftline/storefront/pkg/correlationid"
)

// CorrelationID reads the correlation id header, minting one when absent,
// and carries it on the request context and the response.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(correlationid.Header)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(correlationid.Header, id)
			r = r.WithContext(correlationid.NewContext(r.Context(), id))

			next.ServeHTTP(w, r)
		})
	}
}
