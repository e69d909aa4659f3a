package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/craftline/storefront/internal/apperr"
)

func decodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.ValidationErr.WrapParent(fmt.Errorf("decode request body: %w", err))
	}

	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.ValidationErr.WrapParent(fmt.Errorf("parse %s: %w", name, err))
	}

	return id, nil
}

func queryUUID(q url.Values, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(q.Get(name))
	if err != nil {
		return uuid.Nil, apperr.ValidationErr.WrapParent(fmt.Errorf("parse %s: %w", name, err))
	}

	return id, nil
}

func queryInt(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.ValidationErr.WrapParent(fmt.Errorf("parse %s: %w", name, err))
	}

	return v, nil
}

func queryFloatPtr(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.ValidationErr.WrapParent(fmt.Errorf("parse %s: %w", name, err))
	}

	return &v, nil
}

func queryBool(q url.Values, name string) bool {
	switch q.Get(name) {
	case "true", "1":
		return true
	}
	return false
}
