package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/craftline/storefront/internal/http/apierr"
)

type responder struct {
	logger *slog.Logger
}

func (rs *responder) respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		rs.logger.ErrorContext(r.Context(), "error encoding response", slog.Any("error", err))
	}
}

func (rs *responder) respondHTML(w http.ResponseWriter, r *http.Request, status int, fragment string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if _, err := w.Write([]byte(fragment)); err != nil {
		rs.logger.ErrorContext(r.Context(), "error writing response", slog.Any("error", err))
	}
}

func (rs *responder) respondError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	rs.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		rs.logger.ErrorContext(r.Context(), "error encoding error response", slog.Any("error", err))
	}
}
