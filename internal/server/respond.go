package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/shouni/go-amazebook-kit/pkg/auth"
	"github.com/shouni/go-amazebook-kit/pkg/domain"
	"github.com/shouni/go-amazebook-kit/pkg/generator"
	"github.com/shouni/go-amazebook-kit/pkg/payment"
	"github.com/shouni/go-amazebook-kit/pkg/project"
	"github.com/shouni/go-amazebook-kit/pkg/publisher"
	"github.com/shouni/go-amazebook-kit/pkg/settings"
)

const maxBodyBytes = 1 << 20

// JSON はステータスコード付きで JSON レスポンスを書き込みます。
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error は {"error": message} 形式のエラーレスポンスを書き込みます。
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// fail はエラーの種類に応じたステータスコードでエラーを返します。
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}
	Error(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case domain.IsValidationError(err),
		errors.Is(err, project.ErrCharacterIndex),
		errors.Is(err, auth.ErrEmailRequired),
		errors.Is(err, auth.ErrUnknownFlag),
		errors.Is(err, settings.ErrUnknownKey),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, payment.ErrCardDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	case errors.Is(err, project.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, project.ErrProjectLocked),
		errors.Is(err, generator.ErrGenerationInProgress),
		errors.Is(err, publisher.ErrNotCompleted):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

var (
	errBadRequest = errors.New("invalid request body")
	errForbidden  = errors.New("administrator access is required")
)

// decode はリクエストボディを v に読み込みます。空のボディは許容します。
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
