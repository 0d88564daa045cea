// internal/api/error_codes.go
package api

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
)

// API error codes.
const (
	ErrorBadRequest    = "BAD_REQUEST"
	ErrorNotFound      = "NOT_FOUND"
	ErrorInternalError = "INTERNAL_ERROR"
	ErrorConflict      = "CONFLICT"
	ErrorForbidden     = "FORBIDDEN"
	ErrorUnauthorized  = "UNAUTHORIZED"

	ErrorDomain     = "DOMAIN_ERROR"
	ErrorEquip      = "EQUIP_ERROR"
	ErrorQuest      = "QUEST_ERROR"
	ErrorValidation = "VALIDATION_ERROR"

	ErrorEventIndexDisabled = "EVENT_INDEX_DISABLED"
	ErrorRequestCancelled   = "REQUEST_CANCELLED"
	ErrorRateLimited        = "RATE_LIMIT_EXCEEDED"
)

// statusFor maps an error to its HTTP status and API code.
func statusFor(err error) (int, string) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable, ErrorRequestCancelled
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, ErrorInternalError
	}
	switch appErr.Type {
	case apperrors.ErrorTypeDomain:
		return http.StatusBadRequest, ErrorDomain
	case apperrors.ErrorTypeEquip:
		return http.StatusBadRequest, ErrorEquip
	case apperrors.ErrorTypeQuest:
		return http.StatusBadRequest, ErrorQuest
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest, ErrorValidation
	case apperrors.ErrorTypePermission:
		return http.StatusForbidden, ErrorForbidden
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized, ErrorUnauthorized
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound, ErrorNotFound
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict, ErrorConflict
	default:
		return http.StatusInternalServerError, ErrorInternalError
	}
}
