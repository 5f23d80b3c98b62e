package handlers

import (
	"net/http"

	"tryon/internal/domain"
	"tryon/internal/i18n"
	"tryon/internal/middleware"
)

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
}

// error writes a localized error envelope for one of the i18n keys.
func (a *App) error(w http.ResponseWriter, r *http.Request, code int, key string, args ...any) {
	a.json(w, code, errorResponse{
		Error:     i18n.Sprintf(middleware.LocaleFromContext(r.Context()), key, args...),
		ErrorCode: key,
	})
}

// RateLimited is the rejection handler for middleware.RateLimit.
func (a *App) RateLimited(w http.ResponseWriter, r *http.Request) {
	a.error(w, r, http.StatusTooManyRequests, i18n.KeyRateLimited)
}

func statusForKind(kind domain.FailureKind) int {
	switch kind {
	case domain.KindNotFound, domain.KindInvalidImage, domain.KindValidation, domain.KindContentRejected:
		return http.StatusUnprocessableEntity
	case domain.KindCanceled:
		return http.StatusRequestTimeout
	case domain.KindNoImage, domain.KindTransport, domain.KindRetryExhausted:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
