package handlers

import (
	"context"
	"errors"
	"net/http"

	"tryon/internal/domain"
	"tryon/internal/i18n"
	"tryon/internal/imagecodec"
	"tryon/internal/middleware"
)

type validationResponse struct {
	Success   bool   `json:"success"`
	IsValid   bool   `json:"is_valid"`
	Data      any    `json:"data"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

func (a *App) ValidatePerson(w http.ResponseWriter, r *http.Request) {
	a.validate(w, r, func(ctx context.Context, src imagecodec.Source) (bool, any, error) {
		person, err := a.Service.ValidatePerson(ctx, src)
		return person.IsPerson, person, err
	})
}

func (a *App) ValidateClothing(w http.ResponseWriter, r *http.Request) {
	a.validate(w, r, func(ctx context.Context, src imagecodec.Source) (bool, any, error) {
		garment, err := a.Service.ValidateGarment(ctx, src)
		return garment.IsClothing, garment, err
	})
}

type classifyFunc func(ctx context.Context, src imagecodec.Source) (valid bool, data any, err error)

func (a *App) validate(w http.ResponseWriter, r *http.Request, classify classifyFunc) {
	form, err := a.readForm(w, r)
	if err != nil {
		a.uploadError(w, r, err)
		return
	}
	src, ok := form.file("image")
	if !ok {
		a.error(w, r, http.StatusBadRequest, i18n.KeyUploadMissing, "image")
		return
	}

	valid, data, err := classify(r.Context(), src)
	if err != nil {
		kind, message := a.analysisFailure(r, err)
		a.json(w, statusForKind(kind), validationResponse{
			Data:      map[string]any{},
			Error:     message,
			ErrorCode: string(kind),
		})
		return
	}
	a.json(w, http.StatusOK, validationResponse{Success: true, IsValid: valid, Data: data})
}

// analysisFailure logs a failed vision call and returns its kind with the
// localized message for the caller.
func (a *App) analysisFailure(r *http.Request, err error) (domain.FailureKind, string) {
	kind := domain.KindOfContext(r.Context(), err)
	a.Logger.Warn().
		Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("path", r.URL.Path).
		Str("kind", string(kind)).
		Msg("image analysis failed")
	return kind, i18n.Failure(middleware.LocaleFromContext(r.Context()), domain.Failure{Kind: kind})
}

func (a *App) uploadError(w http.ResponseWriter, r *http.Request, err error) {
	a.Logger.Warn().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("invalid upload")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		a.error(w, r, http.StatusRequestEntityTooLarge, i18n.KeyUploadInvalid)
		return
	}
	a.error(w, r, http.StatusBadRequest, i18n.KeyUploadInvalid)
}
