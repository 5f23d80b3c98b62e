package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"tryon/internal/domain"
	"tryon/internal/i18n"
	"tryon/internal/middleware"
	"tryon/internal/prompt"
	"tryon/internal/tryon"
)

type tryOnResponse struct {
	Success     bool            `json:"success"`
	ImageBase64 string          `json:"image_base64,omitempty"`
	MIMEType    string          `json:"mime_type,omitempty"`
	Person      *domain.Person  `json:"person,omitempty"`
	Clothing    *domain.Garment `json:"clothing,omitempty"`
	Prompt      string          `json:"prompt,omitempty"`
	Round       *int            `json:"round,omitempty"`
	StorageKey  string          `json:"storage_key,omitempty"`
	Error       string          `json:"error,omitempty"`
	ErrorCode   string          `json:"error_code,omitempty"`
}

var cameraFields = []string{"shot_type", "focal_length", "angle", "depth_of_field"}

func (a *App) TryOn(w http.ResponseWriter, r *http.Request) {
	a.tryOn(w, r, "")
}

func (a *App) TryOnWedding(w http.ResponseWriter, r *http.Request) {
	a.tryOn(w, r, prompt.StyleWedding)
}

func (a *App) tryOn(w http.ResponseWriter, r *http.Request, forced prompt.Style) {
	form, ok := a.tryOnForm(w, r)
	if !ok {
		return
	}
	style := forced
	if style == "" {
		style = prompt.ParseStyle(form.value("style", string(prompt.StyleDefault)))
	}
	camera := make(map[string]string, len(cameraFields))
	for _, field := range cameraFields {
		camera[field] = form.value(field, "")
	}

	person, _ := form.file("person_image")
	garment, _ := form.file("clothing_image")
	res := a.Service.Run(r.Context(), tryon.Request{
		Person:    person,
		Garment:   garment,
		Style:     style,
		Camera:    prompt.CameraSettingsFromMap(camera),
		RequestID: middleware.RequestIDFromContext(r.Context()),
	})
	a.writeResult(w, r, res, false)
}

func (a *App) TryOnIterative(w http.ResponseWriter, r *http.Request) {
	form, ok := a.tryOnForm(w, r)
	if !ok {
		return
	}
	iterations := tryon.DefaultIterations
	if raw := form.value("iterations", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			a.error(w, r, http.StatusBadRequest, i18n.KeyUploadInvalid)
			return
		}
		iterations = n
	}
	iterations = min(max(iterations, 1), a.MaxIterations)

	person, _ := form.file("person_image")
	garment, _ := form.file("clothing_image")
	res := a.Service.RunIterativeWithID(r.Context(), person, garment, iterations, middleware.RequestIDFromContext(r.Context()))
	a.writeResult(w, r, res, true)
}

func (a *App) tryOnForm(w http.ResponseWriter, r *http.Request) (*uploadForm, bool) {
	form, err := a.readForm(w, r)
	if err != nil {
		a.uploadError(w, r, err)
		return nil, false
	}
	for _, field := range []string{"person_image", "clothing_image"} {
		if _, ok := form.file(field); !ok {
			a.error(w, r, http.StatusBadRequest, i18n.KeyUploadMissing, field)
			return nil, false
		}
	}
	return form, true
}

func (a *App) writeResult(w http.ResponseWriter, r *http.Request, res domain.Result, withRound bool) {
	requestID := middleware.RequestIDFromContext(r.Context())
	switch out := res.(type) {
	case domain.Success:
		body := tryOnResponse{
			Success:     true,
			ImageBase64: base64.StdEncoding.EncodeToString(out.Image),
			MIMEType:    out.MIMEType,
			Person:      out.Person,
			Clothing:    out.Garment,
			Prompt:      out.Prompt,
		}
		if withRound {
			round := out.Round
			body.Round = &round
		}
		if a.Store != nil {
			key, err := a.Store.SaveGenerated(r.Context(), requestID, out.Image, out.MIMEType)
			if err != nil {
				a.Logger.Error().Err(err).Str("request_id", requestID).Msg("failed to store generated image")
			} else {
				body.StorageKey = key
			}
		}
		a.Logger.Info().
			Str("request_id", requestID).
			Str("mime_type", out.MIMEType).
			Int("bytes", len(out.Image)).
			Int("round", out.Round).
			Str("storage_key", body.StorageKey).
			Msg("try-on succeeded")
		a.json(w, http.StatusOK, body)
	case domain.Failure:
		a.Logger.Warn().
			Str("request_id", requestID).
			Str("kind", string(out.Kind)).
			Str("cause", string(out.Cause)).
			Int("attempts", out.Attempts).
			Str("error", out.Message).
			Msg("try-on failed")
		a.json(w, statusForKind(out.Kind), tryOnResponse{
			Person:    out.Person,
			Clothing:  out.Garment,
			Error:     i18n.Failure(middleware.LocaleFromContext(r.Context()), out),
			ErrorCode: string(out.Kind),
		})
	default:
		a.error(w, r, http.StatusInternalServerError, i18n.KeyInternal)
	}
}
