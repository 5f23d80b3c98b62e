package handlers

import (
	"net/http"

	"tryon/internal/domain"
	"tryon/internal/i18n"
)

type analysisResponse struct {
	Success   bool                  `json:"success"`
	Data      *domain.DressAnalysis `json:"data,omitempty"`
	Error     string                `json:"error,omitempty"`
	ErrorCode string                `json:"error_code,omitempty"`
}

// AnalyzeDress describes the dress in the "image" upload as a prompt plus a
// tagged schema.
func (a *App) AnalyzeDress(w http.ResponseWriter, r *http.Request) {
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

	analysis, err := a.Service.AnalyzeDress(r.Context(), src)
	if err != nil {
		kind, message := a.analysisFailure(r, err)
		a.json(w, statusForKind(kind), analysisResponse{Error: message, ErrorCode: string(kind)})
		return
	}
	a.json(w, http.StatusOK, analysisResponse{Success: true, Data: &analysis})
}
