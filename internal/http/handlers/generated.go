package handlers

import (
	"errors"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"tryon/internal/domain"
	"tryon/internal/i18n"
	"tryon/internal/imagecodec"
	"tryon/internal/storage"
)

// GeneratedImage serves an output previously written by SaveGenerated.
func (a *App) GeneratedImage(w http.ResponseWriter, r *http.Request) {
	name := path.Base(chi.URLParam(r, "name"))
	if a.Store == nil || name == "." || name == "/" {
		a.error(w, r, http.StatusNotFound, string(domain.KindNotFound))
		return
	}
	data, err := a.Store.Read(r.Context(), storage.GeneratedPrefix+"/"+name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, r, http.StatusNotFound, string(domain.KindNotFound))
			return
		}
		a.Logger.Error().Err(err).Str("name", name).Msg("failed to read generated image")
		a.error(w, r, http.StatusInternalServerError, i18n.KeyInternal)
		return
	}
	w.Header().Set("Content-Type", imagecodec.MediaType(name, data))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
