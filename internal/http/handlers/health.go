package handlers

import (
	"net/http"
)

type indexResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Version is reported by the index endpoint.
var Version = "1.0.0"

func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, indexResponse{
		Message: "Virtual Try-On API",
		Version: Version,
		Endpoints: map[string]string{
			"health":            "/health",
			"validate_person":   "/validate/person",
			"validate_clothing": "/validate/clothing",
			"analyze_dress":     "/analyze/dress",
			"try_on":            "/try-on",
			"try_on_wedding":    "/try-on/wedding",
			"try_on_iterative":  "/try-on/iterative",
		},
	})
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "healthy"})
}
