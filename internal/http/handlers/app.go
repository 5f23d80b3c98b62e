package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"tryon/internal/domain"
	"tryon/internal/imagecodec"
	"tryon/internal/infra"
	"tryon/internal/storage"
	"tryon/internal/tryon"
)

// TryOnService is the part of tryon.Pipeline the handlers call.
type TryOnService interface {
	ValidatePerson(ctx context.Context, src imagecodec.Source) (domain.Person, error)
	ValidateGarment(ctx context.Context, src imagecodec.Source) (domain.Garment, error)
	AnalyzeDress(ctx context.Context, src imagecodec.Source) (domain.DressAnalysis, error)
	Run(ctx context.Context, req tryon.Request) domain.Result
	RunIterativeWithID(ctx context.Context, person, garment imagecodec.Source, iterations int, requestID string) domain.Result
}

var _ TryOnService = (*tryon.Pipeline)(nil)

type App struct {
	Service        TryOnService
	Store          *storage.FileStore
	Logger         *infra.Logger
	MaxUploadBytes int64
	MaxIterations  int
}

func NewApp(service TryOnService, store *storage.FileStore, logger *infra.Logger, cfg *infra.Config) *App {
	app := &App{
		Service: service,
		Store:   store,
		Logger:  infra.OrDiscard(logger),
	}
	if cfg != nil {
		app.MaxUploadBytes = cfg.MaxUploadBytes
		app.MaxIterations = cfg.MaxIterations
	}
	if app.MaxUploadBytes <= 0 {
		app.MaxUploadBytes = 20 << 20
	}
	if app.MaxIterations <= 0 {
		app.MaxIterations = 5
	}
	return app
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
