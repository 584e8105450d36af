package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tucancha/court-booking/internal/adapters/mongo"
	"github.com/tucancha/court-booking/internal/adapters/postgres"
	"github.com/tucancha/court-booking/internal/availability"
	"github.com/tucancha/court-booking/internal/config"
	"github.com/tucancha/court-booking/internal/domain"
	"github.com/tucancha/court-booking/internal/geo"
	"github.com/tucancha/court-booking/internal/observability"
	"github.com/tucancha/court-booking/internal/readcache"
	"github.com/tucancha/court-booking/internal/storage"
)

type Handlers struct {
	cfg      *config.Config
	repo     *postgres.Repository
	cache    *readcache.Store
	toggler  *availability.Toggler
	audit    *mongo.AuditLogger
	geocoder *geo.Client
	images   *storage.ImageStore
	logger   observability.Logger
}

func NewHandlers(cfg *config.Config, repo *postgres.Repository, cache *readcache.Store, toggler *availability.Toggler, audit *mongo.AuditLogger, geocoder *geo.Client, images *storage.ImageStore, logger observability.Logger) *Handlers {
	return &Handlers{
		cfg:      cfg,
		repo:     repo,
		cache:    cache,
		toggler:  toggler,
		audit:    audit,
		geocoder: geocoder,
		images:   images,
		logger:   logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrConflict):
		http.Error(w, "conflict", http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}

func (h *Handlers) Geocode(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		http.Error(w, "missing address", http.StatusBadRequest)
		return
	}
	coords, err := h.geocoder.Geocode(r.Context(), address)
	if err != nil {
		writeError(w, err)
		return
	}
	if coords == nil {
		http.Error(w, "address not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, coords)
}
