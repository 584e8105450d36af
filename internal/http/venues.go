package http

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tucancha/court-booking/internal/domain"
	"github.com/tucancha/court-booking/internal/geo"
)

type courtRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PricePerHour int64  `json:"price_per_hour"`
	ImageURL     string `json:"image_url"`
}

type venueRequest struct {
	Name         string         `json:"name"`
	Address      string         `json:"address"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	ImageURL     string         `json:"image_url"`
	OpeningHours string         `json:"opening_hours"`
	Amenities    []string       `json:"amenities"`
	ContactInfo  string         `json:"contact_info"`
	IsActive     *bool          `json:"is_active"`
	Courts       []courtRequest `json:"courts"`
}

type venueResponse struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Latitude     *float64        `json:"latitude"`
	Longitude    *float64        `json:"longitude"`
	ImageURL     string          `json:"image_url"`
	OpeningHours string          `json:"opening_hours"`
	Amenities    []string        `json:"amenities"`
	ContactInfo  string          `json:"contact_info"`
	IsActive     bool            `json:"is_active"`
	Courts       []courtResponse `json:"courts"`
}

type courtResponse struct {
	ID           uuid.UUID `json:"id"`
	VenueID      uuid.UUID `json:"venue_id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	PricePerHour int64     `json:"price_per_hour"`
	IsActive     bool      `json:"is_active"`
	ImageURL     string    `json:"image_url"`
}

func toVenueResponse(v domain.Venue) venueResponse {
	resp := venueResponse{
		ID:           v.ID,
		OwnerID:      v.OwnerID,
		Name:         v.Name,
		Address:      v.Address,
		Latitude:     v.Latitude,
		Longitude:    v.Longitude,
		ImageURL:     v.ImageURL,
		OpeningHours: v.OpeningHours,
		Amenities:    v.Amenities,
		ContactInfo:  v.ContactInfo,
		IsActive:     v.IsActive,
		Courts:       []courtResponse{},
	}
	for _, c := range v.Courts {
		resp.Courts = append(resp.Courts, courtResponse(c))
	}
	return resp
}

func venueListResponse(venues []domain.Venue) []venueResponse {
	out := make([]venueResponse, 0, len(venues))
	for _, v := range venues {
		out = append(out, toVenueResponse(v))
	}
	return out
}

// ListVenues is the player-facing catalog of active venues. With lat and lng
// query params the listing reorders nearest first; venues without
// coordinates sink to the end.
func (h *Handlers) ListVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.cache.ActiveVenues(r.Context(), h.repo.ListActiveVenues)
	if err != nil {
		writeError(w, err)
		return
	}

	latStr, lngStr := r.URL.Query().Get("lat"), r.URL.Query().Get("lng")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			http.Error(w, "invalid coordinates", http.StatusBadRequest)
			return
		}
		sorted := make([]domain.Venue, len(venues))
		copy(sorted, venues)
		sort.SliceStable(sorted, func(i, j int) bool {
			return venueDistance(sorted[i], lat, lng) < venueDistance(sorted[j], lat, lng)
		})
		venues = sorted
	}

	writeJSON(w, http.StatusOK, venueListResponse(venues))
}

func venueDistance(v domain.Venue, lat, lng float64) float64 {
	if v.Latitude == nil || v.Longitude == nil {
		return math.MaxFloat64
	}
	return geo.Distance(lat, lng, *v.Latitude, *v.Longitude)
}

func (h *Handlers) ListMyVenues(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	venues, err := h.cache.OwnerVenues(r.Context(), id.UserID, func(ctx context.Context) ([]domain.Venue, error) {
		return h.repo.ListOwnerVenues(ctx, id.UserID)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, venueListResponse(venues))
}

func (h *Handlers) GetVenue(w http.ResponseWriter, r *http.Request) {
	venueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	venue, err := h.repo.GetVenue(r.Context(), venueID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVenueResponse(*venue))
}

// CreateVenue inserts the venue and its initial courts in one transaction.
// Unlike the rest of the write paths this one reports every failure back to
// the caller verbatim; a silent half-created venue is worse than an error
// screen on the owner's setup form.
func (h *Handlers) CreateVenue(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var req venueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	venue := domain.Venue{
		ID:           uuid.New(),
		OwnerID:      id.UserID,
		Name:         req.Name,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ImageURL:     req.ImageURL,
		OpeningHours: req.OpeningHours,
		Amenities:    req.Amenities,
		ContactInfo:  req.ContactInfo,
		IsActive:     true,
	}

	// Resolve coordinates from the address when the client sent none. A
	// geocoder miss leaves them empty rather than blocking the create.
	if venue.Latitude == nil && venue.Address != "" {
		if coords, err := h.geocoder.Geocode(r.Context(), venue.Address); err == nil && coords != nil {
			venue.Latitude = &coords.Lat
			venue.Longitude = &coords.Lng
		}
	}

	courts := make([]domain.Court, 0, len(req.Courts))
	for _, c := range req.Courts {
		courts = append(courts, domain.Court{
			ID:           uuid.New(),
			VenueID:      venue.ID,
			Name:         c.Name,
			Type:         c.Type,
			PricePerHour: c.PricePerHour,
			IsActive:     true,
			ImageURL:     c.ImageURL,
		})
	}

	err := h.repo.WithTx(r.Context(), func(tx pgx.Tx) error {
		if err := h.repo.CreateVenue(r.Context(), tx, venue); err != nil {
			return err
		}
		return h.repo.AddCourts(r.Context(), tx, venue.ID, courts)
	})
	if err != nil {
		h.logger.WithError(err).Error("venue creation failed")
		writeError(w, err)
		return
	}

	h.cache.InvalidateVenues(r.Context(), id.UserID)
	venue.Courts = courts
	writeJSON(w, http.StatusCreated, toVenueResponse(venue))
}

func (h *Handlers) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	venueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	venue := h.ownedVenue(w, r, id, venueID)
	if venue == nil {
		return
	}

	var req venueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	venue.Name = req.Name
	venue.Address = req.Address
	venue.Latitude = req.Latitude
	venue.Longitude = req.Longitude
	venue.ImageURL = req.ImageURL
	venue.OpeningHours = req.OpeningHours
	venue.Amenities = req.Amenities
	venue.ContactInfo = req.ContactInfo
	if req.IsActive != nil {
		venue.IsActive = *req.IsActive
	}

	if err := h.repo.UpdateVenue(r.Context(), *venue); err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateVenues(r.Context(), id.UserID)
	writeJSON(w, http.StatusOK, toVenueResponse(*venue))
}

func (h *Handlers) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	venueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if venue := h.ownedVenue(w, r, id, venueID); venue == nil {
		return
	}
	if err := h.repo.DeleteVenue(r.Context(), venueID); err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateVenues(r.Context(), id.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AddCourts(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	venueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if venue := h.ownedVenue(w, r, id, venueID); venue == nil {
		return
	}

	var req []courtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	courts := make([]domain.Court, 0, len(req))
	for _, c := range req {
		courts = append(courts, domain.Court{
			ID:           uuid.New(),
			VenueID:      venueID,
			Name:         c.Name,
			Type:         c.Type,
			PricePerHour: c.PricePerHour,
			IsActive:     true,
			ImageURL:     c.ImageURL,
		})
	}

	err = h.repo.WithTx(r.Context(), func(tx pgx.Tx) error {
		return h.repo.AddCourts(r.Context(), tx, venueID, courts)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateVenues(r.Context(), id.UserID)

	out := make([]courtResponse, 0, len(courts))
	for _, c := range courts {
		out = append(out, courtResponse(c))
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) UpdateCourt(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	courtID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	court, err := h.repo.GetCourt(r.Context(), courtID)
	if err != nil {
		writeError(w, err)
		return
	}
	if venue := h.ownedVenue(w, r, id, court.VenueID); venue == nil {
		return
	}

	var req courtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	court.Name = req.Name
	court.Type = req.Type
	court.PricePerHour = req.PricePerHour
	court.ImageURL = req.ImageURL

	if err := h.repo.UpdateCourt(r.Context(), *court); err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateVenues(r.Context(), id.UserID)
	writeJSON(w, http.StatusOK, courtResponse(*court))
}

func (h *Handlers) DeleteCourt(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	courtID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	court, err := h.repo.GetCourt(r.Context(), courtID)
	if err != nil {
		writeError(w, err)
		return
	}
	if venue := h.ownedVenue(w, r, id, court.VenueID); venue == nil {
		return
	}

	if err := h.repo.DeleteCourt(r.Context(), courtID); err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateVenues(r.Context(), id.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// ownedVenue loads the venue and rejects callers that do not own it. A nil
// return means the response has already been written.
func (h *Handlers) ownedVenue(w http.ResponseWriter, r *http.Request, id Identity, venueID uuid.UUID) *domain.Venue {
	venue, err := h.repo.GetVenue(r.Context(), venueID)
	if err != nil {
		writeError(w, err)
		return nil
	}
	if venue.OwnerID != id.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil
	}
	return venue
}
