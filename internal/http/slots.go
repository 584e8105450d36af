package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tucancha/court-booking/internal/domain"
)

type disabledSlotResponse struct {
	ID        uuid.UUID `json:"id"`
	VenueID   uuid.UUID `json:"venue_id"`
	CourtID   uuid.UUID `json:"court_id"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"time_slot"`
	CreatedBy uuid.UUID `json:"created_by"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func toDisabledSlotResponse(s domain.DisabledSlot) disabledSlotResponse {
	return disabledSlotResponse(s)
}

func (h *Handlers) ListDisabledSlots(w http.ResponseWriter, r *http.Request) {
	venueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "missing date", http.StatusBadRequest)
		return
	}

	slots, err := h.cache.DisabledSlots(r.Context(), venueID, date, func(ctx context.Context) ([]domain.DisabledSlot, error) {
		return h.repo.ListDisabledSlots(ctx, venueID, date)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]disabledSlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toDisabledSlotResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

type toggleRequest struct {
	CourtID  uuid.UUID `json:"court_id"`
	Date     string    `json:"date"`
	TimeSlot string    `json:"time_slot"`
	Reason   string    `json:"reason"`
}

// ToggleSlot flips the blocked state of one court hour. The response only
// says whether the flip landed; the client re-reads the slot list for the
// resulting state.
func (h *Handlers) ToggleSlot(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	venueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if venue := h.ownedVenue(w, r, id, venueID); venue == nil {
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Date == "" || req.TimeSlot == "" {
		http.Error(w, "date and time_slot are required", http.StatusBadRequest)
		return
	}

	ok := h.toggler.Toggle(r.Context(), venueID, req.CourtID, req.Date, req.TimeSlot, id.UserID, req.Reason)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": ok})
}

// CreateDisabledSlot blocks one court hour directly, with the reason the
// owner typed. Blocking an already blocked hour is a conflict.
func (h *Handlers) CreateDisabledSlot(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	venueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if venue := h.ownedVenue(w, r, id, venueID); venue == nil {
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Date == "" || req.TimeSlot == "" {
		http.Error(w, "date and time_slot are required", http.StatusBadRequest)
		return
	}

	slot, err := h.toggler.Block(r.Context(), venueID, req.CourtID, req.Date, req.TimeSlot, id.UserID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDisabledSlotResponse(slot))
}

func (h *Handlers) DeleteDisabledSlot(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	venueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	slotID, err := uuid.Parse(chi.URLParam(r, "slotID"))
	if err != nil {
		http.Error(w, "invalid slot id", http.StatusBadRequest)
		return
	}
	if venue := h.ownedVenue(w, r, id, venueID); venue == nil {
		return
	}

	if err := h.toggler.Unblock(r.Context(), venueID, slotID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
