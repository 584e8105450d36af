package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/tucancha/court-booking/internal/domain"
)

type profileResponse struct {
	ID       uuid.UUID   `json:"id"`
	Role     domain.Role `json:"role"`
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	profile, err := h.repo.GetProfile(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse(*profile))
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var req struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.repo.GetProfile(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	profile.FullName = req.FullName
	profile.Phone = req.Phone

	if err := h.repo.UpdateProfile(r.Context(), *profile); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse(*profile))
}
