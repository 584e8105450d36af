package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tucancha/court-booking/internal/adapters/postgres"
	"github.com/tucancha/court-booking/internal/domain"
	"github.com/tucancha/court-booking/internal/observability"
)

type bookingGroupResponse struct {
	IDs       []uuid.UUID          `json:"ids"`
	VenueID   uuid.UUID            `json:"venue_id"`
	CourtID   uuid.UUID            `json:"court_id"`
	VenueName string               `json:"venue_name"`
	CourtName string               `json:"court_name"`
	CourtType string               `json:"court_type"`
	Status    domain.BookingStatus `json:"status"`
	Date      string               `json:"date"`
	StartTime string               `json:"start_time"`
	EndTime   string               `json:"end_time"`
	Price     int64                `json:"price"`
	Count     int                  `json:"count"`
}

type bookingResponse struct {
	ID          uuid.UUID            `json:"id"`
	VenueID     uuid.UUID            `json:"venue_id"`
	CourtID     uuid.UUID            `json:"court_id"`
	PlayerID    uuid.UUID            `json:"player_id"`
	Date        string               `json:"date"`
	StartTime   string               `json:"start_time"`
	EndTime     string               `json:"end_time"`
	Price       int64                `json:"price"`
	Status      domain.BookingStatus `json:"status"`
	VenueName   string               `json:"venue_name"`
	CourtName   string               `json:"court_name"`
	CourtType   string               `json:"court_type"`
	PlayerName  string               `json:"player_name"`
	PlayerEmail string               `json:"player_email"`
	PlayerPhone string               `json:"player_phone"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:          b.ID,
		VenueID:     b.VenueID,
		CourtID:     b.CourtID,
		PlayerID:    b.PlayerID,
		Date:        b.Date,
		StartTime:   b.StartTime,
		EndTime:     domain.SlotEnd(b.StartTime),
		Price:       b.Price,
		Status:      b.Status,
		VenueName:   b.VenueName,
		CourtName:   b.CourtName,
		CourtType:   b.CourtType,
		PlayerName:  b.PlayerName,
		PlayerEmail: b.PlayerEmail,
		PlayerPhone: b.PlayerPhone,
	}
}

func groupListResponse(groups []domain.BookingGroup) []bookingGroupResponse {
	out := make([]bookingGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, bookingGroupResponse(g))
	}
	return out
}

// ListBookings returns the caller's reservations, collapsed into per-visit
// groups. Players see their own history, owners see every booking across
// their venues.
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var bookings []domain.Booking
	var err error
	if id.Role == domain.RoleOwner {
		bookings, err = h.cache.OwnerBookings(r.Context(), id.UserID, func(ctx context.Context) ([]domain.Booking, error) {
			return h.repo.ListOwnerBookings(ctx, id.UserID)
		})
	} else {
		bookings, err = h.cache.PlayerBookings(r.Context(), id.UserID, func(ctx context.Context) ([]domain.Booking, error) {
			return h.repo.ListPlayerBookings(ctx, id.UserID)
		})
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupListResponse(domain.GroupBookings(bookings)))
}

// VenueDay is the availability grid source for one venue and date: booked
// hours plus manually disabled hours in one response.
func (h *Handlers) VenueDay(w http.ResponseWriter, r *http.Request) {
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

	bookings, err := h.cache.VenueBookings(r.Context(), venueID, date, func(ctx context.Context) ([]domain.Booking, error) {
		return h.repo.ListVenueBookings(ctx, venueID, date)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	slots, err := h.cache.DisabledSlots(r.Context(), venueID, date, func(ctx context.Context) ([]domain.DisabledSlot, error) {
		return h.repo.ListDisabledSlots(ctx, venueID, date)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	bookingOut := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		bookingOut = append(bookingOut, toBookingResponse(b))
	}
	slotOut := make([]disabledSlotResponse, 0, len(slots))
	for _, s := range slots {
		slotOut = append(slotOut, toDisabledSlotResponse(s))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bookings":       bookingOut,
		"disabled_slots": slotOut,
	})
}

type createBookingRequest struct {
	VenueID    uuid.UUID `json:"venue_id"`
	CourtID    uuid.UUID `json:"court_id"`
	Date       string    `json:"date"`
	StartTimes []string  `json:"start_times"`
}

// CreateBooking reserves one or more hours of a court for the caller. Each
// hour is its own row; all of them land in one transaction together with
// their outbox events, so a conflict on any hour rolls back the whole visit.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Date == "" || len(req.StartTimes) == 0 {
		http.Error(w, "date and start_times are required", http.StatusBadRequest)
		return
	}

	venue, err := h.repo.GetVenue(r.Context(), req.VenueID)
	if err != nil {
		writeError(w, err)
		return
	}
	var court *domain.Court
	for i := range venue.Courts {
		if venue.Courts[i].ID == req.CourtID {
			court = &venue.Courts[i]
			break
		}
	}
	if court == nil {
		http.Error(w, "court not found", http.StatusNotFound)
		return
	}

	sort.Strings(req.StartTimes)
	bookings := make([]domain.Booking, 0, len(req.StartTimes))
	for _, start := range req.StartTimes {
		bookings = append(bookings, domain.NewBooking(req.VenueID, req.CourtID, id.UserID, req.Date, start, court.PricePerHour))
	}

	err = h.repo.WithTx(r.Context(), func(tx pgx.Tx) error {
		for _, b := range bookings {
			if err := h.repo.CreateBooking(r.Context(), tx, b); err != nil {
				return err
			}
			payload, _ := json.Marshal(toBookingResponse(b))
			rec := postgres.OutboxRecord{
				ID:            uuid.New(),
				AggregateType: "booking",
				AggregateID:   b.ID,
				EventType:     "booking.created",
				Payload:       payload,
				DedupeKey:     "booking.created:" + b.ID.String(),
			}
			if err := h.repo.InsertOutbox(r.Context(), tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	observability.BookingsCreated.Add(float64(len(bookings)))
	for _, b := range bookings {
		h.audit.LogBooking(r.Context(), b)
	}
	h.cache.InvalidateBookings(r.Context(), id.UserID, venue.OwnerID, req.VenueID, req.Date)

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	writeJSON(w, http.StatusCreated, out)
}

type statusRequest struct {
	Status domain.BookingStatus `json:"status"`
}

// UpdateBookingStatus moves a booking out of ACTIVE. Players may cancel
// their own bookings; the venue owner may cancel or complete any booking on
// their courts.
func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	booking, err := h.repo.GetBooking(r.Context(), bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	venue, err := h.repo.GetVenue(r.Context(), booking.VenueID)
	if err != nil {
		writeError(w, err)
		return
	}

	isPlayer := booking.PlayerID == id.UserID
	isOwner := venue.OwnerID == id.UserID
	allowed := isOwner || (isPlayer && req.Status == domain.BookingCancelled)
	if !allowed {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if !domain.ValidTransition(booking.Status, req.Status) {
		http.Error(w, "invalid status transition", http.StatusConflict)
		return
	}

	if err := h.repo.UpdateBookingStatus(r.Context(), bookingID, req.Status); err != nil {
		writeError(w, err)
		return
	}

	h.audit.LogStatusChange(r.Context(), *booking, id.UserID, req.Status)
	event := "booking.cancelled"
	if req.Status == domain.BookingCompleted {
		event = "booking.completed"
	}
	if err := h.repo.Enqueue(r.Context(), "booking", bookingID, event, map[string]interface{}{
		"booking_id": bookingID,
		"status":     req.Status,
	}); err != nil {
		h.logger.WithError(err).Error("failed to enqueue booking event")
	}
	h.cache.InvalidateBookings(r.Context(), booking.PlayerID, venue.OwnerID, booking.VenueID, booking.Date)

	booking.Status = req.Status
	writeJSON(w, http.StatusOK, toBookingResponse(*booking))
}

// DeleteBooking removes the row outright. Owner-only; players cancel
// instead, keeping the history visible.
func (h *Handlers) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	booking, err := h.repo.GetBooking(r.Context(), bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	venue, err := h.repo.GetVenue(r.Context(), booking.VenueID)
	if err != nil {
		writeError(w, err)
		return
	}
	if venue.OwnerID != id.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := h.repo.DeleteBooking(r.Context(), bookingID); err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateBookings(r.Context(), booking.PlayerID, venue.OwnerID, booking.VenueID, booking.Date)
	w.WriteHeader(http.StatusNoContent)
}
