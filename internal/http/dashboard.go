package http

import (
	"context"
	"net/http"
	"time"

	"github.com/tucancha/court-booking/internal/domain"
)

type revenuePointResponse struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

type sportCountResponse struct {
	Sport string `json:"sport"`
	Count int    `json:"count"`
}

type dashboardResponse struct {
	Date           string                 `json:"date"`
	Revenue        int64                  `json:"revenue"`
	ActiveCount    int                    `json:"active_count"`
	CancelledCount int                    `json:"cancelled_count"`
	RevenueGrowth  float64                `json:"revenue_growth"`
	RevenueSeries  []revenuePointResponse `json:"revenue_series"`
	SportSplit     []sportCountResponse   `json:"sport_split"`
}

// Dashboard aggregates the owner's bookings for one date: revenue, counts,
// day-over-day growth, the trailing 7-day revenue series and a per-sport
// split.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	bookings, err := h.cache.OwnerBookings(r.Context(), id.UserID, func(ctx context.Context) ([]domain.Booking, error) {
		return h.repo.ListOwnerBookings(ctx, id.UserID)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	stats := domain.ComputeDashboard(bookings, date)
	resp := dashboardResponse{
		Date:           stats.Date,
		Revenue:        stats.Revenue,
		ActiveCount:    stats.ActiveCount,
		CancelledCount: stats.CancelledCount,
		RevenueGrowth:  stats.RevenueGrowth,
		RevenueSeries:  make([]revenuePointResponse, 0, len(stats.RevenueSeries)),
		SportSplit:     make([]sportCountResponse, 0, len(stats.SportSplit)),
	}
	for _, p := range stats.RevenueSeries {
		resp.RevenueSeries = append(resp.RevenueSeries, revenuePointResponse(p))
	}
	for _, s := range stats.SportSplit {
		resp.SportSplit = append(resp.SportSplit, sportCountResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}
