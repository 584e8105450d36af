package domain

import (
	"testing"

	"github.com/google/uuid"
)

func dayRow(date string, price int64, status BookingStatus, courtName string) Booking {
	b := hourRow(uuid.New(), uuid.New(), uuid.New(), date, "10:00", price, status)
	b.CourtName = courtName
	return b
}

func TestComputeDashboard_RevenueAndCounts(t *testing.T) {
	rows := []Booking{
		dayRow("2026-03-10", 100000, BookingActive, "Padel 1"),
		dayRow("2026-03-10", 50000, BookingCompleted, "Padel 2"),
		dayRow("2026-03-10", 80000, BookingCancelled, "Padel 1"),
		dayRow("2026-03-09", 100000, BookingActive, "Padel 1"),
	}

	stats := ComputeDashboard(rows, "2026-03-10")
	if stats.Revenue != 150000 {
		t.Errorf("expected revenue 150000, got %d", stats.Revenue)
	}
	if stats.ActiveCount != 2 {
		t.Errorf("expected 2 active, got %d", stats.ActiveCount)
	}
	if stats.CancelledCount != 1 {
		t.Errorf("expected 1 cancelled, got %d", stats.CancelledCount)
	}
	if stats.RevenueGrowth != 50 {
		t.Errorf("expected growth 50, got %f", stats.RevenueGrowth)
	}
}

func TestComputeDashboard_GrowthZeroPriorDay(t *testing.T) {
	// Prior day has no revenue: growth reports exactly 100 even when the
	// selected day is also empty.
	stats := ComputeDashboard(nil, "2026-03-10")
	if stats.RevenueGrowth != 100 {
		t.Errorf("expected growth 100 with zero prior revenue, got %f", stats.RevenueGrowth)
	}

	rows := []Booking{dayRow("2026-03-10", 150000, BookingActive, "Padel 1")}
	stats = ComputeDashboard(rows, "2026-03-10")
	if stats.RevenueGrowth != 100 {
		t.Errorf("expected growth 100, got %f", stats.RevenueGrowth)
	}
}

func TestComputeDashboard_NegativeGrowth(t *testing.T) {
	rows := []Booking{
		dayRow("2026-03-09", 100000, BookingActive, "Padel 1"),
		dayRow("2026-03-10", 50000, BookingActive, "Padel 1"),
	}
	stats := ComputeDashboard(rows, "2026-03-10")
	if stats.RevenueGrowth != -50 {
		t.Errorf("expected growth -50, got %f", stats.RevenueGrowth)
	}
}

func TestComputeDashboard_SevenDaySeries(t *testing.T) {
	rows := []Booking{
		dayRow("2026-03-10", 100000, BookingActive, "Padel 1"),
		dayRow("2026-03-07", 60000, BookingCompleted, "Padel 1"),
		dayRow("2026-03-01", 60000, BookingActive, "Padel 1"), // outside window
	}

	stats := ComputeDashboard(rows, "2026-03-10")
	if len(stats.RevenueSeries) != 7 {
		t.Fatalf("expected 7 series entries, got %d", len(stats.RevenueSeries))
	}
	if stats.RevenueSeries[0].Date != "2026-03-04" {
		t.Errorf("expected series to start 2026-03-04, got %s", stats.RevenueSeries[0].Date)
	}
	if stats.RevenueSeries[6].Date != "2026-03-10" {
		t.Errorf("expected series to end on selected date, got %s", stats.RevenueSeries[6].Date)
	}
	if stats.RevenueSeries[6].Revenue != 100000 {
		t.Errorf("expected 100000 on selected date, got %d", stats.RevenueSeries[6].Revenue)
	}
	if stats.RevenueSeries[3].Revenue != 60000 {
		t.Errorf("expected 60000 on 2026-03-07, got %d", stats.RevenueSeries[3].Revenue)
	}
	for i, p := range stats.RevenueSeries {
		if p.Date == "2026-03-07" || p.Date == "2026-03-10" {
			continue
		}
		if p.Revenue != 0 {
			t.Errorf("expected zero revenue at %d (%s), got %d", i, p.Date, p.Revenue)
		}
	}
}

func TestComputeDashboard_SportSplit(t *testing.T) {
	rows := []Booking{
		dayRow("2026-03-10", 100000, BookingActive, "Beach Tennis 1"),
		dayRow("2026-03-10", 100000, BookingActive, "Padel Central"),
		dayRow("2026-03-10", 100000, BookingCompleted, "Cancha Beach 2"),
		dayRow("2026-03-10", 100000, BookingCancelled, "Beach Tennis 1"), // cancelled, excluded
	}

	stats := ComputeDashboard(rows, "2026-03-10")
	counts := map[string]int{}
	for _, s := range stats.SportSplit {
		counts[s.Sport] = s.Count
	}
	if counts["Beach Tennis"] != 2 {
		t.Errorf("expected 2 beach tennis, got %d", counts["Beach Tennis"])
	}
	if counts["Padel"] != 1 {
		t.Errorf("expected 1 padel, got %d", counts["Padel"])
	}
}
