package domain

import (
	"strings"
	"time"
)

// DashboardStats is the owner view for one selected date.
type DashboardStats struct {
	Date           string
	Revenue        int64
	ActiveCount    int
	CancelledCount int
	RevenueGrowth  float64
	RevenueSeries  []RevenuePoint
	SportSplit     []SportCount
}

type RevenuePoint struct {
	Date    string
	Revenue int64
}

type SportCount struct {
	Sport string
	Count int
}

const dateLayout = "2006-01-02"

func countsTowardRevenue(s BookingStatus) bool {
	return s == BookingActive || s == BookingCompleted
}

func revenueOn(bookings []Booking, date string) int64 {
	var sum int64
	for _, b := range bookings {
		if b.Date == date && countsTowardRevenue(b.Status) {
			sum += b.Price
		}
	}
	return sum
}

// ComputeDashboard aggregates a booking set for one selected date. Growth is
// measured against the prior calendar day and reported as exactly 100 when
// that day had no revenue, whatever today's number is. The revenue series
// always holds the 7 days ending on the selected date, zero-filled.
func ComputeDashboard(bookings []Booking, selectedDate string) DashboardStats {
	stats := DashboardStats{Date: selectedDate}

	for _, b := range bookings {
		if b.Date != selectedDate {
			continue
		}
		switch {
		case countsTowardRevenue(b.Status):
			stats.ActiveCount++
			stats.Revenue += b.Price
		case b.Status == BookingCancelled:
			stats.CancelledCount++
		}
	}

	day, err := time.Parse(dateLayout, selectedDate)
	if err != nil {
		return stats
	}

	prevRevenue := revenueOn(bookings, day.AddDate(0, 0, -1).Format(dateLayout))
	if prevRevenue == 0 {
		stats.RevenueGrowth = 100
	} else {
		stats.RevenueGrowth = float64(stats.Revenue-prevRevenue) / float64(prevRevenue) * 100
	}

	stats.RevenueSeries = make([]RevenuePoint, 0, 7)
	for i := 6; i >= 0; i-- {
		d := day.AddDate(0, 0, -i).Format(dateLayout)
		stats.RevenueSeries = append(stats.RevenueSeries, RevenuePoint{Date: d, Revenue: revenueOn(bookings, d)})
	}

	stats.SportSplit = sportSplit(bookings, selectedDate)
	return stats
}

// sportSplit categorizes the day's countable bookings by court name. The
// substring match is a heuristic carried over from the venue naming scheme,
// not venue metadata.
func sportSplit(bookings []Booking, date string) []SportCount {
	var split []SportCount
	for _, b := range bookings {
		if b.Date != date || !countsTowardRevenue(b.Status) {
			continue
		}
		sport := "Padel"
		if strings.Contains(b.CourtName, "Beach") {
			sport = "Beach Tennis"
		}
		found := false
		for i := range split {
			if split[i].Sport == sport {
				split[i].Count++
				found = true
				break
			}
		}
		if !found {
			split = append(split, SportCount{Sport: sport, Count: 1})
		}
	}
	return split
}
