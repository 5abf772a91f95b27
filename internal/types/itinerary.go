package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ItineraryRequest is the validated input for one itinerary generation call.
// Times are wall-clock labels in "HH:MM" form, window is [StartTime, EndTime).
type ItineraryRequest struct {
	City      string `json:"city"`
	Country   string `json:"country"`
	Theme     Theme  `json:"theme"`
	PlanSize  int    `json:"plan_size"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Language  string `json:"language"`
}

// POIReference identifies the POI assigned to a slot.
type POIReference struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category Category  `json:"category"`
}

// ScheduledSlot is one contiguous time range of the itinerary assigned to a POI.
type ScheduledSlot struct {
	StartTime      string       `json:"start_time"`
	EndTime        string       `json:"end_time"`
	POI            POIReference `json:"poi"`
	RelevanceScore float64      `json:"relevance_score"`
}

// Itinerary is the ordered slot sequence for one request. The first slot is
// always the hotel.
type Itinerary struct {
	City      string          `json:"city"`
	Country   string          `json:"country"`
	Theme     Theme           `json:"theme"`
	StartTime string          `json:"start_time"`
	EndTime   string          `json:"end_time"`
	Slots     []ScheduledSlot `json:"slots"`
}

// ParseClock converts an "HH:MM" label into minutes since midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock converts minutes since midnight back into an "HH:MM" label.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
