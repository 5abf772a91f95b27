package itinerary

import (
	"fmt"
	"sort"

	"github.com/FACorreiaa/go-tourplan-recommender/internal/types"
)

// Candidate pairs a catalog POI with its theme-relevance score. Candidate
// order follows catalog order, which is the deterministic tie-break.
type Candidate struct {
	POI   types.POI
	Score float64
}

// selectCandidates picks the POIs to schedule: exactly one hotel first, then
// up to planSize-1 activities walked off the ranked list under a per-category
// cap of ceil((planSize-1)/distinct categories). When the capped walk comes up
// short, a second pass backfills from the remaining ranked activities ignoring
// the cap; the itinerary only shrinks when the catalog itself runs out.
func selectCandidates(candidates []Candidate, planSize int) ([]Candidate, error) {
	var hotels, activities []Candidate
	for _, c := range candidates {
		if c.POI.Category == types.CategoryHotel {
			hotels = append(hotels, c)
		} else {
			activities = append(activities, c)
		}
	}

	if len(hotels) == 0 {
		return nil, fmt.Errorf("no hotel in catalog for %s, %s: %w",
			candidates[0].POI.City, candidates[0].POI.Country, types.ErrNoHotelAvailable)
	}

	// Best hotel wins, first-seen on ties.
	hotel := hotels[0]
	for _, h := range hotels[1:] {
		if h.Score > hotel.Score {
			hotel = h
		}
	}

	selected := []Candidate{hotel}
	if planSize == 1 {
		return selected, nil
	}

	if len(activities) == 0 {
		return nil, fmt.Errorf("no activities to schedule alongside the hotel: %w",
			types.ErrInsufficientCandidates)
	}

	// Rank descending by score; stable sort keeps catalog order for ties.
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Score > activities[j].Score
	})

	want := planSize - 1
	maxPerCategory := categoryCap(activities, want)

	picked := make(map[int]bool, want)
	perCategory := make(map[types.Category]int)
	for i, a := range activities {
		if len(selected)-1 >= want {
			break
		}
		if perCategory[a.POI.Category] >= maxPerCategory {
			continue
		}
		picked[i] = true
		perCategory[a.POI.Category]++
		selected = append(selected, a)
	}

	// Backfill pass: lower-relevance repeats beat a shrunken plan.
	for i, a := range activities {
		if len(selected)-1 >= want {
			break
		}
		if picked[i] {
			continue
		}
		selected = append(selected, a)
	}

	return selected, nil
}

// categoryCap bounds repeats of a single activity category.
func categoryCap(activities []Candidate, want int) int {
	distinct := make(map[types.Category]bool)
	for _, a := range activities {
		distinct[a.POI.Category] = true
	}
	n := (want + len(distinct) - 1) / len(distinct)
	if n < 1 {
		n = 1
	}
	return n
}
