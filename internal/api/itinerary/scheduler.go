package itinerary

import (
	"fmt"

	"github.com/FACorreiaa/go-tourplan-recommender/internal/types"
)

// slotBounds is one (start, end) pair in minutes since midnight.
type slotBounds struct {
	start int
	end   int
}

// buildSlots tiles the [startMin, endMin) window across n contiguous slots.
// All arithmetic is in whole minutes: the base duration is the floored
// division of the window by n, and the final slot absorbs the remainder so
// the last end always equals endMin.
func buildSlots(startMin, endMin, n int) ([]slotBounds, error) {
	if startMin >= endMin {
		return nil, fmt.Errorf("window %s-%s is empty: %w",
			types.FormatClock(startMin), types.FormatClock(endMin), types.ErrInvalidWindow)
	}
	if n <= 0 {
		return nil, fmt.Errorf("cannot tile %d slots: %w", n, types.ErrSchedulingInvariant)
	}

	base := (endMin - startMin) / n
	slots := make([]slotBounds, n)
	cur := startMin
	for i := 0; i < n; i++ {
		next := cur + base
		if i == n-1 {
			next = endMin
		}
		slots[i] = slotBounds{start: cur, end: next}
		cur = next
	}
	return slots, nil
}
