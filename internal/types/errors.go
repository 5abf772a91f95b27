package types

import "errors"

// Failure kinds returned by itinerary generation. The HTTP layer maps these to
// status codes with errors.Is; everything else wraps them with context.
var (
	// ErrNoPOIsFound means the catalog has no rows for the requested city/country.
	ErrNoPOIsFound = errors.New("no points of interest found")

	// ErrNoHotelAvailable means the catalog has activities but no hotel entry,
	// so the exactly-one-hotel invariant cannot hold.
	ErrNoHotelAvailable = errors.New("no hotel available")

	// ErrInsufficientCandidates means there are not enough qualifying activities
	// to build even a hotel-plus-one-activity itinerary.
	ErrInsufficientCandidates = errors.New("insufficient candidates")

	// ErrInvalidWindow means start_time >= end_time.
	ErrInvalidWindow = errors.New("invalid time window")

	// ErrSchedulingInvariant signals an internal consistency failure: slots not
	// covering the window, overlapping, or hotel count != 1. Always a bug.
	ErrSchedulingInvariant = errors.New("scheduling invariant violation")
)
