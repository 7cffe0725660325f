package domain

import "time"

// TripRecord is the immutable summary of one completed trip. Records live in
// a capped, most-recent-first log.
type TripRecord struct {
	// Destination is the display name of where the trip ended.
	Destination string `json:"destination"`
	// DistanceKm is the remaining distance when arrival fired.
	DistanceKm float64 `json:"distance_km"`
	// DurationMinutes is the whole-minute trip duration, rounded.
	DurationMinutes int `json:"duration_minutes"`
	// StartedAt is when tracking began; zero when unknown.
	StartedAt time.Time `json:"started_at"`
	// CompletedAt is when arrival was detected.
	CompletedAt time.Time `json:"completed_at"`
}
