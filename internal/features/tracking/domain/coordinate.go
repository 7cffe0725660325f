package domain

import (
	"math"
	"time"
)

// meanEarthRadiusKm is the mean Earth radius used by the haversine formula.
const meanEarthRadiusKm = 6371.0

// Coordinate is an immutable geographic position in decimal degrees.
type Coordinate struct {
	// Latitude in degrees, valid range [-90, 90].
	Latitude float64 `json:"latitude"`
	// Longitude in degrees, valid range [-180, 180].
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies inside the WGS84 degree ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// DistanceKm returns the great-circle distance in kilometers between a and b
// using the haversine formula. The inverse-trig argument is clamped to [0, 1]
// so identical or antipodal points cannot push it out of domain through
// floating-point overshoot.
func DistanceKm(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	if h < 0 {
		h = 0
	}
	if h > 1 {
		h = 1
	}

	return 2 * meanEarthRadiusKm * math.Asin(math.Sqrt(h))
}

// PositionSample is a single position report from the device. Samples are
// transient: produced by the position source and consumed once by the
// tracking loop.
type PositionSample struct {
	// Coordinate is the reported position.
	Coordinate Coordinate `json:"coordinate"`
	// AccuracyMeters is the horizontal accuracy radius of the fix.
	AccuracyMeters float64 `json:"accuracy_m"`
	// SpeedMS is ground speed in meters per second; nil when the source
	// could not determine it.
	SpeedMS *float64 `json:"speed_ms,omitempty"`
	// Timestamp is when the fix was taken.
	Timestamp time.Time `json:"timestamp"`
}

// StatusUpdate is the structured progress snapshot emitted for display.
type StatusUpdate struct {
	// DistanceKm is the remaining great-circle distance to the destination.
	DistanceKm float64 `json:"distance_km"`
	// SpeedKmh is the current ground speed; nil when unknown.
	SpeedKmh *float64 `json:"speed_kmh,omitempty"`
	// AccuracyMeters is the accuracy of the sample behind this update.
	AccuracyMeters float64 `json:"accuracy_m"`
}
