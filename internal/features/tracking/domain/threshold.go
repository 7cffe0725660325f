package domain

import "math"

// Level identifies one distance threshold on the approach ladder.
type Level string

const (
	// LevelApproaching fires within 2 km of the destination.
	LevelApproaching Level = "APPROACHING"
	// LevelNear fires within 1 km.
	LevelNear Level = "NEAR"
	// LevelClose fires within 0.75 km.
	LevelClose Level = "CLOSE"
	// LevelArrived fires within 0.3 km and ends the trip.
	LevelArrived Level = "ARRIVED"
)

// Threshold couples a level with its boundary distance and alert weight.
type Threshold struct {
	// Level names the threshold.
	Level Level `json:"level"`
	// BoundaryKm is the distance at or below which the threshold is crossed.
	BoundaryKm float64 `json:"boundary_km"`
	// Important thresholds escalate beyond the in-app banner to system
	// notification and device effects.
	Important bool `json:"important"`
}

// ladder lists the thresholds strictest first. Evaluate depends on this
// ordering: when a single sample jumps several boundaries at once, the
// strictest newly crossed level wins and the looser ones are skipped.
var ladder = []Threshold{
	{Level: LevelArrived, BoundaryKm: 0.3, Important: true},
	{Level: LevelClose, BoundaryKm: 0.75, Important: true},
	{Level: LevelNear, BoundaryKm: 1.0, Important: false},
	{Level: LevelApproaching, BoundaryKm: 2.0, Important: false},
}

// ThresholdMachine decides which threshold, if any, a new distance reading
// crosses. The notified set only ever grows until Reset, which makes
// re-processing the same or a slightly later position harmless.
type ThresholdMachine struct {
	notified map[Level]bool
}

// NewThresholdMachine creates a ThresholdMachine with no levels notified.
func NewThresholdMachine() *ThresholdMachine {
	return &ThresholdMachine{notified: make(map[Level]bool)}
}

// Evaluate returns the single strictest threshold newly crossed at the given
// distance. The level is marked notified before Evaluate returns, so a
// re-entrant call cannot fire the same level twice. NaN distances never
// match any threshold.
func (m *ThresholdMachine) Evaluate(distanceKm float64) (Threshold, bool) {
	if math.IsNaN(distanceKm) {
		return Threshold{}, false
	}

	for _, t := range ladder {
		if distanceKm <= t.BoundaryKm && !m.notified[t.Level] {
			m.notified[t.Level] = true
			return t, true
		}
	}

	return Threshold{}, false
}

// Notified reports whether the level has already fired this session.
func (m *ThresholdMachine) Notified(l Level) bool {
	return m.notified[l]
}

// Reset clears the notified set for a new session.
func (m *ThresholdMachine) Reset() {
	m.notified = make(map[Level]bool)
}
