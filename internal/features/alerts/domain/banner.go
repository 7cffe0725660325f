package domain

import "time"

// Severity grades an alert for presentation.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Banner is the in-app alert card shown to the user.
type Banner struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Severity Severity `json:"severity"`
	// DurationSeconds is how long the banner stays up before auto-dismiss.
	// 0 means persistent: the banner stays until replaced or cleared.
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
