package models

import "time"

// Segment is the loyalty bucket a single score falls into.
type Segment string

const (
	Detractor Segment = "Detractor"
	Passive   Segment = "Passive"
	Promoter  Segment = "Promoter"
)

// SurveyResponse is one submitted NPS survey. Segment is derived from Score
// when the response is created and never changes afterwards.
type SurveyResponse struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Score     int       `json:"score"`
	Feedback  string    `json:"feedback"`
	Segment   Segment   `json:"segment"`
	Timestamp time.Time `json:"timestamp"`
}
