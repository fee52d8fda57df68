package services

import (
	"math"

	"github.com/soaringjerry/npspulse/internal/models"
)

// SegmentCounts tallies responses per segment.
type SegmentCounts struct {
	Promoters  int `json:"promoters"`
	Passives   int `json:"passives"`
	Detractors int `json:"detractors"`
	Total      int `json:"total"`
}

// CountSegments tallies responses by their stored segment.
func CountSegments(responses []models.SurveyResponse) SegmentCounts {
	var c SegmentCounts
	for _, r := range responses {
		switch r.Segment {
		case models.Promoter:
			c.Promoters++
		case models.Passive:
			c.Passives++
		case models.Detractor:
			c.Detractors++
		}
		c.Total++
	}
	return c
}

// NPS returns the net promoter score for the counts, or ErrEmptyDataset when
// there is nothing to score.
func (c SegmentCounts) NPS() (float64, error) {
	if c.Total == 0 {
		return 0, ErrEmptyDataset
	}
	raw := float64(c.Promoters-c.Detractors) / float64(c.Total) * 100
	return round2(raw), nil
}

// ComputeNPS returns ((promoters - detractors) / total) * 100 rounded to two
// decimals. The result does not depend on the order of responses.
func ComputeNPS(responses []models.SurveyResponse) (float64, error) {
	return CountSegments(responses).NPS()
}

func round2(v float64) float64 {
	r := math.RoundToEven(v*100) / 100
	if r == 0 {
		return 0 // normalize -0
	}
	return r
}
