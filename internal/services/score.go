package services

import (
	"strings"

	"github.com/soaringjerry/npspulse/internal/models"
)

const (
	MinScore = 0
	MaxScore = 10
)

// ValidScore reports whether score is on the 0..10 NPS scale.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// Classify maps a raw 0..10 score to its NPS segment.
// Out-of-range scores are rejected rather than clamped.
func Classify(score int) (models.Segment, error) {
	if !ValidScore(score) {
		return "", ErrInvalidScore
	}
	switch {
	case score <= 6:
		return models.Detractor, nil
	case score <= 8:
		return models.Passive, nil
	default:
		return models.Promoter, nil
	}
}

// ParseSegment decodes a stored segment label. Older data files use the
// plural form ("Promoters"), which is accepted as well.
func ParseSegment(label string) (models.Segment, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "detractor", "detractors":
		return models.Detractor, true
	case "passive", "passives":
		return models.Passive, true
	case "promoter", "promoters":
		return models.Promoter, true
	}
	return "", false
}
