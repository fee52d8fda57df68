package services

import "math"

// Insight is the guidance attached to an NPS range.
type Insight struct {
	Key             string   `json:"key"`
	ScoreRange      string   `json:"score_range"`
	Interpretation  string   `json:"interpretation"`
	Recommendations []string `json:"recommendations"`
}

type insightBand struct {
	lower   float64 // inclusive
	insight Insight
}

// insightTable is ordered by lower bound; the last band whose lower bound has
// been reached wins, so the bands are contiguous and cover the whole line.
var insightTable = []insightBand{
	{math.Inf(-1), Insight{
		Key:            "low",
		ScoreRange:     "Below 0",
		Interpretation: "Critical Customer Experience Issues",
		Recommendations: []string{
			"Conduct in-depth customer interviews",
			"Review and overhaul customer service processes",
			"Implement immediate improvement initiatives",
			"Create a comprehensive customer feedback mechanism",
		},
	}},
	{0, Insight{
		Key:            "improving",
		ScoreRange:     "0-30",
		Interpretation: "Room for Significant Improvement",
		Recommendations: []string{
			"Develop targeted customer experience enhancement programs",
			"Identify and address key pain points",
			"Implement regular customer feedback loops",
			"Train staff on customer satisfaction techniques",
		},
	}},
	{30, Insight{
		Key:            "good",
		ScoreRange:     "30-50",
		Interpretation: "Solid Customer Satisfaction",
		Recommendations: []string{
			"Continue current customer experience strategies",
			"Identify areas for incremental improvements",
			"Develop loyalty programs",
			"Encourage and incentivize positive reviews",
		},
	}},
	{50, Insight{
		Key:            "excellent",
		ScoreRange:     "50-70",
		Interpretation: "Outstanding Customer Loyalty",
		Recommendations: []string{
			"Maintain current high-quality service standards",
			"Develop referral programs",
			"Create exclusive customer experiences",
			"Use promoters as brand ambassadors",
		},
	}},
	{70, Insight{
		Key:            "world_class",
		ScoreRange:     "70-100",
		Interpretation: "World-Class Customer Experience",
		Recommendations: []string{
			"Continue innovating customer experience",
			"Share best practices across the organization",
			"Develop advanced customer retention strategies",
			"Create case studies and success stories",
		},
	}},
}

// ResolveInsight maps an NPS value to its interpretation and recommendations.
// NaN falls through to the top band, matching a chain of failed "<" checks.
func ResolveInsight(nps float64) Insight {
	match := insightTable[len(insightTable)-1].insight
	if !math.IsNaN(nps) {
		for _, b := range insightTable {
			if nps >= b.lower {
				match = b.insight
			}
		}
	}
	return cloneInsight(match)
}

// Insights lists every band in ascending order.
func Insights() []Insight {
	out := make([]Insight, 0, len(insightTable))
	for _, b := range insightTable {
		out = append(out, cloneInsight(b.insight))
	}
	return out
}

func cloneInsight(in Insight) Insight {
	in.Recommendations = append([]string(nil), in.Recommendations...)
	return in
}
