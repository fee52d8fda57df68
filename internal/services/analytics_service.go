package services

import (
	"context"
	"sort"

	"github.com/soaringjerry/npspulse/internal/models"
)

type AnalyticsTimeseries struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsSummary backs the NPS dashboard: the metric, the segment
// distribution, a histogram of raw scores and daily submission counts.
type AnalyticsSummary struct {
	HasData    bool                  `json:"has_data"`
	NPS        float64               `json:"nps"`
	Counts     SegmentCounts         `json:"counts"`
	Histogram  []int                 `json:"histogram"`
	Timeseries []AnalyticsTimeseries `json:"timeseries"`
}

type AnalyticsService struct {
	store ResponseStore
}

func NewAnalyticsService(store ResponseStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

func (s *AnalyticsService) Summary(ctx context.Context) (*AnalyticsSummary, error) {
	responses, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(responses)
}

// Summarize builds the dashboard view over a loaded response set.
func Summarize(responses []models.SurveyResponse) (*AnalyticsSummary, error) {
	summary := &AnalyticsSummary{
		Histogram:  buildHistogram(responses),
		Timeseries: buildTimeseries(responses),
		Counts:     CountSegments(responses),
	}
	if summary.Counts.Total == 0 {
		return summary, nil
	}
	nps, err := summary.Counts.NPS()
	if err != nil {
		return nil, err
	}
	summary.HasData = true
	summary.NPS = nps
	return summary, nil
}

// buildHistogram counts responses per score; index i holds score i.
func buildHistogram(responses []models.SurveyResponse) []int {
	hist := make([]int, MaxScore-MinScore+1)
	for _, r := range responses {
		if ValidScore(r.Score) {
			hist[r.Score-MinScore]++
		}
	}
	return hist
}

func buildTimeseries(responses []models.SurveyResponse) []AnalyticsTimeseries {
	counts := map[string]int{}
	for _, r := range responses {
		counts[r.Timestamp.UTC().Format("2006-01-02")]++
	}
	days := make([]string, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Strings(days)
	out := make([]AnalyticsTimeseries, 0, len(days))
	for _, d := range days {
		out = append(out, AnalyticsTimeseries{Date: d, Count: counts[d]})
	}
	return out
}
