package services

import (
	"context"
	"errors"

	"github.com/soaringjerry/npspulse/internal/models"
)

// Report is the NPS metric together with its guidance. HasData is false when
// nothing has been submitted yet; the other fields are then zero.
type Report struct {
	HasData bool          `json:"has_data"`
	NPS     float64       `json:"nps"`
	Counts  SegmentCounts `json:"counts"`
	Insight *Insight      `json:"insight,omitempty"`
}

type ReportService struct {
	store ResponseStore
}

func NewReportService(store ResponseStore) *ReportService {
	return &ReportService{store: store}
}

// Report loads every response, scores it and resolves the matching insight.
// An empty store yields a Report with HasData=false rather than an error.
func (s *ReportService) Report(ctx context.Context) (*Report, error) {
	if s.store == nil {
		return nil, errors.New("report service store is nil")
	}
	responses, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildReport(responses)
}

// BuildReport scores an already loaded response set.
func BuildReport(responses []models.SurveyResponse) (*Report, error) {
	if len(responses) == 0 {
		return &Report{}, nil
	}
	counts := CountSegments(responses)
	nps, err := counts.NPS()
	if err != nil {
		return nil, err
	}
	insight := ResolveInsight(nps)
	return &Report{HasData: true, NPS: nps, Counts: counts, Insight: &insight}, nil
}
