package services

import (
	"context"
)

const ExportFilename = "nps_survey_responses.csv"

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

type ExportService struct {
	store ResponseStore
}

func NewExportService(store ResponseStore) *ExportService {
	return &ExportService{store: store}
}

// ExportCSV renders every stored response. An empty store produces a file
// holding only the header row.
func (s *ExportService) ExportCSV(ctx context.Context) (*ExportResult, error) {
	rs, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	b, err := ExportResponsesCSV(rs)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename:    ExportFilename,
		ContentType: "text/csv; charset=utf-8",
		Data:        b,
		Rows:        len(rs),
	}, nil
}
