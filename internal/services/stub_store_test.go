package services

import (
	"context"
	"errors"
	"time"

	"github.com/soaringjerry/npspulse/internal/models"
)

type stubResponseStore struct {
	responses []models.SurveyResponse
	appendErr error
	loadErr   error
	appends   int
	loads     int
}

func (s *stubResponseStore) Append(_ context.Context, r models.SurveyResponse) (models.SurveyResponse, error) {
	s.appends++
	if s.appendErr != nil {
		return models.SurveyResponse{}, s.appendErr
	}
	r.Timestamp = time.Date(2025, 9, 17, 10, 0, 0, 0, time.UTC)
	s.responses = append(s.responses, r)
	return r, nil
}

func (s *stubResponseStore) LoadAll(context.Context) ([]models.SurveyResponse, error) {
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]models.SurveyResponse(nil), s.responses...), nil
}

var errDiskFull = errors.New("disk full")
