package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/soaringjerry/npspulse/internal/models"
	"github.com/soaringjerry/npspulse/internal/utils"
)

// ResponseStore abstracts the append-only persistence of survey responses.
type ResponseStore interface {
	// Append stamps the response with the persistence time, durably stores it
	// and returns the stored record.
	Append(ctx context.Context, r models.SurveyResponse) (models.SurveyResponse, error)
	// LoadAll returns every stored response in storage order. A store that has
	// never been written to returns an empty slice.
	LoadAll(ctx context.Context) ([]models.SurveyResponse, error)
}

// SubmitRequest transports the sanitized survey form into the service layer.
type SubmitRequest struct {
	Name     string
	Email    string
	Score    int
	Feedback string
}

// NewSurveyResponse validates the submission and derives its segment.
// The timestamp is left for the store to assign. CRLF line breaks are stored
// as LF so the record reads back exactly from the CSV file.
func NewSurveyResponse(name, email string, score int, feedback string) (models.SurveyResponse, error) {
	name = strings.TrimSpace(normalizeNewlines(name))
	email = strings.TrimSpace(normalizeNewlines(email))
	feedback = normalizeNewlines(feedback)
	if name == "" || email == "" {
		return models.SurveyResponse{}, ErrMissingContact
	}
	seg, err := Classify(score)
	if err != nil {
		return models.SurveyResponse{}, err
	}
	return models.SurveyResponse{
		Name:     name,
		Email:    email,
		Score:    score,
		Feedback: feedback,
		Segment:  seg,
	}, nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// ResponseService hosts the survey submission workflow.
type ResponseService struct {
	store ResponseStore
	log   *slog.Logger
}

// NewResponseService constructs a service bound to the provided persistence interface.
func NewResponseService(store ResponseStore, log *slog.Logger) *ResponseService {
	if log == nil {
		log = slog.Default()
	}
	return &ResponseService{store: store, log: log}
}

// Submit validates and stores one survey response. Invalid input never
// reaches the store.
func (s *ResponseService) Submit(ctx context.Context, req SubmitRequest) (models.SurveyResponse, error) {
	if s.store == nil {
		return models.SurveyResponse{}, errors.New("response service store is nil")
	}
	resp, err := NewSurveyResponse(req.Name, req.Email, req.Score, req.Feedback)
	if err != nil {
		return models.SurveyResponse{}, err
	}
	stored, err := s.store.Append(ctx, resp)
	if err != nil {
		s.log.Error("append survey response", "email", utils.Fingerprint(resp.Email), "err", err)
		return models.SurveyResponse{}, err
	}
	s.log.Info("survey response stored",
		"email", utils.Fingerprint(stored.Email),
		"score", stored.Score,
		"segment", string(stored.Segment))
	return stored, nil
}

// List returns every stored response in storage order.
func (s *ResponseService) List(ctx context.Context) ([]models.SurveyResponse, error) {
	if s.store == nil {
		return nil, errors.New("response service store is nil")
	}
	return s.store.LoadAll(ctx)
}
