package services

import (
	"context"
	"errors"
	"testing"

	"github.com/soaringjerry/npspulse/internal/models"
)

func TestSubmitSuccess(t *testing.T) {
	store := &stubResponseStore{}
	svc := NewResponseService(store, nil)

	got, err := svc.Submit(context.Background(), SubmitRequest{
		Name:     "  Ada ",
		Email:    "ada@example.com",
		Score:    9,
		Feedback: "great",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if got.Name != "Ada" {
		t.Fatalf("name = %q, want trimmed Ada", got.Name)
	}
	if got.Segment != models.Promoter {
		t.Fatalf("segment = %s, want Promoter", got.Segment)
	}
	if got.Timestamp.IsZero() {
		t.Fatalf("timestamp not assigned")
	}
	if len(store.responses) != 1 {
		t.Fatalf("responses stored = %d, want 1", len(store.responses))
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		req  SubmitRequest
		want error
	}{
		{"missing name", SubmitRequest{Email: "a@b.c", Score: 5}, ErrMissingContact},
		{"blank email", SubmitRequest{Name: "A", Email: "   ", Score: 5}, ErrMissingContact},
		{"score too high", SubmitRequest{Name: "A", Email: "a@b.c", Score: 11}, ErrInvalidScore},
		{"negative score", SubmitRequest{Name: "A", Email: "a@b.c", Score: -1}, ErrInvalidScore},
	}
	for _, c := range cases {
		store := &stubResponseStore{}
		svc := NewResponseService(store, nil)
		_, err := svc.Submit(context.Background(), c.req)
		if !errors.Is(err, c.want) || !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: err=%v, want %v", c.name, err, c.want)
		}
		if store.appends != 0 {
			t.Fatalf("%s: store was called %d times", c.name, store.appends)
		}
	}
}

func TestNewSurveyResponseNormalizesCRLF(t *testing.T) {
	r, err := NewSurveyResponse("Ada\r\n", "ada@example.com", 8, "line1\r\nline2\r\n")
	if err != nil {
		t.Fatalf("NewSurveyResponse error: %v", err)
	}
	if r.Name != "Ada" || r.Feedback != "line1\nline2\n" {
		t.Fatalf("unexpected normalization: %+v", r)
	}
}

func TestSubmitStorageFailure(t *testing.T) {
	store := &stubResponseStore{appendErr: NewStorageError("write", errDiskFull)}
	svc := NewResponseService(store, nil)
	_, err := svc.Submit(context.Background(), SubmitRequest{Name: "A", Email: "a@b.c", Score: 3})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("cause not preserved: %v", err)
	}
}
