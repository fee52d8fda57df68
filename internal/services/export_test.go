package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/soaringjerry/npspulse/internal/models"
)

func TestExportResponsesCSV(t *testing.T) {
	rows := []models.SurveyResponse{
		{Name: "Ada", Email: "ada@example.com", Score: 9, Feedback: "fast, friendly", Segment: models.Promoter,
			Timestamp: time.Date(2025, 9, 17, 10, 30, 0, 123456000, time.UTC)},
		{Name: "Bob", Email: "bob@example.com", Score: 4, Segment: models.Detractor,
			Timestamp: time.Date(2025, 9, 17, 11, 0, 0, 0, time.UTC)},
	}
	b, err := ExportResponsesCSV(rows)
	if err != nil {
		t.Fatalf("ExportResponsesCSV error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), b)
	}
	if lines[0] != "name,email,score,feedback,segment,timestamp" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != `Ada,ada@example.com,9,"fast, friendly",Promoter,2025-09-17T10:30:00.123456Z` {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	if lines[2] != "Bob,bob@example.com,4,,Detractor,2025-09-17T11:00:00.000000Z" {
		t.Fatalf("unexpected row: %q", lines[2])
	}
}

func TestDecodeRowLegacy(t *testing.T) {
	r, err := DecodeRow([]string{"Ada", "ada@example.com", "10", "", "Promoters", "2024-05-01 09:15:42.512345"})
	if err != nil {
		t.Fatalf("DecodeRow error: %v", err)
	}
	if r.Segment != models.Promoter || r.Score != 10 {
		t.Fatalf("unexpected record: %+v", r)
	}
	want := time.Date(2024, 5, 1, 9, 15, 42, 512345000, time.UTC)
	if !r.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", r.Timestamp, want)
	}
}

func TestDecodeRowRejectsCorruption(t *testing.T) {
	cases := [][]string{
		{"Ada", "ada@example.com", "10", "", "Promoter"},
		{"Ada", "ada@example.com", "ten", "", "Promoter", "2025-09-17T10:30:00.000000Z"},
		{"Ada", "ada@example.com", "11", "", "Promoter", "2025-09-17T10:30:00.000000Z"},
		{"Ada", "ada@example.com", "3", "", "Promoter", "2025-09-17T10:30:00.000000Z"},
		{"Ada", "ada@example.com", "3", "", "Detractor", "yesterday"},
	}
	for _, rec := range cases {
		if _, err := DecodeRow(rec); !errors.Is(err, ErrCorruptRecord) || !errors.Is(err, ErrStorage) {
			t.Fatalf("DecodeRow(%v) err=%v, want corrupt record", rec, err)
		}
	}
}

func TestEncodeDecodeRow(t *testing.T) {
	in := models.SurveyResponse{Name: "Ada", Email: "ada@example.com", Score: 7, Feedback: "line1\nline2", Segment: models.Passive,
		Timestamp: time.Date(2025, 9, 17, 10, 30, 0, 123456789, time.UTC)}
	out, err := DecodeRow(EncodeRow(in))
	if err != nil {
		t.Fatalf("DecodeRow error: %v", err)
	}
	if out.Name != in.Name || out.Email != in.Email || out.Score != in.Score || out.Feedback != in.Feedback || out.Segment != in.Segment {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
	if !out.Timestamp.Equal(in.Timestamp.Truncate(time.Microsecond)) {
		t.Fatalf("timestamp = %v, want %v", out.Timestamp, in.Timestamp.Truncate(time.Microsecond))
	}
}

func TestExportServiceEmpty(t *testing.T) {
	res, err := NewExportService(&stubResponseStore{}).ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportCSV error: %v", err)
	}
	if res.Filename != ExportFilename || res.Rows != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if strings.TrimSpace(string(res.Data)) != strings.Join(CSVHeader, ",") {
		t.Fatalf("unexpected data: %q", res.Data)
	}
}
