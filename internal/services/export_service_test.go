package services

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExportServiceRendersStoredRows(t *testing.T) {
	store := &stubResponseStore{}
	svc := NewResponseService(store, nil)
	for _, req := range []SubmitRequest{
		{Name: "Ada", Email: "ada@example.com", Score: 9, Feedback: "quick, friendly"},
		{Name: "Lin", Email: "lin@example.com", Score: 4, Feedback: "line one\nline two"},
	} {
		if _, err := svc.Submit(context.Background(), req); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	res, err := NewExportService(store).ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if res.Filename != ExportFilename || !strings.HasPrefix(res.ContentType, "text/csv") || res.Rows != 2 {
		t.Fatalf("unexpected result metadata: %+v", res)
	}

	records, err := csv.NewReader(strings.NewReader(string(res.Data))).ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(CSVHeader, ",") {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][0] != "Ada" || records[1][3] != "quick, friendly" || records[1][4] != "Promoter" {
		t.Fatalf("unexpected first row %v", records[1])
	}
	if records[2][3] != "line one\nline two" || records[2][4] != "Detractor" {
		t.Fatalf("unexpected second row %v", records[2])
	}
	ts, err := ParseTimestamp(records[1][5])
	if err != nil || !ts.Equal(time.Date(2025, 9, 17, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("timestamp round trip: %v %v", ts, err)
	}
}

func TestExportServiceStoreError(t *testing.T) {
	store := &stubResponseStore{loadErr: NewStorageError("load", errDiskFull)}
	if _, err := NewExportService(store).ExportCSV(context.Background()); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
