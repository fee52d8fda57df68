package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/soaringjerry/npspulse/internal/models"
)

// CSVHeader is the column order of both the data file and the export.
var CSVHeader = []string{"name", "email", "score", "feedback", "segment", "timestamp"}

// TimestampLayout is fixed-width so that stored timestamps sort as text.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// legacy layouts still found in older data files
var legacyTimestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range legacyTimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// EncodeRow renders a response as a CSV record in CSVHeader order.
func EncodeRow(r models.SurveyResponse) []string {
	return []string{
		r.Name,
		r.Email,
		strconv.Itoa(r.Score),
		r.Feedback,
		string(r.Segment),
		FormatTimestamp(r.Timestamp),
	}
}

// DecodeRow parses a CSV record written by EncodeRow (or by older versions of
// the data file) and checks that the stored segment agrees with the score.
func DecodeRow(rec []string) (models.SurveyResponse, error) {
	if len(rec) != len(CSVHeader) {
		return models.SurveyResponse{}, fmt.Errorf("%w: expected %d fields, got %d", ErrCorruptRecord, len(CSVHeader), len(rec))
	}
	score, err := parseScore(rec[2])
	if err != nil {
		return models.SurveyResponse{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	want, err := Classify(score)
	if err != nil {
		return models.SurveyResponse{}, fmt.Errorf("%w: score %d out of range", ErrCorruptRecord, score)
	}
	seg, ok := ParseSegment(rec[4])
	if !ok || seg != want {
		return models.SurveyResponse{}, fmt.Errorf("%w: segment %q does not match score %d", ErrCorruptRecord, rec[4], score)
	}
	ts, err := ParseTimestamp(rec[5])
	if err != nil {
		return models.SurveyResponse{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return models.SurveyResponse{
		Name:      rec[0],
		Email:     rec[1],
		Score:     score,
		Feedback:  rec[3],
		Segment:   seg,
		Timestamp: ts,
	}, nil
}

// parseScore accepts "7" and the "7.0" form some spreadsheet tools write.
func parseScore(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid score %q", s)
	}
	return int(f), nil
}

// CheckHeader verifies a data file header matches CSVHeader.
func CheckHeader(rec []string) error {
	if len(rec) != len(CSVHeader) {
		return fmt.Errorf("%w: unexpected header %v", ErrCorruptRecord, rec)
	}
	for i, col := range CSVHeader {
		if strings.TrimSpace(strings.TrimPrefix(rec[i], "\ufeff")) != col {
			return fmt.Errorf("%w: unexpected header %v", ErrCorruptRecord, rec)
		}
	}
	return nil
}

// ExportResponsesCSV renders responses as CSV with a header row.
func ExportResponsesCSV(responses []models.SurveyResponse) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write(CSVHeader)
	for _, r := range responses {
		if err := w.Write(EncodeRow(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
