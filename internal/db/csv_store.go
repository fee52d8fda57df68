package db

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/soaringjerry/npspulse/internal/models"
	"github.com/soaringjerry/npspulse/internal/services"
)

const lockRetryDelay = 10 * time.Millisecond

// CSVStore keeps responses in a single CSV file with a header row.
//
// Appends are serialized in-process by mu and across processes by an advisory
// lock on "<path>.lock". Every append rewrites the file through a temp file
// and a rename, so readers observe either the previous or the new content.
type CSVStore struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
	now  func() time.Time
	log  *slog.Logger
}

func NewCSVStore(path string, log *slog.Logger) (*CSVStore, error) {
	if path == "" {
		return nil, errors.New("csv store: empty path")
	}
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.NewStorageError("create data dir", err)
	}
	return &CSVStore{
		path: path,
		lock: flock.New(path + ".lock"),
		now:  func() time.Time { return time.Now().UTC() },
		log:  log,
	}, nil
}

func (s *CSVStore) Path() string { return s.path }

func (s *CSVStore) Append(ctx context.Context, r models.SurveyResponse) (models.SurveyResponse, error) {
	rec, err := services.NewSurveyResponse(r.Name, r.Email, r.Score, r.Feedback)
	if err != nil {
		return models.SurveyResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		if err == nil {
			err = errors.New("lock not acquired")
		}
		return models.SurveyResponse{}, services.NewStorageError("lock data file", err)
	}
	defer func() {
		if uerr := s.lock.Unlock(); uerr != nil {
			s.log.Warn("csv store: unlock", "path", s.path, "err", uerr)
		}
	}()

	existing, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return models.SurveyResponse{}, services.NewStorageError("read data file", err)
	}

	if len(bytes.TrimSpace(existing)) > 0 {
		header, err := csv.NewReader(bytes.NewReader(existing)).Read()
		if err != nil {
			err = fmt.Errorf("%w: %v", services.ErrCorruptRecord, err)
		} else {
			err = services.CheckHeader(header)
		}
		if err != nil {
			return models.SurveyResponse{}, services.NewStorageError("check data file header", err)
		}
	}

	rec.Timestamp = s.now().UTC().Truncate(time.Microsecond)

	buf := bytes.NewBuffer(make([]byte, 0, len(existing)+256))
	w := csv.NewWriter(buf)
	if len(bytes.TrimSpace(existing)) == 0 {
		_ = w.Write(services.CSVHeader)
	} else {
		buf.Write(existing)
		if existing[len(existing)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	if err := w.Write(services.EncodeRow(rec)); err != nil {
		return models.SurveyResponse{}, services.NewStorageError("encode row", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return models.SurveyResponse{}, services.NewStorageError("encode row", err)
	}

	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return models.SurveyResponse{}, services.NewStorageError("write data file", err)
	}
	return rec, nil
}

func (s *CSVStore) LoadAll(ctx context.Context) ([]models.SurveyResponse, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.SurveyResponse{}, nil
	}
	if err != nil {
		return nil, services.NewStorageError("open data file", err)
	}
	defer f.Close()
	return readResponses(ctx, f)
}

func readResponses(ctx context.Context, r io.Reader) ([]models.SurveyResponse, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	out := []models.SurveyResponse{}
	header := true
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", services.ErrCorruptRecord, err)
		}
		if header {
			if err := services.CheckHeader(rec); err != nil {
				return nil, err
			}
			header = false
			continue
		}
		resp, err := services.DecodeRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		out = append(out, resp)
	}
}

// writeFileAtomic replaces path with data via a synced temp file in the same
// directory. On failure the original file is left untouched.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	if d, derr := os.Open(dir); derr == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

func (s *CSVStore) Close() error { return nil }
