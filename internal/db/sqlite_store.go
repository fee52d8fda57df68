package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/soaringjerry/npspulse/internal/models"
	"github.com/soaringjerry/npspulse/internal/services"
)

// SQLiteStore keeps responses in a SQLite database. Rows are ordered by an
// autoincrement sequence, which is the storage order LoadAll returns.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
	log *slog.Logger
}

// OpenSQLite opens (creating if needed) the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path, migrationsDir string, log *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.NewStorageError("create sqlite dir", err)
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate", filepath.ToSlash(path))
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, services.NewStorageError("open sqlite", err)
	}
	if err := RunMigrations(ctx, conn, migrationsDir); err != nil {
		_ = conn.Close()
		return nil, services.NewStorageError("run migrations", err)
	}
	store, err := NewSQLiteStore(conn, log)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return store, nil
}

func NewSQLiteStore(conn *sql.DB, log *slog.Logger) (*SQLiteStore, error) {
	if conn == nil {
		return nil, errors.New("nil db")
	}
	if log == nil {
		log = slog.Default()
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
	}
	for _, stmt := range pragmas {
		if _, err := conn.Exec(stmt); err != nil {
			return nil, services.NewStorageError(fmt.Sprintf("apply sqlite pragma %q", stmt), err)
		}
	}
	return &SQLiteStore{
		db:  conn,
		now: func() time.Time { return time.Now().UTC() },
		log: log,
	}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, r models.SurveyResponse) (models.SurveyResponse, error) {
	rec, err := services.NewSurveyResponse(r.Name, r.Email, r.Score, r.Feedback)
	if err != nil {
		return models.SurveyResponse{}, err
	}
	rec.Timestamp = s.now().UTC().Truncate(time.Microsecond)
	if err := s.insert(ctx, []models.SurveyResponse{rec}); err != nil {
		return models.SurveyResponse{}, err
	}
	return rec, nil
}

// Import appends already timestamped responses in one transaction, keeping
// their original timestamps. Used when moving a CSV data file into SQLite.
func (s *SQLiteStore) Import(ctx context.Context, rs []models.SurveyResponse) error {
	for i, r := range rs {
		if !services.ValidScore(r.Score) {
			return fmt.Errorf("import row %d: %w", i+1, services.ErrInvalidScore)
		}
		if want, _ := services.Classify(r.Score); want != r.Segment {
			return fmt.Errorf("import row %d: %w", i+1, services.ErrCorruptRecord)
		}
	}
	return s.insert(ctx, rs)
}

func (s *SQLiteStore) insert(ctx context.Context, rs []models.SurveyResponse) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return services.NewStorageError("begin insert", err)
	}
	defer func() { _ = tx.Rollback() }()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO responses (id, name, email, score, feedback, segment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return services.NewStorageError("prepare insert", err)
	}
	defer stmt.Close()
	for _, r := range rs {
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), r.Name, r.Email, r.Score, r.Feedback,
			string(r.Segment), services.FormatTimestamp(r.Timestamp)); err != nil {
			return services.NewStorageError("insert response", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return services.NewStorageError("commit insert", err)
	}
	return nil
}

func (s *SQLiteStore) LoadAll(ctx context.Context) ([]models.SurveyResponse, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, email, score, feedback, segment, created_at FROM responses ORDER BY seq`)
	if err != nil {
		return nil, services.NewStorageError("query responses", err)
	}
	defer rows.Close()
	out := []models.SurveyResponse{}
	for rows.Next() {
		var (
			name, email, feedback, segment, createdAt string
			score                                     int
		)
		if err := rows.Scan(&name, &email, &score, &feedback, &segment, &createdAt); err != nil {
			return nil, services.NewStorageError("scan response", err)
		}
		rec, err := services.DecodeRow([]string{name, email, strconv.Itoa(score), feedback, segment, createdAt})
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, services.NewStorageError("iterate responses", err)
	}
	return out, nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM responses").Scan(&n); err != nil {
		return 0, services.NewStorageError("count responses", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
