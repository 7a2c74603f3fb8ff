package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/skillxl/backend/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteSubmissionRepository stores submissions in an embedded SQLite database.
// Timestamps are kept as Unix nanoseconds so ordering is exact.
type SQLiteSubmissionRepository struct {
	db *sql.DB
}

var _ SubmissionRepository = (*SQLiteSubmissionRepository)(nil)

// OpenSQLite opens the database file at path. ":memory:" is pinned to a single
// connection so every query sees the same database.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// NewSQLiteSubmissionRepository wraps db and creates the submissions table if needed.
func NewSQLiteSubmissionRepository(db *sql.DB) (*SQLiteSubmissionRepository, error) {
	r := &SQLiteSubmissionRepository{db: db}
	if err := r.migrate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SQLiteSubmissionRepository) migrate() error {
	_, err := r.db.ExecContext(context.Background(), `
	CREATE TABLE IF NOT EXISTS submissions (
		id               TEXT PRIMARY KEY,
		form_type        TEXT NOT NULL CHECK (form_type IN ('contact', 'service-request')),
		request_category TEXT NOT NULL DEFAULT '',
		name             TEXT NOT NULL CHECK (name <> ''),
		email            TEXT NOT NULL CHECK (email <> ''),
		phone            TEXT NOT NULL DEFAULT '',
		role             TEXT NOT NULL DEFAULT '',
		organization     TEXT NOT NULL DEFAULT '',
		service_interest TEXT NOT NULL DEFAULT '',
		message          TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new', 'contacted', 'converted', 'closed')),
		created_at       INTEGER NOT NULL,
		updated_at       INTEGER NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(context.Background(),
		`CREATE INDEX IF NOT EXISTS submissions_created_at_idx ON submissions (created_at DESC)`)
	return err
}

const sqliteSubmissionColumns = `id, form_type, request_category, name, email, phone, role,
	organization, service_interest, message, status, created_at, updated_at`

// Ping checks the connection (DB interface).
func (r *SQLiteSubmissionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Create validates s and inserts it.
func (r *SQLiteSubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions (`+sqliteSubmissionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, string(s.FormType), s.RequestCategory, s.Name, s.Email, s.Phone, s.Role,
		s.Organization, s.ServiceInterest, s.Message, string(s.Status),
		s.CreatedAt.UnixNano(), s.UpdatedAt.UnixNano(),
	)
	return err
}

// List returns submissions newest first, optionally filtered and paginated.
func (r *SQLiteSubmissionRepository) List(ctx context.Context, opts model.ListOptions) ([]*model.Submission, error) {
	var conditions []string
	var args []any

	if opts.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(opts.Status))
	}
	if opts.FormType != "" {
		conditions = append(conditions, "form_type = ?")
		args = append(args, string(opts.FormType))
	}

	query := `SELECT ` + sqliteSubmissionColumns + ` FROM submissions`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if opts.Limit > 0 || opts.Offset > 0 {
		limit := opts.Limit
		if limit <= 0 {
			limit = -1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var submissions []*model.Submission
	for rows.Next() {
		s, err := scanSQLiteSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

// FindByID returns the submission with the given id or ErrNotFound.
func (r *SQLiteSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sqliteSubmissionColumns+` FROM submissions WHERE id = ?`, id)
	s, err := scanSQLiteSubmission(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// UpdateStatus sets the status of one submission and returns the updated row.
func (r *SQLiteSubmissionRepository) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Submission, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE submissions SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC().UnixNano(), id,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func scanSQLiteSubmission(scan func(...any) error) (*model.Submission, error) {
	var s model.Submission
	var formType, status string
	var createdAt, updatedAt int64
	if err := scan(&s.ID, &formType, &s.RequestCategory, &s.Name, &s.Email,
		&s.Phone, &s.Role, &s.Organization, &s.ServiceInterest, &s.Message,
		&status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	s.FormType = model.FormType(formType)
	s.Status = model.Status(status)
	s.CreatedAt = time.Unix(0, createdAt).UTC()
	s.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &s, nil
}
