package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skillxl/backend/internal/model"
)

// PgSubmissionRepository is the PostgreSQL implementation of SubmissionRepository.
type PgSubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubmissionRepository creates a PgSubmissionRepository backed by the given pool.
func NewPgSubmissionRepository(pool *pgxpool.Pool) *PgSubmissionRepository {
	return &PgSubmissionRepository{pool: pool}
}

var _ SubmissionRepository = (*PgSubmissionRepository)(nil)

const pgSubmissionColumns = `id, form_type, COALESCE(request_category, ''), name, email,
	COALESCE(phone, ''), COALESCE(role, ''), COALESCE(organization, ''),
	COALESCE(service_interest, ''), COALESCE(message, ''), status, created_at, updated_at`

// Ping checks the connection (DB interface).
func (r *PgSubmissionRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Create validates s and inserts it. Empty optional fields are stored as NULL.
func (r *PgSubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO submissions (id, form_type, request_category, name, email, phone, role,
		                          organization, service_interest, message, status, created_at, updated_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), NULLIF($7, ''),
		         NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), $11, $12, $13)`,
		s.ID, string(s.FormType), s.RequestCategory, s.Name, s.Email, s.Phone, s.Role,
		s.Organization, s.ServiceInterest, s.Message, string(s.Status), s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// List returns submissions newest first, optionally filtered and paginated.
func (r *PgSubmissionRepository) List(ctx context.Context, opts model.ListOptions) ([]*model.Submission, error) {
	var conditions []string
	var args []any

	if opts.Status != "" {
		args = append(args, string(opts.Status))
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if opts.FormType != "" {
		args = append(args, string(opts.FormType))
		conditions = append(conditions, "form_type = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + pgSubmissionColumns + ` FROM submissions`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []*model.Submission
	for rows.Next() {
		s, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

// FindByID returns the submission with the given id or ErrNotFound.
func (r *PgSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+pgSubmissionColumns+` FROM submissions WHERE id = $1`, id)
	s, err := scanSubmission(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// UpdateStatus sets the status of one submission and returns the updated row.
// An unknown id yields ErrNotFound and touches nothing.
func (r *PgSubmissionRepository) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Submission, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE submissions SET status = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+pgSubmissionColumns,
		id, string(status),
	)
	s, err := scanSubmission(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func scanSubmission(scan func(...any) error) (*model.Submission, error) {
	var s model.Submission
	var formType, status string
	if err := scan(&s.ID, &formType, &s.RequestCategory, &s.Name, &s.Email,
		&s.Phone, &s.Role, &s.Organization, &s.ServiceInterest, &s.Message,
		&status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.FormType = model.FormType(formType)
	s.Status = model.Status(status)
	return &s, nil
}
