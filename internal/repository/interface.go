package repository

import (
	"context"

	"github.com/skillxl/backend/internal/model"
)

// DB reports whether the underlying store is reachable.
type DB interface {
	Ping(ctx context.Context) error
}

// SubmissionRepository persists leads captured by the public forms.
// Implementations validate every write and reject records that break the schema.
type SubmissionRepository interface {
	DB
	Create(ctx context.Context, s *model.Submission) error
	List(ctx context.Context, opts model.ListOptions) ([]*model.Submission, error)
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Submission, error)
}
