package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/skillxl/backend/internal/metrics"
	"github.com/skillxl/backend/internal/model"
	"github.com/skillxl/backend/internal/repository"
)

// SubmissionService defines the business logic for captured leads.
type SubmissionService interface {
	// Submit stores a new lead. ID, Status and timestamps are assigned here.
	Submit(ctx context.Context, s *model.Submission) error

	// List returns leads newest first. It never returns a nil slice.
	List(ctx context.Context, opts model.ListOptions) ([]*model.Submission, error)

	// UpdateStatus moves a lead to another status. Unknown status values yield
	// model.ErrInvalidStatus, unknown ids repository.ErrNotFound.
	UpdateStatus(ctx context.Context, id, status string) (*model.Submission, error)
}

type submissionServiceImpl struct {
	repo    repository.SubmissionRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewSubmissionService creates a SubmissionService backed by the given repository.
func NewSubmissionService(repo repository.SubmissionRepository, m *metrics.Metrics) SubmissionService {
	return &submissionServiceImpl{repo: repo, metrics: m, now: time.Now}
}

func (s *submissionServiceImpl) Submit(ctx context.Context, sub *model.Submission) error {
	sub.Normalize()
	now := s.now().UTC()
	sub.ID = uuid.NewString()
	sub.Status = model.StatusNew
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if err := s.repo.Create(ctx, sub); err != nil {
		return err
	}
	s.metrics.SubmissionCreated(string(sub.FormType))
	slog.Info("new submission", "id", sub.ID, "form_type", sub.FormType, "category", sub.RequestCategory)
	return nil
}

func (s *submissionServiceImpl) List(ctx context.Context, opts model.ListOptions) ([]*model.Submission, error) {
	list, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if list == nil {
		list = []*model.Submission{}
	}
	return list, nil
}

func (s *submissionServiceImpl) UpdateStatus(ctx context.Context, id, status string) (*model.Submission, error) {
	st, err := model.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}
	s.metrics.StatusChanged(string(st))
	slog.Info("submission status updated", "id", id, "status", st)
	return updated, nil
}
