package service

import (
	"context"

	"github.com/skillxl/backend/internal/model"
)

// ---------------------------------------------------------------------------
// mockSubmissionRepository is a function-field stub for testing
// ---------------------------------------------------------------------------

type mockSubmissionRepository struct {
	pingFunc         func(ctx context.Context) error
	createFunc       func(ctx context.Context, s *model.Submission) error
	listFunc         func(ctx context.Context, opts model.ListOptions) ([]*model.Submission, error)
	findByIDFunc     func(ctx context.Context, id string) (*model.Submission, error)
	updateStatusFunc func(ctx context.Context, id string, status model.Status) (*model.Submission, error)
}

func (m *mockSubmissionRepository) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func (m *mockSubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	return nil
}

func (m *mockSubmissionRepository) List(ctx context.Context, opts model.ListOptions) ([]*model.Submission, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Submission{ID: id, Status: model.StatusNew}, nil
}

func (m *mockSubmissionRepository) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Submission, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return &model.Submission{ID: id, Status: status}, nil
}
