package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/skillxl/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) *SQLiteSubmissionRepository {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewSQLiteSubmissionRepository(db)
	require.NoError(t, err)
	return repo
}

func newSubmission(name string, createdAt time.Time) *model.Submission {
	return &model.Submission{
		ID:        uuid.NewString(),
		FormType:  model.FormTypeContact,
		Name:      name,
		Email:     name + "@example.com",
		Status:    model.StatusNew,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestSQLiteSubmissionRepository_CreateAndFind(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	s := newSubmission("alice", now)
	s.FormType = model.FormTypeServiceRequest
	s.RequestCategory = "workshop"
	s.ServiceInterest = "AI/ML Workshop"
	s.Phone = "+91 98765 43210"
	require.NoError(t, repo.Create(ctx, s))

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Email, found.Email)
	assert.Equal(t, model.FormTypeServiceRequest, found.FormType)
	assert.Equal(t, "workshop", found.RequestCategory)
	assert.Equal(t, "AI/ML Workshop", found.ServiceInterest)
	assert.Equal(t, model.StatusNew, found.Status)
	assert.True(t, found.CreatedAt.Equal(now), "createdAt round trip: %v != %v", found.CreatedAt, now)
}

func TestSQLiteSubmissionRepository_Create_RejectsInvalid(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	for _, mutate := range []func(*model.Submission){
		func(s *model.Submission) { s.Name = "" },
		func(s *model.Submission) { s.Email = "" },
		func(s *model.Submission) { s.FormType = "" },
		func(s *model.Submission) { s.Status = "archived" },
	} {
		s := newSubmission("bob", time.Now())
		mutate(s)
		err := repo.Create(ctx, s)
		var ve *model.ValidationError
		assert.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	}

	all, err := repo.List(ctx, model.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, all, "rejected writes must not persist")
}

func TestSQLiteSubmissionRepository_List_NewestFirst(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{2 * time.Hour, 0, 5 * time.Hour, time.Hour} {
		require.NoError(t, repo.Create(ctx, newSubmission("u", base.Add(offset))))
	}

	got, err := repo.List(ctx, model.ListOptions{})
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt), "list not sorted descending at %d", i)
	}
	assert.True(t, got[0].CreatedAt.Equal(base.Add(5*time.Hour)))
}

func TestSQLiteSubmissionRepository_List_FiltersAndPagination(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		s := newSubmission("c", base.Add(time.Duration(i)*time.Second))
		if i%2 == 0 {
			s.FormType = model.FormTypeServiceRequest
			s.RequestCategory = "crt"
		}
		require.NoError(t, repo.Create(ctx, s))
	}

	requests, err := repo.List(ctx, model.ListOptions{FormType: model.FormTypeServiceRequest})
	require.NoError(t, err)
	assert.Len(t, requests, 3)

	page, err := repo.List(ctx, model.ListOptions{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].CreatedAt.Equal(base.Add(3*time.Second)))

	tail, err := repo.List(ctx, model.ListOptions{Offset: 4})
	require.NoError(t, err)
	assert.Len(t, tail, 1)

	contacted, err := repo.List(ctx, model.ListOptions{Status: model.StatusContacted})
	require.NoError(t, err)
	assert.Empty(t, contacted)
}

func TestSQLiteSubmissionRepository_UpdateStatus(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	created := time.Now().UTC().Add(-time.Minute)
	s := newSubmission("dave", created)
	require.NoError(t, repo.Create(ctx, s))

	updated, err := repo.UpdateStatus(ctx, s.ID, model.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, updated.Status)
	assert.True(t, updated.CreatedAt.Equal(created), "createdAt must never change")
	assert.True(t, updated.UpdatedAt.After(created))
}

func TestSQLiteSubmissionRepository_UpdateStatus_NotFound(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	s := newSubmission("erin", time.Now())
	require.NoError(t, repo.Create(ctx, s))

	_, err := repo.UpdateStatus(ctx, "missing-id", model.StatusClosed)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNew, found.Status)
}

func TestSQLiteSubmissionRepository_UpdateStatus_InvalidStatus(t *testing.T) {
	repo := newSQLiteRepo(t)
	_, err := repo.UpdateStatus(context.Background(), "any", "archived")
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestSQLiteSubmissionRepository_FindByID_NotFound(t *testing.T) {
	repo := newSQLiteRepo(t)
	_, err := repo.FindByID(context.Background(), "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_SQLite(t *testing.T) {
	repo, closeFn, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer closeFn()
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), "mongodb", "mongodb://localhost")
	assert.Error(t, err)
}
