// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package job_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/jobdeck/internal/job"
	"github.com/taibuivan/jobdeck/internal/platform/apperr"
)

// # Test Doubles

type fakeRepo struct {
	posts map[string]*job.Post
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{posts: map[string]*job.Post{}}
}

func (repo *fakeRepo) Create(_ context.Context, post *job.Post) error {
	clone := *post
	repo.posts[post.ID] = &clone
	return nil
}

func (repo *fakeRepo) GetByID(_ context.Context, id string) (*job.Post, error) {
	post, ok := repo.posts[id]
	if !ok {
		return nil, apperr.NotFound("Resource")
	}
	clone := *post
	return &clone, nil
}

func (repo *fakeRepo) Save(_ context.Context, post *job.Post) error {
	clone := *post
	repo.posts[post.ID] = &clone
	return nil
}

func (repo *fakeRepo) ListByStatus(_ context.Context, status job.Status) ([]*job.Post, error) {
	posts := []*job.Post{}
	for _, post := range repo.posts {
		if post.Status == status && !post.IsDeleted {
			clone := *post
			posts = append(posts, &clone)
		}
	}
	return posts, nil
}

func (repo *fakeRepo) ListFiltered(_ context.Context, filter job.Filter) ([]*job.Post, error) {
	posts := []*job.Post{}
	for _, post := range repo.posts {
		if post.IsDeleted {
			continue
		}
		if filter.PostedFrom != nil && post.PostedAt.Before(*filter.PostedFrom) {
			continue
		}
		if filter.PostedTo != nil && post.PostedAt.After(*filter.PostedTo) {
			continue
		}
		clone := *post
		posts = append(posts, &clone)
	}
	return posts, nil
}

type fakeResumeRepo struct {
	resumes []*job.Resume
}

func (repo *fakeResumeRepo) Create(_ context.Context, resume *job.Resume) error {
	clone := *resume
	repo.resumes = append(repo.resumes, &clone)
	return nil
}

type fakeObjectStore struct {
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (store *fakeObjectStore) Put(_ context.Context, key, _ string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	store.objects[key] = data
	return nil
}

// # Fixture

type fixture struct {
	service *job.Service
	repo    *fakeRepo
	resumes *fakeResumeRepo
	objects *fakeObjectStore
}

func newFixture() *fixture {
	repo := newFakeRepo()
	resumes := &fakeResumeRepo{}
	objects := newFakeObjectStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service: job.NewService(repo, resumes, objects, logger),
		repo:    repo,
		resumes: resumes,
		objects: objects,
	}
}

func (f *fixture) seedPost(t *testing.T, mutate func(*job.Post)) *job.Post {
	t.Helper()

	post, err := f.service.CreateJob(context.Background(), job.CreateInput{
		Title:   "Senior Go Engineer",
		Company: "Jobdeck",
		Status:  job.StatusActive,
		Salary:  120000,
	})
	require.NoError(t, err)

	if mutate != nil {
		mutate(f.repo.posts[post.ID])
	}
	return post
}

// # Lifecycle

/*
TestService_CreateJob verifies identity assignment, slug derivation, zeroed
counters, and status validation.
*/
func TestService_CreateJob(t *testing.T) {
	f := newFixture()

	post, err := f.service.CreateJob(context.Background(), job.CreateInput{
		Title:   "Senior Go Engineer",
		Company: "Jobdeck",
		Status:  job.StatusActive,
		Salary:  120000,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "senior-go-engineer", post.Slug)
	assert.Zero(t, post.Views)
	assert.Zero(t, post.Applied)
	assert.False(t, post.PostedAt.IsZero())

	t.Run("invalid_status", func(t *testing.T) {
		_, err := f.service.CreateJob(context.Background(), job.CreateInput{
			Title:  "Bad",
			Status: job.Status("archived"),
		})
		require.Error(t, err)
		assert.Equal(t, "BAD_REQUEST", apperr.As(err).Code)
	})
}

/*
TestService_GetJob verifies the view-counting read and the NotFound mapping
for absent and soft-deleted posts.
*/
func TestService_GetJob(t *testing.T) {
	f := newFixture()
	seeded := f.seedPost(t, nil)

	got, err := f.service.GetJob(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)

	// A second read counts again.
	got, err = f.service.GetJob(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)

	t.Run("unknown_id", func(t *testing.T) {
		_, err := f.service.GetJob(context.Background(), "nope")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("soft_deleted", func(t *testing.T) {
		deleted := f.seedPost(t, func(p *job.Post) { p.IsDeleted = true })

		_, err := f.service.GetJob(context.Background(), deleted.ID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_UpdateJob verifies the partial-update surface, including slug
refresh on title change and wholesale nested-block replacement.
*/
func TestService_UpdateJob(t *testing.T) {
	f := newFixture()
	seeded := f.seedPost(t, nil)

	newTitle := "Staff Go Engineer"
	newSalary := 150000
	newDescription := job.DescriptionBlock{Overview: "Build the board."}

	updated, err := f.service.UpdateJob(context.Background(), seeded.ID, job.Update{
		Title:       &newTitle,
		Salary:      &newSalary,
		Description: &newDescription,
	})
	require.NoError(t, err)

	assert.Equal(t, "Staff Go Engineer", updated.Title)
	assert.Equal(t, "staff-go-engineer", updated.Slug)
	assert.Equal(t, 150000, updated.Salary)
	assert.Equal(t, "Build the board.", updated.Description.Overview)
	// Untouched fields survive.
	assert.Equal(t, "Jobdeck", updated.Company)

	t.Run("invalid_status", func(t *testing.T) {
		bad := job.Status("archived")
		_, err := f.service.UpdateJob(context.Background(), seeded.ID, job.Update{Status: &bad})
		require.Error(t, err)
		assert.Equal(t, "BAD_REQUEST", apperr.As(err).Code)
	})
}

/*
TestService_DeleteJob verifies the soft-delete contract: the record stays
but every read path reports NotFound.
*/
func TestService_DeleteJob(t *testing.T) {
	f := newFixture()
	seeded := f.seedPost(t, nil)

	require.NoError(t, f.service.DeleteJob(context.Background(), seeded.ID))

	// Row remains, flagged.
	assert.True(t, f.repo.posts[seeded.ID].IsDeleted)

	_, err := f.service.GetJob(context.Background(), seeded.ID)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// Deleting twice is a NotFound, not a no-op.
	err = f.service.DeleteJob(context.Background(), seeded.ID)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Discovery & Counters

/*
TestService_FilterByStatus verifies status validation and deleted-row
exclusion.
*/
func TestService_FilterByStatus(t *testing.T) {
	f := newFixture()
	f.seedPost(t, nil)
	f.seedPost(t, func(p *job.Post) { p.Status = job.StatusClosed })
	f.seedPost(t, func(p *job.Post) { p.IsDeleted = true })

	active, err := f.service.FilterByStatus(context.Background(), job.StatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = f.service.FilterByStatus(context.Background(), job.Status("archived"))
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", apperr.As(err).Code)
}

/*
TestService_Apply verifies the application counter and its 404 mapping.
*/
func TestService_Apply(t *testing.T) {
	f := newFixture()
	seeded := f.seedPost(t, nil)

	require.NoError(t, f.service.Apply(context.Background(), seeded.ID))
	require.NoError(t, f.service.Apply(context.Background(), seeded.ID))
	assert.Equal(t, 2, f.repo.posts[seeded.ID].Applied)

	err := f.service.Apply(context.Background(), "nope")
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_GetViews verifies that the counter read does not itself count
as a view.
*/
func TestService_GetViews(t *testing.T) {
	f := newFixture()
	seeded := f.seedPost(t, func(p *job.Post) { p.Views = 7 })

	views, err := f.service.GetViews(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, views)
	assert.Equal(t, 7, f.repo.posts[seeded.ID].Views)
}

// # Resume Upload

/*
TestService_UploadResume verifies the PDF gate, object-key layout, and the
persisted upload record.
*/
func TestService_UploadResume(t *testing.T) {
	f := newFixture()
	seeded := f.seedPost(t, nil)

	t.Run("pdf_accepted", func(t *testing.T) {
		resume, err := f.service.UploadResume(context.Background(), seeded.ID, "cv.PDF",
			bytes.NewReader([]byte("%PDF-1.7")))
		require.NoError(t, err)

		assert.Equal(t, seeded.ID, resume.JobID)
		assert.Equal(t, "cv.PDF", resume.Filename)
		assert.Equal(t, "resumes/"+seeded.ID+"/cv.PDF", resume.ObjectKey)

		// Bytes landed in object storage under the record's key.
		assert.Equal(t, []byte("%PDF-1.7"), f.objects.objects[resume.ObjectKey])
		require.Len(t, f.resumes.resumes, 1)
	})

	t.Run("non_pdf_rejected", func(t *testing.T) {
		_, err := f.service.UploadResume(context.Background(), seeded.ID, "cv.docx",
			bytes.NewReader([]byte("zip")))
		require.Error(t, err)
		assert.Equal(t, "BAD_REQUEST", apperr.As(err).Code)
	})

	t.Run("no_extension_rejected", func(t *testing.T) {
		_, err := f.service.UploadResume(context.Background(), seeded.ID, "cv",
			bytes.NewReader(nil))
		require.Error(t, err)
		assert.Equal(t, "BAD_REQUEST", apperr.As(err).Code)
	})

	t.Run("unknown_job", func(t *testing.T) {
		_, err := f.service.UploadResume(context.Background(), "nope", "cv.pdf",
			bytes.NewReader(nil))
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}
