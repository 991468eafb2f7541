// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package job

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/jobdeck/internal/platform/apperr"
	"github.com/taibuivan/jobdeck/pkg/slug"
	"github.com/taibuivan/jobdeck/pkg/uuidv7"
)

// resumeKeyPrefix namespaces all uploaded resumes inside the bucket.
const resumeKeyPrefix = "resumes/"

// Service implements the job-board use cases.
type Service struct {
	repository Repository
	resumes    ResumeRepository
	objects    ObjectStore
	logger     *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repository Repository, resumes ResumeRepository, objects ObjectStore, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		resumes:    resumes,
		objects:    objects,
		logger:     logger,
	}
}

// # Post Lifecycle

// CreateInput holds the data required to publish a job post.
type CreateInput struct {
	Title         string
	Company       string
	Location      []string
	Experience    string
	Status        Status
	Salary        int
	Highlights    []string
	Description   DescriptionBlock
	MoreInfo      MoreInfo
	RecruiterInfo string
}

/*
CreateJob publishes a new post with a fresh ID, a title-derived slug, and
zeroed counters.

Returns:
  - *Post: The persisted post
  - error: BadRequest (unknown status) or storage failures
*/
func (service *Service) CreateJob(context context.Context, input CreateInput) (*Post, error) {

	if !input.Status.IsValid() {
		return nil, apperr.BadRequest("Status must be one of: active, closed, draft")
	}

	post := &Post{
		ID:            uuidv7.New(),
		Title:         input.Title,
		Slug:          slug.From(input.Title),
		Company:       input.Company,
		Location:      input.Location,
		Experience:    input.Experience,
		Status:        input.Status,
		Salary:        input.Salary,
		PostedAt:      time.Now(),
		Highlights:    input.Highlights,
		Description:   input.Description,
		MoreInfo:      input.MoreInfo,
		RecruiterInfo: input.RecruiterInfo,
	}

	if err := service.repository.Create(context, post); err != nil {
		return nil, fmt.Errorf("job_service_create_failed: %w", err)
	}

	return post, nil
}

// findActive resolves a post by ID, mapping absence and soft-deletion to the
// same NotFound.
func (service *Service) findActive(context context.Context, id string) (*Post, error) {
	post, err := service.repository.GetByID(context, id)
	if err != nil {
		return nil, apperr.NotFound("Job")
	}
	if post.IsDeleted {
		return nil, apperr.NotFound("Job")
	}
	return post, nil
}

/*
GetJob returns a post by ID and counts the read as a view.

Description: Each successful fetch increments the views counter before
returning. Soft-deleted posts are indistinguishable from absent ones.

Returns:
  - *Post: The post, with the incremented view count
  - error: NotFound or storage failures
*/
func (service *Service) GetJob(context context.Context, id string) (*Post, error) {

	post, err := service.findActive(context, id)
	if err != nil {
		return nil, err
	}

	post.Views++
	if err := service.repository.Save(context, post); err != nil {
		return nil, fmt.Errorf("job_service_view_count_failed: %w", err)
	}

	return post, nil
}

// Update is the explicit partial-update surface for job posts.
//
// Nested blocks are replaced wholesale when set; there is no field-level
// merge inside a block.
type Update struct {
	Title         *string
	Company       *string
	Location      *[]string
	Experience    *string
	Status        *Status
	Salary        *int
	Highlights    *[]string
	Description   *DescriptionBlock
	MoreInfo      *MoreInfo
	RecruiterInfo *string
}

/*
UpdateJob applies an explicit partial update to a post.

Returns:
  - *Post: The updated post
  - error: NotFound, BadRequest (unknown status) or storage failures
*/
func (service *Service) UpdateJob(context context.Context, id string, update Update) (*Post, error) {

	post, err := service.findActive(context, id)
	if err != nil {
		return nil, err
	}

	if update.Status != nil && !update.Status.IsValid() {
		return nil, apperr.BadRequest("Status must be one of: active, closed, draft")
	}

	if update.Title != nil {
		post.Title = *update.Title
		post.Slug = slug.From(*update.Title)
	}
	if update.Company != nil {
		post.Company = *update.Company
	}
	if update.Location != nil {
		post.Location = *update.Location
	}
	if update.Experience != nil {
		post.Experience = *update.Experience
	}
	if update.Status != nil {
		post.Status = *update.Status
	}
	if update.Salary != nil {
		post.Salary = *update.Salary
	}
	if update.Highlights != nil {
		post.Highlights = *update.Highlights
	}
	if update.Description != nil {
		post.Description = *update.Description
	}
	if update.MoreInfo != nil {
		post.MoreInfo = *update.MoreInfo
	}
	if update.RecruiterInfo != nil {
		post.RecruiterInfo = *update.RecruiterInfo
	}

	if err := service.repository.Save(context, post); err != nil {
		return nil, fmt.Errorf("job_service_update_failed: %w", err)
	}

	return post, nil
}

/*
DeleteJob soft-deletes a post. The record stays in storage but disappears
from every read path.

Returns:
  - error: NotFound or storage failures
*/
func (service *Service) DeleteJob(context context.Context, id string) error {

	post, err := service.findActive(context, id)
	if err != nil {
		return err
	}

	post.IsDeleted = true
	if err := service.repository.Save(context, post); err != nil {
		return fmt.Errorf("job_service_delete_failed: %w", err)
	}

	return nil
}

// # Discovery

/*
FilterByStatus returns all non-deleted posts with the given status.

Returns:
  - []*Post: Matching posts (may be empty)
  - error: BadRequest (unknown status) or storage failures
*/
func (service *Service) FilterByStatus(context context.Context, status Status) ([]*Post, error) {

	if !status.IsValid() {
		return nil, apperr.BadRequest("Status must be one of: active, closed, draft")
	}

	posts, err := service.repository.ListByStatus(context, status)
	if err != nil {
		return nil, fmt.Errorf("job_service_status_filter_failed: %w", err)
	}

	return posts, nil
}

/*
GlobalFilter returns all non-deleted posts matching the combined criteria,
ordered by posted date.

Returns:
  - []*Post: Matching posts (may be empty)
  - error: Storage failures
*/
func (service *Service) GlobalFilter(context context.Context, filter Filter) ([]*Post, error) {

	posts, err := service.repository.ListFiltered(context, filter)
	if err != nil {
		return nil, fmt.Errorf("job_service_global_filter_failed: %w", err)
	}

	return posts, nil
}

// # Counters

/*
GetViews returns the view counter of a post without incrementing it.

Returns:
  - int: Current view count
  - error: NotFound or storage failures
*/
func (service *Service) GetViews(context context.Context, id string) (int, error) {
	post, err := service.findActive(context, id)
	if err != nil {
		return 0, err
	}
	return post.Views, nil
}

/*
Apply records one application against a post.

Returns:
  - error: NotFound or storage failures
*/
func (service *Service) Apply(context context.Context, id string) error {

	post, err := service.findActive(context, id)
	if err != nil {
		return err
	}

	post.Applied++
	if err := service.repository.Save(context, post); err != nil {
		return fmt.Errorf("job_service_apply_failed: %w", err)
	}

	return nil
}

// # Resume Upload

/*
UploadResume stores an applicant's resume in object storage and records the
upload against the post.

Description: Only PDF files pass the extension gate. The object key is
namespaced by job ID, so repeated uploads of the same filename for the same
post overwrite each other.

Parameters:
  - context: context.Context
  - jobID: string
  - filename: string (original client filename)
  - body: io.Reader (file bytes)

Returns:
  - *Resume: The persisted upload record
  - error: NotFound, BadRequest (non-PDF) or storage failures
*/
func (service *Service) UploadResume(context context.Context, jobID, filename string, body io.Reader) (*Resume, error) {

	if _, err := service.findActive(context, jobID); err != nil {
		return nil, err
	}

	if !isPDF(filename) {
		return nil, apperr.BadRequest("Only PDF files are allowed")
	}

	key := resumeKeyPrefix + jobID + "/" + filename
	if err := service.objects.Put(context, key, "application/pdf", body); err != nil {
		return nil, apperr.Internal(fmt.Errorf("job_service_resume_upload_failed: %w", err))
	}

	resume := &Resume{
		ID:        uuidv7.New(),
		JobID:     jobID,
		Filename:  filename,
		ObjectKey: key,
	}

	if err := service.resumes.Create(context, resume); err != nil {
		return nil, fmt.Errorf("job_service_resume_record_failed: %w", err)
	}

	return resume, nil
}

// isPDF reports whether the filename carries a .pdf extension (any case).
func isPDF(filename string) bool {
	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return false
	}
	return strings.EqualFold(filename[dot+1:], "pdf")
}
