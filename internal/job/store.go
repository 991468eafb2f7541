// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package job

import (
	"context"
	"io"
)

// Repository defines the data access contract for job posts.
//
// Soft-deleted posts stay in storage; read operations other than GetByID are
// expected to exclude them.
type Repository interface {
	Create(context context.Context, post *Post) error

	// GetByID returns the post regardless of its deleted flag; the service
	// decides how deletion surfaces per operation.
	GetByID(context context.Context, id string) (*Post, error)

	Save(context context.Context, post *Post) error

	ListByStatus(context context.Context, status Status) ([]*Post, error)

	// ListFiltered returns posts matching every set criterion, ordered by
	// posted date ascending.
	ListFiltered(context context.Context, filter Filter) ([]*Post, error)
}

// ResumeRepository persists resume upload records.
type ResumeRepository interface {
	Create(context context.Context, resume *Resume) error
}

// ObjectStore is the minimal contract over the resume object storage.
type ObjectStore interface {

	/*
		Put streams an object's bytes to storage under the given key.

		Parameters:
		  - context: context.Context
		  - key: string (full object key, e.g. "resumes/<job>/<file>")
		  - contentType: string
		  - body: io.Reader

		Returns:
		  - error: Upload failures
	*/
	Put(context context.Context, key, contentType string, body io.Reader) error
}
