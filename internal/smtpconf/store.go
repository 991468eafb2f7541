// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package smtpconf

import "context"

// Repository defines the data access contract for the singleton email
// configuration.
type Repository interface {

	// Get returns the stored configuration, or apperr.NotFound when none
	// has been created yet.
	Get(context context.Context) (*EmailConfig, error)

	// Save upserts the singleton row.
	Save(context context.Context, config *EmailConfig) error

	// Delete removes the singleton row. Deleting an absent row is an error.
	Delete(context context.Context) error
}
