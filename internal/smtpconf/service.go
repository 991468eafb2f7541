// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package smtpconf

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/jobdeck/internal/platform/apperr"
)

// Service implements the email-configuration use cases.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// ConfigInput holds the full settings for creating (or replacing) the
// configuration.
type ConfigInput struct {
	Server      string
	Port        int
	SenderEmail string
	SenderName  string
	Username    string
	Password    string
	UseTLS      bool
}

/*
Configure creates or replaces the SMTP configuration.

Returns:
  - error: Storage failures
*/
func (service *Service) Configure(context context.Context, input ConfigInput) error {

	now := time.Now()
	config := &EmailConfig{
		Server:      input.Server,
		Port:        input.Port,
		SenderEmail: input.SenderEmail,
		SenderName:  input.SenderName,
		Username:    input.Username,
		Password:    input.Password,
		UseTLS:      input.UseTLS,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.repository.Save(context, config); err != nil {
		return fmt.Errorf("smtpconf_service_save_failed: %w", err)
	}

	return nil
}

/*
Get returns the current configuration.

Returns:
  - *EmailConfig: Stored settings (password included; the HTTP layer strips it)
  - error: NotFound when never configured
*/
func (service *Service) Get(context context.Context) (*EmailConfig, error) {
	config, err := service.repository.Get(context)
	if err != nil {
		return nil, apperr.NotFound("Email configuration")
	}
	return config, nil
}

// ConfigUpdate is the explicit partial-update surface for the configuration.
type ConfigUpdate struct {
	Server      *string
	Port        *int
	SenderEmail *string
	SenderName  *string
	Username    *string
	Password    *string
	UseTLS      *bool
}

/*
Update applies an explicit partial update to the stored configuration.

Returns:
  - error: NotFound (never configured) or storage failures
*/
func (service *Service) Update(context context.Context, update ConfigUpdate) error {

	config, err := service.repository.Get(context)
	if err != nil {
		return apperr.NotFound("Email configuration")
	}

	if update.Server != nil {
		config.Server = *update.Server
	}
	if update.Port != nil {
		config.Port = *update.Port
	}
	if update.SenderEmail != nil {
		config.SenderEmail = *update.SenderEmail
	}
	if update.SenderName != nil {
		config.SenderName = *update.SenderName
	}
	if update.Username != nil {
		config.Username = *update.Username
	}
	if update.Password != nil {
		config.Password = *update.Password
	}
	if update.UseTLS != nil {
		config.UseTLS = *update.UseTLS
	}

	config.UpdatedAt = time.Now()
	if err := service.repository.Save(context, config); err != nil {
		return fmt.Errorf("smtpconf_service_update_failed: %w", err)
	}

	return nil
}

/*
Delete removes the stored configuration.

Returns:
  - error: NotFound (never configured) or storage failures
*/
func (service *Service) Delete(context context.Context) error {

	if _, err := service.repository.Get(context); err != nil {
		return apperr.NotFound("Email configuration")
	}

	if err := service.repository.Delete(context); err != nil {
		return fmt.Errorf("smtpconf_service_delete_failed: %w", err)
	}

	return nil
}
