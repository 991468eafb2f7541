// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package smtpconf_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/jobdeck/internal/platform/apperr"
	"github.com/taibuivan/jobdeck/internal/smtpconf"
)

// fakeRepo holds the singleton config in memory.
type fakeRepo struct {
	config *smtpconf.EmailConfig
}

func (repo *fakeRepo) Get(_ context.Context) (*smtpconf.EmailConfig, error) {
	if repo.config == nil {
		return nil, apperr.NotFound("Email configuration")
	}
	clone := *repo.config
	return &clone, nil
}

func (repo *fakeRepo) Save(_ context.Context, config *smtpconf.EmailConfig) error {
	clone := *config
	repo.config = &clone
	return nil
}

func (repo *fakeRepo) Delete(_ context.Context) error {
	repo.config = nil
	return nil
}

func newService(repo *fakeRepo) *smtpconf.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return smtpconf.NewService(repo, logger)
}

/*
TestService_ConfigureAndGet verifies the create-then-read round trip.
*/
func TestService_ConfigureAndGet(t *testing.T) {
	repo := &fakeRepo{}
	service := newService(repo)

	err := service.Configure(context.Background(), smtpconf.ConfigInput{
		Server:      "smtp.jobdeck.app",
		Port:        587,
		SenderEmail: "noreply@jobdeck.app",
		SenderName:  "Jobdeck",
		Username:    "relay-user",
		Password:    "relay-pass",
		UseTLS:      true,
	})
	require.NoError(t, err)

	config, err := service.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "smtp.jobdeck.app", config.Server)
	assert.Equal(t, 587, config.Port)
	assert.True(t, config.UseTLS)
	assert.False(t, config.CreatedAt.IsZero())
}

/*
TestService_Get_NotConfigured verifies the 404 mapping before any create.
*/
func TestService_Get_NotConfigured(t *testing.T) {
	service := newService(&fakeRepo{})

	_, err := service.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_Update verifies the partial-update surface: set fields change,
nil fields are untouched, and updating an absent config is a 404.
*/
func TestService_Update(t *testing.T) {
	repo := &fakeRepo{}
	service := newService(repo)

	require.NoError(t, service.Configure(context.Background(), smtpconf.ConfigInput{
		Server:      "smtp.jobdeck.app",
		Port:        587,
		SenderEmail: "noreply@jobdeck.app",
		UseTLS:      true,
	}))

	newPort := 2525
	disableTLS := false
	err := service.Update(context.Background(), smtpconf.ConfigUpdate{
		Port:   &newPort,
		UseTLS: &disableTLS,
	})
	require.NoError(t, err)

	config, err := service.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2525, config.Port)
	assert.False(t, config.UseTLS)
	// Untouched fields survive.
	assert.Equal(t, "smtp.jobdeck.app", config.Server)
	assert.Equal(t, "noreply@jobdeck.app", config.SenderEmail)

	t.Run("absent_config", func(t *testing.T) {
		empty := newService(&fakeRepo{})
		err := empty.Update(context.Background(), smtpconf.ConfigUpdate{Port: &newPort})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_Delete verifies removal and the 404 for a second delete.
*/
func TestService_Delete(t *testing.T) {
	repo := &fakeRepo{}
	service := newService(repo)

	require.NoError(t, service.Configure(context.Background(), smtpconf.ConfigInput{
		Server:      "smtp.jobdeck.app",
		Port:        587,
		SenderEmail: "noreply@jobdeck.app",
	}))

	require.NoError(t, service.Delete(context.Background()))
	assert.Nil(t, repo.config)

	err := service.Delete(context.Background())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
