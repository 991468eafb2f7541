// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package smtpconf

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/jobdeck/internal/platform/apperr"
)

// PostgresRepository implements the [Repository] interface using pgx.
//
// The mail.config table is a singleton: a CHECK-constrained primary key
// guarantees at most one row, and Save is an upsert against it.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Get(context context.Context) (*EmailConfig, error) {
	const query = `
		SELECT server, port, senderemail, sendername, username, password, usetls, createdat, updatedat
		FROM mail.config
		WHERE id = TRUE`

	config := &EmailConfig{}
	err := repository.pool.QueryRow(context, query).Scan(
		&config.Server,
		&config.Port,
		&config.SenderEmail,
		&config.SenderName,
		&config.Username,
		&config.Password,
		&config.UseTLS,
		&config.CreatedAt,
		&config.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Email configuration")
		}
		return nil, fmt.Errorf("postgres_smtpconf_get_failed: %w", err)
	}

	return config, nil
}

func (repository *PostgresRepository) Save(context context.Context, config *EmailConfig) error {
	const query = `
		INSERT INTO mail.config (id, server, port, senderemail, sendername, username, password, usetls, createdat, updatedat)
		VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET server = EXCLUDED.server, port = EXCLUDED.port,
		    senderemail = EXCLUDED.senderemail, sendername = EXCLUDED.sendername,
		    username = EXCLUDED.username, password = EXCLUDED.password,
		    usetls = EXCLUDED.usetls, updatedat = EXCLUDED.updatedat`

	_, err := repository.pool.Exec(context, query,
		config.Server,
		config.Port,
		config.SenderEmail,
		config.SenderName,
		config.Username,
		config.Password,
		config.UseTLS,
		config.CreatedAt,
		config.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_smtpconf_save_failed: %w", err)
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context) error {
	const query = "DELETE FROM mail.config WHERE id = TRUE"

	if _, err := repository.pool.Exec(context, query); err != nil {
		return fmt.Errorf("postgres_smtpconf_delete_failed: %w", err)
	}

	return nil
}
