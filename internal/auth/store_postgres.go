// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/jobdeck/internal/platform/apperr"
)

// # User Repository

// PostgresUserRepository implements the [UserRepository] interface using pgx.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `username, email, passwordhash, role, ismfa, isenabled, isverified, isdeleted, otp, createdat, updatedat`

// scanUser hydrates a [User] from a single row.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsMFA,
		&user.IsEnabled,
		&user.IsVerified,
		&user.IsDeleted,
		&user.OTP,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup by username for authentication and profile
resolution. Soft-deleted accounts are NOT filtered out: a logged-out user
must remain resolvable so a subsequent login can reactivate the account.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM auth.account
		WHERE username = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found with this username")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
Create persists a new user record into the auth.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO auth.account (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsMFA,
		user.IsEnabled,
		user.IsVerified,
		user.IsDeleted,
		user.OTP,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
Save synchronizes the full mutable state of an existing account.

Description: Writes back every flag the service layer may toggle (MFA,
enablement, verification, soft-delete, OTP mirror) plus the profile email and
role, refreshing the updatedat timestamp.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (repository *PostgresUserRepository) Save(context context.Context, user *User) error {
	const query = `
		UPDATE auth.account
		SET email = $2, role = $3, ismfa = $4, isenabled = $5,
		    isverified = $6, isdeleted = $7, otp = $8, updatedat = $9
		WHERE username = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.Username,
		user.Email,
		user.Role,
		user.IsMFA,
		user.IsEnabled,
		user.IsVerified,
		user.IsDeleted,
		user.OTP,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_save_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - username: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, username, newHash string) error {
	const query = `
		UPDATE auth.account
		SET passwordhash = $2, updatedat = $3
		WHERE username = $1`

	_, err := repository.pool.Exec(context, query, username, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
List returns a page of accounts ordered by creation time (newest first).

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*User: Hydrated account entities
  - error: Database retrieval failures
*/
func (repository *PostgresUserRepository) List(context context.Context, limit, offset int) ([]*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM auth.account
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_rows_failed: %w", err)
	}

	return users, nil
}

/*
Count returns the total number of accounts.

Parameters:
  - context: context.Context

Returns:
  - int: Account count
  - error: Database retrieval failures
*/
func (repository *PostgresUserRepository) Count(context context.Context) (int, error) {
	const query = "SELECT COUNT(*) FROM auth.account"

	var total int
	if err := repository.pool.QueryRow(context, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres_user_repo_count_failed: %w", err)
	}

	return total, nil
}

/*
Delete physically removes an account.

Description: Hard deletion for the administrative removal endpoint. The
logout flow uses [Save] with IsDeleted instead.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) Delete(context context.Context, username string) error {
	const query = "DELETE FROM auth.account WHERE username = $1"
	_, err := repository.pool.Exec(context, query, username)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_delete_failed: %w", err)
	}
	return nil
}

// # Token Audit Repository

// PostgresTokenLogRepository implements the [TokenLogRepository] interface.
//
// The auth.tokenlog table is append-only: the service never updates or reads
// these rows, they exist for offline audit.
type PostgresTokenLogRepository struct {
	pool *pgxpool.Pool
}

// NewTokenLogRepository creates a new PostgreSQL implementation of TokenLogRepository.
func NewTokenLogRepository(pool *pgxpool.Pool) *PostgresTokenLogRepository {
	return &PostgresTokenLogRepository{pool: pool}
}

/*
Append inserts a new audit record into the auth.tokenlog table.

Description: Records token issuance (non-empty Token) and revocation markers
(empty Token) alike.

Parameters:
  - context: context.Context
  - record: *TokenRecord

Returns:
  - error: Persistence failures
*/
func (repository *PostgresTokenLogRepository) Append(context context.Context, record *TokenRecord) error {
	const query = `
		INSERT INTO auth.tokenlog (id, username, token, active, createdat)
		VALUES ($1, $2, $3, $4, $5)`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		record.ID,
		record.Username,
		record.Token,
		record.Active,
		record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_token_log_repo_append_failed: %w", err)
	}

	return nil
}
