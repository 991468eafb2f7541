// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package job

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/jobdeck/internal/platform/dberr"
)

// # Post Repository

// PostgresRepository implements the [Repository] interface using pgx.
//
// The description and more-info blocks are stored as JSONB columns and
// round-trip through pgx's JSON codec.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const postColumns = `id, title, slug, company, location, experience, status, salary, postedat,
		highlights, description, moreinfo, recruiterinfo, views, applied, isdeleted, updatedat`

func scanPost(row pgx.Row) (*Post, error) {
	post := &Post{}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Company,
		&post.Location,
		&post.Experience,
		&post.Status,
		&post.Salary,
		&post.PostedAt,
		&post.Highlights,
		&post.Description,
		&post.MoreInfo,
		&post.RecruiterInfo,
		&post.Views,
		&post.Applied,
		&post.IsDeleted,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (repository *PostgresRepository) Create(context context.Context, post *Post) error {
	const query = `
		INSERT INTO jobs.post (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	if post.PostedAt.IsZero() {
		post.PostedAt = time.Now()
	}
	post.UpdatedAt = time.Now()

	_, err := repository.pool.Exec(context, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Company,
		post.Location,
		post.Experience,
		post.Status,
		post.Salary,
		post.PostedAt,
		post.Highlights,
		post.Description,
		post.MoreInfo,
		post.RecruiterInfo,
		post.Views,
		post.Applied,
		post.IsDeleted,
		post.UpdatedAt,
	)

	return dberr.Wrap(err, "job_create")
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Post, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM jobs.post
		WHERE id = $1`

	post, err := scanPost(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "job_get_by_id")
	}

	return post, nil
}

func (repository *PostgresRepository) Save(context context.Context, post *Post) error {
	const query = `
		UPDATE jobs.post
		SET title = $2, slug = $3, company = $4, location = $5, experience = $6,
		    status = $7, salary = $8, highlights = $9, description = $10,
		    moreinfo = $11, recruiterinfo = $12, views = $13, applied = $14,
		    isdeleted = $15, updatedat = $16
		WHERE id = $1`

	post.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Company,
		post.Location,
		post.Experience,
		post.Status,
		post.Salary,
		post.Highlights,
		post.Description,
		post.MoreInfo,
		post.RecruiterInfo,
		post.Views,
		post.Applied,
		post.IsDeleted,
		post.UpdatedAt,
	)

	return dberr.Wrap(err, "job_save")
}

func (repository *PostgresRepository) ListByStatus(context context.Context, status Status) ([]*Post, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM jobs.post
		WHERE status = $1 AND isdeleted = FALSE
		ORDER BY postedat ASC`

	rows, err := repository.pool.Query(context, query, status)
	if err != nil {
		return nil, dberr.Wrap(err, "job_list_by_status")
	}
	defer rows.Close()

	return collectPosts(rows)
}

// ListFiltered builds the WHERE clause dynamically from the set criteria.
// Text fields match as case-insensitive substrings (ILIKE).
func (repository *PostgresRepository) ListFiltered(context context.Context, filter Filter) ([]*Post, error) {

	conditions := []string{"isdeleted = FALSE"}
	args := []interface{}{}

	addLike := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+value+"%")
		conditions = append(conditions, column+" ILIKE $"+strconv.Itoa(len(args)))
	}

	addLike("title", filter.Title)
	addLike("company", filter.Company)
	addLike("experience", filter.Experience)
	addLike("salary::text", filter.Salary)

	// Location is a text array; match any element.
	if filter.Location != "" {
		args = append(args, "%"+filter.Location+"%")
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM unnest(location) loc WHERE loc ILIKE $"+strconv.Itoa(len(args))+")")
	}

	if filter.PostedFrom != nil {
		args = append(args, *filter.PostedFrom)
		conditions = append(conditions, "postedat >= $"+strconv.Itoa(len(args)))
	}
	if filter.PostedTo != nil {
		args = append(args, *filter.PostedTo)
		conditions = append(conditions, "postedat <= $"+strconv.Itoa(len(args)))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM jobs.post
		WHERE %s
		ORDER BY postedat ASC`,
		postColumns, strings.Join(conditions, " AND "))

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "job_list_filtered")
	}
	defer rows.Close()

	return collectPosts(rows)
}

func collectPosts(rows pgx.Rows) ([]*Post, error) {
	posts := []*Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "job_scan")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "job_rows")
	}
	return posts, nil
}

// # Resume Repository

// PostgresResumeRepository implements the [ResumeRepository] interface.
type PostgresResumeRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresResumeRepository creates a new PostgreSQL implementation of ResumeRepository.
func NewPostgresResumeRepository(pool *pgxpool.Pool) *PostgresResumeRepository {
	return &PostgresResumeRepository{pool: pool}
}

func (repository *PostgresResumeRepository) Create(context context.Context, resume *Resume) error {
	const query = `
		INSERT INTO jobs.resume (id, jobid, filename, objectkey, createdat)
		VALUES ($1, $2, $3, $4, $5)`

	if resume.CreatedAt.IsZero() {
		resume.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		resume.ID,
		resume.JobID,
		resume.Filename,
		resume.ObjectKey,
		resume.CreatedAt,
	)

	return dberr.Wrap(err, "resume_create")
}
