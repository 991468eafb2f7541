// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package job defines the job-posting domain for the Jobdeck board.

It manages the lifecycle of job posts (creation, discovery, application) and
resume uploads attached to a post.

Core Responsibility:

  - Catalogue: Defines post statuses (Active, Closed, Draft) and rich
    description blocks.
  - Discovery: Status and global multi-field filtering with date ranges.
  - Analytics: Tracks view and application counters per post.
*/
package job

import "time"

// # Domain Enums

// Status represents the publication status of a job post.
type Status string

const (
	// StatusActive indicates the post is open for applications.
	StatusActive Status = "active"

	// StatusClosed indicates the post no longer accepts applications.
	StatusClosed Status = "closed"

	// StatusDraft indicates the post is not yet published.
	StatusDraft Status = "draft"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusClosed, StatusDraft:
		return true
	}
	return false
}

// # Domain Entities

// DescriptionBlock carries the long-form sections of a job post.
type DescriptionBlock struct {
	Overview                           string   `json:"job_description"`
	CompanyInformation                 string   `json:"company_information"`
	WhatCompanyDoes                    string   `json:"what_company_does"`
	WhatYouNeedToBring                 string   `json:"what_you_need_to_bring"`
	AdditionalSkills                   []string `json:"additional_skills"`
	HealthAndWellbeing                 string   `json:"health_and_wellbeing"`
	PersonalAndProfessionalDevelopment string   `json:"personal_and_professional_development"`
	DiversityInclusionAndBelonging     string   `json:"diversity_inclusion_and_belonging"`
	LetsStayConnected                  string   `json:"lets_stay_connected"`
	Job                                string   `json:"job"`
	JobLevel                           string   `json:"job_level"`
}

// MoreInfo carries the structured classification of a job post.
type MoreInfo struct {
	JobType   string   `json:"job_type"`
	Functions []string `json:"functions"`
	Skills    []string `json:"skills"`
}

// Post represents a single job posting on the board.
//
// # Identity
//
// The ID is a UUIDv7 assigned at creation. The slug is derived from the title
// for listing URLs and is not unique on its own.
type Post struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	Company       string           `json:"company"`
	Location      []string         `json:"location"`
	Experience    string           `json:"job_experience"`
	Status        Status           `json:"status"`
	Salary        int              `json:"salary"`
	PostedAt      time.Time        `json:"date_of_jobpost"`
	Highlights    []string         `json:"highlights"`
	Description   DescriptionBlock `json:"job_description"`
	MoreInfo      MoreInfo         `json:"more_info"`
	RecruiterInfo string           `json:"recruiter_information"`
	Views         int              `json:"views"`
	Applied       int              `json:"applied"`
	IsDeleted     bool             `json:"-"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Resume is a durable record of an uploaded applicant resume.
//
// The file bytes live in object storage under ObjectKey; this record only
// binds the upload to its job post.
type Resume struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	Filename  string    `json:"filename"`
	ObjectKey string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter holds the optional criteria for the global job search.
//
// Text fields match case-insensitively as substrings. Nil time bounds mean
// the corresponding end of the posted-date range is open.
type Filter struct {
	Title      string
	Company    string
	Location   string
	Experience string
	Salary     string
	PostedFrom *time.Time
	PostedTo   *time.Time
}
