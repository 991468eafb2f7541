// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package job

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/jobdeck/internal/platform/apperr"
	requestutil "github.com/taibuivan/jobdeck/internal/platform/request"
	"github.com/taibuivan/jobdeck/internal/platform/respond"
	"github.com/taibuivan/jobdeck/internal/platform/validate"
)

// maxResumeSize caps multipart resume uploads at 10 MiB.
const maxResumeSize = 10 << 20

// postedDateLayouts are the accepted formats for posted-date range bounds,
// widest first.
var postedDateLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02",
	"2006",
}

// Handler implements the job-board HTTP endpoints.
type Handler struct {
	jobService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{jobService: service}
}

// Routes returns a [chi.Router] for the /jobs route group.
//
// # Endpoints
//   - POST   /               : Creates a post.
//   - GET    /filter         : Filters posts by status.
//   - GET    /global/filter  : Multi-field global filter.
//   - GET    /{id}           : Returns a post (counts a view).
//   - PATCH  /{id}           : Applies an explicit partial update.
//   - DELETE /{id}           : Soft-deletes a post.
//   - GET    /{id}/views     : Returns the view counter.
//   - POST   /{id}/apply     : Records an application.
//   - POST   /{id}/resume    : Uploads a PDF resume.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.createJob)
	router.Get("/filter", handler.filterByStatus)
	router.Get("/global/filter", handler.globalFilter)
	router.Get("/{id}", handler.getJob)
	router.Patch("/{id}", handler.updateJob)
	router.Delete("/{id}", handler.deleteJob)
	router.Get("/{id}/views", handler.getViews)
	router.Post("/{id}/apply", handler.apply)
	router.Post("/{id}/resume", handler.uploadResume)

	return router
}

// # Request Payloads

type createJobRequest struct {
	Title         string           `json:"title"`
	Company       string           `json:"company"`
	Location      []string         `json:"location"`
	Experience    string           `json:"job_experience"`
	Status        string           `json:"status"`
	Salary        int              `json:"salary"`
	Highlights    []string         `json:"highlights"`
	Description   DescriptionBlock `json:"job_description"`
	MoreInfo      MoreInfo         `json:"more_info"`
	RecruiterInfo string           `json:"recruiter_information"`
}

type updateJobRequest struct {
	Title         *string           `json:"title"`
	Company       *string           `json:"company"`
	Location      *[]string         `json:"location"`
	Experience    *string           `json:"job_experience"`
	Status        *string           `json:"status"`
	Salary        *int              `json:"salary"`
	Highlights    *[]string         `json:"highlights"`
	Description   *DescriptionBlock `json:"job_description"`
	MoreInfo      *MoreInfo         `json:"more_info"`
	RecruiterInfo *string           `json:"recruiter_information"`
}

func (handler *Handler) createJob(writer http.ResponseWriter, request *http.Request) {
	var input createJobRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("title", input.Title).
		Required("company", input.Company).
		OneOf("status", input.Status, string(StatusActive), string(StatusClosed), string(StatusDraft))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.jobService.CreateJob(request.Context(), CreateInput{
		Title:         input.Title,
		Company:       input.Company,
		Location:      input.Location,
		Experience:    input.Experience,
		Status:        Status(input.Status),
		Salary:        input.Salary,
		Highlights:    input.Highlights,
		Description:   input.Description,
		MoreInfo:      input.MoreInfo,
		RecruiterInfo: input.RecruiterInfo,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, post)
}

func (handler *Handler) getJob(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	post, err := handler.jobService.GetJob(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

func (handler *Handler) updateJob(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var input updateJobRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	update := Update{
		Title:         input.Title,
		Company:       input.Company,
		Location:      input.Location,
		Experience:    input.Experience,
		Salary:        input.Salary,
		Highlights:    input.Highlights,
		Description:   input.Description,
		MoreInfo:      input.MoreInfo,
		RecruiterInfo: input.RecruiterInfo,
	}
	if input.Status != nil {
		status := Status(*input.Status)
		update.Status = &status
	}

	post, err := handler.jobService.UpdateJob(request.Context(), id, update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

func (handler *Handler) deleteJob(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	if err := handler.jobService.DeleteJob(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"msg": "Job deleted"})
}

func (handler *Handler) filterByStatus(writer http.ResponseWriter, request *http.Request) {
	status := Status(request.URL.Query().Get("status"))

	posts, err := handler.jobService.FilterByStatus(request.Context(), status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if len(posts) == 0 {
		respond.Error(writer, request, apperr.NotFound("No jobs found with the given status"))
		return
	}

	respond.OK(writer, posts)
}

func (handler *Handler) globalFilter(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	filter := Filter{
		Title:      query.Get("title"),
		Company:    query.Get("company"),
		Location:   query.Get("location"),
		Experience: query.Get("job_experience"),
		Salary:     query.Get("salary"),
	}

	from, err := parsePostedDate(query.Get("date_of_jobpost_from"), "date_of_jobpost_from")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	filter.PostedFrom = from

	to, err := parsePostedDate(query.Get("date_of_jobpost_to"), "date_of_jobpost_to")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	filter.PostedTo = to

	posts, err := handler.jobService.GlobalFilter(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if len(posts) == 0 {
		respond.Error(writer, request, apperr.NotFound("No jobs found matching the criteria"))
		return
	}

	respond.OK(writer, posts)
}

func (handler *Handler) getViews(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	views, err := handler.jobService.GetViews(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]interface{}{
		"job_id": id,
		"views":  views,
	})
}

func (handler *Handler) apply(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	if err := handler.jobService.Apply(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"msg": "Successfully applied for the job"})
}

func (handler *Handler) uploadResume(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	if err := request.ParseMultipartForm(maxResumeSize); err != nil {
		respond.Error(writer, request, apperr.BadRequest("Invalid multipart form"))
		return
	}

	file, header, err := request.FormFile("file")
	if err != nil {
		respond.Error(writer, request, apperr.BadRequest("Missing resume file"))
		return
	}
	defer file.Close()

	resume, err := handler.jobService.UploadResume(request.Context(), id, header.Filename, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, resume)
}

// parsePostedDate parses one bound of the posted-date range. An empty value
// means the bound is unset.
func parsePostedDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	for _, layout := range postedDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}

	return nil, apperr.BadRequest(
		"Invalid date format for '" + field + "'. Please use one of the following formats: " +
			"YYYY-MM-DDTHH:MM:SS.sss, YYYY-MM-DDTHH:MM:SS, YYYY-MM-DDTHH:MM, YYYY-MM-DDTHH, YYYY-MM-DD, or YYYY")
}
