// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package smtpconf

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/jobdeck/internal/platform/request"
	"github.com/taibuivan/jobdeck/internal/platform/respond"
	"github.com/taibuivan/jobdeck/internal/platform/validate"
)

// Handler implements the SMTP configuration HTTP endpoints.
type Handler struct {
	smtpService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{smtpService: service}
}

// Routes returns a [chi.Router] for the /smtp route group.
//
// # Endpoints
//   - POST   / : Creates or replaces the configuration.
//   - GET    / : Returns the configuration (password omitted).
//   - PATCH  / : Applies an explicit partial update.
//   - DELETE / : Removes the configuration.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.configure)
	router.Get("/", handler.get)
	router.Patch("/", handler.update)
	router.Delete("/", handler.remove)

	return router
}

// # Request Payloads

type configureRequest struct {
	Server      string `json:"smtp_server"`
	Port        int    `json:"smtp_port"`
	SenderEmail string `json:"sender_email"`
	SenderName  string `json:"sender_name"`
	Username    string `json:"smtp_username"`
	Password    string `json:"smtp_password"`
	UseTLS      bool   `json:"use_tls"`
}

type updateRequest struct {
	Server      *string `json:"smtp_server"`
	Port        *int    `json:"smtp_port"`
	SenderEmail *string `json:"sender_email"`
	SenderName  *string `json:"sender_name"`
	Username    *string `json:"smtp_username"`
	Password    *string `json:"smtp_password"`
	UseTLS      *bool   `json:"use_tls"`
}

func (handler *Handler) configure(writer http.ResponseWriter, request *http.Request) {
	var input configureRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("smtp_server", input.Server).
		Range("smtp_port", input.Port, 1, 65535).
		Email("sender_email", input.SenderEmail)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.smtpService.Configure(request.Context(), ConfigInput{
		Server:      input.Server,
		Port:        input.Port,
		SenderEmail: input.SenderEmail,
		SenderName:  input.SenderName,
		Username:    input.Username,
		Password:    input.Password,
		UseTLS:      input.UseTLS,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]string{"msg": "SMTP configuration saved successfully"})
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	config, err := handler.smtpService.Get(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Password is excluded by the entity's JSON contract.
	respond.OK(writer, config)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Port != nil {
		validator.Range("smtp_port", *input.Port, 1, 65535)
	}
	if input.SenderEmail != nil {
		validator.Email("sender_email", *input.SenderEmail)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.smtpService.Update(request.Context(), ConfigUpdate{
		Server:      input.Server,
		Port:        input.Port,
		SenderEmail: input.SenderEmail,
		SenderName:  input.SenderName,
		Username:    input.Username,
		Password:    input.Password,
		UseTLS:      input.UseTLS,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"msg": "Email configuration updated successfully"})
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := handler.smtpService.Delete(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"msg": "Email configuration deleted successfully"})
}
