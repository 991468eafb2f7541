// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth provides the HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle — from account
creation to the OTP challenge-response flow and logout.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Tokens travel in the custom X-Auth-Token header.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/jobdeck/internal/platform/apperr"
	"github.com/taibuivan/jobdeck/internal/platform/middleware"
	requestutil "github.com/taibuivan/jobdeck/internal/platform/request"
	"github.com/taibuivan/jobdeck/internal/platform/respond"
	"github.com/taibuivan/jobdeck/internal/platform/sec"
	"github.com/taibuivan/jobdeck/internal/platform/validate"
	"github.com/taibuivan/jobdeck/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (create-or-login,
// login, OTP verification, logout, password change, MFA toggle).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] for the /auth route group.
//
// # Endpoints
//   - POST   /          : Authenticates and returns a JWT (or starts an OTP challenge).
//   - POST   /verifyotp : Completes the OTP challenge.
//   - DELETE /          : Logs out the token bearer.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/", handler.login)
	router.Post("/verifyotp", handler.verifyOTP)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Delete("/", handler.logout)
	})

	return router
}

// UserRoutes returns a [chi.Router] for the /user route group.
//
// # Endpoints
//   - POST   /             : Creates a user (or verifies an existing one).
//   - GET    /             : Lists users (paginated).
//   - PATCH  /             : Changes the token bearer's password.
//   - POST   /mfa          : Enables/disables MFA for a user.
//   - POST   /token_verify : Validates the token and marks the bearer verified.
//   - GET    /{username}   : Returns one user's details.
//   - PATCH  /{username}   : Applies an explicit partial update.
//   - DELETE /{username}   : Removes a user.
func (handler *Handler) UserRoutes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/", handler.createUser)
	router.Get("/", handler.listUsers)
	router.Post("/mfa", handler.setMFA)
	router.Get("/{username}", handler.getUser)
	router.Patch("/{username}", handler.updateUser)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Patch("/", handler.changePassword)
		r.Post("/token_verify", handler.verifyToken)
		r.Delete("/{username}", handler.deleteUser)
	})

	return router
}

// # Request Payloads

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	IsMFA    bool   `json:"is_mfa,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	Username string `json:"username"`
	OTP      string `json:"otp"`
}

type changePasswordRequest struct {
	OldPassword       string `json:"old_password"`
	NewPassword       string `json:"new_password"`
	VerifyNewPassword string `json:"verify_new_password"`
}

type setMFARequest struct {
	Username string `json:"username"`
	IsMFA    bool   `json:"is_mfa"`
}

type updateUserRequest struct {
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	IsEnabled *bool   `json:"is_enabled"`
}

/*
CreateUser handles account creation (or re-verification of an existing account).

POST /api/v1/user

Description: If the username exists the call is treated as a login attempt and
the password is verified; otherwise a new enabled account is created. No token
is issued by this path.

Request:
  - Body: createUserRequest (Username, Password, Email?, IsMFA?)

Response:
  - 201: msg: User created
  - 401: ErrUnauthorized: Existing username with wrong password
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		Required(FieldPassword, input.Password)
	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.authService.CreateUser(request.Context(), CreateUserInput{
		Username: input.Username,
		Password: input.Password,
		Email:    input.Email,
		IsMFA:    input.IsMFA,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := "User created successfully"
	if !created {
		message = "User logged in successfully"
	}

	respond.Created(writer, map[string]string{FieldMessage: message})
}

/*
Login authenticates a user and either issues a token or starts an OTP challenge.

POST /api/v1/auth

Description: Verifies credentials. Non-MFA accounts receive a signed access
token; MFA accounts receive an emailed one-time code and no token.

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 200: msg + access_token + token_type, or the OTP-sent acknowledgment
  - 401: ErrUnauthorized: Invalid credentials (generic message)
  - 400: ErrBadRequest: MFA enabled without a registered email
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Username: input.Username,
		Password: input.Password,
		Host:     middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.Outcome == LoginOTPSent {
		respond.OK(writer, map[string]string{
			FieldMessage: "OTP sent to your email, it expires in 2 minutes",
		})
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage:     "Login successful",
		FieldAccessToken: result.AccessToken,
		FieldTokenType:   result.TokenType,
	})
}

/*
VerifyOTP completes the multi-factor login.

POST /api/v1/auth/verifyotp

Description: Checks the submitted code against the cached challenge for the
requesting host. An aged-out challenge is a distinct "expired" outcome (200
with a desc field), not an authentication failure.

Request:
  - Body: verifyOTPRequest (Username, OTP)

Response:
  - 200: msg + access_token + token_type, or desc: OTP expired
  - 401: ErrUnauthorized: Code mismatch (no detail)
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) verifyOTP(writer http.ResponseWriter, request *http.Request) {
	var input verifyOTPRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldOTP, input.OTP)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.VerifyOTP(request.Context(), VerifyOTPInput{
		Username: input.Username,
		OTP:      input.OTP,
		Host:     middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	switch result.Outcome {
	case OTPExpired:
		respond.OK(writer, map[string]string{
			FieldDesc: "OTP expired, please login again",
		})

	case OTPRejected:
		// Deliberately opaque — no message body detail.
		respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))

	default:
		respond.OK(writer, map[string]string{
			FieldMessage:     "OTP verified and login successful",
			FieldAccessToken: result.Login.AccessToken,
			FieldTokenType:   result.Login.TokenType,
		})
	}
}

/*
Logout terminates the token bearer's session.

DELETE /api/v1/auth

Description: Soft-deletes the account and appends a revocation marker to the
token audit log.

Response:
  - 200: msg: Logged out
  - 400/401: Missing or invalid x-auth-token
  - 500: ErrInternal: Persistence failure on either write
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	username, err := requestutil.RequiredUsername(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "User logged out successfully",
	})
}

/*
ChangePassword updates the authenticated user's password.

PATCH /api/v1/user

Description: Verifies the current password and the confirmation field before
applying a new hash.

Request:
  - Body: changePasswordRequest (OldPassword, NewPassword, VerifyNewPassword)

Response:
  - 200: msg: Password changed
  - 401: ErrUnauthorized: Wrong old password or invalid session
  - 400: ErrBadRequest: Confirmation mismatch or validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	username, err := requestutil.RequiredUsername(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		Required(FieldVerifyNewPassword, input.VerifyNewPassword)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(request.Context(), ChangePasswordInput{
		Username:          username,
		OldPassword:       input.OldPassword,
		NewPassword:       input.NewPassword,
		VerifyNewPassword: input.VerifyNewPassword,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}

/*
SetMFA enables or disables multi-factor login for a user.

POST /api/v1/user/mfa

Request:
  - Body: setMFARequest (Username, IsMFA)

Response:
  - 200: msg: MFA enabled/disabled
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) setMFA(writer http.ResponseWriter, request *http.Request) {
	var input setMFARequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Username == "" {
		respond.Error(writer, request, validate.RequiredError(FieldUsername, "is required"))
		return
	}

	if err := handler.authService.SetMFA(request.Context(), input.Username, input.IsMFA); err != nil {
		respond.Error(writer, request, err)
		return
	}

	statusMsg := "disabled"
	if input.IsMFA {
		statusMsg = "enabled"
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "MFA " + statusMsg + " successfully",
	})
}

/*
VerifyToken validates the bearer's token and marks the account verified.

POST /api/v1/user/token_verify

Response:
  - 200: msg: Token valid, verification updated
  - 404: ErrNotFound: Token subject no longer exists
*/
func (handler *Handler) verifyToken(writer http.ResponseWriter, request *http.Request) {
	username, err := requestutil.RequiredUsername(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.MarkVerified(request.Context(), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Token is valid and user verification updated",
	})
}

/*
ListUsers returns a paginated list of accounts.

GET /api/v1/user?page=&limit=

Response:
  - 200: Paginated users with metadata
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.authService.ListUsers(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GetUser returns one account's details.

GET /api/v1/user/{username}

Response:
  - 200: User profile
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, FieldUsername)

	user, err := handler.authService.GetUser(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateUser applies an explicit partial update to an account.

PATCH /api/v1/user/{username}

Description: Only the enumerated optional fields (email, role, is_enabled)
can be patched — there is no dynamic attribute surface.

Request:
  - Body: updateUserRequest (Email?, Role?, IsEnabled?)

Response:
  - 200: msg: User updated
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, FieldUsername)

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Email != nil {
		validator := &validate.Validator{}
		validator.Email(FieldEmail, *input.Email)
		if err := validator.Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	update := UserUpdate{
		Email:     input.Email,
		IsEnabled: input.IsEnabled,
	}
	if input.Role != nil {
		role := sec.UserRole(*input.Role)
		update.Role = &role
	}

	if err := handler.authService.UpdateUser(request.Context(), username, update); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "User updated successfully",
	})
}

/*
DeleteUser removes an account.

DELETE /api/v1/user/{username}

Response:
  - 200: msg: User deleted
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, FieldUsername)

	if err := handler.authService.DeleteUser(request.Context(), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "User deleted successfully",
	})
}
