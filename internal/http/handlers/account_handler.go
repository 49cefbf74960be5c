// Account HTTP handlers.
//
// This file exposes the REST endpoints for registration, login, and the
// authenticated profile:
//   - POST /auth/register  (create account)
//   - POST /auth/login     (issue session token)
//   - GET  /me             (current profile)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. Invalid credentials
// never reveal whether the email exists.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"pilot@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"hunter2hunter2"`
}

// LoginRequest is the JSON payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"pilot@example.com"`
	Password string `json:"password" binding:"required" example:"hunter2hunter2"`
}

// LoginResponse carries the session token and the account it belongs to.
type LoginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// Register godoc
// @ID          register
// @Summary     Register a new account
// @Description Creates a user account with the standard role.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterRequest  true  "Registration payload"
//
// @Success     201  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     409  {object}  handlers.ErrorResponse "Email already registered"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password (min 8 chars) are required")
		return
	}

	u, err := h.accounts.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, u)
}

// Login godoc
// @ID          login
// @Summary     Authenticate and obtain a session token
// @Description Verifies credentials and returns a signed bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Login payload"
//
// @Success     200  {object}  handlers.LoginResponse
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse "Invalid credentials"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	token, u, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, LoginResponse{Token: token, User: u})
}

// Profile godoc
// @ID          profile
// @Summary     Get the current account
// @Description Returns the profile of the authenticated user.
// @Tags        Auth
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
//
// @Success     200  {object}  domain.User
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /me [get]
func (h *Handlers) Profile(c *gin.Context) {
	u, err := h.accounts.Profile(c.Request.Context(), userID(c))
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}
