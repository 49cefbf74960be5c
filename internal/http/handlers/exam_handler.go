// Exam HTTP handlers.
//
// This file exposes the study endpoints:
//   - GET  /aircraft                 (catalog, public)
//   - GET  /aircraft/{id}/tests     (tests for one aircraft, public)
//   - GET  /tests/{id}              (test with questions, subscribers only)
//   - POST /tests/{id}/attempts     (submit answers, subscribers only)
//   - GET  /attempts                (own attempt history, authenticated)
//
// Question payloads never include the correct answer index; scoring happens
// server-side on submission.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avialearn/go-exam-backend/internal/domain"
)

// StartTestResponse carries a test definition and its questions.
type StartTestResponse struct {
	Test      *domain.PracticeTest `json:"test"`
	Questions []domain.Question    `json:"questions"`
}

// SubmitAttemptRequest is the JSON payload for scoring a sitting. Answers
// maps question ID to the chosen option index.
type SubmitAttemptRequest struct {
	Answers   map[uint]int `json:"answers" binding:"required"`
	StartedAt time.Time    `json:"started_at"`
}

// ListAttemptsResponse wraps a page of attempts and pagination information.
type ListAttemptsResponse struct {
	Attempts   []domain.TestAttempt `json:"attempts"`
	Pagination Pagination           `json:"pagination"`
}

// ListAircraft godoc
// @ID          listAircraft
// @Summary     List the aircraft catalog
// @Description Returns all aircraft, ordered by name. Public.
// @Tags        Exams
// @Produce     json
//
// @Success     200  {array}   domain.Aircraft
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /aircraft [get]
func (h *Handlers) ListAircraft(c *gin.Context) {
	items, err := h.exams.ListAircraft(c.Request.Context())
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// ListTests godoc
// @ID          listTests
// @Summary     List practice tests for an aircraft
// @Description Returns the tests defined under one aircraft. Public.
// @Tags        Exams
// @Produce     json
//
// @Param       id  path  int  true  "Aircraft ID"
//
// @Success     200  {array}   domain.PracticeTest
// @Failure     404  {object}  handlers.ErrorResponse "Aircraft not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /aircraft/{id}/tests [get]
func (h *Handlers) ListTests(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	items, err := h.exams.ListTests(c.Request.Context(), id)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// StartTest godoc
// @ID          startTest
// @Summary     Fetch a test with its questions
// @Description Returns the test definition and question set for a sitting. Requires an active subscription. Correct answers are never included.
// @Tags        Exams
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    int     true  "Test ID"
//
// @Success     200  {object}  handlers.StartTestResponse
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse "Subscription required"
// @Failure     404  {object}  handlers.ErrorResponse "Test not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error or subscription check failure"
// @Router      /tests/{id} [get]
func (h *Handlers) StartTest(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	t, qs, err := h.exams.StartTest(c.Request.Context(), userID(c), id)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, StartTestResponse{Test: t, Questions: qs})
}

// SubmitAttempt godoc
// @ID          submitAttempt
// @Summary     Submit answers for scoring
// @Description Scores the submitted answers against the test and records the attempt. Requires an active subscription.
// @Tags        Exams
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    int     true  "Test ID"
// @Param       body           body    handlers.SubmitAttemptRequest  true  "Answers payload"
//
// @Success     201  {object}  services.AttemptResult
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload or stray question IDs"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse "Subscription required"
// @Failure     404  {object}  handlers.ErrorResponse "Test not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error or subscription check failure"
// @Router      /tests/{id}/attempts [post]
func (h *Handlers) SubmitAttempt(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "answers map is required")
		return
	}

	res, err := h.exams.SubmitAttempt(c.Request.Context(), userID(c), id, req.Answers, req.StartedAt)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, res)
}

// ListAttempts godoc
// @ID          listAttempts
// @Summary     List the caller's attempt history (paginated)
// @Description Returns the authenticated user's attempts, newest first.
// @Tags        Exams
// @Produce     json
//
// @Param       Authorization  header  string  true   "Bearer token"
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListAttemptsResponse
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /attempts [get]
func (h *Handlers) ListAttempts(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.exams.ListAttempts(c.Request.Context(), userID(c), page, pageSize)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, ListAttemptsResponse{
		Attempts:   items,
		Pagination: pageMeta(page, pageSize, total),
	})
}
