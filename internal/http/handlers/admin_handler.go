// Admin HTTP handlers.
//
// This file exposes the administrative endpoints mounted under /admin and
// protected by the admin role middleware:
//   - POST   /admin/aircraft               PUT/DELETE /admin/aircraft/{id}
//   - POST   /admin/tests                  PUT/DELETE /admin/tests/{id}
//   - POST   /admin/tests/{id}/questions
//   - POST   /admin/plans                  PUT /admin/plans/{id}
//   - GET    /admin/reports                POST /admin/reports/{id}/resolve
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avialearn/go-exam-backend/internal/domain"
)

// AircraftRequest is the JSON payload for creating or updating an aircraft.
type AircraftRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=128" example:"Boeing 737"`
	Manufacturer string `json:"manufacturer" binding:"required,min=1,max=128" example:"Boeing"`
	Category     string `json:"category" binding:"required,min=1,max=64" example:"narrow-body"`
}

// TestRequest is the JSON payload for creating a practice test.
type TestRequest struct {
	AircraftID      uint   `json:"aircraft_id" binding:"required" example:"1"`
	Title           string `json:"title" binding:"required,min=1,max=255" example:"Hydraulics I"`
	Module          string `json:"module" binding:"required,min=1,max=64" example:"systems"`
	Mock            bool   `json:"mock"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1" example:"60"`
	PassPercent     int    `json:"pass_percent" binding:"omitempty,min=1,max=100" example:"75"`
}

// UpdateTestRequest is the JSON payload for editing a test.
type UpdateTestRequest struct {
	Title           string `json:"title" binding:"required,min=1,max=255"`
	Mock            bool   `json:"mock"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1"`
	PassPercent     int    `json:"pass_percent" binding:"omitempty,min=1,max=100"`
}

// QuestionRequest is the JSON payload for appending a question to a test.
type QuestionRequest struct {
	Prompt      string   `json:"prompt" binding:"required,min=1"`
	Options     []string `json:"options" binding:"required,min=2,dive,required"`
	Answer      int      `json:"answer" binding:"min=0"`
	Explanation string   `json:"explanation"`
}

// PlanRequest is the JSON payload for creating a plan.
type PlanRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=128" example:"ATPL Systems Monthly"`
	Module       string `json:"module" binding:"required,min=1,max=64" example:"systems"`
	PriceCents   int    `json:"price_cents" binding:"min=0" example:"1999"`
	DurationDays int    `json:"duration_days" binding:"required,min=1" example:"30"`
}

// UpdatePlanRequest is the JSON payload for editing a plan.
type UpdatePlanRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=128"`
	PriceCents   int    `json:"price_cents" binding:"min=0"`
	DurationDays int    `json:"duration_days" binding:"required,min=1"`
	Active       bool   `json:"active"`
}

// ListReportsResponse wraps a page of reports and pagination information.
type ListReportsResponse struct {
	Reports    []domain.Report `json:"reports"`
	Pagination Pagination      `json:"pagination"`
}

// AdminCreateAircraft godoc
// @ID          adminCreateAircraft
// @Summary     Create an aircraft (admin)
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token (admin)"
// @Param       body           body    handlers.AircraftRequest  true  "Aircraft payload"
// @Success     201  {object}  domain.Aircraft
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse "Admin role required"
// @Failure     409  {object}  handlers.ErrorResponse "Name already exists"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/aircraft [post]
func (h *Handlers) AdminCreateAircraft(c *gin.Context) {
	var req AircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, manufacturer and category are required")
		return
	}
	a, err := h.admin.CreateAircraft(c.Request.Context(), req.Name, req.Manufacturer, req.Category)
	if err != nil {
		adminFail(c, err)
		return
	}
	ok(c, http.StatusCreated, a)
}

// AdminUpdateAircraft godoc
// @ID          adminUpdateAircraft
// @Summary     Update an aircraft (admin)
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token (admin)"
// @Param       id             path    int     true  "Aircraft ID"
// @Param       body           body    handlers.AircraftRequest  true  "Aircraft payload"
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     404  {object}  handlers.ErrorResponse "Aircraft not found"
// @Failure     409  {object}  handlers.ErrorResponse "Name already exists"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/aircraft/{id} [put]
func (h *Handlers) AdminUpdateAircraft(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req AircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, manufacturer and category are required")
		return
	}
	if err := h.admin.UpdateAircraft(c.Request.Context(), id, req.Name, req.Manufacturer, req.Category); err != nil {
		adminFail(c, err)
		return
	}
	noContent(c)
}

// AdminDeleteAircraft godoc
// @ID          adminDeleteAircraft
// @Summary     Delete an aircraft (admin)
// @Tags        Admin
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token (admin)"
// @Param       id             path    int     true  "Aircraft ID"
// @Success     204  {string}  string "No Content"
// @Failure     404  {object}  handlers.ErrorResponse "Aircraft not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/aircraft/{id} [delete]
func (h *Handlers) AdminDeleteAircraft(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	if err := h.admin.DeleteAircraft(c.Request.Context(), id); err != nil {
		adminFail(c, err)
		return
	}
	noContent(c)
}

// AdminCreateTest godoc
// @ID          adminCreateTest
// @Summary     Create a practice test (admin)
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token (admin)"
// @Param       body           body    handlers.TestRequest  true  "Test payload"
// @Success     201  {object}  domain.PracticeTest
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     404  {object}  handlers.ErrorResponse "Aircraft not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/tests [post]
func (h *Handlers) AdminCreateTest(c *gin.Context) {
	var req TestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "aircraft_id, title, module and duration_minutes are required")
		return
	}
	t, err := h.admin.CreateTest(c.Request.Context(), req.AircraftID, req.Title, req.Module, req.Mock, req.DurationMinutes, req.PassPercent)
	if err != nil {
		adminFail(c, err)
		return
	}
	ok(c, http.StatusCreated, t)
}

// AdminUpdateTest godoc
// @ID          adminUpdateTest
// @Summary     Update a practice test (admin)
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token (admin)"
// @Param       id             path    int     true  "Test ID"
// @Param       body           body    handlers.UpdateTestRequest  true  "Test payload"
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     404  {object}  handlers.ErrorResponse "Test not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/tests/{id} [put]
func (h *Handlers) AdminUpdateTest(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req UpdateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title and duration_minutes are required")
		return
	}
	if err := h.admin.UpdateTest(c.Request.Context(), id, req.Title, req.Mock, req.DurationMinutes, req.PassPercent); err != nil {
		adminFail(c, err)
		return
	}
	noContent(c)
}

// AdminDeleteTest godoc
// @ID          adminDeleteTest
// @Summary     Delete a practice test (admin)
// @Tags        Admin
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token (admin)"
// @Param       id             path    int     true  "Test ID"
// @Success     204  {string}  string "No Content"
// @Failure     404  {object}  handlers.ErrorResponse "Test not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/tests/{id} [delete]
func (h *Handlers) AdminDeleteTest(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	if err := h.admin.DeleteTest(c.Request.Context(), id); err != nil {
		adminFail(c, err)
		return
	}
	noContent(c)
}

// AdminAddQuestion godoc
// @ID          adminAddQuestion
// @Summary     Add a question to a test (admin)
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token (admin)"
// @Param       id             path    int     true  "Test ID"
// @Param       body           body    handlers.QuestionRequest  true  "Question payload"
// @Success     201  {object}  domain.Question
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload or answer index"
// @Failure     404  {object}  handlers.ErrorResponse "Test not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/tests/{id}/questions [post]
func (h *Handlers) AdminAddQuestion(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "prompt, at least two options, and answer are required")
		return
	}
	q, err := h.admin.AddQuestion(c.Request.Context(), id, req.Prompt, req.Options, req.Answer, req.Explanation)
	if err != nil {
		adminFail(c, err)
		return
	}
	ok(c, http.StatusCreated, q)
}

// AdminCreatePlan godoc
// @ID          adminCreatePlan
// @Summary     Create a subscription plan (admin)
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token (admin)"
// @Param       body           body    handlers.PlanRequest  true  "Plan payload"
// @Success     201  {object}  domain.Plan
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/plans [post]
func (h *Handlers) AdminCreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, module and duration_days are required")
		return
	}
	p, err := h.admin.CreatePlan(c.Request.Context(), req.Name, req.Module, req.PriceCents, req.DurationDays)
	if err != nil {
		adminFail(c, err)
		return
	}
	ok(c, http.StatusCreated, p)
}

// AdminUpdatePlan godoc
// @ID          adminUpdatePlan
// @Summary     Update a subscription plan (admin)
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token (admin)"
// @Param       id             path    int     true  "Plan ID"
// @Param       body           body    handlers.UpdatePlanRequest  true  "Plan payload"
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     404  {object}  handlers.ErrorResponse "Plan not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/plans/{id} [put]
func (h *Handlers) AdminUpdatePlan(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and duration_days are required")
		return
	}
	if err := h.admin.UpdatePlan(c.Request.Context(), id, req.Name, req.PriceCents, req.DurationDays, req.Active); err != nil {
		adminFail(c, err)
		return
	}
	noContent(c)
}

// AdminListReports godoc
// @ID          adminListReports
// @Summary     List moderation reports (admin, paginated)
// @Tags        Admin
// @Produce     json
// @Param       Authorization  header  string  true   "Bearer token (admin)"
// @Param       status         query   string  false  "Filter by status (open|resolved)"
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListReportsResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/reports [get]
func (h *Handlers) AdminListReports(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", domain.ReportOpen, domain.ReportResolved:
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be open or resolved")
		return
	}
	page, pageSize := clampPagination(c)

	items, total, err := h.admin.ListReports(c.Request.Context(), status, page, pageSize)
	if err != nil {
		adminFail(c, err)
		return
	}
	ok(c, http.StatusOK, ListReportsResponse{
		Reports:    items,
		Pagination: pageMeta(page, pageSize, total),
	})
}

// AdminResolveReport godoc
// @ID          adminResolveReport
// @Summary     Resolve a moderation report (admin)
// @Tags        Admin
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token (admin)"
// @Param       id             path    int     true  "Report ID"
// @Success     204  {string}  string "No Content"
// @Failure     404  {object}  handlers.ErrorResponse "Report not found or already resolved"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/reports/{id}/resolve [post]
func (h *Handlers) AdminResolveReport(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	if err := h.admin.ResolveReport(c.Request.Context(), id); err != nil {
		adminFail(c, err)
		return
	}
	noContent(c)
}
