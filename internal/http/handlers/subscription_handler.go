// Subscription HTTP handlers.
//
// This file exposes the plan listing and subscription lifecycle endpoints:
//   - GET    /plans                   (active plans, public)
//   - POST   /subscriptions           (purchase a plan, authenticated)
//   - GET    /subscriptions/current   (own active subscription, authenticated)
//   - DELETE /subscriptions/{id}      (cancel own subscription, authenticated)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SubscribeRequest is the JSON payload for purchasing a plan.
type SubscribeRequest struct {
	PlanID uint `json:"plan_id" binding:"required" example:"3"`
}

// ListPlans godoc
// @ID          listPlans
// @Summary     List purchasable plans
// @Description Returns the active subscription plans, grouped by study module. Public.
// @Tags        Subscriptions
// @Produce     json
//
// @Success     200  {array}   domain.Plan
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /plans [get]
func (h *Handlers) ListPlans(c *gin.Context) {
	plans, err := h.subs.Plans(c.Request.Context())
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, plans)
}

// Subscribe godoc
// @ID          subscribe
// @Summary     Purchase a subscription plan
// @Description Creates an active subscription for the authenticated user covering the plan's duration.
// @Tags        Subscriptions
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.SubscribeRequest  true  "Purchase payload"
//
// @Success     201  {object}  domain.Subscription
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse "Plan not found or retired"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /subscriptions [post]
func (h *Handlers) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "plan_id is required")
		return
	}

	sub, err := h.subs.Subscribe(c.Request.Context(), userID(c), req.PlanID)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, sub)
}

// CurrentSubscription godoc
// @ID          currentSubscription
// @Summary     Get the caller's active subscription
// @Description Returns the currently valid subscription with the latest end date, or 404 when none.
// @Tags        Subscriptions
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
//
// @Success     200  {object}  domain.Subscription
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse "No active subscription"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /subscriptions/current [get]
func (h *Handlers) CurrentSubscription(c *gin.Context) {
	sub, err := h.subs.Current(c.Request.Context(), userID(c))
	if err != nil {
		svcFail(c, err)
		return
	}
	if sub == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no active subscription")
		return
	}
	ok(c, http.StatusOK, sub)
}

// CancelSubscription godoc
// @ID          cancelSubscription
// @Summary     Cancel a subscription
// @Description Marks the caller's subscription cancelled. Ownership is enforced.
// @Tags        Subscriptions
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    int     true  "Subscription ID"
//
// @Success     204  {string}  string "No Content"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse "Subscription not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /subscriptions/{id} [delete]
func (h *Handlers) CancelSubscription(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	if err := h.subs.Cancel(c.Request.Context(), userID(c), id); err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}
