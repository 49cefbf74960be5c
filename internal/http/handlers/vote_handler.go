// Upvote HTTP handlers.
//
// This file exposes the idempotent upvote toggle and the read-only status
// endpoint:
//   - POST /threads/{id}/upvote          (toggle, authenticated)
//   - POST /messages/{id}/upvote         (toggle, authenticated)
//   - GET  /threads/{id}/upvote          (status, optional auth)
//   - GET  /messages/{id}/upvote         (status, optional auth)
//
// A toggle that loses a concurrent-insert race still returns 200 with
// {status:"added", upvoted:true}: the caller asked for the state the winner
// already produced. Anonymous status reads report upvoted:false without
// touching the vote table.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avialearn/go-exam-backend/internal/domain"
)

// UpvoteStatusResponse reports the caller's vote state for one entity.
type UpvoteStatusResponse struct {
	Upvoted bool `json:"upvoted"`
}

func (h *Handlers) toggleUpvote(c *gin.Context, kind domain.VoteTarget) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}

	res, err := h.votes.ToggleUpvote(c.Request.Context(), kind, id, userID(c))
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

func (h *Handlers) upvoteStatus(c *gin.Context, kind domain.VoteTarget) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}

	uid := userID(c)
	if uid == 0 {
		// Anonymous callers are never "upvoted"; skip the row lookup but keep
		// the existence check so missing entities still 404.
		if _, err := h.votes.UpvoteStatus(c.Request.Context(), kind, id, 0); err != nil {
			svcFail(c, err)
			return
		}
		ok(c, http.StatusOK, UpvoteStatusResponse{Upvoted: false})
		return
	}

	up, err := h.votes.UpvoteStatus(c.Request.Context(), kind, id, uid)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, UpvoteStatusResponse{Upvoted: up})
}

// ToggleThreadUpvote godoc
// @ID          toggleThreadUpvote
// @Summary     Toggle an upvote on a thread
// @Description Adds the upvote if absent, removes it if present. Safe to repeat.
// @Tags        Votes
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    int     true  "Thread ID"
//
// @Success     200  {object}  services.ToggleResult
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse "Thread not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /threads/{id}/upvote [post]
func (h *Handlers) ToggleThreadUpvote(c *gin.Context) {
	h.toggleUpvote(c, domain.TargetThread)
}

// ToggleMessageUpvote godoc
// @ID          toggleMessageUpvote
// @Summary     Toggle an upvote on a reply
// @Description Adds the upvote if absent, removes it if present. Safe to repeat.
// @Tags        Votes
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    int     true  "Message ID"
//
// @Success     200  {object}  services.ToggleResult
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse "Message not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /messages/{id}/upvote [post]
func (h *Handlers) ToggleMessageUpvote(c *gin.Context) {
	h.toggleUpvote(c, domain.TargetMessage)
}

// ThreadUpvoteStatus godoc
// @ID          threadUpvoteStatus
// @Summary     Get the caller's upvote state for a thread
// @Description Returns {upvoted:true|false}; anonymous callers always get false.
// @Tags        Votes
// @Produce     json
//
// @Param       Authorization  header  string  false  "Bearer token (optional)"
// @Param       id             path    int     true   "Thread ID"
//
// @Success     200  {object}  handlers.UpvoteStatusResponse
// @Failure     404  {object}  handlers.ErrorResponse "Thread not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /threads/{id}/upvote [get]
func (h *Handlers) ThreadUpvoteStatus(c *gin.Context) {
	h.upvoteStatus(c, domain.TargetThread)
}

// MessageUpvoteStatus godoc
// @ID          messageUpvoteStatus
// @Summary     Get the caller's upvote state for a reply
// @Description Returns {upvoted:true|false}; anonymous callers always get false.
// @Tags        Votes
// @Produce     json
//
// @Param       Authorization  header  string  false  "Bearer token (optional)"
// @Param       id             path    int     true   "Message ID"
//
// @Success     200  {object}  handlers.UpvoteStatusResponse
// @Failure     404  {object}  handlers.ErrorResponse "Message not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /messages/{id}/upvote [get]
func (h *Handlers) MessageUpvoteStatus(c *gin.Context) {
	h.upvoteStatus(c, domain.TargetMessage)
}
