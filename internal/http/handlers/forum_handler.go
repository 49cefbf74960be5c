// Forum HTTP handlers.
//
// This file exposes the REST endpoints for community threads, replies, and
// abuse reports:
//   - GET    /threads                  (list, paginated, public)
//   - POST   /threads                  (create, subscribers only)
//   - GET    /threads/{id}             (thread with paginated replies, public)
//   - PUT    /threads/{id}             (edit, author only)
//   - DELETE /threads/{id}             (delete, author only)
//   - POST   /threads/{id}/messages    (reply, subscribers only)
//   - PUT    /messages/{id}            (edit reply, author only)
//   - DELETE /messages/{id}            (delete reply, author only)
//   - POST   /reports                  (report content, any authenticated user)
//
// Handlers are transport-thin: they validate input, delegate to application
// services, and translate service errors into HTTP results via svcFail.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avialearn/go-exam-backend/internal/domain"
)

// CreateThreadRequest is the JSON payload for opening a thread.
type CreateThreadRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255" example:"B737 hydraulics question"`
	Body  string `json:"body" binding:"required,min=1" example:"Can someone explain standby system activation?"`
}

// UpdateThreadRequest is the JSON payload for editing a thread.
type UpdateThreadRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
	Body  string `json:"body" binding:"required,min=1"`
}

// ReplyRequest is the JSON payload for replying to a thread.
type ReplyRequest struct {
	Body string `json:"body" binding:"required,min=1" example:"The standby pump kicks in when..."`
}

// UpdateMessageRequest is the JSON payload for editing a reply.
type UpdateMessageRequest struct {
	Body string `json:"body" binding:"required,min=1"`
}

// ReportRequest is the JSON payload for flagging content.
type ReportRequest struct {
	TargetKind string `json:"target_kind" binding:"required,oneof=thread message" example:"thread"`
	TargetID   uint   `json:"target_id" binding:"required" example:"42"`
	Reason     string `json:"reason" binding:"required,min=1,max=1000" example:"spam"`
}

// ListThreadsResponse wraps a page of threads and pagination information.
type ListThreadsResponse struct {
	Threads    []domain.Thread `json:"threads"`
	Pagination Pagination      `json:"pagination"`
}

// ThreadResponse wraps one thread with a page of its replies.
type ThreadResponse struct {
	Thread     *domain.Thread         `json:"thread"`
	Messages   []domain.ThreadMessage `json:"messages"`
	Pagination Pagination             `json:"pagination"`
}

// ListThreads godoc
// @ID          listThreads
// @Summary     List forum threads (paginated)
// @Description Returns a page of threads, newest first. Public.
// @Tags        Forum
// @Produce     json
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListThreadsResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /threads [get]
func (h *Handlers) ListThreads(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.forum.ListThreads(c.Request.Context(), page, pageSize)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, ListThreadsResponse{
		Threads:    items,
		Pagination: pageMeta(page, pageSize, total),
	})
}

// CreateThread godoc
// @ID          createThread
// @Summary     Open a new thread
// @Description Creates a thread. Requires authentication and an active subscription.
// @Tags        Forum
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.CreateThreadRequest  true  "Thread payload"
//
// @Success     201  {object}  domain.Thread
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse "Subscription required"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error or subscription check failure"
// @Router      /threads [post]
func (h *Handlers) CreateThread(c *gin.Context) {
	var req CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title and body are required")
		return
	}

	t, err := h.forum.CreateThread(c.Request.Context(), userID(c), req.Title, req.Body)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, t)
}

// GetThread godoc
// @ID          getThread
// @Summary     Get a thread with its replies (paginated)
// @Description Returns the thread plus one page of replies in posting order. Public.
// @Tags        Forum
// @Produce     json
//
// @Param       id         path   int  true   "Thread ID"
// @Param       page       query  int  false  "Reply page number"  minimum(1) default(1)
// @Param       page_size  query  int  false  "Replies per page"   minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ThreadResponse
// @Failure     404  {object}  handlers.ErrorResponse "Thread not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /threads/{id} [get]
func (h *Handlers) GetThread(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	page, pageSize := clampPagination(c)

	t, msgs, total, err := h.forum.GetThread(c.Request.Context(), id, page, pageSize)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusOK, ThreadResponse{
		Thread:     t,
		Messages:   msgs,
		Pagination: pageMeta(page, pageSize, total),
	})
}

// UpdateThread godoc
// @ID          updateThread
// @Summary     Edit a thread
// @Description Updates title and body. Only the author may edit.
// @Tags        Forum
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    int     true  "Thread ID"
// @Param       body           body    handlers.UpdateThreadRequest  true  "Edit payload"
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse "Not the author"
// @Failure     404  {object}  handlers.ErrorResponse "Thread not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /threads/{id} [put]
func (h *Handlers) UpdateThread(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req UpdateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title and body are required")
		return
	}

	if err := h.forum.UpdateThread(c.Request.Context(), userID(c), id, req.Title, req.Body); err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}

// DeleteThread godoc
// @ID          deleteThread
// @Summary     Delete a thread
// @Description Soft-deletes a thread. Only the author may delete.
// @Tags        Forum
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    int     true  "Thread ID"
//
// @Success     204  {string}  string "No Content"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse "Not the author"
// @Failure     404  {object}  handlers.ErrorResponse "Thread not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /threads/{id} [delete]
func (h *Handlers) DeleteThread(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	if err := h.forum.DeleteThread(c.Request.Context(), userID(c), id); err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}

// Reply godoc
// @ID          replyThread
// @Summary     Reply to a thread
// @Description Appends a message to a thread. Requires authentication and an active subscription.
// @Tags        Forum
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    int     true  "Thread ID"
// @Param       body           body    handlers.ReplyRequest  true  "Reply payload"
//
// @Success     201  {object}  domain.ThreadMessage
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse "Subscription required"
// @Failure     404  {object}  handlers.ErrorResponse "Thread not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error or subscription check failure"
// @Router      /threads/{id}/messages [post]
func (h *Handlers) Reply(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body is required")
		return
	}

	m, err := h.forum.Reply(c.Request.Context(), userID(c), id, req.Body)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, m)
}

// UpdateMessage godoc
// @ID          updateMessage
// @Summary     Edit a reply
// @Description Updates a reply body. Only the author may edit.
// @Tags        Forum
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    int     true  "Message ID"
// @Param       body           body    handlers.UpdateMessageRequest  true  "Edit payload"
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse "Not the author"
// @Failure     404  {object}  handlers.ErrorResponse "Message not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /messages/{id} [put]
func (h *Handlers) UpdateMessage(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body is required")
		return
	}

	if err := h.forum.UpdateMessage(c.Request.Context(), userID(c), id, req.Body); err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}

// DeleteMessage godoc
// @ID          deleteMessage
// @Summary     Delete a reply
// @Description Soft-deletes a reply and adjusts the thread's reply count. Only the author may delete.
// @Tags        Forum
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    int     true  "Message ID"
//
// @Success     204  {string}  string "No Content"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     403  {object}  handlers.ErrorResponse "Not the author"
// @Failure     404  {object}  handlers.ErrorResponse "Message not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /messages/{id} [delete]
func (h *Handlers) DeleteMessage(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	if err := h.forum.DeleteMessage(c.Request.Context(), userID(c), id); err != nil {
		svcFail(c, err)
		return
	}
	noContent(c)
}

// Report godoc
// @ID          reportContent
// @Summary     Report a thread or reply
// @Description Flags content for moderation. Any authenticated user may report; duplicates conflict.
// @Tags        Forum
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.ReportRequest  true  "Report payload"
//
// @Success     201  {object}  domain.Report
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse "Target not found"
// @Failure     409  {object}  handlers.ErrorResponse "Already reported"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /reports [post]
func (h *Handlers) Report(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "target_kind (thread|message), target_id and reason are required")
		return
	}

	r, err := h.forum.Report(c.Request.Context(), userID(c), domain.VoteTarget(req.TargetKind), req.TargetID, req.Reason)
	if err != nil {
		svcFail(c, err)
		return
	}
	ok(c, http.StatusCreated, r)
}
