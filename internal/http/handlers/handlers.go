// Handler wiring and shared transport helpers.
//
// This file defines the service contracts the HTTP layer consumes, the
// Handlers aggregate that the router mounts, and small helpers shared by
// every endpoint: resolved-user extraction, numeric path IDs, pagination
// clamping, and the mapping from service sentinel errors to HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avialearn/go-exam-backend/internal/domain"
	"github.com/avialearn/go-exam-backend/internal/repo"
	"github.com/avialearn/go-exam-backend/internal/services"
	"github.com/avialearn/go-exam-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AccountService defines registration and authentication operations.
type AccountService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID uint) (*domain.User, error)
}

// ForumService defines thread, reply, and report operations.
type ForumService interface {
	CreateThread(ctx context.Context, userID uint, title, body string) (*domain.Thread, error)
	ListThreads(ctx context.Context, page, pageSize int) ([]domain.Thread, int64, error)
	GetThread(ctx context.Context, threadID uint, page, pageSize int) (*domain.Thread, []domain.ThreadMessage, int64, error)
	UpdateThread(ctx context.Context, userID, threadID uint, title, body string) error
	DeleteThread(ctx context.Context, userID, threadID uint) error
	Reply(ctx context.Context, userID, threadID uint, body string) (*domain.ThreadMessage, error)
	UpdateMessage(ctx context.Context, userID, messageID uint, body string) error
	DeleteMessage(ctx context.Context, userID, messageID uint) error
	Report(ctx context.Context, userID uint, kind domain.VoteTarget, targetID uint, reason string) (*domain.Report, error)
}

// VoteService defines the idempotent upvote toggle and status lookup.
type VoteService interface {
	ToggleUpvote(ctx context.Context, kind domain.VoteTarget, entityID, userID uint) (services.ToggleResult, error)
	UpvoteStatus(ctx context.Context, kind domain.VoteTarget, entityID, userID uint) (bool, error)
}

// ExamService defines catalog browsing and attempt scoring.
type ExamService interface {
	ListAircraft(ctx context.Context) ([]domain.Aircraft, error)
	ListTests(ctx context.Context, aircraftID uint) ([]domain.PracticeTest, error)
	StartTest(ctx context.Context, userID, testID uint) (*domain.PracticeTest, []domain.Question, error)
	SubmitAttempt(ctx context.Context, userID, testID uint, answers map[uint]int, startedAt time.Time) (*services.AttemptResult, error)
	ListAttempts(ctx context.Context, userID uint, page, pageSize int) ([]domain.TestAttempt, int64, error)
}

// SubscriptionService defines plan listing and subscription lifecycle.
type SubscriptionService interface {
	Plans(ctx context.Context) ([]domain.Plan, error)
	Subscribe(ctx context.Context, userID, planID uint) (*domain.Subscription, error)
	Current(ctx context.Context, userID uint) (*domain.Subscription, error)
	Cancel(ctx context.Context, userID, subscriptionID uint) error
}

// AdminService defines catalog authoring and moderation operations.
type AdminService interface {
	CreateAircraft(ctx context.Context, name, manufacturer, category string) (*domain.Aircraft, error)
	UpdateAircraft(ctx context.Context, id uint, name, manufacturer, category string) error
	DeleteAircraft(ctx context.Context, id uint) error
	CreateTest(ctx context.Context, aircraftID uint, title, module string, mock bool, durationMinutes, passPercent int) (*domain.PracticeTest, error)
	UpdateTest(ctx context.Context, id uint, title string, mock bool, durationMinutes, passPercent int) error
	DeleteTest(ctx context.Context, id uint) error
	AddQuestion(ctx context.Context, testID uint, prompt string, options []string, answer int, explanation string) (*domain.Question, error)
	CreatePlan(ctx context.Context, name, module string, priceCents, durationDays int) (*domain.Plan, error)
	UpdatePlan(ctx context.Context, id uint, name string, priceCents, durationDays int, active bool) error
	ListReports(ctx context.Context, status string, page, pageSize int) ([]domain.Report, int64, error)
	ResolveReport(ctx context.Context, id uint) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for accounts, the forum, votes, exams,
// subscriptions, and administration. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	accounts AccountService
	forum    ForumService
	votes    VoteService
	exams    ExamService
	subs     SubscriptionService
	admin    AdminService
}

// New constructs a Handlers instance bound to the given services.
func New(accounts AccountService, forum ForumService, votes VoteService, exams ExamService, subs SubscriptionService, admin AdminService) *Handlers {
	return &Handlers{
		accounts: accounts,
		forum:    forum,
		votes:    votes,
		exams:    exams,
		subs:     subs,
		admin:    admin,
	}
}

//
// Helpers
//

// userID extracts the resolved numeric user ID set by the auth middleware.
// Routes behind RequireAuth always have it; optional-auth routes get 0 for
// anonymous callers.
func userID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// pathID parses a numeric path parameter, failing the request with 400 when
// it is absent or not a positive integer. The bool reports success.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(n), true
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// pageMeta computes the response metadata for one page.
func pageMeta(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// svcFail translates a service sentinel error into the matching HTTP status
// and stable code. Unrecognized errors become 500 internal_error.
//
// The two distinct 403 and 500 subscription outcomes matter: a user without a
// plan gets subscription_required (buy one), while a backend fault during the
// check gets subscription_check_failed (retry later). Collapsing them would
// send paying-intent users to the checkout page over a database hiccup.
func svcFail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrIdentityUnresolvable),
		errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	case errors.Is(err, services.ErrSubscriptionRequired):
		fail(c, http.StatusForbidden, ErrCodeSubscriptionNeeded, "an active subscription is required")
	case errors.Is(err, services.ErrSubscriptionCheckFailed):
		fail(c, http.StatusInternalServerError, ErrCodeSubCheckFailed, "subscription check failed, try again")
	case errors.Is(err, services.ErrNotOwner):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "not the author of this content")
	case errors.Is(err, services.ErrThreadNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "thread not found")
	case errors.Is(err, services.ErrMessageNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "message not found")
	case errors.Is(err, services.ErrEntityNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "resource not found")
	case errors.Is(err, services.ErrTestNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "test not found")
	case errors.Is(err, services.ErrAircraftNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "aircraft not found")
	case errors.Is(err, services.ErrPlanNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "plan not found")
	case errors.Is(err, services.ErrReportNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "report not found")
	case errors.Is(err, services.ErrEmailTaken):
		fail(c, http.StatusConflict, ErrCodeEmailTaken, "email already registered")
	case errors.Is(err, services.ErrDuplicateReport):
		fail(c, http.StatusConflict, ErrCodeConflict, "already reported")
	case errors.Is(err, services.ErrEmptyContent):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content must not be empty")
	case errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content exceeds the allowed length")
	case errors.Is(err, services.ErrAnswerCountMismatch):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "answers do not match the test's questions")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// adminFail extends svcFail for admin endpoints, where catalog writes can hit
// unique-name constraints that surface as repo.ErrDuplicate.
func adminFail(c *gin.Context, err error) {
	if errors.Is(err, repo.ErrDuplicate) {
		fail(c, http.StatusConflict, ErrCodeConflict, "name already exists")
		return
	}
	svcFail(c, err)
}
