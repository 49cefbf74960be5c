// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, compression,
// CORS, security headers, rate limiting, and session authentication.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/avialearn/go-exam-backend/internal/auth"
	"github.com/avialearn/go-exam-backend/internal/config"
	"github.com/avialearn/go-exam-backend/internal/http/handlers"
	"github.com/avialearn/go-exam-backend/internal/http/middleware"
	"github.com/avialearn/go-exam-backend/internal/repo"
	"github.com/avialearn/go-exam-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts
// the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip compression
//  8. Rate limiter (per user/IP)
//  9. CORS and Security headers
//
// Authentication is per-group, not global: public browsing routes skip it,
// the upvote status routes use OptionalAuth, everything else mutating state
// sits behind RequireAuth, and /admin additionally requires the admin role.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, tokens *auth.Manager, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Compress responses
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	subSvc := &services.SubscriptionService{DB: db}
	accountSvc := &services.AccountService{DB: db, Tokens: tokens}
	forumSvc := services.NewForumService(db, subSvc)
	voteSvc := &services.VoteService{DB: db}
	examSvc := &services.ExamService{DB: db, Subs: subSvc}
	adminSvc := &services.AdminService{DB: db}
	identSvc := &services.IdentityService{DB: db}

	h := handlers.New(accountSvc, forumSvc, voteSvc, examSvc, subSvc, adminSvc)

	requireAuth := middleware.RequireAuth(tokens, identSvc)
	optionalAuth := middleware.OptionalAuth(tokens, identSvc)
	requireAdmin := middleware.RequireAdmin(
		func(ctx context.Context, userID uint) (string, error) {
			u, err := repo.GetUser(ctx, db, userID)
			if err != nil {
				return "", err
			}
			return u.Role, nil
		},
		services.IsAdminRoute,
	)

	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)

	// Public: browsing and account bootstrap
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)

		api.GET("/threads", h.ListThreads)
		api.GET("/threads/:id", h.GetThread)

		api.GET("/aircraft", h.ListAircraft)
		api.GET("/aircraft/:id/tests", h.ListTests)
		api.GET("/plans", h.ListPlans)
	}

	// Optional auth: vote state reads work for anonymous callers too
	{
		api.GET("/threads/:id/upvote", optionalAuth, h.ThreadUpvoteStatus)
		api.GET("/messages/:id/upvote", optionalAuth, h.MessageUpvoteStatus)
	}

	// Authenticated
	authed := api.Group("", requireAuth)
	{
		authed.GET("/me", h.Profile)

		authed.POST("/threads", h.CreateThread)
		authed.PUT("/threads/:id", h.UpdateThread)
		authed.DELETE("/threads/:id", h.DeleteThread)
		authed.POST("/threads/:id/messages", h.Reply)
		authed.PUT("/messages/:id", h.UpdateMessage)
		authed.DELETE("/messages/:id", h.DeleteMessage)

		authed.POST("/threads/:id/upvote", h.ToggleThreadUpvote)
		authed.POST("/messages/:id/upvote", h.ToggleMessageUpvote)

		authed.POST("/reports", h.Report)

		authed.GET("/tests/:id", h.StartTest)
		authed.POST("/tests/:id/attempts", h.SubmitAttempt)
		authed.GET("/attempts", h.ListAttempts)

		authed.POST("/subscriptions", h.Subscribe)
		authed.GET("/subscriptions/current", h.CurrentSubscription)
		authed.DELETE("/subscriptions/:id", h.CancelSubscription)
	}

	// Admin
	admin := api.Group("/admin", requireAuth, requireAdmin)
	{
		admin.POST("/aircraft", h.AdminCreateAircraft)
		admin.PUT("/aircraft/:id", h.AdminUpdateAircraft)
		admin.DELETE("/aircraft/:id", h.AdminDeleteAircraft)

		admin.POST("/tests", h.AdminCreateTest)
		admin.PUT("/tests/:id", h.AdminUpdateTest)
		admin.DELETE("/tests/:id", h.AdminDeleteTest)
		admin.POST("/tests/:id/questions", h.AdminAddQuestion)

		admin.POST("/plans", h.AdminCreatePlan)
		admin.PUT("/plans/:id", h.AdminUpdatePlan)

		admin.GET("/reports", h.AdminListReports)
		admin.POST("/reports/:id/resolve", h.AdminResolveReport)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
