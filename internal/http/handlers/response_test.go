package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respRouter wires a minimal engine with a request ID and a capturing
// request-scoped logger, mirroring what the real middleware chain provides.
func respRouter(reqID string, buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", reqID)
		if buf != nil {
			lg := zerolog.New(buf)
			c.Set("logger", &lg)
		}
		c.Next()
	})
	return r
}

func Test_fail_ServerError_LogsWithRequestContext(t *testing.T) {
	var buf bytes.Buffer
	r := respRouter("rid-boom", &buf)
	r.GET("/boom", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "upstream exploded")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.RequestID != "rid-boom" || resp.Code != ErrCodeInternal || resp.Message != "upstream exploded" {
		t.Fatalf("envelope: %+v", resp)
	}
	// 5xx must hit the request-scoped logger at error level.
	log := buf.String()
	if !strings.Contains(log, `"level":"error"`) || !strings.Contains(log, ErrCodeInternal) {
		t.Fatalf("missing error log, got: %s", log)
	}
}

func Test_fail_ClientError_DoesNotLog(t *testing.T) {
	var buf bytes.Buffer
	r := respRouter("rid-403", &buf)
	r.GET("/gated", func(c *gin.Context) {
		Fail(c, http.StatusForbidden, ErrCodeSubscriptionNeeded, "an active subscription is required to post")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gated", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Code != ErrCodeSubscriptionNeeded || resp.RequestID != "rid-403" {
		t.Fatalf("envelope: %+v", resp)
	}
	if buf.Len() != 0 {
		t.Fatalf("4xx should not log, got: %s", buf.String())
	}
}

func Test_ok_and_noContent(t *testing.T) {
	r := respRouter("rid-ok", nil)
	r.GET("/created", func(c *gin.Context) {
		ok(c, http.StatusCreated, gin.H{"id": 7})
	})
	r.DELETE("/vote", func(c *gin.Context) {
		noContent(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/created", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if int(body["id"].(float64)) != 7 {
		t.Fatalf("body: %#v", body)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/vote", nil))
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("204 with empty body expected, got %d len=%d", w.Code, w.Body.Len())
	}
}
