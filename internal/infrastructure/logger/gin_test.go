package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// findRequestLog scans recorded entries for the access log line emitted by
// GinMiddleware and fails the test if it is missing.
func findRequestLog(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "HTTP Request" {
			return entry
		}
	}
	require.FailNow(t, "HTTP Request log entry not found")
	return observer.LoggedEntry{}
}

func newObservedRouter(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(level)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	return router, recorded
}

func TestGinMiddleware(t *testing.T) {
	router, recorded := newObservedRouter(zapcore.InfoLevel)
	router.GET("/api/v1/invoices", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": []string{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/invoices", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	entry := findRequestLog(t, recorded)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
}

func TestGinMiddleware_WithRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	// Simulate the request ID middleware running first.
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-invoice-42")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/invoices", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": []string{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/invoices", nil)
	router.ServeHTTP(w, req)

	entry := findRequestLog(t, recorded)
	hasRequestID := false
	for _, field := range entry.Context {
		if field.Key == "request_id" {
			hasRequestID = true
			assert.Equal(t, "req-invoice-42", field.String)
		}
	}
	assert.True(t, hasRequestID, "request_id should be in log fields")
}

func TestGinMiddleware_ClientErrorLogsWarning(t *testing.T) {
	router, recorded := newObservedRouter(zapcore.WarnLevel)
	router.POST("/api/v1/invoices", func(c *gin.Context) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "paid invoices cannot be cancelled"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/invoices", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	entry := findRequestLog(t, recorded)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
}

func TestGinMiddleware_ServerErrorLogsError(t *testing.T) {
	router, recorded := newObservedRouter(zapcore.ErrorLevel)
	router.GET("/api/v1/invoices", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sequence store unavailable"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/invoices", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entry := findRequestLog(t, recorded)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
}

func TestGinMiddleware_LogsQueryString(t *testing.T) {
	router, recorded := newObservedRouter(zapcore.InfoLevel)
	router.GET("/api/v1/invoices", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": []string{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/invoices?status=sent&page=1", nil)
	router.ServeHTTP(w, req)

	entry := findRequestLog(t, recorded)
	hasQuery := false
	for _, field := range entry.Context {
		if field.Key == "query" {
			hasQuery = true
			assert.Contains(t, field.String, "status=sent")
		}
	}
	assert.True(t, hasQuery, "query should be in log fields")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/api/v1/invoices", func(c *gin.Context) {
		panic("counter row vanished")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/invoices", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Contains(t, logs[0].Message, "Panic recovered")
}

func TestGetGinLogger(t *testing.T) {
	router, _ := newObservedRouter(zapcore.InfoLevel)

	var retrieved *zap.Logger
	router.GET("/api/v1/invoices", func(c *gin.Context) {
		retrieved = GetGinLogger(c)
		c.JSON(http.StatusOK, gin.H{"items": []string{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/invoices", nil)
	router.ServeHTTP(w, req)

	assert.NotNil(t, retrieved)
}

func TestGetGinLogger_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var retrieved *zap.Logger
	router := gin.New()
	router.GET("/api/v1/invoices", func(c *gin.Context) {
		retrieved = GetGinLogger(c)
		c.JSON(http.StatusOK, gin.H{"items": []string{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/invoices", nil)
	router.ServeHTTP(w, req)

	// Falls back to a no-op logger rather than nil.
	require.NotNil(t, retrieved)
	assert.NotPanics(t, func() {
		retrieved.Info("noop")
	})
}

func TestGinMiddleware_LogsAccessFields(t *testing.T) {
	router, recorded := newObservedRouter(zapcore.InfoLevel)
	router.POST("/api/v1/proposals", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"number": "PROP-2509-001"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/proposals", nil)
	req.Header.Set("User-Agent", "invoicehub-cli/1.0")
	router.ServeHTTP(w, req)

	entry := findRequestLog(t, recorded)
	fields := make(map[string]zapcore.Field)
	for _, field := range entry.Context {
		fields[field.Key] = field
	}

	for _, key := range []string{"status", "latency", "client_ip", "user_agent", "method", "path"} {
		assert.Contains(t, fields, key)
	}
}
