package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetTenantID(t *testing.T) {
	t.Run("reads the gateway header", func(t *testing.T) {
		tenantID := uuid.New()
		c, _ := newTestContext()
		c.Request.Header.Set("X-Tenant-ID", tenantID.String())

		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, tenantID, got)
	})

	t.Run("context value set by middleware wins over header", func(t *testing.T) {
		fromMiddleware := uuid.New()
		c, _ := newTestContext()
		c.Set("tenant_id", fromMiddleware.String())
		c.Request.Header.Set("X-Tenant-ID", uuid.New().String())

		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, fromMiddleware, got)
	})

	t.Run("malformed header is an error", func(t *testing.T) {
		c, _ := newTestContext()
		c.Request.Header.Set("X-Tenant-ID", "acme-corp")

		_, err := getTenantID(c)
		assert.Error(t, err)
	})

	t.Run("falls back to the development tenant", func(t *testing.T) {
		c, _ := newTestContext()

		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, uuid.MustParse("00000000-0000-0000-0000-000000000001"), got)
	})
}

func TestGetRequestID(t *testing.T) {
	t.Run("context value set by middleware wins", func(t *testing.T) {
		c, _ := newTestContext()
		c.Set("request_id", "ctx-id")
		c.Request.Header.Set("X-Request-ID", "header-id")

		assert.Equal(t, "ctx-id", getRequestID(c))
	})

	t.Run("header fallback", func(t *testing.T) {
		c, _ := newTestContext()
		c.Request.Header.Set("X-Request-ID", "header-id")

		assert.Equal(t, "header-id", getRequestID(c))
	})

	t.Run("empty when absent", func(t *testing.T) {
		c, _ := newTestContext()
		assert.Equal(t, "", getRequestID(c))
	})
}

func TestBaseHandlerSuccessResponses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("Success wraps data in the envelope", func(t *testing.T) {
		c, w := newTestContext()
		h.Success(c, gin.H{"number": "INV-2509-001"})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.True(t, resp.Success)
		assert.Nil(t, resp.Error)
		assert.Equal(t, "INV-2509-001", resp.Data.(map[string]interface{})["number"])
	})

	t.Run("SuccessWithMeta computes total pages", func(t *testing.T) {
		c, w := newTestContext()
		h.SuccessWithMeta(c, []string{"INV-2509-001", "INV-2509-002"}, 45, 2, 20)

		resp := decodeEnvelope(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(45), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 20, resp.Meta.PageSize)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("Created returns 201", func(t *testing.T) {
		c, w := newTestContext()
		h.Created(c, gin.H{"number": "INV-2509-003"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decodeEnvelope(t, w).Success)
	})

	t.Run("NoContent returns a bare 204", func(t *testing.T) {
		c, w := newTestContext()
		h.NoContent(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestBaseHandlerErrorResponses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("Error carries code, message and request ID", func(t *testing.T) {
		c, w := newTestContext()
		c.Set("request_id", "req-9001")
		h.Error(c, http.StatusConflict, dto.ErrCodeConflict, "invoice number already assigned")

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeEnvelope(t, w)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeConflict, resp.Error.Code)
		assert.Equal(t, "invoice number already assigned", resp.Error.Message)
		assert.Equal(t, "req-9001", resp.Error.RequestID)
	})

	t.Run("BadRequest", func(t *testing.T) {
		c, w := newTestContext()
		h.BadRequest(c, "invalid invoice ID")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decodeEnvelope(t, w).Error.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		c, w := newTestContext()
		h.NotFound(c, "invoice not found")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decodeEnvelope(t, w).Error.Code)
	})

	t.Run("InternalError", func(t *testing.T) {
		c, w := newTestContext()
		h.InternalError(c, "storage unavailable")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, dto.ErrCodeInternal, decodeEnvelope(t, w).Error.Code)
	})
}

func TestBaseHandlerBindingError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("validator failures get field details", func(t *testing.T) {
		type payload struct {
			CustomerID string `json:"customer_id" binding:"required,uuid"`
		}

		router := gin.New()
		router.POST("/api/v1/invoices", func(c *gin.Context) {
			var req payload
			if err := c.ShouldBindJSON(&req); err != nil {
				h.BindingError(c, err)
				return
			}
			h.Created(c, req)
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeEnvelope(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.Details)
	})

	t.Run("malformed JSON becomes a plain bad request", func(t *testing.T) {
		c, w := newTestContext()
		h.BindingError(c, errors.New("unexpected EOF"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
		assert.Empty(t, resp.Error.Details)
	})
}

func TestBaseHandlerHandleDomainError(t *testing.T) {
	h := &BaseHandler{}

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        shared.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "already exists",
			err:        shared.ErrAlreadyExists,
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeAlreadyExists,
		},
		{
			name:       "concurrency conflict",
			err:        shared.ErrConcurrencyConflict,
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeConcurrencyConflict,
		},
		{
			name:       "invalid transition",
			err:        shared.ErrInvalidTransition,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrCodeInvalidTransition,
		},
		{
			name:       "unknown error is masked as internal",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newTestContext()
			h.HandleDomainError(c, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)
			resp := decodeEnvelope(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}

	t.Run("wrapped domain errors are unwrapped", func(t *testing.T) {
		c, w := newTestContext()
		wrapped := shared.NewDomainError("NOT_FOUND", "invoice not found")
		h.HandleDomainError(c, wrapped)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("internal errors never leak details", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleDomainError(c, errors.New("dial tcp 10.0.0.5:5432: timeout"))

		assert.NotContains(t, w.Body.String(), "10.0.0.5")
		assert.Contains(t, w.Body.String(), "An unexpected error occurred")
	})
}
