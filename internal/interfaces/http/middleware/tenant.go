package middleware

import (
	"net/http"
	"strings"

	"github.com/invoicehub/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// TenantIDKey is the gin context key holding the resolved tenant ID.
	TenantIDKey = "tenant_id"
	// TenantHeaderKey is set by the upstream gateway after authentication.
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantMiddlewareConfig configures tenant resolution.
type TenantMiddlewareConfig struct {
	// SkipPaths bypass tenant resolution entirely, for health and metrics
	// endpoints.
	SkipPaths []string
	// Required rejects requests without a tenant header. Handlers fall back
	// to a development tenant when false.
	Required bool
	Logger   *zap.Logger
}

func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/metrics", "/api/v1/health"},
		Required:  true,
	}
}

// TenantMiddlewareWithConfig resolves the tenant from the X-Tenant-ID
// header. Authentication happens at the gateway, so the header is trusted;
// this middleware only validates the format and threads the tenant through
// the gin and request contexts.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		tenantID := c.GetHeader(TenantHeaderKey)

		if tenantID != "" {
			if _, err := uuid.Parse(tenantID); err != nil {
				respondUnauthorized(c, "Invalid tenant ID format")
				return
			}
		}

		if tenantID == "" && cfg.Required {
			respondUnauthorized(c, "Tenant identification required")
			return
		}

		if tenantID != "" {
			c.Set(TenantIDKey, tenantID)

			// Service-layer code reads the tenant from the request context
			// and the logger picks it up as a field.
			ctx := c.Request.Context()
			ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID)
			c.Request = c.Request.WithContext(ctx)

			if cfg.Logger != nil {
				cfg.Logger.Debug("Tenant identified", zap.String("tenant_id", tenantID))
			}
		}

		c.Next()
	}
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetTenantID returns the tenant ID resolved by the middleware, or "" when
// the request carried none.
func GetTenantID(c *gin.Context) string {
	if tenantID, exists := c.Get(TenantIDKey); exists {
		if tid, ok := tenantID.(string); ok {
			return tid
		}
	}
	return ""
}
