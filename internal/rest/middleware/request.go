package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoflow/invoflow/internal/types"
)

// RequestIDMiddleware attaches a request id to the context and response
func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)
	c.Next()
}

// TenantMiddleware resolves the tenant from the request headers. Requests
// without a tenant header fall back to the default tenant, which keeps
// single-tenant deployments headerless.
func TenantMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	tenantID := c.GetHeader(types.HeaderTenantID)
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}

	ctx = context.WithValue(ctx, types.CtxTenantID, tenantID)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
