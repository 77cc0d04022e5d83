package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
)

// HeaderRequestID is the inbound/outbound request ID header.
const HeaderRequestID = "X-Request-ID"

// RequestID assigns each request an ID, echoes it in the response and
// plants it in the request context for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}

// ActorContext copies the authenticated identity into the request
// context so downstream log lines carry actor and org. Must run after
// JWTMiddleware.
func ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if userID, ok := GetUserID(c); ok {
			ctx = context.WithValue(ctx, logger.ActorIDKey, userID)
		}
		if orgID, ok := GetOrgID(c); ok {
			ctx = context.WithValue(ctx, logger.OrgIDKey, orgID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
