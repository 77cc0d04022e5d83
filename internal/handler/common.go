package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/featuregate"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/middleware"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/response"
)

// actorFromContext rebuilds the authenticated actor from the claims
// the JWT middleware stored on the request.
func actorFromContext(c *gin.Context) (domain.Actor, bool) {
	userID, ok1 := middleware.GetUserID(c)
	role, ok2 := middleware.GetRole(c)
	orgID, ok3 := middleware.GetOrgID(c)
	if !ok1 || !ok2 || !ok3 {
		return domain.Actor{}, false
	}
	return domain.Actor{UserID: userID, Role: role, OrgID: orgID}, true
}

// respondDomainError maps domain sentinels onto the response envelope.
func respondDomainError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeValidationFailed, verr.Error()))
	case errors.Is(err, domain.ErrTenantNotFound),
		errors.Is(err, domain.ErrIntentNotFound),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrSubscriptionNotFound):
		c.JSON(http.StatusNotFound, response.NotFound(err.Error()))
	case errors.Is(err, domain.ErrUnauthorizedActor):
		c.JSON(http.StatusForbidden, response.Forbidden("not allowed to act on this resource"))
	case errors.Is(err, domain.ErrSignatureMismatch):
		c.JSON(http.StatusBadRequest, response.Error(response.ErrCodePaymentFailed, "payment signature verification failed"))
	case errors.Is(err, domain.ErrIntentClosed):
		c.JSON(http.StatusConflict, response.Error(response.ErrCodeConflict, "order is already settled"))
	case errors.Is(err, domain.ErrDuplicatePayment):
		c.JSON(http.StatusConflict, response.Error(response.ErrCodeDuplicateEntry, "payment already recorded"))
	case errors.Is(err, domain.ErrUnknownPlan):
		c.JSON(http.StatusBadRequest, response.BadRequest("unknown subscription plan"))
	case errors.Is(err, domain.ErrExitConflict):
		c.JSON(http.StatusConflict, response.Error(response.ErrCodeExitConflict, "tenant state changed, reload and retry"))
	default:
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
	}
}

// RequireFeature blocks the request unless the feature is enabled for
// the caller's organization.
func RequireFeature(gate *featuregate.Gate, feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, ok := middleware.GetOrgID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
			c.Abort()
			return
		}
		if !gate.IsEnabled(feature, orgID) {
			c.JSON(http.StatusForbidden, response.Error(response.ErrCodeFeatureDisabled, "feature is not enabled for this organization"))
			c.Abort()
			return
		}
		c.Next()
	}
}
