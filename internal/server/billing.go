package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	checkoutdomain "github.com/helioslabs/billgate/internal/checkout/domain"
	"go.uber.org/zap"
)

// CreateCheckoutSession starts a vendor-hosted checkout for a paid plan and
// returns the redirect URL for the caller to send the user to.
func (s *Server) CreateCheckoutSession(c *gin.Context) {
	var req checkoutdomain.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if !s.allowOrg(c, req.OrgID) {
		return
	}

	session, err := s.checkoutSvc.CreateCheckoutSession(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// RedirectToPortal creates a billing portal session and sends the browser
// straight to the vendor-hosted page.
func (s *Server) RedirectToPortal(c *gin.Context) {
	orgID := strings.TrimSpace(c.Query("org_id"))
	if orgID == "" {
		AbortWithError(c, newValidationError("org_id", "invalid_organization", "org_id is required"))
		return
	}

	if !s.allowOrg(c, orgID) {
		return
	}

	url, err := s.checkoutSvc.CreatePortalSession(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, url)
}

func (s *Server) allowOrg(c *gin.Context, orgID string) bool {
	allowed, err := s.billingLimiter.AllowOrg(c.Request.Context(), orgID)
	if err != nil {
		s.log.Warn("rate limiter unavailable, allowing request",
			zap.String("org_id", orgID),
			zap.Error(err),
		)
		return true
	}
	if !allowed {
		AbortWithError(c, ErrTooManyRequests)
		return false
	}
	return true
}
