package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/helioslabs/billgate/internal/subscription/domain"
)

type subscriptionResponse struct {
	OrgID     string    `json:"org_id"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetSubscription returns the projected subscription state for an
// organization. Organizations without any billing history resolve to the
// implicit free record.
func (s *Server) GetSubscription(c *gin.Context) {
	orgID := strings.TrimSpace(c.Param("org_id"))
	if orgID == "" {
		AbortWithError(c, newValidationError("org_id", "invalid_organization", "org_id is required"))
		return
	}

	record, _, err := s.subscriptionSvc.Lookup(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSubscriptionResponse(record))
}

func toSubscriptionResponse(record subscriptiondomain.SubscriptionRecord) subscriptionResponse {
	return subscriptionResponse{
		OrgID:     record.OrgID,
		Plan:      string(record.Plan),
		Status:    string(record.Status),
		UpdatedAt: record.UpdatedAt,
	}
}
