package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/client-service/internal/middleware"
	"github.com/eaglebank/client-service/internal/models"
)

// ActivityReader reads the per-client counters kept by the activity projection.
type ActivityReader interface {
	GetActivity(ctx context.Context, clientID string) (*models.ClientActivity, error)
}

type ActivityHandler struct {
	clients  ClientQuerier
	activity ActivityReader
}

// NewActivityHandler accepts a nil reader when activity tracking is off; the
// endpoint then answers 503.
func NewActivityHandler(clients ClientQuerier, activity ActivityReader) *ActivityHandler {
	return &ActivityHandler{clients: clients, activity: activity}
}

func (h *ActivityHandler) GetActivity(c *gin.Context) {
	if h.activity == nil {
		middleware.RespondWithError(c, http.StatusServiceUnavailable, "Activity tracking is disabled")
		return
	}

	ctx := c.Request.Context()
	clientID := c.Param("clientId")
	// An unknown client is a 404 rather than all-zero counters.
	if _, err := h.clients.GetClient(ctx, clientID); err != nil {
		respondWithDomainError(c, err, "Failed to fetch client")
		return
	}

	activity, err := h.activity.GetActivity(ctx, clientID)
	if err != nil {
		respondWithDomainError(c, err, "Failed to fetch activity")
		return
	}
	c.JSON(http.StatusOK, activity)
}
