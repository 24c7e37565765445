package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/marko/deckroom-api/internal/middleware"
	"github.com/marko/deckroom-api/internal/models"
	"github.com/marko/deckroom-api/pkg/dto"
)

type AnalyticsHandler struct {
	analyticsService AnalyticsServiceInterface
	deckService      DeckServiceInterface
}

func NewAnalyticsHandler(analyticsService AnalyticsServiceInterface, deckService DeckServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		deckService:      deckService,
	}
}

func deckEventResponse(e *models.DeckEvent) dto.DeckEventResponse {
	return dto.DeckEventResponse{
		ID:          e.ID,
		DeckID:      e.DeckID,
		ViewerID:    e.ViewerID,
		ViewerEmail: e.ViewerEmail,
		EventType:   e.EventType,
		CreatedAt:   e.CreatedAt.Format(timeFormat),
	}
}

// Get returns the aggregate counters plus the most recent events. Only the
// deck's owner sees analytics.
func (h *AnalyticsHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	deckID, err := uuid.Parse(c.Param("deckId"))
	if err != nil {
		c.BadRequest("invalid deck id")
		return
	}

	ctx := context.Background()

	ownerID, err := h.deckService.OwnerOf(ctx, deckID)
	if err != nil || ownerID != userID {
		c.NotFound("deck not found")
		return
	}

	summary, err := h.analyticsService.Summary(ctx, deckID)
	if err != nil {
		c.InternalServerError("failed to load analytics")
		return
	}

	events, err := h.analyticsService.RecentEvents(ctx, deckID)
	if err != nil {
		c.InternalServerError("failed to load analytics")
		return
	}

	resp := dto.DeckAnalyticsResponse{
		DeckID:        summary.DeckID,
		Views:         summary.Views,
		Downloads:     summary.Downloads,
		SharedViews:   summary.SharedViews,
		UniqueViewers: summary.UniqueViewers,
		RecentEvents:  make([]dto.DeckEventResponse, len(events)),
	}
	if summary.LastViewedAt != nil {
		v := summary.LastViewedAt.Format(timeFormat)
		resp.LastViewedAt = &v
	}
	for i := range events {
		resp.RecentEvents[i] = deckEventResponse(&events[i])
	}

	_ = c.JSON(200, resp)
}
