package dto

import "github.com/google/uuid"

type DeckEventResponse struct {
	ID          uuid.UUID  `json:"id"`
	DeckID      uuid.UUID  `json:"deck_id"`
	ViewerID    *uuid.UUID `json:"viewer_id,omitempty"`
	ViewerEmail *string    `json:"viewer_email,omitempty"`
	EventType   string     `json:"event_type"`
	CreatedAt   string     `json:"created_at"`
}

type DeckAnalyticsResponse struct {
	DeckID        uuid.UUID           `json:"deck_id"`
	Views         int                 `json:"views"`
	Downloads     int                 `json:"downloads"`
	SharedViews   int                 `json:"shared_views"`
	UniqueViewers int                 `json:"unique_viewers"`
	LastViewedAt  *string             `json:"last_viewed_at,omitempty"`
	RecentEvents  []DeckEventResponse `json:"recent_events"`
}
