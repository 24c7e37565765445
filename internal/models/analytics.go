package models

import (
	"time"

	"github.com/google/uuid"
)

// Deck event types.
const (
	EventTypeView       = "view"
	EventTypeDownload   = "download"
	EventTypeSharedView = "shared_view"
)

type DeckEvent struct {
	ID          uuid.UUID  `json:"id"`
	DeckID      uuid.UUID  `json:"deck_id"`
	ViewerID    *uuid.UUID `json:"viewer_id,omitempty"`
	ViewerEmail *string    `json:"viewer_email,omitempty"`
	EventType   string     `json:"event_type"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DeckAnalytics is the aggregate view returned by the analytics endpoint.
type DeckAnalytics struct {
	DeckID        uuid.UUID  `json:"deck_id"`
	Views         int        `json:"views"`
	Downloads     int        `json:"downloads"`
	SharedViews   int        `json:"shared_views"`
	UniqueViewers int        `json:"unique_viewers"`
	LastViewedAt  *time.Time `json:"last_viewed_at,omitempty"`
}
