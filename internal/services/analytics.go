package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/marko/deckroom-api/internal/database"
	"github.com/marko/deckroom-api/internal/models"
)

const recentEventsLimit = 20

type AnalyticsService struct {
	db *database.DB
}

func NewAnalyticsService(db *database.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func (s *AnalyticsService) Record(ctx context.Context, deckID uuid.UUID, viewerID *uuid.UUID, viewerEmail *string, eventType string) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO deck_events (deck_id, viewer_id, viewer_email, event_type)
		VALUES ($1, $2, $3, $4)
	`, deckID, viewerID, viewerEmail, eventType)
	if err != nil {
		return fmt.Errorf("failed to record deck event: %w", err)
	}
	return nil
}

func (s *AnalyticsService) Summary(ctx context.Context, deckID uuid.UUID) (*models.DeckAnalytics, error) {
	a := models.DeckAnalytics{DeckID: deckID}
	err := s.db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE event_type = 'view'),
			COUNT(*) FILTER (WHERE event_type = 'download'),
			COUNT(*) FILTER (WHERE event_type = 'shared_view'),
			COUNT(DISTINCT COALESCE(viewer_id::text, viewer_email)),
			MAX(created_at) FILTER (WHERE event_type IN ('view', 'shared_view'))
		FROM deck_events WHERE deck_id = $1
	`, deckID).Scan(&a.Views, &a.Downloads, &a.SharedViews, &a.UniqueViewers, &a.LastViewedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AnalyticsService) RecentEvents(ctx context.Context, deckID uuid.UUID) ([]models.DeckEvent, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, deck_id, viewer_id, viewer_email, event_type, created_at
		FROM deck_events
		WHERE deck_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, deckID, recentEventsLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.DeckEvent{}
	for rows.Next() {
		var e models.DeckEvent
		if err := rows.Scan(&e.ID, &e.DeckID, &e.ViewerID, &e.ViewerEmail, &e.EventType, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
