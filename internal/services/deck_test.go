package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko/deckroom-api/internal/database"
	"github.com/marko/deckroom-api/pkg/dto"
)

func deckRows(id, productID uuid.UUID, version int) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "product_id", "file_name", "mime_type", "size_bytes",
		"problem", "solution", "target_market", "funding_stage", "funding_amount", "use_of_funds",
		"traction", "version", "uploaded_by", "updated_by", "created_at", "updated_at",
	}).AddRow(id, productID, "deck.pdf", "application/pdf", int64(1024),
		nil, nil, nil, nil, nil, nil,
		json.RawMessage(`{}`), version, nil, nil, now, now)
}

func TestDeckService_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := &database.DB{Pool: mock}
	svc := NewDeckService(db)

	deckID := uuid.New()
	productID := uuid.New()
	userID := uuid.New()
	problem := "Fundraising is opaque"

	mock.ExpectQuery("UPDATE decks SET").
		WithArgs(problem, userID, deckID, 1).
		WillReturnRows(deckRows(deckID, productID, 2))

	deck, err := svc.Update(context.Background(), deckID, dto.UpdateDeckRequest{
		Problem: &problem,
		Version: 1,
	}, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, deck.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeckService_Update_VersionConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := &database.DB{Pool: mock}
	svc := NewDeckService(db)

	deckID := uuid.New()
	userID := uuid.New()
	solution := "A shared deck room"

	mock.ExpectQuery("UPDATE decks SET").
		WithArgs(solution, userID, deckID, 1).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT version FROM decks").
		WithArgs(deckID).
		WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow(3))

	_, err = svc.Update(context.Background(), deckID, dto.UpdateDeckRequest{
		Solution: &solution,
		Version:  1,
	}, userID)
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeckService_Update_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := &database.DB{Pool: mock}
	svc := NewDeckService(db)

	deckID := uuid.New()
	userID := uuid.New()
	stage := "seed"

	mock.ExpectQuery("UPDATE decks SET").
		WithArgs(stage, userID, deckID, 1).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT version FROM decks").
		WithArgs(deckID).
		WillReturnRows(pgxmock.NewRows([]string{"version"}))

	_, err = svc.Update(context.Background(), deckID, dto.UpdateDeckRequest{
		FundingStage: &stage,
		Version:      1,
	}, userID)
	assert.ErrorIs(t, err, ErrDeckNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeckService_Update_InvalidTraction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := &database.DB{Pool: mock}
	svc := NewDeckService(db)

	_, err = svc.Update(context.Background(), uuid.New(), dto.UpdateDeckRequest{
		Traction: json.RawMessage(`{broken`),
		Version:  1,
	}, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidTraction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeckService_Upload_UpsertsSingleton(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := &database.DB{Pool: mock}
	svc := NewDeckService(db)

	deckID := uuid.New()
	productID := uuid.New()
	userID := uuid.New()
	content := []byte("%PDF-1.7 fake")

	// One statement handles both first upload and replacement; the conflict
	// target is the product_id uniqueness.
	mock.ExpectQuery(`(?s)INSERT INTO decks.*ON CONFLICT \(product_id\) DO UPDATE`).
		WithArgs(productID, "deck.pdf", "application/pdf", int64(len(content)), content, userID).
		WillReturnRows(deckRows(deckID, productID, 2))

	deck, err := svc.Upload(context.Background(), productID, "deck.pdf", "application/pdf", content, userID)
	require.NoError(t, err)
	assert.Equal(t, deckID, deck.ID)
	assert.Equal(t, 2, deck.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
