package integration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko/deckroom-api/internal/services"
	"github.com/marko/deckroom-api/pkg/dto"
	"github.com/marko/deckroom-api/tests/testutil"
)

func TestDeckService_Integration_UploadAndFetch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewDeckService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	product := fixtures.CreateProduct(t, user)

	content := []byte("%PDF-1.4 pitch deck")
	deck, err := svc.Upload(ctx, product.ID, "pitch.pdf", "application/pdf", content, user.ID)

	require.NoError(t, err)
	assert.Equal(t, "pitch.pdf", deck.FileName)
	assert.Equal(t, int64(len(content)), deck.SizeBytes)
	assert.Equal(t, 1, deck.Version)

	fileName, mimeType, got, err := svc.GetContent(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, "pitch.pdf", fileName)
	assert.Equal(t, "application/pdf", mimeType)
	assert.Equal(t, content, got)
}

func TestDeckService_Integration_ReuploadReplacesFileKeepsMetadata(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewDeckService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	product := fixtures.CreateProduct(t, user)
	deck := fixtures.CreateDeck(t, product, user, testutil.WithProblem("Fundraising takes too long"))

	replaced, err := svc.Upload(ctx, product.ID, "v2.pdf", "application/pdf", []byte("%PDF-1.4 v2"), user.ID)

	require.NoError(t, err)
	assert.Equal(t, deck.ID, replaced.ID, "re-upload replaces the file, not the row")
	assert.Equal(t, "v2.pdf", replaced.FileName)
	assert.Equal(t, deck.Version+1, replaced.Version)
	require.NotNil(t, replaced.Problem)
	assert.Equal(t, "Fundraising takes too long", *replaced.Problem)

	// The product still has exactly one deck row.
	var count int
	err = tdb.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM decks WHERE product_id = $1`, product.ID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeckService_Integration_UpdateBumpsVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewDeckService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	product := fixtures.CreateProduct(t, user)
	deck := fixtures.CreateDeck(t, product, user)

	problem := "Fundraising takes too long"
	solution := "A single data room for every investor conversation"
	updated, err := svc.Update(ctx, deck.ID, dto.UpdateDeckRequest{
		Problem:  &problem,
		Solution: &solution,
		Version:  deck.Version,
	}, user.ID)

	require.NoError(t, err)
	assert.Equal(t, deck.Version+1, updated.Version)
	require.NotNil(t, updated.Problem)
	assert.Equal(t, problem, *updated.Problem)

	// A refetch reflects the stored values.
	fetched, err := svc.GetByID(ctx, deck.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Solution)
	assert.Equal(t, solution, *fetched.Solution)
	assert.Equal(t, updated.Version, fetched.Version)
}

func TestDeckService_Integration_StaleVersionConflicts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewDeckService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	product := fixtures.CreateProduct(t, user)
	deck := fixtures.CreateDeck(t, product, user)

	first := "first edit"
	_, err := svc.Update(ctx, deck.ID, dto.UpdateDeckRequest{
		Problem: &first,
		Version: deck.Version,
	}, user.ID)
	require.NoError(t, err)

	// A second writer holding the original version loses.
	stale := "stale edit"
	_, err = svc.Update(ctx, deck.ID, dto.UpdateDeckRequest{
		Problem: &stale,
		Version: deck.Version,
	}, user.ID)
	assert.ErrorIs(t, err, services.ErrVersionConflict)

	current, err := svc.CurrentVersion(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, deck.Version+1, current)

	// The stale edit left no trace.
	fetched, err := svc.GetByID(ctx, deck.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Problem)
	assert.Equal(t, first, *fetched.Problem)
}

func TestDeckService_Integration_GetByProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewDeckService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	product := fixtures.CreateProduct(t, user)
	deck := fixtures.CreateDeck(t, product, user,
		testutil.WithDeckFile("roadshow.pdf", "application/pdf", []byte("%PDF-1.4 roadshow")),
		testutil.WithTraction(json.RawMessage(`{"mrr": 12000, "customers": 40}`)),
	)

	fetched, err := svc.GetByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, deck.ID, fetched.ID)
	assert.Equal(t, "roadshow.pdf", fetched.FileName)
	assert.JSONEq(t, `{"mrr": 12000, "customers": 40}`, string(fetched.Traction))

	otherProduct := fixtures.CreateProduct(t, user)
	_, err = svc.GetByProduct(ctx, otherProduct.ID)
	assert.ErrorIs(t, err, services.ErrDeckNotFound)
}

func TestDeckService_Integration_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewDeckService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	product := fixtures.CreateProduct(t, user)
	deck := fixtures.CreateDeck(t, product, user)

	err := svc.Delete(ctx, deck.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, deck.ID)
	assert.ErrorIs(t, err, services.ErrDeckNotFound)
}

func TestDeckService_Integration_OwnerOf(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewDeckService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	product := fixtures.CreateProduct(t, user)
	deck := fixtures.CreateDeck(t, product, user)

	ownerID, err := svc.OwnerOf(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, ownerID)
}
