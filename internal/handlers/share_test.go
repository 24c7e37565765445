package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/marko/deckroom-api/internal/models"
	"github.com/marko/deckroom-api/internal/services"
	"github.com/marko/deckroom-api/tests/testutil"
)

type shareTestMocks struct {
	access    *testutil.MockAccessService
	deck      *testutil.MockDeckService
	product   *testutil.MockProductService
	analytics *testutil.MockAnalyticsService
}

func setupShareTest(t *testing.T) (*shareTestMocks, *ShareHandler) {
	t.Helper()
	mocks := &shareTestMocks{
		access:    new(testutil.MockAccessService),
		deck:      new(testutil.MockDeckService),
		product:   new(testutil.MockProductService),
		analytics: new(testutil.MockAnalyticsService),
	}
	handler := NewShareHandler(mocks.access, mocks.deck, mocks.product, mocks.analytics)
	return mocks, handler
}

func TestShareHandler_View_Success(t *testing.T) {
	mocks, handler := setupShareTest(t)

	deckID := uuid.New()
	productID := uuid.New()
	token := "dkr_validtoken"
	problem := "Fundraising takes too long"
	share := &models.DeckShare{
		ID:             uuid.New(),
		DeckID:         deckID,
		RecipientEmail: "investor@example.com",
	}
	deck := &models.Deck{
		ID:        deckID,
		ProductID: productID,
		FileName:  "deck.pdf",
		MimeType:  "application/pdf",
		Problem:   &problem,
		Traction:  json.RawMessage(`{}`),
	}
	product := &models.Product{
		ID:      productID,
		OwnerID: uuid.New(),
		Name:    "Acme Robotics",
		Status:  models.ProductStatusApproved,
	}

	mocks.access.On("ValidateShareToken", mock.Anything, token).Return(share, nil)
	mocks.deck.On("GetByID", mock.Anything, deckID).Return(deck, nil)
	mocks.product.On("GetByID", mock.Anything, productID).Return(product, nil)
	mocks.analytics.On("Record", mock.Anything, deckID, (*uuid.UUID)(nil), mock.Anything, models.EventTypeSharedView).Return(nil)

	app := drift.New()
	app.Get("/shared/:token", handler.View)

	req := httptest.NewRequest(http.MethodGet, "/shared/"+token, nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme Robotics")
	assert.Contains(t, rec.Body.String(), "Fundraising takes too long")
	assert.Contains(t, rec.Body.String(), "/shared/"+token+"/file")

	mocks.access.AssertExpectations(t)
	mocks.analytics.AssertExpectations(t)
}

func TestShareHandler_View_InvalidToken(t *testing.T) {
	mocks, handler := setupShareTest(t)

	mocks.access.On("ValidateShareToken", mock.Anything, "dkr_bogus").Return(nil, services.ErrShareNotFound)

	app := drift.New()
	app.Get("/shared/:token", handler.View)

	req := httptest.NewRequest(http.MethodGet, "/shared/dkr_bogus", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "This share link is invalid.")

	mocks.deck.AssertNotCalled(t, "GetByID")
}

func TestShareHandler_View_ExpiredToken(t *testing.T) {
	mocks, handler := setupShareTest(t)

	mocks.access.On("ValidateShareToken", mock.Anything, "dkr_expired").Return(nil, services.ErrShareExpired)

	app := drift.New()
	app.Get("/shared/:token", handler.View)

	req := httptest.NewRequest(http.MethodGet, "/shared/dkr_expired", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "This share link has expired.")
}

func TestShareHandler_File_Success(t *testing.T) {
	mocks, handler := setupShareTest(t)

	deckID := uuid.New()
	token := "dkr_validtoken"
	content := []byte("%PDF-1.4 fake deck")
	share := &models.DeckShare{
		ID:             uuid.New(),
		DeckID:         deckID,
		RecipientEmail: "investor@example.com",
	}

	mocks.access.On("ValidateShareToken", mock.Anything, token).Return(share, nil)
	mocks.deck.On("GetContent", mock.Anything, deckID).Return("deck.pdf", "application/pdf", content, nil)
	mocks.analytics.On("Record", mock.Anything, deckID, (*uuid.UUID)(nil), mock.Anything, models.EventTypeSharedView).Return(nil)

	app := drift.New()
	app.Get("/shared/:token/file", handler.File)

	req := httptest.NewRequest(http.MethodGet, "/shared/"+token+"/file", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inline")
	assert.Equal(t, content, rec.Body.Bytes())

	mocks.deck.AssertExpectations(t)
}

func TestShareHandler_File_RevokedToken(t *testing.T) {
	mocks, handler := setupShareTest(t)

	mocks.access.On("ValidateShareToken", mock.Anything, "dkr_revoked").Return(nil, services.ErrShareRevoked)

	app := drift.New()
	app.Get("/shared/:token/file", handler.File)

	req := httptest.NewRequest(http.MethodGet, "/shared/dkr_revoked/file", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "This share link has been revoked.")

	mocks.deck.AssertNotCalled(t, "GetContent")
}
