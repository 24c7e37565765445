package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko/deckroom-api/pkg/dto"
)

func newCountingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestClient_CreateProduct_InvalidWebsiteBlocksRequest(t *testing.T) {
	srv, hits := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	c := New(srv.URL, WithToken("test-token"))

	website := "not a url"
	_, err := c.CreateProduct(context.Background(), dto.CreateProductRequest{
		Name:    "Acme Robotics",
		Website: &website,
	})

	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Equal(t, int64(0), hits.Load(), "invalid website must not reach the server")
}

func TestClient_CreateProduct_RejectsNonHTTPScheme(t *testing.T) {
	srv, hits := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	c := New(srv.URL, WithToken("test-token"))

	for _, raw := range []string{"ftp://example.com", "javascript:alert(1)", "example.com"} {
		website := raw
		_, err := c.CreateProduct(context.Background(), dto.CreateProductRequest{
			Name:    "Acme Robotics",
			Website: &website,
		})
		assert.ErrorIs(t, err, ErrInvalidURL, "scheme %q should be rejected", raw)
	}

	assert.Equal(t, int64(0), hits.Load())
}

func TestClient_CreateProduct_TruncatesLongName(t *testing.T) {
	var gotName string
	srv, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req dto.CreateProductRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotName = req.Name

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(dto.ProductResponse{ID: uuid.New(), Name: req.Name})
	})

	c := New(srv.URL, WithToken("test-token"))

	_, err := c.CreateProduct(context.Background(), dto.CreateProductRequest{
		Name: strings.Repeat("x", 300),
	})

	require.NoError(t, err)
	assert.Len(t, gotName, 255, "name should be clipped to exactly the field limit")
}

func TestClient_CreateProduct_EmptyName(t *testing.T) {
	srv, hits := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {})

	c := New(srv.URL, WithToken("test-token"))

	_, err := c.CreateProduct(context.Background(), dto.CreateProductRequest{Name: "   "})

	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, int64(0), hits.Load())
}

func TestClient_UploadDeck_TooLargeBlocksRequest(t *testing.T) {
	srv, hits := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	c := New(srv.URL, WithToken("test-token"), WithMaxDeckBytes(10<<20))

	oversized := bytes.Repeat([]byte("a"), 15<<20)
	_, err := c.UploadDeck(context.Background(), uuid.New().String(), "deck.pdf", "application/pdf", oversized)

	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, int64(0), hits.Load(), "oversized upload must be rejected before any request")
}

func TestClient_UploadDeck_Success(t *testing.T) {
	deckID := uuid.New()
	productID := uuid.New()

	srv, hits := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "deck.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(dto.DeckResponse{
			ID:        deckID,
			ProductID: productID,
			FileName:  header.Filename,
			MimeType:  "application/pdf",
			SizeBytes: header.Size,
			Version:   1,
		})
	})

	c := New(srv.URL, WithToken("test-token"))

	deck, err := c.UploadDeck(context.Background(), productID.String(), "deck.pdf", "application/pdf", []byte("%PDF-1.4 test"))

	require.NoError(t, err)
	assert.Equal(t, deckID, deck.ID)
	assert.Equal(t, 1, deck.Version)
	assert.Equal(t, int64(1), hits.Load())
}

func TestClient_GetProduct_InvalidIDBlocksRequest(t *testing.T) {
	srv, hits := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {})

	c := New(srv.URL, WithToken("test-token"))

	_, err := c.GetProduct(context.Background(), "not-a-uuid")

	assert.ErrorIs(t, err, ErrInvalidID)
	assert.Equal(t, int64(0), hits.Load())
}

func TestClient_GetProduct_AcceptsUppercaseUUID(t *testing.T) {
	productID := uuid.New()

	srv, hits := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto.ProductResponse{ID: productID, Name: "Acme Robotics"})
	})

	c := New(srv.URL, WithToken("test-token"))

	product, err := c.GetProduct(context.Background(), strings.ToUpper(productID.String()))

	require.NoError(t, err)
	assert.Equal(t, "Acme Robotics", product.Name)
	assert.Equal(t, int64(1), hits.Load(), "uppercase UUIDs are valid ids")
}

// A metadata update followed by a refetch must return the stored values, not
// the client's stale copy.
func TestClient_UpdateDeck_RefetchReflectsNewValues(t *testing.T) {
	deckID := uuid.New()
	productID := uuid.New()

	stored := dto.DeckResponse{
		ID:        deckID,
		ProductID: productID,
		FileName:  "deck.pdf",
		MimeType:  "application/pdf",
		Traction:  json.RawMessage(`{}`),
		Version:   1,
	}

	srv, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPatch:
			var req dto.UpdateDeckRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Problem != nil {
				stored.Problem = req.Problem
			}
			if req.Solution != nil {
				stored.Solution = req.Solution
			}
			stored.Version++
			_ = json.NewEncoder(w).Encode(stored)
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(stored)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	c := New(srv.URL, WithToken("test-token"))
	ctx := context.Background()

	problem := "Fundraising takes too long"
	updated, err := c.UpdateDeck(ctx, deckID.String(), dto.UpdateDeckRequest{
		Problem: &problem,
		Version: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	refetched, err := c.GetDeck(ctx, deckID.String())
	require.NoError(t, err)
	require.NotNil(t, refetched.Problem)
	assert.Equal(t, problem, *refetched.Problem)
	assert.Equal(t, 2, refetched.Version)
}

func TestClient_UpdateDeck_MissingVersionBlocksRequest(t *testing.T) {
	srv, hits := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {})

	c := New(srv.URL, WithToken("test-token"))

	problem := "Fundraising takes too long"
	_, err := c.UpdateDeck(context.Background(), uuid.New().String(), dto.UpdateDeckRequest{Problem: &problem})

	assert.ErrorIs(t, err, ErrVersionNeeded)
	assert.Equal(t, int64(0), hits.Load())
}

func TestClient_UpdateDeck_VersionConflict(t *testing.T) {
	srv, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":           "VERSION_CONFLICT",
			"message":         "deck was modified by someone else",
			"current_version": 3,
		})
	})

	c := New(srv.URL, WithToken("test-token"))

	problem := "stale edit"
	_, err := c.UpdateDeck(context.Background(), uuid.New().String(), dto.UpdateDeckRequest{
		Problem: &problem,
		Version: 1,
	})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "VERSION_CONFLICT", apiErr.Code)
	assert.Equal(t, 3, apiErr.CurrentVersion)
}

func TestClient_GrantAccess_InvalidEmailBlocksRequest(t *testing.T) {
	srv, hits := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {})

	c := New(srv.URL, WithToken("test-token"))

	_, err := c.GrantAccess(context.Background(), uuid.New().String(), "not-an-email")

	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.Equal(t, int64(0), hits.Load())
}

func TestClient_ExchangeCode_SetsToken(t *testing.T) {
	var sawAuth string
	srv, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/auth/exchange":
			_ = json.NewEncoder(w).Encode(dto.TokenResponse{
				AccessToken:  "access-abc",
				RefreshToken: "refresh-def",
				ExpiresIn:    900,
			})
		case "/api/v1/users/me":
			sawAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(dto.UserResponse{ID: uuid.New(), Email: "founder@example.com", Name: "Founder"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	c := New(srv.URL)
	ctx := context.Background()

	tokens, err := c.ExchangeCode(ctx, "one-time-code")
	require.NoError(t, err)
	assert.Equal(t, "access-abc", tokens.AccessToken)

	_, err = c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer access-abc", sawAuth)
}

func TestClient_ServerErrorMessageSurfaces(t *testing.T) {
	srv, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":   "PRODUCT_LIMIT",
			"message": "product limit reached",
		})
	})

	c := New(srv.URL, WithToken("test-token"))

	_, err := c.CreateProduct(context.Background(), dto.CreateProductRequest{Name: "Fourth Product"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "PRODUCT_LIMIT", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "product limit reached")
}
