package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/marko/deckroom-api/internal/database"
	"github.com/marko/deckroom-api/internal/models"
	"github.com/marko/deckroom-api/internal/oauth"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:      fmt.Sprintf("user%d@example.com", f.counter),
		Name:       fmt.Sprintf("Test User %d", f.counter),
		Provider:   "github",
		ProviderID: fmt.Sprintf("provider-%d", f.counter),
		GlobalRole: models.GlobalRoleUser,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, avatar_url, provider, provider_id, global_role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, email, name, avatar_url, provider, provider_id, global_role, created_at, updated_at
	`, user.Email, user.Name, user.AvatarURL, user.Provider, user.ProviderID, user.GlobalRole).Scan(
		&user.ID, &user.Email, &user.Name, &user.AvatarURL,
		&user.Provider, &user.ProviderID, &user.GlobalRole, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// WithProvider sets the user's OAuth provider
func WithProvider(provider, providerID string) UserOption {
	return func(u *models.User) {
		u.Provider = provider
		u.ProviderID = providerID
	}
}

// WithGlobalRole sets the user's platform role
func WithGlobalRole(role string) UserOption {
	return func(u *models.User) {
		u.GlobalRole = role
	}
}

// CreateProduct creates a test product owned by the given user
func (f *Fixtures) CreateProduct(t *testing.T, owner *models.User, opts ...ProductOption) *models.Product {
	t.Helper()
	f.counter++

	product := &models.Product{
		OwnerID: owner.ID,
		Name:    fmt.Sprintf("Test Product %d", f.counter),
		Status:  models.ProductStatusDraft,
	}

	for _, opt := range opts {
		opt(product)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO products (owner_id, name, industry, website, linkedin_url, address, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, owner_id, name, industry, website, linkedin_url, address, description, status, is_active, created_at, updated_at
	`, product.OwnerID, product.Name, product.Industry, product.Website,
		product.LinkedInURL, product.Address, product.Description, product.Status).Scan(
		&product.ID, &product.OwnerID, &product.Name, &product.Industry,
		&product.Website, &product.LinkedInURL, &product.Address, &product.Description,
		&product.Status, &product.IsActive, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	return product
}

// ProductOption configures a test product
type ProductOption func(*models.Product)

// WithProductName sets the product's name
func WithProductName(name string) ProductOption {
	return func(p *models.Product) {
		p.Name = name
	}
}

// WithStatus sets the product's lifecycle status
func WithStatus(status string) ProductOption {
	return func(p *models.Product) {
		p.Status = status
	}
}

// WithWebsite sets the product's website
func WithWebsite(url string) ProductOption {
	return func(p *models.Product) {
		p.Website = &url
	}
}

// CreateDeck creates a test deck for a product
func (f *Fixtures) CreateDeck(t *testing.T, product *models.Product, uploadedBy *models.User, opts ...DeckOption) *models.Deck {
	t.Helper()
	f.counter++

	deck := &models.Deck{
		ProductID: product.ID,
		FileName:  fmt.Sprintf("deck-%d.pdf", f.counter),
		MimeType:  "application/pdf",
		Content:   []byte("%PDF-1.4 test"),
		Traction:  json.RawMessage(`{}`),
	}
	deck.SizeBytes = int64(len(deck.Content))
	if uploadedBy != nil {
		deck.UploadedBy = &uploadedBy.ID
		deck.UpdatedBy = &uploadedBy.ID
	}

	for _, opt := range opts {
		opt(deck)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO decks (product_id, file_name, mime_type, size_bytes, content, problem, solution,
			target_market, funding_stage, funding_amount, use_of_funds, traction, uploaded_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, version, created_at, updated_at
	`, deck.ProductID, deck.FileName, deck.MimeType, deck.SizeBytes, deck.Content,
		deck.Problem, deck.Solution, deck.TargetMarket, deck.FundingStage,
		deck.FundingAmount, deck.UseOfFunds, deck.Traction, deck.UploadedBy, deck.UpdatedBy).Scan(
		&deck.ID, &deck.Version, &deck.CreatedAt, &deck.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create deck: %v", err)
	}

	return deck
}

// DeckOption configures a test deck
type DeckOption func(*models.Deck)

// WithDeckFile sets the deck's file name, MIME type and content
func WithDeckFile(fileName, mimeType string, content []byte) DeckOption {
	return func(d *models.Deck) {
		d.FileName = fileName
		d.MimeType = mimeType
		d.Content = content
		d.SizeBytes = int64(len(content))
	}
}

// WithProblem sets the deck's problem statement
func WithProblem(problem string) DeckOption {
	return func(d *models.Deck) {
		d.Problem = &problem
	}
}

// WithTraction sets the deck's traction metrics
func WithTraction(traction json.RawMessage) DeckOption {
	return func(d *models.Deck) {
		d.Traction = traction
	}
}

// GrantAccess grants a user view access to a deck
func (f *Fixtures) GrantAccess(t *testing.T, deck *models.Deck, user *models.User, grantedBy *models.User) *models.DeckAccess {
	t.Helper()

	access := &models.DeckAccess{
		DeckID:    deck.ID,
		UserID:    user.ID,
		GrantedBy: grantedBy.ID,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO deck_access (deck_id, user_id, granted_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, access.DeckID, access.UserID, access.GrantedBy).Scan(&access.ID, &access.CreatedAt)
	if err != nil {
		t.Fatalf("failed to grant deck access: %v", err)
	}

	return access
}

// CreateAccessRequest files a pending access request against a deck
func (f *Fixtures) CreateAccessRequest(t *testing.T, deck *models.Deck, requester *models.User, message *string) *models.AccessRequest {
	t.Helper()

	req := &models.AccessRequest{
		DeckID:      deck.ID,
		RequesterID: requester.ID,
		Message:     message,
		Status:      models.RequestStatusPending,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO access_requests (deck_id, requester_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at, updated_at
	`, req.DeckID, req.RequesterID, req.Message).Scan(&req.ID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create access request: %v", err)
	}

	return req
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

// OAuthUserInfo creates test OAuth user info
func OAuthUserInfo(email, name, provider, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: "https://example.com/avatar.png",
		ID:        id,
		Provider:  provider,
	}
}
