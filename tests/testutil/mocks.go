package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/marko/deckroom-api/internal/models"
	"github.com/marko/deckroom-api/internal/oauth"
	"github.com/marko/deckroom-api/internal/services"
	"github.com/marko/deckroom-api/internal/sse"
	"github.com/marko/deckroom-api/pkg/dto"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockProductService mocks the ProductService
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, ownerID uuid.UUID, req dto.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) Submit(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) Review(ctx context.Context, id uuid.UUID, decision string) (*models.Product, error) {
	args := m.Called(ctx, id, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Product, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) IsOwner(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, productID, userID)
	return args.Bool(0), args.Error(1)
}

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) CreateMember(ctx context.Context, productID uuid.UUID, req dto.CreateTeamMemberRequest) (*models.TeamMember, error) {
	args := m.Called(ctx, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamMember), args.Error(1)
}

func (m *MockTeamService) ListMembers(ctx context.Context, productID uuid.UUID) ([]models.TeamMember, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *MockTeamService) UpdateMember(ctx context.Context, productID, memberID uuid.UUID, req dto.UpdateTeamMemberRequest) (*models.TeamMember, error) {
	args := m.Called(ctx, productID, memberID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamMember), args.Error(1)
}

func (m *MockTeamService) DeleteMember(ctx context.Context, productID, memberID uuid.UUID) error {
	args := m.Called(ctx, productID, memberID)
	return args.Error(0)
}

func (m *MockTeamService) CreateFounder(ctx context.Context, productID uuid.UUID, req dto.CreateFounderRequest) (*models.Founder, error) {
	args := m.Called(ctx, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Founder), args.Error(1)
}

func (m *MockTeamService) ListFounders(ctx context.Context, productID uuid.UUID) ([]models.Founder, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Founder), args.Error(1)
}

func (m *MockTeamService) UpdateFounder(ctx context.Context, productID, founderID uuid.UUID, req dto.UpdateFounderRequest) (*models.Founder, error) {
	args := m.Called(ctx, productID, founderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Founder), args.Error(1)
}

func (m *MockTeamService) DeleteFounder(ctx context.Context, productID, founderID uuid.UUID) error {
	args := m.Called(ctx, productID, founderID)
	return args.Error(0)
}

// MockDeckService mocks the DeckService
type MockDeckService struct {
	mock.Mock
}

func (m *MockDeckService) Upload(ctx context.Context, productID uuid.UUID, fileName, mimeType string, content []byte, uploadedBy uuid.UUID) (*models.Deck, error) {
	args := m.Called(ctx, productID, fileName, mimeType, content, uploadedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckService) GetByID(ctx context.Context, id uuid.UUID) (*models.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckService) GetByProduct(ctx context.Context, productID uuid.UUID) (*models.Deck, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckService) GetContent(ctx context.Context, id uuid.UUID) (string, string, []byte, error) {
	args := m.Called(ctx, id)
	if args.Get(2) == nil {
		return args.String(0), args.String(1), nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).([]byte), args.Error(3)
}

func (m *MockDeckService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateDeckRequest, updatedBy uuid.UUID) (*models.Deck, error) {
	args := m.Called(ctx, id, req, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckService) CurrentVersion(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockDeckService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDeckService) OwnerOf(ctx context.Context, deckID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, deckID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockAccessService mocks the AccessService
type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) Grant(ctx context.Context, deckID uuid.UUID, email string, grantedBy uuid.UUID) (*models.DeckAccess, error) {
	args := m.Called(ctx, deckID, email, grantedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeckAccess), args.Error(1)
}

func (m *MockAccessService) Revoke(ctx context.Context, deckID, accessID uuid.UUID) error {
	args := m.Called(ctx, deckID, accessID)
	return args.Error(0)
}

func (m *MockAccessService) ListGrants(ctx context.Context, deckID uuid.UUID) ([]models.DeckAccess, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DeckAccess), args.Error(1)
}

func (m *MockAccessService) CanView(ctx context.Context, deckID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, deckID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) CreateShare(ctx context.Context, deckID uuid.UUID, recipientEmail string, createdBy uuid.UUID, expiresAt *time.Time) (*models.DeckShare, string, error) {
	args := m.Called(ctx, deckID, recipientEmail, createdBy, expiresAt)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.DeckShare), args.String(1), args.Error(2)
}

func (m *MockAccessService) ValidateShareToken(ctx context.Context, token string) (*models.DeckShare, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeckShare), args.Error(1)
}

func (m *MockAccessService) ListShares(ctx context.Context, deckID uuid.UUID) ([]models.DeckShare, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DeckShare), args.Error(1)
}

func (m *MockAccessService) RevokeShare(ctx context.Context, deckID, shareID uuid.UUID) error {
	args := m.Called(ctx, deckID, shareID)
	return args.Error(0)
}

func (m *MockAccessService) CreateRequest(ctx context.Context, deckID, requesterID uuid.UUID, message *string) (*models.AccessRequest, error) {
	args := m.Called(ctx, deckID, requesterID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccessRequest), args.Error(1)
}

func (m *MockAccessService) ListRequests(ctx context.Context, deckID uuid.UUID) ([]models.AccessRequest, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AccessRequest), args.Error(1)
}

func (m *MockAccessService) GetRequest(ctx context.Context, requestID uuid.UUID) (*models.AccessRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccessRequest), args.Error(1)
}

func (m *MockAccessService) Approve(ctx context.Context, requestID, approverID uuid.UUID) (*models.AccessRequest, error) {
	args := m.Called(ctx, requestID, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccessRequest), args.Error(1)
}

func (m *MockAccessService) Deny(ctx context.Context, requestID uuid.UUID) (*models.AccessRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccessRequest), args.Error(1)
}

// MockAnalyticsService mocks the AnalyticsService
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Record(ctx context.Context, deckID uuid.UUID, viewerID *uuid.UUID, viewerEmail *string, eventType string) error {
	args := m.Called(ctx, deckID, viewerID, viewerEmail, eventType)
	return args.Error(0)
}

func (m *MockAnalyticsService) Summary(ctx context.Context, deckID uuid.UUID) (*models.DeckAnalytics, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeckAnalytics), args.Error(1)
}

func (m *MockAnalyticsService) RecentEvents(ctx context.Context, deckID uuid.UUID) ([]models.DeckEvent, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DeckEvent), args.Error(1)
}

// MockOAuthProvider mocks an OAuth provider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) GetConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.UserInfo), args.Error(1)
}

func (m *MockOAuthProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(userID uuid.UUID, email, role string) (*services.TokenPair, error) {
	args := m.Called(userID, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockEmailService mocks the EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendDeckShare(to, productName, senderName, shareURL string) error {
	args := m.Called(to, productName, senderName, shareURL)
	return args.Error(0)
}

func (m *MockEmailService) SendRequestDecision(to, productName, decision string) error {
	args := m.Called(to, productName, decision)
	return args.Error(0)
}

// MockHub mocks the SSE hub
type MockHub struct {
	mock.Mock
}

func (m *MockHub) Register(client *sse.Client) {
	m.Called(client)
}

func (m *MockHub) Unregister(client *sse.Client) {
	m.Called(client)
}

func (m *MockHub) SubscribeToProduct(clientID string, productID uuid.UUID) {
	m.Called(clientID, productID)
}

func (m *MockHub) UnsubscribeFromProduct(clientID string, productID uuid.UUID) {
	m.Called(clientID, productID)
}

func (m *MockHub) BroadcastDeckUpdate(productID, deckID, updatedBy uuid.UUID, version int) {
	m.Called(productID, deckID, updatedBy, version)
}

func (m *MockHub) BroadcastDeckUpload(productID, deckID, uploadedBy uuid.UUID, fileName string) {
	m.Called(productID, deckID, uploadedBy, fileName)
}

func (m *MockHub) BroadcastAccessRequest(productID, deckID, requestID, requesterID uuid.UUID) {
	m.Called(productID, deckID, requestID, requesterID)
}
