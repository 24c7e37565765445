package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marko/deckroom-api/internal/models"
	"github.com/marko/deckroom-api/internal/oauth"
	"github.com/marko/deckroom-api/internal/services"
	"github.com/marko/deckroom-api/internal/sse"
	"github.com/marko/deckroom-api/pkg/dto"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
}

// ProductServiceInterface defines the methods used by handlers from ProductService
type ProductServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, req dto.CreateProductRequest) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Submit(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Review(ctx context.Context, id uuid.UUID, decision string) (*models.Product, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Product, error)
	IsOwner(ctx context.Context, productID, userID uuid.UUID) (bool, error)
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	CreateMember(ctx context.Context, productID uuid.UUID, req dto.CreateTeamMemberRequest) (*models.TeamMember, error)
	ListMembers(ctx context.Context, productID uuid.UUID) ([]models.TeamMember, error)
	UpdateMember(ctx context.Context, productID, memberID uuid.UUID, req dto.UpdateTeamMemberRequest) (*models.TeamMember, error)
	DeleteMember(ctx context.Context, productID, memberID uuid.UUID) error
	CreateFounder(ctx context.Context, productID uuid.UUID, req dto.CreateFounderRequest) (*models.Founder, error)
	ListFounders(ctx context.Context, productID uuid.UUID) ([]models.Founder, error)
	UpdateFounder(ctx context.Context, productID, founderID uuid.UUID, req dto.UpdateFounderRequest) (*models.Founder, error)
	DeleteFounder(ctx context.Context, productID, founderID uuid.UUID) error
}

// DeckServiceInterface defines the methods used by handlers from DeckService
type DeckServiceInterface interface {
	Upload(ctx context.Context, productID uuid.UUID, fileName, mimeType string, content []byte, uploadedBy uuid.UUID) (*models.Deck, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Deck, error)
	GetByProduct(ctx context.Context, productID uuid.UUID) (*models.Deck, error)
	GetContent(ctx context.Context, id uuid.UUID) (fileName, mimeType string, content []byte, err error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateDeckRequest, updatedBy uuid.UUID) (*models.Deck, error)
	CurrentVersion(ctx context.Context, id uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	OwnerOf(ctx context.Context, deckID uuid.UUID) (uuid.UUID, error)
}

// AccessServiceInterface defines the methods used by handlers from AccessService
type AccessServiceInterface interface {
	Grant(ctx context.Context, deckID uuid.UUID, email string, grantedBy uuid.UUID) (*models.DeckAccess, error)
	Revoke(ctx context.Context, deckID, accessID uuid.UUID) error
	ListGrants(ctx context.Context, deckID uuid.UUID) ([]models.DeckAccess, error)
	CanView(ctx context.Context, deckID, userID uuid.UUID) (bool, error)
	CreateShare(ctx context.Context, deckID uuid.UUID, recipientEmail string, createdBy uuid.UUID, expiresAt *time.Time) (*models.DeckShare, string, error)
	ValidateShareToken(ctx context.Context, token string) (*models.DeckShare, error)
	ListShares(ctx context.Context, deckID uuid.UUID) ([]models.DeckShare, error)
	RevokeShare(ctx context.Context, deckID, shareID uuid.UUID) error
	CreateRequest(ctx context.Context, deckID, requesterID uuid.UUID, message *string) (*models.AccessRequest, error)
	ListRequests(ctx context.Context, deckID uuid.UUID) ([]models.AccessRequest, error)
	GetRequest(ctx context.Context, requestID uuid.UUID) (*models.AccessRequest, error)
	Approve(ctx context.Context, requestID, approverID uuid.UUID) (*models.AccessRequest, error)
	Deny(ctx context.Context, requestID uuid.UUID) (*models.AccessRequest, error)
}

// AnalyticsServiceInterface defines the methods used by handlers from AnalyticsService
type AnalyticsServiceInterface interface {
	Record(ctx context.Context, deckID uuid.UUID, viewerID *uuid.UUID, viewerEmail *string, eventType string) error
	Summary(ctx context.Context, deckID uuid.UUID) (*models.DeckAnalytics, error)
	RecentEvents(ctx context.Context, deckID uuid.UUID) ([]models.DeckEvent, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email, role string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// EmailServiceInterface defines the methods used by handlers from EmailService
type EmailServiceInterface interface {
	SendDeckShare(to, productName, senderName, shareURL string) error
	SendRequestDecision(to, productName, decision string) error
}

// HubInterface defines the methods used by handlers from the SSE hub
type HubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
	SubscribeToProduct(clientID string, productID uuid.UUID)
	UnsubscribeFromProduct(clientID string, productID uuid.UUID)
	BroadcastDeckUpdate(productID, deckID, updatedBy uuid.UUID, version int)
	BroadcastDeckUpload(productID, deckID, uploadedBy uuid.UUID, fileName string)
	BroadcastAccessRequest(productID, deckID, requestID, requesterID uuid.UUID)
}
