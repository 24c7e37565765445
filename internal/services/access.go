package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/marko/deckroom-api/internal/database"
	"github.com/marko/deckroom-api/internal/models"
)

var (
	ErrAccessNotFound      = errors.New("access grant not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrShareNotFound       = errors.New("share not found")
	ErrShareRevoked        = errors.New("share revoked")
	ErrShareExpired        = errors.New("share expired")
	ErrRequestNotFound     = errors.New("access request not found")
	ErrRequestAlreadyFiled = errors.New("access request already filed")
	ErrRequestNotPending   = errors.New("access request already decided")
)

const shareTokenPrefixLen = 12

type AccessService struct {
	db *database.DB
}

func NewAccessService(db *database.DB) *AccessService {
	return &AccessService{db: db}
}

// GenerateShareToken returns a new plaintext share token, its displayable
// prefix and its sha256 hash. Only the hash and prefix are persisted.
func GenerateShareToken() (token, prefix, hash string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", "", fmt.Errorf("failed to generate token: %w", err)
	}
	token = "dkr_" + hex.EncodeToString(raw)
	prefix = token[:shareTokenPrefixLen]
	hash = HashToken(token)
	return token, prefix, hash, nil
}

// Grant gives a platform user viewing rights on a deck. Granting to a user
// with a revoked grant reactivates it.
func (s *AccessService) Grant(ctx context.Context, deckID uuid.UUID, email string, grantedBy uuid.UUID) (*models.DeckAccess, error) {
	var userID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var access models.DeckAccess
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO deck_access (deck_id, user_id, granted_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (deck_id, user_id) DO UPDATE SET revoked_at = NULL, granted_by = $3
		RETURNING id, deck_id, user_id, granted_by, revoked_at, created_at
	`, deckID, userID, grantedBy).Scan(
		&access.ID, &access.DeckID, &access.UserID, &access.GrantedBy, &access.RevokedAt, &access.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to grant access: %w", err)
	}
	return &access, nil
}

func (s *AccessService) Revoke(ctx context.Context, deckID, accessID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE deck_access SET revoked_at = NOW()
		WHERE id = $1 AND deck_id = $2 AND revoked_at IS NULL
	`, accessID, deckID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccessNotFound
	}
	return nil
}

func (s *AccessService) ListGrants(ctx context.Context, deckID uuid.UUID) ([]models.DeckAccess, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT a.id, a.deck_id, a.user_id, a.granted_by, a.revoked_at, a.created_at,
		       u.id, u.email, u.name, u.avatar_url
		FROM deck_access a
		JOIN users u ON u.id = a.user_id
		WHERE a.deck_id = $1 AND a.revoked_at IS NULL
		ORDER BY a.created_at DESC
	`, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grants := []models.DeckAccess{}
	for rows.Next() {
		var a models.DeckAccess
		var u models.User
		if err := rows.Scan(
			&a.ID, &a.DeckID, &a.UserID, &a.GrantedBy, &a.RevokedAt, &a.CreatedAt,
			&u.ID, &u.Email, &u.Name, &u.AvatarURL,
		); err != nil {
			return nil, err
		}
		a.User = &u
		grants = append(grants, a)
	}
	return grants, rows.Err()
}

// CanView reports whether a user may view a deck: the product owner and
// users holding an active grant can.
func (s *AccessService) CanView(ctx context.Context, deckID, userID uuid.UUID) (bool, error) {
	var allowed bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM decks d
			JOIN products p ON p.id = d.product_id
			WHERE d.id = $1 AND p.owner_id = $2
		) OR EXISTS(
			SELECT 1 FROM deck_access
			WHERE deck_id = $1 AND user_id = $2 AND revoked_at IS NULL
		)
	`, deckID, userID).Scan(&allowed)
	return allowed, err
}

// CreateShare mints a tokenized share link for an external recipient.
func (s *AccessService) CreateShare(ctx context.Context, deckID uuid.UUID, recipientEmail string, createdBy uuid.UUID, expiresAt *time.Time) (*models.DeckShare, string, error) {
	token, prefix, hash, err := GenerateShareToken()
	if err != nil {
		return nil, "", err
	}

	var share models.DeckShare
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO deck_shares (deck_id, recipient_email, token_hash, token_prefix, created_by, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, deck_id, recipient_email, token_hash, token_prefix, created_by, expires_at, revoked_at, last_viewed_at, created_at
	`, deckID, recipientEmail, hash, prefix, createdBy, expiresAt).Scan(
		&share.ID, &share.DeckID, &share.RecipientEmail, &share.TokenHash, &share.TokenPrefix,
		&share.CreatedBy, &share.ExpiresAt, &share.RevokedAt, &share.LastViewedAt, &share.CreatedAt,
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create share: %w", err)
	}
	return &share, token, nil
}

// ValidateShareToken resolves a plaintext token to its share. Revoked and
// expired links are rejected. The last-viewed timestamp is updated
// asynchronously so lookups stay on the hot path.
func (s *AccessService) ValidateShareToken(ctx context.Context, token string) (*models.DeckShare, error) {
	hash := HashToken(token)

	var share models.DeckShare
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, deck_id, recipient_email, token_hash, token_prefix, created_by, expires_at, revoked_at, last_viewed_at, created_at
		FROM deck_shares WHERE token_hash = $1
	`, hash).Scan(
		&share.ID, &share.DeckID, &share.RecipientEmail, &share.TokenHash, &share.TokenPrefix,
		&share.CreatedBy, &share.ExpiresAt, &share.RevokedAt, &share.LastViewedAt, &share.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, err
	}

	if share.RevokedAt != nil {
		return nil, ErrShareRevoked
	}
	if share.ExpiresAt != nil && share.ExpiresAt.Before(time.Now()) {
		return nil, ErrShareExpired
	}

	go func(id uuid.UUID) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.db.Pool.Exec(ctx, `UPDATE deck_shares SET last_viewed_at = NOW() WHERE id = $1`, id); err != nil {
			log.Printf("failed to update share last_viewed_at: %v", err)
		}
	}(share.ID)

	return &share, nil
}

func (s *AccessService) ListShares(ctx context.Context, deckID uuid.UUID) ([]models.DeckShare, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, deck_id, recipient_email, token_hash, token_prefix, created_by, expires_at, revoked_at, last_viewed_at, created_at
		FROM deck_shares
		WHERE deck_id = $1 AND revoked_at IS NULL
		ORDER BY created_at DESC
	`, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shares := []models.DeckShare{}
	for rows.Next() {
		var sh models.DeckShare
		if err := rows.Scan(
			&sh.ID, &sh.DeckID, &sh.RecipientEmail, &sh.TokenHash, &sh.TokenPrefix,
			&sh.CreatedBy, &sh.ExpiresAt, &sh.RevokedAt, &sh.LastViewedAt, &sh.CreatedAt,
		); err != nil {
			return nil, err
		}
		shares = append(shares, sh)
	}
	return shares, rows.Err()
}

func (s *AccessService) RevokeShare(ctx context.Context, deckID, shareID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE deck_shares SET revoked_at = NOW()
		WHERE id = $1 AND deck_id = $2 AND revoked_at IS NULL
	`, shareID, deckID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrShareNotFound
	}
	return nil
}

// CreateRequest files an access request. A requester may have at most one
// request per deck.
func (s *AccessService) CreateRequest(ctx context.Context, deckID, requesterID uuid.UUID, message *string) (*models.AccessRequest, error) {
	var req models.AccessRequest
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO access_requests (deck_id, requester_id, message)
		VALUES ($1, $2, $3)
		ON CONFLICT (deck_id, requester_id) DO NOTHING
		RETURNING id, deck_id, requester_id, message, status, created_at, updated_at
	`, deckID, requesterID, message).Scan(
		&req.ID, &req.DeckID, &req.RequesterID, &req.Message, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRequestAlreadyFiled
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create access request: %w", err)
	}
	return &req, nil
}

func (s *AccessService) ListRequests(ctx context.Context, deckID uuid.UUID) ([]models.AccessRequest, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT r.id, r.deck_id, r.requester_id, r.message, r.status, r.created_at, r.updated_at,
		       u.id, u.email, u.name, u.avatar_url
		FROM access_requests r
		JOIN users u ON u.id = r.requester_id
		WHERE r.deck_id = $1
		ORDER BY r.created_at DESC
	`, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []models.AccessRequest{}
	for rows.Next() {
		var r models.AccessRequest
		var u models.User
		if err := rows.Scan(
			&r.ID, &r.DeckID, &r.RequesterID, &r.Message, &r.Status, &r.CreatedAt, &r.UpdatedAt,
			&u.ID, &u.Email, &u.Name, &u.AvatarURL,
		); err != nil {
			return nil, err
		}
		r.Requester = &u
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *AccessService) GetRequest(ctx context.Context, requestID uuid.UUID) (*models.AccessRequest, error) {
	var req models.AccessRequest
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, deck_id, requester_id, message, status, created_at, updated_at
		FROM access_requests WHERE id = $1
	`, requestID).Scan(
		&req.ID, &req.DeckID, &req.RequesterID, &req.Message, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Approve decides a pending request and grants access in one transaction.
func (s *AccessService) Approve(ctx context.Context, requestID, approverID uuid.UUID) (*models.AccessRequest, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var req models.AccessRequest
	err = tx.QueryRow(ctx, `
		UPDATE access_requests SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING id, deck_id, requester_id, message, status, created_at, updated_at
	`, models.RequestStatusApproved, requestID, models.RequestStatusPending).Scan(
		&req.ID, &req.DeckID, &req.RequesterID, &req.Message, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetRequest(ctx, requestID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrRequestNotPending
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO deck_access (deck_id, user_id, granted_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (deck_id, user_id) DO UPDATE SET revoked_at = NULL, granted_by = $3
	`, req.DeckID, req.RequesterID, approverID)
	if err != nil {
		return nil, fmt.Errorf("failed to grant access: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &req, nil
}

func (s *AccessService) Deny(ctx context.Context, requestID uuid.UUID) (*models.AccessRequest, error) {
	var req models.AccessRequest
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE access_requests SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING id, deck_id, requester_id, message, status, created_at, updated_at
	`, models.RequestStatusDenied, requestID, models.RequestStatusPending).Scan(
		&req.ID, &req.DeckID, &req.RequesterID, &req.Message, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetRequest(ctx, requestID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrRequestNotPending
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}
