package models

import (
	"time"

	"github.com/google/uuid"
)

// Access request statuses.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusDenied   = "denied"
)

// DeckAccess records that a user may view a deck until the grant is revoked.
type DeckAccess struct {
	ID        uuid.UUID  `json:"id"`
	DeckID    uuid.UUID  `json:"deck_id"`
	UserID    uuid.UUID  `json:"user_id"`
	GrantedBy uuid.UUID  `json:"granted_by"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	User      *User      `json:"user,omitempty"`
}

// DeckShare is a tokenized share link for an external recipient. Only the
// hash and a displayable prefix of the token are stored.
type DeckShare struct {
	ID             uuid.UUID  `json:"id"`
	DeckID         uuid.UUID  `json:"deck_id"`
	RecipientEmail string     `json:"recipient_email"`
	TokenHash      string     `json:"-"`
	TokenPrefix    string     `json:"token_prefix"`
	CreatedBy      uuid.UUID  `json:"created_by"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	RevokedAt      *time.Time `json:"revoked_at,omitempty"`
	LastViewedAt   *time.Time `json:"last_viewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type AccessRequest struct {
	ID          uuid.UUID `json:"id"`
	DeckID      uuid.UUID `json:"deck_id"`
	RequesterID uuid.UUID `json:"requester_id"`
	Message     *string   `json:"message,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Requester   *User     `json:"requester,omitempty"`
}
