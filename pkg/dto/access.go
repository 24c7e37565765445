package dto

import "github.com/google/uuid"

type GrantAccessRequest struct {
	Email string `json:"email"`
}

type AccessResponse struct {
	ID        uuid.UUID     `json:"id"`
	DeckID    uuid.UUID     `json:"deck_id"`
	UserID    uuid.UUID     `json:"user_id"`
	GrantedBy uuid.UUID     `json:"granted_by"`
	CreatedAt string        `json:"created_at"`
	User      *UserResponse `json:"user,omitempty"`
}

type CreateShareRequest struct {
	RecipientEmail string  `json:"recipient_email"`
	ExpiresInHours *int    `json:"expires_in_hours,omitempty"`
	Message        *string `json:"message,omitempty"`
}

// ShareCreatedResponse carries the plaintext link token exactly once.
type ShareCreatedResponse struct {
	ID             uuid.UUID `json:"id"`
	DeckID         uuid.UUID `json:"deck_id"`
	RecipientEmail string    `json:"recipient_email"`
	Token          string    `json:"token"`
	TokenPrefix    string    `json:"token_prefix"`
	ShareURL       string    `json:"share_url"`
	ExpiresAt      *string   `json:"expires_at,omitempty"`
	CreatedAt      string    `json:"created_at"`
}

type ShareResponse struct {
	ID             uuid.UUID `json:"id"`
	DeckID         uuid.UUID `json:"deck_id"`
	RecipientEmail string    `json:"recipient_email"`
	TokenPrefix    string    `json:"token_prefix"`
	ExpiresAt      *string   `json:"expires_at,omitempty"`
	LastViewedAt   *string   `json:"last_viewed_at,omitempty"`
	CreatedAt      string    `json:"created_at"`
}

type CreateAccessRequestRequest struct {
	Message *string `json:"message,omitempty"`
}

type AccessRequestResponse struct {
	ID          uuid.UUID     `json:"id"`
	DeckID      uuid.UUID     `json:"deck_id"`
	RequesterID uuid.UUID     `json:"requester_id"`
	Message     *string       `json:"message,omitempty"`
	Status      string        `json:"status"`
	CreatedAt   string        `json:"created_at"`
	Requester   *UserResponse `json:"requester,omitempty"`
}
