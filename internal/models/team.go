package models

import (
	"time"

	"github.com/google/uuid"
)

type TeamMember struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email,omitempty"`
	Role        *string   `json:"role,omitempty"`
	LinkedInURL *string   `json:"linkedin_url,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Founder struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email,omitempty"`
	Title       *string   `json:"title,omitempty"`
	LinkedInURL *string   `json:"linkedin_url,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
