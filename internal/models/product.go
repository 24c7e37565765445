package models

import (
	"time"

	"github.com/google/uuid"
)

// Product lifecycle statuses.
const (
	ProductStatusDraft     = "draft"
	ProductStatusSubmitted = "submitted"
	ProductStatusApproved  = "approved"
	ProductStatusRejected  = "rejected"
)

// MaxProductsPerUser caps how many products one account may own.
const MaxProductsPerUser = 3

type Product struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Industry    *string   `json:"industry,omitempty"`
	Website     *string   `json:"website,omitempty"`
	LinkedInURL *string   `json:"linkedin_url,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) IsDraft() bool {
	return p.Status == ProductStatusDraft
}

func (p *Product) IsSubmitted() bool {
	return p.Status == ProductStatusSubmitted
}
